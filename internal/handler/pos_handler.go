package handler

import (
	"errors"
	"net/http"

	"github.com/ajedamilola/pharmalink/internal/middleware"
	"github.com/ajedamilola/pharmalink/internal/model"
	"github.com/ajedamilola/pharmalink/internal/service"
	"github.com/ajedamilola/pharmalink/pkg/pagination"
	"github.com/ajedamilola/pharmalink/pkg/response"

	"github.com/gin-gonic/gin"
)

type POSHandler struct {
	posService service.POSService
}

func NewPOSHandler(posService service.POSService) *POSHandler {
	return &POSHandler{posService: posService}
}

func (h *POSHandler) RegisterRoutes(router *gin.RouterGroup) {
	pos := router.Group("/pos", middleware.RequireRole(model.RolePharmacy))
	{
		pos.POST("/sales", h.ProcessSale)
		pos.GET("/sales", h.ListSales)
	}
}

// ProcessSale records a counter sale from a lot
// @Summary      Process counter sale
// @Description  Depletes the lot, credits the wallet and runs the auto-restock check
// @Tags         pos
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ProcessSaleRequest  true  "Sale Payload"
// @Success      201      {object}  response.Response{data=service.SaleResponse}
// @Failure      400      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /pos/sales [post]
func (h *POSHandler) ProcessSale(c *gin.Context) {
	var req service.ProcessSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")
	res, err := h.posService.ProcessSale(c.Request.Context(), userID, req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrSaleExpiredLot) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// ListSales returns the pharmacy's sale history
// @Summary      List counter sales
// @Tags         pos
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /pos/sales [get]
func (h *POSHandler) ListSales(c *gin.Context) {
	p := pagination.Parse(c)
	userID := c.GetString("userID")

	sales, total, err := h.posService.ListSales(c.Request.Context(), userID, p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, sales, total, p.Page, p.Limit))
}
