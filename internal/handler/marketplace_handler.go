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

type MarketplaceHandler struct {
	marketplaceService service.MarketplaceService
}

func NewMarketplaceHandler(marketplaceService service.MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{marketplaceService: marketplaceService}
}

func (h *MarketplaceHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/drugs", middleware.RequireVerified(), h.ListDrugs)

	marketplace := router.Group("/marketplace")
	{
		marketplace.GET("/listings", middleware.RequireVerified(), h.ListListings)
		marketplace.POST("/checkout", middleware.RequireRole(model.RolePharmacy), h.Checkout)
	}
}

// ListDrugs returns the shared drug catalogue
// @Summary      List drugs
// @Tags         marketplace
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Param        search  query     string  false  "Search by name"
// @Success      200     {object}  response.Response{data=object}
// @Router       /drugs [get]
func (h *MarketplaceHandler) ListDrugs(c *gin.Context) {
	p := pagination.Parse(c)

	drugs, total, err := h.marketplaceService.ListDrugs(c.Request.Context(), p.Page, p.Limit, c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, drugs, total, p.Page, p.Limit))
}

// ListListings returns active marketplace listings
// @Summary      List marketplace listings
// @Tags         marketplace
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Param        search  query     string  false  "Search by drug name"
// @Success      200     {object}  response.Response{data=object}
// @Router       /marketplace/listings [get]
func (h *MarketplaceHandler) ListListings(c *gin.Context) {
	p := pagination.Parse(c)

	listings, total, err := h.marketplaceService.ListListings(c.Request.Context(), p.Page, p.Limit, c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, listings, total, p.Page, p.Limit))
}

// Checkout places orders for a cart of listings against the wallet
// @Summary      Checkout cart
// @Description  Debits the wallet for goods plus logistics fee and creates one order per line
// @Tags         marketplace
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CheckoutRequest  true  "Checkout Payload"
// @Success      201      {object}  response.Response{data=service.CheckoutResponse}
// @Failure      400      {object}  response.Response
// @Failure      402      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /marketplace/checkout [post]
func (h *MarketplaceHandler) Checkout(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")
	res, err := h.marketplaceService.Checkout(c.Request.Context(), userID, req)
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, service.ErrInsufficientFunds):
			status = http.StatusPaymentRequired
		case errors.Is(err, service.ErrListingUnavailable):
			status = http.StatusConflict
		case errors.Is(err, service.ErrAccountSuspended):
			status = http.StatusForbidden
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}
