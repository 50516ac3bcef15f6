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

type BuybackHandler struct {
	buybackService service.BuybackService
}

func NewBuybackHandler(buybackService service.BuybackService) *BuybackHandler {
	return &BuybackHandler{buybackService: buybackService}
}

func (h *BuybackHandler) RegisterRoutes(router *gin.RouterGroup) {
	buybacks := router.Group("/buybacks")
	{
		buybacks.POST("", middleware.RequireRole(model.RolePharmacy), h.Submit)
		buybacks.GET("/mine", middleware.RequireRole(model.RolePharmacy), h.ListMine)

		buybacks.GET("", middleware.RequireRole(model.RoleAdmin), h.List)
		buybacks.POST("/:id/approve", middleware.RequireRole(model.RoleAdmin), h.Approve)
		buybacks.POST("/:id/decline", middleware.RequireRole(model.RoleAdmin), h.Decline)
		buybacks.POST("/:id/advance", middleware.RequireRole(model.RoleAdmin), h.Advance)
	}

	admin := router.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	{
		admin.POST("/buyback-suggestions", h.Suggest)
	}
}

// Submit opens a buy-back request for a near-expiry lot
// @Summary      Submit buy-back request
// @Description  Prices the stock from its remaining-shelf tier and queues it for admin review
// @Tags         buybacks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SubmitBuybackRequest  true  "Buy-back Payload"
// @Success      201      {object}  response.Response{data=service.BuybackResponse}
// @Failure      400      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /buybacks [post]
func (h *BuybackHandler) Submit(c *gin.Context) {
	var req service.SubmitBuybackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")
	res, err := h.buybackService.Submit(c.Request.Context(), userID, req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrNotEligible) || errors.Is(err, service.ErrLotExpired) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// ListMine returns the pharmacy's own buy-back requests
// @Summary      List my buy-back requests
// @Tags         buybacks
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /buybacks/mine [get]
func (h *BuybackHandler) ListMine(c *gin.Context) {
	p := pagination.Parse(c)
	userID := c.GetString("userID")

	requests, total, err := h.buybackService.ListMine(c.Request.Context(), userID, p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, requests, total, p.Page, p.Limit))
}

// List returns all buy-back requests for admin review
// @Summary      List buy-back requests
// @Tags         buybacks
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Router       /buybacks [get]
func (h *BuybackHandler) List(c *gin.Context) {
	p := pagination.Parse(c)

	requests, total, err := h.buybackService.List(c.Request.Context(), c.Query("status"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, requests, total, p.Page, p.Limit))
}

// Approve relists an approved request on the marketplace
// @Summary      Approve buy-back request
// @Tags         buybacks
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=service.BuybackResponse}
// @Failure      409  {object}  response.Response
// @Router       /buybacks/{id}/approve [post]
func (h *BuybackHandler) Approve(c *gin.Context) {
	userID := c.GetString("userID")
	res, err := h.buybackService.Approve(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrBuybackNotOpen) {
			status = http.StatusConflict
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// Advance moves an approved request to vendor_matched or completed
// @Summary      Advance buy-back request
// @Tags         buybacks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Request ID"
// @Param        payload  body      service.AdvanceBuybackRequest  true  "Target status"
// @Success      200      {object}  response.Response{data=service.BuybackResponse}
// @Failure      409      {object}  response.Response
// @Router       /buybacks/{id}/advance [post]
func (h *BuybackHandler) Advance(c *gin.Context) {
	var req service.AdvanceBuybackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")
	res, err := h.buybackService.Advance(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrBuybackNotOpen) || errors.Is(err, service.ErrBuybackBackward) {
			status = http.StatusConflict
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// Suggest nudges a pharmacy to submit a near-expiry lot for buy-back
// @Summary      Send buy-back suggestion
// @Tags         buybacks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SuggestBuybackRequest  true  "Target lot"
// @Success      204      {object}  nil
// @Failure      400      {object}  response.Response
// @Router       /admin/buyback-suggestions [post]
func (h *BuybackHandler) Suggest(c *gin.Context) {
	var req service.SuggestBuybackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")
	if err := h.buybackService.Suggest(c.Request.Context(), userID, req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Decline rejects a pending buy-back request
// @Summary      Decline buy-back request
// @Tags         buybacks
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=service.BuybackResponse}
// @Failure      409  {object}  response.Response
// @Router       /buybacks/{id}/decline [post]
func (h *BuybackHandler) Decline(c *gin.Context) {
	userID := c.GetString("userID")
	res, err := h.buybackService.Decline(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrBuybackNotOpen) {
			status = http.StatusConflict
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}
