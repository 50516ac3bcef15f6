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

type InventoryHandler struct {
	inventoryService service.InventoryService
}

func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	inventory := router.Group("/inventory", middleware.RequireRole(model.RolePharmacy))
	{
		inventory.GET("/lots", h.ListLots)
		inventory.POST("/lots", h.CreateLot)
		inventory.PATCH("/lots/:id/auto-restock", h.SetAutoRestock)
		inventory.GET("/expiry-tracker", h.ExpiryTracker)
	}
}

// ListLots returns the pharmacy's lots with shelf-life and stock classification
// @Summary      List inventory lots
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /inventory/lots [get]
func (h *InventoryHandler) ListLots(c *gin.Context) {
	p := pagination.Parse(c)
	userID := c.GetString("userID")

	lots, total, err := h.inventoryService.ListLots(c.Request.Context(), userID, p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve lots: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, lots, total, p.Page, p.Limit))
}

// CreateLot records a manually entered batch
// @Summary      Create manual lot
// @Description  Adds a batch by hand. Manual lots can never be placed on auto-restock.
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateLotRequest  true  "Create Lot Payload"
// @Success      201      {object}  response.Response{data=service.LotResponse}
// @Failure      400      {object}  response.Response
// @Router       /inventory/lots [post]
func (h *InventoryHandler) CreateLot(c *gin.Context) {
	var req service.CreateLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")
	lot, err := h.inventoryService.CreateManualLot(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, lot))
}

// SetAutoRestock toggles the auto-restock flag on a lot
// @Summary      Toggle auto-restock
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Lot ID"
// @Param        payload  body      service.SetAutoRestockRequest  true  "Toggle Payload"
// @Success      200      {object}  response.Response{data=service.LotResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /inventory/lots/{id}/auto-restock [patch]
func (h *InventoryHandler) SetAutoRestock(c *gin.Context) {
	var req service.SetAutoRestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")
	lot, err := h.inventoryService.SetAutoRestock(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrManualAutoRestock) {
			status = http.StatusConflict
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, lot))
}

// ExpiryTracker groups lots by expiry urgency
// @Summary      Expiry tracker
// @Description  Buckets lots into critical, warning, caution and expired groups
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.ExpiryTrackerResponse}
// @Failure      500  {object}  response.Response
// @Router       /inventory/expiry-tracker [get]
func (h *InventoryHandler) ExpiryTracker(c *gin.Context) {
	userID := c.GetString("userID")
	tracker, err := h.inventoryService.ExpiryTracker(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to build expiry tracker: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tracker))
}
