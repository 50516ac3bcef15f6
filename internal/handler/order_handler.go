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

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders", middleware.RequireRole(model.RolePharmacy))
	{
		orders.GET("", h.ListPharmacyOrders)
		orders.POST("/:id/confirm-delivery", h.ConfirmDelivery)
	}
	router.GET("/purchase-orders", middleware.RequireRole(model.RolePharmacy), h.ListPharmacyPurchaseOrders)
	router.POST("/disputes", middleware.RequireRole(model.RolePharmacy), h.CreateDispute)

	vendor := router.Group("/vendor", middleware.RequireRole(model.RoleVendor))
	{
		vendor.GET("/orders", h.ListVendorOrders)
		vendor.PATCH("/orders/:id/status", h.AdvanceStatus)
		vendor.GET("/purchase-orders", h.ListVendorPurchaseOrders)
		vendor.POST("/purchase-orders/:id/approve", h.ApprovePurchaseOrder)
		vendor.POST("/purchase-orders/:id/fulfill", h.FulfillPurchaseOrder)
	}
}

// ListPharmacyOrders returns the pharmacy's orders
// @Summary      List my orders
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Router       /orders [get]
func (h *OrderHandler) ListPharmacyOrders(c *gin.Context) {
	p := pagination.Parse(c)
	userID := c.GetString("userID")

	orders, total, err := h.orderService.ListPharmacyOrders(c.Request.Context(), userID, c.Query("status"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, orders, total, p.Page, p.Limit))
}

// ConfirmDelivery marks an out-for-delivery order as received
// @Summary      Confirm delivery
// @Description  Marks the order delivered and folds the stock into inventory
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      409  {object}  response.Response
// @Router       /orders/{id}/confirm-delivery [post]
func (h *OrderHandler) ConfirmDelivery(c *gin.Context) {
	userID := c.GetString("userID")
	res, err := h.orderService.ConfirmDelivery(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrNotDeliverable) {
			status = http.StatusConflict
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// ListPharmacyPurchaseOrders returns restock purchase orders for the pharmacy
// @Summary      List my purchase orders
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /purchase-orders [get]
func (h *OrderHandler) ListPharmacyPurchaseOrders(c *gin.Context) {
	p := pagination.Parse(c)
	userID := c.GetString("userID")

	pos, total, err := h.orderService.ListPharmacyPurchaseOrders(c.Request.Context(), userID, p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, pos, total, p.Page, p.Limit))
}

// CreateDispute opens a dispute against a vendor order
// @Summary      Open dispute
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateDisputeRequest  true  "Dispute Payload"
// @Success      201      {object}  response.Response{data=service.DisputeResponse}
// @Failure      400      {object}  response.Response
// @Router       /disputes [post]
func (h *OrderHandler) CreateDispute(c *gin.Context) {
	var req service.CreateDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")
	res, err := h.orderService.CreateDispute(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// ListVendorOrders returns orders placed against the vendor
// @Summary      List vendor orders
// @Tags         vendor
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Router       /vendor/orders [get]
func (h *OrderHandler) ListVendorOrders(c *gin.Context) {
	p := pagination.Parse(c)
	userID := c.GetString("userID")

	orders, total, err := h.orderService.ListVendorOrders(c.Request.Context(), userID, c.Query("status"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, orders, total, p.Page, p.Limit))
}

// AdvanceStatus moves an order forward along the delivery chain
// @Summary      Advance order status
// @Tags         vendor
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Order ID"
// @Param        payload  body      service.AdvanceOrderRequest  true  "Status Payload"
// @Success      200      {object}  response.Response{data=service.OrderResponse}
// @Failure      409      {object}  response.Response
// @Router       /vendor/orders/{id}/status [patch]
func (h *OrderHandler) AdvanceStatus(c *gin.Context) {
	var req service.AdvanceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")
	res, err := h.orderService.AdvanceStatus(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrBackwardStatus) {
			status = http.StatusConflict
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// ListVendorPurchaseOrders returns restock requests routed to the vendor
// @Summary      List vendor purchase orders
// @Tags         vendor
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by approval status"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Router       /vendor/purchase-orders [get]
func (h *OrderHandler) ListVendorPurchaseOrders(c *gin.Context) {
	p := pagination.Parse(c)
	userID := c.GetString("userID")

	pos, total, err := h.orderService.ListVendorPurchaseOrders(c.Request.Context(), userID, c.Query("status"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, pos, total, p.Page, p.Limit))
}

// ApprovePurchaseOrder accepts a pending restock request
// @Summary      Approve purchase order
// @Tags         vendor
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Purchase Order ID"
// @Success      200  {object}  response.Response{data=service.PurchaseOrderResponse}
// @Failure      409  {object}  response.Response
// @Router       /vendor/purchase-orders/{id}/approve [post]
func (h *OrderHandler) ApprovePurchaseOrder(c *gin.Context) {
	userID := c.GetString("userID")
	res, err := h.orderService.ApprovePurchaseOrder(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrPONotPending) {
			status = http.StatusConflict
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// FulfillPurchaseOrder converts an approved restock request into an order
// @Summary      Fulfill purchase order
// @Tags         vendor
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Purchase Order ID"
// @Success      200  {object}  response.Response{data=service.PurchaseOrderResponse}
// @Failure      409  {object}  response.Response
// @Router       /vendor/purchase-orders/{id}/fulfill [post]
func (h *OrderHandler) FulfillPurchaseOrder(c *gin.Context) {
	userID := c.GetString("userID")
	res, err := h.orderService.FulfillPurchaseOrder(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrPONotApproved) {
			status = http.StatusConflict
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}
