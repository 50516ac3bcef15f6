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

type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	{
		admin.GET("/overview", h.Overview)
		admin.GET("/pharmacies", h.ListPharmacies)
		admin.POST("/pharmacies/:id/toggle-status", h.TogglePharmacyStatus)
		admin.GET("/vendors", h.ListVendors)
		admin.POST("/vendors/:id/verification", h.DecideVendorVerification)
		admin.GET("/disputes", h.ListDisputes)
		admin.POST("/disputes/:id/resolve", h.ResolveDispute)
		admin.GET("/orders", h.ListOrders)
		admin.POST("/drugs", h.CreateDrug)
		admin.GET("/config/:key", h.GetConfig)
		admin.PUT("/config/:key", h.SetConfig)
		admin.GET("/audit-logs", h.ListAuditLogs)
	}
}

// Overview returns the admin dashboard headline numbers
// @Summary      Platform overview
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.OverviewResponse}
// @Router       /admin/overview [get]
func (h *AdminHandler) Overview(c *gin.Context) {
	res, err := h.adminService.Overview(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// ListPharmacies returns all pharmacy tenants
// @Summary      List pharmacies
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        search  query     string  false  "Search by name"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Router       /admin/pharmacies [get]
func (h *AdminHandler) ListPharmacies(c *gin.Context) {
	p := pagination.Parse(c)

	pharmacies, total, err := h.adminService.ListPharmacies(c.Request.Context(), p.Page, p.Limit, c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, pharmacies, total, p.Page, p.Limit))
}

// TogglePharmacyStatus flips a pharmacy between active and suspended
// @Summary      Toggle pharmacy status
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Pharmacy ID"
// @Success      200  {object}  response.Response{data=service.PharmacyResponse}
// @Failure      400  {object}  response.Response
// @Router       /admin/pharmacies/{id}/toggle-status [post]
func (h *AdminHandler) TogglePharmacyStatus(c *gin.Context) {
	userID := c.GetString("userID")
	res, err := h.adminService.TogglePharmacyStatus(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// ListVendors returns vendors, optionally filtered by verification status
// @Summary      List vendors
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by verification status"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Router       /admin/vendors [get]
func (h *AdminHandler) ListVendors(c *gin.Context) {
	p := pagination.Parse(c)

	vendors, total, err := h.adminService.ListVendors(c.Request.Context(), c.Query("status"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, vendors, total, p.Page, p.Limit))
}

// DecideVendorVerification verifies or rejects a vendor
// @Summary      Decide vendor verification
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Vendor ID"
// @Param        payload  body      service.VendorDecisionRequest  true  "Decision Payload"
// @Success      200      {object}  response.Response{data=service.VendorResponse}
// @Failure      400      {object}  response.Response
// @Router       /admin/vendors/{id}/verification [post]
func (h *AdminHandler) DecideVendorVerification(c *gin.Context) {
	var req service.VendorDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")
	res, err := h.adminService.DecideVendorVerification(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// ListDisputes returns disputes, optionally filtered by status
// @Summary      List disputes
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Router       /admin/disputes [get]
func (h *AdminHandler) ListDisputes(c *gin.Context) {
	p := pagination.Parse(c)

	disputes, total, err := h.adminService.ListDisputes(c.Request.Context(), c.Query("status"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, disputes, total, p.Page, p.Limit))
}

// ResolveDispute closes or escalates an open dispute
// @Summary      Resolve dispute
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Dispute ID"
// @Param        payload  body      service.ResolveDisputeRequest  true  "Resolution Payload"
// @Success      200      {object}  response.Response{data=service.DisputeResponse}
// @Failure      409      {object}  response.Response
// @Router       /admin/disputes/{id}/resolve [post]
func (h *AdminHandler) ResolveDispute(c *gin.Context) {
	var req service.ResolveDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")
	res, err := h.adminService.ResolveDispute(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrDisputeClosed) {
			status = http.StatusConflict
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// ListOrders returns all orders across the network
// @Summary      List all orders
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Router       /admin/orders [get]
func (h *AdminHandler) ListOrders(c *gin.Context) {
	p := pagination.Parse(c)

	orders, total, err := h.adminService.ListOrders(c.Request.Context(), c.Query("status"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, orders, total, p.Page, p.Limit))
}

// CreateDrug adds a medicine to the shared catalogue
// @Summary      Create drug
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateDrugRequest  true  "Drug Payload"
// @Success      201      {object}  response.Response{data=service.DrugResponse}
// @Failure      400      {object}  response.Response
// @Router       /admin/drugs [post]
func (h *AdminHandler) CreateDrug(c *gin.Context) {
	var req service.CreateDrugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	res, err := h.adminService.CreateDrug(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// GetConfig returns one platform config entry
// @Summary      Get platform config
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        key  path      string  true  "Config key"
// @Success      200  {object}  response.Response{data=service.ConfigResponse}
// @Failure      404  {object}  response.Response
// @Router       /admin/config/{key} [get]
func (h *AdminHandler) GetConfig(c *gin.Context) {
	res, err := h.adminService.GetConfig(c.Request.Context(), c.Param("key"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// SetConfig upserts one platform config entry
// @Summary      Set platform config
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        key      path      string                    true  "Config key"
// @Param        payload  body      service.SetConfigRequest  true  "Config Payload"
// @Success      200      {object}  response.Response{data=service.ConfigResponse}
// @Failure      400      {object}  response.Response
// @Router       /admin/config/{key} [put]
func (h *AdminHandler) SetConfig(c *gin.Context) {
	var req service.SetConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")
	res, err := h.adminService.SetConfig(c.Request.Context(), userID, c.Param("key"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// ListAuditLogs returns the audit trail
// @Summary      List audit logs
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        event_type  query     string  false  "Filter by event type"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Items per page (default 20)"
// @Success      200         {object}  response.Response{data=object}
// @Router       /admin/audit-logs [get]
func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)

	logs, total, err := h.adminService.ListAuditLogs(c.Request.Context(), c.Query("event_type"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, logs, total, p.Page, p.Limit))
}
