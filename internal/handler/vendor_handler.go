package handler

import (
	"net/http"

	"github.com/ajedamilola/pharmalink/internal/middleware"
	"github.com/ajedamilola/pharmalink/internal/model"
	"github.com/ajedamilola/pharmalink/internal/service"
	"github.com/ajedamilola/pharmalink/pkg/pagination"
	"github.com/ajedamilola/pharmalink/pkg/response"

	"github.com/gin-gonic/gin"
)

type VendorHandler struct {
	vendorService service.VendorService
}

func NewVendorHandler(vendorService service.VendorService) *VendorHandler {
	return &VendorHandler{vendorService: vendorService}
}

func (h *VendorHandler) RegisterRoutes(router *gin.RouterGroup) {
	vendor := router.Group("/vendor", middleware.RequireRole(model.RoleVendor))
	{
		vendor.GET("/profile", h.Profile)
		vendor.GET("/products", h.ListProducts)
		vendor.POST("/products", h.CreateProduct)
		vendor.PUT("/products/:id", h.UpdateProduct)
		vendor.POST("/documents", h.SubmitDocument)
	}
}

// Profile returns the vendor profile with verification statuses
// @Summary      Vendor profile
// @Tags         vendor
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.VendorResponse}
// @Router       /vendor/profile [get]
func (h *VendorHandler) Profile(c *gin.Context) {
	userID := c.GetString("userID")
	res, err := h.vendorService.Profile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// ListProducts returns the vendor's catalogue
// @Summary      List vendor products
// @Tags         vendor
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /vendor/products [get]
func (h *VendorHandler) ListProducts(c *gin.Context) {
	p := pagination.Parse(c)
	userID := c.GetString("userID")

	products, total, err := h.vendorService.ListProducts(c.Request.Context(), userID, p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, products, total, p.Page, p.Limit))
}

// CreateProduct adds a catalogue entry and syncs its marketplace listing
// @Summary      Create vendor product
// @Tags         vendor
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.UpsertProductRequest  true  "Product Payload"
// @Success      201      {object}  response.Response{data=service.VendorProductResponse}
// @Failure      400      {object}  response.Response
// @Router       /vendor/products [post]
func (h *VendorHandler) CreateProduct(c *gin.Context) {
	var req service.UpsertProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")
	res, err := h.vendorService.CreateProduct(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// UpdateProduct updates a catalogue entry and syncs its marketplace listing
// @Summary      Update vendor product
// @Tags         vendor
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Product ID"
// @Param        payload  body      service.UpsertProductRequest  true  "Product Payload"
// @Success      200      {object}  response.Response{data=service.VendorProductResponse}
// @Failure      400      {object}  response.Response
// @Router       /vendor/products/{id} [put]
func (h *VendorHandler) UpdateProduct(c *gin.Context) {
	var req service.UpsertProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")
	res, err := h.vendorService.UpdateProduct(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// SubmitDocument queues a compliance document for admin review
// @Summary      Submit verification document
// @Tags         vendor
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SubmitVendorDocumentRequest  true  "Document Payload"
// @Success      200      {object}  response.Response{data=service.VendorResponse}
// @Failure      400      {object}  response.Response
// @Router       /vendor/documents [post]
func (h *VendorHandler) SubmitDocument(c *gin.Context) {
	var req service.SubmitVendorDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")
	res, err := h.vendorService.SubmitVerificationDocument(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}
