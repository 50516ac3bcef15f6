package handler

import (
	"net/http"

	"github.com/ajedamilola/pharmalink/internal/middleware"
	"github.com/ajedamilola/pharmalink/internal/model"
	"github.com/ajedamilola/pharmalink/internal/service"
	"github.com/ajedamilola/pharmalink/pkg/response"

	"github.com/gin-gonic/gin"
)

type PharmacyHandler struct {
	pharmacyService service.PharmacyService
}

func NewPharmacyHandler(pharmacyService service.PharmacyService) *PharmacyHandler {
	return &PharmacyHandler{pharmacyService: pharmacyService}
}

func (h *PharmacyHandler) RegisterRoutes(router *gin.RouterGroup) {
	pharmacy := router.Group("/pharmacy", middleware.RequireRole(model.RolePharmacy))
	{
		pharmacy.GET("/profile", h.Profile)
		pharmacy.GET("/documents", h.ListDocuments)
		pharmacy.POST("/documents", h.CreateDocument)
	}
}

// Profile returns the pharmacy profile
// @Summary      Pharmacy profile
// @Tags         pharmacy
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.PharmacyResponse}
// @Router       /pharmacy/profile [get]
func (h *PharmacyHandler) Profile(c *gin.Context) {
	userID := c.GetString("userID")
	res, err := h.pharmacyService.Profile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// ListDocuments returns the pharmacy's paperwork records
// @Summary      List documents
// @Tags         pharmacy
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Router       /pharmacy/documents [get]
func (h *PharmacyHandler) ListDocuments(c *gin.Context) {
	userID := c.GetString("userID")
	docs, err := h.pharmacyService.ListDocuments(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, docs))
}

// CreateDocument records a paperwork entry (metadata only)
// @Summary      Create document
// @Tags         pharmacy
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateDocumentRequest  true  "Document Payload"
// @Success      201      {object}  response.Response{data=service.DocumentResponse}
// @Failure      400      {object}  response.Response
// @Router       /pharmacy/documents [post]
func (h *PharmacyHandler) CreateDocument(c *gin.Context) {
	var req service.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")
	res, err := h.pharmacyService.CreateDocument(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}
