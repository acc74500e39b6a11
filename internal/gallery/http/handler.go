package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nuitdor/booking-backend/internal/gallery"
	"github.com/nuitdor/booking-backend/internal/pkg/response"
)

type Handler struct {
	service *gallery.Service
}

func NewHandler(service *gallery.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	photos, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photos": photos})
}

func (h *Handler) Upload(c *gin.Context) {
	header, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}

	photo, err := h.service.Upload(c.Request.Context(), header)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, photo)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("name")); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func RegisterRoutes(public, admin *gin.RouterGroup, h *Handler) {
	public.GET("/gallery", h.List)

	admin.POST("/gallery", h.Upload)
	admin.DELETE("/gallery/:name", h.Delete)
}
