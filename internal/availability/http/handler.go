package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nuitdor/booking-backend/internal/availability"
	"github.com/nuitdor/booking-backend/internal/pkg/response"
)

type Handler struct {
	service *availability.Service
}

func NewHandler(service *availability.Service) *Handler {
	return &Handler{service: service}
}

type BookedDatesResponse struct {
	Dates []string `json:"dates"`
}

// BookedDates feeds the calendar widget. The list changes with every booking,
// so caching is disabled.
func (h *Handler) BookedDates(c *gin.Context) {
	dates, err := h.service.DisabledDates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if dates == nil {
		dates = []string{}
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, BookedDatesResponse{Dates: dates})
}

func RegisterRoutes(public *gin.RouterGroup, h *Handler) {
	public.GET("/booked-dates", h.BookedDates)
}
