package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nuitdor/booking-backend/internal/blocked"
	"github.com/nuitdor/booking-backend/internal/pkg/request"
	"github.com/nuitdor/booking-backend/internal/pkg/response"
	"github.com/nuitdor/booking-backend/internal/pricing"
)

type Handler struct {
	store blocked.Store
}

func NewHandler(store blocked.Store) *Handler {
	return &Handler{store: store}
}

type BlockDateRequest struct {
	Date string `json:"date" binding:"required,datetime=2006-01-02"`
}

type BlockedDatesResponse struct {
	Dates []string `json:"dates"`
}

func (h *Handler) List(c *gin.Context) {
	dates, err := h.store.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format("2006-01-02")
	}
	c.JSON(http.StatusOK, BlockedDatesResponse{Dates: out})
}

func (h *Handler) Add(c *gin.Context) {
	var body BlockDateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required in YYYY-MM-DD format"})
		return
	}

	date, err := pricing.ParseDate(body.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.store.Add(c.Request.Context(), date); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"date": date.Format("2006-01-02")})
}

func (h *Handler) Remove(c *gin.Context) {
	var uri request.ByDateRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	date, _ := time.Parse("2006-01-02", uri.Date)
	if err := h.store.Remove(c.Request.Context(), date); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func RegisterRoutes(admin *gin.RouterGroup, h *Handler) {
	admin.GET("/blocked-dates", h.List)
	admin.POST("/blocked-dates", h.Add)
	admin.DELETE("/blocked-dates/:date", h.Remove)
}
