package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nuitdor/booking-backend/internal/promo"
)

type Handler struct {
	validator promo.Validator
}

func NewHandler(validator promo.Validator) *Handler {
	return &Handler{validator: validator}
}

type ValidatePromoResponse struct {
	Valid           bool    `json:"valid"`
	DiscountPercent float64 `json:"discount_percent,omitempty"`
}

// Validate answers the booking form's promo check. Missing or unknown codes
// and lookup failures all come back as valid=false with 200, never as errors.
func (h *Handler) Validate(c *gin.Context) {
	result := promo.Check(c.Request.Context(), h.validator, c.Query("code"))
	c.JSON(http.StatusOK, ValidatePromoResponse{
		Valid:           result.Valid,
		DiscountPercent: result.DiscountPercent,
	})
}

func RegisterRoutes(public *gin.RouterGroup, h *Handler) {
	public.GET("/validate-promo", h.Validate)
}
