package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the public reservation endpoints and the admin booking
// management surface.
func RegisterRoutes(public, admin *gin.RouterGroup, h *Handler) {
	public.POST("/create-reservation", h.CreateReservation)
	public.GET("/confirm-session", h.ConfirmSession)
	public.POST("/webhook/stripe", h.Webhook)

	admin.GET("/bookings", h.AdminList)
	admin.DELETE("/bookings/:id", h.AdminDelete)
}
