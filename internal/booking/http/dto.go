package http

import (
	"strings"
	"time"

	"github.com/nuitdor/booking-backend/internal/booking"
)

// CreateReservationRequest is the public booking form payload. Addons carries
// menu-mode extras, Pack the pack-mode choice; either may be empty.
type CreateReservationRequest struct {
	DateArrivee string   `json:"date_arrivee" binding:"required,datetime=2006-01-02"`
	DateDepart  string   `json:"date_depart" binding:"required,datetime=2006-01-02"`
	Addons      []string `json:"addons"`
	Pack        string   `json:"pack"`
	Nom         string   `json:"nom" binding:"required"`
	Email       string   `json:"email" binding:"required,email"`
	Telephone   string   `json:"telephone"`
	Message     string   `json:"message"`
	PromoCode   string   `json:"promo_code"`
}

// packField joins the chosen extras into the single stored field.
func (r *CreateReservationRequest) packField() string {
	if r.Pack != "" {
		return r.Pack
	}
	return strings.Join(r.Addons, ",")
}

type CreateReservationResponse struct {
	URL         string `json:"url"`
	SessionID   string `json:"session_id"`
	BookingID   int64  `json:"booking_id"`
	AmountCents int64  `json:"amount_cents"`
}

type ConfirmSessionRequest struct {
	SessionID string `form:"session_id" binding:"required"`
}

type BookingResponse struct {
	ID          int64     `json:"id"`
	DateArrivee string    `json:"date_arrivee"`
	DateDepart  string    `json:"date_depart"`
	Pack        string    `json:"pack"`
	Nom         string    `json:"nom"`
	Email       string    `json:"email"`
	Telephone   string    `json:"telephone,omitempty"`
	Message     string    `json:"message,omitempty"`
	AmountCents int64     `json:"amount_cents"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:          b.ID,
		DateArrivee: b.DateArrivee.Format("2006-01-02"),
		DateDepart:  b.DateDepart.Format("2006-01-02"),
		Pack:        b.Pack,
		Nom:         b.Nom,
		Email:       b.Email,
		Telephone:   b.Telephone,
		Message:     b.Message,
		AmountCents: b.AmountCents,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
	}
}

type ConfirmSessionResponse struct {
	OK      bool            `json:"ok"`
	Already bool            `json:"already,omitempty"`
	Booking BookingResponse `json:"booking"`
}
