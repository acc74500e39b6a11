package booking

import (
	"net/http"
	"time"

	"github.com/nuitdor/booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrDatesUnavailable = apperror.New(http.StatusConflict, "dates are no longer available")
	ErrMissingContact   = apperror.New(http.StatusBadRequest, "missing required contact fields")
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// Booking is one reservation attempt. DateArrivee is the check-in day
// (inclusive), DateDepart the check-out day (exclusive); both are calendar
// dates at midnight UTC. AmountCents is fixed at creation and is the contract
// amount charged through checkout.
type Booking struct {
	ID              int64
	DateArrivee     time.Time
	DateDepart      time.Time
	Pack            string // comma-joined option keys, or the pack key
	Nom             string
	Email           string
	Telephone       string
	Message         string
	AmountCents     int64
	StripeSessionID string
	Status          Status
	CreatedAt       time.Time
}
