package payment

import (
	"context"
	"net/http"

	"github.com/nuitdor/booking-backend/internal/booking"
	"github.com/nuitdor/booking-backend/internal/pkg/apperror"
)

// ErrNotConfigured means no payment credentials were supplied; the
// reservation is still recorded so it can be settled out of band.
var ErrNotConfigured = apperror.New(http.StatusServiceUnavailable, "payment provider is not configured")

// Session is the provider-neutral view of a hosted checkout session.
type Session struct {
	ID        string
	URL       string
	Paid      bool
	BookingID int64
}

// Event is a verified webhook notification. SessionCompleted is the only kind
// this backend acts on; other event types parse with Completed=false.
type Event struct {
	Completed bool
	Session   Session
}

// CheckoutProvider creates and inspects hosted checkout sessions.
type CheckoutProvider interface {
	// CreateSession opens a hosted checkout page charging the booking's
	// amount. The booking id travels in the session metadata so the webhook
	// can route the payment back.
	CreateSession(ctx context.Context, b *booking.Booking) (*Session, error)

	// RetrieveSession fetches the current state of a session by id.
	RetrieveSession(ctx context.Context, sessionID string) (*Session, error)

	// ParseWebhookEvent verifies the raw payload against the signature
	// header and decodes the event.
	ParseWebhookEvent(payload []byte, signature string) (*Event, error)
}
