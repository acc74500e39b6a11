package booking

import "context"

// Store persists bookings. Implementations assign the ID and CreatedAt on
// Create and must keep IDs monotonic within one store.
type Store interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)

	// ListAll returns every booking, newest first.
	ListAll(ctx context.Context) ([]*Booking, error)

	// ListActive returns bookings whose dates occupy the calendar, i.e.
	// status pending or paid.
	ListActive(ctx context.Context) ([]*Booking, error)

	// MarkPaid transitions the booking to paid and attaches the payment
	// session reference. The transition is a compare-and-set on status:
	// the bool reports whether this call performed the transition, so two
	// racing confirmations observe exactly one true.
	MarkPaid(ctx context.Context, id int64, sessionID string) (*Booking, bool, error)

	Delete(ctx context.Context, id int64) error
}
