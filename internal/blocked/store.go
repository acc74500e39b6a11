package blocked

import (
	"context"
	"time"
)

// Store keeps the set of manually blocked calendar days. Dates are midnight
// UTC; Add on a present date returns ErrAlreadyBlocked, Remove on an absent
// date returns ErrNotBlocked.
type Store interface {
	Add(ctx context.Context, date time.Time) error
	Remove(ctx context.Context, date time.Time) error

	// List returns the blocked dates in ascending order.
	List(ctx context.Context) ([]time.Time, error)
}
