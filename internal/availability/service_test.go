package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuitdor/booking-backend/internal/blocked"
	"github.com/nuitdor/booking-backend/internal/booking"
)

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func addBooking(t *testing.T, store booking.Store, arrivee, depart string, paid bool) *booking.Booking {
	t.Helper()
	b := &booking.Booking{
		DateArrivee: day(arrivee),
		DateDepart:  day(depart),
		Nom:         "Test",
		Email:       "test@example.com",
		AmountCents: 15500,
	}
	require.NoError(t, store.Create(context.Background(), b))
	if paid {
		_, transitioned, err := store.MarkPaid(context.Background(), b.ID, "cs_test")
		require.NoError(t, err)
		require.True(t, transitioned)
	}
	return b
}

func TestDisabledDates(t *testing.T) {
	bookings := booking.NewMemoryStore()
	blockedStore := blocked.NewMemoryStore()
	svc := NewService(bookings, blockedStore)
	ctx := context.Background()

	// Paid stay covering two nights plus one manually blocked day:
	// exactly three disabled dates, check-out day excluded.
	addBooking(t, bookings, "2024-06-01", "2024-06-03", true)
	require.NoError(t, blockedStore.Add(ctx, day("2024-06-05")))

	dates, err := svc.DisabledDates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-01", "2024-06-02", "2024-06-05"}, dates)
}

func TestDisabledDatesDeduplicates(t *testing.T) {
	bookings := booking.NewMemoryStore()
	blockedStore := blocked.NewMemoryStore()
	svc := NewService(bookings, blockedStore)
	ctx := context.Background()

	addBooking(t, bookings, "2024-06-01", "2024-06-02", false)
	require.NoError(t, blockedStore.Add(ctx, day("2024-06-01")))

	dates, err := svc.DisabledDates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-01"}, dates)
}

func TestDisabledDatesEmptyCalendar(t *testing.T) {
	svc := NewService(booking.NewMemoryStore(), blocked.NewMemoryStore())

	dates, err := svc.DisabledDates(context.Background())
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestIsRangeFreeBookingOverlap(t *testing.T) {
	bookings := booking.NewMemoryStore()
	svc := NewService(bookings, blocked.NewMemoryStore())
	ctx := context.Background()

	addBooking(t, bookings, "2024-06-10", "2024-06-13", false)

	cases := []struct {
		name            string
		arrivee, depart string
		free            bool
	}{
		{"identical range", "2024-06-10", "2024-06-13", false},
		{"overlaps start", "2024-06-08", "2024-06-11", false},
		{"overlaps end", "2024-06-12", "2024-06-15", false},
		{"contained", "2024-06-11", "2024-06-12", false},
		{"contains", "2024-06-09", "2024-06-14", false},
		{"ends on check-in", "2024-06-08", "2024-06-10", true},
		{"starts on check-out", "2024-06-13", "2024-06-15", true},
		{"disjoint", "2024-06-20", "2024-06-22", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			free, err := svc.IsRangeFree(ctx, day(tc.arrivee), day(tc.depart))
			require.NoError(t, err)
			assert.Equal(t, tc.free, free)
		})
	}
}

func TestIsRangeFreeBlockedDate(t *testing.T) {
	blockedStore := blocked.NewMemoryStore()
	svc := NewService(booking.NewMemoryStore(), blockedStore)
	ctx := context.Background()

	require.NoError(t, blockedStore.Add(ctx, day("2024-06-11")))

	free, err := svc.IsRangeFree(ctx, day("2024-06-10"), day("2024-06-12"))
	require.NoError(t, err)
	assert.False(t, free)

	// A block on the check-out day does not collide: the guest leaves that
	// morning.
	free, err = svc.IsRangeFree(ctx, day("2024-06-09"), day("2024-06-11"))
	require.NoError(t, err)
	assert.True(t, free)
}
