package availability

import (
	"context"
	"sort"
	"time"

	"github.com/nuitdor/booking-backend/internal/blocked"
	"github.com/nuitdor/booking-backend/internal/booking"
)

const dateLayout = "2006-01-02"

// Service derives the unavailable-day calendar from active reservations and
// manually blocked dates.
type Service struct {
	bookings booking.Store
	blocked  blocked.Store
}

func NewService(bookings booking.Store, blockedStore blocked.Store) *Service {
	return &Service{bookings: bookings, blocked: blockedStore}
}

// DisabledDates returns every unavailable calendar day as YYYY-MM-DD strings,
// sorted ascending with no duplicates: the nights of every pending or paid
// reservation (check-in inclusive, check-out exclusive) plus every manually
// blocked date.
func (s *Service) DisabledDates(ctx context.Context) ([]string, error) {
	set := make(map[string]struct{})

	active, err := s.bookings.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range active {
		for cursor := b.DateArrivee; cursor.Before(b.DateDepart); cursor = cursor.AddDate(0, 0, 1) {
			set[cursor.Format(dateLayout)] = struct{}{}
		}
	}

	blockedDates, err := s.blocked.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range blockedDates {
		set[d.Format(dateLayout)] = struct{}{}
	}

	dates := make([]string, 0, len(set))
	for d := range set {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates, nil
}

// IsRangeFree reports whether the stay [arrivee, depart) collides with no
// active reservation and contains no blocked date.
func (s *Service) IsRangeFree(ctx context.Context, arrivee, depart time.Time) (bool, error) {
	active, err := s.bookings.ListActive(ctx)
	if err != nil {
		return false, err
	}
	for _, b := range active {
		if b.DateArrivee.Before(depart) && b.DateDepart.After(arrivee) {
			return false, nil
		}
	}

	blockedDates, err := s.blocked.List(ctx)
	if err != nil {
		return false, err
	}
	for _, d := range blockedDates {
		if !d.Before(arrivee) && d.Before(depart) {
			return false, nil
		}
	}
	return true, nil
}
