package pricing

import (
	"math"
	"net/http"
	"time"

	"github.com/nuitdor/booking-backend/internal/pkg/apperror"
)

var (
	ErrInvalidRange = apperror.New(http.StatusBadRequest, "departure date must be after arrival date")
	ErrAmountTooLow = apperror.New(http.StatusBadRequest, "amount below the minimum chargeable total")
	ErrBadDate      = apperror.New(http.StatusBadRequest, "invalid date (expected YYYY-MM-DD)")
)

// Mode selects the base-price policy.
type Mode string

const (
	// ModeFlat charges the same nightly rate for every night.
	ModeFlat Mode = "flat"
	// ModeDayOfWeek charges per night depending on the weekday the night
	// falls on: weekend days use the weekend rate, all others the weekday rate.
	ModeDayOfWeek Mode = "dayofweek"
)

// AddonMode selects how extras are priced.
type AddonMode string

const (
	// AddonMenu sums a menu of independently selected options.
	AddonMenu AddonMode = "menu"
	// SinglePack prices one mutually-exclusive pack selection.
	SinglePack AddonMode = "pack"
)

const dateLayout = "2006-01-02"

// Config is the full pricing policy. All amounts are in cents.
type Config struct {
	Mode             Mode
	NightlyRateCents int64
	WeekdayRateCents int64
	WeekendRateCents int64
	WeekendDays      []time.Weekday

	AddonMode         AddonMode
	OptionPricesCents map[string]int64
	PackPricesCents   map[string]int64

	MultiNightMinNights       int
	MultiNightDiscountPercent float64

	MinAmountCents int64
}

// Selection carries the extras chosen by the guest. Options is read in menu
// mode, Pack in pack mode; the unused field is ignored.
type Selection struct {
	Options []string
	Pack    string
}

// Quote is an itemized price for a stay. DiscountCents covers both the
// multi-night and the promo discount.
type Quote struct {
	Nights        int
	BaseCents     int64
	AddonsCents   int64
	DiscountCents int64
	TotalCents    int64
}

// Calculator computes deterministic quotes from a fixed Config.
type Calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// ParseDate parses a YYYY-MM-DD calendar date, normalized to midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	return t, nil
}

// NightRateCents returns the price of the night starting on the given calendar
// day. It is pure and callable per day so the calendar UI can reuse it.
func (c *Calculator) NightRateCents(day time.Time) int64 {
	if c.cfg.Mode == ModeFlat {
		return c.cfg.NightlyRateCents
	}
	weekday := day.Weekday()
	for _, d := range c.cfg.WeekendDays {
		if d == weekday {
			return c.cfg.WeekendRateCents
		}
	}
	return c.cfg.WeekdayRateCents
}

// Quote computes the itemized price for the stay [arrivee, depart) with the
// given extras. promoPercent is the externally validated promo discount and
// must be 0 when no promo applies. Discounts compose multiplicatively; the
// total is rounded half-up to cents once, at the end.
func (c *Calculator) Quote(arrivee, depart time.Time, sel Selection, promoPercent float64) (*Quote, error) {
	arrivee = midnight(arrivee)
	depart = midnight(depart)
	if !depart.After(arrivee) {
		return nil, ErrInvalidRange
	}

	var nights int
	var baseCents int64
	for cursor := arrivee; cursor.Before(depart); cursor = cursor.AddDate(0, 0, 1) {
		baseCents += c.NightRateCents(cursor)
		nights++
	}

	addonsCents := c.addonsCents(sel)
	subtotal := baseCents + addonsCents

	amount := float64(subtotal)
	if nights >= c.cfg.MultiNightMinNights {
		amount *= 1 - c.cfg.MultiNightDiscountPercent/100
	}
	if promoPercent > 0 {
		amount *= 1 - promoPercent/100
	}
	totalCents := int64(math.Floor(amount + 0.5))

	if totalCents < c.cfg.MinAmountCents {
		return nil, ErrAmountTooLow
	}

	return &Quote{
		Nights:        nights,
		BaseCents:     baseCents,
		AddonsCents:   addonsCents,
		DiscountCents: subtotal - totalCents,
		TotalCents:    totalCents,
	}, nil
}

// addonsCents prices the extras. Unknown keys price at zero, matching the
// permissive lookup the booking form relies on.
func (c *Calculator) addonsCents(sel Selection) int64 {
	if c.cfg.AddonMode == SinglePack {
		return c.cfg.PackPricesCents[sel.Pack]
	}

	var total int64
	seen := make(map[string]struct{}, len(sel.Options))
	for _, key := range sel.Options {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		total += c.cfg.OptionPricesCents[key]
	}
	return total
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
