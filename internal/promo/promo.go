package promo

import (
	"context"
	"strings"
)

// Result is the outcome of a promo lookup. DiscountPercent is only meaningful
// when Valid is true.
type Result struct {
	Valid           bool
	DiscountPercent float64
}

// Validator resolves a promo code to a discount. Implementations may hit an
// external service; the error return carries lookup failures so callers can
// decide how to degrade.
type Validator interface {
	Validate(ctx context.Context, code string) (Result, error)
}

// StaticValidator looks codes up in a fixed table, case-insensitively.
type StaticValidator struct {
	codes map[string]float64
}

// NewStaticValidator builds a validator over a code -> percent table. Keys are
// expected upper-cased (the config loader normalizes them).
func NewStaticValidator(codes map[string]float64) *StaticValidator {
	if codes == nil {
		codes = map[string]float64{}
	}
	return &StaticValidator{codes: codes}
}

func (v *StaticValidator) Validate(_ context.Context, code string) (Result, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return Result{}, nil
	}
	percent, ok := v.codes[code]
	if !ok {
		return Result{}, nil
	}
	return Result{Valid: true, DiscountPercent: percent}, nil
}

// Check resolves a code through the validator, degrading any lookup failure
// to an invalid result. Empty codes never reach the validator. Quote callers
// use this so a promo outage can never fail a reservation.
func Check(ctx context.Context, v Validator, code string) Result {
	if strings.TrimSpace(code) == "" {
		return Result{}
	}
	res, err := v.Validate(ctx, code)
	if err != nil {
		return Result{}
	}
	return res
}
