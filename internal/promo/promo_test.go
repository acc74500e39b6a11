package promo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type failingValidator struct{}

func (failingValidator) Validate(context.Context, string) (Result, error) {
	return Result{}, errors.New("lookup timed out")
}

func TestStaticValidator(t *testing.T) {
	v := NewStaticValidator(map[string]float64{"LOVE10": 10, "VIP15": 15})
	ctx := context.Background()

	res, err := v.Validate(ctx, "LOVE10")
	require.NoError(t, err)
	require.True(t, res.Valid)
	require.Equal(t, 10.0, res.DiscountPercent)

	// Case and surrounding whitespace are ignored.
	res, err = v.Validate(ctx, "  love10 ")
	require.NoError(t, err)
	require.True(t, res.Valid)

	res, err = v.Validate(ctx, "NOPE")
	require.NoError(t, err)
	require.False(t, res.Valid)

	res, err = v.Validate(ctx, "")
	require.NoError(t, err)
	require.False(t, res.Valid)
}

func TestCheckDegradesOnFailure(t *testing.T) {
	res := Check(context.Background(), failingValidator{}, "LOVE10")
	require.False(t, res.Valid)
	require.Equal(t, 0.0, res.DiscountPercent)
}

func TestCheckSkipsLookupForEmptyCode(t *testing.T) {
	// The failing validator would error if reached; an empty code must not
	// trigger a lookup at all.
	res := Check(context.Background(), failingValidator{}, "   ")
	require.False(t, res.Valid)
}
