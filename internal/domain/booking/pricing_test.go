package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendhive/service-rental/pkg/domain"
)

func TestStandardPricingQuote(t *testing.T) {
	strategy := NewStandardPricingStrategy()

	quote, err := strategy.Quote(PricingParams{
		DailyRateCents:      10_000, // 100.00/day
		SecurityAmountCents: 25_000,
		MinRentalDays:       1,
		MaxRentalDays:       30,
		Period:              mustRange(t, "2026-03-10", "2026-03-14"),
	})
	require.NoError(t, err)

	assert.Equal(t, 5, quote.TotalDays)
	assert.Equal(t, int64(50_000), quote.TotalRentCents)
	assert.Equal(t, int64(25_000), quote.SecurityAmountCents)
	// 5% of 500.00 is 25.00, inside the clamp window.
	assert.Equal(t, int64(2_500), quote.PlatformFeeCents)
}

func TestStandardPricingFeeFloor(t *testing.T) {
	strategy := NewStandardPricingStrategy()

	quote, err := strategy.Quote(PricingParams{
		DailyRateCents: 2_000,
		MinRentalDays:  1,
		MaxRentalDays:  30,
		Period:         mustRange(t, "2026-03-10", "2026-03-10"),
	})
	require.NoError(t, err)

	// 5% of 20.00 is 1.00; the floor of 10.00 applies.
	assert.Equal(t, int64(2_000), quote.TotalRentCents)
	assert.Equal(t, int64(1_000), quote.PlatformFeeCents)
}

func TestStandardPricingFeeCap(t *testing.T) {
	strategy := NewStandardPricingStrategy()

	quote, err := strategy.Quote(PricingParams{
		DailyRateCents: 200_000, // 2000.00/day
		MinRentalDays:  1,
		MaxRentalDays:  30,
		Period:         mustRange(t, "2026-03-01", "2026-03-10"),
	})
	require.NoError(t, err)

	// 5% of 20,000.00 is 1,000.00; the cap of 500.00 applies.
	assert.Equal(t, int64(2_000_000), quote.TotalRentCents)
	assert.Equal(t, int64(50_000), quote.PlatformFeeCents)
}

func TestStandardPricingDayBounds(t *testing.T) {
	strategy := NewStandardPricingStrategy()

	_, err := strategy.Quote(PricingParams{
		DailyRateCents: 10_000,
		MinRentalDays:  3,
		MaxRentalDays:  14,
		Period:         mustRange(t, "2026-03-10", "2026-03-11"),
	})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindOutOfBounds))

	_, err = strategy.Quote(PricingParams{
		DailyRateCents: 10_000,
		MinRentalDays:  1,
		MaxRentalDays:  7,
		Period:         mustRange(t, "2026-03-01", "2026-03-31"),
	})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindOutOfBounds))
}

func TestStandardPricingBoundaryDays(t *testing.T) {
	strategy := NewStandardPricingStrategy()

	// Exactly the minimum and exactly the maximum both pass.
	quote, err := strategy.Quote(PricingParams{
		DailyRateCents: 10_000,
		MinRentalDays:  3,
		MaxRentalDays:  3,
		Period:         mustRange(t, "2026-03-10", "2026-03-12"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, quote.TotalDays)
}

func TestStandardPricingDeterministic(t *testing.T) {
	strategy := NewStandardPricingStrategy()
	params := PricingParams{
		DailyRateCents:      7_500,
		SecurityAmountCents: 10_000,
		MinRentalDays:       1,
		MaxRentalDays:       30,
		Period:              mustRange(t, "2026-04-01", "2026-04-07"),
	}

	first, err := strategy.Quote(params)
	require.NoError(t, err)
	second, err := strategy.Quote(params)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
