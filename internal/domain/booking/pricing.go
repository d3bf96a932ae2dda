package booking

import (
	"fmt"

	"github.com/lendhive/service-rental/pkg/domain"
)

// Quote holds the financial figures derived from item terms and a date range.
// All amounts are integer cents.
type Quote struct {
	TotalDays           int
	TotalRentCents      int64
	SecurityAmountCents int64
	PlatformFeeCents    int64
}

// PricingParams are the item terms a quote is computed from.
type PricingParams struct {
	DailyRateCents      int64
	SecurityAmountCents int64
	MinRentalDays       int
	MaxRentalDays       int
	Period              DateRange
}

// PricingStrategy defines the interface for computing rental quotes.
type PricingStrategy interface {
	// Quote derives the totals for the given terms. Pure: no I/O, same
	// params always yield the same quote.
	Quote(params PricingParams) (Quote, error)
}

// Marketplace commission: 5% of rent, floored and capped.
const (
	platformFeePercent  = 5
	platformFeeMinCents = 1_000  // 10 currency units
	platformFeeMaxCents = 50_000 // 500 currency units
)

// StandardPricingStrategy implements the marketplace's default fee schedule.
type StandardPricingStrategy struct{}

// NewStandardPricingStrategy creates a new StandardPricingStrategy.
func NewStandardPricingStrategy() *StandardPricingStrategy {
	return &StandardPricingStrategy{}
}

// Quote computes total days, rent, deposit, and the clamped platform fee.
func (s *StandardPricingStrategy) Quote(params PricingParams) (Quote, error) {
	days := params.Period.Days()
	if days < params.MinRentalDays {
		return Quote{}, domain.NewOutOfBoundsError(fmt.Sprintf(
			"rental of %d day(s) is below the minimum of %d", days, params.MinRentalDays))
	}
	if params.MaxRentalDays > 0 && days > params.MaxRentalDays {
		return Quote{}, domain.NewOutOfBoundsError(fmt.Sprintf(
			"rental of %d day(s) exceeds the maximum of %d", days, params.MaxRentalDays))
	}

	totalRent := params.DailyRateCents * int64(days)

	fee := totalRent * platformFeePercent / 100
	if fee < platformFeeMinCents {
		fee = platformFeeMinCents
	}
	if fee > platformFeeMaxCents {
		fee = platformFeeMaxCents
	}

	security := params.SecurityAmountCents
	if security < 0 {
		security = 0
	}

	return Quote{
		TotalDays:           days,
		TotalRentCents:      totalRent,
		SecurityAmountCents: security,
		PlatformFeeCents:    fee,
	}, nil
}
