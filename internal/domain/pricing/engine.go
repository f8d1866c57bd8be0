package pricing

import (
	"math"

	"catering/internal/domain/catalog"
	"catering/internal/domain/selection"

	"github.com/shopspring/decimal"
)

const (
	// VolumeDiscountGuests is the guest count from which the discount applies.
	VolumeDiscountGuests = 100
)

var (
	volumeDiscountFactor = decimal.RequireFromString("0.9")
	// maxAmount bounds every quoted Rand amount.
	maxAmount = decimal.NewFromInt(math.MaxInt32)
)

// FeeResolver resolves a postal code to a travel fee, nil when unresolved.
type FeeResolver interface {
	Fee(postalCode string) *int
}

type Quote struct {
	BasePrice         int  `json:"base_price"`
	ExtrasPerPerson   int  `json:"extras_per_person"`
	PricePerPerson    int  `json:"price_per_person"`
	Subtotal          int  `json:"subtotal"`
	TravelFee         int  `json:"travel_fee"`
	TravelFeeResolved bool `json:"travel_fee_resolved"`
	Total             int  `json:"total"`
	DiscountApplied   bool `json:"discount_applied"`
	// OutOfRange is set, with every amount zeroed, when the totals cannot
	// be represented.
	OutOfRange bool `json:"out_of_range,omitempty"`
}

// Price computes the quote for a selection. It has no side effects.
// Group-priced extras and the volume discount are each rounded half away
// from zero on their own; the order matters.
func Price(s selection.State, c *catalog.Catalog, fees FeeResolver) Quote {
	if !s.HasPackage() {
		return Quote{}
	}
	pkg, err := c.Package(s.SelectedPackage)
	if err != nil {
		return Quote{}
	}

	base := pkg.BasePrice(s.IncludeCutlery)
	extras := extrasPerPerson(s, c)

	perPerson := base + extras
	discount := s.NumGuests >= VolumeDiscountGuests
	if discount {
		perPerson = int(decimal.NewFromInt(int64(perPerson)).Mul(volumeDiscountFactor).Round(0).IntPart())
	}

	q := Quote{
		BasePrice:       base,
		ExtrasPerPerson: extras,
		PricePerPerson:  perPerson,
		DiscountApplied: discount,
	}

	if fees != nil {
		if fee := fees.Fee(s.PostalCode); fee != nil {
			q.TravelFee = *fee
			q.TravelFeeResolved = true
		}
	}

	subtotal := decimal.NewFromInt(int64(perPerson)).Mul(decimal.NewFromInt(int64(s.NumGuests)))
	total := subtotal.Add(decimal.NewFromInt(int64(q.TravelFee)))
	if subtotal.IsNegative() || total.GreaterThan(maxAmount) {
		return Quote{OutOfRange: true}
	}
	q.Subtotal = int(subtotal.IntPart())
	q.Total = int(total.IntPart())

	return q
}

func extrasPerPerson(s selection.State, c *catalog.Catalog) int {
	total := 0
	for _, id := range s.Extras {
		opt, ok := c.Get(id)
		if !ok || opt.Category != catalog.CategoryExtra {
			continue
		}
		total += ExtraPerPerson(opt, s.NumGuests)
	}
	return total
}

// ExtraPerPerson is the per-person share of an extra. Group-priced extras
// are amortised over the guests; with no guests the raw price is used.
func ExtraPerPerson(opt catalog.MenuOption, numGuests int) int {
	if opt.PricingUnit != catalog.PerGroup {
		return opt.Price
	}
	if numGuests == 0 {
		return opt.Price
	}
	share := decimal.NewFromInt(int64(opt.Price)).Div(decimal.NewFromInt(int64(numGuests)))
	return int(share.Round(0).IntPart())
}
