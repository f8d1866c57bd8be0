package submission

import (
	"time"

	"catering/internal/domain/booking"
	"catering/internal/domain/catalog"
	"catering/internal/domain/pricing"
	"catering/internal/domain/selection"
)

// buildBooking freezes the selection, prices and form into a booking.
func buildBooking(s selection.State, f booking.Form, c *catalog.Catalog, r Resolver, q pricing.Quote, ref, userID string, now time.Time) booking.Booking {
	f = f.Normalized()
	return booking.Booking{
		BookingReference: ref,
		UserID:           userID,
		Name:             f.Name,
		Email:            f.Email,
		Phone:            f.Phone,
		EventDate:        f.EventDate,
		VenueAddress:     f.VenueAddress,
		BillingAddress:   f.BillingAddress,
		ReferralSource:   f.ReferralSource,
		Notes:            f.Notes,
		MenuSnapshot:     snapshot(s, c, r),
		PricePerPerson:   q.PricePerPerson,
		MenuSubtotal:     q.Subtotal,
		TravelFee:        q.TravelFee,
		TotalPrice:       q.Total,
		DiscountApplied:  q.DiscountApplied,
		Status:           booking.StatusPendingPayment,
		CreatedAt:        now.UTC(),
	}
}

func snapshot(s selection.State, c *catalog.Catalog, r Resolver) booking.MenuSnapshot {
	snap := booking.MenuSnapshot{
		PackageID:      s.SelectedPackage,
		PackageName:    s.SelectedPackage,
		Season:         string(s.Season),
		NumGuests:      s.NumGuests,
		IncludeCutlery: s.IncludeCutlery,
		PostalCode:     s.PostalCode,
	}

	pkg, err := c.Package(s.SelectedPackage)
	if err == nil {
		snap.PackageName = pkg.Name
		snap.EventType = pkg.EventType
		if pkg.FullCourse {
			snap.Starters = c.Names(s.Starters.Items())
			snap.Desserts = c.Names(s.Desserts.Items())
		}
		if pkg.SideCount > 0 {
			snap.Sides = c.Names(s.Sides.Items())
		}
		if !pkg.SeasonDependent {
			snap.Season = ""
		}
	}

	for _, id := range s.Extras {
		opt, ok := c.Get(id)
		if !ok {
			continue
		}
		snap.Extras = append(snap.Extras, booking.SnapshotExtra{
			ID:          opt.ID,
			Name:        opt.Name,
			Price:       opt.Price,
			PricingUnit: string(opt.PricingUnit),
			PerPerson:   pricing.ExtraPerPerson(opt, s.NumGuests),
		})
		if opt.RequiresSaladType && s.ExtraSaladType != "" {
			snap.ExtraSaladType = c.Names([]string{s.ExtraSaladType})[0]
		}
	}

	if area, ok := r.Resolve(s.PostalCode); ok {
		snap.TravelArea = area.Name
	}
	return snap
}
