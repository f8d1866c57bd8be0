package validation

import (
	"fmt"
	"strings"
	"time"

	"catering/internal/domain/booking"
	"catering/internal/domain/catalog"
	"catering/internal/domain/selection"
	"catering/internal/domain/travel"
	"catering/internal/pkg/validator"
)

// Field keys reported by ValidateSelection.
const (
	FieldPackage        = "selectedPackage"
	FieldNumGuests      = "numGuests"
	FieldStarters       = "starters"
	FieldSides          = "sides"
	FieldDesserts       = "desserts"
	FieldSeason         = "season"
	FieldPostalCode     = "postalCode"
	FieldExtras         = "extras"
	FieldExtraSaladType = "extraSaladType"
	FieldEventDate      = "event_date"
)

const (
	MsgPackageRequired      = "Please choose a menu package"
	MsgPackageUnknown       = "This menu package is no longer available"
	MsgStarterRequired      = "Please choose one starter"
	MsgDessertRequired      = "Please choose one dessert"
	MsgSeasonRequired       = "Please choose a season for this menu"
	MsgSeasonBeforeSides    = "Please choose a season before selecting sides"
	MsgPostalCodeRequired   = "Postal code is required"
	MsgPostalCodeUnresolved = "We don't deliver to this postal code yet. Please check it or contact us"
	MsgSaladTypeRequired    = "Please choose which salad you'd like as your extra salad"
	MsgSaladTypeInvalid     = "Please choose a salad offered with this menu"
	MsgEventDateInPast      = "The event date must be in the future"
)

// Resolver is the travel lookup the engine validates postal codes against.
type Resolver interface {
	Resolve(postalCode string) (travel.Area, bool)
}

// Engine holds the reference data the rules are evaluated against.
type Engine struct {
	catalog  *catalog.Catalog
	resolver Resolver
	now      func() time.Time
}

func NewEngine(c *catalog.Catalog, r Resolver) *Engine {
	return &Engine{catalog: c, resolver: r, now: time.Now}
}

// ValidateSelection checks the menu configuration. The rules depend on the
// chosen package; an empty map means the configuration can move on.
func (e *Engine) ValidateSelection(s selection.State) Errors {
	errs := Errors{}

	e.validatePostalCode(s, errs)

	if !s.HasPackage() {
		errs[FieldPackage] = MsgPackageRequired
		return errs
	}
	pkg, err := e.catalog.Package(s.SelectedPackage)
	if err != nil {
		errs[FieldPackage] = MsgPackageUnknown
		return errs
	}

	minGuests := max(pkg.MinGuests, 1)
	switch {
	case s.NumGuests < minGuests:
		errs[FieldNumGuests] = fmt.Sprintf("%s requires at least %d guests", pkg.Name, minGuests)
	case s.NumGuests > selection.MaxGuests:
		errs[FieldNumGuests] = fmt.Sprintf("We can cater for at most %d guests. Please contact us for larger events", selection.MaxGuests)
	}

	if pkg.FullCourse {
		if s.Starters.Len() != 1 {
			errs[FieldStarters] = MsgStarterRequired
		}
		if s.Desserts.Len() != 1 {
			errs[FieldDesserts] = MsgDessertRequired
		}
	}

	if pkg.SeasonDependent && !s.Season.Valid() {
		errs[FieldSeason] = MsgSeasonRequired
	}

	e.validateSides(pkg, s, errs)
	e.validateExtras(pkg, s, errs)

	return errs
}

func (e *Engine) validatePostalCode(s selection.State, errs Errors) {
	code := travel.Normalize(s.PostalCode)
	if code == "" {
		errs[FieldPostalCode] = MsgPostalCodeRequired
		return
	}
	if _, ok := e.resolver.Resolve(code); !ok {
		errs[FieldPostalCode] = MsgPostalCodeUnresolved
	}
}

func (e *Engine) validateSides(pkg catalog.MenuOption, s selection.State, errs Errors) {
	if pkg.SideCount == 0 {
		return
	}
	if pkg.SeasonDependent && !s.Season.Valid() {
		errs[FieldSides] = MsgSeasonBeforeSides
		return
	}

	var stale []string
	for _, id := range s.Sides.Items() {
		if !e.catalog.SideAvailable(pkg, s.Season, id) {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		errs[FieldSides] = fmt.Sprintf("Not available with this menu: %s", strings.Join(e.catalog.Names(stale), ", "))
		return
	}

	if s.Sides.Len() != pkg.SideCount {
		errs[FieldSides] = fmt.Sprintf("Please choose %d sides", pkg.SideCount)
	}
}

func (e *Engine) validateExtras(pkg catalog.MenuOption, s selection.State, errs Errors) {
	var unknown []string
	needsSalad := false
	for _, id := range s.Extras {
		opt, ok := e.catalog.Get(id)
		if !ok || opt.Category != catalog.CategoryExtra {
			unknown = append(unknown, id)
			continue
		}
		if opt.RequiresSaladType {
			needsSalad = true
		}
	}
	if len(unknown) > 0 {
		errs[FieldExtras] = fmt.Sprintf("Unknown extras: %s", strings.Join(unknown, ", "))
	}

	if !needsSalad {
		return
	}
	if s.ExtraSaladType == "" {
		errs[FieldExtraSaladType] = MsgSaladTypeRequired
		return
	}
	salad, ok := e.catalog.Get(s.ExtraSaladType)
	if !ok || !salad.Salad || !e.saladOffered(pkg, s.Season, salad.ID) {
		errs[FieldExtraSaladType] = MsgSaladTypeInvalid
	}
}

// saladOffered checks the salad against the package's filtered sides. A
// package without sides accepts any salad in season.
func (e *Engine) saladOffered(pkg catalog.MenuOption, season catalog.Season, id string) bool {
	if pkg.SideCount == 0 {
		return true
	}
	return e.catalog.SideAvailable(pkg, season, id)
}

// ValidateForm checks contact, venue and billing details.
func (e *Engine) ValidateForm(f booking.Form) Errors {
	f = f.Normalized()
	errs := Errors(validator.Validate(f))
	if errs == nil {
		errs = Errors{}
	}

	if _, bad := errs[FieldEventDate]; !bad {
		date, err := time.Parse("2006-01-02", f.EventDate)
		today := e.now().UTC().Truncate(24 * time.Hour)
		if err == nil && !date.After(today) {
			errs[FieldEventDate] = MsgEventDateInPast
		}
	}
	return errs
}

// ValidateBooking merges the selection and form checks; submission is
// only allowed when the result is empty.
func (e *Engine) ValidateBooking(s selection.State, f booking.Form) Errors {
	errs := e.ValidateSelection(s)
	for k, v := range e.ValidateForm(f) {
		errs[k] = v
	}
	return errs
}
