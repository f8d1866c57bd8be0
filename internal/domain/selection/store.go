package selection

import (
	"errors"
	"fmt"

	"catering/internal/domain/catalog"
)

// MaxGuests is the largest event the kitchen quotes for.
const MaxGuests = 2000

var (
	ErrInvalidGuestCount = fmt.Errorf("guest count must be between 1 and %d", MaxGuests)
	ErrInvalidSeason     = errors.New("season must be summer or winter")
)

// FeeResolver is the part of the travel resolver the store needs.
type FeeResolver interface {
	Fee(postalCode string) *int
}

// Observer is called with a copy of the state after every mutation.
type Observer func(State)

// Store owns a State and is the only way to mutate it. It is not safe for
// concurrent use; callers serialise access per session.
type Store struct {
	state     State
	catalog   *catalog.Catalog
	fees      FeeResolver
	observers []Observer
}

func NewStore(c *catalog.Catalog, fees FeeResolver) *Store {
	return &Store{
		state:   NewState(),
		catalog: c,
		fees:    fees,
	}
}

func (s *Store) State() State {
	return s.state.Clone()
}

func (s *Store) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *Store) Subscribe(o Observer) {
	s.observers = append(s.observers, o)
}

func (s *Store) notify() {
	snapshot := s.state.Clone()
	for _, o := range s.observers {
		o(snapshot)
	}
}

// SelectPackage switches the package and reshapes the sub-selections to
// its rules. Sides outside a new season filter are kept and reported by
// validation rather than dropped.
func (s *Store) SelectPackage(id string) error {
	pkg, err := s.catalog.Package(id)
	if err != nil {
		return err
	}

	s.state.SelectedPackage = pkg.ID

	courses := 0
	if pkg.FullCourse {
		courses = 1
	}
	s.state.Starters.SetCap(courses)
	s.state.Desserts.SetCap(courses)
	if !pkg.FullCourse {
		s.state.Starters.Clear()
		s.state.Desserts.Clear()
	}

	s.state.Sides.SetCap(pkg.SideCount)
	if pkg.SideCount == 0 {
		s.state.Sides.Clear()
	}

	if !pkg.SeasonDependent {
		s.state.Season = ""
	}

	s.notify()
	return nil
}

func (s *Store) SetGuests(n int) error {
	if n < 1 || n > MaxGuests {
		return ErrInvalidGuestCount
	}
	s.state.NumGuests = n
	s.notify()
	return nil
}

func (s *Store) SetCutlery(include bool) {
	s.state.IncludeCutlery = include
	s.notify()
}

// SetSeason accepts an empty season to clear the choice.
func (s *Store) SetSeason(season catalog.Season) error {
	if season != "" && !season.Valid() {
		return ErrInvalidSeason
	}
	s.state.Season = season
	s.notify()
	return nil
}

// SelectStarter replaces the chosen starter.
func (s *Store) SelectStarter(id string) error {
	if err := s.require(id, catalog.CategoryStarter); err != nil {
		return err
	}
	s.state.Starters.Add(id)
	s.notify()
	return nil
}

// SelectDessert replaces the chosen dessert.
func (s *Store) SelectDessert(id string) error {
	if err := s.require(id, catalog.CategoryDessert); err != nil {
		return err
	}
	s.state.Desserts.Add(id)
	s.notify()
	return nil
}

// ToggleSide adds or removes a side; adding past the cap evicts the oldest.
func (s *Store) ToggleSide(id string) ([]string, error) {
	if err := s.require(id, catalog.CategorySide); err != nil {
		return nil, err
	}
	evicted := s.state.Sides.Toggle(id)
	s.notify()
	return evicted, nil
}

func (s *Store) ToggleExtra(id string) error {
	opt, ok := s.catalog.Get(id)
	if !ok || opt.Category != catalog.CategoryExtra {
		return fmt.Errorf("extra %q: %w", id, catalog.ErrUnknownOption)
	}

	for i, e := range s.state.Extras {
		if e == id {
			s.state.Extras = append(s.state.Extras[:i], s.state.Extras[i+1:]...)
			if len(s.state.Extras) == 0 {
				s.state.Extras = nil
			}
			if opt.RequiresSaladType {
				s.state.ExtraSaladType = ""
			}
			s.notify()
			return nil
		}
	}

	s.state.Extras = append(s.state.Extras, id)
	s.notify()
	return nil
}

// SetExtraSaladType accepts an empty id to clear the choice.
func (s *Store) SetExtraSaladType(id string) error {
	if id != "" {
		if err := s.require(id, catalog.CategorySide); err != nil {
			return err
		}
	}
	s.state.ExtraSaladType = id
	s.notify()
	return nil
}

// SetPostalCode stores the code and caches the travel fee it resolves to.
func (s *Store) SetPostalCode(code string) {
	s.state.PostalCode = code
	s.state.TravelFee = s.fees.Fee(code)
	s.notify()
}

func (s *Store) Reset() {
	s.state = NewState()
	s.notify()
}

// Replace installs a restored state as-is.
func (s *Store) Replace(state State) {
	s.state = state.Clone()
	s.notify()
}

func (s *Store) require(id string, category catalog.Category) error {
	if !s.catalog.Has(id, category) {
		return fmt.Errorf("%s %q: %w", category, id, catalog.ErrUnknownOption)
	}
	return nil
}
