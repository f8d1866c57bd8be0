package selection

import (
	"catering/internal/domain/catalog"
)

// State is one in-progress package configuration. An empty SelectedPackage
// or Season means nothing has been chosen yet.
type State struct {
	SelectedPackage string         `json:"selected_package"`
	Starters        CappedQueue    `json:"starters"`
	Sides           CappedQueue    `json:"sides"`
	Desserts        CappedQueue    `json:"desserts"`
	Extras          []string       `json:"extras"`
	Season          catalog.Season `json:"season"`
	NumGuests       int            `json:"num_guests"`
	IncludeCutlery  bool           `json:"include_cutlery"`
	ExtraSaladType  string         `json:"extra_salad_type"`
	PostalCode      string         `json:"postal_code"`
	TravelFee       *int           `json:"travel_fee"`
}

// NewState returns the state a first visit starts with.
func NewState() State {
	return State{
		NumGuests:      1,
		IncludeCutlery: true,
	}
}

func (s State) HasPackage() bool {
	return s.SelectedPackage != ""
}

func (s State) HasExtra(id string) bool {
	for _, e := range s.Extras {
		if e == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand to observers and snapshots.
func (s State) Clone() State {
	c := s
	c.Starters = s.Starters.clone()
	c.Sides = s.Sides.clone()
	c.Desserts = s.Desserts.clone()
	if s.Extras != nil {
		c.Extras = append([]string(nil), s.Extras...)
	}
	if s.TravelFee != nil {
		fee := *s.TravelFee
		c.TravelFee = &fee
	}
	return c
}
