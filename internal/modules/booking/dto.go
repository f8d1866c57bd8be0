package booking

import (
	"catering/internal/domain/catalog"
	"catering/internal/domain/selection"
	"catering/internal/domain/workflow"
)

// SelectionPatch changes the selection. Absent fields are left alone;
// present ones apply in declaration order, package first.
type SelectionPatch struct {
	PackageID      *string  `json:"package_id"`
	Season         *string  `json:"season"`
	NumGuests      *int     `json:"num_guests"`
	IncludeCutlery *bool    `json:"include_cutlery"`
	Starter        *string  `json:"starter"`
	Dessert        *string  `json:"dessert"`
	ToggleSides    []string `json:"toggle_sides"`
	ToggleExtras   []string `json:"toggle_extras"`
	ExtraSaladType *string  `json:"extra_salad_type"`
	PostalCode     *string  `json:"postal_code"`
}

// Apply runs the patch against s and returns the sides evicted by it.
func (p SelectionPatch) Apply(s *selection.Store) ([]string, error) {
	if p.PackageID != nil {
		if err := s.SelectPackage(*p.PackageID); err != nil {
			return nil, err
		}
	}
	if p.Season != nil {
		if err := s.SetSeason(catalog.Season(*p.Season)); err != nil {
			return nil, err
		}
	}
	if p.NumGuests != nil {
		if err := s.SetGuests(*p.NumGuests); err != nil {
			return nil, err
		}
	}
	if p.IncludeCutlery != nil {
		s.SetCutlery(*p.IncludeCutlery)
	}
	if p.Starter != nil {
		if err := s.SelectStarter(*p.Starter); err != nil {
			return nil, err
		}
	}
	if p.Dessert != nil {
		if err := s.SelectDessert(*p.Dessert); err != nil {
			return nil, err
		}
	}

	var evicted []string
	for _, id := range p.ToggleSides {
		out, err := s.ToggleSide(id)
		if err != nil {
			return nil, err
		}
		evicted = append(evicted, out...)
	}
	for _, id := range p.ToggleExtras {
		if err := s.ToggleExtra(id); err != nil {
			return nil, err
		}
	}
	if p.ExtraSaladType != nil {
		if err := s.SetExtraSaladType(*p.ExtraSaladType); err != nil {
			return nil, err
		}
	}
	if p.PostalCode != nil {
		s.SetPostalCode(*p.PostalCode)
	}
	return evicted, nil
}

type SessionResponse struct {
	SessionID string `json:"session_id"`
	workflow.View
}

type SelectionResponse struct {
	SessionResponse
	EvictedSides []string `json:"evicted_sides,omitempty"`
}

type SubmitResponse struct {
	SessionID  string                   `json:"session_id"`
	Step       workflow.Step            `json:"step"`
	Submission *workflow.SubmissionView `json:"submission"`
}
