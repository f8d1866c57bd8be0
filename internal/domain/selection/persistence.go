package selection

import (
	"context"
	"encoding/json"
	"fmt"
)

// Local storage keys. The names are shared with the browser client.
const (
	KeyMenu           = "selectedMenu"
	KeyNumGuests      = "numGuests"
	KeyStarters       = "selectedStarters"
	KeySides          = "selectedSides"
	KeyDesserts       = "selectedDesserts"
	KeyExtras         = "selectedExtras"
	KeySeason         = "selectedSeason"
	KeyIncludeCutlery = "includeCutlery"
	KeyExtraSaladType = "extraSaladType"
	KeyPostalCode     = "postalCode"
	KeyTravelFee      = "travelFee"
	KeyMenuSelection  = "menuSelection"
	KeyFormDraft      = "bookingFormDraft"
)

// AllKeys is every key Clear removes.
var AllKeys = []string{
	KeyMenu, KeyNumGuests, KeyStarters, KeySides, KeyDesserts, KeyExtras,
	KeySeason, KeyIncludeCutlery, KeyExtraSaladType, KeyPostalCode, KeyTravelFee,
	KeyMenuSelection, KeyFormDraft,
}

// LocalStorage is durable key/value storage partitioned by namespace.
type LocalStorage interface {
	Get(ctx context.Context, namespace, key string) ([]byte, bool, error)
	SetMany(ctx context.Context, namespace string, values map[string][]byte) error
	DeleteKeys(ctx context.Context, namespace string, keys []string) error
}

// Persistence mirrors one session's state into LocalStorage.
type Persistence struct {
	storage   LocalStorage
	namespace string
}

func NewPersistence(storage LocalStorage, namespace string) *Persistence {
	return &Persistence{storage: storage, namespace: namespace}
}

func (p *Persistence) Namespace() string { return p.namespace }

// Save writes one entry per field plus the whole-state blob in one batch.
func (p *Persistence) Save(ctx context.Context, s State) error {
	fields := map[string]any{
		KeyMenu:           s.SelectedPackage,
		KeyNumGuests:      s.NumGuests,
		KeyStarters:       s.Starters.Items(),
		KeySides:          s.Sides.Items(),
		KeyDesserts:       s.Desserts.Items(),
		KeyExtras:         s.Extras,
		KeySeason:         s.Season,
		KeyIncludeCutlery: s.IncludeCutlery,
		KeyExtraSaladType: s.ExtraSaladType,
		KeyPostalCode:     s.PostalCode,
		KeyTravelFee:      s.TravelFee,
		KeyMenuSelection:  s,
	}

	values := make(map[string][]byte, len(fields))
	for key, v := range fields {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		values[key] = b
	}

	if err := p.storage.SetMany(ctx, p.namespace, values); err != nil {
		return fmt.Errorf("save selection: %w", err)
	}
	return nil
}

// Load restores the state from the whole-state blob. ok is false when
// nothing was saved for this namespace.
func (p *Persistence) Load(ctx context.Context) (State, bool, error) {
	raw, ok, err := p.storage.Get(ctx, p.namespace, KeyMenuSelection)
	if err != nil {
		return State{}, false, fmt.Errorf("load selection: %w", err)
	}
	if !ok {
		return State{}, false, nil
	}

	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return State{}, false, fmt.Errorf("decode selection: %w", err)
	}
	return s, true, nil
}

func (p *Persistence) SaveDraft(ctx context.Context, draft any) error {
	b, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := p.storage.SetMany(ctx, p.namespace, map[string][]byte{KeyFormDraft: b}); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (p *Persistence) LoadDraft(ctx context.Context, dst any) (bool, error) {
	raw, ok, err := p.storage.Get(ctx, p.namespace, KeyFormDraft)
	if err != nil {
		return false, fmt.Errorf("load draft: %w", err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode draft: %w", err)
	}
	return true, nil
}

// Clear deletes every key of the namespace as one batch.
func (p *Persistence) Clear(ctx context.Context) error {
	if err := p.storage.DeleteKeys(ctx, p.namespace, AllKeys); err != nil {
		return fmt.Errorf("clear selection: %w", err)
	}
	return nil
}
