package catalog

type Category string

const (
	CategoryPackage Category = "package"
	CategoryStarter Category = "starter"
	CategorySide    Category = "side"
	CategoryDessert Category = "dessert"
	CategoryExtra   Category = "extra"
)

type PricingUnit string

const (
	PerPerson PricingUnit = "per_person"
	PerGroup  PricingUnit = "per_group"
)

type Season string

const (
	SeasonSummer Season = "summer"
	SeasonWinter Season = "winter"
)

func (s Season) Valid() bool {
	return s == SeasonSummer || s == SeasonWinter
}

// Side groups a package can draw its sides from.
const (
	SideGroupStandard = "standard"
	SideGroupWedding  = "wedding"
)

// CutlerySurcharge is deducted from a package price when the package has no
// explicit price without cutlery.
const CutlerySurcharge = 20

type MenuOption struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	Category            Category    `json:"category"`
	Price               int         `json:"price"`
	PriceWithoutCutlery *int        `json:"price_without_cutlery,omitempty"`
	EventType           string      `json:"event_type,omitempty"`
	Description         string      `json:"description,omitempty"`
	MinGuests           int         `json:"min_guests,omitempty"`
	SeasonDependent     bool        `json:"season_dependent,omitempty"`
	FullCourse          bool        `json:"full_course,omitempty"`
	SideCount           int         `json:"side_count,omitempty"`
	SideGroup           string      `json:"side_group,omitempty"`
	PricingUnit         PricingUnit `json:"pricing_unit,omitempty"`
	RequiresSaladType   bool        `json:"requires_salad_type,omitempty"`
	Seasons             []Season    `json:"seasons,omitempty"`
	Groups              []string    `json:"groups,omitempty"`
	Salad               bool        `json:"salad,omitempty"`
}

// BasePrice returns the per-person package price for the cutlery choice.
func (o MenuOption) BasePrice(includeCutlery bool) int {
	if includeCutlery {
		return o.Price
	}
	if o.PriceWithoutCutlery != nil {
		return *o.PriceWithoutCutlery
	}
	return o.Price - CutlerySurcharge
}

func (o MenuOption) offeredIn(season Season) bool {
	if len(o.Seasons) == 0 {
		return true
	}
	for _, s := range o.Seasons {
		if s == season {
			return true
		}
	}
	return false
}

func (o MenuOption) inGroup(group string) bool {
	for _, g := range o.Groups {
		if g == group {
			return true
		}
	}
	return false
}

func (o MenuOption) clone() MenuOption {
	c := o
	if o.PriceWithoutCutlery != nil {
		v := *o.PriceWithoutCutlery
		c.PriceWithoutCutlery = &v
	}
	c.Seasons = append([]Season(nil), o.Seasons...)
	c.Groups = append([]string(nil), o.Groups...)
	return c
}
