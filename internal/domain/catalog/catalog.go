package catalog

import (
	"errors"
	"fmt"
)

var ErrUnknownOption = errors.New("unknown menu option")

// Catalog is read-only reference data. Every accessor hands out copies.
type Catalog struct {
	options []MenuOption
	byID    map[string]int
}

func New(options []MenuOption) (*Catalog, error) {
	c := &Catalog{
		options: make([]MenuOption, 0, len(options)),
		byID:    make(map[string]int, len(options)),
	}
	for _, o := range options {
		if o.ID == "" {
			return nil, fmt.Errorf("menu option %q: empty id", o.Name)
		}
		if _, dup := c.byID[o.ID]; dup {
			return nil, fmt.Errorf("menu option %q: duplicate id", o.ID)
		}
		c.byID[o.ID] = len(c.options)
		c.options = append(c.options, o.clone())
	}
	return c, nil
}

func (c *Catalog) Get(id string) (MenuOption, bool) {
	i, ok := c.byID[id]
	if !ok {
		return MenuOption{}, false
	}
	return c.options[i].clone(), true
}

// Package returns the option only when it is a package.
func (c *Catalog) Package(id string) (MenuOption, error) {
	o, ok := c.Get(id)
	if !ok || o.Category != CategoryPackage {
		return MenuOption{}, fmt.Errorf("package %q: %w", id, ErrUnknownOption)
	}
	return o, nil
}

// Has reports whether id exists in the given category.
func (c *Catalog) Has(id string, category Category) bool {
	o, ok := c.Get(id)
	return ok && o.Category == category
}

func (c *Catalog) All() []MenuOption {
	out := make([]MenuOption, 0, len(c.options))
	for _, o := range c.options {
		out = append(out, o.clone())
	}
	return out
}

func (c *Catalog) ByCategory(category Category) []MenuOption {
	var out []MenuOption
	for _, o := range c.options {
		if o.Category == category {
			out = append(out, o.clone())
		}
	}
	return out
}

// AvailableSides lists the sides a package offers for a season. A
// season-dependent package offers nothing until a season is chosen.
func (c *Catalog) AvailableSides(pkg MenuOption, season Season) []MenuOption {
	if pkg.SideCount == 0 {
		return nil
	}
	if pkg.SeasonDependent && !season.Valid() {
		return nil
	}

	group := pkg.SideGroup
	if group == "" {
		group = SideGroupStandard
	}

	var out []MenuOption
	for _, o := range c.options {
		if o.Category != CategorySide || !o.inGroup(group) {
			continue
		}
		if pkg.SeasonDependent && !o.offeredIn(season) {
			continue
		}
		out = append(out, o.clone())
	}
	return out
}

// SideAvailable reports whether sideID is in the filtered side list.
func (c *Catalog) SideAvailable(pkg MenuOption, season Season, sideID string) bool {
	for _, o := range c.AvailableSides(pkg, season) {
		if o.ID == sideID {
			return true
		}
	}
	return false
}

// Names resolves ids to display names, keeping unknown ids as-is.
func (c *Catalog) Names(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if o, ok := c.Get(id); ok {
			out = append(out, o.Name)
			continue
		}
		out = append(out, id)
	}
	return out
}
