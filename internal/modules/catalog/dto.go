package catalog

import "catering/internal/domain/catalog"

type MenuResponse struct {
	Packages []catalog.MenuOption `json:"packages"`
	Starters []catalog.MenuOption `json:"starters"`
	Sides    []catalog.MenuOption `json:"sides"`
	Desserts []catalog.MenuOption `json:"desserts"`
	Extras   []catalog.MenuOption `json:"extras"`
}

type SidesResponse struct {
	PackageID string               `json:"package_id"`
	Season    catalog.Season       `json:"season,omitempty"`
	Required  int                  `json:"required"`
	Sides     []catalog.MenuOption `json:"sides"`
}

type TravelFeeResponse struct {
	PostalCode string `json:"postal_code"`
	AreaName   string `json:"area_name"`
	Fee        int    `json:"fee"`
}
