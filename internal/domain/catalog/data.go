package catalog

import "sync"

func intPtr(v int) *int { return &v }

var defaultOptions = []MenuOption{
	// Packages
	{
		ID: "menu1", Name: "Essential Celebration", Category: CategoryPackage,
		Price: 169, PriceWithoutCutlery: intPtr(159), EventType: "celebration",
		Description: "Two mains with a choice of two sides",
		MinGuests:   20, SideCount: 2, SideGroup: SideGroupStandard,
	},
	{
		ID: "menu2", Name: "Classic Buffet", Category: CategoryPackage,
		Price: 219, PriceWithoutCutlery: intPtr(209), EventType: "corporate",
		Description: "Carvery buffet with two sides",
		MinGuests:   30, SideCount: 2, SideGroup: SideGroupStandard,
	},
	{
		ID: "menu3", Name: "Signature Three-Course", Category: CategoryPackage,
		Price: 289, EventType: "celebration",
		Description: "Plated starter, main with three sides, and dessert",
		MinGuests:   40, FullCourse: true, SideCount: 3, SideGroup: SideGroupStandard,
	},
	{
		ID: "menu4", Name: "Wedding Feast", Category: CategoryPackage,
		Price: 349, PriceWithoutCutlery: intPtr(329), EventType: "wedding",
		Description: "Seasonal three-course wedding menu",
		MinGuests:   50, FullCourse: true, SeasonDependent: true, SideCount: 3, SideGroup: SideGroupWedding,
	},
	{
		ID: "menu5", Name: "Canapé Reception", Category: CategoryPackage,
		Price: 149, PriceWithoutCutlery: intPtr(139), EventType: "cocktail",
		Description: "Passed canapés, no sides",
		MinGuests:   15,
	},

	// Starters
	{ID: "starter_soup", Name: "Roasted Butternut Soup", Category: CategoryStarter},
	{ID: "starter_carpaccio", Name: "Beef Carpaccio", Category: CategoryStarter},
	{ID: "starter_tart", Name: "Caramelised Onion Tartlet", Category: CategoryStarter},

	// Sides
	{ID: "side_potatoes", Name: "Rosemary Roast Potatoes", Category: CategorySide, Groups: []string{SideGroupStandard, SideGroupWedding}, Seasons: []Season{SeasonWinter}},
	{ID: "side_veg", Name: "Seasonal Roast Vegetables", Category: CategorySide, Groups: []string{SideGroupStandard, SideGroupWedding}},
	{ID: "side_greek", Name: "Greek Salad", Category: CategorySide, Groups: []string{SideGroupStandard, SideGroupWedding}, Seasons: []Season{SeasonSummer}, Salad: true},
	{ID: "side_potato_salad", Name: "Creamy Potato Salad", Category: CategorySide, Groups: []string{SideGroupStandard}, Salad: true},
	{ID: "side_pap", Name: "Pap and Chakalaka", Category: CategorySide, Groups: []string{SideGroupStandard}},
	{ID: "side_rice", Name: "Savoury Rice", Category: CategorySide, Groups: []string{SideGroupStandard}},
	{ID: "side_gratin", Name: "Potato Gratin", Category: CategorySide, Groups: []string{SideGroupWedding}, Seasons: []Season{SeasonWinter}},
	{ID: "side_creamed_spinach", Name: "Creamed Spinach", Category: CategorySide, Groups: []string{SideGroupWedding}, Seasons: []Season{SeasonWinter}},
	{ID: "side_quinoa", Name: "Quinoa and Roasted Beetroot Salad", Category: CategorySide, Groups: []string{SideGroupWedding}, Seasons: []Season{SeasonSummer}, Salad: true},
	{ID: "side_caprese", Name: "Caprese Salad", Category: CategorySide, Groups: []string{SideGroupWedding}, Seasons: []Season{SeasonSummer}, Salad: true},

	// Desserts
	{ID: "dessert_malva", Name: "Malva Pudding", Category: CategoryDessert},
	{ID: "dessert_cheesecake", Name: "Baked Cheesecake", Category: CategoryDessert},
	{ID: "dessert_pavlova", Name: "Berry Pavlova", Category: CategoryDessert},

	// Extras
	{ID: "cheese_table", Name: "Cheese Table", Category: CategoryExtra, Price: 1900, PricingUnit: PerGroup},
	{ID: "coffee_station", Name: "Coffee Station", Category: CategoryExtra, Price: 1200, PricingUnit: PerGroup},
	{ID: "extra_salad", Name: "Extra Salad", Category: CategoryExtra, Price: 25, PricingUnit: PerPerson, RequiresSaladType: true},
	{ID: "dessert_table", Name: "Dessert Table", Category: CategoryExtra, Price: 45, PricingUnit: PerPerson},
	{ID: "welcome_drinks", Name: "Welcome Drinks", Category: CategoryExtra, Price: 35, PricingUnit: PerPerson},
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog shipped with the service.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := New(defaultOptions)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}
