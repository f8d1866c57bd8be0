package catalog

import (
	"net/http"

	"catering/internal/domain/catalog"
	"catering/internal/domain/travel"
	"catering/internal/domain/validation"
	"catering/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	catalog  *catalog.Catalog
	resolver *travel.Resolver
}

func NewHandler(c *catalog.Catalog, r *travel.Resolver) *Handler {
	return &Handler{catalog: c, resolver: r}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/menu", h.GetMenu)
	r.GET("/menu/packages/:id/sides", h.GetPackageSides) // ?season=summer|winter
	r.GET("/travel-fees/:postalCode", h.GetTravelFee)
}

// GetMenu handles GET /api/v1/menu
func (h *Handler) GetMenu(c *gin.Context) {
	response.Success(c, http.StatusOK, MenuResponse{
		Packages: h.catalog.ByCategory(catalog.CategoryPackage),
		Starters: h.catalog.ByCategory(catalog.CategoryStarter),
		Sides:    h.catalog.ByCategory(catalog.CategorySide),
		Desserts: h.catalog.ByCategory(catalog.CategoryDessert),
		Extras:   h.catalog.ByCategory(catalog.CategoryExtra),
	})
}

// GetPackageSides handles GET /api/v1/menu/packages/:id/sides
func (h *Handler) GetPackageSides(c *gin.Context) {
	pkg, err := h.catalog.Package(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Menu package not found")
		return
	}

	season := catalog.Season(c.Query("season"))
	if season != "" && !season.Valid() {
		response.Error(c, http.StatusBadRequest, "INVALID_SEASON", "season must be summer or winter")
		return
	}

	sides := h.catalog.AvailableSides(pkg, season)
	if sides == nil {
		sides = []catalog.MenuOption{}
	}
	response.Success(c, http.StatusOK, SidesResponse{
		PackageID: pkg.ID,
		Season:    season,
		Required:  pkg.SideCount,
		Sides:     sides,
	})
}

// GetTravelFee handles GET /api/v1/travel-fees/:postalCode
func (h *Handler) GetTravelFee(c *gin.Context) {
	code := travel.Normalize(c.Param("postalCode"))
	if !travel.ValidShape(code) {
		response.Error(c, http.StatusBadRequest, "INVALID_POSTAL_CODE", "Postal code must be 4 digits")
		return
	}

	area, ok := h.resolver.Resolve(code)
	if !ok {
		response.Error(c, http.StatusNotFound, "TRAVEL_FEE_UNRESOLVED", validation.MsgPostalCodeUnresolved)
		return
	}
	response.Success(c, http.StatusOK, TravelFeeResponse{
		PostalCode: code,
		AreaName:   area.Name,
		Fee:        area.Fee,
	})
}
