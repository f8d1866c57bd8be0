package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"catering/internal/domain/catalog"
	"catering/internal/domain/travel"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(catalog.Default(), travel.NewDefaultResolver()).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

func TestGetMenu(t *testing.T) {
	rr := get(setupRouter(t), "/api/v1/menu")
	require.Equal(t, http.StatusOK, rr.Code)

	env := decode[MenuResponse](t, rr)
	assert.True(t, env.Success)
	assert.Len(t, env.Data.Packages, 5)
	assert.Len(t, env.Data.Extras, 5)
	assert.Equal(t, "menu1", env.Data.Packages[0].ID)
}

func TestGetPackageSides(t *testing.T) {
	r := setupRouter(t)

	rr := get(r, "/api/v1/menu/packages/menu4/sides?season=summer")
	require.Equal(t, http.StatusOK, rr.Code)
	env := decode[SidesResponse](t, rr)
	assert.Equal(t, 3, env.Data.Required)
	ids := make([]string, 0, len(env.Data.Sides))
	for _, s := range env.Data.Sides {
		ids = append(ids, s.ID)
	}
	assert.Contains(t, ids, "side_caprese")
	assert.NotContains(t, ids, "side_gratin")

	rr = get(r, "/api/v1/menu/packages/menu4/sides")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[SidesResponse](t, rr).Data.Sides)

	rr = get(r, "/api/v1/menu/packages/menu4/sides?season=spring")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = get(r, "/api/v1/menu/packages/menu9/sides")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetTravelFee(t *testing.T) {
	r := setupRouter(t)

	rr := get(r, "/api/v1/travel-fees/7200")
	require.Equal(t, http.StatusOK, rr.Code)
	env := decode[TravelFeeResponse](t, rr)
	assert.Equal(t, 900, env.Data.Fee)
	assert.Equal(t, "7200", env.Data.PostalCode)

	rr = get(r, "/api/v1/travel-fees/9999")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "TRAVEL_FEE_UNRESOLVED", decode[struct{}](t, rr).Error.Code)

	rr = get(r, "/api/v1/travel-fees/80A1")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
