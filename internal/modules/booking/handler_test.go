package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"catering/internal/database"
	domainbooking "catering/internal/domain/booking"
	"catering/internal/domain/catalog"
	"catering/internal/domain/submission"
	"catering/internal/domain/travel"
	"catering/internal/domain/validation"
	"catering/internal/domain/workflow"
	"catering/internal/identity"
	"catering/internal/middleware"
	"catering/internal/pkg/jwt"
	"catering/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPrimary struct {
	mu   sync.Mutex
	err  error
	seen []domainbooking.Booking
}

func (p *stubPrimary) CreateBooking(_ context.Context, b *domainbooking.Booking) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen = append(p.seen, *b)
	if p.err != nil {
		return "", p.err
	}
	return fmt.Sprintf("b-%d", len(p.seen)), nil
}

type stubNotifier struct {
	err error
}

func (n *stubNotifier) Notify(context.Context, domainbooking.Notification) (domainbooking.NotifyResult, error) {
	if n.err != nil {
		return domainbooking.NotifyResult{}, n.err
	}
	return domainbooking.NotifyResult{Success: true}, nil
}

type testEnv struct {
	router   *gin.Engine
	service  *Service
	primary  *stubPrimary
	notifier *stubNotifier
	fallback *repository.FallbackRepository
	jwt      *jwt.Service
	deps     Deps
	hub      *Hub
}

func setupEnv(t *testing.T, requireAccount bool) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:booking_handler_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn, database.Options{Quiet: true})
	require.NoError(t, err)
	require.NoError(t, repository.MigrateLocal(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	resolver := travel.NewDefaultResolver()
	engine := validation.NewEngine(catalog.Default(), resolver)
	env := &testEnv{
		primary:  &stubPrimary{},
		notifier: &stubNotifier{},
		fallback: repository.NewFallbackRepository(db),
		jwt:      jwt.New("test-secret", time.Hour, ""),
		hub:      NewHub(),
	}
	coord := submission.NewCoordinator(submission.Deps{
		Primary:       env.primary,
		Notifier:      env.notifier,
		Fallback:      env.fallback,
		Validator:     engine,
		Catalog:       catalog.Default(),
		Resolver:      resolver,
		NotifyTimeout: time.Second,
	})
	env.deps = Deps{
		Catalog:        catalog.Default(),
		Resolver:       resolver,
		Validator:      engine,
		Storage:        repository.NewLocalStorageRepository(db),
		Identity:       identity.NewJWTProvider(),
		Submitter:      coord,
		RequireAccount: requireAccount,
	}
	env.service = NewService(env.deps, env.hub)
	h := NewHandler(env.service, env.hub, env.fallback, time.Second, nil)

	r := gin.New()
	r.Use(middleware.OptionalJWT(env.jwt))
	v1 := r.Group("/api/v1")
	h.RegisterRoutes(v1)
	support := v1.Group("")
	support.Use(middleware.SupportOnly())
	h.RegisterSupportRoutes(support)
	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

type sessionEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		SessionID    string            `json:"session_id"`
		Step         workflow.Step     `json:"step"`
		CanContinue  bool              `json:"can_continue"`
		Errors       map[string]string `json:"errors"`
		EvictedSides []string          `json:"evicted_sides"`
		Quote        struct {
			PricePerPerson int  `json:"price_per_person"`
			Total          int  `json:"total"`
			Discount       bool `json:"discount_applied"`
		} `json:"quote"`
		Selection struct {
			SelectedPackage string `json:"selected_package"`
			NumGuests       int    `json:"num_guests"`
		} `json:"selection"`
		Submission *struct {
			Outcome   submission.Outcome `json:"outcome"`
			Reference string             `json:"booking_reference"`
			BookingID string             `json:"booking_id"`
			Message   string             `json:"message"`
			Payment   *struct {
				Amount    int    `json:"amount"`
				Reference string `json:"reference"`
			} `json:"payment"`
		} `json:"submission"`
	} `json:"data"`
	Error struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decodeSession(t *testing.T, rr *httptest.ResponseRecorder) sessionEnvelope {
	t.Helper()
	var env sessionEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return env
}

func scenarioCPatch() map[string]any {
	return map[string]any{
		"package_id":      "menu1",
		"num_guests":      100,
		"include_cutlery": false,
		"toggle_sides":    []string{"side_veg", "side_pap"},
		"toggle_extras":   []string{"cheese_table"},
		"postal_code":     "8001",
	}
}

func validFormBody() map[string]any {
	return map[string]any{
		"name":                  "Thandi Mokoena",
		"email":                 "thandi@example.com",
		"phone":                 "+27821234567",
		"event_date":            time.Now().AddDate(0, 2, 0).Format("2006-01-02"),
		"venue_address":         "12 Long Street, Cape Town",
		"billing_same_as_venue": true,
	}
}

func (e *testEnv) createSession(t *testing.T) string {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/api/v1/sessions", nil, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	env := decodeSession(t, rr)
	require.NotEmpty(t, env.Data.SessionID)
	assert.Equal(t, workflow.StepConfiguring, env.Data.Step)
	return env.Data.SessionID
}

func TestSessionFlow_SubmitSucceeds(t *testing.T) {
	e := setupEnv(t, false)
	id := e.createSession(t)
	base := "/api/v1/sessions/" + id

	rr := e.do(t, http.MethodPatch, base+"/selection", scenarioCPatch(), "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	env := decodeSession(t, rr)
	assert.True(t, env.Data.CanContinue, "errors: %v", env.Data.Errors)
	assert.Equal(t, 160, env.Data.Quote.PricePerPerson)
	assert.Equal(t, 16300, env.Data.Quote.Total)

	rr = e.do(t, http.MethodPost, base+"/continue", nil, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, workflow.StepFormFilling, decodeSession(t, rr).Data.Step)

	rr = e.do(t, http.MethodPut, base+"/form", validFormBody(), "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = e.do(t, http.MethodPost, base+"/submit", nil, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	env = decodeSession(t, rr)
	assert.Equal(t, workflow.StepConfirmed, env.Data.Step)
	require.NotNil(t, env.Data.Submission)
	assert.Equal(t, submission.OutcomeSucceeded, env.Data.Submission.Outcome)
	assert.Equal(t, "b-1", env.Data.Submission.BookingID)
	require.NotNil(t, env.Data.Submission.Payment)
	assert.Equal(t, 16300, env.Data.Submission.Payment.Amount)
	assert.Equal(t, env.Data.Submission.Reference, env.Data.Submission.Payment.Reference)
}

func TestSessionFlow_DegradedWhenNotifierFails(t *testing.T) {
	e := setupEnv(t, false)
	e.notifier.err = errors.New("webhook down")
	id := e.createSession(t)
	base := "/api/v1/sessions/" + id

	require.Equal(t, http.StatusOK, e.do(t, http.MethodPatch, base+"/selection", scenarioCPatch(), "").Code)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, base+"/continue", nil, "").Code)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPut, base+"/form", validFormBody(), "").Code)

	rr := e.do(t, http.MethodPost, base+"/submit", nil, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	env := decodeSession(t, rr)
	assert.Equal(t, submission.OutcomeDegradedSucceeded, env.Data.Submission.Outcome)
	assert.Contains(t, env.Data.Submission.Message, "delayed")
}

func TestSessionFlow_PrimaryDownParksBooking(t *testing.T) {
	e := setupEnv(t, false)
	e.primary.err = errors.New("connection refused")
	id := e.createSession(t)
	base := "/api/v1/sessions/" + id

	require.Equal(t, http.StatusOK, e.do(t, http.MethodPatch, base+"/selection", scenarioCPatch(), "").Code)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, base+"/continue", nil, "").Code)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPut, base+"/form", validFormBody(), "").Code)

	rr := e.do(t, http.MethodPost, base+"/submit", nil, "")
	require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())
	env := decodeSession(t, rr)
	assert.Equal(t, workflow.StepFormFilling, env.Data.Step)
	require.NotNil(t, env.Data.Submission)
	assert.Equal(t, submission.OutcomeFailedLocalOnly, env.Data.Submission.Outcome)
	assert.Nil(t, env.Data.Submission.Payment)
	ref := env.Data.Submission.Reference

	rr = e.do(t, http.MethodGet, "/api/v1/bookings/fallback/"+ref, nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	customer, err := e.jwt.GenerateToken("some-other-customer")
	require.NoError(t, err)
	rr = e.do(t, http.MethodGet, "/api/v1/bookings/fallback/"+ref, nil, customer)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.NotContains(t, rr.Body.String(), "thandi@example.com")

	token, err := e.jwt.GenerateRoleToken("support-1", middleware.RoleSupport)
	require.NoError(t, err)
	rr = e.do(t, http.MethodGet, "/api/v1/bookings/fallback/"+ref, nil, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"status":"pending_submission"`)
	assert.Contains(t, rr.Body.String(), "connection refused")
}

func TestSelection_InvalidConfigurationBlocksContinue(t *testing.T) {
	e := setupEnv(t, false)
	id := e.createSession(t)
	base := "/api/v1/sessions/" + id

	patch := scenarioCPatch()
	patch["postal_code"] = "9999"
	rr := e.do(t, http.MethodPatch, base+"/selection", patch, "")
	require.Equal(t, http.StatusOK, rr.Code)
	env := decodeSession(t, rr)
	assert.False(t, env.Data.CanContinue)
	assert.Equal(t, validation.MsgPostalCodeUnresolved, env.Data.Errors[validation.FieldPostalCode])

	rr = e.do(t, http.MethodPost, base+"/continue", nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	env = decodeSession(t, rr)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, validation.MsgPostalCodeUnresolved, env.Error.Details[validation.FieldPostalCode])
}

func TestSelection_EvictionAndBadInput(t *testing.T) {
	e := setupEnv(t, false)
	id := e.createSession(t)
	base := "/api/v1/sessions/" + id

	rr := e.do(t, http.MethodPatch, base+"/selection", map[string]any{
		"package_id":   "menu1",
		"toggle_sides": []string{"side_veg", "side_pap", "side_rice"},
	}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"side_veg"}, decodeSession(t, rr).Data.EvictedSides)

	rr = e.do(t, http.MethodPatch, base+"/selection", map[string]any{"package_id": "menu9"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "UNKNOWN_OPTION", decodeSession(t, rr).Error.Code)

	rr = e.do(t, http.MethodPatch, base+"/selection", map[string]any{"num_guests": 0}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_VALUE", decodeSession(t, rr).Error.Code)

	rr = e.do(t, http.MethodGet, base, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, decodeSession(t, rr).Data.Selection.NumGuests)
}

func TestSelection_OversizedGuestCountRejected(t *testing.T) {
	e := setupEnv(t, false)
	id := e.createSession(t)
	base := "/api/v1/sessions/" + id
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPatch, base+"/selection", scenarioCPatch(), "").Code)

	patch := scenarioCPatch()
	patch["num_guests"] = 1 << 60
	rr := e.do(t, http.MethodPatch, base+"/selection", patch, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_VALUE", decodeSession(t, rr).Error.Code)

	rr = e.do(t, http.MethodGet, base, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	env := decodeSession(t, rr)
	assert.Equal(t, 100, env.Data.Selection.NumGuests)
	assert.Equal(t, 16300, env.Data.Quote.Total)
	assert.True(t, env.Data.CanContinue)
}

func TestSession_WrongStepIsConflict(t *testing.T) {
	e := setupEnv(t, false)
	id := e.createSession(t)

	rr := e.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/submit", nil, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "INVALID_STATE", decodeSession(t, rr).Error.Code)
}

func TestSession_UnknownSession(t *testing.T) {
	e := setupEnv(t, false)

	rr := e.do(t, http.MethodGet, "/api/v1/sessions/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = e.do(t, http.MethodGet, "/api/v1/sessions/2b1b7d3e-6c55-4a53-9d7c-1f6f1e0f7a10", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSession_RestoredAfterRestart(t *testing.T) {
	e := setupEnv(t, false)
	id := e.createSession(t)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPatch, "/api/v1/sessions/"+id+"/selection", scenarioCPatch(), "").Code)

	// a fresh service over the same storage has no live sessions
	restarted := NewService(e.deps, NewHub())
	sess, err := restarted.Get(context.Background(), id)
	require.NoError(t, err)

	var view workflow.View
	require.NoError(t, sess.Do(func(wf *workflow.Workflow) error {
		view = wf.View()
		return nil
	}))
	assert.Equal(t, "menu1", view.Selection.SelectedPackage)
	assert.Equal(t, 16300, view.Quote.Total)
}

func TestSession_IdleSessionsAreSweptAndRestored(t *testing.T) {
	e := setupEnv(t, false)
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	e.service.now = func() time.Time { return clock }

	idle := e.createSession(t)
	busy := e.createSession(t)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPatch, "/api/v1/sessions/"+idle+"/selection", scenarioCPatch(), "").Code)

	clock = clock.Add(20 * time.Minute)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/v1/sessions/"+busy, nil, "").Code)

	clock = clock.Add(15 * time.Minute)
	assert.Equal(t, 1, e.service.Sweep(30*time.Minute))
	assert.Equal(t, 1, e.service.Len())

	rr := e.do(t, http.MethodGet, "/api/v1/sessions/"+idle, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	env := decodeSession(t, rr)
	assert.Equal(t, "menu1", env.Data.Selection.SelectedPackage)
	assert.Equal(t, 16300, env.Data.Quote.Total)
	assert.Equal(t, 2, e.service.Len())
}

func TestSession_ConfirmedSessionLeavesMemory(t *testing.T) {
	e := setupEnv(t, false)
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	e.service.now = func() time.Time { return clock }

	id := e.createSession(t)
	base := "/api/v1/sessions/" + id
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPatch, base+"/selection", scenarioCPatch(), "").Code)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, base+"/continue", nil, "").Code)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPut, base+"/form", validFormBody(), "").Code)
	require.Equal(t, http.StatusCreated, e.do(t, http.MethodPost, base+"/submit", nil, "").Code)

	assert.Zero(t, e.service.Sweep(30*time.Minute))

	clock = clock.Add(confirmedLinger)
	assert.Equal(t, 1, e.service.Sweep(30*time.Minute))
	assert.Zero(t, e.service.Len())

	// the selection was cleared on confirmation, so there is nothing to restore
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, base, nil, "").Code)
}

func TestSession_AuthGate(t *testing.T) {
	e := setupEnv(t, true)
	id := e.createSession(t)
	base := "/api/v1/sessions/" + id

	require.Equal(t, http.StatusOK, e.do(t, http.MethodPatch, base+"/selection", scenarioCPatch(), "").Code)

	rr := e.do(t, http.MethodPost, base+"/continue", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, workflow.StepAuthGate, decodeSession(t, rr).Data.Step)

	rr = e.do(t, http.MethodPost, base+"/sign-in", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "SIGN_IN_REQUIRED", decodeSession(t, rr).Error.Code)

	token, err := e.jwt.GenerateToken("user-5")
	require.NoError(t, err)
	rr = e.do(t, http.MethodPost, base+"/sign-in", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, workflow.StepFormFilling, decodeSession(t, rr).Data.Step)

	require.Equal(t, http.StatusOK, e.do(t, http.MethodPut, base+"/form", validFormBody(), token).Code)
	require.Equal(t, http.StatusCreated, e.do(t, http.MethodPost, base+"/submit", nil, token).Code)
	require.Len(t, e.primary.seen, 1)
	assert.Equal(t, "user-5", e.primary.seen[0].UserID)
}

func TestWatch_StreamsViews(t *testing.T) {
	e := setupEnv(t, false)
	srv := httptest.NewServer(e.router)
	defer srv.Close()

	id := e.createSession(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/sessions/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	var first SessionResponse
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, id, first.SessionID)
	assert.Equal(t, 1, first.Selection.NumGuests)

	require.Equal(t, http.StatusOK, e.do(t, http.MethodPatch, "/api/v1/sessions/"+id+"/selection", map[string]any{"num_guests": 42}, "").Code)

	var next SessionResponse
	require.NoError(t, conn.ReadJSON(&next))
	assert.Equal(t, 42, next.Selection.NumGuests)
}
