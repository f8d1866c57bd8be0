package booking

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	domainbooking "catering/internal/domain/booking"
	"catering/internal/domain/selection"
	"catering/internal/domain/submission"
	"catering/internal/domain/workflow"
	"catering/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Handler struct {
	service    *Service
	hub        *Hub
	fallback   domainbooking.FallbackCache
	notifyWait time.Duration
	upgrader   websocket.Upgrader
}

// NewHandler wires the session endpoints. allowedOrigins gates websocket
// upgrades; an empty list allows any origin.
func NewHandler(service *Service, hub *Hub, fallback domainbooking.FallbackCache, notifyWait time.Duration, allowedOrigins []string) *Handler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	return &Handler{
		service:    service,
		hub:        hub,
		fallback:   fallback,
		notifyWait: notifyWait,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(origins) == 0 || origin == "" || origins[origin]
			},
		},
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/sessions")
	{
		sessions.POST("", h.CreateSession)
		sessions.GET("/:id", h.GetSession)
		sessions.PATCH("/:id/selection", h.UpdateSelection)
		sessions.POST("/:id/reset", h.ResetSession)
		sessions.POST("/:id/continue", h.Continue)
		sessions.POST("/:id/back", h.Back)
		sessions.POST("/:id/sign-in", h.SignIn)
		sessions.PUT("/:id/form", h.UpdateForm)
		sessions.POST("/:id/submit", h.Submit)
		sessions.GET("/:id/ws", h.Watch)
	}
}

// RegisterSupportRoutes exposes parked bookings. Mount behind auth.
func (h *Handler) RegisterSupportRoutes(r *gin.RouterGroup) {
	r.GET("/bookings/fallback/:reference", h.GetFallbackBooking)
}

// CreateSession handles POST /api/v1/sessions
func (h *Handler) CreateSession(c *gin.Context) {
	sess, err := h.service.Create(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	var view workflow.View
	_ = sess.Do(func(wf *workflow.Workflow) error {
		view = wf.View()
		return nil
	})
	response.Success(c, http.StatusCreated, SessionResponse{SessionID: sess.ID, View: view})
}

// GetSession handles GET /api/v1/sessions/:id
func (h *Handler) GetSession(c *gin.Context) {
	h.withSession(c, http.StatusOK, func(ctx context.Context, wf *workflow.Workflow) error {
		return nil
	})
}

// UpdateSelection handles PATCH /api/v1/sessions/:id/selection
func (h *Handler) UpdateSelection(c *gin.Context) {
	var patch SelectionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	sess, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	var out SelectionResponse
	err = sess.Do(func(wf *workflow.Workflow) error {
		err := wf.Mutate(c.Request.Context(), func(s *selection.Store) error {
			evicted, err := patch.Apply(s)
			out.EvictedSides = evicted
			return err
		})
		if err != nil {
			return err
		}
		out.SessionResponse = SessionResponse{SessionID: sess.ID, View: wf.View()}
		return nil
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// ResetSession handles POST /api/v1/sessions/:id/reset
func (h *Handler) ResetSession(c *gin.Context) {
	h.withSession(c, http.StatusOK, func(ctx context.Context, wf *workflow.Workflow) error {
		return wf.Reset(ctx)
	})
}

// Continue handles POST /api/v1/sessions/:id/continue
func (h *Handler) Continue(c *gin.Context) {
	h.withSession(c, http.StatusOK, func(ctx context.Context, wf *workflow.Workflow) error {
		return wf.Continue(ctx)
	})
}

// Back handles POST /api/v1/sessions/:id/back
func (h *Handler) Back(c *gin.Context) {
	h.withSession(c, http.StatusOK, func(ctx context.Context, wf *workflow.Workflow) error {
		return wf.Back()
	})
}

// SignIn handles POST /api/v1/sessions/:id/sign-in. The bearer token on
// this request is what the identity check sees.
func (h *Handler) SignIn(c *gin.Context) {
	h.withSession(c, http.StatusOK, func(ctx context.Context, wf *workflow.Workflow) error {
		return wf.SignedIn(ctx)
	})
}

// UpdateForm handles PUT /api/v1/sessions/:id/form
func (h *Handler) UpdateForm(c *gin.Context) {
	var form domainbooking.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	h.withSession(c, http.StatusOK, func(ctx context.Context, wf *workflow.Workflow) error {
		return wf.UpdateForm(ctx, form)
	})
}

// Submit handles POST /api/v1/sessions/:id/submit. It waits up to
// notifyWait for the notifier so the answer usually carries the final
// outcome.
func (h *Handler) Submit(c *gin.Context) {
	sess, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	var out SubmitResponse
	err = sess.Do(func(wf *workflow.Workflow) error {
		a, err := wf.Submit(c.Request.Context())
		if err != nil {
			return err
		}
		if h.notifyWait > 0 {
			ctx, cancel := context.WithTimeout(c.Request.Context(), h.notifyWait)
			a.Wait(ctx)
			cancel()
		}
		v := wf.View()
		out = SubmitResponse{SessionID: sess.ID, Step: v.Step, Submission: v.Submission}
		return nil
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if out.Step == workflow.StepConfirmed {
		h.service.MarkConfirmed(sess)
	}

	status := http.StatusCreated
	if out.Submission.Outcome == submission.OutcomeFailedLocalOnly {
		status = http.StatusAccepted
	}
	response.Success(c, status, out)
}

// Watch handles GET /api/v1/sessions/:id/ws and streams a fresh view
// after every change to the session.
func (h *Handler) Watch(c *gin.Context) {
	sess, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws_upgrade session_id=%s error=%q", sess.ID, err.Error())
		return
	}

	var cl *client
	_ = sess.Do(func(wf *workflow.Workflow) error {
		cl = h.hub.Register(sess.ID, conn)
		return cl.send(SessionResponse{SessionID: sess.ID, View: wf.View()})
	})
	defer h.hub.Unregister(sess.ID, cl)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws_read session_id=%s error=%q", sess.ID, err.Error())
			}
			return
		}
	}
}

// GetFallbackBooking handles GET /api/v1/bookings/fallback/:reference
func (h *Handler) GetFallbackBooking(c *gin.Context) {
	entry, err := h.fallback.Get(c.Request.Context(), c.Param("reference"))
	if errors.Is(err, domainbooking.ErrFallbackEntryNotFound) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "No parked booking with this reference")
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entry)
}

func (h *Handler) withSession(c *gin.Context, status int, fn func(ctx context.Context, wf *workflow.Workflow) error) {
	sess, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	var view workflow.View
	err = sess.Do(func(wf *workflow.Workflow) error {
		if err := fn(c.Request.Context(), wf); err != nil {
			return err
		}
		view = wf.View()
		return nil
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, status, SessionResponse{SessionID: sess.ID, View: view})
}
