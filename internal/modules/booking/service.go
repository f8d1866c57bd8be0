package booking

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"catering/internal/domain/catalog"
	"catering/internal/domain/selection"
	"catering/internal/domain/travel"
	"catering/internal/domain/validation"
	"catering/internal/domain/workflow"

	"github.com/google/uuid"
)

// Deps are shared by every session's workflow.
type Deps struct {
	Catalog        *catalog.Catalog
	Resolver       *travel.Resolver
	Validator      *validation.Engine
	Storage        selection.LocalStorage
	Identity       workflow.IdentityProvider
	Submitter      workflow.Submitter
	RequireAccount bool
}

// Session is one customer's booking workflow. Callers hold mu for every
// workflow call.
type Session struct {
	ID string

	mu sync.Mutex
	wf *workflow.Workflow

	lastUsed  atomic.Int64
	confirmed atomic.Bool
}

// Do runs fn with the session locked.
func (s *Session) Do(fn func(wf *workflow.Workflow) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.wf)
}

// confirmedLinger is how long a confirmed session stays in memory so the
// customer can still read the outcome.
const confirmedLinger = time.Minute

// Service keeps live sessions in memory and rebuilds them from local
// storage after a restart or an eviction.
type Service struct {
	deps Deps
	hub  *Hub
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewService(deps Deps, hub *Hub) *Service {
	return &Service{
		deps:     deps,
		hub:      hub,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a session and saves its empty selection so the id can be
// restored later.
func (s *Service) Create(ctx context.Context) (*Session, error) {
	sess := s.newSession(uuid.NewString())
	err := sess.wf.Mutate(ctx, func(*selection.Store) error { return nil })
	if err != nil {
		return nil, err
	}

	s.touch(sess)
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess, nil
}

// Get returns the live session or restores it from local storage.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidSession
	}

	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		s.touch(sess)
		return sess, nil
	}

	sess = s.newSession(id)
	restored, err := sess.wf.Restore(ctx)
	if err != nil {
		return nil, err
	}
	if !restored {
		return nil, ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[id]; ok {
		s.touch(existing)
		return existing, nil
	}
	s.touch(sess)
	s.sessions[id] = sess
	return sess, nil
}

// MarkConfirmed shortens the session's stay in memory. Its saved
// selection is already cleared, so nothing is lost on eviction.
func (s *Service) MarkConfirmed(sess *Session) {
	sess.confirmed.Store(true)
	s.touch(sess)
}

// Sweep drops sessions unused for longer than idle, and confirmed ones
// after confirmedLinger. Evicted sessions come back from local storage on
// the next Get.
func (s *Service) Sweep(idle time.Duration) int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		limit := idle
		if sess.confirmed.Load() && confirmedLinger < limit {
			limit = confirmedLinger
		}
		if now.Sub(time.Unix(0, sess.lastUsed.Load())) >= limit {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Service) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(idle); n > 0 {
				log.Printf("session_sweep evicted=%d idle=%s", n, idle)
			}
		}
	}
}

// Len reports how many sessions are held in memory.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Service) touch(sess *Session) {
	sess.lastUsed.Store(s.now().UnixNano())
}

func (s *Service) newSession(id string) *Session {
	wf := workflow.New(workflow.Config{
		Store:          selection.NewStore(s.deps.Catalog, s.deps.Resolver),
		Persistence:    selection.NewPersistence(s.deps.Storage, id),
		Validator:      s.deps.Validator,
		Fees:           s.deps.Resolver,
		Identity:       s.deps.Identity,
		Submitter:      s.deps.Submitter,
		RequireAccount: s.deps.RequireAccount,
	})
	wf.Watch(func(v workflow.View) {
		s.hub.Broadcast(id, SessionResponse{SessionID: id, View: v})
	})
	return &Session{ID: id, wf: wf}
}
