package session

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"medreport/internal/dashboard"
	"medreport/internal/shared/metrics"
	"medreport/internal/shared/telemetry"
	"medreport/internal/upload"
)

const (
	defaultMaxSessions = 10000
	defaultIdleTTL     = 30 * time.Minute
)

// Session bundles the per-visitor state behind one session id.
type Session struct {
	ID         string
	Store      *Store
	Controller *upload.Controller
	Dashboard  *dashboard.Dispatcher
	Assistant  *dashboard.Assistant

	rehydrate sync.Once
}

func (s *Session) close() {
	if s.Assistant != nil {
		s.Assistant.Close()
	}
}

// RegistryConfig wires a Registry.
type RegistryConfig struct {
	Slot           Slot
	Analyzer       upload.Analyzer
	Indicator      upload.Indicator
	MaxUploadBytes int64
	Dashboard      dashboard.Options
	IdleTTL        time.Duration
	MaxSessions    int
	ReplyDelay     time.Duration
}

// Registry hands out one Session per id, creating and rehydrating it on first
// use. Sessions idle for longer than IdleTTL are evicted.
type Registry struct {
	cfg RegistryConfig

	mu       sync.Mutex
	sessions *expirable.LRU[string, *Session]
}

func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = defaultIdleTTL
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = defaultMaxSessions
	}
	r := &Registry{cfg: cfg}
	r.sessions = expirable.NewLRU[string, *Session](cfg.MaxSessions, r.onEvict, cfg.IdleTTL)
	return r
}

func (r *Registry) onEvict(id string, s *Session) {
	// Nothing outlives the process for a volatile slot, so an evicted
	// session's entry would only leak.
	if v, ok := r.cfg.Slot.(volatileSlot); ok && v.volatile() {
		if err := r.cfg.Slot.Delete(context.Background(), id); err != nil {
			telemetry.Error("session.slot_delete_failed", map[string]any{"session_id": id, "error": err.Error()})
		}
	}
	s.close()
	metrics.SessionClosed()
	telemetry.Info("session.evicted", map[string]any{"session_id": id})
}

// Get returns the session for id, creating it if needed. Each access
// restarts the idle timer. A new session is rehydrated from its slot once,
// and every caller waits for that before the session is returned.
func (r *Registry) Get(ctx context.Context, id string) *Session {
	r.mu.Lock()
	s, ok := r.sessions.Get(id)
	if !ok {
		s = r.newSession(id)
		metrics.SessionOpened()
	}
	// Re-adding an existing key refreshes its expiry without eviction.
	r.sessions.Add(id, s)
	r.mu.Unlock()

	s.rehydrate.Do(func() {
		if s.Store.Rehydrate(ctx) {
			telemetry.Info("session.rehydrated", map[string]any{"session_id": id})
		}
	})
	return s
}

// Peek returns an existing session without creating one or touching its timer.
func (r *Registry) Peek(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions.Peek(id)
}

func (r *Registry) newSession(id string) *Session {
	store := NewStore(id, r.cfg.Slot)
	return &Session{
		ID:    id,
		Store: store,
		Controller: upload.NewController(upload.Config{
			Analyzer:       r.cfg.Analyzer,
			Store:          store,
			Indicator:      r.cfg.Indicator,
			MaxUploadBytes: r.cfg.MaxUploadBytes,
			SessionID:      id,
		}),
		Dashboard: dashboard.NewDispatcher(r.cfg.Dashboard),
		Assistant: dashboard.NewAssistant(r.cfg.ReplyDelay),
	}
}

// Remove evicts the session for id.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions.Remove(id)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions.Len()
}

// Close evicts every session.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions.Purge()
}
