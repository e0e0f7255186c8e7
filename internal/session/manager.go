package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultIdleTTL is how long an untouched session survives.
const DefaultIdleTTL = 2 * time.Hour

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	// IdleTTL evicts sessions not accessed for this long. Zero means DefaultIdleTTL.
	IdleTTL time.Duration
	// HistoryLimit is passed to every controller (see WithHistoryLimit).
	HistoryLimit int
}

// Manager keys repaint controllers by session id.
type Manager struct {
	svc Repainter
	cfg ManagerConfig
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	ctrl     *Controller
	lastSeen time.Time
}

// NewManager creates an empty session registry whose controllers repaint
// through svc.
func NewManager(svc Repainter, cfg ManagerConfig) *Manager {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	return &Manager{
		svc:      svc,
		cfg:      cfg,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Create starts a new session and returns its id and controller.
func (m *Manager) Create() (string, *Controller) {
	id := uuid.NewString()
	ctrl := NewController(m.svc,
		WithSessionID(id),
		WithHistoryLimit(m.cfg.HistoryLimit),
	)

	m.mu.Lock()
	m.sessions[id] = &entry{ctrl: ctrl, lastSeen: m.now()}
	count := len(m.sessions)
	m.mu.Unlock()

	log.Info().Str("session", id).Int("active_sessions", count).Msg("Session created")
	return id, ctrl
}

// Get returns the controller for id and marks the session as recently used.
func (m *Manager) Get(id string) (*Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastSeen = m.now()
	return e.ctrl, nil
}

// Delete closes and forgets a session. It reports whether the session existed.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	e, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return false
	}
	e.ctrl.Close()
	log.Info().Str("session", id).Msg("Session deleted")
	return true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many were
// removed. Sessions with a repaint in progress are kept.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.cfg.IdleTTL)

	var evicted []*Controller
	m.mu.Lock()
	for id, e := range m.sessions {
		if e.lastSeen.After(cutoff) || e.ctrl.Snapshot().Status == StatusProcessing {
			continue
		}
		delete(m.sessions, id)
		evicted = append(evicted, e.ctrl)
	}
	m.mu.Unlock()

	for _, ctrl := range evicted {
		ctrl.Close()
	}
	if len(evicted) > 0 {
		log.Info().Int("evicted", len(evicted)).Int("active_sessions", m.Len()).Msg("Evicted idle sessions")
	}
	return len(evicted)
}

// Run sweeps idle sessions every interval until ctx is done, then closes all
// remaining sessions.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.CloseAll()
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// CloseAll closes and forgets every session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*entry)
	m.mu.Unlock()

	for _, e := range sessions {
		e.ctrl.Close()
	}
}
