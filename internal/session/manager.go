package session

import (
	"errors"
	"sync"

	"github.com/vjzest/architect-storefront/pkg/logger"
)

// Manager owns the in-memory copy of the current session and keeps the
// durable store in step with it. It is the single token source for the API
// client; a failed login never touches it.
type Manager struct {
	store Store
	log   *logger.Logger

	mu      sync.RWMutex
	current Session
}

// NewManager creates a manager over the given store.
func NewManager(store Store, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.NewDefault("session")
	}
	return &Manager{store: store, log: log}
}

// Load rehydrates the session from the durable store. An absent session is
// not an error, the client simply starts unauthenticated.
func (m *Manager) Load() error {
	sess, err := m.store.Load()
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil
		}
		return err
	}

	m.mu.Lock()
	m.current = sess
	m.mu.Unlock()

	m.log.WithField("user_id", sess.UserID).Debug("session restored")
	return nil
}

// Current returns a snapshot of the active session.
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Token returns the current bearer token, or "" when unauthenticated. It
// satisfies the API client's token source.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Token
}

// Authenticated reports whether a session with a token is active.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Valid()
}

// Establish installs a freshly authenticated session and persists it. The
// in-memory session is only replaced after the durable write succeeds, so a
// storage failure cannot leave the two out of step.
func (m *Manager) Establish(sess Session) error {
	if err := m.store.Save(sess); err != nil {
		return err
	}

	m.mu.Lock()
	m.current = sess
	m.mu.Unlock()

	m.log.WithField("user_id", sess.UserID).Info("session established")
	return nil
}

// Clear logs out: drops the in-memory session and removes the durable blob.
func (m *Manager) Clear() error {
	m.mu.Lock()
	m.current = Session{}
	m.mu.Unlock()

	return m.store.Clear()
}
