package capture

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry holds the open capture sessions, one per id, scoped to their
// owning user.
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	deps     Deps
	logger   *zap.Logger
}

func NewRegistry(deps Deps, logger *zap.Logger) *Registry {
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
		deps:     deps,
		logger:   logger,
	}
}

func (r *Registry) Create(userID uuid.UUID) *Session {
	s := NewSession(userID, r.deps, r.logger)
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get returns the session only when it belongs to the requesting user.
func (r *Registry) Get(id, userID uuid.UUID) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close closes and removes the session. Confirmation rules are the
// session's; a refused close keeps it registered.
func (r *Registry) Close(id, userID uuid.UUID, confirm bool) error {
	s, err := r.Get(id, userID)
	if err != nil {
		return err
	}
	if err := s.Close(confirm); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
	return nil
}
