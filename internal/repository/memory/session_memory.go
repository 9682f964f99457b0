package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Andriiy/slotroster-api/internal/domain"
	"github.com/Andriiy/slotroster-api/internal/repository"
)

type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]domain.Session
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[uuid.UUID]domain.Session)}
}

func (r *SessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sessions {
		if s.RefreshTokenHash == tokenHash {
			c := s
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *SessionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Session
	for _, s := range r.sessions {
		if s.UserID == userID {
			c := s
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID] = *session
	return nil
}

func (r *SessionRepository) Update(ctx context.Context, session *domain.Session) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[session.ID]; !ok {
		return repository.ErrNotFound
	}
	r.sessions[session.ID] = *session
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}

func (r *SessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.sessions {
		if s.RefreshTokenHash == tokenHash {
			delete(r.sessions, id)
		}
	}
	return nil
}
