package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Andriiy/slotroster-api/internal/domain"
	"github.com/Andriiy/slotroster-api/internal/repository"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[uuid.UUID]domain.User)}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := u
	return &c, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			c := u
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetByProvider(ctx context.Context, provider, providerID string) (*domain.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Provider != nil && *u.Provider == provider && u.ProviderID != nil && *u.ProviderID == providerID {
			c := u
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) IncrementFailedLogins(ctx context.Context, id uuid.UUID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.FailedLogins++
	r.users[id] = u
	return nil
}

func (r *UserRepository) ResetFailedLogins(ctx context.Context, id uuid.UUID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.FailedLogins = 0
	u.LockedUntil = nil
	r.users[id] = u
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	now := time.Now()
	u.LastLoginAt = &now
	r.users[id] = u
	return nil
}
