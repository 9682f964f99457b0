package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Andriiy/slotroster-api/internal/domain"
	"github.com/Andriiy/slotroster-api/internal/repository"
)

type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]domain.Profile
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: make(map[uuid.UUID]domain.Profile)}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.profiles {
		if p.UserID == userID {
			c := p
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *ProfileRepository) ListByAirClub(ctx context.Context, airClubID uuid.UUID) ([]*domain.Profile, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Profile
	for _, p := range r.profiles {
		if p.AirClubID != nil && *p.AirClubID == airClubID {
			c := p
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *ProfileRepository) AirClubIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []uuid.UUID
	for _, p := range r.profiles {
		if p.UserID == userID && p.AirClubID != nil {
			ids = append(ids, *p.AirClubID)
		}
	}
	return ids, nil
}

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[profile.ID] = *profile
	return nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[profile.ID]; !ok {
		return repository.ErrNotFound
	}
	r.profiles[profile.ID] = *profile
	return nil
}
