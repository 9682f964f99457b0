// Package memory provides in-memory repository implementations used by
// service tests. All types are safe for concurrent use.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Andriiy/slotroster-api/internal/domain"
	"github.com/Andriiy/slotroster-api/internal/repository"
)

type AirClubRepository struct {
	mu    sync.RWMutex
	clubs map[uuid.UUID]domain.AirClub
}

func NewAirClubRepository() *AirClubRepository {
	return &AirClubRepository{clubs: make(map[uuid.UUID]domain.AirClub)}
}

func (r *AirClubRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AirClub, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	club, ok := r.clubs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := club
	return &c, nil
}

func (r *AirClubRepository) GetByStripeSubscriptionID(ctx context.Context, subscriptionID string) (*domain.AirClub, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, club := range r.clubs {
		if club.StripeSubscriptionID != nil && *club.StripeSubscriptionID == subscriptionID {
			c := club
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *AirClubRepository) ListAccessible(ctx context.Context, userID uuid.UUID, memberOf []uuid.UUID) ([]*domain.AirClub, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	member := make(map[uuid.UUID]bool, len(memberOf))
	for _, id := range memberOf {
		member[id] = true
	}

	var out []*domain.AirClub
	for _, club := range r.clubs {
		if club.CreatedBy == userID || member[club.ID] {
			c := club
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *AirClubRepository) Create(ctx context.Context, club *domain.AirClub) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clubs[club.ID] = *club
	return nil
}

func (r *AirClubRepository) Update(ctx context.Context, club *domain.AirClub) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clubs[club.ID]; !ok {
		return repository.ErrNotFound
	}
	r.clubs[club.ID] = *club
	return nil
}

func (r *AirClubRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clubs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.clubs, id)
	return nil
}
