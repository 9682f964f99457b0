package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Andriiy/slotroster-api/internal/domain"
	"github.com/Andriiy/slotroster-api/internal/repository"
)

type AircraftRepository struct {
	mu       sync.RWMutex
	aircraft map[uuid.UUID]domain.Aircraft
}

func NewAircraftRepository() *AircraftRepository {
	return &AircraftRepository{aircraft: make(map[uuid.UUID]domain.Aircraft)}
}

func (r *AircraftRepository) ListByAirClub(ctx context.Context, airClubID uuid.UUID) ([]*domain.Aircraft, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Aircraft
	for _, a := range r.aircraft {
		if a.AirClubID == airClubID {
			c := a
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Registration < out[j].Registration })
	return out, nil
}

func (r *AircraftRepository) CountByAirClub(ctx context.Context, airClubID uuid.UUID) (int, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, a := range r.aircraft {
		if a.AirClubID == airClubID {
			count++
		}
	}
	return count, nil
}

func (r *AircraftRepository) Create(ctx context.Context, aircraft *domain.Aircraft) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	r.aircraft[aircraft.ID] = *aircraft
	return nil
}

func (r *AircraftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.aircraft[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.aircraft, id)
	return nil
}
