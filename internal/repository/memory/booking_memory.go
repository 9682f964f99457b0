package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Andriiy/slotroster-api/internal/domain"
	"github.com/Andriiy/slotroster-api/internal/repository"
)

type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]domain.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{bookings: make(map[uuid.UUID]domain.Booking)}
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := b
	return &c, nil
}

func (r *BookingRepository) ListByAirClub(ctx context.Context, airClubID uuid.UUID) ([]*domain.Booking, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.AirClubID == airClubID {
			c := b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bookings[booking.ID] = *booking
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}
