package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Andriiy/slotroster-api/internal/domain"
)

type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	ListByAirClub(ctx context.Context, airClubID uuid.UUID) ([]*domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) error
	Delete(ctx context.Context, id uuid.UUID) error
}
