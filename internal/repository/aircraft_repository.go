package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Andriiy/slotroster-api/internal/domain"
)

type AircraftRepository interface {
	ListByAirClub(ctx context.Context, airClubID uuid.UUID) ([]*domain.Aircraft, error)
	CountByAirClub(ctx context.Context, airClubID uuid.UUID) (int, error)
	Create(ctx context.Context, aircraft *domain.Aircraft) error
	Delete(ctx context.Context, id uuid.UUID) error
}
