package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Andriiy/slotroster-api/internal/domain"
)

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	ListByAirClub(ctx context.Context, airClubID uuid.UUID) ([]*domain.Profile, error)
	// AirClubIDsForUser returns the club ids the user is a member of.
	AirClubIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	Create(ctx context.Context, profile *domain.Profile) error
	Update(ctx context.Context, profile *domain.Profile) error
}
