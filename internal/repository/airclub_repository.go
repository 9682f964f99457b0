package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Andriiy/slotroster-api/internal/domain"
)

type AirClubRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AirClub, error)
	GetByStripeSubscriptionID(ctx context.Context, subscriptionID string) (*domain.AirClub, error)
	// ListAccessible returns clubs owned by the user or listed in memberOf,
	// newest first, without duplicates.
	ListAccessible(ctx context.Context, userID uuid.UUID, memberOf []uuid.UUID) ([]*domain.AirClub, error)
	Create(ctx context.Context, club *domain.AirClub) error
	Update(ctx context.Context, club *domain.AirClub) error
	Delete(ctx context.Context, id uuid.UUID) error
}
