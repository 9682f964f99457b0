package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Andriiy/slotroster-api/internal/domain"
)

type SessionRepository interface {
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error)
	Create(ctx context.Context, session *domain.Session) error
	Update(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
}
