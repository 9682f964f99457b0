package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Andriiy/slotroster-api/internal/domain"
	"github.com/Andriiy/slotroster-api/internal/repository"
)

type profileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository creates a new PostgreSQL profile repository
func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	query := `
		SELECT id, user_id, air_club_id, email, full_name,
			   is_admin, is_pilot, is_instructor, created_at
		FROM profiles
		WHERE user_id = $1`

	var profile domain.Profile
	err := r.db.GetContext(ctx, &profile, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile by user id: %w", err)
	}

	return &profile, nil
}

func (r *profileRepository) ListByAirClub(ctx context.Context, airClubID uuid.UUID) ([]*domain.Profile, error) {
	query := `
		SELECT id, user_id, air_club_id, email, full_name,
			   is_admin, is_pilot, is_instructor, created_at
		FROM profiles
		WHERE air_club_id = $1
		ORDER BY created_at`

	var profiles []*domain.Profile
	if err := r.db.SelectContext(ctx, &profiles, query, airClubID); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	return profiles, nil
}

func (r *profileRepository) AirClubIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT air_club_id FROM profiles WHERE user_id = $1 AND air_club_id IS NOT NULL`

	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get club ids for user: %w", err)
	}

	return ids, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (
			id, user_id, air_club_id, email, full_name,
			is_admin, is_pilot, is_instructor, created_at
		) VALUES (
			:id, :user_id, :air_club_id, :email, :full_name,
			:is_admin, :is_pilot, :is_instructor, :created_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	query := `
		UPDATE profiles
		SET air_club_id = :air_club_id,
			email = :email,
			full_name = :full_name,
			is_admin = :is_admin,
			is_pilot = :is_pilot,
			is_instructor = :is_instructor
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}
