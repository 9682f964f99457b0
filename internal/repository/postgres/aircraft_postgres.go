package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Andriiy/slotroster-api/internal/domain"
	"github.com/Andriiy/slotroster-api/internal/repository"
)

type aircraftRepository struct {
	db *sqlx.DB
}

// NewAircraftRepository creates a new PostgreSQL aircraft repository
func NewAircraftRepository(db *sqlx.DB) repository.AircraftRepository {
	return &aircraftRepository{db: db}
}

func (r *aircraftRepository) ListByAirClub(ctx context.Context, airClubID uuid.UUID) ([]*domain.Aircraft, error) {
	query := `
		SELECT id, air_club_id, registration, type, seats, created_at
		FROM aircrafts
		WHERE air_club_id = $1
		ORDER BY registration`

	var aircraft []*domain.Aircraft
	if err := r.db.SelectContext(ctx, &aircraft, query, airClubID); err != nil {
		return nil, fmt.Errorf("failed to list aircraft: %w", err)
	}

	return aircraft, nil
}

func (r *aircraftRepository) CountByAirClub(ctx context.Context, airClubID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM aircrafts WHERE air_club_id = $1`, airClubID)
	if err != nil {
		return 0, fmt.Errorf("failed to count aircraft: %w", err)
	}

	return count, nil
}

func (r *aircraftRepository) Create(ctx context.Context, aircraft *domain.Aircraft) error {
	query := `
		INSERT INTO aircrafts (id, air_club_id, registration, type, seats, created_at)
		VALUES (:id, :air_club_id, :registration, :type, :seats, :created_at)`

	_, err := r.db.NamedExecContext(ctx, query, aircraft)
	if err != nil {
		return fmt.Errorf("failed to create aircraft: %w", err)
	}

	return nil
}

func (r *aircraftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM aircrafts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete aircraft: %w", err)
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
