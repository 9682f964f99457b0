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

type bookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new PostgreSQL booking repository
func NewBookingRepository(db *sqlx.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	query := `
		SELECT id, air_club_id, aircraft_id, profile_id, starts_at, ends_at, notes, created_at
		FROM bookings
		WHERE id = $1`

	var booking domain.Booking
	err := r.db.GetContext(ctx, &booking, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking by id: %w", err)
	}

	return &booking, nil
}

func (r *bookingRepository) ListByAirClub(ctx context.Context, airClubID uuid.UUID) ([]*domain.Booking, error) {
	query := `
		SELECT id, air_club_id, aircraft_id, profile_id, starts_at, ends_at, notes, created_at
		FROM bookings
		WHERE air_club_id = $1
		ORDER BY starts_at`

	var bookings []*domain.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, airClubID); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, air_club_id, aircraft_id, profile_id, starts_at, ends_at, notes, created_at)
		VALUES (:id, :air_club_id, :aircraft_id, :profile_id, :starts_at, :ends_at, :notes, :created_at)`

	_, err := r.db.NamedExecContext(ctx, query, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
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
