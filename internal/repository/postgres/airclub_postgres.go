package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Andriiy/slotroster-api/internal/domain"
	"github.com/Andriiy/slotroster-api/internal/repository"
)

const airClubColumns = `id, name, address, phone, email, airport, description, website,
	   stripe_customer_id, stripe_subscription_id, stripe_product_id,
	   plan_name, subscription_status, subscription_start_date, subscription_end_date,
	   aircraft_limit, trial_start_date, trial_end_date, is_trial_active,
	   trial_plan_name, trial_aircraft_limit, created_by, created_at, updated_at`

type airClubRepository struct {
	db *sqlx.DB
}

// NewAirClubRepository creates a new PostgreSQL air club repository
func NewAirClubRepository(db *sqlx.DB) repository.AirClubRepository {
	return &airClubRepository{db: db}
}

func (r *airClubRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AirClub, error) {
	query := `SELECT ` + airClubColumns + ` FROM air_club WHERE id = $1`

	var club domain.AirClub
	err := r.db.GetContext(ctx, &club, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get air club by id: %w", err)
	}

	return &club, nil
}

func (r *airClubRepository) GetByStripeSubscriptionID(ctx context.Context, subscriptionID string) (*domain.AirClub, error) {
	query := `SELECT ` + airClubColumns + ` FROM air_club WHERE stripe_subscription_id = $1`

	var club domain.AirClub
	err := r.db.GetContext(ctx, &club, query, subscriptionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get air club by subscription id: %w", err)
	}

	return &club, nil
}

// ListAccessible returns clubs the user owns or is a member of. The empty
// member set degrades to an owner-only query: ANY over an empty array is
// handled explicitly rather than left to the driver.
func (r *airClubRepository) ListAccessible(ctx context.Context, userID uuid.UUID, memberOf []uuid.UUID) ([]*domain.AirClub, error) {
	var clubs []*domain.AirClub
	var err error

	if len(memberOf) == 0 {
		query := `SELECT ` + airClubColumns + `
			FROM air_club
			WHERE created_by = $1
			ORDER BY created_at DESC`
		err = r.db.SelectContext(ctx, &clubs, query, userID)
	} else {
		ids := make([]string, len(memberOf))
		for i, id := range memberOf {
			ids[i] = id.String()
		}
		query := `SELECT ` + airClubColumns + `
			FROM air_club
			WHERE created_by = $1 OR id = ANY($2)
			ORDER BY created_at DESC`
		err = r.db.SelectContext(ctx, &clubs, query, userID, pq.Array(ids))
	}

	if err != nil {
		return nil, fmt.Errorf("failed to list air clubs: %w", err)
	}

	return clubs, nil
}

func (r *airClubRepository) Create(ctx context.Context, club *domain.AirClub) error {
	query := `
		INSERT INTO air_club (
			id, name, address, phone, email, airport, description, website,
			stripe_customer_id, stripe_subscription_id, stripe_product_id,
			plan_name, subscription_status, subscription_start_date, subscription_end_date,
			aircraft_limit, trial_start_date, trial_end_date, is_trial_active,
			trial_plan_name, trial_aircraft_limit, created_by, created_at, updated_at
		) VALUES (
			:id, :name, :address, :phone, :email, :airport, :description, :website,
			:stripe_customer_id, :stripe_subscription_id, :stripe_product_id,
			:plan_name, :subscription_status, :subscription_start_date, :subscription_end_date,
			:aircraft_limit, :trial_start_date, :trial_end_date, :is_trial_active,
			:trial_plan_name, :trial_aircraft_limit, :created_by, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, club)
	if err != nil {
		return fmt.Errorf("failed to create air club: %w", err)
	}

	return nil
}

func (r *airClubRepository) Update(ctx context.Context, club *domain.AirClub) error {
	query := `
		UPDATE air_club
		SET name = :name,
			address = :address,
			phone = :phone,
			email = :email,
			airport = :airport,
			description = :description,
			website = :website,
			stripe_customer_id = :stripe_customer_id,
			stripe_subscription_id = :stripe_subscription_id,
			stripe_product_id = :stripe_product_id,
			plan_name = :plan_name,
			subscription_status = :subscription_status,
			subscription_start_date = :subscription_start_date,
			subscription_end_date = :subscription_end_date,
			aircraft_limit = :aircraft_limit,
			trial_start_date = :trial_start_date,
			trial_end_date = :trial_end_date,
			is_trial_active = :is_trial_active,
			trial_plan_name = :trial_plan_name,
			trial_aircraft_limit = :trial_aircraft_limit,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, club)
	if err != nil {
		return fmt.Errorf("failed to update air club: %w", err)
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

func (r *airClubRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM air_club WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete air club: %w", err)
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
