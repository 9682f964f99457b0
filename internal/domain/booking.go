package domain

import (
	"time"

	"github.com/google/uuid"
)

// Booking reserves an aircraft for a member over a time window.
type Booking struct {
	ID         uuid.UUID `json:"id" db:"id"`
	AirClubID  uuid.UUID `json:"air_club_id" db:"air_club_id"`
	AircraftID uuid.UUID `json:"aircraft_id" db:"aircraft_id"`
	ProfileID  uuid.UUID `json:"profile_id" db:"profile_id"`
	StartsAt   time.Time `json:"starts_at" db:"starts_at"`
	EndsAt     time.Time `json:"ends_at" db:"ends_at"`
	Notes      *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
