package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile links an identity to an air club and carries its role flags.
// One profile per user: membership is one-club-per-identity in this schema.
type Profile struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	UserID       uuid.UUID  `json:"user_id" db:"user_id"`
	AirClubID    *uuid.UUID `json:"air_club_id,omitempty" db:"air_club_id"`
	Email        string     `json:"email" db:"email"`
	FullName     string     `json:"full_name" db:"full_name"`
	IsAdmin      bool       `json:"is_admin" db:"is_admin"`
	IsPilot      bool       `json:"is_pilot" db:"is_pilot"`
	IsInstructor bool       `json:"is_instructor" db:"is_instructor"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}
