package domain

import (
	"time"

	"github.com/google/uuid"
)

// Aircraft is a child entity of an air club.
type Aircraft struct {
	ID           uuid.UUID `json:"id" db:"id"`
	AirClubID    uuid.UUID `json:"air_club_id" db:"air_club_id"`
	Registration string    `json:"registration" db:"registration"`
	Type         string    `json:"type" db:"type"`
	Seats        int       `json:"seats" db:"seats"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
