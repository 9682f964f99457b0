package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the JWT claims issued by the token service. AirClubID is the
// club the user's profile points at, when one exists.
type Claims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID  `json:"user_id"`
	Email     string     `json:"email"`
	AirClubID *uuid.UUID `json:"air_club_id,omitempty"`
	SessionID *uuid.UUID `json:"session_id,omitempty"`
	TokenType string     `json:"token_type"`
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"`
}
