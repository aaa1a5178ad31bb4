package types

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// User is the persisted account identity. PasswordHash is never serialized.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SearchHistoryEntry records one weather lookup made by a user. WeatherData
// holds the provider payload exactly as it was returned.
type SearchHistoryEntry struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Location    string          `json:"location"`
	WeatherData json.RawMessage `json:"weather_data"`
	SearchedAt  time.Time       `json:"searched_at"`
}

// Claims represents the custom claims included in the JWT access token.
type Claims struct {
	UserID               string `json:"uid"`           // Custom claim for User ID.
	Username             string `json:"usr,omitempty"` // Custom claim for Username.
	jwt.RegisteredClaims        // Embed standard claims (ExpiresAt, IssuedAt, Subject, etc.).
}
