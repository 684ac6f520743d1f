package sessions

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned when a session id is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// Data is what the server remembers about a login session.
type Data struct {
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store keeps live sessions keyed by session id. Implementations must be safe
// for concurrent use.
type Store interface {
	Save(ctx context.Context, sessionID string, data *Data, ttl time.Duration) error
	Load(ctx context.Context, sessionID string) (*Data, error)
	Delete(ctx context.Context, sessionID string) error
	// DeleteUser removes every session belonging to userID.
	DeleteUser(ctx context.Context, userID uint) error
}
