package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"questlog/auth"
)

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID    uint
	SessionID string
}

// Manager issues session cookies and resolves them back to identities.
type Manager struct {
	tokens *auth.TokenIssuer
	store  Store
}

func NewManager(tokens *auth.TokenIssuer, store Store) *Manager {
	return &Manager{tokens: tokens, store: store}
}

// Start registers a new session for userID and returns the signed token to
// hand to the client.
func (m *Manager) Start(ctx context.Context, userID uint) (string, time.Time, error) {
	sessionID := uuid.NewString()

	token, expiresAt, err := m.tokens.Issue(userID, sessionID)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	data := &Data{
		UserID:    userID,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
	if err := m.store.Save(ctx, sessionID, data, m.tokens.TTL()); err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

// Resolve validates token and checks that its session is still live.
func (m *Manager) Resolve(ctx context.Context, token string) (*Identity, error) {
	claims, err := m.tokens.Validate(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}

	data, err := m.store.Load(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if data.UserID != claims.UserID {
		return nil, ErrSessionNotFound
	}

	return &Identity{UserID: claims.UserID, SessionID: claims.ID}, nil
}

// End revokes a single session. Ending an unknown session is not an error.
func (m *Manager) End(ctx context.Context, sessionID string) error {
	err := m.store.Delete(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	return err
}

// EndAll revokes every session of userID.
func (m *Manager) EndAll(ctx context.Context, userID uint) error {
	return m.store.DeleteUser(ctx, userID)
}

func (m *Manager) TTL() time.Duration {
	return m.tokens.TTL()
}
