package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questlog/auth"
)

func TestManager_Lifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewManager(auth.NewTokenIssuer("secret", time.Hour), NewMemoryStore())

	token, expiresAt, err := m.Start(ctx, 3)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	id, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint(3), id.UserID)
	assert.NotEmpty(t, id.SessionID)

	require.NoError(t, m.End(ctx, id.SessionID))
	_, err = m.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_EndAll(t *testing.T) {
	ctx := context.Background()
	m := NewManager(auth.NewTokenIssuer("secret", time.Hour), NewMemoryStore())

	first, _, err := m.Start(ctx, 5)
	require.NoError(t, err)
	second, _, err := m.Start(ctx, 5)
	require.NoError(t, err)

	require.NoError(t, m.EndAll(ctx, 5))

	_, err = m.Resolve(ctx, first)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Resolve(ctx, second)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_RejectsTamperedToken(t *testing.T) {
	ctx := context.Background()
	m := NewManager(auth.NewTokenIssuer("secret", time.Hour), NewMemoryStore())

	token, _, err := m.Start(ctx, 1)
	require.NoError(t, err)

	_, err = m.Resolve(ctx, token+"x")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
