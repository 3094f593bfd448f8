package jwt

import (
	"testing"
	"time"

	"contacts_service/internal/config"

	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager(config.Tokens{
		Secret:          "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		EmailTokenTTL:   24 * time.Hour,
	})
}

func TestRoundTripAllScopes(t *testing.T) {
	t.Parallel()

	m := newTestManager()

	access, err := m.NewAccessToken("a@x.com")
	require.NoError(t, err)
	refresh, err := m.NewRefreshToken("a@x.com")
	require.NoError(t, err)
	confirm, err := m.NewEmailToken("a@x.com")
	require.NoError(t, err)

	email, err := m.ParseAccess(access)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", email)

	email, err = m.ParseRefresh(refresh)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", email)

	email, err = m.ParseEmail(confirm)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", email)
}

func TestScopesAreNotInterchangeable(t *testing.T) {
	t.Parallel()

	m := newTestManager()

	access, err := m.NewAccessToken("a@x.com")
	require.NoError(t, err)
	refresh, err := m.NewRefreshToken("a@x.com")
	require.NoError(t, err)

	_, err = m.ParseRefresh(access)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ParseAccess(refresh)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ParseEmail(access)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Parallel()

	m := NewManager(config.Tokens{
		Secret:          "test-secret",
		AccessTokenTTL:  -time.Second,
		RefreshTokenTTL: -time.Second,
		EmailTokenTTL:   -time.Second,
	})

	token, err := m.NewAccessToken("a@x.com")
	require.NoError(t, err)

	_, err = m.ParseAccess(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestWrongSecretRejected(t *testing.T) {
	t.Parallel()

	token, err := newTestManager().NewRefreshToken("a@x.com")
	require.NoError(t, err)

	other := NewManager(config.Tokens{
		Secret:          "other-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Minute,
		EmailTokenTTL:   time.Minute,
	})

	_, err = other.ParseRefresh(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestMalformedTokenRejected(t *testing.T) {
	t.Parallel()

	_, err := newTestManager().ParseAccess("not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}
