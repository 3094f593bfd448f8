// Package jwt mints and verifies the three token kinds the service uses.
// Access, refresh and email-confirmation tokens share one HS256 secret and
// are distinguished by the scope claim; a token presented with the wrong
// scope is invalid.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"contacts_service/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

const (
	ScopeAccess  = "access"
	ScopeRefresh = "refresh"
	ScopeEmail   = "email"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope"`
}

type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	emailTTL   time.Duration
}

func NewManager(cfg config.Tokens) *Manager {
	return &Manager{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		emailTTL:   cfg.EmailTokenTTL,
	}
}

func (m *Manager) NewAccessToken(email string) (string, error) {
	return m.newToken(email, ScopeAccess, m.accessTTL)
}

func (m *Manager) NewRefreshToken(email string) (string, error) {
	return m.newToken(email, ScopeRefresh, m.refreshTTL)
}

func (m *Manager) NewEmailToken(email string) (string, error) {
	return m.newToken(email, ScopeEmail, m.emailTTL)
}

// ParseAccess returns the subject email of a valid access token.
func (m *Manager) ParseAccess(token string) (string, error) {
	return m.parse(token, ScopeAccess)
}

// ParseRefresh returns the subject email of a valid refresh token.
func (m *Manager) ParseRefresh(token string) (string, error) {
	return m.parse(token, ScopeRefresh)
}

// ParseEmail returns the subject email of a valid confirmation token.
func (m *Manager) ParseEmail(token string) (string, error) {
	return m.parse(token, ScopeEmail)
}

func (m *Manager) newToken(email, scope string, ttl time.Duration) (string, error) {
	const op = "jwt.newToken"

	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Scope: scope,
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

func (m *Manager) parse(tokenStr, wantScope string) (string, error) {
	const op = "jwt.parse"

	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%s: unexpected signing method", op)
		}
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if !token.Valid || claims.Scope != wantScope || claims.Subject == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims.Subject, nil
}
