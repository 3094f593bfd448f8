package confirmation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"contacts_service/internal/config"
	jwtlib "contacts_service/internal/lib/jwt"
	"contacts_service/internal/models"

	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	sent []models.Message
	err  error
}

func (f *fakePublisher) SendMessage(ctx context.Context, msg models.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func newTokens() *jwtlib.Manager {
	return jwtlib.NewManager(config.Tokens{
		Secret:          "test-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		EmailTokenTTL:   time.Hour,
	})
}

func TestSendQueuesConfirmationLink(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := Send(context.Background(), log, pub, newTokens(), "http://localhost:8080", "a@x.com")
	require.NoError(t, err)
	require.Len(t, pub.sent, 1)

	msg := pub.sent[0]
	require.Equal(t, "a@x.com", msg.Email)
	require.True(t, strings.HasPrefix(msg.Link, "http://localhost:8080/auth/confirmed_email/"))

	// the embedded token must decode back to the same subject
	token := strings.TrimPrefix(msg.Link, "http://localhost:8080/auth/confirmed_email/")
	email, err := newTokens().ParseEmail(token)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", email)
}

func TestSendSwallowsPublishFailure(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{err: errors.New("broker down")}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	// a queue failure must not surface to the signup path
	err := Send(context.Background(), log, pub, newTokens(), "http://localhost:8080", "a@x.com")
	require.NoError(t, err)
}
