package auth

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"contacts_service/internal/lib/hash"
	jwtlib "contacts_service/internal/lib/jwt"
	sl "contacts_service/internal/lib/logger"
	"contacts_service/internal/models"
	"contacts_service/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrInvalidEmailToken  = errors.New("invalid confirmation token")
)

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
}

type UserSaver interface {
	SaveUser(ctx context.Context, username, email string, passHash []byte, avatar string) (models.User, error)
	UpdateRefreshToken(ctx context.Context, email string, token *string) error
	SetConfirmed(ctx context.Context, email string) error
	UpdateAvatar(ctx context.Context, email, url string) (models.User, error)
}

type UserProvider interface {
	UserByEmail(ctx context.Context, email string) (models.User, error)
}

// UserCache shortcuts the per-request user lookup. Any Get error counts as a
// miss; Set and Invalidate failures are logged, never fatal.
type UserCache interface {
	Get(ctx context.Context, email string) (models.User, error)
	Set(ctx context.Context, u models.User) error
	Invalidate(ctx context.Context, email string) error
}

type Auth struct {
	log         *slog.Logger
	usrSaver    UserSaver
	usrProvider UserProvider
	cache       UserCache
	tokens      *jwtlib.Manager
}

func New(
	log *slog.Logger,
	userSaver UserSaver,
	userProvider UserProvider,
	cache UserCache,
	tokens *jwtlib.Manager,
) *Auth {
	return &Auth{
		log:         log,
		usrSaver:    userSaver,
		usrProvider: userProvider,
		cache:       cache,
		tokens:      tokens,
	}
}

// Signup creates an unconfirmed user with a hashed password and a Gravatar
// default avatar. The confirmation mail is dispatched by the caller.
func (a *Auth) Signup(ctx context.Context, username, email, password string) (models.User, error) {
	const op = "auth.Signup"

	log := a.log.With(slog.String("op", op))

	passHash, err := hash.Password(password)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := a.usrSaver.SaveUser(ctx, username, email, passHash, gravatarURL(email))
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("user already exists")
			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserExists)
		}

		log.Error("failed to save user", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.Int64("uid", user.ID))

	return user, nil
}

// Login verifies credentials and opens a session by storing a fresh refresh
// token on the user. A missing user and a wrong password surface as the same
// error so the endpoint does not leak which accounts exist.
func (a *Auth) Login(ctx context.Context, email, password string) (TokenPair, error) {
	const op = "auth.Login"

	log := a.log.With(slog.String("op", op))

	user, err := a.usrProvider.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found")
			return TokenPair{}, ErrInvalidCredentials
		}

		log.Error("failed to get user", sl.Err(err))
		return TokenPair{}, err
	}

	if !user.Confirmed {
		return TokenPair{}, ErrEmailNotConfirmed
	}

	if !hash.Verify(password, user.PassHash) {
		log.Info("invalid credentials")
		return TokenPair{}, ErrInvalidCredentials
	}

	pair, err := a.rotateSession(ctx, email)
	if err != nil {
		log.Error("failed to open session", sl.Err(err))
		return TokenPair{}, err
	}

	log.Info("user logged in successfully", slog.Int64("uid", user.ID))

	return pair, nil
}

// Refresh exchanges a valid refresh token for a new pair and rotates the
// stored token. Presenting anything other than the most recently issued
// token clears the session entirely.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	const op = "auth.Refresh"

	log := a.log.With(slog.String("op", op))

	email, err := a.tokens.ParseRefresh(refreshToken)
	if err != nil {
		log.Warn("invalid refresh token", sl.Err(err))
		return TokenPair{}, ErrInvalidCredentials
	}

	user, err := a.usrProvider.UserByEmail(ctx, email)
	if err != nil {
		log.Warn("refresh for unknown user", sl.Err(err))
		return TokenPair{}, ErrInvalidCredentials
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		log.Warn("refresh token mismatch, clearing session", slog.Int64("uid", user.ID))

		if err := a.usrSaver.UpdateRefreshToken(ctx, email, nil); err != nil {
			log.Error("failed to clear refresh token", sl.Err(err))
		}

		return TokenPair{}, ErrInvalidCredentials
	}

	pair, err := a.rotateSession(ctx, email)
	if err != nil {
		log.Error("failed to rotate session", sl.Err(err))
		return TokenPair{}, err
	}

	log.Info("refresh successful", slog.Int64("uid", user.ID))

	return pair, nil
}

// ConfirmEmail flips the confirmed flag for the token's subject. The second
// and every further call reports alreadyConfirmed without error.
func (a *Auth) ConfirmEmail(ctx context.Context, token string) (alreadyConfirmed bool, err error) {
	const op = "auth.ConfirmEmail"

	log := a.log.With(slog.String("op", op))

	email, err := a.tokens.ParseEmail(token)
	if err != nil {
		log.Warn("invalid confirmation token", sl.Err(err))
		return false, ErrInvalidEmailToken
	}

	user, err := a.usrProvider.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("confirmation for unknown user")
			return false, storage.ErrUserNotFound
		}

		log.Error("failed to get user", sl.Err(err))
		return false, err
	}

	if user.Confirmed {
		return true, nil
	}

	if err := a.usrSaver.SetConfirmed(ctx, email); err != nil {
		log.Error("failed to set confirmed flag", sl.Err(err))
		return false, err
	}

	a.invalidateCache(ctx, email)

	log.Info("email confirmed", slog.Int64("uid", user.ID))

	return false, nil
}

// IsConfirmed reports whether the user's email is confirmed, for the
// confirmation-resend flow.
func (a *Auth) IsConfirmed(ctx context.Context, email string) (bool, error) {
	const op = "auth.IsConfirmed"

	user, err := a.usrProvider.UserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, storage.ErrUserNotFound) {
			a.log.With(slog.String("op", op)).Error("failed to get user", sl.Err(err))
		}

		return false, err
	}

	return user.Confirmed, nil
}

// CurrentUser resolves an access token to its user, consulting the cache
// before Postgres.
func (a *Auth) CurrentUser(ctx context.Context, accessToken string) (models.User, error) {
	const op = "auth.CurrentUser"

	log := a.log.With(slog.String("op", op))

	email, err := a.tokens.ParseAccess(accessToken)
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	if user, err := a.cache.Get(ctx, email); err == nil {
		return user, nil
	}

	user, err := a.usrProvider.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.User{}, ErrInvalidCredentials
		}

		log.Error("failed to get user", sl.Err(err))
		return models.User{}, err
	}

	if err := a.cache.Set(ctx, user); err != nil {
		log.Warn("failed to cache user", sl.Err(err))
	}

	return user, nil
}

// UpdateAvatar stores a new avatar URL for the user.
func (a *Auth) UpdateAvatar(ctx context.Context, email, url string) (models.User, error) {
	const op = "auth.UpdateAvatar"

	user, err := a.usrSaver.UpdateAvatar(ctx, email, url)
	if err != nil {
		a.log.With(slog.String("op", op)).Error("failed to update avatar", sl.Err(err))
		return models.User{}, err
	}

	a.invalidateCache(ctx, email)

	return user, nil
}

func (a *Auth) rotateSession(ctx context.Context, email string) (TokenPair, error) {
	access, err := a.tokens.NewAccessToken(email)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := a.tokens.NewRefreshToken(email)
	if err != nil {
		return TokenPair{}, err
	}

	if err := a.usrSaver.UpdateRefreshToken(ctx, email, &refresh); err != nil {
		return TokenPair{}, err
	}

	a.invalidateCache(ctx, email)

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

func (a *Auth) invalidateCache(ctx context.Context, email string) {
	if err := a.cache.Invalidate(ctx, email); err != nil {
		a.log.Warn("failed to invalidate user cache", sl.Err(err))
	}
}

func gravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))

	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=identicon", hex.EncodeToString(sum[:]))
}
