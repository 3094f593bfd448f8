package postgres

import (
	"context"
	"errors"
	"fmt"

	"contacts_service/internal/models"
	"contacts_service/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func (r *PostgresRepo) SaveUser(ctx context.Context, username, email string, passHash []byte, avatar string) (models.User, error) {
	const op = "storage.postgres.SaveUser"

	query := `
		INSERT INTO users (username, email, password_hash, avatar)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, email, password_hash, avatar, refresh_token, confirmed, created_at, updated_at;
	`

	u, err := scanUser(r.pool.QueryRow(ctx, query, username, email, string(passHash), avatar))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, storage.ErrUserExists
		}

		return models.User{}, fmt.Errorf("%s: failed to save user: %w", op, err)
	}

	return u, nil
}

func (r *PostgresRepo) UserByEmail(ctx context.Context, email string) (models.User, error) {
	query := `
		SELECT id, username, email, password_hash, avatar, refresh_token, confirmed, created_at, updated_at
		FROM users
		WHERE email = $1;
	`

	u, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrUserNotFound
		}

		return models.User{}, err
	}

	return u, nil
}

// UpdateRefreshToken overwrites the single refresh-token slot for the user.
// A nil token clears the slot, ending the session.
func (r *PostgresRepo) UpdateRefreshToken(ctx context.Context, email string, token *string) error {
	query := `UPDATE users SET refresh_token = $1, updated_at = NOW() WHERE email = $2`

	_, err := r.pool.Exec(ctx, query, token, email)

	return err
}

func (r *PostgresRepo) SetConfirmed(ctx context.Context, email string) error {
	query := `UPDATE users SET confirmed = TRUE, updated_at = NOW() WHERE email = $1`

	_, err := r.pool.Exec(ctx, query, email)

	return err
}

func (r *PostgresRepo) UpdateAvatar(ctx context.Context, email, url string) (models.User, error) {
	query := `
		UPDATE users SET avatar = $1, updated_at = NOW()
		WHERE email = $2
		RETURNING id, username, email, password_hash, avatar, refresh_token, confirmed, created_at, updated_at;
	`

	u, err := scanUser(r.pool.QueryRow(ctx, query, url, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrUserNotFound
		}

		return models.User{}, err
	}

	return u, nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User

	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PassHash,
		&u.Avatar,
		&u.RefreshToken,
		&u.Confirmed,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	return u, err
}
