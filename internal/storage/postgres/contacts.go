package postgres

import (
	"context"
	"errors"
	"fmt"

	"contacts_service/internal/models"
	"contacts_service/internal/storage"

	"github.com/jackc/pgx/v5"
)

const contactColumns = `id, user_id, firstname, surname, email, phone, birthday, details, created_at, updated_at`

func (r *PostgresRepo) SaveContact(ctx context.Context, c models.Contact) (models.Contact, error) {
	const op = "storage.postgres.SaveContact"

	query := `
		INSERT INTO contacts (user_id, firstname, surname, email, phone, birthday, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + contactColumns + `;
	`

	saved, err := scanContact(r.pool.QueryRow(ctx, query,
		c.UserID, c.Firstname, c.Surname, c.Email, c.Phone, c.Birthday, c.Details,
	))
	if err != nil {
		return models.Contact{}, fmt.Errorf("%s: failed to save contact: %w", op, err)
	}

	return saved, nil
}

func (r *PostgresRepo) ContactByID(ctx context.Context, userID, contactID int64) (models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE id = $1 AND user_id = $2;
	`

	c, err := scanContact(r.pool.QueryRow(ctx, query, contactID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Contact{}, storage.ErrContactNotFound
		}

		return models.Contact{}, err
	}

	return c, nil
}

func (r *PostgresRepo) ContactsByUser(ctx context.Context, userID int64, limit, offset int) ([]models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE user_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3;
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectContacts(rows)
}

func (r *PostgresRepo) UpdateContact(ctx context.Context, c models.Contact) (models.Contact, error) {
	query := `
		UPDATE contacts
		SET firstname = $1, surname = $2, email = $3, phone = $4, birthday = $5, details = $6, updated_at = NOW()
		WHERE id = $7 AND user_id = $8
		RETURNING ` + contactColumns + `;
	`

	updated, err := scanContact(r.pool.QueryRow(ctx, query,
		c.Firstname, c.Surname, c.Email, c.Phone, c.Birthday, c.Details, c.ID, c.UserID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Contact{}, storage.ErrContactNotFound
		}

		return models.Contact{}, err
	}

	return updated, nil
}

func (r *PostgresRepo) DeleteContact(ctx context.Context, userID, contactID int64) error {
	query := `DELETE FROM contacts WHERE id = $1 AND user_id = $2`

	_, err := r.pool.Exec(ctx, query, contactID, userID)

	return err
}

func (r *PostgresRepo) SearchContacts(ctx context.Context, userID int64, pattern string) ([]models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE user_id = $1
		  AND (firstname ILIKE $2 OR surname ILIKE $2 OR email ILIKE $2)
		ORDER BY id;
	`

	rows, err := r.pool.Query(ctx, query, userID, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectContacts(rows)
}

// ContactsByBirthdayWindow selects contacts whose birthday month-day falls
// inside [fromMD, toMD]. When the window wraps the end of the year the two
// bounds are checked as disjoint halves.
func (r *PostgresRepo) ContactsByBirthdayWindow(ctx context.Context, userID int64, fromMD, toMD string, wraps bool) ([]models.Contact, error) {
	cond := `to_char(birthday, 'MM-DD') BETWEEN $2 AND $3`
	if wraps {
		cond = `(to_char(birthday, 'MM-DD') >= $2 OR to_char(birthday, 'MM-DD') <= $3)`
	}

	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE user_id = $1 AND ` + cond + `
		ORDER BY to_char(birthday, 'MM-DD');
	`

	rows, err := r.pool.Query(ctx, query, userID, fromMD, toMD)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectContacts(rows)
}

func scanContact(row pgx.Row) (models.Contact, error) {
	var c models.Contact

	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Firstname,
		&c.Surname,
		&c.Email,
		&c.Phone,
		&c.Birthday,
		&c.Details,
		&c.CreatedAt,
		&c.UpdatedAt,
	)

	return c, err
}

func collectContacts(rows pgx.Rows) ([]models.Contact, error) {
	contacts := make([]models.Contact, 0)

	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}

	return contacts, rows.Err()
}
