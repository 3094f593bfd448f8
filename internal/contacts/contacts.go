// Package contacts implements the per-user contacts list. Every operation is
// scoped by the owning user; a contact is never visible outside its owner.
package contacts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sl "contacts_service/internal/lib/logger"
	"contacts_service/internal/models"
)

const birthdayWindowDays = 7

type Repository interface {
	SaveContact(ctx context.Context, c models.Contact) (models.Contact, error)
	ContactByID(ctx context.Context, userID, contactID int64) (models.Contact, error)
	ContactsByUser(ctx context.Context, userID int64, limit, offset int) ([]models.Contact, error)
	UpdateContact(ctx context.Context, c models.Contact) (models.Contact, error)
	DeleteContact(ctx context.Context, userID, contactID int64) error
	SearchContacts(ctx context.Context, userID int64, pattern string) ([]models.Contact, error)
	ContactsByBirthdayWindow(ctx context.Context, userID int64, fromMD, toMD string, wraps bool) ([]models.Contact, error)
}

type Contacts struct {
	log  *slog.Logger
	repo Repository
}

func New(log *slog.Logger, repo Repository) *Contacts {
	return &Contacts{
		log:  log,
		repo: repo,
	}
}

func (s *Contacts) List(ctx context.Context, userID int64, limit, offset int) ([]models.Contact, error) {
	const op = "contacts.List"

	list, err := s.repo.ContactsByUser(ctx, userID, limit, offset)
	if err != nil {
		s.log.With(slog.String("op", op)).Error("failed to list contacts", sl.Err(err))
		return nil, err
	}

	return list, nil
}

func (s *Contacts) Get(ctx context.Context, userID, contactID int64) (models.Contact, error) {
	return s.repo.ContactByID(ctx, userID, contactID)
}

func (s *Contacts) Create(ctx context.Context, c models.Contact) (models.Contact, error) {
	const op = "contacts.Create"

	saved, err := s.repo.SaveContact(ctx, c)
	if err != nil {
		s.log.With(slog.String("op", op)).Error("failed to create contact", sl.Err(err))
		return models.Contact{}, err
	}

	s.log.Info("contact created", slog.Int64("id", saved.ID), slog.Int64("uid", saved.UserID))

	return saved, nil
}

func (s *Contacts) Update(ctx context.Context, c models.Contact) (models.Contact, error) {
	return s.repo.UpdateContact(ctx, c)
}

// Delete is idempotent: removing an absent contact is not an error.
func (s *Contacts) Delete(ctx context.Context, userID, contactID int64) error {
	const op = "contacts.Delete"

	if err := s.repo.DeleteContact(ctx, userID, contactID); err != nil {
		s.log.With(slog.String("op", op)).Error("failed to delete contact", sl.Err(err))
		return err
	}

	return nil
}

// Search matches the query as a substring of firstname, surname or email.
func (s *Contacts) Search(ctx context.Context, userID int64, query string) ([]models.Contact, error) {
	return s.repo.SearchContacts(ctx, userID, "%"+query+"%")
}

// UpcomingBirthdays lists contacts whose birthday falls within the next week,
// compared by month and day so the birth year is irrelevant.
func (s *Contacts) UpcomingBirthdays(ctx context.Context, userID int64) ([]models.Contact, error) {
	from, to, wraps := birthdayWindow(time.Now(), birthdayWindowDays)

	return s.repo.ContactsByBirthdayWindow(ctx, userID, from, to, wraps)
}

// birthdayWindow returns the inclusive month-day bounds of [today,
// today+days]. wraps reports that the window crosses the end of the year, in
// which case the bounds describe two disjoint ranges.
func birthdayWindow(today time.Time, days int) (fromMD, toMD string, wraps bool) {
	end := today.AddDate(0, 0, days)

	fromMD = fmt.Sprintf("%02d-%02d", today.Month(), today.Day())
	toMD = fmt.Sprintf("%02d-%02d", end.Month(), end.Day())

	return fromMD, toMD, toMD < fromMD
}
