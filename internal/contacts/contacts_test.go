package contacts

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"contacts_service/internal/models"
	"contacts_service/internal/storage"

	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	contacts map[int64]models.Contact
	nextID   int64

	// captured birthday-window arguments
	gotFrom  string
	gotTo    string
	gotWraps bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{contacts: map[int64]models.Contact{}}
}

func (f *fakeRepo) SaveContact(ctx context.Context, c models.Contact) (models.Contact, error) {
	f.nextID++
	c.ID = f.nextID
	f.contacts[c.ID] = c
	return c, nil
}

func (f *fakeRepo) ContactByID(ctx context.Context, userID, contactID int64) (models.Contact, error) {
	c, ok := f.contacts[contactID]
	if !ok || c.UserID != userID {
		return models.Contact{}, storage.ErrContactNotFound
	}
	return c, nil
}

func (f *fakeRepo) ContactsByUser(ctx context.Context, userID int64, limit, offset int) ([]models.Contact, error) {
	var out []models.Contact
	for id := int64(1); id <= f.nextID; id++ {
		if c, ok := f.contacts[id]; ok && c.UserID == userID {
			out = append(out, c)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) UpdateContact(ctx context.Context, c models.Contact) (models.Contact, error) {
	old, ok := f.contacts[c.ID]
	if !ok || old.UserID != c.UserID {
		return models.Contact{}, storage.ErrContactNotFound
	}
	f.contacts[c.ID] = c
	return c, nil
}

func (f *fakeRepo) DeleteContact(ctx context.Context, userID, contactID int64) error {
	if c, ok := f.contacts[contactID]; ok && c.UserID == userID {
		delete(f.contacts, contactID)
	}
	return nil
}

func (f *fakeRepo) SearchContacts(ctx context.Context, userID int64, pattern string) ([]models.Contact, error) {
	return nil, nil
}

func (f *fakeRepo) ContactsByBirthdayWindow(ctx context.Context, userID int64, fromMD, toMD string, wraps bool) ([]models.Contact, error) {
	f.gotFrom, f.gotTo, f.gotWraps = fromMD, toMD, wraps
	return nil, nil
}

func newTestService() (*Contacts, *fakeRepo) {
	repo := newFakeRepo()
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), repo), repo
}

func TestCrudIsScopedByOwner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _ := newTestService()

	mine, err := svc.Create(ctx, models.Contact{UserID: 1, Firstname: "Ann", Surname: "Lee", Email: "ann@x.com"})
	require.NoError(t, err)

	// another user cannot read, update or observe the contact
	_, err = svc.Get(ctx, 2, mine.ID)
	require.ErrorIs(t, err, storage.ErrContactNotFound)

	_, err = svc.Update(ctx, models.Contact{ID: mine.ID, UserID: 2, Firstname: "Hacked"})
	require.ErrorIs(t, err, storage.ErrContactNotFound)

	list, err := svc.List(ctx, 2, 20, 0)
	require.NoError(t, err)
	require.Empty(t, list)

	// deleting as another user leaves it in place
	require.NoError(t, svc.Delete(ctx, 2, mine.ID))
	got, err := svc.Get(ctx, 1, mine.ID)
	require.NoError(t, err)
	require.Equal(t, "Ann", got.Firstname)
}

func TestDeleteIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _ := newTestService()

	c, err := svc.Create(ctx, models.Contact{UserID: 1, Firstname: "Bob"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1, c.ID))
	require.NoError(t, svc.Delete(ctx, 1, c.ID))

	_, err = svc.Get(ctx, 1, c.ID)
	require.ErrorIs(t, err, storage.ErrContactNotFound)
}

func TestListPagination(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _ := newTestService()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, models.Contact{UserID: 1, Firstname: "C"})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, 1, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)

	page, err = svc.List(ctx, 1, 10, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
}

func TestBirthdayWindow(t *testing.T) {
	t.Parallel()

	mid := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
	from, to, wraps := birthdayWindow(mid, 7)
	require.Equal(t, "06-10", from)
	require.Equal(t, "06-17", to)
	require.False(t, wraps)

	newYear := time.Date(2024, time.December, 29, 12, 0, 0, 0, time.UTC)
	from, to, wraps = birthdayWindow(newYear, 7)
	require.Equal(t, "12-29", from)
	require.Equal(t, "01-05", to)
	require.True(t, wraps)
}

func TestUpcomingBirthdaysPassesWindow(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService()

	_, err := svc.UpcomingBirthdays(context.Background(), 1)
	require.NoError(t, err)

	wantFrom, wantTo, wantWraps := birthdayWindow(time.Now(), birthdayWindowDays)
	require.Equal(t, wantFrom, repo.gotFrom)
	require.Equal(t, wantTo, repo.gotTo)
	require.Equal(t, wantWraps, repo.gotWraps)
}
