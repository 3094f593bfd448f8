package contacts

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPaginationDefaultsAndBounds(t *testing.T) {
	t.Parallel()

	limit, offset := pagination(httptest.NewRequest("GET", "/contacts/", nil))
	require.Equal(t, defaultLimit, limit)
	require.Equal(t, 0, offset)

	limit, offset = pagination(httptest.NewRequest("GET", "/contacts/?limit=100&offset=40", nil))
	require.Equal(t, 100, limit)
	require.Equal(t, 40, offset)

	// out-of-range values fall back to the defaults
	limit, _ = pagination(httptest.NewRequest("GET", "/contacts/?limit=0", nil))
	require.Equal(t, defaultLimit, limit)

	limit, _ = pagination(httptest.NewRequest("GET", "/contacts/?limit=501", nil))
	require.Equal(t, defaultLimit, limit)

	_, offset = pagination(httptest.NewRequest("GET", "/contacts/?offset=-1", nil))
	require.Equal(t, 0, offset)
}

func TestContactID(t *testing.T) {
	t.Parallel()

	id, ok := contactID(httptest.NewRequest("GET", "/", nil), "42")
	require.True(t, ok)
	require.Equal(t, int64(42), id)

	_, ok = contactID(httptest.NewRequest("GET", "/", nil), "0")
	require.False(t, ok)

	_, ok = contactID(httptest.NewRequest("GET", "/", nil), "abc")
	require.False(t, ok)
}

func TestRequestRoundTrip(t *testing.T) {
	t.Parallel()

	req := Request{
		Firstname: "Ann",
		Surname:   "Lee",
		Email:     "ann@x.com",
		Phone:     "+123456",
		Birthday:  "1990-06-10",
		Details:   "college friend",
	}

	c := req.toModel(7)
	require.Equal(t, int64(7), c.UserID)
	require.Equal(t, time.Date(1990, time.June, 10, 0, 0, 0, 0, time.UTC), c.Birthday)

	out := toResponse(c)
	require.Equal(t, "1990-06-10", out.Birthday)
	require.Equal(t, "Ann", out.Firstname)
}
