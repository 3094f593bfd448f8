package avatar

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"contacts_service/internal/middleware/authn"
	"contacts_service/internal/models"

	"github.com/stretchr/testify/require"
)

func newUpload(t *testing.T, size int) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", "avatar.png")
	require.NoError(t, err)

	_, err = fw.Write(bytes.Repeat([]byte{0x42}, size))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("PATCH", "/users/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return req.WithContext(authn.ContextWithUser(req.Context(), models.User{
		ID:       1,
		Username: "bob",
		Email:    "bob@x.com",
	}))
}

func TestOversizedUploadRejected(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	// the body cap must trip before anything reaches the uploader
	req := newUpload(t, maxUploadSize+1)
	rec := httptest.NewRecorder()

	New(log, nil, nil)(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMissingFileFieldRejected(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "not-a-file"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("PATCH", "/users/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = req.WithContext(authn.ContextWithUser(req.Context(), models.User{ID: 1}))

	rec := httptest.NewRecorder()
	New(log, nil, nil)(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnauthenticatedRequestRejected(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	req := httptest.NewRequest("PATCH", "/users/avatar", nil)
	rec := httptest.NewRecorder()

	New(log, nil, nil)(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
