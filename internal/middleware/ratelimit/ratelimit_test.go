package rateLimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(t *testing.T, h http.Handler, remoteAddr string) int {
	t.Helper()

	req := httptest.NewRequest("POST", "/contacts/", nil)
	req.RemoteAddr = remoteAddr

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec.Code
}

func TestCreateContactLimitIsPerCaller(t *testing.T) {
	h := CreateContact()(okHandler())

	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, doRequest(t, h, "1.1.1.1:1000"))
	}

	// the sixth request from the same address is over budget
	require.Equal(t, http.StatusTooManyRequests, doRequest(t, h, "1.1.1.1:1000"))

	// a different caller keeps its own budget
	require.Equal(t, http.StatusOK, doRequest(t, h, "2.2.2.2:1000"))
}

func TestRequestEmailLimitIsPerCaller(t *testing.T) {
	h := RequestEmail()(okHandler())

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, doRequest(t, h, "1.1.1.1:1000"))
	}

	require.Equal(t, http.StatusTooManyRequests, doRequest(t, h, "1.1.1.1:1000"))
	require.Equal(t, http.StatusOK, doRequest(t, h, "3.3.3.3:1000"))
}
