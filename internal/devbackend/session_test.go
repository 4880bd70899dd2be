package devbackend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/quicknotify/internal/cache"
)

func issueCookie(t *testing.T, s *sessions) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	require.NoError(t, s.issue(context.Background(), w, "admin"))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestSessions_IssueLookupDestroy(t *testing.T) {
	s := newSessions(cache.NewMemory("session", time.Minute), "secret", "session", time.Minute, time.Now)
	c := issueCookie(t, s)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	user, sid, err := s.lookup(req)
	require.NoError(t, err)
	require.Equal(t, "admin", user)
	require.NotEmpty(t, sid)

	s.destroy(httptest.NewRecorder(), req)
	_, _, err = s.lookup(req)
	require.ErrorIs(t, err, errNoSession)
}

func TestSessions_RejectsForeignSignature(t *testing.T) {
	store := cache.NewMemory("session", time.Minute)
	c := issueCookie(t, newSessions(store, "other", "session", time.Minute, time.Now))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	_, _, err := newSessions(store, "secret", "session", time.Minute, time.Now).lookup(req)
	require.ErrorIs(t, err, errNoSession)
}

func TestSessions_Expired(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	s := newSessions(cache.NewMemory("session", time.Hour), "secret", "session", time.Minute, clock)
	c := issueCookie(t, s)

	now = now.Add(2 * time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	_, _, err := s.lookup(req)
	require.ErrorIs(t, err, errNoSession)
}
