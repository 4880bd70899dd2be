package session

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const base = "http://localhost:5000/api"

func TestStore_SaveAndReopen(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "session.json")

	s, err := Open(p, base)
	require.NoError(t, err)
	u, _ := url.Parse(base)
	s.SetCookies(u, []*http.Cookie{{Name: "session", Value: "abc", Path: "/"}})
	s.SetUsername("admin")
	require.NoError(t, s.Save())

	info, err := os.Stat(p)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := Open(p, base)
	require.NoError(t, err)
	require.Equal(t, "admin", again.Username())
	cs := again.Cookies(u)
	require.Len(t, cs, 1)
	require.Equal(t, "session", cs[0].Name)
	require.Equal(t, "abc", cs[0].Value)
}

func TestStore_OtherBaseIgnored(t *testing.T) {
	p := filepath.Join(t.TempDir(), "session.json")
	s, err := Open(p, base)
	require.NoError(t, err)
	u, _ := url.Parse(base)
	s.SetCookies(u, []*http.Cookie{{Name: "session", Value: "abc", Path: "/"}})
	require.NoError(t, s.Save())

	other, err := Open(p, "http://mail.example.com/api")
	require.NoError(t, err)
	ou, _ := url.Parse("http://mail.example.com/api")
	require.Empty(t, other.Cookies(ou))
}

func TestStore_Clear(t *testing.T) {
	p := filepath.Join(t.TempDir(), "session.json")
	s, err := Open(p, base)
	require.NoError(t, err)
	u, _ := url.Parse(base)
	s.SetCookies(u, []*http.Cookie{{Name: "session", Value: "abc", Path: "/"}})
	require.NoError(t, s.Save())

	require.NoError(t, s.Clear())
	require.Empty(t, s.Cookies(u))
	_, err = os.Stat(p)
	require.True(t, os.IsNotExist(err))

	// Clear dos veces no falla
	require.NoError(t, s.Clear())
}

func TestStore_CorruptFileStartsEmpty(t *testing.T) {
	p := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(p, []byte("{not json"), 0o600))
	s, err := Open(p, base)
	require.NoError(t, err)
	u, _ := url.Parse(base)
	require.Empty(t, s.Cookies(u))
}

func TestStore_MemoryOnly(t *testing.T) {
	s, err := Open("", base)
	require.NoError(t, err)
	require.NoError(t, s.Save())
	require.NoError(t, s.Clear())
}
