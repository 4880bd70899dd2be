// Package session persiste la cookie de sesión del backend entre invocaciones
// de la CLI. El Store es un http.CookieJar que delega en un cookiejar en
// memoria y sabe volcarse a disco de forma atómica.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type fileData struct {
	BaseURL  string         `json:"base_url"`
	Username string         `json:"username,omitempty"`
	Cookies  []storedCookie `json:"cookies"`
	SavedAt  time.Time      `json:"saved_at"`
}

// Store implementa http.CookieJar.
type Store struct {
	path string
	base *url.URL

	mu       sync.RWMutex
	jar      *cookiejar.Jar
	username string
}

// Open crea el Store para baseURL y carga path si existe. path vacío => sólo memoria.
// Un archivo guardado para otra base URL se ignora.
func Open(path, baseURL string) (*Store, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("session: base url: %w", err)
	}
	jar, _ := cookiejar.New(nil)
	s := &Store{path: path, base: u, jar: jar}
	if path == "" {
		return s, nil
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: read %s: %w", path, err)
	}
	var fd fileData
	if err := json.Unmarshal(b, &fd); err != nil {
		// archivo corrupto: arrancamos sin sesión
		return s, nil
	}
	if fd.BaseURL != baseURL {
		return s, nil
	}
	cookies := make([]*http.Cookie, 0, len(fd.Cookies))
	for _, c := range fd.Cookies {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	s.jar.SetCookies(u, cookies)
	s.username = fd.Username
	return s, nil
}

func (s *Store) SetCookies(u *url.URL, cookies []*http.Cookie) {
	s.mu.RLock()
	jar := s.jar
	s.mu.RUnlock()
	jar.SetCookies(u, cookies)
}

func (s *Store) Cookies(u *url.URL) []*http.Cookie {
	s.mu.RLock()
	jar := s.jar
	s.mu.RUnlock()
	return jar.Cookies(u)
}

// Username devuelve el usuario recordado con la sesión ("" si no hay).
func (s *Store) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

func (s *Store) SetUsername(u string) {
	s.mu.Lock()
	s.username = u
	s.mu.Unlock()
}

// Save vuelca las cookies vigentes para la base URL. No-op sin path.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}
	fd := fileData{BaseURL: s.base.String(), Username: s.Username(), SavedAt: time.Now().UTC()}
	for _, c := range s.Cookies(s.base) {
		fd.Cookies = append(fd.Cookies, storedCookie{Name: c.Name, Value: c.Value})
	}
	b, err := json.MarshalIndent(fd, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(s.path, b, 0o600)
}

// Clear descarta la sesión en memoria y en disco.
func (s *Store) Clear() error {
	jar, _ := cookiejar.New(nil)
	s.mu.Lock()
	s.jar = jar
	s.username = ""
	s.mu.Unlock()
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// writeAtomic: tmp → Sync → Close → Chmod → Rename, con fallback remove+rename.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("fsync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	_ = os.Chmod(tmpPath, perm)

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(path)
		if err2 := os.Rename(tmpPath, path); err2 != nil {
			return fmt.Errorf("rename: %v (after remove: %v)", err, err2)
		}
	}
	return nil
}
