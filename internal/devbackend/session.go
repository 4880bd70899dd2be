package devbackend

import (
	"context"
	"crypto/sha256"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dropDatabas3/quicknotify/internal/cache"
)

// sessionClaims viaja firmado (HS256) en la cookie. El id de sesión (jti)
// además tiene que existir en el cache: logout lo borra y la cookie deja de
// servir aunque la firma siga siendo válida.
type sessionClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

type sessions struct {
	store  cache.Client
	key    []byte
	cookie string
	ttl    time.Duration
	now    func() time.Time
}

func newSessions(store cache.Client, secret, cookie string, ttl time.Duration, now func() time.Time) *sessions {
	k := sha256.Sum256([]byte("session:" + secret))
	return &sessions{store: store, key: k[:], cookie: cookie, ttl: ttl, now: now}
}

func sessionKey(sid string) string { return "sid:" + sid }

// issue abre una sesión nueva y setea la cookie.
func (s *sessions) issue(ctx context.Context, w http.ResponseWriter, username string) error {
	sid := uuid.NewString()
	now := s.now()
	exp := now.Add(s.ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sid,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Username: username,
	})
	signed, err := tok.SignedString(s.key)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, sessionKey(sid), username, s.ttl); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookie,
		Value:    signed,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

var errNoSession = errors.New("no session")

// lookup valida la cookie y devuelve el usuario y el id de sesión.
func (s *sessions) lookup(r *http.Request) (string, string, error) {
	c, err := r.Cookie(s.cookie)
	if err != nil || c.Value == "" {
		return "", "", errNoSession
	}
	var claims sessionClaims
	_, err = jwt.ParseWithClaims(c.Value, &claims, func(*jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || claims.ID == "" {
		return "", "", errNoSession
	}
	user, err := s.store.Get(r.Context(), sessionKey(claims.ID))
	if err != nil || user != claims.Username {
		return "", "", errNoSession
	}
	return user, claims.ID, nil
}

// destroy borra la sesión (si hay) y expira la cookie.
func (s *sessions) destroy(w http.ResponseWriter, r *http.Request) {
	if _, sid, err := s.lookup(r); err == nil {
		_ = s.store.Delete(r.Context(), sessionKey(sid))
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

type ctxUserKey struct{}

func withUser(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, username)
}

func userFrom(ctx context.Context) string {
	u, _ := ctx.Value(ctxUserKey{}).(string)
	return u
}
