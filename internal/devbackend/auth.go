package devbackend

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/dropDatabas3/quicknotify/internal/api"
	"github.com/dropDatabas3/quicknotify/internal/audit"
	"github.com/dropDatabas3/quicknotify/internal/observability/logger"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in api.Credentials
	if !readJSON(w, r, &in) {
		return
	}
	log := logger.From(r.Context())
	if in.Username == "" || in.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password required")
		return
	}
	if !s.allowLogin(w, r, in.Username) {
		return
	}
	if !s.store.checkPassword(in.Username, in.Password) {
		audit.Log(r.Context(), audit.EventLoginFailed, logger.Username(in.Username))
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err := s.sessions.issue(r.Context(), w, in.Username); err != nil {
		log.Error("no se pudo abrir la sesión", logger.Err(err))
		writeError(w, http.StatusInternalServerError, "Session store unavailable")
		return
	}
	audit.Log(r.Context(), audit.EventLogin, logger.Username(in.Username))
	writeJSON(w, http.StatusOK, api.LoginResult{Message: "Login successful", Username: in.Username})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if user, _, err := s.sessions.lookup(r); err == nil {
		audit.Log(r.Context(), audit.EventLogout, logger.Username(user))
	}
	s.sessions.destroy(w, r)
	writeJSON(w, http.StatusOK, api.MessageResult{Message: "Logout successful"})
}

// check responde 401 sin sesión, igual que el resto de las rutas protegidas.
func (s *Server) check(w http.ResponseWriter, r *http.Request) {
	user, _, err := s.sessions.lookup(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, api.AuthStatus{Authenticated: false})
		return
	}
	writeJSON(w, http.StatusOK, api.AuthStatus{Authenticated: true, Username: user})
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	var in api.PasswordChange
	if !readJSON(w, r, &in) {
		return
	}
	if in.OldPassword == "" || in.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "Old and new password required")
		return
	}
	user := userFrom(r.Context())
	if !s.store.checkPassword(user, in.OldPassword) {
		writeError(w, http.StatusBadRequest, "Old password incorrect")
		return
	}
	if err := s.store.setPassword(user, in.NewPassword); err != nil {
		writeError(w, http.StatusInternalServerError, "Password change failed")
		return
	}
	audit.Log(r.Context(), audit.EventPasswordChange, logger.Username(user))
	writeJSON(w, http.StatusOK, api.MessageResult{Message: "Password changed successfully"})
}

// allowLogin aplica el límite de intentos por usuario+IP. Si el store de
// límites falla, deja pasar.
func (s *Server) allowLogin(w http.ResponseWriter, r *http.Request, username string) bool {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	res, err := s.limiter.Allow(r.Context(), username+"|"+ip)
	if err != nil {
		logger.From(r.Context()).Warn("rate limiter no disponible", logger.Err(err))
		return true
	}
	if res.Allowed {
		return true
	}
	secs := int(math.Ceil(res.RetryAfter.Seconds()))
	w.Header().Set("Retry-After", strconv.Itoa(secs))
	audit.Log(r.Context(), audit.EventLoginThrottled, logger.Username(username))
	writeError(w, http.StatusTooManyRequests, "Too many login attempts, try again later")
	return false
}
