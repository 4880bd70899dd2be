package devbackend

import (
	"net/http"
	"time"

	"github.com/dropDatabas3/quicknotify/internal/api"
	"github.com/dropDatabas3/quicknotify/internal/audit"
	"github.com/dropDatabas3/quicknotify/internal/observability/logger"
)

// smtpInput distingue campos ausentes de campos en cero.
type smtpInput struct {
	Server         string `json:"smtp_server"`
	Port           int    `json:"smtp_port"`
	SenderEmail    string `json:"sender_email"`
	SenderPassword string `json:"sender_password"`
	UseTLS         *bool  `json:"use_tls"`
	Timeout        *int   `json:"timeout"`
	RetryTimes     *int   `json:"retry_times"`
}

func (s *Server) getSMTP(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.store.smtpSettings()
	if !ok {
		writeJSON(w, http.StatusOK, api.MessageResult{Message: "No configuration found"})
		return
	}
	writeJSON(w, http.StatusOK, api.SMTPConfig{
		ID:          1,
		Server:      cfg.Server,
		Port:        cfg.Port,
		SenderEmail: cfg.SenderEmail,
		UseTLS:      cfg.UseTLS,
		Timeout:     cfg.Timeout,
		RetryTimes:  cfg.RetryTimes,
		UpdatedAt:   api.Timestamp{Time: cfg.UpdatedAt},
	})
}

func (s *Server) saveSMTP(w http.ResponseWriter, r *http.Request) {
	var in smtpInput
	if !readJSON(w, r, &in) {
		return
	}
	log := logger.From(r.Context())
	if in.Server == "" || in.Port == 0 || in.SenderEmail == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields: smtp_server, smtp_port, sender_email")
		return
	}
	if in.SenderPassword == "" {
		writeError(w, http.StatusBadRequest, "sender_password is required")
		return
	}
	boxed, err := s.box.Encrypt(in.SenderPassword)
	if err != nil {
		log.Error("no se pudo cifrar la contraseña SMTP", logger.Err(err))
		writeError(w, http.StatusInternalServerError, "Save failed: "+err.Error())
		return
	}
	cfg := smtpSettings{
		Server:      in.Server,
		Port:        in.Port,
		SenderEmail: in.SenderEmail,
		Password:    boxed,
		UseTLS:      true,
		Timeout:     30,
		RetryTimes:  3,
		UpdatedAt:   s.now().UTC(),
	}
	if in.UseTLS != nil {
		cfg.UseTLS = *in.UseTLS
	}
	if in.Timeout != nil {
		cfg.Timeout = *in.Timeout
	}
	if in.RetryTimes != nil {
		cfg.RetryTimes = *in.RetryTimes
	}
	s.store.saveSMTP(cfg)
	audit.Log(r.Context(), audit.EventSMTPUpdate,
		logger.Username(userFrom(r.Context())),
		logger.String("smtp_server", cfg.Server),
		logger.String("sender", logger.MaskEmail(cfg.SenderEmail)),
	)
	writeJSON(w, http.StatusOK, api.MessageResult{Message: "SMTP configuration saved successfully"})
}

func (s *Server) testSMTP(w http.ResponseWriter, r *http.Request) {
	log := logger.From(r.Context())
	cfg, ok := s.store.smtpSettings()
	if !ok {
		writeJSON(w, http.StatusBadRequest, api.SMTPTestResult{Message: "SMTP configuration not configured yet"})
		return
	}
	settings, err := s.dialSettings(cfg)
	if err != nil {
		log.Error("no se pudo descifrar la contraseña SMTP", logger.Err(err))
		writeJSON(w, http.StatusBadRequest, api.SMTPTestResult{Message: "Error decrypting SMTP password"})
		return
	}
	if err := s.mailer.Test(r.Context(), settings); err != nil {
		log.Warn("prueba SMTP fallida", logger.Err(err))
		writeJSON(w, http.StatusBadRequest, api.SMTPTestResult{Message: "Connection failed: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, api.SMTPTestResult{Success: true, Message: "SMTP connection successful"})
}

// dialSettings descifra la contraseña guardada.
func (s *Server) dialSettings(cfg smtpSettings) (SMTPSettings, error) {
	pass, err := s.box.Decrypt(cfg.Password)
	if err != nil {
		return SMTPSettings{}, err
	}
	return SMTPSettings{
		Host:     cfg.Server,
		Port:     cfg.Port,
		Username: cfg.SenderEmail,
		Password: pass,
		UseTLS:   cfg.UseTLS,
		Timeout:  time.Duration(cfg.Timeout) * time.Second,
	}, nil
}
