package devbackend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dropDatabas3/quicknotify/internal/api"
	"github.com/dropDatabas3/quicknotify/internal/observability/logger"
	"github.com/dropDatabas3/quicknotify/internal/validation"
)

var errNoSMTP = errors.New("SMTP not configured")

// delivery es el resultado de un intento de envío.
type delivery struct {
	ok       bool
	message  string
	duration float64 // segundos
	sentAt   time.Time
}

// deliver arma el correo (texto + HTML desde markdown) y lo entrega con la
// configuración SMTP guardada, reintentando hasta RetryTimes veces.
func (s *Server) deliver(ctx context.Context, to, cc, bcc []string, subject, content string) (delivery, error) {
	cfg, ok := s.store.smtpSettings()
	if !ok {
		return delivery{}, errNoSMTP
	}
	settings, err := s.dialSettings(cfg)
	if err != nil {
		return delivery{}, fmt.Errorf("decrypt smtp password: %w", err)
	}
	html, err := markdownHTML(content)
	if err != nil {
		return delivery{}, fmt.Errorf("markdown: %w", err)
	}
	out := Outgoing{
		From:    cfg.SenderEmail,
		To:      to,
		CC:      cc,
		BCC:     bcc,
		Subject: subject,
		Text:    content,
		HTML:    html,
	}

	start := time.Now()
	attempts := cfg.RetryTimes
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		if err = s.mailer.Send(ctx, settings, out); err == nil {
			break
		}
		logger.From(ctx).Warn("envío fallido", logger.Int("attempt", i+1), logger.Err(err))
	}
	d := delivery{duration: time.Since(start).Seconds()}
	if err != nil {
		d.message = "Email sending failed: " + err.Error()
		return d, nil
	}
	d.ok = true
	d.message = fmt.Sprintf("Email sent to %d recipients", len(to))
	d.sentAt = s.now().UTC()
	return d, nil
}

func (s *Server) send(w http.ResponseWriter, r *http.Request) {
	var in api.Message
	if !readJSON(w, r, &in) {
		return
	}
	if len(in.Recipients) == 0 || in.Subject == "" || in.Content == "" {
		writeError(w, http.StatusBadRequest, "Recipients, subject, and content required")
		return
	}
	s.sendAndRecord(w, r, record{
		TemplateName: in.TemplateName,
		Recipients:   in.Recipients,
		CC:           in.CC,
		BCC:          in.BCC,
		Subject:      in.Subject,
		Content:      in.Content,
		Variables:    map[string]string{},
	})
}

func (s *Server) sendFromTemplate(w http.ResponseWriter, r *http.Request) {
	var in api.TemplateMessage
	if !readJSON(w, r, &in) {
		return
	}
	if in.TemplateID == 0 || len(in.Recipients) == 0 {
		writeError(w, http.StatusBadRequest, "Template ID and recipients required")
		return
	}
	t, err := s.store.template(in.TemplateID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Template not found")
		return
	}
	if in.Variables == nil {
		in.Variables = map[string]string{}
	}
	ok := s.sendAndRecord(w, r, record{
		TemplateName: t.Name,
		Recipients:   in.Recipients,
		CC:           in.CC,
		BCC:          in.BCC,
		Subject:      validation.ReplaceVariables(t.Subject, in.Variables),
		Content:      validation.ReplaceVariables(t.Content, in.Variables),
		Variables:    in.Variables,
	})
	if ok {
		now := s.now().UTC()
		_ = s.store.updateTemplate(t.ID, func(t *template) { t.LastUsed = now })
	}
}

// sendAndRecord entrega rec, lo guarda como registro y responde 200 o 500
// con el SendResult. Devuelve false si no llegó a intentarse el envío.
func (s *Server) sendAndRecord(w http.ResponseWriter, r *http.Request, rec record) bool {
	log := logger.From(r.Context())
	d, err := s.deliver(r.Context(), rec.Recipients, rec.CC, rec.BCC, rec.Subject, rec.Content)
	if errors.Is(err, errNoSMTP) {
		writeError(w, http.StatusBadRequest, "SMTP not configured")
		return false
	}
	if err != nil {
		log.Error("no se pudo preparar el envío", logger.Err(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return false
	}

	rec.CreatedAt = s.now().UTC()
	applyDelivery(&rec, d)
	id := s.store.addRecord(rec)

	log.Info("envío registrado",
		logger.RecordID(id),
		logger.Recipients(len(rec.Recipients)),
		logger.Emails("to", rec.Recipients),
		logger.Bool("success", d.ok),
	)
	status := http.StatusOK
	if !d.ok {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, api.SendResult{Message: d.message, Success: d.ok, RecordID: id, Duration: d.duration})
	return true
}

func applyDelivery(rec *record, d delivery) {
	rec.Duration = d.duration
	if d.ok {
		rec.Status = api.StatusSuccess
		rec.ErrorMsg = ""
		rec.SentAt = d.sentAt
		return
	}
	rec.Status = api.StatusFailed
	rec.ErrorMsg = d.message
	rec.SentAt = time.Time{}
}
