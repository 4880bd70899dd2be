package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dropDatabas3/quicknotify/internal/api"
	"github.com/dropDatabas3/quicknotify/internal/observability/logger"
	"github.com/dropDatabas3/quicknotify/internal/validation"
)

// reloadSelector pide la lista de plantillas y reemplaza las opciones. La
// selección previa se descarta: puede no existir en la lista nueva.
// Devuelve false si la sesión se perdió en el camino.
func (c *Controller) reloadSelector(ctx context.Context) bool {
	c.clearSelection()
	list, err := c.backend.ListTemplates(ctx, 1, api.SelectorTemplatesPerPage, "")
	if err != nil {
		if !c.loaderFailed(PageSender, "no se pudieron cargar las plantillas", err) {
			return false
		}
		c.options = SelectorFailed()
		return true
	}
	c.options = SelectorOf(list)
	return true
}

func (c *Controller) clearSelection() {
	c.selected = nil
	c.state.SelectedTemplate = 0
	c.state.TemplateVariables = nil
}

func (c *Controller) renderSender() {
	c.render.Render(SenderOf(c.state.SendMode, c.options, c.selected))
}

// switchMode: pasar a "template" siempre vuelve a pedir la lista.
func (c *Controller) switchMode(ctx context.Context, ev Event) error {
	mode, err := ParseSendMode(ev.Value)
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}
	c.state.SendMode = mode
	c.log.Debug("modo de envío", logger.Mode(string(mode)))
	if mode == ModeTemplate && !c.reloadSelector(ctx) {
		return nil
	}
	c.renderSender()
	return nil
}

// selectTemplate trae la plantilla elegida y arma un input por variable.
func (c *Controller) selectTemplate(ctx context.Context, ev Event) error {
	if strings.TrimSpace(ev.Value) == "" {
		c.clearSelection()
		c.renderSender()
		return nil
	}
	id, err := parseID(ev.Value)
	if err != nil {
		return err
	}
	tpl, err := c.backend.GetTemplate(ctx, id)
	if err != nil {
		if api.IsUnauthorized(err) {
			return err
		}
		c.clearSelection()
		c.renderSender()
		return fmt.Errorf("no se pudo cargar la plantilla: %w", err)
	}
	c.selected = tpl
	c.state.SelectedTemplate = tpl.ID
	c.state.TemplateVariables = append([]string(nil), tpl.Variables...)
	c.renderSender()
	return nil
}

func (c *Controller) sendDirect(ctx context.Context, ev Event) error {
	recipients := validation.ParseEmails(ev.Field("recipients"))
	if len(recipients) == 0 {
		return invalid("ingresá al menos un destinatario válido")
	}
	subject, content := strings.TrimSpace(ev.Field("subject")), ev.Field("content")
	if subject == "" || strings.TrimSpace(content) == "" {
		return invalid("completá asunto y contenido")
	}
	msg := api.Message{
		Recipients: recipients,
		CC:         validation.ParseEmails(ev.Field("cc")),
		BCC:        validation.ParseEmails(ev.Field("bcc")),
		Subject:    subject,
		Content:    content,
	}
	res, err := c.backend.SendEmail(ctx, msg)
	if err != nil {
		return fmt.Errorf("envío fallido: %w", err)
	}
	c.log.Info("envío directo", logger.Recipients(len(recipients)), logger.RecordID(res.RecordID))
	c.sendResult(res)
	return nil
}

func (c *Controller) sendTemplate(ctx context.Context, ev Event) error {
	if c.state.SelectedTemplate == 0 {
		return invalid("elegí una plantilla")
	}
	recipients := validation.ParseEmails(ev.Field("recipients"))
	if len(recipients) == 0 {
		return invalid("ingresá al menos un destinatario válido")
	}
	vars := make(map[string]string, len(c.state.TemplateVariables))
	for _, name := range c.state.TemplateVariables {
		v := strings.TrimSpace(ev.Field(VariableField(name)))
		if v == "" {
			return invalid("completá la variable %s", name)
		}
		vars[name] = v
	}
	msg := api.TemplateMessage{
		TemplateID: c.state.SelectedTemplate,
		Recipients: recipients,
		Variables:  vars,
		CC:         validation.ParseEmails(ev.Field("cc")),
		BCC:        validation.ParseEmails(ev.Field("bcc")),
	}
	res, err := c.backend.SendFromTemplate(ctx, msg)
	if err != nil {
		return fmt.Errorf("envío fallido: %w", err)
	}
	c.log.Info("envío con plantilla",
		logger.TemplateID(msg.TemplateID), logger.Recipients(len(recipients)), logger.RecordID(res.RecordID))
	if c.sendResult(res) {
		c.clearSelection()
		c.renderSender()
	}
	return nil
}

// sendResult avisa según el resultado; el backend puede responder 2xx con
// success=false.
func (c *Controller) sendResult(res *api.SendResult) bool {
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = "el envío falló"
		}
		c.notify.Notify(LevelError, msg)
		return false
	}
	msg := res.Message
	if msg == "" {
		msg = "correo enviado"
	}
	c.notify.Notify(LevelSuccess, msg)
	return true
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid("id inválido: %q", s)
	}
	return id, nil
}
