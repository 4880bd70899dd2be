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

// ───────── SMTP ─────────

func (c *Controller) saveSMTP(ctx context.Context, ev Event) error {
	cfg := api.SMTPConfig{
		Server:         strings.TrimSpace(ev.Field("smtp_server")),
		SenderEmail:    strings.TrimSpace(ev.Field("sender_email")),
		SenderPassword: ev.Field("sender_password"),
		UseTLS:         true,
	}
	if v := strings.TrimSpace(ev.Field("smtp_port")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return invalid("smtp_port inválido: %q", v)
		}
		cfg.Port = n
	}
	if v := ev.Field("use_tls"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return invalid("use_tls inválido: %q", v)
		}
		cfg.UseTLS = b
	}
	var err error
	if cfg.Timeout, err = optionalInt(ev.Field("timeout")); err != nil {
		return invalid("timeout inválido: %q", ev.Field("timeout"))
	}
	if cfg.RetryTimes, err = optionalInt(ev.Field("retry_times")); err != nil {
		return invalid("retry_times inválido: %q", ev.Field("retry_times"))
	}
	if errs := validation.Struct(cfg); errs != nil {
		return &ValidationError{Message: "revisá los campos: " + validation.Fields(errs), Fields: errs}
	}
	res, err := c.backend.UpdateSMTPConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("no se pudo guardar la configuración: %w", err)
	}
	c.notify.Notify(LevelSuccess, orDefault(res.Message, "configuración SMTP guardada"))
	return nil
}

func (c *Controller) testSMTP(ctx context.Context, _ Event) error {
	c.notify.Notify(LevelInfo, "probando conexión SMTP...")
	res, err := c.backend.TestSMTP(ctx)
	if err != nil {
		return fmt.Errorf("prueba SMTP fallida: %w", err)
	}
	if !res.Success {
		c.notify.Notify(LevelError, orDefault(res.Message, "prueba SMTP fallida"))
		return nil
	}
	c.notify.Notify(LevelSuccess, orDefault(res.Message, "conexión SMTP correcta"))
	return nil
}

// ───────── Plantillas ─────────

func (c *Controller) searchTemplates(ctx context.Context, ev Event) error {
	c.state.TemplateSearch = strings.TrimSpace(ev.Value)
	c.loadTemplates(ctx)
	return nil
}

func (c *Controller) newTemplate(_ context.Context, _ Event) error {
	c.editing = nil
	c.state.Editor = EditorState{Open: true}
	c.render.Render(EditorOf(c.state.Editor, nil))
	return nil
}

func (c *Controller) editTemplate(ctx context.Context, ev Event) error {
	id, err := parseID(ev.Value)
	if err != nil {
		return err
	}
	tpl, err := c.backend.GetTemplate(ctx, id)
	if err != nil {
		return fmt.Errorf("no se pudo cargar la plantilla: %w", err)
	}
	c.editing = tpl
	c.state.Editor = EditorState{Open: true, EditingID: tpl.ID}
	c.render.Render(EditorOf(c.state.Editor, tpl))
	return nil
}

func (c *Controller) closeEditor(_ context.Context, _ Event) error {
	c.editing = nil
	c.state.Editor = EditorState{}
	c.render.Render(EditorOf(c.state.Editor, nil))
	return nil
}

// saveTemplate crea o actualiza según el modal. En edición, un campo vacío
// conserva el valor actual.
func (c *Controller) saveTemplate(ctx context.Context, ev Event) error {
	if !c.state.Editor.Open {
		return invalid("no hay ninguna plantilla en edición")
	}
	in := api.TemplateInput{
		Name:    strings.TrimSpace(ev.Field("name")),
		Subject: strings.TrimSpace(ev.Field("subject")),
		Content: ev.Field("content"),
	}
	if id := c.state.Editor.EditingID; id != 0 {
		if c.editing != nil {
			in.Name = orDefault(in.Name, c.editing.Name)
			in.Subject = orDefault(in.Subject, c.editing.Subject)
			in.Content = orDefault(in.Content, c.editing.Content)
		}
		if errs := validation.Struct(in); errs != nil {
			return &ValidationError{Message: "completá " + validation.Fields(errs), Fields: errs}
		}
		res, err := c.backend.UpdateTemplate(ctx, id, in)
		if err != nil {
			return fmt.Errorf("no se pudo actualizar la plantilla: %w", err)
		}
		c.log.Info("plantilla actualizada", logger.TemplateID(id))
		c.notify.Notify(LevelSuccess, orDefault(res.Message, "plantilla actualizada"))
	} else {
		if errs := validation.Struct(in); errs != nil {
			return &ValidationError{Message: "completá " + validation.Fields(errs), Fields: errs}
		}
		res, err := c.backend.CreateTemplate(ctx, in)
		if err != nil {
			return fmt.Errorf("no se pudo crear la plantilla: %w", err)
		}
		c.log.Info("plantilla creada", logger.TemplateID(res.ID))
		c.notify.Notify(LevelSuccess, orDefault(res.Message, "plantilla creada"))
	}
	c.editing = nil
	c.state.Editor = EditorState{}
	c.render.Render(EditorOf(c.state.Editor, nil))
	c.loadTemplates(ctx)
	return nil
}

func (c *Controller) deleteTemplate(ctx context.Context, ev Event) error {
	id, err := parseID(ev.Value)
	if err != nil {
		return err
	}
	res, err := c.backend.DeleteTemplate(ctx, id)
	if err != nil {
		return fmt.Errorf("no se pudo eliminar la plantilla: %w", err)
	}
	c.log.Info("plantilla eliminada", logger.TemplateID(id))
	c.notify.Notify(LevelSuccess, orDefault(res.Message, "plantilla eliminada"))
	c.loadTemplates(ctx)
	return nil
}

// ───────── Registros ─────────

func (c *Controller) filterRecords(ctx context.Context, ev Event) error {
	status := strings.TrimSpace(ev.Value)
	if status == "" {
		status = ev.Field("status")
	}
	switch status {
	case "":
		status = api.StatusAll
	case api.StatusAll, api.StatusSuccess, api.StatusFailed:
	default:
		return invalid("estado desconocido: %q", status)
	}
	c.state.RecordsFilter = status
	c.loadRecords(ctx)
	return nil
}

func (c *Controller) retryRecord(ctx context.Context, ev Event) error {
	id, err := parseID(ev.Value)
	if err != nil {
		return err
	}
	res, err := c.backend.RetryRecord(ctx, id)
	if err != nil {
		return fmt.Errorf("reintento fallido: %w", err)
	}
	c.log.Info("registro reintentado", logger.RecordID(id), logger.Bool("success", res.Success))
	c.sendResult(res)
	if c.state.Page == PageRecords {
		c.loadRecords(ctx)
	}
	return nil
}

// ───────── Cuenta ─────────

func (c *Controller) changePassword(ctx context.Context, ev Event) error {
	in := api.PasswordChange{OldPassword: ev.Field("old_password"), NewPassword: ev.Field("new_password")}
	if errs := validation.Struct(in); errs != nil {
		return &ValidationError{Message: "completá " + validation.Fields(errs), Fields: errs}
	}
	if confirm, ok := ev.Fields["confirm_password"]; ok && confirm != in.NewPassword {
		return invalid("las contraseñas no coinciden")
	}
	res, err := c.backend.ChangePassword(ctx, in.OldPassword, in.NewPassword)
	if err != nil {
		return fmt.Errorf("no se pudo cambiar la contraseña: %w", err)
	}
	c.notify.Notify(LevelSuccess, orDefault(res.Message, "contraseña actualizada"))
	return nil
}

// refresh vuelve a correr el loader de la página actual.
func (c *Controller) refresh(ctx context.Context, _ Event) error {
	c.loaders()[c.state.Page](ctx)
	return nil
}

// optionalInt: vacío es 0 (el backend pone su default).
func optionalInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
