package console

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dropDatabas3/quicknotify/internal/observability/logger"
)

// Role identifica un elemento interactivo de la consola. La tabla Role →
// Handler se arma en New, sin ninguna UI viva.
type Role string

const (
	RoleLoginForm Role = "login-form"
	RoleLogout    Role = "logout"
	RoleNav       Role = "nav" // Value: página
	RoleRefresh   Role = "refresh"

	RoleQuickSend     Role = "quick-send"
	RoleQuickTemplate Role = "quick-template"
	RoleQuickConfig   Role = "quick-config"

	RoleSMTPForm Role = "smtp-form"
	RoleSMTPTest Role = "smtp-test"

	RoleTemplateSearch Role = "template-search" // Value: texto
	RoleTemplateNew    Role = "template-new"
	RoleTemplateEdit   Role = "template-edit"   // Value: id
	RoleTemplateDelete Role = "template-delete" // Value: id
	RoleTemplateForm   Role = "template-form"
	RoleEditorClose    Role = "editor-close"

	RoleSendMode         Role = "send-mode"       // Value: direct | template
	RoleTemplateSelect   Role = "template-select" // Value: id o vacío
	RoleSendForm         Role = "send-form"
	RoleSendTemplateForm Role = "send-template-form"

	RoleRecordsFilter Role = "records-filter" // Value: all | success | failed
	RoleRecordRetry   Role = "record-retry"   // Value: id

	RolePasswordForm Role = "password-form"
)

// Event es lo que produce un elemento: un valor (select, botón con id) y/o
// los campos de un formulario.
type Event struct {
	Role   Role
	Value  string
	Fields map[string]string
}

// Field devuelve un campo del formulario ("" si falta).
func (e Event) Field(name string) string {
	if e.Fields == nil {
		return ""
	}
	return e.Fields[name]
}

// Handler procesa un evento. Un error devuelto termina en catch.
type Handler func(ctx context.Context, ev Event) error

var ErrUnknownRole = errors.New("console: rol desconocido")

// publicRoles se pueden disparar sin sesión.
var publicRoles = map[Role]bool{RoleLoginForm: true}

func (c *Controller) table() map[Role]Handler {
	goTo := func(p Page) Handler {
		return func(ctx context.Context, _ Event) error {
			c.Navigate(ctx, p)
			return nil
		}
	}
	return map[Role]Handler{
		RoleLoginForm: c.login,
		RoleLogout:    c.logout,
		RoleNav:       c.navigate,
		RoleRefresh:   c.refresh,

		RoleQuickSend:     goTo(PageSender),
		RoleQuickTemplate: goTo(PageTemplate),
		RoleQuickConfig:   goTo(PageConfig),

		RoleSMTPForm: c.saveSMTP,
		RoleSMTPTest: c.testSMTP,

		RoleTemplateSearch: c.searchTemplates,
		RoleTemplateNew:    c.newTemplate,
		RoleTemplateEdit:   c.editTemplate,
		RoleTemplateDelete: c.deleteTemplate,
		RoleTemplateForm:   c.saveTemplate,
		RoleEditorClose:    c.closeEditor,

		RoleSendMode:         c.switchMode,
		RoleTemplateSelect:   c.selectTemplate,
		RoleSendForm:         c.sendDirect,
		RoleSendTemplateForm: c.sendTemplate,

		RoleRecordsFilter: c.filterRecords,
		RoleRecordRetry:   c.retryRecord,

		RolePasswordForm: c.changePassword,
	}
}

// Roles lista los roles registrados, ordenados.
func (c *Controller) Roles() []Role {
	out := make([]Role, 0, len(c.bindings))
	for r := range c.bindings {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Dispatch busca el handler del rol y lo corre. Sólo devuelve error si el
// rol no existe; cualquier otra falla se resuelve adentro (log + aviso).
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	h, ok := c.bindings[ev.Role]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRole, ev.Role)
	}
	if !c.state.Authenticated && !publicRoles[ev.Role] {
		c.notify.Notify(LevelError, "iniciá sesión primero")
		return nil
	}
	c.log.Debug("evento", logger.Role(string(ev.Role)), logger.Page(string(c.state.Page)))
	c.catch(ev.Role, h(ctx, ev))
	return nil
}
