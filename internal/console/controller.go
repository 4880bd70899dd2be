// Package console es el controlador de páginas de la consola de QuickNotify.
//
// Un Controller es dueño del State (usuario autenticado, página actual,
// modo de envío, modal de plantillas), traduce eventos de UI a llamadas al
// backend y entrega view models a un Renderer. Todos los errores se
// resuelven en el handler que los disparó: se loguean y se muestran como
// aviso transitorio; nunca se propagan fuera de Dispatch.
//
// No es seguro para uso concurrente: hay un único flujo de eventos y el hook
// de 401 corre sincrónicamente dentro de la llamada que lo provocó.
package console

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dropDatabas3/quicknotify/internal/api"
	"github.com/dropDatabas3/quicknotify/internal/observability/logger"
	"github.com/dropDatabas3/quicknotify/internal/validation"
)

// Backend es la superficie del cliente API que usa la consola. *api.Client
// la implementa.
type Backend interface {
	Login(ctx context.Context, username, password string) (*api.LoginResult, error)
	Logout(ctx context.Context) error
	CheckAuth(ctx context.Context) (*api.AuthStatus, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) (*api.MessageResult, error)

	GetSMTPConfig(ctx context.Context) (*api.SMTPConfig, error)
	UpdateSMTPConfig(ctx context.Context, cfg api.SMTPConfig) (*api.MessageResult, error)
	TestSMTP(ctx context.Context) (*api.SMTPTestResult, error)

	ListTemplates(ctx context.Context, page, perPage int, search string) (*api.TemplateList, error)
	GetTemplate(ctx context.Context, id int64) (*api.Template, error)
	CreateTemplate(ctx context.Context, in api.TemplateInput) (*api.TemplateCreated, error)
	UpdateTemplate(ctx context.Context, id int64, in api.TemplateInput) (*api.MessageResult, error)
	DeleteTemplate(ctx context.Context, id int64) (*api.MessageResult, error)

	SendEmail(ctx context.Context, msg api.Message) (*api.SendResult, error)
	SendFromTemplate(ctx context.Context, msg api.TemplateMessage) (*api.SendResult, error)

	ListRecords(ctx context.Context, page, perPage int, status string) (*api.RecordList, error)
	GetRecordStats(ctx context.Context) (*api.RecordStats, error)
	RetryRecord(ctx context.Context, id int64) (*api.SendResult, error)

	GetSystemStatus(ctx context.Context) (*api.SystemStatus, error)
	GetSystemLogs(ctx context.Context, level string, lines int) (*api.LogList, error)
	GetDailyStats(ctx context.Context, days int) (*api.DailyStats, error)
}

// unauthorizedHooker lo implementan los backends que avisan de un 401.
type unauthorizedHooker interface {
	SetOnUnauthorized(fn func())
}

// Renderer dibuja view models.
type Renderer interface {
	Render(v View)
}

// RendererFunc adapta una función a Renderer.
type RendererFunc func(View)

func (f RendererFunc) Render(v View) { f(v) }

type Options struct {
	Renderer Renderer
	Notifier Notifier
	Logger   *zap.Logger

	// Filtro y cantidad de líneas para el loader de monitor.
	LogLevel  string
	LogLines  int
	DailyDays int

	// OnAuthChange se llama al iniciar o cerrar sesión (incluido el 401).
	OnAuthChange func(authenticated bool, user string)
}

// ValidationError es una falla del chequeo del lado del cliente: bloquea el
// envío antes de cualquier llamada de red.
type ValidationError struct {
	Message string
	Fields  []validation.FieldError
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

type Controller struct {
	backend Backend
	render  Renderer
	notify  Notifier
	log     *zap.Logger
	opts    Options

	state State

	// datos de UI que no son estado de negocio
	options  []Option
	selected *api.Template
	editing  *api.Template

	bindings map[Role]Handler
}

// New arma el controlador. Si el backend expone SetOnUnauthorized, el hook
// de 401 queda conectado a RedirectToLogin.
func New(b Backend, opts Options) *Controller {
	if opts.Renderer == nil {
		opts.Renderer = RendererFunc(func(View) {})
	}
	if opts.Notifier == nil {
		opts.Notifier = NewNotifications(0, nil)
	}
	if opts.Logger == nil {
		opts.Logger = logger.Named("console")
	}
	if opts.LogLevel == "" {
		opts.LogLevel = "ALL"
	}
	if opts.LogLines <= 0 {
		opts.LogLines = 50
	}
	if opts.DailyDays <= 0 {
		opts.DailyDays = api.DefaultDailyStatsDays
	}
	c := &Controller{
		backend: b,
		render:  opts.Renderer,
		notify:  opts.Notifier,
		log:     opts.Logger,
		opts:    opts,
		state:   InitialState(),
	}
	c.bindings = c.table()
	if h, ok := b.(unauthorizedHooker); ok {
		h.SetOnUnauthorized(c.RedirectToLogin)
	}
	return c
}

// State devuelve una copia del estado actual.
func (c *Controller) State() State { return c.state.clone() }

// Bootstrap consulta la sesión existente y muestra el login o el dashboard.
func (c *Controller) Bootstrap(ctx context.Context) {
	st, err := c.backend.CheckAuth(ctx)
	switch {
	case err != nil && api.IsUnauthorized(err):
		// el hook ya dejó la pantalla de login
		return
	case err != nil:
		c.log.Warn("check de sesión falló", logger.Err(err))
		c.showLogin()
		return
	case !st.Authenticated:
		c.showLogin()
		return
	}
	c.enter(ctx, st.Username)
}

// RedirectToLogin vuelve al estado inicial y muestra el login. Es el hook
// que dispara el cliente ante cada 401.
func (c *Controller) RedirectToLogin() {
	wasAuth := c.state.Authenticated
	c.log.Info("sesión no autorizada, volviendo al login", logger.Page(string(c.state.Page)))
	c.reset()
	c.render.Render(LayoutOf(c.state))
	if wasAuth && c.opts.OnAuthChange != nil {
		c.opts.OnAuthChange(false, "")
	}
}

func (c *Controller) showLogin() {
	c.reset()
	c.render.Render(LayoutOf(c.state))
}

func (c *Controller) reset() {
	c.state = InitialState()
	c.options, c.selected, c.editing = nil, nil, nil
}

// enter deja la sesión abierta en el dashboard y corre su loader una vez.
func (c *Controller) enter(ctx context.Context, user string) {
	c.state.Authenticated = true
	c.state.User = user
	c.state.Page = PageDashboard
	c.render.Render(LayoutOf(c.state))
	c.loadDashboard(ctx)
}

func (c *Controller) login(ctx context.Context, ev Event) error {
	creds := api.Credentials{Username: ev.Field("username"), Password: ev.Field("password")}
	if errs := validation.Struct(creds); errs != nil {
		return &ValidationError{Message: "ingresá usuario y contraseña", Fields: errs}
	}
	res, err := c.backend.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		return fmt.Errorf("login fallido: %w", err)
	}
	user := res.Username
	if user == "" {
		user = creds.Username
	}
	c.log.Info("sesión iniciada", logger.Username(user))
	c.enter(ctx, user)
	c.notify.Notify(LevelSuccess, "sesión iniciada")
	if c.opts.OnAuthChange != nil {
		c.opts.OnAuthChange(true, user)
	}
	return nil
}

func (c *Controller) logout(ctx context.Context, _ Event) error {
	if err := c.backend.Logout(ctx); err != nil {
		return fmt.Errorf("logout fallido: %w", err)
	}
	c.showLogin()
	c.notify.Notify(LevelSuccess, "sesión cerrada")
	if c.opts.OnAuthChange != nil {
		c.opts.OnAuthChange(false, "")
	}
	return nil
}

// Navigate cambia de página y corre su loader completo (sin cache).
func (c *Controller) Navigate(ctx context.Context, p Page) {
	c.state.Page = p
	c.render.Render(LayoutOf(c.state))
	c.loaders()[p](ctx)
}

func (c *Controller) navigate(ctx context.Context, ev Event) error {
	p, err := ParsePage(ev.Value)
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}
	c.Navigate(ctx, p)
	return nil
}

// catch resuelve el error de un handler: log + aviso. Es el único lugar
// donde termina un error de UI.
func (c *Controller) catch(role Role, err error) {
	if err == nil {
		return
	}
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		c.log.Debug("validación", logger.Role(string(role)), logger.Err(err))
		c.notify.Notify(LevelError, verr.Message)
	case api.IsUnauthorized(err) && role != RoleLoginForm:
		c.notify.Notify(LevelError, "la sesión expiró, iniciá sesión de nuevo")
	default:
		c.log.Warn("acción fallida", logger.Role(string(role)), logger.Err(err))
		c.notify.Notify(LevelError, userMessage(err))
	}
}

// userMessage antepone el contexto de la acción al texto del backend:
// "login fallido: usuario o contraseña incorrectos".
func userMessage(err error) string {
	var aerr *api.Error
	if !errors.As(err, &aerr) {
		return err.Error()
	}
	msg := err.Error()
	if msg == aerr.Error() {
		return api.MessageOf(err)
	}
	return msg
}
