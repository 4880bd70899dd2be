package console

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dropDatabas3/quicknotify/internal/api"
)

// Los view models son datos planos: los arman funciones puras a partir de
// las respuestas del backend y los consume un Renderer. Ninguna de estas
// funciones toca estado ni red.

// View es cualquier cosa que un Renderer sabe dibujar.
type View interface {
	section() string
}

// Screen distingue el formulario de login del layout principal.
type Screen string

const (
	ScreenLogin Screen = "login"
	ScreenMain  Screen = "main"
)

// LayoutView: qué pantalla se ve, el usuario y el ítem activo del menú.
type LayoutView struct {
	Screen Screen
	User   string
	Page   Page
}

func LayoutOf(s State) LayoutView {
	if !s.Authenticated {
		return LayoutView{Screen: ScreenLogin}
	}
	return LayoutView{Screen: ScreenMain, User: s.User, Page: s.Page}
}

// ───────── Dashboard ─────────

type DashboardView struct {
	Loaded bool
	Today  api.Counts
	Total  api.Counts
}

func DashboardOf(st *api.RecordStats) DashboardView {
	if st == nil {
		return DashboardView{}
	}
	return DashboardView{Loaded: true, Today: st.Today, Total: st.Total}
}

// SuccessRate en porcentaje; 0 sin envíos.
func (d DashboardView) SuccessRate() float64 {
	if d.Total.Total == 0 {
		return 0
	}
	return float64(d.Total.Success) * 100 / float64(d.Total.Total)
}

// ───────── Config ─────────

type ConfigView struct {
	Loaded      bool
	Configured  bool
	Server      string
	Port        int
	SenderEmail string
	UseTLS      bool
	Timeout     int
	RetryTimes  int
	UpdatedAt   time.Time
	Hint        string
}

func ConfigOf(cfg *api.SMTPConfig) ConfigView {
	if cfg == nil {
		return ConfigView{}
	}
	if !cfg.Configured() {
		hint := cfg.Message
		if hint == "" {
			hint = "todavía no hay configuración SMTP"
		}
		return ConfigView{Loaded: true, Hint: hint}
	}
	return ConfigView{
		Loaded:      true,
		Configured:  true,
		Server:      cfg.Server,
		Port:        cfg.Port,
		SenderEmail: cfg.SenderEmail,
		UseTLS:      cfg.UseTLS,
		Timeout:     cfg.Timeout,
		RetryTimes:  cfg.RetryTimes,
		UpdatedAt:   cfg.UpdatedAt.Time,
	}
}

// ───────── Templates ─────────

type TemplateRow struct {
	ID        int64
	Name      string
	Subject   string
	Variables []string
	CreatedAt time.Time
	LastUsed  time.Time
}

type TemplatesView struct {
	Loaded bool
	Rows   []TemplateRow
	Total  int
}

func (v TemplatesView) Empty() bool { return len(v.Rows) == 0 }

func TemplatesOf(list *api.TemplateList) TemplatesView {
	if list == nil {
		return TemplatesView{}
	}
	rows := make([]TemplateRow, 0, len(list.Templates))
	for _, t := range list.Templates {
		rows = append(rows, TemplateRow{
			ID:        t.ID,
			Name:      t.Name,
			Subject:   t.Subject,
			Variables: t.Variables,
			CreatedAt: t.CreatedAt.Time,
			LastUsed:  t.LastUsed.Time,
		})
	}
	total := list.Total
	if total < len(rows) {
		total = len(rows)
	}
	return TemplatesView{Loaded: true, Rows: rows, Total: total}
}

// EditorView es el modal de alta/edición.
type EditorView struct {
	Open      bool
	EditingID int64
	Name      string
	Subject   string
	Content   string
	Variables []string
}

func (v EditorView) Title() string {
	if v.EditingID != 0 {
		return "Editar plantilla"
	}
	return "Nueva plantilla"
}

func EditorOf(e EditorState, t *api.Template) EditorView {
	v := EditorView{Open: e.Open, EditingID: e.EditingID}
	if t != nil {
		v.Name, v.Subject, v.Content, v.Variables = t.Name, t.Subject, t.Content, t.Variables
	}
	return v
}

// ───────── Sender ─────────

// Option es una entrada del selector de plantillas.
type Option struct {
	Value    string
	Label    string
	Disabled bool
}

const (
	placeholderLabel = "-- elegí una plantilla --"
	noTemplatesLabel = "no hay plantillas"
	loadFailedLabel  = "no se pudieron cargar las plantillas, reintentá"
	noVariablesHint  = "esta plantilla no necesita variables"
)

// SelectorOf arma las opciones desde cero: el placeholder y una opción por
// plantilla. Nunca acumula sobre una lista anterior.
func SelectorOf(list *api.TemplateList) []Option {
	opts := []Option{{Value: "", Label: placeholderLabel}}
	if list == nil || len(list.Templates) == 0 {
		return append(opts, Option{Label: noTemplatesLabel, Disabled: true})
	}
	for _, t := range list.Templates {
		opts = append(opts, Option{Value: strconv.FormatInt(t.ID, 10), Label: t.Name})
	}
	return opts
}

// SelectorFailed es el selector cuando el fetch falló.
func SelectorFailed() []Option {
	return []Option{{Value: "", Label: placeholderLabel}, {Label: loadFailedLabel, Disabled: true}}
}

// VariableInput es un campo obligatorio para una variable de plantilla.
type VariableInput struct {
	Name        string
	Field       string // clave del campo en el evento de envío
	Required    bool
	Placeholder string
}

// VariableField es la clave de evento que lleva el valor de una variable.
func VariableField(name string) string { return "var:" + name }

// VariableInputsOf devuelve exactamente un input obligatorio por variable.
// Sin variables devuelve nil y el hint correspondiente.
func VariableInputsOf(vars []string) ([]VariableInput, string) {
	if len(vars) == 0 {
		return nil, noVariablesHint
	}
	out := make([]VariableInput, 0, len(vars))
	for _, name := range vars {
		out = append(out, VariableInput{
			Name:        name,
			Field:       VariableField(name),
			Required:    true,
			Placeholder: fmt.Sprintf("valor para {{%s}}", name),
		})
	}
	return out, ""
}

// PreviewView muestra asunto y cuerpo de la plantilla elegida.
type PreviewView struct {
	TemplateID int64
	Name       string
	Subject    string
	Content    string
}

type SenderView struct {
	Mode      SendMode
	Options   []Option
	Selected  string
	Preview   *PreviewView
	Variables []VariableInput
	Hint      string
}

// SenderOf arma la vista de envío. tpl == nil => sin plantilla elegida.
func SenderOf(mode SendMode, options []Option, tpl *api.Template) SenderView {
	v := SenderView{Mode: mode, Options: options}
	if mode != ModeTemplate || tpl == nil {
		return v
	}
	v.Selected = strconv.FormatInt(tpl.ID, 10)
	v.Preview = &PreviewView{TemplateID: tpl.ID, Name: tpl.Name, Subject: tpl.Subject, Content: tpl.Content}
	v.Variables, v.Hint = VariableInputsOf(tpl.Variables)
	return v
}

// ───────── Records ─────────

type RecordRow struct {
	ID           int64
	CreatedAt    time.Time
	Recipients   string
	Subject      string
	TemplateName string
	Status       string
	StatusLabel  string
	ErrorMsg     string
	Retryable    bool
}

type RecordsView struct {
	Loaded bool
	Filter string
	Rows   []RecordRow
	Total  int
}

func (v RecordsView) Empty() bool { return len(v.Rows) == 0 }

// StatusLabel traduce el estado del backend.
func StatusLabel(status string) string {
	switch status {
	case api.StatusSuccess:
		return "enviado"
	case api.StatusFailed:
		return "fallido"
	case "pending":
		return "pendiente"
	case "":
		return "-"
	}
	return status
}

func RecordsOf(list *api.RecordList, filter string) RecordsView {
	if filter == "" {
		filter = api.StatusAll
	}
	if list == nil {
		return RecordsView{Filter: filter}
	}
	rows := make([]RecordRow, 0, len(list.Records))
	for _, r := range list.Records {
		rows = append(rows, RecordRow{
			ID:           r.ID,
			CreatedAt:    r.CreatedAt.Time,
			Recipients:   strings.Join(r.Recipients, ", "),
			Subject:      r.Subject,
			TemplateName: r.TemplateName,
			Status:       r.Status,
			StatusLabel:  StatusLabel(r.Status),
			ErrorMsg:     r.ErrorMsg,
			Retryable:    r.Status == api.StatusFailed,
		})
	}
	total := list.Total
	if total < len(rows) {
		total = len(rows)
	}
	return RecordsView{Loaded: true, Filter: filter, Rows: rows, Total: total}
}

// ───────── Monitor ─────────

type MonitorView struct {
	Loaded        bool
	CPUPercent    float64
	MemoryPercent float64
	ProcessMB     float64
	Uptime        time.Duration
	Logs          []string
	Daily         []api.DailyStat
}

func MonitorOf(st *api.SystemStatus, logs *api.LogList, daily *api.DailyStats) MonitorView {
	if st == nil {
		return MonitorView{}
	}
	v := MonitorView{
		Loaded:        true,
		CPUPercent:    st.CPUPercent,
		MemoryPercent: st.Memory.Percent,
		ProcessMB:     st.Process.MemoryMB,
		Uptime:        time.Duration(st.Process.UptimeSeconds * float64(time.Second)),
	}
	if logs != nil {
		v.Logs = logs.Logs
	}
	if daily != nil {
		v.Daily = daily.Stats
	}
	return v
}

func (LayoutView) section() string    { return "layout" }
func (DashboardView) section() string { return string(PageDashboard) }
func (ConfigView) section() string    { return string(PageConfig) }
func (TemplatesView) section() string { return string(PageTemplate) }
func (EditorView) section() string    { return "editor" }
func (SenderView) section() string    { return string(PageSender) }
func (RecordsView) section() string   { return string(PageRecords) }
func (MonitorView) section() string   { return string(PageMonitor) }
