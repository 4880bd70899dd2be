package console

import "fmt"

// Page es la sección de contenido visible.
type Page string

const (
	PageDashboard Page = "dashboard"
	PageConfig    Page = "config"
	PageTemplate  Page = "template"
	PageSender    Page = "sender"
	PageRecords   Page = "records"
	PageMonitor   Page = "monitor"
)

// Pages en el orden del menú.
var Pages = []Page{PageDashboard, PageConfig, PageTemplate, PageSender, PageRecords, PageMonitor}

// ParsePage valida un nombre de página.
func ParsePage(s string) (Page, error) {
	for _, p := range Pages {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("página desconocida: %q", s)
}

// SendMode es el sub-estado de la página de envío.
type SendMode string

const (
	ModeDirect   SendMode = "direct"
	ModeTemplate SendMode = "template"
)

func ParseSendMode(s string) (SendMode, error) {
	switch SendMode(s) {
	case ModeDirect, ModeTemplate:
		return SendMode(s), nil
	}
	return "", fmt.Errorf("modo de envío desconocido: %q", s)
}

// EditorState es el modal de alta/edición de plantillas.
type EditorState struct {
	Open      bool
	EditingID int64 // 0 = alta
}

// State es todo el estado mutable de la consola. Sólo lo escribe el
// Controller desde Dispatch/Bootstrap (el hook de 401 corre dentro de la
// misma llamada).
type State struct {
	Authenticated bool
	User          string
	Page          Page

	SendMode          SendMode
	SelectedTemplate  int64    // 0 = ninguna
	TemplateVariables []string // variables declaradas por la plantilla elegida

	Editor         EditorState
	TemplateSearch string
	RecordsFilter  string
}

// InitialState: sin autenticar, en el dashboard.
func InitialState() State {
	return State{
		Page:          PageDashboard,
		SendMode:      ModeDirect,
		RecordsFilter: "all",
	}
}

func (s State) clone() State {
	out := s
	if s.TemplateVariables != nil {
		out.TemplateVariables = append([]string(nil), s.TemplateVariables...)
	}
	return out
}
