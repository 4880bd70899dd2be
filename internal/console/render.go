package console

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"
	"time"
	"unicode"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Terminal dibuja los view models como texto. Todo string que viene del
// backend pasa por clean antes de imprimirse (equivale al escape HTML de
// una UI web).
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
	p   *message.Printer

	title, ok, fail, info, dim *color.Color
}

// NewTerminal crea el renderer. locale es un tag BCP 47 ("es", "en", ...).
func NewTerminal(w io.Writer, locale string, noColor bool) *Terminal {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Spanish
	}
	t := &Terminal{
		out:   w,
		p:     message.NewPrinter(tag),
		title: color.New(color.FgCyan, color.Bold),
		ok:    color.New(color.FgGreen),
		fail:  color.New(color.FgRed),
		info:  color.New(color.FgYellow),
		dim:   color.New(color.Faint),
	}
	if noColor {
		for _, c := range []*color.Color{t.title, t.ok, t.fail, t.info, t.dim} {
			c.DisableColor()
		}
	}
	return t
}

// Toast imprime un aviso; sirve de sink para Notifications.
func (t *Terminal) Toast(n Notification) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := t.info
	mark := "i"
	switch n.Level {
	case LevelSuccess:
		c, mark = t.ok, "✓"
	case LevelError:
		c, mark = t.fail, "✗"
	}
	fmt.Fprintln(t.out, c.Sprintf("[%s] %s", mark, clean(n.Message)))
}

func (t *Terminal) Render(v View) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch v := v.(type) {
	case LayoutView:
		t.layout(v)
	case DashboardView:
		t.dashboard(v)
	case ConfigView:
		t.config(v)
	case TemplatesView:
		t.templates(v)
	case EditorView:
		t.editor(v)
	case SenderView:
		t.sender(v)
	case RecordsView:
		t.records(v)
	case MonitorView:
		t.monitor(v)
	}
}

func (t *Terminal) heading(s string) {
	fmt.Fprintln(t.out, t.title.Sprint("== "+s+" =="))
}

func (t *Terminal) noData() {
	fmt.Fprintln(t.out, t.dim.Sprint("(sin datos)"))
}

func (t *Terminal) num(n int) string { return t.p.Sprintf("%d", n) }

func (t *Terminal) pct(f float64) string { return t.p.Sprintf("%.1f%%", f) }

func (t *Terminal) table(header string, rows []string) {
	tw := tabwriter.NewWriter(t.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, r := range rows {
		fmt.Fprintln(tw, r)
	}
	_ = tw.Flush()
}

func (t *Terminal) layout(v LayoutView) {
	if v.Screen == ScreenLogin {
		t.heading("QuickNotify - iniciar sesión")
		fmt.Fprintln(t.out, "usá: login <usuario> <contraseña>")
		return
	}
	items := make([]string, 0, len(Pages))
	for _, p := range Pages {
		if p == v.Page {
			items = append(items, t.title.Sprintf("[%s]", p))
			continue
		}
		items = append(items, string(p))
	}
	fmt.Fprintf(t.out, "%s  %s\n", t.dim.Sprint(clean(v.User)), strings.Join(items, " | "))
}

func (t *Terminal) dashboard(v DashboardView) {
	t.heading("Dashboard")
	if !v.Loaded {
		t.noData()
		return
	}
	t.table("\thoy\ttotal", []string{
		"envíos\t" + t.num(v.Today.Total) + "\t" + t.num(v.Total.Total),
		"exitosos\t" + t.num(v.Today.Success) + "\t" + t.num(v.Total.Success),
		"fallidos\t" + t.num(v.Today.Failed) + "\t" + t.num(v.Total.Failed),
	})
	fmt.Fprintf(t.out, "tasa de éxito: %s\n", t.pct(v.SuccessRate()))
}

func (t *Terminal) config(v ConfigView) {
	t.heading("Configuración SMTP")
	switch {
	case !v.Loaded:
		t.noData()
		return
	case !v.Configured:
		fmt.Fprintln(t.out, t.info.Sprint(clean(v.Hint)))
		return
	}
	t.table("campo\tvalor", []string{
		"servidor\t" + clean(v.Server),
		"puerto\t" + fmt.Sprint(v.Port),
		"remitente\t" + clean(v.SenderEmail),
		"TLS\t" + yesNo(v.UseTLS),
		"timeout\t" + fmt.Sprintf("%ds", v.Timeout),
		"reintentos\t" + fmt.Sprint(v.RetryTimes),
		"actualizado\t" + when(v.UpdatedAt),
	})
}

func (t *Terminal) templates(v TemplatesView) {
	t.heading("Plantillas")
	if v.Empty() {
		t.noData()
		return
	}
	rows := make([]string, 0, len(v.Rows))
	for _, r := range v.Rows {
		rows = append(rows, fmt.Sprintf("%d\t%s\t%s\t%s\t%s",
			r.ID, clean(r.Name), clean(r.Subject), clean(strings.Join(r.Variables, ",")), when(r.CreatedAt)))
	}
	t.table("ID\tNOMBRE\tASUNTO\tVARIABLES\tCREADA", rows)
	fmt.Fprintf(t.out, "total: %s\n", t.num(v.Total))
}

func (t *Terminal) editor(v EditorView) {
	if !v.Open {
		fmt.Fprintln(t.out, t.dim.Sprint("(editor cerrado)"))
		return
	}
	t.heading(v.Title())
	if v.EditingID != 0 {
		fmt.Fprintf(t.out, "nombre:  %s\nasunto:  %s\n", clean(v.Name), clean(v.Subject))
		fmt.Fprintln(t.out, cleanBlock(v.Content))
	}
	fmt.Fprintln(t.out, "usá: template save name=... subject=... content=...")
}

func (t *Terminal) sender(v SenderView) {
	t.heading("Enviar correo (" + string(v.Mode) + ")")
	if v.Mode != ModeTemplate {
		fmt.Fprintln(t.out, "usá: send to=a@b.com,c@d.com subject=... content=...")
		return
	}
	for _, o := range v.Options {
		switch {
		case o.Disabled:
			fmt.Fprintln(t.out, t.dim.Sprint("  "+clean(o.Label)))
		case o.Value == "":
			fmt.Fprintln(t.out, "  "+clean(o.Label))
		default:
			mark := " "
			if o.Value == v.Selected {
				mark = "*"
			}
			fmt.Fprintf(t.out, " %s%s) %s\n", mark, o.Value, clean(o.Label))
		}
	}
	if v.Preview == nil {
		return
	}
	fmt.Fprintf(t.out, "asunto: %s\n%s\n", clean(v.Preview.Subject), cleanBlock(v.Preview.Content))
	if v.Hint != "" {
		fmt.Fprintln(t.out, t.dim.Sprint(v.Hint))
	}
	for _, in := range v.Variables {
		fmt.Fprintf(t.out, "  %s (obligatoria): %s\n", in.Field, in.Placeholder)
	}
}

func (t *Terminal) records(v RecordsView) {
	t.heading("Registros [" + v.Filter + "]")
	if v.Empty() {
		t.noData()
		return
	}
	rows := make([]string, 0, len(v.Rows))
	for _, r := range v.Rows {
		status := t.ok.Sprint(r.StatusLabel)
		if r.Status != "success" {
			status = t.fail.Sprint(r.StatusLabel)
		}
		rows = append(rows, fmt.Sprintf("%d\t%s\t%s\t%s\t%s",
			r.ID, when(r.CreatedAt), clean(r.Recipients), clean(r.Subject), status))
	}
	t.table("ID\tFECHA\tDESTINATARIOS\tASUNTO\tESTADO", rows)
	fmt.Fprintf(t.out, "total: %s\n", t.num(v.Total))
}

func (t *Terminal) monitor(v MonitorView) {
	t.heading("Monitor")
	if !v.Loaded {
		t.noData()
		return
	}
	fmt.Fprintf(t.out, "CPU %s  memoria %s  proceso %s MB\n",
		t.pct(v.CPUPercent), t.pct(v.MemoryPercent), t.p.Sprintf("%.1f", v.ProcessMB))
	if len(v.Daily) > 0 {
		rows := make([]string, 0, len(v.Daily))
		for _, d := range v.Daily {
			rows = append(rows, clean(d.Date)+"\t"+t.num(d.Total)+"\t"+t.num(d.Success)+"\t"+t.num(d.Failed))
		}
		t.table("FECHA\tTOTAL\tOK\tFALLIDOS", rows)
	}
	for _, l := range v.Logs {
		fmt.Fprintln(t.out, t.dim.Sprint(clean(l)))
	}
}

func yesNo(b bool) string {
	if b {
		return "sí"
	}
	return "no"
}

func when(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04")
}

// clean saca los caracteres de control (secuencias ANSI incluidas) de un
// texto de una línea.
func clean(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// cleanBlock es clean pero conserva saltos de línea y tabs.
func cleanBlock(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
