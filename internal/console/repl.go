package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-shellwords"
)

var (
	ErrQuit  = errors.New("quit")
	ErrHelp  = errors.New("help")
	ErrEmpty = errors.New("empty")
)

const helpText = `comandos:
  login <usuario> <contraseña>      logout
  go <página> | dashboard | config | template | sender | records | monitor
  refresh
  smtp set server=... port=... email=... password=... [tls=true] [timeout=30] [retries=3]
  smtp test
  template search [texto] | template new | template edit <id> | template delete <id>
  template save name=... subject=... content="..."  | template close
  mode direct|template              select <id>|none
  send to=a@b.com,c@d.com [cc=...] [bcc=...] subject=... content="..."
  send-template to=... [var.nombre=valor ...]
  records [all|success|failed]      retry <id>
  passwd old=... new=... [confirm=...]
  help | quit`

// REPL lee comandos de texto, los convierte en eventos y los despacha al
// Controller. Es el único productor de eventos de la consola interactiva.
type REPL struct {
	ctrl   *Controller
	in     io.Reader
	out    io.Writer
	Prompt string
}

func NewREPL(ctrl *Controller, in io.Reader, out io.Writer) *REPL {
	return &REPL{ctrl: ctrl, in: in, out: out, Prompt: "quicknotify> "}
}

// Run procesa líneas hasta EOF, quit o ctx cancelado.
func (r *REPL) Run(ctx context.Context) error {
	sc := bufio.NewScanner(r.in)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(r.out, r.Prompt)
		if !sc.Scan() {
			fmt.Fprintln(r.out)
			return sc.Err()
		}
		ev, err := ParseCommand(sc.Text())
		switch {
		case errors.Is(err, ErrEmpty):
			continue
		case errors.Is(err, ErrQuit):
			return nil
		case errors.Is(err, ErrHelp):
			fmt.Fprintln(r.out, helpText)
			continue
		case err != nil:
			fmt.Fprintln(r.out, err)
			continue
		}
		if err := r.ctrl.Dispatch(ctx, ev); err != nil {
			fmt.Fprintln(r.out, err)
		}
	}
}

// alias de claves cortas de la REPL a los campos de formulario.
var fieldAlias = map[string]string{
	"server":   "smtp_server",
	"port":     "smtp_port",
	"email":    "sender_email",
	"password": "sender_password",
	"tls":      "use_tls",
	"retries":  "retry_times",
	"to":       "recipients",
	"old":      "old_password",
	"new":      "new_password",
	"confirm":  "confirm_password",
}

// ParseCommand convierte una línea en un Event.
func ParseCommand(line string) (Event, error) {
	args, err := splitArgs(line)
	if err != nil {
		return Event{}, err
	}
	if len(args) == 0 {
		return Event{}, ErrEmpty
	}
	cmd, rest := strings.ToLower(args[0]), args[1:]

	if _, err := ParsePage(cmd); err == nil {
		return Event{Role: RoleNav, Value: cmd}, nil
	}

	switch cmd {
	case "quit", "exit":
		return Event{}, ErrQuit
	case "help", "?":
		return Event{}, ErrHelp
	case "login":
		if len(rest) != 2 {
			return Event{}, fmt.Errorf("uso: login <usuario> <contraseña>")
		}
		return Event{Role: RoleLoginForm, Fields: map[string]string{"username": rest[0], "password": rest[1]}}, nil
	case "logout":
		return Event{Role: RoleLogout}, nil
	case "go":
		if len(rest) != 1 {
			return Event{}, fmt.Errorf("uso: go <página>")
		}
		return Event{Role: RoleNav, Value: rest[0]}, nil
	case "refresh":
		return Event{Role: RoleRefresh}, nil
	case "smtp":
		return smtpCommand(rest)
	case "template":
		return templateCommand(rest)
	case "mode":
		if len(rest) != 1 {
			return Event{}, fmt.Errorf("uso: mode direct|template")
		}
		return Event{Role: RoleSendMode, Value: rest[0]}, nil
	case "select":
		if len(rest) != 1 {
			return Event{}, fmt.Errorf("uso: select <id>|none")
		}
		v := rest[0]
		if v == "none" {
			v = ""
		}
		return Event{Role: RoleTemplateSelect, Value: v}, nil
	case "send":
		f, err := fields(rest)
		if err != nil {
			return Event{}, err
		}
		return Event{Role: RoleSendForm, Fields: listFields(f)}, nil
	case "send-template":
		f, err := fields(rest)
		if err != nil {
			return Event{}, err
		}
		return Event{Role: RoleSendTemplateForm, Fields: listFields(f)}, nil
	case "records":
		ev := Event{Role: RoleRecordsFilter}
		if len(rest) > 0 {
			ev.Value = rest[0]
		}
		return ev, nil
	case "retry":
		if len(rest) != 1 {
			return Event{}, fmt.Errorf("uso: retry <id>")
		}
		return Event{Role: RoleRecordRetry, Value: rest[0]}, nil
	case "passwd":
		f, err := fields(rest)
		if err != nil {
			return Event{}, err
		}
		return Event{Role: RolePasswordForm, Fields: f}, nil
	}
	return Event{}, fmt.Errorf("comando desconocido %q (help para ver la lista)", cmd)
}

func smtpCommand(rest []string) (Event, error) {
	if len(rest) == 0 {
		return Event{}, fmt.Errorf("uso: smtp set ... | smtp test")
	}
	switch rest[0] {
	case "test":
		return Event{Role: RoleSMTPTest}, nil
	case "set":
		f, err := fields(rest[1:])
		if err != nil {
			return Event{}, err
		}
		return Event{Role: RoleSMTPForm, Fields: f}, nil
	}
	return Event{}, fmt.Errorf("subcomando smtp desconocido %q", rest[0])
}

func templateCommand(rest []string) (Event, error) {
	if len(rest) == 0 {
		return Event{}, fmt.Errorf("uso: template search|new|edit|delete|save|close")
	}
	sub, args := rest[0], rest[1:]
	withID := func(role Role) (Event, error) {
		if len(args) != 1 {
			return Event{}, fmt.Errorf("uso: template %s <id>", sub)
		}
		return Event{Role: role, Value: args[0]}, nil
	}
	switch sub {
	case "search":
		return Event{Role: RoleTemplateSearch, Value: strings.Join(args, " ")}, nil
	case "new":
		return Event{Role: RoleTemplateNew}, nil
	case "edit":
		return withID(RoleTemplateEdit)
	case "delete":
		return withID(RoleTemplateDelete)
	case "close":
		return Event{Role: RoleEditorClose}, nil
	case "save":
		f, err := fields(args)
		if err != nil {
			return Event{}, err
		}
		return Event{Role: RoleTemplateForm, Fields: f}, nil
	}
	return Event{}, fmt.Errorf("subcomando template desconocido %q", sub)
}

// fields parsea argumentos clave=valor. "var.x" se traduce a la clave de
// variable de plantilla.
func fields(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("argumento inválido %q: se espera clave=valor", a)
		}
		if name, isVar := strings.CutPrefix(k, "var."); isVar {
			k = VariableField(name)
		} else if alias, ok := fieldAlias[k]; ok {
			k = alias
		}
		out[k] = v
	}
	return out, nil
}

// listFields pasa las listas separadas por coma al formato de textarea
// (una dirección por línea).
func listFields(f map[string]string) map[string]string {
	for _, k := range []string{"recipients", "cc", "bcc"} {
		if v, ok := f[k]; ok {
			f[k] = strings.ReplaceAll(v, ",", "\n")
		}
	}
	return f
}

// splitArgs separa la línea con reglas de shell (comillas simples y dobles,
// \n y \t escapados). Los operadores ; & | < > fuera de comillas no se
// aceptan: cortarían la línea en silencio.
func splitArgs(line string) ([]string, error) {
	p := shellwords.NewParser()
	args, err := p.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("comillas sin cerrar")
	}
	if p.Position >= 0 {
		return nil, fmt.Errorf("; & | < > sólo se aceptan entre comillas")
	}
	return args, nil
}
