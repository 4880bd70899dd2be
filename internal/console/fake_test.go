package console

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/dropDatabas3/quicknotify/internal/api"
)

var errUnauthorized = &api.Error{Kind: api.KindUnauthorized, Status: http.StatusUnauthorized, Message: "no autenticado"}

func backendErr(msg string) error {
	return &api.Error{Kind: api.KindBackend, Status: http.StatusInternalServerError, Message: msg}
}

// fakeBackend cuenta llamadas y, como el cliente real, dispara el hook de
// 401 una vez por respuesta no autorizada.
type fakeBackend struct {
	calls    map[string]int
	order    []string
	errs     map[string]error
	onUnauth func()

	auth      api.AuthStatus
	stats     api.RecordStats
	smtp      api.SMTPConfig
	templates []api.Template
	records   []api.Record
	send      api.SendResult

	lastSearch   string
	lastPerPage  int
	lastStatus   string
	lastLogLevel string
	lastLogLines int
	lastDays     int

	sent        []api.Message
	sentTpl     []api.TemplateMessage
	savedSMTP   []api.SMTPConfig
	created     []api.TemplateInput
	updated     map[int64]api.TemplateInput
	deleted     []int64
	retried     []int64
	passwordOld string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		calls:   map[string]int{},
		errs:    map[string]error{},
		updated: map[int64]api.TemplateInput{},
		auth:    api.AuthStatus{Authenticated: true, Username: "admin"},
		stats: api.RecordStats{
			Today: api.Counts{Total: 3, Success: 2, Failed: 1},
			Total: api.Counts{Total: 10, Success: 8, Failed: 2},
		},
		send: api.SendResult{Success: true, Message: "correo enviado", RecordID: 1},
	}
}

func (f *fakeBackend) SetOnUnauthorized(fn func()) { f.onUnauth = fn }

func (f *fakeBackend) call(name string) error {
	f.calls[name]++
	f.order = append(f.order, name)
	err := f.errs[name]
	if err != nil && api.IsUnauthorized(err) && f.onUnauth != nil {
		f.onUnauth()
	}
	return err
}

func (f *fakeBackend) networkCalls() int {
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeBackend) template(id int64) *api.Template {
	for i := range f.templates {
		if f.templates[i].ID == id {
			t := f.templates[i]
			return &t
		}
	}
	return nil
}

func (f *fakeBackend) Login(_ context.Context, username, _ string) (*api.LoginResult, error) {
	if err := f.call("Login"); err != nil {
		return nil, err
	}
	return &api.LoginResult{Message: "ok", Username: username}, nil
}

func (f *fakeBackend) Logout(context.Context) error { return f.call("Logout") }

func (f *fakeBackend) CheckAuth(context.Context) (*api.AuthStatus, error) {
	if err := f.call("CheckAuth"); err != nil {
		return nil, err
	}
	st := f.auth
	return &st, nil
}

func (f *fakeBackend) ChangePassword(_ context.Context, oldPassword, _ string) (*api.MessageResult, error) {
	if err := f.call("ChangePassword"); err != nil {
		return nil, err
	}
	f.passwordOld = oldPassword
	return &api.MessageResult{Message: "ok"}, nil
}

func (f *fakeBackend) GetSMTPConfig(context.Context) (*api.SMTPConfig, error) {
	if err := f.call("GetSMTPConfig"); err != nil {
		return nil, err
	}
	cfg := f.smtp
	return &cfg, nil
}

func (f *fakeBackend) UpdateSMTPConfig(_ context.Context, cfg api.SMTPConfig) (*api.MessageResult, error) {
	if err := f.call("UpdateSMTPConfig"); err != nil {
		return nil, err
	}
	f.savedSMTP = append(f.savedSMTP, cfg)
	return &api.MessageResult{Message: "guardado"}, nil
}

func (f *fakeBackend) TestSMTP(context.Context) (*api.SMTPTestResult, error) {
	if err := f.call("TestSMTP"); err != nil {
		return nil, err
	}
	return &api.SMTPTestResult{Success: true, Message: "conexión ok"}, nil
}

func (f *fakeBackend) ListTemplates(_ context.Context, _, perPage int, search string) (*api.TemplateList, error) {
	if err := f.call("ListTemplates"); err != nil {
		return nil, err
	}
	f.lastPerPage, f.lastSearch = perPage, search
	list := append([]api.Template(nil), f.templates...)
	return &api.TemplateList{Templates: list, Total: len(list), Page: 1, PerPage: perPage}, nil
}

func (f *fakeBackend) GetTemplate(_ context.Context, id int64) (*api.Template, error) {
	if err := f.call("GetTemplate"); err != nil {
		return nil, err
	}
	if t := f.template(id); t != nil {
		return t, nil
	}
	return nil, &api.Error{Kind: api.KindBackend, Status: http.StatusNotFound, Message: "Template not found"}
}

func (f *fakeBackend) CreateTemplate(_ context.Context, in api.TemplateInput) (*api.TemplateCreated, error) {
	if err := f.call("CreateTemplate"); err != nil {
		return nil, err
	}
	f.created = append(f.created, in)
	return &api.TemplateCreated{Message: "creada", ID: int64(len(f.templates) + 1)}, nil
}

func (f *fakeBackend) UpdateTemplate(_ context.Context, id int64, in api.TemplateInput) (*api.MessageResult, error) {
	if err := f.call("UpdateTemplate"); err != nil {
		return nil, err
	}
	f.updated[id] = in
	return &api.MessageResult{Message: "actualizada"}, nil
}

func (f *fakeBackend) DeleteTemplate(_ context.Context, id int64) (*api.MessageResult, error) {
	if err := f.call("DeleteTemplate"); err != nil {
		return nil, err
	}
	f.deleted = append(f.deleted, id)
	return &api.MessageResult{Message: "eliminada"}, nil
}

func (f *fakeBackend) SendEmail(_ context.Context, msg api.Message) (*api.SendResult, error) {
	if err := f.call("SendEmail"); err != nil {
		return nil, err
	}
	f.sent = append(f.sent, msg)
	res := f.send
	return &res, nil
}

func (f *fakeBackend) SendFromTemplate(_ context.Context, msg api.TemplateMessage) (*api.SendResult, error) {
	if err := f.call("SendFromTemplate"); err != nil {
		return nil, err
	}
	f.sentTpl = append(f.sentTpl, msg)
	res := f.send
	return &res, nil
}

func (f *fakeBackend) ListRecords(_ context.Context, _, _ int, status string) (*api.RecordList, error) {
	if err := f.call("ListRecords"); err != nil {
		return nil, err
	}
	f.lastStatus = status
	return &api.RecordList{Records: f.records, Total: len(f.records)}, nil
}

func (f *fakeBackend) GetRecordStats(context.Context) (*api.RecordStats, error) {
	if err := f.call("GetRecordStats"); err != nil {
		return nil, err
	}
	st := f.stats
	return &st, nil
}

func (f *fakeBackend) RetryRecord(_ context.Context, id int64) (*api.SendResult, error) {
	if err := f.call("RetryRecord"); err != nil {
		return nil, err
	}
	f.retried = append(f.retried, id)
	res := f.send
	return &res, nil
}

func (f *fakeBackend) GetSystemStatus(context.Context) (*api.SystemStatus, error) {
	if err := f.call("GetSystemStatus"); err != nil {
		return nil, err
	}
	st := &api.SystemStatus{CPUPercent: 12.5}
	st.Memory.Percent = 40
	st.Process.MemoryMB = 30
	return st, nil
}

func (f *fakeBackend) GetSystemLogs(_ context.Context, level string, lines int) (*api.LogList, error) {
	if err := f.call("GetSystemLogs"); err != nil {
		return nil, err
	}
	f.lastLogLevel, f.lastLogLines = level, lines
	return &api.LogList{Logs: []string{"INFO arrancó"}}, nil
}

func (f *fakeBackend) GetDailyStats(_ context.Context, days int) (*api.DailyStats, error) {
	if err := f.call("GetDailyStats"); err != nil {
		return nil, err
	}
	f.lastDays = days
	return &api.DailyStats{Days: days, Stats: []api.DailyStat{{Date: "2024-01-01", Total: 1, Success: 1}}}, nil
}

// recorder guarda todo lo renderizado y notificado.
type recorder struct {
	views  []View
	toasts []Notification
}

func (r *recorder) Render(v View) { r.views = append(r.views, v) }

func (r *recorder) Notify(level Level, msg string) {
	r.toasts = append(r.toasts, Notification{Level: level, Message: msg})
}

func (r *recorder) lastToast() Notification {
	if len(r.toasts) == 0 {
		return Notification{}
	}
	return r.toasts[len(r.toasts)-1]
}

func (r *recorder) loginScreens() int {
	n := 0
	for _, v := range r.views {
		if l, ok := v.(LayoutView); ok && l.Screen == ScreenLogin {
			n++
		}
	}
	return n
}

func last[T View](r *recorder) (T, bool) {
	for i := len(r.views) - 1; i >= 0; i-- {
		if v, ok := r.views[i].(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func newTestController(b *fakeBackend) (*Controller, *recorder) {
	rec := &recorder{}
	c := New(b, Options{Renderer: rec, Notifier: rec, Logger: zap.NewNop()})
	return c, rec
}

// loggedIn deja el controlador autenticado y limpia contadores.
func loggedIn(b *fakeBackend) (*Controller, *recorder) {
	c, rec := newTestController(b)
	_ = c.Dispatch(context.Background(), Event{Role: RoleLoginForm, Fields: map[string]string{"username": "admin", "password": "123456"}})
	b.calls = map[string]int{}
	b.order = nil
	rec.views, rec.toasts = nil, nil
	return c, rec
}
