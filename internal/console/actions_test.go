package console

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/quicknotify/internal/api"
)

func TestSaveSMTP(t *testing.T) {
	b := newFakeBackend()
	c, rec := loggedIn(b)

	send(c, RoleSMTPForm, map[string]string{"smtp_server": "smtp.example.com", "smtp_port": "abc", "sender_email": "a@b.com", "sender_password": "x"})
	require.Zero(t, b.networkCalls())
	require.Contains(t, rec.lastToast().Message, "smtp_port")

	send(c, RoleSMTPForm, map[string]string{
		"smtp_server":     "smtp.example.com",
		"smtp_port":       "465",
		"sender_email":    "a@b.com",
		"sender_password": "secret",
		"use_tls":         "false",
		"timeout":         "20",
	})
	require.Len(t, b.savedSMTP, 1)
	got := b.savedSMTP[0]
	require.Equal(t, 465, got.Port)
	require.False(t, got.UseTLS)
	require.Equal(t, 20, got.Timeout)
	require.Equal(t, LevelSuccess, rec.lastToast().Level)
}

func TestSaveSMTP_RejectsNonNumericFields(t *testing.T) {
	base := map[string]string{"smtp_server": "smtp.example.com", "smtp_port": "587", "sender_email": "a@b.com", "sender_password": "x"}
	for field, bad := range map[string]string{"smtp_port": "abc", "timeout": "abc", "retry_times": "tres"} {
		t.Run(field, func(t *testing.T) {
			b := newFakeBackend()
			c, rec := loggedIn(b)
			fields := map[string]string{field: bad}
			for k, v := range base {
				if k != field {
					fields[k] = v
				}
			}

			send(c, RoleSMTPForm, fields)
			require.Zero(t, b.networkCalls())
			require.Empty(t, b.savedSMTP)
			require.Equal(t, Notification{Level: LevelError, Message: field + ` inválido: "` + bad + `"`}, rec.lastToast())
		})
	}
}

func TestTestSMTP_ShowsTestingFirst(t *testing.T) {
	b := newFakeBackend()
	c, rec := loggedIn(b)

	require.NoError(t, c.Dispatch(ctx, Event{Role: RoleSMTPTest}))

	require.Len(t, rec.toasts, 2)
	require.Equal(t, LevelInfo, rec.toasts[0].Level)
	require.Equal(t, Notification{Level: LevelSuccess, Message: "conexión ok"}, rec.toasts[1])
}

func TestTestSMTP_Failure(t *testing.T) {
	b := newFakeBackend()
	b.errs["TestSMTP"] = &api.Error{Kind: api.KindBackend, Status: 400, Message: "auth failed"}
	c, rec := loggedIn(b)

	require.NoError(t, c.Dispatch(ctx, Event{Role: RoleSMTPTest}))
	require.Equal(t, "prueba SMTP fallida: auth failed", rec.lastToast().Message)
}

func TestTemplateEditor_Create(t *testing.T) {
	b := newFakeBackend()
	c, rec := loggedIn(b)

	require.NoError(t, c.Dispatch(ctx, Event{Role: RoleTemplateNew}))
	require.Equal(t, EditorState{Open: true}, c.State().Editor)
	ed, _ := last[EditorView](rec)
	require.Equal(t, "Nueva plantilla", ed.Title())

	send(c, RoleTemplateForm, map[string]string{"name": "welcome", "subject": ""})
	require.Zero(t, b.networkCalls())
	require.True(t, c.State().Editor.Open)

	send(c, RoleTemplateForm, map[string]string{"name": "welcome", "subject": "Hola {{name}}", "content": "..."})
	require.Equal(t, []api.TemplateInput{{Name: "welcome", Subject: "Hola {{name}}", Content: "..."}}, b.created)
	require.False(t, c.State().Editor.Open)
	require.Equal(t, 1, b.calls["ListTemplates"])
}

func TestTemplateEditor_EditKeepsBlankFields(t *testing.T) {
	b := newFakeBackend()
	withTemplates(b)
	c, rec := loggedIn(b)

	require.NoError(t, c.Dispatch(ctx, Event{Role: RoleTemplateEdit, Value: "1"}))
	ed, _ := last[EditorView](rec)
	require.Equal(t, int64(1), ed.EditingID)
	require.Equal(t, "welcome", ed.Name)
	require.Equal(t, "Editar plantilla", ed.Title())

	send(c, RoleTemplateForm, map[string]string{"subject": "Nuevo asunto"})
	require.Equal(t, api.TemplateInput{Name: "welcome", Subject: "Nuevo asunto", Content: "Tu código es {{code}}"}, b.updated[1])
	require.False(t, c.State().Editor.Open)
}

func TestTemplateEditor_CloseAndSaveWithoutEditor(t *testing.T) {
	b := newFakeBackend()
	c, rec := loggedIn(b)

	require.NoError(t, c.Dispatch(ctx, Event{Role: RoleTemplateNew}))
	require.NoError(t, c.Dispatch(ctx, Event{Role: RoleEditorClose}))
	require.False(t, c.State().Editor.Open)

	send(c, RoleTemplateForm, map[string]string{"name": "a", "subject": "b", "content": "c"})
	require.Zero(t, b.networkCalls())
	require.Equal(t, LevelError, rec.lastToast().Level)
}

func TestDeleteTemplate(t *testing.T) {
	b := newFakeBackend()
	c, _ := loggedIn(b)

	require.NoError(t, c.Dispatch(ctx, Event{Role: RoleTemplateDelete, Value: "7"}))
	require.Equal(t, []int64{7}, b.deleted)
	require.Equal(t, []string{"DeleteTemplate", "ListTemplates"}, b.order)
}

func TestTemplateSearch(t *testing.T) {
	b := newFakeBackend()
	c, _ := loggedIn(b)
	require.NoError(t, c.Dispatch(ctx, Event{Role: RoleTemplateSearch, Value: " bien "}))
	require.Equal(t, "bien", b.lastSearch)
	require.Equal(t, "bien", c.State().TemplateSearch)
}

func TestRecordsFilterAndRetry(t *testing.T) {
	b := newFakeBackend()
	b.records = []api.Record{{ID: 9, Recipients: []string{"a@b.com"}, Subject: "s", Status: "failed"}}
	c, rec := loggedIn(b)
	c.Navigate(ctx, PageRecords)

	require.NoError(t, c.Dispatch(ctx, Event{Role: RoleRecordsFilter, Value: "failed"}))
	require.Equal(t, "failed", b.lastStatus)
	v, _ := last[RecordsView](rec)
	require.Equal(t, "failed", v.Filter)
	require.True(t, v.Rows[0].Retryable)

	require.NoError(t, c.Dispatch(ctx, Event{Role: RoleRecordsFilter, Value: "bogus"}))
	require.Equal(t, "failed", c.State().RecordsFilter)

	b.order = nil
	require.NoError(t, c.Dispatch(ctx, Event{Role: RoleRecordRetry, Value: "9"}))
	require.Equal(t, []int64{9}, b.retried)
	require.Equal(t, []string{"RetryRecord", "ListRecords"}, b.order)
	require.Equal(t, LevelSuccess, rec.lastToast().Level)
}

func TestChangePassword(t *testing.T) {
	b := newFakeBackend()
	c, rec := loggedIn(b)

	send(c, RolePasswordForm, map[string]string{"old_password": "a", "new_password": "b", "confirm_password": "c"})
	require.Zero(t, b.networkCalls())
	require.Equal(t, "las contraseñas no coinciden", rec.lastToast().Message)

	send(c, RolePasswordForm, map[string]string{"old_password": "a", "new_password": "b"})
	require.Equal(t, "a", b.passwordOld)
	require.Equal(t, LevelSuccess, rec.lastToast().Level)
}
