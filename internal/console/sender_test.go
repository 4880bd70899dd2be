package console

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/quicknotify/internal/api"
)

func withTemplates(b *fakeBackend) {
	b.templates = []api.Template{
		{ID: 1, Name: "welcome", Subject: "Hola {{name}}", Content: "Tu código es {{code}}", Variables: []string{"name", "code"}},
		{ID: 2, Name: "plain", Subject: "Aviso", Content: "Sin variables", Variables: []string{}},
	}
}

func send(c *Controller, role Role, fields map[string]string) {
	_ = c.Dispatch(ctx, Event{Role: role, Fields: fields})
}

func TestSendDirect_ZeroRecipientsNeverCallsBackend(t *testing.T) {
	for _, recipients := range []string{"", "   \n\n", "bad\nalso-bad"} {
		b := newFakeBackend()
		c, rec := loggedIn(b)

		send(c, RoleSendForm, map[string]string{"recipients": recipients, "subject": "s", "content": "c"})

		require.Zero(t, b.networkCalls(), "recipients=%q", recipients)
		require.Equal(t, LevelError, rec.lastToast().Level)
		require.Equal(t, "ingresá al menos un destinatario válido", rec.lastToast().Message)
	}
}

func TestSendDirect_MissingSubjectOrContent(t *testing.T) {
	b := newFakeBackend()
	c, rec := loggedIn(b)

	send(c, RoleSendForm, map[string]string{"recipients": "a@b.com", "subject": " ", "content": "c"})
	send(c, RoleSendForm, map[string]string{"recipients": "a@b.com", "subject": "s"})

	require.Zero(t, b.networkCalls())
	require.Len(t, rec.toasts, 2)
}

func TestSendDirect_ParsesRecipients(t *testing.T) {
	b := newFakeBackend()
	c, rec := loggedIn(b)

	send(c, RoleSendForm, map[string]string{
		"recipients": " a@b.com \n\nbad\nc@d.com",
		"cc":         "x@y.com",
		"subject":    "Hola",
		"content":    "Cuerpo",
	})

	require.Len(t, b.sent, 1)
	require.Equal(t, []string{"a@b.com", "c@d.com"}, b.sent[0].Recipients)
	require.Equal(t, []string{"x@y.com"}, b.sent[0].CC)
	require.Empty(t, b.sent[0].BCC)
	require.Equal(t, LevelSuccess, rec.lastToast().Level)
}

func TestSendDirect_BackendReportsFailure(t *testing.T) {
	b := newFakeBackend()
	b.send = api.SendResult{Success: false, Message: "SMTP no configurado"}
	c, rec := loggedIn(b)

	send(c, RoleSendForm, map[string]string{"recipients": "a@b.com", "subject": "s", "content": "c"})

	require.Equal(t, 1, b.calls["SendEmail"])
	require.Equal(t, Notification{Level: LevelError, Message: "SMTP no configurado"}, rec.lastToast())
}

func TestSwitchToTemplateMode_AlwaysRefetchesAndReplaces(t *testing.T) {
	b := newFakeBackend()
	withTemplates(b)
	c, rec := loggedIn(b)
	c.Navigate(ctx, PageSender)
	require.Equal(t, 1, b.calls["ListTemplates"])

	require.NoError(t, c.Dispatch(ctx, Event{Role: RoleSendMode, Value: "template"}))
	require.Equal(t, 2, b.calls["ListTemplates"])
	v, _ := last[SenderView](rec)
	require.Len(t, v.Options, 3)

	// la lista cambia en el backend: las opciones se reemplazan, no se suman
	b.templates = b.templates[:1]
	require.NoError(t, c.Dispatch(ctx, Event{Role: RoleSendMode, Value: "direct"}))
	require.Equal(t, 2, b.calls["ListTemplates"])
	require.NoError(t, c.Dispatch(ctx, Event{Role: RoleSendMode, Value: "template"}))
	require.Equal(t, 3, b.calls["ListTemplates"])

	v, _ = last[SenderView](rec)
	require.Equal(t, ModeTemplate, v.Mode)
	require.Equal(t, []Option{{Value: "", Label: placeholderLabel}, {Value: "1", Label: "welcome"}}, v.Options)

	// template → template también vuelve a pedir
	require.NoError(t, c.Dispatch(ctx, Event{Role: RoleSendMode, Value: "template"}))
	require.Equal(t, 4, b.calls["ListTemplates"])
	v, _ = last[SenderView](rec)
	require.Len(t, v.Options, 2)
}

func TestSwitchToTemplateMode_FetchFailure(t *testing.T) {
	b := newFakeBackend()
	b.errs["ListTemplates"] = backendErr("boom")
	c, rec := loggedIn(b)

	require.NoError(t, c.Dispatch(ctx, Event{Role: RoleSendMode, Value: "template"}))

	v, _ := last[SenderView](rec)
	require.Equal(t, SelectorFailed(), v.Options)
	require.Equal(t, LevelError, rec.lastToast().Level)
}

func TestSelectTemplate_OneRequiredInputPerVariable(t *testing.T) {
	b := newFakeBackend()
	withTemplates(b)
	c, rec := loggedIn(b)
	require.NoError(t, c.Dispatch(ctx, Event{Role: RoleSendMode, Value: "template"}))

	require.NoError(t, c.Dispatch(ctx, Event{Role: RoleTemplateSelect, Value: "1"}))
	v, _ := last[SenderView](rec)
	require.NotNil(t, v.Preview)
	require.Equal(t, "Hola {{name}}", v.Preview.Subject)
	require.Len(t, v.Variables, 2)
	for _, in := range v.Variables {
		require.True(t, in.Required)
	}
	require.Equal(t, "var:name", v.Variables[0].Field)
	require.Empty(t, v.Hint)
	require.Equal(t, []string{"name", "code"}, c.State().TemplateVariables)

	// cambiar a una plantilla sin variables no deja inputs viejos
	require.NoError(t, c.Dispatch(ctx, Event{Role: RoleTemplateSelect, Value: "2"}))
	v, _ = last[SenderView](rec)
	require.Empty(t, v.Variables)
	require.Equal(t, noVariablesHint, v.Hint)

	require.NoError(t, c.Dispatch(ctx, Event{Role: RoleTemplateSelect, Value: ""}))
	v, _ = last[SenderView](rec)
	require.Nil(t, v.Preview)
	require.Zero(t, c.State().SelectedTemplate)
}

func TestSendTemplate_ZeroVariablesAllowed(t *testing.T) {
	b := newFakeBackend()
	withTemplates(b)
	c, rec := loggedIn(b)
	require.NoError(t, c.Dispatch(ctx, Event{Role: RoleSendMode, Value: "template"}))
	require.NoError(t, c.Dispatch(ctx, Event{Role: RoleTemplateSelect, Value: "2"}))

	send(c, RoleSendTemplateForm, map[string]string{"recipients": "a@b.com"})

	require.Len(t, b.sentTpl, 1)
	require.Equal(t, int64(2), b.sentTpl[0].TemplateID)
	require.NotNil(t, b.sentTpl[0].Variables)
	require.Empty(t, b.sentTpl[0].Variables)
	require.Equal(t, LevelSuccess, rec.lastToast().Level)
	require.Zero(t, c.State().SelectedTemplate)
}

func TestSendTemplate_Validation(t *testing.T) {
	b := newFakeBackend()
	withTemplates(b)
	c, rec := loggedIn(b)
	require.NoError(t, c.Dispatch(ctx, Event{Role: RoleSendMode, Value: "template"}))

	// sin plantilla elegida
	send(c, RoleSendTemplateForm, map[string]string{"recipients": "a@b.com"})
	require.Equal(t, "elegí una plantilla", rec.lastToast().Message)

	require.NoError(t, c.Dispatch(ctx, Event{Role: RoleTemplateSelect, Value: "1"}))
	calls := b.networkCalls()

	send(c, RoleSendTemplateForm, map[string]string{"recipients": "nadie"})
	require.Equal(t, "ingresá al menos un destinatario válido", rec.lastToast().Message)

	send(c, RoleSendTemplateForm, map[string]string{"recipients": "a@b.com", "var:name": "Ana", "var:code": "  "})
	require.Equal(t, "completá la variable code", rec.lastToast().Message)

	require.Equal(t, calls, b.networkCalls())
	require.Empty(t, b.sentTpl)

	send(c, RoleSendTemplateForm, map[string]string{"recipients": "a@b.com\nc@d.com", "var:name": "Ana", "var:code": "42"})
	require.Len(t, b.sentTpl, 1)
	require.Equal(t, map[string]string{"name": "Ana", "code": "42"}, b.sentTpl[0].Variables)
	require.Equal(t, []string{"a@b.com", "c@d.com"}, b.sentTpl[0].Recipients)
}

func TestSelectTemplate_InvalidID(t *testing.T) {
	b := newFakeBackend()
	c, rec := loggedIn(b)
	require.NoError(t, c.Dispatch(ctx, Event{Role: RoleTemplateSelect, Value: "abc"}))
	require.Zero(t, b.networkCalls())
	require.Equal(t, LevelError, rec.lastToast().Level)
}
