package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type captured struct {
	method string
	path   string
	query  string
	header http.Header
	body   map[string]any
}

func newTestServer(t *testing.T, status int, resp string, got *captured) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got != nil {
			got.method = r.Method
			got.path = r.URL.Path
			got.query = r.URL.RawQuery
			got.header = r.Header.Clone()
			b, _ := io.ReadAll(r.Body)
			if len(b) > 0 {
				_ = json.Unmarshal(b, &got.body)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server, onUnauthorized func()) *Client {
	t.Helper()
	c, err := New(Options{BaseURL: srv.URL + "/api/", Timeout: 2 * time.Second, OnUnauthorized: onUnauthorized})
	require.NoError(t, err)
	return c
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
}

func TestRequest_DecodesAndSetsHeaders(t *testing.T) {
	var got captured
	srv := newTestServer(t, http.StatusOK, `{"authenticated":true,"username":"admin"}`, &got)
	c := newTestClient(t, srv, nil)

	st, err := c.CheckAuth(context.Background())
	require.NoError(t, err)
	require.True(t, st.Authenticated)
	require.Equal(t, "admin", st.Username)

	require.Equal(t, http.MethodGet, got.method)
	require.Equal(t, "/api/auth/check", got.path)
	require.Equal(t, "application/json", got.header.Get("Content-Type"))
	require.Equal(t, "quicknotify-cli", got.header.Get("User-Agent"))
	require.NotEmpty(t, got.header.Get("X-Request-ID"))
}

func TestRequest_UnauthorizedFiresHookOncePerResponse(t *testing.T) {
	srv := newTestServer(t, http.StatusUnauthorized, `{"error":"Not authenticated"}`, nil)
	calls := 0
	c := newTestClient(t, srv, func() { calls++ })

	_, err := c.GetRecordStats(context.Background())
	require.Error(t, err)
	require.True(t, IsUnauthorized(err))
	require.Equal(t, "Not authenticated", err.Error())
	require.Equal(t, 1, calls)

	_, err = c.ListTemplates(context.Background(), 1, 10, "")
	require.True(t, IsUnauthorized(err))
	require.Equal(t, 2, calls)
}

func TestRequest_UnauthorizedWithoutBody(t *testing.T) {
	srv := newTestServer(t, http.StatusUnauthorized, ``, nil)
	c := newTestClient(t, srv, nil)
	err := c.Logout(context.Background())
	require.True(t, IsUnauthorized(err))
	require.Equal(t, msgUnauthorized, MessageOf(err))
}

func TestRequest_BackendMessageFallbacks(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"error key", http.StatusBadRequest, `{"error":"Template name already exists"}`, "Template name already exists"},
		{"message key", http.StatusBadRequest, `{"success":false,"message":"SMTP configuration not configured yet"}`, "SMTP configuration not configured yet"},
		{"no body", http.StatusInternalServerError, ``, "Internal Server Error"},
		{"html body", http.StatusBadGateway, `<html>bad gateway</html>`, "Bad Gateway"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, tc.status, tc.body, nil)
			c := newTestClient(t, srv, func() { t.Fatal("hook must not fire") })
			_, err := c.TestSMTP(context.Background())
			require.Error(t, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, KindBackend, apiErr.Kind)
			require.Equal(t, tc.status, apiErr.Status)
			require.Equal(t, tc.want, apiErr.Message)
		})
	}
}

func TestRequest_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(Options{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)
	_, err = c.GetSystemStatus(context.Background())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, KindTransport, apiErr.Kind)
	require.Equal(t, msgTransport, apiErr.Message)
	require.NotNil(t, apiErr.Unwrap())
}

func TestRequest_DecodeError(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"templates": "nope"}`, nil)
	c := newTestClient(t, srv, nil)
	_, err := c.ListTemplates(context.Background(), 1, 10, "")

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, KindDecode, apiErr.Kind)
}

func TestError_JSONShape(t *testing.T) {
	b, err := json.Marshal(&Error{Kind: KindBackend, Status: 400, Message: "boom"})
	require.NoError(t, err)
	require.JSONEq(t, `{"error":"boom"}`, string(b))
}

func TestMessageOf(t *testing.T) {
	require.Equal(t, "", MessageOf(nil))
	require.Equal(t, "x", MessageOf(&Error{Message: "x"}))
	require.Equal(t, msgUnknown, MessageOf(io.EOF))
}

func TestEndpoints_ShapeRequests(t *testing.T) {
	t.Run("list templates", func(t *testing.T) {
		var got captured
		srv := newTestServer(t, http.StatusOK, `{"templates":[{"id":3,"name":"welcome","subject":"Hi","variables":["name"],"created_at":"2025-03-01T10:20:30.123456"}],"total":1,"page":1,"per_page":100}`, &got)
		c := newTestClient(t, srv, nil)
		out, err := c.ListTemplates(context.Background(), 1, SelectorTemplatesPerPage, "we lc&me")
		require.NoError(t, err)
		require.Len(t, out.Templates, 1)
		require.Equal(t, []string{"name"}, out.Templates[0].Variables)
		require.Equal(t, 2025, out.Templates[0].CreatedAt.Year())
		require.Equal(t, "/api/template/", got.path)
		require.Equal(t, "page=1&per_page=100&search=we+lc%26me", got.query)
	})

	t.Run("retry record", func(t *testing.T) {
		var got captured
		srv := newTestServer(t, http.StatusOK, `{"message":"ok","success":true,"record_id":9}`, &got)
		c := newTestClient(t, srv, nil)
		out, err := c.RetryRecord(context.Background(), 7)
		require.NoError(t, err)
		require.Equal(t, int64(9), out.RecordID)
		require.Equal(t, http.MethodPost, got.method)
		require.Equal(t, "/api/records/7/retry", got.path)
	})

	t.Run("send email never sends null lists", func(t *testing.T) {
		var got captured
		srv := newTestServer(t, http.StatusOK, `{"message":"sent","success":true,"record_id":1,"duration":120}`, &got)
		c := newTestClient(t, srv, nil)
		_, err := c.SendEmail(context.Background(), Message{Recipients: []string{"a@b.com"}, Subject: "s", Content: "c"})
		require.NoError(t, err)
		require.Equal(t, []any{"a@b.com"}, got.body["recipients"])
		require.Equal(t, []any{}, got.body["cc"])
		require.Equal(t, []any{}, got.body["bcc"])
	})

	t.Run("send from template", func(t *testing.T) {
		var got captured
		srv := newTestServer(t, http.StatusOK, `{"message":"sent","success":true}`, &got)
		c := newTestClient(t, srv, nil)
		_, err := c.SendFromTemplate(context.Background(), TemplateMessage{TemplateID: 4, Recipients: []string{"a@b.com"}})
		require.NoError(t, err)
		require.Equal(t, "/api/sender/send-from-template", got.path)
		require.Equal(t, float64(4), got.body["template_id"])
		require.Equal(t, map[string]any{}, got.body["variables"])
	})

	t.Run("records default filter", func(t *testing.T) {
		var got captured
		srv := newTestServer(t, http.StatusOK, `{"records":[],"total":0}`, &got)
		c := newTestClient(t, srv, nil)
		_, err := c.ListRecords(context.Background(), 0, 0, "")
		require.NoError(t, err)
		require.Equal(t, "page=1&per_page=20&status=all", got.query)
	})

	t.Run("logs with lines", func(t *testing.T) {
		var got captured
		srv := newTestServer(t, http.StatusOK, `{"logs":["a","b"]}`, &got)
		c := newTestClient(t, srv, nil)
		out, err := c.GetSystemLogs(context.Background(), "error", 50)
		require.NoError(t, err)
		require.Equal(t, []string{"a", "b"}, out.Logs)
		require.Equal(t, "level=ERROR&lines=50", got.query)
	})

	t.Run("smtp config absent", func(t *testing.T) {
		srv := newTestServer(t, http.StatusOK, `{"message":"No configuration found"}`, nil)
		c := newTestClient(t, srv, nil)
		cfg, err := c.GetSMTPConfig(context.Background())
		require.NoError(t, err)
		require.False(t, cfg.Configured())
	})

	t.Run("update template omits empty fields", func(t *testing.T) {
		var got captured
		srv := newTestServer(t, http.StatusOK, `{"message":"Template updated"}`, &got)
		c := newTestClient(t, srv, nil)
		_, err := c.UpdateTemplate(context.Background(), 5, TemplateInput{Subject: "new"})
		require.NoError(t, err)
		require.Equal(t, http.MethodPut, got.method)
		require.Equal(t, "/api/template/5", got.path)
		require.Equal(t, map[string]any{"subject": "new"}, got.body)
	})
}

func TestMetrics_ObserveAndNormalize(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	again, err := NewMetrics(reg)
	require.NoError(t, err)
	require.NotNil(t, again)

	srv := newTestServer(t, http.StatusUnauthorized, `{"error":"Not authenticated"}`, nil)
	c, err := New(Options{BaseURL: srv.URL, Metrics: m})
	require.NoError(t, err)
	_, _ = c.RetryRecord(context.Background(), 42)

	require.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("POST", "/records/:id/retry", "401")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.unauthorized))

	require.Equal(t, "/template/:id", normalizePath("/template/12"))
	require.Equal(t, "/template/", normalizePath("/template/?page=1"))
}
