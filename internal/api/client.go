// Package api es el único gateway hacia el backend REST de QuickNotify.
//
// Request serializa el cuerpo, inyecta headers, decodifica la respuesta y
// normaliza cualquier falla a *Error. Un 401 dispara el hook OnUnauthorized
// (el "redirect al login") y después igual se devuelve el error.
// El cliente no ordena, deduplica ni reintenta llamadas: cada una es
// independiente y el llamador decide la secuencia.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/quicknotify/internal/observability/logger"
)

const maxBodyBytes = 4 << 20

// Options configura un Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string

	// Jar guarda la cookie de sesión. nil => sin cookies.
	Jar http.CookieJar

	// HTTPClient reemplaza al cliente construido con Timeout/Jar (tests).
	HTTPClient *http.Client

	// OnUnauthorized se llama una vez por cada respuesta 401.
	OnUnauthorized func()

	// Metrics es opcional.
	Metrics *Metrics
}

type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	metrics   *Metrics

	mu             sync.RWMutex
	onUnauthorized func()
}

// New construye un Client. BaseURL es obligatorio (ej. http://localhost:5000/api).
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("api: base url requerida")
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout, Jar: opts.Jar}
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "quicknotify-cli"
	}
	return &Client{
		baseURL:        base,
		userAgent:      ua,
		http:           hc,
		metrics:        opts.Metrics,
		onUnauthorized: opts.OnUnauthorized,
	}, nil
}

// BaseURL devuelve la URL base sin barra final.
func (c *Client) BaseURL() string { return c.baseURL }

// SetOnUnauthorized reemplaza el hook de 401. El controlador de la consola lo
// instala después de construirse, porque necesita al cliente para existir.
func (c *Client) SetOnUnauthorized(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

func (c *Client) unauthorized() {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Request ejecuta method sobre path (relativo a la base, con query incluida).
// body se serializa a JSON si no es nil; out recibe el payload decodificado
// si no es nil. Toda falla es un *Error.
func (c *Client) Request(ctx context.Context, method, path string, body, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	rid := uuid.NewString()
	log := logger.From(ctx).With(
		logger.Component("api"),
		logger.Method(method),
		logger.Path(path),
		logger.RequestID(rid),
	)

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindTransport, Message: msgUnknown, Err: fmt.Errorf("encode body: %w", err)}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Kind: KindTransport, Message: msgUnknown, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", rid)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.observe(method, path, 0, time.Since(start))
		log.Warn("request failed", logger.Err(err))
		return &Error{Kind: KindTransport, Message: msgTransport, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	elapsed := time.Since(start)
	c.metrics.observe(method, path, resp.StatusCode, elapsed)
	if err != nil {
		log.Warn("read body failed", logger.Status(resp.StatusCode), logger.Err(err))
		return &Error{Kind: KindTransport, Status: resp.StatusCode, Message: msgTransport, Err: err}
	}

	if resp.StatusCode >= 400 {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		apiErr := backendError(resp.StatusCode, eb)
		if apiErr.Kind == KindUnauthorized {
			c.metrics.unauthorizedInc()
			log.Info("unauthorized, redirecting to login", logger.Status(resp.StatusCode))
			c.unauthorized()
		} else {
			log.Warn("backend error",
				logger.Status(resp.StatusCode),
				logger.Duration(elapsed),
				logger.String("message", apiErr.Message),
			)
		}
		return apiErr
	}

	log.Debug("request ok", logger.Status(resp.StatusCode), logger.Duration(elapsed))

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Warn("decode failed", logger.Status(resp.StatusCode), logger.Err(err))
		return &Error{Kind: KindDecode, Status: resp.StatusCode, Message: msgDecode, Err: err}
	}
	return nil
}
