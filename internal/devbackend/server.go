// Package devbackend implementa en memoria la superficie REST que consume la
// consola de QuickNotify (/api/auth, /config, /template, /sender, /records,
// /monitor), con las mismas formas de JSON y códigos de estado. Sirve para
// desarrollo local y para los tests end-to-end del cliente.
package devbackend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dropDatabas3/quicknotify/internal/cache"
	"github.com/dropDatabas3/quicknotify/internal/observability/logger"
	"github.com/dropDatabas3/quicknotify/internal/rate"
)

type Options struct {
	InitUser     string
	InitPassword string

	// SecretKey firma las cookies de sesión y cifra la contraseña SMTP.
	SecretKey  string
	CookieName string
	SessionTTL time.Duration

	// Intentos de login por usuario+IP dentro de LoginWindow.
	LoginAttempts int
	LoginWindow   time.Duration

	// Sessions guarda las sesiones vivas. nil => memoria.
	Sessions cache.Client

	// Mailer entrega los correos. nil => SMTPMailer.
	Mailer Mailer

	Logger    *zap.Logger
	LogBuffer int

	// Registry habilita /metrics y las métricas HTTP. nil => sin métricas.
	Registry *prometheus.Registry

	Now func() time.Time
}

type Server struct {
	store    *store
	sessions *sessions
	limiter  rate.Limiter
	box      *secretBox
	mailer   Mailer
	log      *zap.Logger
	logs     *logRing
	metrics  *httpMetrics
	registry *prometheus.Registry
	now      func() time.Time
	started  time.Time

	handler http.Handler
}

// New arma el servidor y crea el usuario inicial.
func New(opts Options) (*Server, error) {
	if opts.InitUser == "" {
		opts.InitUser = "admin"
	}
	if opts.InitPassword == "" {
		opts.InitPassword = "123456"
	}
	if opts.SecretKey == "" {
		opts.SecretKey = "quicknotify-default-key"
	}
	if opts.CookieName == "" {
		opts.CookieName = "session"
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * time.Minute
	}
	if opts.Sessions == nil {
		opts.Sessions = cache.NewMemory("session", opts.SessionTTL)
	}
	if opts.LoginAttempts <= 0 {
		opts.LoginAttempts = 10
	}
	if opts.LoginWindow <= 0 {
		opts.LoginWindow = time.Minute
	}
	if opts.Mailer == nil {
		opts.Mailer = SMTPMailer{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Named("devbackend")
	}
	if opts.LogBuffer <= 0 {
		opts.LogBuffer = 1000
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	// Todo lo que loguea el backend queda además en el ring de /monitor/logs.
	ring := newLogRing(opts.LogBuffer)
	log := opts.Logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, ring.core())
	}))

	s := &Server{
		store:    newStore(),
		sessions: newSessions(opts.Sessions, opts.SecretKey, opts.CookieName, opts.SessionTTL, opts.Now),
		limiter:  rate.NewWindowLimiter(opts.Sessions, "login:", opts.LoginAttempts, opts.LoginWindow),
		box:      newSecretBox(opts.SecretKey),
		mailer:   opts.Mailer,
		log:      log,
		logs:     ring,
		registry: opts.Registry,
		now:      opts.Now,
		started:  opts.Now(),
	}
	if opts.Registry != nil {
		m, err := newHTTPMetrics(opts.Registry)
		if err != nil {
			return nil, err
		}
		s.metrics = m
		if err := registerCollector(opts.Registry, newStoreCollector(s.store)); err != nil {
			return nil, err
		}
	}
	if err := s.store.createUser(opts.InitUser, opts.InitPassword); err != nil {
		return nil, fmt.Errorf("devbackend: usuario inicial: %w", err)
	}
	log.Info("usuario inicial creado", logger.Username(opts.InitUser))

	s.handler = s.routes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.handler.ServeHTTP(w, r) }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(withRequestID)
	r.Use(s.withLogging)
	if s.metrics != nil {
		r.Use(s.metrics.middleware)
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.login)
			r.Post("/logout", s.logout)
			r.Get("/check", s.check)
			r.With(s.requireAuth).Post("/change-password", s.changePassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/config/smtp", s.getSMTP)
			r.Post("/config/smtp", s.saveSMTP)
			r.Post("/config/smtp/test", s.testSMTP)

			r.Get("/template/", s.listTemplates)
			r.Post("/template/", s.createTemplate)
			r.Get("/template/{id}", s.getTemplate)
			r.Put("/template/{id}", s.updateTemplate)
			r.Delete("/template/{id}", s.deleteTemplate)

			r.Post("/sender/send", s.send)
			r.Post("/sender/send-from-template", s.sendFromTemplate)

			r.Get("/records/", s.listRecords)
			r.Get("/records/stats", s.recordStats)
			r.Post("/records/{id}/retry", s.retryRecord)

			r.Get("/monitor/status", s.systemStatus)
			r.Get("/monitor/logs", s.systemLogs)
			r.Get("/monitor/stats/daily", s.dailyStats)
		})
	})
	return r
}

// ListenAndServe sirve en addr hasta que ctx se cancele y después cierra
// con un timeout de 5s.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("dev backend escuchando", logger.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("apagando dev backend")
		return srv.Shutdown(shCtx)
	}
}
