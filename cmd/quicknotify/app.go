package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/quicknotify/internal/api"
	"github.com/dropDatabas3/quicknotify/internal/config"
	"github.com/dropDatabas3/quicknotify/internal/console"
	"github.com/dropDatabas3/quicknotify/internal/observability/logger"
	"github.com/dropDatabas3/quicknotify/internal/session"
)

// app junta lo que comparten todos los subcomandos. Se arma en
// PersistentPreRunE, después de parsear los flags.
type app struct {
	flags struct {
		config, apiURL, out, logLevel string
		noColor                       bool
	}

	cfg      *config.Config
	sess     *session.Store
	client   *api.Client
	term     *console.Terminal
	registry *prometheus.Registry

	stdout, stderr io.Writer

	// interactive: el 401 lo maneja el Controller, no el hint de la CLI.
	interactive bool
	// loggingIn: un 401 es la respuesta a credenciales malas, no una sesión vencida.
	loggingIn bool
	expired   bool
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.config)
	if err != nil {
		return err
	}
	if a.flags.apiURL != "" {
		cfg.API.BaseURL = a.flags.apiURL
	}
	if a.flags.out != "" {
		cfg.UI.Out = strings.ToLower(a.flags.out)
	}
	if a.flags.logLevel != "" {
		cfg.Log.Level = a.flags.logLevel
	}
	if a.flags.noColor {
		cfg.UI.NoColor = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "quicknotify-cli"})
	log := logger.Named("cli")

	a.sess, err = session.Open(cfg.Session.File, cfg.API.BaseURL)
	if err != nil {
		// una sesión corrupta no debería impedir usar la CLI
		log.Warn("sesión ilegible, se descarta", logger.Err(err))
		a.sess, _ = session.Open("", cfg.API.BaseURL)
	}

	a.registry = prometheus.NewRegistry()
	metrics, err := api.NewMetrics(a.registry)
	if err != nil {
		return err
	}
	a.client, err = api.New(api.Options{
		BaseURL:        cfg.API.BaseURL,
		Timeout:        cfg.API.Timeout,
		UserAgent:      cfg.API.UserAgent,
		Jar:            a.sess,
		Metrics:        metrics,
		OnUnauthorized: a.onUnauthorized,
	})
	if err != nil {
		return err
	}
	a.term = console.NewTerminal(a.stdout, cfg.UI.Locale, cfg.UI.NoColor)
	log.Debug("cli lista", logger.String("command", cmd.CommandPath()), logger.String("api", cfg.API.BaseURL))
	return nil
}

// onUnauthorized es el "redirect al login" de los comandos sueltos: borra la
// sesión guardada y sugiere volver a entrar.
func (a *app) onUnauthorized() {
	if a.interactive {
		return
	}
	a.expired = true
	_ = a.sess.Clear()
	if a.loggingIn {
		return
	}
	fmt.Fprintln(a.stderr, "sesión no válida o vencida: ejecutá `quicknotify login <usuario> <contraseña>`")
}

// persist guarda la cookie vigente al terminar el comando.
func (a *app) persist() error {
	if a.sess == nil || a.expired {
		return nil
	}
	return a.sess.Save()
}

func (a *app) jsonOut() bool { return a.cfg.UI.Out == "json" }

// emit escribe v como JSON o, en modo texto, dibuja view con el Terminal.
func (a *app) emit(v any, view console.View) error {
	if a.jsonOut() {
		return a.printJSON(v)
	}
	a.term.Render(view)
	return nil
}

// emitMessage sirve para las respuestas {"message": ...}.
func (a *app) emitMessage(v any, level console.Level, msg string) error {
	if a.jsonOut() {
		return a.printJSON(v)
	}
	a.term.Toast(console.Notification{Level: level, Message: msg})
	return nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
