package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/quicknotify/internal/console"
	"github.com/dropDatabas3/quicknotify/internal/observability/logger"
)

func newConsoleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Consola interactiva (dashboard, config, plantillas, envíos, registros, monitor)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runConsole(cmd.Context())
		},
	}
}

func (a *app) runConsole(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log := logger.Named("console")
	a.interactive = true

	notes := console.NewNotifications(a.cfg.UI.NotifyTTL, a.term.Toast)
	ctrl := console.New(a.client, console.Options{
		Renderer: a.term,
		Notifier: notes,
		Logger:   log,
		LogLevel: a.cfg.UI.LogLevel,
		LogLines: a.cfg.UI.LogLines,
		OnAuthChange: func(authenticated bool, user string) {
			if !authenticated {
				_ = a.sess.Clear()
				return
			}
			a.sess.SetUsername(user)
			if err := a.sess.Save(); err != nil {
				log.Warn("no se pudo guardar la sesión", logger.Err(err))
			}
		},
	})

	g, gctx := errgroup.WithContext(ctx)
	if addr := a.cfg.Metrics.Addr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			log.Info("métricas escuchando", logger.String("addr", addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shCtx)
		})
	}

	ctrl.Bootstrap(ctx)

	// La REPL bloquea en stdin: no se espera si llega una señal.
	replDone := make(chan error, 1)
	go func() {
		replDone <- console.NewREPL(ctrl, os.Stdin, a.stdout).Run(ctx)
	}()

	var err error
	select {
	case err = <-replDone:
	case <-gctx.Done():
	}
	cancel()
	if werr := g.Wait(); err == nil {
		err = werr
	}
	return err
}
