// Command quicknotify-devbackend levanta en memoria el backend REST que
// consume la CLI, para desarrollo local.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dropDatabas3/quicknotify/internal/cache"
	"github.com/dropDatabas3/quicknotify/internal/config"
	"github.com/dropDatabas3/quicknotify/internal/devbackend"
	"github.com/dropDatabas3/quicknotify/internal/observability/logger"
)

func main() {
	var (
		flagConfig   = flag.String("config", "quicknotify.yaml", "Archivo YAML de configuración")
		flagEnvFile  = flag.String("env-file", ".env", "Archivo .env opcional")
		flagAddr     = flag.String("addr", "", "Dirección de escucha (pisa dev_backend.addr)")
		flagInsecure = flag.Bool("smtp-insecure", false, "No verifica el certificado TLS del servidor SMTP")
	)
	flag.Parse()

	if err := godotenv.Load(*flagEnvFile); err == nil {
		log.Printf("env: cargado %s", *flagEnvFile)
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *flagAddr != "" {
		cfg.DevBackend.Addr = *flagAddr
	}

	logger.Init(logger.Config{Env: cfg.App.Env, Level: "info", ServiceName: "quicknotify-devbackend"})
	defer func() { _ = logger.Sync() }()
	lg := logger.Named("devbackend")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessCfg := cfg.DevBackend.Sessions
	sessions, err := cache.New(ctx, cache.Config{
		Driver:     sessCfg.Driver,
		Addr:       sessCfg.RedisAddr,
		Password:   sessCfg.RedisPassword,
		DB:         sessCfg.RedisDB,
		Prefix:     "quicknotify:session",
		DefaultTTL: cfg.DevBackend.SessionTTL,
	})
	if err != nil {
		lg.Fatal("sessions", logger.Err(err))
	}
	defer sessions.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv, err := devbackend.New(devbackend.Options{
		InitUser:      cfg.DevBackend.InitUser,
		InitPassword:  cfg.DevBackend.InitPassword,
		SecretKey:     cfg.DevBackend.SecretKey,
		CookieName:    cfg.DevBackend.CookieName,
		SessionTTL:    cfg.DevBackend.SessionTTL,
		LoginAttempts: cfg.DevBackend.LoginAttempts,
		LoginWindow:   cfg.DevBackend.LoginWindow,
		Sessions:      sessions,
		Mailer:        devbackend.SMTPMailer{InsecureSkipVerify: *flagInsecure},
		Logger:        lg,
		LogBuffer:     cfg.DevBackend.LogBuffer,
		Registry:      reg,
	})
	if err != nil {
		lg.Fatal("devbackend", logger.Err(err))
	}

	if err := srv.ListenAndServe(ctx, cfg.DevBackend.Addr); err != nil {
		lg.Fatal("serve", logger.Err(err))
	}
}
