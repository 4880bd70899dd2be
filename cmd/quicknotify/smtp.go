package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/quicknotify/internal/api"
	"github.com/dropDatabas3/quicknotify/internal/console"
	"github.com/dropDatabas3/quicknotify/internal/validation"
)

func newSMTPCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "smtp", Short: "Configuración SMTP"}

	get := &cobra.Command{
		Use:   "get",
		Short: "Muestra la configuración SMTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.client.GetSMTPConfig(cmd.Context())
			if err != nil {
				return fmt.Errorf("no se pudo leer la configuración: %s", api.MessageOf(err))
			}
			return a.emit(cfg, console.ConfigOf(cfg))
		},
	}

	var in api.SMTPConfig
	set := &cobra.Command{
		Use:   "set",
		Short: "Guarda la configuración SMTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if errs := validation.Struct(in); len(errs) > 0 {
				return fmt.Errorf("revisá los campos: %s", validation.Fields(errs))
			}
			res, err := a.client.UpdateSMTPConfig(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("no se pudo guardar: %s", api.MessageOf(err))
			}
			return a.emitMessage(res, console.LevelSuccess, res.Message)
		},
	}
	set.Flags().StringVar(&in.Server, "server", "", "Servidor SMTP")
	set.Flags().IntVar(&in.Port, "port", 587, "Puerto")
	set.Flags().StringVar(&in.SenderEmail, "email", "", "Cuenta remitente")
	set.Flags().StringVar(&in.SenderPassword, "password", "", "Contraseña de la cuenta")
	set.Flags().BoolVar(&in.UseTLS, "tls", true, "STARTTLS (false = SSL implícito)")
	set.Flags().IntVar(&in.Timeout, "timeout", 30, "Timeout en segundos")
	set.Flags().IntVar(&in.RetryTimes, "retries", 3, "Reintentos de envío")

	test := &cobra.Command{
		Use:   "test",
		Short: "Prueba la conexión SMTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.client.TestSMTP(cmd.Context())
			if err != nil {
				return fmt.Errorf("prueba SMTP fallida: %s", api.MessageOf(err))
			}
			return a.emitMessage(res, console.LevelSuccess, res.Message)
		},
	}

	cmd.AddCommand(get, set, test)
	return cmd
}
