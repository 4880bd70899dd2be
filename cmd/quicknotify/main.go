// Command quicknotify es la CLI de administración de QuickNotify: comandos
// sueltos para cada endpoint del backend y una consola interactiva.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/quicknotify/internal/observability/logger"
)

func main() {
	// .env opcional (igual que el backend)
	_ = godotenv.Load()

	a := &app{stdout: os.Stdout, stderr: os.Stderr}
	root := newRootCmd(a)
	err := root.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "quicknotify",
		Short:         "CLI de administración para QuickNotify",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.persist()
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.flags.config, "config", envOr("QUICKNOTIFY_CONFIG", "quicknotify.yaml"), "Archivo YAML de configuración (env QUICKNOTIFY_CONFIG)")
	f.StringVar(&a.flags.apiURL, "api-url", "", "URL base del backend, ej. http://localhost:5000/api (env QUICKNOTIFY_API_URL)")
	f.StringVar(&a.flags.out, "out", "", "Formato de salida: text|json (env QUICKNOTIFY_OUT)")
	f.StringVar(&a.flags.logLevel, "log-level", "", "Nivel de log en stderr: debug|info|warn|error|off")
	f.BoolVar(&a.flags.noColor, "no-color", false, "Salida sin colores")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newPasswdCmd(a),
		newSMTPCmd(a),
		newTemplateCmd(a),
		newSendCmd(a),
		newSendTemplateCmd(a),
		newRecordsCmd(a),
		newMonitorCmd(a),
		newConsoleCmd(a),
	)
	return root
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
