package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/quicknotify/internal/api"
	"github.com/dropDatabas3/quicknotify/internal/console"
)

func newMonitorCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "monitor", Short: "Estado del backend"}

	status := &cobra.Command{
		Use:   "status",
		Short: "CPU, memoria y uptime",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.client.GetSystemStatus(cmd.Context())
			if err != nil {
				return fmt.Errorf("no se pudo leer el estado: %s", api.MessageOf(err))
			}
			return a.emit(st, console.MonitorOf(st, nil, nil))
		},
	}

	var level string
	var lines int
	logs := &cobra.Command{
		Use:   "logs",
		Short: "Últimas líneas de log del backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("level") {
				level = a.cfg.UI.LogLevel
			}
			if !cmd.Flags().Changed("lines") {
				lines = a.cfg.UI.LogLines
			}
			out, err := a.client.GetSystemLogs(cmd.Context(), level, lines)
			if err != nil {
				return fmt.Errorf("no se pudieron leer los logs: %s", api.MessageOf(err))
			}
			if a.jsonOut() {
				return a.printJSON(out)
			}
			for _, l := range out.Logs {
				fmt.Fprintln(a.stdout, l)
			}
			return nil
		},
	}
	logs.Flags().StringVar(&level, "level", "ALL", "ALL|DEBUG|INFO|WARN|ERROR")
	logs.Flags().IntVar(&lines, "lines", 50, "Cantidad de líneas")

	var days int
	daily := &cobra.Command{
		Use:   "daily",
		Short: "Envíos por día",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.client.GetDailyStats(cmd.Context(), days)
			if err != nil {
				return fmt.Errorf("no se pudieron leer las estadísticas: %s", api.MessageOf(err))
			}
			if a.jsonOut() {
				return a.printJSON(out)
			}
			for _, d := range out.Stats {
				fmt.Fprintf(a.stdout, "%s  total=%d ok=%d fallidos=%d\n", d.Date, d.Total, d.Success, d.Failed)
			}
			return nil
		},
	}
	daily.Flags().IntVar(&days, "days", api.DefaultDailyStatsDays, "Días hacia atrás")

	cmd.AddCommand(status, logs, daily)
	return cmd
}
