package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/quicknotify/internal/api"
	"github.com/dropDatabas3/quicknotify/internal/console"
)

func newRecordsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "records", Short: "Registros de envío"}

	var status string
	var page, limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "Lista los envíos, los más nuevos primero",
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch status {
			case api.StatusAll, api.StatusSuccess, api.StatusFailed:
			default:
				return fmt.Errorf("--status debe ser all|success|failed")
			}
			out, err := a.client.ListRecords(cmd.Context(), page, limit, status)
			if err != nil {
				return fmt.Errorf("no se pudieron listar los registros: %s", api.MessageOf(err))
			}
			return a.emit(out, console.RecordsOf(out, status))
		},
	}
	list.Flags().StringVar(&status, "status", api.StatusAll, "all|success|failed")
	list.Flags().IntVar(&page, "page", 1, "Página")
	list.Flags().IntVar(&limit, "limit", api.DefaultRecordsPerPage, "Registros por página")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Totales de hoy e históricos",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.client.GetRecordStats(cmd.Context())
			if err != nil {
				return fmt.Errorf("no se pudieron leer las estadísticas: %s", api.MessageOf(err))
			}
			return a.emit(st, console.DashboardOf(st))
		},
	}

	retry := &cobra.Command{
		Use:   "retry <id>",
		Short: "Reintenta un envío",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.sendOutcome(a.client.RetryRecord(cmd.Context(), id))
		},
	}

	cmd.AddCommand(list, stats, retry)
	return cmd
}
