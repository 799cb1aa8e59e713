package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/clinica-otica/internal/ops"
)

func NewDBToolCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dbtool",
		Short: "Serve query, list_tables and describe_table over JSON lines",
		Long: `dbtool reads one JSON request per line from stdin and writes one JSON
response per line to stdout. Every statement runs in a read-only transaction.

  {"id":1,"tool":"list_tables"}
  {"id":2,"tool":"describe_table","table":"agendamentos"}
  {"id":3,"tool":"query","sql":"SELECT count(*) FROM agendamentos"}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			exec, err := ops.NewPgxExecutor(cmd.Context(), cfg.DBUrl)
			if err != nil {
				return fmt.Errorf("failed to connect: %w", err)
			}
			defer exec.Close()

			return ops.NewDBTool(exec).Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
