package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/clinica-otica/internal/ops"
)

func NewCheckCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check env file, database, Redis and S3 connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			sum := ops.RunChecks(cmd.Context(), ops.DefaultChecks(cfg, envFile), timeout, cmd.OutOrStdout())
			if !sum.OK() {
				return errors.New("some checks failed")
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "timeout per check")

	return cmd
}
