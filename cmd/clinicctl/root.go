package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/clinica-otica/internal/config"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "clinicctl",
	Short: "Maintenance commands for the clinic backend.",
	Long: `clinicctl checks the environment the API depends on, runs database
migrations and exposes a read-only database tool over JSON lines.`,
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "env file path")

	rootCmd.AddCommand(NewCheckCommand())
	rootCmd.AddCommand(NewMigrateCommand())
	rootCmd.AddCommand(NewDBToolCommand())
}

// loadConfig reads the env file given by --env (when present) before the
// regular config loading.
func loadConfig() *config.Config {
	_ = godotenv.Load(envFile)
	return config.Load()
}
