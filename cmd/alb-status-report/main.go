package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/opsreport/alb-status-report/internal/app"
	"github.com/opsreport/alb-status-report/internal/logging"
	"github.com/opsreport/alb-status-report/pkg/config"
	"github.com/opsreport/alb-status-report/pkg/models"
)

// Exit codes for the local CLI.
const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitPartial = 3
)

var verbose bool

func main() {
	root := &cobra.Command{
		Use:   "alb-status-report",
		Short: "Daily ALB API status report generator",
		Long: `Runs the daily ALB status report: queries aggregated access logs
via Athena, renders a per-API status code summary as PDF, uploads it to S3,
and notifies subscribers with a time-limited download link.`,
	}
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging")
	root.SilenceUsage = true
	root.SilenceErrors = true

	root.AddCommand(newRunCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(ExitFailure)
	}
}

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute one report run",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			logger := logging.New(verbose)
			defer logger.Sync()

			cfg := config.Load()
			h, err := app.NewHandler(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			result := h.Run(cmd.Context())

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))

			// os.Exit skips deferred calls, so flush buffered logs here.
			_ = logger.Sync()

			switch result.Status {
			case models.RunSuccess:
				os.Exit(ExitSuccess)
			case models.RunPartialSuccess:
				os.Exit(ExitPartial)
			default:
				os.Exit(ExitFailure)
			}
			return nil
		},
	}
}
