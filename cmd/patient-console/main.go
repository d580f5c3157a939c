package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ehr/patientdesk/internal/client"
	"github.com/ehr/patientdesk/internal/config"
	"github.com/ehr/patientdesk/internal/console"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var apiURL, logFile string

	cmd := &cobra.Command{
		Use:   "patient-console",
		Short: "Interactive terminal client for the patient API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadClient()
			if err != nil {
				return err
			}
			if apiURL != "" {
				cfg.APIURL = apiURL
			}

			logger, closeLog, err := newLogger(logFile)
			if err != nil {
				return err
			}
			defer closeLog()

			logger.Info().Str("api_url", cfg.APIURL).Msg("starting console")
			api := client.New(cfg.APIURL, cfg.Timeout, logger)

			p := tea.NewProgram(console.New(api, logger), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run console: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "api-url", "", "Base URL of the patient API (overrides PATIENT_API_URL)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file; logging is disabled when empty")
	return cmd
}

// newLogger returns a file-backed logger, or a no-op logger when path is
// empty. Stdout belongs to the terminal UI.
func newLogger(path string) (zerolog.Logger, func(), error) {
	if path == "" {
		return zerolog.Nop(), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	logger := zerolog.New(f).With().Timestamp().Logger()
	return logger, func() { f.Close() }, nil
}
