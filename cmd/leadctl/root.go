package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/config"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/errors"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/monitoring"
)

type rootOptions struct {
	color    string
	logLevel string
	cfg      *config.Config
	logger   *monitoring.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "leadctl",
		Short:         "Score admission leads from the command line",
		Long:          `leadctl scores CSV and XLSX lead tables offline, generates sample applicant data and writes upload templates.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.logger = monitoring.NewLoggerWithWriter(cmd.ErrOrStderr(), monitoring.ParseLevel(opts.logLevel))
			slog.SetDefault(opts.logger.Logger)

			switch opts.color {
			case "on":
				color.NoColor = false
			case "off":
				color.NoColor = true
			case "auto":
			default:
				return errors.NewValidationError(fmt.Sprintf("invalid --color value %q (auto|on|off)", opts.color))
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.color, "color", "auto", "colorize output (auto|on|off)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(newScoreCmd(opts))
	cmd.AddCommand(newSampleCmd(opts))
	cmd.AddCommand(newTemplateCmd())

	return cmd
}

// writeOutput streams to path, or to the command's stdout when path is empty or "-".
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(cmd.OutOrStdout())
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.NewInternalError("failed to create "+path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func isXLSX(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".xlsx" || ext == ".xlsm"
}
