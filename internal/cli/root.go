// Package cli implements the wfsynth command line.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/me/wfsynth/internal/logging"
)

var (
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
)

// NewRootCmd creates the root cobra command for the wfsynth CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wfsynth",
		Short: "wfsynth: WfFormat to FaaSr synthetic workflow translator",
		Long: "wfsynth turns WfCommons WfFormat traces into FaaSr workflow manifests " +
			"that replay the trace with a synthetic function, and stages the placeholder files they read.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flagDebug {
				flagLogLevel = "debug"
			}
			level, err := logging.ParseLevel(flagLogLevel)
			if err != nil {
				return err
			}
			if err := logging.CheckFormat(flagLogFormat); err != nil {
				return err
			}
			logger = logging.NewLoggerWithWriter(level, flagLogFormat, cmd.ErrOrStderr())
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newConvertCmd(),
		newStageCmd(),
		newDAGCmd(),
		newWorkloadCmd(),
	)

	return root
}
