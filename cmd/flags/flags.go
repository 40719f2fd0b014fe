package flags

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	FlagHome      = "home"
	FlagLogLevel  = "log_level"
	FlagLogFormat = "log_format"

	LogFormatPlain = "plain"
	LogFormatJSON  = "json"
)

// AddRootFlags adds the home and logging flags to the provided command
func AddRootFlags(cmd *cobra.Command, defaultHome string) {
	cmd.PersistentFlags().String(FlagHome, defaultHome, "directory for config, keys and state")
	cmd.PersistentFlags().String(FlagLogLevel, zerolog.InfoLevel.String(), "The logging level (trace|debug|info|warn|error|fatal|panic|disabled)")
	cmd.PersistentFlags().String(FlagLogFormat, LogFormatPlain, "The logging format (json|plain)")
}
