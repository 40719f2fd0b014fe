package cli

import (
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
)

const (
	FlagCounterID = "counter-id"
	FlagShowInput = "show-input"
	FlagOutput    = "output"

	OutputFormatJSON = "json"
	OutputFormatText = "text"
)

// FlagSetCounterID Returns the FlagSet for the counter object id.
func FlagSetCounterID() *flag.FlagSet {
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.String(FlagCounterID, "", `The object id of the counter to increase (0x + hex).
Defaults to the counter created last.`)
	return fs
}

// AddOutputFlagToCmd adds the output format flag to cmd.
func AddOutputFlagToCmd(cmd *cobra.Command) {
	cmd.Flags().StringP(FlagOutput, "o", OutputFormatJSON, "Output format (json|text)")
}
