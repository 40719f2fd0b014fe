package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/initia-labs/counterd/client/ledger"
	"github.com/initia-labs/counterd/x/counter/types"
	"github.com/initia-labs/counterd/x/counter/workflow"
)

// App is the application the commands drive.
type App interface {
	Workflow() *workflow.Workflow
	Wallet() types.WalletConnector
	Ledger() *ledger.Client
	Network() types.Network
	SaveState() error
	Close()
}

// AppCreator builds the App of one command invocation.
type AppCreator func(cmd *cobra.Command) (App, error)

// ParseU64 parses a decimal unsigned 64 bit integer argument.
func ParseU64(field, s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errorsmod.Wrapf(types.ErrInvalidAmount, "%s %q is not an unsigned 64 bit integer", field, s)
	}

	return v, nil
}

// PrintOutput writes v in the format selected by the output flag, JSON
// when cmd has no such flag.
func PrintOutput(cmd *cobra.Command, v any) error {
	bz, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return PrintRaw(cmd, bz)
}

// PrintRaw writes JSON encoded bz in the format selected by the output flag.
func PrintRaw(cmd *cobra.Command, bz []byte) error {
	format := OutputFormatJSON
	if f := cmd.Flags().Lookup(FlagOutput); f != nil {
		format = f.Value.String()
	}

	var out []byte
	switch format {
	case OutputFormatJSON:
		var buf bytes.Buffer
		if err := json.Indent(&buf, bz, "", "  "); err != nil {
			return err
		}
		buf.WriteByte('\n')
		out = buf.Bytes()
	case OutputFormatText:
		var err error
		if out, err = jsonToYAML(bz); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid output format %q, expected %s or %s", format, OutputFormatJSON, OutputFormatText)
	}

	_, err := cmd.OutOrStdout().Write(out)
	return err
}

// jsonToYAML re-encodes JSON as block style YAML, keeping the key order.
func jsonToYAML(bz []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(bz, &node); err != nil {
		return nil, err
	}
	resetStyle(&node)

	return yaml.Marshal(&node)
}

func resetStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		resetStyle(child)
	}
}
