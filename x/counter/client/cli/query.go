package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/initia-labs/counterd/x/counter/types"
)

// GetQueryCmds returns the commands reading state without submitting.
func GetQueryCmds(newApp AppCreator) []*cobra.Command {
	return []*cobra.Command{
		GetCmdState(newApp),
		GetCmdAccount(newApp),
		GetCmdTx(newApp),
		GetCmdNetwork(newApp),
	}
}

func GetCmdState(newApp AppCreator) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show the package id, counter id, inputs, last digest and error",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			return PrintOutput(cmd, app.Workflow().View().Snapshot())
		},
	}

	AddOutputFlagToCmd(cmd)
	return cmd
}

func GetCmdAccount(newApp AppCreator) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Show the connected account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			addr, ok := app.Wallet().CurrentAccount(cmd.Context())
			if !ok {
				return types.ErrNoAccount
			}

			return PrintOutput(cmd, map[string]string{"address": addr.String()})
		},
	}

	AddOutputFlagToCmd(cmd)
	return cmd
}

func GetCmdTx(newApp AppCreator) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx [digest]",
		Short: "Show the full result of a transaction",
		Long: `Show the full result of a transaction, with its effects, object changes and events.
Defaults to the last recorded digest.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			digest := app.Workflow().View().Snapshot().LastDigest
			if len(args) == 1 {
				digest = args[0]
			}
			if digest == "" {
				return errors.New("no digest given and none recorded")
			}

			opts := types.DefaultResponseOptions()
			opts.ShowInput, err = cmd.Flags().GetBool(FlagShowInput)
			if err != nil {
				return err
			}

			payload, err := app.Ledger().GetTransactionBlock(cmd.Context(), digest, opts)
			if err != nil {
				return err
			}

			return PrintRaw(cmd, payload.Raw)
		},
	}

	cmd.Flags().Bool(FlagShowInput, false, "Include the transaction input")
	AddOutputFlagToCmd(cmd)
	return cmd
}

func GetCmdNetwork(newApp AppCreator) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "network",
		Short: "Show the selected network and the chain followed by its fullnode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			network := app.Network()
			id, err := app.Ledger().ChainIdentifier(cmd.Context())
			if err != nil {
				return fmt.Errorf("query %s: %w", network.FullnodeURL(), err)
			}

			return PrintOutput(cmd, map[string]string{
				"network":               network.Name,
				"chain_id":              network.ChainID(),
				"fullnode":              network.FullnodeURL(),
				"node_chain_identifier": id,
			})
		},
	}

	AddOutputFlagToCmd(cmd)
	return cmd
}
