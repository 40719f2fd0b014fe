package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/initia-labs/counterd/crypto/keyring"
	"github.com/initia-labs/counterd/x/counter/client/cli"
	counterconfig "github.com/initia-labs/counterd/x/counter/config"
)

const flagRecover = "recover"

func keysCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage the signing key of the burner wallet",
		Long: `Keys are derived from a BIP-39 mnemonic at m/44'/784'/0'/0'/0' and stored
in the keyring selected by --counter.keyring-backend:

  os    the secret store of the operating system
  file  passphrase encrypted files under <home>/keyring-file, the passphrase
        is read from COUNTER_KEYRING_PASSPHRASE
  test  files under <home>/keyring-test with a fixed passphrase, testing only`,
	}

	cmd.AddCommand(
		keysAddCommand(cmdCtx),
		keysShowCommand(cmdCtx),
	)

	return cmd
}

// openKeyring returns the configured keyring and the key name given in args,
// or the configured one.
func openKeyring(cmdCtx *commandContext, args []string) (*keyring.Keyring, string, error) {
	cfg := counterconfig.GetConfig(cmdCtx.viper)
	kr, err := keyring.New(cfg.KeyringBackend, cmdCtx.home, cfg.KeyringPassphrase)
	if err != nil {
		return nil, "", err
	}

	if len(args) == 1 {
		return kr, args[0], nil
	}
	return kr, cfg.KeyringName, nil
}

func keysAddCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a key, or recover it from a mnemonic with --recover",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kr, name, err := openKeyring(cmdCtx, args)
			if err != nil {
				return err
			}

			recoverKey, err := cmd.Flags().GetBool(flagRecover)
			if err != nil {
				return err
			}

			if recoverKey {
				fmt.Fprintln(cmd.ErrOrStderr(), "> Enter your bip39 mnemonic")
				mnemonic, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && mnemonic == "" {
					return err
				}

				key, err := kr.Import(name, strings.TrimSpace(mnemonic))
				if err != nil {
					return err
				}

				return cli.PrintOutput(cmd, map[string]string{
					"name":    key.Name,
					"address": key.Address().String(),
				})
			}

			key, mnemonic, err := kr.Add(name)
			if err != nil {
				return err
			}

			return cli.PrintOutput(cmd, map[string]string{
				"name":     key.Name,
				"address":  key.Address().String(),
				"mnemonic": mnemonic,
			})
		},
	}

	cmd.Flags().Bool(flagRecover, false, "Provide a mnemonic to recover an existing key")
	cli.AddOutputFlagToCmd(cmd)
	return cmd
}

func keysShowCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Show the address of a key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kr, name, err := openKeyring(cmdCtx, args)
			if err != nil {
				return err
			}

			key, err := kr.Key(name)
			if err != nil {
				return err
			}

			return cli.PrintOutput(cmd, map[string]string{
				"name":    key.Name,
				"address": key.Address().String(),
			})
		},
	}

	cli.AddOutputFlagToCmd(cmd)
	return cmd
}
