package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/pelletier/go-toml"
	"github.com/spf13/cobra"

	counterapp "github.com/initia-labs/counterd/app"
	"github.com/initia-labs/counterd/x/counter/client/cli"
	counterconfig "github.com/initia-labs/counterd/x/counter/config"
)

const flagOverwrite = "overwrite"

// counterdConfig is the data the config template is rendered with.
type counterdConfig struct {
	CounterConfig counterconfig.CounterConfig `mapstructure:"counter"`
}

func configCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}

	cmd.AddCommand(
		configInitCommand(cmdCtx),
		configShowCommand(cmdCtx),
	)

	return cmd
}

func configInitCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the config file with the current settings",
		Long: fmt.Sprintf(`Write <home>/%s/%s with the settings resolved from flags,
environment variables and defaults.`, counterapp.ConfigDir, counterapp.ConfigFileName),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := counterconfig.GetConfig(cmdCtx.viper)
			if err := cfg.ValidateBasic(); err != nil {
				return err
			}

			overwrite, err := cmd.Flags().GetBool(flagOverwrite)
			if err != nil {
				return err
			}

			path := filepath.Join(cmdCtx.home, counterapp.ConfigDir, counterapp.ConfigFileName)
			if _, err := os.Stat(path); err == nil && !overwrite {
				return fmt.Errorf("%s already exists, use --%s to replace it", path, flagOverwrite)
			}

			bz, err := renderConfig(cfg)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
				return err
			}
			if err := os.WriteFile(path, bz, 0o600); err != nil {
				return err
			}

			cmdCtx.logger.Info("config written", "path", path)
			return nil
		},
	}

	cmd.Flags().Bool(flagOverwrite, false, "Replace an existing config file")
	return cmd
}

func configShowCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the resolved settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := counterconfig.GetConfig(cmdCtx.viper).ToMap()
			if err != nil {
				return err
			}

			return cli.PrintOutput(cmd, cfg)
		},
	}

	cli.AddOutputFlagToCmd(cmd)
	return cmd
}

func renderConfig(cfg counterconfig.CounterConfig) ([]byte, error) {
	tmpl, err := template.New("counterConfigFileTemplate").Parse(counterconfig.DefaultConfigTemplate)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, counterdConfig{CounterConfig: cfg}); err != nil {
		return nil, err
	}

	// values are interpolated verbatim, reject what would not parse back
	if _, err := toml.LoadBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("rendered config is not valid toml: %w", err)
	}

	return buf.Bytes(), nil
}
