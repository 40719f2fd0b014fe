package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	counterapp "github.com/initia-labs/counterd/app"
	"github.com/initia-labs/counterd/cmd/flags"
	"github.com/initia-labs/counterd/x/counter/client/cli"
	counterconfig "github.com/initia-labs/counterd/x/counter/config"
)

// commandContext carries what PersistentPreRunE resolved to the commands.
type commandContext struct {
	viper  *viper.Viper
	logger log.Logger
	home   string
}

// NewRootCmd creates a new root command for counterd. It is called once in the
// main function.
func NewRootCmd() *cobra.Command {
	cmdCtx := &commandContext{
		viper:  viper.New(),
		logger: log.NewNopLogger(),
	}

	rootCmd := &cobra.Command{
		Use:           counterapp.AppName,
		Short:         "Client of the Move counter package",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// set the default command outputs
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			return cmdCtx.interceptConfigs(cmd)
		},
	}

	flags.AddRootFlags(rootCmd, counterapp.DefaultNodeHome)
	counterconfig.AddConfigFlags(rootCmd)

	initRootCmd(rootCmd, cmdCtx)

	return rootCmd
}

func initRootCmd(rootCmd *cobra.Command, cmdCtx *commandContext) {
	newApp := cmdCtx.newApp

	rootCmd.AddCommand(cli.GetTxCmds(newApp)...)
	rootCmd.AddCommand(cli.GetQueryCmds(newApp)...)
	rootCmd.AddCommand(
		keysCommand(cmdCtx),
		configCommand(cmdCtx),
		serveCommand(cmdCtx),
	)
}

// interceptConfigs layers flags over environment variables over the config
// file over defaults, then builds the logger.
func (c *commandContext) interceptConfigs(cmd *cobra.Command) error {
	if err := c.viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// counter.package-id is read from COUNTER_PACKAGE_ID
	c.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	c.viper.AutomaticEnv()

	c.home = c.viper.GetString(flags.FlagHome)

	configFile := filepath.Join(c.home, counterapp.ConfigDir, counterapp.ConfigFileName)
	if _, err := os.Stat(configFile); err == nil {
		c.viper.SetConfigFile(configFile)
		if err := c.viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read %s: %w", configFile, err)
		}
	}

	logger, err := newLogger(cmd, c.viper.GetString(flags.FlagLogLevel), c.viper.GetString(flags.FlagLogFormat))
	if err != nil {
		return err
	}
	c.logger = logger

	return nil
}

func (c *commandContext) newApp(cmd *cobra.Command) (cli.App, error) {
	app, err := counterapp.NewCounterApp(cmd.Context(), c.logger, c.home, c.viper)
	if err != nil {
		return nil, err
	}

	return app, nil
}

func newLogger(cmd *cobra.Command, level, format string) (log.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	opts := []log.Option{log.LevelOption(lvl)}
	switch format {
	case flags.LogFormatJSON:
		opts = append(opts, log.OutputJSONOption())
	case flags.LogFormatPlain:
	default:
		return nil, fmt.Errorf("invalid log format %q, expected %s or %s", format, flags.LogFormatPlain, flags.LogFormatJSON)
	}

	return log.NewLogger(cmd.ErrOrStderr(), opts...), nil
}
