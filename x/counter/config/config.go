package config

import (
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/initia-labs/counterd/crypto/keyring"
	"github.com/initia-labs/counterd/x/counter/types"
)

const (
	// DefaultGasBudget - default gas budget in MIST attached to every call
	DefaultGasBudget = uint64(10_000_000)

	// DefaultWaitTimeout - default time to wait for a transaction to settle
	DefaultWaitTimeout = 60 * time.Second

	// DefaultPollInterval - default interval between transaction lookups
	DefaultPollInterval = 2 * time.Second

	// DefaultKeyringName - default name of the burner key
	DefaultKeyringName = "burner"

	// DefaultKeyringBackend - default keyring backend
	DefaultKeyringBackend = keyring.BackendOS

	// DefaultListenAddress - default address of the local front-end
	DefaultListenAddress = "127.0.0.1:8090"
)

const (
	FlagPackageID         = "counter.package-id"
	FlagNetwork           = "counter.network"
	FlagRPCAddress        = "counter.rpc-address"
	FlagGasBudget         = "counter.gas-budget"
	FlagWaitTimeout       = "counter.wait-timeout"
	FlagPollInterval      = "counter.poll-interval"
	FlagKeyringName       = "counter.keyring-name"
	FlagKeyringBackend    = "counter.keyring-backend"
	FlagKeyringPassphrase = "counter.keyring-passphrase"
	FlagUnsafeBurner      = "counter.unsafe-burner"
	FlagListenAddress     = "counter.listen-address"
)

// AppOptions is the subset of viper used to read the config.
type AppOptions interface {
	Get(string) interface{}
}

// CounterConfig is the config of the counter client
type CounterConfig struct {
	PackageID      string        `mapstructure:"package-id"`
	Network        string        `mapstructure:"network"`
	RPCAddress     string        `mapstructure:"rpc-address"`
	GasBudget      uint64        `mapstructure:"gas-budget"`
	WaitTimeout    time.Duration `mapstructure:"wait-timeout"`
	PollInterval   time.Duration `mapstructure:"poll-interval"`
	KeyringName    string        `mapstructure:"keyring-name"`
	KeyringBackend string        `mapstructure:"keyring-backend"`
	UnsafeBurner   bool          `mapstructure:"unsafe-burner"`
	ListenAddress  string        `mapstructure:"listen-address"`

	// KeyringPassphrase unlocks the file backend. It is read from flags or
	// the environment only and never rendered.
	KeyringPassphrase string `mapstructure:"-"`
}

// DefaultCounterConfig returns the default settings for CounterConfig
func DefaultCounterConfig() CounterConfig {
	return CounterConfig{
		PackageID:      "",
		Network:        types.DefaultNetwork,
		GasBudget:      DefaultGasBudget,
		WaitTimeout:    DefaultWaitTimeout,
		PollInterval:   DefaultPollInterval,
		KeyringName:    DefaultKeyringName,
		KeyringBackend: DefaultKeyringBackend,
		ListenAddress:  DefaultListenAddress,
	}
}

// GetConfig load config values from the app options. Unset values fall
// back to their defaults.
func GetConfig(appOpts AppOptions) CounterConfig {
	cfg := DefaultCounterConfig()

	if v := cast.ToString(appOpts.Get(FlagPackageID)); v != "" {
		cfg.PackageID = v
	}
	if v := cast.ToString(appOpts.Get(FlagNetwork)); v != "" {
		cfg.Network = v
	}
	cfg.RPCAddress = cast.ToString(appOpts.Get(FlagRPCAddress))
	if v := cast.ToUint64(appOpts.Get(FlagGasBudget)); v != 0 {
		cfg.GasBudget = v
	}
	if v := cast.ToDuration(appOpts.Get(FlagWaitTimeout)); v != 0 {
		cfg.WaitTimeout = v
	}
	if v := cast.ToDuration(appOpts.Get(FlagPollInterval)); v != 0 {
		cfg.PollInterval = v
	}
	if v := cast.ToString(appOpts.Get(FlagKeyringName)); v != "" {
		cfg.KeyringName = v
	}
	if v := cast.ToString(appOpts.Get(FlagKeyringBackend)); v != "" {
		cfg.KeyringBackend = v
	}
	cfg.KeyringPassphrase = cast.ToString(appOpts.Get(FlagKeyringPassphrase))
	cfg.UnsafeBurner = cast.ToBool(appOpts.Get(FlagUnsafeBurner))
	if v := cast.ToString(appOpts.Get(FlagListenAddress)); v != "" {
		cfg.ListenAddress = v
	}

	return cfg
}

// ValidateBasic checks the config values that do not need network access.
// An empty package id is allowed, it may be entered later.
func (c CounterConfig) ValidateBasic() error {
	if c.PackageID != "" && !types.IsValidAddress(c.PackageID) {
		return errorsmod.Wrapf(types.ErrInvalidConfig, "package-id %q is not a 0x + hex address", c.PackageID)
	}
	if c.GasBudget == 0 {
		return errorsmod.Wrap(types.ErrInvalidConfig, "gas-budget must be positive")
	}
	if c.WaitTimeout <= 0 {
		return errorsmod.Wrap(types.ErrInvalidConfig, "wait-timeout must be positive")
	}
	if c.PollInterval <= 0 || c.PollInterval > c.WaitTimeout {
		return errorsmod.Wrap(types.ErrInvalidConfig, "poll-interval must be positive and not exceed wait-timeout")
	}
	if c.KeyringName == "" {
		return errorsmod.Wrap(types.ErrInvalidConfig, "keyring-name must not be empty")
	}
	switch c.KeyringBackend {
	case keyring.BackendOS, keyring.BackendFile, keyring.BackendTest:
	default:
		return errorsmod.Wrapf(types.ErrInvalidConfig, "keyring-backend %q is not one of os|file|test", c.KeyringBackend)
	}
	if _, err := types.NewNetwork(c.Network, c.RPCAddress); err != nil {
		return errorsmod.Wrap(types.ErrInvalidConfig, err.Error())
	}

	return nil
}

// NetworkSelector returns the network selected by the config.
func (c CounterConfig) NetworkSelector() (types.Network, error) {
	return types.NewNetwork(c.Network, c.RPCAddress)
}

// ToMap returns the config keyed by its config file names. Durations are
// rendered as strings.
func (c CounterConfig) ToMap() (map[string]any, error) {
	out := make(map[string]any)
	if err := mapstructure.Decode(c, &out); err != nil {
		return nil, err
	}

	for k, v := range out {
		if d, ok := v.(time.Duration); ok {
			out[k] = d.String()
		}
	}

	return out, nil
}

// AddConfigFlags registers the counter config flags on cmd.
func AddConfigFlags(cmd *cobra.Command) {
	def := DefaultCounterConfig()
	cmd.PersistentFlags().String(FlagPackageID, def.PackageID, "Set the address of the published counter package")
	cmd.PersistentFlags().String(FlagNetwork, def.Network, "Set the network to sign for (localnet|devnet|testnet|mainnet)")
	cmd.PersistentFlags().String(FlagRPCAddress, def.RPCAddress, "Override the fullnode JSON-RPC address of the network")
	cmd.PersistentFlags().Uint64(FlagGasBudget, def.GasBudget, "Set the gas budget in MIST attached to every call")
	cmd.PersistentFlags().Duration(FlagWaitTimeout, def.WaitTimeout, "Set the max time to wait for a transaction to settle")
	cmd.PersistentFlags().Duration(FlagPollInterval, def.PollInterval, "Set the interval between transaction lookups")
	cmd.PersistentFlags().String(FlagKeyringName, def.KeyringName, "Set the name of the key used to sign")
	cmd.PersistentFlags().String(FlagKeyringBackend, def.KeyringBackend, "Set the keyring backend (os|file|test)")
	cmd.PersistentFlags().String(FlagKeyringPassphrase, "", "Set the passphrase of the file keyring backend, prefer the COUNTER_KEYRING_PASSPHRASE env")
	cmd.PersistentFlags().Bool(FlagUnsafeBurner, def.UnsafeBurner, "Generate an ephemeral key when no key is stored (development only)")
	cmd.PersistentFlags().String(FlagListenAddress, def.ListenAddress, "Set the listen address of the local front-end")
}

// DefaultConfigTemplate default config template for counter client
const DefaultConfigTemplate = `
###############################################################################
###                         Counter                                         ###
###############################################################################

[counter]
# The address of the published counter package (0x + hex).
package-id = "{{ .CounterConfig.PackageID }}"

# The network to sign for: localnet, devnet, testnet or mainnet.
network = "{{ .CounterConfig.Network }}"

# Overrides the fullnode JSON-RPC address of the network when set.
rpc-address = "{{ .CounterConfig.RPCAddress }}"

# The gas budget in MIST attached to every call.
gas-budget = "{{ .CounterConfig.GasBudget }}"

# The max time to wait for a transaction to settle.
wait-timeout = "{{ .CounterConfig.WaitTimeout }}"

# The interval between transaction lookups while waiting.
poll-interval = "{{ .CounterConfig.PollInterval }}"

# The name of the key used to sign.
keyring-name = "{{ .CounterConfig.KeyringName }}"

# The keyring backend: os, file or test. The file backend reads its
# passphrase from COUNTER_KEYRING_PASSPHRASE.
keyring-backend = "{{ .CounterConfig.KeyringBackend }}"

# Generate an ephemeral key when no key is stored. Development only.
unsafe-burner = {{ .CounterConfig.UnsafeBurner }}

# The listen address of the local front-end.
listen-address = "{{ .CounterConfig.ListenAddress }}"
`
