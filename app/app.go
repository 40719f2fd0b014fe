package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	metrics "github.com/hashicorp/go-metrics"

	"github.com/initia-labs/counterd/client/ledger"
	"github.com/initia-labs/counterd/client/wallet"
	"github.com/initia-labs/counterd/crypto/keyring"
	counterconfig "github.com/initia-labs/counterd/x/counter/config"
	"github.com/initia-labs/counterd/x/counter/store"
	"github.com/initia-labs/counterd/x/counter/types"
	"github.com/initia-labs/counterd/x/counter/workflow"
)

var (
	// DefaultNodeHome default home directories for the application
	DefaultNodeHome string
)

func init() {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}

	DefaultNodeHome = filepath.Join(userHomeDir, "."+AppName)
}

// CounterApp wires the counter workflow to its collaborators: the burner
// wallet, the fullnode client, the network selected by the config and the
// persisted view state.
type CounterApp struct {
	logger log.Logger
	home   string
	config counterconfig.CounterConfig

	network  types.Network
	ledger   *ledger.Client
	keyring  *keyring.Keyring
	wallet   *wallet.Burner
	store    *store.StateStore
	workflow *workflow.Workflow
	metrics  *metrics.InmemSink
}

// NewCounterApp returns a CounterApp reading its settings from appOpts and
// its keys and state from home.
func NewCounterApp(
	ctx context.Context,
	logger log.Logger,
	home string,
	appOpts counterconfig.AppOptions,
) (*CounterApp, error) {
	cfg := counterconfig.GetConfig(appOpts)
	if err := cfg.ValidateBasic(); err != nil {
		return nil, err
	}

	network, err := cfg.NetworkSelector()
	if err != nil {
		return nil, err
	}

	sink, err := newMetrics()
	if err != nil {
		return nil, err
	}

	kr, err := keyring.New(cfg.KeyringBackend, home, cfg.KeyringPassphrase)
	if err != nil {
		return nil, err
	}

	ledgerClient, err := ledger.NewClient(ctx, logger, network.FullnodeURL(), cfg.WaitTimeout, cfg.PollInterval)
	if err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidConfig, err.Error())
	}

	app := &CounterApp{
		logger:  logger,
		home:    home,
		config:  cfg,
		network: network,
		ledger:  ledgerClient,
		keyring: kr,
		store:   store.NewStateStore(home),
		metrics: sink,
	}

	key, err := app.loadKey()
	if err != nil {
		ledgerClient.Close()
		return nil, err
	}
	app.wallet = wallet.NewBurner(logger, ledgerClient, network, key, cfg.GasBudget)

	state, err := app.loadState()
	if err != nil {
		ledgerClient.Close()
		return nil, err
	}

	app.workflow = workflow.NewWorkflow(logger, app.wallet, ledgerClient, network, workflow.NewView(state))

	logger.Info("counter app initialized",
		"network", network.Name,
		"chain_id", network.ChainID(),
		"fullnode", network.FullnodeURL(),
		"package_id", state.PackageID,
		"connected", key != nil,
	)

	return app, nil
}

// loadKey returns the configured key, an ephemeral one when none is stored
// and unsafe-burner is set, or nil.
func (app *CounterApp) loadKey() (*keyring.Key, error) {
	key, err := app.keyring.Key(app.config.KeyringName)
	switch {
	case err == nil:
		return key, nil
	case !errors.Is(err, keyring.ErrKeyNotFound):
		return nil, err
	case app.config.UnsafeBurner:
		key, err := keyring.Ephemeral(app.config.KeyringName)
		if err != nil {
			return nil, err
		}

		app.logger.Info("using ephemeral burner key, fund it before submitting", "address", key.Address())
		return key, nil
	default:
		app.logger.Info("no key found, wallet is disconnected", "name", app.config.KeyringName)
		return nil, nil
	}
}

// loadState restores the persisted view state. A package id set in the config
// takes precedence; switching package forgets the counter of the old one.
func (app *CounterApp) loadState() (types.UIState, error) {
	state, found, err := app.store.Load(app.config.PackageID)
	if err != nil {
		return types.UIState{}, err
	}

	if found && app.config.PackageID != "" && state.PackageID != app.config.PackageID {
		app.logger.Info("package id changed, forgetting counter", "from", state.PackageID, "to", app.config.PackageID)
		state.PackageID = app.config.PackageID
		state.CounterID = ""
	}

	return state, nil
}

// Logger returns the logger of the app.
func (app *CounterApp) Logger() log.Logger {
	return app.logger
}

// Home returns the home directory of the app.
func (app *CounterApp) Home() string {
	return app.home
}

// Config returns the loaded config.
func (app *CounterApp) Config() counterconfig.CounterConfig {
	return app.config
}

// Network returns the selected network.
func (app *CounterApp) Network() types.Network {
	return app.network
}

// Ledger returns the fullnode client.
func (app *CounterApp) Ledger() *ledger.Client {
	return app.ledger
}

// Wallet returns the wallet connector.
func (app *CounterApp) Wallet() types.WalletConnector {
	return app.wallet
}

// Keyring returns the keyring kept in home.
func (app *CounterApp) Keyring() *keyring.Keyring {
	return app.keyring
}

// StateStore returns the store persisting the view state.
func (app *CounterApp) StateStore() *store.StateStore {
	return app.store
}

// Workflow returns the submission workflow.
func (app *CounterApp) Workflow() *workflow.Workflow {
	return app.workflow
}

// Metrics returns the sink collecting the metrics of the app.
func (app *CounterApp) Metrics() *metrics.InmemSink {
	return app.metrics
}

// SaveState persists the current view state.
func (app *CounterApp) SaveState() error {
	return app.store.Save(app.workflow.View().Snapshot())
}

// Close releases the fullnode connection.
func (app *CounterApp) Close() {
	app.ledger.Close()
}
