package types

import (
	"fmt"
	"sort"

	errorsmod "cosmossdk.io/errors"
)

const (
	NetworkLocalnet = "localnet"
	NetworkDevnet   = "devnet"
	NetworkTestnet  = "testnet"
	NetworkMainnet  = "mainnet"

	// DefaultNetwork is used when no network is configured
	DefaultNetwork = NetworkTestnet
)

var fullnodeURLs = map[string]string{
	NetworkLocalnet: "http://127.0.0.1:9000",
	NetworkDevnet:   "https://fullnode.devnet.sui.io:443",
	NetworkTestnet:  "https://fullnode.testnet.sui.io:443",
	NetworkMainnet:  "https://fullnode.mainnet.sui.io:443",
}

// Network selects the chain the wallet signs for and the node the ledger
// client talks to.
type Network struct {
	Name string
	// RPCAddress overrides the well-known fullnode URL when set.
	RPCAddress string
}

// NewNetwork returns the named network, falling back to DefaultNetwork
// when name is empty.
func NewNetwork(name, rpcAddress string) (Network, error) {
	if name == "" {
		name = DefaultNetwork
	}

	if _, found := fullnodeURLs[name]; !found && rpcAddress == "" {
		return Network{}, errorsmod.Wrapf(ErrUnknownNetwork, "%q, expected one of %v or an explicit rpc address", name, KnownNetworks())
	}

	return Network{Name: name, RPCAddress: rpcAddress}, nil
}

// ChainID returns the chain identifier handed to the wallet, e.g. "sui:testnet".
func (n Network) ChainID() string {
	return fmt.Sprintf("%s:%s", ChainNamespace, n.Name)
}

// FullnodeURL returns the JSON-RPC endpoint of the network.
func (n Network) FullnodeURL() string {
	if n.RPCAddress != "" {
		return n.RPCAddress
	}

	return fullnodeURLs[n.Name]
}

// KnownNetworks returns the names of the networks with a well-known fullnode.
func KnownNetworks() []string {
	names := make([]string, 0, len(fullnodeURLs))
	for name := range fullnodeURLs {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
