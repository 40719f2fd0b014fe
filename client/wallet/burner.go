package wallet

import (
	"context"
	"encoding/base64"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"

	"github.com/initia-labs/counterd/client/ledger"
	"github.com/initia-labs/counterd/crypto/keyring"
	"github.com/initia-labs/counterd/x/counter/types"
)

// Node builds and broadcasts transactions on behalf of the wallet.
type Node interface {
	MoveCall(ctx context.Context, signer types.Address, call types.CallDescriptor, gasBudget uint64) (ledger.MoveCallResponse, error)
	ExecuteTransactionBlock(ctx context.Context, txBytes string, signatures []string) (types.SubmissionResult, error)
}

var _ types.WalletConnector = (*Burner)(nil)

// Burner is a development wallet holding one local ed25519 key. It signs
// whatever it is asked to, without user confirmation.
type Burner struct {
	logger    log.Logger
	node      Node
	network   types.Network
	key       *keyring.Key
	gasBudget uint64
}

// NewBurner returns a wallet for network. A nil key leaves the wallet
// disconnected.
func NewBurner(logger log.Logger, node Node, network types.Network, key *keyring.Key, gasBudget uint64) *Burner {
	return &Burner{
		logger:    logger.With("module", "wallet"),
		node:      node,
		network:   network,
		key:       key,
		gasBudget: gasBudget,
	}
}

// CurrentAccount implements types.WalletConnector.
func (b *Burner) CurrentAccount(_ context.Context) (types.Address, bool) {
	if b.key == nil {
		return "", false
	}

	return b.key.Address(), true
}

// SignAndExecute implements types.WalletConnector.
func (b *Burner) SignAndExecute(ctx context.Context, call types.CallDescriptor, chainID string) (types.SubmissionResult, error) {
	if b.key == nil {
		return types.SubmissionResult{}, types.ErrNoAccount
	}

	if chainID != b.network.ChainID() {
		return types.SubmissionResult{}, errorsmod.Wrapf(types.ErrChainMismatch, "wallet is on %s, asked to sign for %s", b.network.ChainID(), chainID)
	}

	signer := b.key.Address()
	unsigned, err := b.node.MoveCall(ctx, signer, call, b.gasBudget)
	if err != nil {
		return types.SubmissionResult{}, fmt.Errorf("build %s: %w", call.Target, err)
	}

	txBytes, err := base64.StdEncoding.DecodeString(unsigned.TxBytes)
	if err != nil {
		return types.SubmissionResult{}, fmt.Errorf("decode transaction bytes: %w", err)
	}

	if err := b.verify(signer, call, txBytes); err != nil {
		return types.SubmissionResult{}, err
	}

	sig := b.key.SignTransactionBase64(txBytes)
	b.logger.Debug("signed transaction", "signer", signer, "target", call.Target.String())

	res, err := b.node.ExecuteTransactionBlock(ctx, unsigned.TxBytes, []string{sig})
	if err != nil {
		return types.SubmissionResult{}, fmt.Errorf("execute %s: %w", call.Target, err)
	}

	return res, nil
}

// verify refuses to sign node built bytes that are not the requested call.
func (b *Burner) verify(signer types.Address, call types.CallDescriptor, txBytes []byte) error {
	tx, err := types.DecodeTransactionData(txBytes)
	if err != nil {
		return errorsmod.Wrapf(types.ErrSubmission, "decode transaction data: %v", err)
	}

	if err := call.VerifyTransaction(signer, tx); err != nil {
		return errorsmod.Wrapf(types.ErrSubmission, "transaction built by the node does not match %s: %v", call.Target, err)
	}

	if tx.GasBudget != b.gasBudget {
		return errorsmod.Wrapf(types.ErrSubmission, "gas budget %d, expected %d", tx.GasBudget, b.gasBudget)
	}

	return nil
}
