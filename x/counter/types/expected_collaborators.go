package types

import (
	"context"
)

// WalletConnector is the connected wallet. It owns the keys and is the only
// component able to sign and broadcast a call.
type WalletConnector interface {
	// CurrentAccount returns the connected account, or false when none is connected.
	CurrentAccount(ctx context.Context) (Address, bool)
	// SignAndExecute signs call for the chain identified by chainID and broadcasts it.
	SignAndExecute(ctx context.Context, call CallDescriptor, chainID string) (SubmissionResult, error)
}

// LedgerClient reads settled transactions from the ledger.
type LedgerClient interface {
	// WaitForTransaction blocks until the transaction identified by digest is
	// settled, or fails on error or timeout.
	WaitForTransaction(ctx context.Context, digest string, opts ResponseOptions) (ConfirmationPayload, error)
}

// NetworkSelector supplies the chain identifier used when requesting signatures.
type NetworkSelector interface {
	ChainID() string
}

var _ NetworkSelector = Network{}
