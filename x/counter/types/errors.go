package types

import (
	errorsmod "cosmossdk.io/errors"
)

// Counter Errors
var (
	// ErrInvalidAddress error for an address failing the 0x + hex format check
	ErrInvalidAddress = errorsmod.Register(ModuleName, 2, "invalid address")

	// ErrInvalidAmount error for an amount that is not an unsigned 64 bit integer
	ErrInvalidAmount = errorsmod.Register(ModuleName, 3, "invalid amount")

	// ErrSubmission error raised when the wallet rejects signing or broadcasting
	ErrSubmission = errorsmod.Register(ModuleName, 4, "submission failed")

	// ErrConfirmation error raised when waiting for the transaction result fails
	ErrConfirmation = errorsmod.Register(ModuleName, 5, "confirmation failed")

	// ErrConfirmationTimeout error raised when the transaction was not found before the wait timeout
	ErrConfirmationTimeout = errorsmod.Register(ModuleName, 6, "confirmation timed out")

	// ErrCreatedObjectNotFound error raised when a confirmed create call has no created counter change
	ErrCreatedObjectNotFound = errorsmod.Register(ModuleName, 7, "created Counter not found; inspect the full transaction result")

	// ErrNoAccount error raised when no wallet account is connected
	ErrNoAccount = errorsmod.Register(ModuleName, 8, "no connected account")

	// ErrChainMismatch error raised when the wallet is asked to sign for another chain
	ErrChainMismatch = errorsmod.Register(ModuleName, 9, "chain mismatch")

	// ErrInvalidConfig error for invalid configuration values
	ErrInvalidConfig = errorsmod.Register(ModuleName, 10, "invalid config")

	// ErrUnknownNetwork error for a network name without a known fullnode
	ErrUnknownNetwork = errorsmod.Register(ModuleName, 11, "unknown network")
)
