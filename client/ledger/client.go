package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/initia-labs/counterd/x/counter/types"
)

// JSON-RPC methods of the fullnode.
const (
	MethodGetTransactionBlock     = "sui_getTransactionBlock"
	MethodExecuteTransactionBlock = "sui_executeTransactionBlock"
	MethodGetChainIdentifier      = "sui_getChainIdentifier"
	MethodMoveCall                = "unsafe_moveCall"
)

// ExecuteRequestType asks the node to return once effects are certified.
const ExecuteRequestType = "WaitForEffectsCert"

var _ types.LedgerClient = (*Client)(nil)

// Client talks JSON-RPC to a fullnode. It owns the wait policy of
// WaitForTransaction: lookups are retried every pollInterval until the
// transaction is found or timeout elapses.
type Client struct {
	logger log.Logger
	rpc    *rpc.Client

	// timeout bounds WaitForTransaction
	timeout time.Duration
	// pollInterval is the delay between two lookups
	pollInterval time.Duration
}

// NewClient dials the fullnode at addr.
func NewClient(
	ctx context.Context,
	logger log.Logger,
	addr string,
	timeout time.Duration,
	pollInterval time.Duration,
) (*Client, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	if _, err := url.ParseRequestURI(addr); err != nil {
		return nil, fmt.Errorf("invalid fullnode address: %w", err)
	}

	if timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive")
	}

	if pollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive")
	}

	c, err := rpc.DialOptions(ctx, addr, rpc.WithHTTPClient(&http.Client{Timeout: timeout}))
	if err != nil {
		return nil, err
	}

	return &Client{
		logger:       logger.With("module", "ledger"),
		rpc:          c,
		timeout:      timeout,
		pollInterval: pollInterval,
	}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() {
	c.rpc.Close()
}

// GetTransactionBlock returns the transaction identified by digest.
func (c *Client) GetTransactionBlock(ctx context.Context, digest string, opts types.ResponseOptions) (types.ConfirmationPayload, error) {
	var raw json.RawMessage
	if err := c.rpc.CallContext(ctx, &raw, MethodGetTransactionBlock, digest, opts); err != nil {
		return types.ConfirmationPayload{}, err
	}

	if len(raw) == 0 || string(raw) == "null" {
		return types.ConfirmationPayload{}, fmt.Errorf("transaction %s not found", digest)
	}

	var payload types.ConfirmationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return types.ConfirmationPayload{}, errorsmod.Wrapf(types.ErrConfirmation, "decode transaction %s: %v", digest, err)
	}

	return payload, nil
}

// WaitForTransaction polls the node until the transaction is settled. Lookup
// errors are retried; a result that cannot be decoded is returned at once.
func (c *Client) WaitForTransaction(ctx context.Context, digest string, opts types.ResponseOptions) (types.ConfirmationPayload, error) {
	waitCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	var lastErr error
	for attempt := 1; ; attempt++ {
		payload, err := c.GetTransactionBlock(waitCtx, digest, opts)
		if err == nil {
			c.logger.Debug("transaction found", "digest", digest, "lookups", attempt)
			return payload, nil
		}
		if errors.Is(err, types.ErrConfirmation) {
			return types.ConfirmationPayload{}, err
		}

		if !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			lastErr = err
		}
		c.logger.Debug("transaction not found yet", "digest", digest, "lookups", attempt, "error", err)

		select {
		case <-waitCtx.Done():
			// the caller gave up
			if ctx.Err() != nil {
				return types.ConfirmationPayload{}, errorsmod.Wrapf(types.ErrConfirmation, "wait for %s: %v", digest, ctx.Err())
			}

			if lastErr != nil {
				return types.ConfirmationPayload{}, errorsmod.Wrapf(types.ErrConfirmationTimeout, "%s after %s: %v", digest, c.timeout, lastErr)
			}
			return types.ConfirmationPayload{}, errorsmod.Wrapf(types.ErrConfirmationTimeout, "%s after %s", digest, c.timeout)
		case <-ticker.C:
		}
	}
}

// ChainIdentifier returns the identifier of the chain the node follows.
func (c *Client) ChainIdentifier(ctx context.Context) (string, error) {
	var id string
	if err := c.rpc.CallContext(ctx, &id, MethodGetChainIdentifier); err != nil {
		return "", err
	}

	return id, nil
}

// MoveCallResponse is the unsigned transaction built by the node.
type MoveCallResponse struct {
	TxBytes string `json:"txBytes"`
}

// MoveCall asks the node to build the transaction bytes of call sent by
// signer. Gas coins are selected by the node.
func (c *Client) MoveCall(ctx context.Context, signer types.Address, call types.CallDescriptor, gasBudget uint64) (MoveCallResponse, error) {
	var res MoveCallResponse
	err := c.rpc.CallContext(ctx, &res, MethodMoveCall,
		signer.String(),
		call.Target.Package.String(),
		call.Target.Module,
		call.Target.Function,
		typeArgs(call),
		call.JSONArguments(),
		nil,
		fmt.Sprintf("%d", gasBudget),
	)
	if err != nil {
		return MoveCallResponse{}, err
	}

	if res.TxBytes == "" {
		return MoveCallResponse{}, fmt.Errorf("node returned no transaction bytes for %s", call.Target)
	}

	return res, nil
}

// ExecuteTransactionBlock submits signed transaction bytes and returns the digest.
func (c *Client) ExecuteTransactionBlock(ctx context.Context, txBytes string, signatures []string) (types.SubmissionResult, error) {
	var res types.SubmissionResult
	err := c.rpc.CallContext(ctx, &res, MethodExecuteTransactionBlock,
		txBytes,
		signatures,
		types.ResponseOptions{},
		ExecuteRequestType,
	)
	if err != nil {
		return types.SubmissionResult{}, err
	}

	return res, nil
}

func typeArgs(call types.CallDescriptor) []string {
	if call.TypeArgs == nil {
		return []string{}
	}

	return call.TypeArgs
}
