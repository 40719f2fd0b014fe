package ledger_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"

	"github.com/initia-labs/counterd/client/ledger"
	"github.com/initia-labs/counterd/client/testutil"
	"github.com/initia-labs/counterd/x/counter/types"
)

const txResult = `{
	"digest": "digA",
	"effects": {"status": {"status": "success"}, "transactionDigest": "digA"},
	"objectChanges": [
		{"type": "created", "objectType": "0xaaaa::counter::Counter", "objectId": "0xcccc"}
	],
	"events": []
}`

var notFound = &testutil.RPCError{Code: -32602, Message: "Could not find the referenced transaction"}

func newClient(t *testing.T, node *testutil.Node, timeout time.Duration) *ledger.Client {
	c, err := ledger.NewClient(context.Background(), log.NewNopLogger(), node.URL, timeout, 10*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func Test_NewClientValidation(t *testing.T) {
	ctx := context.Background()

	_, err := ledger.NewClient(ctx, nil, "http://127.0.0.1:9000", time.Second, time.Second)
	require.Error(t, err)
	_, err = ledger.NewClient(ctx, log.NewNopLogger(), "not a url", time.Second, time.Second)
	require.Error(t, err)
	_, err = ledger.NewClient(ctx, log.NewNopLogger(), "http://127.0.0.1:9000", 0, time.Second)
	require.Error(t, err)
	_, err = ledger.NewClient(ctx, log.NewNopLogger(), "http://127.0.0.1:9000", time.Second, 0)
	require.Error(t, err)
}

func Test_WaitForTransactionPollsUntilFound(t *testing.T) {
	node := testutil.NewNode(t)

	var gotOpts types.ResponseOptions
	lookups := 0
	node.Handle(ledger.MethodGetTransactionBlock, func(params []json.RawMessage) (any, *testutil.RPCError) {
		lookups++
		if lookups < 3 {
			return nil, notFound
		}

		var digest string
		if err := json.Unmarshal(params[0], &digest); err != nil || digest != "digA" {
			return nil, &testutil.RPCError{Code: -32602, Message: "bad digest"}
		}
		if err := json.Unmarshal(params[1], &gotOpts); err != nil {
			return nil, &testutil.RPCError{Code: -32602, Message: err.Error()}
		}

		return json.RawMessage(txResult), nil
	})

	c := newClient(t, node, 5*time.Second)
	payload, err := c.WaitForTransaction(context.Background(), "digA", types.DefaultResponseOptions())
	require.NoError(t, err)
	require.Equal(t, 3, node.Calls(ledger.MethodGetTransactionBlock))
	require.Equal(t, types.DefaultResponseOptions(), gotOpts)

	require.Equal(t, "digA", payload.Digest)
	require.True(t, payload.Effects.Succeeded())
	id, ok := payload.FindCreated(types.CounterTypeSuffix)
	require.True(t, ok)
	require.Equal(t, types.Address("0xcccc"), id)
}

func Test_WaitForTransactionTimesOut(t *testing.T) {
	node := testutil.NewNode(t)
	node.Handle(ledger.MethodGetTransactionBlock, func([]json.RawMessage) (any, *testutil.RPCError) {
		return nil, notFound
	})

	c := newClient(t, node, 100*time.Millisecond)
	_, err := c.WaitForTransaction(context.Background(), "digA", types.DefaultResponseOptions())
	require.ErrorIs(t, err, types.ErrConfirmationTimeout)
	require.Contains(t, err.Error(), "Could not find the referenced transaction")
	require.GreaterOrEqual(t, node.Calls(ledger.MethodGetTransactionBlock), 2)
}

func Test_WaitForTransactionUndecodableResult(t *testing.T) {
	testCases := []struct {
		name   string
		result string
	}{
		{"digest is a number", `{"digest": 5}`},
		{"not an object", `["digA"]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			node := testutil.NewNode(t)
			node.Handle(ledger.MethodGetTransactionBlock, func([]json.RawMessage) (any, *testutil.RPCError) {
				return json.RawMessage(tc.result), nil
			})

			c := newClient(t, node, 5*time.Second)
			start := time.Now()
			_, err := c.WaitForTransaction(context.Background(), "digA", types.DefaultResponseOptions())
			require.ErrorIs(t, err, types.ErrConfirmation)
			require.NotErrorIs(t, err, types.ErrConfirmationTimeout)
			require.ErrorContains(t, err, "decode transaction digA")
			require.Equal(t, 1, node.Calls(ledger.MethodGetTransactionBlock))
			require.Less(t, time.Since(start), time.Second)
		})
	}
}

func Test_WaitForTransactionCallerCancels(t *testing.T) {
	node := testutil.NewNode(t)
	node.Handle(ledger.MethodGetTransactionBlock, func([]json.RawMessage) (any, *testutil.RPCError) {
		return nil, notFound
	})

	c := newClient(t, node, 5*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.WaitForTransaction(ctx, "digA", types.DefaultResponseOptions())
	require.ErrorIs(t, err, types.ErrConfirmation)
	require.NotErrorIs(t, err, types.ErrConfirmationTimeout)
}

func Test_MoveCallAndExecute(t *testing.T) {
	node := testutil.NewNode(t)

	var moveCallParams []json.RawMessage
	node.Handle(ledger.MethodMoveCall, func(params []json.RawMessage) (any, *testutil.RPCError) {
		moveCallParams = params
		return map[string]any{"txBytes": "AAEC"}, nil
	})
	node.Handle(ledger.MethodExecuteTransactionBlock, func(params []json.RawMessage) (any, *testutil.RPCError) {
		var sigs []string
		if err := json.Unmarshal(params[1], &sigs); err != nil || len(sigs) != 1 {
			return nil, &testutil.RPCError{Code: -32602, Message: "bad signatures"}
		}
		return map[string]any{"digest": "digB"}, nil
	})
	node.Handle(ledger.MethodGetChainIdentifier, func([]json.RawMessage) (any, *testutil.RPCError) {
		return "4c78adac", nil
	})

	c := newClient(t, node, time.Second)
	ctx := context.Background()

	res, err := c.MoveCall(ctx, "0xabc", types.NewIncreaseCall("0x1", "0x2", 5), 1000)
	require.NoError(t, err)
	require.Equal(t, "AAEC", res.TxBytes)
	require.Len(t, moveCallParams, 8)
	require.JSONEq(t, `"0xabc"`, string(moveCallParams[0]))
	require.JSONEq(t, `"0x1"`, string(moveCallParams[1]))
	require.JSONEq(t, `"counter"`, string(moveCallParams[2]))
	require.JSONEq(t, `"increase"`, string(moveCallParams[3]))
	require.JSONEq(t, `[]`, string(moveCallParams[4]))
	require.JSONEq(t, `["0x2", "5"]`, string(moveCallParams[5]))
	require.JSONEq(t, `null`, string(moveCallParams[6]))
	require.JSONEq(t, `"1000"`, string(moveCallParams[7]))

	sub, err := c.ExecuteTransactionBlock(ctx, res.TxBytes, []string{"sig"})
	require.NoError(t, err)
	require.Equal(t, "digB", sub.Digest)

	id, err := c.ChainIdentifier(ctx)
	require.NoError(t, err)
	require.Equal(t, "4c78adac", id)
}

func Test_MoveCallRejected(t *testing.T) {
	node := testutil.NewNode(t)
	node.Handle(ledger.MethodMoveCall, func([]json.RawMessage) (any, *testutil.RPCError) {
		return nil, &testutil.RPCError{Code: -32002, Message: "Package object does not exist"}
	})

	c := newClient(t, node, time.Second)
	_, err := c.MoveCall(context.Background(), "0xabc", types.NewCreateCall("0x1", 0), 1000)
	require.ErrorContains(t, err, "Package object does not exist")
}
