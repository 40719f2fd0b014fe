package wallet_test

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"

	"github.com/initia-labs/counterd/client/ledger"
	"github.com/initia-labs/counterd/client/testutil"
	"github.com/initia-labs/counterd/client/wallet"
	"github.com/initia-labs/counterd/crypto/keyring"
	countertestutil "github.com/initia-labs/counterd/x/counter/testutil"
	"github.com/initia-labs/counterd/x/counter/types"
)

const gasBudget = uint64(1000)

// buildTx returns the transaction bytes a node builds for call.
func buildTx(t *testing.T, sender types.Address, call types.CallDescriptor, budget uint64) []byte {
	bz, err := countertestutil.EncodeTransactionData(countertestutil.TransactionDataFor(sender, call, budget))
	require.NoError(t, err)
	return bz
}

// handleMoveCall makes the node answer every move call with txBytes.
func handleMoveCall(node *testutil.Node, txBytes []byte, signer *string) {
	node.Handle(ledger.MethodMoveCall, func(params []json.RawMessage) (any, *testutil.RPCError) {
		if signer != nil {
			_ = json.Unmarshal(params[0], signer)
		}
		return map[string]any{"txBytes": base64.StdEncoding.EncodeToString(txBytes)}, nil
	})
}

func newKey(t *testing.T) *keyring.Key {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	return keyring.NewKey("burner", ed25519.NewKeyFromSeed(seed))
}

func setup(t *testing.T, key *keyring.Key) (*wallet.Burner, *testutil.Node) {
	node := testutil.NewNode(t)
	client, err := ledger.NewClient(context.Background(), log.NewNopLogger(), node.URL, time.Second, 10*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	network, err := types.NewNetwork(types.NetworkTestnet, node.URL)
	require.NoError(t, err)

	return wallet.NewBurner(log.NewNopLogger(), client, network, key, gasBudget), node
}

func Test_CurrentAccount(t *testing.T) {
	key := newKey(t)

	w, _ := setup(t, key)
	addr, ok := w.CurrentAccount(context.Background())
	require.True(t, ok)
	require.Equal(t, key.Address(), addr)

	w, _ = setup(t, nil)
	_, ok = w.CurrentAccount(context.Background())
	require.False(t, ok)
}

func Test_SignAndExecute(t *testing.T) {
	key := newKey(t)
	w, node := setup(t, key)

	call := types.NewIncreaseCall("0x1", "0xc0", 5)
	txBytes := buildTx(t, key.Address(), call, gasBudget)

	var signer string
	handleMoveCall(node, txBytes, &signer)

	var sigs []string
	node.Handle(ledger.MethodExecuteTransactionBlock, func(params []json.RawMessage) (any, *testutil.RPCError) {
		_ = json.Unmarshal(params[1], &sigs)
		return map[string]any{"digest": "digA"}, nil
	})

	res, err := w.SignAndExecute(context.Background(), call, "sui:testnet")
	require.NoError(t, err)
	require.Equal(t, "digA", res.Digest)
	require.Equal(t, key.Address().String(), signer)

	require.Len(t, sigs, 1)
	sig, err := base64.StdEncoding.DecodeString(sigs[0])
	require.NoError(t, err)
	require.Len(t, sig, 1+ed25519.SignatureSize+ed25519.PublicKeySize)
	require.Equal(t, keyring.Ed25519Flag, sig[0])
	require.Equal(t, []byte(key.PubKey()), sig[1+ed25519.SignatureSize:])

	digest := keyring.IntentDigest(txBytes)
	require.True(t, ed25519.Verify(key.PubKey(), digest[:], sig[1:1+ed25519.SignatureSize]))
}

func Test_SignAndExecuteRejects(t *testing.T) {
	testCases := []struct {
		name    string
		key     bool
		chainID string
		err     error
	}{
		{name: "no account", key: false, chainID: "sui:testnet", err: types.ErrNoAccount},
		{name: "other chain", key: true, chainID: "sui:mainnet", err: types.ErrChainMismatch},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var key *keyring.Key
			if tc.key {
				key = newKey(t)
			}

			w, node := setup(t, key)
			_, err := w.SignAndExecute(context.Background(), types.NewCreateCall("0x1", 0), tc.chainID)
			require.ErrorIs(t, err, tc.err)
			require.Zero(t, node.Calls(ledger.MethodMoveCall))
		})
	}
}

func Test_SignAndExecuteNodeRejects(t *testing.T) {
	w, node := setup(t, newKey(t))
	node.Handle(ledger.MethodMoveCall, func([]json.RawMessage) (any, *testutil.RPCError) {
		return nil, &testutil.RPCError{Code: -32002, Message: "InsufficientGas"}
	})

	_, err := w.SignAndExecute(context.Background(), types.NewCreateCall("0x1", 0), "sui:testnet")
	require.ErrorContains(t, err, "InsufficientGas")
	require.Zero(t, node.Calls(ledger.MethodExecuteTransactionBlock))
}

func Test_SignAndExecuteRefusesOtherTransaction(t *testing.T) {
	key := newKey(t)
	call := types.NewIncreaseCall("0x1", "0xc0", 5)

	testCases := []struct {
		name    string
		txBytes []byte
		errMsg  string
	}{
		{"other amount", buildTx(t, key.Address(), types.NewIncreaseCall("0x1", "0xc0", 500), gasBudget), "argument 1"},
		{"other counter", buildTx(t, key.Address(), types.NewIncreaseCall("0x1", "0xc1", 5), gasBudget), "argument 0"},
		{"other package", buildTx(t, key.Address(), types.NewIncreaseCall("0x2", "0xc0", 5), gasBudget), "target"},
		{"other sender", buildTx(t, "0xbad", call, gasBudget), "sender"},
		{"other gas budget", buildTx(t, key.Address(), call, 10*gasBudget), "gas budget"},
		{"not a transaction", []byte{0x00, 0x01, 0x02, 0x03}, "decode transaction data"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, node := setup(t, key)
			handleMoveCall(node, tc.txBytes, nil)

			_, err := w.SignAndExecute(context.Background(), call, "sui:testnet")
			require.ErrorIs(t, err, types.ErrSubmission)
			require.ErrorContains(t, err, tc.errMsg)
			require.Zero(t, node.Calls(ledger.MethodExecuteTransactionBlock))
		})
	}
}
