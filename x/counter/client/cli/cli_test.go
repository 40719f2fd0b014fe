package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/initia-labs/counterd/client/ledger"
	nodetestutil "github.com/initia-labs/counterd/client/testutil"
	"github.com/initia-labs/counterd/x/counter/client/cli"
	"github.com/initia-labs/counterd/x/counter/testutil"
	"github.com/initia-labs/counterd/x/counter/types"
	"github.com/initia-labs/counterd/x/counter/workflow"
)

const chainID = "sui:testnet"

type testApp struct {
	wf      *workflow.Workflow
	wallet  *testutil.MockWalletConnector
	ledger  *ledger.Client
	network types.Network
	saved   []types.UIState
	closed  bool
}

func (a *testApp) Workflow() *workflow.Workflow { return a.wf }
func (a *testApp) Wallet() types.WalletConnector { return a.wallet }
func (a *testApp) Ledger() *ledger.Client { return a.ledger }
func (a *testApp) Network() types.Network { return a.network }
func (a *testApp) Close() { a.closed = true }
func (a *testApp) SaveState() error {
	a.saved = append(a.saved, a.wf.View().Snapshot())
	return nil
}

type fixture struct {
	app    *testApp
	wallet *testutil.MockWalletConnector
	ledger *testutil.MockLedgerClient
}

func setup(t *testing.T, state types.UIState) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		wallet: testutil.NewMockWalletConnector(ctrl),
		ledger: testutil.NewMockLedgerClient(ctrl),
	}
	network := types.Network{Name: types.NetworkTestnet}
	wf := workflow.NewWorkflow(log.NewNopLogger(), f.wallet, f.ledger, network, workflow.NewView(state))
	f.app = &testApp{wf: wf, wallet: f.wallet, network: network}
	return f
}

func (f fixture) creator(cmd *cobra.Command) (cli.App, error) {
	return f.app, nil
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func decodeOutcome(t *testing.T, out string) map[string]any {
	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	return res
}

func Test_ParseU64(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  uint64
		err   bool
	}{
		{name: "zero", input: "0", want: 0},
		{name: "max", input: "18446744073709551615", want: 18446744073709551615},
		{name: "overflow", input: "18446744073709551616", err: true},
		{name: "negative", input: "-1", err: true},
		{name: "decimal", input: "1.5", err: true},
		{name: "empty", input: "", err: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := cli.ParseU64("amount", tc.input)
			if tc.err {
				require.ErrorIs(t, err, types.ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, v)
		})
	}
}

func Test_CreateCmd(t *testing.T) {
	f := setup(t, types.DefaultUIState("0xaaaa"))

	f.wallet.EXPECT().
		SignAndExecute(gomock.Any(), types.NewCreateCall("0xaaaa", 10), chainID).
		Return(types.SubmissionResult{Digest: "digA"}, nil).
		Times(1)
	f.ledger.EXPECT().
		WaitForTransaction(gomock.Any(), "digA", types.DefaultResponseOptions()).
		Return(types.ConfirmationPayload{
			Digest: "digA",
			ObjectChanges: []types.ObjectChange{
				{Kind: "created", ObjectType: "0xaaaa::counter::Counter", ObjectID: "0xcccc"},
			},
		}, nil).
		Times(1)

	out, err := execute(t, cli.CreateCmd(f.creator), "10")
	require.NoError(t, err)

	res := decodeOutcome(t, out)
	require.Equal(t, "succeeded", res["phase"])
	require.Equal(t, "digA", res["digest"])
	require.Equal(t, "0xcccc", res["counter_id"])

	require.True(t, f.app.closed)
	require.Len(t, f.app.saved, 1)
	require.Equal(t, uint64(10), f.app.saved[0].InitValue)
	require.Equal(t, "0xcccc", f.app.saved[0].CounterID)
	require.Equal(t, "digA", f.app.saved[0].LastDigest)
}

func Test_CreateCmdInvalidInitValue(t *testing.T) {
	f := setup(t, types.DefaultUIState("0xaaaa"))

	_, err := execute(t, cli.CreateCmd(f.creator), "ten")
	require.ErrorIs(t, err, types.ErrInvalidAmount)
	require.Empty(t, f.app.saved)
}

func Test_CreateCmdFailureIsPersisted(t *testing.T) {
	f := setup(t, types.DefaultUIState("0xaaaa"))

	f.wallet.EXPECT().
		SignAndExecute(gomock.Any(), gomock.Any(), chainID).
		Return(types.SubmissionResult{}, errors.New("User rejected the request")).
		Times(1)

	out, err := execute(t, cli.CreateCmd(f.creator))
	require.ErrorIs(t, err, types.ErrSubmission)

	res := decodeOutcome(t, out)
	require.Equal(t, "failed", res["phase"])

	require.Len(t, f.app.saved, 1)
	require.Equal(t, "User rejected the request", f.app.saved[0].ErrorMessage)
	require.Empty(t, f.app.saved[0].LastDigest)
}

func Test_IncreaseCmd(t *testing.T) {
	f := setup(t, types.DefaultUIState("0xaaaa"))

	f.wallet.EXPECT().
		SignAndExecute(gomock.Any(), types.NewIncreaseCall("0xaaaa", "0xcccc", 5), chainID).
		Return(types.SubmissionResult{Digest: "digB"}, nil).
		Times(1)
	f.ledger.EXPECT().
		WaitForTransaction(gomock.Any(), "digB", types.DefaultResponseOptions()).
		Return(types.ConfirmationPayload{Digest: "digB"}, nil).
		Times(1)

	out, err := execute(t, cli.IncreaseCmd(f.creator), "5", "--counter-id", "0xcccc")
	require.NoError(t, err)
	require.Equal(t, "digB", decodeOutcome(t, out)["digest"])

	state := f.app.saved[0]
	require.Equal(t, uint64(5), state.IncrementAmount)
	require.Equal(t, "0xcccc", state.CounterID)
	require.Equal(t, "digB", state.LastDigest)
}

func Test_IncreaseCmdWithoutCounter(t *testing.T) {
	f := setup(t, types.DefaultUIState("0xaaaa"))

	_, err := execute(t, cli.IncreaseCmd(f.creator))
	require.ErrorIs(t, err, types.ErrInvalidAddress)
	require.Contains(t, f.app.saved[0].ErrorMessage, "counter id")
}

func Test_GetCmdState(t *testing.T) {
	f := setup(t, types.UIState{PackageID: "0xaaaa", CounterID: "0xcccc", IncrementAmount: 2, LastDigest: "digA"})

	out, err := execute(t, cli.GetCmdState(f.creator))
	require.NoError(t, err)

	var state types.UIState
	require.NoError(t, json.Unmarshal([]byte(out), &state))
	require.Equal(t, f.app.wf.View().Snapshot(), state)
}

func Test_GetCmdAccount(t *testing.T) {
	f := setup(t, types.DefaultUIState(""))

	f.wallet.EXPECT().CurrentAccount(gomock.Any()).Return(types.Address("0xabcd"), true).Times(1)
	out, err := execute(t, cli.GetCmdAccount(f.creator))
	require.NoError(t, err)
	require.JSONEq(t, `{"address": "0xabcd"}`, out)

	f.wallet.EXPECT().CurrentAccount(gomock.Any()).Return(types.Address(""), false).Times(1)
	_, err = execute(t, cli.GetCmdAccount(f.creator))
	require.ErrorIs(t, err, types.ErrNoAccount)
}

func Test_GetCmdTx(t *testing.T) {
	node := nodetestutil.NewNode(t)

	var digest string
	node.Handle(ledger.MethodGetTransactionBlock, func(params []json.RawMessage) (any, *nodetestutil.RPCError) {
		_ = json.Unmarshal(params[0], &digest)
		return map[string]any{"digest": digest, "events": []any{}}, nil
	})

	client, err := ledger.NewClient(context.Background(), log.NewNopLogger(), node.URL, time.Second, 10*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	f := setup(t, types.UIState{PackageID: "0xaaaa", LastDigest: "digA"})
	f.app.ledger = client

	// defaults to the last digest
	out, err := execute(t, cli.GetCmdTx(f.creator))
	require.NoError(t, err)
	require.Equal(t, "digA", digest)
	require.JSONEq(t, `{"digest": "digA", "events": []}`, out)

	_, err = execute(t, cli.GetCmdTx(f.creator), "digB")
	require.NoError(t, err)
	require.Equal(t, "digB", digest)
}

func Test_OutputFormat(t *testing.T) {
	f := setup(t, types.UIState{PackageID: "0xaaaa", IncrementAmount: 2})

	out, err := execute(t, cli.GetCmdState(f.creator), "-o", "text")
	require.NoError(t, err)
	require.Contains(t, out, "package_id:")
	require.Contains(t, out, "increment_amount: 2\n")
	require.NotContains(t, out, "{")

	_, err = execute(t, cli.GetCmdState(f.creator), "-o", "xml")
	require.ErrorContains(t, err, "invalid output format")
}

func Test_GetCmdNetwork(t *testing.T) {
	node := nodetestutil.NewNode(t)
	node.Handle(ledger.MethodGetChainIdentifier, func([]json.RawMessage) (any, *nodetestutil.RPCError) {
		return "4c78adac", nil
	})

	client, err := ledger.NewClient(context.Background(), log.NewNopLogger(), node.URL, time.Second, 10*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	f := setup(t, types.DefaultUIState(""))
	f.app.ledger = client
	f.app.network, err = types.NewNetwork(types.NetworkTestnet, node.URL)
	require.NoError(t, err)

	out, err := execute(t, cli.GetCmdNetwork(f.creator))
	require.NoError(t, err)
	require.JSONEq(t, `{
		"network": "testnet",
		"chain_id": "sui:testnet",
		"fullnode": "`+node.URL+`",
		"node_chain_identifier": "4c78adac"
	}`, out)

	node.Handle(ledger.MethodGetChainIdentifier, func([]json.RawMessage) (any, *nodetestutil.RPCError) {
		return nil, &nodetestutil.RPCError{Code: -32000, Message: "unavailable"}
	})
	_, err = execute(t, cli.GetCmdNetwork(f.creator))
	require.ErrorContains(t, err, "unavailable")
}
