package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	metrics "github.com/hashicorp/go-metrics"

	"github.com/initia-labs/counterd/x/counter/types"
)

// Outcome is the terminal result of one attempt.
type Outcome struct {
	AttemptID uint64
	Action    Action
	Phase     Phase
	Digest    string
	CounterID types.Address
	Err       error

	// Stale is set when a later attempt was dispatched before this one
	// finished; its result was not written to the view.
	Stale bool
}

// Succeeded reports whether the transaction settled on chain.
func (o Outcome) Succeeded() bool {
	return o.Phase == PhaseSucceeded
}

// MarshalJSON implements json.Marshaler.
func (o Outcome) MarshalJSON() ([]byte, error) {
	out := struct {
		AttemptID uint64 `json:"attempt_id"`
		Action    Action `json:"action"`
		Phase     string `json:"phase"`
		Digest    string `json:"digest,omitempty"`
		CounterID string `json:"counter_id,omitempty"`
		Error     string `json:"error,omitempty"`
		Stale     bool   `json:"stale,omitempty"`
	}{
		AttemptID: o.AttemptID,
		Action:    o.Action,
		Phase:     o.Phase.String(),
		Digest:    o.Digest,
		CounterID: o.CounterID.String(),
		Stale:     o.Stale,
	}
	if o.Err != nil {
		out.Error = o.Err.Error()
	}

	return json.Marshal(out)
}

// Workflow drives the validate, submit, confirm and extract sequence of the
// create and increase actions.
type Workflow struct {
	logger  log.Logger
	wallet  types.WalletConnector
	ledger  types.LedgerClient
	network types.NetworkSelector
	view    *View

	responseOptions types.ResponseOptions
}

// NewWorkflow returns a workflow writing its results to view.
func NewWorkflow(
	logger log.Logger,
	wallet types.WalletConnector,
	ledger types.LedgerClient,
	network types.NetworkSelector,
	view *View,
) *Workflow {
	return &Workflow{
		logger:          logger.With("module", "x/"+types.ModuleName),
		wallet:          wallet,
		ledger:          ledger,
		network:         network,
		view:            view,
		responseOptions: types.DefaultResponseOptions(),
	}
}

// View returns the view the workflow writes to.
func (w *Workflow) View() *View {
	return w.view
}

// Create calls <package>::counter::create with the init value of the view
// and, on success, records the created counter id.
func (w *Workflow) Create(ctx context.Context) Outcome {
	return w.run(ctx, ActionCreate, func(in types.UIState) (types.CallDescriptor, error) {
		if err := types.ValidateAddress("package id", in.PackageID); err != nil {
			return types.CallDescriptor{}, err
		}

		return types.NewCreateCall(types.Address(in.PackageID), in.InitValue), nil
	})
}

// Increase calls <package>::counter::increase on the counter of the view.
func (w *Workflow) Increase(ctx context.Context) Outcome {
	return w.run(ctx, ActionIncrease, func(in types.UIState) (types.CallDescriptor, error) {
		if err := types.ValidateAddress("package id", in.PackageID); err != nil {
			return types.CallDescriptor{}, err
		}
		if err := types.ValidateAddress("counter id", in.CounterID); err != nil {
			return types.CallDescriptor{}, err
		}

		return types.NewIncreaseCall(types.Address(in.PackageID), types.Address(in.CounterID), in.IncrementAmount), nil
	})
}

type attempt struct {
	logger  log.Logger
	outcome Outcome
}

func (a *attempt) transition(to Phase) {
	if !CanTransition(a.outcome.Phase, to) {
		// unreachable unless run is changed
		panic("invalid transition " + a.outcome.Phase.String() + " -> " + to.String())
	}

	a.logger.Debug("attempt transition", "from", a.outcome.Phase, "to", to)
	a.outcome.Phase = to
}

func (w *Workflow) run(ctx context.Context, action Action, build func(types.UIState) (types.CallDescriptor, error)) Outcome {
	start := time.Now()
	id, in := w.view.begin()

	a := &attempt{
		logger:  w.logger.With("action", action, "attempt", id),
		outcome: Outcome{AttemptID: id, Action: action, Phase: PhaseIdle},
	}

	labels := []metrics.Label{{Name: "action", Value: string(action)}}
	metrics.IncrCounterWithLabels([]string{types.ModuleName, "attempt"}, 1, labels)
	defer metrics.MeasureSinceWithLabels([]string{types.ModuleName, "attempt", "duration"}, start, labels)

	a.transition(PhaseValidating)
	call, err := build(in)
	if err != nil {
		return w.fail(a, err, err.Error())
	}

	a.transition(PhaseSubmitting)
	a.logger.Info("submitting call", "target", call.Target.String(), "args", call.Arguments)

	res, err := w.wallet.SignAndExecute(ctx, call, w.network.ChainID())
	if err != nil {
		return w.fail(a, errorsmod.Wrap(types.ErrSubmission, err.Error()), err.Error())
	}
	if res.Digest == "" {
		err := errorsmod.Wrap(types.ErrSubmission, "wallet returned an empty digest")
		return w.fail(a, err, err.Error())
	}
	a.outcome.Digest = res.Digest

	a.transition(PhaseConfirming)
	a.logger.Info("waiting for transaction", "digest", res.Digest)

	payload, err := w.ledger.WaitForTransaction(ctx, res.Digest, w.responseOptions)
	if err != nil {
		wrapped := err
		if !errors.Is(err, types.ErrConfirmationTimeout) {
			wrapped = errorsmod.Wrap(types.ErrConfirmation, err.Error())
		}
		return w.fail(a, wrapped, err.Error())
	}

	a.transition(PhaseSucceeded)
	a.logger.Debug("full tx result", "payload", string(payload.Raw))
	if payload.Effects != nil && !payload.Effects.Succeeded() {
		a.logger.Error("transaction settled with failed effects", "digest", res.Digest, "status", payload.Effects.Status.Status, "error", payload.Effects.Status.Error)
	}

	if action != ActionCreate {
		a.outcome.Stale = !w.view.apply(id, func(s *types.UIState) {
			s.LastDigest = res.Digest
		})
		a.logger.Info("transaction confirmed", "digest", res.Digest, "stale", a.outcome.Stale)
		return a.outcome
	}

	counterID, found := payload.FindCreated(types.CounterTypeSuffix)
	if !found {
		a.outcome.Err = errorsmod.Wrapf(types.ErrCreatedObjectNotFound, "digest %s", res.Digest)
		a.outcome.Stale = !w.view.apply(id, func(s *types.UIState) {
			s.LastDigest = res.Digest
			s.ErrorMessage = types.ErrCreatedObjectNotFound.Error()
		})
		a.logger.Error("created counter not found", "digest", res.Digest, "object_changes", len(payload.ObjectChanges))
		return a.outcome
	}

	a.outcome.CounterID = counterID
	a.outcome.Stale = !w.view.apply(id, func(s *types.UIState) {
		s.LastDigest = res.Digest
		s.CounterID = counterID.String()
	})
	a.logger.Info("counter created", "digest", res.Digest, "counter_id", counterID, "stale", a.outcome.Stale)
	return a.outcome
}

// fail moves the attempt to PhaseFailed and shows message to the user.
func (w *Workflow) fail(a *attempt, err error, message string) Outcome {
	failedAt := a.outcome.Phase
	a.transition(PhaseFailed)
	a.outcome.Err = err

	metrics.IncrCounterWithLabels([]string{types.ModuleName, "attempt", "failed"}, 1, []metrics.Label{
		{Name: "action", Value: string(a.outcome.Action)},
		{Name: "phase", Value: failedAt.String()},
	})

	a.outcome.Stale = !w.view.apply(a.outcome.AttemptID, func(s *types.UIState) {
		s.ErrorMessage = message
	})
	a.logger.Error("attempt failed", "phase", failedAt, "error", message, "stale", a.outcome.Stale)
	return a.outcome
}
