package workflow

import "fmt"

// Phase is the state of one submission attempt.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseSubmitting
	PhaseConfirming
	PhaseSucceeded
	PhaseFailed
)

var phaseNames = map[Phase]string{
	PhaseIdle:       "idle",
	PhaseValidating: "validating",
	PhaseSubmitting: "submitting",
	PhaseConfirming: "confirming",
	PhaseSucceeded:  "succeeded",
	PhaseFailed:     "failed",
}

// String implements fmt.Stringer.
func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}

	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// allowed lists the transitions of an attempt.
var allowed = map[Phase][]Phase{
	PhaseIdle:       {PhaseValidating},
	PhaseValidating: {PhaseSubmitting, PhaseFailed},
	PhaseSubmitting: {PhaseConfirming, PhaseFailed},
	PhaseConfirming: {PhaseSucceeded, PhaseFailed},
}

// CanTransition reports whether from -> to is a valid transition.
func CanTransition(from, to Phase) bool {
	for _, next := range allowed[from] {
		if next == to {
			return true
		}
	}

	return false
}

// Action is the user action an attempt was dispatched for.
type Action string

const (
	ActionCreate   Action = "create"
	ActionIncrease Action = "increase"
)
