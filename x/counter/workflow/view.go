package workflow

import (
	"sync"

	"github.com/initia-labs/counterd/x/counter/types"
)

// View owns the UIState. User input may change it at any time; attempts
// change it only while they are the latest dispatched attempt, so a slow
// attempt never overwrites the result of one dispatched after it.
type View struct {
	mu     sync.Mutex
	state  types.UIState
	latest uint64

	nextSub int
	subs    map[int]chan types.UIState
}

// NewView returns a view starting from state.
func NewView(state types.UIState) *View {
	return &View{
		state: state,
		subs:  make(map[int]chan types.UIState),
	}
}

// Snapshot returns a copy of the current state.
func (v *View) Snapshot() types.UIState {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.state
}

// Update applies user input.
func (v *View) Update(fn func(*types.UIState)) types.UIState {
	v.mu.Lock()
	defer v.mu.Unlock()

	fn(&v.state)
	v.publish()
	return v.state
}

// Subscribe returns a channel receiving the state after every change. The
// channel keeps only the newest state when the reader falls behind.
func (v *View) Subscribe() (<-chan types.UIState, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := v.nextSub
	v.nextSub++
	ch := make(chan types.UIState, 1)
	v.subs[id] = ch

	return ch, func() {
		v.mu.Lock()
		defer v.mu.Unlock()

		if sub, ok := v.subs[id]; ok {
			delete(v.subs, id)
			close(sub)
		}
	}
}

// begin dispatches a new attempt: it clears the previous error and returns
// the attempt id with the inputs the attempt works on.
func (v *View) begin() (uint64, types.UIState) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.latest++
	v.state.ErrorMessage = ""
	v.publish()
	return v.latest, v.state
}

// apply runs fn when id is still the latest attempt and reports whether it did.
func (v *View) apply(id uint64, fn func(*types.UIState)) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if id != v.latest {
		return false
	}

	fn(&v.state)
	v.publish()
	return true
}

// publish must be called with mu held.
func (v *View) publish() {
	for _, ch := range v.subs {
		select {
		case <-ch:
		default:
		}
		ch <- v.state
	}
}
