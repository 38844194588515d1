package client

import (
	"fmt"

	"github.com/thinkhaus/corpus/pkg/analysis"
)

// Kind names a processing state.
type Kind string

const (
	KindIdle       Kind = "idle"
	KindValidating Kind = "validating"
	KindUploading  Kind = "uploading"
	KindStreaming  Kind = "streaming"
	KindSucceeded  Kind = "succeeded"
	KindFailed     Kind = "failed"
)

// State is a snapshot of where processing stands. Exactly the fields for
// the current Kind are populated: Phase/Progress/Status while streaming,
// Result on success, Err on failure.
type State struct {
	Kind Kind

	Phase    analysis.Phase
	Progress float64
	Status   string

	Result *Result

	Err error
}

// Terminal reports whether no further state changes can occur.
func (s State) Terminal() bool {
	return s.Kind == KindSucceeded || s.Kind == KindFailed
}

// StateFunc receives every state change, in order, synchronously.
type StateFunc func(State)

// CanTransition reports whether a state change from one kind to another
// is legal. Failure is reachable from every non-terminal working state;
// terminal states have no exits.
func CanTransition(from, to Kind) bool {
	switch from {
	case KindIdle:
		return to == KindValidating
	case KindValidating:
		return to == KindUploading || to == KindFailed
	case KindUploading:
		return to == KindStreaming || to == KindFailed
	case KindStreaming:
		return to == KindStreaming || to == KindSucceeded || to == KindFailed
	default:
		return false
	}
}

// machine enforces the state transition rules and forwards each change to
// the observer.
type machine struct {
	current State
	onState StateFunc
}

func newMachine(onState StateFunc) *machine {
	if onState == nil {
		onState = func(State) {}
	}
	return &machine{
		current: State{Kind: KindIdle},
		onState: onState,
	}
}

func (m *machine) to(next State) error {
	if !CanTransition(m.current.Kind, next.Kind) {
		return fmt.Errorf("invalid state transition: %s -> %s", m.current.Kind, next.Kind)
	}
	m.current = next
	m.onState(next)
	return nil
}

// fail moves to the failed state and returns err for the caller to
// propagate. A transition violation at this point is a programming error.
func (m *machine) fail(err error) error {
	_ = m.to(State{Kind: KindFailed, Err: err})
	return err
}
