// Package fetch models the lifecycle of a single page data request.
package fetch

import (
	"context"
	"errors"
	"fmt"
)

// Status is the display state of a page. Exactly one applies at a time.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
	StatusEmpty
	StatusData
)

// String returns a template friendly name.
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusEmpty:
		return "empty"
	case StatusData:
		return "data"
	default:
		return "idle"
	}
}

// State holds one fetch cycle for records of type T.
type State[T any] struct {
	Pending bool
	Error   string
	Records []T
	Token   int64
	Stale   bool
	// SequenceErr is the sequencer failure, if any. The fetch itself still
	// runs and is never marked stale on such a failure.
	SequenceErr error
	started     bool
}

// Begin marks the state pending and clears any previous error.
func (s *State[T]) Begin() {
	s.started = true
	s.Pending = true
	s.Error = ""
}

// Finish records the outcome. Pending is always cleared.
func (s *State[T]) Finish(records []T, err error) {
	s.Pending = false
	if err != nil {
		s.Error = err.Error()
		s.Records = nil
		return
	}
	if records == nil {
		records = []T{}
	}
	s.Records = records
}

// Status derives the display state.
func (s *State[T]) Status() Status {
	switch {
	case s.Pending:
		return StatusLoading
	case !s.started:
		return StatusIdle
	case s.Error != "":
		return StatusError
	case len(s.Records) == 0:
		return StatusEmpty
	default:
		return StatusData
	}
}

// Run executes fn as one fetch cycle under the given sequencer scope. The
// returned state is marked Stale when a newer fetch for the same scope began
// before fn returned.
func Run[T any](ctx context.Context, seq Sequencer, scope string, fn func(context.Context) ([]T, error)) *State[T] {
	st := &State[T]{}
	st.Begin()

	if seq != nil && scope != "" {
		token, err := seq.Begin(ctx, scope)
		if err != nil {
			st.SequenceErr = fmt.Errorf("sequencer begin %s: %w", scope, err)
		}
		st.Token = token
	}

	records, err := fn(ctx)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		err = errTimeout
	}
	st.Finish(records, err)

	if seq != nil && scope != "" && st.Token > 0 {
		latest, err := seq.IsLatest(context.WithoutCancel(ctx), scope, st.Token)
		switch {
		case err != nil:
			st.SequenceErr = fmt.Errorf("sequencer check %s: %w", scope, err)
		case !latest:
			st.Stale = true
		}
	}
	return st
}

var errTimeout = errors.New("request timed out")
