package flows

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/authflow/internal/logging"
)

type event string

type stepper interface {
	comparable
	fmt.Stringer
}

type edge[S comparable] struct {
	from S
	ev   event
}

// table maps (step, event) to the next step. Pairs that are absent are
// illegal.
type table[S comparable] map[edge[S]]S

// ticket identifies one in-flight submission.
type ticket struct {
	gen uint64
	ev  event
}

// machine holds the state every flow shares: the current step, the pending
// flag and the generation that invalidates in-flight submissions.
type machine[S stepper] struct {
	mu      sync.Mutex
	name    string
	step    S
	pending bool
	gen     uint64
	edges   table[S]
	log     logging.Logger
}

func newMachine[S stepper](name string, initial S, edges table[S], log logging.Logger) *machine[S] {
	return &machine[S]{name: name, step: initial, edges: edges, log: logging.OrNop(log).With("flow", name)}
}

func (m *machine[S]) current() S {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

// begin reserves the flow for a submission that, on success, fires ev.
// prepare runs under the lock and may capture form state for the request.
func (m *machine[S]) begin(ev event, prepare func()) (ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending {
		return ticket{}, ErrSubmissionPending
	}
	if _, ok := m.edges[edge[S]{m.step, ev}]; !ok {
		return ticket{}, fmt.Errorf("%w: %s at %s", ErrIllegalTransition, ev, m.step)
	}
	m.pending = true
	if prepare != nil {
		prepare()
	}
	return ticket{gen: m.gen, ev: ev}, nil
}

// abort ends a submission that failed. The step never changes; a ticket
// from an older generation yields ErrStale instead of cause.
func (m *machine[S]) abort(t ticket, cause error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.gen != m.gen {
		return ErrStale
	}
	m.pending = false
	return cause
}

// advance ends a successful submission. commit runs under the lock before
// the step moves and may veto the transition by returning an error.
func (m *machine[S]) advance(ctx context.Context, t ticket, commit func() error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.gen != m.gen {
		return ErrStale
	}
	m.pending = false
	if commit != nil {
		if err := commit(); err != nil {
			return err
		}
	}
	from := m.step
	m.step = m.edges[edge[S]{from, t.ev}]
	m.log.Debug(ctx, "step", "event", string(t.ev), "from", from.String(), "to", m.step.String())
	return nil
}

// back fires a transition that needs no round trip. Any in-flight
// submission is superseded.
func (m *machine[S]) back(ev event, reset func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next, ok := m.edges[edge[S]{m.step, ev}]
	if !ok {
		return fmt.Errorf("%w: %s at %s", ErrIllegalTransition, ev, m.step)
	}
	m.gen++
	m.pending = false
	m.step = next
	if reset != nil {
		reset()
	}
	return nil
}

// close invalidates every in-flight submission.
func (m *machine[S]) close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.pending = false
}

// locked runs fn under the machine lock; used for form-state getters.
func (m *machine[S]) locked(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn()
}
