package engine

import (
	"errors"
	"io"
	"log"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/model"
)

// ErrInvalidGesture marks a gesture whose input resolved to non-finite or
// out-of-domain coordinates. Mutations failing with it are dropped.
var ErrInvalidGesture = errors.New("invalid gesture input")

// Mutation proposes a change to a working copy of the state. Returning an
// error drops the whole mutation.
type Mutation func(s *model.State) error

// Change is delivered to subscribers after every successful mutation
type Change struct {
	State  model.State
	Origin model.Origin
	// Repaired is true when a degenerate range had to be replaced
	Repaired bool
}

// Listener receives state changes
type Listener func(Change)

type pendingMutation struct {
	origin model.Origin
	fn     Mutation
}

// Store owns the synchronized state. Every write goes through Mutate, which
// enforces the invariants before any subscriber observes the new state.
//
// Store is not safe for concurrent use; all calls are expected to come from
// a single event loop.
type Store struct {
	state   model.State
	initial model.State

	listeners map[int]Listener
	order     []int
	nextID    int

	notifying bool
	queue     []pendingMutation

	logger *log.Logger
}

// Option configures a Store
type Option func(*Store)

// WithLogger routes store diagnostics to l
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a store whose initial configuration is enforced once
func NewStore(initial model.State, opts ...Option) *Store {
	s := &Store{
		listeners: make(map[int]Listener),
		logger:    log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.initial = Enforce(initial)
	s.state = s.initial.Clone()
	return s
}

// Snapshot returns a deep copy of the current state
func (s *Store) Snapshot() model.State {
	return s.state.Clone()
}

// Initial returns the configuration restored by Reset
func (s *Store) Initial() model.State {
	return s.initial.Clone()
}

// SetInitial changes the configuration restored by Reset. It does not
// mutate the current state.
func (s *Store) SetInitial(initial model.State) {
	s.initial = Enforce(initial)
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.order = append(s.order, id)
	return func() {
		delete(s.listeners, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

// Mutate applies fn, repairs and enforces the result, commits it and
// notifies subscribers. It returns false when fn rejected the input.
//
// A Mutate call made from inside a listener is queued and applied after the
// current broadcast finishes, so two mutations never interleave. Queued
// calls report true.
func (s *Store) Mutate(origin model.Origin, fn Mutation) bool {
	if s.notifying {
		s.queue = append(s.queue, pendingMutation{origin: origin, fn: fn})
		return true
	}

	ok := s.apply(origin, fn)
	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.apply(next.origin, next.fn)
	}
	return ok
}

func (s *Store) apply(origin model.Origin, fn Mutation) bool {
	work := s.state.Clone()
	if err := fn(&work); err != nil {
		s.logger.Printf("dropped %s mutation: %v", origin, err)
		return false
	}

	work, repaired := Repair(s.state, work)
	if repaired {
		s.logger.Printf("repaired degenerate range in %s mutation", origin)
	}
	s.state = Enforce(work)

	s.notify(Change{State: s.state, Origin: origin, Repaired: repaired})
	return true
}

func (s *Store) notify(c Change) {
	s.notifying = true
	defer func() { s.notifying = false }()

	ids := make([]int, len(s.order))
	copy(ids, s.order)
	for _, id := range ids {
		fn, ok := s.listeners[id]
		if !ok {
			continue
		}
		fn(Change{State: c.State.Clone(), Origin: c.Origin, Repaired: c.Repaired})
	}
}

// Reset restores the initial overview, selection and detail in a single
// mutation.
func (s *Store) Reset(origin model.Origin) {
	initial := s.initial.Clone()
	s.Mutate(origin, func(st *model.State) error {
		*st = initial
		return nil
	})
}

// Replace installs next as the whole state in a single mutation
func (s *Store) Replace(origin model.Origin, next model.State) bool {
	next = next.Clone()
	return s.Mutate(origin, func(st *model.State) error {
		*st = next
		return nil
	})
}
