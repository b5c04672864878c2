package workspace

import (
	"sync"
	"time"

	"github.com/KaramelBytes/vibewriter/internal/logging"
	"github.com/phuslu/log"
)

// Policy holds the snapshot limits.
type Policy struct {
	MaxSnapshotsPerDocument   int
	AutoSnapshotInterval      time.Duration
	AutoSnapshotMinTextLength int
}

// DefaultPolicy returns the stock snapshot limits.
func DefaultPolicy() Policy {
	return Policy{
		MaxSnapshotsPerDocument:   50,
		AutoSnapshotInterval:      2 * time.Minute,
		AutoSnapshotMinTextLength: 120,
	}
}

// Store is the single owner of workspace state. Every mutation runs under one
// lock, so mutations never interleave, and readers only ever see copies.
type Store struct {
	mu       sync.Mutex
	state    State
	clock    Clock
	newID    IDFunc
	policy   Policy
	logger   *log.Logger
	onChange func(State)
}

// Option configures a Store.
type Option func(*Store)

// WithClock injects the time source.
func WithClock(c Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithIDFunc injects the id generator.
func WithIDFunc(f IDFunc) Option {
	return func(s *Store) {
		if f != nil {
			s.newID = f
		}
	}
}

// WithPolicy overrides the snapshot limits. Zero fields keep their defaults.
func WithPolicy(p Policy) Option {
	return func(s *Store) {
		if p.MaxSnapshotsPerDocument > 0 {
			s.policy.MaxSnapshotsPerDocument = p.MaxSnapshotsPerDocument
		}
		if p.AutoSnapshotInterval > 0 {
			s.policy.AutoSnapshotInterval = p.AutoSnapshotInterval
		}
		if p.AutoSnapshotMinTextLength > 0 {
			s.policy.AutoSnapshotMinTextLength = p.AutoSnapshotMinTextLength
		}
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = logging.OrNop(l) }
}

// WithOnChange registers a hook called with a copy of the state after every
// successful mutation. The hook runs while the store is locked and must not
// call back into the store; hand the state to something asynchronous.
func WithOnChange(fn func(State)) Option {
	return func(s *Store) { s.onChange = fn }
}

// NewStore wraps an initial state.
func NewStore(initial State, opts ...Option) *Store {
	s := &Store{
		state:  normalize(initial),
		clock:  SystemClock,
		newID:  NewID,
		policy: DefaultPolicy(),
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the active snapshot limits.
func (s *Store) Policy() Policy { return s.policy }

// Now returns the store's current time.
func (s *Store) Now() time.Time { return s.clock.Now() }

// NewID returns a fresh id from the store's generator. It must not be called
// from inside Transform or Read.
func (s *Store) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newID()
}

// State returns a copy of the whole workspace.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Replace swaps in a new state wholesale, as done after an import.
func (s *Store) Replace(next State) {
	s.mutate(func(st *State) bool {
		*st = normalize(next)
		return true
	})
}

// Transform replaces the state with fn(current) atomically. fn receives a copy
// and must not call back into the store.
func (s *Store) Transform(fn func(current State) State) {
	s.mutate(func(st *State) bool {
		*st = normalize(fn(st.Clone()))
		return true
	})
}

// Read runs fn against the live state under the lock. fn must not retain or
// modify anything it is given.
func (s *Store) Read(fn func(st State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

// mutate applies fn atomically. fn reports whether it changed anything; only
// then is the change hook notified.
func (s *Store) mutate(fn func(st *State) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !fn(&s.state) {
		return false
	}
	if s.onChange != nil {
		s.onChange(s.state.Clone())
	}
	return true
}

// normalize copies st (which also turns nil collections into empty ones) and
// enforces that the secondary slot is only held in split mode.
func normalize(st State) State {
	st = st.Clone()
	if !st.SplitMode {
		st.ActiveDocumentIDSecondary = ""
	}
	return st
}
