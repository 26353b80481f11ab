package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/danmuck/qsort_viz/src/sorter"
	"github.com/danmuck/qsort_viz/src/trace"
	"github.com/google/uuid"
)

var (
	ErrCursorOutOfRange = errors.New("cursor out of range")
	ErrNoTrace          = errors.New("session has no trace")
)

// SortSession owns one finished trace and the playback cursor over it.
// The trace is read-only; only the cursor moves, under mu.
type SortSession struct {
	id    string
	input []float64
	trace *trace.Trace

	mu     sync.Mutex
	cursor int
}

type options struct {
	source sorter.PivotSource
}

type Option func(*options)

// WithPivotSource sorts with src instead of the process-wide random source.
func WithPivotSource(src sorter.PivotSource) Option {
	return func(o *options) { o.source = src }
}

// New sorts values and returns a session positioned on the first snapshot.
// Invalid values, or more than MaxArraySize of them, return a
// *sorter.InvalidInputError.
func New(values []float64, opts ...Option) (*SortSession, error) {
	if err := CheckSize(values); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	tr, err := sorter.New(o.source).Sort(values)
	if err != nil {
		return nil, err
	}

	return newSession(values, tr), nil
}

// FromTrace wraps a trace produced elsewhere, such as one received from a
// trace server. The trace must hold at least one snapshot.
func FromTrace(values []float64, tr *trace.Trace) (*SortSession, error) {
	if err := CheckSize(values); err != nil {
		return nil, err
	}
	if tr.Len() == 0 {
		return nil, ErrNoTrace
	}
	return newSession(values, tr), nil
}

func newSession(values []float64, tr *trace.Trace) *SortSession {
	return &SortSession{
		id:    uuid.Must(uuid.NewV7()).String(),
		input: append(make([]float64, 0, len(values)), values...),
		trace: tr,
	}
}

func (s *SortSession) ID() string {
	return s.id
}

// Trace returns the session's read-only trace.
func (s *SortSession) Trace() *trace.Trace {
	return s.trace
}

// Input returns a copy of the values the session was created from.
func (s *SortSession) Input() []float64 {
	return append(make([]float64, 0, len(s.input)), s.input...)
}

func (s *SortSession) Len() int {
	return s.trace.Len()
}

func (s *SortSession) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Current returns the snapshot under the cursor.
func (s *SortSession) Current() (trace.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Next advances one step. It returns false when already on the last step.
func (s *SortSession) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor >= s.trace.Len()-1 {
		return false
	}
	s.cursor++
	return true
}

// Prev steps back once. It returns false when already on the first step.
func (s *SortSession) Prev() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor <= 0 {
		return false
	}
	s.cursor--
	return true
}

func (s *SortSession) First() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = 0
}

func (s *SortSession) Last() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = max(s.trace.Len()-1, 0)
}

// Seek moves the cursor to index.
func (s *SortSession) Seek(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= s.trace.Len() {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrCursorOutOfRange, index, s.trace.Len())
	}
	s.cursor = index
	return nil
}

// AtEnd reports whether the cursor is on the final, sorted snapshot.
func (s *SortSession) AtEnd() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor >= s.trace.Len()-1
}

// step advances and returns the new snapshot, or false at the end.
func (s *SortSession) step() (int, trace.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor >= s.trace.Len()-1 {
		return s.cursor, trace.Snapshot{}, false
	}
	s.cursor++
	snap, err := s.snapshotLocked()
	if err != nil {
		return s.cursor, trace.Snapshot{}, false
	}
	return s.cursor, snap, true
}

func (s *SortSession) snapshotLocked() (trace.Snapshot, error) {
	if s.trace.Len() == 0 {
		return trace.Snapshot{}, ErrNoTrace
	}
	snap, ok := s.trace.Get(s.cursor)
	if !ok {
		return trace.Snapshot{}, fmt.Errorf("%w: %d", ErrCursorOutOfRange, s.cursor)
	}
	return snap, nil
}
