package trace

// Highlight marks which positions of a snapshot are active.
// Nil indexes mean "no highlight" for that role.
type Highlight struct {
	PivotIndex   *int `json:"pivotIndex,omitempty"`
	CompareIndex *int `json:"compareIndex,omitempty"`
	Sorted       bool `json:"sorted,omitempty"`
}

// Pivot highlights a single pivot position.
func Pivot(index int) Highlight {
	return Highlight{PivotIndex: intPtr(index)}
}

// Compare highlights the pivot and the element currently compared against it.
func Compare(pivot, compare int) Highlight {
	return Highlight{PivotIndex: intPtr(pivot), CompareIndex: intPtr(compare)}
}

// Done marks the final, fully sorted state.
func Done() Highlight {
	return Highlight{Sorted: true}
}

// Pivot returns the pivot position, if one is highlighted.
func (h Highlight) Pivot() (int, bool) {
	if h.PivotIndex == nil {
		return 0, false
	}
	return *h.PivotIndex, true
}

// Compare returns the position being compared, if any.
func (h Highlight) Compare() (int, bool) {
	if h.CompareIndex == nil {
		return 0, false
	}
	return *h.CompareIndex, true
}

// IsEmpty reports whether nothing is highlighted.
func (h Highlight) IsEmpty() bool {
	return h.PivotIndex == nil && h.CompareIndex == nil && !h.Sorted
}

func (h Highlight) clone() Highlight {
	out := Highlight{Sorted: h.Sorted}
	if h.PivotIndex != nil {
		out.PivotIndex = intPtr(*h.PivotIndex)
	}
	if h.CompareIndex != nil {
		out.CompareIndex = intPtr(*h.CompareIndex)
	}
	return out
}

// Snapshot is the array at one instant plus what to highlight.
type Snapshot struct {
	Values    []float64 `json:"values"`
	Highlight Highlight `json:"highlight"`
}

// Clone returns a deep copy that shares no memory with s.
func (s Snapshot) Clone() Snapshot {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)
	return Snapshot{Values: values, Highlight: s.Highlight.clone()}
}

// Trace is an append-only, chronologically ordered log of snapshots.
//
// A Trace is written by exactly one sort run and is read-only afterwards,
// so concurrent readers need no locking.
type Trace struct {
	snapshots []Snapshot
}

// New returns an empty trace.
func New() *Trace {
	return &Trace{}
}

// Reset drops every recorded snapshot.
func (t *Trace) Reset() {
	t.snapshots = t.snapshots[:0]
}

// Record appends a copy of values with a copy of h.
// Later mutation of values does not affect the stored snapshot.
func (t *Trace) Record(values []float64, h Highlight) {
	t.snapshots = append(t.snapshots, Snapshot{Values: values, Highlight: h}.Clone())
}

// Get returns a copy of the snapshot at index, or false when index is out of range.
func (t *Trace) Get(index int) (Snapshot, bool) {
	if t == nil || index < 0 || index >= len(t.snapshots) {
		return Snapshot{}, false
	}
	return t.snapshots[index].Clone(), true
}

// Len returns the number of recorded snapshots. A nil trace has none.
func (t *Trace) Len() int {
	if t == nil {
		return 0
	}
	return len(t.snapshots)
}

func (t *Trace) First() (Snapshot, bool) {
	return t.Get(0)
}

func (t *Trace) Last() (Snapshot, bool) {
	return t.Get(t.Len() - 1)
}

// Snapshots returns copies of all snapshots in order.
func (t *Trace) Snapshots() []Snapshot {
	out := make([]Snapshot, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		out = append(out, t.snapshots[i].Clone())
	}
	return out
}

func intPtr(i int) *int {
	return &i
}
