package sorter

import (
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/danmuck/qsort_viz/src/trace"
	"github.com/google/go-cmp/cmp"
)

// scriptedSource returns picks in order (modulo n), repeating the last one.
type scriptedSource struct {
	picks []int
	calls int
}

func (s *scriptedSource) IntN(n int) int {
	idx := min(s.calls, len(s.picks)-1)
	s.calls++
	return s.picks[idx] % n
}

func snapshots(t *testing.T, tr *trace.Trace) []trace.Snapshot {
	t.Helper()
	if tr == nil {
		t.Fatalf("nil trace")
	}
	return tr.Snapshots()
}

func TestSortTrivialInputs(t *testing.T) {
	tests := []struct {
		name  string
		input []float64
		want  []trace.Snapshot
	}{
		{
			name:  "empty input",
			input: []float64{},
			want: []trace.Snapshot{
				{Values: []float64{}, Highlight: trace.Highlight{}},
				{Values: []float64{}, Highlight: trace.Done()},
			},
		},
		{
			name:  "nil input",
			input: nil,
			want: []trace.Snapshot{
				{Values: []float64{}, Highlight: trace.Highlight{}},
				{Values: []float64{}, Highlight: trace.Done()},
			},
		},
		{
			name:  "single element",
			input: []float64{5},
			want: []trace.Snapshot{
				{Values: []float64{5}, Highlight: trace.Highlight{}},
				{Values: []float64{5}, Highlight: trace.Done()},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr, err := Sort(tc.input)
			if err != nil {
				t.Fatalf("Sort(%v) error: %v", tc.input, err)
			}
			if diff := cmp.Diff(tc.want, snapshots(t, tr)); diff != "" {
				t.Fatalf("trace mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSortExactTraceThreeElements(t *testing.T) {
	tr, err := New(&scriptedSource{picks: []int{2}}).Sort([]float64{3, 1, 2})
	if err != nil {
		t.Fatalf("Sort error: %v", err)
	}

	want := []trace.Snapshot{
		{Values: []float64{3, 1, 2}, Highlight: trace.Highlight{}},
		{Values: []float64{3, 1, 2}, Highlight: trace.Pivot(2)},
		{Values: []float64{3, 1, 2}, Highlight: trace.Compare(2, 0)},
		{Values: []float64{3, 1, 2}, Highlight: trace.Compare(2, 1)},
		{Values: []float64{1, 3, 2}, Highlight: trace.Pivot(2)},
		{Values: []float64{1, 2, 3}, Highlight: trace.Highlight{}},
		{Values: []float64{1, 2, 3}, Highlight: trace.Done()},
	}
	if diff := cmp.Diff(want, snapshots(t, tr)); diff != "" {
		t.Fatalf("trace mismatch (-want +got):\n%s", diff)
	}
}

func TestSortDuplicatesTerminate(t *testing.T) {
	tr, err := New(&scriptedSource{picks: []int{0}}).Sort([]float64{2, 2, 2})
	if err != nil {
		t.Fatalf("Sort error: %v", err)
	}

	// strict less-than: no scan swaps, so only pivot, compare and placement steps
	want := []trace.Snapshot{
		{Values: []float64{2, 2, 2}, Highlight: trace.Highlight{}},
		{Values: []float64{2, 2, 2}, Highlight: trace.Pivot(0)},
		{Values: []float64{2, 2, 2}, Highlight: trace.Compare(2, 0)},
		{Values: []float64{2, 2, 2}, Highlight: trace.Compare(2, 1)},
		{Values: []float64{2, 2, 2}, Highlight: trace.Highlight{}},
		{Values: []float64{2, 2, 2}, Highlight: trace.Pivot(1)},
		{Values: []float64{2, 2, 2}, Highlight: trace.Compare(2, 1)},
		{Values: []float64{2, 2, 2}, Highlight: trace.Highlight{}},
		{Values: []float64{2, 2, 2}, Highlight: trace.Done()},
	}
	if diff := cmp.Diff(want, snapshots(t, tr)); diff != "" {
		t.Fatalf("trace mismatch (-want +got):\n%s", diff)
	}
}

func TestSortScenarioThreeElementsRandomPivots(t *testing.T) {
	for i := 0; i < 50; i++ {
		tr, err := Sort([]float64{3, 1, 2})
		if err != nil {
			t.Fatalf("Sort error: %v", err)
		}
		last, _ := tr.Last()
		if diff := cmp.Diff([]float64{1, 2, 3}, last.Values); diff != "" {
			t.Fatalf("final values mismatch (-want +got):\n%s", diff)
		}
		if !last.Highlight.Sorted {
			t.Fatalf("final snapshot not flagged sorted")
		}
		if tr.Len() <= 2 {
			t.Fatalf("trace length = %d, want > 2", tr.Len())
		}
	}
}

func TestSortInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input []float64
		index int
	}{
		{name: "NaN", input: []float64{1, math.NaN(), 3}, index: 1},
		{name: "positive infinity", input: []float64{math.Inf(1)}, index: 0},
		{name: "negative infinity", input: []float64{4, 5, math.Inf(-1)}, index: 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr, err := Sort(tc.input)
			if err == nil {
				t.Fatalf("Sort(%v) succeeded, want InvalidInputError", tc.input)
			}
			if tr.Len() != 0 {
				t.Fatalf("trace length = %d, want 0", tr.Len())
			}
			var iie *InvalidInputError
			if !errors.As(err, &iie) {
				t.Fatalf("error %v is not *InvalidInputError", err)
			}
			if iie.Index != tc.index {
				t.Fatalf("error index = %d, want %d", iie.Index, tc.index)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("errors.Is(err, ErrInvalidInput) = false")
			}
		})
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	input := []float64{9, 4, 7, 1}
	before := slices.Clone(input)
	tr, err := Sort(input)
	if err != nil {
		t.Fatalf("Sort error: %v", err)
	}
	if diff := cmp.Diff(before, input); diff != "" {
		t.Fatalf("input mutated (-before +after):\n%s", diff)
	}

	recorded := tr.Snapshots()
	input[0] = -100
	if diff := cmp.Diff(recorded, tr.Snapshots()); diff != "" {
		t.Fatalf("snapshots changed after input mutation (-before +after):\n%s", diff)
	}
}

// TestSortProperties checks head, tail, permutation and per-step properties
// over many random arrays.
func TestSortProperties(t *testing.T) {
	gen := rand.New(rand.NewPCG(1, 2))
	for round := 0; round < 200; round++ {
		n := gen.IntN(25)
		input := make([]float64, n)
		for i := range input {
			// small range forces duplicates
			input[i] = float64(gen.IntN(10)) - 3.5
		}

		tr, err := New(NewSeededSource(uint64(round))).Sort(input)
		if err != nil {
			t.Fatalf("round %d: Sort error: %v", round, err)
		}
		steps := tr.Snapshots()

		if n <= 1 && len(steps) != 2 {
			t.Fatalf("round %d: n=%d trace length = %d, want 2", round, n, len(steps))
		}
		if n > 1 && len(steps) <= 2 {
			t.Fatalf("round %d: n=%d trace length = %d, want > 2", round, n, len(steps))
		}

		if diff := cmp.Diff(trace.Snapshot{Values: slices.Clone(input)}, steps[0]); diff != "" && n > 0 {
			t.Fatalf("round %d: head mismatch (-want +got):\n%s", round, diff)
		}

		want := slices.Clone(input)
		slices.Sort(want)
		last := steps[len(steps)-1]
		if n > 0 {
			if diff := cmp.Diff(want, last.Values); diff != "" {
				t.Fatalf("round %d: tail not sorted (-want +got):\n%s", round, diff)
			}
		}
		if !last.Highlight.Sorted {
			t.Fatalf("round %d: tail not flagged sorted", round)
		}

		for i := 1; i < len(steps); i++ {
			assertStep(t, steps[i-1], steps[i], n)
			if i < len(steps)-1 && steps[i].Highlight.Sorted {
				t.Fatalf("round %d: step %d flagged sorted before the end", round, i)
			}
		}
	}
}

// assertStep checks that next differs from prev by at most one swap and that
// highlights point inside the array.
func assertStep(t *testing.T, prev, next trace.Snapshot, n int) {
	t.Helper()
	if len(next.Values) != n {
		t.Fatalf("snapshot length = %d, want %d", len(next.Values), n)
	}
	var changed []int
	for i := range next.Values {
		if prev.Values[i] != next.Values[i] {
			changed = append(changed, i)
		}
	}
	switch len(changed) {
	case 0:
	case 2:
		a, b := changed[0], changed[1]
		if prev.Values[a] != next.Values[b] || prev.Values[b] != next.Values[a] {
			t.Fatalf("positions %d,%d changed without a swap: %v -> %v", a, b, prev.Values, next.Values)
		}
	default:
		t.Fatalf("step changed %d positions: %v -> %v", len(changed), prev.Values, next.Values)
	}

	for _, idx := range []*int{next.Highlight.PivotIndex, next.Highlight.CompareIndex} {
		if idx != nil && (*idx < 0 || *idx >= n) {
			t.Fatalf("highlight index %d outside [0, %d)", *idx, n)
		}
	}
	if c, ok := next.Highlight.Compare(); ok {
		p, hasPivot := next.Highlight.Pivot()
		if !hasPivot || c >= p {
			t.Fatalf("compare index %d without a pivot to its right (pivot %d/%v)", c, p, hasPivot)
		}
	}
}

func TestSortPartitionShape(t *testing.T) {
	input := []float64{5, 3, 8, 1, 9, 2, 7, 3}
	tr, err := New(NewSeededSource(7)).Sort(input)
	if err != nil {
		t.Fatalf("Sort error: %v", err)
	}
	steps := tr.Snapshots()

	// unhighlighted snapshots delimit partitions: the initial state and each
	// pivot placement
	partitions := 0
	for i := 1; i < len(steps)-1; {
		chosen, ok := steps[i].Highlight.Pivot()
		if !ok || steps[i].Highlight.CompareIndex != nil {
			t.Fatalf("step %d: partition does not start with a chosen pivot: %+v", i, steps[i].Highlight)
		}
		i++

		var compares []int
		high := -1
		for ; i < len(steps)-1 && !steps[i].Highlight.IsEmpty(); i++ {
			h := steps[i].Highlight
			p, _ := h.Pivot()
			if high == -1 {
				high = p
			}
			if p != high {
				t.Fatalf("step %d: pivot moved from %d to %d mid-partition", i, high, p)
			}
			if c, ok := h.Compare(); ok {
				compares = append(compares, c)
			}
		}
		i++ // placement snapshot
		partitions++

		if len(compares) == 0 {
			t.Fatalf("partition %d recorded no comparisons", partitions)
		}
		low := compares[0]
		for k, c := range compares {
			if c != low+k {
				t.Fatalf("partition %d: comparisons %v not consecutive", partitions, compares)
			}
		}
		if compares[len(compares)-1] != high-1 {
			t.Fatalf("partition %d: last comparison %d, want %d", partitions, compares[len(compares)-1], high-1)
		}
		if chosen < low || chosen > high {
			t.Fatalf("partition %d: chosen pivot %d outside [%d, %d]", partitions, chosen, low, high)
		}
	}

	if st := tr.Stats(); st.Partitions != partitions {
		t.Fatalf("Stats().Partitions = %d, counted %d", st.Partitions, partitions)
	}
}

func TestSeededSortIsReproducible(t *testing.T) {
	input := []float64{10, -2, 33, 4, 4, 0.5, 18, 7}
	a, err := New(NewSeededSource(42)).Sort(input)
	if err != nil {
		t.Fatalf("Sort error: %v", err)
	}
	b, err := New(NewSeededSource(42)).Sort(input)
	if err != nil {
		t.Fatalf("Sort error: %v", err)
	}
	if diff := cmp.Diff(a.Snapshots(), b.Snapshots()); diff != "" {
		t.Fatalf("seeded traces differ (-a +b):\n%s", diff)
	}
}
