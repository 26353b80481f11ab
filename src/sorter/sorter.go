package sorter

import (
	"github.com/danmuck/qsort_viz/src/trace"
	logs "github.com/danmuck/smplog"
)

// Sorter runs randomized quicksort and records every step to a trace.
type Sorter struct {
	source PivotSource
}

// New returns a Sorter drawing pivots from src, or from DefaultSource when src is nil.
func New(src PivotSource) *Sorter {
	if src == nil {
		src = DefaultSource
	}
	return &Sorter{source: src}
}

// Sort sorts a copy of input with the process-wide random source.
func Sort(input []float64) (*trace.Trace, error) {
	return New(nil).Sort(input)
}

// Sort validates input, then sorts a working copy while recording:
//
//   - the initial array, unhighlighted
//   - per partition: the chosen pivot, each comparison, each scan swap,
//     and the final pivot placement
//   - the sorted array, flagged Sorted
//
// input itself is never modified. Invalid input returns *InvalidInputError
// and no trace.
func (s *Sorter) Sort(input []float64) (*trace.Trace, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}

	tr := trace.New()
	r := &run{
		arr:    append(make([]float64, 0, len(input)), input...),
		trace:  tr,
		source: s.source,
	}

	tr.Reset()
	tr.Record(r.arr, trace.Highlight{})
	r.quicksort(0, len(r.arr)-1)
	tr.Record(r.arr, trace.Done())

	logs.Debugf("Sort(n=%d): %d snapshots", len(input), tr.Len())
	return tr, nil
}

// run holds the state of one sort invocation.
type run struct {
	arr    []float64
	trace  *trace.Trace
	source PivotSource
}

func (r *run) quicksort(low, high int) {
	if low >= high {
		return
	}
	p := r.partition(low, high)
	r.quicksort(low, p-1)
	r.quicksort(p+1, high)
}

// partition moves a random pivot to high, scans [low, high) with a strict
// less-than test and returns the pivot's final position. Elements equal to
// the pivot stay on its right.
func (r *run) partition(low, high int) int {
	randomIndex := low + r.source.IntN(high-low+1)
	r.trace.Record(r.arr, trace.Pivot(randomIndex))

	r.swap(randomIndex, high)
	pivotValue := r.arr[high]

	i := low - 1
	for j := low; j < high; j++ {
		r.trace.Record(r.arr, trace.Compare(high, j))
		if r.arr[j] < pivotValue {
			i++
			r.swap(i, j)
			r.trace.Record(r.arr, trace.Pivot(high))
		}
	}

	r.swap(i+1, high)
	r.trace.Record(r.arr, trace.Highlight{})
	return i + 1
}

func (r *run) swap(a, b int) {
	r.arr[a], r.arr[b] = r.arr[b], r.arr[a]
}
