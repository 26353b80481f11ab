package trace

// Stats summarizes the events of a quicksort trace.
type Stats struct {
	Steps       int // total snapshots
	Partitions  int // pivots chosen and placed
	Comparisons int // element-vs-pivot comparisons
	Swaps       int // swaps recorded during partition scans
}

// Stats derives event counts from the highlight pattern of each snapshot.
//
// Every partition records one pivot-only snapshot when the pivot is chosen
// and one unhighlighted snapshot when it is placed; every other pivot-only
// snapshot follows a scan swap.
func (t *Trace) Stats() Stats {
	st := Stats{Steps: t.Len()}
	pivotOnly := 0
	for i, s := range t.snapshots {
		h := s.Highlight
		switch {
		case h.Sorted:
		case h.CompareIndex != nil:
			st.Comparisons++
		case h.PivotIndex != nil:
			pivotOnly++
		case i > 0:
			st.Partitions++
		}
	}
	st.Swaps = pivotOnly - st.Partitions
	if st.Swaps < 0 {
		st.Swaps = 0
	}
	return st
}
