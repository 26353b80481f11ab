package sorter

import "math/rand/v2"

// PivotSource picks pivot positions. IntN returns a uniform value in [0, n).
type PivotSource interface {
	IntN(n int) int
}

// globalSource draws from the process-wide math/rand/v2 generator.
type globalSource struct{}

func (globalSource) IntN(n int) int {
	return rand.IntN(n)
}

// DefaultSource is the unseeded, process-wide source used by Sort.
var DefaultSource PivotSource = globalSource{}
