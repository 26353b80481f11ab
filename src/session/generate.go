package session

import (
	"fmt"
	"math"
	"strconv"

	"github.com/danmuck/qsort_viz/src/sorter"
)

const (
	DefaultArraySize = 20
	MaxArraySize     = 200
	DefaultMinValue  = 5
	DefaultMaxValue  = 100
)

// CheckSize rejects arrays longer than MaxArraySize. A run over n equal
// values records about n*n/2 snapshots of n values each, so user input is
// capped like generated input.
func CheckSize(values []float64) error {
	if len(values) <= MaxArraySize {
		return nil
	}
	return &sorter.InvalidInputError{
		Index:  MaxArraySize,
		Value:  strconv.FormatFloat(values[MaxArraySize], 'g', -1, 64),
		Reason: fmt.Sprintf("array has %d values, limit is %d", len(values), MaxArraySize),
	}
}

// Generate returns size random integers in [minValue, maxValue], drawn from src
// (the process-wide source when src is nil).
func Generate(size int, minValue, maxValue float64, src sorter.PivotSource) ([]float64, error) {
	if size < 1 || size > MaxArraySize {
		return nil, fmt.Errorf("array size %d out of range [1, %d]", size, MaxArraySize)
	}
	if err := sorter.Validate([]float64{minValue, maxValue}); err != nil {
		return nil, fmt.Errorf("invalid value range: %w", err)
	}
	lo, hi := math.Ceil(minValue), math.Floor(maxValue)
	if lo > hi {
		return nil, fmt.Errorf("empty value range [%g, %g]", minValue, maxValue)
	}
	if hi-lo >= math.MaxInt32 {
		return nil, fmt.Errorf("value range [%g, %g] too wide", minValue, maxValue)
	}
	if src == nil {
		src = sorter.DefaultSource
	}

	span := int(hi-lo) + 1
	values := make([]float64, size)
	for i := range values {
		values[i] = lo + float64(src.IntN(span))
	}
	return values, nil
}
