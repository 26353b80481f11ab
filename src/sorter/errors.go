package sorter

import (
	"errors"
	"fmt"
)

// ErrInvalidInput matches every *InvalidInputError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError reports an input entry that is not a finite number.
// It is returned before any snapshot is recorded.
type InvalidInputError struct {
	Index  int    // position of the offending entry
	Value  string // entry as supplied
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input at index %d (%q): %s", e.Index, e.Value, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}
