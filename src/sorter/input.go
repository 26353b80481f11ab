package sorter

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Validate rejects NaN and infinite entries.
func Validate(values []float64) error {
	for i, v := range values {
		switch {
		case math.IsNaN(v):
			return &InvalidInputError{Index: i, Value: "NaN", Reason: "not a number"}
		case math.IsInf(v, 0):
			return &InvalidInputError{Index: i, Value: strconv.FormatFloat(v, 'g', -1, 64), Reason: "not finite"}
		}
	}
	return nil
}

// ParseValues parses comma or whitespace separated numbers.
// Blank input yields an empty, non-nil slice.
func ParseValues(text string) ([]float64, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	values := make([]float64, 0, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, &InvalidInputError{Index: i, Value: field, Reason: "not a number"}
		}
		values = append(values, v)
	}
	if err := Validate(values); err != nil {
		// report the token as typed rather than the parsed value
		if iie, ok := err.(*InvalidInputError); ok {
			iie.Value = fields[iie.Index]
		}
		return nil, err
	}
	return values, nil
}

// FromAny converts JSON-decoded entries into numbers. Only JSON numbers are
// accepted; strings, booleans, nulls and nested values are rejected.
func FromAny(raw []any) ([]float64, error) {
	values := make([]float64, 0, len(raw))
	for i, entry := range raw {
		switch v := entry.(type) {
		case float64:
			values = append(values, v)
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				return nil, &InvalidInputError{Index: i, Value: v.String(), Reason: "not a number"}
			}
			values = append(values, f)
		case int:
			values = append(values, float64(v))
		default:
			return nil, &InvalidInputError{Index: i, Value: fmt.Sprint(entry), Reason: fmt.Sprintf("unsupported type %T", entry)}
		}
	}
	if err := Validate(values); err != nil {
		return nil, err
	}
	return values, nil
}
