package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/danmuck/qsort_viz/src/trace"
)

const (
	ansiReset  = "\033[0m"
	ansiPivot  = "\033[33m" // yellow
	ansiCmp    = "\033[31m" // red
	ansiSorted = "\033[32m" // green

	barWidth = 40
)

// barStyle is how a single position is drawn in one snapshot.
type barStyle int

const (
	styleNone barStyle = iota
	stylePivot
	styleCompare
	styleSorted
)

func (s barStyle) color() string {
	switch s {
	case stylePivot:
		return ansiPivot
	case styleCompare:
		return ansiCmp
	case styleSorted:
		return ansiSorted
	}
	return ""
}

func (s barStyle) marker() string {
	switch s {
	case stylePivot:
		return "P"
	case styleCompare:
		return "C"
	case styleSorted:
		return "*"
	}
	return " "
}

// styleAt resolves the style for position i. Sorted wins over pivot and
// compare; pivot wins over compare.
func styleAt(h trace.Highlight, i int) barStyle {
	if h.Sorted {
		return styleSorted
	}
	if p, ok := h.Pivot(); ok && p == i {
		return stylePivot
	}
	if c, ok := h.Compare(); ok && c == i {
		return styleCompare
	}
	return styleNone
}

// barLength scales |v| against the largest magnitude in the snapshot.
// Non-zero values always get at least one cell.
func barLength(v, maxAbs float64) int {
	if maxAbs == 0 || v == 0 {
		return 0
	}
	n := int(math.Round(math.Abs(v) / maxAbs * barWidth))
	return max(n, 1)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// renderSnapshot draws one horizontal bar per array position. Colors are
// only emitted when color is set; markers in the left column carry the same
// information for plain output.
func renderSnapshot(w io.Writer, index, total int, snap trace.Snapshot, color bool) {
	fmt.Fprintf(w, "step %d/%d  %s\n", index+1, total, describeHighlight(snap.Highlight))
	if len(snap.Values) == 0 {
		fmt.Fprintln(w, "  (empty array)")
		return
	}

	maxAbs := 0.0
	labelWidth := 0
	for _, v := range snap.Values {
		maxAbs = math.Max(maxAbs, math.Abs(v))
		labelWidth = max(labelWidth, len(formatValue(v)))
	}
	indexWidth := len(strconv.Itoa(len(snap.Values) - 1))

	for i, v := range snap.Values {
		style := styleAt(snap.Highlight, i)
		cell := "█"
		if v < 0 {
			cell = "░"
		}
		bar := strings.Repeat(cell, barLength(v, maxAbs))
		if color && style != styleNone {
			bar = style.color() + bar + ansiReset
		}
		fmt.Fprintf(w, " %s %*d │ %*s │ %s\n", style.marker(), indexWidth, i, labelWidth, formatValue(v), bar)
	}
}

func describeHighlight(h trace.Highlight) string {
	if h.Sorted {
		return "sorted"
	}
	var parts []string
	if p, ok := h.Pivot(); ok {
		parts = append(parts, fmt.Sprintf("pivot @%d", p))
	}
	if c, ok := h.Compare(); ok {
		parts = append(parts, fmt.Sprintf("compare @%d", c))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}
