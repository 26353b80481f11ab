// gen_input writes a random array to a file the visualizer can load with
// --input-file.
//
// Usage:
//
//	go run cmd/gen_input/main.go <size> [filename]
//
// Values are integers in [5, 100]. Size must be between 1 and 200.
// If no filename is given, one is generated from the size.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/danmuck/qsort_viz/src/session"
)

const DefaultInputDir = "local/input"

func formatValues(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ", ")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: gen_input <size> [filename]\n")
		fmt.Fprintf(os.Stderr, "  size: 1..%d\n", session.MaxArraySize)
		fmt.Fprintf(os.Stderr, "  Default output dir when filename omitted: %s/\n", DefaultInputDir)
		os.Exit(1)
	}

	size, err := strconv.Atoi(strings.TrimSpace(os.Args[1]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid size %q: %v\n", os.Args[1], err)
		os.Exit(1)
	}

	values, err := session.Generate(size, session.DefaultMinValue, session.DefaultMaxValue, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	filename := ""
	if len(os.Args) >= 3 {
		filename = os.Args[2]
	} else {
		filename = filepath.Join(DefaultInputDir, fmt.Sprintf("array_%d.csv", size))
	}

	dir := filepath.Dir(filename)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating directory: %v\n", err)
			os.Exit(1)
		}
	}

	if err := os.WriteFile(filename, []byte(formatValues(values)+"\n"), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated: %s (%d values)\n", filename, size)
}
