package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/danmuck/qsort_viz/cmd/internal/logcfg"
	"github.com/danmuck/qsort_viz/src/api/transport"
	"github.com/danmuck/qsort_viz/src/sorter"
	"github.com/danmuck/qsort_viz/src/trace"
	logs "github.com/danmuck/smplog"
)

func main() {
	logs.Configure(logcfg.Load())

	address := flag.String("addr", "localhost:9000", "trace server address")
	seed := flag.Uint64("seed", 0, "pivot seed sent with each request (0 = server random)")
	verbose := flag.Bool("steps", false, "print every snapshot instead of a summary")
	flag.Parse()

	client := transport.NewClient(*address)
	client.Timeout = 30 * time.Second
	logs.Infof("Sending to trace server at %s...", *address)

	fmt.Println("Type numbers separated by commas or spaces and press Enter. Type 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "exit" {
			fmt.Println("Exiting...")
			break
		}
		if input == "" {
			continue
		}

		values, err := sorter.ParseValues(input)
		if err != nil {
			logs.Errorf(err, "Rejected input")
			continue
		}

		req := &transport.SortRequest{Values: values, Seed: *seed, HasSeed: *seed != 0}
		reply, err := client.Sort(req)
		if err != nil {
			logs.Errorf(err, "Request failed")
			continue
		}
		if reply.Status != transport.StatusOK {
			logs.Warnf("server replied %s: %s", reply.Status, reply.Error)
			continue
		}
		printReply(reply, *verbose)
	}
}

func printReply(reply *transport.SortReply, verbose bool) {
	if verbose {
		for i, snap := range reply.Snapshots {
			fmt.Printf("%4d  %v  %s\n", i, snap.Values, describe(snap.Highlight))
		}
	}
	tr := trace.New()
	for _, snap := range reply.Snapshots {
		tr.Record(snap.Values, snap.Highlight)
	}
	st := tr.Stats()
	last, _ := tr.Last()
	logs.Infof("sorted %v in %d steps (%d partitions, %d comparisons, %d swaps)",
		last.Values, st.Steps, st.Partitions, st.Comparisons, st.Swaps)
}

func describe(h trace.Highlight) string {
	var parts []string
	if p, ok := h.Pivot(); ok {
		parts = append(parts, fmt.Sprintf("pivot=%d", p))
	}
	if c, ok := h.Compare(); ok {
		parts = append(parts, fmt.Sprintf("compare=%d", c))
	}
	if h.Sorted {
		parts = append(parts, "sorted")
	}
	return strings.Join(parts, " ")
}
