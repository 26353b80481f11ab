package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/danmuck/qsort_viz/src/api/transport"
	"github.com/danmuck/qsort_viz/src/session"
	"github.com/danmuck/qsort_viz/src/sorter"
	"github.com/danmuck/qsort_viz/src/trace"
	logs "github.com/danmuck/smplog"
)

// visualizer holds the active session and how it is drawn.
type visualizer struct {
	cfg    *RuntimeConfig
	out    io.Writer
	source sorter.PivotSource
	sess   *session.SortSession
	player *session.Player
}

func newVisualizer(cfg *RuntimeConfig, out io.Writer) *visualizer {
	v := &visualizer{cfg: cfg, out: out}
	if cfg.HasSeed {
		v.source = sorter.NewSeededSource(cfg.Seed)
	}
	return v
}

// initialValues resolves the first array from --input, --input-file, or a
// generated one.
func (v *visualizer) initialValues() ([]float64, string, error) {
	switch {
	case v.cfg.Input != "":
		values, err := sorter.ParseValues(v.cfg.Input)
		return values, "input (CLI)", err
	case v.cfg.InputFile != "":
		data, err := os.ReadFile(v.cfg.InputFile)
		if err != nil {
			return nil, "", fmt.Errorf("read input file: %w", err)
		}
		values, err := sorter.ParseValues(string(data))
		return values, v.cfg.InputFile, err
	}
	values, err := v.generate()
	return values, "generated", err
}

func (v *visualizer) generate() ([]float64, error) {
	return session.Generate(v.cfg.ArraySize, v.cfg.MinValue, v.cfg.MaxValue, v.source)
}

// load sorts values locally or on the trace server and replaces the session.
// The previous session is kept when sorting fails.
func (v *visualizer) load(values []float64) error {
	var (
		sess *session.SortSession
		err  error
	)
	if v.cfg.Mode == ModeRemote {
		sess, err = v.loadRemote(values)
	} else {
		sess, err = session.New(values, session.WithPivotSource(v.source))
	}
	if err != nil {
		return err
	}

	speed := v.cfg.Speed
	if v.player != nil {
		speed = v.player.Speed()
	}
	v.sess = sess
	v.player = session.NewPlayer(sess, speed)
	logs.Debugf("visualizer: session %s loaded, %d steps (%s)", sess.ID(), sess.Len(), v.cfg.Mode)
	return nil
}

func (v *visualizer) loadRemote(values []float64) (*session.SortSession, error) {
	if err := session.CheckSize(values); err != nil {
		return nil, err
	}
	if err := sorter.Validate(values); err != nil {
		return nil, err
	}
	client := transport.NewClient(v.cfg.RemoteAddr)
	reply, err := client.Sort(&transport.SortRequest{Values: values, Seed: v.cfg.Seed, HasSeed: v.cfg.HasSeed})
	if err != nil {
		return nil, err
	}
	if reply.Status != transport.StatusOK {
		return nil, fmt.Errorf("trace server replied %s: %s", reply.Status, reply.Error)
	}
	tr := trace.New()
	for _, snap := range reply.Snapshots {
		tr.Record(snap.Values, snap.Highlight)
	}
	return session.FromTrace(values, tr)
}

func (v *visualizer) show() {
	if v.sess == nil {
		fmt.Fprintln(v.out, "No array loaded.")
		return
	}
	cur, err := v.sess.Current()
	if err != nil {
		logs.Warnf("show: %v", err)
		return
	}
	renderSnapshot(v.out, v.sess.Cursor(), v.sess.Len(), cur, v.cfg.Color)
}

// play auto-advances until the end or until ctx is cancelled.
func (v *visualizer) play(ctx context.Context) error {
	if v.sess == nil {
		return nil
	}
	err := v.player.Run(ctx, func(index int, snap trace.Snapshot) {
		fmt.Fprintln(v.out)
		renderSnapshot(v.out, index, v.sess.Len(), snap, v.cfg.Color)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// playAll prints every snapshot back to back without delays.
func (v *visualizer) playAll() {
	if v.sess == nil {
		return
	}
	for i, snap := range v.sess.Trace().Snapshots() {
		if i > 0 {
			fmt.Fprintln(v.out)
		}
		renderSnapshot(v.out, i, v.sess.Len(), snap, v.cfg.Color)
	}
	v.sess.Last()
}

func (v *visualizer) setSpeed(d time.Duration) time.Duration {
	applied := session.ClampSpeed(d)
	v.cfg.Speed = applied
	if v.player != nil {
		v.player.SetSpeed(applied)
	}
	return applied
}

func formatValues(values []float64) string {
	parts := make([]string, len(values))
	for i, val := range values {
		parts[i] = formatValue(val)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
