package main

import (
	"fmt"

	logs "github.com/danmuck/smplog"
)

func (v *visualizer) printStats() {
	if v.sess == nil {
		logs.StatusWarn("No array loaded.")
		logs.Printf("\n")
		return
	}
	st := v.sess.Trace().Stats()
	input := v.sess.Input()

	logs.Titlef("\nSort Stats\n")
	logs.DataKV("Session", v.sess.ID())
	logs.DataKV("Mode", v.cfg.Mode)
	logs.DataKV("Array size", fmt.Sprint(len(input)))
	logs.DataKV("Input", formatValues(input))
	if last, ok := v.sess.Trace().Last(); ok {
		logs.DataKV("Sorted", formatValues(last.Values))
	}
	logs.DataKV("Position", fmt.Sprintf("%d/%d", v.sess.Cursor()+1, v.sess.Len()))

	logs.Titlef("\nTrace Events\n")
	logs.DataKV("Steps", fmt.Sprint(st.Steps))
	logs.DataKV("Partitions", fmt.Sprint(st.Partitions))
	logs.DataKV("Comparisons", fmt.Sprint(st.Comparisons))
	logs.DataKV("Swaps", fmt.Sprint(st.Swaps))
	logs.DataKV("Playback speed", v.cfg.Speed.String())
	if v.cfg.HasSeed {
		logs.DataKV("Seed", fmt.Sprint(v.cfg.Seed))
	}
}
