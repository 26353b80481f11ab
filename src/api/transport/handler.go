package transport

import (
	"errors"

	"github.com/danmuck/qsort_viz/src/session"
	"github.com/danmuck/qsort_viz/src/sorter"
	"github.com/danmuck/qsort_viz/src/trace"
	logs "github.com/danmuck/smplog"
)

// SortHandler sorts req.Values and replies with every recorded snapshot.
// Invalid input, including arrays longer than session.MaxArraySize, is
// answered with StatusInvalid and the validation message.
func SortHandler(req *SortRequest) *SortReply {
	var src sorter.PivotSource
	if req.HasSeed {
		src = sorter.NewSeededSource(req.Seed)
	}

	err := session.CheckSize(req.Values)
	var tr *trace.Trace
	if err == nil {
		tr, err = sorter.New(src).Sort(req.Values)
	}
	if err != nil {
		status := StatusError
		if errors.Is(err, sorter.ErrInvalidInput) {
			status = StatusInvalid
		}
		logs.Debugf("SortHandler(n=%d): %v", len(req.Values), err)
		return &SortReply{Status: status, Error: err.Error()}
	}
	return &SortReply{Status: StatusOK, Snapshots: tr.Snapshots()}
}
