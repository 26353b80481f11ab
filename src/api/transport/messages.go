package transport

import "github.com/danmuck/qsort_viz/src/trace"

// Status of a SortReply.
type Status uint32

const (
	StatusOK      Status = 0
	StatusInvalid Status = 1 // input rejected before sorting
	StatusError   Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInvalid:
		return "invalid"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// SortRequest asks the server to sort Values. When HasSeed is set the pivot
// sequence is reproducible.
//
//	message SortRequest {
//	  repeated double values = 1;
//	  optional uint64 seed   = 2;
//	}
type SortRequest struct {
	Values  []float64
	Seed    uint64
	HasSeed bool
}

// SortReply carries the full trace, or an error message.
//
//	message Highlight {
//	  optional int64 pivot_index   = 1;
//	  optional int64 compare_index = 2;
//	  bool sorted                  = 3;
//	}
//	message Snapshot {
//	  repeated double values = 1;
//	  Highlight highlight    = 2;
//	}
//	message SortReply {
//	  uint32 status               = 1;
//	  string error                = 2;
//	  repeated Snapshot snapshots = 3;
//	}
type SortReply struct {
	Status    Status
	Error     string
	Snapshots []trace.Snapshot
}
