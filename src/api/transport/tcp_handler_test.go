package transport

import (
	"bufio"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danmuck/qsort_viz/src/session"
	"github.com/danmuck/qsort_viz/src/sorter"
	"github.com/google/go-cmp/cmp"
)

func startHandler(t *testing.T, handle Handler) (*TCPHandler, string) {
	t.Helper()
	exit := make(chan any)
	handler := NewTCPHandler("localhost:0", exit, handle)
	if err := handler.ListenAndAccept(); err != nil {
		t.Fatalf("ListenAndAccept failed: %v", err)
	}
	t.Cleanup(func() {
		close(exit)
		time.Sleep(600 * time.Millisecond) // wait for accept loop deadline
		handler.Close()
	})
	return handler, handler.Addr().String()
}

func TestTCPHandlerListenAndAccept(t *testing.T) {
	_, addr := startHandler(t, nil)

	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		t.Fatalf("Failed to connect to handler: %v", err)
	}
	conn.Close()
}

func TestTCPHandlerSortRoundTrip(t *testing.T) {
	_, addr := startHandler(t, nil)

	client := NewClient(addr)
	req := &SortRequest{Values: []float64{5, 3, 8, 1, 3}, Seed: 42, HasSeed: true}
	reply, err := client.Sort(req)
	if err != nil {
		t.Fatalf("Sort failed: %v", err)
	}
	if reply.Status != StatusOK {
		t.Fatalf("Status = %s (%s), want ok", reply.Status, reply.Error)
	}

	want, err := sorter.New(sorter.NewSeededSource(42)).Sort(req.Values)
	if err != nil {
		t.Fatalf("local Sort failed: %v", err)
	}
	if diff := cmp.Diff(want.Snapshots(), reply.Snapshots); diff != "" {
		t.Fatalf("remote trace differs from local seeded trace (-local +remote):\n%s", diff)
	}
}

func TestTCPHandlerInvalidInput(t *testing.T) {
	_, addr := startHandler(t, nil)

	reply, err := NewClient(addr).Sort(&SortRequest{Values: []float64{1, posInf()}})
	if err != nil {
		t.Fatalf("Sort failed: %v", err)
	}
	if reply.Status != StatusInvalid {
		t.Fatalf("Status = %s, want invalid", reply.Status)
	}
	if reply.Error == "" || len(reply.Snapshots) != 0 {
		t.Fatalf("invalid reply = %+v, want error text and no snapshots", reply)
	}
}

func TestTCPHandlerMultipleRequestsPerConnection(t *testing.T) {
	var calls atomic.Int32
	_, addr := startHandler(t, func(req *SortRequest) *SortReply {
		calls.Add(1)
		return SortHandler(req)
	})

	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	coder := DefaultCoder{}
	reader := bufio.NewReader(conn)
	for i, values := range [][]float64{{2, 1}, {}, {9, 9, 9}} {
		data, err := coder.EncodeRequest(&SortRequest{Values: values})
		if err != nil {
			t.Fatalf("EncodeRequest failed: %v", err)
		}
		if _, err := conn.Write(data); err != nil {
			t.Fatalf("write request %d: %v", i, err)
		}
		reply, err := coder.DecodeReply(reader)
		if err != nil {
			t.Fatalf("read reply %d: %v", i, err)
		}
		last := reply.Snapshots[len(reply.Snapshots)-1]
		if !last.Highlight.Sorted || len(last.Values) != len(values) {
			t.Fatalf("reply %d final snapshot = %+v", i, last)
		}
	}
	if n := calls.Load(); n != 3 {
		t.Fatalf("handler called %d times, want 3", n)
	}
}

func TestTCPHandlerCloseBeforeListen(t *testing.T) {
	handler := NewTCPHandler("localhost:0", make(chan any), nil)
	if err := handler.Close(); err != nil {
		t.Fatalf("Close on unstarted handler: %v", err)
	}
	if handler.Addr() != nil {
		t.Fatalf("Addr() on unstarted handler = %v, want nil", handler.Addr())
	}
}

func TestSortHandlerRejectsOversizedArray(t *testing.T) {
	_, addr := startHandler(t, nil)

	values := make([]float64, session.MaxArraySize+1)
	reply, err := NewClient(addr).Sort(&SortRequest{Values: values})
	if err != nil {
		t.Fatalf("Sort failed: %v", err)
	}
	if reply.Status != StatusInvalid || len(reply.Snapshots) != 0 {
		t.Fatalf("reply status=%s snapshots=%d, want invalid and none", reply.Status, len(reply.Snapshots))
	}

	atLimit := make([]float64, session.MaxArraySize)
	for i := range atLimit {
		atLimit[i] = float64(len(atLimit) - i)
	}
	if reply := SortHandler(&SortRequest{Values: atLimit, Seed: 1, HasSeed: true}); reply.Status != StatusOK {
		t.Fatalf("array under the limit: status=%s (%s)", reply.Status, reply.Error)
	}
}
