package transport

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/danmuck/qsort_viz/src/trace"
	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/encoding/protowire"
)

func posInf() float64 { return math.Inf(1) }

func TestCoderRequest(t *testing.T) {
	tests := []struct {
		name string
		req  SortRequest
		want SortRequest
	}{
		{
			name: "values and seed",
			req:  SortRequest{Values: []float64{3, -1.5, 0, 1e9}, Seed: 7, HasSeed: true},
			want: SortRequest{Values: []float64{3, -1.5, 0, 1e9}, Seed: 7, HasSeed: true},
		},
		{
			name: "zero seed still present",
			req:  SortRequest{Values: []float64{1}, HasSeed: true},
			want: SortRequest{Values: []float64{1}, HasSeed: true},
		},
		{
			name: "empty",
			req:  SortRequest{},
			want: SortRequest{Values: []float64{}},
		},
	}

	coder := DefaultCoder{}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := coder.EncodeRequest(&tc.req)
			if err != nil {
				t.Fatalf("EncodeRequest failed: %v", err)
			}
			got, err := coder.DecodeRequest(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("DecodeRequest failed: %v", err)
			}
			if diff := cmp.Diff(tc.want, *got); diff != "" {
				t.Fatalf("request mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCoderReply(t *testing.T) {
	tr := trace.New()
	tr.Record([]float64{2, 1}, trace.Highlight{})
	tr.Record([]float64{2, 1}, trace.Pivot(0))
	tr.Record([]float64{1, 2}, trace.Compare(1, 0))
	tr.Record([]float64{1, 2}, trace.Done())

	reply := &SortReply{Status: StatusOK, Snapshots: tr.Snapshots()}
	coder := DefaultCoder{}
	data, err := coder.EncodeReply(reply)
	if err != nil {
		t.Fatalf("EncodeReply failed: %v", err)
	}
	got, err := coder.DecodeReply(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeReply failed: %v", err)
	}
	if diff := cmp.Diff(reply, got); diff != "" {
		t.Fatalf("reply mismatch (-want +got):\n%s", diff)
	}

	errReply := &SortReply{Status: StatusInvalid, Error: "bad value"}
	data, _ = coder.EncodeReply(errReply)
	got, err = coder.DecodeReply(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeReply(error reply) failed: %v", err)
	}
	if diff := cmp.Diff(errReply, got); diff != "" {
		t.Fatalf("error reply mismatch (-want +got):\n%s", diff)
	}
}

func TestCoderSkipsUnknownFields(t *testing.T) {
	var body []byte
	body = protowire.AppendTag(body, 9, protowire.BytesType)
	body = protowire.AppendString(body, "future field")
	body = protowire.AppendTag(body, 1, protowire.Fixed64Type) // unpacked double
	body = protowire.AppendFixed64(body, math.Float64bits(4.5))
	body = protowire.AppendTag(body, 2, protowire.VarintType)
	body = protowire.AppendVarint(body, 3)

	data, err := frame(body)
	if err != nil {
		t.Fatalf("frame failed: %v", err)
	}
	got, err := DefaultCoder{}.DecodeRequest(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeRequest failed: %v", err)
	}
	want := &SortRequest{Values: []float64{4.5}, Seed: 3, HasSeed: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestCoderRejectsMalformedFrames(t *testing.T) {
	oversized := make([]byte, 4)
	binary.BigEndian.PutUint32(oversized, MaxFrameSize+1)

	truncated, _ := frame([]byte{0x0a, 0x10, 0x00}) // packed length 16, 1 byte present

	badPacked, _ := frame([]byte{0x0a, 0x03, 0x00, 0x00, 0x00})

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{name: "oversized header", data: oversized, wantErr: ErrFrameTooLarge},
		{name: "short body", data: []byte{0, 0, 0, 8, 1}},
		{name: "truncated field", data: truncated},
		{name: "packed length not multiple of 8", data: badPacked},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DefaultCoder{}.DecodeRequest(bytes.NewReader(tc.data))
			if err == nil {
				t.Fatal("DecodeRequest succeeded, want error")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestStatusString(t *testing.T) {
	for status, want := range map[Status]string{StatusOK: "ok", StatusInvalid: "invalid", StatusError: "error"} {
		if got := status.String(); got != want {
			t.Fatalf("Status(%d).String() = %q, want %q", status, got, want)
		}
	}
}
