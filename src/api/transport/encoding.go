package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/danmuck/qsort_viz/src/trace"
	logs "github.com/danmuck/smplog"
	"google.golang.org/protobuf/encoding/protowire"
)

// MaxFrameSize bounds a single frame body.
const MaxFrameSize = 64 << 20

var ErrFrameTooLarge = errors.New("frame exceeds maximum size")

type Coder interface {
	EncodeRequest(*SortRequest) ([]byte, error)
	DecodeRequest(io.Reader) (*SortRequest, error)
	EncodeReply(*SortReply) ([]byte, error)
	DecodeReply(io.Reader) (*SortReply, error)
}

// DefaultCoder writes protobuf wire messages behind a 4-byte big-endian
// length prefix.
type DefaultCoder struct{}

func (c DefaultCoder) EncodeRequest(req *SortRequest) ([]byte, error) {
	var b []byte
	b = appendDoubles(b, 1, req.Values)
	if req.HasSeed {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, req.Seed)
	}
	logs.Debugf("EncodeRequest(values=%d seed=%v): %d bytes", len(req.Values), req.HasSeed, len(b))
	return frame(b)
}

func (c DefaultCoder) DecodeRequest(r io.Reader) (*SortRequest, error) {
	body, err := readFrame(r)
	if err != nil {
		return nil, err
	}

	req := &SortRequest{}
	err = walkFields(body, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1:
			vals, n, err := consumeDoubles(typ, b)
			req.Values = append(req.Values, vals...)
			return n, err
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			req.Seed, req.HasSeed = v, true
			return n, nil
		}
		return skipField, nil
	})
	if err != nil {
		return nil, fmt.Errorf("decode sort request: %w", err)
	}
	if req.Values == nil {
		req.Values = []float64{}
	}
	return req, nil
}

func (c DefaultCoder) EncodeReply(reply *SortReply) ([]byte, error) {
	var b []byte
	if reply.Status != StatusOK {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(reply.Status))
	}
	if reply.Error != "" {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, reply.Error)
	}
	for _, snap := range reply.Snapshots {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeSnapshot(snap))
	}
	logs.Debugf("EncodeReply(status=%s snapshots=%d): %d bytes", reply.Status, len(reply.Snapshots), len(b))
	return frame(b)
}

func (c DefaultCoder) DecodeReply(r io.Reader) (*SortReply, error) {
	body, err := readFrame(r)
	if err != nil {
		return nil, err
	}

	reply := &SortReply{}
	err = walkFields(body, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			reply.Status = Status(v)
			return n, nil
		case num == 2 && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(b)
			reply.Error = s
			return n, nil
		case num == 3 && typ == protowire.BytesType:
			msg, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			snap, err := decodeSnapshot(msg)
			if err != nil {
				return n, err
			}
			reply.Snapshots = append(reply.Snapshots, snap)
			return n, nil
		}
		return skipField, nil
	})
	if err != nil {
		return nil, fmt.Errorf("decode sort reply: %w", err)
	}
	return reply, nil
}

func encodeSnapshot(snap trace.Snapshot) []byte {
	var b []byte
	b = appendDoubles(b, 1, snap.Values)

	var h []byte
	if p, ok := snap.Highlight.Pivot(); ok {
		h = protowire.AppendTag(h, 1, protowire.VarintType)
		h = protowire.AppendVarint(h, uint64(int64(p)))
	}
	if c, ok := snap.Highlight.Compare(); ok {
		h = protowire.AppendTag(h, 2, protowire.VarintType)
		h = protowire.AppendVarint(h, uint64(int64(c)))
	}
	if snap.Highlight.Sorted {
		h = protowire.AppendTag(h, 3, protowire.VarintType)
		h = protowire.AppendVarint(h, 1)
	}
	if len(h) > 0 {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, h)
	}
	return b
}

func decodeSnapshot(b []byte) (trace.Snapshot, error) {
	snap := trace.Snapshot{Values: []float64{}}
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1:
			vals, n, err := consumeDoubles(typ, b)
			snap.Values = append(snap.Values, vals...)
			return n, err
		case num == 2 && typ == protowire.BytesType:
			msg, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			h, err := decodeHighlight(msg)
			snap.Highlight = h
			return n, err
		}
		return skipField, nil
	})
	return snap, err
}

func decodeHighlight(b []byte) (trace.Highlight, error) {
	var h trace.Highlight
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if typ != protowire.VarintType {
			return skipField, nil
		}
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return n, nil
		}
		idx := int(int64(v))
		switch num {
		case 1:
			h.PivotIndex = &idx
		case 2:
			h.CompareIndex = &idx
		case 3:
			h.Sorted = v != 0
		default:
			return skipField, nil
		}
		return n, nil
	})
	return h, err
}

// skipField is returned by field callbacks for fields they do not handle.
// Negative protowire lengths are parse errors, so it must not collide with them.
const skipField = math.MinInt32

// walkFields calls fn for every field in b. fn returns the number of bytes it
// consumed, or skipField to have the field skipped as unknown.
func walkFields(b []byte, fn func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		n, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if n == skipField {
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
	}
	return nil
}

// appendDoubles writes values as a packed repeated double field.
func appendDoubles(b []byte, num protowire.Number, values []float64) []byte {
	if len(values) == 0 {
		return b
	}
	packed := make([]byte, 0, len(values)*protowire.SizeFixed64())
	for _, v := range values {
		packed = protowire.AppendFixed64(packed, math.Float64bits(v))
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, packed)
}

// consumeDoubles accepts both packed and unpacked encodings.
func consumeDoubles(typ protowire.Type, b []byte) ([]float64, int, error) {
	switch typ {
	case protowire.Fixed64Type:
		v, n := protowire.ConsumeFixed64(b)
		if n < 0 {
			return nil, n, nil
		}
		return []float64{math.Float64frombits(v)}, n, nil
	case protowire.BytesType:
		packed, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, n, nil
		}
		if len(packed)%protowire.SizeFixed64() != 0 {
			return nil, n, fmt.Errorf("packed doubles: %d bytes is not a multiple of 8", len(packed))
		}
		out := make([]float64, 0, len(packed)/protowire.SizeFixed64())
		for len(packed) > 0 {
			v, m := protowire.ConsumeFixed64(packed)
			out = append(out, math.Float64frombits(v))
			packed = packed[m:]
		}
		return out, n, nil
	}
	return nil, skipField, nil
}

func frame(body []byte) ([]byte, error) {
	if len(body) > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(body))
	}
	out := make([]byte, 4, 4+len(body))
	binary.BigEndian.PutUint32(out, uint32(len(body)))
	return append(out, body...), nil
}

func readFrame(r io.Reader) ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(hdr[:])
	if length > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, length)
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("read frame body: %w", err)
	}
	return body, nil
}
