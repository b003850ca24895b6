package nakama

import (
	"errors"
	"fmt"
	"math"

	"motionarcade/internal/domain"

	"google.golang.org/protobuf/encoding/protowire"
)

// LandmarkFrame field numbers.
const (
	fieldX           protowire.Number = 1
	fieldY           protowire.Number = 2
	fieldVisibility  protowire.Number = 3
	fieldTimestampMs protowire.Number = 4
)

// ErrBadFrame is returned for landmark payloads that cannot be turned into a frame.
var ErrBadFrame = errors.New("malformed landmark frame")

// EncodeFrame writes a frame as a LandmarkFrame message. Absent landmarks get visibility 0.
func EncodeFrame(frame domain.Frame, timestampMs int64) []byte {
	var b []byte
	if len(frame) > 0 {
		xs := make([]byte, 0, 4*len(frame))
		ys := make([]byte, 0, 4*len(frame))
		vis := make([]byte, 0, 4*len(frame))
		allPresent := true
		for _, lm := range frame {
			xs = protowire.AppendFixed32(xs, math.Float32bits(float32(lm.X)))
			ys = protowire.AppendFixed32(ys, math.Float32bits(float32(lm.Y)))
			v := float32(1)
			if !lm.Present {
				v = 0
				allPresent = false
			}
			vis = protowire.AppendFixed32(vis, math.Float32bits(v))
		}
		b = protowire.AppendTag(b, fieldX, protowire.BytesType)
		b = protowire.AppendBytes(b, xs)
		b = protowire.AppendTag(b, fieldY, protowire.BytesType)
		b = protowire.AppendBytes(b, ys)
		if !allPresent {
			b = protowire.AppendTag(b, fieldVisibility, protowire.BytesType)
			b = protowire.AppendBytes(b, vis)
		}
	}
	if timestampMs != 0 {
		b = protowire.AppendTag(b, fieldTimestampMs, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(timestampMs))
	}
	return b
}

// DecodeFrame parses a LandmarkFrame message. Landmarks with zero visibility, visibility below
// minVisibility, or non-finite coordinates are decoded as absent. An empty message is a valid empty frame,
// and a short one is a partial frame whose missing tail is absent.
func DecodeFrame(data []byte, minVisibility float64) (domain.Frame, int64, error) {
	var xs, ys, vis []float32
	var timestampMs int64

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, 0, fmt.Errorf("%w: %v", ErrBadFrame, protowire.ParseError(n))
		}
		data = data[n:]

		var err error
		switch num {
		case fieldX:
			xs, n, err = consumeFloats(typ, data, xs)
		case fieldY:
			ys, n, err = consumeFloats(typ, data, ys)
		case fieldVisibility:
			vis, n, err = consumeFloats(typ, data, vis)
		case fieldTimestampMs:
			if typ != protowire.VarintType {
				return nil, 0, fmt.Errorf("%w: timestamp_ms has wire type %d", ErrBadFrame, typ)
			}
			var v uint64
			v, n = protowire.ConsumeVarint(data)
			timestampMs = int64(v)
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
		}
		if err != nil {
			return nil, 0, err
		}
		if n < 0 {
			return nil, 0, fmt.Errorf("%w: field %d: %v", ErrBadFrame, num, protowire.ParseError(n))
		}
		data = data[n:]
	}

	if len(xs) != len(ys) {
		return nil, 0, fmt.Errorf("%w: %d x values but %d y values", ErrBadFrame, len(xs), len(ys))
	}
	if len(xs) == 0 {
		return domain.Frame{}, timestampMs, nil
	}
	if len(xs) > domain.FrameSize {
		return nil, 0, fmt.Errorf("%w: %d landmarks, want at most %d", ErrBadFrame, len(xs), domain.FrameSize)
	}
	if len(vis) != 0 && len(vis) != len(xs) {
		return nil, 0, fmt.Errorf("%w: %d visibility values for %d landmarks", ErrBadFrame, len(vis), len(xs))
	}

	frame := make(domain.Frame, len(xs))
	for i := range xs {
		x, y := float64(xs[i]), float64(ys[i])
		present := !math.IsNaN(x) && !math.IsNaN(y) && !math.IsInf(x, 0) && !math.IsInf(y, 0)
		if present && len(vis) > 0 {
			present = vis[i] > 0 && float64(vis[i]) >= minVisibility
		}
		frame[i] = domain.Landmark{Point: domain.Point{X: x, Y: y}, Present: present}
	}
	return frame, timestampMs, nil
}

// consumeFloats reads a packed or unpacked repeated float field.
func consumeFloats(typ protowire.Type, b []byte, dst []float32) ([]float32, int, error) {
	switch typ {
	case protowire.BytesType:
		packed, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return dst, n, nil
		}
		if len(packed)%4 != 0 {
			return dst, 0, fmt.Errorf("%w: packed float field of %d bytes", ErrBadFrame, len(packed))
		}
		for len(packed) > 0 {
			v, m := protowire.ConsumeFixed32(packed)
			if m < 0 {
				return dst, m, nil
			}
			dst = append(dst, math.Float32frombits(v))
			packed = packed[m:]
		}
		return dst, n, nil
	case protowire.Fixed32Type:
		v, n := protowire.ConsumeFixed32(b)
		if n < 0 {
			return dst, n, nil
		}
		return append(dst, math.Float32frombits(v)), n, nil
	}
	return dst, 0, fmt.Errorf("%w: float field has wire type %d", ErrBadFrame, typ)
}
