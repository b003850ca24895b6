package nakama

import (
	"errors"
	"math"
	"testing"

	"motionarcade/internal/domain"

	"google.golang.org/protobuf/encoding/protowire"
)

func sampleFrame() domain.Frame {
	points := make([]domain.Point, domain.FrameSize)
	for i := range points {
		points[i] = domain.Point{X: float64(i) / 64, Y: 1 - float64(i)/64}
	}
	return domain.NewFrame(points)
}

func packedFloats(values ...float32) []byte {
	var b []byte
	for _, v := range values {
		b = protowire.AppendFixed32(b, math.Float32bits(v))
	}
	return b
}

func TestEncodeDecodeFrame(t *testing.T) {
	frame := sampleFrame()
	frame[domain.Nose].Present = false

	got, ts, err := DecodeFrame(EncodeFrame(frame, 1234), 0.5)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if ts != 1234 {
		t.Errorf("timestamp = %d, want 1234", ts)
	}
	if len(got) != domain.FrameSize {
		t.Fatalf("len = %d, want %d", len(got), domain.FrameSize)
	}
	if got[domain.Nose].Present {
		t.Error("absent nose decoded as present")
	}
	for i := 1; i < domain.FrameSize; i++ {
		if !got[i].Present {
			t.Fatalf("landmark %d decoded as absent", i)
		}
		// float32 on the wire
		if math.Abs(got[i].X-frame[i].X) > 1e-6 || math.Abs(got[i].Y-frame[i].Y) > 1e-6 {
			t.Fatalf("landmark %d = %+v, want %+v", i, got[i].Point, frame[i].Point)
		}
	}
}

func TestDecodeFrameEmptyMessage(t *testing.T) {
	got, _, err := DecodeFrame(nil, 0.5)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if !got.Empty() {
		t.Fatalf("empty message decoded as %v", got)
	}
}

func TestDecodeFrameVisibilityThreshold(t *testing.T) {
	xs := make([]float32, domain.FrameSize)
	vis := make([]float32, domain.FrameSize)
	for i := range vis {
		vis[i] = 0.9
	}
	vis[domain.LeftWrist] = 0.49
	vis[domain.RightWrist] = 0.5

	var b []byte
	b = protowire.AppendTag(b, fieldX, protowire.BytesType)
	b = protowire.AppendBytes(b, packedFloats(xs...))
	b = protowire.AppendTag(b, fieldY, protowire.BytesType)
	b = protowire.AppendBytes(b, packedFloats(xs...))
	b = protowire.AppendTag(b, fieldVisibility, protowire.BytesType)
	b = protowire.AppendBytes(b, packedFloats(vis...))

	got, _, err := DecodeFrame(b, 0.5)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if got[domain.LeftWrist].Present {
		t.Error("landmark below min visibility decoded as present")
	}
	if !got[domain.RightWrist].Present {
		t.Error("landmark at min visibility decoded as absent")
	}
}

func TestDecodeFrameUnpackedFloats(t *testing.T) {
	var b []byte
	for i := 0; i < domain.FrameSize; i++ {
		b = protowire.AppendTag(b, fieldX, protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, math.Float32bits(0.25))
		b = protowire.AppendTag(b, fieldY, protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, math.Float32bits(0.75))
	}
	got, _, err := DecodeFrame(b, 0.5)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	p, ok := got.At(domain.RightHip)
	if !ok || p.X != 0.25 || p.Y != 0.75 {
		t.Fatalf("RightHip = %+v (%t), want {0.25 0.75}", p, ok)
	}
}

func TestDecodeFrameNonFiniteIsAbsent(t *testing.T) {
	xs := make([]float32, domain.FrameSize)
	xs[domain.Nose] = float32(math.NaN())
	var b []byte
	b = protowire.AppendTag(b, fieldX, protowire.BytesType)
	b = protowire.AppendBytes(b, packedFloats(xs...))
	b = protowire.AppendTag(b, fieldY, protowire.BytesType)
	b = protowire.AppendBytes(b, packedFloats(make([]float32, domain.FrameSize)...))

	got, _, err := DecodeFrame(b, 0.5)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if got[domain.Nose].Present {
		t.Fatal("NaN landmark decoded as present")
	}
}

func TestDecodeFramePartial(t *testing.T) {
	partial := sampleFrame()[:5]

	got, _, err := DecodeFrame(EncodeFrame(partial, 0), 0.5)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	if _, ok := got.At(domain.Nose); !ok {
		t.Error("nose missing from partial frame")
	}
	if _, ok := got.At(domain.LeftHip); ok {
		t.Error("landmark past the end of a partial frame reported present")
	}
}

func TestDecodeFrameErrors(t *testing.T) {
	withXY := func(nx, ny int) []byte {
		var b []byte
		b = protowire.AppendTag(b, fieldX, protowire.BytesType)
		b = protowire.AppendBytes(b, packedFloats(make([]float32, nx)...))
		b = protowire.AppendTag(b, fieldY, protowire.BytesType)
		b = protowire.AppendBytes(b, packedFloats(make([]float32, ny)...))
		return b
	}
	truncated := EncodeFrame(sampleFrame(), 0)

	tests := []struct {
		name string
		data []byte
	}{
		{name: "LengthMismatch", data: withXY(domain.FrameSize, domain.FrameSize-1)},
		{name: "TooManyLandmarks", data: withXY(domain.FrameSize+1, domain.FrameSize+1)},
		{name: "Truncated", data: truncated[:len(truncated)-3]},
		{name: "RaggedPacked", data: append(protowire.AppendTag(nil, fieldX, protowire.BytesType), protowire.AppendBytes(nil, []byte{1, 2, 3})...)},
		{name: "WrongTimestampType", data: protowire.AppendFixed32(protowire.AppendTag(nil, fieldTimestampMs, protowire.Fixed32Type), 1)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := DecodeFrame(test.data, 0.5)
			if !errors.Is(err, ErrBadFrame) {
				t.Fatalf("DecodeFrame() err = %v, want ErrBadFrame", err)
			}
		})
	}
}

func TestDecodeFrameSkipsUnknownFields(t *testing.T) {
	b := protowire.AppendTag(nil, 9, protowire.BytesType)
	b = protowire.AppendString(b, "future field")
	b = append(b, EncodeFrame(sampleFrame(), 0)...)
	if _, _, err := DecodeFrame(b, 0.5); err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
}
