package sim

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"motionarcade/internal/domain"
)

// Line kinds in a landmark log.
const (
	LineFrame = "frame"
	LineCue   = "cue"
	LineStop  = "stop"
)

// LogLine is one record of a JSONL landmark log, with times relative to the start of the run.
// Landmarks are [x, y, visibility] triples; a frame line without landmarks is an empty frame.
type LogLine struct {
	TMs       int64        `json:"t_ms"`
	Kind      string       `json:"kind"`
	Landmarks [][3]float64 `json:"landmarks,omitempty"`
	CueOK     bool         `json:"cue_ok,omitempty"`
}

// LogWriter appends lines to a JSONL landmark log.
type LogWriter struct {
	enc *json.Encoder
}

func NewLogWriter(w io.Writer) *LogWriter {
	return &LogWriter{enc: json.NewEncoder(w)}
}

func (w *LogWriter) Frame(tMs int64, frame domain.Frame) error {
	line := LogLine{TMs: tMs, Kind: LineFrame}
	if !frame.Empty() {
		line.Landmarks = make([][3]float64, len(frame))
		for i, lm := range frame {
			vis := 0.0
			if lm.Present {
				vis = 1
			}
			line.Landmarks[i] = [3]float64{lm.X, lm.Y, vis}
		}
	}
	return w.enc.Encode(line)
}

func (w *LogWriter) Cue(tMs int64, ok bool) error {
	return w.enc.Encode(LogLine{TMs: tMs, Kind: LineCue, CueOK: ok})
}

func (w *LogWriter) Stop(tMs int64) error {
	return w.enc.Encode(LogLine{TMs: tMs, Kind: LineStop})
}

// ReadLog decodes every line of a JSONL landmark log. Blank lines are skipped.
func ReadLog(r io.Reader) ([]LogLine, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []LogLine
	n := 0
	for scanner.Scan() {
		n++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var line LogLine
		if err := json.Unmarshal(raw, &line); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		switch line.Kind {
		case LineFrame, LineCue, LineStop:
		case "":
			line.Kind = LineFrame
		default:
			return nil, fmt.Errorf("line %d: unknown kind %q", n, line.Kind)
		}
		if line.Kind == LineFrame && len(line.Landmarks) > domain.FrameSize {
			return nil, fmt.Errorf("line %d: frame has %d landmarks, want at most %d", n, len(line.Landmarks), domain.FrameSize)
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// frameOf converts a frame line, marking landmarks below minVisibility or with unusable coordinates absent.
func frameOf(line LogLine, minVisibility float64) domain.Frame {
	if len(line.Landmarks) == 0 {
		return nil
	}
	frame := make(domain.Frame, len(line.Landmarks))
	for i, lm := range line.Landmarks {
		x, y, vis := lm[0], lm[1], lm[2]
		frame[i].Point = domain.Point{X: x, Y: y}
		frame[i].Present = vis > 0 && vis >= minVisibility && finite(x) && finite(y)
	}
	return frame
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
