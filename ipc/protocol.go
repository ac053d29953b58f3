package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// MaxLineSize guards against corrupted or runaway frames.
const MaxLineSize = 1 << 20

// Frame is one line from the game engine. Data is kept raw so handlers can
// defer deserialization to the concrete type.
type Frame struct {
	Kind string
	Data json.RawMessage
}

// NewScanner splits r into frame lines of at most MaxLineSize bytes.
func NewScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return sc
}

// ReadFrame returns the next non-blank line as a classified frame. io.EOF
// means the engine closed the stream.
func ReadFrame(sc *bufio.Scanner) (Frame, error) {
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 || isBlank(line) {
			continue
		}
		return Classify(line)
	}
	if err := sc.Err(); err != nil {
		return Frame{}, fmt.Errorf("read frame: %w", err)
	}
	return Frame{}, io.EOF
}

// Classify tells the config line from state frames by the presence of
// turnInfo. The returned frame owns a copy of line.
func Classify(line []byte) (Frame, error) {
	var probe struct {
		TurnInfo []int `json:"turnInfo"`
	}
	if err := json.Unmarshal(line, &probe); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	data := append(json.RawMessage(nil), line...)
	if probe.TurnInfo == nil {
		return Frame{Kind: KindConfig, Data: data}, nil
	}
	if len(probe.TurnInfo) == 0 || probe.TurnInfo[0] < 0 || probe.TurnInfo[0] >= len(phaseKinds) {
		return Frame{}, fmt.Errorf("%w: unknown turn phase in %v", ErrMalformedFrame, probe.TurnInfo)
	}
	return Frame{Kind: phaseKinds[probe.TurnInfo[0]], Data: data}, nil
}

// WriteLine marshals v as one JSON line.
func WriteLine(w io.Writer, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal line: %w", err)
	}
	payload = append(payload, '\n')
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	return nil
}

func isBlank(b []byte) bool {
	for _, c := range b {
		if c != ' ' && c != '\t' && c != '\r' {
			return false
		}
	}
	return true
}
