package ipc

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var ErrUnknownMessage = errors.New("unknown message")

// Envelope is one line from the match engine, tagged with its type.
// Data is kept as RawMessage so handlers can defer deserialization to the concrete type.
type Envelope struct {
	Type string
	Data json.RawMessage
}

// probe holds just enough of a line to classify it.
type probe struct {
	TurnInfo        []float64       `json:"turnInfo"`
	UnitInformation json.RawMessage `json:"unitInformation"`
}

// Classify tags a raw line by its shape: the config carries unitInformation,
// every later message carries turnInfo whose first entry is the frame type.
func Classify(line []byte) (Envelope, error) {
	var p probe
	if err := json.Unmarshal(line, &p); err != nil {
		return Envelope{}, fmt.Errorf("unmarshal message: %w", err)
	}
	env := Envelope{Data: json.RawMessage(line)}
	switch {
	case len(p.TurnInfo) > 0:
		switch int(p.TurnInfo[0]) {
		case 0:
			env.Type = TypeTurn
		case 1:
			env.Type = TypeFrame
		case 2:
			env.Type = TypeEnd
		default:
			return Envelope{}, fmt.Errorf("%w: turnInfo[0] = %v", ErrUnknownMessage, p.TurnInfo[0])
		}
	case len(p.UnitInformation) > 0:
		env.Type = TypeConfig
	default:
		return Envelope{}, ErrUnknownMessage
	}
	return env, nil
}

// ReadEnvelope reads and classifies the next non-empty line.
func ReadEnvelope(r *bufio.Reader) (Envelope, error) {
	for {
		line, err := r.ReadBytes('\n')
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			// A final line without a newline is still a message.
			return Classify(line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Envelope{}, io.EOF
			}
			return Envelope{}, &readError{err: err}
		}
	}
}

// WriteLine writes v as a single JSON line.
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
