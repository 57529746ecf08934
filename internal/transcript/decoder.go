package transcript

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
)

const maxLineBytes = 10 * 1024 * 1024 // transcripts can carry multi-MB tool output lines

type rawLine struct {
	Type      string          `json:"type"`
	Timestamp string          `json:"timestamp"`
	Summary   string          `json:"summary"`
	Message   json.RawMessage `json:"message"`
}

type rawMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// Decode reads a JSONL transcript and returns its events in input order.
// Malformed lines are skipped; real transcripts routinely end with a
// truncated line and that must not lose the rest of the session. A read
// error from the underlying source is fatal.
func Decode(r io.Reader) ([]Event, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var events []Event
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if ev, ok := decodeLine(line); ok {
			events = append(events, ev)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// DecodeRecords decodes pre-fetched log lines (e.g. the loglines array from
// the session API) with the same tolerance as Decode.
func DecodeRecords(records []json.RawMessage) []Event {
	var events []Event
	for _, rec := range records {
		if ev, ok := decodeLine(rec); ok {
			events = append(events, ev)
		}
	}
	return events
}

func decodeLine(line []byte) (Event, bool) {
	var raw rawLine
	if err := json.Unmarshal(line, &raw); err != nil {
		return Event{}, false
	}

	ev := Event{
		Kind:       raw.Type,
		Timestamp:  raw.Timestamp,
		Summary:    raw.Summary,
		RawMessage: raw.Message,
	}

	if len(raw.Message) > 0 {
		var msg rawMessage
		if err := json.Unmarshal(raw.Message, &msg); err == nil {
			ev.Role = msg.Role
			decodeContent(&ev, msg.Content)
		}
	}

	return ev, true
}

// decodeContent fills Text or Blocks depending on whether the message content
// was a plain string or a block array. Content of any other shape is left
// empty rather than rejected.
func decodeContent(ev *Event, content json.RawMessage) {
	if len(content) == 0 {
		return
	}

	var s string
	if err := json.Unmarshal(content, &s); err == nil {
		ev.Text = s
		return
	}

	var blocks []ContentBlock
	if err := json.Unmarshal(content, &blocks); err == nil {
		ev.Blocks = blocks
	}
}
