package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"time"

	"ccreport/internal/transcript"
)

// Byte patterns for field extraction on lines we never fully decode.
var (
	patTimestamp1 = []byte(`"timestamp":"`)
	patTimestamp2 = []byte(`"timestamp": "`)
)

// ListFile scans one transcript and produces its listing entry. Most lines
// are classified with a byte-level scan of the top-level "type" field; only
// summary records and the first genuine user prompt get a full JSON decode.
func ListFile(df DiscoveredFile) ListResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ListResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	entry := SessionEntry{
		SessionID:     df.SessionID,
		Project:       df.Project,
		Path:          df.Path,
		IsSubagent:    df.IsSubagent,
		ParentSession: df.ParentSession,
	}
	if info, err := f.Stat(); err == nil {
		entry.SizeBytes = info.Size()
	}

	var (
		parseErrors int
		firstPrompt string
	)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256*1024), 10*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()

		switch extractTopLevelType(line) {
		case "summary":
			var rec struct {
				Summary string `json:"summary"`
			}
			if err := json.Unmarshal(line, &rec); err != nil {
				parseErrors++
				continue
			}
			if rec.Summary != "" {
				entry.Summary = rec.Summary
			}

		case "user":
			entry.UserMessages++
			if ts, ok := extractTimestampBytes(line); ok {
				updateTimeRange(&entry.FirstTime, &entry.LastTime, ts)
			}
			if firstPrompt == "" {
				firstPrompt = extractPrompt(line)
			}

		case "assistant":
			entry.AssistantMessages++
			if ts, ok := extractTimestampBytes(line); ok {
				updateTimeRange(&entry.FirstTime, &entry.LastTime, ts)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return ListResult{Err: err}
	}

	if entry.Summary == "" {
		entry.Summary = firstPrompt
	}

	return ListResult{Entry: entry, ParseErrors: parseErrors}
}

// extractPrompt fully decodes a user line and returns its leading text, or
// "" when the line is malformed or a pure tool-result relay.
func extractPrompt(line []byte) string {
	events := transcript.DecodeRecords([]json.RawMessage{line})
	if len(events) == 0 || events[0].IsToolResultOnly() {
		return ""
	}
	return events[0].LeadingText()
}

// typeKey is the byte sequence for a JSON key named "type" (with quotes).
var typeKey = []byte(`"type"`)

// extractTopLevelType finds the top-level "type" field in a JSONL line.
// Tracks brace depth and string boundaries so nested "type" keys are ignored.
// Early-exits once found, making cost O(1) vs line length.
func extractTopLevelType(line []byte) string {
	depth := 0
	for i := 0; i < len(line); {
		switch line[i] {
		case '"':
			if depth == 1 && bytes.HasPrefix(line[i:], typeKey) {
				val, isKey := classifyType(line, i+len(typeKey))
				if isKey {
					return val // found the "type" key, done regardless of value
				}
				// "type" appeared as a value, not a key. Continue scanning.
			}
			i = skipJSONString(line, i)
		case '{':
			depth++
			i++
		case '}':
			depth--
			i++
		default:
			i++
		}
	}
	return ""
}

// classifyType checks whether pos follows a JSON key (expects : then value).
// isKey=false means "type" appeared as a value, not a key; caller should
// keep scanning.
func classifyType(line []byte, pos int) (val string, isKey bool) {
	i := skipSpaces(line, pos)
	if i >= len(line) || line[i] != ':' {
		return "", false
	}
	i = skipSpaces(line, i+1)
	if i >= len(line) || line[i] != '"' {
		return "", true // key with non-string value (null, number, etc.)
	}
	i++ // past opening quote

	end := bytes.IndexByte(line[i:], '"')
	if end < 0 || end > 20 {
		return "", true
	}
	switch v := string(line[i : i+end]); v {
	case "user", "assistant", "summary":
		return v, true
	}
	return "", true // valid key but irrelevant type (e.g., "progress")
}

// skipJSONString advances past a JSON string starting at the opening quote.
func skipJSONString(line []byte, i int) int {
	i++ // skip opening quote
	for i < len(line) {
		switch line[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1
		default:
			i++
		}
	}
	return i
}

func skipSpaces(line []byte, i int) int {
	for i < len(line) && line[i] == ' ' {
		i++
	}
	return i
}

// extractTimestampBytes extracts the timestamp field via byte scanning.
func extractTimestampBytes(line []byte) (time.Time, bool) {
	for _, pat := range [][]byte{patTimestamp1, patTimestamp2} {
		idx := bytes.Index(line, pat)
		if idx < 0 {
			continue
		}
		start := idx + len(pat)
		end := bytes.IndexByte(line[start:], '"')
		if end < 0 || end > 40 {
			continue
		}
		ts, err := time.Parse(time.RFC3339Nano, string(line[start:start+end]))
		if err != nil {
			return time.Time{}, false
		}
		return ts, true
	}
	return time.Time{}, false
}

func updateTimeRange(first, last *time.Time, ts time.Time) {
	if first.IsZero() || ts.Before(*first) {
		*first = ts
	}
	if last.IsZero() || ts.After(*last) {
		*last = ts
	}
}
