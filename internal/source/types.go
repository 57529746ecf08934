package source

import "time"

// DiscoveredFile is a JSONL transcript found during directory scanning.
type DiscoveredFile struct {
	Path          string
	Project       string // decoded display name (e.g., "gitlore")
	ProjectDir    string // raw directory name
	SessionID     string // extracted from filename
	IsSubagent    bool
	ParentSession string // for subagents: parent session UUID
}

// SessionEntry is the listing metadata for one transcript file, cheap enough
// to build without fully decoding the session.
type SessionEntry struct {
	SessionID     string `json:"session_id"`
	Project       string `json:"project"`
	Path          string `json:"path"`
	IsSubagent    bool   `json:"is_subagent,omitempty"`
	ParentSession string `json:"parent_session,omitempty"`

	Summary           string    `json:"summary"` // summary record if present, else first user prompt
	FirstTime         time.Time `json:"first_time"`
	LastTime          time.Time `json:"last_time"`
	UserMessages      int       `json:"user_messages"`
	AssistantMessages int       `json:"assistant_messages"`
	SizeBytes         int64     `json:"size_bytes"`
}

// ListResult holds the output of the listing scan for a single file.
type ListResult struct {
	Entry       SessionEntry
	ParseErrors int
	Err         error
}
