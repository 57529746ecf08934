// Package transcript parses Claude Code session JSONL logs into a structured report:
// conversations grouped by user prompt, tool usage counts, extracted git commits,
// and the GitHub repository the session worked against.
package transcript

import "encoding/json"

// Event is one decoded transcript line. The original message object is kept
// verbatim in RawMessage so it can pass through into the report untouched;
// everything else is derived and additive.
type Event struct {
	Kind       string // "user", "assistant", "summary", or anything else the log emits
	Timestamp  string
	Role       string
	Text       string         // message content when it was a plain JSON string
	Blocks     []ContentBlock // message content when it was a block array
	Summary    string         // for "summary" records
	RawMessage json.RawMessage
}

// ContentBlock is one tagged variant inside a message content array.
type ContentBlock struct {
	Type    string          `json:"type"`
	Text    string          `json:"text,omitempty"`
	Name    string          `json:"name,omitempty"`
	ID      string          `json:"id,omitempty"`
	Input   json.RawMessage `json:"input,omitempty"`
	Content json.RawMessage `json:"content,omitempty"`
}

// Commit is one git commit discovered in tool output. Repeated identical
// commit lines produce repeated records; no deduplication happens here.
type Commit struct {
	Hash    string `json:"hash"`
	Message string `json:"message"`
}

// MessageRecord is the passthrough form of an event inside a conversation:
// the original message object under its type and timestamp.
type MessageRecord struct {
	Type      string          `json:"type"`
	Timestamp string          `json:"timestamp"`
	Content   json.RawMessage `json:"content"`
}

// ConversationStats holds aggregates scoped to a single conversation.
type ConversationStats struct {
	ToolCounts map[string]int `json:"tool_counts"`
	Commits    []Commit       `json:"commits"`
	LongTexts  []string       `json:"long_texts"`
}

// Conversation is a run of events rooted at one user prompt. IsContinuation
// marks conversations that had no genuine prompt of their own: transcripts
// that open mid-tool-exchange or with a non-user event.
type Conversation struct {
	UserText       string            `json:"user_text"`
	Timestamp      string            `json:"timestamp"`
	IsContinuation bool              `json:"is_continuation"`
	Stats          ConversationStats `json:"stats"`
	Messages       []MessageRecord   `json:"messages"`

	events []Event
}

// Stats holds session-wide aggregates.
type Stats struct {
	TotalPrompts   int            `json:"total_prompts"`
	TotalMessages  int            `json:"total_messages"`
	TotalToolCalls int            `json:"total_tool_calls"`
	TotalCommits   int            `json:"total_commits"`
	ToolCounts     map[string]int `json:"tool_counts"`
}

// Metadata carries report generation details.
type Metadata struct {
	GeneratedAt string `json:"generated_at"`
	GithubRepo  string `json:"github_repo,omitempty"`
}

// Report is the assembled output document.
type Report struct {
	Metadata      Metadata       `json:"metadata"`
	Stats         Stats          `json:"stats"`
	Conversations []Conversation `json:"conversations"`
	Commits       []Commit       `json:"commits"`
}

// LeadingText returns the human-readable text of the event: the plain string
// content, or the first text block.
func (e Event) LeadingText() string {
	if e.Text != "" {
		return e.Text
	}
	for _, b := range e.Blocks {
		if b.Type == "text" {
			return b.Text
		}
	}
	return ""
}

// IsToolResultOnly reports whether the event carries nothing but tool output:
// a block array with at least one tool_result and no human-authored text.
// Such user events are mechanical relays, not new prompts.
func (e Event) IsToolResultOnly() bool {
	if e.Text != "" || len(e.Blocks) == 0 {
		return false
	}
	sawResult := false
	for _, b := range e.Blocks {
		switch b.Type {
		case "tool_result":
			sawResult = true
		case "text":
			if b.Text != "" {
				return false
			}
		}
	}
	return sawResult
}
