package transcript

import (
	"fmt"
	"io"
	"os"
	"time"
)

// BuildReport assembles the report from decoded events. An explicit repo slug
// always wins over detection; when repo is empty the first pull-request URL
// in tool output supplies it. Apart from the generation timestamp the result
// is a pure function of its inputs.
func BuildReport(events []Event, repo string) *Report {
	if repo == "" {
		repo = detectRepo(events)
	}

	stats, commits := summarize(events)
	conversations := Group(events)
	if conversations == nil {
		conversations = []Conversation{}
	}

	return &Report{
		Metadata: Metadata{
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			GithubRepo:  repo,
		},
		Stats:         stats,
		Conversations: conversations,
		Commits:       commits,
	}
}

// Parse decodes a JSONL transcript stream and builds its report.
func Parse(r io.Reader, repo string) (*Report, error) {
	events, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}
	return BuildReport(events, repo), nil
}

// ParseFile builds the report for a transcript file on disk.
func ParseFile(path, repo string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening transcript: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f, repo)
}
