package transcript

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTranscript(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFile_FullReport(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"user","timestamp":"2025-01-01T10:00:00.000Z","message":{"role":"user","content":"Hello"}}`,
		`{"type":"assistant","timestamp":"2025-01-01T10:00:05.000Z","message":{"role":"assistant","content":[{"type":"text","text":"Hi!"}]}}`,
	)

	report, err := ParseFile(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Stats.TotalPrompts != 1 || report.Stats.TotalMessages != 2 || report.Stats.TotalToolCalls != 0 {
		t.Errorf("stats = %+v", report.Stats)
	}
	if len(report.Conversations) != 1 {
		t.Fatalf("len(Conversations) = %d, want 1", len(report.Conversations))
	}
	if report.Conversations[0].IsContinuation {
		t.Error("IsContinuation = true, want false")
	}
	if _, err := time.Parse(time.RFC3339, report.Metadata.GeneratedAt); err != nil {
		t.Errorf("GeneratedAt %q is not RFC 3339: %v", report.Metadata.GeneratedAt, err)
	}
}

func TestParseFile_MissingFile(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.jsonl"), "")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestBuildReport_RepoDetection(t *testing.T) {
	events := decode(t,
		`{"type":"user","message":{"role":"user","content":"Push changes"}}`,
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_result","content":"remote: Create a pull request on GitHub by visiting:\nremote:      https://github.com/owner/repo/pull/new/branch"}]}}`,
	)

	report := BuildReport(events, "")
	if report.Metadata.GithubRepo != "owner/repo" {
		t.Errorf("GithubRepo = %q, want owner/repo", report.Metadata.GithubRepo)
	}

	// Explicit slug wins even when the transcript contains a detectable one.
	report = BuildReport(events, "custom/repo")
	if report.Metadata.GithubRepo != "custom/repo" {
		t.Errorf("GithubRepo = %q, want custom/repo", report.Metadata.GithubRepo)
	}
}

func TestBuildReport_IdempotentExceptTimestamp(t *testing.T) {
	events := decode(t,
		`{"type":"user","message":{"role":"user","content":"Commit"}}`,
		`{"type":"user","message":{"role":"user","content":[{"type":"tool_result","content":"[main abc1234] Add feature"}]}}`,
	)

	a := BuildReport(events, "x/y")
	b := BuildReport(events, "x/y")
	a.Metadata.GeneratedAt = ""
	b.Metadata.GeneratedAt = ""

	aj, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	bj, err := json.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	if string(aj) != string(bj) {
		t.Errorf("reports differ:\n%s\n%s", aj, bj)
	}
}

func TestReport_JSONShape(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"user","timestamp":"2025-01-01T10:00:00.000Z","message":{"role":"user","content":"Hello world"}}`,
		`{"type":"assistant","timestamp":"2025-01-01T10:00:05.000Z","message":{"role":"assistant","content":[{"type":"text","text":"Hi!"}]}}`,
	)

	report, err := ParseFile(path, "")
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"metadata", "stats", "conversations", "commits"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}

	stats := doc["stats"].(map[string]any)
	for _, key := range []string{"total_prompts", "total_messages", "total_tool_calls", "total_commits", "tool_counts"} {
		if _, ok := stats[key]; !ok {
			t.Errorf("missing stats key %q", key)
		}
	}

	convs := doc["conversations"].([]any)
	conv := convs[0].(map[string]any)
	for _, key := range []string{"user_text", "timestamp", "is_continuation", "stats", "messages"} {
		if _, ok := conv[key]; !ok {
			t.Errorf("missing conversation key %q", key)
		}
	}
	cstats := conv["stats"].(map[string]any)
	for _, key := range []string{"tool_counts", "commits", "long_texts"} {
		if _, ok := cstats[key]; !ok {
			t.Errorf("missing conversation stats key %q", key)
		}
	}

	// Empty aggregates must be {} and [], never null.
	if stats["tool_counts"] == nil || cstats["commits"] == nil || doc["commits"] == nil {
		t.Error("empty aggregates marshalled as null")
	}

	// Passthrough message keeps the original message object.
	msgs := conv["messages"].([]any)
	first := msgs[0].(map[string]any)
	if first["type"] != "user" || first["timestamp"] != "2025-01-01T10:00:00.000Z" {
		t.Errorf("passthrough envelope = %v", first)
	}
	content := first["content"].(map[string]any)
	if content["content"] != "Hello world" {
		t.Errorf("passthrough content = %v, want original message object", content)
	}
}

func TestParse_MalformedLineBetweenValidOnes(t *testing.T) {
	r := strings.NewReader(
		`{"type":"user","message":{"role":"user","content":"Hello"}}` + "\n" +
			`{{{ truncated garbage` + "\n" +
			`{"type":"assistant","message":{"role":"assistant","content":[{"type":"text","text":"Hi"}]}}` + "\n")

	report, err := Parse(r, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Stats.TotalMessages != 2 {
		t.Errorf("TotalMessages = %d, want 2", report.Stats.TotalMessages)
	}
}
