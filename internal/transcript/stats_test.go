package transcript

import (
	"strings"
	"testing"
)

func TestSummarize_ToolCounts(t *testing.T) {
	events := decode(t,
		`{"type":"user","message":{"role":"user","content":"Run tests"}}`,
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","name":"Bash","id":"1","input":{}},{"type":"tool_use","name":"Read","id":"2","input":{}}]}}`,
	)

	stats, _ := summarize(events)

	if stats.TotalToolCalls != 2 {
		t.Errorf("TotalToolCalls = %d, want 2", stats.TotalToolCalls)
	}
	if stats.ToolCounts["Bash"] != 1 || stats.ToolCounts["Read"] != 1 {
		t.Errorf("ToolCounts = %v, want Bash:1 Read:1", stats.ToolCounts)
	}
	if stats.TotalPrompts != 1 {
		t.Errorf("TotalPrompts = %d, want 1", stats.TotalPrompts)
	}
	if stats.TotalMessages != 2 {
		t.Errorf("TotalMessages = %d, want 2", stats.TotalMessages)
	}
}

func TestSummarize_CommitsFromToolResults(t *testing.T) {
	events := decode(t,
		`{"type":"user","message":{"role":"user","content":"Commit it"}}`,
		`{"type":"user","message":{"role":"user","content":[{"type":"tool_result","content":"[main abc1234] Add feature\n 1 file changed"}]}}`,
	)

	stats, commits := summarize(events)

	if stats.TotalCommits != 1 || len(commits) != 1 {
		t.Fatalf("TotalCommits = %d, len(commits) = %d, want 1, 1", stats.TotalCommits, len(commits))
	}
	if commits[0].Hash != "abc1234" || !strings.Contains(commits[0].Message, "Add feature") {
		t.Errorf("commit = %+v", commits[0])
	}
}

func TestSummarize_ConsistentWithConversations(t *testing.T) {
	// Session-wide counts come from the full stream, per-conversation counts
	// from each conversation's own messages; they must agree.
	events := decode(t,
		`{"type":"user","message":{"role":"user","content":"First"}}`,
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","name":"Bash","id":"1","input":{}}]}}`,
		`{"type":"user","message":{"role":"user","content":[{"type":"tool_result","content":"[main aaa1111] One"}]}}`,
		`{"type":"user","message":{"role":"user","content":"Second"}}`,
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","name":"Bash","id":"2","input":{}},{"type":"tool_use","name":"Edit","id":"3","input":{}}]}}`,
		`{"type":"user","message":{"role":"user","content":[{"type":"tool_result","content":"[main bbb2222] Two"}]}}`,
	)

	stats, commits := summarize(events)
	convs := Group(events)

	summedTools := map[string]int{}
	summedCommits := 0
	for _, c := range convs {
		for name, n := range c.Stats.ToolCounts {
			summedTools[name] += n
		}
		summedCommits += len(c.Stats.Commits)
	}

	if len(summedTools) != len(stats.ToolCounts) {
		t.Fatalf("tool count keys differ: %v vs %v", summedTools, stats.ToolCounts)
	}
	for name, n := range stats.ToolCounts {
		if summedTools[name] != n {
			t.Errorf("tool %q: conversations sum to %d, session-wide %d", name, summedTools[name], n)
		}
	}
	if summedCommits != len(commits) {
		t.Errorf("commits: conversations sum to %d, session-wide %d", summedCommits, len(commits))
	}

	totalFromCounts := 0
	for _, n := range stats.ToolCounts {
		totalFromCounts += n
	}
	if stats.TotalToolCalls != totalFromCounts {
		t.Errorf("TotalToolCalls = %d, sum of ToolCounts = %d", stats.TotalToolCalls, totalFromCounts)
	}

	nonContinuation := 0
	for _, c := range convs {
		if !c.IsContinuation {
			nonContinuation++
		}
	}
	if nonContinuation != stats.TotalPrompts {
		t.Errorf("non-continuation conversations = %d, TotalPrompts = %d", nonContinuation, stats.TotalPrompts)
	}
}

func TestReduce_LongTexts(t *testing.T) {
	long := strings.Repeat("x", LongTextThreshold+1)
	events := decode(t,
		`{"type":"user","message":{"role":"user","content":"Hello"}}`,
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"text","text":"short"},{"type":"text","text":"`+long+`"}]}}`,
	)

	st := reduce(events)

	if len(st.LongTexts) != 1 {
		t.Fatalf("LongTexts = %v, want one entry", st.LongTexts)
	}
	if st.LongTexts[0] != "msg1.block1" {
		t.Errorf("LongTexts[0] = %q, want msg1.block1", st.LongTexts[0])
	}
}

func TestDetectRepoAcrossEvents(t *testing.T) {
	events := decode(t,
		`{"type":"user","message":{"role":"user","content":"Push it"}}`,
		`{"type":"user","message":{"role":"user","content":[{"type":"tool_result","content":"remote: https://github.com/owner/repo/pull/new/branch"}]}}`,
	)

	if got := detectRepo(events); got != "owner/repo" {
		t.Errorf("detectRepo = %q, want owner/repo", got)
	}

	if got := detectRepo(events[:1]); got != "" {
		t.Errorf("detectRepo = %q, want empty when nothing matches", got)
	}
}
