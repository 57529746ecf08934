package transcript

import "fmt"

// LongTextThreshold is the text-block length (bytes) above which a block is
// flagged for truncated display downstream. Tunable, not a contract.
const LongTextThreshold = 1500

// reduce computes tool counts, commits, and long-text flags over a run of
// events. It is applied both to each conversation and to the whole stream,
// so per-conversation stats sum to the session-wide stats by construction.
func reduce(events []Event) ConversationStats {
	st := ConversationStats{
		ToolCounts: map[string]int{},
		Commits:    []Commit{},
		LongTexts:  []string{},
	}

	for i, ev := range events {
		for j, b := range ev.Blocks {
			switch b.Type {
			case "tool_use":
				if ev.Kind == "assistant" && b.Name != "" {
					st.ToolCounts[b.Name]++
				}
			case "tool_result":
				for _, text := range resultTexts(b.Content) {
					st.Commits = append(st.Commits, ExtractCommits(text)...)
				}
			case "text":
				if len(b.Text) > LongTextThreshold {
					st.LongTexts = append(st.LongTexts, fmt.Sprintf("msg%d.block%d", i, j))
				}
			}
		}
	}

	return st
}

// summarize derives the session-wide stats from the whole event stream,
// independent of conversation grouping.
func summarize(events []Event) (Stats, []Commit) {
	r := reduce(events)

	totalCalls := 0
	for _, n := range r.ToolCounts {
		totalCalls += n
	}

	prompts := 0
	for _, ev := range events {
		if ev.Kind == "user" && !ev.IsToolResultOnly() {
			prompts++
		}
	}

	return Stats{
		TotalPrompts:   prompts,
		TotalMessages:  len(events),
		TotalToolCalls: totalCalls,
		TotalCommits:   len(r.Commits),
		ToolCounts:     r.ToolCounts,
	}, r.Commits
}

// detectRepo scans tool output across all events and returns the first
// GitHub slug found, or "".
func detectRepo(events []Event) string {
	for _, ev := range events {
		for _, b := range ev.Blocks {
			if b.Type != "tool_result" {
				continue
			}
			for _, text := range resultTexts(b.Content) {
				if slug, ok := DetectRepo(text); ok {
					return slug
				}
			}
		}
	}
	return ""
}
