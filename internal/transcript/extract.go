package transcript

import (
	"encoding/json"
	"regexp"
)

// commitPattern matches the summary line git prints after a commit:
//
//	[main abc1234] Add feature
//	[fix/scanner (root-commit) 9f3b2a1] Initial commit
var commitPattern = regexp.MustCompile(`(?m)^\[(.+?) ([0-9a-f]{7,40})\] (.+)$`)

// repoPattern matches the pull-request URL git push prints for a new branch.
var repoPattern = regexp.MustCompile(`github\.com/([\w.-]+)/([\w.-]+)/pull/new/`)

// ExtractCommits returns one Commit per commit line in text, in order of
// appearance. Identical lines yield identical, separate records.
func ExtractCommits(text string) []Commit {
	matches := commitPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	commits := make([]Commit, 0, len(matches))
	for _, m := range matches {
		commits = append(commits, Commit{Hash: m[2], Message: m[3]})
	}
	return commits
}

// DetectRepo returns the first "owner/repo" slug found in a GitHub
// pull-request URL within text.
func DetectRepo(text string) (string, bool) {
	m := repoPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1] + "/" + m[2], true
}

// resultTexts flattens tool_result content into its textual parts. The
// payload is either a plain string or a nested block array; non-text blocks
// are ignored.
func resultTexts(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []string{s}
	}

	var blocks []ContentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return nil
	}
	var texts []string
	for _, b := range blocks {
		if b.Type == "text" && b.Text != "" {
			texts = append(texts, b.Text)
		}
	}
	return texts
}
