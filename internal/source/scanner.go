// Package source discovers Claude Code JSONL session files and builds cheap
// listing metadata for them.
package source

import (
	"os"
	"path/filepath"
	"strings"
)

// ScanDir walks the Claude projects directory and discovers all JSONL session
// files, main sessions and subagents alike.
func ScanDir(claudeDir string) ([]DiscoveredFile, error) {
	projectsDir := filepath.Join(claudeDir, "projects")

	info, err := os.Stat(projectsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(projectsDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() || filepath.Ext(path) != ".jsonl" {
			return nil
		}

		rel, _ := filepath.Rel(projectsDir, path)
		parts := strings.Split(rel, string(filepath.Separator))
		if len(parts) < 2 {
			return nil
		}

		name := d.Name()
		df := DiscoveredFile{
			Path:       path,
			Project:    decodeProjectName(parts[0]),
			ProjectDir: parts[0],
		}

		// Subagent transcripts live at <project>/<session-uuid>/subagents/agent-<id>.jsonl
		if len(parts) >= 4 && parts[2] == "subagents" {
			df.IsSubagent = true
			df.ParentSession = parts[1]
			df.SessionID = parts[1] + "/" + strings.TrimSuffix(name, ".jsonl")
		} else {
			df.SessionID = strings.TrimSuffix(name, ".jsonl")
		}

		files = append(files, df)
		return nil
	})

	return files, err
}

// decodeProjectName extracts a readable project name from the encoded
// directory name. Claude Code encodes absolute paths by replacing "/" with
// "-" ("-Users-amy-projects-gitlore" -> "gitlore"), so look for the last
// well-known parent directory and take what follows it.
func decodeProjectName(dirName string) string {
	parts := strings.Split(dirName, "-")

	knownParents := map[string]bool{
		"projects": true, "repos": true, "src": true,
		"code": true, "workspace": true, "dev": true,
	}

	for i := len(parts) - 2; i >= 0; i-- {
		if knownParents[strings.ToLower(parts[i])] {
			if name := strings.Join(parts[i+1:], "-"); name != "" {
				return name
			}
		}
	}

	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" {
			return parts[i]
		}
	}

	return dirName
}

// CountProjects returns the number of unique projects in a set of discovered files.
func CountProjects(files []DiscoveredFile) int {
	seen := make(map[string]struct{})
	for _, f := range files {
		seen[f.Project] = struct{}{}
	}
	return len(seen)
}
