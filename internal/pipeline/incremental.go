package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"ccreport/internal/source"
	"ccreport/internal/store"
)

// CachedLoadResult extends LoadResult with cache metadata.
type CachedLoadResult struct {
	LoadResult
	CacheHits int
	Relisted  int
}

// LoadWithCache discovers files, diffs them against the cache by mtime and
// size, rescans only what changed, and returns the combined listing.
func LoadWithCache(claudeDir string, includeSubagents bool, cache *store.Cache, progressFn ProgressFunc) (*CachedLoadResult, error) {
	files, err := source.ScanDir(claudeDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", claudeDir, err)
	}

	toProcess := filterSubagents(files, includeSubagents)

	result := &CachedLoadResult{
		LoadResult: LoadResult{
			TotalFiles:   len(toProcess),
			ProjectCount: source.CountProjects(files),
		},
	}

	tracked, err := cache.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	// Evict cached entries for files that disappeared from disk. The check
	// runs against all discovered files, not the subagent-filtered set, so a
	// filtered-out subagent is not mistaken for a deleted session.
	discovered := make(map[string]struct{}, len(files))
	for _, f := range files {
		discovered[f.Path] = struct{}{}
	}
	for path := range tracked {
		if _, ok := discovered[path]; !ok {
			_ = cache.DeleteEntry(path)
			delete(tracked, path)
		}
	}

	if len(toProcess) == 0 {
		return result, nil
	}

	var toRelist []source.DiscoveredFile
	unchanged := make(map[string]struct{})

	for _, f := range toProcess {
		info, err := os.Stat(f.Path)
		if err != nil {
			continue
		}

		cached, ok := tracked[f.Path]
		if ok && cached.MtimeNs == info.ModTime().UnixNano() && cached.SizeBytes == info.Size() {
			unchanged[f.Path] = struct{}{}
		} else {
			toRelist = append(toRelist, f)
		}
	}

	result.CacheHits = len(unchanged)
	result.Relisted = len(toRelist)

	if len(unchanged) > 0 {
		cached, err := cache.LoadAllEntries()
		if err != nil {
			return nil, fmt.Errorf("loading cached entries: %w", err)
		}
		for _, e := range cached {
			if _, ok := unchanged[e.Path]; ok {
				result.Entries = append(result.Entries, e)
				result.ListedFiles++
			}
		}
	}

	if len(toRelist) > 0 {
		results := listParallel(toRelist, result.CacheHits, result.TotalFiles, progressFn)

		for i, lr := range results {
			if lr.Err != nil {
				result.FileErrors++
				continue
			}
			result.ListedFiles++
			result.ParseErrors += lr.ParseErrors

			if lr.Entry.UserMessages > 0 || lr.Entry.AssistantMessages > 0 {
				result.Entries = append(result.Entries, lr.Entry)

				if info, err := os.Stat(toRelist[i].Path); err == nil {
					_ = cache.SaveEntry(lr.Entry, info.ModTime().UnixNano(), info.Size())
				}
			}
		}
	}

	return result, nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "ccreport")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "ccreport")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "sessions.db")
}
