// Package pipeline loads session listings from the Claude data directory,
// in parallel and optionally diffed against the SQLite cache.
package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"ccreport/internal/source"
)

// LoadResult holds the output of the full listing pipeline.
type LoadResult struct {
	Entries      []source.SessionEntry
	TotalFiles   int
	ListedFiles  int
	ParseErrors  int
	FileErrors   int
	ProjectCount int
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load discovers and lists all session files from the Claude data directory.
// It uses a bounded worker pool for parallel scanning.
func Load(claudeDir string, includeSubagents bool, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.ScanDir(claudeDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", claudeDir, err)
	}

	if len(files) == 0 {
		return &LoadResult{}, nil
	}

	toProcess := filterSubagents(files, includeSubagents)

	result := &LoadResult{
		TotalFiles:   len(toProcess),
		ProjectCount: source.CountProjects(files),
	}

	if len(toProcess) == 0 {
		return result, nil
	}

	results := listParallel(toProcess, 0, result.TotalFiles, progressFn)

	for _, lr := range results {
		if lr.Err != nil {
			result.FileErrors++
			continue
		}
		result.ListedFiles++
		result.ParseErrors += lr.ParseErrors
		if lr.Entry.UserMessages > 0 || lr.Entry.AssistantMessages > 0 {
			result.Entries = append(result.Entries, lr.Entry)
		}
	}

	return result, nil
}

func filterSubagents(files []source.DiscoveredFile, includeSubagents bool) []source.DiscoveredFile {
	if includeSubagents {
		return files
	}
	var kept []source.DiscoveredFile
	for _, f := range files {
		if !f.IsSubagent {
			kept = append(kept, f)
		}
	}
	return kept
}

// listParallel scans files with a bounded worker pool, preserving input
// order in the result slice. done and total seed the progress callback so
// cache-assisted loads report combined progress.
func listParallel(files []source.DiscoveredFile, done, total int, progressFn ProgressFunc) []source.ListResult {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]source.ListResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ListFile(files[idx])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n)+done, total)
				}
			}
		}()
	}

	wg.Wait()
	return results
}
