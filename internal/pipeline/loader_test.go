package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"ccreport/internal/store"
)

func seedClaudeDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "projects", "-Users-amy-projects-gitlore")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	session := `{"type":"user","timestamp":"2025-06-01T10:00:00Z","message":{"role":"user","content":"Hello"}}
{"type":"assistant","timestamp":"2025-06-01T10:00:05Z","message":{"role":"assistant","content":[{"type":"text","text":"Hi"}]}}
`
	if err := os.WriteFile(filepath.Join(dir, "aaaa-1111.jsonl"), []byte(session), 0o600); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestLoad(t *testing.T) {
	root := seedClaudeDir(t)

	result, err := Load(root, true, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if result.TotalFiles != 1 || result.ListedFiles != 1 {
		t.Errorf("files = %d/%d, want 1/1", result.ListedFiles, result.TotalFiles)
	}
	if len(result.Entries) != 1 {
		t.Fatalf("len(Entries) = %d, want 1", len(result.Entries))
	}
	if result.Entries[0].Summary != "Hello" {
		t.Errorf("Summary = %q, want Hello", result.Entries[0].Summary)
	}
}

func TestLoad_EmptyDir(t *testing.T) {
	result, err := Load(t.TempDir(), true, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if result.TotalFiles != 0 || len(result.Entries) != 0 {
		t.Errorf("result = %+v, want empty", result)
	}
}

func TestLoadWithCache_SecondLoadHitsCache(t *testing.T) {
	root := seedClaudeDir(t)

	cache, err := store.Open(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	first, err := LoadWithCache(root, true, cache, nil)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if first.Relisted != 1 || first.CacheHits != 0 {
		t.Errorf("first load: relisted=%d hits=%d, want 1/0", first.Relisted, first.CacheHits)
	}

	second, err := LoadWithCache(root, true, cache, nil)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if second.CacheHits != 1 || second.Relisted != 0 {
		t.Errorf("second load: relisted=%d hits=%d, want 0/1", second.Relisted, second.CacheHits)
	}
	if len(second.Entries) != 1 || second.Entries[0].Summary != "Hello" {
		t.Errorf("cached entries = %+v", second.Entries)
	}
}

func TestLoadWithCache_EvictsDeletedFiles(t *testing.T) {
	root := seedClaudeDir(t)

	cache, err := store.Open(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	if _, err := LoadWithCache(root, true, cache, nil); err != nil {
		t.Fatalf("first load: %v", err)
	}

	sessionPath := filepath.Join(root, "projects", "-Users-amy-projects-gitlore", "aaaa-1111.jsonl")
	if err := os.Remove(sessionPath); err != nil {
		t.Fatal(err)
	}

	result, err := LoadWithCache(root, true, cache, nil)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if len(result.Entries) != 0 || result.CacheHits != 0 {
		t.Errorf("result = %+v, want no entries after file removal", result.LoadResult)
	}

	cached, err := cache.LoadAllEntries()
	if err != nil {
		t.Fatal(err)
	}
	if len(cached) != 0 {
		t.Errorf("cached = %+v, want deleted file evicted", cached)
	}

	tracked, err := cache.GetTrackedFiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(tracked) != 0 {
		t.Errorf("tracked = %v, want empty", tracked)
	}
}
