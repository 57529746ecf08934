package cmd

import (
	"fmt"
	"os"

	"ccreport/internal/cli"
	"ccreport/internal/config"
	"ccreport/internal/pipeline"
	"ccreport/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagClaudeDir string
	flagNoCache   bool
	flagQuiet     bool
	flagSubagents bool
)

var rootCmd = &cobra.Command{
	Use:   "ccreport",
	Short: "Claude Code session reports",
	Long:  "Turn Claude Code transcripts into structured reports: conversations, tool usage, commits.",
	RunE:  runLocal,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cfg, _ := config.Load()

	rootCmd.PersistentFlags().StringVarP(&flagClaudeDir, "claude-dir", "d", config.ClaudeDir(cfg), "Claude data directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip SQLite cache, rescan everything")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVar(&flagSubagents, "subagents", cfg.General.IncludeSubagents, "Include subagent sessions")
}

// loadListing is the shared session discovery path used by the listing
// commands. Uses the SQLite cache when available for fast subsequent runs.
func loadListing() (*pipeline.LoadResult, error) {
	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%100 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Scanning [%d/%d]", current, total)
		}
	}

	if !flagNoCache {
		cache, err := store.Open(pipeline.CachePath())
		if err != nil {
			if !flagQuiet {
				fmt.Fprintf(os.Stderr, "  Cache unavailable, doing full scan\n")
			}
		} else {
			defer func() { _ = cache.Close() }()

			cr, err := pipeline.LoadWithCache(flagClaudeDir, flagSubagents, cache, progressFn)
			if err != nil {
				if !flagQuiet {
					fmt.Fprintf(os.Stderr, "\n  Cache error, falling back to full scan\n")
				}
			} else {
				if !flagQuiet && cr.TotalFiles > 0 {
					if cr.Relisted == 0 {
						fmt.Fprintf(os.Stderr, "\r  Loaded %s sessions from cache (%d projects)    \n",
							cli.FormatNumber(int64(len(cr.Entries))),
							cr.ProjectCount,
						)
					} else {
						fmt.Fprintf(os.Stderr, "\r  %s cached + %d rescanned (%d projects)    \n",
							cli.FormatNumber(int64(cr.CacheHits)),
							cr.Relisted,
							cr.ProjectCount,
						)
					}
				}
				return &cr.LoadResult, nil
			}
		}
	}

	result, err := pipeline.Load(flagClaudeDir, flagSubagents, progressFn)
	if err != nil {
		return nil, err
	}

	if !flagQuiet && result.TotalFiles > 0 {
		fmt.Fprintf(os.Stderr, "\r  Scanned %s sessions across %d projects    \n",
			cli.FormatNumber(int64(result.ListedFiles)),
			result.ProjectCount,
		)
	}

	return result, nil
}
