package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"ccreport/internal/cli"
	"ccreport/internal/source"
	"ccreport/internal/transcript"

	"github.com/spf13/cobra"
)

var localCmd = &cobra.Command{
	Use:   "local [transcript.jsonl]",
	Short: "List sessions found in the Claude data directory, or report one file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLocal,
}

var (
	localLimit int
	localJSON  bool
)

func init() {
	localCmd.Flags().IntVarP(&localLimit, "limit", "l", 20, "Number of sessions to show (0 for all)")
	localCmd.Flags().BoolVar(&localJSON, "json", false, "Emit the listing as JSON")
	rootCmd.AddCommand(localCmd)
}

func runLocal(_ *cobra.Command, args []string) error {
	// With an explicit transcript path, emit its JSON report directly.
	if len(args) == 1 {
		report, err := transcript.ParseFile(args[0], "")
		if err != nil {
			return err
		}
		return writeReport(report, "")
	}

	result, err := loadListing()
	if err != nil {
		return err
	}
	if len(result.Entries) == 0 {
		fmt.Println("\n  No sessions found.")
		return nil
	}

	entries := result.Entries

	// Sort by last activity descending
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastTime.After(entries[j].LastTime)
	})

	if localJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if localLimit > 0 && len(entries) > localLimit {
		entries = entries[:localLimit]
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SESSIONS  (showing %d of %d)", len(entries), len(result.Entries))))
	fmt.Println()

	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		project := e.Project
		if e.IsSubagent {
			project += " (sub)"
		}

		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			cli.Truncate(project, 24),
			cli.FormatTime(e.LastTime),
			sessionSpan(e),
			cli.FormatNumber(int64(e.UserMessages)),
			cli.FormatSize(e.SizeBytes),
			cli.Truncate(e.Summary, 40),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"#", "Project", "Last active", "Span", "Prompts", "Size", "Summary"},
		Rows:    rows,
	}))

	if result.ParseErrors > 0 && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  %d malformed lines skipped\n", result.ParseErrors)
	}

	return nil
}

// sessionSpan formats the wall-clock span of a session's activity, empty
// when the listing found no timestamps.
func sessionSpan(e source.SessionEntry) string {
	if e.FirstTime.IsZero() || e.LastTime.IsZero() {
		return ""
	}
	return cli.FormatDuration(int64(e.LastTime.Sub(e.FirstTime).Seconds()))
}
