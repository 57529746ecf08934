package cmd

import (
	"fmt"
	"sort"

	"ccreport/internal/cli"
	"ccreport/internal/transcript"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <transcript.jsonl>",
	Short: "Render a transcript report in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var showRepo string

func init() {
	showCmd.Flags().StringVar(&showRepo, "repo", "", "Override the detected GitHub repo (owner/name)")
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	report, err := transcript.ParseFile(args[0], showRepo)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SESSION REPORT"))
	fmt.Println()

	summaryRows := [][]string{
		{"Prompts", cli.FormatNumber(int64(report.Stats.TotalPrompts))},
		{"Messages", cli.FormatNumber(int64(report.Stats.TotalMessages))},
		{"Tool calls", cli.FormatNumber(int64(report.Stats.TotalToolCalls))},
		{"Commits", cli.FormatNumber(int64(report.Stats.TotalCommits))},
	}
	if report.Metadata.GithubRepo != "" {
		summaryRows = append(summaryRows, []string{"Repo", report.Metadata.GithubRepo})
	}
	fmt.Print(cli.RenderTable(cli.Table{Rows: summaryRows}))

	if len(report.Stats.ToolCounts) > 0 {
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Tool usage",
			Headers: []string{"Tool", "Calls"},
			Rows:    toolRows(report.Stats.ToolCounts),
		}))
	}

	if len(report.Conversations) > 0 {
		fmt.Println()
		rows := make([][]string, 0, len(report.Conversations))
		for _, conv := range report.Conversations {
			prompt := conv.UserText
			if conv.IsContinuation {
				prompt = "(continuation) " + prompt
			}
			rows = append(rows, []string{
				cli.FormatTimestamp(conv.Timestamp),
				cli.Truncate(prompt, 60),
				cli.FormatNumber(int64(len(conv.Messages))),
				cli.FormatNumber(int64(len(conv.Stats.Commits))),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Conversations",
			Headers: []string{"Start", "Prompt", "Messages", "Commits"},
			Rows:    rows,
		}))
		fmt.Printf("  Activity %s\n", cli.RenderSparkline(conversationActivity(report.Conversations)))
	}

	if len(report.Commits) > 0 {
		fmt.Println()
		rows := make([][]string, 0, len(report.Commits))
		for _, c := range report.Commits {
			rows = append(rows, []string{c.Hash, cli.Truncate(c.Message, 60)})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Commits",
			Headers: []string{"Hash", "Message"},
			Rows:    rows,
		}))
	}

	return nil
}

// conversationActivity returns per-conversation message counts, the series
// behind the activity sparkline.
func conversationActivity(convs []transcript.Conversation) []float64 {
	vals := make([]float64, 0, len(convs))
	for _, c := range convs {
		vals = append(vals, float64(len(c.Messages)))
	}
	return vals
}

// toolRows converts a tool count map to table rows sorted by count, then name.
func toolRows(counts map[string]int) [][]string {
	type tc struct {
		name  string
		count int
	}
	sorted := make([]tc, 0, len(counts))
	for name, n := range counts {
		sorted = append(sorted, tc{name, n})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].name < sorted[j].name
	})

	rows := make([][]string, 0, len(sorted))
	for _, t := range sorted {
		rows = append(rows, []string{t.name, cli.FormatNumber(int64(t.count))})
	}
	return rows
}
