package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"ccreport/internal/transcript"

	"github.com/spf13/cobra"
)

var jsonCmd = &cobra.Command{
	Use:   "json <transcript.jsonl>",
	Short: "Convert a transcript to a JSON report",
	Args:  cobra.ExactArgs(1),
	RunE:  runJSON,
}

var (
	jsonOutput string
	jsonRepo   string
)

func init() {
	jsonCmd.Flags().StringVarP(&jsonOutput, "output", "o", "", "Write report to file instead of stdout")
	jsonCmd.Flags().StringVar(&jsonRepo, "repo", "", "Override the detected GitHub repo (owner/name)")
	rootCmd.AddCommand(jsonCmd)
}

func runJSON(_ *cobra.Command, args []string) error {
	report, err := transcript.ParseFile(args[0], jsonRepo)
	if err != nil {
		return err
	}
	return writeReport(report, jsonOutput)
}

// writeReport marshals a report to the given path, or stdout when empty.
func writeReport(report *transcript.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Wrote %s\n", path)
	}
	return nil
}
