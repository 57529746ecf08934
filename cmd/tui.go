package cmd

import (
	"fmt"

	"ccreport/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [transcript.jsonl]",
	Short: "Browse sessions interactively",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, args []string) error {
	// Force TrueColor profile so all styling produces ANSI codes.
	// Without this, lipgloss may default to Ascii profile (no colors).
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(flagClaudeDir, flagSubagents)
	if len(args) == 1 {
		app = tui.NewReportApp(args[0])
	}
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
