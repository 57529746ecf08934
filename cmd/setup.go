package cmd

import (
	"fmt"

	"ccreport/internal/config"
	"ccreport/internal/source"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()

	// Show what we already see locally
	files, _ := source.ScanDir(flagClaudeDir)
	if len(files) > 0 {
		fmt.Printf("\n  Found %d sessions in %s (%d projects)\n",
			len(files), flagClaudeDir, source.CountProjects(files))
	}

	claudeDir := cfg.General.ClaudeDir
	token := cfg.Web.Token
	orgUUID := cfg.Web.OrgUUID
	includeSubagents := cfg.General.IncludeSubagents

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Claude data directory").
				Description("Leave blank to use ~/.claude").
				Value(&claudeDir),
			huh.NewConfirm().
				Title("Include subagent sessions in listings?").
				Value(&includeSubagents),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Web API token").
				Description("For fetching sessions with `ccreport web`. Leave blank to skip.").
				EchoMode(huh.EchoModePassword).
				Value(&token),
			huh.NewInput().
				Title("Organization UUID").
				Value(&orgUUID),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("setup aborted: %w", err)
	}

	cfg.General.ClaudeDir = claudeDir
	cfg.General.IncludeSubagents = includeSubagents
	cfg.Web.Token = token
	cfg.Web.OrgUUID = orgUUID

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\n  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `ccreport setup` anytime to reconfigure.")
	return nil
}
