package cmd

import (
	"errors"
	"fmt"

	"ccreport/internal/config"
	"ccreport/internal/transcript"
	"ccreport/internal/webapi"

	"github.com/spf13/cobra"
)

var webCmd = &cobra.Command{
	Use:   "web <session-id>",
	Short: "Fetch a session from the web API and convert it to a JSON report",
	Args:  cobra.ExactArgs(1),
	RunE:  runWeb,
}

var (
	webToken   string
	webOrgUUID string
	webOutput  string
	webRepo    string
)

func init() {
	webCmd.Flags().StringVar(&webToken, "token", "", "Bearer token (defaults to CCREPORT_TOKEN or config)")
	webCmd.Flags().StringVar(&webOrgUUID, "org-uuid", "", "Organization UUID (defaults to config)")
	webCmd.Flags().StringVarP(&webOutput, "output", "o", "", "Write report to file instead of stdout")
	webCmd.Flags().StringVar(&webRepo, "repo", "", "Override the detected GitHub repo (owner/name)")
	rootCmd.AddCommand(webCmd)
}

func runWeb(cmd *cobra.Command, args []string) error {
	cfg, _ := config.Load()

	token := webToken
	if token == "" {
		token = config.GetToken(cfg)
	}
	orgUUID := webOrgUUID
	if orgUUID == "" {
		orgUUID = cfg.Web.OrgUUID
	}

	client, err := webapi.NewClient(cfg.Web.BaseURL, token, orgUUID)
	if err != nil {
		return fmt.Errorf("run `ccreport setup` or pass --token: %w", err)
	}

	loglines, err := client.GetSession(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, webapi.ErrUnauthorized) {
			return fmt.Errorf("%w (run `ccreport setup` to update the token)", err)
		}
		return err
	}

	events := transcript.DecodeRecords(loglines)
	report := transcript.BuildReport(events, webRepo)
	return writeReport(report, webOutput)
}
