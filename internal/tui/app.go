// Package tui provides the interactive Bubble Tea session browser for ccreport.
package tui

import (
	"fmt"
	"strings"
	"time"

	"ccreport/internal/cli"
	"ccreport/internal/pipeline"
	"ccreport/internal/source"
	"ccreport/internal/store"
	"ccreport/internal/transcript"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DataLoadedMsg is sent when the listing pipeline finishes.
type DataLoadedMsg struct {
	Entries  []source.SessionEntry
	LoadTime time.Duration
	Err      error
}

// ProgressMsg reports file listing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// reportMsg is sent when a selected session finishes parsing.
type reportMsg struct {
	report *transcript.Report
	err    error
}

type view int

const (
	viewList view = iota
	viewDetail
)

// App is the root Bubble Tea model.
type App struct {
	entries  []source.SessionEntry
	loaded   bool
	loadTime time.Duration
	loadErr  error

	// UI state
	width  int
	height int
	active view
	cursor int
	offset int

	// Detail view
	report   *transcript.Report
	detail   viewport.Model
	parseErr error

	// Loading
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg

	claudeDir        string
	includeSubagents bool
	directPath       string // when set, open this transcript instead of browsing
}

var (
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(cli.ColorAccent)
	rowStyle      = lipgloss.NewStyle().Foreground(cli.ColorText)
	dimRowStyle   = lipgloss.NewStyle().Foreground(cli.ColorTextMuted)
	statusStyle   = lipgloss.NewStyle().Foreground(cli.ColorTextDim)
	errStyle      = lipgloss.NewStyle().Foreground(cli.ColorRed)
)

// NewApp creates a new TUI app model.
func NewApp(claudeDir string, includeSubagents bool) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(cli.ColorAccent)

	return App{
		claudeDir:        claudeDir,
		includeSubagents: includeSubagents,
		spinner:          sp,
		loadSub:          make(chan tea.Msg, 1),
	}
}

// NewReportApp creates a TUI model that opens one transcript directly,
// skipping the session browser.
func NewReportApp(path string) App {
	a := NewApp("", false)
	a.directPath = path
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.directPath != "" {
		return tea.Batch(parseReportCmd(a.directPath), a.spinner.Tick)
	}
	return tea.Batch(
		loadDataCmd(a.claudeDir, a.includeSubagents, a.loadSub),
		waitForLoadMsg(a.loadSub),
		a.spinner.Tick,
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.detail.Width = msg.Width
		a.detail.Height = msg.Height - 2
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case DataLoadedMsg:
		a.loaded = true
		a.entries = msg.Entries
		a.loadTime = msg.LoadTime
		a.loadErr = msg.Err
		return a, nil

	case reportMsg:
		a.loaded = true
		a.report = msg.report
		a.parseErr = msg.err
		a.detail = viewport.New(a.width, a.height-2)
		if a.parseErr == nil {
			a.detail.SetContent(a.renderReport())
		}
		a.active = viewDetail
		return a, nil

	case spinner.TickMsg:
		if a.loaded {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	if a.active == viewDetail {
		var cmd tea.Cmd
		a.detail, cmd = a.detail.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "esc":
		if a.active == viewDetail && a.directPath == "" {
			a.active = viewList
			return a, nil
		}
		return a, tea.Quit
	}

	if a.active == viewDetail {
		var cmd tea.Cmd
		a.detail, cmd = a.detail.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.entries)-1 {
			a.cursor++
		}
	case "g":
		a.cursor = 0
	case "G":
		a.cursor = len(a.entries) - 1
	case "enter":
		if a.cursor >= 0 && a.cursor < len(a.entries) {
			return a, parseReportCmd(a.entries[a.cursor].Path)
		}
	}

	a.clampScroll()
	return a, nil
}

func (a *App) clampScroll() {
	visible := a.listHeight()
	if visible < 1 {
		visible = 1
	}
	if a.cursor < a.offset {
		a.offset = a.cursor
	}
	if a.cursor >= a.offset+visible {
		a.offset = a.cursor - visible + 1
	}
}

func (a App) listHeight() int {
	return a.height - 4 // header + status bar
}

// View implements tea.Model.
func (a App) View() string {
	if !a.loaded {
		bar := ""
		if a.progressMax > 0 {
			bar = " " + cli.RenderProgressBar(a.progress, a.progressMax, 30)
		}
		return fmt.Sprintf("\n  %s Scanning sessions…%s\n", a.spinner.View(), bar)
	}
	if a.loadErr != nil {
		return errStyle.Render(fmt.Sprintf("\n  error: %v\n", a.loadErr)) + statusStyle.Render("\n  q to quit\n")
	}
	if a.active == viewDetail {
		return a.viewDetail()
	}
	return a.viewList()
}

func (a App) viewList() string {
	var b strings.Builder
	b.WriteString(selectedStyle.Render("  ccreport sessions"))
	b.WriteString(statusStyle.Render(fmt.Sprintf("  (%d sessions, loaded in %s)", len(a.entries), a.loadTime.Round(time.Millisecond))))
	b.WriteString("\n\n")

	if len(a.entries) == 0 {
		b.WriteString(dimRowStyle.Render("  no sessions found"))
		b.WriteString("\n")
	}

	visible := a.listHeight()
	end := a.offset + visible
	if end > len(a.entries) {
		end = len(a.entries)
	}

	for i := a.offset; i < end; i++ {
		e := a.entries[i]
		line := fmt.Sprintf("%-24s %-16s %s",
			cli.Truncate(e.Project, 24),
			cli.FormatTime(e.LastTime),
			cli.Truncate(e.Summary, 60),
		)
		if i == a.cursor {
			b.WriteString(selectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(rowStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(statusStyle.Render("  ↑/↓ move · enter open · q quit"))
	return b.String()
}

func (a App) viewDetail() string {
	if a.parseErr != nil {
		return errStyle.Render(fmt.Sprintf("\n  error: %v\n", a.parseErr)) + statusStyle.Render("\n  esc to go back\n")
	}
	return a.detail.View() + "\n" + statusStyle.Render("  ↑/↓ scroll · esc back · q quit")
}

// renderReport formats the parsed report for the detail viewport.
func (a App) renderReport() string {
	r := a.report
	var b strings.Builder

	b.WriteString(cli.RenderTitle("Session Report"))
	b.WriteString("\n")

	summary := cli.Table{
		Rows: [][]string{
			{"Prompts", cli.FormatNumber(int64(r.Stats.TotalPrompts))},
			{"Messages", cli.FormatNumber(int64(r.Stats.TotalMessages))},
			{"Tool calls", cli.FormatNumber(int64(r.Stats.TotalToolCalls))},
			{"Commits", cli.FormatNumber(int64(r.Stats.TotalCommits))},
		},
	}
	if r.Metadata.GithubRepo != "" {
		summary.Rows = append(summary.Rows, []string{"Repo", r.Metadata.GithubRepo})
	}
	b.WriteString(cli.RenderTable(summary))

	if len(r.Conversations) > 0 {
		vals := make([]float64, 0, len(r.Conversations))
		for _, c := range r.Conversations {
			vals = append(vals, float64(len(c.Messages)))
		}
		b.WriteString(dimRowStyle.Render("  activity ") + cli.RenderSparkline(vals) + "\n")
	}

	for i, conv := range r.Conversations {
		marker := ""
		if conv.IsContinuation {
			marker = " (continuation)"
		}
		b.WriteString(fmt.Sprintf("\n%s%s\n", selectedStyle.Render(fmt.Sprintf("#%d %s", i+1, cli.FormatTimestamp(conv.Timestamp))), marker))
		b.WriteString("  " + cli.Truncate(conv.UserText, 100) + "\n")
		for tool, n := range conv.Stats.ToolCounts {
			b.WriteString(dimRowStyle.Render(fmt.Sprintf("    %s ×%d", tool, n)) + "\n")
		}
		for _, c := range conv.Stats.Commits {
			b.WriteString(dimRowStyle.Render(fmt.Sprintf("    commit %s %s", c.Hash, cli.Truncate(c.Message, 70))) + "\n")
		}
	}

	return b.String()
}

// loadDataCmd starts the listing pipeline in a background goroutine.
// It streams ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(claudeDir string, includeSubagents bool, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Non-blocking send so workers aren't stalled. A skipped
			// update is caught up by the next one.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			cache, err := store.Open(pipeline.CachePath())
			if err == nil {
				cr, loadErr := pipeline.LoadWithCache(claudeDir, includeSubagents, cache, progressFn)
				_ = cache.Close()
				if loadErr == nil {
					sub <- DataLoadedMsg{Entries: cr.Entries, LoadTime: time.Since(start)}
					return
				}
			}

			// Cache unavailable, fall back to a full load.
			result, loadErr := pipeline.Load(claudeDir, includeSubagents, progressFn)
			if loadErr != nil {
				sub <- DataLoadedMsg{Err: loadErr}
				return
			}
			sub <- DataLoadedMsg{Entries: result.Entries, LoadTime: time.Since(start)}
		}()
		return nil
	}
}

func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

func parseReportCmd(path string) tea.Cmd {
	return func() tea.Msg {
		report, err := transcript.ParseFile(path, "")
		return reportMsg{report: report, err: err}
	}
}
