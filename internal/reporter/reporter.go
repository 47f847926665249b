package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rubychat/gamescan/internal/models"
	"github.com/rubychat/gamescan/internal/scanner"
	"github.com/rubychat/gamescan/pkg/utils"
	"github.com/rubychat/gamescan/pkg/window"
)

// StatusSource fetches the scanner status, usually from the daemon API
type StatusSource interface {
	Status(ctx context.Context) (*scanner.Status, error)
}

// Report is everything `gamescan status` shows
type Report struct {
	Address       string          `json:"address"`
	PID           int             `json:"pid,omitempty"`
	Scanner       *scanner.Status `json:"scanner"`
	DisplayServer string          `json:"display_server"`
	Window        *window.Info    `json:"focused_window,omitempty"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

// Reporter handles status report generation
type Reporter struct {
	source StatusSource
	finder window.Finder

	title lipgloss.Style
	label lipgloss.Style
	on    lipgloss.Style
	off   lipgloss.Style
	muted lipgloss.Style
}

// New creates a reporter. finder may be nil when no display is available.
// Styles are bound to renderer so piping the output drops the colors.
func New(source StatusSource, finder window.Finder, renderer *lipgloss.Renderer) *Reporter {
	return &Reporter{
		source: source,
		finder: finder,
		title:  renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		label:  renderer.NewStyle().Width(16).Foreground(lipgloss.Color("245")),
		on:     renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		off:    renderer.NewStyle().Foreground(lipgloss.Color("203")),
		muted:  renderer.NewStyle().Faint(true),
	}
}

// GenerateReport collects the scanner status and, when possible, the focused window
func (r *Reporter) GenerateReport(ctx context.Context, address, displayServer string) (*Report, error) {
	status, err := r.source.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get scanner status: %w", err)
	}

	report := &Report{
		Address:       address,
		Scanner:       status,
		DisplayServer: displayServer,
		GeneratedAt:   time.Now(),
	}

	if r.finder != nil {
		// best effort, a missing window is not an error for the report
		if info, err := r.finder.Focused(); err == nil {
			report.Window = info
		}
	}

	return report, nil
}

// FormatReportText formats the report as human-readable text
func (r *Reporter) FormatReportText(report *Report) string {
	var b strings.Builder
	s := report.Scanner

	b.WriteString(r.title.Render("gamescan") + "\n")
	r.row(&b, "Daemon", r.on.Render("running")+r.muted.Render(pidSuffix(report.PID)))
	r.row(&b, "API", "http://"+report.Address)

	if s.Enabled {
		r.row(&b, "Detection", r.on.Render("enabled"))
	} else {
		r.row(&b, "Detection", r.off.Render("disabled"))
	}
	r.row(&b, "Phase", s.Phase.String())
	r.row(&b, "Source", s.Source)
	r.row(&b, "Watching", fmt.Sprintf("%d targets", s.WatchCount))

	if s.LastScan.IsZero() {
		r.row(&b, "Last scan", r.muted.Render("never"))
	} else {
		r.row(&b, "Last scan", fmt.Sprintf("%s ago (%d processes)",
			utils.FormatSince(s.LastScan, report.GeneratedAt), s.ProcessCount))
	}

	r.row(&b, "Activity", r.activity(s.Activity, report.GeneratedAt))

	if report.DisplayServer != "" {
		r.row(&b, "Display", report.DisplayServer)
	}
	if w := report.Window; w != nil {
		r.row(&b, "Focused window", fmt.Sprintf("%s %s", truncate(w.Title, 40), r.muted.Render(fmt.Sprintf("(%s, pid %d)", w.AppName, w.PID))))
	}

	return b.String()
}

// FormatReportJSON formats the report as JSON
func (r *Reporter) FormatReportJSON(report *Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// FormatWatchListText renders the watch list in match-priority order
func (r *Reporter) FormatWatchListText(targets []models.DetectableTarget) string {
	if len(targets) == 0 {
		return "Watch list is empty.\n"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-4s %-30s %s\n", "#", "Name", "Executables"))
	b.WriteString(strings.Repeat("-", 80) + "\n")
	for i, t := range targets {
		names := make([]string, 0, len(t.Executables))
		for _, exe := range t.Executables {
			names = append(names, exe.Name)
		}
		b.WriteString(fmt.Sprintf("%-4d %-30s %s\n", i+1, truncate(t.Name, 30), strings.Join(names, ", ")))
	}
	return b.String()
}

func (r *Reporter) activity(a models.Activity, now time.Time) string {
	if a.IsNone() {
		return r.muted.Render("none")
	}
	return fmt.Sprintf("%s %s", r.on.Render(a.Name),
		r.muted.Render(fmt.Sprintf("(%s, for %s)", a.Executable, utils.FormatSince(a.Since, now))))
}

func (r *Reporter) row(b *strings.Builder, label, value string) {
	b.WriteString(r.label.Render(label+":") + " " + value + "\n")
}

func pidSuffix(pid int) string {
	if pid == 0 {
		return ""
	}
	return fmt.Sprintf(" (PID %d)", pid)
}

// truncate truncates a string to the specified length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
