package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar: rover, sol, cycle state, and the
// cycle error when there is one.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("explorer", styles.Logo)}

	parts = append(parts,
		bg.Render("Rover:", styles.MutedText)+bg.Space()+bg.Render(m.page.RoverLabel, styles.AccentText),
		bg.Render("Sol:", styles.MutedText)+bg.Space()+bg.Render(fmt.Sprintf("%d", m.page.Sol), styles.Text),
	)

	switch {
	case m.loading():
		parts = append(parts, bg.Render(m.spinner.View(), lipgloss.NewStyle())+bg.Space()+bg.Render("Loading", styles.InfoText))
	case m.page.Error != "":
		parts = append(parts, bg.Render("● Error", styles.DangerText))
	default:
		parts = append(parts, bg.Render("● Ready", styles.SuccessText))
	}

	if !compact && m.page.Cycle > 0 {
		parts = append(parts, bg.Render("Cycle:", styles.MutedText)+bg.Space()+bg.Render(fmt.Sprintf("%d", m.page.Cycle), styles.FaintText))
	}

	if ts := formatTimestamp(m.page.UpdatedAt, time.Now()); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if m.page.Error != "" {
		maxErr := 80
		if compact {
			maxErr = 40
		}
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(m.page.Error, maxErr), styles.DangerText))
	}

	if m.notice != "" {
		parts = append(parts,
			bg.Render("!", styles.WarningText.Bold(true))+bg.Space()+
				bg.Render(m.notice, styles.WarningText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// formatTimestamp formats t with a relative indicator, e.g. "15:04:05 (3m ago)".
func formatTimestamp(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	since := now.Sub(t)
	s := t.Local().Format("15:04:05")
	switch {
	case since < time.Minute:
		s += " (now)"
	case since < time.Hour:
		s += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		s += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return s
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd
	if m.overlay == overlayLogs {
		commands = []cmd{
			{"j/k", "Scroll"},
			{"g/G", "Top/Bottom"},
			{"^R", "Reload"},
			{"L", "Close"},
			{"e", "Quit"},
		}
	} else {
		commands = []cmd{
			{"r/R", "Rover"},
			{"1-4", "Pick"},
			{"+/-", "Sol"},
			{"[/]", "±100"},
			{"^R", "Refresh"},
			{"Tab", "Section"},
			{"L", "Logs"},
			{"?", "More"},
		}
	}

	colon := bg.Render(":", styles.FaintText)
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}
