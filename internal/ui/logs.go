package ui

import (
	"fmt"
	"strings"
)

// renderLogs renders the log overlay: the tail of the explorer log file.
func (m Model) renderLogs() string {
	title := "Log"
	if m.logPath != "" {
		title = "Log · " + truncateMiddle(m.logPath, 50)
	}
	return m.renderTitledBox(title, m.logViewport.View(), m.width, m.height-2, true)
}

// renderLogContent colors each line by its level.
func (m Model) renderLogContent() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	switch {
	case m.logPath == "":
		return styles.MutedText.Render("Logging to a file is disabled.")
	case m.logErr != nil:
		return styles.DangerText.Render(fmt.Sprintf("Could not read %s: %v", m.logPath, m.logErr))
	case len(m.logLines) == 0:
		return styles.MutedText.Render("No log entries yet.")
	}

	width := m.logViewport.Width
	lines := make([]string, len(m.logLines))
	for i, line := range m.logLines {
		line = truncate(line, width)
		switch logLevel(line) {
		case "ERROR", "FATAL", "PANIC":
			lines[i] = styles.DangerText.Render(line)
		case "WARN":
			lines[i] = styles.WarningText.Render(line)
		case "DEBUG", "TRACE":
			lines[i] = styles.FaintText.Render(line)
		default:
			lines[i] = styles.Text.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// logLevel extracts the level column of a formatted line. It is the second
// field after a timestamp, or the first when the entry had none.
func logLevel(line string) string {
	fields := strings.Fields(line)
	for i := 0; i < len(fields) && i < 2; i++ {
		switch fields[i] {
		case "TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL", "PANIC":
			return fields[i]
		}
	}
	return ""
}
