package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/explorer/internal/present"
)

// renderContent renders the section viewport inside a titled box.
func (m Model) renderContent() string {
	title := "Explorer"
	if m.focused < len(m.page.Sections) {
		title = m.page.Sections[m.focused].Title
	}
	return m.renderTitledBox(title, m.content.View(), m.width, m.height-2, true)
}

// renderSections renders every section for width columns. It returns the
// content and the line on which each section starts.
func (m Model) renderSections(width int) (string, []int) {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	var b strings.Builder
	offsets := make([]int, 0, len(m.page.Sections))

	for i, sec := range m.page.Sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		offsets = append(offsets, strings.Count(b.String(), "\n"))
		b.WriteString(m.renderSectionHeading(sec, i == m.focused, styles))
		b.WriteString("\n")
		b.WriteString(m.renderSectionBody(sec, width, styles))
	}
	return b.String(), offsets
}

func (m Model) renderSectionHeading(sec present.Section, focused bool, styles Styles) string {
	marker := "  "
	titleStyle := styles.Text.Bold(true)
	if focused {
		marker = "▸ "
		titleStyle = styles.AccentText.Bold(true)
	}
	line := styles.AccentText.Render(marker) + titleStyle.Render(sec.Title)
	if sec.Subtitle != "" {
		line += styles.MutedText.Render("  " + sec.Subtitle)
	}
	return line + "  " + styles.StateStyle(sec.State).Render(sec.State.String())
}

func (m Model) renderSectionBody(sec present.Section, width int, styles Styles) string {
	indent := "    "
	inner := max(width-len(indent), 20)

	var lines []string
	switch sec.State {
	case present.StateLoading:
		lines = []string{styles.InfoText.Render(m.spinner.View() + " Loading…")}
	case present.StateError:
		lines = append(lines, splitLines(styles.DangerText.Render(wrap(m.page.Error, inner)))...)
		lines = append(lines, splitLines(styles.MutedText.Render(wrap(present.ErrorHint, inner)))...)
	case present.StateData:
		lines = m.renderSectionData(sec.Key, inner, styles)
	default:
		text := sec.Empty
		if sec.Failure != "" {
			text += " (" + sec.Failure + ")"
		}
		lines = splitLines(styles.MutedText.Render(wrap(text, inner)))
	}

	for i, l := range lines {
		lines[i] = indent + l
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderSectionData(key string, width int, styles Styles) []string {
	switch key {
	case "apod":
		return m.renderAPOD(width, styles)
	case "mars":
		return m.renderPhotos(width, styles)
	case "asteroids":
		return m.renderAsteroids(width, styles)
	case "earth":
		return m.renderEarth(width, styles)
	}
	return nil
}

func (m Model) renderAPOD(width int, styles Styles) []string {
	a := m.page.APOD
	if a == nil {
		return nil
	}
	lines := []string{styles.Text.Bold(true).Render(truncate(a.Title, width))}

	meta := a.Date
	if a.Copyright != "" {
		meta = strings.TrimSpace(meta + " · © " + a.Copyright)
	}
	if meta != "" {
		lines = append(lines, styles.MutedText.Render(meta))
	}

	if a.IsImage {
		lines = append(lines, styles.FaintText.Render("Image ")+styles.InfoText.Render(truncateMiddle(a.URL, width-6)))
		if a.HDURL != "" && a.HDURL != a.URL {
			lines = append(lines, styles.FaintText.Render("HD    ")+styles.InfoText.Render(truncateMiddle(a.HDURL, width-6)))
		}
	} else {
		lines = append(lines, styles.FaintText.Render("Video ")+styles.InfoText.Render(truncateMiddle(a.URL, width-6)))
	}

	if a.Explanation != "" {
		lines = append(lines, "")
		lines = append(lines, splitLines(styles.Text.Render(wrap(a.Explanation, width)))...)
	}
	return lines
}

func (m Model) renderPhotos(width int, styles Styles) []string {
	wide := m.width >= LayoutWideWidth
	var lines []string
	for _, p := range m.page.Photos {
		head := styles.MutedText.Render(fmt.Sprintf("#%d ", p.ID)) +
			styles.Text.Render(truncate(p.Camera, 40)) +
			styles.FaintText.Render(fmt.Sprintf(" · %s · sol %d · %s", p.Rover, p.Sol, p.EarthDate))
		if wide {
			room := max(width-lipgloss.Width(head)-2, 20)
			lines = append(lines, head+"  "+styles.InfoText.Render(truncateMiddle(p.URL, room)))
			continue
		}
		lines = append(lines, head, "  "+styles.InfoText.Render(truncateMiddle(p.URL, width-2)))
	}
	return lines
}

func (m Model) renderAsteroids(width int, styles Styles) []string {
	compact := m.width < LayoutCompactWidth
	var lines []string
	for _, a := range m.page.Asteroids {
		badge := styles.SuccessText.Render("not hazardous")
		if a.Hazardous {
			badge = styles.DangerText.Render("HAZARDOUS")
		}
		lines = append(lines, styles.Text.Bold(true).Render(truncate(a.Name, width-16))+"  "+badge)

		diameter := styles.FaintText.Render("Diameter ") + styles.Text.Render(a.Diameter)
		velocity := styles.FaintText.Render("Velocity ") + styles.Text.Render(a.Velocity)
		miss := styles.FaintText.Render("Miss distance ") + styles.Text.Render(a.MissDistance)
		if compact {
			lines = append(lines, "  "+diameter, "  "+velocity, "  "+miss)
			continue
		}
		lines = append(lines, "  "+diameter+"   "+velocity+"   "+miss)
	}
	return lines
}

func (m Model) renderEarth(width int, styles Styles) []string {
	var lines []string
	for _, e := range m.page.Earth {
		lines = append(lines, styles.Text.Render(e.Taken)+styles.FaintText.Render(" · ")+styles.MutedText.Render(truncate(e.Caption, max(width-len(e.Taken)-3, 10))))
		if e.URL != "" {
			lines = append(lines, "  "+styles.InfoText.Render(truncateMiddle(e.URL, width-2)))
		}
	}
	return lines
}

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}
