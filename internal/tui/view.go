package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dgallion1/studymap/internal/session"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	st := m.State()

	var b strings.Builder
	exam := m.opts.Exam
	if exam == "" {
		exam = "JEE"
	}
	b.WriteString(titleStyle.Render(exam + " Roadmap"))
	if st.Topic != "" {
		b.WriteString(dimStyle.Render("  " + st.Topic))
	}
	b.WriteString("\n\n")

	switch m.mode {
	case ModePreview:
		b.WriteString(m.viewport.View())
		b.WriteString("\n" + dimStyle.Render("esc back  ↑/↓ scroll"))
		return b.String()
	case ModeInput:
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	}

	switch st.Phase {
	case session.Idle:
		b.WriteString(dimStyle.Render("Type a topic and press enter to generate a roadmap."))
	case session.Generating:
		b.WriteString(m.spinner.View() + " Generating roadmap for " + st.Topic + "...")
	case session.Error:
		b.WriteString(errorStyle.Render("Error: " + st.Err))
		if st.Raw != "" {
			b.WriteString("\n" + dimStyle.Render(firstLine(st.Raw, 72)))
		}
		b.WriteString("\n" + dimStyle.Render("Press enter to try again."))
	case session.Ready:
		if m.mode == ModeFilter {
			b.WriteString(m.viewFilter())
		} else {
			tree := m.viewTree(st)
			if st.Selected != "" {
				tree = lipgloss.JoinHorizontal(lipgloss.Top, tree, "  ", m.viewResources(st))
			}
			b.WriteString(tree)
		}
	}

	b.WriteString("\n\n")
	if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString(dimStyle.Render(m.help(st)))
	return b.String()
}

func (m *Model) viewTree(st session.State) string {
	var b strings.Builder
	for i, row := range m.rows() {
		indent := strings.Repeat("  ", row.Level)
		var line string
		if row.Panel != nil {
			arrow := "▸"
			if m.exp.Expanded(row.Panel.Key) {
				arrow = "▾"
			}
			line = panelStyle.Render(arrow + " " + row.Panel.Label)
		} else {
			style := topicStyle
			if row.Topic.Full == st.Selected {
				style = selectedStyle
			}
			line = style.Render("• " + row.Topic.Display)
		}
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(indent + line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) viewResources(st session.State) string {
	r := st.Resources
	var b strings.Builder
	b.WriteString(titleStyle.Render(st.Selected) + "\n\n")

	b.WriteString(panelStyle.Render("Video") + "\n")
	switch r.VideoSlot {
	case session.SlotLoading:
		b.WriteString(dimStyle.Render("loading..."))
	case session.SlotFailed:
		b.WriteString(errorStyle.Render(r.VideoError))
	case session.SlotLoaded:
		if r.Video == nil {
			b.WriteString(dimStyle.Render("No video found"))
		} else {
			b.WriteString(r.Video.Title + "\n" + linkStyle.Render(r.Video.URL))
		}
	}
	b.WriteString("\n\n")

	b.WriteString(panelStyle.Render("Articles") + "\n")
	switch r.ArticlesSlot {
	case session.SlotLoading:
		b.WriteString(dimStyle.Render("loading..."))
	case session.SlotFailed:
		b.WriteString(errorStyle.Render(r.ArticlesError))
	case session.SlotLoaded:
		if len(r.Articles) == 0 {
			b.WriteString(dimStyle.Render("No articles found"))
		}
		for i, a := range r.Articles {
			fmt.Fprintf(&b, "%d. %s\n   %s\n", i+1, a.Title, linkStyle.Render(a.Link))
		}
	}
	b.WriteString("\n\n")

	b.WriteString(panelStyle.Render("Notes") + "\n")
	switch r.NotesSlot {
	case session.SlotEmpty:
		b.WriteString(dimStyle.Render("press n to generate"))
	case session.SlotLoading:
		b.WriteString(m.spinner.View() + " generating notes...")
	case session.SlotFailed:
		b.WriteString(errorStyle.Render(r.NotesError))
	case session.SlotLoaded:
		b.WriteString("ready, press p to preview")
		if m.saved != "" {
			b.WriteString("\n" + dimStyle.Render(m.saved))
		}
	}

	width := max(m.width/2-4, 30)
	return paneStyle.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) viewFilter() string {
	var b strings.Builder
	b.WriteString(m.filter.View() + "\n\n")
	if len(m.matches) == 0 {
		b.WriteString(dimStyle.Render("no matching topics"))
		return b.String()
	}
	limit := min(len(m.matches), max(m.height-10, 5))
	for i, match := range m.matches[:limit] {
		line := "  " + match.Topic
		if i == m.matchCursor {
			line = cursorStyle.Render("> " + match.Topic)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) help(st session.State) string {
	switch {
	case m.mode == ModeInput:
		return "enter generate  esc back  ctrl+c quit"
	case m.mode == ModeFilter:
		return "type to filter  ↑/↓ move  enter select  esc back"
	case st.Phase == session.Ready:
		return "↑/↓ move  enter open/select  / filter  n notes  p preview  esc clear  t new topic  q quit"
	}
	return "ctrl+c quit"
}

func firstLine(s string, n int) string {
	s, _, _ = strings.Cut(strings.TrimSpace(s), "\n")
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}
