package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgallion1/studymap/internal/failure"
	"github.com/dgallion1/studymap/internal/roadmap"
	"github.com/dgallion1/studymap/internal/session"
)

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-4, 1)
		return m, nil

	case spinner.TickMsg:
		if m.State().Loading() || m.State().Resources.NotesSlot == session.SlotLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case roadmapMsg:
		if msg.err != nil {
			m.dispatch(session.RoadmapFailed{
				Ticket: msg.ticket, Topic: msg.topic,
				Err: errText(msg.err), Raw: failure.RawOf(msg.err),
			})
			m.log.Warn("roadmap failed", "topic", msg.topic, "error", msg.err)
		} else {
			m.dispatch(session.RoadmapLoaded{Ticket: msg.ticket, Topic: msg.topic, Tree: msg.tree})
		}
		switch m.State().Phase {
		case session.Ready:
			m.mode = ModeTree
		case session.Error:
			m.mode = ModeInput
			m.input.Focus()
		}
		return m, nil

	case videoMsg:
		if msg.err != nil {
			m.dispatch(session.VideoFailed{Topic: msg.topic, Err: errText(msg.err)})
		} else {
			m.dispatch(session.VideoLoaded{Topic: msg.topic, Video: msg.video})
		}
		return m, nil

	case articlesMsg:
		if msg.err != nil {
			m.dispatch(session.ArticlesFailed{Topic: msg.topic, Err: errText(msg.err)})
		} else {
			m.dispatch(session.ArticlesLoaded{Topic: msg.topic, Articles: msg.articles})
		}
		return m, nil

	case notesMsg:
		if msg.err != nil {
			m.dispatch(session.NotesFailed{Topic: msg.topic, Err: errText(msg.err)})
			return m, nil
		}
		m.dispatch(session.NotesReady{Topic: msg.topic, Notes: msg.notes})
		if msg.save != nil {
			m.status = "could not save notes: " + msg.save.Error()
		} else if m.State().Selected == msg.topic {
			m.saved = msg.path
			m.status = "saved " + msg.path
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C always quits, regardless of mode.
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.mode {
	case ModeInput:
		return m.handleInputKey(msg)
	case ModeFilter:
		return m.handleFilterKey(msg)
	case ModePreview:
		return m.handlePreviewKey(msg)
	default:
		return m.handleTreeKey(msg)
	}
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		topic := strings.TrimSpace(m.input.Value())
		if topic == "" {
			return m, nil
		}
		return m, m.submit(topic)
	case tea.KeyEsc:
		if m.State().Phase == session.Ready {
			m.mode = ModeTree
			m.input.Blur()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit starts a new generation. Whatever is still in flight for an earlier
// topic is ignored when it lands.
func (m *Model) submit(topic string) tea.Cmd {
	ticket := session.NewTicket()
	m.dispatch(session.Submit{Topic: topic, Ticket: ticket})
	m.status, m.saved = "", ""
	return tea.Batch(m.generateRoadmap(ticket, m.State().Topic), m.spinner.Tick)
}

func (m *Model) handleTreeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.rows()
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case "enter", " ":
		if m.cursor >= len(rows) {
			return m, nil
		}
		row := rows[m.cursor]
		if row.Panel != nil {
			m.exp.Toggle(row.Panel.Key)
			return m, nil
		}
		if msg.String() == "enter" {
			return m, m.selectTopic(row.Topic.Full)
		}
	case "esc":
		m.dispatch(session.ClearSelection{})
		m.status, m.saved = "", ""
	case "/":
		m.mode = ModeFilter
		m.filter.SetValue("")
		m.filter.Focus()
		m.refreshMatches()
	case "n":
		return m, m.requestNotes()
	case "p":
		m.openPreview()
	case "t":
		m.mode = ModeInput
		m.input.Focus()
	}
	return m, nil
}

// selectTopic starts the two lookups side by side.
func (m *Model) selectTopic(topic string) tea.Cmd {
	before := m.State().Selected
	st := m.dispatch(session.Select{Topic: topic})
	if st.Selected == before {
		return nil
	}
	m.status, m.saved = "", ""
	return tea.Batch(m.fetchVideo(st.Selected), m.fetchArticles(st.Selected))
}

func (m *Model) requestNotes() tea.Cmd {
	st := m.State()
	if st.Selected == "" || st.Resources.NotesSlot == session.SlotLoading {
		return nil
	}
	m.dispatch(session.NotesRequested{Topic: st.Selected})
	m.status = ""
	return tea.Batch(m.generateNotes(st.Selected), m.spinner.Tick)
}

func (m *Model) openPreview() {
	st := m.State()
	if st.Resources.NotesSlot != session.SlotLoaded {
		m.status = "no notes yet, press n to generate them"
		return
	}
	out, err := m.markdown.Render(st.Resources.Notes)
	if err != nil {
		out = st.Resources.Notes
	}
	m.viewport.SetContent(out)
	m.viewport.GotoTop()
	m.mode = ModePreview
}

func (m *Model) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "p", "q":
		m.mode = ModeTree
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeTree
		m.filter.Blur()
		return m, nil
	case tea.KeyUp:
		if m.matchCursor > 0 {
			m.matchCursor--
		}
		return m, nil
	case tea.KeyDown:
		if m.matchCursor < len(m.matches)-1 {
			m.matchCursor++
		}
		return m, nil
	case tea.KeyEnter:
		m.mode = ModeTree
		m.filter.Blur()
		if m.matchCursor < len(m.matches) {
			return m, m.selectTopic(m.matches[m.matchCursor].Topic)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.refreshMatches()
	return m, cmd
}

func (m *Model) refreshMatches() {
	m.matches = roadmap.Search(m.State().Roadmap, m.filter.Value())
	m.matchCursor = 0
}
