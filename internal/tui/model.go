// Package tui is the terminal study client. Every state change goes through
// the session reducer; lookups run as independent commands.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgallion1/studymap/internal/outline"
	"github.com/dgallion1/studymap/internal/roadmap"
	"github.com/dgallion1/studymap/internal/search"
	"github.com/dgallion1/studymap/internal/session"
)

// Generator produces roadmaps and notes.
type Generator interface {
	Roadmap(ctx context.Context, topic string) (roadmap.Tree, error)
	Notes(ctx context.Context, topic string) (string, error)
}

// Resources looks up a video and articles for a topic.
type Resources interface {
	Video(ctx context.Context, topic string) (*search.Video, error)
	Articles(ctx context.Context, topic string, limit int) ([]search.Article, error)
}

// Options configure the model. Zero values are usable.
type Options struct {
	Exam      string // exam name used in document titles and filenames
	OutputDir string // where notes documents are written
	Format    string // document format, pdf or docx
	Context   context.Context
	Log       *slog.Logger
}

// Mode is what the keyboard currently drives.
type Mode int

const (
	// ModeInput edits the main topic.
	ModeInput Mode = iota
	// ModeTree moves through the roadmap outline.
	ModeTree
	// ModeFilter fuzzy-filters leaf topics.
	ModeFilter
	// ModePreview shows rendered notes.
	ModePreview
)

// Model is the Bubble Tea model for the study client.
type Model struct {
	gen   Generator
	res   Resources
	store *session.Store
	opts  Options
	ctx   context.Context
	log   *slog.Logger
	now   func() time.Time

	input    textinput.Model
	filter   textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	markdown *MarkdownRenderer

	mode    Mode
	panels  []*outline.Panel
	panelOf string // ticket the panels were built for
	exp     *outline.Expansion
	cursor  int

	matches     []roadmap.Match
	matchCursor int

	status   string
	saved    string
	width    int
	height   int
	quitting bool
}

var _ tea.Model = (*Model)(nil)

// NewModel creates the model. gen and res may be nil in tests that never
// trigger a lookup.
func NewModel(gen Generator, res Resources, opts Options) *Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Log == nil {
		opts.Log = slog.New(slog.DiscardHandler)
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}

	in := textinput.New()
	in.Placeholder = "Enter a topic, e.g. Calculus"
	in.CharLimit = 200
	in.Prompt = "Topic: "
	in.Focus()

	f := textinput.New()
	f.Prompt = "/"
	f.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	md, _ := NewMarkdownRenderer(76)

	return &Model{
		gen:      gen,
		res:      res,
		store:    session.NewStore(),
		opts:     opts,
		ctx:      opts.Context,
		log:      opts.Log,
		now:      time.Now,
		input:    in,
		filter:   f,
		spinner:  sp,
		viewport: viewport.New(80, 20),
		markdown: md,
		mode:     ModeInput,
		exp:      &outline.Expansion{},
		width:    80,
		height:   24,
	}
}

// State returns the current session snapshot.
func (m *Model) State() session.State { return m.store.State() }

// Mode returns the active keyboard mode.
func (m *Model) Mode() Mode { return m.mode }

// rows are the visible outline lines.
func (m *Model) rows() []outline.Row {
	return outline.Rows(m.panels, m.exp)
}

// dispatch applies an action and rebuilds the outline when a new roadmap
// arrives.
func (m *Model) dispatch(a session.Action) session.State {
	st := m.store.Dispatch(a)
	if st.Phase == session.Ready && m.panelOf != st.Ticket {
		m.panels = outline.Build(st.Roadmap)
		m.panelOf = st.Ticket
		m.exp.Collapse()
		m.cursor = 0
	}
	if st.Phase != session.Ready {
		m.panels, m.panelOf = nil, ""
	}
	return st
}
