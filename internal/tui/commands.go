package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgallion1/studymap/internal/compose"
	"github.com/dgallion1/studymap/internal/failure"
	"github.com/dgallion1/studymap/internal/roadmap"
	"github.com/dgallion1/studymap/internal/search"
)

type roadmapMsg struct {
	ticket string
	topic  string
	tree   roadmap.Tree
	err    error
}

type videoMsg struct {
	topic string
	video *search.Video
	err   error
}

type articlesMsg struct {
	topic    string
	articles []search.Article
	err      error
}

type notesMsg struct {
	topic string
	notes string
	path  string // written document, "" if saving failed
	err   error  // generation error
	save  error
}

func (m *Model) generateRoadmap(ticket, topic string) tea.Cmd {
	gen, ctx := m.gen, m.ctx
	return func() tea.Msg {
		tree, err := gen.Roadmap(ctx, topic)
		return roadmapMsg{ticket: ticket, topic: topic, tree: tree, err: err}
	}
}

func (m *Model) fetchVideo(topic string) tea.Cmd {
	res, ctx := m.res, m.ctx
	return func() tea.Msg {
		v, err := res.Video(ctx, topic)
		return videoMsg{topic: topic, video: v, err: err}
	}
}

func (m *Model) fetchArticles(topic string) tea.Cmd {
	res, ctx := m.res, m.ctx
	return func() tea.Msg {
		arts, err := res.Articles(ctx, topic, 0)
		return articlesMsg{topic: topic, articles: arts, err: err}
	}
}

// generateNotes writes the document only after generation succeeded.
func (m *Model) generateNotes(topic string) tea.Cmd {
	gen, ctx := m.gen, m.ctx
	opts, now := m.opts, m.now()
	return func() tea.Msg {
		notes, err := gen.Notes(ctx, topic)
		if err != nil {
			return notesMsg{topic: topic, err: err}
		}
		path, err := saveNotes(notes, topic, now, opts)
		return notesMsg{topic: topic, notes: notes, path: path, save: err}
	}
}

func saveNotes(notes, topic string, now time.Time, opts Options) (string, error) {
	renderer, err := compose.ForFormat(opts.Format)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	doc := compose.Compose(notes, topic, now, compose.Options{Exam: opts.Exam})
	path := filepath.Join(opts.OutputDir, compose.Filename(topic, opts.Exam, now, renderer.Extension()))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := renderer.Render(f, doc); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("render %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

// errText is the short user-facing form of err.
func errText(err error) string {
	switch failure.KindOf(err) {
	case failure.Malformed:
		return "the generated roadmap could not be read"
	case failure.Validation:
		return "a topic is required"
	}
	return err.Error()
}
