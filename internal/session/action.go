package session

import (
	"github.com/google/uuid"

	"github.com/dgallion1/studymap/internal/roadmap"
	"github.com/dgallion1/studymap/internal/search"
)

// Action is one event applied by Reduce.
type Action interface {
	isAction()
}

// NewTicket identifies a submission.
func NewTicket() string { return uuid.NewString() }

// Submit starts generating a roadmap for Topic, superseding any earlier one.
type Submit struct {
	Topic  string
	Ticket string
}

// RoadmapLoaded delivers a generated roadmap.
type RoadmapLoaded struct {
	Ticket string
	Topic  string
	Tree   roadmap.Tree
}

// RoadmapFailed delivers a generation failure. Raw is the reply that could
// not be parsed, if any.
type RoadmapFailed struct {
	Ticket string
	Topic  string
	Err    string
	Raw    string
}

// Select picks a leaf topic and starts both resource lookups.
type Select struct{ Topic string }

// ClearSelection drops the selected topic and its resources.
type ClearSelection struct{}

type VideoLoaded struct {
	Topic string
	Video *search.Video // nil when nothing was found
}

type VideoFailed struct {
	Topic string
	Err   string
}

type ArticlesLoaded struct {
	Topic    string
	Articles []search.Article
}

type ArticlesFailed struct {
	Topic string
	Err   string
}

// NotesRequested starts notes generation for the selected topic.
type NotesRequested struct{ Topic string }

type NotesReady struct {
	Topic string
	Notes string
}

type NotesFailed struct {
	Topic string
	Err   string
}

// Reset returns to the initial state.
type Reset struct{}

func (Submit) isAction()         {}
func (RoadmapLoaded) isAction()  {}
func (RoadmapFailed) isAction()  {}
func (Select) isAction()         {}
func (ClearSelection) isAction() {}
func (VideoLoaded) isAction()    {}
func (VideoFailed) isAction()    {}
func (ArticlesLoaded) isAction() {}
func (ArticlesFailed) isAction() {}
func (NotesRequested) isAction() {}
func (NotesReady) isAction()     {}
func (NotesFailed) isAction()    {}
func (Reset) isAction()          {}
