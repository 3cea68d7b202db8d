package session

import (
	"strings"

	"github.com/dgallion1/studymap/internal/search"
)

// Reduce applies a to s and returns the next state. s is never modified.
// Results for a superseded submission or a no-longer-selected topic leave the
// state unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Submit:
		topic := strings.TrimSpace(a.Topic)
		if topic == "" || a.Ticket == "" {
			return s
		}
		return State{Phase: Generating, Ticket: a.Ticket, Topic: topic}

	case RoadmapLoaded:
		if !s.awaiting(a.Ticket, a.Topic) {
			return s
		}
		if len(a.Tree) == 0 {
			return State{Phase: Error, Ticket: s.Ticket, Topic: s.Topic, Err: "generated roadmap is empty"}
		}
		return State{Phase: Ready, Ticket: s.Ticket, Topic: s.Topic, Roadmap: a.Tree}

	case RoadmapFailed:
		if !s.awaiting(a.Ticket, a.Topic) {
			return s
		}
		msg := a.Err
		if msg == "" {
			msg = "roadmap generation failed"
		}
		return State{Phase: Error, Ticket: s.Ticket, Topic: s.Topic, Err: msg, Raw: a.Raw}

	case Select:
		topic := strings.TrimSpace(a.Topic)
		if s.Phase != Ready || topic == "" || topic == s.Selected {
			return s
		}
		s.Selected = topic
		s.Resources = Resources{VideoSlot: SlotLoading, ArticlesSlot: SlotLoading}
		return s

	case ClearSelection:
		s.Selected = ""
		s.Resources = Resources{}
		return s

	case VideoLoaded:
		if !s.selected(a.Topic) {
			return s
		}
		s.Resources.Video, s.Resources.VideoSlot, s.Resources.VideoError = a.Video, SlotLoaded, ""
		return s

	case VideoFailed:
		if !s.selected(a.Topic) {
			return s
		}
		s.Resources.Video, s.Resources.VideoSlot, s.Resources.VideoError = nil, SlotFailed, a.Err
		return s

	case ArticlesLoaded:
		if !s.selected(a.Topic) {
			return s
		}
		arts := a.Articles
		if arts == nil {
			arts = []search.Article{}
		}
		s.Resources.Articles, s.Resources.ArticlesSlot, s.Resources.ArticlesError = arts, SlotLoaded, ""
		return s

	case ArticlesFailed:
		if !s.selected(a.Topic) {
			return s
		}
		s.Resources.Articles, s.Resources.ArticlesSlot, s.Resources.ArticlesError = nil, SlotFailed, a.Err
		return s

	case NotesRequested:
		if !s.selected(a.Topic) || s.Resources.NotesSlot == SlotLoading {
			return s
		}
		s.Resources.Notes, s.Resources.NotesSlot, s.Resources.NotesError = "", SlotLoading, ""
		return s

	case NotesReady:
		if !s.selected(a.Topic) || s.Resources.NotesSlot != SlotLoading {
			return s
		}
		s.Resources.Notes, s.Resources.NotesSlot = a.Notes, SlotLoaded
		return s

	case NotesFailed:
		if !s.selected(a.Topic) || s.Resources.NotesSlot != SlotLoading {
			return s
		}
		s.Resources.Notes, s.Resources.NotesSlot, s.Resources.NotesError = "", SlotFailed, a.Err
		return s

	case Reset:
		return State{}
	}
	return s
}

// awaiting reports whether a roadmap result belongs to the current submission.
func (s State) awaiting(ticket, topic string) bool {
	return s.Phase == Generating && ticket == s.Ticket && strings.TrimSpace(topic) == s.Topic
}

func (s State) selected(topic string) bool {
	return s.Phase == Ready && s.Selected != "" && strings.TrimSpace(topic) == s.Selected
}
