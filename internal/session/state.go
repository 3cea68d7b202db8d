// Package session holds the client-side study session: which roadmap is
// loaded, which topic is selected and what has been fetched for it. All
// changes go through Reduce.
package session

import (
	"errors"

	"github.com/dgallion1/studymap/internal/roadmap"
	"github.com/dgallion1/studymap/internal/search"
)

// Phase is the roadmap lifecycle.
type Phase int

const (
	Idle Phase = iota
	Generating
	Ready
	Error
)

func (p Phase) String() string {
	switch p {
	case Generating:
		return "generating"
	case Ready:
		return "ready"
	case Error:
		return "error"
	default:
		return "idle"
	}
}

// Slot is the status of one independently fetched resource.
type Slot int

const (
	SlotEmpty Slot = iota
	SlotLoading
	SlotLoaded
	SlotFailed
)

func (s Slot) String() string {
	switch s {
	case SlotLoading:
		return "loading"
	case SlotLoaded:
		return "loaded"
	case SlotFailed:
		return "failed"
	default:
		return "empty"
	}
}

// Resources is what has been fetched for the selected topic. A failed slot
// holds no data, only the reason.
type Resources struct {
	Video      *search.Video
	VideoSlot  Slot
	VideoError string

	Articles      []search.Article
	ArticlesSlot  Slot
	ArticlesError string

	Notes      string
	NotesSlot  Slot
	NotesError string
}

func (r Resources) empty() bool {
	return r.Video == nil && r.VideoSlot == SlotEmpty && r.VideoError == "" &&
		r.Articles == nil && r.ArticlesSlot == SlotEmpty && r.ArticlesError == "" &&
		r.Notes == "" && r.NotesSlot == SlotEmpty && r.NotesError == ""
}

// State is one immutable snapshot of the session.
type State struct {
	Phase  Phase
	Ticket string // identifies the submission in flight or last completed
	Topic  string // the submitted main topic

	Roadmap roadmap.Tree // set only when Ready
	Err     string       // set only when Error
	Raw     string       // unparseable reply, when the error came from one

	Selected  string // selected leaf topic, "" for none
	Resources Resources
}

// Loading reports whether a roadmap generation is in flight.
func (s State) Loading() bool { return s.Phase == Generating }

// Check reports the first broken invariant, or nil.
func (s State) Check() error {
	switch {
	case s.Phase != Ready && s.Roadmap != nil:
		return errors.New("roadmap present outside ready phase")
	case s.Phase == Ready && s.Roadmap == nil:
		return errors.New("ready without a roadmap")
	case s.Phase != Error && (s.Err != "" || s.Raw != ""):
		return errors.New("error text outside error phase")
	case s.Phase == Error && s.Err == "":
		return errors.New("error phase without a message")
	case s.Phase != Ready && s.Selected != "":
		return errors.New("selection outside ready phase")
	case s.Selected == "" && !s.Resources.empty():
		return errors.New("resources without a selection")
	case s.Resources.VideoSlot != SlotLoaded && s.Resources.Video != nil:
		return errors.New("video present in a slot that is not loaded")
	case s.Resources.ArticlesSlot != SlotLoaded && s.Resources.Articles != nil:
		return errors.New("articles present in a slot that is not loaded")
	}
	return nil
}
