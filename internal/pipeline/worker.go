package pipeline

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/dgallion1/studymap/internal/compose"
)

// NotesSource generates study notes for a topic.
type NotesSource interface {
	Notes(ctx context.Context, topic string) (string, error)
}

// Worker processes a single export job.
type Worker struct {
	notes NotesSource
	exam  string
	log   *slog.Logger
	now   func() time.Time
}

func NewWorker(notes NotesSource, exam string, log *slog.Logger) *Worker {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Worker{notes: notes, exam: exam, log: log, now: time.Now}
}

// Process generates notes and then composes the document. Composition never
// starts unless generation succeeded.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "topic", job.Topic, "format", job.Format)
	start := time.Now()

	renderer, err := compose.ForFormat(job.Format)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.Fail("queued", err.Error())
		return
	}

	// Phase 1: Notes
	job.SetStatus(StatusGeneratingNotes, "generating notes")
	notes, err := w.notes.Notes(ctx, job.Topic)
	if err != nil {
		log.Error("notes generation failed", "error", err)
		job.Fail("generating notes", err.Error())
		return
	}
	job.SetNotes(notes)

	// Phase 2: Compose
	job.SetStatus(StatusComposing, "composing document")
	now := w.now()
	doc := compose.Compose(notes, job.Topic, now, compose.Options{Exam: w.exam})
	var buf bytes.Buffer
	if err := renderer.Render(&buf, doc); err != nil {
		log.Error("compose failed", "error", err)
		job.Fail("composing document", err.Error())
		return
	}

	filename := compose.Filename(job.Topic, w.exam, now, renderer.Extension())
	job.Complete(filename, renderer.ContentType(), buf.Bytes())
	log.Info("export complete", "filename", filename, "bytes", buf.Len(), "duration_ms", time.Since(start).Milliseconds())
}
