package generate

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/studymap/internal/failure"
	"github.com/dgallion1/studymap/internal/roadmap"
)

// Operation names used for stats and logging.
const (
	OpRoadmap = "roadmap"
	OpNotes   = "notes"
)

// Gateway produces roadmaps and notes from a Completer.
type Gateway struct {
	llm   Completer
	exam  Exam
	stats *LLMStats
	log   *slog.Logger
}

// NewGateway wires a completer. stats and log may be nil.
func NewGateway(llm Completer, exam Exam, stats *LLMStats, log *slog.Logger) *Gateway {
	if stats == nil {
		stats = NewLLMStats(time.Hour)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if exam.Short == "" {
		exam = DefaultExam
	}
	return &Gateway{llm: llm, exam: exam, stats: stats, log: log}
}

// Exam returns the exam the gateway writes prompts for.
func (g *Gateway) Exam() Exam { return g.exam }

// Stats exposes latency samples.
func (g *Gateway) Stats() *LLMStats { return g.stats }

// Roadmap generates and parses a Topic Tree. A reply that cannot be parsed
// fails with failure.Malformed and carries the raw reply.
func (g *Gateway) Roadmap(ctx context.Context, topic string) (roadmap.Tree, error) {
	topic, err := requireTopic("generate.roadmap", topic)
	if err != nil {
		return nil, err
	}
	raw, err := g.complete(ctx, OpRoadmap, topic, RoadmapPrompt(g.exam, topic))
	if err != nil {
		return nil, err
	}
	tree, err := roadmap.Parse(raw)
	if err != nil {
		g.log.Warn("unparseable roadmap reply", "topic", topic, "error", err, "raw_len", len(raw))
		return nil, err
	}
	return tree, nil
}

// Notes generates markdown study notes. An empty reply is not an error.
func (g *Gateway) Notes(ctx context.Context, topic string) (string, error) {
	topic, err := requireTopic("generate.notes", topic)
	if err != nil {
		return "", err
	}
	return g.complete(ctx, OpNotes, topic, NotesPrompt(g.exam, topic))
}

func (g *Gateway) complete(ctx context.Context, op, topic, prompt string) (string, error) {
	start := time.Now()
	text, err := g.llm.Complete(ctx, prompt)
	elapsed := time.Since(start)
	g.stats.Record(op, elapsed, err != nil)
	if err != nil {
		g.log.Error("generation failed", "op", op, "provider", g.llm.Name(), "topic", topic, "error", err)
		return "", failure.New(failure.Generation, "generate."+op, err)
	}
	g.log.Info("generation complete", "op", op, "provider", g.llm.Name(), "topic", topic,
		"duration_ms", elapsed.Milliseconds(), "chars", len(text))
	return text, nil
}

func requireTopic(op, topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", failure.Validationf(op, "topic is required")
	}
	return topic, nil
}
