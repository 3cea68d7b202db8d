package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dgallion1/studymap/internal/config"
	"github.com/dgallion1/studymap/internal/generate"
	"github.com/dgallion1/studymap/internal/search"
)

// app is the wiring shared by every subcommand.
type app struct {
	cfg     config.Config
	log     *slog.Logger
	llm     generate.Completer
	gateway *generate.Gateway
	loader  *search.Loader
}

func newApp(logOut io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log := newLogger(logOut, cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, w := range cfg.Warnings() {
		log.Warn("configuration", "warning", w)
	}

	llm, err := newCompleter(cfg)
	if err != nil {
		return nil, err
	}
	exam := generate.ExamFor(cfg.ExamName)
	stats := generate.NewLLMStats(0)
	gw := generate.NewGateway(llm, exam, stats, log.With("component", "generate"))

	videos := search.NewYouTubeClient(cfg.YouTubeAPIKey, exam.Short, "", cfg.SearchTimeout)
	articles := search.NewCustomSearchClient(cfg.SearchAPIKey, cfg.SearchEngineID, exam.Short, "", cfg.SearchTimeout)
	loader := search.NewLoader(videos, articles, cfg.ArticleLimit, log.With("component", "search"))

	return &app{cfg: cfg, log: log, llm: llm, gateway: gw, loader: loader}, nil
}

func (a *app) close() {
	if c, ok := a.llm.(interface{ Close() }); ok {
		c.Close()
	}
}

// newCompleter picks the text-generation provider.
func newCompleter(cfg config.Config) (generate.Completer, error) {
	opts := []generate.Option{generate.WithTimeout(cfg.LLMTimeout)}
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		return generate.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, opts...), nil
	case config.ProviderAnthropic:
		return generate.NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, opts...), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

func newLogger(w io.Writer, level, format string) *slog.Logger {
	if w == nil {
		return slog.New(slog.DiscardHandler)
	}
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}
