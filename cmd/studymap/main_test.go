package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/studymap/internal/compose"
	"github.com/dgallion1/studymap/internal/config"
	"github.com/dgallion1/studymap/internal/roadmap"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := rootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "tui", "roadmap", "notes"} {
		assert.Contains(t, names, want)
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel(" WARN "))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("loud"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "warn", "json").Info("hidden")
	newLogger(&buf, "warn", "json").Warn("shown", "k", "v")
	line := strings.TrimSpace(buf.String())
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &m))
	assert.Equal(t, "shown", m["msg"])

	buf.Reset()
	newLogger(&buf, "info", "text").Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")

	newLogger(nil, "info", "json").Info("discarded")
}

func TestNewCompleter(t *testing.T) {
	cfg := config.Defaults()
	cfg.GeminiAPIKey = "g"
	llm, err := newCompleter(cfg)
	require.NoError(t, err)
	assert.Equal(t, "gemini", llm.Name())

	cfg.LLMProvider = config.ProviderAnthropic
	llm, err = newCompleter(cfg)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", llm.Name())

	cfg.LLMProvider = "openai"
	_, err = newCompleter(cfg)
	assert.Error(t, err)
}

func TestWriteRoadmap(t *testing.T) {
	tree, err := roadmap.Parse(`{"Optics": ["Reflection", {"Lenses": ["Convex"]}], "Waves": ["Sound"]}`)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeRoadmap(&buf, tree, "json", ""))
	assert.JSONEq(t, `{"Optics":["Reflection",{"Lenses":["Convex"]}],"Waves":["Sound"]}`, buf.String())

	buf.Reset()
	require.NoError(t, writeRoadmap(&buf, tree, "yaml", ""))
	assert.Contains(t, buf.String(), "Optics:\n  - Reflection\n")
	assert.Less(t, strings.Index(buf.String(), "Optics"), strings.Index(buf.String(), "Waves"))

	buf.Reset()
	require.NoError(t, writeRoadmap(&buf, tree, "mermaid", "TD"))
	assert.True(t, strings.HasPrefix(buf.String(), "graph TD;\n"))

	buf.Reset()
	require.NoError(t, writeRoadmap(&buf, tree, "SVG", ""))
	assert.Contains(t, buf.String(), "<svg")

	assert.Error(t, writeRoadmap(&buf, tree, "png", ""))
}

func TestWriteRoadmap_KeepsHTMLCharacters(t *testing.T) {
	tree, err := roadmap.Parse(`{"Limits, Continuity & Differentiability": ["Rolle's <MVT>"]}`)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeRoadmap(&buf, tree, "json", ""))
	assert.Contains(t, buf.String(), `"Limits, Continuity & Differentiability": [`)
	assert.Contains(t, buf.String(), `"Rolle's <MVT>"`)
	assert.NotContains(t, buf.String(), `\u00`)
}

func TestWriteNotes(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "notes")
	now := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	path, err := writeNotes(dir, "1. Basics:\nText", "Work, Energy & Power", "JEE", now, compose.DOCXRenderer{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Work__Energy___Power_JEE_notes_2024-03-09.docx"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}
