package api

import (
	"net/http"
	"strings"

	"github.com/dgallion1/studymap/internal/compose"
)

// isoMillis matches JavaScript's Date.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type topicRequest struct {
	Topic string `json:"topic"`
}

func (s *Server) handleGenerateRoadmap(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if !decode(w, r, &req) {
		return
	}
	if blank(req.Topic) {
		jsonError(w, "Topic is required", http.StatusBadRequest)
		return
	}
	topic := strings.TrimSpace(req.Topic)

	tree, err := s.gen.Roadmap(r.Context(), topic)
	if err != nil {
		s.fail(w, r, "Failed to generate roadmap", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"roadmap": tree,
		"topic":   topic,
	})
}

func (s *Server) handleGenerateNotes(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if !decode(w, r, &req) {
		return
	}
	if blank(req.Topic) {
		jsonError(w, "Topic is required", http.StatusBadRequest)
		return
	}
	topic := strings.TrimSpace(req.Topic)

	notes, err := s.gen.Notes(r.Context(), topic)
	if err != nil {
		s.fail(w, r, "Failed to generate notes", err)
		return
	}
	resp := map[string]any{
		"success":     true,
		"notes":       notes,
		"topic":       topic,
		"generatedAt": s.now().UTC().Format(isoMillis),
	}
	if r.URL.Query().Get("format") == "html" {
		html, err := compose.RenderHTML(notes)
		if err != nil {
			s.fail(w, r, "Failed to render notes", err)
			return
		}
		resp["html"] = html
	}
	writeJSON(w, http.StatusOK, resp)
}
