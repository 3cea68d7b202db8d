package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dgallion1/studymap/internal/compose"
	"github.com/dgallion1/studymap/internal/search"
)

func (s *Server) handleYouTube(w http.ResponseWriter, r *http.Request) {
	query := pathParam(r, "query")
	if blank(query) {
		jsonError(w, "Query is required", http.StatusBadRequest)
		return
	}
	video, err := s.res.Video(r.Context(), query)
	if err != nil {
		s.fail(w, r, "Failed to fetch YouTube video", err)
		return
	}
	if video == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "No video found",
			"video":   nil,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "video": video})
}

func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	query := pathParam(r, "query")
	if blank(query) {
		jsonError(w, "Query is required", http.StatusBadRequest)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	articles, err := s.res.Articles(r.Context(), query, limit)
	if err != nil {
		s.fail(w, r, "Failed to fetch articles", err)
		return
	}
	if articles == nil {
		articles = []search.Article{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "articles": articles})
}

func (s *Server) handleBundle(w http.ResponseWriter, r *http.Request) {
	query := pathParam(r, "query")
	if blank(query) {
		jsonError(w, "Query is required", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		search.Bundle
	}{true, s.res.Load(r.Context(), query)})
}

type documentRequest struct {
	Notes string `json:"notes"`
	Topic string `json:"topic"`
}

func (s *Server) handleGeneratePDF(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Notes == "" || blank(req.Topic) {
		jsonError(w, "Notes and topic are required", http.StatusBadRequest)
		return
	}
	renderer, err := compose.ForFormat(r.URL.Query().Get("format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	now := s.now()
	doc := compose.Compose(req.Notes, req.Topic, now, compose.Options{Exam: s.cfg.ExamName})
	var buf bytes.Buffer
	if err := renderer.Render(&buf, doc); err != nil {
		s.fail(w, r, "Failed to generate PDF", err)
		return
	}

	filename := compose.Filename(req.Topic, s.cfg.ExamName, now, renderer.Extension())
	writeDocument(w, filename, renderer.ContentType(), buf.Bytes())
}

func writeDocument(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
