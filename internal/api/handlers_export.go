package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/studymap/internal/compose"
	"github.com/dgallion1/studymap/internal/pipeline"
)

type exportRequest struct {
	Topic  string `json:"topic"`
	Format string `json:"format"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.exports == nil {
		jsonError(w, "export pipeline unavailable", http.StatusServiceUnavailable)
		return
	}
	var req exportRequest
	if !decode(w, r, &req) {
		return
	}
	if blank(req.Topic) {
		jsonError(w, "Topic is required", http.StatusBadRequest)
		return
	}
	renderer, err := compose.ForFormat(req.Format)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	job := pipeline.NewJob(strings.TrimSpace(req.Topic), renderer.Format())
	if err := s.exports.Submit(job); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, pipeline.ErrQueueFull) || errors.Is(err, pipeline.ErrStopped) {
			code = http.StatusServiceUnavailable
		}
		jsonError(w, err.Error(), code)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/export/%s/status", job.ID),
	})
}

func (s *Server) lookupJob(w http.ResponseWriter, r *http.Request) *pipeline.Job {
	if s.exports == nil {
		jsonError(w, "export pipeline unavailable", http.StatusServiceUnavailable)
		return nil
	}
	job := s.exports.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
	}
	return job
}

func (s *Server) handleExportStatus(w http.ResponseWriter, r *http.Request) {
	job := s.lookupJob(w, r)
	if job == nil {
		return
	}
	snap := job.Snapshot()
	resp := map[string]any{"job": snap}
	if snap.Status == pipeline.StatusCompleted {
		resp["download_url"] = fmt.Sprintf("/api/export/%s/download", snap.ID)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExportDownload(w http.ResponseWriter, r *http.Request) {
	job := s.lookupJob(w, r)
	if job == nil {
		return
	}
	out, ok := job.Output()
	if !ok {
		snap := job.Snapshot()
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":  "export not ready",
			"status": snap.Status,
			"detail": snap.Error,
		})
		return
	}
	etag := `"` + out.ETag + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeDocument(w, out.Filename, out.ContentType, out.Data)
}
