package api

import (
	"net/http"
)

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "llm stats unavailable", http.StatusServiceUnavailable)
		return
	}

	resp := map[string]any{
		"provider": s.provider,
		"stats":    s.stats.Snapshot(),
	}
	if s.exports != nil {
		resp["export_queue_depth"] = s.exports.QueueDepth()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	exam := s.cfg.ExamName
	if exam == "" {
		exam = "JEE"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"message":   exam + " Roadmap API is running",
		"timestamp": s.now().UTC().Format(isoMillis),
	})
}
