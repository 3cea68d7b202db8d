package api

import (
	"bytes"
	"net/http"

	"github.com/dgallion1/studymap/internal/diagram"
	"github.com/dgallion1/studymap/internal/outline"
	"github.com/dgallion1/studymap/internal/roadmap"
)

type diagramRequest struct {
	Roadmap   roadmap.Tree `json:"roadmap"`
	Direction string       `json:"direction"`
}

// handleDiagram renders a roadmap the client already holds.
func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	var req diagramRequest
	if !decode(w, r, &req) {
		return
	}
	if len(req.Roadmap) == 0 {
		jsonError(w, "Roadmap is required", http.StatusBadRequest)
		return
	}

	d := diagram.Build(req.Roadmap)
	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"nodes":   d.Nodes,
			"edges":   d.Edges,
			"stats":   roadmap.Measure(req.Roadmap),
		})
	case "mermaid":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(diagram.Mermaid(d, req.Direction)))
	case "svg":
		var buf bytes.Buffer
		if err := diagram.WriteSVG(&buf, d); err != nil {
			s.fail(w, r, "Failed to render diagram", err)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(buf.Bytes())
	case "outline":
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"panels":  outline.Build(req.Roadmap),
		})
	default:
		jsonError(w, "unsupported diagram format: "+format, http.StatusBadRequest)
	}
}
