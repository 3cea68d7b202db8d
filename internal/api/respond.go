package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/studymap/internal/failure"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// fail maps a classified error to a status and a JSON body.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	body := map[string]string{"error": msg, "message": err.Error()}
	code := http.StatusInternalServerError
	switch failure.KindOf(err) {
	case failure.Validation:
		code = http.StatusBadRequest
	case failure.Malformed:
		code = http.StatusBadGateway
		body["error"] = "Failed to parse AI response"
		body["rawResponse"] = failure.RawOf(err)
	case failure.Generation, failure.Lookup:
		code = http.StatusBadGateway
	default:
		body["message"] = "Internal server error"
	}
	s.log.Error(msg, "path", r.URL.Path, "kind", failure.KindOf(err), "error", err)
	writeJSON(w, code, body)
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		jsonError(w, "Request body too large", http.StatusRequestEntityTooLarge)
		return false
	}
	jsonError(w, "Invalid JSON body: "+err.Error(), http.StatusBadRequest)
	return false
}

// pathParam returns a decoded URL parameter. chi matches against RawPath
// when the request has one, and against the decoded Path otherwise.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
