package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/dgallion1/studymap/internal/config"
	"github.com/dgallion1/studymap/internal/failure"
	"github.com/dgallion1/studymap/internal/generate"
	"github.com/dgallion1/studymap/internal/pipeline"
	"github.com/dgallion1/studymap/internal/roadmap"
	"github.com/dgallion1/studymap/internal/search"
)

type fakeGen struct {
	mu     sync.Mutex
	tree   roadmap.Tree
	notes  string
	err    error
	topics []string
}

func (f *fakeGen) Roadmap(_ context.Context, topic string) (roadmap.Tree, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topics = append(f.topics, topic)
	return f.tree, f.err
}

func (f *fakeGen) Notes(_ context.Context, topic string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topics = append(f.topics, topic)
	return f.notes, f.err
}

type fakeVideos struct {
	video  *search.Video
	err    error
	topics chan string
}

func (f fakeVideos) FindVideo(_ context.Context, topic string) (*search.Video, error) {
	if f.topics != nil {
		f.topics <- topic
	}
	return f.video, f.err
}

type fakeArticles struct {
	articles []search.Article
	err      error
	limits   chan int
}

func (f fakeArticles) FindArticles(_ context.Context, _ string, limit int) ([]search.Article, error) {
	if f.limits != nil {
		f.limits <- limit
	}
	return f.articles, f.err
}

var fixedNow = time.Date(2024, 3, 9, 10, 30, 0, 0, time.UTC)

type harness struct {
	srv  *Server
	gen  *fakeGen
	orch *pipeline.Orchestrator
}

func newHarness(t *testing.T, gen *fakeGen, videos search.VideoFinder, articles search.ArticleFinder) *harness {
	t.Helper()
	cfg := config.Defaults()
	cfg.MaxBodyBytes = 1024
	cfg.WorkerCount = 1
	if gen == nil {
		gen = &fakeGen{}
	}
	if videos == nil {
		videos = fakeVideos{}
	}
	if articles == nil {
		articles = fakeArticles{}
	}
	orch := pipeline.NewOrchestrator(cfg, gen, nil)
	orch.Start(context.Background())
	t.Cleanup(orch.Stop)

	stats := generate.NewLLMStats(time.Hour)
	srv := NewServer(Deps{
		Generator: gen,
		Resources: search.NewLoader(videos, articles, cfg.ArticleLimit, nil),
		Exports:   orch,
		Stats:     stats,
		Provider:  "gemini",
	}, nil, cfg)
	srv.now = func() time.Time { return fixedNow }
	return &harness{srv: srv, gen: gen, orch: orch}
}

func (h *harness) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

func mustTree(t *testing.T, raw string) roadmap.Tree {
	t.Helper()
	tree, err := roadmap.Parse(raw)
	require.NoError(t, err)
	return tree
}

func TestHealth(t *testing.T) {
	h := newHarness(t, nil, nil, nil)
	rec := h.do(http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "JEE Roadmap API is running", body["message"])
	assert.Equal(t, "2024-03-09T10:30:00.000Z", body["timestamp"])
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestNotFound(t *testing.T) {
	h := newHarness(t, nil, nil, nil)
	rec := h.do(http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Route not found"}`, rec.Body.String())
}

func TestCORS(t *testing.T) {
	h := newHarness(t, nil, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.srv.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.srv.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestGenerateRoadmap(t *testing.T) {
	gen := &fakeGen{tree: mustTree(t, `{"Z": ["z1"], "A": [{"Inner": ["i"]}]}`)}
	h := newHarness(t, gen, nil, nil)

	rec := h.do(http.MethodPost, "/api/ai/generate-roadmap", `{"topic":"  Calculus "}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true,"topic":"Calculus","roadmap":{"Z":["z1"],"A":[{"Inner":["i"]}]}}`, rec.Body.String())
	// Sibling order survives encoding.
	assert.Less(t, strings.Index(rec.Body.String(), `"Z"`), strings.Index(rec.Body.String(), `"A"`))
	assert.Equal(t, []string{"Calculus"}, gen.topics)
}

func TestGenerateRoadmap_Errors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		body   string
		status int
		check  func(t *testing.T, body map[string]any)
	}{
		{
			name:   "missing topic",
			body:   `{"topic":"   "}`,
			status: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Topic is required", body["error"])
			},
		},
		{
			name:   "empty body",
			body:   ``,
			status: http.StatusUnsupportedMediaType,
		},
		{
			name:   "malformed",
			err:    failure.MalformedOutput("roadmap.parse", "not json at all", errors.New("no payload")),
			body:   `{"topic":"Optics"}`,
			status: http.StatusBadGateway,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Failed to parse AI response", body["error"])
				assert.Equal(t, "not json at all", body["rawResponse"])
			},
		},
		{
			name:   "generation",
			err:    failure.New(failure.Generation, "generate.roadmap", errors.New("quota")),
			body:   `{"topic":"Optics"}`,
			status: http.StatusBadGateway,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Failed to generate roadmap", body["error"])
				assert.Contains(t, body["message"], "quota")
			},
		},
		{
			name:   "unclassified",
			err:    errors.New("boom"),
			body:   `{"topic":"Optics"}`,
			status: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Internal server error", body["message"])
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, &fakeGen{err: tc.err}, nil, nil)
			rec := h.do(http.MethodPost, "/api/ai/generate-roadmap", tc.body)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			if tc.check != nil {
				tc.check(t, decodeBody(t, rec))
			}
		})
	}
}

func TestBodyBoundary(t *testing.T) {
	h := newHarness(t, nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/ai/generate-notes", strings.NewReader("topic=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	big := `{"topic":"` + strings.Repeat("x", 2048) + `"}`
	rec = h.do(http.MethodPost, "/api/ai/generate-notes", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = h.do(http.MethodPost, "/api/ai/generate-notes", `{"topic":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/ai/generate-notes", strings.NewReader(`{"topic":"x"}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec = httptest.NewRecorder()
	h.srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGenerateNotes(t *testing.T) {
	h := newHarness(t, &fakeGen{notes: "## Key Formulas:\n- **F = ma**"}, nil, nil)

	rec := h.do(http.MethodPost, "/api/ai/generate-notes", `{"topic":"Newton's Laws"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Newton's Laws", body["topic"])
	assert.Equal(t, "## Key Formulas:\n- **F = ma**", body["notes"])
	assert.Equal(t, "2024-03-09T10:30:00.000Z", body["generatedAt"])
	assert.NotContains(t, body, "html")

	rec = h.do(http.MethodPost, "/api/ai/generate-notes?format=html", `{"topic":"Newton's Laws"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Contains(t, body["html"], "<h2>Key Formulas:</h2>")
	assert.Contains(t, body["html"], "<strong>F = ma</strong>")
}

func TestYouTube(t *testing.T) {
	video := &search.Video{Title: "Optics in one shot", URL: "https://www.youtube.com/watch?v=abc", VideoID: "abc"}
	h := newHarness(t, nil, fakeVideos{video: video}, nil)

	rec := h.do(http.MethodGet, "/api/resources/youtube/Ray%20Optics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "abc", body["video"].(map[string]any)["videoId"])

	h = newHarness(t, nil, fakeVideos{}, nil)
	rec = h.do(http.MethodGet, "/api/resources/youtube/Ray%20Optics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"No video found","video":null}`, rec.Body.String())

	h = newHarness(t, nil, fakeVideos{err: failure.New(failure.Lookup, "search.youtube", errors.New("quota"))}, nil)
	rec = h.do(http.MethodGet, "/api/resources/youtube/Optics", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Failed to fetch YouTube video", decodeBody(t, rec)["error"])
}

func TestYouTube_DecodesPathOnce(t *testing.T) {
	topics := make(chan string, 3)
	h := newHarness(t, nil, fakeVideos{topics: topics}, nil)

	for path, want := range map[string]string{
		"/api/resources/youtube/x%2541":       "x%41",
		"/api/resources/youtube/Ray%20Optics": "Ray Optics",
		"/api/resources/youtube/AC%2FDC":      "AC/DC",
	} {
		rec := h.do(http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, want, <-topics, path)
	}
}

func TestJSONResponses_KeepHTMLCharacters(t *testing.T) {
	gen := &fakeGen{tree: mustTree(t, `{"Limits & Continuity": ["f(x) < g(x)"]}`)}
	h := newHarness(t, gen, nil, nil)

	rec := h.do(http.MethodPost, "/api/ai/generate-roadmap", `{"topic":"Calculus"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Limits & Continuity":["f(x) < g(x)"]`)
	assert.NotContains(t, rec.Body.String(), `\u0026`)
}

func TestArticles(t *testing.T) {
	limits := make(chan int, 2)
	arts := fakeArticles{
		articles: []search.Article{{Title: "Snell's law", Link: "https://example.com/snell"}},
		limits:   limits,
	}
	h := newHarness(t, nil, nil, arts)

	rec := h.do(http.MethodGet, "/api/resources/articles/Refraction?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, <-limits)
	body := decodeBody(t, rec)
	require.Len(t, body["articles"], 1)

	rec = h.do(http.MethodGet, "/api/resources/articles/Refraction", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, <-limits, "default limit")

	h = newHarness(t, nil, nil, fakeArticles{})
	rec = h.do(http.MethodGet, "/api/resources/articles/Refraction", "")
	assert.JSONEq(t, `{"success":true,"articles":[]}`, rec.Body.String())

	h = newHarness(t, nil, nil, fakeArticles{err: failure.Validationf("search.articles", "search engine id is not configured")})
	rec = h.do(http.MethodGet, "/api/resources/articles/Refraction", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBundle_IndependentFailure(t *testing.T) {
	h := newHarness(t, nil,
		fakeVideos{err: failure.New(failure.Lookup, "search.youtube", errors.New("quota"))},
		fakeArticles{articles: []search.Article{{Title: "Lenses"}}},
	)
	rec := h.do(http.MethodGet, "/api/resources/bundle/Optics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Optics", body["topic"])
	assert.Nil(t, body["video"])
	assert.Contains(t, body["videoError"], "quota")
	require.Len(t, body["articles"], 1)
	assert.NotContains(t, body, "articlesError")
}

func TestGeneratePDF(t *testing.T) {
	h := newHarness(t, nil, nil, nil)

	rec := h.do(http.MethodPost, "/api/resources/generate-pdf", `{"notes":"","topic":"Optics"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Notes and topic are required", decodeBody(t, rec)["error"])

	rec = h.do(http.MethodPost, "/api/resources/generate-pdf", `{"notes":"1. Reflection:\nAngles are equal.","topic":"Ray Optics"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Ray_Optics_JEE_notes_2024-03-09.pdf"`, rec.Header().Get("Content-Disposition"))

	data := rec.Body.Bytes()
	reader, err := pdflib.NewReader(strings.NewReader(string(data)), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, 1, reader.NumPage())

	rec = h.do(http.MethodPost, "/api/resources/generate-pdf?format=docx", `{"notes":"Body text","topic":"Ray Optics"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Ray_Optics_JEE_notes_2024-03-09.docx")

	rec = h.do(http.MethodPost, "/api/resources/generate-pdf?format=odt", `{"notes":"Body text","topic":"Ray Optics"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDiagram(t *testing.T) {
	h := newHarness(t, nil, nil, nil)
	payload := `{"roadmap":{"Optics":["Reflection",{"Lenses":["Convex"]}]}}`

	rec := h.do(http.MethodPost, "/api/roadmap/diagram", payload)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Len(t, body["nodes"], 4)
	assert.Len(t, body["edges"], 3)

	rec = h.do(http.MethodPost, "/api/roadmap/diagram?format=mermaid", payload)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "graph LR;\n"))
	assert.Contains(t, rec.Body.String(), `node0["Optics"];`)

	rec = h.do(http.MethodPost, "/api/roadmap/diagram?format=svg", payload)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")

	rec = h.do(http.MethodPost, "/api/roadmap/diagram?format=outline", payload)
	require.Equal(t, http.StatusOK, rec.Code)
	panels := decodeBody(t, rec)["panels"].([]any)
	require.Len(t, panels, 1)
	assert.Equal(t, "0", panels[0].(map[string]any)["key"])

	rec = h.do(http.MethodPost, "/api/roadmap/diagram?format=png", payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPost, "/api/roadmap/diagram", `{"roadmap":{}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPost, "/api/roadmap/diagram", `{"roadmap":{"Optics":"Reflection"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport_Lifecycle(t *testing.T) {
	h := newHarness(t, &fakeGen{notes: "Key Formulas:\nv = u + at"}, nil, nil)

	rec := h.do(http.MethodPost, "/api/export", `{"topic":"Kinematics","format":"pdf"}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	id := decodeBody(t, rec)["job_id"].(string)
	require.NotEmpty(t, id)

	var status map[string]any
	require.Eventually(t, func() bool {
		rec := h.do(http.MethodGet, "/api/export/"+id+"/status", "")
		if rec.Code != http.StatusOK {
			return false
		}
		status = decodeBody(t, rec)
		job := status["job"].(map[string]any)
		return job["status"] == string(pipeline.StatusCompleted)
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, "/api/export/"+id+"/download", status["download_url"])

	rec = h.do(http.MethodGet, "/api/export/"+id+"/download", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/api/export/"+id+"/download", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestExport_Errors(t *testing.T) {
	h := newHarness(t, &fakeGen{err: failure.New(failure.Generation, "generate.notes", errors.New("quota"))}, nil, nil)

	rec := h.do(http.MethodPost, "/api/export", `{"topic":" ","format":"pdf"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPost, "/api/export", `{"topic":"Optics","format":"odt"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodGet, "/api/export/missing/status", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(http.MethodPost, "/api/export", `{"topic":"Optics"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	id := decodeBody(t, rec)["job_id"].(string)

	require.Eventually(t, func() bool {
		job := h.orch.GetJob(id)
		return job != nil && job.Snapshot().Status.Done()
	}, 5*time.Second, 10*time.Millisecond)

	rec = h.do(http.MethodGet, "/api/export/"+id+"/download", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, string(pipeline.StatusFailed), body["status"])
	assert.Contains(t, body["detail"], "quota")
}

func TestLLMStats(t *testing.T) {
	h := newHarness(t, nil, nil, nil)
	rec := h.do(http.MethodGet, "/api/stats/llm", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "gemini", body["provider"])
	assert.Contains(t, body, "export_queue_depth")
}

func TestRateLimit(t *testing.T) {
	cfg := config.Defaults()
	cfg.RateLimitMaxRequests = 2
	cfg.RateLimitWindow = time.Hour
	srv := NewServer(Deps{}, nil, cfg)

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "limits are per client")
}

func TestRateLimiter_Refills(t *testing.T) {
	rl := NewRateLimiter(time.Minute, 1)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("a"))

	disabled := NewRateLimiter(time.Minute, 0)
	for range 10 {
		assert.True(t, disabled.Allow("a"))
	}
}
