// Package search finds learning resources for a topic: one video and a few
// articles, looked up independently.
package search

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Video is the top video result for a topic.
type Video struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	VideoID     string `json:"videoId"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Description string `json:"description"`
}

// Article is one web search result.
type Article struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Snippet     string `json:"snippet"`
	DisplayLink string `json:"displayLink"`
}

// VideoFinder returns the best video for query, or nil when there is none.
type VideoFinder interface {
	FindVideo(ctx context.Context, query string) (*Video, error)
}

// ArticleFinder returns up to limit articles for query, possibly none.
type ArticleFinder interface {
	FindArticles(ctx context.Context, query string, limit int) ([]Article, error)
}

// APIError is a non-2xx reply from a search API.
type APIError struct {
	API        string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	return fmt.Sprintf("%s api status %d: %s", e.API, e.StatusCode, msg)
}

const defaultTimeout = 15 * time.Second

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
