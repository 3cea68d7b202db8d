// Package generate talks to text-generation models and turns their replies
// into roadmaps and study notes.
package generate

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Completer sends one prompt to a model and returns its text reply.
type Completer interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// APIError is a non-2xx reply from a model provider.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s api status %d: %s", e.Provider, e.StatusCode, truncate(e.Message, 200))
}

// Temporary reports whether the provider signalled overload or rate limiting.
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Option configures an HTTP completer.
type Option func(*httpOptions)

type httpOptions struct {
	baseURL   string
	timeout   time.Duration
	maxTokens int
	client    *http.Client
}

// WithBaseURL points the client at another endpoint, e.g. a test server.
func WithBaseURL(u string) Option { return func(o *httpOptions) { o.baseURL = u } }

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option { return func(o *httpOptions) { o.timeout = d } }

// WithMaxTokens caps the reply length where the provider supports it.
func WithMaxTokens(n int) Option { return func(o *httpOptions) { o.maxTokens = n } }

// WithHTTPClient replaces the underlying client.
func WithHTTPClient(c *http.Client) Option { return func(o *httpOptions) { o.client = c } }

func buildOptions(baseURL string, opts []Option) httpOptions {
	o := httpOptions{baseURL: baseURL, timeout: 120 * time.Second, maxTokens: 4096}
	for _, opt := range opts {
		opt(&o)
	}
	if o.client == nil {
		o.client = &http.Client{Timeout: o.timeout}
	}
	return o
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
