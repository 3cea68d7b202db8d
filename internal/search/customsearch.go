package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/studymap/internal/failure"
)

const customSearchURL = "https://www.googleapis.com"

// MaxArticles is the most results Custom Search returns per request.
const MaxArticles = 10

// CustomSearchClient queries the Programmable Search JSON API.
type CustomSearchClient struct {
	apiKey     string
	engineID   string
	suffix     string
	baseURL    string
	httpClient *http.Client
}

// NewCustomSearchClient searches for "<query> <exam> study material article".
func NewCustomSearchClient(apiKey, engineID, exam, baseURL string, timeout time.Duration) *CustomSearchClient {
	if baseURL == "" {
		baseURL = customSearchURL
	}
	return &CustomSearchClient{
		apiKey:     apiKey,
		engineID:   engineID,
		suffix:     strings.TrimSpace(exam + " study material article"),
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: newHTTPClient(timeout),
	}
}

type customSearchResponse struct {
	Items []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		Snippet     string `json:"snippet"`
		DisplayLink string `json:"displayLink"`
	} `json:"items"`
}

// FindArticles returns up to limit results in ranking order. limit is
// clamped to [1, MaxArticles].
func (c *CustomSearchClient) FindArticles(ctx context.Context, query string, limit int) ([]Article, error) {
	const op = "search.articles"
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, failure.Validationf(op, "query is required")
	}
	if c.engineID == "" {
		return nil, failure.Validationf(op, "search engine id is not configured")
	}
	limit = min(max(limit, 1), MaxArticles)

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("cx", c.engineID)
	q.Set("q", query+" "+c.suffix)
	q.Set("num", strconv.Itoa(limit))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/customsearch/v1?"+q.Encode(), nil)
	if err != nil {
		return nil, failure.New(failure.Lookup, op, fmt.Errorf("create request: %w", err))
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, failure.New(failure.Lookup, op, fmt.Errorf("custom search api: %w", unwrapURL(err)))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, failure.New(failure.Lookup, op, &APIError{API: "customsearch", StatusCode: resp.StatusCode, Message: string(body)})
	}

	var sr customSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, failure.New(failure.Lookup, op, fmt.Errorf("decode response: %w", err))
	}
	articles := make([]Article, 0, len(sr.Items))
	for _, item := range sr.Items {
		if len(articles) == limit {
			break
		}
		articles = append(articles, Article{
			Title:       PlainText(item.Title),
			Link:        item.Link,
			Snippet:     PlainText(item.Snippet),
			DisplayLink: item.DisplayLink,
		})
	}
	return articles, nil
}

// unwrapURL drops the request URL, which carries the API key.
func unwrapURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}
