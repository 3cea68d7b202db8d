package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dgallion1/studymap/internal/failure"
)

const youtubeURL = "https://www.googleapis.com"

// YouTubeClient queries the YouTube Data API search.list endpoint.
type YouTubeClient struct {
	apiKey     string
	suffix     string
	baseURL    string
	httpClient *http.Client
}

// NewYouTubeClient searches for "<query> <exam> tutorial". An empty baseURL
// means the public API.
func NewYouTubeClient(apiKey, exam, baseURL string, timeout time.Duration) *YouTubeClient {
	if baseURL == "" {
		baseURL = youtubeURL
	}
	return &YouTubeClient{
		apiKey:     apiKey,
		suffix:     strings.TrimSpace(exam + " tutorial"),
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: newHTTPClient(timeout),
	}
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Thumbnails  map[string]struct {
				URL string `json:"url"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// FindVideo returns the most viewed matching video, or nil when the search
// has no results.
func (c *YouTubeClient) FindVideo(ctx context.Context, query string) (*Video, error) {
	const op = "search.video"
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, failure.Validationf(op, "query is required")
	}

	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("q", query+" "+c.suffix)
	q.Set("maxResults", "1")
	q.Set("type", "video")
	q.Set("order", "viewCount")
	q.Set("key", c.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/youtube/v3/search?"+q.Encode(), nil)
	if err != nil {
		return nil, failure.New(failure.Lookup, op, fmt.Errorf("create request: %w", err))
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, failure.New(failure.Lookup, op, fmt.Errorf("youtube api: %w", unwrapURL(err)))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, failure.New(failure.Lookup, op, &APIError{API: "youtube", StatusCode: resp.StatusCode, Message: string(body)})
	}

	var sr youtubeSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, failure.New(failure.Lookup, op, fmt.Errorf("decode response: %w", err))
	}
	for _, item := range sr.Items {
		if item.ID.VideoID == "" {
			continue
		}
		v := &Video{
			Title:       PlainText(item.Snippet.Title),
			URL:         "https://www.youtube.com/watch?v=" + url.QueryEscape(item.ID.VideoID),
			VideoID:     item.ID.VideoID,
			Description: PlainText(item.Snippet.Description),
		}
		if th, ok := item.Snippet.Thumbnails["medium"]; ok {
			v.Thumbnail = th.URL
		}
		return v, nil
	}
	return nil, nil
}
