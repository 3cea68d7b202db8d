package search

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sourcegraph/conc"
	"golang.org/x/sync/singleflight"

	"github.com/dgallion1/studymap/internal/failure"
)

// Bundle is the resource set for one topic. A failed lookup leaves its slot
// empty and records the reason; the other slot is unaffected.
type Bundle struct {
	Topic         string    `json:"topic"`
	Video         *Video    `json:"video"`
	Articles      []Article `json:"articles"`
	VideoError    string    `json:"videoError,omitempty"`
	ArticlesError string    `json:"articlesError,omitempty"`
}

// Loader runs the video and article lookups for a topic side by side. Equal
// lookups already in flight are shared.
type Loader struct {
	videos   VideoFinder
	articles ArticleFinder
	limit    int
	group    singleflight.Group
	log      *slog.Logger
}

func NewLoader(videos VideoFinder, articles ArticleFinder, limit int, log *slog.Logger) *Loader {
	if limit <= 0 {
		limit = 3
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Loader{videos: videos, articles: articles, limit: limit, log: log}
}

// Limit is the default article count.
func (l *Loader) Limit() int { return l.limit }

// Video looks up one video, sharing identical concurrent calls.
func (l *Loader) Video(ctx context.Context, topic string) (*Video, error) {
	topic = strings.TrimSpace(topic)
	v, err := l.shared(ctx, "video\x00"+topic, func(ctx context.Context) (any, error) {
		return l.videos.FindVideo(ctx, topic)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Video), nil
}

// Articles looks up articles, sharing identical concurrent calls. limit <= 0
// uses the loader default.
func (l *Loader) Articles(ctx context.Context, topic string, limit int) ([]Article, error) {
	topic = strings.TrimSpace(topic)
	if limit <= 0 {
		limit = l.limit
	}
	v, err := l.shared(ctx, "articles\x00"+strconv.Itoa(limit)+"\x00"+topic, func(ctx context.Context) (any, error) {
		return l.articles.FindArticles(ctx, topic, limit)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Article), nil
}

// shared runs fn once for every concurrent caller with the same key. The
// lookup itself is detached from any one caller's cancellation (the HTTP
// clients carry their own timeout); each caller still stops waiting when its
// own ctx ends.
func (l *Loader) shared(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	detached := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (any, error) {
		return fn(detached)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, failure.New(failure.Lookup, "search.load", ctx.Err())
	}
}

// Load fetches both slots concurrently and never fails as a whole.
func (l *Loader) Load(ctx context.Context, topic string) Bundle {
	b := Bundle{Topic: strings.TrimSpace(topic), Articles: []Article{}}

	var wg conc.WaitGroup
	wg.Go(func() {
		v, err := l.Video(ctx, b.Topic)
		if err != nil {
			l.log.Warn("video lookup failed", "topic", b.Topic, "error", err)
			b.VideoError = err.Error()
			return
		}
		b.Video = v
	})
	wg.Go(func() {
		arts, err := l.Articles(ctx, b.Topic, l.limit)
		if err != nil {
			l.log.Warn("article lookup failed", "topic", b.Topic, "error", err)
			b.ArticlesError = err.Error()
			return
		}
		if arts != nil {
			b.Articles = arts
		}
	})
	wg.Wait()
	return b
}
