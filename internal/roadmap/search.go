package roadmap

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Match is a leaf topic ranked against a search pattern.
type Match struct {
	Topic   string `json:"topic"`
	Index   int    `json:"index"` // position in Leaves order
	Score   int    `json:"score"`
	Matched []int  `json:"matched,omitempty"`
}

// Search fuzzy-matches pattern against every leaf. An empty pattern returns
// all leaves in order.
func Search(t Tree, pattern string) []Match {
	leaves := Leaves(t)
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		out := make([]Match, len(leaves))
		for i, l := range leaves {
			out[i] = Match{Topic: l, Index: i}
		}
		return out
	}

	found := fuzzy.Find(pattern, leaves)
	out := make([]Match, 0, len(found))
	for _, m := range found {
		out = append(out, Match{
			Topic:   m.Str,
			Index:   m.Index,
			Score:   m.Score,
			Matched: m.MatchedIndexes,
		})
	}
	return out
}
