package match

import (
	"sort"
	"strings"
)

// DefaultThreshold is the least similarity a suggestion needs.
const DefaultThreshold = 0.6

// Closest returns up to limit candidates similar to target, best first.
// Names are compared case-insensitively with underscores removed; ties keep
// lexical order.
func Closest(target string, candidates []string, limit int) []string {
	type scored struct {
		name  string
		score float64
	}

	norm := fold(target)

	var hits []scored

	seen := make(map[string]bool)

	for _, c := range candidates {
		if seen[c] {
			continue
		}

		seen[c] = true

		if s := Similarity(norm, fold(c)); s >= DefaultThreshold {
			hits = append(hits, scored{name: c, score: s})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}

		return hits[i].name < hits[j].name
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}

	return out
}

func fold(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "_", "")
}
