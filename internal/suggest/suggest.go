// file: internal/suggest/suggest.go
// version: 1.0.0
// guid: 1e9d7b35-8c2a-4f61-a0d4-6b3f5c8e2a97

// Package suggest offers "did you mean" fallbacks for queries the filter
// engine rejects outright. It ranks entity names by Levenshtein distance,
// which recovers dropped-letter typos the sequential matcher cannot.
package suggest

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// DefaultMax is the default number of suggestions returned.
const DefaultMax = 3

// Names returns up to max candidate names closest to query, best first.
// The result is empty when nothing comes close.
func Names(query string, names []string, max int) []string {
	if query == "" || len(names) == 0 {
		return nil
	}
	if max <= 0 {
		max = DefaultMax
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Sort(ranks)

	out := make([]string, 0, max)
	seen := make(map[string]bool, max)
	for _, r := range ranks {
		if seen[r.Target] {
			continue
		}
		seen[r.Target] = true
		out = append(out, r.Target)
		if len(out) == max {
			break
		}
	}
	return out
}
