// Package fuzzy ranks card names by similarity to a query.
package fuzzy

import (
	"sort"
	"strings"
)

// Match is a ranked candidate.
type Match struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// SearchOptions configures fuzzy search behavior.
type SearchOptions struct {
	// CaseSensitive enables case-sensitive matching
	CaseSensitive bool
	// MaxResults limits the number of results returned (0 = unlimited)
	MaxResults int
	// MinScore sets minimum score threshold (0-100)
	MinScore int
}

// DefaultSearchOptions returns the options used for "did you mean"
// suggestions.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		MaxResults: 5,
		MinScore:   60,
	}
}

// Search scores every candidate against query and returns the matches at
// or above MinScore, best first. Ties keep candidate order.
func Search(query string, candidates []string, options SearchOptions) []Match {
	if !options.CaseSensitive {
		query = strings.ToLower(query)
	}

	type scored struct {
		Match
		index int
	}
	results := make([]scored, 0)
	for i, name := range candidates {
		target := name
		if !options.CaseSensitive {
			target = strings.ToLower(name)
		}
		if score := Score(query, target); score >= options.MinScore {
			results = append(results, scored{Match{Name: name, Score: score}, i})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].index < results[j].index
	})

	if options.MaxResults > 0 && len(results) > options.MaxResults {
		results = results[:options.MaxResults]
	}

	out := make([]Match, len(results))
	for i, r := range results {
		out[i] = r.Match
	}
	return out
}

// Score returns the similarity of query and target from 0 to 100: 100 for
// an exact match, 85 to 100 for a prefix, 80 to 100 for a substring and
// the normalized edit distance otherwise.
func Score(query, target string) int {
	if query == target {
		return 100
	}

	q, t := []rune(query), []rune(target)
	if len(q) == 0 || len(t) == 0 {
		return 0
	}

	if strings.HasPrefix(target, query) {
		return min(85+len(q)*15/len(t), 99)
	}
	if strings.Contains(target, query) {
		return min(80+len(q)*20/len(t), 99)
	}

	distance := levenshtein(q, t)
	return 100 - distance*100/max(len(q), len(t))
}

// levenshtein returns the number of single-rune edits that turn a into b.
func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
