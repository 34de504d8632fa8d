// Package summary derives the word-cloud and city-chart inputs of a
// collection. It always works over the unfiltered records.
package summary

import (
	"sort"
	"strings"
	"unicode"

	"joblens/internal/model"
)

// DefaultTopCities is the number of cities shown by the city chart.
const DefaultTopCities = 10

// CityCount is one bar of the city chart.
type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

// TermCount is one word of the word cloud.
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

var stopwords = map[string]struct{}{
	"for": {}, "and": {}, "to": {}, "with": {}, "of": {},
	"in": {}, "the": {}, "a": {}, "on": {}, "as": {},
}

// TitleText joins every present title with a single space.
func TitleText(records []model.JobRecord) string {
	parts := make([]string, 0, len(records))
	for _, r := range records {
		if r.Title != nil {
			parts = append(parts, *r.Title)
		}
	}
	return strings.Join(parts, " ")
}

// CityCounts returns the n most frequent locations, highest count first.
// Equal counts keep first-seen order. Absent locations are skipped; n <= 0
// means DefaultTopCities.
func CityCounts(records []model.JobRecord, n int) []CityCount {
	if n <= 0 {
		n = DefaultTopCities
	}
	index := map[string]int{}
	out := []CityCount{}
	for _, r := range records {
		if r.Location == nil {
			continue
		}
		city := *r.Location
		if i, ok := index[city]; ok {
			out[i].Count++
			continue
		}
		index[city] = len(out)
		out = append(out, CityCount{City: city, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// TermCounts tokenises text into lowercase words, drops stopwords and returns
// the n most frequent terms. Ties are alphabetical; n <= 0 returns all terms.
func TermCounts(text string, n int) []TermCount {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	counts := map[string]int{}
	for _, w := range words {
		if _, stop := stopwords[w]; stop {
			continue
		}
		counts[w]++
	}

	out := make([]TermCount, 0, len(counts))
	for term, c := range counts {
		out = append(out, TermCount{Term: term, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Term < out[j].Term
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
