package scraper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"joblens/internal/model"
)

const (
	MinLimit = 10
	MaxLimit = 100
)

// Pipeline runs one fetch-and-enrich cycle: query the upstream source, build
// a tagged record for every hit, and return them as a collection in API order.
type Pipeline struct {
	source HitSource
	now    func() time.Time
}

// NewPipeline constructs a Pipeline over source.
func NewPipeline(source HitSource) *Pipeline {
	return &Pipeline{source: source, now: time.Now}
}

// WithClock returns a copy of the pipeline using now as its clock.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	cp := *p
	cp.now = now
	return &cp
}

// ClampLimit forces limit into [MinLimit, MaxLimit].
func ClampLimit(limit int) int {
	switch {
	case limit < MinLimit:
		return MinLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

// Fetch queries the source for keyword and builds the resulting collection.
// A source failure is reported as a *FetchError of kind ErrAPIFailure; a
// successful response without hits as kind ErrNoResults.
func (p *Pipeline) Fetch(ctx context.Context, keyword string, limit int) (model.JobCollection, error) {
	limit = ClampLimit(limit)
	log.Printf("[pipeline] Fetching keyword=%q limit=%d", keyword, limit)

	hits, err := p.source.Search(ctx, keyword, limit)
	if err != nil {
		log.Printf("[pipeline] Fetch failed for %q: %v", keyword, err)
		var fe *FetchError
		if errors.As(err, &fe) {
			return model.JobCollection{}, fe
		}
		return model.JobCollection{}, apiFailure(0, fmt.Errorf("search: %w", err))
	}
	if len(hits) == 0 {
		log.Printf("[pipeline] No results for %q", keyword)
		return model.JobCollection{}, &FetchError{Kind: ErrNoResults}
	}

	now := p.now()
	records := make([]model.JobRecord, 0, len(hits))
	for _, hit := range hits {
		records = append(records, BuildRecord(hit, now))
	}

	log.Printf("[pipeline] Keyword %q done: records=%d", keyword, len(records))
	return model.JobCollection{
		Keyword:   keyword,
		Limit:     limit,
		FetchedAt: now,
		Records:   records,
	}, nil
}
