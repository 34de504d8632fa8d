// Package search contains the session controller of the JobLens service.
// Service is transport-agnostic: the HTTP handler and the gRPC server share it.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"joblens/internal/filter"
	"joblens/internal/model"
	"joblens/internal/scraper"
	"joblens/internal/session"
	"joblens/internal/summary"
)

// ─── Service ─────────────────────────────────────────────────────────────────

// Fetcher runs one fetch-and-enrich cycle. *scraper.Pipeline implements it.
type Fetcher interface {
	Fetch(ctx context.Context, keyword string, limit int) (model.JobCollection, error)
}

// Service owns the per-session job collections.
type Service struct {
	fetcher Fetcher
	store   session.Store
	locks   *keyedMutex
}

// NewService returns a configured Service.
func NewService(fetcher Fetcher, store session.Store) *Service {
	return &Service{fetcher: fetcher, store: store, locks: newKeyedMutex()}
}

// Summary is the input of the word cloud and city chart, computed over the
// unfiltered collection.
type Summary struct {
	Keyword   string              `json:"keyword"`
	Total     int                 `json:"total"`
	TitleText string              `json:"titleText"`
	Terms     []summary.TermCount `json:"terms"`
	Cities    []summary.CityCount `json:"cities"`
}

// ─── Business logic ───────────────────────────────────────────────────────────

// Search fetches postings for keyword and makes them the session's collection.
// When the fetch fails the previous collection of the session is kept.
// Concurrent searches on the same session run one at a time.
func (s *Service) Search(ctx context.Context, sessionID, keyword string, limit int) (model.JobCollection, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return model.JobCollection{}, &ValidationError{Msg: "keyword must not be empty"}
	}
	if limit < scraper.MinLimit || limit > scraper.MaxLimit {
		return model.JobCollection{}, &ValidationError{
			Msg: fmt.Sprintf("limit must be between %d and %d", scraper.MinLimit, scraper.MaxLimit),
		}
	}
	if sessionID == "" {
		return model.JobCollection{}, &ValidationError{Msg: "session id must not be empty"}
	}

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	coll, err := s.fetcher.Fetch(ctx, keyword, limit)
	if err != nil {
		slog.Warn("fetch failed, keeping previous results", "session", sessionID, "keyword", keyword, "err", err)
		return model.JobCollection{}, err
	}

	if err := s.store.Put(ctx, sessionID, coll); err != nil {
		return model.JobCollection{}, fmt.Errorf("store session: %w", err)
	}
	return coll, nil
}

// Jobs returns the session's records that match c.
func (s *Service) Jobs(ctx context.Context, sessionID string, c model.FilterCriteria) ([]model.JobRecord, error) {
	coll, err := s.collection(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return filter.Apply(coll.Records, c), nil
}

// Options lists the filter values available in the session's collection.
func (s *Service) Options(ctx context.Context, sessionID string) (filter.Options, error) {
	coll, err := s.collection(ctx, sessionID)
	if err != nil {
		return filter.Options{}, err
	}
	return filter.BuildOptions(coll.Records), nil
}

// Summary aggregates the whole collection, ignoring any filter. topCities <= 0
// selects summary.DefaultTopCities.
func (s *Service) Summary(ctx context.Context, sessionID string, topCities int) (Summary, error) {
	coll, err := s.collection(ctx, sessionID)
	if err != nil {
		return Summary{}, err
	}
	text := summary.TitleText(coll.Records)
	return Summary{
		Keyword:   coll.Keyword,
		Total:     len(coll.Records),
		TitleText: text,
		Terms:     summary.TermCounts(text, 0),
		Cities:    summary.CityCounts(coll.Records, topCities),
	}, nil
}

// Forget drops the session's collection.
func (s *Service) Forget(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Service) collection(ctx context.Context, sessionID string) (model.JobCollection, error) {
	if sessionID == "" {
		return model.JobCollection{}, ErrNotFound
	}
	coll, err := s.store.Get(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return model.JobCollection{}, ErrNotFound
	}
	if err != nil {
		return model.JobCollection{}, fmt.Errorf("load session: %w", err)
	}
	return coll, nil
}

// ─── Per-session locking ─────────────────────────────────────────────────────

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: map[string]*refMutex{}}
}

// Lock acquires the mutex for key and returns its release function. Entries
// are removed once no caller holds or waits for them.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// ─── Sentinel errors ─────────────────────────────────────────────────────────

// ErrNotFound is returned when the session has no search results yet.
var ErrNotFound = fmt.Errorf("no search results for session: %w", session.ErrNotFound)

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }
