// Package scraper implements job posting fetching, tagging and normalisation.
package scraper

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

	"joblens/internal/model"
)

const (
	DefaultJobTechURL   = "https://jobsearch.api.jobtechdev.se"
	DefaultFetchTimeout = 5 * time.Second
	defaultUserAgent    = "joblens/1.0"
)

var (
	// ErrAPIFailure covers non-2xx responses, network failures, timeouts and
	// undecodable bodies.
	ErrAPIFailure = errors.New("job search api request failed")
	// ErrNoResults is returned when the api answered successfully with no hits.
	ErrNoResults = errors.New("job search returned no results")
)

// FetchError is the typed failure of a fetch. Kind is ErrAPIFailure or
// ErrNoResults; errors.Is matches both the kind and the underlying cause.
type FetchError struct {
	Kind       error
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("%v: status %d: %v", e.Kind, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%v: status %d", e.Kind, e.StatusCode)
	}
	return e.Kind.Error()
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func apiFailure(status int, err error) *FetchError {
	return &FetchError{Kind: ErrAPIFailure, StatusCode: status, Err: err}
}

// HitSource is the upstream search collaborator.
type HitSource interface {
	Search(ctx context.Context, keyword string, limit int) ([]model.RawJobHit, error)
}

// JobTechFetcher queries the JobTech public job search API.
type JobTechFetcher struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// FetcherOption customises a JobTechFetcher.
type FetcherOption func(*JobTechFetcher)

// WithBaseURL overrides the api base URL. Blank values are ignored.
func WithBaseURL(baseURL string) FetcherOption {
	return func(f *JobTechFetcher) {
		if strings.TrimSpace(baseURL) != "" {
			f.baseURL = baseURL
		}
	}
}

// WithHTTPClient replaces the HTTP client, including its timeout.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *JobTechFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithTimeout sets the per-request timeout on the fetcher's client.
func WithTimeout(timeout time.Duration) FetcherOption {
	return func(f *JobTechFetcher) {
		if timeout > 0 {
			f.client = &http.Client{Timeout: timeout}
		}
	}
}

// NewJobTechFetcher constructs a fetcher with its own HTTP client.
func NewJobTechFetcher(opts ...FetcherOption) *JobTechFetcher {
	f := &JobTechFetcher{
		baseURL:   DefaultJobTechURL,
		userAgent: defaultUserAgent,
		client:    &http.Client{Timeout: DefaultFetchTimeout},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// searchResponse mirrors the top-level JobTech JSON response. Hits stay raw
// so each one is decoded on its own.
type searchResponse struct {
	Hits []json.RawMessage `json:"hits"`
}

// Search issues a single request for keyword and returns the raw hits. An
// empty hit list is not an error at this level.
func (f *JobTechFetcher) Search(ctx context.Context, keyword string, limit int) ([]model.RawJobHit, error) {
	params := url.Values{}
	params.Set("q", keyword)
	params.Set("limit", strconv.Itoa(limit))

	endpoint := strings.TrimRight(f.baseURL, "/") + "/search"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, apiFailure(0, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apiFailure(0, fmt.Errorf("http GET: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apiFailure(resp.StatusCode, fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiFailure(resp.StatusCode, nil)
	}

	var apiResp searchResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, apiFailure(resp.StatusCode, fmt.Errorf("json unmarshal: %w", err))
	}

	hits := make([]model.RawJobHit, 0, len(apiResp.Hits))
	for _, raw := range apiResp.Hits {
		var hit model.RawJobHit
		if err := json.Unmarshal(raw, &hit); err != nil {
			// Not an object (null, string, array): keep it so the record
			// still appears, with every field absent.
			hit = nil
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
