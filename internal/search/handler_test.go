package search_test

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"joblens/internal/i18n"
	"joblens/internal/search"
)

const (
	sessionA = "0b8f6c1e-2a4d-4c3b-9e7f-1a2b3c4d5e6f"
	sessionB = "7d1e2f3a-4b5c-4d6e-8f90-a1b2c3d4e5f6"
	sessionC = "c9a8b7d6-e5f4-4a3b-9c2d-1e0f9a8b7c6d"
)

func newMux(t *testing.T) *http.ServeMux {
	t.Helper()
	svc, _ := newService(newFixtureSource())
	mux := http.NewServeMux()
	search.NewHandler(svc, 20, i18n.English).RegisterRoutes(mux)
	return mux
}

func do(mux *http.ServeMux, method, target, sessionID, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	if sessionID != "" {
		r.Header.Set(search.SessionHeader, sessionID)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

// ── POST /search ───────────────────────────────────────────────────────────

func TestHandler_SearchIssuesSessionID(t *testing.T) {
	mux := newMux(t)
	w := do(mux, http.MethodPost, "/search", "", `{"keyword":"python"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp search.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, resp.SessionID, w.Header().Get(search.SessionHeader))
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, "Found 3 matching positions", resp.Message)
}

func TestHandler_SearchKeepsGivenSessionID(t *testing.T) {
	mux := newMux(t)
	w := do(mux, http.MethodPost, "/search", sessionB, `{"keyword":"java","limit":10}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, sessionB, w.Header().Get(search.SessionHeader))
}

func TestHandler_SearchErrors(t *testing.T) {
	mux := newMux(t)
	cases := []struct {
		name string
		body string
		lang string
		code int
		msg  string
	}{
		{"bad json", `{`, "", http.StatusBadRequest, "invalid JSON body"},
		{"empty keyword", `{"keyword":" "}`, "", http.StatusBadRequest, "keyword must not be empty"},
		{"limit out of range", `{"keyword":"python","limit":500}`, "", http.StatusBadRequest, "limit must be between 10 and 100"},
		{"no results", `{"keyword":"nothing"}`, "", http.StatusNotFound, "No relevant jobs found. Try another keyword."},
		{"api failure", `{"keyword":"down"}`, "", http.StatusBadGateway, "API request failed, please try again later."},
		{"api failure zh", `{"keyword":"down"}`, "?lang=zh", http.StatusBadGateway, "API 请求失败，请稍后再试。"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := do(mux, http.MethodPost, "/search"+c.lang, sessionA, c.body)
			assert.Equal(t, c.code, w.Code)
			assert.Equal(t, c.msg, errorBody(t, w))
		})
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	mux := newMux(t)
	assert.Equal(t, http.StatusMethodNotAllowed, do(mux, http.MethodGet, "/search", "", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(mux, http.MethodPost, "/jobs", "", "x").Code)
}

// ── GET /jobs ──────────────────────────────────────────────────────────────

func TestHandler_JobsBeforeSearchIsNotFound(t *testing.T) {
	mux := newMux(t)
	w := do(mux, http.MethodGet, "/jobs", sessionC, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_JobsFiltered(t *testing.T) {
	mux := newMux(t)
	require.Equal(t, http.StatusOK, do(mux, http.MethodPost, "/search", sessionA, `{"keyword":"python"}`).Code)

	w := do(mux, http.MethodGet, "/jobs?skill=sql&jobType=full_time,part_time", sessionA, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Message string `json:"message"`
		Count   int    `json:"count"`
		Jobs    []struct {
			Title   *string `json:"title"`
			Company *string `json:"company"`
		} `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "Found 2 matching positions", resp.Message)
	require.Len(t, resp.Jobs, 2)
	assert.Equal(t, "Data Engineer", *resp.Jobs[0].Title)
	assert.Nil(t, resp.Jobs[0].Company)
}

func TestHandler_JobsBadCriteria(t *testing.T) {
	mux := newMux(t)
	require.Equal(t, http.StatusOK, do(mux, http.MethodPost, "/search", sessionA, `{"keyword":"python"}`).Code)

	for _, q := range []string{"?jobType=contract", "?language=german", "?urgent=maybe"} {
		w := do(mux, http.MethodGet, "/jobs"+q, sessionA, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

// ── Options, export and summary ────────────────────────────────────────────

func TestHandler_Options(t *testing.T) {
	mux := newMux(t)
	require.Equal(t, http.StatusOK, do(mux, http.MethodPost, "/search", sessionA, `{"keyword":"python"}`).Code)

	w := do(mux, http.MethodGet, "/jobs/options", sessionA, "")
	require.Equal(t, http.StatusOK, w.Code)
	var opts struct {
		Skills    []string `json:"skills"`
		Languages []string `json:"languages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opts))
	assert.Contains(t, opts.Skills, "SQL")
	assert.Equal(t, []string{"english", "swedish"}, opts.Languages)
}

func TestHandler_ExportCSV(t *testing.T) {
	mux := newMux(t)
	require.Equal(t, http.StatusOK, do(mux, http.MethodPost, "/search", sessionA, `{"keyword":"python"}`).Code)

	w := do(mux, http.MethodGet, "/jobs/export.csv?lang=zh", sessionA, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))

	rows, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "职位", rows[0][0])
}

func TestHandler_Summary(t *testing.T) {
	mux := newMux(t)
	require.Equal(t, http.StatusOK, do(mux, http.MethodPost, "/search", sessionA, `{"keyword":"python"}`).Code)

	w := do(mux, http.MethodGet, "/summary?top=1", sessionA, "")
	require.Equal(t, http.StatusOK, w.Code)
	var sum search.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sum))
	require.Len(t, sum.Cities, 1)
	assert.Equal(t, "Stockholm", sum.Cities[0].City)

	assert.Equal(t, http.StatusBadRequest, do(mux, http.MethodGet, "/summary?top=zero", sessionA, "").Code)
}

func TestHandler_ForgetSession(t *testing.T) {
	mux := newMux(t)
	require.Equal(t, http.StatusOK, do(mux, http.MethodPost, "/search", sessionA, `{"keyword":"python"}`).Code)

	assert.Equal(t, http.StatusNoContent, do(mux, http.MethodDelete, "/session", sessionA, "").Code)
	assert.Equal(t, http.StatusNotFound, do(mux, http.MethodGet, "/jobs", sessionA, "").Code)
	assert.Equal(t, http.StatusBadRequest, do(mux, http.MethodDelete, "/session", "", "").Code)
}

func TestHandler_RejectsMalformedSessionID(t *testing.T) {
	mux := newMux(t)

	w := do(mux, http.MethodPost, "/search", "not-a-session", `{"keyword":"python"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid x-session-id header", errorBody(t, w))
	assert.Empty(t, w.Header().Get(search.SessionHeader))

	for _, target := range []string{"/jobs", "/jobs/options", "/jobs/export.csv", "/summary"} {
		w := do(mux, http.MethodGet, target, "not-a-session", "")
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
	assert.Equal(t, http.StatusBadRequest, do(mux, http.MethodDelete, "/session", "not-a-session", "").Code)
}
