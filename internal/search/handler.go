package search

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"joblens/internal/export"
	"joblens/internal/i18n"
	"joblens/internal/model"
	"joblens/internal/scraper"
	"joblens/internal/session"
)

// SessionHeader carries the session id on requests and responses.
const SessionHeader = "x-session-id"

// ─── Response types ───────────────────────────────────────────────────────────

// SearchResponse is returned by POST /search.
type SearchResponse struct {
	SessionID string `json:"sessionId"`
	Keyword   string `json:"keyword"`
	Count     int    `json:"count"`
	Message   string `json:"message"`
}

// JobsResponse is returned by GET /jobs.
type JobsResponse struct {
	Message string            `json:"message"`
	Count   int               `json:"count"`
	Jobs    []model.JobRecord `json:"jobs"`
}

// ─── Handler ─────────────────────────────────────────────────────────────────

// Handler exposes a Service over HTTP.
//
// Routes:
//
//	POST /search            → fetch postings for a keyword into the session
//	GET  /jobs              → filtered, sorted records of the session
//	GET  /jobs/options      → selectable skills, job types and languages
//	GET  /jobs/export.csv   → filtered records as CSV
//	GET  /summary           → title text, term counts and top cities
//	DELETE /session         → drop the session's results
//
// The session is identified by the x-session-id header. POST /search issues a
// new id when the header is absent and echoes it back.
type Handler struct {
	svc           *Service
	defaultLimit  int
	defaultLocale i18n.Locale
}

// NewHandler returns a configured Handler. defaultLimit applies when a search
// body omits the limit.
func NewHandler(svc *Service, defaultLimit int, defaultLocale i18n.Locale) *Handler {
	return &Handler{svc: svc, defaultLimit: defaultLimit, defaultLocale: defaultLocale}
}

// RegisterRoutes mounts all search routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/search", h.handleSearch)
	mux.HandleFunc("/jobs", h.handleJobs)
	mux.HandleFunc("/jobs/options", h.handleOptions)
	mux.HandleFunc("/jobs/export.csv", h.handleExport)
	mux.HandleFunc("/summary", h.handleSummary)
	mux.HandleFunc("/session", h.handleForget)
}

// ─── Individual handlers ──────────────────────────────────────────────────────

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	loc := i18n.FromRequest(r, h.defaultLocale)

	var body struct {
		Keyword string `json:"keyword"`
		Limit   int    `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if body.Limit == 0 {
		body.Limit = h.defaultLimit
	}

	sessionID, err := requestSessionID(r)
	if err != nil {
		h.writeError(w, loc, err)
		return
	}
	if sessionID == "" {
		sessionID = session.NewID()
	}
	w.Header().Set(SessionHeader, sessionID)

	coll, err := h.svc.Search(r.Context(), sessionID, body.Keyword, body.Limit)
	if err != nil {
		h.writeError(w, loc, err)
		return
	}

	jsonOK(w, SearchResponse{
		SessionID: sessionID,
		Keyword:   coll.Keyword,
		Count:     len(coll.Records),
		Message:   i18n.Text(loc, i18n.KeyResultCount, len(coll.Records)),
	})
}

func (h *Handler) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	loc := i18n.FromRequest(r, h.defaultLocale)

	sessionID, err := requestSessionID(r)
	if err != nil {
		h.writeError(w, loc, err)
		return
	}
	criteria, err := ParseCriteria(r)
	if err != nil {
		h.writeError(w, loc, err)
		return
	}

	jobs, err := h.svc.Jobs(r.Context(), sessionID, criteria)
	if err != nil {
		h.writeError(w, loc, err)
		return
	}

	jsonOK(w, JobsResponse{
		Message: i18n.Text(loc, i18n.KeyResultCount, len(jobs)),
		Count:   len(jobs),
		Jobs:    jobs,
	})
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	loc := i18n.FromRequest(r, h.defaultLocale)
	sessionID, err := requestSessionID(r)
	if err != nil {
		h.writeError(w, loc, err)
		return
	}
	opts, err := h.svc.Options(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, loc, err)
		return
	}
	jsonOK(w, opts)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	loc := i18n.FromRequest(r, h.defaultLocale)

	sessionID, err := requestSessionID(r)
	if err != nil {
		h.writeError(w, loc, err)
		return
	}
	criteria, err := ParseCriteria(r)
	if err != nil {
		h.writeError(w, loc, err)
		return
	}
	jobs, err := h.svc.Jobs(r.Context(), sessionID, criteria)
	if err != nil {
		h.writeError(w, loc, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="jobs.csv"`)
	if err := export.WriteCSV(w, loc, jobs); err != nil {
		log.Printf("[search] CSV export error: %v", err)
	}
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	loc := i18n.FromRequest(r, h.defaultLocale)

	top := 0
	if s := r.URL.Query().Get("top"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			jsonError(w, "top must be a positive integer", http.StatusBadRequest)
			return
		}
		top = v
	}
	sessionID, err := requestSessionID(r)
	if err != nil {
		h.writeError(w, loc, err)
		return
	}

	sum, err := h.svc.Summary(r.Context(), sessionID, top)
	if err != nil {
		h.writeError(w, loc, err)
		return
	}
	jsonOK(w, sum)
}

func (h *Handler) handleForget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	loc := i18n.FromRequest(r, h.defaultLocale)
	sessionID, err := requestSessionID(r)
	if err != nil {
		h.writeError(w, loc, err)
		return
	}
	if sessionID == "" {
		jsonError(w, "missing x-session-id header", http.StatusBadRequest)
		return
	}
	if err := h.svc.Forget(r.Context(), sessionID); err != nil {
		h.writeError(w, loc, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Request parsing ─────────────────────────────────────────────────────────

// requestSessionID returns the x-session-id header, which is empty or an id
// issued by this service.
func requestSessionID(r *http.Request) (string, error) {
	id := r.Header.Get(SessionHeader)
	if id != "" && !session.ValidID(id) {
		return "", &ValidationError{Msg: "invalid x-session-id header"}
	}
	return id, nil
}

// ParseCriteria reads filter criteria from the query string. skill, jobType
// and language may repeat or hold comma-separated values.
func ParseCriteria(r *http.Request) (model.FilterCriteria, error) {
	q := r.URL.Query()
	var c model.FilterCriteria

	for _, s := range splitValues(q["skill"]) {
		c.Skills = append(c.Skills, strings.ToUpper(s))
	}
	for _, s := range splitValues(q["jobType"]) {
		jt, ok := model.ParseJobType(s)
		if !ok {
			return c, &ValidationError{Msg: "unknown jobType " + strconv.Quote(s)}
		}
		c.JobTypes = append(c.JobTypes, jt)
	}
	for _, s := range splitValues(q["language"]) {
		l, ok := model.ParseLanguage(s)
		if !ok {
			return c, &ValidationError{Msg: "unknown language " + strconv.Quote(s)}
		}
		c.Languages = append(c.Languages, l)
	}
	if s := q.Get("urgent"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return c, &ValidationError{Msg: "urgent must be a boolean"}
		}
		c.UrgentOnly = v
	}
	return c, nil
}

func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// writeError maps domain errors to HTTP status codes. Upstream failures carry
// the localized message shown to end users.
func (h *Handler) writeError(w http.ResponseWriter, loc i18n.Locale, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		jsonError(w, ve.Msg, http.StatusBadRequest)
	case errors.Is(err, scraper.ErrNoResults):
		jsonError(w, i18n.Text(loc, i18n.KeyNoResult), http.StatusNotFound)
	case errors.Is(err, scraper.ErrAPIFailure):
		jsonError(w, i18n.Text(loc, i18n.KeyAPIError), http.StatusBadGateway)
	case errors.Is(err, ErrNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	default:
		log.Printf("[search] internal error: %v", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
	}
}

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
