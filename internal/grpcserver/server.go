// Package grpcserver implements the JobLens gRPC server.
//
// It delegates all business logic to search.Service and handles
// only the gRPC transport concerns: metadata extraction, error mapping,
// and conversion between domain values and google.protobuf.Struct messages.
package grpcserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"joblens/internal/i18n"
	"joblens/internal/model"
	"joblens/internal/scraper"
	"joblens/internal/search"
	"joblens/internal/session"
)

// SessionKey is the metadata key carrying the session id.
const SessionKey = "x-session-id"

// Server implements JobLensServer.
type Server struct {
	svc           *search.Service
	defaultLimit  int
	defaultLocale i18n.Locale
}

// NewServer constructs a gRPC Server backed by the given search.Service.
func NewServer(svc *search.Service, defaultLimit int, defaultLocale i18n.Locale) *Server {
	return &Server{svc: svc, defaultLimit: defaultLimit, defaultLocale: defaultLocale}
}

// ─── RPC implementations ──────────────────────────────────────────────────────

// Search fetches postings into the caller's session. Request fields: keyword,
// limit, lang. A missing session id is generated and returned both in the
// response and as x-session-id header metadata.
func (s *Server) Search(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	loc := s.locale(req)

	sessionID := incomingSessionID(ctx)
	if sessionID == "" {
		sessionID = session.NewID()
	} else if !session.ValidID(sessionID) {
		return nil, status.Error(codes.InvalidArgument, "invalid x-session-id metadata")
	}
	if err := grpc.SetHeader(ctx, metadata.Pairs(SessionKey, sessionID)); err != nil {
		log.Printf("[grpc] SetHeader failed: %v", err)
	}

	limit := int(numberField(req, "limit"))
	if limit == 0 {
		limit = s.defaultLimit
	}

	coll, err := s.svc.Search(ctx, sessionID, stringField(req, "keyword"), limit)
	if err != nil {
		return nil, toGRPCError(err, loc)
	}

	return toStruct(search.SearchResponse{
		SessionID: sessionID,
		Keyword:   coll.Keyword,
		Count:     len(coll.Records),
		Message:   i18n.Text(loc, i18n.KeyResultCount, len(coll.Records)),
	})
}

// ListJobs returns the filtered records of the caller's session. Request
// fields: skills, jobTypes, languages (string lists), urgentOnly, lang.
func (s *Server) ListJobs(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	loc := s.locale(req)
	sessionID, err := sessionIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	criteria, err := criteriaFromStruct(req)
	if err != nil {
		return nil, toGRPCError(err, loc)
	}

	jobs, err := s.svc.Jobs(ctx, sessionID, criteria)
	if err != nil {
		return nil, toGRPCError(err, loc)
	}

	return toStruct(search.JobsResponse{
		Message: i18n.Text(loc, i18n.KeyResultCount, len(jobs)),
		Count:   len(jobs),
		Jobs:    jobs,
	})
}

// Summary returns the title text, term counts and top cities of the caller's
// session. Request field: top.
func (s *Server) Summary(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sessionID, err := sessionIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	sum, err := s.svc.Summary(ctx, sessionID, int(numberField(req, "top")))
	if err != nil {
		return nil, toGRPCError(err, s.locale(req))
	}
	return toStruct(sum)
}

// JobOptions lists the selectable filter values of the caller's session.
func (s *Server) JobOptions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sessionID, err := sessionIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	opts, err := s.svc.Options(ctx, sessionID)
	if err != nil {
		return nil, toGRPCError(err, s.locale(req))
	}
	return toStruct(opts)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// incomingSessionID returns the first x-session-id metadata value, or "".
func incomingSessionID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if vals := md.Get(SessionKey); len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// sessionIDFromCtx extracts and checks the x-session-id value from incoming
// metadata.
func sessionIDFromCtx(ctx context.Context) (string, error) {
	id := incomingSessionID(ctx)
	if id == "" {
		return "", status.Error(codes.InvalidArgument, "missing x-session-id metadata")
	}
	if !session.ValidID(id) {
		return "", status.Error(codes.InvalidArgument, "invalid x-session-id metadata")
	}
	return id, nil
}

// toGRPCError maps domain errors to gRPC status errors. Upstream failures
// carry the localized end-user message.
func toGRPCError(err error, loc i18n.Locale) error {
	var ve *search.ValidationError
	switch {
	case errors.As(err, &ve):
		return status.Error(codes.InvalidArgument, ve.Msg)
	case errors.Is(err, scraper.ErrNoResults):
		return status.Error(codes.NotFound, i18n.Text(loc, i18n.KeyNoResult))
	case errors.Is(err, scraper.ErrAPIFailure):
		return status.Error(codes.Unavailable, i18n.Text(loc, i18n.KeyAPIError))
	case errors.Is(err, search.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	}
	log.Printf("[grpc] internal error: %v", err)
	return status.Error(codes.Internal, "internal server error")
}

func (s *Server) locale(req *structpb.Struct) i18n.Locale {
	if loc, ok := i18n.ParseLocale(stringField(req, "lang")); ok {
		return loc
	}
	return s.defaultLocale
}

func criteriaFromStruct(req *structpb.Struct) (model.FilterCriteria, error) {
	c := model.FilterCriteria{UrgentOnly: req.GetFields()["urgentOnly"].GetBoolValue()}
	for _, s := range stringList(req, "skills") {
		c.Skills = append(c.Skills, strings.ToUpper(s))
	}
	for _, s := range stringList(req, "jobTypes") {
		jt, ok := model.ParseJobType(s)
		if !ok {
			return c, &search.ValidationError{Msg: fmt.Sprintf("unknown jobType %q", s)}
		}
		c.JobTypes = append(c.JobTypes, jt)
	}
	for _, s := range stringList(req, "languages") {
		l, ok := model.ParseLanguage(s)
		if !ok {
			return c, &search.ValidationError{Msg: fmt.Sprintf("unknown language %q", s)}
		}
		c.Languages = append(c.Languages, l)
	}
	return c, nil
}

func stringField(req *structpb.Struct, key string) string {
	return req.GetFields()[key].GetStringValue()
}

func numberField(req *structpb.Struct, key string) float64 {
	return req.GetFields()[key].GetNumberValue()
}

func stringList(req *structpb.Struct, key string) []string {
	var out []string
	for _, v := range req.GetFields()[key].GetListValue().GetValues() {
		if s := v.GetStringValue(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// toStruct converts a JSON-tagged value into a Struct through its JSON form,
// so the wire shape matches the HTTP responses.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}
