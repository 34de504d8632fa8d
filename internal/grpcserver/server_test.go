package grpcserver_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"joblens/internal/grpcserver"
	"joblens/internal/i18n"
	"joblens/internal/model"
	"joblens/internal/scraper"
	"joblens/internal/search"
	"joblens/internal/session"
)

const (
	sessionA = "0b8f6c1e-2a4d-4c3b-9e7f-1a2b3c4d5e6f"
	sessionB = "7d1e2f3a-4b5c-4d6e-8f90-a1b2c3d4e5f6"
)

type stubSource struct{}

func (stubSource) Search(_ context.Context, keyword string, _ int) ([]model.RawJobHit, error) {
	switch keyword {
	case "python":
		return []model.RawJobHit{
			{
				"headline":          "Python Developer",
				"workplace_address": map[string]any{"municipality": "Stockholm"},
				"publication_date":  "2024-03-01",
				"description":       map[string]any{"text": "python, heltid"},
			},
			{
				"headline":    "SQL Analyst",
				"description": map[string]any{"text": "sql, deltid"},
			},
		}, nil
	case "down":
		return nil, context.DeadlineExceeded
	}
	return nil, nil
}

func dial(t *testing.T) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)

	svc := search.NewService(scraper.NewPipeline(stubSource{}), session.NewMemoryStore(time.Hour))
	srv := grpc.NewServer()
	grpcserver.Register(srv, grpcserver.NewServer(svc, 20, i18n.English))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func withSession(id string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), grpcserver.SessionKey, id)
}

func TestGRPC_SearchThenListJobs(t *testing.T) {
	conn := dial(t)

	var header metadata.MD
	out := new(structpb.Struct)
	err := conn.Invoke(context.Background(), grpcserver.SearchMethod,
		mustStruct(t, map[string]any{"keyword": "python"}), out, grpc.Header(&header))
	require.NoError(t, err)

	sessionID := out.GetFields()["sessionId"].GetStringValue()
	require.NotEmpty(t, sessionID)
	assert.Equal(t, []string{sessionID}, header.Get(grpcserver.SessionKey))
	assert.EqualValues(t, 2, out.GetFields()["count"].GetNumberValue())

	jobs := new(structpb.Struct)
	err = conn.Invoke(withSession(sessionID), grpcserver.ListJobsMethod,
		mustStruct(t, map[string]any{"jobTypes": []any{"part_time"}, "lang": "zh"}), jobs)
	require.NoError(t, err)
	assert.EqualValues(t, 1, jobs.GetFields()["count"].GetNumberValue())
	assert.Equal(t, "共找到 1 个符合条件的岗位", jobs.GetFields()["message"].GetStringValue())

	list := jobs.GetFields()["jobs"].GetListValue().GetValues()
	require.Len(t, list, 1)
	job := list[0].GetStructValue().GetFields()
	assert.Equal(t, "SQL Analyst", job["title"].GetStringValue())
	assert.IsType(t, &structpb.Value_NullValue{}, job["company"].GetKind())
}

func TestGRPC_SummaryAndOptions(t *testing.T) {
	conn := dial(t)
	ctx := withSession(sessionA)

	require.NoError(t, conn.Invoke(ctx, grpcserver.SearchMethod,
		mustStruct(t, map[string]any{"keyword": "python", "limit": 10}), new(structpb.Struct)))

	sum := new(structpb.Struct)
	require.NoError(t, conn.Invoke(ctx, grpcserver.SummaryMethod, mustStruct(t, map[string]any{"top": 5}), sum))
	assert.Equal(t, "Python Developer SQL Analyst", sum.GetFields()["titleText"].GetStringValue())
	cities := sum.GetFields()["cities"].GetListValue().GetValues()
	require.Len(t, cities, 1)

	opts := new(structpb.Struct)
	require.NoError(t, conn.Invoke(ctx, grpcserver.JobOptionsMethod, &structpb.Struct{}, opts))
	skills := opts.GetFields()["skills"].GetListValue().GetValues()
	require.Len(t, skills, 2)
	assert.Equal(t, "PYTHON", skills[0].GetStringValue())
}

func TestGRPC_ErrorCodes(t *testing.T) {
	conn := dial(t)

	cases := []struct {
		name   string
		ctx    context.Context
		method string
		req    map[string]any
		code   codes.Code
	}{
		{"validation", withSession(sessionA), grpcserver.SearchMethod, map[string]any{"keyword": ""}, codes.InvalidArgument},
		{"no results", withSession(sessionA), grpcserver.SearchMethod, map[string]any{"keyword": "nothing"}, codes.NotFound},
		{"api failure", withSession(sessionA), grpcserver.SearchMethod, map[string]any{"keyword": "down"}, codes.Unavailable},
		{"no session data", withSession(sessionB), grpcserver.ListJobsMethod, map[string]any{}, codes.NotFound},
		{"missing session", context.Background(), grpcserver.SummaryMethod, map[string]any{}, codes.InvalidArgument},
		{"malformed session on search", withSession("s1"), grpcserver.SearchMethod, map[string]any{"keyword": "python"}, codes.InvalidArgument},
		{"malformed session", withSession("s1"), grpcserver.ListJobsMethod, map[string]any{}, codes.InvalidArgument},
		{"bad criteria", withSession(sessionA), grpcserver.ListJobsMethod, map[string]any{"languages": []any{"german"}}, codes.InvalidArgument},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := conn.Invoke(c.ctx, c.method, mustStruct(t, c.req), new(structpb.Struct))
			assert.Equal(t, c.code, status.Code(err), "err = %v", err)
		})
	}
}
