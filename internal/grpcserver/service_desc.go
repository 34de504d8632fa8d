package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Full method names of the joblens.v1.JobLens service.
const (
	ServiceName      = "joblens.v1.JobLens"
	SearchMethod     = "/joblens.v1.JobLens/Search"
	ListJobsMethod   = "/joblens.v1.JobLens/ListJobs"
	SummaryMethod    = "/joblens.v1.JobLens/Summary"
	JobOptionsMethod = "/joblens.v1.JobLens/JobOptions"
)

// JobLensServer is the server API of joblens.v1.JobLens. Every message is a
// google.protobuf.Struct.
type JobLensServer interface {
	Search(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListJobs(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Summary(context.Context, *structpb.Struct) (*structpb.Struct, error)
	JobOptions(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// Register attaches srv to s.
func Register(s grpc.ServiceRegistrar, srv JobLensServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type unaryMethod func(JobLensServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(JobLensServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(JobLensServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes joblens.v1.JobLens for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*JobLensServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Search", Handler: unaryHandler(SearchMethod, JobLensServer.Search)},
		{MethodName: "ListJobs", Handler: unaryHandler(ListJobsMethod, JobLensServer.ListJobs)},
		{MethodName: "Summary", Handler: unaryHandler(SummaryMethod, JobLensServer.Summary)},
		{MethodName: "JobOptions", Handler: unaryHandler(JobOptionsMethod, JobLensServer.JobOptions)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "joblens/v1/joblens.proto",
}
