// Package apiv1 defines the ReportService gRPC API. Messages are protobuf
// well-known types, so no generated code is needed: a report travels as
// its JSON encoding in a BytesValue and run ids as StringValues.
package apiv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "neighborsim.v1.ReportService"

const (
	PublishReportFullMethodName = "/" + ServiceName + "/PublishReport"
	GetReportFullMethodName     = "/" + ServiceName + "/GetReport"
	ListReportsFullMethodName   = "/" + ServiceName + "/ListReports"
	DeleteReportFullMethodName  = "/" + ServiceName + "/DeleteReport"
)

// ReportServiceServer is the server API for ReportService.
type ReportServiceServer interface {
	// PublishReport stores an encoded report and returns its run id.
	PublishReport(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error)
	// GetReport returns the encoded report for a run id.
	GetReport(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error)
	// ListReports returns all stored run ids as a list of strings.
	ListReports(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	// DeleteReport removes a report.
	DeleteReport(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
}

// UnimplementedReportServiceServer can be embedded to have forward
// compatible implementations.
type UnimplementedReportServiceServer struct{}

func (UnimplementedReportServiceServer) PublishReport(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PublishReport not implemented")
}

func (UnimplementedReportServiceServer) GetReport(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetReport not implemented")
}

func (UnimplementedReportServiceServer) ListReports(context.Context, *emptypb.Empty) (*structpb.ListValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListReports not implemented")
}

func (UnimplementedReportServiceServer) DeleteReport(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DeleteReport not implemented")
}

// RegisterReportServiceServer registers srv on s.
func RegisterReportServiceServer(s grpc.ServiceRegistrar, srv ReportServiceServer) {
	s.RegisterService(&ReportServiceDesc, srv)
}

// unaryHandler adapts one typed server method to grpc.MethodDesc.
func unaryHandler[Req, Resp any](fullMethod string, call func(ReportServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ReportServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(ReportServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ReportServiceDesc is the grpc.ServiceDesc for ReportService.
var ReportServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ReportServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "PublishReport",
			Handler:    unaryHandler(PublishReportFullMethodName, ReportServiceServer.PublishReport),
		},
		{
			MethodName: "GetReport",
			Handler:    unaryHandler(GetReportFullMethodName, ReportServiceServer.GetReport),
		},
		{
			MethodName: "ListReports",
			Handler:    unaryHandler(ListReportsFullMethodName, ReportServiceServer.ListReports),
		},
		{
			MethodName: "DeleteReport",
			Handler:    unaryHandler(DeleteReportFullMethodName, ReportServiceServer.DeleteReport),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "neighborsim/v1/report_service",
}

// ReportServiceClient is the client API for ReportService.
type ReportServiceClient interface {
	PublishReport(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	GetReport(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	ListReports(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
	DeleteReport(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type reportServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewReportServiceClient returns a client bound to cc.
func NewReportServiceClient(cc grpc.ClientConnInterface) ReportServiceClient {
	return &reportServiceClient{cc}
}

func (c *reportServiceClient) PublishReport(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, PublishReportFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *reportServiceClient) GetReport(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, GetReportFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *reportServiceClient) ListReports(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, ListReportsFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *reportServiceClient) DeleteReport(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, DeleteReportFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
