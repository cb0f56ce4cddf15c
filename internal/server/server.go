package server

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/mundrapranay/neighborsim/algorithms/common"
	apiv1 "github.com/mundrapranay/neighborsim/api/v1"
	"github.com/mundrapranay/neighborsim/internal/store"
)

var (
	// requestsTotal counts RPCs by method and status code
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "neighborsim_report_requests_total",
		Help: "Report service RPCs by method and status code",
	}, []string{"method", "code"})

	// requestDuration tracks RPC latency
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "neighborsim_report_request_duration_seconds",
		Help:    "Report service RPC duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
	}, []string{"method"})
)

// Server implements the ReportService gRPC server on top of the Raft store.
type Server struct {
	apiv1.UnimplementedReportServiceServer

	store *store.Store
	log   zerolog.Logger
}

// NewServer creates a new gRPC server instance.
func NewServer(s *store.Store, logger zerolog.Logger) *Server {
	return &Server{
		store: s,
		log:   logger.With().Str("component", "report-service").Logger(),
	}
}

// PublishReport stores a report. Only the leader accepts publishes.
func (s *Server) PublishReport(ctx context.Context, req *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	if !s.store.IsLeader() {
		return nil, status.Errorf(codes.FailedPrecondition, "not the leader (leader: %q)", s.store.Leader())
	}

	runID, err := s.store.PutReport(req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}

	s.log.Info().Str("run_id", runID).Int("bytes", len(req.GetValue())).Msg("report published")
	return wrapperspb.String(runID), nil
}

// GetReport returns a stored report from this node's local state.
func (s *Server) GetReport(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "run id is required")
	}
	data, err := s.store.GetReport(req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Bytes(data), nil
}

// ListReports returns every stored run id.
func (s *Server) ListReports(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	ids := s.store.ListReports()
	list := &structpb.ListValue{Values: make([]*structpb.Value, len(ids))}
	for i, id := range ids {
		list.Values[i] = structpb.NewStringValue(id)
	}
	return list, nil
}

// DeleteReport removes a report. Only the leader accepts deletes.
func (s *Server) DeleteReport(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "run id is required")
	}
	if !s.store.IsLeader() {
		return nil, status.Errorf(codes.FailedPrecondition, "not the leader (leader: %q)", s.store.Leader())
	}
	if err := s.store.DeleteReport(req.GetValue()); err != nil {
		return nil, toStatus(err)
	}
	s.log.Info().Str("run_id", req.GetValue()).Msg("report deleted")
	return &emptypb.Empty{}, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrMalformedInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, store.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, store.ErrNotLeader):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Errorf(codes.Internal, "store: %v", err)
	}
}

// UnaryMetricsInterceptor records request counts and latency per method.
func UnaryMetricsInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	requestDuration.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())
	requestsTotal.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
	return resp, err
}
