package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/mundrapranay/neighborsim/algorithms/common"
	apiv1 "github.com/mundrapranay/neighborsim/api/v1"
)

// Client publishes and fetches similarity reports on a report server.
type Client struct {
	conn    *grpc.ClientConn
	service apiv1.ReportServiceClient
}

// NewClient creates a new client connection to a report server. The
// connection is established lazily on the first call.
func NewClient(serverAddr string) (*Client, error) {
	conn, err := grpc.NewClient(serverAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	return &Client{
		conn:    conn,
		service: apiv1.NewReportServiceClient(conn),
	}, nil
}

// Close closes the client connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// PublishReport stores result on the server and returns its run id.
func (c *Client) PublishReport(ctx context.Context, result *common.AlgorithmResult) (string, error) {
	data, err := common.MarshalReport(result)
	if err != nil {
		return "", err
	}

	resp, err := c.service.PublishReport(ctx, wrapperspb.Bytes(data))
	if err != nil {
		return "", fmt.Errorf("failed to publish report: %w", err)
	}
	return resp.GetValue(), nil
}

// GetReport fetches and decodes the report for runID.
func (c *Client) GetReport(ctx context.Context, runID string) (*common.AlgorithmResult, error) {
	resp, err := c.service.GetReport(ctx, wrapperspb.String(runID))
	if err != nil {
		return nil, fmt.Errorf("failed to get report %s: %w", runID, err)
	}
	return common.UnmarshalReport(resp.GetValue())
}

// ListReports returns the run ids stored on the server.
func (c *Client) ListReports(ctx context.Context) ([]string, error) {
	resp, err := c.service.ListReports(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	ids := make([]string, 0, len(resp.GetValues()))
	for _, v := range resp.GetValues() {
		ids = append(ids, v.GetStringValue())
	}
	return ids, nil
}

// DeleteReport removes the report for runID.
func (c *Client) DeleteReport(ctx context.Context, runID string) error {
	if _, err := c.service.DeleteReport(ctx, wrapperspb.String(runID)); err != nil {
		return fmt.Errorf("failed to delete report %s: %w", runID, err)
	}
	return nil
}
