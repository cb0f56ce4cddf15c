package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/mundrapranay/neighborsim/algorithms/common"
	apiv1 "github.com/mundrapranay/neighborsim/api/v1"
	"github.com/mundrapranay/neighborsim/internal/server"
	"github.com/mundrapranay/neighborsim/internal/store"
	"github.com/mundrapranay/neighborsim/internal/telemetry"
)

var (
	nodeID      string
	listenAddr  string
	grpcAddr    string
	dataDir     string
	metricsAddr string
	bootstrap   bool
	peers       []string
	logging     common.LoggingConfig
)

var rootCmd = &cobra.Command{
	Use:           "report-server",
	Short:         "Raft-replicated store for similarity reports",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&nodeID, "node-id", "", "Unique ID for this node (required)")
	f.StringVar(&listenAddr, "listen-addr", "127.0.0.1:8080", "Address to listen for Raft communication")
	f.StringVar(&grpcAddr, "grpc-addr", "127.0.0.1:9090", "Address to listen for the gRPC API")
	f.StringVar(&dataDir, "data-dir", "./data", "Directory to store Raft logs and snapshots")
	f.BoolVar(&bootstrap, "bootstrap", false, "Bootstrap a new cluster (first node)")
	f.StringArrayVar(&peers, "peer", nil, "Voter to add once leader, as id=raft-addr (repeatable)")
	f.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	f.StringVar(&logging.Level, "log-level", "info", "Log level: trace, debug, info, warn, error")
	f.BoolVar(&logging.JSON, "json", false, "Log JSON lines instead of console output")
	_ = rootCmd.MarkFlagRequired("node-id")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parsePeer splits an id=addr flag value.
func parsePeer(s string) (id, addr string, err error) {
	id, addr, ok := strings.Cut(s, "=")
	if !ok || id == "" || addr == "" {
		return "", "", fmt.Errorf("%w: peer %q must be id=addr", common.ErrInvalidConfig, s)
	}
	return id, addr, nil
}

func run(cmd *cobra.Command, args []string) error {
	logger := common.NewLogger(logging, "report-server", os.Stderr).With().Str("node_id", nodeID).Logger()

	type peer struct{ id, addr string }
	var joins []peer
	for _, p := range peers {
		id, addr, err := parsePeer(p)
		if err != nil {
			return err
		}
		joins = append(joins, peer{id, addr})
	}

	s, err := store.NewStore(store.Config{
		NodeID:           nodeID,
		ListenAddr:       listenAddr,
		DataDir:          dataDir,
		Bootstrap:        bootstrap,
		HeartbeatTimeout: 1000 * time.Millisecond,
		ElectionTimeout:  1000 * time.Millisecond,
		CommitTimeout:    50 * time.Millisecond,
		Logger:           logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer s.Shutdown()

	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	grpcSrv := grpc.NewServer(grpc.UnaryInterceptor(server.UnaryMetricsInterceptor))
	apiv1.RegisterReportServiceServer(grpcSrv, server.NewServer(s, logger))

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", grpcAddr).Msg("starting gRPC server")
		serveErr <- grpcSrv.Serve(lis)
	}()

	var (
		metricsSrv  *telemetry.Server
		metricsErrc <-chan error
	)
	if metricsAddr != "" {
		if metricsSrv, err = telemetry.Serve(metricsAddr, logger); err != nil {
			return err
		}
		metricsErrc = metricsSrv.Err()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if bootstrap {
		logger.Info().Msg("bootstrapping cluster")
		if err := s.WaitForLeader(ctx); err != nil {
			return err
		}
		logger.Info().Str("leader", s.Leader()).Msg("leader elected")

		for _, p := range joins {
			if err := s.AddPeer(p.id, p.addr); err != nil {
				return err
			}
		}
	} else if len(joins) > 0 {
		logger.Warn().Msg("--peer is only honored together with --bootstrap")
	}

	logger.Info().Str("raft", s.Addr()).Str("grpc", grpcAddr).Msg("node ready")

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
	case err, ok := <-metricsErrc:
		if ok {
			return fmt.Errorf("metrics endpoint stopped: %w", err)
		}
	}

	logger.Info().Msg("shutting down")
	grpcSrv.GracefulStop()
	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	return nil
}
