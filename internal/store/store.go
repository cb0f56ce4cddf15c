package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/raft"
	raftboltdb "github.com/hashicorp/raft-boltdb/v2"
	"github.com/rs/zerolog"

	"github.com/mundrapranay/neighborsim/algorithms/common"
)

var (
	// ErrNotLeader is returned for writes on a follower.
	ErrNotLeader = errors.New("not the leader")

	// ErrNotFound is returned for an unknown run id.
	ErrNotFound = errors.New("report not found")
)

const applyTimeout = 10 * time.Second

// Store replicates similarity reports across a Raft cluster.
type Store struct {
	raft      *raft.Raft
	fsm       *FSM
	transport *raft.NetworkTransport
	logStore  *raftboltdb.BoltStore
	stable    *raftboltdb.BoltStore
	log       zerolog.Logger
}

// Config holds configuration for initializing a Raft store.
type Config struct {
	NodeID           string
	ListenAddr       string
	DataDir          string
	Bootstrap        bool
	HeartbeatTimeout time.Duration
	ElectionTimeout  time.Duration
	CommitTimeout    time.Duration
	Logger           zerolog.Logger
}

// NewStore opens the on-disk Raft state in DataDir and joins or bootstraps
// a cluster. With a ":0" port in ListenAddr the transport picks a free port;
// Addr reports the one in use.
func NewStore(config Config) (*Store, error) {
	if config.NodeID == "" {
		return nil, fmt.Errorf("%w: node id is required", common.ErrInvalidConfig)
	}
	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	fsm := NewFSM()

	raftConfig := raft.DefaultConfig()
	raftConfig.LocalID = raft.ServerID(config.NodeID)
	if config.HeartbeatTimeout > 0 {
		raftConfig.HeartbeatTimeout = config.HeartbeatTimeout
		raftConfig.LeaderLeaseTimeout = min(raftConfig.LeaderLeaseTimeout, config.HeartbeatTimeout)
	}
	if config.ElectionTimeout > 0 {
		raftConfig.ElectionTimeout = config.ElectionTimeout
	}
	if config.CommitTimeout > 0 {
		raftConfig.CommitTimeout = config.CommitTimeout
	}

	logStore, err := raftboltdb.NewBoltStore(filepath.Join(config.DataDir, "logs"))
	if err != nil {
		return nil, fmt.Errorf("failed to create log store: %w", err)
	}

	stableStore, err := raftboltdb.NewBoltStore(filepath.Join(config.DataDir, "stable"))
	if err != nil {
		logStore.Close()
		return nil, fmt.Errorf("failed to create stable store: %w", err)
	}

	closeStores := func() {
		logStore.Close()
		stableStore.Close()
	}

	snapshotStore, err := raft.NewFileSnapshotStore(config.DataDir, 3, os.Stderr)
	if err != nil {
		closeStores()
		return nil, fmt.Errorf("failed to create snapshot store: %w", err)
	}

	addr, err := net.ResolveTCPAddr("tcp", config.ListenAddr)
	if err != nil {
		closeStores()
		return nil, fmt.Errorf("failed to resolve address: %w", err)
	}
	var advertise net.Addr = addr
	if addr.Port == 0 {
		advertise = nil
	}

	transport, err := raft.NewTCPTransport(config.ListenAddr, advertise, 3, 10*time.Second, os.Stderr)
	if err != nil {
		closeStores()
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	r, err := raft.NewRaft(raftConfig, fsm, logStore, stableStore, snapshotStore, transport)
	if err != nil {
		transport.Close()
		closeStores()
		return nil, fmt.Errorf("failed to create raft: %w", err)
	}

	s := &Store{
		raft:      r,
		fsm:       fsm,
		transport: transport,
		logStore:  logStore,
		stable:    stableStore,
		log:       config.Logger.With().Str("node_id", config.NodeID).Logger(),
	}

	if config.Bootstrap {
		configuration := raft.Configuration{
			Servers: []raft.Server{
				{
					ID:      raft.ServerID(config.NodeID),
					Address: transport.LocalAddr(),
				},
			},
		}
		if err := r.BootstrapCluster(configuration).Error(); err != nil && !errors.Is(err, raft.ErrCantBootstrap) {
			s.Shutdown()
			return nil, fmt.Errorf("failed to bootstrap cluster: %w", err)
		}
	}

	s.log.Info().
		Str("addr", string(transport.LocalAddr())).
		Bool("bootstrap", config.Bootstrap).
		Msg("raft store started")
	return s, nil
}

// Addr returns the Raft transport address of this node.
func (s *Store) Addr() string {
	return string(s.transport.LocalAddr())
}

// PutReport validates an encoded report and replicates it under its run id.
func (s *Store) PutReport(data []byte) (string, error) {
	report, err := common.UnmarshalReport(data)
	if err != nil {
		return "", err
	}
	if err := s.apply(Command{Op: opPut, RunID: report.RunID, Report: data}); err != nil {
		return "", err
	}
	s.log.Debug().Str("run_id", report.RunID).Int("bytes", len(data)).Msg("report stored")
	return report.RunID, nil
}

// GetReport returns the encoded report for runID from local state.
func (s *Store) GetReport(runID string) ([]byte, error) {
	data, ok := s.fsm.Get(runID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	return data, nil
}

// DeleteReport removes a report. Deleting an unknown run id is not an error.
func (s *Store) DeleteReport(runID string) error {
	return s.apply(Command{Op: opDelete, RunID: runID})
}

// ListReports returns the stored run ids in sorted order.
func (s *Store) ListReports() []string {
	return s.fsm.RunIDs()
}

func (s *Store) apply(cmd Command) error {
	if s.raft.State() != raft.Leader {
		return ErrNotLeader
	}

	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("failed to marshal command: %w", err)
	}

	future := s.raft.Apply(data, applyTimeout)
	if err := future.Error(); err != nil {
		if errors.Is(err, raft.ErrNotLeader) || errors.Is(err, raft.ErrLeadershipLost) {
			return ErrNotLeader
		}
		return fmt.Errorf("failed to apply command: %w", err)
	}
	if err, ok := future.Response().(error); ok && err != nil {
		return err
	}
	return nil
}

// IsLeader returns whether this node is currently the Raft leader.
func (s *Store) IsLeader() bool {
	return s.raft.State() == raft.Leader
}

// Leader returns the address of the current leader, or "" if unknown.
func (s *Store) Leader() string {
	addr, _ := s.raft.LeaderWithID()
	return string(addr)
}

// WaitForLeader blocks until the cluster has a leader or ctx is done.
func (s *Store) WaitForLeader(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		if s.Leader() != "" {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for leader: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// AddPeer adds a voting member to the cluster. Only the leader can do this.
func (s *Store) AddPeer(peerID, peerAddr string) error {
	if err := s.raft.AddVoter(raft.ServerID(peerID), raft.ServerAddress(peerAddr), 0, 0).Error(); err != nil {
		return fmt.Errorf("failed to add peer %s: %w", peerID, err)
	}
	s.log.Info().Str("peer_id", peerID).Str("peer_addr", peerAddr).Msg("peer added")
	return nil
}

// RemovePeer removes a member from the cluster.
func (s *Store) RemovePeer(peerID string) error {
	if err := s.raft.RemoveServer(raft.ServerID(peerID), 0, 0).Error(); err != nil {
		return fmt.Errorf("failed to remove peer %s: %w", peerID, err)
	}
	return nil
}

// Shutdown stops Raft and closes the on-disk stores.
func (s *Store) Shutdown() error {
	err := s.raft.Shutdown().Error()
	s.transport.Close()
	s.logStore.Close()
	s.stable.Close()
	return err
}
