package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mundrapranay/neighborsim/algorithms/common"
)

func testConfig(dataDir string) Config {
	return Config{
		NodeID:           "test-node",
		ListenAddr:       "127.0.0.1:0", // Use port 0 for random port
		DataDir:          dataDir,
		Bootstrap:        true,
		HeartbeatTimeout: 1000 * time.Millisecond,
		ElectionTimeout:  1000 * time.Millisecond,
		CommitTimeout:    50 * time.Millisecond,
	}
}

// newLeaderStore starts a bootstrapped single-node store and waits until it leads.
func newLeaderStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(testConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Shutdown() })
	waitForLeadership(t, store, 5*time.Second)
	return store
}

// encodedReport returns a minimal valid report for runID.
func encodedReport(t *testing.T, runID string, pairs uint64) []byte {
	t.Helper()
	h := common.NewHistogram(common.MetricJaccard)
	h.Counts[5] = pairs
	data, err := common.MarshalReport(&common.AlgorithmResult{
		RunID:         runID,
		AlgorithmName: "jaccard-pruned",
		AlgorithmType: common.AlgorithmTypeExact,
		Mode:          "pruned",
		Histogram:     h,
	})
	if err != nil {
		t.Fatalf("Failed to encode report: %v", err)
	}
	return data
}

func TestNewStore(t *testing.T) {
	store, err := NewStore(testConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Shutdown()

	if store.fsm == nil {
		t.Fatal("Store FSM is nil")
	}
	if store.raft == nil {
		t.Fatal("Store Raft instance is nil")
	}
	if store.Addr() == "127.0.0.1:0" {
		t.Fatal("Store should report the bound port, not :0")
	}
}

func TestNewStore_RequiresNodeID(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.NodeID = ""
	if _, err := NewStore(cfg); !errors.Is(err, common.ErrInvalidConfig) {
		t.Fatalf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestStore_PutAndGetReport(t *testing.T) {
	store := newLeaderStore(t)

	data := encodedReport(t, "run-1", 42)
	runID, err := store.PutReport(data)
	if err != nil {
		t.Fatalf("Failed to put report: %v", err)
	}
	if runID != "run-1" {
		t.Fatalf("Expected run id run-1, got %s", runID)
	}

	got, err := store.GetReport("run-1")
	if err != nil {
		t.Fatalf("Failed to get report: %v", err)
	}
	report, err := common.UnmarshalReport(got)
	if err != nil {
		t.Fatalf("Stored report does not decode: %v", err)
	}
	if report.Histogram.Bucket(0, 5) != 42 {
		t.Fatalf("Expected 42 pairs in bucket 5, got %d", report.Histogram.Bucket(0, 5))
	}
}

func TestStore_GetReportNotFound(t *testing.T) {
	store := newLeaderStore(t)

	if _, err := store.GetReport("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestStore_PutReportRejectsMalformed(t *testing.T) {
	store := newLeaderStore(t)

	for _, data := range [][]byte{
		[]byte("not json"),
		[]byte(`{"run_id":"x"}`),
		[]byte(`{"histogram":{"metrics":["jaccard"],"counts":[0,0,0,0,0,0,0,0,0,0]}}`),
	} {
		if _, err := store.PutReport(data); !errors.Is(err, common.ErrMalformedInput) {
			t.Fatalf("Expected ErrMalformedInput for %s, got %v", data, err)
		}
	}
	if n := len(store.ListReports()); n != 0 {
		t.Fatalf("Malformed reports must not be stored, found %d", n)
	}
}

func TestStore_ListAndDeleteReports(t *testing.T) {
	store := newLeaderStore(t)

	for i := 3; i >= 1; i-- {
		if _, err := store.PutReport(encodedReport(t, fmt.Sprintf("run-%d", i), uint64(i))); err != nil {
			t.Fatalf("Failed to put report %d: %v", i, err)
		}
	}

	ids := store.ListReports()
	if len(ids) != 3 || ids[0] != "run-1" || ids[2] != "run-3" {
		t.Fatalf("Unexpected run ids %v", ids)
	}

	if err := store.DeleteReport("run-2"); err != nil {
		t.Fatalf("Failed to delete report: %v", err)
	}
	if _, err := store.GetReport("run-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Deleted report still readable: %v", err)
	}
	if len(store.ListReports()) != 2 {
		t.Fatalf("Expected 2 reports after delete, got %v", store.ListReports())
	}
}

func TestStore_WaitForLeader(t *testing.T) {
	store := newLeaderStore(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := store.WaitForLeader(ctx); err != nil {
		t.Fatalf("WaitForLeader failed: %v", err)
	}
	if store.Leader() != store.Addr() {
		t.Fatalf("Expected leader %s, got %s", store.Addr(), store.Leader())
	}
}

func TestStore_FollowerRejectsWrites(t *testing.T) {
	// A node that is never bootstrapped never elects itself.
	cfg := testConfig(t.TempDir())
	cfg.Bootstrap = false
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Shutdown()

	if store.IsLeader() {
		t.Fatal("Unbootstrapped node should not be leader")
	}
	if _, err := store.PutReport(encodedReport(t, "run-1", 1)); !errors.Is(err, ErrNotLeader) {
		t.Fatalf("Expected ErrNotLeader, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := store.WaitForLeader(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected deadline exceeded, got %v", err)
	}
}

func TestStore_DataDirCreation(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "raft-data", "nested")

	store, err := NewStore(testConfig(dataDir))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Shutdown()

	for _, name := range []string{"logs", "stable"} {
		if _, err := os.Stat(filepath.Join(dataDir, name)); os.IsNotExist(err) {
			t.Fatalf("%s store was not created", name)
		}
	}
}
