package store

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"

	"github.com/hashicorp/raft"
)

const (
	opPut    = "PUT"
	opDelete = "DELETE"
)

// Command is a single replicated change to the report set.
type Command struct {
	Op     string `json:"op"`
	RunID  string `json:"run_id"`
	Report []byte `json:"report,omitempty"`
}

// FSM is the replicated state: encoded similarity reports keyed by run id.
type FSM struct {
	mu      sync.RWMutex
	reports map[string][]byte
}

// NewFSM creates an empty FSM.
func NewFSM() *FSM {
	return &FSM{
		reports: make(map[string][]byte),
	}
}

// Apply applies a committed Raft log entry. It returns nil or an error,
// which Raft hands back through ApplyFuture.Response.
func (f *FSM) Apply(log *raft.Log) interface{} {
	var cmd Command
	if err := json.Unmarshal(log.Data, &cmd); err != nil {
		return fmt.Errorf("failed to deserialize command: %w", err)
	}
	if cmd.RunID == "" {
		return fmt.Errorf("command %s has no run id", cmd.Op)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch cmd.Op {
	case opPut:
		f.reports[cmd.RunID] = cmd.Report
		return nil
	case opDelete:
		delete(f.reports, cmd.RunID)
		return nil
	default:
		return fmt.Errorf("unrecognized command op: %s", cmd.Op)
	}
}

// Get returns the encoded report for runID.
func (f *FSM) Get(runID string) ([]byte, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	report, ok := f.reports[runID]
	return report, ok
}

// RunIDs returns the stored run ids in sorted order.
func (f *FSM) RunIDs() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Sorted(maps.Keys(f.reports))
}

// Len returns the number of stored reports.
func (f *FSM) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.reports)
}

// Snapshot captures the report set for log compaction. Stored values are
// never mutated in place, so a shallow copy of the map is enough.
func (f *FSM) Snapshot() (raft.FSMSnapshot, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return &FSMSnapshot{reports: maps.Clone(f.reports)}, nil
}

// Restore replaces the report set with a snapshot.
func (f *FSM) Restore(rc io.ReadCloser) error {
	defer rc.Close()

	var reports map[string][]byte
	if err := json.NewDecoder(rc).Decode(&reports); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if reports == nil {
		reports = make(map[string][]byte)
	}

	f.mu.Lock()
	f.reports = reports
	f.mu.Unlock()
	return nil
}

// FSMSnapshot is a point-in-time copy of the report set.
type FSMSnapshot struct {
	reports map[string][]byte
}

// Persist writes the snapshot as a JSON object to sink.
func (s *FSMSnapshot) Persist(sink raft.SnapshotSink) error {
	if err := json.NewEncoder(sink).Encode(s.reports); err != nil {
		sink.Cancel()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return sink.Close()
}

// Release is a no-op; the snapshot holds no external resources.
func (s *FSMSnapshot) Release() {}
