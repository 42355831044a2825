// Package raftstore implements statestore.DistribStateManager on top of
// a single-node hashicorp/raft group, grounded on the teacher's
// cluster/raft package: a hashicorp/raft FSM persisted through a
// boltdb-backed log store, bootstrapped as a one-server cluster over an
// in-memory transport so the simulator never opens a real socket.
package raftstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/raft"
	raftboltdb "github.com/hashicorp/raft-boltdb"

	"github.com/parthiban-manickam/simcluster/statestore"
)

const applyTimeout = 5 * time.Second

// Store is a single-node raft-backed DistribStateManager.
type Store struct {
	raft      *raft.Raft
	fsm       *fsm
	transport *raft.InmemTransport
	dataDir   string
	ownDir    bool
}

// Config controls how the raft group is bootstrapped.
type Config struct {
	NodeID string // raft.ServerID; defaults to "sim-0"
	// DataDir holds the boltdb log/stable store. Empty creates and owns
	// a temp directory, removed by Close.
	DataDir string
}

// New bootstraps a single-node raft group and blocks until it has
// elected itself leader (near-instant with one voter).
func New(cfg Config) (*Store, error) {
	if cfg.NodeID == "" {
		cfg.NodeID = "sim-0"
	}
	ownDir := cfg.DataDir == ""
	dataDir := cfg.DataDir
	if ownDir {
		dir, err := os.MkdirTemp("", "simcluster-raft-")
		if err != nil {
			return nil, fmt.Errorf("raftstore: create data dir: %w", err)
		}
		dataDir = dir
	}

	boltPath := filepath.Join(dataDir, "raft-log.db")
	logStore, err := raftboltdb.NewBoltStore(boltPath)
	if err != nil {
		return nil, fmt.Errorf("raftstore: open boltdb log store: %w", err)
	}
	snapshotStore := raft.NewInmemSnapshotStore()

	addr := raft.ServerAddress(cfg.NodeID)
	_, transport := raft.NewInmemTransport(addr)

	fsm := newFSM()
	raftCfg := raft.DefaultConfig()
	raftCfg.LocalID = raft.ServerID(cfg.NodeID)
	raftCfg.Logger = hclog.New(&hclog.LoggerOptions{
		Name:   "raftstore",
		Level:  hclog.Warn,
		Output: os.Stderr,
	})

	r, err := raft.NewRaft(raftCfg, fsm, logStore, logStore, snapshotStore, transport)
	if err != nil {
		return nil, fmt.Errorf("raftstore: start raft: %w", err)
	}

	bootstrapCfg := raft.Configuration{
		Servers: []raft.Server{{ID: raftCfg.LocalID, Address: addr}},
	}
	if err := r.BootstrapCluster(bootstrapCfg).Error(); err != nil && err != raft.ErrCantBootstrap {
		return nil, fmt.Errorf("raftstore: bootstrap: %w", err)
	}

	s := &Store{raft: r, fsm: fsm, transport: transport, dataDir: dataDir, ownDir: ownDir}
	if err := s.awaitLeadership(10 * time.Second); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) awaitLeadership(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if s.raft.State() == raft.Leader {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return fmt.Errorf("raftstore: node did not become leader within %s", timeout)
}

// GetData implements statestore.DistribStateManager.
func (s *Store) GetData(path string) (statestore.VersionedData, error) {
	v, ok := s.fsm.get(path)
	if !ok {
		return statestore.VersionedData{}, statestore.ErrNotFound
	}
	return v, nil
}

// SetData implements statestore.DistribStateManager.
func (s *Store) SetData(path string, data []byte, expectedVersion int) error {
	cmd := setDataCmd{Path: path, Data: data, ExpectedVersion: expectedVersion}
	encoded, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("raftstore: encode command: %w", err)
	}
	future := s.raft.Apply(encoded, applyTimeout)
	if err := future.Error(); err != nil {
		return fmt.Errorf("raftstore: apply: %w", err)
	}
	res, ok := future.Response().(*applyResult)
	if !ok {
		return fmt.Errorf("raftstore: unexpected apply response %T", future.Response())
	}
	return res.err
}

// Close shuts down the raft node and removes any temp data directory
// this Store created.
func (s *Store) Close() error {
	if err := s.raft.Shutdown().Error(); err != nil {
		return err
	}
	if s.ownDir {
		return os.RemoveAll(s.dataDir)
	}
	return nil
}
