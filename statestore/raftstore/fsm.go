package raftstore

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/hashicorp/raft"

	"github.com/parthiban-manickam/simcluster/statestore"
)

// setDataCmd is the raft log payload for a single SetData call.
type setDataCmd struct {
	Path            string `json:"path"`
	Data            []byte `json:"data"`
	ExpectedVersion int    `json:"expected_version"`
}

// applyResult is what fsm.Apply returns through the raft future; it is
// never itself persisted.
type applyResult struct {
	err error
}

// fsm is a versioned key-value store applied through raft, grounded on
// the teacher's slot-map FSM: a mutex-guarded map mutated only inside
// Apply, snapshotted and restored as a flat copy.
type fsm struct {
	mu   sync.RWMutex
	data map[string]statestore.VersionedData
}

func newFSM() *fsm {
	return &fsm{data: make(map[string]statestore.VersionedData)}
}

func (f *fsm) get(path string) (statestore.VersionedData, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.data[path]
	return v, ok
}

func (f *fsm) Apply(log *raft.Log) interface{} {
	var cmd setDataCmd
	if err := json.Unmarshal(log.Data, &cmd); err != nil {
		panic(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	cur, exists := f.data[cmd.Path]
	if cmd.ExpectedVersion == statestore.CreateVersion {
		if exists {
			return &applyResult{err: statestore.ErrExists}
		}
	} else if !exists || cur.Version != cmd.ExpectedVersion {
		return &applyResult{err: statestore.ErrBadVersion}
	}
	f.data[cmd.Path] = statestore.VersionedData{
		Data:    append([]byte(nil), cmd.Data...),
		Version: cmd.ExpectedVersion + 1,
	}
	return &applyResult{}
}

type fsmSnapshot struct {
	Data map[string]statestore.VersionedData
}

func (f *fsm) Snapshot() (raft.FSMSnapshot, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	cp := make(map[string]statestore.VersionedData, len(f.data))
	for k, v := range f.data {
		cp[k] = v
	}
	return &fsmSnapshot{Data: cp}, nil
}

func (s *fsmSnapshot) Persist(sink raft.SnapshotSink) error {
	err := func() error {
		data, err := json.Marshal(s)
		if err != nil {
			return err
		}
		if _, err := sink.Write(data); err != nil {
			return err
		}
		return sink.Close()
	}()
	if err != nil {
		sink.Cancel()
	}
	return err
}

func (s *fsmSnapshot) Release() {}

func (f *fsm) Restore(src io.ReadCloser) error {
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}
	snap := &fsmSnapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = snap.Data
	if f.data == nil {
		f.data = make(map[string]statestore.VersionedData)
	}
	return nil
}
