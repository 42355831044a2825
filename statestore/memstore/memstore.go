// Package memstore is a trivial mutex-guarded DistribStateManager, used
// by tests that don't need raftstore's bootstrap cost.
package memstore

import (
	"sync"

	"github.com/parthiban-manickam/simcluster/statestore"
)

type Store struct {
	mu   sync.Mutex
	data map[string]statestore.VersionedData
}

func New() *Store {
	return &Store{data: make(map[string]statestore.VersionedData)}
}

func (s *Store) GetData(path string) (statestore.VersionedData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[path]
	if !ok {
		return statestore.VersionedData{}, statestore.ErrNotFound
	}
	return v, nil
}

func (s *Store) SetData(path string, data []byte, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, exists := s.data[path]
	if expectedVersion == statestore.CreateVersion {
		if exists {
			return statestore.ErrExists
		}
	} else if !exists || cur.Version != expectedVersion {
		return statestore.ErrBadVersion
	}
	next := statestore.VersionedData{Data: append([]byte(nil), data...), Version: expectedVersion + 1}
	s.data[path] = next
	return nil
}
