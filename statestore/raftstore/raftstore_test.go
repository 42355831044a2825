package raftstore

import (
	"testing"

	"github.com/parthiban-manickam/simcluster/statestore"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{NodeID: "test-node"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreGetDataNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetData("missing"); err != statestore.ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestStoreSetDataCreateThenCAS(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetData("CLUSTER_STATE", []byte("{}"), statestore.CreateVersion); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	v, err := s.GetData("CLUSTER_STATE")
	if err != nil {
		t.Fatalf("GetData: %v", err)
	}
	if string(v.Data) != "{}" || v.Version != 0 {
		t.Fatalf("GetData = %+v, want data={} version=0", v)
	}

	if err := s.SetData("CLUSTER_STATE", []byte(`{"v":1}`), v.Version); err != nil {
		t.Fatalf("CAS update failed: %v", err)
	}
	if err := s.SetData("CLUSTER_STATE", []byte(`{"v":2}`), v.Version); err != statestore.ErrBadVersion {
		t.Fatalf("stale CAS err = %v, want ErrBadVersion", err)
	}
}
