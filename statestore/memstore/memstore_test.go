package memstore

import (
	"testing"

	"github.com/parthiban-manickam/simcluster/statestore"
)

func TestGetDataNotFound(t *testing.T) {
	s := New()
	if _, err := s.GetData("missing"); err != statestore.ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSetDataCreateThenUpdate(t *testing.T) {
	s := New()
	if err := s.SetData("k", []byte("v1"), statestore.CreateVersion); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	v, err := s.GetData("k")
	if err != nil || string(v.Data) != "v1" || v.Version != 0 {
		t.Fatalf("GetData = (%v, %v), want (v1, 0)", v, err)
	}

	if err := s.SetData("k", []byte("v2"), 0); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	v, _ = s.GetData("k")
	if string(v.Data) != "v2" || v.Version != 1 {
		t.Fatalf("after update = %v, want (v2, 1)", v)
	}
}

func TestSetDataCreateTwiceFails(t *testing.T) {
	s := New()
	if err := s.SetData("k", []byte("v1"), statestore.CreateVersion); err != nil {
		t.Fatal(err)
	}
	if err := s.SetData("k", []byte("v2"), statestore.CreateVersion); err != statestore.ErrExists {
		t.Fatalf("err = %v, want ErrExists", err)
	}
}

func TestSetDataBadVersion(t *testing.T) {
	s := New()
	if err := s.SetData("k", []byte("v1"), statestore.CreateVersion); err != nil {
		t.Fatal(err)
	}
	if err := s.SetData("k", []byte("v2"), 5); err != statestore.ErrBadVersion {
		t.Fatalf("err = %v, want ErrBadVersion", err)
	}
}
