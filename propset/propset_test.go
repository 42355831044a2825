package propset

import "testing"

func TestCollectionPropsLazyCreate(t *testing.T) {
	m := New()
	p1 := m.CollectionProps("c1")
	p1["x"] = 1
	p2 := m.CollectionProps("c1")
	if p2["x"] != 1 {
		t.Fatal("second CollectionProps call should see the same map")
	}
}

func TestSlicePropsLazyCreate(t *testing.T) {
	m := New()
	p := m.SliceProps("c1", "shard1")
	p["foo"] = "bar"
	if got := m.SliceProps("c1", "shard1")["foo"]; got != "bar" {
		t.Fatalf("SliceProps did not persist across calls: %v", got)
	}
}

func TestDeleteCollection(t *testing.T) {
	m := New()
	m.CollectionProps("c1")["x"] = 1
	m.SliceProps("c1", "shard1")["y"] = 2
	m.DeleteCollection("c1")
	if _, ok := m.Collection["c1"]; ok {
		t.Fatal("collection props not removed")
	}
	if _, ok := m.Slice["c1"]; ok {
		t.Fatal("slice props not removed")
	}
}

func TestSetScalarNilRemoves(t *testing.T) {
	props := map[string]any{"a": 1}
	SetScalar(props, "a", nil)
	if _, ok := props["a"]; ok {
		t.Fatal("nil value should delete the key")
	}
	SetScalar(props, "b", 2)
	if props["b"] != 2 {
		t.Fatal("non-nil value should be set")
	}
}

func TestReplace(t *testing.T) {
	dst := map[string]any{"old": 1}
	Replace(dst, map[string]any{"new": 2})
	if _, ok := dst["old"]; ok {
		t.Fatal("Replace should clear old keys")
	}
	if dst["new"] != 2 {
		t.Fatal("Replace should copy new keys")
	}
}

func TestReplaceNilSrcClears(t *testing.T) {
	dst := map[string]any{"old": 1}
	Replace(dst, nil)
	if len(dst) != 0 {
		t.Fatalf("Replace with nil src should leave dst empty, got %v", dst)
	}
}
