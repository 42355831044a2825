package clusterstate

import (
	"testing"

	"github.com/parthiban-manickam/simcluster/propset"
	"github.com/parthiban-manickam/simcluster/replica"
)

func TestNodeIndexAppendAndFindCore(t *testing.T) {
	idx := NewNodeIndex()
	r := replica.New("core_node1", "c_s1_replica_n1", "c", "shard1", replica.NRT, "node1", nil)
	idx.Append("node1", r)

	node, found := idx.FindCore("c_s1_replica_n1")
	if !found || node != "node1" {
		t.Fatalf("FindCore = (%q, %v), want (node1, true)", node, found)
	}
	if _, found := idx.FindCore("nonexistent"); found {
		t.Fatal("FindCore should miss on an unused core")
	}
}

func TestNodeIndexRemoveByName(t *testing.T) {
	idx := NewNodeIndex()
	r := replica.New("core_node1", "core1", "c", "shard1", replica.NRT, "node1", nil)
	idx.Append("node1", r)

	removed, ok := idx.RemoveByName("node1", "core_node1")
	if !ok || removed != r {
		t.Fatal("expected RemoveByName to find and return the record")
	}
	if len(idx.Replicas("node1")) != 0 {
		t.Fatal("replica list should be empty after removal")
	}
	if _, ok := idx.RemoveByName("node1", "core_node1"); ok {
		t.Fatal("second RemoveByName should fail, record already gone")
	}
}

func TestNodeIndexRemoveCollection(t *testing.T) {
	idx := NewNodeIndex()
	idx.Append("node1", replica.New("r1", "core1", "c1", "shard1", replica.NRT, "node1", nil))
	idx.Append("node1", replica.New("r2", "core2", "c2", "shard1", replica.NRT, "node1", nil))
	idx.Append("node2", replica.New("r3", "core3", "c1", "shard1", replica.NRT, "node2", nil))

	removed := idx.RemoveCollection("c1")
	if removed["node1"] != 1 || removed["node2"] != 1 {
		t.Fatalf("removed = %v, want 1 each for node1 and node2", removed)
	}
	if len(idx.Replicas("node1")) != 1 {
		t.Fatalf("node1 should retain its c2 replica, has %d", len(idx.Replicas("node1")))
	}
}

func TestLiveNodeSet(t *testing.T) {
	s := NewLiveNodeSet()
	s.Add("n1")
	s.Add("n2")
	if !s.Has("n1") || s.Len() != 2 {
		t.Fatalf("unexpected set state after adds: has=%v len=%d", s.Has("n1"), s.Len())
	}
	if !s.Remove("n1") {
		t.Fatal("Remove should report true for a present member")
	}
	if s.Remove("n1") {
		t.Fatal("second Remove should report false")
	}
	if s.Has("n1") {
		t.Fatal("n1 should be gone")
	}
}

func TestBuildGroupsReplicasByCollectionAndShard(t *testing.T) {
	idx := NewNodeIndex()
	props := propset.New()
	live := NewLiveNodeSet()
	live.Add("node1")

	r := replica.New("core_node1", "c_s1_replica_n1", "c1", "shard1", replica.NRT, "node1", nil)
	r.SetState(replica.Active)
	idx.Append("node1", r)

	state := Build(idx, props, live)
	coll, ok := state.Collection("c1")
	if !ok {
		t.Fatal("expected collection c1 to exist")
	}
	slice, ok := coll.Slices["shard1"]
	if !ok || len(slice.Replicas) != 1 {
		t.Fatalf("expected 1 replica in shard1, got %+v", slice)
	}
	if state.LiveNodes[0] != "node1" {
		t.Fatalf("LiveNodes = %v, want [node1]", state.LiveNodes)
	}
}

func TestBuildKeepsPropertyOnlyCollections(t *testing.T) {
	idx := NewNodeIndex()
	props := propset.New()
	props.CollectionProps("empty-coll")["policy"] = "custom"
	live := NewLiveNodeSet()

	state := Build(idx, props, live)
	coll, ok := state.Collection("empty-coll")
	if !ok {
		t.Fatal("a collection with only a property entry should still exist")
	}
	if len(coll.Slices) != 0 {
		t.Fatalf("expected no slices, got %v", coll.Slices)
	}
	if coll.Properties["policy"] != "custom" {
		t.Fatalf("expected policy property to survive, got %v", coll.Properties)
	}
}

func TestReplicaActiveRequiresLiveNode(t *testing.T) {
	idx := NewNodeIndex()
	props := propset.New()
	live := NewLiveNodeSet()

	r := replica.New("r1", "core1", "c1", "shard1", replica.NRT, "node1", nil)
	r.SetState(replica.Active)
	idx.Append("node1", r)

	state := Build(idx, props, live)
	view := state.Collections["c1"].Slices["shard1"].Replicas["r1"]
	if view.Active(live) {
		t.Fatal("replica on a dead node must not report Active")
	}
	live.Add("node1")
	if !view.Active(live) {
		t.Fatal("replica on a live ACTIVE node should report Active")
	}
}
