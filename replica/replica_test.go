package replica

import "testing"

func TestTypeInitial(t *testing.T) {
	cases := map[Type]string{
		NRT:  "n",
		TLOG: "t",
		PULL: "p",
		"":   "n",
	}
	for typ, want := range cases {
		if got := typ.TypeInitial(); got != want {
			t.Errorf("%q.TypeInitial() = %q, want %q", typ, got, want)
		}
	}
}

func TestRecordStateRoundTrip(t *testing.T) {
	r := New("core_node1", "c_s1_replica_n1", "c", "shard1", NRT, "node1", nil)
	if r.State() != "" {
		t.Fatalf("new record state = %q, want empty", r.State())
	}
	r.SetState(Active)
	if r.State() != Active {
		t.Fatalf("state = %q, want %q", r.State(), Active)
	}
}

func TestRecordLeaderRoundTrip(t *testing.T) {
	r := New("core_node1", "c_s1_replica_n1", "c", "shard1", NRT, "node1", nil)
	if r.IsLeader() {
		t.Fatal("new record should not be leader")
	}
	r.SetLeader(true)
	if !r.IsLeader() {
		t.Fatal("expected leader after SetLeader(true)")
	}
	r.SetLeader(false)
	if r.IsLeader() {
		t.Fatal("expected not leader after SetLeader(false)")
	}
	if _, ok := r.Variables["leader"]; ok {
		t.Fatal("SetLeader(false) should delete the leader key, not set it false")
	}
}

func TestRecordClone(t *testing.T) {
	r := New("core_node1", "core1", "c", "shard1", NRT, "node1", map[string]any{"state": "ACTIVE"})
	clone := r.Clone()
	clone.Variables["state"] = "DOWN"
	if r.State() != Active {
		t.Fatalf("mutating clone's Variables leaked into original: %v", r.State())
	}
}
