package nodestate

import "testing"

func TestEnsureNodeSeedsCoresZero(t *testing.T) {
	p := New()
	p.EnsureNode("n1")
	v, ok := p.NodeValue("n1", CoresKey)
	if !ok || v != 0 {
		t.Fatalf("NodeValue = (%v, %v), want (0, true)", v, ok)
	}
	p.EnsureNode("n1")
	p.SetNodeValue("n1", CoresKey, 5)
	p.EnsureNode("n1")
	v, _ = p.NodeValue("n1", CoresKey)
	if v != 5 {
		t.Fatalf("EnsureNode should not overwrite an existing entry, got %v", v)
	}
}

func TestSetAndGetNodeValue(t *testing.T) {
	p := New()
	p.SetNodeValue("n1", "custom", "x")
	v, ok := p.NodeValue("n1", "custom")
	if !ok || v != "x" {
		t.Fatalf("NodeValue = (%v, %v), want (x, true)", v, ok)
	}
	if _, ok := p.NodeValue("missing", "custom"); ok {
		t.Fatal("NodeValue on an unseen node should miss")
	}
}

func TestAllNodeValues(t *testing.T) {
	p := New()
	p.SetNodeValue("n1", CoresKey, 1)
	p.SetNodeValue("n2", CoresKey, 2)
	all := p.AllNodeValues()
	if len(all) != 2 || all["n1"][CoresKey] != 1 {
		t.Fatalf("AllNodeValues = %v", all)
	}
}
