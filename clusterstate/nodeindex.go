package clusterstate

import "github.com/parthiban-manickam/simcluster/replica"

// NodeIndex is the authoritative node -> ordered replica list store.
// Callers (sim.Provider) are responsible for locking; NodeIndex itself
// has no internal mutex, matching how propset.Maps defers locking to
// its owner.
type NodeIndex struct {
	byNode map[string][]*replica.Record
}

// NewNodeIndex returns an empty index.
func NewNodeIndex() *NodeIndex {
	return &NodeIndex{byNode: make(map[string][]*replica.Record)}
}

// Reset clears the index in place.
func (idx *NodeIndex) Reset() {
	idx.byNode = make(map[string][]*replica.Record)
}

// EnsureNode creates an empty replica list for node if absent. It
// reports whether the list was newly created, matching
// nodeReplicaMap.putIfAbsent's null-return convention in the original.
func (idx *NodeIndex) EnsureNode(node string) (created bool) {
	if _, ok := idx.byNode[node]; ok {
		return false
	}
	idx.byNode[node] = []*replica.Record{}
	return true
}

// Replicas returns the live replica slice for node, or nil if the node
// has never been seen. The returned slice must not be mutated by the
// caller; it is aliased into the index.
func (idx *NodeIndex) Replicas(node string) []*replica.Record {
	return idx.byNode[node]
}

// Nodes returns every node key currently tracked, live or not.
func (idx *NodeIndex) Nodes() []string {
	out := make([]string, 0, len(idx.byNode))
	for n := range idx.byNode {
		out = append(out, n)
	}
	return out
}

// Append adds r to node's replica list, creating the list if needed.
func (idx *NodeIndex) Append(node string, r *replica.Record) {
	idx.byNode[node] = append(idx.byNode[node], r)
}

// FindCore reports whether any replica in the index already uses core,
// matching I1 (core uniqueness). It returns the owning node too.
func (idx *NodeIndex) FindCore(core string) (node string, found bool) {
	for n, replicas := range idx.byNode {
		for _, r := range replicas {
			if r.Core == core {
				return n, true
			}
		}
	}
	return "", false
}

// RemoveByName removes and returns the replica named name from node's
// list. ok is false if no such replica existed.
func (idx *NodeIndex) RemoveByName(node, name string) (r *replica.Record, ok bool) {
	list := idx.byNode[node]
	for i, rr := range list {
		if rr.Name == name {
			idx.byNode[node] = append(list[:i:i], list[i+1:]...)
			return rr, true
		}
	}
	return nil, false
}

// FindByName locates a replica anywhere in the index by name, returning
// its node alongside the record, so election can mutate it in place.
func (idx *NodeIndex) FindByName(name string) (node string, r *replica.Record, ok bool) {
	for n, replicas := range idx.byNode {
		for _, rr := range replicas {
			if rr.Name == name {
				return n, rr, true
			}
		}
	}
	return "", nil, false
}

// RemoveCollection removes every replica whose Collection matches coll,
// returning how many were removed per node.
func (idx *NodeIndex) RemoveCollection(coll string) map[string]int {
	removed := make(map[string]int)
	for n, list := range idx.byNode {
		kept := list[:0:0]
		count := 0
		for _, r := range list {
			if r.Collection == coll {
				count++
				continue
			}
			kept = append(kept, r)
		}
		if count > 0 {
			idx.byNode[n] = kept
			removed[n] = count
		}
	}
	return removed
}

// ForEach visits every replica in the index; iteration order is
// unspecified, matching spec §4.1's "output ordering is irrelevant".
func (idx *NodeIndex) ForEach(fn func(node string, r *replica.Record)) {
	for n, list := range idx.byNode {
		for _, r := range list {
			fn(n, r)
		}
	}
}
