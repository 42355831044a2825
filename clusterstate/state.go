// Package clusterstate holds the authoritative NodeIndex/LiveNodeSet
// storage and the pure builder that derives an immutable ClusterState
// snapshot from them (spec §4.1).
package clusterstate

import "github.com/parthiban-manickam/simcluster/replica"

// Replica is the immutable, outward view of a replica.Record: its
// Variables are a defensive copy, safe to hand to readers outside the
// provider's lock.
type Replica struct {
	Name       string
	Core       string
	Collection string
	Shard      string
	Type       replica.Type
	Node       string
	Variables  map[string]any
}

func (r Replica) State() replica.State {
	if v, ok := r.Variables["state"]; ok {
		if s, ok := v.(string); ok {
			return replica.State(s)
		}
	}
	return ""
}

func (r Replica) IsLeader() bool {
	v, ok := r.Variables["leader"]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Active reports whether the replica is ACTIVE and its node is live.
func (r Replica) Active(live *LiveNodeSet) bool {
	return r.State() == replica.Active && live.Has(r.Node)
}

func viewOf(r *replica.Record) Replica {
	vars := make(map[string]any, len(r.Variables))
	for k, v := range r.Variables {
		vars[k] = v
	}
	return Replica{
		Name:       r.Name,
		Core:       r.Core,
		Collection: r.Collection,
		Shard:      r.Shard,
		Type:       r.Type,
		Node:       r.Node,
		Variables:  vars,
	}
}

// Slice is one shard's replicas plus its slice-level properties.
type Slice struct {
	Name       string
	Replicas   map[string]Replica // keyed by replica name
	Properties map[string]any
}

// Leader returns the slice's current leader replica, if any.
func (s Slice) Leader() (Replica, bool) {
	for _, r := range s.Replicas {
		if r.IsLeader() {
			return r, true
		}
	}
	return Replica{}, false
}

// Collection is a named logical dataset: its shards plus collection
// properties. Router and Version are carried per spec §4.1 ("default
// routing policy" and "version 0") even though this simulator never
// changes them.
type Collection struct {
	Name       string
	Slices     map[string]Slice
	Properties map[string]any
	Router     string
	Version    int
}

// ClusterState is the immutable snapshot produced by Build.
type ClusterState struct {
	LiveNodes   []string
	Collections map[string]Collection
}

// Collection looks up a single collection by name.
func (cs ClusterState) Collection(name string) (Collection, bool) {
	c, ok := cs.Collections[name]
	return c, ok
}
