// Package placement defines the external placement-policy collaborator
// (spec §6, PlacementEngine) and a reference round-robin implementation.
// The real Solr autoscaling policy engine (buildReplicaPositions) is
// explicitly out of scope (spec §1); RoundRobin exists only so
// CreateCollection is exercisable without a caller-supplied policy.
package placement

import (
	"context"
	"errors"
	"sort"

	"github.com/parthiban-manickam/simcluster/clusterstate"
	"github.com/parthiban-manickam/simcluster/replica"
)

// ErrInsufficientNodes is returned when fewer live nodes exist than the
// requested replicas-per-shard and sharing is not allowed.
var ErrInsufficientNodes = errors.New("placement: not enough live nodes for requested replication factor")

// ReplicaPosition is one (shard, node, type) assignment returned by a
// PlacementEngine, matching the original's ReplicaPosition.
type ReplicaPosition struct {
	Shard string
	Node  string
	Type  replica.Type
}

// CreateCollectionParams mirrors the subset of collection-creation
// properties the placement engine needs.
type CreateCollectionParams struct {
	Collection         string
	NumShards          int
	ReplicationFactor  int // used when the per-type factors below are all zero
	NrtReplicas        int
	TlogReplicas       int
	PullReplicas       int
	ShardNames         []string // optional explicit shard names, overrides NumShards
	AllowSharedNodes   bool
}

// PlacementEngine assigns replicas of a new collection to live nodes.
type PlacementEngine interface {
	BuildReplicaPositions(ctx context.Context, state clusterstate.ClusterState, params CreateCollectionParams) ([]ReplicaPosition, error)
}

// RoundRobin is a reference PlacementEngine that walks the live node
// set in sorted order, wrapping around as needed.
type RoundRobin struct{}

func (RoundRobin) BuildReplicaPositions(_ context.Context, state clusterstate.ClusterState, p CreateCollectionParams) ([]ReplicaPosition, error) {
	shardNames := p.ShardNames
	if len(shardNames) == 0 {
		shardNames = make([]string, p.NumShards)
		for i := range shardNames {
			shardNames[i] = shardName(i + 1)
		}
	}

	typeCounts := perTypeCounts(p)
	replicasPerShard := 0
	for _, n := range typeCounts {
		replicasPerShard += n
	}
	if replicasPerShard == 0 {
		replicasPerShard = 1
	}

	nodes := append([]string(nil), state.LiveNodes...)
	sort.Strings(nodes)
	if len(nodes) == 0 {
		return nil, ErrInsufficientNodes
	}
	if !p.AllowSharedNodes && len(nodes) < replicasPerShard {
		return nil, ErrInsufficientNodes
	}

	var positions []ReplicaPosition
	nodeIdx := 0
	for _, shard := range shardNames {
		for _, t := range []replica.Type{replica.NRT, replica.TLOG, replica.PULL} {
			for i := 0; i < typeCounts[t]; i++ {
				positions = append(positions, ReplicaPosition{
					Shard: shard,
					Node:  nodes[nodeIdx%len(nodes)],
					Type:  t,
				})
				nodeIdx++
			}
		}
	}
	return positions, nil
}

func perTypeCounts(p CreateCollectionParams) map[replica.Type]int {
	if p.NrtReplicas+p.TlogReplicas+p.PullReplicas > 0 {
		return map[replica.Type]int{
			replica.NRT:  p.NrtReplicas,
			replica.TLOG: p.TlogReplicas,
			replica.PULL: p.PullReplicas,
		}
	}
	rf := p.ReplicationFactor
	if rf <= 0 {
		rf = 1
	}
	return map[replica.Type]int{replica.NRT: rf}
}

func shardName(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	if n <= 26 {
		return "shard" + string(letters[n-1])
	}
	// fall back to numeric naming beyond the alphabet
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return "shard" + string(digits)
}
