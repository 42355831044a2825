package clusterstate

import (
	"sort"

	"github.com/parthiban-manickam/simcluster/propset"
	"github.com/parthiban-manickam/simcluster/replica"
)

const defaultRouter = "compositeId"

// Build materializes an immutable ClusterState from the authoritative
// NodeIndex, PropertyMaps and LiveNodeSet (spec §4.1). It is a pure
// function: identical inputs produce an equal output, and it never
// mutates idx or live. It does write lazily-created empty maps into
// props, matching the original's computeIfAbsent cache-on-miss
// behavior, so a later call sees the same (now-present) empty map
// rather than recreating it. The snapshot itself holds copies of those
// property maps and lists live nodes in sorted order.
func Build(idx *NodeIndex, props *propset.Maps, live *LiveNodeSet) ClusterState {
	byColl := make(map[string]map[string][]Replica)

	idx.ForEach(func(node string, r *replica.Record) {
		byShard, ok := byColl[r.Collection]
		if !ok {
			byShard = make(map[string][]Replica)
			byColl[r.Collection] = byShard
		}
		byShard[r.Shard] = append(byShard[r.Shard], viewOf(r))
	})

	// A collection with only an explicit property entry and no
	// replicas yet still exists (spec §3: "Collection exists iff ≥1
	// ReplicaRecord references it OR an explicit entry exists").
	for coll := range props.Collection {
		if _, ok := byColl[coll]; !ok {
			byColl[coll] = make(map[string][]Replica)
		}
	}

	collections := make(map[string]Collection, len(byColl))
	for coll, shards := range byColl {
		slices := make(map[string]Slice, len(shards))
		for shard, replicas := range shards {
			byName := make(map[string]Replica, len(replicas))
			for _, r := range replicas {
				byName[r.Name] = r
			}
			sliceProps := make(map[string]any)
			for k, v := range props.SliceProps(coll, shard) {
				sliceProps[k] = v
			}
			slices[shard] = Slice{
				Name:       shard,
				Replicas:   byName,
				Properties: sliceProps,
			}
		}
		collProps := make(map[string]any)
		for k, v := range props.CollectionProps(coll) {
			collProps[k] = v
		}
		collections[coll] = Collection{
			Name:       coll,
			Slices:     slices,
			Properties: collProps,
			Router:     defaultRouter,
			Version:    0,
		}
	}

	liveNodes := live.ToSlice()
	sort.Strings(liveNodes)
	return ClusterState{
		LiveNodes:   liveNodes,
		Collections: collections,
	}
}
