package sim

import (
	"context"
	"fmt"

	"github.com/parthiban-manickam/simcluster/nodestate"
	"github.com/parthiban-manickam/simcluster/placement"
	"github.com/parthiban-manickam/simcluster/propset"
	"github.com/parthiban-manickam/simcluster/replica"
)

// InitialState is the snapshot shape SetClusterState repopulates from.
// Replicas is a flat list; each record is placed on the node named by
// its own Node field.
type InitialState struct {
	LiveNodes            []string
	Replicas             []*replica.Record
	ClusterProperties    map[string]any
	CollectionProperties map[string]map[string]any
	SliceProperties      map[string]map[string]map[string]any
}

// SetClusterState wipes all internal maps and repopulates them from
// initial, then republishes state (spec §4.3).
func (p *Provider) SetClusterState(initial InitialState) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.incrMutation("SetClusterState")

	p.idx.Reset()
	p.props.Reset()
	p.live.Reset()

	for _, node := range initial.LiveNodes {
		p.live.Add(node)
	}
	for _, r := range initial.Replicas {
		p.idx.Append(r.Node, r)
	}
	if initial.ClusterProperties != nil {
		propset.Replace(p.props.Cluster, initial.ClusterProperties)
	}
	for coll, props := range initial.CollectionProperties {
		propset.Replace(p.props.CollectionProps(coll), props)
	}
	for coll, shards := range initial.SliceProperties {
		for shard, props := range shards {
			propset.Replace(p.props.SliceProps(coll, shard), props)
		}
	}

	p.lastStateSet = false
	p.lastPropsSet = false
	return p.publishStateLocked()
}

// AddNode fails if id is already live; otherwise it joins the live set
// and ensures a NodeIndex entry exists, returning whether that entry
// was newly created (spec §4.3).
func (p *Provider) AddNode(id string) (created bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.incrMutation("AddNode")

	if p.live.Has(id) {
		return false, fmt.Errorf("add node %q: %w", id, ErrNodeAlreadyLive)
	}
	p.live.Add(id)
	if _, ok := p.nodes.NodeValue(id, nodestate.CoresKey); !ok {
		p.nodes.SetNodeValue(id, nodestate.CoresKey, 0)
	}
	return p.idx.EnsureNode(id), nil
}

// RemoveNode marks every replica on id DOWN, drops id from the live
// set, and schedules a re-election over the affected collections after
// publishing (spec §4.3). It returns whether id was live.
func (p *Provider) RemoveNode(ctx context.Context, id string) (wasLive bool, err error) {
	p.mu.Lock()
	p.incrMutation("RemoveNode")

	wasLive = p.live.Has(id)
	if !wasLive {
		p.mu.Unlock()
		return false, nil
	}

	collections := make(map[string]struct{})
	for _, r := range p.idx.Replicas(id) {
		r.SetState(replica.Down)
		r.SetLeader(false)
		collections[r.Collection] = struct{}{}
	}
	p.live.Remove(id)

	pubErr := p.publishStateLocked()
	p.mu.Unlock()
	if pubErr != nil {
		return wasLive, pubErr
	}

	if len(collections) > 0 {
		cols := make([]string, 0, len(collections))
		for c := range collections {
			cols = append(cols, c)
		}
		p.backgroundElection(ctx, cols, false)
	}
	return wasLive, nil
}

// AddReplica enforces core uniqueness, requires node to be live,
// appends the record ACTIVE, increments the node's cores counter, and
// optionally schedules an election over the record's collection (spec
// §4.3).
func (p *Provider) AddReplica(ctx context.Context, node string, r *replica.Record, runElection bool) error {
	p.mu.Lock()

	if owner, found := p.idx.FindCore(r.Core); found {
		p.mu.Unlock()
		return fmt.Errorf("add replica %q core %q already used on node %q: %w", r.Name, r.Core, owner, ErrDuplicateCore)
	}
	if !p.live.Has(node) {
		p.mu.Unlock()
		return fmt.Errorf("add replica %q: target node %q: %w", r.Name, node, ErrNodeNotLive)
	}

	r.Node = node
	r.Type = ensureReplicaType(r.Type)
	r.SetState(replica.Active)
	p.idx.Append(node, r)

	cores, _ := p.nodes.NodeValue(node, nodestate.CoresKey)
	p.nodes.SetNodeValue(node, nodestate.CoresKey, toInt(cores)+1)

	p.incrMutation("AddReplica")
	p.mu.Unlock()

	if runElection {
		p.backgroundElection(ctx, []string{r.Collection}, true)
	}
	return nil
}

// RemoveReplica removes the named replica from node, decrements its
// cores counter if the node is live, and schedules an election over
// its collection (spec §4.3). It panics if a live node's cores counter
// is already zero.
func (p *Provider) RemoveReplica(ctx context.Context, node, replicaName string) error {
	p.mu.Lock()
	p.incrMutation("RemoveReplica")

	r, ok := p.idx.RemoveByName(node, replicaName)
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("remove replica %q from %q: %w", replicaName, node, ErrReplicaNotFound)
	}

	if p.live.Has(node) {
		cores, _ := p.nodes.NodeValue(node, nodestate.CoresKey)
		n := toInt(cores)
		if n <= 0 {
			panic(fmt.Sprintf("sim: cores counter for node %q underflowed on remove", node))
		}
		p.nodes.SetNodeValue(node, nodestate.CoresKey, n-1)
	}

	p.mu.Unlock()
	p.backgroundElection(ctx, []string{r.Collection}, true)
	return nil
}

// CreateCollectionParams describes a new collection (spec §4.3, §6.3).
type CreateCollectionParams struct {
	Collection        string
	NumShards         int
	ReplicationFactor int
	NrtReplicas       int
	TlogReplicas      int
	PullReplicas      int
	ShardNames        []string
	AllowSharedNodes  bool
	Properties        map[string]any
	Async             string
}

// CreateCollectionResult carries the echoed async request id, matching
// spec §4.3's "an async property, when present, is echoed into the
// results object as a request id."
type CreateCollectionResult struct {
	RequestID string
}

// CreateCollection asks the placement engine for positions, assigns
// core and replica names, adds every replica with election deferred,
// then runs a single election for the collection (spec §4.3).
func (p *Provider) CreateCollection(ctx context.Context, params CreateCollectionParams) (CreateCollectionResult, error) {
	p.incrMutation("CreateCollection")
	p.mu.Lock()
	state := p.buildLocked()
	p.mu.Unlock()

	positions, err := p.placer.BuildReplicaPositions(ctx, state, placement.CreateCollectionParams{
		Collection:        params.Collection,
		NumShards:         params.NumShards,
		ReplicationFactor: params.ReplicationFactor,
		NrtReplicas:       params.NrtReplicas,
		TlogReplicas:      params.TlogReplicas,
		PullReplicas:      params.PullReplicas,
		ShardNames:        params.ShardNames,
		AllowSharedNodes:  params.AllowSharedNodes,
	})
	if err != nil {
		return CreateCollectionResult{}, err
	}

	if len(params.Properties) > 0 {
		p.mu.Lock()
		propset.Replace(p.props.CollectionProps(params.Collection), params.Properties)
		p.mu.Unlock()
	}

	replicaNum := 1
	for _, pos := range positions {
		n := replicaNum
		replicaNum++

		id, err := p.ids.IncAndGetID(params.Collection)
		if err != nil {
			return CreateCollectionResult{}, err
		}
		core := p.ids.BuildCoreName(params.Collection, pos.Shard, pos.Type, n)
		name := p.ids.AssignCoreNodeName(id)

		record := replica.New(name, core, params.Collection, pos.Shard, pos.Type, pos.Node, nil)
		if err := p.AddReplica(ctx, pos.Node, record, false); err != nil {
			return CreateCollectionResult{}, err
		}
	}

	p.backgroundElection(ctx, []string{params.Collection}, true)

	return CreateCollectionResult{RequestID: params.Async}, nil
}

// DeleteCollection removes collection's property entries and every
// replica referencing it, decrementing each affected live node's cores
// counter by exactly the number removed, then publishes (spec §4.3).
// It panics if a live node's cores counter is below the number removed.
func (p *Provider) DeleteCollection(collection, async string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.incrMutation("DeleteCollection")

	p.props.DeleteCollection(collection)
	removed := p.idx.RemoveCollection(collection)

	for node, count := range removed {
		if !p.live.Has(node) {
			continue
		}
		cores, _ := p.nodes.NodeValue(node, nodestate.CoresKey)
		n := toInt(cores)
		if n < count {
			panic(fmt.Sprintf("sim: cores counter for node %q underflowed deleting collection %q", node, collection))
		}
		p.nodes.SetNodeValue(node, nodestate.CoresKey, n-count)
	}

	return p.publishStateLocked()
}

// DeleteAllCollections clears every replica and collection/slice
// property, resets every node's cores counter to zero, and publishes
// (spec §4.3).
func (p *Provider) DeleteAllCollections() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.incrMutation("DeleteAllCollections")

	// Reset drops NodeIndex entries entirely; recreate them empty so
	// live nodes keep their (now-empty) replica lists, matching the
	// original's per-node list clear rather than key removal.
	p.idx.Reset()
	for _, node := range p.live.ToSlice() {
		p.idx.EnsureNode(node)
	}

	p.props.Collection = make(map[string]map[string]any)
	p.props.Slice = make(map[string]map[string]map[string]any)

	for node := range p.nodes.AllNodeValues() {
		p.nodes.SetNodeValue(node, nodestate.CoresKey, 0)
	}

	return p.publishStateLocked()
}

// MoveReplica relocates a replica to targetNode by assigning it a new
// name/core and adding it there, then removing the original; the
// remove's scheduled election is sufficient (spec §4.3).
func (p *Provider) MoveReplica(ctx context.Context, collection, replicaName, targetNode string) error {
	p.incrMutation("MoveReplica")
	p.mu.Lock()
	sourceNode, r, ok := p.idx.FindByName(replicaName)
	p.mu.Unlock()
	if !ok {
		return fmt.Errorf("move replica %q: %w", replicaName, ErrReplicaNotFound)
	}

	id, err := p.ids.IncAndGetID(collection)
	if err != nil {
		return err
	}
	// id is a fresh value off collection's persisted counter, but
	// CreateCollection numbers cores from 1 per call independently of
	// that counter, so the core number starts at id and steps past any
	// number a core in the index already uses (original:
	// Assign.buildSolrCoreName).
	p.mu.Lock()
	newCore := p.ids.BuildCoreName(collection, r.Shard, r.Type, int(id))
	for n := int(id) + 1; ; n++ {
		if _, used := p.idx.FindCore(newCore); !used {
			break
		}
		newCore = p.ids.BuildCoreName(collection, r.Shard, r.Type, n)
	}
	p.mu.Unlock()
	newName := p.ids.AssignCoreNodeName(id)

	newRecord := replica.New(newName, newCore, r.Collection, r.Shard, r.Type, targetNode, nil)
	if err := p.AddReplica(ctx, targetNode, newRecord, false); err != nil {
		return err
	}
	return p.RemoveReplica(ctx, sourceNode, replicaName)
}

// SetClusterProperties overwrites the entire cluster property map and
// publishes CLUSTER_PROPS (spec §4.3).
func (p *Provider) SetClusterProperties(props map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.incrMutation("SetClusterProperties")
	propset.Replace(p.props.Cluster, props)
	return p.publishClusterPropertiesLocked()
}

// SetClusterProperty sets or, if value is nil, removes a single cluster
// property key and publishes CLUSTER_PROPS (spec §4.3).
func (p *Provider) SetClusterProperty(key string, value any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.incrMutation("SetClusterProperty")
	propset.SetScalar(p.props.Cluster, key, value)
	return p.publishClusterPropertiesLocked()
}

// SetCollectionProperties overwrites coll's property map, or clears it
// entirely when props is nil, and publishes CLUSTER_STATE. The lock is
// taken for both branches, resolving spec §9's open question in favor
// of setter symmetry.
func (p *Provider) SetCollectionProperties(coll string, props map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.incrMutation("SetCollectionProperties")
	if props == nil {
		delete(p.props.Collection, coll)
	} else {
		propset.Replace(p.props.CollectionProps(coll), props)
	}
	return p.publishStateLocked()
}

// SetCollectionProperty sets or clears a single collection property key
// and publishes CLUSTER_STATE (spec §4.3).
func (p *Provider) SetCollectionProperty(coll, key string, value any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.incrMutation("SetCollectionProperty")
	propset.SetScalar(p.props.CollectionProps(coll), key, value)
	return p.publishStateLocked()
}

// SetSliceProperties overwrites (coll, shard)'s property map and
// publishes CLUSTER_STATE (spec §4.3).
func (p *Provider) SetSliceProperties(coll, shard string, props map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.incrMutation("SetSliceProperties")
	propset.Replace(p.props.SliceProps(coll, shard), props)
	return p.publishStateLocked()
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
