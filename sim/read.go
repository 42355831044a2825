package sim

import (
	"math/rand"

	"github.com/parthiban-manickam/simcluster/clusterstate"
	"github.com/parthiban-manickam/simcluster/replica"
)

// Reader is the read-only surface PredicateWaiter depends on, kept
// narrow so waiter doesn't need the whole Provider.
type Reader interface {
	GetClusterState() clusterstate.ClusterState
	GetLiveNodes() []string
}

// GetClusterState returns the current immutable snapshot (spec §6).
func (p *Provider) GetClusterState() clusterstate.ClusterState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buildLocked()
}

// GetLiveNodes returns the current live-node ids.
func (p *Provider) GetLiveNodes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.live.ToSlice()
}

// GetClusterProperties returns a defensive copy of the cluster property
// map.
func (p *Provider) GetClusterProperties() map[string]any {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]any, len(p.props.Cluster))
	for k, v := range p.props.Cluster {
		out[k] = v
	}
	return out
}

// ListCollections walks NodeIndex and the collection property map,
// matching the original's simListCollections (spec §6).
func (p *Provider) ListCollections() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	state := p.buildLocked()
	out := make([]string, 0, len(state.Collections))
	for name := range state.Collections {
		out = append(out, name)
	}
	return out
}

// GetReplicaInfosForNode returns node's replicas, matching the
// original's simGetReplicaInfos; nil distinctly means the node was
// never seen, as opposed to a present but empty list.
func (p *Provider) GetReplicaInfosForNode(node string) []*replica.Record {
	p.mu.Lock()
	defer p.mu.Unlock()
	records := p.idx.Replicas(node)
	if records == nil {
		return nil
	}
	out := make([]*replica.Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

// GetRandomNode returns a uniformly random live node using the
// caller-supplied rng, matching the original's simGetRandomNode. The
// bool reports whether any live node existed.
func (p *Provider) GetRandomNode(rng *rand.Rand) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	nodes := p.live.ToSlice()
	if len(nodes) == 0 {
		return "", false
	}
	return nodes[rng.Intn(len(nodes))], true
}

// GetPolicyNameByCollection reads the "policy" collection property,
// matching the original's getPolicyNameByCollection.
func (p *Provider) GetPolicyNameByCollection(coll string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	props, ok := p.props.Collection[coll]
	if !ok {
		return ""
	}
	name, _ := props["policy"].(string)
	return name
}
