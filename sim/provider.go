// Package sim is the simulated cluster state provider itself: it owns
// the authoritative NodeIndex, PropertyMaps and LiveNodeSet behind a
// single coarse lock, runs the mutator API, publishes snapshots, and
// runs leader election. It is grounded on the teacher's top-level
// Cluster type (myredis/cluster) in spirit — one struct owning every
// piece of shared state behind one mutex, with a second, narrower
// mutex serializing a specific subsystem (there, command dispatch
// versus raft membership changes; here, structural mutation versus
// leader election).
package sim

import (
	"context"
	"math/rand"
	"sync"

	"github.com/parthiban-manickam/simcluster/clusterstate"
	"github.com/parthiban-manickam/simcluster/idassign"
	"github.com/parthiban-manickam/simcluster/metrics"
	"github.com/parthiban-manickam/simcluster/nodestate"
	"github.com/parthiban-manickam/simcluster/placement"
	"github.com/parthiban-manickam/simcluster/propset"
	"github.com/parthiban-manickam/simcluster/replica"
	"github.com/parthiban-manickam/simcluster/simlog"
	"github.com/parthiban-manickam/simcluster/statestore"
	"github.com/parthiban-manickam/simcluster/texec"
)

// Provider is the simulated cluster state provider. The zero value is
// not usable; construct with New.
type Provider struct {
	mu         sync.Mutex
	electionMu sync.Mutex

	idx   *clusterstate.NodeIndex
	props *propset.Maps
	live  *clusterstate.LiveNodeSet

	nodes  nodestate.Provider
	store  statestore.DistribStateManager
	placer placement.PlacementEngine
	ids    idassign.IdAssigner
	exec   texec.Executor
	met    *metrics.Sink
	log    *simlog.Logger

	masterSeed int64
	history    *snapshotHistory

	lastState    clusterstate.ClusterState
	lastStateSet bool
	lastStateVer int
	lastProps    map[string]any
	lastPropsSet bool
	lastPropsVer int
}

// Config collects Provider's collaborators (spec §6). Exec, Metrics and
// Log are optional; nil falls back to texec.Inline, a no-op Sink, and
// simlog.Default respectively.
type Config struct {
	Nodes      nodestate.Provider
	Store      statestore.DistribStateManager
	Placer     placement.PlacementEngine
	Ids        idassign.IdAssigner
	Exec       texec.Executor
	Metrics    *metrics.Sink
	Log        *simlog.Logger
	MasterSeed int64
}

func New(cfg Config) *Provider {
	if cfg.Exec == nil {
		cfg.Exec = texec.Inline{}
	}
	if cfg.Log == nil {
		cfg.Log = simlog.Default()
	}
	return &Provider{
		idx:          clusterstate.NewNodeIndex(),
		props:        propset.New(),
		live:         clusterstate.NewLiveNodeSet(),
		nodes:        cfg.Nodes,
		store:        cfg.Store,
		placer:       cfg.Placer,
		ids:          cfg.Ids,
		exec:         cfg.Exec,
		met:          cfg.Metrics,
		log:          cfg.Log,
		masterSeed:   cfg.MasterSeed,
		history:      newSnapshotHistory(),
		lastStateVer: -1,
		lastPropsVer: -1,
	}
}

// electionRNG derives a *rand.Rand for collection name seeded from the
// master seed, using the same fnv64a-xor technique the pack's
// inference simulator uses to derive independent, reproducible
// per-subsystem seeds from one master seed.
func (p *Provider) electionRNG(collection string) *rand.Rand {
	return rand.New(rand.NewSource(p.masterSeed ^ int64(fnv64a(collection))))
}

func fnv64a(s string) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}

// Connect and Close are no-ops, present for interface conformance with
// a notional enclosing ClusterStateProvider (spec §6).
func (p *Provider) Connect() error { return nil }
func (p *Provider) Close() error   { return nil }

// ResolveAlias always fails: alias resolution is explicitly
// unsupported by this simulator (spec §7, §9).
func (p *Provider) ResolveAlias(alias string) ([]string, error) {
	return nil, ErrUnsupported
}

func (p *Provider) incrMutation(name string) {
	if p.met != nil {
		p.met.IncrMutation(name)
	}
}

// buildLocked returns the current ClusterState; the caller must already
// hold p.mu.
func (p *Provider) buildLocked() clusterstate.ClusterState {
	return clusterstate.Build(p.idx, p.props, p.live)
}

// ensureReplicaType defaults an empty replica.Type to NRT, matching the
// original's default replica type when callers don't specify one.
func ensureReplicaType(t replica.Type) replica.Type {
	if t == "" {
		return replica.NRT
	}
	return t
}

// backgroundElection submits an election over collections to the
// executor; failures are logged, never propagated, per spec §7's
// "asynchronously-scheduled election failures are logged and do not
// propagate."
func (p *Provider) backgroundElection(ctx context.Context, collections []string, publishFirst bool) {
	cols := append([]string(nil), collections...)
	err := p.exec.Submit(func() {
		if err := p.runElection(ctx, cols, publishFirst); err != nil {
			p.log.Warnf("election over %v failed: %v", cols, err)
		}
	})
	if err != nil {
		p.log.Warnf("failed to submit election over %v: %v", cols, err)
	}
}
