package sim

import (
	"context"
	"math/rand"

	"github.com/parthiban-manickam/simcluster/clusterstate"
	"github.com/parthiban-manickam/simcluster/replica"
)

// runElection implements the LeaderElector procedure (spec §4.4):
// optionally publish first, then for each named collection that still
// exists, re-elect a leader per slice lacking a live one. electionMu
// serializes concurrent calls, matching the original's implicit
// per-elector monitor. p.mu is also held for the whole election, so
// mutators wait until it finishes.
func (p *Provider) runElection(_ context.Context, collections []string, publishFirst bool) error {
	p.electionMu.Lock()
	defer p.electionMu.Unlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	if publishFirst {
		if err := p.publishStateLocked(); err != nil {
			return err
		}
	}

	state := p.buildLocked()
	for _, collName := range collections {
		coll, ok := state.Collection(collName)
		if !ok {
			continue
		}
		rng := p.electionRNG(collName)
		for shardName, slice := range coll.Slices {
			p.electSlice(collName, shardName, slice, rng)
		}
		if p.met != nil {
			p.met.IncrElection(collName, "", true)
		}
	}
	return nil
}

// electSlice re-elects shardName's leader if it lacks one whose node is
// live. It mutates the backing replica.Record directly in p.idx, since
// clusterstate.Slice only holds read-only views. The caller must hold
// p.mu and p.electionMu.
func (p *Provider) electSlice(collName, shardName string, slice clusterstate.Slice, rng *rand.Rand) {
	if leader, ok := slice.Leader(); ok && p.live.Has(leader.Node) {
		return
	}

	var candidates []*replica.Record
	for name := range slice.Replicas {
		_, record, ok := p.idx.FindByName(name)
		if !ok {
			panic("sim: replica " + name + " has no backing record (I2 violated)")
		}
		record.SetLeader(false)

		if record.State() == replica.Active && p.live.Has(record.Node) {
			candidates = append(candidates, record)
		} else if !p.live.Has(record.Node) {
			record.SetState(replica.Down)
		}
	}

	if len(candidates) == 0 {
		p.log.Infof("no eligible leader candidate for %s/%s", collName, shardName)
		return
	}

	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	candidates[0].SetLeader(true)
}
