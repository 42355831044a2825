// Package waiter implements the PredicateWaiter (spec §4.5): polling a
// caller-supplied predicate against (live nodes, collection state) until
// it is satisfied, the collection no longer exists, a context is
// cancelled, or a timeout elapses. It is grounded on the teacher's
// lib/sync/wait Wait-with-timeout helper, but swaps the WaitGroup-plus-
// real-timer race for polling against an injected clock.TimeSource, so
// a simulated run never depends on wall-clock time.
package waiter

import (
	"context"
	"time"

	"github.com/parthiban-manickam/simcluster/clock"
	"github.com/parthiban-manickam/simcluster/clusterstate"
)

// pollInterval is the simulated polling cadence the original waits at
// between predicate re-checks.
const pollInterval = 50 * time.Millisecond

// Predicate inspects the live-node set and a collection snapshot and
// reports whether the condition being waited on now holds, matching the
// original's predicate(liveNodes, collectionState) shape.
type Predicate func(liveNodes []string, coll clusterstate.Collection) bool

// Shape returns a Predicate satisfied once the collection has exactly
// shards slices, each with exactly replicas replicas that are active
// and on live nodes (spec §4.5's shape(shards, replicas) helper).
func Shape(shards, replicas int) Predicate {
	return func(liveNodes []string, coll clusterstate.Collection) bool {
		if len(coll.Slices) != shards {
			return false
		}
		live := clusterstate.NewLiveNodeSet()
		for _, n := range liveNodes {
			live.Add(n)
		}
		for _, slice := range coll.Slices {
			active := 0
			for _, r := range slice.Replicas {
				if r.Active(live) {
					active++
				}
			}
			if active != replicas {
				return false
			}
		}
		return true
	}
}

// WaitError is returned by Wait when the predicate never became true
// before the simulated timeout elapsed or ctx was done, carrying the last-observed state for
// diagnostics. LastState is nil if the collection never existed.
type WaitError struct {
	LiveNodes []string
	LastState *clusterstate.Collection
}

func (e *WaitError) Error() string {
	return "waiter: predicate not satisfied before deadline"
}

// StateFunc returns the provider's current snapshot, typically
// sim.Provider.GetClusterState.
type StateFunc func() clusterstate.ClusterState

// Waiter polls a StateFunc against a Predicate using a clock.TimeSource
// rather than a real ticker.
type Waiter struct {
	clock clock.TimeSource
}

func New(ts clock.TimeSource) *Waiter {
	return &Waiter{clock: ts}
}

// Wait blocks until pred(liveNodes, collection) is true, collection no
// longer exists, ctx is cancelled, or the simulated clock's elapsed
// time reaches timeout. The deadline is measured against w.clock, never
// the wall clock, so a SimulatedClock caller controls termination
// entirely through Advance (spec §4.5, §5). ctx.Done() remains a second,
// independent way to abort the wait (genuine caller cancellation), but
// carries no timing semantics of its own. Wait returns nil on success
// (including "collection gone") and *WaitError on timeout or
// cancellation.
func (w *Waiter) Wait(ctx context.Context, stateFn StateFunc, collection string, timeout time.Duration, pred Predicate) error {
	check := func(state clusterstate.ClusterState) (done bool, last *clusterstate.Collection) {
		coll, ok := state.Collection(collection)
		if !ok {
			return true, nil
		}
		if pred(state.LiveNodes, coll) {
			return true, &coll
		}
		return false, &coll
	}

	state := stateFn()
	done, last := check(state)
	if done {
		return nil
	}

	deadline := w.clock.Now() + timeout
	for {
		select {
		case <-ctx.Done():
			return &WaitError{LiveNodes: state.LiveNodes, LastState: last}
		case <-w.clock.After(pollInterval):
			state = stateFn()
			done, last = check(state)
			if done {
				return nil
			}
			if w.clock.Now() >= deadline {
				return &WaitError{LiveNodes: state.LiveNodes, LastState: last}
			}
		}
	}
}
