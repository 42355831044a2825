package sim

import lru "github.com/hashicorp/golang-lru"

// historySize bounds how many past CLUSTER_STATE publishes stay
// available for inspection; older ones are evicted.
const historySize = 32

// snapshotHistory caches the last few published CLUSTER_STATE payloads
// keyed by version, so a caller debugging a flaky test can look back at
// what was published just before a failure without re-deriving it from
// the live NodeIndex (which has since moved on). This is purely
// diagnostic: nothing in the mutator or read paths depends on it.
type snapshotHistory struct {
	cache *lru.Cache
}

func newSnapshotHistory() *snapshotHistory {
	c, err := lru.New(historySize)
	if err != nil {
		// Only fails for a non-positive size, which historySize never is.
		panic(err)
	}
	return &snapshotHistory{cache: c}
}

func (h *snapshotHistory) record(version int, wire []byte) {
	h.cache.Add(version, append([]byte(nil), wire...))
}

// PublishedStateAt returns the CLUSTER_STATE payload published at
// version, if it is still in the history window.
func (p *Provider) PublishedStateAt(version int) ([]byte, bool) {
	v, ok := p.history.cache.Get(version)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}
