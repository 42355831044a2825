// Package replica defines the authoritative mutable replica entity owned
// by the cluster state provider, and the small enums that describe it.
package replica

// Type is the replication type of a replica.
type Type string

const (
	NRT  Type = "NRT"
	TLOG Type = "TLOG"
	PULL Type = "PULL"
)

// TypeInitial returns the lowercase first letter used in core names,
// e.g. "n" for NRT.
func (t Type) TypeInitial() string {
	if t == "" {
		return "n"
	}
	return string([]byte{t[0] + ('a' - 'A')})
}

// State is the lifecycle state of a replica.
type State string

const (
	Active         State = "ACTIVE"
	Down           State = "DOWN"
	Recovering     State = "RECOVERING"
	RecoveryFailed State = "RECOVERY_FAILED"
)

const (
	leaderKey = "leader"
	stateKey  = "state"
)

// Record is the authoritative, mutable replica entity. Node, Shard and
// Collection identify where the replica lives; Variables carries the
// free-form property bag, mirrored by the State/Leader accessors below
// so callers don't have to know the reserved key names.
type Record struct {
	Name       string
	Core       string
	Collection string
	Shard      string
	Type       Type
	Node       string
	Variables  map[string]any
}

// New creates a replica record with an initialized Variables map.
func New(name, core, collection, shard string, t Type, node string, vars map[string]any) *Record {
	if vars == nil {
		vars = make(map[string]any)
	}
	return &Record{
		Name:       name,
		Core:       core,
		Collection: collection,
		Shard:      shard,
		Type:       t,
		Node:       node,
		Variables:  vars,
	}
}

// State returns the replica's current lifecycle state.
func (r *Record) State() State {
	if v, ok := r.Variables[stateKey]; ok {
		if s, ok := v.(string); ok {
			return State(s)
		}
	}
	return ""
}

// SetState overwrites the replica's lifecycle state.
func (r *Record) SetState(s State) {
	r.Variables[stateKey] = string(s)
}

// IsLeader reports whether the leader variable is set and true.
func (r *Record) IsLeader() bool {
	v, ok := r.Variables[leaderKey]
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true"
	default:
		return false
	}
}

// SetLeader sets or clears the leader variable.
func (r *Record) SetLeader(isLeader bool) {
	if isLeader {
		r.Variables[leaderKey] = true
	} else {
		delete(r.Variables, leaderKey)
	}
}

// Clone returns a deep copy safe to hand to a reader outside the lock.
func (r *Record) Clone() *Record {
	vars := make(map[string]any, len(r.Variables))
	for k, v := range r.Variables {
		vars[k] = v
	}
	c := *r
	c.Variables = vars
	return &c
}
