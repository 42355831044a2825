package sim

import "errors"

// Precondition-violation sentinels (spec §7): caller bugs surfaced
// synchronously, state left unchanged.
var (
	ErrDuplicateCore      = errors.New("sim: core already in use")
	ErrNodeNotLive        = errors.New("sim: node is not live")
	ErrNodeAlreadyLive    = errors.New("sim: node is already live")
	ErrReplicaNotFound    = errors.New("sim: no such replica")
	ErrCollectionNotFound = errors.New("sim: no such collection")
	ErrUnsupported        = errors.New("sim: unsupported operation")
)
