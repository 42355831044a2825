// Package statestore defines the versioned key-value contract the
// provider uses to publish snapshots (spec §6, DistribStateManager),
// plus the fixed paths the provider writes to.
package statestore

import "errors"

// Fixed keys the provider publishes under (spec §6).
const (
	ClusterState = "CLUSTER_STATE"
	ClusterProps = "CLUSTER_PROPS"
)

// CreateVersion is the expectedVersion value meaning "this path must
// not already exist".
const CreateVersion = -1

// ErrNotFound is returned by GetData for a path with no data.
var ErrNotFound = errors.New("statestore: path not found")

// ErrBadVersion is returned by SetData when expectedVersion does not
// match the stored version (optimistic concurrency failure).
var ErrBadVersion = errors.New("statestore: version conflict")

// ErrExists is returned by SetData when expectedVersion is CreateVersion
// but the path already has data.
var ErrExists = errors.New("statestore: path already exists")

// VersionedData is a value paired with the version it was written at.
type VersionedData struct {
	Data    []byte
	Version int
}

// DistribStateManager is the external versioned store the provider
// publishes snapshots to. Implementations must make SetData an atomic
// compare-and-set keyed on expectedVersion.
type DistribStateManager interface {
	GetData(path string) (VersionedData, error)
	SetData(path string, data []byte, expectedVersion int) error
}
