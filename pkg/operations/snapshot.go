package operations

import (
	"github.com/vivtool/vivtool/pkg/types"
)

// SnapshotOptions selects the profile to snapshot
type SnapshotOptions struct {
	Profile types.Profile
}

// SnapshotResult carries the new snapshot reference
type SnapshotResult struct {
	Ref types.SnapshotRef
}

// Snapshot copies the live Preferences into a new numbered snapshot.
// Snapshots are read-only artifacts and need no confirmation.
func Snapshot(env *Env, opts SnapshotOptions) (*SnapshotResult, error) {
	ref, err := env.snapshots().Create(opts.Profile)
	if err != nil {
		return nil, err
	}
	return &SnapshotResult{Ref: ref}, nil
}

// ListSnapshotsOptions selects the profile to list
type ListSnapshotsOptions struct {
	Profile types.Profile
}

// ListSnapshotsResult holds the profile's snapshots in number order
type ListSnapshotsResult struct {
	Snapshots []types.SnapshotRef
}

// ListSnapshots returns the profile's snapshots sorted by sequence number
func ListSnapshots(env *Env, opts ListSnapshotsOptions) (*ListSnapshotsResult, error) {
	refs, err := env.snapshots().List(opts.Profile)
	if err != nil {
		return nil, err
	}
	return &ListSnapshotsResult{Snapshots: refs}, nil
}
