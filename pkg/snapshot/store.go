// Package snapshot implements the numbered snapshot store. Snapshots are
// byte-for-byte copies of the live preference document, tagged with a
// per-profile monotonic sequence number and a creation timestamp.
package snapshot

import (
	"sort"
	"time"

	"github.com/vivtool/vivtool/pkg/errors"
	"github.com/vivtool/vivtool/pkg/filesystem"
	"github.com/vivtool/vivtool/pkg/logging"
	"github.com/vivtool/vivtool/pkg/paths"
	"github.com/vivtool/vivtool/pkg/types"
)

// Store creates and locates snapshot artifacts
type Store struct {
	fs    types.FS
	paths *paths.Paths

	// Now is the clock used to tag new snapshots; tests override it
	Now func() time.Time
}

// NewStore creates a snapshot store over the given filesystem
func NewStore(fs types.FS, p *paths.Paths) *Store {
	return &Store{fs: fs, paths: p, Now: time.Now}
}

// Create copies the live preference document into a new snapshot numbered
// max(existing)+1. Numbers are never reused, even after a snapshot is
// deleted: the next number comes from the maximum, not from counting.
func (s *Store) Create(profile types.Profile) (types.SnapshotRef, error) {
	logger := logging.GetLogger("snapshot")

	livePath := s.paths.PreferencesPath(profile)
	if !filesystem.Exists(s.fs, livePath) {
		return types.SnapshotRef{}, errors.Newf(errors.ErrSourceMissing,
			"profile %s has no %s file", profile.Dir, paths.PreferencesFile)
	}

	existing, err := s.List(profile)
	if err != nil {
		return types.SnapshotRef{}, err
	}
	next := 1
	if n := len(existing); n > 0 {
		next = existing[n-1].Number + 1
	}

	timestamp := s.Now().Format(paths.TimestampLayout)
	ref := types.SnapshotRef{
		Number:    next,
		Timestamp: timestamp,
		Path:      s.paths.SnapshotPath(profile, next, timestamp),
	}

	if filesystem.Exists(s.fs, ref.Path) {
		return types.SnapshotRef{}, errors.Newf(errors.ErrAmbiguousState,
			"snapshot artifact %s already exists", ref.Path)
	}
	if err := filesystem.CopyFile(s.fs, livePath, ref.Path); err != nil {
		return types.SnapshotRef{}, err
	}

	logger.Info().
		Str("profile", profile.Dir).
		Int("snapshot", ref.Number).
		Str("path", ref.Path).
		Msg("Snapshot created")
	return ref, nil
}

// List returns the profile's snapshots sorted by sequence number
func (s *Store) List(profile types.Profile) ([]types.SnapshotRef, error) {
	entries, err := s.fs.ReadDir(s.paths.ProfileDir(profile))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrProfileNotFound,
			"cannot list profile directory for %s", profile.Dir)
	}

	var refs []types.SnapshotRef
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		seq, timestamp, ok := paths.ParseSnapshotName(entry.Name())
		if !ok {
			continue
		}
		refs = append(refs, types.SnapshotRef{
			Number:    seq,
			Timestamp: timestamp,
			Path:      s.paths.SnapshotPath(profile, seq, timestamp),
		})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Number < refs[j].Number })
	return refs, nil
}

// Resolve finds the snapshot with the given number. Zero matches is
// NotFound; more than one match is data corruption and is reported as
// AmbiguousState, never silently resolved.
func (s *Store) Resolve(profile types.Profile, number int) (types.SnapshotRef, error) {
	refs, err := s.List(profile)
	if err != nil {
		return types.SnapshotRef{}, err
	}

	var matches []types.SnapshotRef
	for _, ref := range refs {
		if ref.Number == number {
			matches = append(matches, ref)
		}
	}

	switch len(matches) {
	case 0:
		return types.SnapshotRef{}, errors.Newf(errors.ErrNotFound,
			"profile %s has no snapshot %d", profile.Dir, number).
			WithDetail("profile", profile.Dir).
			WithDetail("snapshot", number)
	case 1:
		return matches[0], nil
	default:
		return types.SnapshotRef{}, errors.Newf(errors.ErrAmbiguousState,
			"profile %s has %d artifacts for snapshot %d", profile.Dir, len(matches), number)
	}
}
