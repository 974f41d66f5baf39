// Package diff selects which two preference documents to compare and
// renders a unified diff over their canonical forms, so reported
// differences reflect semantic content rather than key order or formatting.
package diff

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/vivtool/vivtool/pkg/backup"
	"github.com/vivtool/vivtool/pkg/document"
	"github.com/vivtool/vivtool/pkg/errors"
	"github.com/vivtool/vivtool/pkg/paths"
	"github.com/vivtool/vivtool/pkg/snapshot"
	"github.com/vivtool/vivtool/pkg/types"
)

// Target is one side of a comparison: a labeled raw document
type Target struct {
	Label string
	Data  []byte
}

// Result is a computed diff
type Result struct {
	From Target
	To   Target

	// Identical is true when the canonical forms are byte-identical;
	// Text is empty in that case.
	Identical bool
	Text      string
}

// Resolver locates comparison targets through the snapshot store and the
// backup guard.
type Resolver struct {
	fs        types.FS
	paths     *paths.Paths
	snapshots *snapshot.Store
	guard     *backup.Guard
}

// NewResolver creates a diff resolver
func NewResolver(fs types.FS, p *paths.Paths, store *snapshot.Store, guard *backup.Guard) *Resolver {
	return &Resolver{fs: fs, paths: p, snapshots: store, guard: guard}
}

// ResolveTargets picks the two documents to compare:
//
//	no refs:  original backup vs current live document
//	one ref:  snapshot n1 vs current live document
//	two refs: snapshot n1 vs snapshot n2
//
// The zero-ref baseline is always the pre-first-deploy backup; backups are
// never refreshed, so "original" and "last baseline" are the same artifact.
func (r *Resolver) ResolveTargets(profile types.Profile, refs []int) (Target, Target, error) {
	switch len(refs) {
	case 0:
		state := r.guard.State(profile)
		if state.Status != types.BackupPresent {
			return Target{}, Target{}, errors.Newf(errors.ErrNotFound,
				"profile %s has no backup yet; run deploy first", profile.Dir)
		}
		from, err := r.readTarget(state.Path, "backup (original)")
		if err != nil {
			return Target{}, Target{}, err
		}
		to, err := r.readLive(profile)
		if err != nil {
			return Target{}, Target{}, err
		}
		return from, to, nil

	case 1:
		from, err := r.readSnapshot(profile, refs[0])
		if err != nil {
			return Target{}, Target{}, err
		}
		to, err := r.readLive(profile)
		if err != nil {
			return Target{}, Target{}, err
		}
		return from, to, nil

	case 2:
		from, err := r.readSnapshot(profile, refs[0])
		if err != nil {
			return Target{}, Target{}, err
		}
		to, err := r.readSnapshot(profile, refs[1])
		if err != nil {
			return Target{}, Target{}, err
		}
		return from, to, nil

	default:
		return Target{}, Target{}, errors.Newf(errors.ErrInvalidInput,
			"diff takes at most two snapshot numbers, got %d", len(refs))
	}
}

// Compare resolves the targets and renders the unified diff
func (r *Resolver) Compare(profile types.Profile, refs []int) (Result, error) {
	from, to, err := r.ResolveTargets(profile, refs)
	if err != nil {
		return Result{}, err
	}
	return Render(from, to)
}

// Render canonicalizes both targets and produces the unified diff text.
// Byte-identical canonical forms yield Identical=true and no text.
func Render(from, to Target) (Result, error) {
	canonFrom, err := document.Canonical(from.Data)
	if err != nil {
		return Result{}, errors.Wrapf(err, errors.ErrMalformedInput,
			"%s is not a valid document", from.Label)
	}
	canonTo, err := document.Canonical(to.Data)
	if err != nil {
		return Result{}, errors.Wrapf(err, errors.ErrMalformedInput,
			"%s is not a valid document", to.Label)
	}

	result := Result{From: from, To: to}
	if string(canonFrom) == string(canonTo) {
		result.Identical = true
		return result, nil
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(canonFrom)),
		B:        difflib.SplitLines(string(canonTo)),
		FromFile: from.Label,
		ToFile:   to.Label,
		Context:  3,
	})
	if err != nil {
		return Result{}, errors.Wrap(err, errors.ErrInternal, "diff rendering failed")
	}
	result.Text = text
	return result, nil
}

func (r *Resolver) readLive(profile types.Profile) (Target, error) {
	return r.readTarget(r.paths.PreferencesPath(profile), "Preferences (current)")
}

func (r *Resolver) readSnapshot(profile types.Profile, number int) (Target, error) {
	ref, err := r.snapshots.Resolve(profile, number)
	if err != nil {
		return Target{}, err
	}
	label := fmt.Sprintf("snapshot %d (%s)", ref.Number, ref.Timestamp)
	return r.readTarget(ref.Path, label)
}

func (r *Resolver) readTarget(path, label string) (Target, error) {
	data, err := r.fs.ReadFile(path)
	if err != nil {
		return Target{}, errors.Wrapf(err, errors.ErrSourceMissing, "cannot read %s", path)
	}
	return Target{Label: label, Data: data}, nil
}
