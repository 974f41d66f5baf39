// Package profile resolves profile identities and manages the browser's
// profile registry (the "Local State" document). Registry rewrites follow
// the same backup-before-mutate discipline as preference mutations.
package profile

import (
	"fmt"
	"sort"

	"github.com/vivtool/vivtool/pkg/document"
	"github.com/vivtool/vivtool/pkg/errors"
	"github.com/vivtool/vivtool/pkg/filesystem"
	"github.com/vivtool/vivtool/pkg/logging"
	"github.com/vivtool/vivtool/pkg/paths"
	"github.com/vivtool/vivtool/pkg/types"
)

// Entry is one profile known to the registry
type Entry struct {
	Dir  string
	Name string
}

// Registry reads and rewrites the Local State document
type Registry struct {
	fs    types.FS
	paths *paths.Paths
}

// NewRegistry creates a registry over the given filesystem
func NewRegistry(fs types.FS, p *paths.Paths) *Registry {
	return &Registry{fs: fs, paths: p}
}

// Load parses the registry document. A missing registry is SourceMissing;
// an unparseable one is RegistryInvalid and is never silently rebuilt.
func (r *Registry) Load() (types.Document, error) {
	path := r.paths.LocalStatePath()
	data, err := r.fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceMissing,
			"registry %s does not exist", path)
	}
	doc, err := document.Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRegistryInvalid,
			"registry %s is not a valid document", path)
	}
	return doc, nil
}

// List returns the registered profiles, Default first, then numbered
// profiles in order, then anything else alphabetically.
func (r *Registry) List() ([]Entry, error) {
	doc, err := r.Load()
	if err != nil {
		return nil, err
	}

	cache := infoCache(doc)
	entries := make([]Entry, 0, len(cache))
	for dir, meta := range cache {
		name := ""
		if m, ok := meta.(map[string]interface{}); ok {
			if n, ok := m["name"].(string); ok {
				name = n
			}
		}
		entries = append(entries, Entry{Dir: dir, Name: name})
	}

	sort.Slice(entries, func(i, j int) bool {
		return dirSortKey(entries[i].Dir) < dirSortKey(entries[j].Dir)
	})
	return entries, nil
}

// Create registers a new profile under the lowest unused "Profile <n>"
// directory, creates the directory, and rewrites the registry.
func (r *Registry) Create(name string) (types.Profile, error) {
	logger := logging.GetLogger("profile")

	doc, err := r.Load()
	if err != nil {
		return types.Profile{}, err
	}
	cache := infoCache(doc)

	n := 1
	for {
		candidate := types.ProfileForID(n)
		_, taken := cache[candidate.Dir]
		if !taken && !filesystem.Exists(r.fs, r.paths.ProfileDir(candidate)) {
			break
		}
		n++
	}
	profile := types.ProfileForID(n)

	if err := r.ensureBackup(); err != nil {
		return types.Profile{}, err
	}

	cache[profile.Dir] = map[string]interface{}{"name": name}
	setInfoCache(doc, cache)
	if err := r.write(doc); err != nil {
		return types.Profile{}, err
	}
	if err := r.fs.MkdirAll(r.paths.ProfileDir(profile), 0755); err != nil {
		return types.Profile{}, errors.Wrapf(err, errors.ErrWriteFailed,
			"could not create profile directory %s", profile.Dir)
	}

	logger.Info().Str("profile", profile.Dir).Str("name", name).Msg("Profile created")
	return profile, nil
}

// Delete removes a profile from the registry and deletes its directory
func (r *Registry) Delete(profile types.Profile) error {
	logger := logging.GetLogger("profile")

	doc, err := r.Load()
	if err != nil {
		return err
	}
	cache := infoCache(doc)
	if _, ok := cache[profile.Dir]; !ok {
		return errors.Newf(errors.ErrProfileNotFound,
			"profile %s is not in the registry", profile.Dir)
	}

	if err := r.ensureBackup(); err != nil {
		return err
	}

	delete(cache, profile.Dir)
	setInfoCache(doc, cache)
	if err := r.write(doc); err != nil {
		return err
	}
	if err := r.fs.RemoveAll(r.paths.ProfileDir(profile)); err != nil {
		return errors.Wrapf(err, errors.ErrWriteFailed,
			"could not remove profile directory %s", profile.Dir)
	}

	logger.Info().Str("profile", profile.Dir).Msg("Profile deleted")
	return nil
}

// ensureBackup writes the one-time registry backup before the first
// registry mutation, mirroring the preference backup guard.
func (r *Registry) ensureBackup() error {
	backupPath := r.paths.LocalStateBackupPath()
	if filesystem.Exists(r.fs, backupPath) {
		return nil
	}
	if err := filesystem.CopyFile(r.fs, r.paths.LocalStatePath(), backupPath); err != nil {
		return errors.Wrap(err, errors.ErrBackupFailed, "could not back up the profile registry")
	}
	return nil
}

func (r *Registry) write(doc types.Document) error {
	data, err := document.Render(doc)
	if err != nil {
		return err
	}
	return filesystem.AtomicWriteFile(r.fs, r.paths.LocalStatePath(), data)
}

func infoCache(doc types.Document) map[string]interface{} {
	prof, ok := doc["profile"].(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	cache, ok := prof["info_cache"].(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return cache
}

func setInfoCache(doc types.Document, cache map[string]interface{}) {
	prof, ok := doc["profile"].(map[string]interface{})
	if !ok {
		prof = map[string]interface{}{}
		doc["profile"] = prof
	}
	prof["info_cache"] = cache
}

// dirSortKey orders Default before numbered profiles before named dirs
func dirSortKey(dir string) string {
	if dir == "Default" {
		return "0"
	}
	var n int
	if _, err := fmt.Sscanf(dir, "Profile %d", &n); err == nil {
		return fmt.Sprintf("1%09d", n)
	}
	return "2" + dir
}
