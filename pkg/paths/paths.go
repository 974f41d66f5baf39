// Package paths centralizes the directory layout and artifact naming
// conventions. Every generated artifact has a fixed, predictable name so
// the housekeeping collaborator can find it by pattern.
package paths

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vivtool/vivtool/pkg/config"
	"github.com/vivtool/vivtool/pkg/types"
)

// Live document and registry file names, as the browser writes them
const (
	// PreferencesFile is the live preference document inside a profile dir
	PreferencesFile = "Preferences"

	// BookmarksFile is the live bookmarks document inside a profile dir
	BookmarksFile = "Bookmarks"

	// LocalStateFile is the profile registry at the user data root
	LocalStateFile = "Local State"

	// MenusDir is the profile subdirectory holding menu documents
	MenusDir = "menus"
)

// Artifact naming conventions. These are contracts with the cleanup
// collaborator and must not change between releases.
const (
	// BackupInfix tags the one-time pre-first-deploy backup:
	// Preferences.backup.<display suffix>
	BackupInfix = ".backup."

	// PreRestoreSuffix tags the safety copy written before each restore
	PreRestoreSuffix = ".prerestore"

	// DiffSuffix tags saved diff outputs
	DiffSuffix = ".diff"

	// TimestampLayout encodes snapshot creation time at second resolution
	TimestampLayout = "20060102-150405"

	// ArchivePrefix names housekeeping archives:
	// vivtool-artifacts.<timestamp>.zip
	ArchivePrefix = "vivtool-artifacts."
)

// Paths resolves every path the tool touches from one Config
type Paths struct {
	cfg *config.Config
}

// New builds a Paths instance from the loaded configuration
func New(cfg *config.Config) *Paths {
	return &Paths{cfg: cfg}
}

// UserDataDir is the browser's user data root
func (p *Paths) UserDataDir() string {
	return p.cfg.Browser.UserDataDir
}

// LocalStatePath is the profile registry document
func (p *Paths) LocalStatePath() string {
	return filepath.Join(p.cfg.Browser.UserDataDir, LocalStateFile)
}

// LocalStateBackupPath is the one-time registry backup
func (p *Paths) LocalStateBackupPath() string {
	return filepath.Join(p.cfg.Browser.UserDataDir, LocalStateFile+".backup")
}

// ProfileDir is the directory of one profile
func (p *Paths) ProfileDir(profile types.Profile) string {
	return filepath.Join(p.cfg.Browser.UserDataDir, profile.Dir)
}

// PreferencesPath is the live preference document of one profile
func (p *Paths) PreferencesPath(profile types.Profile) string {
	return filepath.Join(p.ProfileDir(profile), PreferencesFile)
}

// BookmarksPath is the live bookmarks document of one profile
func (p *Paths) BookmarksPath(profile types.Profile) string {
	return filepath.Join(p.ProfileDir(profile), BookmarksFile)
}

// MenuPath is the live menu document of one profile. The file keeps the
// template's base name.
func (p *Paths) MenuPath(profile types.Profile) string {
	return filepath.Join(p.ProfileDir(profile), MenusDir, p.cfg.Templates.Menu)
}

// PreferenceTemplatePath is the user-maintained preference template
func (p *Paths) PreferenceTemplatePath() string {
	return p.cfg.PreferencesPath()
}

// BookmarksTemplatePath is the user-maintained bookmarks template
func (p *Paths) BookmarksTemplatePath() string {
	return p.cfg.BookmarksPath()
}

// MenuTemplatePath is the user-maintained menu template
func (p *Paths) MenuTemplatePath() string {
	return p.cfg.MenuPath()
}

// SnapshotPath names a snapshot artifact: Preferences.<seq>.<timestamp>
func (p *Paths) SnapshotPath(profile types.Profile, seq int, timestamp string) string {
	name := fmt.Sprintf("%s.%d.%s", PreferencesFile, seq, timestamp)
	return filepath.Join(p.ProfileDir(profile), name)
}

// BackupPath names the one-time backup: Preferences.backup.<display suffix>
func (p *Paths) BackupPath(profile types.Profile) string {
	return filepath.Join(p.ProfileDir(profile), PreferencesFile+BackupInfix+profile.DisplaySuffix)
}

// BookmarksBackupPath names the one-time bookmarks backup
func (p *Paths) BookmarksBackupPath(profile types.Profile) string {
	return filepath.Join(p.ProfileDir(profile), BookmarksFile+BackupInfix+profile.DisplaySuffix)
}

// MenuBackupPath names the one-time menu backup, next to the live menu file
func (p *Paths) MenuBackupPath(profile types.Profile) string {
	return p.MenuPath(profile) + ".backup"
}

// PreRestorePath names the per-restore safety backup
func (p *Paths) PreRestorePath(profile types.Profile) string {
	return filepath.Join(p.ProfileDir(profile), PreferencesFile+PreRestoreSuffix)
}

// DiffPath names the saved diff output
func (p *Paths) DiffPath(profile types.Profile) string {
	return filepath.Join(p.ProfileDir(profile), PreferencesFile+DiffSuffix)
}

// ArchivePath names the housekeeping archive
func (p *Paths) ArchivePath(profile types.Profile, timestamp string) string {
	return filepath.Join(p.ProfileDir(profile), ArchivePrefix+timestamp+".zip")
}

// ExportPath names the template-scoped export output, written next to the
// preference template.
func (p *Paths) ExportPath() string {
	return p.cfg.PreferencesPath() + ".export"
}

// ParseSnapshotName extracts the sequence number and timestamp from a
// snapshot artifact name. Returns ok=false for anything that is not a
// snapshot artifact.
func ParseSnapshotName(name string) (seq int, timestamp string, ok bool) {
	rest, found := strings.CutPrefix(name, PreferencesFile+".")
	if !found {
		return 0, "", false
	}
	numStr, timestamp, found := strings.Cut(rest, ".")
	if !found || timestamp == "" {
		return 0, "", false
	}
	seq, err := strconv.Atoi(numStr)
	if err != nil || seq < 1 {
		return 0, "", false
	}
	return seq, timestamp, true
}

// IsArtifact reports whether a file name inside a profile directory is a
// vivtool-generated artifact (snapshot, backup, safety backup, or diff).
// The live Preferences file is never an artifact.
func IsArtifact(name string) bool {
	if _, _, ok := ParseSnapshotName(name); ok {
		return true
	}
	if strings.HasPrefix(name, PreferencesFile+BackupInfix) {
		return true
	}
	if strings.HasPrefix(name, BookmarksFile+BackupInfix) {
		return true
	}
	switch name {
	case PreferencesFile + PreRestoreSuffix, PreferencesFile + DiffSuffix:
		return true
	}
	return false
}
