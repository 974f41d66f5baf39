package operations

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vivtool/vivtool/pkg/config"
	"github.com/vivtool/vivtool/pkg/errors"
	"github.com/vivtool/vivtool/pkg/filesystem"
	"github.com/vivtool/vivtool/pkg/types"
	"github.com/vivtool/vivtool/pkg/ui/confirm"
)

func testEnv(t *testing.T, confirmer confirm.Confirmer) *Env {
	t.Helper()
	fs := filesystem.NewAfero(afero.NewMemMapFs())
	cfg := &config.Config{
		Browser: config.BrowserConfig{UserDataDir: "/vivaldi"},
		Templates: config.TemplatesConfig{
			Dir:         "/templates",
			Preferences: "Preferences.template",
			Bookmarks:   "Bookmarks.template",
			Menu:        "menu.json",
		},
	}
	env := NewEnv(fs, cfg, confirmer)
	tick := 0
	env.Clock = func() time.Time {
		tick++
		return time.Date(2026, 8, 25, 12, 0, tick, 0, time.UTC)
	}
	return env
}

func seedProfile(t *testing.T, env *Env, profile types.Profile, live string) {
	t.Helper()
	require.NoError(t, env.FS.MkdirAll(env.Paths.ProfileDir(profile), 0755))
	require.NoError(t, env.FS.WriteFile(env.Paths.PreferencesPath(profile), []byte(live), 0644))
}

func seedTemplate(t *testing.T, env *Env, content string) {
	t.Helper()
	require.NoError(t, env.FS.MkdirAll(env.Config.Templates.Dir, 0755))
	require.NoError(t, env.FS.WriteFile(env.Paths.PreferenceTemplatePath(), []byte(content), 0644))
}

func TestDeployMergesTemplateOverLive(t *testing.T) {
	env := testEnv(t, confirm.Always{})
	profile := types.ProfileForID(0)
	seedProfile(t, env, profile, `{"vivaldi":{"existing":"foo"},"untouched":true}`)
	seedTemplate(t, env, `{"vivaldi":{"existing":"overwritten","new":"bar"}}`)

	result, err := Deploy(env, DeployOptions{Profile: profile})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, env.Paths.BackupPath(profile), result.BackupPath)

	data, err := env.FS.ReadFile(env.Paths.PreferencesPath(profile))
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"vivaldi":{"existing":"overwritten","new":"bar"},"untouched":true}`,
		string(data))

	// The backup holds the pre-deploy bytes
	backup, err := env.FS.ReadFile(result.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, `{"vivaldi":{"existing":"foo"},"untouched":true}`, string(backup))
}

func TestDeployBackupNeverRefreshed(t *testing.T) {
	env := testEnv(t, confirm.Always{})
	profile := types.ProfileForID(0)
	seedProfile(t, env, profile, `{"v":"original"}`)
	seedTemplate(t, env, `{"t":1}`)

	_, err := Deploy(env, DeployOptions{Profile: profile})
	require.NoError(t, err)
	_, err = Deploy(env, DeployOptions{Profile: profile})
	require.NoError(t, err)

	backup, err := env.FS.ReadFile(env.Paths.BackupPath(profile))
	require.NoError(t, err)
	assert.Equal(t, `{"v":"original"}`, string(backup),
		"the backup must keep reflecting the state before the first deploy")
}

func TestDeployDeclinedLeavesLiveUntouched(t *testing.T) {
	env := testEnv(t, confirm.Scripted(false))
	profile := types.ProfileForID(0)
	live := `{"v":"before"}`
	seedProfile(t, env, profile, live)
	seedTemplate(t, env, `{"v":"after"}`)

	_, err := Deploy(env, DeployOptions{Profile: profile})
	require.Error(t, err)
	assert.True(t, errors.IsDeclined(err))

	data, readErr := env.FS.ReadFile(env.Paths.PreferencesPath(profile))
	require.NoError(t, readErr)
	assert.Equal(t, live, string(data), "declined deploy must be a no-op")
	assert.False(t, filesystem.Exists(env.FS, env.Paths.BackupPath(profile)),
		"no backup may be written for a declined deploy")
}

func TestDeployMissingTemplate(t *testing.T) {
	env := testEnv(t, confirm.Always{})
	profile := types.ProfileForID(0)
	seedProfile(t, env, profile, `{}`)

	_, err := Deploy(env, DeployOptions{Profile: profile})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSourceMissing))
}

func TestDeployMalformedLive(t *testing.T) {
	env := testEnv(t, confirm.Always{})
	profile := types.ProfileForID(0)
	seedProfile(t, env, profile, `{"broken":`)
	seedTemplate(t, env, `{}`)

	_, err := Deploy(env, DeployOptions{Profile: profile})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrMalformedInput))
}

func TestSnapshotAndList(t *testing.T) {
	env := testEnv(t, confirm.Always{})
	profile := types.ProfileForID(0)
	seedProfile(t, env, profile, `{"n":1}`)

	first, err := Snapshot(env, SnapshotOptions{Profile: profile})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Ref.Number)

	second, err := Snapshot(env, SnapshotOptions{Profile: profile})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Ref.Number)

	list, err := ListSnapshots(env, ListSnapshotsOptions{Profile: profile})
	require.NoError(t, err)
	require.Len(t, list.Snapshots, 2)
	assert.Equal(t, 1, list.Snapshots[0].Number)
	assert.Equal(t, 2, list.Snapshots[1].Number)
}

func TestRestoreFromSnapshot(t *testing.T) {
	env := testEnv(t, confirm.Always{})
	profile := types.ProfileForID(0)
	seedProfile(t, env, profile, `{"n":1}`)

	_, err := Snapshot(env, SnapshotOptions{Profile: profile})
	require.NoError(t, err)

	require.NoError(t, env.FS.WriteFile(env.Paths.PreferencesPath(profile), []byte(`{"n":2}`), 0644))

	result, err := Restore(env, RestoreOptions{
		Profile: profile,
		Ref:     types.RestoreRef{Number: 1},
	})
	require.NoError(t, err)

	data, err := env.FS.ReadFile(env.Paths.PreferencesPath(profile))
	require.NoError(t, err)
	assert.Equal(t, `{"n":1}`, string(data), "restore is byte-for-byte")

	safety, err := env.FS.ReadFile(result.SafetyPath)
	require.NoError(t, err)
	assert.Equal(t, `{"n":2}`, string(safety), "pre-restore state is preserved")
}

func TestRestoreOriginal(t *testing.T) {
	env := testEnv(t, confirm.Always{})
	profile := types.ProfileForID(0)
	seedProfile(t, env, profile, `{"v":"first"}`)
	seedTemplate(t, env, `{"v":"deployed"}`)

	_, err := Deploy(env, DeployOptions{Profile: profile})
	require.NoError(t, err)

	_, err = Restore(env, RestoreOptions{
		Profile: profile,
		Ref:     types.RestoreRef{Original: true},
	})
	require.NoError(t, err)

	data, err := env.FS.ReadFile(env.Paths.PreferencesPath(profile))
	require.NoError(t, err)
	assert.Equal(t, `{"v":"first"}`, string(data))
}

func TestRestoreOriginalWithoutBackup(t *testing.T) {
	env := testEnv(t, confirm.Always{})
	profile := types.ProfileForID(0)
	live := `{"v":1}`
	seedProfile(t, env, profile, live)

	_, err := Restore(env, RestoreOptions{
		Profile: profile,
		Ref:     types.RestoreRef{Original: true},
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrNotFound))

	data, readErr := env.FS.ReadFile(env.Paths.PreferencesPath(profile))
	require.NoError(t, readErr)
	assert.Equal(t, live, string(data), "a failed restore performs no writes")
	assert.False(t, filesystem.Exists(env.FS, env.Paths.PreRestorePath(profile)))
}

func TestRestoreDeclined(t *testing.T) {
	env := testEnv(t, confirm.Scripted(false))
	profile := types.ProfileForID(0)
	seedProfile(t, env, profile, `{"n":1}`)
	_, err := Snapshot(env, SnapshotOptions{Profile: profile})
	require.NoError(t, err)

	require.NoError(t, env.FS.WriteFile(env.Paths.PreferencesPath(profile), []byte(`{"n":2}`), 0644))

	_, err = Restore(env, RestoreOptions{Profile: profile, Ref: types.RestoreRef{Number: 1}})
	require.Error(t, err)
	assert.True(t, errors.IsDeclined(err))

	data, readErr := env.FS.ReadFile(env.Paths.PreferencesPath(profile))
	require.NoError(t, readErr)
	assert.Equal(t, `{"n":2}`, string(data))
	assert.False(t, filesystem.Exists(env.FS, env.Paths.PreRestorePath(profile)),
		"declining must not write the safety backup")
}

func TestDiffSavesArtifact(t *testing.T) {
	env := testEnv(t, confirm.Always{})
	profile := types.ProfileForID(0)
	seedProfile(t, env, profile, `{"n":1}`)
	_, err := Snapshot(env, SnapshotOptions{Profile: profile})
	require.NoError(t, err)

	require.NoError(t, env.FS.WriteFile(env.Paths.PreferencesPath(profile), []byte(`{"n":2}`), 0644))

	result, err := Diff(env, DiffOptions{Profile: profile, Refs: []int{1}, Save: true})
	require.NoError(t, err)
	assert.False(t, result.Result.Identical)
	assert.Equal(t, env.Paths.DiffPath(profile), result.OutputPath)

	saved, err := env.FS.ReadFile(result.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, result.Result.Text, string(saved))
}

func TestDiffIdenticalSavesNothing(t *testing.T) {
	env := testEnv(t, confirm.Always{})
	profile := types.ProfileForID(0)
	seedProfile(t, env, profile, `{"a":1,"b":2}`)
	_, err := Snapshot(env, SnapshotOptions{Profile: profile})
	require.NoError(t, err)

	// Same content, reordered
	require.NoError(t, env.FS.WriteFile(env.Paths.PreferencesPath(profile), []byte(`{"b":2,"a":1}`), 0644))

	result, err := Diff(env, DiffOptions{Profile: profile, Refs: []int{1}, Save: true})
	require.NoError(t, err)
	assert.True(t, result.Result.Identical)
	assert.Empty(t, result.OutputPath)
	assert.False(t, filesystem.Exists(env.FS, env.Paths.DiffPath(profile)))
}

func TestExportScenario(t *testing.T) {
	env := testEnv(t, confirm.Always{})
	profile := types.ProfileForID(0)
	seedProfile(t, env, profile, `{"vivaldi":{"homepage":"https://x"}}`)
	seedTemplate(t, env, `{"vivaldi":{"homepage":"","extra":true}}`)

	result, err := Export(env, ExportOptions{Profile: profile})
	require.NoError(t, err)

	data, err := env.FS.ReadFile(result.Path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"vivaldi":{"homepage":"https://x"}}`, string(data),
		"keys absent from live are omitted, not filled from the template")
}

func TestExportDeclinedOverwrite(t *testing.T) {
	env := testEnv(t, confirm.Scripted(false))
	profile := types.ProfileForID(0)
	seedProfile(t, env, profile, `{"a":1}`)
	seedTemplate(t, env, `{"a":0}`)

	existing := `{"old":"export"}`
	require.NoError(t, env.FS.WriteFile(env.Paths.ExportPath(), []byte(existing), 0644))

	_, err := Export(env, ExportOptions{Profile: profile})
	require.Error(t, err)
	assert.True(t, errors.IsDeclined(err))

	data, readErr := env.FS.ReadFile(env.Paths.ExportPath())
	require.NoError(t, readErr)
	assert.Equal(t, existing, string(data))
}

func TestReplaceBookmarks(t *testing.T) {
	env := testEnv(t, confirm.Always{})
	profile := types.ProfileForID(0)
	seedProfile(t, env, profile, `{}`)
	require.NoError(t, env.FS.MkdirAll(env.Config.Templates.Dir, 0755))
	require.NoError(t, env.FS.WriteFile(env.Paths.BookmarksTemplatePath(),
		[]byte(`{"roots":{"bookmark_bar":{}}}`), 0644))
	require.NoError(t, env.FS.WriteFile(env.Paths.BookmarksPath(profile),
		[]byte(`{"roots":{"old":true}}`), 0644))

	result, err := ReplaceBookmarks(env, ReplaceOptions{Profile: profile})
	require.NoError(t, err)
	assert.Equal(t, env.Paths.BookmarksBackupPath(profile), result.BackupPath)

	data, err := env.FS.ReadFile(env.Paths.BookmarksPath(profile))
	require.NoError(t, err)
	assert.Equal(t, `{"roots":{"bookmark_bar":{}}}`, string(data))

	backup, err := env.FS.ReadFile(result.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, `{"roots":{"old":true}}`, string(backup))
}

func TestReplaceMenuMaterializesMissingFile(t *testing.T) {
	env := testEnv(t, confirm.Always{})
	profile := types.ProfileForID(0)
	seedProfile(t, env, profile, `{}`)
	require.NoError(t, env.FS.MkdirAll(env.Config.Templates.Dir, 0755))
	require.NoError(t, env.FS.WriteFile(env.Paths.MenuTemplatePath(),
		[]byte(`{"mainmenu":[]}`), 0644))

	result, err := ReplaceMenu(env, ReplaceOptions{Profile: profile})
	require.NoError(t, err)
	assert.Empty(t, result.BackupPath, "no backup when the live file did not exist")

	data, err := env.FS.ReadFile(env.Paths.MenuPath(profile))
	require.NoError(t, err)
	assert.Equal(t, `{"mainmenu":[]}`, string(data))
}

func TestProfileLifecycle(t *testing.T) {
	env := testEnv(t, confirm.Always{})
	require.NoError(t, env.FS.MkdirAll(env.Paths.UserDataDir(), 0755))
	require.NoError(t, env.FS.WriteFile(env.Paths.LocalStatePath(),
		[]byte(`{"profile":{"info_cache":{"Default":{"name":"Person 1"}}}}`), 0644))

	created, err := CreateProfile(env, CreateProfileOptions{Name: "Work"})
	require.NoError(t, err)
	assert.Equal(t, "Profile 1", created.Profile.Dir)

	list, err := ListProfiles(env)
	require.NoError(t, err)
	require.Len(t, list.Profiles, 2)

	_, err = DeleteProfile(env, DeleteProfileOptions{Profile: created.Profile})
	require.NoError(t, err)

	list, err = ListProfiles(env)
	require.NoError(t, err)
	require.Len(t, list.Profiles, 1)
	assert.Equal(t, "Default", list.Profiles[0].Dir)
}

func TestDeleteDefaultProfileRejected(t *testing.T) {
	env := testEnv(t, confirm.Always{})
	_, err := DeleteProfile(env, DeleteProfileOptions{Profile: types.ProfileForID(0)})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInvalidInput))
}

func TestClean(t *testing.T) {
	env := testEnv(t, confirm.Always{})
	profile := types.ProfileForID(0)
	seedProfile(t, env, profile, `{"n":1}`)
	seedTemplate(t, env, `{"t":1}`)

	_, err := Deploy(env, DeployOptions{Profile: profile})
	require.NoError(t, err)
	_, err = Snapshot(env, SnapshotOptions{Profile: profile})
	require.NoError(t, err)
	_, err = Snapshot(env, SnapshotOptions{Profile: profile})
	require.NoError(t, err)

	result, err := Clean(env, CleanOptions{Profile: profile})
	require.NoError(t, err)
	assert.Len(t, result.Archived, 3, "two snapshots and one backup")
	assert.True(t, filesystem.Exists(env.FS, result.ArchivePath))

	// Artifacts are gone, the live document survives
	assert.False(t, filesystem.Exists(env.FS, env.Paths.BackupPath(profile)))
	assert.True(t, filesystem.Exists(env.FS, env.Paths.PreferencesPath(profile)))

	// Nothing left to clean
	_, err = Clean(env, CleanOptions{Profile: profile})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrNotFound))
}

func TestInitConfigCreateIfAbsent(t *testing.T) {
	env := testEnv(t, confirm.Always{})
	configFile := "/conf/vivtool.toml"

	result, err := InitConfig(env, InitConfigOptions{ConfigFile: configFile})
	require.NoError(t, err)
	assert.Len(t, result.Created, 2)
	assert.Empty(t, result.Skipped)

	// Second run skips everything and overwrites nothing
	require.NoError(t, env.FS.WriteFile(env.Paths.PreferenceTemplatePath(), []byte(`{"mine":1}`), 0644))
	result, err = InitConfig(env, InitConfigOptions{ConfigFile: configFile})
	require.NoError(t, err)
	assert.Empty(t, result.Created)
	assert.Len(t, result.Skipped, 2)

	data, err := env.FS.ReadFile(env.Paths.PreferenceTemplatePath())
	require.NoError(t, err)
	assert.Equal(t, `{"mine":1}`, string(data))
}
