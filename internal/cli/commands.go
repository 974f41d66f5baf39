// Package cli wires the cobra command tree to the operations layer. Each
// command parses its flags and arguments, builds the operation environment,
// and renders the result; all behavior lives in pkg/operations.
package cli

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/vivtool/vivtool/internal/version"
	"github.com/vivtool/vivtool/pkg/config"
	"github.com/vivtool/vivtool/pkg/errors"
	"github.com/vivtool/vivtool/pkg/filesystem"
	"github.com/vivtool/vivtool/pkg/logging"
	"github.com/vivtool/vivtool/pkg/operations"
	"github.com/vivtool/vivtool/pkg/types"
	"github.com/vivtool/vivtool/pkg/ui/confirm"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var (
		verbosity  int
		yes        bool
		configFile string
		profileID  int
		profileDir string
	)

	rootCmd := &cobra.Command{
		Use:   "vivtool",
		Short: "Manage Vivaldi profile configuration from versionable templates",
		Long: `vivtool deploys preference, bookmark and menu templates into Vivaldi
profiles, keeps numbered snapshots of the live Preferences file, and can
diff, restore and export profile state. Every mutation is staged and
renamed into place; the pre-deploy original is backed up exactly once.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "Answer yes to every confirmation prompt")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: XDG config dir)")
	rootCmd.PersistentFlags().IntVar(&profileID, "profile", 0, "Profile number (0 = Default, n = Profile n)")
	rootCmd.PersistentFlags().StringVar(&profileDir, "profile-dir", "", "Profile directory name (overrides --profile)")

	buildEnv := func() (*operations.Env, error) {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		var confirmer confirm.Confirmer
		if yes {
			confirmer = confirm.Always{}
		} else {
			confirmer = confirm.NewConsole()
		}
		return operations.NewEnv(filesystem.NewOS(), cfg, confirmer), nil
	}

	selectedProfile := func() types.Profile {
		if profileDir != "" {
			return types.ProfileForDir(profileDir)
		}
		return types.ProfileForID(profileID)
	}

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newDeployCmd(buildEnv, selectedProfile))
	rootCmd.AddCommand(newSnapshotCmd(buildEnv, selectedProfile))
	rootCmd.AddCommand(newSnapshotsCmd(buildEnv, selectedProfile))
	rootCmd.AddCommand(newRestoreCmd(buildEnv, selectedProfile))
	rootCmd.AddCommand(newDiffCmd(buildEnv, selectedProfile))
	rootCmd.AddCommand(newExportCmd(buildEnv, selectedProfile))
	rootCmd.AddCommand(newBookmarksCmd(buildEnv, selectedProfile))
	rootCmd.AddCommand(newMenuCmd(buildEnv, selectedProfile))
	rootCmd.AddCommand(newProfilesCmd(buildEnv))
	rootCmd.AddCommand(newCreateProfileCmd(buildEnv))
	rootCmd.AddCommand(newDeleteProfileCmd(buildEnv))
	rootCmd.AddCommand(newCleanCmd(buildEnv, selectedProfile))
	rootCmd.AddCommand(newInitConfigCmd(buildEnv, &configFile))

	return rootCmd
}

type envFunc func() (*operations.Env, error)
type profileFunc func() types.Profile

// aborted absorbs a declined confirmation: the user said no, which is a
// normal outcome, not a command failure.
func aborted(err error) (bool, error) {
	if errors.IsDeclined(err) {
		fmt.Println("Aborted.")
		return true, nil
	}
	return false, err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including commit hash and build date`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("vivtool version %s\n", version.Version)
			if version.Commit != "" {
				fmt.Printf("Commit: %s\n", version.Commit)
			}
			if version.Date != "" {
				fmt.Printf("Built:  %s\n", version.Date)
			}
		},
	}
}

func newDeployCmd(env envFunc, profile profileFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "deploy",
		Short: "Merge the preference template into the live Preferences",
		Long: `Deploy merges your preference template over the profile's live
Preferences file. Template values win on conflicting keys, recursively for
nested objects; arrays and scalars are replaced wholesale. Everything the
live file defines outside the template is kept.

The first deploy backs up the untouched Preferences file; that backup is
never overwritten and can be restored with "vivtool restore original".`,
		Example: `  # Deploy to the default profile
  vivtool deploy

  # Deploy to Profile 2 without prompting
  vivtool deploy --profile 2 --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := env()
			if err != nil {
				return err
			}
			result, err := operations.Deploy(e, operations.DeployOptions{Profile: profile()})
			if done, err := aborted(err); done || err != nil {
				return err
			}
			if result.Changed {
				fmt.Printf("Deployed template into %s.\n", result.Profile.Dir)
			} else {
				fmt.Printf("Deployed template into %s (no effective changes).\n", result.Profile.Dir)
			}
			fmt.Printf("Original backup: %s\n", result.BackupPath)
			return nil
		},
	}
}

func newSnapshotCmd(env envFunc, profile profileFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Create a numbered snapshot of the live Preferences",
		Long: `Snapshot copies the profile's live Preferences file byte-for-byte into
a numbered snapshot. Numbers are monotonic and never reused, even after a
snapshot is archived away.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := env()
			if err != nil {
				return err
			}
			result, err := operations.Snapshot(e, operations.SnapshotOptions{Profile: profile()})
			if err != nil {
				return err
			}
			fmt.Printf("Created snapshot %d (%s).\n", result.Ref.Number, result.Ref.Timestamp)
			return nil
		},
	}
}

func newSnapshotsCmd(env envFunc, profile profileFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshots",
		Short: "List the profile's snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := env()
			if err != nil {
				return err
			}
			result, err := operations.ListSnapshots(e, operations.ListSnapshotsOptions{Profile: profile()})
			if err != nil {
				return err
			}
			if len(result.Snapshots) == 0 {
				fmt.Println("No snapshots.")
				return nil
			}
			for _, ref := range result.Snapshots {
				fmt.Printf("  %3d  %s\n", ref.Number, ref.Timestamp)
			}
			return nil
		},
	}
}

func newRestoreCmd(env envFunc, profile profileFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <n|original>",
		Short: "Restore the live Preferences from a snapshot or the original backup",
		Long: `Restore replaces the profile's live Preferences with the content of
snapshot <n>, or with the pre-first-deploy backup when given "original".
The current state is saved to a restore-safety file first, so an
accidental restore can itself be undone.`,
		Example: `  # Roll back to snapshot 3
  vivtool restore 3

  # Return to the state before the first deploy
  vivtool restore original`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ref types.RestoreRef
			if args[0] == "original" {
				ref.Original = true
			} else {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return errors.Newf(errors.ErrInvalidInput,
						"restore target must be a snapshot number or \"original\", got %q", args[0])
				}
				ref.Number = n
			}

			e, err := env()
			if err != nil {
				return err
			}
			result, err := operations.Restore(e, operations.RestoreOptions{Profile: profile(), Ref: ref})
			if done, err := aborted(err); done || err != nil {
				return err
			}
			fmt.Printf("Restored %s from %s.\n", result.Profile.Dir, result.SourcePath)
			fmt.Printf("Previous state saved to %s\n", result.SafetyPath)
			return nil
		},
	}
}

func newDiffCmd(env envFunc, profile profileFunc) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "diff [n1] [n2]",
		Short: "Compare preference documents",
		Long: `Diff renders a unified diff over canonically formatted documents, so
key order and whitespace never show up as changes.

With no arguments it compares the original backup against the live
Preferences. With one snapshot number it compares that snapshot against
the live Preferences. With two numbers it compares the two snapshots.`,
		Example: `  # What changed since the first deploy?
  vivtool diff

  # What changed since snapshot 2?
  vivtool diff 2

  # What changed between snapshots 2 and 5?
  vivtool diff 2 5`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			refs := make([]int, 0, len(args))
			for _, arg := range args {
				n, err := strconv.Atoi(arg)
				if err != nil || n < 1 {
					return errors.Newf(errors.ErrInvalidInput,
						"snapshot reference must be a positive number, got %q", arg)
				}
				refs = append(refs, n)
			}

			e, err := env()
			if err != nil {
				return err
			}
			result, err := operations.Diff(e, operations.DiffOptions{
				Profile: profile(),
				Refs:    refs,
				Save:    save,
			})
			if err != nil {
				return err
			}
			if result.Result.Identical {
				fmt.Printf("No differences between %s and %s.\n",
					result.Result.From.Label, result.Result.To.Label)
				return nil
			}
			fmt.Print(result.Result.Text)
			if result.OutputPath != "" {
				fmt.Printf("\nDiff saved to %s\n", result.OutputPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "output", false, "Also save the diff next to the Preferences file")
	return cmd
}

func newExportCmd(env envFunc, profile profileFunc) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export live preference values at the template's key paths",
		Long: `Export walks your preference template and extracts the live values at
every key path the template defines, producing a document shaped like the
template but carrying the profile's current values. Keys the live file
does not have are left out.

Use it to turn a hand-tuned profile back into a template.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := env()
			if err != nil {
				return err
			}
			result, err := operations.Export(e, operations.ExportOptions{
				Profile: profile(),
				Output:  output,
			})
			if done, err := aborted(err); done || err != nil {
				return err
			}
			fmt.Printf("Export written to %s\n", result.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: next to the template)")
	return cmd
}

func newBookmarksCmd(env envFunc, profile profileFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "bookmarks",
		Short: "Replace the profile's Bookmarks file with the template",
		Long: `Bookmarks replaces the profile's Bookmarks file wholesale with your
bookmarks template. The first replacement backs up the live file; the
backup is never refreshed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := env()
			if err != nil {
				return err
			}
			result, err := operations.ReplaceBookmarks(e, operations.ReplaceOptions{Profile: profile()})
			if done, err := aborted(err); done || err != nil {
				return err
			}
			fmt.Printf("Bookmarks replaced: %s\n", result.Path)
			if result.BackupPath != "" {
				fmt.Printf("Backup: %s\n", result.BackupPath)
			}
			return nil
		},
	}
}

func newMenuCmd(env envFunc, profile profileFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Replace the profile's menu file with the template",
		Long: `Menu replaces the profile's menu customization file with your menu
template. The live file may not exist yet; in that case it is simply
created and no backup is taken.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := env()
			if err != nil {
				return err
			}
			result, err := operations.ReplaceMenu(e, operations.ReplaceOptions{Profile: profile()})
			if done, err := aborted(err); done || err != nil {
				return err
			}
			fmt.Printf("Menu replaced: %s\n", result.Path)
			if result.BackupPath != "" {
				fmt.Printf("Backup: %s\n", result.BackupPath)
			}
			return nil
		},
	}
}

func newProfilesCmd(env envFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List profiles known to the browser's registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := env()
			if err != nil {
				return err
			}
			result, err := operations.ListProfiles(e)
			if err != nil {
				return err
			}
			for _, entry := range result.Profiles {
				if entry.Name != "" {
					fmt.Printf("  %-12s  %s\n", entry.Dir, entry.Name)
				} else {
					fmt.Printf("  %s\n", entry.Dir)
				}
			}
			return nil
		},
	}
}

func newCreateProfileCmd(env envFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "create-profile <name>",
		Short: "Register a new profile and create its directory",
		Long: `Create-profile adds a profile to the browser's registry under the
lowest unused "Profile <n>" directory and creates that directory. The
registry is backed up before its first mutation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := env()
			if err != nil {
				return err
			}
			result, err := operations.CreateProfile(e, operations.CreateProfileOptions{Name: args[0]})
			if err != nil {
				return err
			}
			fmt.Printf("Created profile %q in %s.\n", args[0], result.Profile.Dir)
			return nil
		},
	}
}

func newDeleteProfileCmd(env envFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-profile <id>",
		Short: "Remove a profile from the registry and delete its directory",
		Long: `Delete-profile removes profile <id> from the browser's registry and
deletes its directory with everything in it. The default profile (id 0)
cannot be deleted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id < 0 {
				return errors.Newf(errors.ErrInvalidInput,
					"profile id must be a non-negative number, got %q", args[0])
			}

			e, err := env()
			if err != nil {
				return err
			}
			result, err := operations.DeleteProfile(e, operations.DeleteProfileOptions{
				Profile: types.ProfileForID(id),
			})
			if done, err := aborted(err); done || err != nil {
				return err
			}
			fmt.Printf("Deleted profile %s.\n", result.Profile.Dir)
			return nil
		},
	}
}

func newCleanCmd(env envFunc, profile profileFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Archive all generated artifacts for the profile",
		Long: `Clean collects every artifact vivtool has written into the profile's
directory (snapshots, backups, safety backups, diff outputs) into one zip
archive and removes the originals. The live browser files are never
touched. Originals are only removed after the archive is verified.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := env()
			if err != nil {
				return err
			}
			result, err := operations.Clean(e, operations.CleanOptions{Profile: profile()})
			if err != nil {
				return err
			}
			fmt.Printf("Archived %d artifacts to %s\n", len(result.Archived), result.ArchivePath)
			return nil
		},
	}
}

func newInitConfigCmd(env envFunc, configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Write a starter config file and example template",
		Long: `Init-config writes a commented starter configuration file and an
example preference template. Existing files are never overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := env()
			if err != nil {
				return err
			}
			result, err := operations.InitConfig(e, operations.InitConfigOptions{ConfigFile: *configFile})
			if err != nil {
				return err
			}
			for _, path := range result.Created {
				fmt.Printf("  created  %s\n", path)
			}
			for _, path := range result.Skipped {
				fmt.Printf("  kept     %s\n", path)
			}
			return nil
		},
	}
}
