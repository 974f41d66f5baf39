package operations

import (
	"github.com/vivtool/vivtool/pkg/document"
	"github.com/vivtool/vivtool/pkg/errors"
	"github.com/vivtool/vivtool/pkg/filesystem"
	"github.com/vivtool/vivtool/pkg/logging"
	"github.com/vivtool/vivtool/pkg/merge"
	"github.com/vivtool/vivtool/pkg/types"
)

// DeployOptions selects the profile to deploy the preference template into
type DeployOptions struct {
	Profile types.Profile
}

// DeployResult reports what the deploy touched
type DeployResult struct {
	Profile    types.Profile
	BackupPath string

	// Changed is false when the merge produced a document semantically
	// equal to the live one
	Changed bool
}

// Deploy merges the preference template over the profile's live
// Preferences. Template values win on conflicting key paths, recursively
// for objects, wholesale for arrays and scalars. The one-time backup is
// guaranteed before anything is written.
func Deploy(env *Env, opts DeployOptions) (*DeployResult, error) {
	logger := logging.GetLogger("deploy")
	defer logging.LogOperationStart(logger, "deploy")()

	templatePath := env.Paths.PreferenceTemplatePath()
	templateRaw, err := env.FS.ReadFile(templatePath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceMissing,
			"preference template %s does not exist", templatePath)
	}
	template, err := document.Parse(templateRaw)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrMalformedInput,
			"preference template %s", templatePath)
	}

	livePath := env.Paths.PreferencesPath(opts.Profile)
	liveRaw, err := env.FS.ReadFile(livePath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceMissing,
			"profile %s has no Preferences file", opts.Profile.Dir)
	}
	live, err := document.Parse(liveRaw)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrMalformedInput,
			"live Preferences of profile %s", opts.Profile.Dir)
	}

	ok, err := env.Confirm.Confirm(
		"Merge the preference template into profile " + opts.Profile.Dir + "?")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Newf(errors.ErrDeclined, "deploy to %s aborted", opts.Profile.Dir)
	}

	state, err := env.guard().Ensure(opts.Profile)
	if err != nil {
		return nil, err
	}

	merged := merge.Merge(live, template)
	rendered, err := document.Render(merged)
	if err != nil {
		return nil, err
	}
	if err := filesystem.AtomicWriteFile(env.FS, livePath, rendered); err != nil {
		return nil, err
	}

	changed := !document.Equal(live, merged)
	logger.Info().
		Str("profile", opts.Profile.Dir).
		Bool("changed", changed).
		Msg("Template deployed")

	return &DeployResult{
		Profile:    opts.Profile,
		BackupPath: state.Path,
		Changed:    changed,
	}, nil
}
