package operations

import (
	"github.com/vivtool/vivtool/pkg/document"
	"github.com/vivtool/vivtool/pkg/errors"
	"github.com/vivtool/vivtool/pkg/filesystem"
	"github.com/vivtool/vivtool/pkg/logging"
	"github.com/vivtool/vivtool/pkg/merge"
	"github.com/vivtool/vivtool/pkg/types"
)

// ExportOptions selects the profile to export and an optional output path
type ExportOptions struct {
	Profile types.Profile

	// Output overrides the conventional export path when non-empty
	Output string
}

// ExportResult names the written export document
type ExportResult struct {
	Path string
}

// Export extracts the live values at the template's key paths into a new
// document shaped like the template. Keys absent from the live document
// are omitted; they do not fall back to template values. Re-creating an
// existing export file requires confirmation.
func Export(env *Env, opts ExportOptions) (*ExportResult, error) {
	logger := logging.GetLogger("export")

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

	liveRaw, err := env.FS.ReadFile(env.Paths.PreferencesPath(opts.Profile))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceMissing,
			"profile %s has no Preferences file", opts.Profile.Dir)
	}
	live, err := document.Parse(liveRaw)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrMalformedInput,
			"live Preferences of profile %s", opts.Profile.Dir)
	}

	outputPath := opts.Output
	if outputPath == "" {
		outputPath = env.Paths.ExportPath()
	}
	if filesystem.Exists(env.FS, outputPath) {
		ok, err := env.Confirm.Confirm("Overwrite existing export " + outputPath + "?")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Newf(errors.ErrDeclined, "export to %s aborted", outputPath)
		}
	}

	picked := merge.Pick(live, template)
	rendered, err := document.Render(picked)
	if err != nil {
		return nil, err
	}
	if err := filesystem.AtomicWriteFile(env.FS, outputPath, rendered); err != nil {
		return nil, err
	}

	logger.Info().
		Str("profile", opts.Profile.Dir).
		Str("path", outputPath).
		Msg("Template-scoped export written")
	return &ExportResult{Path: outputPath}, nil
}
