package operations

import (
	"path/filepath"

	"github.com/vivtool/vivtool/pkg/config"
	"github.com/vivtool/vivtool/pkg/errors"
	"github.com/vivtool/vivtool/pkg/filesystem"
	"github.com/vivtool/vivtool/pkg/logging"
)

// exampleTemplate seeds a fresh template directory with a skeleton the
// user can grow; deploy merges only what the template defines.
const exampleTemplate = `{
  "vivaldi": {}
}
`

// InitConfigOptions overrides the config file location when non-empty
type InitConfigOptions struct {
	ConfigFile string
}

// InitConfigResult lists what was materialized
type InitConfigResult struct {
	Created []string
	Skipped []string
}

// InitConfig writes a starter configuration file and an example
// preference template with create-if-absent semantics: existing files are
// reported as skipped, never overwritten.
func InitConfig(env *Env, opts InitConfigOptions) (*InitConfigResult, error) {
	logger := logging.GetLogger("init")

	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = config.DefaultConfigFile()
	}

	content, err := config.GenerateConfigContent(env.Config)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "could not render starter config")
	}

	result := &InitConfigResult{}
	files := []struct {
		path string
		data []byte
	}{
		{configFile, []byte(content)},
		{env.Paths.PreferenceTemplatePath(), []byte(exampleTemplate)},
	}

	for _, f := range files {
		if filesystem.Exists(env.FS, f.path) {
			result.Skipped = append(result.Skipped, f.path)
			continue
		}
		if err := env.FS.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrWriteFailed,
				"could not create directory for %s", f.path)
		}
		if err := env.FS.WriteFile(f.path, f.data, 0644); err != nil {
			return nil, errors.Wrapf(err, errors.ErrWriteFailed, "could not write %s", f.path)
		}
		result.Created = append(result.Created, f.path)
	}

	logger.Info().
		Strs("created", result.Created).
		Strs("skipped", result.Skipped).
		Msg("Starter files materialized")
	return result, nil
}
