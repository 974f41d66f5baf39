// Package config loads vivtool's layered configuration: embedded defaults,
// then the user config file, then VIVTOOL_* environment variables. The
// result is decoded once into a Config struct and passed by reference;
// there is no ambient global configuration.
package config

import (
	_ "embed"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/vivtool/vivtool/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvPrefix is the prefix for environment variable overrides, e.g.
// VIVTOOL_BROWSER_USER_DATA_DIR.
const EnvPrefix = "VIVTOOL_"

// Config is the resolved vivtool configuration
type Config struct {
	Browser   BrowserConfig   `koanf:"browser" toml:"browser"`
	Templates TemplatesConfig `koanf:"templates" toml:"templates"`
}

// BrowserConfig locates the browser's user data tree
type BrowserConfig struct {
	UserDataDir string `koanf:"user_data_dir" toml:"user_data_dir"`
}

// TemplatesConfig locates the user-maintained master documents
type TemplatesConfig struct {
	Dir         string `koanf:"dir" toml:"dir"`
	Preferences string `koanf:"preferences" toml:"preferences"`
	Bookmarks   string `koanf:"bookmarks" toml:"bookmarks"`
	Menu        string `koanf:"menu" toml:"menu"`
}

// PreferencesPath returns the absolute path of the preference template
func (c *Config) PreferencesPath() string {
	return filepath.Join(c.Templates.Dir, c.Templates.Preferences)
}

// BookmarksPath returns the absolute path of the bookmarks template
func (c *Config) BookmarksPath() string {
	return filepath.Join(c.Templates.Dir, c.Templates.Bookmarks)
}

// MenuPath returns the absolute path of the menu template
func (c *Config) MenuPath() string {
	return filepath.Join(c.Templates.Dir, c.Templates.Menu)
}

// DefaultConfigFile returns the conventional user config file location
func DefaultConfigFile() string {
	return filepath.Join(configHome(), "vivtool", "vivtool.toml")
}

// configHome honors a live XDG_CONFIG_HOME; adrg/xdg snapshots the
// environment at init, which breaks per-test overrides.
func configHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return xdg.ConfigHome
}

// Load builds the configuration. configFile overrides the conventional
// location when non-empty; a missing conventional file is not an error,
// but an explicitly named file must exist.
func Load(configFile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load built-in defaults")
	}

	explicit := configFile != ""
	if !explicit {
		configFile = DefaultConfigFile()
	}
	if err := k.Load(file.Provider(configFile), toml.Parser()); err != nil {
		if explicit {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config file %s", configFile)
		}
		// Conventional file is optional; parse errors in an existing file
		// must still surface.
		if !isNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse config file %s", configFile)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envToKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode configuration")
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// envToKey maps VIVTOOL_BROWSER_USER_DATA_DIR to browser.user_data_dir.
// Only the section separator becomes a dot; the rest stays underscored.
func envToKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range []string{"browser", "templates"} {
		if strings.HasPrefix(s, section+"_") {
			return section + "." + strings.TrimPrefix(s, section+"_")
		}
	}
	return s
}

// applyDefaults resolves the empty "platform default" values
func applyDefaults(cfg *Config) {
	if cfg.Browser.UserDataDir == "" {
		cfg.Browser.UserDataDir = filepath.Join(configHome(), "vivaldi")
	}
	if cfg.Templates.Dir == "" {
		cfg.Templates.Dir = filepath.Join(configHome(), "vivtool", "templates")
	}
}

func isNotExist(err error) bool {
	return stderrors.Is(err, fs.ErrNotExist)
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}
