package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/gatekeeper/pkg/consts"
	"github.com/pseudomuto/gatekeeper/pkg/inifile"
	"gopkg.in/yaml.v3"
)

type (
	// Generator configures the migration CLI used to derive SQL.
	Generator struct {
		// Bin is the generator executable name or path
		Bin string `yaml:"bin,omitempty"`
	}

	// Linter configures the external SQL linter.
	Linter struct {
		// Bin is the linter executable name or path
		Bin string `yaml:"bin,omitempty"`
	}

	// Config is gatekeeper's own (optional) configuration. Everything has a
	// working default; a repo with no gatekeeper.yaml gets stock behavior.
	Config struct {
		// Generator configures the migration CLI
		Generator Generator `yaml:"generator"`

		// Linter configures the SQL linter
		Linter Linter `yaml:"linter"`

		// FrameworkConfig is the path to the migration framework's INI config,
		// read to locate the migrations directory
		FrameworkConfig string `yaml:"framework_config,omitempty"`

		// BaseBranch, when set, limits linting to files that do not exist at
		// the branch's tip (i.e. migrations new to this change)
		BaseBranch string `yaml:"base_branch,omitempty"`
	}
)

// Default returns the stock configuration used when no gatekeeper.yaml exists.
func Default() *Config {
	return &Config{
		Generator:       Generator{Bin: consts.DefaultGeneratorBin},
		Linter:          Linter{Bin: consts.DefaultLinterBin},
		FrameworkConfig: consts.DefaultFrameworkConfig,
	}
}

// LoadConfig parses a gatekeeper configuration from the provided io.Reader,
// applying defaults for anything left unset.
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal gatekeeper config")
	}

	if cfg.Generator.Bin == "" {
		cfg.Generator.Bin = consts.DefaultGeneratorBin
	}
	if cfg.Linter.Bin == "" {
		cfg.Linter.Bin = consts.DefaultLinterBin
	}
	if cfg.FrameworkConfig == "" {
		cfg.FrameworkConfig = consts.DefaultFrameworkConfig
	}

	return &cfg, nil
}

// LoadConfigFile loads a gatekeeper configuration from the specified path.
// A missing file is not an error: the defaults apply.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadConfig(f)
}

// FindMigrationsDir locates the migration versions directory from the
// framework's INI config: the script_location key of the [migrate] section,
// joined with "versions".
//
// Any failure along the way (missing file, unparseable INI, missing key, or
// the resolved path not being a directory) yields "": with no migrations
// directory there are simply no candidate files, which is never fatal.
func FindMigrationsDir(path string) string {
	file, err := inifile.ParseFile(path)
	if err != nil {
		return ""
	}

	location, ok := file.Lookup("migrate", "script_location")
	if !ok || location == "" {
		return ""
	}

	location = strings.TrimPrefix(location, "./")
	dir := filepath.Join(location, consts.VersionsDir)

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ""
	}

	return dir
}
