package convert

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/qobs-build/cdt2cmake/internal/cmake"
)

const configBaseName = "cdt2cmake"

// config files looked up in a project root, in order
var configNames = []string{
	configBaseName + ".toml",
	configBaseName + ".yaml",
	configBaseName + ".yml",
}

type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// FormatFromPath picks the config format from the file extension. Anything that
// isn't YAML is read as TOML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatTOML
}

// Config holds the per-project conversion settings
type Config struct {
	// CMakeMinimum is written to cmake_minimum_required
	CMakeMinimum string `toml:"cmake_minimum" yaml:"cmake_minimum" validate:"required"`
	// WrapThreshold is the number of sources a directory may have before they go one per line
	WrapThreshold int `toml:"wrap_threshold" yaml:"wrap_threshold" validate:"gte=0"`
	// Exclude lists doublestar patterns, relative to the project root, of sources to leave out
	Exclude []string `toml:"exclude" yaml:"exclude" validate:"dive,required"`
	// Select is a boolean expression deciding which CDT configurations are converted
	Select string `toml:"select" yaml:"select"`
	// RecordRevision adds the git HEAD of the project as a comment
	RecordRevision bool `toml:"record_revision" yaml:"record_revision"`

	selectProgram *vm.Program
}

// SelectEnv is what a select expression can see of one configuration
type SelectEnv struct {
	ID       string `expr:"id"`
	Name     string `expr:"name"`
	Artifact string `expr:"artifact"`
	Type     string `expr:"type"`
}

func DefaultConfig() *Config {
	return &Config{
		CMakeMinimum:  cmake.DefaultMinimumVersion,
		WrapThreshold: cmake.DefaultWrapThreshold,
	}
}

func ParseConfig(rdr io.Reader, format Format) (*Config, error) {
	cfg := DefaultConfig()

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(rdr)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		dec := toml.NewDecoder(rdr)
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				return nil, errors.New(derr.String())
			}
			var serr *toml.StrictMissingError
			if errors.As(err, &serr) {
				return nil, errors.New(serr.String())
			}
			return nil, err
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Select != "" {
		program, err := expr.Compile(cfg.Select, expr.Env(SelectEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("failed to compile select expression %q: %w", cfg.Select, err)
		}
		cfg.selectProgram = program
	}

	return cfg, nil
}

// ParseConfigFromFile parses and validates a config file from a filepath
func ParseConfigFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := ParseConfig(bufio.NewReader(f), FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadConfig reads the config of the project at root. A non-empty path overrides the
// lookup; without a config file the defaults are used.
func LoadConfig(root, path string) (*Config, error) {
	if path != "" {
		return ParseConfigFromFile(path)
	}
	for _, name := range configNames {
		candidate := filepath.Join(root, name)
		if _, err := os.Stat(candidate); err == nil {
			return ParseConfigFromFile(candidate)
		}
	}
	return DefaultConfig(), nil
}

// Selects reports whether the configuration described by env is converted
func (c *Config) Selects(env SelectEnv) (bool, error) {
	if c.selectProgram == nil {
		return true, nil
	}
	result, err := expr.Run(c.selectProgram, env)
	if err != nil {
		return false, fmt.Errorf("failed to run select expression %q: %w", c.Select, err)
	}
	matched, ok := result.(bool)
	return ok && matched, nil
}

func (c *Config) CMakeOptions() cmake.Options {
	return cmake.Options{
		MinimumVersion: c.CMakeMinimum,
		WrapThreshold:  c.WrapThreshold,
	}
}
