package config

import (
	"fmt"
	"slices"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/dshills/inkstone/internal/config/loader"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "INKSTONE_"

// Config holds all inkstone settings.
type Config struct {
	Logging LoggingConfig `toml:"logging"`
	Editor  EditorConfig  `toml:"editor"`
	Output  OutputConfig  `toml:"output"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level"`
	// Format is json or console.
	Format string `toml:"format"`
}

// EditorConfig controls the selection engine.
type EditorConfig struct {
	// Normalization is the Unicode form applied to inserted text: nfc, nfd,
	// nfkc, nfkd or none.
	Normalization string `toml:"normalization"`
	// MaxLevel is the deepest list nesting level.
	MaxLevel int `toml:"maxLevel"`
}

// OutputConfig controls how the CLI prints documents.
type OutputConfig struct {
	// Format is markdown, html, text or json.
	Format string `toml:"format"`
}

var (
	levels         = []string{"debug", "info", "warn", "error"}
	logFormats     = []string{"json", "console"}
	normalizations = []string{"nfc", "nfd", "nfkc", "nfkd", "none"}
	outputFormats  = []string{"markdown", "html", "text", "json"}
)

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Editor:  EditorConfig{Normalization: "nfc", MaxLevel: 8},
		Output:  OutputConfig{Format: "markdown"},
	}
}

// Form returns the normalization form, or false for "none".
func (e EditorConfig) Form() (norm.Form, bool) {
	switch e.Normalization {
	case "nfc":
		return norm.NFC, true
	case "nfd":
		return norm.NFD, true
	case "nfkc":
		return norm.NFKC, true
	case "nfkd":
		return norm.NFKD, true
	default:
		return 0, false
	}
}

// Validate checks every enumerated and ranged setting.
func (c Config) Validate() error {
	checks := []struct {
		path    string
		value   string
		allowed []string
	}{
		{"logging.level", c.Logging.Level, levels},
		{"logging.format", c.Logging.Format, logFormats},
		{"editor.normalization", c.Editor.Normalization, normalizations},
		{"output.format", c.Output.Format, outputFormats},
	}
	for _, ch := range checks {
		if !slices.Contains(ch.allowed, ch.value) {
			return &ValidationError{Path: ch.path, Message: fmt.Sprintf("must be one of %v", ch.allowed), Value: ch.value}
		}
	}
	if c.Editor.MaxLevel < 1 || c.Editor.MaxLevel > 32 {
		return &ValidationError{Path: "editor.maxLevel", Message: "must be between 1 and 32", Value: c.Editor.MaxLevel}
	}
	return nil
}

// Option configures Load.
type Option func(*options)

type options struct {
	fs  loader.FileSystem
	env *loader.EnvLoader
}

// WithFS reads the config file from fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithEnv replaces the environment loader. nil disables the environment
// layer.
func WithEnv(env *loader.EnvLoader) Option {
	return func(o *options) {
		o.env = env
	}
}

// Load builds a Config from the defaults, the file at path (skipped when
// path is empty or the file is missing) and the environment.
func Load(path string, opts ...Option) (Config, error) {
	o := options{fs: loader.DefaultFS(), env: loader.NewEnvLoader(EnvPrefix)}
	for _, opt := range opts {
		opt(&o)
	}

	merged, err := toMap(Default())
	if err != nil {
		return Config{}, err
	}

	var layers []loader.Loader
	if path != "" {
		l, err := loader.ForPath(o.fs, path)
		if err != nil {
			return Config{}, err
		}
		layers = append(layers, l)
	}
	if o.env != nil {
		layers = append(layers, o.env)
	}
	for _, l := range layers {
		data, err := l.Load()
		if err != nil {
			return Config{}, err
		}
		merged = loader.DeepMerge(merged, data)
	}

	cfg, err := fromMap(merged)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func toMap(c Config) (map[string]any, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}
	return loader.ParseTOML("<defaults>", data)
}

// fromMap decodes merged settings through TOML so that file and
// environment values get the same type conversions.
func fromMap(m map[string]any) (Config, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return Config{}, fmt.Errorf("encoding settings: %w", err)
	}
	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return Config{}, &loader.ParseError{Path: "<merged>", Message: err.Error(), Err: err}
	}
	return c, nil
}
