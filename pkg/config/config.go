package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/ritzau/ontology-explorer/pkg/logging"
)

// FileName is the optional config file read from the working directory
const FileName = "ontology-explorer.toml"

// EnvPrefix prefixes environment overrides, e.g. ONTOLOGY_EXPLORER_PORT=9090
const EnvPrefix = "ONTOLOGY_EXPLORER_"

// Graph export modes
const (
	ModeForest  = "forest"
	ModeTriples = "triples"
)

// Config holds all configuration for the application
type Config struct {
	Source     string `koanf:"source"` // empty selects the built-in sample
	Port       int    `koanf:"port"`
	Watch      bool   `koanf:"watch"`
	Query      string `koanf:"query"`
	Expand     bool   `koanf:"expand"`
	Reveal     bool   `koanf:"reveal"`
	Mode       string `koanf:"mode"`
	Verbosity  string `koanf:"verbosity"`
	VerboseCnt int    `koanf:"verbose"`
	JSONLogs   bool   `koanf:"json_logs"`
}

// Options tweaks where Load looks for layers; the zero value uses the defaults
type Options struct {
	File      string
	EnvPrefix string
}

// Load loads configuration from defaults, config file, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet) (*Config, error) {
	return LoadWith(f, Options{})
}

// LoadWith is Load with explicit file and environment locations
func LoadWith(f *pflag.FlagSet, opts Options) (*Config, error) {
	if opts.File == "" {
		opts.File = FileName
	}
	if opts.EnvPrefix == "" {
		opts.EnvPrefix = EnvPrefix
	}

	k := koanf.New(".")

	defaults := map[string]interface{}{
		"source":    "",
		"port":      8080,
		"watch":     false,
		"query":     "",
		"expand":    false,
		"reveal":    false,
		"mode":      ModeForest,
		"verbosity": "",
		"verbose":   0,
		"json_logs": false,
	}
	if err := k.Load(makeMapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// The file is optional
	_ = k.Load(file.Provider(opts.File), toml.Parser())

	// Keys contain underscores (json_logs), so env names map onto keys as-is
	if err := k.Load(env.Provider(opts.EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, opts.EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if f != nil {
		// Flags are dashed (--json-logs) while keys use underscores
		provider := posflag.ProviderWithFlag(f, ".", k, func(fl *pflag.Flag) (string, interface{}) {
			return strings.ReplaceAll(fl.Name, "-", "_"), posflag.FlagVal(f, fl)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings no command can run with
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeForest, ModeTriples:
	default:
		return fmt.Errorf("invalid mode %q: want %s or %s", c.Mode, ModeForest, ModeTriples)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Verbosity != "" {
		if _, err := logging.ParseLevel(c.Verbosity); err != nil {
			return err
		}
	}
	return nil
}

// LogLevel resolves verbosity: a named level wins over the -v count
func (c *Config) LogLevel() slog.Level {
	if c.Verbosity != "" {
		if level, err := logging.ParseLevel(c.Verbosity); err == nil {
			return level
		}
	}
	return logging.LevelFromVerbosity(c.VerboseCnt)
}

type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
