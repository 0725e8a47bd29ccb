// Package config loads trackermeta settings.
//
// Settings come from three layers, later ones winning:
//
//  1. compiled defaults ([Default])
//  2. a TOML file, by default <config dir>/trackermeta/config.toml
//  3. the environment: MODARCH_KEY sets the API key
//
// Command-line flags are applied on top by the CLI. A missing file is not
// an error. Example file:
//
//	api_key = "..."
//	kind    = "xml"
//	timeout = "15s"
//
//	[retry]
//	infinite   = false
//	attempts   = 5
//	base_delay = "500ms"
//	max_delay  = "20s"
//
//	[endpoints]
//	site = "https://modarchive.org/index.php"
//
//	[anchors]
//	overrides = "/home/me/.config/trackermeta/line-overrides"
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/trackermeta/pkg/anchor"
	"github.com/matzehuels/trackermeta/pkg/errors"
	"github.com/matzehuels/trackermeta/pkg/httputil"
	"github.com/matzehuels/trackermeta/pkg/integrations"
	"github.com/matzehuels/trackermeta/pkg/integrations/modarchive"
)

// EnvAPIKey names the environment variable holding the API key.
const EnvAPIKey = "MODARCH_KEY"

// FileName is the config file name inside the config directory.
const FileName = "config.toml"

const appName = "trackermeta"

// Duration is a time.Duration read from strings such as "1.5s".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Retry mirrors [httputil.Policy] in file form.
type Retry struct {
	Infinite  bool     `toml:"infinite"`
	Attempts  int      `toml:"attempts"`
	BaseDelay Duration `toml:"base_delay"`
	MaxDelay  Duration `toml:"max_delay"`
}

// Anchors points at the line-overrides file. An empty path means the
// platform default.
type Anchors struct {
	Overrides string `toml:"overrides"`
}

// Config holds all settings.
type Config struct {
	APIKey    string               `toml:"api_key"`
	Kind      string               `toml:"kind"`
	Timeout   Duration             `toml:"timeout"`
	UserAgent string               `toml:"user_agent"`
	Retry     Retry                `toml:"retry"`
	Endpoints modarchive.Endpoints `toml:"endpoints"`
	Anchors   Anchors              `toml:"anchors"`
}

// Default returns the compiled settings.
func Default() Config {
	p := httputil.DefaultPolicy()
	return Config{
		Timeout: Duration{integrations.DefaultTimeout},
		Retry: Retry{
			Attempts:  p.Attempts,
			BaseDelay: Duration{p.BaseDelay},
			MaxDelay:  Duration{p.MaxDelay},
		},
		Endpoints: modarchive.DefaultEndpoints(),
	}
}

// DefaultPath returns the platform location of the config file,
// e.g. ~/.config/trackermeta/config.toml on Linux.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, FileName), nil
}

// Load reads path over the defaults. A missing file yields [Default].
// Unknown keys are rejected so typos do not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), errors.Wrap(errors.ErrCodeConfig, err, "read %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Default(), errors.New(errors.ErrCodeConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment. getenv is usually
// os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if k := strings.TrimSpace(getenv(EnvAPIKey)); k != "" {
		c.APIKey = k
	}
}

// Policy converts the retry section.
func (c Config) Policy() httputil.Policy {
	return httputil.Policy{
		Attempts:  c.Retry.Attempts,
		Infinite:  c.Retry.Infinite,
		BaseDelay: c.Retry.BaseDelay.Duration,
		MaxDelay:  c.Retry.MaxDelay.Duration,
	}
}

// OverridePath returns the line-overrides file to read.
func (c Config) OverridePath() (string, error) {
	if c.Anchors.Overrides != "" {
		return c.Anchors.Overrides, nil
	}
	return anchor.DefaultOverridePath()
}

// AnchorSet loads the anchor offsets. A malformed override file yields the
// compiled defaults together with the CONFIG error, which callers should
// report and otherwise ignore.
func (c Config) AnchorSet() (anchor.Set, error) {
	return anchor.Load(c.Anchors.Overrides)
}

// Options builds resolver options from the settings.
func (c Config) Options(anchors anchor.Set, logger *log.Logger) modarchive.Options {
	return modarchive.Options{
		APIKey:    c.APIKey,
		Kind:      c.Kind,
		Anchors:   anchors,
		Endpoints: c.Endpoints,
		Retry:     c.Policy(),
		Timeout:   c.Timeout.Duration,
		UserAgent: c.UserAgent,
		Logger:    logger,
	}
}
