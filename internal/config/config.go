// Package config loads the settings of the dada command line.
//
// Sources are layered, later ones win:
//  1. built-in defaults
//  2. the [check] table of dada.toml, found by walking up from the start directory
//  3. DADA_* environment variables (DADA_MAX_DIAGNOSTICS -> max_diagnostics)
//  4. command line flags that were set explicitly
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "DADA_"

const (
	FormatPretty = "pretty"
	FormatJSON   = "json"

	ColorAuto = "auto"
	ColorOn   = "on"
	ColorOff  = "off"
)

// Config holds all settings of a run.
type Config struct {
	MaxDiagnostics int      `koanf:"max_diagnostics"`
	Format         string   `koanf:"format"`
	Color          string   `koanf:"color"`
	PathMode       string   `koanf:"path_mode"`
	Jobs           int      `koanf:"jobs"`
	Cache          bool     `koanf:"cache"`
	CacheDir       string   `koanf:"cache_dir"`
	Include        []string `koanf:"include"`
	Exclude        []string `koanf:"exclude"`

	// Filled by Load, not by any source.
	ProjectRoot  string `koanf:"-"`
	ManifestPath string `koanf:"-"`
	PackageName  string `koanf:"-"`
}

// Defaults returns the built-in layer.
func Defaults() map[string]any {
	return map[string]any{
		"max_diagnostics": 100,
		"format":          FormatPretty,
		"color":           ColorAuto,
		"path_mode":       "auto",
		"jobs":            0,
		"cache":           false,
		"cache_dir":       "",
		"include":         []string{},
		"exclude":         []string{},
	}
}

// LoadOptions select the sources of Load.
type LoadOptions struct {
	// StartDir is where the dada.toml search begins; "" means the working directory.
	StartDir string
	// Manifest, when set, is used instead of searching.
	Manifest string
	// Flags are applied last; only flags with Changed set count.
	Flags *pflag.FlagSet
	// NoEnv skips the environment layer.
	NoEnv bool
}

var errInvalid = errors.New("invalid config")

// listKeys are comma separated in the environment.
var listKeys = map[string]bool{"include": true, "exclude": true}

// Load builds the configuration from all layers.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. dada.toml
	manifest := opts.Manifest
	if manifest == "" {
		path, ok, err := FindManifest(opts.StartDir)
		if err != nil {
			return nil, err
		}
		if ok {
			manifest = path
		}
	}
	var pkgName string
	if manifest != "" {
		check, name, err := readManifest(manifest)
		if err != nil {
			return nil, err
		}
		pkgName = name
		if err := k.Load(confmap.Provider(check, "."), nil); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", manifest, err)
		}
	}

	// 3. DADA_* (DADA_CACHE_DIR -> cache_dir)
	if !opts.NoEnv {
		if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
			if listKeys[key] {
				return key, splitList(value)
			}
			return key, value
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load env vars: %w", err)
		}
	}

	// 4. Flags, only explicitly set ones
	if opts.Flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(opts.Flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.PackageName = pkgName
	if manifest != "" {
		cfg.ManifestPath = manifest
		cfg.ProjectRoot = filepath.Dir(manifest)
		if cfg.CacheDir != "" && !filepath.IsAbs(cfg.CacheDir) {
			cfg.CacheDir = filepath.Join(cfg.ProjectRoot, cfg.CacheDir)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type manifestFile struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Check map[string]any `toml:"check"`
}

func readManifest(path string) (check map[string]any, pkgName string, err error) {
	var m manifestFile
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, "", fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if m.Check == nil {
		m.Check = map[string]any{}
	}
	return m.Check, strings.TrimSpace(m.Package.Name), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks enumerations and ranges.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatPretty, FormatJSON:
	default:
		return fmt.Errorf("%w: format %q (want %s or %s)", errInvalid, c.Format, FormatPretty, FormatJSON)
	}
	switch c.Color {
	case ColorAuto, ColorOn, ColorOff:
	default:
		return fmt.Errorf("%w: color %q (want auto, on or off)", errInvalid, c.Color)
	}
	switch c.PathMode {
	case "auto", "absolute", "relative", "basename", "as-is":
	default:
		return fmt.Errorf("%w: path_mode %q", errInvalid, c.PathMode)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("%w: jobs must be >= 0, got %d", errInvalid, c.Jobs)
	}
	if c.MaxDiagnostics < 0 {
		return fmt.Errorf("%w: max_diagnostics must be >= 0, got %d", errInvalid, c.MaxDiagnostics)
	}
	return nil
}

// IsInvalid reports whether err came from Validate.
func IsInvalid(err error) bool {
	return errors.Is(err, errInvalid)
}

// UseColor resolves the color setting against whether output is a terminal.
func (c *Config) UseColor(isTerminal bool) bool {
	switch c.Color {
	case ColorOn:
		return true
	case ColorOff:
		return false
	default:
		return isTerminal
	}
}

// BindFlags registers the flags Load understands on fs.
func BindFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.Int("max-diagnostics", d["max_diagnostics"].(int), "maximum number of diagnostics to show (0 = all)")
	fs.String("format", d["format"].(string), "diagnostic output format (pretty|json)")
	fs.String("color", d["color"].(string), "colorize output (auto|on|off)")
	fs.String("path-mode", d["path_mode"].(string), "how to print file paths (auto|absolute|relative|basename|as-is)")
	fs.Int("jobs", 0, "parallel workers (0 = GOMAXPROCS)")
	fs.Bool("cache", false, "reuse diagnostics from the on-disk cache")
	fs.String("cache-dir", "", "cache directory (default: user cache dir)")
	fs.StringSlice("include", nil, "globs of files to check")
	fs.StringSlice("exclude", nil, "globs of files to skip")
}
