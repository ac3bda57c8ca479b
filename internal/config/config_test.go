package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(LoadOptions{StartDir: t.TempDir(), NoEnv: true})
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.MaxDiagnostics)
	assert.Equal(t, FormatPretty, cfg.Format)
	assert.Equal(t, ColorAuto, cfg.Color)
	assert.False(t, cfg.Cache)
	assert.Empty(t, cfg.Include)
	assert.Empty(t, cfg.ManifestPath)
}

func TestLoadManifestFoundUpward(t *testing.T) {
	root := t.TempDir()
	manifest := writeManifest(t, root, `
[package]
name = "hello"

[check]
max_diagnostics = 7
format = "json"
cache = true
cache_dir = ".dada-cache"
exclude = ["*_gen.dada"]
`)
	nested := filepath.Join(root, "src", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := Load(LoadOptions{StartDir: nested, NoEnv: true})
	require.NoError(t, err)
	assert.Equal(t, manifest, cfg.ManifestPath)
	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, "hello", cfg.PackageName)
	assert.Equal(t, 7, cfg.MaxDiagnostics)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.True(t, cfg.Cache)
	assert.Equal(t, filepath.Join(root, ".dada-cache"), cfg.CacheDir, "relative cache_dir is anchored at the project root")
	assert.Equal(t, []string{"*_gen.dada"}, cfg.Exclude)
}

func TestLoadPrecedence(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[check]\nmax_diagnostics = 7\njobs = 2\nformat = \"json\"\n")

	t.Setenv("DADA_MAX_DIAGNOSTICS", "9")
	t.Setenv("DADA_EXCLUDE", "a.dada, b.dada")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--format=pretty", "--color", "off"}))

	cfg, err := Load(LoadOptions{StartDir: root, Flags: fs})
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.MaxDiagnostics, "env beats the manifest")
	assert.Equal(t, 2, cfg.Jobs, "manifest beats defaults")
	assert.Equal(t, FormatPretty, cfg.Format, "flags beat the manifest")
	assert.Equal(t, ColorOff, cfg.Color)
	assert.Equal(t, []string{"a.dada", "b.dada"}, cfg.Exclude)
}

func TestUnsetFlagsDoNotOverride(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[check]\nmax_diagnostics = 3\n")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	require.NoError(t, fs.Parse(nil))

	cfg, err := Load(LoadOptions{StartDir: root, Flags: fs, NoEnv: true})
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxDiagnostics)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
	}{
		{"format", "[check]\nformat = \"xml\"\n"},
		{"color", "[check]\ncolor = \"sometimes\"\n"},
		{"jobs", "[check]\njobs = -1\n"},
		{"path mode", "[check]\npath_mode = \"weird\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeManifest(t, root, tt.manifest)
			_, err := Load(LoadOptions{StartDir: root, NoEnv: true})
			require.Error(t, err)
			assert.True(t, IsInvalid(err), "%v", err)
		})
	}
}

func TestLoadBrokenManifest(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, "[check\n")
	_, err := Load(LoadOptions{Manifest: path, NoEnv: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse TOML")
	assert.False(t, IsInvalid(err))
}

func TestUseColor(t *testing.T) {
	cfg := &Config{Color: ColorAuto}
	assert.True(t, cfg.UseColor(true))
	assert.False(t, cfg.UseColor(false))
	cfg.Color = ColorOn
	assert.True(t, cfg.UseColor(false))
	cfg.Color = ColorOff
	assert.False(t, cfg.UseColor(true))
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "")
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	got, ok, err := FindProjectRoot(sub)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, root, got)
}
