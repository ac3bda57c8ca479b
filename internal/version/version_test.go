package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	if strings.Contains(Version, "\x1b[") {
		t.Errorf("Version must be plain text, got %q", Version)
	}
}

func TestInfo(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	Version, GitCommit, BuildDate = "1.2.3", "", ""
	if got := Info(false); got != "dada 1.2.3\n" {
		t.Errorf("Info = %q", got)
	}

	GitCommit, BuildDate = "abc123def456", "2024-01-15T10:30:00Z"
	want := "dada 1.2.3\ncommit: abc123def456\nbuilt:  2024-01-15T10:30:00Z\n"
	if got := Info(false); got != want {
		t.Errorf("Info = %q, want %q", got, want)
	}
}

func TestColored(t *testing.T) {
	orig := color.NoColor
	t.Cleanup(func() { color.NoColor = orig })

	color.NoColor = true
	tests := []struct{ in, want string }{
		{"0.1.0", "0.1.0"},
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3-rc.1+build.123", "1.2.3-rc.1+build.123"},
		{"nightly", "nightly"},
	}
	for _, tt := range tests {
		if got := Colored(tt.in); got != tt.want {
			t.Errorf("Colored(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	color.NoColor = false
	if got := Colored("1.2.3"); !strings.Contains(got, "\x1b[") {
		t.Errorf("expected escape codes, got %q", got)
	}
}

// BenchmarkVersionAccess benchmarks accessing version variables
func BenchmarkVersionAccess(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Info(false)
	}
}
