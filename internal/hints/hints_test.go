package hints

// ForBrowserConnect tests are not parallel: they use t.Setenv and replace
// the package-level IsInContainer.

import (
	"strings"
	"testing"
)

// withContainer fakes container detection for one test.
func withContainer(t *testing.T, in bool) {
	t.Helper()

	orig := IsInContainer
	t.Cleanup(func() { IsInContainer = orig })
	IsInContainer = func() bool { return in }
}

// clearCI unsets every CI marker.
func clearCI(t *testing.T) {
	t.Helper()

	for _, v := range ciVars {
		t.Setenv(v, "")
	}
}

// ---------------------------------------------------------------------------
// TestForBrowserConnect - Environment-dependent suggestions
// ---------------------------------------------------------------------------

func TestForBrowserConnect(t *testing.T) {
	tests := []struct {
		name        string
		container   bool
		ci          string
		noSandbox   string
		browserBin  string
		wantSandbox bool
		wantBin     bool
	}{
		{name: "CI", ci: "true", wantSandbox: true, wantBin: true},
		{name: "docker", container: true, wantSandbox: true, wantBin: true},
		{name: "sandbox already set", container: true, noSandbox: "1", wantBin: true},
		{name: "browser set", browserBin: "/usr/bin/chromium"},
		{name: "local without browser", wantBin: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withContainer(t, tt.container)
			clearCI(t)
			t.Setenv("CI", tt.ci)
			t.Setenv("ROD_NO_SANDBOX", tt.noSandbox)
			t.Setenv("ROD_BROWSER_BIN", tt.browserBin)

			hint := ForBrowserConnect()
			if got := strings.Contains(hint, "ROD_NO_SANDBOX"); got != tt.wantSandbox {
				t.Errorf("ROD_NO_SANDBOX hint = %v, want %v (%q)", got, tt.wantSandbox, hint)
			}
			if got := strings.Contains(hint, "ROD_BROWSER_BIN"); got != tt.wantBin {
				t.Errorf("ROD_BROWSER_BIN hint = %v, want %v (%q)", got, tt.wantBin, hint)
			}
			if !tt.wantSandbox && !tt.wantBin && hint != "" {
				t.Errorf("ForBrowserConnect() = %q, want empty", hint)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestStaticHints - Formatting of fixed hints
// ---------------------------------------------------------------------------

func TestStaticHints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "timeout", got: ForTimeout(), want: "--timeout"},
		{name: "output dir", got: ForOutputDirectory(), want: "writable"},
		{name: "style", got: ForStyleNotFound([]string{"default", "vertical"}), want: "available: default, vertical"},
		{name: "dialect", got: ForUnknownDialect([]string{"kakuyomu", "narou"}), want: "available: kakuyomu, narou"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if !strings.HasPrefix(tt.got, "\n  hint: ") {
				t.Errorf("hint %q lacks prefix", tt.got)
			}
			if !strings.Contains(tt.got, tt.want) {
				t.Errorf("hint %q missing %q", tt.got, tt.want)
			}
		})
	}
}

func TestForChoices_Empty(t *testing.T) {
	t.Parallel()

	if got := ForStyleNotFound(nil); got != "" {
		t.Errorf("ForStyleNotFound(nil) = %q, want empty", got)
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	got := ForConfigNotFound([]string{"novelconv.yaml", "/home/u/.config/go-novelconv/novelconv.yaml"})
	if !strings.Contains(got, "--config") || !strings.Contains(got, ".config/go-novelconv/novelconv.yaml") {
		t.Errorf("ForConfigNotFound() = %q", got)
	}

	if got := ForConfigNotFound(nil); strings.Contains(got, "create") {
		t.Errorf("ForConfigNotFound(nil) = %q, want no create suggestion", got)
	}
}
