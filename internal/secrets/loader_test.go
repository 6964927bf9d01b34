package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("TEAM_MATCHER_TEST_KEY", "from-env")

	got, err := Load(Source{Name: "api key", Value: "inline", File: path, Env: "TEAM_MATCHER_TEST_KEY"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-file" {
		t.Fatalf("expected file value, got %q", got)
	}
}

func TestLoadValueThenEnv(t *testing.T) {
	t.Setenv("TEAM_MATCHER_TEST_KEY", " from-env ")

	got, err := Load(Source{Value: " inline ", Env: "TEAM_MATCHER_TEST_KEY"})
	if err != nil || got != "inline" {
		t.Fatalf("expected inline value, got %q (%v)", got, err)
	}

	got, err = Load(Source{Env: "TEAM_MATCHER_TEST_KEY"})
	if err != nil || got != "from-env" {
		t.Fatalf("expected env value, got %q (%v)", got, err)
	}
}

func TestLoadErrors(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(empty, []byte("   "), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("TEAM_MATCHER_UNSET_KEY", "")

	tests := []struct {
		name string
		src  Source
		want string
	}{
		{name: "missing file", src: Source{Name: "api key", File: filepath.Join(t.TempDir(), "nope")}, want: "reading api key from file"},
		{name: "empty file", src: Source{Name: "api key", File: empty}, want: "is empty"},
		{name: "unset env", src: Source{Name: "api key", Env: "TEAM_MATCHER_UNSET_KEY"}, want: "set TEAM_MATCHER_UNSET_KEY"},
		{name: "nothing", src: Source{}, want: "secret is not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.src)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
