package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProjectConfigMissingFileIsNotError(t *testing.T) {
	p, err := loadProjectConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.WorkspaceRoot != "" {
		t.Errorf("expected zero value, got %+v", p)
	}
}

func TestProjectConfigWriteAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	want := ProjectConfig{
		WorkspaceRoot:    "/repo",
		IndexRoot:        "/repo/.lattice",
		EnabledLanguages: []string{"go", "python"},
		ProjectConfigFiles: map[string][]string{
			"typescript": {"tsconfig.json"},
		},
	}
	if err := want.Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := loadProjectConfig(path)
	if err != nil {
		t.Fatalf("loadProjectConfig: %v", err)
	}
	if got.WorkspaceRoot != want.WorkspaceRoot || got.IndexRoot != want.IndexRoot {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if len(got.EnabledLanguages) != 2 {
		t.Errorf("got %v", got.EnabledLanguages)
	}
}

func TestProjectConfigSettingsConversion(t *testing.T) {
	p := ProjectConfig{
		WorkspaceRoot:    "/repo",
		EnabledLanguages: []string{"rust"},
		ProjectConfigFiles: map[string][]string{
			"typescript": {"tsconfig.json"},
		},
	}
	s := p.Settings()
	if s.WorkspaceRoot != "/repo" {
		t.Errorf("WorkspaceRoot = %q", s.WorkspaceRoot)
	}
	if len(s.EnabledLanguages) != 1 || string(s.EnabledLanguages[0]) != "rust" {
		t.Errorf("EnabledLanguages = %v", s.EnabledLanguages)
	}
	if len(s.ProjectConfigFiles["typescript"]) != 1 {
		t.Errorf("ProjectConfigFiles = %v", s.ProjectConfigFiles)
	}
}

func TestDatabaseConfigDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	want := "postgres://u:p@db:5432/n?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}

func TestGetEnvPrefersSetValue(t *testing.T) {
	t.Setenv("LATTICE_TEST_VAR", "set")
	if got := getEnv("LATTICE_TEST_VAR", "fallback"); got != "set" {
		t.Errorf("got %q", got)
	}
}

func TestGetEnvIntFallsBackOnUnparseable(t *testing.T) {
	t.Setenv("LATTICE_TEST_INT", "not-a-number")
	if got := getEnvInt("LATTICE_TEST_INT", 42); got != 42 {
		t.Errorf("got %d, want 42", got)
	}
}

func TestGetEnvBoolFallback(t *testing.T) {
	os.Unsetenv("LATTICE_TEST_BOOL_UNSET")
	if got := getEnvBool("LATTICE_TEST_BOOL_UNSET", true); got != true {
		t.Errorf("got %v, want true", got)
	}
}
