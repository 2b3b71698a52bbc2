package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.HTTP.Port)
	}
	if cfg.Storage.Path != "mine_usage.txt" {
		t.Errorf("expected default path 'mine_usage.txt', got %q", cfg.Storage.Path)
	}
	if len(cfg.Sites) != 3 {
		t.Fatalf("expected 3 default sites, got %d", len(cfg.Sites))
	}

	want := map[string]float64{"Rosemont": 6000, "Sierrita": 27180, "Mission": 12590}
	for _, s := range cfg.Sites {
		if want[s.Name] != s.WaterLimitAcreFeet {
			t.Errorf("site %s: expected limit %f, got %f", s.Name, want[s.Name], s.WaterLimitAcreFeet)
		}
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 70000}, Storage: StorageConfig{Path: "x.txt"}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_Sites(t *testing.T) {
	tests := []struct {
		name  string
		sites []SiteConfig
	}{
		{"empty name", []SiteConfig{{Name: "", WaterLimitAcreFeet: 100}}},
		{"comma in name", []SiteConfig{{Name: "a,b", WaterLimitAcreFeet: 100}}},
		{"zero limit", []SiteConfig{{Name: "Rosemont", WaterLimitAcreFeet: 0}}},
		{"negative limit", []SiteConfig{{Name: "Rosemont", WaterLimitAcreFeet: -5}}},
		{"duplicate", []SiteConfig{
			{Name: "Rosemont", WaterLimitAcreFeet: 100},
			{Name: "Rosemont", WaterLimitAcreFeet: 200},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				HTTP:    HTTPConfig{Port: 8080},
				Storage: StorageConfig{Path: "x.txt"},
				Sites:   tt.sites,
			}
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("MINEWATCH_TEST_PATH", "/data/usage.txt")

	in := []byte("path: ${MINEWATCH_TEST_PATH}\nother: ${MINEWATCH_TEST_UNSET:-fallback}\n")
	out := string(expandEnvVars(in))

	want := "path: /data/usage.txt\nother: fallback\n"
	if out != want {
		t.Errorf("unexpected expansion:\ngot:  %q\nwant: %q", out, want)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "config")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	content := `
storage:
  path: custom_usage.txt
sites:
  - name: Rosemont
    water_limit_acre_feet: 6000
`
	if err := os.WriteFile(filepath.Join(cfgDir, "test.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldWD); err != nil {
			t.Fatalf("Chdir back: %v", err)
		}
	})

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Path != "custom_usage.txt" {
		t.Errorf("expected custom path, got %q", cfg.Storage.Path)
	}
	if len(cfg.Sites) != 1 {
		t.Errorf("expected configured sites to win over defaults, got %d", len(cfg.Sites))
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("expected defaulted port, got %d", cfg.HTTP.Port)
	}
}
