package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/sitelog/internal/config"
	"github.com/Tiliavir/sitelog/internal/schedule"
)

func TestLoadWritesTemplateOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitelog", "config.yaml")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("template not written: %v", err)
	}
	if cfg.API.BaseURL != config.DefaultBaseURL || cfg.API.Timeout != config.DefaultTimeout {
		t.Errorf("api = %+v", cfg.API)
	}
	if cfg.RefreshInterval != time.Minute || !cfg.Notify.Enabled || cfg.Log.Level != "warn" {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.Periods) != 3 || cfg.Periods[1] != schedule.DefaultPeriods()[1] {
		t.Errorf("periods = %+v", cfg.Periods)
	}
	if strings.HasPrefix(cfg.DataDir, "~") {
		t.Errorf("data_dir not expanded: %q", cfg.DataDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate on template: %v", err)
	}
}

func TestLoadCustomFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
api:
  base_url: "https://tracker.example.com/api"
  timeout: 5s
employee:
  id: "42"
  name: "Asha"
timezone: "Asia/Kolkata"
data_dir: "` + filepath.ToSlash(filepath.Join(dir, "data")) + `"
notify:
  enabled: false
periods:
  - label: morning
    name: Morning
    start_hour: 8
    end_hour: 13
  - label: afternoon
    name: Afternoon
    start_hour: 13
    end_hour: 17
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://tracker.example.com/api" || cfg.API.Timeout != 5*time.Second {
		t.Errorf("api = %+v", cfg.API)
	}
	if cfg.Employee.ID != "42" || cfg.Employee.Name != "Asha" {
		t.Errorf("employee = %+v", cfg.Employee)
	}
	if cfg.Notify.Enabled {
		t.Error("notify.enabled = true, want false")
	}
	if len(cfg.Periods) != 2 || cfg.Periods[0].Label != "morning" || cfg.Periods[1].EndHour != 17 {
		t.Errorf("periods = %+v", cfg.Periods)
	}
	if cfg.Location().String() != "Asia/Kolkata" {
		t.Errorf("Location = %v", cfg.Location())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadSinglePeriod(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
periods:
  - label: day
    name: Day shift
    start_hour: 7
    end_hour: 19
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Periods) != 1 || cfg.Periods[0].Label != "day" || cfg.Periods[0].EndHour != 19 {
		t.Errorf("periods = %+v, want only the day shift", cfg.Periods)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("SITELOG_EMPLOYEE_ID", "77")
	t.Setenv("SITELOG_API_BASE_URL", "https://env.example.com")
	t.Setenv("SITELOG_TOKEN", "abc")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Employee.ID != "77" || cfg.API.BaseURL != "https://env.example.com" || cfg.Token != "abc" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadBrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(path); err == nil {
		t.Fatal("expected error for broken YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"defaults", func(*config.Config) {}, ""},
		{"gap between periods", func(c *config.Config) { c.Periods[1].StartHour = 13 }, "periods"},
		{"unknown timezone", func(c *config.Config) { c.Timezone = "Mars/Olympus" }, "timezone"},
		{"relative base url", func(c *config.Config) { c.API.BaseURL = "tracker/api" }, "api.base_url"},
		{"zero refresh", func(c *config.Config) { c.RefreshInterval = 0 }, "refresh_interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Errorf("Validate = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLocationFallback(t *testing.T) {
	cfg := config.Default()
	cfg.Timezone = "Not/AZone"
	if cfg.Location() != time.Local {
		t.Errorf("Location = %v, want time.Local", cfg.Location())
	}
}
