package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/loom/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Scheduler.YieldThreshold.Std() != time.Millisecond {
		t.Errorf("YieldThreshold = %v, want 1ms", cfg.Scheduler.YieldThreshold)
	}
	if cfg.Scheduler.IdleBudget.Std() != 12*time.Millisecond {
		t.Errorf("IdleBudget = %v, want 12ms", cfg.Scheduler.IdleBudget)
	}
	if cfg.Server.Address != DefaultAddress {
		t.Errorf("Server.Address = %q, want %q", cfg.Server.Address, DefaultAddress)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configYAML := `scheduler:
  yieldThreshold: 2ms
  frameInterval: 20ms
  queueSize: 8
server:
  address: ":9000"
  metrics: true
snapshot:
  target: s3://bucket/demo.html
  region: eu-west-1
log:
  level: debug
`
	if err := os.WriteFile(filepath.Join(tmpDir, "loom.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	want := SchedulerConfig{
		YieldThreshold: Duration(2 * time.Millisecond),
		FrameInterval:  Duration(20 * time.Millisecond),
		IdleBudget:     Duration(15 * time.Millisecond),
		QueueSize:      8,
	}
	if diff := cmp.Diff(want, cfg.Scheduler); diff != "" {
		t.Errorf("scheduler mismatch (-want +got):\n%s", diff)
	}
	if cfg.Server.Address != ":9000" || !cfg.Server.Metrics {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Snapshot.Target != "s3://bucket/demo.html" {
		t.Errorf("snapshot = %+v", cfg.Snapshot)
	}
	if cfg.Log.SlogLevel() != slog.LevelDebug {
		t.Errorf("level = %v", cfg.Log.SlogLevel())
	}
	if cfg.Log.Format != "text" {
		t.Errorf("format default not applied: %q", cfg.Log.Format)
	}
	if cfg.Path() != filepath.Join(tmpDir, "loom.yaml") {
		t.Errorf("Path = %q", cfg.Path())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configJSON := `{"scheduler": {"yieldThreshold": "500us", "queueSize": 4}, "log": {"format": "json"}}`
	if err := os.WriteFile(filepath.Join(tmpDir, "loom.json"), []byte(configJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Scheduler.YieldThreshold.Std() != 500*time.Microsecond {
		t.Errorf("YieldThreshold = %v", cfg.Scheduler.YieldThreshold)
	}
	if cfg.Scheduler.FrameInterval != DefaultFrameInterval {
		t.Errorf("FrameInterval = %v", cfg.Scheduler.FrameInterval)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Format = %q", cfg.Log.Format)
	}
}

func TestLoadPrefersYAML(t *testing.T) {
	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, "loom.json"), []byte(`{"server": {"address": "json"}}`), 0o644)
	os.WriteFile(filepath.Join(tmpDir, "loom.yml"), []byte("server:\n  address: yml\n"), 0o644)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Address != "yml" {
		t.Errorf("Address = %q, want yml", cfg.Server.Address)
	}
	if !Exists(tmpDir) {
		t.Error("Exists = false")
	}
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Path() != "" {
		t.Errorf("Path = %q, want empty", cfg.Path())
	}
	if Exists(tmpDir) {
		t.Error("Exists = true for empty dir")
	}

	if _, err := LoadFile(filepath.Join(tmpDir, "nope.yaml")); !errors.HasCode(err, "L040") {
		t.Errorf("LoadFile missing err = %v, want L040", err)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name, file, body string
	}{
		{"bad json", "loom.json", "not valid json"},
		{"bad yaml", "loom.yaml", "scheduler: [1, 2"},
		{"bad duration", "loom.yaml", "scheduler:\n  yieldThreshold: soon\n"},
		{"bad json duration", "loom.json", `{"scheduler": {"frameInterval": true}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFile(path)
			if !errors.HasCode(err, "L040") {
				t.Errorf("err = %v, want L040", err)
			}
		})
	}
}

func TestNumericDurations(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "loom.yaml")
	os.WriteFile(path, []byte("scheduler:\n  yieldThreshold: 1000\n"), 0o644)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scheduler.YieldThreshold.Std() != time.Microsecond {
		t.Errorf("YieldThreshold = %v, want 1µs", cfg.Scheduler.YieldThreshold)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero threshold", func(c *Config) { c.Scheduler.YieldThreshold = 0 }},
		{"threshold above budget", func(c *Config) { c.Scheduler.YieldThreshold = Duration(time.Second) }},
		{"budget above frame", func(c *Config) { c.Scheduler.IdleBudget = c.Scheduler.FrameInterval + 1 }},
		{"queue", func(c *Config) { c.Scheduler.QueueSize = -1 }},
		{"level", func(c *Config) { c.Log.Level = "loud" }},
		{"format", func(c *Config) { c.Log.Format = "xml" }},
		{"s3 region", func(c *Config) { c.Snapshot.Target = "s3://b/k" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.HasCode(err, "L041") {
				t.Errorf("Validate() = %v, want L041", err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"loom.yaml", "loom.json"} {
		t.Run(name, func(t *testing.T) {
			tmpDir := t.TempDir()
			cfg := New()

			if err := cfg.Save(); err == nil {
				t.Error("Expected error when saving without path")
			}

			cfg.Scheduler.YieldThreshold = Duration(3 * time.Millisecond)
			cfg.Server.Tracing = true
			if err := cfg.SaveTo(filepath.Join(tmpDir, name)); err != nil {
				t.Fatalf("SaveTo error: %v", err)
			}

			loaded, err := Load(tmpDir)
			if err != nil {
				t.Fatalf("Load error: %v", err)
			}
			if diff := cmp.Diff(cfg, loaded, cmp.AllowUnexported(Config{})); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
