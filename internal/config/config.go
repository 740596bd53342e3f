package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-dev/loom/internal/errors"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultAddress is the default address of the serve command.
	DefaultAddress = "localhost:7070"

	// DefaultYieldThreshold is the remaining idle time below which the work
	// loop yields.
	DefaultYieldThreshold = Duration(time.Millisecond)

	// DefaultFrameInterval is the host loop's frame length.
	DefaultFrameInterval = Duration(16 * time.Millisecond)

	// DefaultQueueSize is the host loop's task queue capacity.
	DefaultQueueSize = 256
)

// FileNames are the configuration files Load looks for, in order.
var FileNames = []string{"loom.yaml", "loom.yml", "loom.json"}

// Config represents the complete loom configuration.
type Config struct {
	// Scheduler contains work-loop and host-loop settings.
	Scheduler SchedulerConfig `json:"scheduler" yaml:"scheduler"`

	// Server contains settings for the serve command.
	Server ServerConfig `json:"server" yaml:"server"`

	// Snapshot contains settings for the snapshot command.
	Snapshot SnapshotConfig `json:"snapshot" yaml:"snapshot"`

	// Log contains logging settings.
	Log LogConfig `json:"log" yaml:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// SchedulerConfig contains scheduling settings.
type SchedulerConfig struct {
	// YieldThreshold is the remaining idle time below which the work loop
	// yields to the host.
	YieldThreshold Duration `json:"yieldThreshold,omitempty" yaml:"yieldThreshold,omitempty"`

	// FrameInterval is the length of one host frame.
	FrameInterval Duration `json:"frameInterval,omitempty" yaml:"frameInterval,omitempty"`

	// IdleBudget is the part of a frame granted to idle callbacks.
	// Defaults to three quarters of FrameInterval.
	IdleBudget Duration `json:"idleBudget,omitempty" yaml:"idleBudget,omitempty"`

	// QueueSize is the host loop's task queue capacity.
	QueueSize int `json:"queueSize,omitempty" yaml:"queueSize,omitempty"`
}

// ServerConfig contains remote mirror server settings.
type ServerConfig struct {
	// Address is the listen address.
	Address string `json:"address,omitempty" yaml:"address,omitempty"`

	// Metrics exposes Prometheus metrics at /metrics.
	Metrics bool `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	// Tracing records an OpenTelemetry span per commit.
	Tracing bool `json:"tracing,omitempty" yaml:"tracing,omitempty"`
}

// SnapshotConfig contains snapshot settings.
type SnapshotConfig struct {
	// Target is a file path or an s3://bucket/key URL.
	Target string `json:"target,omitempty" yaml:"target,omitempty"`

	// Region is the AWS region for s3 targets.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// Endpoint overrides the S3 endpoint.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// Pretty indents the snapshot HTML.
	Pretty bool `json:"pretty,omitempty" yaml:"pretty,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the first of FileNames found in dir.
// Without any file the defaults are returned.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return New(), nil
}

// LoadFile reads configuration from the specified file path. The format
// follows the extension: .json is JSON, anything else YAML.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("L040").
			WithDetail("Cannot read " + path).
			Wrap(err)
	}

	cfg := &Config{}
	if isJSON(path) {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("L040").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check the file syntax and that durations look like \"1ms\"")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path in the format its extension
// selects.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return errors.New("L040").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("L040").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Scheduler.YieldThreshold == 0 {
		c.Scheduler.YieldThreshold = DefaultYieldThreshold
	}
	if c.Scheduler.FrameInterval == 0 {
		c.Scheduler.FrameInterval = DefaultFrameInterval
	}
	if c.Scheduler.IdleBudget == 0 {
		c.Scheduler.IdleBudget = c.Scheduler.FrameInterval * 3 / 4
	}
	if c.Scheduler.QueueSize == 0 {
		c.Scheduler.QueueSize = DefaultQueueSize
	}
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	s := c.Scheduler
	switch {
	case s.YieldThreshold <= 0:
		return invalid("scheduler.yieldThreshold must be positive")
	case s.FrameInterval <= 0:
		return invalid("scheduler.frameInterval must be positive")
	case s.IdleBudget <= 0 || s.IdleBudget > s.FrameInterval:
		return invalid("scheduler.idleBudget must be positive and at most scheduler.frameInterval")
	case s.YieldThreshold >= s.IdleBudget:
		return invalid("scheduler.yieldThreshold must be below scheduler.idleBudget")
	case s.QueueSize < 1:
		return invalid("scheduler.queueSize must be at least 1")
	}
	if _, ok := levels[strings.ToLower(c.Log.Level)]; !ok {
		return invalid("log.level must be debug, info, warn or error")
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return invalid("log.format must be text or json")
	}
	if t := c.Snapshot.Target; strings.HasPrefix(t, "s3://") && c.Snapshot.Region == "" && c.Snapshot.Endpoint == "" {
		return invalid("snapshot.region is required for s3 targets")
	}
	return nil
}

func invalid(detail string) error {
	return errors.New("L041").WithDetail(detail)
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// SlogLevel returns the configured level, Info when unknown.
func (l LogConfig) SlogLevel() slog.Level {
	if lvl, ok := levels[strings.ToLower(l.Level)]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range FileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}
