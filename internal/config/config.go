package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Config is the application's configuration model.
type Config struct {
	Storage  StorageConfig `yaml:"storage"`
	Platform string        `yaml:"platform"`
	Filter   FilterConfig  `yaml:"filter"`
	Metrics  MetricsConfig `yaml:"metrics"`
	Fetch    FetchConfig   `yaml:"fetch"`
}

type StorageConfig struct {
	DBPath string `yaml:"dbPath"`
}

type FilterConfig struct {
	// Minimum partial-ratio score [0,100] for search matches.
	Threshold int `yaml:"threshold"`
}

type MetricsConfig struct {
	// Listen address for /metrics, e.g. ":9090". Empty disables the server.
	Addr string `yaml:"addr"`
}

type FetchConfig struct {
	// Directory feed fetches write document files into, one dated
	// subdirectory per invocation.
	OutputDir string `yaml:"outputDir"`
	// Requests per second and burst for feed polling.
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		Storage:  StorageConfig{DBPath: "data/posts_v2.db"},
		Platform: "linkedin",
		Filter:   FilterConfig{Threshold: 80},
		Metrics:  MetricsConfig{Addr: ""},
		Fetch:    FetchConfig{OutputDir: "data", RPS: 1, Burst: 2},
	}
}

// ResolveEnv fills in config fields from environment variables if not set.
func (c *Config) ResolveEnv() {
	if v := os.Getenv("POSTVAULT_DB_PATH"); v != "" {
		c.Storage.DBPath = v
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = os.Getenv("METRICS_ADDR")
	}
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.ResolveEnv()
	return cfg, nil
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
