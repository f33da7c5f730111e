// Package models defines the run configuration and the parsed page model.
package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the YAML run configuration. CLI flags override its values.
type Config struct {
	IntermediateDB string      `yaml:"intermediate_db"`
	BatchSize      int         `yaml:"batch_size"`
	Workers        int         `yaml:"workers"`
	Crawl          CrawlConfig `yaml:"crawl"`
}

// CrawlConfig configures the crawl importer.
type CrawlConfig struct {
	URLs           []string       `yaml:"urls"`
	Dirs           []string       `yaml:"dirs"`
	BaseURL        string         `yaml:"base_url"`
	Category       CategoryConfig `yaml:"category"`
	CacheDir       string         `yaml:"cache_dir"`
	CacheTTL       time.Duration  `yaml:"cache_ttl"`
	DetectLanguage bool           `yaml:"detect_language"`
	Languages      []string       `yaml:"languages"`
	UserAgent      string         `yaml:"user_agent"`
	Timeout        time.Duration  `yaml:"timeout"`
}

// CategoryConfig is the category every crawled topic is filed under.
type CategoryConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// DefaultConfig returns the configuration used for unset keys.
func DefaultConfig() *Config {
	return &Config{
		IntermediateDB: "intermediate.db",
		BatchSize:      1000,
		Workers:        4,
		Crawl: CrawlConfig{
			Category:  CategoryConfig{ID: "crawl", Name: "Imported"},
			CacheTTL:  24 * time.Hour,
			UserAgent: "idb-crawler",
			Timeout:   30 * time.Second,
		},
	}
}

// LoadConfig reads the YAML file at path over DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports settings no run can start with.
func (c *Config) Validate() error {
	if c.BatchSize < 0 {
		return fmt.Errorf("batch_size must not be negative")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	if c.Crawl.Category.ID == "" || c.Crawl.Category.Name == "" {
		return fmt.Errorf("crawl.category needs an id and a name")
	}
	if len(c.Crawl.Languages) == 1 {
		return fmt.Errorf("crawl.languages needs at least two languages to choose from")
	}
	return nil
}
