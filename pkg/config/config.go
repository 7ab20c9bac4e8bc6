package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Model storage backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMySQL  = "mysql"
)

// Config represents the SMS filter configuration
type Config struct {
	// Classifier settings
	Classifier ClassifierConfig `yaml:"classifier"`

	// Model persistence settings
	Model ModelConfig `yaml:"model"`

	// Dataset loading settings
	Dataset DatasetConfig `yaml:"dataset"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

// ClassifierConfig contains Naive Bayes parameters
type ClassifierConfig struct {
	// Additive smoothing factor. 1.0 is Laplace smoothing; 0 disables
	// smoothing and can degenerate multiplicative scores.
	Alpha float64 `yaml:"alpha"`

	// Score in the log domain instead of multiplying raw probabilities
	LogSpace bool `yaml:"log_space"`

	// Worker goroutines for batch classification, 0 = one per CPU
	Workers int `yaml:"workers"`
}

// ModelConfig contains model persistence settings
type ModelConfig struct {
	// Backend selection: "file", "redis", "sqlite" or "mysql"
	Backend string `yaml:"backend"`

	// File backend: snapshot path
	Path string `yaml:"path"`

	// Redis backend
	RedisURL    string `yaml:"redis_url"`
	RedisPrefix string `yaml:"redis_prefix"`

	// SQLite backend: database path
	SQLitePath string `yaml:"sqlite_path"`

	// MySQL backend: DSN like "user:pass@tcp(localhost:3306)/zpam"
	MySQLDSN string `yaml:"mysql_dsn"`
}

// DatasetConfig contains corpus loading settings
type DatasetConfig struct {
	// Format: "tsv", "csv" or "auto"
	Format string `yaml:"format"`

	// Train/test split
	TrainFraction float64 `yaml:"train_fraction"`
	Seed          int64   `yaml:"seed"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`  // JSON encoder instead of console
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Classifier: ClassifierConfig{
			Alpha:    1.0,
			LogSpace: false,
			Workers:  0,
		},
		Model: ModelConfig{
			Backend:     BackendFile,
			Path:        "zpam-sms-model.msgpack",
			RedisURL:    "redis://localhost:6379",
			RedisPrefix: "zpam:sms:model",
			SQLitePath:  "zpam-sms-model.db",
			MySQLDSN:    "",
		},
		Dataset: DatasetConfig{
			Format:        "auto",
			TrainFraction: 0.8,
			Seed:          42,
		},
		Logging: LoggingConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// LoadConfig reads the YAML file at configPath layered over
// DefaultConfig: absent keys keep their defaults. An empty path skips
// the file entirely and returns the defaults. The loaded config is
// validated before it is returned.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if configPath == "" {
		return config, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %v", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %v", err)
	}
	return config, nil
}

// SaveConfig writes the configuration to configPath as YAML, creating
// parent directories as needed.
func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %v", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %v", err)
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Classifier.Alpha < 0 {
		return fmt.Errorf("classifier alpha must be >= 0")
	}

	if c.Classifier.Workers < 0 {
		return fmt.Errorf("classifier workers must be >= 0")
	}

	switch c.Model.Backend {
	case BackendFile, BackendRedis, BackendSQLite, BackendMySQL:
	default:
		return fmt.Errorf("unknown model backend: %s", c.Model.Backend)
	}

	if c.Model.Backend == BackendFile && c.Model.Path == "" {
		return fmt.Errorf("model path cannot be empty with the file backend")
	}

	if c.Model.Backend == BackendRedis && c.Model.RedisURL == "" {
		return fmt.Errorf("redis_url cannot be empty with the redis backend")
	}

	if c.Model.Backend == BackendSQLite && c.Model.SQLitePath == "" {
		return fmt.Errorf("sqlite_path cannot be empty with the sqlite backend")
	}

	if c.Model.Backend == BackendMySQL && c.Model.MySQLDSN == "" {
		return fmt.Errorf("mysql_dsn cannot be empty with the mysql backend")
	}

	switch c.Dataset.Format {
	case "tsv", "csv", "auto", "":
	default:
		return fmt.Errorf("unknown dataset format: %s", c.Dataset.Format)
	}

	if c.Dataset.TrainFraction <= 0 || c.Dataset.TrainFraction >= 1 {
		return fmt.Errorf("train_fraction must be between 0 and 1")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	return nil
}
