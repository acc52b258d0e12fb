// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig               `mapstructure:"app"`
	Camunda    CamundaConfig           `mapstructure:"camunda"`
	Database   DatabaseConfig          `mapstructure:"database"`
	Simulation SimulationConfig        `mapstructure:"simulation"`
	Workers    map[string]WorkerConfig `mapstructure:"workers"`
	Logging    LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
	URL        string   `mapstructure:"url"` // Single URL for backwards compatibility
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Specific Configuration Sections ---

// SimulationConfig holds settings for the eligibility simulation workers.
type SimulationConfig struct {
	// TablesVersion pins the lookup-table set used for scoring; the refdata
	// store falls back to compiled defaults when the version is absent.
	TablesVersion string `mapstructure:"tables_version"`

	// ResultCacheTTL is how long a computed EligibilityResult stays in Redis,
	// in seconds.
	ResultCacheTTL int `mapstructure:"result_cache_ttl"`

	// RefDataCacheTTL is how long an assembled reference-table set stays in
	// Redis, in seconds.
	RefDataCacheTTL int `mapstructure:"refdata_cache_ttl"`

	// ResultIndex is the Elasticsearch index simulation results are pushed
	// to; indexing is skipped when empty.
	ResultIndex string `mapstructure:"result_index"`

	RegistryPath string `mapstructure:"registry_path"`
}

// GetResultCacheTTL returns the result cache TTL as a Duration.
func (s SimulationConfig) GetResultCacheTTL() time.Duration {
	return time.Duration(s.ResultCacheTTL) * time.Second
}

// GetRefDataCacheTTL returns the reference-data cache TTL as a Duration.
func (s SimulationConfig) GetRefDataCacheTTL() time.Duration {
	return time.Duration(s.RefDataCacheTTL) * time.Second
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// GetWorkerConfig returns the config for a task type, falling back to the
// Camunda-level defaults when the worker has no explicit section.
func (c *Config) GetWorkerConfig(taskType string) WorkerConfig {
	if wc, ok := c.Workers[taskType]; ok {
		return wc
	}
	return WorkerConfig{
		Enabled:       false,
		MaxJobsActive: c.Camunda.MaxJobsActive,
		Timeout:       c.Camunda.Timeout,
		MaxRetries:    3,
	}
}

// IsWorkerEnabled reports whether a worker is switched on in config.
func (c *Config) IsWorkerEnabled(taskType string) bool {
	wc, ok := c.Workers[taskType]
	return ok && wc.Enabled
}
