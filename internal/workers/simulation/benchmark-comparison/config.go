// internal/workers/simulation/benchmark-comparison/config.go
package benchmarkcomparison

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
