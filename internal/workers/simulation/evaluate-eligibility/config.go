// internal/workers/simulation/evaluate-eligibility/config.go
package evaluateeligibility

import "time"

type Config struct {
	Timeout        time.Duration
	ResultCacheTTL time.Duration
	ResultIndex    string
	IndexResults   bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:        30 * time.Second,
		ResultCacheTTL: time.Hour,
		ResultIndex:    "ticpe-simulations",
		IndexResults:   false,
	}
}
