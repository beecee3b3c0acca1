// internal/workers/application/record-application/config.go
package recordapplication

import (
	"time"

	"interview-portal/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

// NewConfig derives the handler settings from the shared worker block.
func NewConfig(wc config.WorkerConfig) *Config {
	timeout := config.GetDuration(wc.Timeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Config{Timeout: timeout}
}
