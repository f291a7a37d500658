package app

import (
	"time"

	"github.com/kamalkashyapp/fanout/internal/dispatch"
	"github.com/kamalkashyapp/fanout/internal/webclient"
)

// Config contains the runtime configuration shared by the server, the CLI and
// the orchestrator.
type Config struct {
	// Dispatcher Configuration
	DispatchCfg dispatch.Config

	// WebClient configuration
	WebClientCfg webclient.Config

	// BatchTimeout bounds a whole batch when the caller supplies none.
	BatchTimeout time.Duration

	// MockTargetBase is the base URL mock-mode targets are built against,
	// normally a local demoserver instance.
	MockTargetBase string

	// AllowCustomTargets gates custom target lists on the API.
	AllowCustomTargets bool

	// JobEventBuffer is the per-job event channel capacity.
	JobEventBuffer int
}

// DefaultConfig returns a Config populated with sensible development defaults.
func DefaultConfig() *Config {
	return &Config{
		DispatchCfg: dispatch.Config{
			MaxConcurrency: 8,
			DefaultTimeout: 5 * time.Second,
		},
		WebClientCfg: webclient.Config{
			Client:              webclient.ClientNetHTTP,
			Timeout:             30 * time.Second,
			MaxIdleConns:        64,
			MaxIdleConnsPerHost: 8,
			IdleConnTimeout:     90 * time.Second,
			EnableHTTP2:         true,
			ChromedpIdleAfter:   2 * time.Second,
		},
		BatchTimeout:   10 * time.Second,
		MockTargetBase: "http://localhost:9999",
		JobEventBuffer: 16,
	}
}
