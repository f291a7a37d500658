package webclient

import (
	"github.com/kamalkashyapp/fanout/internal/logging"
)

// RegisterDefaultBackends registers the default nethttp and chromedp backends.
// Call this from init() or early in main() to make backends available to New.
func RegisterDefaultBackends() {
	// Register nethttp backend
	RegisterBackend("nethttp", func(cfg Config, logger logging.Logger) (WebClient, error) {
		return NewNetHTTPClient(cfg, logger, nil)
	})

	// Register chromedp backend
	RegisterBackend("chromedp", func(cfg Config, logger logging.Logger) (WebClient, error) {
		return NewChromeDPClient(cfg.ChromedpIdleAfter, logger)
	})
}
