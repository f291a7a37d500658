package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (FANOUT_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("listen", os.Getenv("FANOUT_LISTEN_ADDR"), &cfg.ListenAddr)
	s.setString("backend", os.Getenv("FANOUT_BACKEND"), &cfg.Backend)
	s.setString("mock-target-base", os.Getenv("FANOUT_MOCK_TARGET_BASE"), &cfg.MockTargetBase)
	s.setString("log-level", os.Getenv("FANOUT_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("max-concurrency", os.Getenv("FANOUT_MAX_CONCURRENCY"), &cfg.MaxConcurrency); err != nil {
		return err
	}

	if err := s.setDuration("request-timeout", os.Getenv("FANOUT_REQUEST_TIMEOUT"), &cfg.RequestTimeout); err != nil {
		return err
	}
	if err := s.setDuration("batch-timeout", os.Getenv("FANOUT_BATCH_TIMEOUT"), &cfg.BatchTimeout); err != nil {
		return err
	}
	if err := s.setDuration("client-timeout", os.Getenv("FANOUT_CLIENT_TIMEOUT"), &cfg.ClientTimeout); err != nil {
		return err
	}

	s.setBoolFromString("fail-on-http-error", os.Getenv("FANOUT_FAIL_ON_HTTP_ERROR"), &cfg.FailOnHTTPError)
	s.setBoolFromString("annotate-html", os.Getenv("FANOUT_ANNOTATE_HTML"), &cfg.AnnotateHTML)
	s.setBoolFromString("allow-custom", os.Getenv("FANOUT_ALLOW_CUSTOM"), &cfg.AllowCustomTargets)

	return nil
}
