package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	ListenAddr         string `toml:"listen_addr"`
	Backend            string `toml:"backend"`
	MaxConcurrency     int    `toml:"max_concurrency"`
	RequestTimeout     string `toml:"request_timeout"`
	BatchTimeout       string `toml:"batch_timeout"`
	ClientTimeout      string `toml:"client_timeout"`
	FailOnHTTPError    *bool  `toml:"fail_on_http_error"`
	AnnotateHTML       *bool  `toml:"annotate_html"`
	MockTargetBase     string `toml:"mock_target_base"`
	AllowCustomTargets *bool  `toml:"allow_custom_targets"`
	LogLevel           string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.fanout/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".fanout", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("listen", fc.ListenAddr, &cfg.ListenAddr)
	s.setString("backend", fc.Backend, &cfg.Backend)
	s.setString("mock-target-base", fc.MockTargetBase, &cfg.MockTargetBase)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt("max-concurrency", fc.MaxConcurrency, &cfg.MaxConcurrency)

	if err := s.setDuration("request-timeout", fc.RequestTimeout, &cfg.RequestTimeout); err != nil {
		return err
	}
	if err := s.setDuration("batch-timeout", fc.BatchTimeout, &cfg.BatchTimeout); err != nil {
		return err
	}
	if err := s.setDuration("client-timeout", fc.ClientTimeout, &cfg.ClientTimeout); err != nil {
		return err
	}

	s.setBool("fail-on-http-error", fc.FailOnHTTPError, &cfg.FailOnHTTPError)
	s.setBool("annotate-html", fc.AnnotateHTML, &cfg.AnnotateHTML)
	s.setBool("allow-custom", fc.AllowCustomTargets, &cfg.AllowCustomTargets)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
