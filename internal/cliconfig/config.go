package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kamalkashyapp/fanout/internal/app"
	"github.com/kamalkashyapp/fanout/internal/webclient"
)

// DefaultListenAddr is the default HTTP listen address for fanoutd.
const DefaultListenAddr = ":8080"

// Config holds CLI configuration for fanoutd and the fanout CLI.
type Config struct {
	ListenAddr string
	Backend    string

	MaxConcurrency int
	RequestTimeout time.Duration
	BatchTimeout   time.Duration
	ClientTimeout  time.Duration

	FailOnHTTPError bool
	AnnotateHTML    bool

	MockTargetBase     string
	AllowCustomTargets bool

	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ListenAddr:     DefaultListenAddr,
		Backend:        "nethttp",
		MaxConcurrency: 8,
		RequestTimeout: 5 * time.Second,
		BatchTimeout:   10 * time.Second,
		ClientTimeout:  30 * time.Second,
		MockTargetBase: "http://localhost:9999",
		LogLevel:       "info",
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.Backend == "" {
		c.Backend = "nethttp"
	}
	if c.MaxConcurrency <= 0 {
		return fmt.Errorf("max concurrency must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.BatchTimeout <= 0 {
		return fmt.Errorf("batch timeout must be positive")
	}

	c.MockTargetBase = strings.TrimRight(c.MockTargetBase, "/")
	if c.MockTargetBase == "" {
		return fmt.Errorf("mock target base is required")
	}

	return nil
}

// ToAppConfig translates CLI configuration into runtime configuration.
func (c *Config) ToAppConfig() *app.Config {
	cfg := app.DefaultConfig()
	cfg.DispatchCfg.MaxConcurrency = c.MaxConcurrency
	cfg.DispatchCfg.DefaultTimeout = c.RequestTimeout
	cfg.DispatchCfg.FailOnHTTPError = c.FailOnHTTPError
	cfg.DispatchCfg.AnnotateHTML = c.AnnotateHTML
	cfg.WebClientCfg.Client = webclient.Client(c.Backend)
	cfg.WebClientCfg.Timeout = c.ClientTimeout
	cfg.BatchTimeout = c.BatchTimeout
	cfg.MockTargetBase = c.MockTargetBase
	cfg.AllowCustomTargets = c.AllowCustomTargets
	return cfg
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
