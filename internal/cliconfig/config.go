// Package cliconfig holds the forwarder CLI's configuration: defaults,
// validation, TOML file loading and TELESHIP_* environment overrides, with
// explicitly-set flags taking precedence over both.
package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultEndpointURL is the default ingestion endpoint telemetry is shipped to.
const DefaultEndpointURL = "https://dc.ingest.fieldlabs.io/v2/track"

// Config holds CLI configuration for teleship.
type Config struct {
	EndpointURL        string
	InstrumentationKey string

	Interval       time.Duration
	HTTPTimeout    time.Duration
	BackoffInitial time.Duration
	BackoffMax     time.Duration

	MaxRetries     int
	BufferCapacity int

	// Follow is a file to tail instead of reading stdin.
	Follow string

	Verbose bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		EndpointURL:        DefaultEndpointURL,
		Interval:           2 * time.Second,
		HTTPTimeout:        15 * time.Second,
		BackoffInitial:     500 * time.Millisecond,
		BackoffMax:         10 * time.Second,
		MaxRetries:         3,
		BufferCapacity:     1024,
		InstrumentationKey: os.Getenv("TELESHIP_IKEY"),
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.EndpointURL == "" {
		return fmt.Errorf("endpoint is required")
	}
	if c.InstrumentationKey == "" {
		return fmt.Errorf("instrumentation key is required")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag
// precedence. It only applies values if the corresponding flag hasn't been
// explicitly set.
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
