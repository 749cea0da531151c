package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (TELESHIP_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("endpoint", os.Getenv("TELESHIP_ENDPOINT_URL"), &cfg.EndpointURL)
	s.setString("ikey", os.Getenv("TELESHIP_IKEY"), &cfg.InstrumentationKey)
	s.setString("follow", os.Getenv("TELESHIP_FOLLOW"), &cfg.Follow)

	if err := s.setDuration("interval", os.Getenv("TELESHIP_INTERVAL"), &cfg.Interval); err != nil {
		return err
	}
	if err := s.setDuration("timeout", os.Getenv("TELESHIP_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("backoff-initial", os.Getenv("TELESHIP_BACKOFF_INITIAL"), &cfg.BackoffInitial); err != nil {
		return err
	}
	if err := s.setDuration("backoff-max", os.Getenv("TELESHIP_BACKOFF_MAX"), &cfg.BackoffMax); err != nil {
		return err
	}

	if err := s.setIntFromString("max-retries", os.Getenv("TELESHIP_MAX_RETRIES"), &cfg.MaxRetries); err != nil {
		return err
	}
	if err := s.setIntFromString("buffer", os.Getenv("TELESHIP_BUFFER_CAPACITY"), &cfg.BufferCapacity); err != nil {
		return err
	}

	s.setBoolFromString("verbose", os.Getenv("TELESHIP_VERBOSE"), &cfg.Verbose)

	return nil
}
