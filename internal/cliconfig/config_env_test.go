package cliconfig

import (
	"os"
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"TELESHIP_ENDPOINT_URL": "https://env.example.com/track",
				"TELESHIP_IKEY":         "env-key",
				"TELESHIP_INTERVAL":     "10s",
				"TELESHIP_MAX_RETRIES":  "5",
				"TELESHIP_VERBOSE":      "true",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				EndpointURL:        "https://env.example.com/track",
				InstrumentationKey: "env-key",
				Interval:           10 * time.Second,
				MaxRetries:         5,
				Verbose:            true,
			},
			wantErr: false,
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"TELESHIP_ENDPOINT_URL": "https://env.example.com",
				"TELESHIP_IKEY":         "env-key",
			},
			changed: map[string]bool{"endpoint": true},
			initial: Config{
				EndpointURL: "https://flag.example.com",
			},
			expected: Config{
				EndpointURL:        "https://flag.example.com",
				InstrumentationKey: "env-key",
			},
			wantErr: false,
		},
		{
			name: "returns error for invalid duration",
			envVars: map[string]string{
				"TELESHIP_INTERVAL": "not-a-duration",
			},
			changed: map[string]bool{},
			initial: Config{},
			wantErr: true,
		},
		{
			name: "returns error for invalid int",
			envVars: map[string]string{
				"TELESHIP_MAX_RETRIES": "not-a-number",
			},
			changed: map[string]bool{},
			initial: Config{},
			wantErr: true,
		},
		{
			name: "handles bool '1' as true",
			envVars: map[string]string{
				"TELESHIP_VERBOSE": "1",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				Verbose: true,
			},
			wantErr: false,
		},
		{
			name: "handles bool 'false' as false",
			envVars: map[string]string{
				"TELESHIP_VERBOSE": "false",
			},
			changed: map[string]bool{},
			initial: Config{Verbose: true},
			expected: Config{
				Verbose: false,
			},
			wantErr: false,
		},
		{
			name: "handles all field types correctly",
			envVars: map[string]string{
				"TELESHIP_ENDPOINT_URL":    "https://example.com/track",
				"TELESHIP_IKEY":            "key",
				"TELESHIP_FOLLOW":          "/var/log/app.log",
				"TELESHIP_INTERVAL":        "1m",
				"TELESHIP_HTTP_TIMEOUT":    "30s",
				"TELESHIP_BACKOFF_INITIAL": "250ms",
				"TELESHIP_BACKOFF_MAX":     "20s",
				"TELESHIP_MAX_RETRIES":     "5",
				"TELESHIP_BUFFER_CAPACITY": "2048",
				"TELESHIP_VERBOSE":         "1",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				EndpointURL:        "https://example.com/track",
				InstrumentationKey: "key",
				Follow:             "/var/log/app.log",
				Interval:           time.Minute,
				HTTPTimeout:        30 * time.Second,
				BackoffInitial:     250 * time.Millisecond,
				BackoffMax:         20 * time.Second,
				MaxRetries:         5,
				BufferCapacity:     2048,
				Verbose:            true,
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}
			defer func() {
				for k := range tt.envVars {
					os.Unsetenv(k)
				}
			}()

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr && err == nil {
				t.Error("ApplyEnvConfig() expected error but got nil")
				return
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ApplyEnvConfig() unexpected error: %v", err)
				return
			}

			if !tt.wantErr && cfg != tt.expected {
				t.Errorf("config = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

// Integration test: precedence order (CLI > Env > File)
func TestConfigPrecedence(t *testing.T) {
	trueVal := true

	fileConf := FileConfig{
		EndpointURL:        "https://file.example.com",
		InstrumentationKey: "file-key",
		Verbose:            &trueVal,
	}

	os.Setenv("TELESHIP_ENDPOINT_URL", "https://env.example.com")
	os.Setenv("TELESHIP_IKEY", "env-key")
	os.Setenv("TELESHIP_FOLLOW", "/env/app.log")
	defer func() {
		os.Unsetenv("TELESHIP_ENDPOINT_URL")
		os.Unsetenv("TELESHIP_IKEY")
		os.Unsetenv("TELESHIP_FOLLOW")
	}()

	changed := map[string]bool{
		"endpoint": true, // CLI flag was set for the endpoint
	}

	cfg := Config{
		EndpointURL: "https://cli.example.com", // This should remain (CLI wins)
	}

	if err := ApplyFileConfig(&cfg, fileConf, changed); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig failed: %v", err)
	}

	if cfg.EndpointURL != "https://cli.example.com" {
		t.Errorf("EndpointURL = %v, want https://cli.example.com (CLI should win)", cfg.EndpointURL)
	}
	if cfg.InstrumentationKey != "env-key" {
		t.Errorf("InstrumentationKey = %v, want env-key (env should override file)", cfg.InstrumentationKey)
	}
	if cfg.Follow != "/env/app.log" {
		t.Errorf("Follow = %v, want /env/app.log (env should set)", cfg.Follow)
	}
	if cfg.Verbose != true {
		t.Errorf("Verbose = %v, want true (file should set)", cfg.Verbose)
	}
}
