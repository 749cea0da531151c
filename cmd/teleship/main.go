package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	logAdapter "github.com/fieldlabs/teleship/internal/adapters/log"
	"github.com/fieldlabs/teleship/internal/adapters/tail"
	"github.com/fieldlabs/teleship/internal/cliconfig"
	"github.com/fieldlabs/teleship/pkg/teleship"
)

const helpDescription = `
Forward log lines to a telemetry ingestion endpoint.

Reads lines from stdin (or follows a file with --follow), batches them in the
background and ships them with retry and backoff. Configure via file
($HOME/.teleship/config.toml), TELESHIP_* environment variables, or flags;
flags win over environment, environment wins over file.
`

var exampleUsage = strings.TrimSpace(`
  tail -f /var/log/app.log | teleship --ikey <instrumentation-key>
  teleship --follow /var/log/app.log --config $HOME/.teleship/config.toml
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "teleship",
		Short:   "Forward log lines to a telemetry ingestion endpoint",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// Environment overrides file config but is overridden by flags
			// (checked via changed map).
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			if !cfg.Verbose {
				log = log.Level(zerolog.InfoLevel)
			}

			// Log configuration (masking the instrumentation key)
			logCfg := cfg
			if len(logCfg.InstrumentationKey) > 0 {
				logCfg.InstrumentationKey = "*****"
			}
			log.Info().Interface("config", logCfg).Msg("configuration")

			libCfg := teleship.Config{
				EndpointURL:        cfg.EndpointURL,
				InstrumentationKey: cfg.InstrumentationKey,
				Interval:           cfg.Interval,
				BufferCapacity:     cfg.BufferCapacity,
				MaxRetries:         cfg.MaxRetries,
				BackoffInitial:     cfg.BackoffInitial,
				BackoffMax:         cfg.BackoffMax,
				HTTPTimeout:        cfg.HTTPTimeout,
			}

			zerologAdapter := logAdapter.NewZerologAdapterWithLogger(log)

			client, err := teleship.New(libCfg, teleship.WithLogger(zerologAdapter))
			if err != nil {
				return fmt.Errorf("create client: %w", err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			if err := client.Start(ctx); err != nil {
				return fmt.Errorf("start client: %w", err)
			}

			// Feed the client from the chosen input. inputDone closes when
			// the input is exhausted (stdin EOF or follower stopped).
			inputDone := make(chan error, 1)
			go func() {
				if cfg.Follow != "" {
					follower := tail.NewFollower(cfg.Follow, zerologAdapter)
					inputDone <- follower.Follow(ctx, client.TrackTrace)
					return
				}
				scanner := bufio.NewScanner(os.Stdin)
				scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
				for scanner.Scan() {
					if line := scanner.Text(); line != "" {
						client.TrackTrace(line)
					}
				}
				inputDone <- scanner.Err()
			}()

			select {
			case <-sigCh:
				log.Info().Msg("received signal, stopping...")
			case err := <-inputDone:
				if err != nil {
					log.Error().Err(err).Msg("input failed")
				}
			case <-client.Done():
				log.Error().Msg("dispatcher stopped unexpectedly")
			}

			// Graceful shutdown: one final send attempt for whatever is
			// still buffered.
			if err := client.Close(); err != nil {
				return fmt.Errorf("close client: %w", err)
			}
			return nil
		},
	}

	// Flags
	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.teleship/config.toml)")
	root.Flags().StringVar(&cfg.EndpointURL, "endpoint", cfg.EndpointURL, fmt.Sprintf("ingestion endpoint URL (defaults to %s)", cliconfig.DefaultEndpointURL))
	root.Flags().StringVar(&cfg.InstrumentationKey, "ikey", cfg.InstrumentationKey, "instrumentation key for the ingestion endpoint")
	root.Flags().StringVar(&cfg.Follow, "follow", cfg.Follow, "follow a file instead of reading stdin")

	root.Flags().DurationVar(&cfg.Interval, "interval", cfg.Interval, "batching window between sends")
	root.Flags().DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout")
	root.Flags().DurationVar(&cfg.BackoffInitial, "backoff-initial", cfg.BackoffInitial, "initial retry backoff delay")
	root.Flags().DurationVar(&cfg.BackoffMax, "backoff-max", cfg.BackoffMax, "maximum retry backoff delay")

	root.Flags().IntVar(&cfg.MaxRetries, "max-retries", cfg.MaxRetries, "retry attempts before a batch is dropped")
	root.Flags().IntVar(&cfg.BufferCapacity, "buffer", cfg.BufferCapacity, "maximum buffered telemetry items")
	root.Flags().BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable debug logging")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("teleship")
		os.Exit(1)
	}
}
