package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/kamalkashyapp/fanout/internal/cliconfig"
	"github.com/kamalkashyapp/fanout/internal/logging"
	"github.com/kamalkashyapp/fanout/internal/server"
)

const helpDescription = `
Concurrent multi-target HTTP dispatch with a REST and WebSocket API.

Highlights:
  - Fans a batch of request descriptors out concurrently and reports one
    outcome per descriptor, in input order.
  - Mock mode targets a local demoserver; custom target lists are gated
    behind explicit configuration.
  - Configure via file, environment, or flags; dispatch policy reloads
    live when the config file changes.
`

var exampleUsage = strings.TrimSpace(`
  fanoutd --listen :8080
  fanoutd --config $HOME/.fanout/config.toml --allow-custom
  FANOUT_MAX_CONCURRENCY=16 fanoutd --watch-config
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func newConsoleLogger() zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(output).With().Timestamp().Logger()
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string
	var watchConfig bool

	log := newConsoleLogger()

	root := &cobra.Command{
		Use:     "fanoutd",
		Short:   "Concurrent multi-target HTTP dispatch daemon",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first, then env, with flags taking precedence
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

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
				log = log.Level(lvl)
			}
			log.Info().Interface("config", cfg).Msg("configuration")

			logger := logging.NewZerologLogger(log)
			srv, err := server.NewServer(server.Config{
				ListenAddr: cfg.ListenAddr,
				AppConfig:  cfg.ToAppConfig(),
				Logger:     logger,
			})
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}
			defer srv.Close()

			// Hot-reload dispatch policy on config file changes
			var watcher *cliconfig.Watcher
			if watchConfig && cfgFile != "" {
				watcher = cliconfig.NewWatcher(cfgFile, func(fc cliconfig.FileConfig) {
					next := cfg
					if err := cliconfig.ApplyFileConfig(&next, fc, changed); err != nil {
						log.Warn().Err(err).Msg("applying reloaded config")
						return
					}
					if err := next.Validate(); err != nil {
						log.Warn().Err(err).Msg("reloaded config invalid")
						return
					}
					appCfg := next.ToAppConfig()
					if err := srv.Orchestrator().SetDispatchPolicy(appCfg.DispatchCfg); err != nil {
						log.Warn().Err(err).Msg("applying reloaded dispatch policy")
					}
				}, logger)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			if watcher != nil {
				if err := watcher.Start(ctx); err != nil {
					log.Warn().Err(err).Msg("starting config watcher")
				} else {
					defer watcher.Stop()
				}
			}

			httpSrv := srv.HTTPServer()

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", cfg.ListenAddr).Msg("listening")
				if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case <-sigCh:
				log.Info().Msg("received signal, stopping...")
			case err := <-errCh:
				return fmt.Errorf("serve: %w", err)
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		},
	}

	// Flags
	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.fanout/config.toml)")
	root.Flags().StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "HTTP listen address")
	root.Flags().StringVar(&cfg.Backend, "backend", cfg.Backend, "webclient backend (nethttp or chromedp)")

	root.Flags().IntVar(&cfg.MaxConcurrency, "max-concurrency", cfg.MaxConcurrency, "maximum in-flight requests per batch")
	root.Flags().DurationVar(&cfg.RequestTimeout, "request-timeout", cfg.RequestTimeout, "default per-request timeout")
	root.Flags().DurationVar(&cfg.BatchTimeout, "batch-timeout", cfg.BatchTimeout, "default whole-batch timeout")
	root.Flags().DurationVar(&cfg.ClientTimeout, "client-timeout", cfg.ClientTimeout, "HTTP client hard timeout")

	root.Flags().BoolVar(&cfg.FailOnHTTPError, "fail-on-http-error", cfg.FailOnHTTPError, "treat non-2xx statuses as descriptor errors")
	root.Flags().BoolVar(&cfg.AnnotateHTML, "annotate-html", cfg.AnnotateHTML, "extract <title> from HTML responses into outcomes")

	root.Flags().StringVar(&cfg.MockTargetBase, "mock-target-base", cfg.MockTargetBase, "base URL for mock mode targets")
	root.Flags().BoolVar(&cfg.AllowCustomTargets, "allow-custom", cfg.AllowCustomTargets, "allow custom target lists on the API")

	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error)")
	root.Flags().BoolVar(&watchConfig, "watch-config", false, "reload dispatch policy when the config file changes")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("fanoutd failed")
		os.Exit(1)
	}
}
