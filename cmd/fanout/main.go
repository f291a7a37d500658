package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/kamalkashyapp/fanout/internal/app"
	"github.com/kamalkashyapp/fanout/internal/batchfile"
	"github.com/kamalkashyapp/fanout/internal/cliconfig"
	"github.com/kamalkashyapp/fanout/internal/dispatch"
	"github.com/kamalkashyapp/fanout/internal/logging"
	"github.com/kamalkashyapp/fanout/internal/placeholder"
	"github.com/kamalkashyapp/fanout/internal/webclient"
)

var exampleUsage = strings.TrimSpace(`
  fanout run batch.json
  fanout run batch.json --subject demo --timeout 15s
  fanout run batch.json --dry-run
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
	var subject string
	var overall time.Duration
	var dryRun bool

	log := newConsoleLogger()

	root := &cobra.Command{
		Use:     "fanout",
		Short:   "Dispatch a batch of HTTP requests from the command line",
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
	}

	runCmd := &cobra.Command{
		Use:     "run <batch-file>",
		Short:   "Load a JSON batch file and dispatch every request in it",
		Example: exampleUsage,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
				log = log.Level(lvl)
			}

			descs, err := batchfile.Load(args[0])
			if err != nil {
				return err
			}
			if subject != "" {
				descs = placeholder.Apply(descs, subject, placeholder.DefaultToken)
			}
			if err := dispatch.ValidateAll(descs); err != nil {
				return err
			}

			if dryRun {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(descs)
			}

			logger := logging.NewZerologLogger(log)

			webclient.RegisterDefaultBackends()
			appCfg := cfg.ToAppConfig()
			wc, err := webclient.New(appCfg.WebClientCfg, logger)
			if err != nil {
				return fmt.Errorf("create webclient: %w", err)
			}

			orch, err := app.NewOrchestrator(appCfg, wc, logger)
			if err != nil {
				return fmt.Errorf("create orchestrator: %w", err)
			}
			defer orch.Close()

			outcomes, err := orch.DispatchSync(context.Background(), descs, overall)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(outcomes); err != nil {
				return err
			}

			failed := 0
			for _, o := range outcomes {
				if !o.OK() {
					failed++
				}
			}
			log.Info().Int("requested", len(descs)).Int("failed", failed).Msg("batch complete")
			if failed > 0 {
				os.Exit(1)
			}
			return nil
		},
	}

	runCmd.Flags().StringVar(&subject, "subject", "", "value substituted for {{subject}} in urls, headers and bodies")
	runCmd.Flags().DurationVar(&overall, "timeout", 0, "whole-batch timeout (default: batch-timeout config)")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print resolved descriptors without dispatching")

	runCmd.Flags().StringVar(&cfg.Backend, "backend", cfg.Backend, "webclient backend (nethttp or chromedp)")
	runCmd.Flags().IntVar(&cfg.MaxConcurrency, "max-concurrency", cfg.MaxConcurrency, "maximum in-flight requests")
	runCmd.Flags().DurationVar(&cfg.RequestTimeout, "request-timeout", cfg.RequestTimeout, "default per-request timeout")
	runCmd.Flags().DurationVar(&cfg.BatchTimeout, "batch-timeout", cfg.BatchTimeout, "default whole-batch timeout")
	runCmd.Flags().BoolVar(&cfg.FailOnHTTPError, "fail-on-http-error", cfg.FailOnHTTPError, "treat non-2xx statuses as descriptor errors")
	runCmd.Flags().BoolVar(&cfg.AnnotateHTML, "annotate-html", cfg.AnnotateHTML, "extract <title> from HTML responses into outcomes")
	runCmd.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error)")

	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("fanout failed")
		os.Exit(1)
	}
}
