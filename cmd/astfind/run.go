package main

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"time"

	"astfind/internal/core/app"
	"astfind/internal/core/config"
	"astfind/internal/core/errors"
	"astfind/internal/core/ports"
	"astfind/internal/discover"
	"astfind/internal/engine/query"
	"astfind/internal/output"
	"astfind/internal/shared/observability"
	"astfind/internal/shared/util"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func runSearch(cmd *cobra.Command, opts *searchOptions, stdout, stderr io.Writer) error {
	ctx := cmd.Context()

	// A bad query fails before any file is touched.
	q, err := query.Parse(opts.query)
	if err != nil {
		return err
	}

	if info, err := os.Stat(opts.within); err != nil || !info.IsDir() {
		return errors.AddContext(
			errors.Newf(errors.CodeConfig, "--within %q is not a directory", opts.within),
			errors.CtxPath, opts.within,
		)
	}

	cfg, cfgPath, err := loadSettings(cmd.Flags(), opts)
	if err != nil {
		return err
	}

	logger, err := newRunLogger(stderr, cfg, opts.verbose)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	if cfgPath != "" {
		logger.Debug("loaded config", "path", cfgPath)
	}

	shutdown, err := observability.SetupTracing(ctx, observability.TracingConfig{
		Enabled:        cfg.Tracing.Enabled,
		Endpoint:       cfg.Tracing.Endpoint,
		Insecure:       cfg.Tracing.Insecure,
		ServiceVersion: Version,
	})
	if err != nil {
		return errors.Wrap(err, errors.CodeConfig, "cannot start tracing")
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}()

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	started := time.Now()
	result, err := a.SearchService().Search(ctx, ports.SearchRequest{Root: opts.within, Query: q})
	if err != nil {
		return err
	}

	var w ports.ResultWriter
	w, err = output.NewWriter(stdout, output.Options{
		Format:  output.Format(cfg.Output.Format),
		Summary: cfg.Output.Summary,
		Color:   cfg.Output.Color,
		NoColor: cfg.Determinism.NoColorEnabled(),
	})
	if err != nil {
		return err
	}
	if err := w.Write(result); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "cannot write results")
	}

	logger.Info("search complete",
		"query", q.String(),
		"files", humanize.Comma(int64(result.Stats.Files)),
		"matches", humanize.Comma(int64(result.Stats.Matches)),
		"errors", result.Stats.Errors,
		"truncated", result.Stats.Truncated,
		"elapsed", time.Since(started).Round(time.Millisecond),
		"heap", humanize.IBytes(util.HeapAllocBytes()),
	)

	if cfg.Metrics.Textfile != "" {
		if err := observability.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn("failed to write metrics textfile", "path", cfg.Metrics.Textfile, "error", err)
		}
	}
	return nil
}

// loadSettings layers config file, environment and explicitly set flags.
func loadSettings(flags *pflag.FlagSet, opts *searchOptions) (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(opts.configPath, opts.within)
	if err != nil {
		return nil, "", err
	}
	config.ApplyEnvOverrides(cfg)
	applyFlags(flags, opts, cfg)

	if errs := config.Validate(cfg); len(errs) > 0 {
		return nil, "", errors.Wrap(stderrors.Join(errs...), errors.CodeConfig, "invalid settings")
	}
	return cfg, path, nil
}

func applyFlags(flags *pflag.FlagSet, opts *searchOptions, cfg *config.Config) {
	if flags.Changed("lang") {
		cfg.Search.Languages = discover.SplitList(opts.lang)
	}
	if flags.Changed("context") {
		lines := opts.context
		cfg.Search.Context = &lines
	}
	if flags.Changed("max-results") {
		cfg.Search.MaxResults = opts.maxResults
	}
	if flags.Changed("workers") {
		cfg.Search.Workers = opts.workers
	}
	if flags.Changed("max-file-bytes") {
		cfg.Search.MaxFileBytes = opts.maxFileBytes
	}
	if flags.Changed("strict") {
		cfg.Search.StrictSyntax = opts.strict
	}
	if len(opts.exclude) > 0 {
		cfg.Exclude.Dirs = append(cfg.Exclude.Dirs, opts.exclude...)
		cfg.Exclude.Files = append(cfg.Exclude.Files, opts.exclude...)
	}
	if len(opts.include) > 0 {
		cfg.Include.Paths = append(cfg.Include.Paths, opts.include...)
	}
	if flags.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if flags.Changed("summary") {
		cfg.Output.Summary = opts.summary
	}
	if flags.Changed("color") {
		cfg.Output.Color = opts.color
	}
	if flags.Changed("no-color") {
		noColor := opts.noColor
		cfg.Determinism.NoColor = &noColor
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.Textfile = opts.metricsFile
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}
}

func newRunLogger(w io.Writer, cfg *config.Config, verbose bool) (*slog.Logger, error) {
	loc, err := time.LoadLocation(cfg.Determinism.TimeZone)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfig, "invalid time zone")
	}
	return newLogger(w, cfg.Log.Level, verbose, loc).With("run_id", uuid.NewString()), nil
}
