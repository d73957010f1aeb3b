package main

import (
	"io"

	"astfind/internal/core/config"

	"github.com/spf13/cobra"
)

type searchOptions struct {
	within       string
	lang         string
	query        string
	configPath   string
	format       string
	metricsFile  string
	context      int
	maxResults   int
	workers      int
	maxFileBytes int64
	exclude      []string
	include      []string
	summary      bool
	strict       bool
	verbose      bool
	color        bool
	noColor      bool
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &searchOptions{}
	cmd := &cobra.Command{
		Use:   "astfind",
		Short: "Structure-aware code search",
		Long: `astfind searches source trees by syntax rather than text.

Queries select calls, imports and definitions and filter them with regex
predicates, for example:

  astfind --query 'call(object=/^axios$/, prop=/^(get|post)$/)'
  astfind --lang py --query 'and(import(module=/requests/), not(import(module=/^requests\.adapters/)))'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSearch(cmd, opts, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVar(&opts.within, "within", ".", "directory to search")
	flags.StringVar(&opts.lang, "lang", "", "comma-separated languages (e.g. py,ts,js)")
	flags.StringVarP(&opts.query, "query", "q", "", "query, e.g. call(callee=/^get$/)")
	flags.IntVar(&opts.context, "context", config.DefaultContext, "lines of context around each excerpt")
	flags.IntVar(&opts.maxResults, "max-results", config.DefaultMaxResults, "maximum matches to emit (<= 0 for unlimited)")
	flags.IntVar(&opts.workers, "workers", 0, "parallel workers (0 for one per CPU)")
	flags.Int64Var(&opts.maxFileBytes, "max-file-bytes", config.DefaultMaxFileBytes, "skip larger files with E_TOO_LARGE (< 0 for no limit)")
	flags.StringSliceVar(&opts.exclude, "exclude", nil, "extra base-name globs to exclude (dirs and files)")
	flags.StringSliceVar(&opts.include, "include", nil, "only search paths matching these globs (** supported)")
	flags.StringVar(&opts.format, "format", config.DefaultFormat, "output format: ndjson or text")
	flags.BoolVar(&opts.summary, "summary", false, "emit a trailing summary record")
	flags.BoolVar(&opts.strict, "strict", false, "report files with syntax errors instead of searching them")
	flags.BoolVar(&opts.color, "color", false, "style text output when writing to a terminal")
	flags.BoolVar(&opts.noColor, "no-color", true, "never style output")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write prometheus metrics to this textfile after the run")
	_ = cmd.MarkFlagRequired("query")

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: astfind.toml found upwards from --within)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose logging on stderr")

	cmd.AddCommand(
		newVersionCommand(stdout),
		newLanguagesCommand(opts, stdout),
		newCheckCommand(stdout),
	)
	return cmd
}
