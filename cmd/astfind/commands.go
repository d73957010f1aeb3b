package main

import (
	"fmt"
	"io"
	"strings"

	"astfind/internal/core/app"
	"astfind/internal/core/config"
	"astfind/internal/engine/query"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "0.1.0"

func newVersionCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(stdout, "astfind %s\n", Version)
		},
	}
}

func newLanguagesCommand(opts *searchOptions, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported languages and their file extensions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := config.LoadOrDefault(opts.configPath, ".")
			if err != nil {
				return err
			}
			a, err := app.New(cfg, nil)
			if err != nil {
				return err
			}
			langs, err := a.SearchService().Languages(cmd.Context())
			if err != nil {
				return err
			}
			for _, lang := range langs {
				line := fmt.Sprintf("%-11s %s", lang.ID, strings.Join(lang.Extensions, " "))
				if len(lang.Aliases) > 0 {
					line += "  (aliases: " + strings.Join(lang.Aliases, ", ") + ")"
				}
				fmt.Fprintln(stdout, line)
			}
			return nil
		},
	}
}

func newCheckCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "check QUERY",
		Short: "Parse a query and print its canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			q, err := query.Parse(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, q.String())
			return nil
		},
	}
}
