// # internal/output/output.go
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"astfind/internal/core/errors"
	"astfind/internal/engine/search"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

type Format string

const (
	FormatNDJSON Format = "ndjson"
	FormatText   Format = "text"
)

// Formats lists the accepted --format values.
var Formats = []Format{FormatNDJSON, FormatText}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatNDJSON, nil
	case FormatNDJSON, FormatText:
		return f, nil
	}
	return "", errors.Newf(errors.CodeConfig, "unknown output format %q (want ndjson or text)", s)
}

type Options struct {
	Format Format
	// Summary appends a trailing summary record.
	Summary bool
	// Color allows styled text output when the destination is a terminal.
	Color bool
	// NoColor disables styling regardless of Color.
	NoColor bool
}

// Writer serializes a finished search.
type Writer interface {
	Write(res *search.Result) error
}

func NewWriter(w io.Writer, opts Options) (Writer, error) {
	format := opts.Format
	if format == "" {
		format = FormatNDJSON
	}
	switch format {
	case FormatNDJSON:
		return &ndjsonWriter{w: w, summary: opts.Summary}, nil
	case FormatText:
		return newTextWriter(w, opts.Summary, colorEnabled(w, opts)), nil
	}
	return nil, errors.Newf(errors.CodeConfig, "unknown output format %q", format)
}

// colorEnabled reports whether styling may be used for w.
func colorEnabled(w io.Writer, opts Options) bool {
	if opts.NoColor || !opts.Color {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SummaryMessage is the one-line account of a run.
func SummaryMessage(stats search.Stats) string {
	msg := fmt.Sprintf("%s %s in %s %s",
		humanize.Comma(int64(stats.Matches)), plural(stats.Matches, "match", "matches"),
		humanize.Comma(int64(stats.Files)), plural(stats.Files, "file", "files"),
	)
	var extra []string
	if stats.Errors > 0 {
		extra = append(extra, fmt.Sprintf("%s %s", humanize.Comma(int64(stats.Errors)), plural(stats.Errors, "error", "errors")))
	}
	if stats.Skipped > 0 {
		extra = append(extra, fmt.Sprintf("%s skipped", humanize.Comma(int64(stats.Skipped))))
	}
	if stats.Truncated > 0 {
		extra = append(extra, fmt.Sprintf("%s truncated", humanize.Comma(int64(stats.Truncated))))
	}
	if len(extra) > 0 {
		msg += " (" + strings.Join(extra, ", ") + ")"
	}
	return msg
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
