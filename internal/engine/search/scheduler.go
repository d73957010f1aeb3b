// # internal/engine/search/scheduler.go
package search

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"runtime"
	"time"

	"astfind/internal/core/errors"
	"astfind/internal/engine/adapter"
	"astfind/internal/engine/match"
	"astfind/internal/engine/parser"
	"astfind/internal/engine/query"
	"astfind/internal/shared/observability"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// binarySniffLen is how much of a file is checked for NUL bytes.
const binarySniffLen = 1024

type Options struct {
	// Workers bounds the files in flight. Zero or less means runtime.NumCPU.
	Workers int
	// MaxResults bounds the matches after the global sort. Zero or less
	// means unlimited. Error records are never dropped.
	MaxResults int
	// Context is the number of excerpt lines on each side of a match.
	Context int
	// MaxFileBytes rejects larger files with E_TOO_LARGE. Zero disables it.
	MaxFileBytes int64
	// StrictSyntax reports files whose tree contains syntax errors as
	// E_SYNTAX instead of matching the recovered tree.
	StrictSyntax bool
}

// Scheduler fans files out to a bounded worker pool and merges the per-file
// results into one deterministic sequence.
type Scheduler struct {
	fsys     fs.FS
	parser   *parser.Parser
	adapters *adapter.Registry
	opts     Options
	logger   *slog.Logger
}

func NewScheduler(fsys fs.FS, p *parser.Parser, adapters *adapter.Registry, opts Options, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Context < 0 {
		opts.Context = 0
	}
	return &Scheduler{
		fsys:     fsys,
		parser:   p,
		adapters: adapters,
		opts:     opts,
		logger:   logger,
	}
}

func (s *Scheduler) Options() Options {
	return s.opts
}

// fileResult is one worker's private output for one file.
type fileResult struct {
	matches []match.Match
	err     *ErrorRecord
	skipped bool
}

// Run searches files with q. Per-file failures become error records; the
// returned error is only set when q is nil or ctx is cancelled. Cancellation
// is observed between files.
func (s *Scheduler) Run(ctx context.Context, files []FileRef, q *query.Query) (*Result, error) {
	if q == nil || q.Root == nil {
		return nil, errors.New(errors.CodeQuery, "no query to run")
	}

	started := time.Now()
	ctx, span := observability.Tracer().Start(ctx, "search.run", trace.WithAttributes(
		attribute.Int("astfind.files", len(files)),
		attribute.Int("astfind.workers", s.opts.Workers),
		attribute.String("astfind.query", q.String()),
	))
	defer span.End()

	slots := make([]fileResult, len(files))
	g := new(errgroup.Group)
	g.SetLimit(s.opts.Workers)
	for i, file := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			slots[i] = s.processFile(ctx, file, q)
			return nil
		})
	}
	waitErr := g.Wait()
	if err := ctx.Err(); err != nil || waitErr != nil {
		if err == nil {
			err = waitErr
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "search cancelled")
		return nil, err
	}

	result := s.merge(files, slots)
	observability.SearchDuration.Observe(time.Since(started).Seconds())
	span.SetAttributes(
		attribute.Int("astfind.matches", result.Stats.Matches),
		attribute.Int("astfind.errors", result.Stats.Errors),
	)
	s.logger.Debug("search finished",
		"files", result.Stats.Files,
		"matches", result.Stats.Matches,
		"errors", result.Stats.Errors,
		"truncated", result.Stats.Truncated,
		"elapsed", time.Since(started),
	)
	return result, nil
}

// merge runs single-threaded after every worker has finished.
func (s *Scheduler) merge(files []FileRef, slots []fileResult) *Result {
	result := &Result{Stats: Stats{Files: len(files)}}
	var records []Record
	for _, slot := range slots {
		switch {
		case slot.err != nil:
			result.Stats.Errors++
			records = append(records, errorRecord(*slot.err))
		case slot.skipped:
			result.Stats.Skipped++
		default:
			result.Stats.Parsed++
			for _, m := range slot.matches {
				records = append(records, matchRecord(m))
			}
		}
	}

	sortRecords(records)
	records, dropped := truncate(records, s.opts.MaxResults)
	result.Records = records
	result.Stats.Truncated = dropped
	for _, rec := range records {
		if rec.Type == RecordMatch {
			result.Stats.Matches++
			observability.MatchesTotal.WithLabelValues(rec.Match.Kind.String()).Inc()
		}
	}
	return result
}

func (s *Scheduler) processFile(ctx context.Context, file FileRef, q *query.Query) (res fileResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic while searching file", "path", file.Path, "language", file.Language, "panic", r)
			observability.FilesTotal.WithLabelValues(string(errors.CodeInternal)).Inc()
			res = fileResult{err: &ErrorRecord{
				Code:    string(errors.CodeInternal),
				Message: fmt.Sprintf("panic: %v", r),
				Path:    file.Path,
			}}
		}
	}()

	matches, skipped, err := s.searchFile(ctx, file, q)
	switch {
	case err != nil:
		code := errors.CodeOf(err)
		s.logger.Warn("failed to search file", "path", file.Path, "language", file.Language, "error", err)
		observability.FilesTotal.WithLabelValues(string(code)).Inc()
		return fileResult{err: &ErrorRecord{
			Code:    string(code),
			Message: errors.Message(err),
			Path:    file.Path,
		}}
	case skipped:
		s.logger.Debug("skipping binary file", "path", file.Path)
		observability.FilesTotal.WithLabelValues("skipped").Inc()
		return fileResult{skipped: true}
	}
	observability.FilesTotal.WithLabelValues("parsed").Inc()
	return fileResult{matches: matches}
}

func (s *Scheduler) searchFile(ctx context.Context, file FileRef, q *query.Query) ([]match.Match, bool, error) {
	_, span := observability.Tracer().Start(ctx, "search.file", trace.WithAttributes(
		attribute.String("astfind.path", file.Path),
		attribute.String("astfind.language", file.Language),
	))
	defer span.End()

	ad, ok := s.adapters.Lookup(file.Language)
	if !ok {
		err := errors.AddContext(
			errors.Newf(errors.CodeUnsupported, "no adapter for language %q", file.Language),
			errors.CtxLanguage, file.Language,
		)
		span.RecordError(err)
		return nil, false, err
	}

	src, err := s.read(file.Path)
	if err != nil {
		span.RecordError(err)
		return nil, false, err
	}
	if isBinary(src) {
		return nil, true, nil
	}

	parseStarted := time.Now()
	tree, err := s.parser.Parse(file.Language, src)
	observability.ParsingDuration.WithLabelValues(ad.Language()).Observe(time.Since(parseStarted).Seconds())
	observability.ParsersLeased.Set(float64(s.parser.Leased()))
	if err != nil {
		span.RecordError(err)
		return nil, false, errors.AddContext(err, errors.CtxPath, file.Path)
	}
	defer tree.Close()

	root := tree.RootNode()
	if s.opts.StrictSyntax && root.HasError() {
		return nil, false, errors.AddContext(
			errors.New(errors.CodeSyntax, "source contains syntax errors"),
			errors.CtxPath, file.Path,
		)
	}

	matchStarted := time.Now()
	matches := match.Evaluate(match.Input{
		Path:    file.Path,
		Source:  src,
		Root:    root,
		Adapter: ad,
		Context: s.opts.Context,
	}, q)
	observability.MatchingDuration.WithLabelValues(ad.Language()).Observe(time.Since(matchStarted).Seconds())
	span.SetAttributes(attribute.Int("astfind.matches", len(matches)))
	return matches, false, nil
}

func (s *Scheduler) read(path string) ([]byte, error) {
	limit := s.opts.MaxFileBytes
	if limit > 0 {
		info, err := fs.Stat(s.fsys, path)
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeRead, "cannot stat file"), errors.CtxPath, path)
		}
		if info.Size() > limit {
			return nil, tooLarge(path, info.Size(), limit)
		}
	}

	src, err := fs.ReadFile(s.fsys, path)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeRead, "cannot read file"), errors.CtxPath, path)
	}
	// The file may have grown between Stat and ReadFile.
	if limit > 0 && int64(len(src)) > limit {
		return nil, tooLarge(path, int64(len(src)), limit)
	}
	return src, nil
}

func tooLarge(path string, size, limit int64) error {
	return errors.AddContext(
		errors.Newf(errors.CodeTooLarge, "file is %s, limit is %s",
			humanize.IBytes(uint64(size)), humanize.IBytes(uint64(limit))),
		errors.CtxPath, path,
	)
}

// isBinary reports a NUL byte in the leading bytes of src.
func isBinary(src []byte) bool {
	head := src
	if len(head) > binarySniffLen {
		head = head[:binarySniffLen]
	}
	return bytes.IndexByte(head, 0) >= 0
}
