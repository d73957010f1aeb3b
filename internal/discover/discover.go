// Package discover turns a directory tree into the sorted candidate file
// list searched by the scheduler.
package discover

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"astfind/internal/core/errors"
	"astfind/internal/engine/parser"
	"astfind/internal/engine/search"
	"astfind/internal/shared/util"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
)

type Options struct {
	// Languages restricts the result to these names or aliases. Empty
	// means every enabled language.
	Languages []string
	// ExcludeDirs and ExcludeFiles are globs matched against base names.
	ExcludeDirs  []string
	ExcludeFiles []string
	// Include, when set, keeps only files whose slash path relative to the
	// root matches one of these doublestar patterns.
	Include []string
}

type Discoverer struct {
	parser    *parser.Parser
	dirGlobs  []glob.Glob
	fileGlobs []glob.Glob
	include   []string
	grammars  map[string]bool
	logger    *slog.Logger
}

func New(p *parser.Parser, opts Options, logger *slog.Logger) (*Discoverer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Discoverer{parser: p, logger: logger}

	var err error
	if d.dirGlobs, err = compileGlobs("exclude dir", opts.ExcludeDirs); err != nil {
		return nil, err
	}
	if d.fileGlobs, err = compileGlobs("exclude file", opts.ExcludeFiles); err != nil {
		return nil, err
	}

	for _, pattern := range opts.Include {
		pattern = util.NormalizePatternPath(pattern)
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Newf(errors.CodeConfig, "invalid include pattern %q", pattern)
		}
		d.include = append(d.include, pattern)
	}

	if len(opts.Languages) > 0 {
		d.grammars = make(map[string]bool)
		for _, name := range opts.Languages {
			ids, ok := p.Loader().Resolve(name)
			if !ok {
				return nil, errors.AddContext(
					errors.Newf(errors.CodeConfig, "unknown language %q", name),
					errors.CtxLanguage, name,
				)
			}
			for _, id := range ids {
				d.grammars[id] = true
			}
		}
	}
	return d, nil
}

func compileGlobs(what string, patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeConfig, fmt.Sprintf("invalid %s pattern %q", what, p))
		}
		out = append(out, g)
	}
	return out, nil
}

// Discover walks fsys from its root. Paths are slash-separated, relative to
// the root and sorted. Hidden files are not skipped. Unreadable entries
// below the root are logged and skipped.
func (d *Discoverer) Discover(ctx context.Context, fsys fs.FS) ([]search.FileRef, error) {
	var files []search.FileRef
	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if p == "." {
				return errors.Wrap(err, errors.CodeRead, "cannot read search root")
			}
			d.logger.Warn("skipping unreadable path", "path", p, "error", err)
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		base := path.Base(p)
		if entry.IsDir() {
			if p != "." && matchAny(d.dirGlobs, base) {
				return fs.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}

		lang := d.parser.DetectLanguage(p)
		if lang == "" {
			return nil
		}
		if d.grammars != nil && !d.grammars[lang] {
			return nil
		}
		if matchAny(d.fileGlobs, base) || !d.included(p) {
			return nil
		}

		files = append(files, search.FileRef{Path: p, Language: lang})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	d.logger.Debug("discovered files", "count", len(files))
	return files, nil
}

func (d *Discoverer) included(p string) bool {
	if len(d.include) == 0 {
		return true
	}
	for _, pattern := range d.include {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
	}
	return false
}

func matchAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// SplitList splits a comma-separated flag value, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
