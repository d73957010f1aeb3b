package ports

import (
	"context"
	"io/fs"

	"astfind/internal/engine/query"
	"astfind/internal/engine/search"
)

// FileSource lists candidate files below the root of fsys.
type FileSource interface {
	Discover(ctx context.Context, fsys fs.FS) ([]search.FileRef, error)
}

// FileSearcher evaluates a query over a file list.
type FileSearcher interface {
	Run(ctx context.Context, files []search.FileRef, q *query.Query) (*search.Result, error)
}

// ResultWriter serializes a finished search.
type ResultWriter interface {
	Write(res *search.Result) error
}

// SearchRequest defines one search for driving adapters.
type SearchRequest struct {
	// Root is the directory searched. FS, when set, is used instead of
	// opening Root.
	Root  string
	FS    fs.FS
	Query *query.Query
}

// LanguageInfo describes one enabled grammar.
type LanguageInfo struct {
	ID         string
	Name       string
	Extensions []string
	Aliases    []string
}

// SearchService is the driving-port surface over the search use cases.
type SearchService interface {
	Search(ctx context.Context, req SearchRequest) (*search.Result, error)
	Languages(ctx context.Context) ([]LanguageInfo, error)
}
