package app

import (
	"context"
	"os"

	"astfind/internal/core/errors"
	"astfind/internal/core/ports"
	"astfind/internal/engine/search"
	"astfind/internal/shared/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type searchService struct {
	app *App
}

var _ ports.SearchService = (*searchService)(nil)

func NewSearchService(app *App) ports.SearchService {
	return &searchService{app: app}
}

func (a *App) SearchService() ports.SearchService {
	return NewSearchService(a)
}

func (s *searchService) Search(ctx context.Context, req ports.SearchRequest) (*search.Result, error) {
	ctx, span := observability.Tracer().Start(ctx, "searchService.Search", trace.WithAttributes(
		attribute.String("astfind.root", req.Root),
	))
	defer span.End()

	if req.Query == nil {
		return nil, errors.New(errors.CodeQuery, "no query to run")
	}
	fsys := req.FS
	if fsys == nil {
		info, err := os.Stat(req.Root)
		if err != nil || !info.IsDir() {
			return nil, errors.AddContext(
				errors.Newf(errors.CodeConfig, "search root %q is not a directory", req.Root),
				errors.CtxPath, req.Root,
			)
		}
		fsys = os.DirFS(req.Root)
	}

	files, err := s.app.source.Discover(ctx, fsys)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.app.Logger.Debug("starting search", "files", len(files), "query", req.Query.String())

	var searcher ports.FileSearcher = search.NewScheduler(fsys, s.app.Parser, s.app.Adapters, s.app.SearchOptions(), s.app.Logger)
	return searcher.Run(ctx, files, req.Query)
}

func (s *searchService) Languages(_ context.Context) ([]ports.LanguageInfo, error) {
	loader := s.app.Parser.Loader()
	grammars := loader.Grammars()
	out := make([]ports.LanguageInfo, 0, len(grammars))
	for _, id := range grammars {
		spec, ok := loader.Spec(id)
		if !ok {
			continue
		}
		out = append(out, ports.LanguageInfo{
			ID:         id,
			Name:       spec.ReportedName(),
			Extensions: append([]string(nil), spec.Extensions...),
			Aliases:    append([]string(nil), spec.Aliases...),
		})
	}
	return out, nil
}
