package app

import (
	"log/slog"

	"astfind/internal/core/config"
	"astfind/internal/core/errors"
	"astfind/internal/core/ports"
	"astfind/internal/discover"
	"astfind/internal/engine/adapter"
	"astfind/internal/engine/parser"
	"astfind/internal/engine/search"
)

// App wires configuration to the search engine.
type App struct {
	Config   *config.Config
	Parser   *parser.Parser
	Adapters *adapter.Registry
	Logger   *slog.Logger

	source ports.FileSource
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	registry, err := buildParserRegistry(cfg)
	if err != nil {
		return nil, err
	}
	loader, err := parser.NewGrammarLoaderWithRegistry(registry)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfig, "cannot load grammars")
	}
	p := parser.NewParser(loader)

	source, err := discover.New(p, discover.Options{
		Languages:    cfg.Search.Languages,
		ExcludeDirs:  cfg.Exclude.Dirs,
		ExcludeFiles: cfg.Exclude.Files,
		Include:      cfg.Include.Paths,
	}, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:   cfg,
		Parser:   p,
		Adapters: adapter.Default(),
		Logger:   logger,
		source:   source,
	}, nil
}

func buildParserRegistry(cfg *config.Config) (map[string]parser.LanguageSpec, error) {
	overrides := make(map[string]parser.LanguageOverride, len(cfg.Languages))
	for name, lang := range cfg.Languages {
		overrides[name] = parser.LanguageOverride{
			Enabled:    lang.Enabled,
			Extensions: lang.Extensions,
		}
	}
	registry, err := parser.BuildLanguageRegistry(overrides)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfig, "invalid language settings")
	}
	return registry, nil
}

// SearchOptions maps the [search] section onto scheduler options.
func (a *App) SearchOptions() search.Options {
	s := a.Config.Search
	return search.Options{
		Workers:      s.Workers,
		MaxResults:   s.MaxResults,
		Context:      s.ContextLines(),
		MaxFileBytes: s.MaxFileBytes,
		StrictSyntax: s.StrictSyntax,
	}
}
