package config

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
)

var validFormats = map[string]bool{"ndjson": true, "text": true}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate reports every problem in cfg rather than stopping at the first.
func Validate(cfg *Config) []error {
	var errs []error
	errs = append(errs, validateVersion(cfg)...)
	errs = append(errs, validateSearch(cfg)...)
	errs = append(errs, validatePatterns(cfg)...)
	errs = append(errs, validateOutput(cfg)...)
	errs = append(errs, validateDeterminism(cfg)...)
	errs = append(errs, validateTracing(cfg)...)
	return errs
}

func validateVersion(cfg *Config) []error {
	if cfg.Version != 1 {
		return []error{fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)}
	}
	return nil
}

func validateSearch(cfg *Config) []error {
	var errs []error
	if cfg.Search.Workers < 0 {
		errs = append(errs, fmt.Errorf("search.workers must be >= 0, got %d", cfg.Search.Workers))
	}
	if cfg.Search.Context != nil && *cfg.Search.Context < 0 {
		errs = append(errs, fmt.Errorf("search.context must be >= 0, got %d", *cfg.Search.Context))
	}
	for i, lang := range cfg.Search.Languages {
		if strings.ContainsAny(lang, " \t") {
			errs = append(errs, fmt.Errorf("search.languages[%d] %q must not contain whitespace", i, lang))
		}
	}
	return errs
}

func validatePatterns(cfg *Config) []error {
	var errs []error
	for i, p := range cfg.Exclude.Dirs {
		if _, err := glob.Compile(p); err != nil {
			errs = append(errs, fmt.Errorf("exclude.dirs[%d] %q is not a valid glob: %v", i, p, err))
		}
	}
	for i, p := range cfg.Exclude.Files {
		if _, err := glob.Compile(p); err != nil {
			errs = append(errs, fmt.Errorf("exclude.files[%d] %q is not a valid glob: %v", i, p, err))
		}
	}
	for i, p := range cfg.Include.Paths {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Errorf("include.paths[%d] %q is not a valid pattern", i, p))
		}
	}
	return errs
}

func validateOutput(cfg *Config) []error {
	var errs []error
	if !validFormats[cfg.Output.Format] {
		errs = append(errs, fmt.Errorf("output.format must be one of: ndjson, text; got %q", cfg.Output.Format))
	}
	if !validLevels[cfg.Log.Level] {
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", cfg.Log.Level))
	}
	return errs
}

func validateDeterminism(cfg *Config) []error {
	if _, err := time.LoadLocation(cfg.Determinism.TimeZone); err != nil {
		return []error{fmt.Errorf("determinism.time_zone %q is not a known zone", cfg.Determinism.TimeZone)}
	}
	return nil
}

func validateTracing(cfg *Config) []error {
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		return []error{fmt.Errorf("tracing.endpoint must not be empty when tracing.enabled=true")}
	}
	return nil
}

func joinErrors(errs []error) error {
	return stderrors.Join(errs...)
}
