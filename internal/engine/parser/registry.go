package parser

import (
	"fmt"
	"sort"
	"strings"

	"astfind/internal/shared/util"
)

// LanguageSpec describes one grammar the engine can load. Family is the
// language reported on matches; grammar variants such as tsx share the
// family of their base language.
type LanguageSpec struct {
	Name       string
	Family     string
	Extensions []string
	Aliases    []string
	Enabled    bool
}

// ReportedName returns the family, falling back to the grammar name.
func (s LanguageSpec) ReportedName() string {
	if s.Family != "" {
		return s.Family
	}
	return s.Name
}

type LanguageOverride struct {
	Enabled    *bool    `toml:"enabled" yaml:"enabled"`
	Extensions []string `toml:"extensions" yaml:"extensions"`
}

func DefaultLanguageRegistry() map[string]LanguageSpec {
	return map[string]LanguageSpec{
		"csharp": {
			Name:       "csharp",
			Extensions: []string{".cs", ".csx"},
			Aliases:    []string{"cs", "c#"},
			Enabled:    true,
		},
		"go": {
			Name:       "go",
			Extensions: []string{".go"},
			Aliases:    []string{"golang"},
			Enabled:    true,
		},
		"java": {
			Name:       "java",
			Extensions: []string{".java"},
			Enabled:    true,
		},
		"javascript": {
			Name:       "javascript",
			Extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
			Aliases:    []string{"js"},
			Enabled:    true,
		},
		"python": {
			Name:       "python",
			Extensions: []string{".py", ".pyi"},
			Aliases:    []string{"py"},
			Enabled:    true,
		},
		"rust": {
			Name:       "rust",
			Extensions: []string{".rs"},
			Aliases:    []string{"rs"},
			Enabled:    true,
		},
		"tsx": {
			Name:       "tsx",
			Family:     "typescript",
			Extensions: []string{".tsx"},
			Enabled:    true,
		},
		"typescript": {
			Name:       "typescript",
			Extensions: []string{".ts", ".mts", ".cts"},
			Aliases:    []string{"ts"},
			Enabled:    true,
		},
	}
}

// BuildLanguageRegistry applies overrides to the default registry and
// rejects extensions claimed by two enabled grammars.
func BuildLanguageRegistry(overrides map[string]LanguageOverride) (map[string]LanguageSpec, error) {
	registry := cloneLanguageRegistry(DefaultLanguageRegistry())
	for _, language := range util.SortedStringKeys(overrides) {
		override := overrides[language]
		spec, ok := registry[language]
		if !ok {
			return nil, fmt.Errorf("unknown language override %q", language)
		}
		if override.Enabled != nil {
			spec.Enabled = *override.Enabled
		}
		if len(override.Extensions) > 0 {
			spec.Extensions = normalizeExtensions(override.Extensions)
		}
		registry[language] = spec
	}

	if err := validateLanguageRegistry(registry); err != nil {
		return nil, err
	}
	return registry, nil
}

func cloneLanguageRegistry(in map[string]LanguageSpec) map[string]LanguageSpec {
	out := make(map[string]LanguageSpec, len(in))
	for id, spec := range in {
		copySpec := spec
		copySpec.Extensions = append([]string(nil), spec.Extensions...)
		copySpec.Aliases = append([]string(nil), spec.Aliases...)
		out[id] = copySpec
	}
	return out
}

func validateLanguageRegistry(registry map[string]LanguageSpec) error {
	extOwner := make(map[string]string)
	for _, id := range util.SortedStringKeys(registry) {
		spec := registry[id]
		if !spec.Enabled {
			continue
		}
		for _, ext := range normalizeExtensions(spec.Extensions) {
			if existing, ok := extOwner[ext]; ok && existing != id {
				return fmt.Errorf("duplicate extension %q owned by %q and %q", ext, existing, id)
			}
			extOwner[ext] = id
		}
	}
	return nil
}

func normalizeExtensions(values []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(values))
	for _, value := range values {
		raw := strings.TrimSpace(strings.ToLower(value))
		if raw == "" {
			continue
		}
		if !strings.HasPrefix(raw, ".") {
			raw = "." + raw
		}
		if seen[raw] {
			continue
		}
		seen[raw] = true
		out = append(out, raw)
	}
	sort.Strings(out)
	return out
}
