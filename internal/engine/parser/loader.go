// # internal/engine/parser/loader.go
package parser

import (
	"fmt"
	"sort"
	"strings"

	"astfind/internal/shared/util"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// GrammarLoader holds the compiled-in grammars for every enabled language.
type GrammarLoader struct {
	languages map[string]*sitter.Language
	registry  map[string]LanguageSpec
}

func NewGrammarLoader() (*GrammarLoader, error) {
	registry, err := BuildLanguageRegistry(nil)
	if err != nil {
		return nil, err
	}
	return NewGrammarLoaderWithRegistry(registry)
}

func NewGrammarLoaderWithRegistry(registry map[string]LanguageSpec) (*GrammarLoader, error) {
	if registry == nil {
		var err error
		registry, err = BuildLanguageRegistry(nil)
		if err != nil {
			return nil, err
		}
	}

	gl := &GrammarLoader{
		languages: make(map[string]*sitter.Language),
		registry:  cloneLanguageRegistry(registry),
	}

	for _, langID := range util.SortedStringKeys(gl.registry) {
		spec := gl.registry[langID]
		if !spec.Enabled {
			continue
		}
		switch langID {
		case "csharp":
			gl.languages["csharp"] = sitter.NewLanguage(tree_sitter_csharp.Language())
		case "go":
			gl.languages["go"] = sitter.NewLanguage(tree_sitter_go.Language())
		case "java":
			gl.languages["java"] = sitter.NewLanguage(tree_sitter_java.Language())
		case "javascript":
			gl.languages["javascript"] = sitter.NewLanguage(tree_sitter_javascript.Language())
		case "python":
			gl.languages["python"] = sitter.NewLanguage(tree_sitter_python.Language())
		case "rust":
			gl.languages["rust"] = sitter.NewLanguage(tree_sitter_rust.Language())
		case "tsx":
			gl.languages["tsx"] = sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
		case "typescript":
			gl.languages["typescript"] = sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
		default:
			return nil, fmt.Errorf("language %q is enabled but no grammar is compiled in", langID)
		}
	}

	return gl, nil
}

// Language returns the grammar for a grammar id.
func (gl *GrammarLoader) Language(id string) (*sitter.Language, bool) {
	lang, ok := gl.languages[id]
	return lang, ok
}

func (gl *GrammarLoader) LanguageRegistry() map[string]LanguageSpec {
	return cloneLanguageRegistry(gl.registry)
}

// Spec returns the registry entry for a grammar id.
func (gl *GrammarLoader) Spec(id string) (LanguageSpec, bool) {
	spec, ok := gl.registry[id]
	return spec, ok
}

// Grammars lists the enabled grammar ids in sorted order.
func (gl *GrammarLoader) Grammars() []string {
	return util.SortedStringKeys(gl.languages)
}

func (gl *GrammarLoader) SupportedExtensions() []string {
	set := make(map[string]bool)
	for _, spec := range gl.registry {
		if !spec.Enabled {
			continue
		}
		for _, ext := range spec.Extensions {
			set[ext] = true
		}
	}
	return util.SortedStringKeys(set)
}

// Resolve maps a user-supplied language name or alias to the enabled grammar
// ids it selects. "typescript" selects both typescript and tsx.
func (gl *GrammarLoader) Resolve(name string) ([]string, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return nil, false
	}

	family := ""
	for _, id := range util.SortedStringKeys(gl.registry) {
		spec := gl.registry[id]
		if id == want || spec.ReportedName() == want {
			family = spec.ReportedName()
			break
		}
		for _, alias := range spec.Aliases {
			if alias == want {
				family = spec.ReportedName()
			}
		}
		if family != "" {
			break
		}
	}
	if family == "" {
		return nil, false
	}

	var ids []string
	for id, spec := range gl.registry {
		if spec.Enabled && spec.ReportedName() == family {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, len(ids) > 0
}
