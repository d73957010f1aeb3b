// # internal/engine/parser/parser.go
package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"astfind/internal/core/errors"
	"astfind/internal/shared/util"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Parser turns source bytes into tree-sitter trees using pooled parsers.
// It is safe for concurrent use.
type Parser struct {
	loader     *GrammarLoader
	pools      *PoolSet
	extensions map[string]string
}

func NewParser(loader *GrammarLoader) *Parser {
	p := &Parser{
		loader:     loader,
		pools:      NewPoolSet(loader),
		extensions: make(map[string]string),
	}
	for lang, spec := range loader.LanguageRegistry() {
		if !spec.Enabled {
			continue
		}
		for _, ext := range spec.Extensions {
			p.extensions[strings.ToLower(ext)] = lang
		}
	}
	return p
}

func (p *Parser) Loader() *GrammarLoader {
	return p.loader
}

// Parse parses src with the grammar registered under id. The caller owns the
// returned tree and must Close it.
func (p *Parser) Parse(id string, src []byte) (*sitter.Tree, error) {
	pool, ok := p.pools.Pool(id)
	if !ok {
		return nil, errors.AddContext(
			errors.New(errors.CodeUnsupported, fmt.Sprintf("no grammar loaded for %q", id)),
			errors.CtxLanguage, id,
		)
	}

	sp := pool.Get()
	defer pool.Put(sp)

	tree := sp.Parse(src, nil)
	if tree == nil {
		return nil, errors.New(errors.CodeParse, "parser produced no syntax tree")
	}
	return tree, nil
}

// Leased reports parsers currently checked out across all grammars.
func (p *Parser) Leased() int {
	return p.pools.Leased()
}

// DetectLanguage returns the grammar id for path's extension, or "".
func (p *Parser) DetectLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	return p.extensions[ext]
}

func (p *Parser) IsSupportedPath(path string) bool {
	return p.DetectLanguage(path) != ""
}

func (p *Parser) SupportedExtensions() []string {
	return util.SortedStringKeys(p.extensions)
}
