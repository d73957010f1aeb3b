// # internal/engine/parser/pool.go
package parser

import (
	"sync"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ParserPool recycles tree-sitter parsers for one grammar so workers do not
// pay sitter.NewParser()/Close() per file.
//
//	sp := pool.Get()
//	defer pool.Put(sp)
//	tree := sp.Parse(source, nil)
//
// Safe for concurrent use.
type ParserPool struct {
	lang *sitter.Language
	pool sync.Pool

	leases   map[*sitter.Parser]time.Time
	leasesMu sync.Mutex
}

// NewParserPool creates a pool for lang. lang must outlive the pool.
func NewParserPool(lang *sitter.Language) *ParserPool {
	p := &ParserPool{
		lang:   lang,
		leases: make(map[*sitter.Parser]time.Time),
	}
	p.pool = sync.Pool{
		New: func() any {
			sp := sitter.NewParser()
			_ = sp.SetLanguage(lang)
			return sp
		},
	}
	return p
}

// Get leases a parser configured for the pool's grammar.
func (p *ParserPool) Get() *sitter.Parser {
	sp := p.pool.Get().(*sitter.Parser)
	_ = sp.SetLanguage(p.lang)

	p.leasesMu.Lock()
	p.leases[sp] = time.Now()
	p.leasesMu.Unlock()

	return sp
}

// Put resets sp and returns it to the pool. sp must not be used afterwards.
func (p *ParserPool) Put(sp *sitter.Parser) {
	if sp == nil {
		return
	}

	p.leasesMu.Lock()
	delete(p.leases, sp)
	p.leasesMu.Unlock()

	sp.Reset()
	p.pool.Put(sp)
}

// Leased returns the number of parsers currently checked out.
func (p *ParserPool) Leased() int {
	p.leasesMu.Lock()
	defer p.leasesMu.Unlock()
	return len(p.leases)
}

// OldestLease reports how long the longest outstanding parser has been held.
func (p *ParserPool) OldestLease(now time.Time) time.Duration {
	p.leasesMu.Lock()
	defer p.leasesMu.Unlock()
	var oldest time.Duration
	for _, since := range p.leases {
		if d := now.Sub(since); d > oldest {
			oldest = d
		}
	}
	return oldest
}

// PoolSet lazily creates one ParserPool per grammar id.
type PoolSet struct {
	loader *GrammarLoader
	mu     sync.Mutex
	pools  map[string]*ParserPool
}

func NewPoolSet(loader *GrammarLoader) *PoolSet {
	return &PoolSet{
		loader: loader,
		pools:  make(map[string]*ParserPool),
	}
}

// Pool returns the pool for grammar id, or false when no grammar is loaded
// under that id.
func (s *PoolSet) Pool(id string) (*ParserPool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pool, ok := s.pools[id]; ok {
		return pool, true
	}
	lang, ok := s.loader.Language(id)
	if !ok {
		return nil, false
	}
	pool := NewParserPool(lang)
	s.pools[id] = pool
	return pool, true
}

// Leased sums outstanding leases across every pool.
func (s *PoolSet) Leased() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, pool := range s.pools {
		total += pool.Leased()
	}
	return total
}
