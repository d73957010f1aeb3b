// Package match evaluates a parsed query against one file's syntax tree.
package match

import (
	"astfind/internal/engine/adapter"
	"astfind/internal/engine/query"
)

// Key is the identity of an occurrence. Two matches with equal keys denote
// the same source range regardless of which pattern produced them.
type Key struct {
	Path      string
	StartLine int
	EndLine   int
}

// Match is one located occurrence. Lines are 1-based and inclusive.
type Match struct {
	Language  string
	Path      string
	StartLine int
	EndLine   int
	ChunkID   string
	Score     float64
	Excerpt   string
	Capture   adapter.Capture
	Kind      query.Kind
}

func (m Match) Key() Key {
	return Key{Path: m.Path, StartLine: m.StartLine, EndLine: m.EndLine}
}

// Less orders keys by path, then start line, then end line.
func (k Key) Less(other Key) bool {
	if k.Path != other.Path {
		return k.Path < other.Path
	}
	if k.StartLine != other.StartLine {
		return k.StartLine < other.StartLine
	}
	return k.EndLine < other.EndLine
}

var scores = map[query.Kind]float64{
	query.KindCall:   1.0,
	query.KindImport: 1.0,
	query.KindDef:    1.0,
}

// ScoreFor returns the constant rank of a pattern kind.
func ScoreFor(kind query.Kind) float64 {
	return scores[kind]
}
