package search

import (
	"sort"

	"astfind/internal/engine/match"
)

type RecordType string

const (
	RecordMatch RecordType = "match"
	RecordError RecordType = "error"
)

// FileRef is one candidate file from discovery. Language is a grammar id.
type FileRef struct {
	Path     string
	Language string
}

// ErrorRecord reports a file that could not be read or parsed.
type ErrorRecord struct {
	Code    string
	Message string
	Path    string
}

// Record is a tagged output record: exactly one of Match and Error is set.
type Record struct {
	Type  RecordType
	Match *match.Match
	Error *ErrorRecord
}

func matchRecord(m match.Match) Record {
	return Record{Type: RecordMatch, Match: &m}
}

func errorRecord(e ErrorRecord) Record {
	return Record{Type: RecordError, Error: &e}
}

// Path returns the file the record belongs to.
func (r Record) Path() string {
	switch r.Type {
	case RecordMatch:
		return r.Match.Path
	case RecordError:
		return r.Error.Path
	}
	return ""
}

type Stats struct {
	Files     int
	Parsed    int
	Skipped   int
	Errors    int
	Matches   int
	Truncated int
}

type Result struct {
	Records []Record
	Stats   Stats
}

// Matches returns the match records in order.
func (r *Result) Matches() []match.Match {
	if r == nil {
		return nil
	}
	out := make([]match.Match, 0, r.Stats.Matches)
	for _, rec := range r.Records {
		if rec.Type == RecordMatch {
			out = append(out, *rec.Match)
		}
	}
	return out
}

// Errors returns the error records in order.
func (r *Result) Errors() []ErrorRecord {
	if r == nil {
		return nil
	}
	var out []ErrorRecord
	for _, rec := range r.Records {
		if rec.Type == RecordError {
			out = append(out, *rec.Error)
		}
	}
	return out
}

// sortRecords orders records by path, errors before matches, then by line span.
func sortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if pa, pb := a.Path(), b.Path(); pa != pb {
			return pa < pb
		}
		if a.Type != b.Type {
			return a.Type == RecordError
		}
		if a.Type == RecordError {
			return false
		}
		return a.Match.Key().Less(b.Match.Key())
	})
}

// truncate keeps the first limit matches and every error record. It returns
// the kept records and the number of matches dropped.
func truncate(records []Record, limit int) ([]Record, int) {
	if limit <= 0 {
		return records, 0
	}
	kept := make([]Record, 0, len(records))
	seen, dropped := 0, 0
	for _, rec := range records {
		if rec.Type == RecordMatch {
			if seen >= limit {
				dropped++
				continue
			}
			seen++
		}
		kept = append(kept, rec)
	}
	return kept, dropped
}
