package observability

import (
	"astfind/internal/shared/util"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every astfind collector. It is separate from the default
// registerer so a run's textfile only carries search metrics.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// Metrics definitions
var (
	ParsingDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "astfind_parse_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	MatchingDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "astfind_match_seconds",
		Help:    "Time spent evaluating the query against a parsed file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	FilesTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "astfind_files_total",
		Help: "Files processed, by outcome (parsed, skipped or an error code).",
	}, []string{"outcome"})

	MatchesTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "astfind_matches_total",
		Help: "Matches emitted after merge and truncation, by pattern kind.",
	}, []string{"kind"})

	SearchDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "astfind_search_seconds",
		Help:    "Wall time of a full search run.",
		Buckets: prometheus.DefBuckets,
	})

	ParsersLeased = factory.NewGauge(prometheus.GaugeOpts{
		Name: "astfind_parsers_leased",
		Help: "Tree-sitter parsers currently checked out of the pools.",
	})
)

// WriteTextfile writes the registry in the node-exporter textfile format,
// creating missing parent directories.
func WriteTextfile(path string) error {
	if err := util.EnsureParentDir(path); err != nil {
		return err
	}
	return prometheus.WriteToTextfile(path, Registry)
}
