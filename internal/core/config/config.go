package config

// DefaultFile is the config file name looked up when --config is not given.
const DefaultFile = "astfind.toml"

const (
	DefaultContext      = 2
	DefaultMaxResults   = 5000
	DefaultMaxFileBytes = 10 << 20
	DefaultTimeZone     = "UTC"
	DefaultLogLevel     = "info"
	DefaultFormat       = "ndjson"
	DefaultOTLPEndpoint = "localhost:4317"
)

// DefaultExcludeDirs are directory base names never searched.
var DefaultExcludeDirs = []string{".git", "node_modules", "target", "vendor"}

type Config struct {
	Version     int                 `toml:"version" yaml:"version"`
	Search      Search              `toml:"search" yaml:"search"`
	Exclude     Exclude             `toml:"exclude" yaml:"exclude"`
	Include     Include             `toml:"include" yaml:"include"`
	Output      Output              `toml:"output" yaml:"output"`
	Determinism Determinism         `toml:"determinism" yaml:"determinism"`
	Log         Log                 `toml:"log" yaml:"log"`
	Metrics     Metrics             `toml:"metrics" yaml:"metrics"`
	Tracing     Tracing             `toml:"tracing" yaml:"tracing"`
	Languages   map[string]Language `toml:"languages" yaml:"languages"`
}

type Search struct {
	// Context is a pointer because zero context lines is a valid choice.
	Context    *int `toml:"context" yaml:"context"`
	MaxResults int  `toml:"max_results" yaml:"max_results"` // negative means unlimited
	// Workers of zero means one per CPU.
	Workers      int      `toml:"workers" yaml:"workers"`
	MaxFileBytes int64    `toml:"max_file_bytes" yaml:"max_file_bytes"` // negative disables the limit
	StrictSyntax bool     `toml:"strict_syntax" yaml:"strict_syntax"`
	Languages    []string `toml:"languages" yaml:"languages"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs" yaml:"dirs"`
	Files []string `toml:"files" yaml:"files"`
}

type Include struct {
	Paths []string `toml:"paths" yaml:"paths"`
}

type Output struct {
	Format  string `toml:"format" yaml:"format"`
	Summary bool   `toml:"summary" yaml:"summary"`
	Color   bool   `toml:"color" yaml:"color"`
}

type Determinism struct {
	NoColor  *bool  `toml:"no_color" yaml:"no_color"`
	TimeZone string `toml:"time_zone" yaml:"time_zone"`
}

type Log struct {
	Level string `toml:"level" yaml:"level"`
}

type Metrics struct {
	Textfile string `toml:"textfile" yaml:"textfile"`
}

type Tracing struct {
	Enabled  bool   `toml:"enabled" yaml:"enabled"`
	Endpoint string `toml:"endpoint" yaml:"endpoint"`
	Insecure bool   `toml:"insecure" yaml:"insecure"`
}

type Language struct {
	Enabled    *bool    `toml:"enabled" yaml:"enabled"`
	Extensions []string `toml:"extensions" yaml:"extensions"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func (d Determinism) NoColorEnabled() bool {
	if d.NoColor == nil {
		return true
	}
	return *d.NoColor
}

func (s Search) ContextLines() int {
	if s.Context == nil {
		return DefaultContext
	}
	return *s.Context
}
