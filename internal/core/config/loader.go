package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"astfind/internal/core/errors"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load reads a TOML file, or YAML when the name ends in .yaml or .yml,
// applies defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeConfig, "cannot read config"), errors.CtxPath, path)
	}

	var cfg Config
	if err := decode(path, data, &cfg); err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeConfig, "cannot decode config"), errors.CtxPath, path)
	}

	applyDefaults(&cfg)
	normalize(&cfg)

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.AddContext(
			errors.Wrap(joinErrors(errs), errors.CodeConfig, "invalid config"),
			errors.CtxPath, path,
		)
	}
	return &cfg, nil
}

// LoadOrDefault loads path when it is set. Otherwise it looks for the
// default file from dir upwards and falls back to Default. It returns the
// file actually used, or "" for the defaults.
func LoadOrDefault(path, dir string) (*Config, string, error) {
	if strings.TrimSpace(path) != "" {
		cfg, err := Load(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}

	candidate, ok := DiscoverConfig(dir)
	if !ok {
		return Default(), "", nil
	}
	cfg, err := Load(candidate)
	if err != nil {
		return nil, "", err
	}
	return cfg, candidate, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return err
		}
		return nil
	default:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return errors.Newf(errors.CodeConfig, "unknown config key %q", undecoded[0].String())
		}
		return nil
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if cfg.Search.Context == nil {
		context := DefaultContext
		cfg.Search.Context = &context
	}
	if cfg.Search.MaxResults == 0 {
		cfg.Search.MaxResults = DefaultMaxResults
	}
	if cfg.Search.MaxFileBytes == 0 {
		cfg.Search.MaxFileBytes = DefaultMaxFileBytes
	}

	if cfg.Exclude.Dirs == nil {
		cfg.Exclude.Dirs = append([]string(nil), DefaultExcludeDirs...)
	}

	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = DefaultFormat
	}
	if cfg.Determinism.NoColor == nil {
		enabled := true
		cfg.Determinism.NoColor = &enabled
	}
	if strings.TrimSpace(cfg.Determinism.TimeZone) == "" {
		cfg.Determinism.TimeZone = DefaultTimeZone
	}
	if strings.TrimSpace(cfg.Log.Level) == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if strings.TrimSpace(cfg.Tracing.Endpoint) == "" {
		cfg.Tracing.Endpoint = DefaultOTLPEndpoint
	}
}

func normalize(cfg *Config) {
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Determinism.TimeZone = strings.TrimSpace(cfg.Determinism.TimeZone)
	cfg.Tracing.Endpoint = strings.TrimSpace(cfg.Tracing.Endpoint)
	cfg.Metrics.Textfile = strings.TrimSpace(cfg.Metrics.Textfile)
	cfg.Search.Languages = trimAll(cfg.Search.Languages)
	cfg.Include.Paths = trimAll(cfg.Include.Paths)

	if len(cfg.Languages) > 0 {
		normalized := make(map[string]Language, len(cfg.Languages))
		for name, lang := range cfg.Languages {
			normalized[strings.ToLower(strings.TrimSpace(name))] = lang
		}
		cfg.Languages = normalized
	}
}

func trimAll(values []string) []string {
	if len(values) == 0 {
		return values
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
