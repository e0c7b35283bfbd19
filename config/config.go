// Package config loads platypus's YAML configuration file, overlays
// PLATYPUS_* environment variables, and builds the router and source
// registry the server runs with.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration document, matching the YAML schema
// documented in SPEC_FULL.md section 6.
type Config struct {
	Bind          string `yaml:"bind"`
	UnixSocket    string `yaml:"unix_socket"`
	Target        string `yaml:"target"`
	PoolMaxConns  int32  `yaml:"pool_max_conns"`
	CacheMaxBytes int    `yaml:"cache_max_bytes"`
	Shards        int    `yaml:"shards"`
	LogFormat     string `yaml:"log_format"`
	LogLevel      string `yaml:"log_level"`

	Routes  []RouteConfig           `yaml:"routes"`
	Sources map[string]SourceConfig `yaml:"sources"`
}

// RouteConfig pairs a regex pattern with the named source that serves
// matching keys. A source's own construction arguments (templates,
// timeouts, fan-out rules) live on its SourceConfig entry; define
// another named source if two routes need the same source type
// configured differently.
type RouteConfig struct {
	Pattern string `yaml:"pattern"`
	Source  string `yaml:"source"`
}

// SourceConfig names a source's type and its construction arguments.
// The concrete shape of Args depends on Type; see the building code in
// wire.go for the keys each source type reads. Rules is populated only
// for merge sources, whose fan-out rules are a nested structure the
// flat Args map can't carry.
type SourceConfig struct {
	Type  string            `yaml:"type"`
	Args  map[string]string `yaml:"args"`
	Rules []MergeRuleConfig `yaml:"rules"`
}

// MergeRuleConfig is one fan-out rule of a merge source: the sibling
// source to call, where to place its result in the merged document,
// and optionally a set of captures to substitute in place of the
// parent request's own (absent Args means Inherit).
type MergeRuleConfig struct {
	Key    []string          `yaml:"key"`
	Source string            `yaml:"source"`
	Args   map[string]string `yaml:"args"`
}

// Default returns the configuration used when no file or overrides are
// given, matching the flag defaults documented in SPEC_FULL.md.
func Default() Config {
	return Config{
		Bind:          "127.0.0.1:11212",
		Target:        "127.0.0.1:11211",
		PoolMaxConns:  8,
		CacheMaxBytes: 64 << 20,
		Shards:        32,
		LogFormat:     "console",
		LogLevel:      "info",
	}
}

// Load reads and parses a YAML configuration file at path, starting
// from Default() so unset fields keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays PLATYPUS_* environment variables onto cfg, taking
// precedence over the config file but yielding to explicit CLI flags.
// This mirrors the original implementation's env-wins-over-file,
// flags-win-over-env precedence (RUST_LOG-equivalent: PLATYPUS_LOG_LEVEL).
func (c Config) ApplyEnv() Config {
	if v, ok := os.LookupEnv("PLATYPUS_BIND"); ok {
		c.Bind = v
	}
	if v, ok := os.LookupEnv("PLATYPUS_UNIX_SOCKET"); ok {
		c.UnixSocket = v
	}
	if v, ok := os.LookupEnv("PLATYPUS_TARGET"); ok {
		c.Target = v
	}
	if v, ok := os.LookupEnv("PLATYPUS_POOL_MAX_CONNS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.PoolMaxConns = int32(n)
		}
	}
	if v, ok := os.LookupEnv("PLATYPUS_CACHE_MAX_BYTES"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.CacheMaxBytes = n
		}
	}
	if v, ok := os.LookupEnv("PLATYPUS_SHARDS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Shards = n
		}
	}
	if v, ok := os.LookupEnv("PLATYPUS_LOG_FORMAT"); ok {
		c.LogFormat = v
	}
	if v, ok := os.LookupEnv("PLATYPUS_LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	return c
}

// durationSeconds parses a string argument as whole seconds, returning
// def if s is empty or unparsable.
func durationSeconds(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return time.Duration(n) * time.Second
}
