package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that override the file. The password has no config
// key: it is only ever read from a flag or PasswordEnv.
const (
	OriginEnv   = "FIELDWORK_ORIGIN"
	UserEnv     = "FIELDWORK_USER"
	PasswordEnv = "FIELDWORK_PASSWORD"
)

type Config struct {
	Origin            string   `yaml:"origin,omitempty"`
	Username          string   `yaml:"username,omitempty"`
	SettleDelay       string   `yaml:"settle_delay,omitempty"`
	DefaultDomain     string   `yaml:"default_domain,omitempty"`
	HistoryCollection string   `yaml:"history_collection,omitempty"`
	RejectionMarkers  []string `yaml:"rejection_markers,omitempty"`
	Typos             []Typo   `yaml:"typos,omitempty"`
	LogLevel          string   `yaml:"log_level,omitempty"`
}

// Typo is an extra path rewrite, e.g. {from: "mxapiwo/mxapiwo", to: "mxapiwo"}.
type Typo struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

func Load(dataDir string) (*Config, error) {
	path := filepath.Join(dataDir, "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

func Save(dataDir string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	path := filepath.Join(dataDir, "config.yaml")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// WithEnv returns a copy of c with environment overrides applied. The
// result is meant for use, not for Save.
func (c *Config) WithEnv(lookup func(string) (string, bool)) *Config {
	out := *c
	if v, ok := lookup(OriginEnv); ok && v != "" {
		out.Origin = v
	}
	if v, ok := lookup(UserEnv); ok && v != "" {
		out.Username = v
	}
	return &out
}

// Settle parses SettleDelay, returning def when it is unset.
func (c *Config) Settle(def time.Duration) (time.Duration, error) {
	if c.SettleDelay == "" {
		return def, nil
	}
	return parseDelay(c.SettleDelay)
}

func parseDelay(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("settle_delay: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("settle_delay must not be negative")
	}
	return d, nil
}

// CheckOrigin reports whether s is an absolute http(s) URL.
func CheckOrigin(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("origin: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("origin must be an absolute http(s) URL, got %q", s)
	}
	return nil
}

var setters = map[string]func(c *Config, v string) error{
	"origin": func(c *Config, v string) error {
		if err := CheckOrigin(v); err != nil {
			return err
		}
		c.Origin = strings.TrimRight(v, "/")
		return nil
	},
	"username": func(c *Config, v string) error {
		c.Username = v
		return nil
	},
	"settle_delay": func(c *Config, v string) error {
		if v != "" {
			if _, err := parseDelay(v); err != nil {
				return err
			}
		}
		c.SettleDelay = v
		return nil
	},
	"default_domain": func(c *Config, v string) error {
		c.DefaultDomain = strings.ToUpper(v)
		return nil
	},
	"history_collection": func(c *Config, v string) error {
		c.HistoryCollection = v
		return nil
	},
	"rejection_markers": func(c *Config, v string) error {
		c.RejectionMarkers = nil
		for _, m := range strings.Split(v, ",") {
			if m = strings.TrimSpace(m); m != "" {
				c.RejectionMarkers = append(c.RejectionMarkers, m)
			}
		}
		return nil
	},
	"log_level": func(c *Config, v string) error {
		switch strings.ToLower(v) {
		case "", "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(v)
			return nil
		}
		return fmt.Errorf("log_level must be one of debug, info, warn, error")
	},
}

// Keys lists the keys accepted by Set.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns one key from its string form. Typos can only be edited in the
// file.
func (c *Config) Set(key, value string) error {
	fn, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return fn(c, strings.TrimSpace(value))
}
