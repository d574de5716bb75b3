package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "CASELAW_CONFIG"
	logLevelEnv      = "CASELAW_LOG_LEVEL"
	httpAddrEnv      = "CASELAW_HTTP_ADDR"
	upstreamKindEnv  = "CASELAW_UPSTREAM_KIND"
	upstreamRetryEnv = "CASELAW_UPSTREAM_RETRIES"
	apiTokenEnv      = "INDIANKANOON_API_TOKEN"
	actsRegistryEnv  = "CASELAW_ACTS_REGISTRY"

	minUpstreamTimeout = 15 * time.Second
	maxUpstreamTimeout = 30 * time.Second
	maxUpstreamRetries = 3
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	HTTP     HTTPConfig     `yaml:"http"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Acts     ActsConfig     `yaml:"acts"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// HTTPConfig describes the API listener.
type HTTPConfig struct {
	Addr        string        `yaml:"addr"`
	SessionTTL  time.Duration `yaml:"sessionTTL"`
	MaxSessions int           `yaml:"maxSessions"`
}

// UpstreamConfig describes the case-law source and how politely to call it.
type UpstreamConfig struct {
	Kind              string        `yaml:"kind"`
	BaseURL           string        `yaml:"baseURL"`
	SearchURL         string        `yaml:"searchURL"`
	APIURL            string        `yaml:"apiURL"`
	APIToken          string        `yaml:"apiToken"`
	DocPrefix         string        `yaml:"docPrefix"`
	Timeout           time.Duration `yaml:"timeout"`
	UserAgents        []string      `yaml:"userAgents"`
	MaxHits           int           `yaml:"maxHits"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
	Retries           int           `yaml:"retries"`
}

// ActsConfig points at the act registry artifact and the optional acts index page.
type ActsConfig struct {
	RegistryPath string `yaml:"registryPath"`
	IndexURL     string `yaml:"indexURL"`
}

// Load reads .env, the YAML configuration (if present) and applies environment overrides.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: cannot read .env: %v", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.clamp()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(httpAddrEnv); v != "" {
		c.HTTP.Addr = v
	}

	if v := os.Getenv(upstreamKindEnv); v != "" {
		c.Upstream.Kind = v
	}

	if v := os.Getenv(upstreamRetryEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Upstream.Retries = n
		} else {
			log.Printf("config: ignoring %s=%q: %v", upstreamRetryEnv, v, err)
		}
	}

	if v := os.Getenv(apiTokenEnv); v != "" {
		c.Upstream.APIToken = v
	}

	if v := os.Getenv(actsRegistryEnv); v != "" {
		c.Acts.RegistryPath = v
	}
}

// clamp keeps upstream settings inside the bounds the fetcher is designed for.
func (c *Config) clamp() {
	switch {
	case c.Upstream.Timeout < minUpstreamTimeout:
		log.Printf("config: upstream timeout %s below %s, using minimum", c.Upstream.Timeout, minUpstreamTimeout)
		c.Upstream.Timeout = minUpstreamTimeout
	case c.Upstream.Timeout > maxUpstreamTimeout:
		log.Printf("config: upstream timeout %s above %s, using maximum", c.Upstream.Timeout, maxUpstreamTimeout)
		c.Upstream.Timeout = maxUpstreamTimeout
	}

	if c.Upstream.Retries < 0 {
		c.Upstream.Retries = 0
	}
	if c.Upstream.Retries > maxUpstreamRetries {
		c.Upstream.Retries = maxUpstreamRetries
	}

	if c.Upstream.MaxHits <= 0 {
		c.Upstream.MaxHits = defaultConfig().Upstream.MaxHits
	}

	if len(c.Upstream.UserAgents) == 0 {
		c.Upstream.UserAgents = defaultConfig().Upstream.UserAgents
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.HTTP.Addr != "" {
		base.HTTP.Addr = override.HTTP.Addr
	}
	if override.HTTP.SessionTTL != 0 {
		base.HTTP.SessionTTL = override.HTTP.SessionTTL
	}
	if override.HTTP.MaxSessions != 0 {
		base.HTTP.MaxSessions = override.HTTP.MaxSessions
	}

	if override.Upstream.Kind != "" {
		base.Upstream.Kind = override.Upstream.Kind
	}
	if override.Upstream.BaseURL != "" {
		base.Upstream.BaseURL = override.Upstream.BaseURL
	}
	if override.Upstream.SearchURL != "" {
		base.Upstream.SearchURL = override.Upstream.SearchURL
	}
	if override.Upstream.APIURL != "" {
		base.Upstream.APIURL = override.Upstream.APIURL
	}
	if override.Upstream.APIToken != "" {
		base.Upstream.APIToken = override.Upstream.APIToken
	}
	if override.Upstream.DocPrefix != "" {
		base.Upstream.DocPrefix = override.Upstream.DocPrefix
	}
	if override.Upstream.Timeout != 0 {
		base.Upstream.Timeout = override.Upstream.Timeout
	}
	if len(override.Upstream.UserAgents) > 0 {
		base.Upstream.UserAgents = override.Upstream.UserAgents
	}
	if override.Upstream.MaxHits != 0 {
		base.Upstream.MaxHits = override.Upstream.MaxHits
	}
	if override.Upstream.RequestsPerSecond != 0 {
		base.Upstream.RequestsPerSecond = override.Upstream.RequestsPerSecond
	}
	if override.Upstream.Retries != 0 {
		base.Upstream.Retries = override.Upstream.Retries
	}

	if override.Acts.RegistryPath != "" {
		base.Acts.RegistryPath = override.Acts.RegistryPath
	}
	if override.Acts.IndexURL != "" {
		base.Acts.IndexURL = override.Acts.IndexURL
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		HTTP:    HTTPConfig{Addr: ":8080", SessionTTL: 2 * time.Hour, MaxSessions: 10000},
		Upstream: UpstreamConfig{
			Kind:      "html",
			BaseURL:   "https://indiankanoon.org",
			SearchURL: "https://indiankanoon.org/search/",
			APIURL:    "https://api.indiankanoon.org/search/",
			DocPrefix: "/doc/",
			Timeout:   30 * time.Second,
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 13_5) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
				"Mozilla/5.0 (X11; Linux x86_64; rv:126.0) Gecko/20100101 Firefox/126.0",
			},
			MaxHits:           50,
			RequestsPerSecond: 1,
		},
	}
}
