package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the studysearch service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Ranking  RankingConfig  `yaml:"ranking"`
	Cache    CacheConfig    `yaml:"cache"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// UpstreamConfig holds study search API client settings.
type UpstreamConfig struct {
	BaseURL        string  `yaml:"base_url"`
	TimeoutSec     int     `yaml:"timeout_sec"`
	PageSize       int     `yaml:"page_size"`
	MaxPages       int     `yaml:"max_pages"`
	MaxConcurrency int     `yaml:"max_concurrency"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps"` // 0 = unlimited
	UserAgent      string  `yaml:"user_agent"`
}

// RankingConfig holds per-query model settings.
type RankingConfig struct {
	NumTopics      int      `yaml:"num_topics"`
	TopN           int      `yaml:"top_n"`
	MinTokenLength int      `yaml:"min_token_length"`
	DomainStoplist []string `yaml:"domain_stoplist"` // nil = built-in list, [] = none
	Stemmer        string   `yaml:"stemmer"`         // snowball, porter
}

// CacheConfig holds the optional record table cache settings.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Driver           string   `yaml:"driver"` // redis, valkey (default: redis)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// DefaultUpstreamURL is the public OSDR search endpoint.
const DefaultUpstreamURL = "https://osdr.nasa.gov/osdr/data/search"

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}

	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = DefaultUpstreamURL
	}
	if c.Upstream.TimeoutSec <= 0 {
		c.Upstream.TimeoutSec = 30
	}
	if c.Upstream.PageSize <= 0 {
		c.Upstream.PageSize = 25
	}
	if c.Upstream.MaxPages <= 0 {
		c.Upstream.MaxPages = 1
	}
	if c.Upstream.MaxConcurrency <= 0 {
		c.Upstream.MaxConcurrency = 4
	}
	if c.Upstream.UserAgent == "" {
		c.Upstream.UserAgent = "studysearch"
	}

	if c.Ranking.NumTopics <= 0 {
		c.Ranking.NumTopics = 300
	}
	if c.Ranking.TopN <= 0 {
		c.Ranking.TopN = 5
	}
	if c.Ranking.MinTokenLength <= 0 {
		c.Ranking.MinTokenLength = 2
	}
	if c.Ranking.Stemmer == "" {
		c.Ranking.Stemmer = "snowball"
	}

	if c.Cache.Driver == "" {
		c.Cache.Driver = "redis"
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 300
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	u, err := url.Parse(c.Upstream.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("upstream.base_url must be an absolute http(s) URL, got %q", c.Upstream.BaseURL)
	}
	if c.Upstream.PageSize > 1000 {
		return fmt.Errorf("upstream.page_size must be at most 1000, got %d", c.Upstream.PageSize)
	}
	if c.Upstream.RateLimitRPS < 0 {
		return fmt.Errorf("upstream.rate_limit_rps must not be negative, got %v", c.Upstream.RateLimitRPS)
	}

	if c.Ranking.TopN > 100 {
		return fmt.Errorf("ranking.top_n must be at most 100, got %d", c.Ranking.TopN)
	}
	switch c.Ranking.Stemmer {
	case "snowball", "porter":
	default:
		return fmt.Errorf("ranking.stemmer must be \"snowball\" or \"porter\", got %q", c.Ranking.Stemmer)
	}

	if c.Cache.Enabled {
		switch c.Cache.Driver {
		case "redis", "valkey":
		default:
			return fmt.Errorf("cache.driver must be \"redis\" or \"valkey\", got %q", c.Cache.Driver)
		}
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required when cache is enabled")
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
