package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config holds the content API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Search   SearchConfig   `yaml:"search"`
	Access   AccessConfig   `yaml:"access"`
	Redis    RedisConfig    `yaml:"redis"`
	Captcha  CaptchaConfig  `yaml:"captcha"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int    `yaml:"port"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	ShutdownSec     int    `yaml:"shutdown_timeout_sec"`
	ServerName      string `yaml:"server_name"` // Server response header
	APIURL          string `yaml:"api_url"`     // public base URL used in uri fields
}

// DatabaseConfig holds row store settings.
type DatabaseConfig struct {
	Path           string `yaml:"path"`
	BusyTimeoutSec int    `yaml:"busy_timeout_sec"`
}

// SearchConfig holds search engine settings.
type SearchConfig struct {
	URL        string `yaml:"url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// AccessConfig holds quota settings.
type AccessConfig struct {
	TimeframeSec int              `yaml:"timeframe_sec"`
	Tiers        map[string]int64 `yaml:"tiers"`
	Counters     string           `yaml:"counters"` // database (default), redis
}

// RedisConfig holds the usage counter store settings, used when access.counters is redis.
type RedisConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// CaptchaConfig holds registration CAPTCHA settings.
type CaptchaConfig struct {
	VerifyURL  string `yaml:"verify_url"`
	PrivateKey string `yaml:"private_key"`
	TestMode   bool   `yaml:"test_mode"` // accept every answer
	TimeoutSec int    `yaml:"timeout_sec"`
}

// IngestConfig holds metadata ingestion settings.
type IngestConfig struct {
	PortalURL   string `yaml:"portal_url"`
	Products    string `yaml:"products"`
	Series      string `yaml:"series"`
	Keywords    string `yaml:"keywords"`
	Departments string `yaml:"departments"`
	Schedule    string `yaml:"schedule"` // cron spec, empty disables
	TimeoutSec  int    `yaml:"timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, expanding ${VAR} references, applying
// defaults and validating the result.
func Parse(data []byte) (Config, error) {
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

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
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
		c.HTTP.Port = 5000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.ServerName == "" {
		c.HTTP.ServerName = "Zeit Api"
	}
	if c.HTTP.APIURL == "" {
		c.HTTP.APIURL = fmt.Sprintf("http://127.0.0.1:%d", c.HTTP.Port)
	}
	c.HTTP.APIURL = strings.TrimRight(c.HTTP.APIURL, "/")
	if c.Database.Path == "" {
		c.Database.Path = "data/contentapi.db"
	}
	if c.Database.BusyTimeoutSec <= 0 {
		c.Database.BusyTimeoutSec = 5
	}
	if c.Search.URL == "" {
		c.Search.URL = "http://127.0.0.1:8983/solr"
	}
	if c.Search.TimeoutSec <= 0 {
		c.Search.TimeoutSec = 10
	}
	if c.Access.TimeframeSec <= 0 {
		c.Access.TimeframeSec = 86400
	}
	if len(c.Access.Tiers) == 0 {
		c.Access.Tiers = map[string]int64{"free": 10000, "pro": 50000, "max": 100000}
	}
	if c.Access.Counters == "" {
		c.Access.Counters = "database"
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "contentapi:"
	}
	if c.Redis.ReadinessTimeout <= 0 {
		c.Redis.ReadinessTimeout = 10
	}
	if c.Captcha.TimeoutSec <= 0 {
		c.Captcha.TimeoutSec = 5
	}
	if c.Ingest.PortalURL == "" {
		c.Ingest.PortalURL = "http://www.zeit.de"
	}
	if c.Ingest.TimeoutSec <= 0 {
		c.Ingest.TimeoutSec = 30
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	for tier, quota := range c.Access.Tiers {
		if quota < 0 {
			return fmt.Errorf("access.tiers.%s must not be negative, got %d", tier, quota)
		}
	}
	switch c.Access.Counters {
	case "database":
	case "redis":
		if len(c.Redis.Addrs) == 0 {
			return fmt.Errorf("redis.addrs is required when access.counters is \"redis\"")
		}
	default:
		return fmt.Errorf("access.counters must be \"database\" or \"redis\", got %q", c.Access.Counters)
	}
	if !c.Captcha.TestMode && c.Captcha.PrivateKey == "" {
		return fmt.Errorf("captcha.private_key is required unless captcha.test_mode is set")
	}
	if c.Ingest.Schedule != "" {
		if _, err := cron.ParseStandard(c.Ingest.Schedule); err != nil {
			return fmt.Errorf("ingest.schedule %q: %w", c.Ingest.Schedule, err)
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

	// 3. Fallback to ./config/
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
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
