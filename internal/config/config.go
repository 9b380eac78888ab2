package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/petmatch/internal/domain/scoring"
)

// Database drivers.
const (
	DriverRedis    = "redis"
	DriverValkey   = "valkey"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config holds the petmatch API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Matching  MatchingConfig  `yaml:"matching"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
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
	Port            int      `yaml:"port"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
	ShutdownSec     int      `yaml:"shutdown_timeout_sec"`
	CORSOrigins     []string `yaml:"cors_origins"`
}

// DatabaseConfig holds record store connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis, valkey, memory, postgres (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DSN              string   `yaml:"dsn"` // postgres only
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds the OpenAI-compatible provider settings.
// An empty base_url disables embeddings; scoring then relies on breed and proximity.
type EmbeddingConfig struct {
	Provider        string `yaml:"provider"` // label for metrics and health
	BaseURL         string `yaml:"base_url"`
	APIKey          string `yaml:"api_key"`
	TextModel       string `yaml:"text_model"`
	ImageModel      string `yaml:"image_model"`
	Dimensions      int    `yaml:"dimensions"`
	TextInstruction string `yaml:"text_instruction"` // prefix for breed text, e.g. "a photo of a "
	InlineImages    bool   `yaml:"inline_images"`
	MaxImageBytes   int64  `yaml:"max_image_bytes"`
	ImageTimeoutSec int    `yaml:"image_timeout_sec"`
	CacheTTLSec     int    `yaml:"cache_ttl_sec"` // 0 disables the cache
}

// Enabled reports whether a provider is configured.
func (e EmbeddingConfig) Enabled() bool { return e.BaseURL != "" }

// ImageTimeout returns the per-image embedding timeout.
func (e EmbeddingConfig) ImageTimeout() time.Duration {
	return time.Duration(e.ImageTimeoutSec) * time.Second
}

// CacheTTL returns the embedding cache TTL; zero means the cache is off.
func (e EmbeddingConfig) CacheTTL() time.Duration {
	return time.Duration(e.CacheTTLSec) * time.Second
}

// MatchingConfig holds the scoring policy and workflow switches.
// Pointer fields distinguish an explicit zero from an absent value.
type MatchingConfig struct {
	Threshold          *float64 `yaml:"threshold"`
	ImageGate          *float64 `yaml:"image_gate"`
	ImageWeight        *float64 `yaml:"image_weight"`
	BreedWeight        *float64 `yaml:"breed_weight"`
	ProximityWeight    *float64 `yaml:"proximity_weight"`
	ProximityRadiusKm  float64  `yaml:"proximity_radius_km"`
	HardGate           *bool    `yaml:"hard_gate"`
	BreedMode          string   `yaml:"breed_mode"` // exact | text
	BreedTextThreshold *float64 `yaml:"breed_text_threshold"`
	ConditionalRetire  bool     `yaml:"conditional_retire"`
	MaxImages          int      `yaml:"max_images"`
}

// Policy returns the scoring policy. Call after ApplyDefaults.
func (m MatchingConfig) Policy() scoring.Policy {
	p := scoring.DefaultPolicy()
	setFloat(&p.Threshold, m.Threshold)
	setFloat(&p.ImageGate, m.ImageGate)
	setFloat(&p.ImageWeight, m.ImageWeight)
	setFloat(&p.BreedWeight, m.BreedWeight)
	setFloat(&p.ProximityWeight, m.ProximityWeight)
	setFloat(&p.BreedTextThreshold, m.BreedTextThreshold)
	if m.ProximityRadiusKm > 0 {
		p.ProximityRadiusKm = m.ProximityRadiusKm
	}
	if m.HardGate != nil {
		p.HardGate = *m.HardGate
	}
	if m.BreedMode != "" {
		p.BreedMode = scoring.BreedMode(m.BreedMode)
	}
	return p
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
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

// Parse decodes YAML, expands environment variables, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
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
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// found reports embed every lost pair before responding
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverValkey
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.ImageModel == "" {
		c.Embedding.ImageModel = c.Embedding.TextModel
	}
	if c.Embedding.ImageTimeoutSec <= 0 {
		c.Embedding.ImageTimeoutSec = 6
	}
	if c.Matching.MaxImages <= 0 {
		c.Matching.MaxImages = 5
	}
	if c.Matching.BreedMode == "" {
		c.Matching.BreedMode = string(scoring.BreedExact)
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Database.Driver {
	case DriverRedis, DriverValkey:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", c.Database.Driver)
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for driver %q", c.Database.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("database.driver must be one of redis, valkey, memory, postgres, got %q", c.Database.Driver)
	}

	if c.Embedding.Enabled() && c.Embedding.TextModel == "" {
		return fmt.Errorf("embedding.text_model is required when embedding.base_url is set")
	}
	if c.Embedding.CacheTTLSec < 0 {
		return fmt.Errorf("embedding.cache_ttl_sec must be >= 0, got %d", c.Embedding.CacheTTLSec)
	}

	if err := c.Matching.Policy().Validate(); err != nil {
		return fmt.Errorf("matching: %w", err)
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
