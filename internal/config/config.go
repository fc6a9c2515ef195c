package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Execution strategies.
const (
	StrategyDirect    = "direct"
	StrategyDelegated = "delegated"
)

// Vector store drivers.
const (
	DriverSupabase = "supabase"
	DriverPostgres = "postgres"
)

// Config holds the ytsearch gateway configuration.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Logging     LoggingConfig     `yaml:"logging"`
	Auth        AuthConfig        `yaml:"auth"`
	Strategy    string            `yaml:"strategy" validate:"oneof=direct delegated"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	YouTube     YouTubeConfig     `yaml:"youtube"`
	Delegate    DelegateConfig    `yaml:"delegate"`
	Cache       CacheConfig       `yaml:"cache"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int    `yaml:"port" validate:"min=1,max=65535"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	ShutdownSec     int    `yaml:"shutdown_timeout_sec"`
	StaticDir       string `yaml:"static_dir"` // empty = embedded assets
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=json console"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url" validate:"omitempty,url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions" validate:"min=0"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// VectorStoreConfig holds similarity store settings.
type VectorStoreConfig struct {
	Driver     string `yaml:"driver" validate:"oneof=supabase postgres"`
	URL        string `yaml:"url"`
	Key        string `yaml:"key"`
	DSN        string `yaml:"dsn"`
	Function   string `yaml:"function" validate:"required,sqlident"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// YouTubeConfig holds video platform settings.
type YouTubeConfig struct {
	APIKey           string `yaml:"api_key"`
	BaseURL          string `yaml:"base_url" validate:"url"`
	SearchMaxResults int    `yaml:"search_max_results" validate:"min=1,max=50"`
	RecentVideos     int    `yaml:"recent_videos" validate:"min=1,max=50"`
	TimeoutSec       int    `yaml:"timeout_sec"`
}

// DelegateConfig holds the external interpreter settings for the delegated strategy.
type DelegateConfig struct {
	Interpreter string `yaml:"interpreter"`
	Script      string `yaml:"script"`
	Dir         string `yaml:"dir"`
	TimeoutSec  int    `yaml:"timeout_sec"`
}

// CacheConfig holds the optional embedding cache settings. Empty Addrs disables the cache.
type CacheConfig struct {
	Addrs          []string `yaml:"addrs"`
	Password       string   `yaml:"password"`
	DB             int      `yaml:"db" validate:"min=0,max=15"`
	KeyPrefix      string   `yaml:"key_prefix"`
	TTLSec         int      `yaml:"ttl_sec"`
	DialTimeoutSec int      `yaml:"dial_timeout_sec"`
	ReadySec       int      `yaml:"ready_timeout_sec"`
}

// Enabled reports whether an embedding cache is configured.
func (c CacheConfig) Enabled() bool { return len(c.Addrs) > 0 }

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit YAML path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse expands ${VAR} references, decodes YAML, applies defaults and validates.
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

// LoadDotenv loads variables from .env files into the process environment.
// Missing files are skipped and already set variables are never overridden.
func LoadDotenv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
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
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Strategy == "" {
		c.Strategy = StrategyDirect
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.TimeoutSec <= 0 {
		c.Embedding.TimeoutSec = 15
	}
	if c.VectorStore.Driver == "" {
		c.VectorStore.Driver = DriverSupabase
	}
	if c.VectorStore.Function == "" {
		c.VectorStore.Function = "match_youtube_video"
	}
	if c.VectorStore.TimeoutSec <= 0 {
		c.VectorStore.TimeoutSec = 15
	}
	if c.YouTube.BaseURL == "" {
		c.YouTube.BaseURL = "https://www.googleapis.com/youtube/v3"
	}
	if c.YouTube.SearchMaxResults <= 0 {
		c.YouTube.SearchMaxResults = 20
	}
	if c.YouTube.RecentVideos <= 0 {
		c.YouTube.RecentVideos = 5
	}
	if c.YouTube.TimeoutSec <= 0 {
		c.YouTube.TimeoutSec = 15
	}
	if c.Delegate.Interpreter == "" {
		c.Delegate.Interpreter = "python3"
	}
	if c.Delegate.Script == "" {
		c.Delegate.Script = "my_mcp_client.py"
	}
	if c.Delegate.Dir == "" {
		c.Delegate.Dir = "."
	}
	if c.Delegate.TimeoutSec <= 0 {
		c.Delegate.TimeoutSec = 120
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 7 * 24 * 3600
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "ytsearch:"
	}
	if c.Cache.DialTimeoutSec <= 0 {
		c.Cache.DialTimeoutSec = 3
	}
	if c.Cache.ReadySec <= 0 {
		c.Cache.ReadySec = 5
	}
	// Upstream defaults must be set first. Every strategy counts, since --strategy may switch it later.
	if c.HTTP.WriteTimeoutSec <= 0 {
		longest := max(c.Embedding.TimeoutSec, c.VectorStore.TimeoutSec, c.YouTube.TimeoutSec, c.Delegate.TimeoutSec)
		c.HTTP.WriteTimeoutSec = longest + writeTimeoutMarginSec
	}
}

// writeTimeoutMarginSec leaves room to encode the error response after an upstream times out.
const writeTimeoutMarginSec = 10

// upstreamTimeouts lists the per-call upstream timeouts the active strategy can hit.
func (c *Config) upstreamTimeouts() map[string]int {
	if c.Strategy == StrategyDelegated {
		return map[string]int{"delegate.timeout_sec": c.Delegate.TimeoutSec}
	}
	return map[string]int{
		"embedding.timeout_sec":    c.Embedding.TimeoutSec,
		"vector_store.timeout_sec": c.VectorStore.TimeoutSec,
		"youtube.timeout_sec":      c.YouTube.TimeoutSec,
	}
}

func (c *Config) longestUpstreamTimeout() (string, int) {
	var name string
	longest := 0
	for k, v := range c.upstreamTimeouts() {
		if v > longest || (v == longest && k < name) {
			name, longest = k, v
		}
	}
	return name, longest
}

// Validate checks the structural configuration. Credentials are not checked here:
// a missing key fails only the requests that need it (see Credentials).
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return describeFieldError(verrs[0])
		}
		return fmt.Errorf("validate: %w", err)
	}
	if c.Strategy == StrategyDelegated {
		if strings.TrimSpace(c.Delegate.Interpreter) == "" || strings.TrimSpace(c.Delegate.Script) == "" {
			return fmt.Errorf("delegate.interpreter and delegate.script are required for strategy %q", c.Strategy)
		}
	}
	// A response cut by the server write deadline reaches the client as a bare EOF.
	if name, longest := c.longestUpstreamTimeout(); longest >= c.HTTP.WriteTimeoutSec {
		return fmt.Errorf("%s (%ds) must be below http.write_timeout_sec (%ds)", name, longest, c.HTTP.WriteTimeoutSec)
	}
	return nil
}

var (
	validate        = newValidator()
	sqlIdentPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report yaml names so messages match the config file.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("sqlident", func(fl validator.FieldLevel) bool {
		return sqlIdentPattern.MatchString(fl.Field().String())
	})
	return v
}

func describeFieldError(fe validator.FieldError) error {
	// Namespace is "Config.http.port"; drop the root type name.
	_, path, _ := strings.Cut(fe.Namespace(), ".")
	switch fe.Tag() {
	case "oneof":
		return fmt.Errorf("%s must be one of [%s], got %q", path, fe.Param(), fmt.Sprint(fe.Value()))
	case "min":
		return fmt.Errorf("%s must be >= %s, got %v", path, fe.Param(), fe.Value())
	case "max":
		return fmt.Errorf("%s must be <= %s, got %v", path, fe.Param(), fe.Value())
	case "url":
		return fmt.Errorf("%s must be a valid URL, got %q", path, fmt.Sprint(fe.Value()))
	case "sqlident":
		return fmt.Errorf("%s must be a plain SQL identifier, got %q", path, fmt.Sprint(fe.Value()))
	default:
		return fmt.Errorf("%s failed %q validation", path, fe.Tag())
	}
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
