package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stocksync/backend/internal/domain"
)

// envPrefix namespaces every environment variable
const envPrefix = "STOCKSYNC"

// Config holds all configuration for a reconciliation run
type Config struct {
	Mode      domain.Mode     `mapstructure:"-"`
	Shop      ShopConfig      `mapstructure:"shop"`
	Input     InputConfig     `mapstructure:"input"`
	Output    OutputConfig    `mapstructure:"output"`
	Backoff   BackoffConfig   `mapstructure:"backoff"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
}

// ShopConfig holds the remote store connection
type ShopConfig struct {
	Name        string `mapstructure:"name"`
	AccessToken string `mapstructure:"access_token"`
	APIVersion  string `mapstructure:"api_version"`
	Endpoint    string `mapstructure:"endpoint"`    // derived from Name when empty
	LocationID  string `mapstructure:"location_id"` // stock location for created products
}

// InputConfig holds the feed and the optional SKU filter
type InputConfig struct {
	Paths      []string `mapstructure:"paths"`
	FilterPath string   `mapstructure:"filter_path"`
	FilterMode string   `mapstructure:"filter_mode"` // "include" or "exclude"
}

// OutputConfig holds report destinations
type OutputConfig struct {
	Path        string `mapstructure:"path"`
	SummaryPath string `mapstructure:"summary_path"`
}

// BackoffConfig holds the throttle waits used when the remote gives no hint
type BackoffConfig struct {
	Create   time.Duration `mapstructure:"create"`
	Mutation time.Duration `mapstructure:"mutation"`
}

// RateLimitConfig holds client-side request pacing
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// ServerConfig holds the optional run-status server
type ServerConfig struct {
	StatusAddr     string   `mapstructure:"status_addr"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// keys lists every setting so each can be read from the environment
var keys = []string{
	"shop.name", "shop.access_token", "shop.api_version", "shop.endpoint", "shop.location_id",
	"input.paths", "input.filter_path", "input.filter_mode",
	"output.path", "output.summary_path",
	"backoff.create", "backoff.mutation",
	"ratelimit.requests_per_second", "ratelimit.burst",
	"server.status_addr", "server.environment", "server.allowed_origins",
	"log.level", "log.format",
}

// legacyEnv maps settings to the environment names the old per-task scripts used
var legacyEnv = map[string][]string{
	"shop.name":         {"SHOP"},
	"shop.access_token": {"SHOPIFY_ACCESS_TOKEN"},
}

// legacyModeEnv holds legacy names whose meaning depends on the mode
var legacyModeEnv = map[domain.Mode]map[string][]string{
	domain.ModeUpdate: {"input.paths": {"TO_UPDATE"}},
	domain.ModeZero:   {"input.paths": {"ZERO_INVENTORY"}},
	domain.ModeCheck:  {"input.paths": {"INFILE"}, "output.path": {"OUTFILE"}},
	domain.ModeCreate: {"input.paths": {"ALL_DATA_FILE"}, "input.filter_path": {"OUTFILE"}},
}

// flagKeys maps command-line flag names onto settings
var flagKeys = map[string]string{
	"shop":             "shop.name",
	"token":            "shop.access_token",
	"api-version":      "shop.api_version",
	"endpoint":         "shop.endpoint",
	"location":         "shop.location_id",
	"input":            "input.paths",
	"filter":           "input.filter_path",
	"filter-mode":      "input.filter_mode",
	"output":           "output.path",
	"summary":          "output.summary_path",
	"backoff-create":   "backoff.create",
	"backoff-mutation": "backoff.mutation",
	"rps":              "ratelimit.requests_per_second",
	"burst":            "ratelimit.burst",
	"status-addr":      "server.status_addr",
	"log-level":        "log.level",
	"log-format":       "log.format",
}

// Load reads configuration for mode from, in order of precedence, flags,
// environment variables (including .env and .env.local), an optional
// stocksync.yaml and defaults. flags may be nil.
func Load(mode domain.Mode, flags *pflag.FlagSet) (*Config, error) {
	LoadEnvFiles()

	v := viper.New()

	v.SetConfigName("stocksync")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/stocksync/")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := bindEnv(v, mode); err != nil {
		return nil, err
	}
	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}

	setDefaults(v)

	if flags != nil {
		if f := flags.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	config.Mode = mode
	config.Input.Paths = splitPaths(config.Input.Paths)

	if err := validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadEnvFiles loads .env.local then .env. Variables already set are never
// overwritten, so .env.local wins over .env and the real environment wins over both.
func LoadEnvFiles() {
	for _, name := range []string{".env.local", ".env"} {
		_ = godotenv.Load(name)
	}
}

func bindEnv(v *viper.Viper, mode domain.Mode) error {
	for _, key := range keys {
		names := []string{envName(key)}
		names = append(names, legacyEnv[key]...)
		names = append(names, legacyModeEnv[mode][key]...)
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

func envName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("shop.api_version", "2024-07")

	v.SetDefault("input.filter_mode", "include")

	v.SetDefault("backoff.create", "4s")
	v.SetDefault("backoff.mutation", "2s")

	v.SetDefault("ratelimit.requests_per_second", 2)
	v.SetDefault("ratelimit.burst", 4)

	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")
}

// splitPaths accepts both repeated values and comma-separated lists
func splitPaths(in []string) []string {
	var out []string
	for _, p := range in {
		for _, part := range strings.Split(p, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// validate rejects configuration no run could succeed with
func validate(config *Config) error {
	if _, err := domain.ParseMode(string(config.Mode)); err != nil {
		return &domain.ConfigError{Key: "mode", Message: err.Error()}
	}

	if len(config.Input.Paths) == 0 {
		return &domain.ConfigError{Key: "input.paths", Message: "at least one input file is required (set STOCKSYNC_INPUT_PATHS or --input)"}
	}

	if config.Shop.Name == "" && config.Shop.Endpoint == "" {
		return &domain.ConfigError{Key: "shop.name", Message: "shop name or endpoint is required (set STOCKSYNC_SHOP_NAME or SHOP)"}
	}
	if config.Shop.AccessToken == "" {
		return &domain.ConfigError{Key: "shop.access_token", Message: "access token is required (set STOCKSYNC_SHOP_ACCESS_TOKEN or SHOPIFY_ACCESS_TOKEN)"}
	}

	if config.Input.FilterMode != "include" && config.Input.FilterMode != "exclude" {
		return &domain.ConfigError{Key: "input.filter_mode", Message: fmt.Sprintf("must be 'include' or 'exclude', got: %s", config.Input.FilterMode)}
	}

	if config.Backoff.Create <= 0 || config.Backoff.Mutation <= 0 {
		return &domain.ConfigError{Key: "backoff", Message: "backoff durations must be positive"}
	}

	if config.RateLimit.RequestsPerSecond <= 0 || config.RateLimit.Burst < 1 {
		return &domain.ConfigError{Key: "ratelimit", Message: "requests_per_second must be positive and burst at least 1"}
	}

	switch config.Log.Format {
	case "auto", "console", "json":
	default:
		return &domain.ConfigError{Key: "log.format", Message: fmt.Sprintf("must be auto, console or json, got: %s", config.Log.Format)}
	}

	return nil
}
