package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "OSINT"

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http" yaml:"http"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Lookup  LookupConfig  `mapstructure:"lookup" yaml:"lookup"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string        `mapstructure:"host" yaml:"host"`
	Port              int           `mapstructure:"port" yaml:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	AllowedOriginsCSV string        `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	AllowCredentials  bool          `mapstructure:"allow_credentials" yaml:"allow_credentials"`
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string `mapstructure:"level" yaml:"level"`
	Format        string `mapstructure:"format" yaml:"format"` // console|json
	Colored       bool   `mapstructure:"colored" yaml:"colored"`
	IncludeCaller bool   `mapstructure:"include_caller" yaml:"include_caller"`
	ServiceName   string `mapstructure:"service_name" yaml:"service_name"`
	File          string `mapstructure:"file" yaml:"file"`
	MaxSizeMB     int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups    int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays    int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress      bool   `mapstructure:"compress" yaml:"compress"`
}

// LookupConfig tunes the simulated lookups.
type LookupConfig struct {
	// UsernameDelay and AnalysisDelay emulate the latency of a real search.
	UsernameDelay time.Duration `mapstructure:"username_delay" yaml:"username_delay"`
	AnalysisDelay time.Duration `mapstructure:"analysis_delay" yaml:"analysis_delay"`
	Seed          int64         `mapstructure:"seed" yaml:"seed"`
	BatchWorkers  int           `mapstructure:"batch_workers" yaml:"batch_workers"`
}

// StoreConfig bounds how long lookup results are kept around for export.
type StoreConfig struct {
	TTL             time.Duration `mapstructure:"ttl" yaml:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" yaml:"cleanup_interval"`
}

const (
	defaultHost            = "0.0.0.0"
	defaultPort            = 8080
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultUsernameDelay   = 2000 * time.Millisecond
	defaultAnalysisDelay   = 2500 * time.Millisecond
	defaultBatchWorkers    = 4
	defaultStoreTTL        = time.Hour
	defaultCleanupInterval = 5 * time.Minute
)

// SetDefaults registers default values on the provided viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("http.host", defaultHost)
	v.SetDefault("http.port", defaultPort)
	v.SetDefault("http.read_timeout", defaultReadTimeout)
	// The write timeout must outlast the simulated lookup delay.
	v.SetDefault("http.write_timeout", defaultWriteTimeout)
	v.SetDefault("http.idle_timeout", defaultIdleTimeout)
	v.SetDefault("http.shutdown_timeout", defaultShutdownTimeout)
	v.SetDefault("http.allowed_origins", "*")
	v.SetDefault("http.allow_credentials", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.colored", false)
	v.SetDefault("logging.include_caller", false)
	v.SetDefault("logging.service_name", "osintportal")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", true)

	v.SetDefault("lookup.username_delay", defaultUsernameDelay)
	v.SetDefault("lookup.analysis_delay", defaultAnalysisDelay)
	v.SetDefault("lookup.seed", 0)
	v.SetDefault("lookup.batch_workers", defaultBatchWorkers)

	v.SetDefault("store.ttl", defaultStoreTTL)
	v.SetDefault("store.cleanup_interval", defaultCleanupInterval)
}

// Default returns the configuration produced by defaults alone.
func Default() Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return cfg
}

// Load reads configuration from an optional YAML file and OSINT_* environment
// variables, applying defaults for anything left unset.
func Load(path string) (Config, error) {
	return LoadWith(viper.New(), path)
}

// LoadWith is Load against a caller supplied viper instance, which lets
// commands bind flags before the values are resolved.
func LoadWith(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port %d is out of range", c.HTTP.Port))
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("http.shutdown_timeout must be positive"))
	}
	if c.HTTP.AllowCredentials {
		for _, origin := range c.HTTP.AllowedOrigins() {
			if origin == "*" {
				errs = append(errs, errors.New("http.allow_credentials cannot be combined with a wildcard allowed origin"))
				break
			}
		}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json", "text":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be console or json", c.Logging.Format))
	}
	if c.Lookup.UsernameDelay < 0 || c.Lookup.AnalysisDelay < 0 {
		errs = append(errs, errors.New("lookup delays must not be negative"))
	}
	if c.Lookup.BatchWorkers <= 0 {
		errs = append(errs, errors.New("lookup.batch_workers must be a positive integer"))
	}
	if c.Store.TTL <= 0 {
		errs = append(errs, errors.New("store.ttl must be positive"))
	}
	if c.Store.CleanupInterval <= 0 {
		errs = append(errs, errors.New("store.cleanup_interval must be positive"))
	}
	return errors.Join(errs...)
}

// AllowedOrigins splits the comma separated CORS origin list.
func (c HTTPConfig) AllowedOrigins() []string {
	if c.AllowedOriginsCSV == "" {
		return nil
	}
	var origins []string
	for _, part := range strings.Split(c.AllowedOriginsCSV, ",") {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}

// Addr is the host:port pair the server listens on.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
