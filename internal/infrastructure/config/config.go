package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Store   StoreConfig   `mapstructure:"store"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// StoreConfig holds the backing file configuration
type StoreConfig struct {
	File string `mapstructure:"file"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// MetricsConfig holds metrics configuration. When Textfile is set the
// collected metrics are written there in the node exporter textfile format.
type MetricsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Textfile string `mapstructure:"textfile"`
}

// Load loads configuration from defaults, an optional config file, the
// environment (.env included) and finally command line flags.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnvVars(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		if f := flags.Lookup("file"); f != nil {
			if err := v.BindPFlag("store.file", f); err != nil {
				return nil, fmt.Errorf("failed to bind flag: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "students")
	v.SetDefault("app.environment", "development")

	// Store defaults
	v.SetDefault("store.file", "students.csv")

	// Logger defaults, stderr keeps stdout free for the menu
	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stderr")
	v.SetDefault("logger.filename", "")

	// Metrics defaults
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.textfile", "")
}

func bindEnvVars(v *viper.Viper) {
	// App
	_ = v.BindEnv("app.name", "APP_NAME")
	_ = v.BindEnv("app.environment", "APP_ENVIRONMENT")

	// Store
	_ = v.BindEnv("store.file", "STUDENTS_FILE")

	// Logger
	_ = v.BindEnv("logger.level", "LOG_LEVEL")
	_ = v.BindEnv("logger.format", "LOG_FORMAT")
	_ = v.BindEnv("logger.output", "LOG_OUTPUT")
	_ = v.BindEnv("logger.filename", "LOG_FILE")

	// Metrics
	_ = v.BindEnv("metrics.enabled", "ENABLE_METRICS")
	_ = v.BindEnv("metrics.textfile", "METRICS_TEXTFILE")
}

func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.Store.File) == "" {
		return fmt.Errorf("store file is required")
	}

	switch cfg.Logger.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logger format must be json or console, got %q", cfg.Logger.Format)
	}

	switch cfg.Logger.Output {
	case "stdout", "stderr":
	case "file":
		if cfg.Logger.Filename == "" {
			return fmt.Errorf("logger filename is required when output is file")
		}
	default:
		return fmt.Errorf("logger output must be stdout, stderr or file, got %q", cfg.Logger.Output)
	}

	return nil
}
