package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultDataFile is the store location relative to the installation directory
const DefaultDataFile = "data/products.json"

// Config holds all configuration for the application
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Storage StorageConfig `mapstructure:"storage"`
	Display DisplayConfig `mapstructure:"display"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment" validate:"oneof=development production"`
}

// StorageConfig holds the JSON store location
type StorageConfig struct {
	DataFile string `mapstructure:"data_file"`
}

// DisplayConfig controls how prices are rendered
type DisplayConfig struct {
	Locale   string `mapstructure:"locale" validate:"required"`
	Currency string `mapstructure:"currency" validate:"required,len=3"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level    string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format   string `mapstructure:"format" validate:"oneof=json console"`
	Output   string `mapstructure:"output" validate:"oneof=stdout stderr file"`
	Filename string `mapstructure:"filename" validate:"required_if=Output file"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Textfile string `mapstructure:"textfile"`
}

// Load loads configuration from the environment, an optional config file and
// the given command-line flags. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnvVars(v)

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	v.SetConfigName("agilstore")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := installDir(); err == nil {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	app := AppConfig{Environment: v.GetString("app.environment")}
	if app.IsDevelopment() {
		setDevelopmentDefaults(v)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Storage.DataFile == "" {
		path, err := DefaultDataPath()
		if err != nil {
			return nil, err
		}
		cfg.Storage.DataFile = path
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "AgilStore")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "production")

	// Storage defaults; an empty path resolves next to the executable
	v.SetDefault("storage.data_file", "")

	// Display defaults
	v.SetDefault("display.locale", "pt-BR")
	v.SetDefault("display.currency", "BRL")

	// Logger defaults
	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stderr")
	v.SetDefault("logger.filename", "")

	// Metrics defaults
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.textfile", "")
}

// setDevelopmentDefaults only replaces defaults; values from env, flags or the
// config file still win.
func setDevelopmentDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.format", "console")
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "APP_NAME")
	v.BindEnv("app.version", "APP_VERSION")
	v.BindEnv("app.environment", "APP_ENVIRONMENT")

	// Storage
	v.BindEnv("storage.data_file", "AGILSTORE_DATA_FILE")

	// Display
	v.BindEnv("display.locale", "DISPLAY_LOCALE")
	v.BindEnv("display.currency", "DISPLAY_CURRENCY")

	// Logger
	v.BindEnv("logger.level", "LOG_LEVEL")
	v.BindEnv("logger.format", "LOG_FORMAT")
	v.BindEnv("logger.output", "LOG_OUTPUT")
	v.BindEnv("logger.filename", "LOG_FILENAME")

	// Metrics
	v.BindEnv("metrics.enabled", "ENABLE_METRICS")
	v.BindEnv("metrics.textfile", "METRICS_TEXTFILE")
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"storage.data_file": "data-file",
		"logger.level":      "log-level",
	}
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

func validateConfig(cfg *Config) error {
	return validator.New().Struct(cfg)
}

// DefaultDataPath returns data/products.json under the installation directory
func DefaultDataPath() (string, error) {
	dir, err := installDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve installation directory: %w", err)
	}
	return filepath.Join(dir, DefaultDataFile), nil
}

func installDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// IsDevelopment returns true if the environment is development
func (cfg *AppConfig) IsDevelopment() bool {
	return cfg.Environment == "development"
}

// MetricsTextfileEnabled reports whether metrics should be written on exit
func (cfg *MetricsConfig) MetricsTextfileEnabled() bool {
	return cfg.Enabled && cfg.Textfile != ""
}
