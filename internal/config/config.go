package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Source    SourceConfig    `yaml:"source" envconfig:"SOURCE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=line json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=both file console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
	Name     string `yaml:"name" envconfig:"NAME" validate:"required"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	ParamsFile string `yaml:"params_file" envconfig:"PARAMS_FILE" validate:"required"`
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	RawSubdir  string `yaml:"raw_subdir" envconfig:"RAW_SUBDIR" validate:"required"`
}

// SourceConfig describes where the labeled dataset comes from
type SourceConfig struct {
	Location string        `yaml:"location" envconfig:"LOCATION" validate:"required"`
	Encoding string        `yaml:"encoding" envconfig:"ENCODING" validate:"omitempty,oneof=utf-8 utf8 latin-1 latin1 iso-8859-1 windows-1252 cp1252"`
	Sheet    string        `yaml:"sheet" envconfig:"SHEET"`
	Timeout  time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gte=0"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	Tracing         string `yaml:"tracing" envconfig:"TRACING" validate:"oneof=none stdout"`
	MetricsTextfile string `yaml:"metrics_textfile" envconfig:"METRICS_TEXTFILE"`
}

// OutputConfig contains optional outputs beyond the two partitions
type OutputConfig struct {
	Manifest bool `yaml:"manifest" envconfig:"MANIFEST"`
}

// Load builds the configuration from defaults, an optional YAML file and
// INGEST_* environment variables, in increasing order of precedence.
// An empty configFile triggers a search of the usual locations.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Unset variables leave file values in place since no field carries a default tag
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return err
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging.file_path is required when output is %q", c.Logging.Output)
	}
	return nil
}

// getConfigFilePath returns the first config file found in the usual locations
func getConfigFilePath() string {
	locations := []string{
		"ingest.yaml",
		"configs/ingest.yaml",
	}

	for _, location := range locations {
		if FileExists(location) {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "debug",
			Format:   "line",
			Output:   "both",
			FilePath: DefaultLogFile,
			Name:     DefaultLoggerName,
		},
		Paths: PathsConfig{
			ParamsFile: DefaultParamsFile,
			DataDir:    DefaultDataDir,
			RawSubdir:  DefaultRawSubdir,
		},
		Source: SourceConfig{
			Location: DefaultSourceURL,
			Encoding: "utf-8",
		},
		Telemetry: TelemetryConfig{
			Tracing: "none",
		},
	}
}
