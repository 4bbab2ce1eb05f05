package logger

import (
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds logging configuration
type Config struct {
	Level          string `yaml:"level"`
	ConsoleEnabled bool   `yaml:"console_enabled"`
	ConsoleFormat  string `yaml:"console_format"`
	FileEnabled    bool   `yaml:"file_enabled"`
	FilePath       string `yaml:"file_path"`
	FileFormat     string `yaml:"file_format"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb"`
	FileMaxBackups int    `yaml:"file_max_backups"`
	FileMaxAgeDays int    `yaml:"file_max_age_days"`
	FileCompress   bool   `yaml:"file_compress"`

	// ConsoleWriter replaces stdout when set.
	ConsoleWriter io.Writer `yaml:"-"`
}

// LoggingConfig wraps the Config for YAML parsing
type LoggingConfig struct {
	Logging Config `yaml:"logging"`
}

// DefaultConfig returns console-only INFO logging.
func DefaultConfig() Config {
	return Config{
		Level:          "INFO",
		ConsoleEnabled: true,
		ConsoleFormat:  "text",
		FileEnabled:    false,
		FilePath:       "logs/idlerpg.log",
		FileFormat:     "text",
		FileMaxSizeMB:  10,
		FileMaxBackups: 5,
		FileMaxAgeDays: 30,
	}
}

// LoadConfig loads logging configuration from a YAML file and applies
// environment variable overrides. A missing or unreadable file yields
// the defaults.
func LoadConfig(configPath string) (Config, error) {
	config := DefaultConfig()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			var loaded LoggingConfig
			if err := yaml.Unmarshal(data, &loaded); err == nil {
				config.merge(loaded.Logging)
			}
		}
	}

	config.applyEnv()
	return config, nil
}

func (c *Config) merge(other Config) {
	if other.Level != "" {
		c.Level = other.Level
	}
	c.ConsoleEnabled = other.ConsoleEnabled
	if other.ConsoleFormat != "" {
		c.ConsoleFormat = other.ConsoleFormat
	}
	c.FileEnabled = other.FileEnabled
	if other.FilePath != "" {
		c.FilePath = other.FilePath
	}
	if other.FileFormat != "" {
		c.FileFormat = other.FileFormat
	}
	if other.FileMaxSizeMB > 0 {
		c.FileMaxSizeMB = other.FileMaxSizeMB
	}
	if other.FileMaxBackups > 0 {
		c.FileMaxBackups = other.FileMaxBackups
	}
	if other.FileMaxAgeDays > 0 {
		c.FileMaxAgeDays = other.FileMaxAgeDays
	}
	c.FileCompress = other.FileCompress
}

func (c *Config) applyEnv() {
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Level = logLevel
	}
	if consoleFormat := os.Getenv("LOG_CONSOLE_FORMAT"); consoleFormat != "" {
		c.ConsoleFormat = consoleFormat
	}
	if fileEnabled := os.Getenv("LOG_FILE_ENABLED"); fileEnabled != "" {
		if enabled, err := strconv.ParseBool(fileEnabled); err == nil {
			c.FileEnabled = enabled
		}
	}
	if filePath := os.Getenv("LOG_FILE_PATH"); filePath != "" {
		c.FilePath = filePath
	}
	if compress := os.Getenv("LOG_FILE_COMPRESS"); compress != "" {
		if enabled, err := strconv.ParseBool(compress); err == nil {
			c.FileCompress = enabled
		}
	}
}
