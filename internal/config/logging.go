package config

import "organizer/internal/logging"

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`        // debug, info, warn, error
	Format     string          `yaml:"format"`       // json, console
	File       string          `yaml:"file"`         // empty = stderr only
	MaxSizeMB  int             `yaml:"max_size_mb"`  // rotation threshold
	MaxBackups int             `yaml:"max_backups"`  // rotated files kept
	MaxAgeDays int             `yaml:"max_age_days"` // rotated files max age
	DebugMode  bool            `yaml:"debug_mode"`   // allow debug level
	Categories map[string]bool `yaml:"categories"`   // per-category toggles
}

// IsCategoryEnabled returns whether logging is enabled for a category.
// Categories not listed are enabled.
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	enabled, exists := c.Categories[category]
	return !exists || enabled
}

// LoggerConfig converts the YAML section into the logging package config.
func (c *LoggingConfig) LoggerConfig() logging.Config {
	return logging.Config{
		Level:      c.Level,
		Format:     c.Format,
		File:       c.File,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		DebugMode:  c.DebugMode,
		Categories: c.Categories,
	}
}
