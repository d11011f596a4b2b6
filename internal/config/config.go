package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all organizer configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Sandbox root and sidecar metadata
	Workspace WorkspaceConfig `yaml:"workspace"`

	// LLM configuration
	LLM LLMConfig `yaml:"llm"`

	// HTTP surface
	Server ServerConfig `yaml:"server"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Per-command resource bounds
	Limits Limits `yaml:"limits"`
}

// WorkspaceConfig locates the sandbox root and its sidecar metadata.
type WorkspaceConfig struct {
	Root        string `yaml:"root"`
	DiskLabel   string `yaml:"disk_label"`
	MetaBackend string `yaml:"meta_backend"` // json, sqlite
	MetaPath    string `yaml:"meta_path"`    // relative paths resolve against Root
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	ListenAddr  string `yaml:"listen_addr"`
	MetricsPath string `yaml:"metrics_path"`
	Debug       bool   `yaml:"debug"` // gin debug mode
}

// MetaFileName is the JSON sidecar kept at the workspace root.
const MetaFileName = ".file-organizer-meta.json"

// MetaDBName is the default location for the sqlite backend.
const MetaDBName = ".file-organizer-meta.db"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "organizer",
		Version: "0.4.0",

		Workspace: WorkspaceConfig{
			Root:        "workspace",
			DiskLabel:   "Workspace",
			MetaBackend: "json",
			MetaPath:    MetaFileName,
		},

		LLM: DefaultLLMConfig(),

		Server: ServerConfig{
			ListenAddr:  ":3001",
			MetricsPath: "/metrics",
		},

		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  15,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},

		Limits: DefaultLimits(),
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// GEMINI_API_KEY wins over GOOGLE_API_KEY when both are set
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "gemini"
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "gemini"
	}
	if m := os.Getenv("GEMINI_MODEL"); m != "" {
		c.LLM.Model = m
	}
	if m := os.Getenv("GEMINI_FALLBACK_MODEL"); m != "" {
		c.LLM.FallbackModel = m
	}

	if p := os.Getenv("WORKSPACE_PATH"); p != "" {
		c.Workspace.Root = p
	}
	if l := os.Getenv("DISK_LABEL"); l != "" {
		c.Workspace.DiskLabel = l
	}
	if b := os.Getenv("ORGANIZER_META_BACKEND"); b != "" {
		c.Workspace.MetaBackend = b
	}
	if p := os.Getenv("ORGANIZER_META_DB"); p != "" {
		c.Workspace.MetaPath = p
	}

	if a := os.Getenv("ORGANIZER_LISTEN_ADDR"); a != "" {
		c.Server.ListenAddr = a
	}
}

// MetaLocation returns the absolute sidecar location.
func (c *Config) MetaLocation() string {
	p := c.Workspace.MetaPath
	if p == "" || p == MetaFileName {
		p = MetaFileName
		if c.Workspace.MetaBackend == "sqlite" {
			p = MetaDBName
		}
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Workspace.Root, p)
}

// ValidBackends lists the supported sidecar backends.
var ValidBackends = []string{"json", "sqlite"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Workspace.Root == "" {
		return fmt.Errorf("workspace root not configured (set workspace.root or WORKSPACE_PATH)")
	}

	validBackend := false
	for _, b := range ValidBackends {
		if c.Workspace.MetaBackend == b {
			validBackend = true
			break
		}
	}
	if !validBackend {
		return fmt.Errorf("invalid meta backend: %s (valid: %v)", c.Workspace.MetaBackend, ValidBackends)
	}

	if c.LLM.Provider != "gemini" && c.LLM.Provider != "none" {
		return fmt.Errorf("invalid LLM provider: %s (valid: gemini, none)", c.LLM.Provider)
	}

	return c.ValidateLimits()
}
