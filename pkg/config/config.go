// Package config loads runtime configuration: provider API keys, server
// and storage settings, and the optional model catalog and vendor
// profile override files. Environment variables take precedence over
// the config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/mindsparkle/docintel/pkg/catalog"
	"github.com/mindsparkle/docintel/pkg/modes"
	"github.com/mindsparkle/docintel/pkg/profile"
)

const (
	defaultListenAddr = ":8080"
	defaultMode       = "study"
	defaultMinScore   = 70.0
)

// Config holds the application configuration.
type Config struct {
	AnthropicAPIKey string
	OpenAIAPIKey    string
	GoogleAPIKey    string
	DeepSeekAPIKey  string

	ListenAddr         string
	DatabasePath       string
	DefaultMode        string
	MinValidationScore float64

	Catalog  *catalog.Catalog
	Registry *profile.Registry

	ConfigDir string
}

// FileConfig represents the structure of ~/.docintel/config.yaml.
type FileConfig struct {
	APIKeys    APIKeysConfig    `yaml:"api_keys"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Processing ProcessingConfig `yaml:"processing"`
}

// APIKeysConfig holds API key configuration from file.
type APIKeysConfig struct {
	Anthropic string `yaml:"anthropic"`
	OpenAI    string `yaml:"openai"`
	Google    string `yaml:"google"`
	DeepSeek  string `yaml:"deepseek"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	Database string `yaml:"database"`
}

// ProcessingConfig holds document processing defaults.
type ProcessingConfig struct {
	DefaultMode        string  `yaml:"default_mode"`
	MinValidationScore float64 `yaml:"min_validation_score"`
}

// Load reads configuration from the config directory and environment
// variables. Environment variables take precedence over file values.
// When models.yaml or vendors.yaml exist in the config directory they
// are loaded and validated; otherwise the builtin tables apply.
func Load() (*Config, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	fileConfig := loadFileConfig(filepath.Join(configDir, "config.yaml"))

	cfg := &Config{
		AnthropicAPIKey: getEnvOrDefault("ANTHROPIC_API_KEY", fileConfig.APIKeys.Anthropic),
		OpenAIAPIKey:    getEnvOrDefault("OPENAI_API_KEY", fileConfig.APIKeys.OpenAI),
		GoogleAPIKey:    getEnvOrDefault("GOOGLE_API_KEY", fileConfig.APIKeys.Google),
		DeepSeekAPIKey:  getEnvOrDefault("DEEPSEEK_API_KEY", fileConfig.APIKeys.DeepSeek),

		ListenAddr:         getEnvOrDefault("DOCINTEL_LISTEN", fileConfig.Server.Listen),
		DatabasePath:       getEnvOrDefault("DOCINTEL_DATABASE", fileConfig.Storage.Database),
		DefaultMode:        getEnvOrDefault("DOCINTEL_MODE", fileConfig.Processing.DefaultMode),
		MinValidationScore: getEnvFloat("DOCINTEL_MIN_SCORE", fileConfig.Processing.MinValidationScore),

		ConfigDir: configDir,
	}
	applyDefaults(cfg)

	if _, err := modes.Parse(cfg.DefaultMode); err != nil {
		return nil, fmt.Errorf("invalid default mode: %w", err)
	}

	modelsPath := filepath.Join(configDir, "models.yaml")
	if _, err := os.Stat(modelsPath); err == nil {
		cat, err := LoadModelsFile(modelsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load model catalog from %s: %w", modelsPath, err)
		}
		cfg.Catalog = cat
	} else {
		cfg.Catalog = catalog.Default()
	}

	vendorsPath := filepath.Join(configDir, "vendors.yaml")
	if _, err := os.Stat(vendorsPath); err == nil {
		reg, err := LoadVendorsFile(vendorsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load vendor profiles from %s: %w", vendorsPath, err)
		}
		cfg.Registry = reg
	} else {
		cfg.Registry = profile.MustRegistry(profile.Builtin())
	}

	return cfg, nil
}

// HasProvider returns true if the API key for the given provider is
// configured.
func (c *Config) HasProvider(name string) bool {
	switch name {
	case "anthropic":
		return c.AnthropicAPIKey != ""
	case "openai":
		return c.OpenAIAPIKey != ""
	case "google":
		return c.GoogleAPIKey != ""
	case "deepseek":
		return c.DeepSeekAPIKey != ""
	default:
		return false
	}
}

// ConfiguredProviders lists the providers with an API key set.
func (c *Config) ConfiguredProviders() []string {
	var out []string
	for _, name := range []string{"anthropic", "openai", "google", "deepseek"} {
		if c.HasProvider(name) {
			out = append(out, name)
		}
	}
	return out
}

func applyDefaults(cfg *Config) {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(cfg.ConfigDir, "records.db")
	}
	if cfg.DefaultMode == "" {
		cfg.DefaultMode = defaultMode
	}
	if cfg.MinValidationScore == 0 {
		cfg.MinValidationScore = defaultMinScore
	}
}

// loadFileConfig reads the config file, returning empty config if not found.
func loadFileConfig(path string) *FileConfig {
	cfg := &FileConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg // Return empty config if file doesn't exist
	}

	_ = yaml.Unmarshal(data, cfg) // Ignore parse errors, use defaults
	return cfg
}

// getEnvOrDefault returns the environment variable value if set,
// otherwise returns the default value.
func getEnvOrDefault(envVar, defaultValue string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultValue
}

// getEnvFloat parses a float environment variable, falling back to the
// default when unset or unparsable.
func getEnvFloat(envVar string, defaultValue float64) float64 {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".docintel")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}
	return configDir, nil
}
