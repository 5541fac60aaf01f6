package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration
type Config struct {
	Geometry   GeometryConfig   `json:"geometry"`
	Generation GenerationConfig `json:"generation"`
	Server     ServerConfig     `json:"server"`
	Output     OutputConfig     `json:"output"`
}

// GeometryConfig holds the image normalization constraints
type GeometryConfig struct {
	MaxDimension int `json:"max_dimension"`
	PatchSize    int `json:"patch_size"`
	MergeSize    int `json:"merge_size"`
	MinPixels    int `json:"min_pixels"`
	MaxPixels    int `json:"max_pixels"`
}

// GenerationConfig holds the model backend settings
type GenerationConfig struct {
	Backend   string `json:"backend"` // ollama or llamacpp
	Model     string `json:"model"`
	URL       string `json:"url"`
	MaxTokens int    `json:"max_tokens"`
}

// ServerConfig holds the HTTP service settings
type ServerConfig struct {
	Host           string   `json:"host"`
	Port           int      `json:"port"`
	AllowedOrigins []string `json:"allowed_origins"`
}

// OutputConfig holds settings for debug overlay output
type OutputConfig struct {
	Dir     string `json:"dir"`
	Format  string `json:"format"`
	Quality int    `json:"quality"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Geometry: GeometryConfig{
			MaxDimension: 1280,
			PatchSize:    14,
			MergeSize:    2,
			MinPixels:    64 << 10,
			MaxPixels:    2 << 20,
		},
		Generation: GenerationConfig{
			Backend:   "ollama",
			Model:     "hcompany/holo2-4b",
			URL:       "http://localhost:11434",
			MaxTokens: 32,
		},
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           5001,
			AllowedOrigins: []string{"*"},
		},
		Output: OutputConfig{
			Dir:     "./out",
			Format:  "png",
			Quality: 92,
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Geometry.MaxDimension < 0 {
		return fmt.Errorf("geometry.max_dimension must not be negative")
	}

	if c.Geometry.PatchSize < 1 {
		return fmt.Errorf("geometry.patch_size must be positive")
	}

	if c.Geometry.MergeSize < 1 {
		return fmt.Errorf("geometry.merge_size must be positive")
	}

	if c.Geometry.MinPixels < 0 || c.Geometry.MaxPixels < 0 {
		return fmt.Errorf("geometry pixel bounds must not be negative")
	}

	if c.Geometry.MinPixels > 0 && c.Geometry.MaxPixels > 0 && c.Geometry.MinPixels > c.Geometry.MaxPixels {
		return fmt.Errorf("geometry.min_pixels must not exceed geometry.max_pixels")
	}

	if c.Generation.Backend != "ollama" && c.Generation.Backend != "llamacpp" {
		return fmt.Errorf("generation.backend must be 'ollama' or 'llamacpp'")
	}

	if c.Generation.Model == "" {
		return fmt.Errorf("generation.model cannot be empty")
	}

	if c.Generation.MaxTokens < 1 {
		return fmt.Errorf("generation.max_tokens must be positive")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "gui-locator", "config.json")
}
