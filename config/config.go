package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	Provider         string   `mapstructure:"provider"` // "gemini" or "openai"
	AIEndpoint       string   `mapstructure:"ai_endpoint"`
	Model            string   `mapstructure:"model"`
	OpenAIAPIKey     string   `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKey     string   `mapstructure:"GEMINI_API_KEY"`
	GeminiAPIKeys    []string `mapstructure:"gemini_api_keys"`
	RawDir           string   `mapstructure:"raw_dir"`
	BuildDir         string   `mapstructure:"build_dir"`
	BatchSize        int      `mapstructure:"batch_size"`
	Workers          int      `mapstructure:"workers"`
	TargetEdge       int      `mapstructure:"target_edge"`
	JPEGQuality      int      `mapstructure:"jpeg_quality"`
	DriveFolder      string   `mapstructure:"drive_folder"`
	DriveCredentials string   `mapstructure:"drive_credentials"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("provider", "gemini")
	v.SetDefault("model", "gemini-2.0-flash-exp")
	v.SetDefault("raw_dir", "raw")
	v.SetDefault("build_dir", "build")
	v.SetDefault("batch_size", 16)
	v.SetDefault("workers", 4)
	v.SetDefault("target_edge", 1536)
	v.SetDefault("jpeg_quality", 85)
	v.SetDefault("drive_folder", "Notes")
	v.SetDefault("drive_credentials", "credentials/client_secret.json")

	// Set up Viper to read from environment variables
	v.AutomaticEnv()
	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("GEMINI_API_KEY")

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// GeminiKeys merges the single-key env var with the configured key list
func (c *Config) GeminiKeys() []string {
	keys := make([]string, 0, len(c.GeminiAPIKeys)+1)
	if c.GeminiAPIKey != "" {
		keys = append(keys, c.GeminiAPIKey)
	}
	keys = append(keys, c.GeminiAPIKeys...)
	return keys
}

// CacheDir is the content cache root under the build directory
func (c *Config) CacheDir() string {
	return filepath.Join(c.BuildDir, "cache")
}

// NotesDir is the persisted note root under the build directory
func (c *Config) NotesDir() string {
	return filepath.Join(c.BuildDir, "notes")
}
