package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Port                string              `mapstructure:"port"`
	GeminiModel         string              `mapstructure:"gemini_model"`
	GoogleAPIKeys       []string            `mapstructure:"google_api_keys"`
	LocalAIEndpoint     string              `mapstructure:"local_ai_endpoint"`
	LocalAIModel        string              `mapstructure:"local_ai_model"`
	MongoURI            string              `mapstructure:"MONGODB_URI"`
	ArchiveDir          string              `mapstructure:"archive_dir"`
	ChunkSize           int                 `mapstructure:"chunk_size"`
	ChunkOverlap        int                 `mapstructure:"chunk_overlap"`
	WeaviateStoreConfig WeaviateStoreConfig `mapstructure:"weaviate_store_config"`
}

type WeaviateStoreConfig struct {
	Host         string       `mapstructure:"host"`
	APIKey       string       `mapstructure:"WEAVIATE_APIKEY"` // Changed to match env var
	Text2Vec     string       `mapstructure:"text2vec"`
	ModuleConfig ModuleConfig `mapstructure:"module_config"`
}

type ModuleConfig map[string]interface{}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set up Viper to read from config file
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set up Viper to read from environment variables
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Bind environment variables
	v.BindEnv("GOOGLE_API_KEY")
	v.BindEnv("WEAVIATE_APIKEY")
	v.BindEnv("MONGODB_URI")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// GOOGLE_API_KEY from the environment takes priority over the yaml key list
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		config.GoogleAPIKeys = append([]string{key}, config.GoogleAPIKeys...)
	}

	applyDefaults(&config)

	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Port == "" {
		config.Port = "8080"
	}
	if config.GeminiModel == "" {
		config.GeminiModel = "gemini-2.0-flash"
	}
	if config.LocalAIModel == "" {
		config.LocalAIModel = "local-model"
	}
	if config.ChunkSize == 0 {
		config.ChunkSize = 1000
	}
	if config.ChunkOverlap == 0 {
		config.ChunkOverlap = 100
	}
	if config.ArchiveDir == "" {
		config.ArchiveDir = "archive"
	}
}
