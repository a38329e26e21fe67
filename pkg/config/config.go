// Package config loads application configuration from file and
// environment variables via viper.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Wikidata endpoint configuration
	Wikidata WikidataConfig `mapstructure:"wikidata"`

	// NLP configuration
	NLP NLPConfig `mapstructure:"nlp"`

	// History (conversation log) configuration
	History HistoryConfig `mapstructure:"history"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`

	// Alert configuration
	Alert AlertConfig `mapstructure:"alert"`
}

// AlertConfig holds configuration for alerting
type AlertConfig struct {
	Enabled       bool     `mapstructure:"enabled"`
	SMTPHost      string   `mapstructure:"smtp_host"`
	SMTPPort      int      `mapstructure:"smtp_port"`
	Username      string   `mapstructure:"username"`
	Password      string   `mapstructure:"password"`
	From          string   `mapstructure:"from"`
	To            []string `mapstructure:"to"`
	SubjectPrefix string   `mapstructure:"subject_prefix"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// WikidataConfig holds the Wikidata endpoint configuration
type WikidataConfig struct {
	APIURL    string `mapstructure:"api_url"`
	SPARQLURL string `mapstructure:"sparql_url"`
	UserAgent string `mapstructure:"user_agent"`
	Timeout   int    `mapstructure:"timeout"` // in seconds
	Language  string `mapstructure:"language"`
}

// NLPConfig holds the language model configuration
type NLPConfig struct {
	Provider    string  `mapstructure:"provider"` // "openai" or "ollama"
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// HistoryConfig holds the conversation log database configuration
type HistoryConfig struct {
	DSN   string `mapstructure:"dsn"`
	Table string `mapstructure:"table"`
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	ParquetPath string `mapstructure:"parquet_path"`
}

// CircuitBreakerConfig holds configuration for circuit breaking
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Wikidata defaults
	viper.SetDefault("wikidata.api_url", "https://www.wikidata.org/w/api.php")
	viper.SetDefault("wikidata.sparql_url", "https://query.wikidata.org/sparql")
	viper.SetDefault("wikidata.user_agent", "wikibio/1.0 (https://github.com/soundprediction/wikibio)")
	viper.SetDefault("wikidata.timeout", 30)
	viper.SetDefault("wikidata.language", "en")

	// NLP defaults: a local Ollama instance speaking the OpenAI API.
	// The base URL is left empty and resolved from the provider.
	viper.SetDefault("nlp.provider", "ollama")
	viper.SetDefault("nlp.model", "gemma3:12b")
	viper.SetDefault("nlp.base_url", "")
	viper.SetDefault("nlp.temperature", 0.1)
	viper.SetDefault("nlp.max_tokens", 1024)

	// History defaults
	viper.SetDefault("history.dsn", "")
	viper.SetDefault("history.table", "chatbot_log")

	// Alert defaults
	viper.SetDefault("alert.enabled", false)
	viper.SetDefault("alert.smtp_port", 587)
	viper.SetDefault("alert.subject_prefix", "[wikibio]")

	// Circuit breaker defaults
	viper.SetDefault("circuit_breaker.enabled", false)
	viper.SetDefault("circuit_breaker.max_requests", 1)
	viper.SetDefault("circuit_breaker.interval", 60)
	viper.SetDefault("circuit_breaker.timeout", 60)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)

	// Telemetry defaults
	home, err := os.UserHomeDir()
	if err == nil {
		viper.SetDefault("telemetry.parquet_path", fmt.Sprintf("%s/.wikibio/telemetry", home))
	}
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.NLP.APIKey = apiKey
	}
	if dsn := os.Getenv("WIKIBIO_HISTORY_DSN"); dsn != "" {
		config.History.DSN = dsn
	}
	if ua := os.Getenv("WIKIBIO_USER_AGENT"); ua != "" {
		config.Wikidata.UserAgent = ua
	}
}
