package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	PostgreSQL PostgreSQLConfig
	Redis      RedisConfig
	Ollama     OllamaConfig
	OpenAI     OpenAIConfig
	Parser     ParserConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
}

// PostgreSQLConfig holds the optional parse-log database configuration
type PostgreSQLConfig struct {
	DSN                string // complete connection string (takes priority)
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	Enabled            bool
}

// RedisConfig holds the optional parse-cache configuration
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	TTLSeconds int
	Enabled    bool
}

// OllamaConfig holds the local Ollama extractor configuration
type OllamaConfig struct {
	Host    string
	Model   string
	Timeout int // seconds
}

// OpenAIConfig holds the OpenAI-compatible extractor configuration
type OpenAIConfig struct {
	APIKey      string
	APIBase     string
	ChatModel   string
	Temperature float64
	Timeout     int // seconds
	MaxRetries  int
	RateLimit   float64 // requests per second
	RateBurst   int
	Enabled     bool
}

// ParserConfig holds pipeline behavior configuration
type ParserConfig struct {
	// Extractor selects the model extractor backend: "ollama" or "openai"
	Extractor string
	// BypassEnabled skips the model call when lexical extraction is confident
	BypassEnabled bool
	// IncludeSlots echoes the reconciled slots in parse responses
	IncludeSlots bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	dsn := getEnv("DATABASE_URL", getEnv("PG_DSN", ""))

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		PostgreSQL: PostgreSQLConfig{
			DSN:                dsn,
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "room_nlu"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
			Enabled:            getEnvAsBool("PARSE_LOG_ENABLED", dsn != ""),
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", ""),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvAsInt("REDIS_DB", 0),
			TTLSeconds: getEnvAsInt("REDIS_CACHE_TTL", 86400),
			Enabled:    getEnv("REDIS_ADDR", "") != "",
		},
		Ollama: OllamaConfig{
			Host:    getEnv("OLLAMA_HOST", "http://127.0.0.1:11434"),
			Model:   getEnv("NLU_MODEL", "room-nlu"),
			Timeout: getEnvAsInt("OLLAMA_TIMEOUT", 30),
		},
		OpenAI: OpenAIConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			APIBase:     getEnv("OPENAI_API_BASE", ""),
			ChatModel:   getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			Temperature: getEnvAsFloat("OPENAI_CHAT_TEMPERATURE", 0.1),
			Timeout:     getEnvAsInt("OPENAI_TIMEOUT", 30),
			MaxRetries:  getEnvAsInt("OPENAI_MAX_RETRIES", 3),
			RateLimit:   getEnvAsFloat("OPENAI_RATE_LIMIT", 3),
			RateBurst:   getEnvAsInt("OPENAI_RATE_BURST", 5),
			Enabled:     getEnv("OPENAI_API_KEY", "") != "",
		},
		Parser: ParserConfig{
			Extractor:     getEnv("PARSER_EXTRACTOR", "ollama"),
			BypassEnabled: getEnvAsBool("PARSER_BYPASS_ENABLED", true),
			IncludeSlots:  getEnvAsBool("PARSER_INCLUDE_SLOTS", true),
		},
	}

	return cfg, nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default %t", key, defaultValue)
		return defaultValue
	}
	return value
}
