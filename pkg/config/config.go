package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Provider   ProviderConfig
	STT        STTConfig
	Summarizer SummarizerConfig
	Mail       MailConfig
	Storage    StorageConfig
	Worker     WorkerConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// ProviderConfig holds the conferencing provider credentials used for the
// reserved system tenant, plus its webhook signing secret.
type ProviderConfig struct {
	SystemTenantID string
	AccountID      string
	ClientID       string
	ClientSecret   string
	WebhookSecret  string
	MediaTimeout   time.Duration
}

// STTConfig holds audio transcription (AssemblyAI) configuration
type STTConfig struct {
	APIKey  string
	Timeout time.Duration
}

// SummarizerConfig holds the LLM summarization endpoint configuration
type SummarizerConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// MailConfig holds SMTP delivery configuration
type MailConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	SendTimeout time.Duration
}

// StorageConfig holds artifact archive (MinIO) configuration
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
}

// WorkerConfig holds pipeline worker pool configuration
type WorkerConfig struct {
	Count        int
	PollInterval time.Duration
	JobTimeout   time.Duration
	ZombieAfter  time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "meeting_minutes"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Provider: ProviderConfig{
			SystemTenantID: getEnv("PROVIDER_SYSTEM_TENANT", "system"),
			AccountID:      getEnv("PROVIDER_ACCOUNT_ID", ""),
			ClientID:       getEnv("PROVIDER_CLIENT_ID", ""),
			ClientSecret:   getEnv("PROVIDER_CLIENT_SECRET", ""),
			WebhookSecret:  getEnv("PROVIDER_WEBHOOK_SECRET", ""),
			MediaTimeout:   getEnvAsDuration("PROVIDER_MEDIA_TIMEOUT", "120s"),
		},
		STT: STTConfig{
			APIKey:  getEnv("ASSEMBLYAI_API_KEY", ""),
			Timeout: getEnvAsDuration("STT_TIMEOUT", "10m"),
		},
		Summarizer: SummarizerConfig{
			APIKey:  getEnv("SUMMARIZER_API_KEY", ""),
			BaseURL: getEnv("SUMMARIZER_API_URL", "https://api.groq.com"),
			Model:   getEnv("SUMMARIZER_MODEL", "llama-3.1-70b-versatile"),
			Timeout: getEnvAsDuration("SUMMARIZER_TIMEOUT", "60s"),
		},
		Mail: MailConfig{
			Host:        getEnv("SMTP_HOST", "localhost"),
			Port:        getEnvAsInt("SMTP_PORT", 587),
			Username:    getEnv("SMTP_USERNAME", ""),
			Password:    getEnv("SMTP_PASSWORD", ""),
			FromAddress: getEnv("MAIL_FROM_ADDRESS", "minutes@localhost"),
			FromName:    getEnv("MAIL_FROM_NAME", "Meeting Minutes"),
			SendTimeout: getEnvAsDuration("MAIL_SEND_TIMEOUT", "30s"),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "meeting-minutes"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
		},
		Worker: WorkerConfig{
			Count:        getEnvAsInt("WORKER_COUNT", 4),
			PollInterval: getEnvAsDuration("WORKER_POLL_INTERVAL", "10s"),
			JobTimeout:   getEnvAsDuration("WORKER_JOB_TIMEOUT", "15m"),
			ZombieAfter:  getEnvAsDuration("WORKER_ZOMBIE_AFTER", "20m"),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Provider.WebhookSecret == "" {
		return fmt.Errorf("PROVIDER_WEBHOOK_SECRET is required")
	}
	if c.Summarizer.APIKey == "" {
		return fmt.Errorf("SUMMARIZER_API_KEY is required")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
