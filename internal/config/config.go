// internal/config/config.go
package config

import (
    "fmt"
    "os"
    "strconv"
    "time"
)

type Config struct {
    Port string

    DBUser     string
    DBPassword string
    DBHost     string
    DBPort     string
    DBName     string

    AMQPURL string

    AnthropicKey   string
    SlackChannel   string
    TelegramChatID int64

    // SimulatePublish makes platform adapters fall back to a synthesized
    // success when the real API call fails. Demo behavior; off means
    // transport errors surface as failed posts.
    SimulatePublish bool

    RecoveryInterval time.Duration
    RetryDelay       time.Duration
    RetryMax         int // 0 = retry forever
    PublishTimeout   time.Duration

    LogLevel string
}

func Load() *Config {
    return &Config{
        Port:             getEnv("PORT", "8080"),
        DBUser:           os.Getenv("DB_USER"),
        DBPassword:       os.Getenv("DB_PASSWORD"),
        DBHost:           getEnv("DB_HOST", "localhost"),
        DBPort:           getEnv("DB_PORT", "5432"),
        DBName:           os.Getenv("DB_NAME"),
        AMQPURL:          os.Getenv("AMQP_URL"),
        AnthropicKey:     os.Getenv("ANTHROPIC_API_KEY"),
        SlackChannel:     os.Getenv("SLACK_CHANNEL"),
        TelegramChatID:   getEnvInt64("TELEGRAM_CHAT_ID", 0),
        SimulatePublish:  getEnvBool("SIMULATE_PUBLISH", true),
        RecoveryInterval: getEnvDuration("RECOVERY_INTERVAL", time.Hour),
        RetryDelay:       getEnvDuration("RETRY_DELAY", time.Hour),
        RetryMax:         getEnvInt("RETRY_MAX", 0),
        PublishTimeout:   getEnvDuration("PUBLISH_TIMEOUT", 30*time.Second),
        LogLevel:         getEnv("LOG_LEVEL", "info"),
    }
}

func (c *Config) Validate() error {
    if c.DBUser == "" || c.DBName == "" {
        return fmt.Errorf("DB_USER and DB_NAME are required")
    }
    if c.RecoveryInterval < time.Minute {
        return fmt.Errorf("RECOVERY_INTERVAL must be at least 1m, got %s", c.RecoveryInterval)
    }
    if c.RetryMax < 0 {
        return fmt.Errorf("RETRY_MAX cannot be negative")
    }
    return nil
}

func (c *Config) DatabaseURL() string {
    return fmt.Sprintf(
        "postgres://%s:%s@%s:%s/%s?sslmode=disable",
        c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
    )
}

func getEnv(key, fallback string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return fallback
}

func getEnvBool(key string, fallback bool) bool {
    v := os.Getenv(key)
    if v == "" {
        return fallback
    }
    b, err := strconv.ParseBool(v)
    if err != nil {
        return fallback
    }
    return b
}

func getEnvInt(key string, fallback int) int {
    v := os.Getenv(key)
    if v == "" {
        return fallback
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        return fallback
    }
    return n
}

func getEnvInt64(key string, fallback int64) int64 {
    v := os.Getenv(key)
    if v == "" {
        return fallback
    }
    n, err := strconv.ParseInt(v, 10, 64)
    if err != nil {
        return fallback
    }
    return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" {
        return fallback
    }
    d, err := time.ParseDuration(v)
    if err != nil {
        return fallback
    }
    return d
}
