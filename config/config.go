package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis configuration.
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisRateLimitDB int    `mapstructure:"REDIS_RATE_LIMIT_DB"`
	RedisContextDB   int    `mapstructure:"REDIS_CONTEXT_DB"`
	RedisReminderDB  int    `mapstructure:"REDIS_REMINDER_DB"`

	// Gemini API key for the assistant. Chat is disabled when empty.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`

	// Directory holding the portfolio content documents.
	ContentDir string `mapstructure:"CONTENT_DIR"`

	// Operator identity used in confirmations and notifications.
	OperatorName  string `mapstructure:"OPERATOR_NAME"`
	OperatorEmail string `mapstructure:"OPERATOR_EMAIL"`

	// SMTP delivery for booking confirmations.
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`

	// Calendar settings.
	Timezone    string `mapstructure:"TIMEZONE"`
	HorizonDays int    `mapstructure:"HORIZON_DAYS"`

	// Request gate ceilings.
	MaxRequestsPerDay     int `mapstructure:"MAX_REQUESTS_PER_DAY"`
	MaxRequestsPerSession int `mapstructure:"MAX_REQUESTS_PER_SESSION"`
	MaxQuestionLength     int `mapstructure:"MAX_QUESTION_LENGTH"`
	MaxHistoryMessages    int `mapstructure:"MAX_HISTORY_MESSAGES"`
	MaxMessageLength      int `mapstructure:"MAX_MESSAGE_LENGTH"`

	CORSAllowOrigin string `mapstructure:"CORS_ALLOW_ORIGIN"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_RATE_LIMIT_DB", 0)
	viper.SetDefault("REDIS_CONTEXT_DB", 1)
	viper.SetDefault("REDIS_REMINDER_DB", 2)
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("CONTENT_DIR", "./content")
	viper.SetDefault("OPERATOR_NAME", "Sahil Sharma")
	viper.SetDefault("OPERATOR_EMAIL", "experiments.datas@gmail.com")
	viper.SetDefault("SMTP_HOST", "localhost")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USER", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("TIMEZONE", "Asia/Singapore")
	viper.SetDefault("HORIZON_DAYS", 14)
	viper.SetDefault("MAX_REQUESTS_PER_DAY", 100)
	viper.SetDefault("MAX_REQUESTS_PER_SESSION", 20)
	viper.SetDefault("MAX_QUESTION_LENGTH", 2000)
	viper.SetDefault("MAX_HISTORY_MESSAGES", 6)
	viper.SetDefault("MAX_MESSAGE_LENGTH", 2000)
	viper.SetDefault("CORS_ALLOW_ORIGIN", "*")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
