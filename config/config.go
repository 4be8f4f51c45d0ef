package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Backend REST origin the front server talks to.
	APIBaseURL string        `mapstructure:"API_BASE_URL"`
	APITimeout time.Duration `mapstructure:"API_TIMEOUT"`

	// Rate limiting of the login and registration forms.
	MaxAuthAttemptsPerMin int `mapstructure:"MAX_AUTH_ATTEMPTS_PER_MIN"`

	// Client storage (the browser's persisted token lives here).
	StorageDriver     string        `mapstructure:"STORAGE_DRIVER"`
	RedisAddr         string        `mapstructure:"REDIS_ADDR"`
	RedisPassword     string        `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB    int           `mapstructure:"REDIS_SESSION_DB"`
	RedisChatDB       int           `mapstructure:"REDIS_CHAT_DB"`
	ClientStorageTTL  time.Duration `mapstructure:"CLIENT_STORAGE_TTL"`
	ChatTranscriptTTL time.Duration `mapstructure:"CHAT_TRANSCRIPT_TTL"`

	// Browser cookie carrying the client id.
	CookieName   string `mapstructure:"COOKIE_NAME"`
	CookieSecure bool   `mapstructure:"COOKIE_SECURE"`

	// Origins allowed to read /api/session.
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "3000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("API_BASE_URL", "http://localhost:5000/")
	v.SetDefault("API_TIMEOUT", 15*time.Second)
	v.SetDefault("MAX_AUTH_ATTEMPTS_PER_MIN", 20)
	v.SetDefault("STORAGE_DRIVER", "redis")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_SESSION_DB", 0)
	v.SetDefault("REDIS_CHAT_DB", 1)
	v.SetDefault("CLIENT_STORAGE_TTL", 30*24*time.Hour)
	v.SetDefault("CHAT_TRANSCRIPT_TTL", 30*time.Minute)
	v.SetDefault("COOKIE_NAME", "hf_client")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("CORS_ORIGINS", []string{"http://localhost:3000"})
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
