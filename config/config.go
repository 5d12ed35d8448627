package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisLockDB   int    `mapstructure:"REDIS_LOCK_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Public URLs used to build gateway redirect targets.
	APIURL    string `mapstructure:"API_URL"`
	ClientURL string `mapstructure:"CLIENT_URL"`

	// SSLCommerz payment gateway.
	SSLCStoreID     string `mapstructure:"SSLC_STORE_ID"`
	SSLCStorePass   string `mapstructure:"SSLC_STORE_PASS"`
	SSLCAPIURL      string `mapstructure:"SSLC_API_URL"`
	SSLCDisburseURL string `mapstructure:"SSLC_DISBURSE_URL"`
	SSLCDisburseKey string `mapstructure:"SSLC_DISBURSE_KEY"`

	// Hours a paid booking must be checked in before a payout is scheduled.
	PayoutHoldHours int `mapstructure:"PAYOUT_HOLD_HOURS"`
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
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_LOCK_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "banglabnb")
	viper.SetDefault("API_URL", "http://localhost:8080")
	viper.SetDefault("CLIENT_URL", "http://localhost:3000")
	viper.SetDefault("SSLC_API_URL", "https://sandbox.sslcommerz.com/gwprocess/v4/api.php")
	viper.SetDefault("SSLC_DISBURSE_URL", "https://sandbox.sslcommerz.com/api/v1/disburse")
	viper.SetDefault("PAYOUT_HOLD_HOURS", 24)

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
