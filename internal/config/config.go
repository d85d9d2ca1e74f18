/**
 * @description
 * This package handles the configuration management for the service. It uses the
 * Viper library to read configuration from environment variables, providing a
 * centralized and straightforward way to manage application settings.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the remittance service.
// These values are loaded from environment variables.
type Config struct {
	ServerPort        string  `mapstructure:"SERVER_PORT"`
	DatabaseURL       string  `mapstructure:"DATABASE_URL"`
	RedisURL          string  `mapstructure:"REDIS_URL"`
	RedisCachePrefix  string  `mapstructure:"REDIS_CACHE_PREFIX"`
	RabbitMQURL       string  `mapstructure:"RABBITMQ_URL"`
	MachnetAPIBaseURL string  `mapstructure:"MACHNET_API_BASE_URL"`
	MachnetTenant     string  `mapstructure:"MACHNET_TENANT"`
	MachnetAPIKey     string  `mapstructure:"MACHNET_API_KEY"`
	MachnetAgentID    string  `mapstructure:"MACHNET_AGENT_ID"`
	MachnetAgentKey   string  `mapstructure:"MACHNET_AGENT_API_KEY"`
	JWTSecret         string  `mapstructure:"JWT_SECRET"`
	QuoteFeeUSD       float64 `mapstructure:"QUOTE_FEE_USD"`
}

// LoadConfig reads configuration from environment variables from the given path.
// It uses Viper to automatically bind environment variables to the Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("REDIS_CACHE_PREFIX", "remit:cache")
	viper.SetDefault("MACHNET_API_BASE_URL", "https://sandbox.machpay.com/v2")
	viper.SetDefault("QUOTE_FEE_USD", 4.0)

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("REDIS_CACHE_PREFIX")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("MACHNET_API_BASE_URL")
	_ = viper.BindEnv("MACHNET_TENANT")
	_ = viper.BindEnv("MACHNET_API_KEY")
	_ = viper.BindEnv("MACHNET_AGENT_ID")
	_ = viper.BindEnv("MACHNET_AGENT_API_KEY", "MACHNET_AGENT_API_KEY", "MACHNET_AGENT_KEY")
	_ = viper.BindEnv("JWT_SECRET")
	_ = viper.BindEnv("QUOTE_FEE_USD")

	// Attempt to read the config file. It's okay if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		// If the config file is not found, we can ignore the error.
		// For other errors, we should return them.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
	}

	// Unmarshal the configuration into the Config struct.
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}
	config.RedisURL = strings.TrimSpace(config.RedisURL)
	config.RedisCachePrefix = strings.TrimSpace(config.RedisCachePrefix)
	if config.RedisCachePrefix == "" {
		config.RedisCachePrefix = "remit:cache"
	}
	config.MachnetAPIBaseURL = strings.TrimRight(strings.TrimSpace(config.MachnetAPIBaseURL), "/")
	if strings.TrimSpace(config.JWTSecret) == "" {
		config.JWTSecret = "inyo-super-secret-key-123"
		log.Printf("level=warn component=config msg=\"JWT_SECRET is not set; using development default\"")
	}
	if config.QuoteFeeUSD < 0 {
		config.QuoteFeeUSD = 0
	}

	return
}
