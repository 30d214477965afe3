// file: internal/config/config.go
// version: 1.0.0
// guid: 9d5b3f81-2c7e-46a0-b9d4-8e1f6a0c3d27

package config

import (
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	RegistryPath  string
	HistoryPath   string
	Host          string
	Port          string
	DefaultLimit  int
	WatchRegistry bool
	RateLimit     RateLimitConfig
	Markers       struct {
		Left  string
		Right string
	}
}

// RateLimitConfig is the per-IP throttle section.
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

var AppConfig Config

// InitConfig initializes the application configuration from viper
func InitConfig() {
	viper.SetDefault("host", "0.0.0.0")
	viper.SetDefault("port", "8095")
	viper.SetDefault("default_limit", 25)
	viper.SetDefault("watch_registry", true)
	viper.SetDefault("rate_limit.requests_per_minute", 300)
	viper.SetDefault("rate_limit.burst", 50)
	viper.SetDefault("markers.left", "[")
	viper.SetDefault("markers.right", "]")

	AppConfig = Config{
		RegistryPath:  viper.GetString("registry_path"),
		HistoryPath:   viper.GetString("history_path"),
		Host:          viper.GetString("host"),
		Port:          viper.GetString("port"),
		DefaultLimit:  viper.GetInt("default_limit"),
		WatchRegistry: viper.GetBool("watch_registry"),
	}
	AppConfig.RateLimit.RequestsPerMinute = viper.GetInt("rate_limit.requests_per_minute")
	AppConfig.RateLimit.Burst = viper.GetInt("rate_limit.burst")
	AppConfig.Markers.Left = viper.GetString("markers.left")
	AppConfig.Markers.Right = viper.GetString("markers.right")

	if AppConfig.DefaultLimit <= 0 {
		AppConfig.DefaultLimit = 25
	}
}
