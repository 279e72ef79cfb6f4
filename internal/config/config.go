package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// APIKeyEnvVar is the environment variable consulted when no explicit API key
// is given on the command line.
const APIKeyEnvVar = "OPENWEATHERMAP_API_KEY"

// ErrMissingAPIKey is returned when neither the --apikey flag nor the
// environment variable provides a key.
var ErrMissingAPIKey = errors.New(
	"API key must be provided either via --apikey flag or " + APIKeyEnvVar + " environment variable")

var once sync.Once
var logger *zap.SugaredLogger
var loggerOnce sync.Once

func initConfig() {
	once.Do(func() {
		viper.SetDefault("openweathermap.geocoding_url", "http://api.openweathermap.org/geo/1.0/direct")
		viper.SetDefault("openweathermap.weather_url", "https://api.openweathermap.org/data/2.5/weather")
		viper.SetDefault("openweathermap.units", "metric")
		viper.SetDefault("http.timeout", "10s")
		viper.SetDefault("http.rate_limit_per_minute", 60)
		viper.SetDefault("http.rate_limit_burst", 2)
		viper.SetDefault("redis.addr", "")
		viper.SetDefault("cache.expiration", "24h")

		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if root, err := getProjectRoot(); err == nil {
			viper.AddConfigPath(root)
		}
		if err := viper.ReadInConfig(); err != nil {
			// The config file is optional; every key has a default.
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				GetLogger().Errorw("Error reading config file", "error", err)
			}
		}
	})
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// ResolveAPIKey returns the API key to use for a run. A non-empty explicit
// value wins; otherwise .env is loaded best-effort and the environment
// variable is consulted.
func ResolveAPIKey(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	_ = godotenv.Load()
	if key := os.Getenv(APIKeyEnvVar); key != "" {
		return key, nil
	}
	return "", ErrMissingAPIKey
}

func GeocodingURL() string {
	initConfig()
	return viper.GetString("openweathermap.geocoding_url")
}

func WeatherURL() string {
	initConfig()
	return viper.GetString("openweathermap.weather_url")
}

func Units() string {
	initConfig()
	return viper.GetString("openweathermap.units")
}

// HTTPTimeout returns the timeout applied to each outbound HTTP request.
// Defaults to 10s if not set or invalid.
func HTTPTimeout() time.Duration {
	initConfig()
	dur, err := time.ParseDuration(viper.GetString("http.timeout"))
	if err != nil || dur <= 0 {
		return 10 * time.Second
	}
	return dur
}

// RateLimitPerMinute returns the sustained rate of the client-side throttle
// on outbound API calls. The default matches the OpenWeatherMap free tier.
func RateLimitPerMinute() int {
	initConfig()
	perMinute := viper.GetInt("http.rate_limit_per_minute")
	if perMinute <= 0 {
		perMinute = 60
	}
	return perMinute
}

// RateLimitBurst returns the burst size of the client-side throttle.
func RateLimitBurst() int {
	initConfig()
	burst := viper.GetInt("http.rate_limit_burst")
	if burst <= 0 {
		burst = 2
	}
	return burst
}

// RedisAddr returns the address of the optional geocoding cache. Empty means
// caching is disabled.
func RedisAddr() string {
	initConfig()
	return viper.GetString("redis.addr")
}

// CacheExpiration returns the TTL for cached geocoding results. Defaults to
// 24h if not set or invalid.
func CacheExpiration() time.Duration {
	initConfig()
	dur, err := time.ParseDuration(viper.GetString("cache.expiration"))
	if err != nil || dur <= 0 {
		return 24 * time.Hour
	}
	return dur
}

func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
	})
	return logger
}

// ReloadConfigForTest resets the config singleton and reloads Viper config. Use only in tests.
func ReloadConfigForTest() {
	once = sync.Once{}
	initConfig()
}
