// Package config loads the planner's environment-variable configuration,
// in the style of the draymaster shared config package: a single Load,
// typed sub-structs, and small getEnv* helpers with defaults.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Service ServiceConfig
	Server  ServerConfig
	Routing RoutingConfig
	Kafka   KafkaConfig
}

// ServiceConfig identifies the running process for logging.
type ServiceConfig struct {
	Environment   string
	LogLevel      string
	DefaultRuleSet string
}

// ServerConfig configures the thin HTTP wiring binary.
type ServerConfig struct {
	BindAddress  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RoutingConfig configures the Routing Oracle Client.
type RoutingConfig struct {
	OracleURL       string
	TimeoutSeconds  int
	CacheEnabled    bool
	CacheAddress    string
	CacheTTLSeconds int
}

// KafkaConfig configures the best-effort trip.planned event publisher.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	Enabled bool
}

// Load reads configuration from the environment, applying the defaults
// named in §6.
func Load() (*Config, error) {
	return &Config{
		Service: ServiceConfig{
			Environment:    getEnv("ENVIRONMENT", "development"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			DefaultRuleSet: getEnv("DEFAULT_RULE_SET", "INTERSTATE"),
		},
		Server: ServerConfig{
			BindAddress:  getEnv("BIND_ADDRESS", ":8080"),
			ReadTimeout:  getEnvDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvDuration("WRITE_TIMEOUT", 30*time.Second),
		},
		Routing: RoutingConfig{
			OracleURL:       getEnv("ROUTING_ORACLE_URL", "http://localhost:5000/route/v1/driving"),
			TimeoutSeconds:  getEnvInt("ROUTING_TIMEOUT_SECONDS", 10),
			CacheEnabled:    getEnvBool("ROUTE_CACHE_ENABLED", false),
			CacheAddress:    getEnv("ROUTE_CACHE_ADDRESS", "localhost:6379"),
			CacheTTLSeconds: getEnvInt("ROUTE_CACHE_TTL_SECONDS", 3600),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_TOPIC_TRIP_PLANNED", "hos_planner.trip.planned"),
			Enabled: getEnvBool("KAFKA_ENABLED", false),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	var result []string
	start := 0
	for i := 0; i <= len(v); i++ {
		if i == len(v) || v[i] == ',' {
			if i > start {
				result = append(result, v[start:i])
			}
			start = i + 1
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
