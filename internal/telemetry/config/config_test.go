package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"ENVIRONMENT", "LOG_LEVEL", "DEFAULT_RULE_SET", "BIND_ADDRESS",
		"ROUTING_ORACLE_URL", "ROUTING_TIMEOUT_SECONDS", "KAFKA_BROKERS", "KAFKA_ENABLED",
		"ROUTE_CACHE_ENABLED", "ROUTE_CACHE_ADDRESS", "ROUTE_CACHE_TTL_SECONDS",
	} {
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected err = %v", err)
	}
	if cfg.Service.DefaultRuleSet != "INTERSTATE" {
		t.Errorf("DefaultRuleSet = %v, want INTERSTATE", cfg.Service.DefaultRuleSet)
	}
	if cfg.Routing.TimeoutSeconds != 10 {
		t.Errorf("TimeoutSeconds = %v, want 10", cfg.Routing.TimeoutSeconds)
	}
	if cfg.Kafka.Enabled {
		t.Error("Kafka.Enabled default should be false")
	}
	if cfg.Routing.CacheEnabled {
		t.Error("Routing.CacheEnabled default should be false")
	}
	if cfg.Routing.CacheTTLSeconds != 3600 {
		t.Errorf("CacheTTLSeconds = %v, want 3600", cfg.Routing.CacheTTLSeconds)
	}
}

func TestLoadOverrides(t *testing.T) {
	os.Setenv("ROUTING_ORACLE_URL", "http://oracle.internal/route/v1/driving")
	os.Setenv("ROUTING_TIMEOUT_SECONDS", "5")
	os.Setenv("KAFKA_BROKERS", "broker-a:9092,broker-b:9092")
	os.Setenv("KAFKA_ENABLED", "true")
	os.Setenv("ROUTE_CACHE_ENABLED", "true")
	os.Setenv("ROUTE_CACHE_ADDRESS", "redis.internal:6379")
	defer func() {
		os.Unsetenv("ROUTING_ORACLE_URL")
		os.Unsetenv("ROUTING_TIMEOUT_SECONDS")
		os.Unsetenv("KAFKA_BROKERS")
		os.Unsetenv("KAFKA_ENABLED")
		os.Unsetenv("ROUTE_CACHE_ENABLED")
		os.Unsetenv("ROUTE_CACHE_ADDRESS")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected err = %v", err)
	}
	if cfg.Routing.OracleURL != "http://oracle.internal/route/v1/driving" {
		t.Errorf("OracleURL = %v, want override", cfg.Routing.OracleURL)
	}
	if cfg.Routing.TimeoutSeconds != 5 {
		t.Errorf("TimeoutSeconds = %v, want 5", cfg.Routing.TimeoutSeconds)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[0] != "broker-a:9092" {
		t.Errorf("Brokers = %v, want [broker-a:9092 broker-b:9092]", cfg.Kafka.Brokers)
	}
	if !cfg.Kafka.Enabled {
		t.Error("Kafka.Enabled should be true")
	}
	if !cfg.Routing.CacheEnabled {
		t.Error("Routing.CacheEnabled should be true")
	}
	if cfg.Routing.CacheAddress != "redis.internal:6379" {
		t.Errorf("CacheAddress = %v, want redis.internal:6379", cfg.Routing.CacheAddress)
	}
}

func TestGetEnvDurationFallback(t *testing.T) {
	os.Unsetenv("READ_TIMEOUT")
	if got := getEnvDuration("READ_TIMEOUT", 30*time.Second); got != 30*time.Second {
		t.Errorf("getEnvDuration() = %v, want 30s", got)
	}
}
