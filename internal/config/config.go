// Package config loads the gateway's runtime configuration from
// environment variables, following the teacher's getEnv(key, fallback)
// pattern generalized to ints, durations and maps.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/intelcon-group/gt06-gateway/internal/logging"
)

// Config is the fully resolved set of runtime knobs for the gateway.
type Config struct {
	LogLevel string

	GT06LocationProtocolNumber byte
	DefaultOutputProtocol      string
	OutputProtocolHosts        map[string]string

	DeviceStoreBackend string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	PostgresDSN        string

	MT02APIBaseURL   string
	MT02APIKey       string
	MT02PollInterval time.Duration

	AdminHTTPPort string
}

// Load reads the process environment into a Config, applying the
// defaults spec'd for each knob. A missing .env file is logged and
// ignored, matching the teacher's main.go behavior.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logging.New().Warn("no .env file loaded: %v", err)
	}

	protoNum, err := parseByte(getEnv("GT06_LOCATION_PACKET_PROTOCOL_NUMBER", "0xA0"))
	if err != nil {
		logging.New().Warn("invalid GT06_LOCATION_PACKET_PROTOCOL_NUMBER, defaulting to 0xA0: %v", err)
		protoNum = 0xA0
	}

	return &Config{
		LogLevel: getEnv("LOG_LEVEL", "info"),

		GT06LocationProtocolNumber: protoNum,
		DefaultOutputProtocol:      getEnv("DEFAULT_OUTPUT_PROTOCOL", "gt06"),
		OutputProtocolHosts:        parseHostMap(getEnv("OUTPUT_PROTOCOL_HOST_ADRESSES", "")),

		DeviceStoreBackend: getEnv("DEVICE_STORE_BACKEND", "redis"),
		RedisHost:          getEnv("REDIS_HOST", "localhost"),
		RedisPort:          getEnv("REDIS_PORT", "6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		PostgresDSN:        getEnv("POSTGRES_DSN", ""),

		MT02APIBaseURL:   getEnv("MT02_API_BASE_URL", ""),
		MT02APIKey:       getEnv("MT02_API_KEY", ""),
		MT02PollInterval: getEnvDuration("MT02_POLL_INTERVAL_SECONDS", 10*time.Second),

		AdminHTTPPort: getEnv("ADMIN_HTTP_PORT", "8090"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
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

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return time.Duration(n) * time.Second
}

func parseByte(v string) (byte, error) {
	v = strings.TrimPrefix(strings.TrimPrefix(v, "0x"), "0X")
	n, err := strconv.ParseUint(v, 16, 8)
	if err != nil {
		return 0, err
	}
	return byte(n), nil
}

// parseHostMap parses "proto=host:port,proto2=host2:port2" into a map,
// keeping the knob's original (deliberately misspelled) name.
func parseHostMap(raw string) map[string]string {
	out := map[string]string{}
	if raw == "" {
		return out
	}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			continue
		}
		out[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	return out
}
