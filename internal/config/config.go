package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port         string `yaml:"port"`
		ReadTimeout  string `yaml:"read_timeout"`
		WriteTimeout string `yaml:"write_timeout"`
	} `yaml:"server"`
	Store struct {
		// Backend is one of memory, redis or postgres.
		Backend string `yaml:"backend"`
	} `yaml:"store"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	JWT struct {
		Signature string `yaml:"signature"`
		Expiry    string `yaml:"expiry"`
	} `yaml:"jwt"`
	Logger LoggerConfig `yaml:"logger"`
	CORS   struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
}

// LoggerConfig selects log level and output format.
type LoggerConfig struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
}

// Load reads YAML config from path and applies environment overrides.
// A missing file yields the defaults plus whatever the environment sets.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = defaultBackend(cfg)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	override := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	override(&cfg.Store.Backend, "STORE_BACKEND")
	override(&cfg.Redis.Addr, "REDIS_ADDR")
	override(&cfg.Redis.Password, "REDIS_PASSWORD")
	override(&cfg.Postgres.URL, "POSTGRES_URL")
	override(&cfg.JWT.Signature, "JWT_SIGNATURE")
	override(&cfg.Logger.Level, "LOG_LEVEL")
}

func defaultBackend(cfg Config) string {
	switch {
	case cfg.Postgres.URL != "":
		return "postgres"
	case cfg.Redis.Addr != "":
		return "redis"
	default:
		return "memory"
	}
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
