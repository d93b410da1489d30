package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Auth     AuthConfig     `yaml:"auth"`
	Surge    SurgeConfig    `yaml:"surge"`
	Booking  BookingConfig  `yaml:"booking"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address        string   `yaml:"address"`
	SwaggerDir     string   `yaml:"swagger_dir"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Path  string `yaml:"path"`
	Debug bool   `yaml:"debug"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int32  `yaml:"max_conns"`
}

// DSN prefers an explicit URL over the discrete fields.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type AuthConfig struct {
	SessionCookie string `yaml:"session_cookie"`
	JWTSecret     string `yaml:"jwt_secret"`
	JWKSURL       string `yaml:"jwks_url"`
}

type SurgeConfig struct {
	// Backend is "postgres" or "redis".
	Backend       string  `yaml:"backend"`
	WindowSeconds int     `yaml:"window_seconds"`
	Threshold     int64   `yaml:"threshold"`
	Factor        float64 `yaml:"factor"`
}

func (s SurgeConfig) Window() time.Duration {
	return time.Duration(s.WindowSeconds) * time.Second
}

type BookingConfig struct {
	HistoryLimit    int `yaml:"history_limit"`
	SearchLimit     int `yaml:"search_limit"`
	FlightsCacheTTL int `yaml:"flights_cache_ttl_seconds"`
}

func (b BookingConfig) CacheTTL() time.Duration {
	return time.Duration(b.FlightsCacheTTL) * time.Second
}

type WorkerConfig struct {
	SurgeSweepSeconds int `yaml:"surge_sweep_seconds"`
}

func (w WorkerConfig) SweepInterval() time.Duration {
	return time.Duration(w.SurgeSweepSeconds) * time.Second
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("AUTH_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = 10
	}
	if c.Auth.SessionCookie == "" {
		c.Auth.SessionCookie = "better-auth.session_token"
	}
	if c.Surge.Backend == "" {
		c.Surge.Backend = "postgres"
	}
	if c.Surge.WindowSeconds == 0 {
		c.Surge.WindowSeconds = 300
	}
	if c.Surge.Threshold == 0 {
		c.Surge.Threshold = 3
	}
	if c.Surge.Factor == 0 {
		c.Surge.Factor = 1.1
	}
	if c.Booking.HistoryLimit == 0 {
		c.Booking.HistoryLimit = 10
	}
	if c.Booking.SearchLimit == 0 {
		c.Booking.SearchLimit = 10
	}
	if c.Booking.FlightsCacheTTL == 0 {
		c.Booking.FlightsCacheTTL = 60
	}
	if c.Kafka.BookingEventsTopic == "" {
		c.Kafka.BookingEventsTopic = "booking-events"
	}
	if c.Kafka.NotificationsTopic == "" {
		c.Kafka.NotificationsTopic = "booking-notifications"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "skyfare-notifier"
	}
	if c.Worker.SurgeSweepSeconds == 0 {
		c.Worker.SurgeSweepSeconds = 60
	}
}

func (c *Config) Validate() error {
	switch c.Surge.Backend {
	case "postgres", "redis":
	default:
		return fmt.Errorf("unknown surge backend %q", c.Surge.Backend)
	}
	if c.Surge.WindowSeconds < 0 || c.Surge.Threshold < 0 {
		return errors.New("surge window and threshold must be positive")
	}
	if c.Surge.Factor < 1 {
		return errors.New("surge factor must be at least 1")
	}
	if c.Worker.SurgeSweepSeconds < 0 {
		return errors.New("surge sweep interval must be positive")
	}
	if c.Booking.HistoryLimit < 0 || c.Booking.SearchLimit < 0 {
		return errors.New("limits must be positive")
	}
	return nil
}
