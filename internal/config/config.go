package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Cache    CacheConfig    `yaml:"cache"`
	JWT      JWTConfig      `yaml:"jwt"`
	Log      LogConfig      `yaml:"log"`
	Stream   StreamConfig   `yaml:"stream"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // postgres, mysql or sqlite
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
	Path     string `yaml:"path"` // sqlite file

	MaxIdleConns           int  `yaml:"max_idle_conns"`
	MaxOpenConns           int  `yaml:"max_open_conns"`
	ConnMaxLifetimeMinutes int  `yaml:"conn_max_lifetime_minutes"`
	ConnMaxIdleTimeMinutes int  `yaml:"conn_max_idle_time_minutes"`
	KeepaliveSeconds       int  `yaml:"keepalive_seconds"`
	AutoMigrate            bool `yaml:"auto_migrate"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// CacheConfig controls the optional redis result cache. A zero TTL disables it.
type CacheConfig struct {
	TTLSeconds int `yaml:"ttl_seconds"`
}

// JWTConfig holds the bearer-token secret. An empty secret leaves the API open.
type JWTConfig struct {
	Secret      string `yaml:"secret"`
	Issuer      string `yaml:"issuer"`
	ExpireHours int    `yaml:"expire_hours"`
}

type LogConfig struct {
	Dir string `yaml:"dir"`
}

type StreamConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
}

// Default returns a configuration suitable for a local sqlite ledger.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 4000, Mode: "debug"},
		Database: DatabaseConfig{
			Driver:                 "sqlite",
			Path:                   "ledger.db",
			MaxIdleConns:           10,
			MaxOpenConns:           100,
			ConnMaxLifetimeMinutes: 60,
			ConnMaxIdleTimeMinutes: 5,
			KeepaliveSeconds:       60,
		},
		JWT:    JWTConfig{Issuer: "strategy-ledger", ExpireHours: 24},
		Log:    LogConfig{Dir: "logs"},
		Stream: StreamConfig{IntervalSeconds: 5},
	}
}

// Load loads configuration from file and environment variables
func Load(path string) (*Config, error) {
	cfg := Default()

	// Load from YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// Override with environment variables if present
	cfg.loadFromEnv()

	return cfg, nil
}

// FromEnv returns the defaults with environment overrides applied, for tools
// that run without a config file
func FromEnv() *Config {
	cfg := Default()
	cfg.loadFromEnv()
	return cfg
}

func (c *Config) loadFromEnv() {
	// Server
	if v := os.Getenv("SERVER_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("SERVER_MODE"); v != "" {
		c.Server.Mode = v
	}

	// Database
	if v := os.Getenv("DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Database.Port = port
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database.DBName = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.Database.Path = v
	}

	// Redis
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Redis.Port = port
		}
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("CACHE_TTL_SECONDS"); v != "" {
		if ttl, err := strconv.Atoi(v); err == nil {
			c.Cache.TTLSeconds = ttl
		}
	}

	// JWT
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWT.Secret = v
	}

	if v := os.Getenv("LOG_DIR"); v != "" {
		c.Log.Dir = v
	}
	if v := os.Getenv("STREAM_INTERVAL_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Stream.IntervalSeconds = secs
		}
	}
}

// DSN returns the connection string for the configured driver
func (c *DatabaseConfig) DSN() string {
	switch c.Driver {
	case "mysql":
		return c.User + ":" + c.Password +
			"@tcp(" + c.Host + ":" + strconv.Itoa(c.Port) + ")/" + c.DBName +
			"?parseTime=true&loc=UTC"
	case "sqlite":
		return c.Path
	default:
		return "host=" + c.Host +
			" port=" + strconv.Itoa(c.Port) +
			" user=" + c.User +
			" password=" + c.Password +
			" dbname=" + c.DBName +
			" sslmode=" + c.SSLMode
	}
}

// Enabled reports whether the result cache should be used.
func (c CacheConfig) Enabled() bool {
	return c.TTLSeconds > 0
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

func (c StreamConfig) Interval() time.Duration {
	if c.IntervalSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.IntervalSeconds) * time.Second
}
