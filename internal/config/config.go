package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvDevelopment relaxes secret requirements and enables demo seeding.
const EnvDevelopment = "development"

type AppConfig struct {
	Env string `toml:"env"`
}

type LogConfig struct {
	Level     string `toml:"level"`
	Format    string `toml:"format"`
	Component string `toml:"component"`
	Source    bool   `toml:"source"`
}

type DBConfig struct {
	Driver   string `toml:"driver"`
	DSN      string `toml:"dsn"`
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Name     string `toml:"name"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type HTTPConfig struct {
	Host          string `toml:"host"`
	Port          string `toml:"port"`
	CORSOrigin    string `toml:"cors_origin"`
	SecureCookies bool   `toml:"secure_cookies"`
}

type GRPCConfig struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
}

// AuthConfig is handed to the token codecs and the session lifecycle manager
// at construction; nothing reads secrets from the environment after startup.
type AuthConfig struct {
	AccessSecret  string        `toml:"access_secret"`
	AccessTTL     time.Duration `toml:"access_ttl"`
	RefreshSecret string        `toml:"refresh_secret"`
	RefreshTTL    time.Duration `toml:"refresh_ttl"`
	BcryptCost    int           `toml:"bcrypt_cost"`
}

type RateLimitConfig struct {
	GlobalRPS   float64       `toml:"global_rps"`
	GlobalBurst int           `toml:"global_burst"`
	LoginLimit  int           `toml:"login_limit"`
	LoginWindow time.Duration `toml:"login_window"`
}

type UploadConfig struct {
	Dir      string `toml:"dir"`
	BaseURL  string `toml:"base_url"`
	MaxBytes int64  `toml:"max_bytes"`
}

type Config struct {
	App       AppConfig       `toml:"app"`
	Log       LogConfig       `toml:"log"`
	DB        DBConfig        `toml:"db"`
	Redis     RedisConfig     `toml:"redis"`
	HTTP      HTTPConfig      `toml:"http"`
	GRPC      GRPCConfig      `toml:"grpc"`
	Auth      AuthConfig      `toml:"auth"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Upload    UploadConfig    `toml:"upload"`
}

// New builds the configuration from defaults, an optional TOML file named by
// CONFIG_FILE, and environment variables, in increasing precedence.
func New() *Config {
	cfg, err := Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load is New with an explicit file path; an empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path = strings.TrimSpace(path); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	cfg := &Config{}

	cfg.App.Env = "production"

	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Log.Component = "api"

	cfg.DB.Driver = "mysql"
	cfg.DB.Host = "localhost"
	cfg.DB.Port = "3306"
	cfg.DB.User = "root"
	cfg.DB.Password = "root"
	cfg.DB.Name = "vidtube"

	cfg.Redis.Addr = "localhost:6379"

	cfg.HTTP.Host = "0.0.0.0"
	cfg.HTTP.Port = "8000"
	cfg.HTTP.SecureCookies = true

	cfg.GRPC.Host = "127.0.0.1"
	cfg.GRPC.Port = "50051"

	cfg.Auth.AccessTTL = 15 * time.Minute
	cfg.Auth.RefreshTTL = 10 * 24 * time.Hour
	cfg.Auth.BcryptCost = 10

	cfg.RateLimit.GlobalRPS = 50
	cfg.RateLimit.GlobalBurst = 100
	cfg.RateLimit.LoginLimit = 10
	cfg.RateLimit.LoginWindow = time.Minute

	cfg.Upload.Dir = "public/uploads"
	cfg.Upload.BaseURL = "/uploads"
	cfg.Upload.MaxBytes = 512 << 20

	return cfg
}

func applyEnv(cfg *Config) {
	// App
	cfg.App.Env = getEnvDefault("APP_ENV", cfg.App.Env)

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", cfg.Log.Format)
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", cfg.Log.Component)
	if v, ok := os.LookupEnv("LOG_SOURCE"); ok {
		cfg.Log.Source = isTruthy(v)
	}

	// Database
	cfg.DB.Driver = strings.ToLower(getEnvDefault("DB_DRIVER", cfg.DB.Driver))
	cfg.DB.DSN = getEnvDefault("DB_DSN", cfg.DB.DSN)
	cfg.DB.Host = getEnvDefault("DB_HOST", cfg.DB.Host)
	cfg.DB.Port = getEnvDefault("DB_PORT", cfg.DB.Port)
	cfg.DB.User = getEnvDefault("DB_USER", cfg.DB.User)
	cfg.DB.Password = getEnvDefault("DB_PASSWORD", cfg.DB.Password)
	cfg.DB.Name = getEnvDefault("DB_NAME", cfg.DB.Name)

	// Redis
	// an explicitly empty REDIS_ADDR runs without Redis
	if v, ok := os.LookupEnv("REDIS_ADDR"); ok {
		cfg.Redis.Addr = strings.TrimSpace(v)
	}
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvInt("REDIS_DB", cfg.Redis.DB)

	// HTTP
	cfg.HTTP.Host = getEnvDefault("HTTP_HOST", cfg.HTTP.Host)
	cfg.HTTP.Port = getEnvDefault("HTTP_PORT", cfg.HTTP.Port)
	cfg.HTTP.CORSOrigin = getEnvDefault("CORS_ORIGIN", cfg.HTTP.CORSOrigin)
	if v, ok := os.LookupEnv("SECURE_COOKIES"); ok {
		cfg.HTTP.SecureCookies = isTruthy(v)
	}

	// gRPC
	cfg.GRPC.Host = getEnvDefault("GRPC_HOST", cfg.GRPC.Host)
	cfg.GRPC.Port = getEnvDefault("GRPC_PORT", cfg.GRPC.Port)

	// Auth
	cfg.Auth.AccessSecret = getEnvDefault("ACCESS_TOKEN_SECRET", cfg.Auth.AccessSecret)
	cfg.Auth.AccessTTL = getEnvDuration("ACCESS_TOKEN_EXPIRY", cfg.Auth.AccessTTL)
	cfg.Auth.RefreshSecret = getEnvDefault("REFRESH_TOKEN_SECRET", cfg.Auth.RefreshSecret)
	cfg.Auth.RefreshTTL = getEnvDuration("REFRESH_TOKEN_EXPIRY", cfg.Auth.RefreshTTL)
	cfg.Auth.BcryptCost = getEnvInt("BCRYPT_COST", cfg.Auth.BcryptCost)

	// Rate limiting
	if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_GLOBAL_RPS")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimit.GlobalRPS = f
		}
	}
	cfg.RateLimit.GlobalBurst = getEnvInt("RATE_LIMIT_GLOBAL_BURST", cfg.RateLimit.GlobalBurst)
	cfg.RateLimit.LoginLimit = getEnvInt("RATE_LIMIT_LOGIN_LIMIT", cfg.RateLimit.LoginLimit)
	cfg.RateLimit.LoginWindow = getEnvDuration("RATE_LIMIT_LOGIN_WINDOW", cfg.RateLimit.LoginWindow)

	// Uploads
	cfg.Upload.Dir = getEnvDefault("UPLOAD_DIR", cfg.Upload.Dir)
	cfg.Upload.BaseURL = getEnvDefault("UPLOAD_BASE_URL", cfg.Upload.BaseURL)
	if v := strings.TrimSpace(os.Getenv("UPLOAD_MAX_BYTES")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Upload.MaxBytes = n
		}
	}
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.App.Env, EnvDevelopment)
}

// Development-only signing secrets; Validate refuses them elsewhere.
const (
	devAccessSecret  = "vidtube-dev-access-secret"
	devRefreshSecret = "vidtube-dev-refresh-secret"
)

// Validate checks the settings the server cannot run without. In development
// missing token secrets are replaced with fixed local values.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.AccessSecret == "" || c.Auth.RefreshSecret == "" {
		if c.IsDevelopment() {
			if c.Auth.AccessSecret == "" {
				c.Auth.AccessSecret = devAccessSecret
			}
			if c.Auth.RefreshSecret == "" {
				c.Auth.RefreshSecret = devRefreshSecret
			}
		} else {
			errs = append(errs, errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET are required"))
		}
	}
	if c.Auth.AccessSecret != "" && c.Auth.AccessSecret == c.Auth.RefreshSecret {
		errs = append(errs, errors.New("access and refresh token secrets must differ"))
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= 0 {
		errs = append(errs, errors.New("token expiries must be positive"))
	} else if c.Auth.AccessTTL >= c.Auth.RefreshTTL {
		errs = append(errs, errors.New("access token expiry must be shorter than refresh token expiry"))
	}
	switch c.DB.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver))
	}
	return errors.Join(errs...)
}

// DatabaseDSN returns the explicit DSN or one assembled for the driver.
func (c *Config) DatabaseDSN() string {
	if c.DB.DSN != "" {
		return c.DB.DSN
	}
	switch c.DB.Driver {
	case "postgres":
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name,
		)
	case "sqlite":
		return c.DB.Name + ".db"
	default:
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name,
		)
	}
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(k string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
