package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ProductionConfig holds all production configuration
type ProductionConfig struct {
	Database   DatabaseConfig   `json:"database"`
	Server     ServerConfig     `json:"server"`
	Security   SecurityConfig   `json:"security"`
	JWT        JWTConfig        `json:"jwt"`
	Email      EmailConfig      `json:"email"`
	Logging    LoggingConfig    `json:"logging"`
	Metrics    MetricsConfig    `json:"metrics"`
	Cache      CacheConfig      `json:"cache"`
	PayHere    PayHereConfig    `json:"payhere"`
	Admin      AdminConfig      `json:"admin"`
	Deployment DeploymentConfig `json:"deployment"`
}

type DatabaseConfig struct {
	// URL takes precedence over the discrete fields when set
	URL             string        `json:"url"`
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Name            string        `json:"name"`
	User            string        `json:"user"`
	Password        string        `json:"password"`
	SSLMode         string        `json:"ssl_mode"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time"`
	SlowQueryTime   time.Duration `json:"slow_query_time"`
	AutoMigrate     bool          `json:"auto_migrate"`
}

// DSN returns the connection string handed to the postgres driver
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type ServerConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	BodyLimit       int           `json:"body_limit"`
	EnableDocs      bool          `json:"enable_docs"`
}

// Address is the listen address for the HTTP server
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type SecurityConfig struct {
	AllowedOrigins  []string `json:"allowed_origins"`
	GlobalRateLimit int      `json:"global_rate_limit"` // requests per minute per IP
	AuthRateLimit   int      `json:"auth_rate_limit"`
	BcryptCost      int      `json:"bcrypt_cost"`
}

type JWTConfig struct {
	SecretKey      string        `json:"secret_key"`
	PrivateKey     string        `json:"private_key"`  // RSA private key in PEM format
	PublicKey      string        `json:"public_key"`   // RSA public key in PEM format
	UseRSAKeys     bool          `json:"use_rsa_keys"` // Whether to use RSA keys instead of secret key
	AccessTokenTTL time.Duration `json:"access_token_ttl"`
	Issuer         string        `json:"issuer"`
	Audience       string        `json:"audience"`
}

type EmailConfig struct {
	Provider  string `json:"provider"` // smtp, mock
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FromEmail string `json:"from_email"`
	FromName  string `json:"from_name"`
}

type LoggingConfig struct {
	Level            string `json:"level"`  // debug, info, warn, error
	Format           string `json:"format"` // json, console
	Output           string `json:"output"` // stdout, file, both
	FilePath         string `json:"file_path"`
	MaxSize          int    `json:"max_size"` // MB
	MaxBackups       int    `json:"max_backups"`
	MaxAge           int    `json:"max_age"` // days
	Compress         bool   `json:"compress"`
	EnableCaller     bool   `json:"enable_caller"`
	EnableStacktrace bool   `json:"enable_stacktrace"`
	EnableAccessLog  bool   `json:"enable_access_log"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type CacheConfig struct {
	Enabled       bool          `json:"enabled"`
	RedisURL      string        `json:"redis_url"`
	RedisDB       int           `json:"redis_db"`
	DashboardTTL  time.Duration `json:"dashboard_ttl"`
	EnrollmentTTL time.Duration `json:"enrollment_ttl"`
}

type PayHereConfig struct {
	MerchantID     string `json:"merchant_id"`
	MerchantSecret string `json:"merchant_secret"`
}

// Configured reports whether checkout hashes can be produced
func (c PayHereConfig) Configured() bool {
	return c.MerchantID != "" && c.MerchantSecret != ""
}

type AdminConfig struct {
	CaptchaEnabled bool          `json:"captcha_enabled"`
	CaptchaTTL     time.Duration `json:"captcha_ttl"`
	CaptchaPadding int           `json:"captcha_padding"` // accepted angle error in degrees
	TOTPIssuer     string        `json:"totp_issuer"`
}

type DeploymentConfig struct {
	Environment string `json:"environment"`
	Version     string `json:"version"`
	CommitHash  string `json:"commit_hash"`
	BuildTime   string `json:"build_time"`
}

// IsProduction reports whether APP_ENV is production
func (c DeploymentConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// legacyEnv lists alternative variable names still accepted for a key.
// The canonical name is always checked first.
var legacyEnv = map[string][]string{
	"JWT_SECRET_KEY":          {"JWT_SECRET"},
	"DB_URL":                  {"DATABASE_URL"},
	"EMAIL_USERNAME":          {"EMAIL_USER"},
	"EMAIL_PASSWORD":          {"EMAIL_PASS"},
	"PAYHERE_MERCHANT_SECRET": {"PAYHERE_SECRET"},
	"SERVER_PORT":             {"PORT"},
}

func setDefaults(v *viper.Viper) {
	defaults := map[string]any{
		"DB_URL":                "",
		"DB_HOST":               "localhost",
		"DB_PORT":               5432,
		"DB_NAME":               "efine",
		"DB_USER":               "postgres",
		"DB_PASSWORD":           "",
		"DB_SSL_MODE":           "disable",
		"DB_MAX_OPEN_CONNS":     50,
		"DB_MAX_IDLE_CONNS":     10,
		"DB_CONN_MAX_LIFETIME":  30 * time.Minute,
		"DB_CONN_MAX_IDLE_TIME": 15 * time.Minute,
		"DB_SLOW_QUERY_TIME":    time.Second,
		"DB_AUTO_MIGRATE":       true,

		"SERVER_HOST":             "0.0.0.0",
		"SERVER_PORT":             5000,
		"SERVER_READ_TIMEOUT":     30 * time.Second,
		"SERVER_WRITE_TIMEOUT":    30 * time.Second,
		"SERVER_IDLE_TIMEOUT":     120 * time.Second,
		"SERVER_SHUTDOWN_TIMEOUT": 30 * time.Second,
		"SERVER_BODY_LIMIT":       4 * 1024 * 1024,
		"SERVER_ENABLE_DOCS":      true,

		"CORS_ALLOWED_ORIGINS": "*",
		"GLOBAL_RATE_LIMIT":    600,
		"AUTH_RATE_LIMIT":      20,
		"SECURITY_BCRYPT_COST": 10,

		"JWT_SECRET_KEY":       "",
		"JWT_PRIVATE_KEY":      "",
		"JWT_PUBLIC_KEY":       "",
		"JWT_USE_RSA_KEYS":     false,
		"JWT_ACCESS_TOKEN_TTL": 24 * time.Hour,
		"JWT_ISSUER":           "efine-api",
		"JWT_AUDIENCE":         "efine-admin",

		"EMAIL_PROVIDER":   "smtp",
		"EMAIL_HOST":       "smtp.gmail.com",
		"EMAIL_PORT":       587,
		"EMAIL_USERNAME":   "",
		"EMAIL_PASSWORD":   "",
		"EMAIL_FROM_EMAIL": "",
		"EMAIL_FROM_NAME":  "e-Fine SL",

		"LOG_LEVEL":             "info",
		"LOG_FORMAT":            "json",
		"LOG_OUTPUT":            "stdout",
		"LOG_FILE_PATH":         "/var/log/efine/app.log",
		"LOG_MAX_SIZE":          100,
		"LOG_MAX_BACKUPS":       10,
		"LOG_MAX_AGE":           30,
		"LOG_COMPRESS":          true,
		"LOG_ENABLE_CALLER":     true,
		"LOG_ENABLE_STACKTRACE": false,
		"LOG_ENABLE_ACCESS":     true,

		"METRICS_ENABLED": true,
		"METRICS_PATH":    "/metrics",

		"CACHE_ENABLED":        false,
		"CACHE_REDIS_URL":      "redis://localhost:6379",
		"CACHE_REDIS_DB":       0,
		"CACHE_DASHBOARD_TTL":  30 * time.Second,
		"CACHE_ENROLLMENT_TTL": 10 * time.Minute,

		"PAYHERE_MERCHANT_ID":     "",
		"PAYHERE_MERCHANT_SECRET": "",

		"ADMIN_CAPTCHA_ENABLED": false,
		"ADMIN_CAPTCHA_TTL":     2 * time.Minute,
		"ADMIN_CAPTCHA_PADDING": 8,
		"ADMIN_TOTP_ISSUER":     "e-Fine Admin",

		"APP_ENV":     "development",
		"VERSION":     "1.0.0",
		"COMMIT_HASH": "unknown",
		"BUILD_TIME":  "unknown",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
		_ = v.BindEnv(append([]string{key, key}, legacyEnv[key]...)...)
	}
}

// newViper builds the lookup chain: environment, then the optional file, then defaults.
// configFile falls back to EFINE_CONFIG, then to ./.env when present.
func newViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile == "" {
		configFile = os.Getenv("EFINE_CONFIG")
	}
	explicit := configFile != ""
	if !explicit {
		configFile = ".env"
	}
	if _, err := os.Stat(configFile); err != nil {
		if explicit {
			return nil, fmt.Errorf("config file %s: %w", configFile, err)
		}
		return v, nil
	}

	v.SetConfigFile(configFile)
	if !strings.HasSuffix(configFile, ".yaml") && !strings.HasSuffix(configFile, ".yml") && !strings.HasSuffix(configFile, ".json") {
		v.SetConfigType("env")
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}
	return v, nil
}

// LoadProductionConfig loads and validates configuration. configFile may be empty.
func LoadProductionConfig(configFile string) (*ProductionConfig, error) {
	v, err := newViper(configFile)
	if err != nil {
		return nil, err
	}

	cfg := fromViper(v)
	if err := ValidateProductionConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *ProductionConfig {
	return &ProductionConfig{
		Database: DatabaseConfig{
			URL:             v.GetString("DB_URL"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			Name:            v.GetString("DB_NAME"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			SSLMode:         v.GetString("DB_SSL_MODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: v.GetDuration("DB_CONN_MAX_IDLE_TIME"),
			SlowQueryTime:   v.GetDuration("DB_SLOW_QUERY_TIME"),
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
		},
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetInt("SERVER_PORT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			BodyLimit:       v.GetInt("SERVER_BODY_LIMIT"),
			EnableDocs:      v.GetBool("SERVER_ENABLE_DOCS"),
		},
		Security: SecurityConfig{
			AllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			GlobalRateLimit: v.GetInt("GLOBAL_RATE_LIMIT"),
			AuthRateLimit:   v.GetInt("AUTH_RATE_LIMIT"),
			BcryptCost:      v.GetInt("SECURITY_BCRYPT_COST"),
		},
		JWT: JWTConfig{
			SecretKey:      v.GetString("JWT_SECRET_KEY"),
			PrivateKey:     v.GetString("JWT_PRIVATE_KEY"),
			PublicKey:      v.GetString("JWT_PUBLIC_KEY"),
			UseRSAKeys:     v.GetBool("JWT_USE_RSA_KEYS"),
			AccessTokenTTL: v.GetDuration("JWT_ACCESS_TOKEN_TTL"),
			Issuer:         v.GetString("JWT_ISSUER"),
			Audience:       v.GetString("JWT_AUDIENCE"),
		},
		Email: EmailConfig{
			Provider:  strings.ToLower(v.GetString("EMAIL_PROVIDER")),
			Host:      v.GetString("EMAIL_HOST"),
			Port:      v.GetInt("EMAIL_PORT"),
			Username:  v.GetString("EMAIL_USERNAME"),
			Password:  v.GetString("EMAIL_PASSWORD"),
			FromEmail: firstNonEmpty(v.GetString("EMAIL_FROM_EMAIL"), v.GetString("EMAIL_USERNAME")),
			FromName:  v.GetString("EMAIL_FROM_NAME"),
		},
		Logging: LoggingConfig{
			Level:            strings.ToLower(v.GetString("LOG_LEVEL")),
			Format:           strings.ToLower(v.GetString("LOG_FORMAT")),
			Output:           strings.ToLower(v.GetString("LOG_OUTPUT")),
			FilePath:         v.GetString("LOG_FILE_PATH"),
			MaxSize:          v.GetInt("LOG_MAX_SIZE"),
			MaxBackups:       v.GetInt("LOG_MAX_BACKUPS"),
			MaxAge:           v.GetInt("LOG_MAX_AGE"),
			Compress:         v.GetBool("LOG_COMPRESS"),
			EnableCaller:     v.GetBool("LOG_ENABLE_CALLER"),
			EnableStacktrace: v.GetBool("LOG_ENABLE_STACKTRACE"),
			EnableAccessLog:  v.GetBool("LOG_ENABLE_ACCESS"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
			Path:    v.GetString("METRICS_PATH"),
		},
		Cache: CacheConfig{
			Enabled:       v.GetBool("CACHE_ENABLED"),
			RedisURL:      v.GetString("CACHE_REDIS_URL"),
			RedisDB:       v.GetInt("CACHE_REDIS_DB"),
			DashboardTTL:  v.GetDuration("CACHE_DASHBOARD_TTL"),
			EnrollmentTTL: v.GetDuration("CACHE_ENROLLMENT_TTL"),
		},
		PayHere: PayHereConfig{
			MerchantID:     v.GetString("PAYHERE_MERCHANT_ID"),
			MerchantSecret: v.GetString("PAYHERE_MERCHANT_SECRET"),
		},
		Admin: AdminConfig{
			CaptchaEnabled: v.GetBool("ADMIN_CAPTCHA_ENABLED"),
			CaptchaTTL:     v.GetDuration("ADMIN_CAPTCHA_TTL"),
			CaptchaPadding: v.GetInt("ADMIN_CAPTCHA_PADDING"),
			TOTPIssuer:     v.GetString("ADMIN_TOTP_ISSUER"),
		},
		Deployment: DeploymentConfig{
			Environment: v.GetString("APP_ENV"),
			Version:     v.GetString("VERSION"),
			CommitHash:  v.GetString("COMMIT_HASH"),
			BuildTime:   v.GetString("BUILD_TIME"),
		},
	}
}

func splitList(value string) []string {
	var result []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ValidateProductionConfig validates the production configuration
func ValidateProductionConfig(cfg *ProductionConfig) error {
	var errors []string

	// Validate database configuration
	if cfg.Database.URL != "" {
		if _, err := url.Parse(cfg.Database.URL); err != nil {
			errors = append(errors, "DB_URL must be a valid connection URL")
		}
	} else {
		if cfg.Database.Host == "" {
			errors = append(errors, "DB_HOST is required")
		}
		if cfg.Database.Port <= 0 || cfg.Database.Port > 65535 {
			errors = append(errors, "DB_PORT must be between 1 and 65535")
		}
		if cfg.Database.Name == "" {
			errors = append(errors, "DB_NAME is required")
		}
		if cfg.Database.User == "" {
			errors = append(errors, "DB_USER is required")
		}
	}

	// Validate JWT configuration
	if cfg.JWT.UseRSAKeys {
		if cfg.JWT.PrivateKey == "" || cfg.JWT.PublicKey == "" {
			errors = append(errors, "JWT_PRIVATE_KEY and JWT_PUBLIC_KEY are required when JWT_USE_RSA_KEYS is set")
		}
	} else {
		if cfg.JWT.SecretKey == "" {
			errors = append(errors, "JWT_SECRET_KEY is required")
		} else if cfg.Deployment.IsProduction() && len(cfg.JWT.SecretKey) < 32 {
			errors = append(errors, "JWT_SECRET_KEY must be at least 32 characters long in production")
		}
	}
	if cfg.JWT.AccessTokenTTL <= 0 {
		errors = append(errors, "JWT_ACCESS_TOKEN_TTL must be positive")
	}

	// Validate server configuration
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errors = append(errors, "SERVER_PORT must be between 1 and 65535")
	}
	if cfg.Server.ReadTimeout <= 0 {
		errors = append(errors, "SERVER_READ_TIMEOUT must be positive")
	}
	if cfg.Server.WriteTimeout <= 0 {
		errors = append(errors, "SERVER_WRITE_TIMEOUT must be positive")
	}

	// Validate security configuration
	if cfg.Security.BcryptCost < 4 || cfg.Security.BcryptCost > 14 {
		errors = append(errors, "SECURITY_BCRYPT_COST must be between 4 and 14")
	}
	if cfg.Security.GlobalRateLimit < 0 || cfg.Security.AuthRateLimit < 0 {
		errors = append(errors, "rate limits must not be negative")
	}

	// Validate email configuration
	switch cfg.Email.Provider {
	case "mock":
	case "smtp":
		if cfg.Email.Host == "" {
			errors = append(errors, "EMAIL_HOST is required for the smtp provider")
		}
		if cfg.Email.Port <= 0 || cfg.Email.Port > 65535 {
			errors = append(errors, "EMAIL_PORT must be between 1 and 65535")
		}
	default:
		errors = append(errors, "EMAIL_PROVIDER must be one of: [smtp mock]")
	}

	// Validate logging configuration
	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, cfg.Logging.Level) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %v", validLevels))
	}
	validOutputs := []string{"stdout", "file", "both"}
	if !slices.Contains(validOutputs, cfg.Logging.Output) {
		errors = append(errors, fmt.Sprintf("LOG_OUTPUT must be one of: %v", validOutputs))
	}
	if cfg.Logging.Output != "stdout" && cfg.Logging.FilePath == "" {
		errors = append(errors, "LOG_FILE_PATH is required when logging to a file")
	}

	// Validate cache configuration if enabled
	if cfg.Cache.Enabled && cfg.Cache.RedisURL == "" {
		errors = append(errors, "CACHE_REDIS_URL is required when cache is enabled")
	}
	if cfg.Cache.DashboardTTL < 0 {
		errors = append(errors, "CACHE_DASHBOARD_TTL must not be negative")
	}

	if cfg.Admin.CaptchaEnabled && cfg.Admin.CaptchaPadding <= 0 {
		errors = append(errors, "ADMIN_CAPTCHA_PADDING must be positive when captcha is enabled")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}
