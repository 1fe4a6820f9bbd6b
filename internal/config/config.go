// Package config reads process configuration from the environment once at
// startup. Call godotenv before Load to pick up a local .env file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	jwtutil "github.com/eldieng/Fawsayni-Tech/internal/security/jwt"
	"github.com/eldieng/Fawsayni-Tech/internal/security/password"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"

	UploadDisk = "disk"
	UploadS3   = "s3"
)

type Config struct {
	Env    string
	HTTP   HTTPConfig
	Store  StoreConfig
	Auth   AuthConfig
	Upload UploadConfig
	Limits LimitsConfig
}

type HTTPConfig struct {
	Port        string
	CORSOrigins []string
	MaxBodySize int64
	TLSCertFile string
	TLSKeyFile  string
}

type StoreConfig struct {
	Driver      string
	DatabaseURL string
	MongoURI    string
	MongoDB     string
}

type AuthConfig struct {
	JWTSecret        string
	TokenTTL         time.Duration
	ClockSkew        time.Duration
	Argon2           password.Params
	EnforceOwner     bool
	DefaultOwnerID   string
	AllowAdminSignup bool
}

type UploadConfig struct {
	Backend string
	Dir     string
	S3      S3Config
}

type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

type LimitsConfig struct {
	RedisURL          string
	RequestsPerMinute int
	LoginMaxAttempts  int
	LoginWindow       time.Duration
}

// Load reads and validates the configuration. It fails on the first bad value.
func Load() (*Config, error) {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	cfg := &Config{
		Env: getEnv("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Port:        getEnv("PORT", "5000"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
			TLSCertFile: getEnv("TLS_CERT_FILE", ""),
			TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),
		},
		Store: StoreConfig{
			Driver:      strings.ToLower(getEnv("STORE_DRIVER", "")),
			DatabaseURL: getEnv("DATABASE_URL", ""),
			MongoURI:    getEnv("MONGO_URI", ""),
			MongoDB:     getEnv("MONGO_DB", "bibliotheque"),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("JWT_SECRET", ""),
			DefaultOwnerID: getEnv("DEFAULT_OWNER_ID", ""),
			Argon2:         password.DefaultParams(),
		},
		Upload: UploadConfig{
			Backend: strings.ToLower(getEnv("UPLOAD_BACKEND", UploadDisk)),
			Dir:     getEnv("UPLOAD_DIR", "uploads"),
			S3: S3Config{
				Endpoint:        getEnv("S3_ENDPOINT", ""),
				Region:          getEnv("S3_REGION", "auto"),
				Bucket:          getEnv("S3_BUCKET", ""),
				AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
				SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			},
		},
		Limits: LimitsConfig{
			RedisURL: getEnv("REDIS_URL", ""),
		},
	}

	var err error
	cfg.HTTP.MaxBodySize, err = getEnvInt64("MAX_BODY_SIZE", 6<<20)
	collect(err)
	cfg.Auth.TokenTTL, err = jwtutil.ParseTTL(getEnv("JWT_EXPIRES_IN", "24h"))
	if err != nil {
		collect(fmt.Errorf("JWT_EXPIRES_IN: %w", err))
	}
	cfg.Auth.ClockSkew, err = getEnvDuration("JWT_CLOCK_SKEW", 60*time.Second)
	collect(err)
	cfg.Auth.EnforceOwner, err = getEnvBool("BOOKS_ENFORCE_OWNERSHIP", true)
	collect(err)
	cfg.Auth.AllowAdminSignup, err = getEnvBool("AUTH_ALLOW_ADMIN_SIGNUP", false)
	collect(err)
	cfg.Auth.Argon2.Memory, err = getEnvMinUint32("ARGON2_MEMORY", cfg.Auth.Argon2.Memory, 19456)
	collect(err)
	cfg.Auth.Argon2.Iterations, err = getEnvMinUint32("ARGON2_ITER", cfg.Auth.Argon2.Iterations, 1)
	collect(err)
	par, err := getEnvMinUint32("ARGON2_PAR", uint32(cfg.Auth.Argon2.Parallelism), 1)
	collect(err)
	if par > 255 {
		collect(errors.New("ARGON2_PAR: must be <= 255"))
	}
	cfg.Auth.Argon2.Parallelism = uint8(par)
	cfg.Limits.RequestsPerMinute, err = getEnvInt("RATE_LIMIT_PER_MINUTE", 300)
	collect(err)
	cfg.Limits.LoginMaxAttempts, err = getEnvInt("LOGIN_MAX_ATTEMPTS", 10)
	collect(err)
	cfg.Limits.LoginWindow, err = getEnvDuration("LOGIN_WINDOW", 5*time.Minute)
	collect(err)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.Auth.JWTSecret) < jwtutil.MinSecretLen {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", jwtutil.MinSecretLen)
	}

	if c.Store.Driver == "" {
		switch {
		case c.Store.MongoURI != "":
			c.Store.Driver = DriverMongo
		case c.Store.DatabaseURL != "":
			c.Store.Driver = DriverPostgres
		default:
			return errors.New("no record store configured: set MONGO_URI, DATABASE_URL or STORE_DRIVER=memory")
		}
	}
	switch c.Store.Driver {
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("STORE_DRIVER=postgres requires DATABASE_URL")
		}
	case DriverMongo:
		if c.Store.MongoURI == "" {
			return errors.New("STORE_DRIVER=mongo requires MONGO_URI")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER: unknown driver %q", c.Store.Driver)
	}

	switch c.Upload.Backend {
	case UploadDisk:
		if c.Upload.Dir == "" {
			return errors.New("UPLOAD_DIR must not be empty")
		}
	case UploadS3:
		s := c.Upload.S3
		if s.Bucket == "" || s.AccessKeyID == "" || s.SecretAccessKey == "" {
			return errors.New("UPLOAD_BACKEND=s3 requires S3_BUCKET, S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY")
		}
		if s.Endpoint != "" {
			if _, err := url.ParseRequestURI(s.Endpoint); err != nil {
				return fmt.Errorf("S3_ENDPOINT: %w", err)
			}
		}
	default:
		return fmt.Errorf("UPLOAD_BACKEND: unknown backend %q", c.Upload.Backend)
	}

	if (c.HTTP.TLSCertFile == "") != (c.HTTP.TLSKeyFile == "") {
		return errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	if c.HTTP.MaxBodySize <= 0 {
		return errors.New("MAX_BODY_SIZE must be positive")
	}
	if c.Limits.RequestsPerMinute < 1 || c.Limits.LoginMaxAttempts < 1 {
		return errors.New("RATE_LIMIT_PER_MINUTE and LOGIN_MAX_ATTEMPTS must be >= 1")
	}
	return nil
}

// HardeningWarnings returns non-fatal warnings worth logging on startup.
func (c *Config) HardeningWarnings() []string {
	var warns []string
	if !c.Auth.EnforceOwner {
		warns = append(warns, "BOOKS_ENFORCE_OWNERSHIP=false: book mutations are open to anonymous callers")
		if c.Auth.DefaultOwnerID == "" {
			warns = append(warns, "DEFAULT_OWNER_ID not set; anonymous book creation will be rejected")
		}
	}
	if c.Auth.AllowAdminSignup {
		warns = append(warns, "AUTH_ALLOW_ADMIN_SIGNUP=true: anyone can sign up as admin")
	}
	if c.Auth.TokenTTL > 30*24*time.Hour {
		warns = append(warns, fmt.Sprintf("JWT_EXPIRES_IN=%s is > 30d; consider shorter tokens", c.Auth.TokenTTL))
	}
	if c.Limits.RedisURL == "" {
		warns = append(warns, "REDIS_URL not set; rate limiting disabled")
	}
	if strings.EqualFold(c.Env, "production") {
		if c.Store.Driver == DriverMemory {
			warns = append(warns, "STORE_DRIVER=memory in production; data is lost on restart")
		}
		if strings.HasPrefix(c.Limits.RedisURL, "redis://") {
			warns = append(warns, "REDIS_URL uses redis:// (no TLS). Prefer rediss:// for TLS")
		}
		for _, o := range c.HTTP.CORSOrigins {
			if o == "*" {
				warns = append(warns, "CORS_ORIGINS=* in production")
				break
			}
		}
	}
	return warns
}

// String returns a representation with secrets masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{env=%s port=%s store=%s upload=%s redis=%t ownership=%t jwt=*** (masked) ***}",
		c.Env, c.HTTP.Port, c.Store.Driver, c.Upload.Backend, c.Limits.RedisURL != "", c.Auth.EnforceOwner,
	)
}

// --- helpers ---

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return strings.TrimSpace(value)
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	return n, nil
}

func getEnvInt64(key string, defaultVal int64) (int64, error) {
	v := getEnv(key, "")
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	v := getEnv(key, "")
	if v == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid duration for %s: %q", key, v)
	}
	return d, nil
}

func getEnvMinUint32(key string, defaultVal, min uint32) (uint32, error) {
	v := getEnv(key, "")
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s: not a number: %v", key, err)
	}
	if uint32(n) < min {
		return 0, fmt.Errorf("%s: must be >= %d", key, min)
	}
	return uint32(n), nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
