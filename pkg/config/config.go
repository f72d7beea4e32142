package config

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Storage drivers understood by the object store factory.
const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

type Config struct {
	Env           string
	Name          string
	Port          int
	APIPrefix     string
	PublicBaseURL string
	Timezone      string

	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Storage  StorageConfig
	Media    MediaConfig
	Ebooks   EbooksConfig
	Admin    AdminConfig
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig toggles the Redis backed content cache.
type CacheConfig struct {
	Enabled    bool
	ContentTTL time.Duration
}

type JWTConfig struct {
	Secret            string
	RefreshSecret     string
	Expiration        time.Duration
	RefreshExpiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// StorageConfig selects and configures the object store backend.
type StorageConfig struct {
	Driver        string
	LocalDir      string
	SigningSecret string
	MediaBucket   string
	EbooksBucket  string
	SignedURLTTL  time.Duration
	S3            S3Config
}

// S3Config holds the settings for the S3 compatible backend.
type S3Config struct {
	Region         string
	Endpoint       string
	PublicBaseURL  string
	ForcePathStyle bool
}

// MediaConfig bounds media uploads and listings.
type MediaConfig struct {
	MaxFileSizeBytes int64
	ListLimit        int
}

// EbooksConfig controls e-book upload validation.
type EbooksConfig struct {
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
}

// AdminConfig covers provisioning and back-office routing.
type AdminConfig struct {
	SetupToken  string
	LoginPath   string
	PresetLimit int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("APP_ENV")
	cfg.Name = v.GetString("APP_NAME")
	cfg.Port = v.GetInt("API_PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.PublicBaseURL = strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/")
	cfg.Timezone = v.GetString("APP_TIMEZONE")

	cfg.Database = DatabaseConfig{
		Host:            v.GetString("DB_HOST"),
		Port:            v.GetInt("DB_PORT"),
		User:            v.GetString("DB_USER"),
		Password:        v.GetString("DB_PASSWORD"),
		Name:            v.GetString("DB_NAME"),
		SSLMode:         v.GetString("DB_SSL_MODE"),
		MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: parseDuration(v.GetString("DB_CONN_MAX_LIFETIME"), time.Hour),
		AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Cache = CacheConfig{
		Enabled:    v.GetBool("CACHE_ENABLED"),
		ContentTTL: parseDuration(v.GetString("CACHE_CONTENT_TTL"), 5*time.Minute),
	}

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		RefreshSecret:     v.GetString("JWT_REFRESH_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 15*time.Minute),
		RefreshExpiration: parseDuration(v.GetString("JWT_REFRESH_EXPIRATION"), 7*24*time.Hour),
	}
	if cfg.JWT.RefreshSecret == "" {
		cfg.JWT.RefreshSecret = cfg.JWT.Secret
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("CORS_ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Storage = StorageConfig{
		Driver:        strings.ToLower(v.GetString("STORAGE_DRIVER")),
		LocalDir:      v.GetString("STORAGE_LOCAL_DIR"),
		SigningSecret: v.GetString("STORAGE_SIGNING_SECRET"),
		MediaBucket:   v.GetString("STORAGE_MEDIA_BUCKET"),
		EbooksBucket:  v.GetString("STORAGE_EBOOKS_BUCKET"),
		SignedURLTTL:  parseDuration(v.GetString("STORAGE_SIGNED_URL_TTL"), 60*time.Second),
		S3: S3Config{
			Region:         v.GetString("S3_REGION"),
			Endpoint:       v.GetString("S3_ENDPOINT"),
			PublicBaseURL:  strings.TrimRight(v.GetString("S3_PUBLIC_BASE_URL"), "/"),
			ForcePathStyle: v.GetBool("S3_FORCE_PATH_STYLE"),
		},
	}

	cfg.Media = MediaConfig{
		MaxFileSizeBytes: positiveInt64(v.GetInt64("MEDIA_MAX_FILE_SIZE"), 50*1024*1024),
		ListLimit:        v.GetInt("MEDIA_LIST_LIMIT"),
	}

	cfg.Ebooks = EbooksConfig{
		MaxFileSizeBytes: positiveInt64(v.GetInt64("EBOOK_MAX_FILE_SIZE"), 100*1024*1024),
		AllowedMIMEs:     splitAndTrim(v.GetString("EBOOK_ALLOWED_MIME")),
	}

	cfg.Admin = AdminConfig{
		SetupToken:  v.GetString("ADMIN_SETUP_TOKEN"),
		LoginPath:   v.GetString("ADMIN_LOGIN_PATH"),
		PresetLimit: v.GetInt("ADMIN_PRESET_LIMIT"),
	}

	return cfg, nil
}

// Location resolves the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	if c == nil || c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("APP_NAME", "her-well-being")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	v.SetDefault("APP_TIMEZONE", "Asia/Dhaka")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "her_well_being")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 25)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("CACHE_CONTENT_TTL", "5m")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_REFRESH_SECRET", "")
	v.SetDefault("JWT_EXPIRATION", "15m")
	v.SetDefault("JWT_REFRESH_EXPIRATION", "168h")

	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("STORAGE_DRIVER", StorageDriverLocal)
	v.SetDefault("STORAGE_LOCAL_DIR", "./storage")
	v.SetDefault("STORAGE_SIGNING_SECRET", "dev_storage_secret")
	v.SetDefault("STORAGE_MEDIA_BUCKET", "media")
	v.SetDefault("STORAGE_EBOOKS_BUCKET", "ebooks")
	v.SetDefault("STORAGE_SIGNED_URL_TTL", "60s")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_PUBLIC_BASE_URL", "")
	v.SetDefault("S3_FORCE_PATH_STYLE", false)

	v.SetDefault("MEDIA_MAX_FILE_SIZE", 50*1024*1024)
	v.SetDefault("MEDIA_LIST_LIMIT", 200)

	v.SetDefault("EBOOK_MAX_FILE_SIZE", 100*1024*1024)
	v.SetDefault("EBOOK_ALLOWED_MIME", "application/pdf")

	v.SetDefault("ADMIN_SETUP_TOKEN", "")
	v.SetDefault("ADMIN_LOGIN_PATH", "/hd-admin-7f3c9a")
	v.SetDefault("ADMIN_PRESET_LIMIT", 20)
}

// parseDuration accepts Go duration strings or a bare number of seconds.
func parseDuration(raw string, fallback time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}

	if secs, err := strconv.Atoi(raw); err == nil {
		if secs <= 0 {
			return fallback
		}
		return time.Duration(secs) * time.Second
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}

	return d
}

func positiveInt64(value, fallback int64) int64 {
	if value <= 0 {
		return fallback
	}
	return value
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
