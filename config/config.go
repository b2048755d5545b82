package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Upload  UploadConfig
	Storage StorageConfig
	Cache   CacheConfig
	Admin   AdminSeedConfig
}

type AppConfig struct {
	Port          string
	Env           string
	LogLevel      string
	AutoMigrate   bool
	ShutdownGrace time.Duration
	CORSOrigins   []string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type UploadConfig struct {
	MaxBytes          int64
	AllowedExtensions []string
	// MaxImagesPerOwner caps the images one owner may hold. 0 disables the cap.
	MaxImagesPerOwner int
}

type StorageConfig struct {
	Driver        string
	LocalRoot     string
	PublicBaseURL string
	S3            S3Config
}

type S3Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	UseSSL        bool
	PublicBaseURL string
	PresignExpiry time.Duration
}

type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type AdminSeedConfig struct {
	Email    string
	Password string
	Name     string
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("AUTO_MIGRATE", true)
	viper.SetDefault("SHUTDOWN_GRACE", "10s")

	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")

	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("UPLOAD_MAX_BYTES", 5*1024*1024)
	viper.SetDefault("UPLOAD_ALLOWED_EXTENSIONS", "jpg,jpeg,png,webp,gif")
	viper.SetDefault("UPLOAD_MAX_IMAGES_PER_OWNER", 4)

	viper.SetDefault("STORAGE_DRIVER", "local")
	viper.SetDefault("STORAGE_LOCAL_ROOT", "media")
	viper.SetDefault("STORAGE_PUBLIC_BASE_URL", "/media")
	viper.SetDefault("S3_REGION", "us-east-1")
	viper.SetDefault("S3_PRESIGN_EXPIRY", "15m")

	viper.SetDefault("CACHE_ENABLED", true)
	viper.SetDefault("CACHE_TTL", "5m")

	viper.SetDefault("ADMIN_NAME", "Administrator")
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()
	setDefaults()

	// .env is optional; plain environment variables are enough in containers.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	config := &Config{
		App: AppConfig{
			Port:          viper.GetString("APP_PORT"),
			Env:           viper.GetString("APP_ENV"),
			LogLevel:      viper.GetString("LOG_LEVEL"),
			AutoMigrate:   viper.GetBool("AUTO_MIGRATE"),
			ShutdownGrace: durationOr("SHUTDOWN_GRACE", 10*time.Second),
			CORSOrigins:   splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
			TimeZone: viper.GetString("DB_TIMEZONE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  durationOr("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: durationOr("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Upload: UploadConfig{
			MaxBytes:          viper.GetInt64("UPLOAD_MAX_BYTES"),
			AllowedExtensions: splitList(viper.GetString("UPLOAD_ALLOWED_EXTENSIONS")),
			MaxImagesPerOwner: viper.GetInt("UPLOAD_MAX_IMAGES_PER_OWNER"),
		},
		Storage: StorageConfig{
			Driver:        viper.GetString("STORAGE_DRIVER"),
			LocalRoot:     viper.GetString("STORAGE_LOCAL_ROOT"),
			PublicBaseURL: viper.GetString("STORAGE_PUBLIC_BASE_URL"),
			S3: S3Config{
				Endpoint:      viper.GetString("S3_ENDPOINT"),
				AccessKey:     viper.GetString("S3_ACCESS_KEY"),
				SecretKey:     viper.GetString("S3_SECRET_KEY"),
				Bucket:        viper.GetString("S3_BUCKET"),
				Region:        viper.GetString("S3_REGION"),
				UseSSL:        viper.GetBool("S3_USE_SSL"),
				PublicBaseURL: viper.GetString("S3_PUBLIC_BASE_URL"),
				PresignExpiry: durationOr("S3_PRESIGN_EXPIRY", 15*time.Minute),
			},
		},
		Cache: CacheConfig{
			Enabled: viper.GetBool("CACHE_ENABLED"),
			TTL:     durationOr("CACHE_TTL", 5*time.Minute),
		},
		Admin: AdminSeedConfig{
			Email:    viper.GetString("ADMIN_EMAIL"),
			Password: viper.GetString("ADMIN_PASSWORD"),
			Name:     viper.GetString("ADMIN_NAME"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}

func durationOr(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(viper.GetString(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
