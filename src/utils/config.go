package utils

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type (
	Config struct {
		ListenAddr        string   `toml:"listen_addr"`
		DatabaseUrl       string   `toml:"database_url"`
		RedisUrl          string   `toml:"redis_url"`
		CorsOrigins       []string `toml:"cors_origins"`
		DisableRateLimits bool     `toml:"disable_rate_limits"`
		// postgres or memory
		Store   string `toml:"store"`
		JWT     JWTConfig
		Limits  LimitsConfig
		Storage StorageConfig
	}

	JWTConfig struct {
		KeysDir           string        `toml:"keys_dir"`
		AccessExpiration  time.Duration `toml:"access_exp"`
		RefreshExpiration time.Duration `toml:"refresh_exp"`
	}

	LimitsConfig struct {
		ImageSizeLimit    int64 `toml:"image_size_limit"`
		ImageMaxSide      int   `toml:"image_max_side"`
		RequestsPerMinute int64 `toml:"requests_per_minute"`
	}

	StorageConfig struct {
		// local or s3
		Driver        string `toml:"driver"`
		LocalDir      string `toml:"local_dir"`
		PublicBaseUrl string `toml:"public_base_url"`
		S3            S3Config
	}

	S3Config struct {
		Endpoint        string `toml:"endpoint"`
		Region          string `toml:"region"`
		Bucket          string `toml:"bucket"`
		AccessKeyId     string `toml:"access_key_id"`
		SecretAccessKey string `toml:"secret_access_key"`
	}
)

// DefaultConfig is what an empty config file decodes into.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr: ":3000",
		Store:      "postgres",
		JWT: JWTConfig{
			KeysDir:           "keys",
			AccessExpiration:  15 * time.Minute,
			RefreshExpiration: 7 * 24 * time.Hour,
		},
		Limits: LimitsConfig{
			ImageSizeLimit:    5 << 20,
			ImageMaxSide:      1200,
			RequestsPerMinute: 300,
		},
		Storage: StorageConfig{
			Driver:        "local",
			LocalDir:      "public",
			PublicBaseUrl: "/public",
		},
	}
}

// LoadConfig decodes the TOML file on top of the defaults, then lets the
// environment (and an optional .env file) override the secrets.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", configPath, err)
	}

	// a missing .env is fine, variables may come from the real environment
	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) applyEnv() {
	override := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	override(&cfg.DatabaseUrl, "DATABASE_URL")
	override(&cfg.RedisUrl, "REDIS_URL")
	override(&cfg.Storage.S3.AccessKeyId, "S3_ACCESS_KEY_ID")
	override(&cfg.Storage.S3.SecretAccessKey, "S3_SECRET_ACCESS_KEY")
}

func (cfg *Config) Validate() error {
	switch cfg.Store {
	case "postgres":
		if cfg.DatabaseUrl == "" {
			return fmt.Errorf("database_url is required when store = \"postgres\"")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown store %q (expected postgres or memory)", cfg.Store)
	}

	switch cfg.Storage.Driver {
	case "local":
		if cfg.Storage.LocalDir == "" {
			return fmt.Errorf("storage.local_dir is required for the local driver")
		}
		if !strings.HasPrefix(cfg.Storage.PublicBaseUrl, "/") {
			return fmt.Errorf("storage.public_base_url must be a path like /public for the local driver")
		}
	case "s3":
		s3 := cfg.Storage.S3
		if s3.Bucket == "" || s3.Region == "" {
			return fmt.Errorf("storage.s3 bucket and region are required for the s3 driver")
		}
		if s3.AccessKeyId == "" || s3.SecretAccessKey == "" {
			return fmt.Errorf("s3 credentials are missing (set S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY)")
		}
	default:
		return fmt.Errorf("unknown storage driver %q (expected local or s3)", cfg.Storage.Driver)
	}

	if cfg.Limits.ImageSizeLimit <= 0 || cfg.Limits.ImageMaxSide <= 0 {
		return fmt.Errorf("limits.image_size_limit and limits.image_max_side must be positive")
	}

	return nil
}

func InitConfig(configPath string) *Config {
	logger := zap.L()
	logger.Info("Reading config file...", zap.String("path", configPath))

	cfg, err := LoadConfig(configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Config variables successfully loaded",
		zap.String("store", cfg.Store),
		zap.String("storage", cfg.Storage.Driver),
	)
	return cfg
}
