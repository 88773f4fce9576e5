package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

// DSN builds a pgx connection string from the individual settings. The
// datastore is addressed by host/user/password/name rather than a single URL
// because those are the names the deployment environment provides.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", c.User, c.Password, c.Host, c.Port, c.Database)
}

type StorageConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Region     string
	Bucket     string
	CFDomain   string
	UseSSL     bool
	PresignTTL time.Duration
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Storage          StorageConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("UPLOADCAT")
	v.AutomaticEnv()

	bindEnvironment(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// bindEnvironment maps the externally contracted variable names onto config
// keys. These names are the integration surface shared with the deployment
// environment and must not change.
func bindEnvironment(v *viper.Viper) {
	_ = v.BindEnv("storage.region", "AWS_REGION")
	_ = v.BindEnv("storage.bucket", "S3_BUCKET")
	_ = v.BindEnv("storage.cfdomain", "CF_DOMAIN")
	_ = v.BindEnv("postgres.host", "DB_HOST")
	_ = v.BindEnv("postgres.user", "DB_USER")
	_ = v.BindEnv("postgres.password", "DB_PASS")
	_ = v.BindEnv("postgres.database", "DB_NAME")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.host", "127.0.0.1")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.database", "")
	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("storage.endpoint", "s3.amazonaws.com")
	v.SetDefault("storage.region", "")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.cfdomain", "")
	v.SetDefault("storage.usessl", true)
	v.SetDefault("storage.presignttl", "1m")
}
