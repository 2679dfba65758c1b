package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var replacer = strings.NewReplacer(".", "_")

// Config holds the configuration for the gateway.
type Config struct {
	DB struct {
		Host           string        `mapstructure:"host"`
		Port           int           `mapstructure:"port"`
		User           string        `mapstructure:"user"`
		Password       string        `mapstructure:"password"`
		Name           string        `mapstructure:"name"`
		SSLMode        string        `mapstructure:"sslmode"`
		MaxConns       int32         `mapstructure:"max_conns"`
		AcquireTimeout time.Duration `mapstructure:"acquire_timeout"`
	} `mapstructure:"db"`
	Storage struct {
		Engine    string `mapstructure:"engine"`
		Endpoint  string `mapstructure:"endpoint"`
		Bucket    string `mapstructure:"bucket"`
		AccessKey string `mapstructure:"access_key"`
		SecretKey string `mapstructure:"secret_key"`
	} `mapstructure:"storage"`
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`
	Health struct {
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"health"`
}

// LoadConfig loads the configuration from a file and the environment.
// An empty path falls back to the usual config.yaml search locations; a
// missing file is not an error since every key has a default or an
// environment override (DATASETS_DB_HOST, DATASETS_STORAGE_ENGINE, ...).
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvPrefix("datasets")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(replacer)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Defaults registered here also make every key visible to AutomaticEnv.
func setDefaults(v *viper.Viper) {
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "datasets")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "datasets")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_conns", 3)
	v.SetDefault("db.acquire_timeout", time.Second)
	v.SetDefault("storage.engine", "s3")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.bucket", "datasets")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("health.timeout", 5*time.Second)
}
