package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
	// TimeoutSeconds bounds connect/ping and per-operation deadlines.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	Issuer        string `mapstructure:"issuer"`
	ExpireMinutes int    `mapstructure:"expire_minutes"`
}

type SecurityConfig struct {
	BcryptCost    int    `mapstructure:"bcrypt_cost"`
	EncryptionKey string `mapstructure:"encryption_key"`
}

// FaceConfig points at the external face-recognition service that extracts
// embeddings. Threshold is the maximum cosine distance for a match.
type FaceConfig struct {
	BaseURL        string  `mapstructure:"base_url"`
	Model          string  `mapstructure:"model"`
	Threshold      float64 `mapstructure:"threshold"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

type CORSConfig struct {
	Origins []string `mapstructure:"origins"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Security SecurityConfig `mapstructure:"security"`
	Face     FaceConfig     `mapstructure:"face"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

var (
	appConfig *Config
	once      sync.Once
)

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in current working directory.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		v := viper.New()

		if path == "" {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
		} else {
			v.SetConfigFile(path)
		}

		// environment overrides, e.g. ATX_SERVER_PORT=9000
		v.SetEnvPrefix("ATX")
		v.AutomaticEnv()

		if err = v.ReadInConfig(); err != nil {
			err = fmt.Errorf("read config: %w", err)
			return
		}

		var c Config
		if err = v.Unmarshal(&c); err != nil {
			err = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		applyDefaults(&c)
		appConfig = &c
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

func applyDefaults(c *Config) {
	if c.Mongo.TimeoutSeconds <= 0 {
		c.Mongo.TimeoutSeconds = 10
	}
	if c.JWT.ExpireMinutes <= 0 {
		c.JWT.ExpireMinutes = 30
	}
	if c.Face.Model == "" {
		c.Face.Model = "Facenet512"
	}
	if c.Face.Threshold <= 0 {
		c.Face.Threshold = 0.55
	}
	if c.Face.TimeoutSeconds <= 0 {
		c.Face.TimeoutSeconds = 30
	}
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}

// Timeout returns the mongo operation timeout as a duration.
func (m MongoConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// TokenTTL returns the access token lifetime.
func (j JWTConfig) TokenTTL() time.Duration {
	return time.Duration(j.ExpireMinutes) * time.Minute
}

// Timeout returns the face service HTTP timeout as a duration.
func (f FaceConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}
