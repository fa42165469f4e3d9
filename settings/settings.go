// Package settings loads server settings from an optional config.yaml and
// MONOPOLY_* environment variables.
package settings

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "MONOPOLY"

type Settings struct {
	Server  ServerSettings  `mapstructure:"server"`
	Game    GameSettings    `mapstructure:"game"`
	Storage StorageSettings `mapstructure:"storage"`
	Log     LogSettings     `mapstructure:"log"`
	Ngrok   NgrokSettings   `mapstructure:"ngrok"`
}

type ServerSettings struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	BaseURL string `mapstructure:"base_url"`

	// AllowedOrigins enables CORS for browser clients; empty disables it.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type GameSettings struct {
	ConfigDir       string        `mapstructure:"config_dir"`
	DefaultConfig   string        `mapstructure:"default_config"`
	SessionTimeout  time.Duration `mapstructure:"session_timeout"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	SyncInterval    time.Duration `mapstructure:"sync_interval"`
}

type StorageSettings struct {
	// Backend is one of "file", "postgres", "redis" or "memory".
	Backend  string           `mapstructure:"backend"`
	Dir      string           `mapstructure:"dir"`
	Postgres PostgresSettings `mapstructure:"postgres"`
	Redis    RedisSettings    `mapstructure:"redis"`
}

type PostgresSettings struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN renders the settings as a libpq keyword/value connection string.
func (p PostgresSettings) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

type RedisSettings struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type LogSettings struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type NgrokSettings struct {
	Enabled bool   `mapstructure:"enabled"`
	Domain  string `mapstructure:"domain"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("game.config_dir", "configs")
	v.SetDefault("game.default_config", "classic")
	v.SetDefault("game.session_timeout", 24*time.Hour)
	v.SetDefault("game.cleanup_interval", time.Hour)
	v.SetDefault("game.sync_interval", 5*time.Minute)
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.dir", "sessions")
	v.SetDefault("storage.postgres.host", "localhost")
	v.SetDefault("storage.postgres.port", 5432)
	v.SetDefault("storage.postgres.user", "postgres")
	v.SetDefault("storage.postgres.password", "")
	v.SetDefault("storage.postgres.dbname", "monopoly")
	v.SetDefault("storage.postgres.sslmode", "disable")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.key_prefix", "monopoly")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("ngrok.enabled", false)
	v.SetDefault("ngrok.domain", "")
}

// Load reads config.yaml from path when it exists, then applies environment
// overrides such as MONOPOLY_SERVER_PORT or MONOPOLY_STORAGE_BACKEND.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) Validate() error {
	switch s.Storage.Backend {
	case "file", "postgres", "redis", "memory":
	default:
		return fmt.Errorf("unknown storage backend %q", s.Storage.Backend)
	}
	if s.Server.Port <= 0 || s.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", s.Server.Port)
	}
	return nil
}

// Addr is the host:port the HTTP server listens on.
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Server.Host, s.Server.Port)
}

// APIBaseURL is the URL clients such as the MCP proxy use to reach the API.
func (s *Settings) APIBaseURL() string {
	if s.Server.BaseURL != "" {
		return s.Server.BaseURL
	}
	return fmt.Sprintf("http://%s", s.Addr())
}
