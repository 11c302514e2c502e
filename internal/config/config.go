package config

import (
	"bytes"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/agentdesk-io/agentdesk/internal/pkg/apperr"
)

type AppCfg struct {
	Name string
	Env  string
	Host string
	Port int
}

type AuthCfg struct {
	// ServiceToken is the bearer credential every caller presents. It is
	// required at startup; there is no per-call fallback.
	ServiceToken string
}

type LogCfg struct {
	Level string
}

type DBCfg struct {
	DSN         string
	MaxOpen     int
	MaxIdle     int
	AutoMigrate bool
}

type RedisCfg struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

type MQCfg struct {
	URL      string
	Exchange string
}

type DashboardCfg struct {
	CacheTTLSec int
}

type Config struct {
	App       AppCfg
	Auth      AuthCfg
	Log       LogCfg
	Database  DBCfg
	Redis     RedisCfg
	RabbitMQ  MQCfg
	Dashboard DashboardCfg
}

func Load() (*Config, error) {
	base := viper.New()
	base.SetConfigName("config")
	base.SetConfigType("yaml")
	base.AddConfigPath("./configs")
	base.AddConfigPath(".")
	base.AutomaticEnv()
	base.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	base.SetEnvPrefix("APP") // e.g. APP_APP_PORT -> app.port

	setDefaults(base)

	// Read the file if present; expand ${ENV} references once before
	// parsing so credentials can live in the environment.
	if err := base.ReadInConfig(); err == nil {
		path := base.ConfigFileUsed()
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		expanded := os.ExpandEnv(string(raw))

		v := viper.New()
		v.SetConfigType("yaml")
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, err
		}
		v.AutomaticEnv()
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.SetEnvPrefix("APP")
		setDefaults(v)

		cfg := new(Config)
		if err := v.Unmarshal(&cfg); err != nil {
			return nil, err
		}
		return cfg, cfg.Validate()
	}

	// No file is also allowed, using only env + defaults.
	cfg := new(Config)
	if err := base.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Validate fails fast on missing startup requirements. A missing store
// DSN or service credential is fatal at boot, never a per-call error.
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return apperr.Configuration("database.dsn is required")
	}
	if c.Auth.ServiceToken == "" {
		return apperr.Configuration("auth.serviceToken is required")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "agentdesk")
	v.SetDefault("app.env", "debug")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("database.maxOpen", 20)
	v.SetDefault("database.maxIdle", 5)
	v.SetDefault("database.autoMigrate", true)
	v.SetDefault("redis.poolSize", 10)
	v.SetDefault("rabbitmq.exchange", "agentdesk.activity")
	v.SetDefault("dashboard.cacheTTLSec", 15)
}
