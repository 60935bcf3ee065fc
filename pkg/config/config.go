package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"db"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Audit     AuditConfig     `mapstructure:"audit"`
	History   HistoryConfig   `mapstructure:"history"`
}

type ServerConfig struct {
	Address     string   `mapstructure:"address"`
	Mode        string   `mapstructure:"mode"` // gin 模式: debug / release / test
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type DBConfig struct {
	Driver   string `mapstructure:"driver"` // postgres 或 sqlite
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	Port     int    `mapstructure:"port"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`
	Path     string `mapstructure:"path"` // sqlite 檔案路徑
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RateLimitConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Backend       string        `mapstructure:"backend"` // local 或 redis
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	Redis         RedisConfig   `mapstructure:"redis"`
	Search        RuleConfig    `mapstructure:"search"`
	Submit        RuleConfig    `mapstructure:"submit"`
	Auth          RuleConfig    `mapstructure:"auth"`
	Admin         RuleConfig    `mapstructure:"admin"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RuleConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

type AuditConfig struct {
	DeadlineHours  int `mapstructure:"deadline_hours"`
	ApprovalQuorum int `mapstructure:"approval_quorum"`
}

type HistoryConfig struct {
	RetentionMonths int `mapstructure:"retention_months"`
}

// Load 讀取配置檔與 HOMOPHONE_ 前綴的環境變數
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./pkg/config")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.SetEnvPrefix("homophone")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("讀取配置檔失敗: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失敗: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "homophone_dict")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Shanghai")
	v.SetDefault("db.path", "homophone_dict.db")

	v.SetDefault("jwt.secret", "change_me")
	v.SetDefault("jwt.ttl", 240*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.backend", "local")
	v.SetDefault("ratelimit.sweep_interval", time.Minute)
	v.SetDefault("ratelimit.redis.address", "localhost:6379")
	v.SetDefault("ratelimit.search.requests", 30)
	v.SetDefault("ratelimit.search.window", time.Minute)
	v.SetDefault("ratelimit.submit.requests", 5)
	v.SetDefault("ratelimit.submit.window", time.Minute)
	v.SetDefault("ratelimit.auth.requests", 10)
	v.SetDefault("ratelimit.auth.window", 5*time.Minute)
	v.SetDefault("ratelimit.admin.requests", 60)
	v.SetDefault("ratelimit.admin.window", time.Minute)

	v.SetDefault("audit.deadline_hours", 24)
	v.SetDefault("audit.approval_quorum", 2)

	v.SetDefault("history.retention_months", 6)
}

// DSN 依資料庫驅動組出連線字串
func (c DBConfig) DSN() (string, error) {
	switch c.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
			c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone), nil
	case "sqlite":
		if c.Path == "" {
			return "", errors.New("sqlite 需要設定 db.path")
		}
		return c.Path, nil
	default:
		return "", fmt.Errorf("不支援的資料庫驅動: %s", c.Driver)
	}
}
