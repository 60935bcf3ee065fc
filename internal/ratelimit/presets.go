package ratelimit

import (
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"homophone_dict/pkg/config"
)

// Presets 各類 API 使用的限流規則
type Presets struct {
	Search Rule
	Submit Rule
	Auth   Rule
	Admin  Rule
}

func DefaultPresets() Presets {
	return Presets{
		Search: Rule{Name: "search", Requests: 30, Window: time.Minute},
		Submit: Rule{Name: "submit", Requests: 5, Window: time.Minute},
		Auth:   Rule{Name: "auth", Requests: 10, Window: 5 * time.Minute},
		Admin:  Rule{Name: "admin", Requests: 60, Window: time.Minute},
	}
}

// PresetsFromConfig 未設定的規則沿用預設值
func PresetsFromConfig(cfg config.RateLimitConfig) Presets {
	p := DefaultPresets()
	p.Search = overlay(p.Search, cfg.Search)
	p.Submit = overlay(p.Submit, cfg.Submit)
	p.Auth = overlay(p.Auth, cfg.Auth)
	p.Admin = overlay(p.Admin, cfg.Admin)
	return p
}

func overlay(rule Rule, rc config.RuleConfig) Rule {
	if rc.Requests > 0 {
		rule.Requests = rc.Requests
	}
	if rc.Window > 0 {
		rule.Window = rc.Window
	}
	return rule
}

// New 依配置建立限流器。回傳的 LocalLimiter 需要由呼叫端 Start / Stop，
// 使用 Redis 時它是 Redis 不可用時的備援。
func New(cfg config.RateLimitConfig, logger *logrus.Logger) (Limiter, *LocalLimiter, *redis.Client) {
	local := NewLocalLimiter(cfg.SweepInterval, logger)
	if cfg.Backend != "redis" {
		return local, local, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return NewRedisLimiter(rdb, local, logger), local, rdb
}
