// Package ratelimit 提供以 key 為單位的請求頻率限制，
// 單機使用記憶體中的令牌桶，多實例部署時改用 Redis。
package ratelimit

import (
	"context"
	"time"
)

// Rule 在 Window 時間內最多允許 Requests 次請求
type Rule struct {
	Name     string
	Requests int
	Window   time.Duration
}

func (r Rule) valid() bool {
	return r.Requests > 0 && r.Window > 0
}

// Result 一次檢查的結果，用於設定 X-RateLimit-* 回應標頭
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
	ResetAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string, rule Rule) (*Result, error)
}

func bucketKey(rule Rule, key string) string {
	return "ratelimit:" + rule.Name + ":" + key
}
