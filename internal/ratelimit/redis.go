package ratelimit

import (
	"context"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisLimiter 以 Redis 共享計數的限流器，Redis 不可用時退回行程內限流
type RedisLimiter struct {
	limiter  *redis_rate.Limiter
	fallback *LocalLimiter
	logger   *logrus.Logger
}

func NewRedisLimiter(rdb *redis.Client, fallback *LocalLimiter, logger *logrus.Logger) *RedisLimiter {
	return &RedisLimiter{
		limiter:  redis_rate.NewLimiter(rdb),
		fallback: fallback,
		logger:   logger,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, rule Rule) (*Result, error) {
	if !rule.valid() {
		return &Result{Allowed: true, Limit: rule.Requests, Remaining: rule.Requests}, nil
	}

	limit := redis_rate.Limit{Rate: rule.Requests, Burst: rule.Requests, Period: rule.Window}
	res, err := l.limiter.Allow(ctx, bucketKey(rule, key), limit)
	if err != nil {
		l.logger.WithError(err).WithField("rule", rule.Name).Warn("redis rate limiter unavailable, using local limiter")
		return l.fallback.Allow(ctx, key, rule)
	}

	out := &Result{
		Allowed:    res.Allowed > 0,
		Limit:      rule.Requests,
		Remaining:  res.Remaining,
		ResetAfter: res.ResetAfter,
	}
	if !out.Allowed && res.RetryAfter > 0 {
		out.RetryAfter = res.RetryAfter
	}
	return out, nil
}
