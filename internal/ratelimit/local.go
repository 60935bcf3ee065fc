package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter    *rate.Limiter
	window     time.Duration
	lastAccess time.Time
}

// LocalLimiter 行程內的令牌桶限流器。
// 閒置超過自身窗口的 key 會在清理時移除，此時令牌桶必然已經補滿。
type LocalLimiter struct {
	mu       sync.Mutex
	entries  map[string]*limiterEntry
	interval time.Duration
	logger   *logrus.Logger
	now      func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewLocalLimiter(sweepInterval time.Duration, logger *logrus.Logger) *LocalLimiter {
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}
	return &LocalLimiter{
		entries:  make(map[string]*limiterEntry),
		interval: sweepInterval,
		logger:   logger,
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string, rule Rule) (*Result, error) {
	if !rule.valid() {
		return &Result{Allowed: true, Limit: rule.Requests, Remaining: rule.Requests}, nil
	}

	now := l.now()
	perToken := rule.Window / time.Duration(rule.Requests)
	k := bucketKey(rule, key)

	l.mu.Lock()
	entry, ok := l.entries[k]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Every(perToken), rule.Requests),
			window:  rule.Window,
		}
		l.entries[k] = entry
	}
	entry.lastAccess = now
	allowed := entry.limiter.AllowN(now, 1)
	tokens := entry.limiter.TokensAt(now)
	l.mu.Unlock()

	remaining := int(tokens)
	if remaining < 0 {
		remaining = 0
	}
	res := &Result{
		Allowed:    allowed,
		Limit:      rule.Requests,
		Remaining:  remaining,
		ResetAfter: time.Duration((float64(rule.Requests) - tokens) * float64(perToken)),
	}
	if !allowed {
		res.RetryAfter = time.Duration((1 - tokens) * float64(perToken))
	}
	return res, nil
}

// Sweep 移除閒置超過窗口的 key，回傳移除數量
func (l *LocalLimiter) Sweep() int {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for k, entry := range l.entries {
		if now.Sub(entry.lastAccess) >= entry.window {
			delete(l.entries, k)
			removed++
		}
	}
	return removed
}

// Len 目前追蹤中的 key 數量
func (l *LocalLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Start 啟動定期清理，直到 Stop 被呼叫或 ctx 結束
func (l *LocalLimiter) Start(ctx context.Context) {
	go func() {
		defer close(l.done)
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-l.stop:
				return
			case <-ticker.C:
				if n := l.Sweep(); n > 0 && l.logger != nil {
					l.logger.WithField("evicted", n).Debug("rate limit windows swept")
				}
			}
		}
	}()
}

// Stop 停止清理並等待 goroutine 結束，只能在 Start 之後呼叫
func (l *LocalLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
	<-l.done
}
