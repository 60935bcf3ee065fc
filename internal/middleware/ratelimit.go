package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"homophone_dict/internal/ratelimit"
)

// RateLimit 依規則限制請求頻率，已登入用戶以用戶 ID 為 key，否則使用來源 IP。
// 限流器出錯時放行請求並記錄警告。
func RateLimit(limiter ratelimit.Limiter, rule ratelimit.Rule, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if actor := CurrentActor(c); actor != nil {
			key = fmt.Sprintf("user:%d", actor.ID)
		}

		res, err := limiter.Allow(c.Request.Context(), key, rule)
		if err != nil {
			logger.WithError(err).WithField("rule", rule.Name).Warn("rate limiter error, failing open")
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))

		if !res.Allowed {
			retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			h.Set("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": fmt.Sprintf("請求過於頻繁，請 %d 秒後再試", retryAfter),
				"code":  "RATE_LIMITED",
			})
			return
		}
		c.Next()
	}
}
