package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"homophone_dict/internal/service"
)

const (
	ctxUserID   = "userID"
	ctxUserRole = "userRole"
	ctxActor    = "actor"
)

// Authenticator 驗證 token 並載入最新的用戶身份
type Authenticator interface {
	ParseToken(token string) (uint, error)
	Identify(ctx context.Context, userID uint) (*service.Actor, error)
}

// AuthMiddleware 是一個 Gin 中間件，用於驗證請求的 JWT token
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 從請求頭中獲取 Authorization 字段
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required", "code": service.CodeUnauthenticated})
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}", "code": service.CodeUnauthenticated})
			return
		}

		actor, err := identify(c, auth, token)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		setActor(c, actor)
		c.Next()
	}
}

// OptionalAuth 帶有有效 token 時識別用戶，沒有或無效時以匿名身份繼續
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if actor, err := identify(c, auth, token); err == nil {
				setActor(c, actor)
			}
		}
		c.Next()
	}
}

// TokenFromQuery 讓瀏覽器的 WebSocket 連線可以用 ?token= 傳遞 token
func TokenFromQuery() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			if token := c.Query("token"); token != "" {
				c.Request.Header.Set("Authorization", "Bearer "+token)
			}
		}
		c.Next()
	}
}

// CurrentActor 取出目前請求的用戶，未登入時為 nil
func CurrentActor(c *gin.Context) *service.Actor {
	if v, ok := c.Get(ctxActor); ok {
		if actor, ok := v.(*service.Actor); ok {
			return actor
		}
	}
	return nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func identify(c *gin.Context, auth Authenticator, token string) (*service.Actor, error) {
	userID, err := auth.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return auth.Identify(c.Request.Context(), userID)
}

func setActor(c *gin.Context, actor *service.Actor) {
	c.Set(ctxUserID, actor.ID)
	c.Set(ctxUserRole, string(actor.Role))
	c.Set(ctxActor, actor)
}
