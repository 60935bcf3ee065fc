package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homophone_dict/internal/service"
)

// HTTPStatus 將業務錯誤分類碼對應到 HTTP 狀態碼
func HTTPStatus(code service.Code) int {
	switch code {
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeForbidden:
		return http.StatusForbidden
	case service.CodeConflict:
		return http.StatusConflict
	case service.CodeUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithError 寫入 {"error", "code"} 並中止後續處理
func AbortWithError(c *gin.Context, err error) {
	code := service.CodeOf(err)
	if code == service.CodeInternal {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(HTTPStatus(code), gin.H{
		"error": service.MessageOf(err),
		"code":  code,
	})
}
