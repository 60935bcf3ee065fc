package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"homophone_dict/internal/middleware"
)

// respondError 將業務錯誤轉成 HTTP 回應
func respondError(c *gin.Context, err error) {
	middleware.AbortWithError(c, err)
}

// bindError 請求格式錯誤時的回應
func bindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION"})
}

// parseID 解析路徑中的正整數 ID
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "錯誤的 " + name, "code": "VALIDATION"})
		return 0, false
	}
	return uint(id), true
}

// queryInt 讀取整數查詢參數，缺少或格式錯誤時回傳預設值
func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}
