package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"employee-tracker/pkg/response"
)

// BodyLimit 全局请求体大小限制中间件
// 声明长度超限的请求直接拒绝；未声明长度的请求在读取时由 MaxBytesReader 截断，
// 绑定失败后由 Handler 返回 413
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
