package model

import "time"

// AuthToken 登录令牌表 — 对应 auth_tokens
// 每个用户最多一条有效令牌；登出即删除该行
type AuthToken struct {
	TokenID   string    `gorm:"type:uuid;primaryKey"                              json:"token_id"` // 与令牌 jti 一致
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:uq_auth_tokens_user" json:"user_id"`
	Token     string    `gorm:"type:text;not null"                                json:"-"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"                           json:"created_at"`
	ExpiresAt time.Time `gorm:"not null"                                          json:"expires_at"`

	User *User `gorm:"foreignKey:UserID;references:UserID;-:migration" json:"-"`
}

// TableName 指定表名
func (AuthToken) TableName() string { return "auth_tokens" }

// Expired 令牌是否已过期
func (t *AuthToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
