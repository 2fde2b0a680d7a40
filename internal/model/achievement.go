package model

import (
	"time"

	"gorm.io/gorm"
)

// Achievement 成就表 — 对应 achievements
// 名称全局唯一（跨用户）
type Achievement struct {
	AchievementID string `gorm:"type:uuid;primaryKey"                                     json:"achievement_id"`
	Name          string `gorm:"type:varchar(100);not null;uniqueIndex:uq_achievements_name" json:"name"`
	OwnedModel

	// 反向关联：achievement_awards.achievement_id → achievements，删除成就时级联删除
	Awards []AchievementAward `gorm:"foreignKey:AchievementID;references:AchievementID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (Achievement) TableName() string { return "achievements" }

// BeforeCreate 生成主键
func (a *Achievement) BeforeCreate(_ *gorm.DB) error {
	if a.AchievementID == "" {
		a.AchievementID = newID()
	}
	return nil
}

// AchievementAward 员工获得成就记录 — 对应 achievement_awards
// 同一员工同一成就最多一条；员工或成就删除时级联删除
type AchievementAward struct {
	AwardID         string    `gorm:"type:uuid;primaryKey"                                                json:"award_id"`
	EmployeeID      string    `gorm:"type:uuid;not null;uniqueIndex:uq_awards_employee_achievement,priority:1" json:"employee_id"`
	AchievementID   string    `gorm:"type:uuid;not null;uniqueIndex:uq_awards_employee_achievement,priority:2;index" json:"achievement_id"`
	AchievementDate time.Time `gorm:"type:date;not null"                                                  json:"achievement_date"`

	// 仅用于预加载，外键约束由 Achievement.Awards 声明
	Achievement *Achievement `gorm:"foreignKey:AchievementID;references:AchievementID;-:migration" json:"achievement,omitempty"`
}

// TableName 指定表名
func (AchievementAward) TableName() string { return "achievement_awards" }

// BeforeCreate 生成主键
func (a *AchievementAward) BeforeCreate(_ *gorm.DB) error {
	if a.AwardID == "" {
		a.AwardID = newID()
	}
	return nil
}
