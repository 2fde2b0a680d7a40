package dto

// ── 员工模块 DTO ──

// AwardInput 员工获得成就条目
type AwardInput struct {
	AchievementID   string `json:"achievement_id"   binding:"required"`
	AchievementDate string `json:"achievement_date" binding:"required,datetime=2006-01-02"`
}

// EmployeeRequest 创建 / 整体更新（PUT）员工请求
// PUT 时 achievements 缺省等同于空列表：员工的全部获奖记录被清空
type EmployeeRequest struct {
	Name         string       `json:"name"          binding:"required,max=100"`
	Email        string       `json:"email"         binding:"required,email,max=254"`
	Phone        string       `json:"phone"         binding:"required,phone"`
	Address      string       `json:"address"       binding:"required"`
	DepartmentID *string      `json:"department_id"`
	Achievements []AwardInput `json:"achievements"  binding:"omitempty,dive"`
}

// PatchEmployeeRequest 部分更新（PATCH）员工请求
// 仅更新出现的字段；achievements 出现时整体替换获奖记录
type PatchEmployeeRequest struct {
	Name         *string       `json:"name"          binding:"omitempty,min=1,max=100"`
	Email        *string       `json:"email"         binding:"omitempty,email,max=254"`
	Phone        *string       `json:"phone"         binding:"omitempty,phone"`
	Address      *string       `json:"address"       binding:"omitempty,min=1"`
	DepartmentID NullableID    `json:"department_id"`
	Achievements *[]AwardInput `json:"achievements"  binding:"omitempty,dive"`
}

// EmployeeListRequest 员工列表查询参数
type EmployeeListRequest struct {
	PaginationRequest
	Department string `form:"department"`
	Search     string `form:"search"`
	Ordering   string `form:"ordering" binding:"omitempty,oneof=name -name department__name -department__name"`
}

// AwardResponse 员工获奖记录
type AwardResponse struct {
	AchievementID   string `json:"achievement_id"`
	AchievementName string `json:"achievement_name"`
	AchievementDate string `json:"achievement_date"`
}

// EmployeeResponse 员工信息
type EmployeeResponse struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	Phone        string              `json:"phone"`
	Address      string              `json:"address"`
	DepartmentID *string             `json:"department_id"`
	Department   *DepartmentResponse `json:"department"`
	Achievements []AwardResponse     `json:"achievements"`
	CreatedAt    string              `json:"created_at"`
	UpdatedAt    string              `json:"updated_at"`
}
