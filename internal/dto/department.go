package dto

// ── 部门模块 DTO ──

// DepartmentRequest 创建/更新部门请求
type DepartmentRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// DepartmentListRequest 部门列表查询参数
type DepartmentListRequest struct {
	PaginationRequest
	Search string `form:"search"`
}

// DepartmentResponse 部门信息
type DepartmentResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}
