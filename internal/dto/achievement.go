package dto

// ── 成就模块 DTO ──

// AchievementRequest 创建/更新成就请求
type AchievementRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// AchievementListRequest 成就列表查询参数
type AchievementListRequest struct {
	PaginationRequest
	Search string `form:"search"`
}

// AchievementResponse 成就信息
type AchievementResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
