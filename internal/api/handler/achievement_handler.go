package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"employee-tracker/internal/dto"
	"employee-tracker/internal/service"
	"employee-tracker/pkg/response"
)

// AchievementHandler 成就模块 HTTP 处理器
type AchievementHandler struct {
	achSvc service.AchievementService
}

// NewAchievementHandler 创建 AchievementHandler
func NewAchievementHandler(achSvc service.AchievementService) *AchievementHandler {
	return &AchievementHandler{achSvc: achSvc}
}

// ListAchievements 获取成就列表
// GET /achievements/
func (h *AchievementHandler) ListAchievements(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AchievementListRequest
	if !bindQuery(c, &req) {
		return
	}

	achs, total, err := h.achSvc.List(c.Request.Context(), &req, callerID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, achs, total, req.GetPage(), req.GetPageSize())
}

// GetAchievement 获取成就详情
// GET /achievements/:id/
func (h *AchievementHandler) GetAchievement(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ach, err := h.achSvc.GetByID(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		h.handleAchievementError(c, err)
		return
	}

	response.OK(c, ach)
}

// CreateAchievement 创建成就
// POST /achievements/
func (h *AchievementHandler) CreateAchievement(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AchievementRequest
	if !bindJSON(c, &req) {
		return
	}

	ach, err := h.achSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAchievementError(c, err)
		return
	}

	response.Created(c, ach)
}

// UpdateAchievement 更新成就（PUT 与 PATCH 共用：唯一可写字段为 name）
// PUT /achievements/:id/
func (h *AchievementHandler) UpdateAchievement(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AchievementRequest
	if !bindJSON(c, &req) {
		return
	}

	ach, err := h.achSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleAchievementError(c, err)
		return
	}

	response.OK(c, ach)
}

// DeleteAchievement 删除成就
// DELETE /achievements/:id/
func (h *AchievementHandler) DeleteAchievement(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.achSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handleAchievementError(c, err)
		return
	}

	response.NoContent(c)
}

// handleAchievementError 统一处理成就模块业务错误
func (h *AchievementHandler) handleAchievementError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAchievementNotFound):
		response.NotFound(c, 14001, "成就不存在")
	case errors.Is(err, service.ErrAchievementNameExists):
		response.Conflict(c, 14002, "成就名称已存在")
	default:
		response.InternalError(c)
	}
}
