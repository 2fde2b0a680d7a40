package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"employee-tracker/internal/dto"
	"employee-tracker/internal/model"
	"employee-tracker/internal/repository"
	pkgerrors "employee-tracker/pkg/errors"
)

// ── 部门模块业务错误 ──

var (
	ErrDepartmentNotFound   = errors.New("部门不存在")
	ErrDepartmentNameExists = errors.New("部门名称已存在")
)

// DepartmentService 部门业务接口
// 所有方法以 callerID 限定数据归属：他人的部门与不存在的部门无法区分
type DepartmentService interface {
	Create(ctx context.Context, req *dto.DepartmentRequest, callerID string) (*dto.DepartmentResponse, error)
	GetByID(ctx context.Context, id, callerID string) (*dto.DepartmentResponse, error)
	List(ctx context.Context, req *dto.DepartmentListRequest, callerID string) ([]dto.DepartmentResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.DepartmentRequest, callerID string) (*dto.DepartmentResponse, error)
	// Delete 删除部门，引用它的员工保留但 department 置空
	Delete(ctx context.Context, id, callerID string) error
}

type departmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDepartmentService 创建 DepartmentService 实例
func NewDepartmentService(repo *repository.Repository, logger *zap.Logger) DepartmentService {
	return &departmentService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *departmentService) Create(ctx context.Context, req *dto.DepartmentRequest, callerID string) (*dto.DepartmentResponse, error) {
	dept := &model.Department{Name: req.Name}
	dept.CreatedBy = callerID

	// 名称全局唯一，冲突由唯一索引判定
	if err := s.repo.Department.Create(ctx, dept); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			return nil, ErrDepartmentNameExists
		}
		s.logger.Error("创建部门失败", zap.Error(err))
		return nil, err
	}

	return toDepartmentResponse(dept), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *departmentService) GetByID(ctx context.Context, id, callerID string) (*dto.DepartmentResponse, error) {
	if !validID(id) {
		return nil, ErrDepartmentNotFound
	}
	dept, err := s.repo.Department.GetByID(ctx, callerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("查询部门失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toDepartmentResponse(dept), nil
}

// ────────────────────── List ──────────────────────

func (s *departmentService) List(ctx context.Context, req *dto.DepartmentListRequest, callerID string) ([]dto.DepartmentResponse, int64, error) {
	depts, total, err := s.repo.Department.List(ctx, callerID, repository.ListOptions{
		Search: req.Search,
		Offset: req.GetOffset(),
		Limit:  req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("列出部门失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		result = append(result, *toDepartmentResponse(&depts[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *departmentService) Update(ctx context.Context, id string, req *dto.DepartmentRequest, callerID string) (*dto.DepartmentResponse, error) {
	if !validID(id) {
		return nil, ErrDepartmentNotFound
	}
	dept := &model.Department{DepartmentID: id, Name: req.Name}

	if err := s.repo.Department.Update(ctx, callerID, dept); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrDepartmentNotFound
		case errors.Is(err, pkgerrors.ErrDuplicate):
			return nil, ErrDepartmentNameExists
		}
		s.logger.Error("更新部门失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, id, callerID)
}

// ────────────────────── Delete ──────────────────────

func (s *departmentService) Delete(ctx context.Context, id, callerID string) error {
	if !validID(id) {
		return ErrDepartmentNotFound
	}
	if err := s.repo.Department.Delete(ctx, callerID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		s.logger.Error("删除部门失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func toDepartmentResponse(dept *model.Department) *dto.DepartmentResponse {
	return &dto.DepartmentResponse{
		ID:        dept.DepartmentID,
		Name:      dept.Name,
		CreatedAt: formatTime(dept.CreatedAt),
		UpdatedAt: formatTime(dept.UpdatedAt),
	}
}
