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

// ── 成就模块业务错误 ──

var (
	ErrAchievementNotFound   = errors.New("成就不存在")
	ErrAchievementNameExists = errors.New("成就名称已存在")
)

// AchievementService 成就业务接口
type AchievementService interface {
	Create(ctx context.Context, req *dto.AchievementRequest, callerID string) (*dto.AchievementResponse, error)
	GetByID(ctx context.Context, id, callerID string) (*dto.AchievementResponse, error)
	List(ctx context.Context, req *dto.AchievementListRequest, callerID string) ([]dto.AchievementResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.AchievementRequest, callerID string) (*dto.AchievementResponse, error)
	// Delete 删除成就及所有员工的对应获奖记录
	Delete(ctx context.Context, id, callerID string) error
}

type achievementService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAchievementService 创建 AchievementService 实例
func NewAchievementService(repo *repository.Repository, logger *zap.Logger) AchievementService {
	return &achievementService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *achievementService) Create(ctx context.Context, req *dto.AchievementRequest, callerID string) (*dto.AchievementResponse, error) {
	ach := &model.Achievement{Name: req.Name}
	ach.CreatedBy = callerID

	if err := s.repo.Achievement.Create(ctx, ach); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			return nil, ErrAchievementNameExists
		}
		s.logger.Error("创建成就失败", zap.Error(err))
		return nil, err
	}

	return toAchievementResponse(ach), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *achievementService) GetByID(ctx context.Context, id, callerID string) (*dto.AchievementResponse, error) {
	if !validID(id) {
		return nil, ErrAchievementNotFound
	}
	ach, err := s.repo.Achievement.GetByID(ctx, callerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAchievementNotFound
		}
		s.logger.Error("查询成就失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toAchievementResponse(ach), nil
}

// ────────────────────── List ──────────────────────

func (s *achievementService) List(ctx context.Context, req *dto.AchievementListRequest, callerID string) ([]dto.AchievementResponse, int64, error) {
	achs, total, err := s.repo.Achievement.List(ctx, callerID, repository.ListOptions{
		Search: req.Search,
		Offset: req.GetOffset(),
		Limit:  req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("列出成就失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.AchievementResponse, 0, len(achs))
	for i := range achs {
		result = append(result, *toAchievementResponse(&achs[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *achievementService) Update(ctx context.Context, id string, req *dto.AchievementRequest, callerID string) (*dto.AchievementResponse, error) {
	if !validID(id) {
		return nil, ErrAchievementNotFound
	}
	ach := &model.Achievement{AchievementID: id, Name: req.Name}

	if err := s.repo.Achievement.Update(ctx, callerID, ach); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrAchievementNotFound
		case errors.Is(err, pkgerrors.ErrDuplicate):
			return nil, ErrAchievementNameExists
		}
		s.logger.Error("更新成就失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, id, callerID)
}

// ────────────────────── Delete ──────────────────────

func (s *achievementService) Delete(ctx context.Context, id, callerID string) error {
	if !validID(id) {
		return ErrAchievementNotFound
	}
	if err := s.repo.Achievement.Delete(ctx, callerID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAchievementNotFound
		}
		s.logger.Error("删除成就失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func toAchievementResponse(ach *model.Achievement) *dto.AchievementResponse {
	return &dto.AchievementResponse{
		ID:        ach.AchievementID,
		Name:      ach.Name,
		CreatedAt: formatTime(ach.CreatedAt),
		UpdatedAt: formatTime(ach.UpdatedAt),
	}
}
