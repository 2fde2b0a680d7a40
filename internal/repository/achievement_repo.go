package repository

import (
	"context"

	"gorm.io/gorm"

	"employee-tracker/internal/model"
)

// AchievementRepository 成就数据访问接口
type AchievementRepository interface {
	Create(ctx context.Context, ach *model.Achievement) error
	GetByID(ctx context.Context, ownerID, id string) (*model.Achievement, error)
	ListByIDs(ctx context.Context, ownerID string, ids []string) ([]model.Achievement, error)
	List(ctx context.Context, ownerID string, opts ListOptions) ([]model.Achievement, int64, error)
	Update(ctx context.Context, ownerID string, ach *model.Achievement) error
	Delete(ctx context.Context, ownerID, id string) error
}

type achievementRepo struct {
	db *gorm.DB
}

// NewAchievementRepo 创建 AchievementRepository 实例
func NewAchievementRepo(db *gorm.DB) AchievementRepository {
	return &achievementRepo{db: db}
}

func (r *achievementRepo) owned(ctx context.Context, ownerID string) *gorm.DB {
	return r.db.WithContext(ctx).Scopes(OwnedBy("achievements", ownerID))
}

func (r *achievementRepo) Create(ctx context.Context, ach *model.Achievement) error {
	return translateErr(r.db.WithContext(ctx).Create(ach).Error)
}

func (r *achievementRepo) GetByID(ctx context.Context, ownerID, id string) (*model.Achievement, error) {
	var ach model.Achievement
	if err := r.owned(ctx, ownerID).Where("achievement_id = ?", id).First(&ach).Error; err != nil {
		return nil, err
	}
	return &ach, nil
}

// ListByIDs 批量查询调用方拥有的成就；不属于调用方或不存在的 ID 不会出现在结果中
func (r *achievementRepo) ListByIDs(ctx context.Context, ownerID string, ids []string) ([]model.Achievement, error) {
	var list []model.Achievement
	if len(ids) == 0 {
		return list, nil
	}
	err := r.owned(ctx, ownerID).
		Where("achievement_id IN ?", ids).
		Find(&list).Error
	return list, err
}

func (r *achievementRepo) List(ctx context.Context, ownerID string, opts ListOptions) ([]model.Achievement, int64, error) {
	var list []model.Achievement
	var total int64

	db := r.owned(ctx, ownerID).Model(&model.Achievement{})
	if opts.Search != "" {
		db = db.Where("LOWER(name) LIKE ? ESCAPE '\\'", likePattern(opts.Search))
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Order("name ASC").
		Offset(opts.Offset).Limit(opts.Limit).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *achievementRepo) Update(ctx context.Context, ownerID string, ach *model.Achievement) error {
	res := r.owned(ctx, ownerID).
		Model(&model.Achievement{}).
		Where("achievement_id = ?", ach.AchievementID).
		Updates(map[string]interface{}{"name": ach.Name})
	return affectedOrNotFound(res)
}

// Delete 删除成就及其全部获奖记录；员工本身不受影响
func (r *achievementRepo) Delete(ctx context.Context, ownerID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Achievement{}).
			Scopes(OwnedBy("achievements", ownerID)).
			Where("achievement_id = ?", id).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("achievement_id = ?", id).Delete(&model.AchievementAward{}).Error; err != nil {
			return err
		}

		res := tx.Scopes(OwnedBy("achievements", ownerID)).
			Where("achievement_id = ?", id).
			Delete(&model.Achievement{})
		return affectedOrNotFound(res)
	})
}
