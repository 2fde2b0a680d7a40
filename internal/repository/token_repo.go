package repository

import (
	"context"

	"gorm.io/gorm"

	"employee-tracker/internal/model"
)

// TokenRepository 登录令牌数据访问接口
type TokenRepository interface {
	Create(ctx context.Context, token *model.AuthToken) error
	GetByID(ctx context.Context, tokenID string) (*model.AuthToken, error)
	GetByUserID(ctx context.Context, userID string) (*model.AuthToken, error)
	Delete(ctx context.Context, tokenID string) (bool, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

type tokenRepo struct {
	db *gorm.DB
}

// NewTokenRepo 创建 TokenRepository 实例
func NewTokenRepo(db *gorm.DB) TokenRepository {
	return &tokenRepo{db: db}
}

func (r *tokenRepo) Create(ctx context.Context, token *model.AuthToken) error {
	return translateErr(r.db.WithContext(ctx).Create(token).Error)
}

func (r *tokenRepo) GetByID(ctx context.Context, tokenID string) (*model.AuthToken, error) {
	var tok model.AuthToken
	if err := r.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&tok).Error; err != nil {
		return nil, err
	}
	return &tok, nil
}

func (r *tokenRepo) GetByUserID(ctx context.Context, userID string) (*model.AuthToken, error) {
	var tok model.AuthToken
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&tok).Error; err != nil {
		return nil, err
	}
	return &tok, nil
}

// Delete 删除令牌，返回是否确有记录被删除
func (r *tokenRepo) Delete(ctx context.Context, tokenID string) (bool, error) {
	res := r.db.WithContext(ctx).Where("token_id = ?", tokenID).Delete(&model.AuthToken{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *tokenRepo) DeleteByUserID(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.AuthToken{}).Error
}
