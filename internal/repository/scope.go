package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	pkgerrors "employee-tracker/pkg/errors"
)

// OwnedBy 数据归属过滤：只保留 created_by 等于调用方的行
// 部门/成就/员工的每一个读写方法都必须经过此 scope，不存在不带归属的查询路径
func OwnedBy(table, ownerID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table+".created_by = ?", ownerID)
	}
}

// ListOptions 通用列表参数
type ListOptions struct {
	Search string
	Offset int
	Limit  int
}

// likePattern 构造大小写不敏感的包含匹配模式
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}

// translateErr 将数据库约束错误翻译为业务层可识别的错误
func translateErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", pkgerrors.ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", pkgerrors.ErrForeignKey, err)
	default:
		return err
	}
}

// affectedOrNotFound 按归属条件更新/删除时，0 行受影响即视为记录不存在
func affectedOrNotFound(res *gorm.DB) error {
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
