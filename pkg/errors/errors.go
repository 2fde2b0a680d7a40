package errors

import "errors"

// ErrDuplicate 唯一约束冲突（由 Repository 层从数据库错误翻译而来）
var ErrDuplicate = errors.New("记录已存在")

// ErrForeignKey 外键约束冲突：引用的记录不存在
var ErrForeignKey = errors.New("引用的记录不存在")
