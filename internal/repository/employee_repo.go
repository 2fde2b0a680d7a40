package repository

import (
	"context"

	"gorm.io/gorm"

	"employee-tracker/internal/model"
)

// EmployeeListFilters 员工列表过滤与排序条件
type EmployeeListFilters struct {
	DepartmentID string
	Search       string // 匹配姓名或邮箱
	Ordering     string // name | -name | department__name | -department__name
}

// orderings 允许的排序字段 → SQL 片段
var orderings = map[string]string{
	"name":              "employees.name ASC",
	"-name":             "employees.name DESC",
	"department__name":  "departments.name ASC",
	"-department__name": "departments.name DESC",
}

// ValidOrdering 排序字段是否受支持（空字符串表示默认排序）
func ValidOrdering(o string) bool {
	if o == "" {
		return true
	}
	_, ok := orderings[o]
	return ok
}

// EmployeeRepository 员工数据访问接口
type EmployeeRepository interface {
	Create(ctx context.Context, emp *model.Employee) error
	GetByID(ctx context.Context, ownerID, id string) (*model.Employee, error)
	List(ctx context.Context, ownerID string, filters *EmployeeListFilters, offset, limit int) ([]model.Employee, int64, error)
	ListAll(ctx context.Context, ownerID string) ([]model.Employee, error)
	Update(ctx context.Context, ownerID string, emp *model.Employee) error
	Delete(ctx context.Context, ownerID, id string) error
	// ReplaceAwards 先删除员工全部获奖记录，再按新列表重建（全量替换，非增量合并）
	ReplaceAwards(ctx context.Context, employeeID string, awards []model.AchievementAward) error
}

type employeeRepo struct {
	db *gorm.DB
}

// NewEmployeeRepo 创建 EmployeeRepository 实例
func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) owned(ctx context.Context, ownerID string) *gorm.DB {
	return r.db.WithContext(ctx).Scopes(OwnedBy("employees", ownerID))
}

// withRelations 预加载部门与获奖记录（含成就名称）
func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Department").
		Preload("Awards", func(db *gorm.DB) *gorm.DB {
			return db.Order("achievement_date ASC, award_id ASC")
		}).
		Preload("Awards.Achievement")
}

func (r *employeeRepo) Create(ctx context.Context, emp *model.Employee) error {
	return translateErr(r.db.WithContext(ctx).Omit("Department", "Awards").Create(emp).Error)
}

func (r *employeeRepo) GetByID(ctx context.Context, ownerID, id string) (*model.Employee, error) {
	var emp model.Employee
	err := r.owned(ctx, ownerID).
		Scopes(withRelations).
		Where("employees.employee_id = ?", id).
		First(&emp).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepo) List(ctx context.Context, ownerID string, filters *EmployeeListFilters, offset, limit int) ([]model.Employee, int64, error) {
	var employees []model.Employee
	var total int64

	db := r.owned(ctx, ownerID).Model(&model.Employee{})
	if filters != nil {
		if filters.DepartmentID != "" {
			db = db.Where("employees.department_id = ?", filters.DepartmentID)
		}
		if filters.Search != "" {
			pattern := likePattern(filters.Search)
			db = db.Where(
				"LOWER(employees.name) LIKE ? ESCAPE '\\' OR LOWER(employees.email) LIKE ? ESCAPE '\\'",
				pattern, pattern,
			)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "employees.created_at DESC"
	if filters != nil {
		if o, ok := orderings[filters.Ordering]; ok {
			order = o
			if filters.Ordering == "department__name" || filters.Ordering == "-department__name" {
				db = db.Joins("LEFT JOIN departments ON departments.department_id = employees.department_id")
			}
		}
	}

	if err := db.Select("employees.*").
		Scopes(withRelations).
		Order(order).
		Order("employees.employee_id ASC").
		Offset(offset).Limit(limit).
		Find(&employees).Error; err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func (r *employeeRepo) ListAll(ctx context.Context, ownerID string) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.owned(ctx, ownerID).
		Scopes(withRelations).
		Order("employees.name ASC").
		Find(&employees).Error
	return employees, err
}

// Update 整体覆盖员工基础字段（department_id 为 nil 时写入 NULL）
func (r *employeeRepo) Update(ctx context.Context, ownerID string, emp *model.Employee) error {
	res := r.owned(ctx, ownerID).
		Model(&model.Employee{}).
		Where("employee_id = ?", emp.EmployeeID).
		Select("name", "email", "phone", "address", "department_id", "updated_at").
		Updates(emp)
	return affectedOrNotFound(res)
}

// Delete 删除员工及其全部获奖记录；引用的成就与部门不受影响
func (r *employeeRepo) Delete(ctx context.Context, ownerID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Employee{}).
			Scopes(OwnedBy("employees", ownerID)).
			Where("employee_id = ?", id).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("employee_id = ?", id).Delete(&model.AchievementAward{}).Error; err != nil {
			return err
		}

		res := tx.Scopes(OwnedBy("employees", ownerID)).
			Where("employee_id = ?", id).
			Delete(&model.Employee{})
		return affectedOrNotFound(res)
	})
}

func (r *employeeRepo) ReplaceAwards(ctx context.Context, employeeID string, awards []model.AchievementAward) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("employee_id = ?", employeeID).Delete(&model.AchievementAward{}).Error; err != nil {
		return err
	}
	if len(awards) == 0 {
		return nil
	}
	for i := range awards {
		awards[i].EmployeeID = employeeID
	}
	return translateErr(db.Omit("Achievement").Create(&awards).Error)
}
