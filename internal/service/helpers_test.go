package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"employee-tracker/config"
	"employee-tracker/internal/dto"
	"employee-tracker/internal/repository"
	"employee-tracker/pkg/database"
	"employee-tracker/pkg/token"
)

// ── 测试辅助 ──

type testEnv struct {
	svc  *Service
	repo *repository.Repository
	cfg  *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithRevoker(t, nil)
}

func newTestEnvWithRevoker(t *testing.T, revoker TokenRevoker) *testEnv {
	t.Helper()
	repo := repository.NewRepository(database.NewTestDB(t))
	cfg := &config.Config{
		Auth: config.AuthConfig{
			TokenSecret: "test-secret-0123456789abcdef",
			TokenTTL:    time.Hour,
			BcryptCost:  bcrypt.MinCost,
		},
	}
	svc := NewService(cfg, repo, token.NewManager(&cfg.Auth), revoker, zap.NewNop())
	return &testEnv{svc: svc, repo: repo, cfg: cfg}
}

// register 注册用户并返回用户 ID 与令牌
func (e *testEnv) register(t *testing.T, username string) (string, string) {
	t.Helper()
	resp, err := e.svc.Auth.Register(context.Background(), &dto.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "pass-" + username,
	})
	require.NoError(t, err)
	return resp.UserID, resp.Token
}

func (e *testEnv) department(t *testing.T, callerID, name string) string {
	t.Helper()
	d, err := e.svc.Department.Create(context.Background(), &dto.DepartmentRequest{Name: name}, callerID)
	require.NoError(t, err)
	return d.ID
}

func (e *testEnv) achievement(t *testing.T, callerID, name string) string {
	t.Helper()
	a, err := e.svc.Achievement.Create(context.Background(), &dto.AchievementRequest{Name: name}, callerID)
	require.NoError(t, err)
	return a.ID
}

func (e *testEnv) employee(t *testing.T, callerID string, req *dto.EmployeeRequest) *dto.EmployeeResponse {
	t.Helper()
	emp, err := e.svc.Employee.Create(context.Background(), req, callerID)
	require.NoError(t, err)
	return emp
}

func employeeReq(name, email string) *dto.EmployeeRequest {
	return &dto.EmployeeRequest{
		Name:    name,
		Email:   email,
		Phone:   "555-0100",
		Address: "1 Main St",
	}
}

func strPtr(s string) *string { return &s }
