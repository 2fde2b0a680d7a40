package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"employee-tracker/internal/dto"
	"employee-tracker/internal/service"
	"employee-tracker/pkg/response"
	"employee-tracker/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validation.Register(); err != nil {
		panic(err)
	}
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	registerResult *dto.TokenResponse
	registerErr    error
	loginResult    *dto.TokenResponse
	loginErr       error
	logoutErr      error
	meResult       *dto.CurrentUserResponse
	meErr          error

	loggedOut *service.Principal
}

func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest) (*dto.TokenResponse, error) {
	return m.registerResult, m.registerErr
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, p *service.Principal) error {
	m.loggedOut = p
	return m.logoutErr
}
func (m *mockAuthService) Authenticate(_ context.Context, _ string) (*service.Principal, error) {
	return nil, service.ErrUnauthenticated
}
func (m *mockAuthService) Me(_ context.Context, _ string) (*dto.CurrentUserResponse, error) {
	return m.meResult, m.meErr
}

// ── Mock DepartmentService ──

type mockDepartmentService struct {
	result    *dto.DepartmentResponse
	list      []dto.DepartmentResponse
	total     int64
	err       error
	gotCaller string
}

func (m *mockDepartmentService) Create(_ context.Context, _ *dto.DepartmentRequest, callerID string) (*dto.DepartmentResponse, error) {
	m.gotCaller = callerID
	return m.result, m.err
}
func (m *mockDepartmentService) GetByID(_ context.Context, _, callerID string) (*dto.DepartmentResponse, error) {
	m.gotCaller = callerID
	return m.result, m.err
}
func (m *mockDepartmentService) List(_ context.Context, _ *dto.DepartmentListRequest, callerID string) ([]dto.DepartmentResponse, int64, error) {
	m.gotCaller = callerID
	return m.list, m.total, m.err
}
func (m *mockDepartmentService) Update(_ context.Context, _ string, _ *dto.DepartmentRequest, callerID string) (*dto.DepartmentResponse, error) {
	m.gotCaller = callerID
	return m.result, m.err
}
func (m *mockDepartmentService) Delete(_ context.Context, _, callerID string) error {
	m.gotCaller = callerID
	return m.err
}

// ── Mock AchievementService ──

type mockAchievementService struct {
	result *dto.AchievementResponse
	err    error
}

func (m *mockAchievementService) Create(_ context.Context, _ *dto.AchievementRequest, _ string) (*dto.AchievementResponse, error) {
	return m.result, m.err
}
func (m *mockAchievementService) GetByID(_ context.Context, _, _ string) (*dto.AchievementResponse, error) {
	return m.result, m.err
}
func (m *mockAchievementService) List(_ context.Context, _ *dto.AchievementListRequest, _ string) ([]dto.AchievementResponse, int64, error) {
	return nil, 0, m.err
}
func (m *mockAchievementService) Update(_ context.Context, _ string, _ *dto.AchievementRequest, _ string) (*dto.AchievementResponse, error) {
	return m.result, m.err
}
func (m *mockAchievementService) Delete(_ context.Context, _, _ string) error {
	return m.err
}

// ── Mock EmployeeService ──

type mockEmployeeService struct {
	result *dto.EmployeeResponse
	list   []dto.EmployeeResponse
	total  int64
	err    error

	gotCreate *dto.EmployeeRequest
	gotUpdate *dto.EmployeeRequest
	gotPatch  *dto.PatchEmployeeRequest
	gotList   *dto.EmployeeListRequest
}

func (m *mockEmployeeService) Create(_ context.Context, req *dto.EmployeeRequest, _ string) (*dto.EmployeeResponse, error) {
	m.gotCreate = req
	return m.result, m.err
}
func (m *mockEmployeeService) GetByID(_ context.Context, _, _ string) (*dto.EmployeeResponse, error) {
	return m.result, m.err
}
func (m *mockEmployeeService) List(_ context.Context, req *dto.EmployeeListRequest, _ string) ([]dto.EmployeeResponse, int64, error) {
	m.gotList = req
	return m.list, m.total, m.err
}
func (m *mockEmployeeService) Update(_ context.Context, _ string, req *dto.EmployeeRequest, _ string) (*dto.EmployeeResponse, error) {
	m.gotUpdate = req
	return m.result, m.err
}
func (m *mockEmployeeService) Patch(_ context.Context, _ string, req *dto.PatchEmployeeRequest, _ string) (*dto.EmployeeResponse, error) {
	m.gotPatch = req
	return m.result, m.err
}
func (m *mockEmployeeService) Delete(_ context.Context, _, _ string) error {
	return m.err
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportEmployees(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) AwardCalendar(_ context.Context, _, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setAuth(c *gin.Context) {
	c.Set(CtxUserID, "test-user-id")
	c.Set(CtxTokenJTI, "test-jti")
	c.Set(CtxTokenExp, time.Now().Add(15*time.Minute))
}

// withAuth 模拟认证中间件
func withAuth(h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		setAuth(c)
		h(c)
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func doRequest(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(w *httptest.ResponseRecorder) response.ErrorBody {
	var resp response.ErrorBody
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func validEmployee() map[string]interface{} {
	return map[string]interface{}{
		"name":    "Carol",
		"email":   "carol@example.com",
		"phone":   "+1 (555) 0100",
		"address": "1 Main St",
	}
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Register_Success(t *testing.T) {
	mock := &mockAuthService{
		registerResult: &dto.TokenResponse{Token: "tok", UserID: "u-1", Email: "alice@example.com"},
	}
	h := NewAuthHandler(mock)

	r := gin.New()
	r.POST("/register/", h.Register)
	w := doRequest(r, "POST", "/register/", jsonBody(dto.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "s3cret",
	}))

	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201，实际=%d", w.Code)
	}
	var body dto.TokenResponse
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Token != "tok" || body.UserID != "u-1" {
		t.Errorf("响应内容不符: %+v", body)
	}
}

func TestAuthHandler_Register_ValidationError(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.POST("/register/", h.Register)
	w := doRequest(r, "POST", "/register/", jsonBody(map[string]string{
		"username": "alice", "email": "not-an-email",
	}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际=%d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 10001 {
		t.Errorf("期望 code=10001，实际=%d", resp.Code)
	}
	if _, ok := resp.Errors["email"]; !ok {
		t.Errorf("期望 email 字段错误，实际=%v", resp.Errors)
	}
	if _, ok := resp.Errors["password"]; !ok {
		t.Errorf("期望 password 字段错误，实际=%v", resp.Errors)
	}
}

func TestAuthHandler_Register_PasswordTooLong(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.POST("/register/", h.Register)
	w := doRequest(r, "POST", "/register/", jsonBody(dto.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: strings.Repeat("p", 100),
	}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际=%d", w.Code)
	}
	if _, ok := parseResponse(w).Errors["password"]; !ok {
		t.Errorf("期望 password 字段错误")
	}
}

func TestAuthHandler_Register_PasswordBytesTooLong(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{registerErr: service.ErrPasswordTooLong})

	r := gin.New()
	r.POST("/register/", h.Register)
	w := doRequest(r, "POST", "/register/", jsonBody(dto.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: strings.Repeat("密", 30),
	}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际=%d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 10001 {
		t.Errorf("期望 code=10001，实际=%d", resp.Code)
	}
	if _, ok := resp.Errors["password"]; !ok {
		t.Errorf("期望 password 字段错误，实际=%v", resp.Errors)
	}
}

func TestAuthHandler_Register_UsernameTaken(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{registerErr: service.ErrUsernameExists})

	r := gin.New()
	r.POST("/register/", h.Register)
	w := doRequest(r, "POST", "/register/", jsonBody(dto.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "x",
	}))

	if w.Code != http.StatusConflict {
		t.Errorf("期望 409，实际=%d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11002 {
		t.Errorf("期望 code=11002，实际=%d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.POST("/login/", h.Login)
	w := doRequest(r, "POST", "/login/", strings.NewReader("invalid json"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际=%d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	r := gin.New()
	r.POST("/login/", h.Login)
	w := doRequest(r, "POST", "/login/", jsonBody(dto.LoginRequest{Username: "alice", Password: "wrong"}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际=%d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11001 {
		t.Errorf("期望 code=11001，实际=%d", resp.Code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	r := gin.New()
	r.POST("/logout/", withAuth(h.Logout))
	r.POST("/logout-anon/", h.Logout)

	w := doRequest(r, "POST", "/logout/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际=%d", w.Code)
	}
	if mock.loggedOut == nil || mock.loggedOut.TokenID != "test-jti" {
		t.Errorf("期望以当前令牌登出，实际=%+v", mock.loggedOut)
	}

	w = doRequest(r, "POST", "/logout-anon/", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("未认证登出期望 401，实际=%d", w.Code)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	mock := &mockAuthService{meResult: &dto.CurrentUserResponse{UserID: "test-user-id", Username: "alice"}}
	h := NewAuthHandler(mock)

	r := gin.New()
	r.GET("/me/", withAuth(h.Me))
	w := doRequest(r, "GET", "/me/", nil)

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际=%d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// DepartmentHandler Tests
// ═══════════════════════════════════════════════════════════

func TestDepartmentHandler_List(t *testing.T) {
	mock := &mockDepartmentService{
		list:  []dto.DepartmentResponse{{ID: "d-1", Name: "Engineering"}},
		total: 21,
	}
	h := NewDepartmentHandler(mock)

	r := gin.New()
	r.GET("/departments/", withAuth(h.ListDepartments))
	w := doRequest(r, "GET", "/departments/?page=2&page_size=10", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际=%d", w.Code)
	}
	var page response.PageData
	json.Unmarshal(w.Body.Bytes(), &page)
	if page.Count != 21 || page.Page != 2 || page.PageSize != 10 || page.TotalPages != 3 {
		t.Errorf("分页信息不符: %+v", page)
	}
	if mock.gotCaller != "test-user-id" {
		t.Errorf("期望调用方=test-user-id，实际=%s", mock.gotCaller)
	}
}

func TestDepartmentHandler_List_PageSizeTooLarge(t *testing.T) {
	h := NewDepartmentHandler(&mockDepartmentService{})

	r := gin.New()
	r.GET("/departments/", withAuth(h.ListDepartments))
	w := doRequest(r, "GET", "/departments/?page_size=1000", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际=%d", w.Code)
	}
}

func TestDepartmentHandler_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		method   string
		wantHTTP int
		wantCode int
	}{
		{"不存在", service.ErrDepartmentNotFound, "GET", http.StatusNotFound, 13001},
		{"名称冲突", service.ErrDepartmentNameExists, "POST", http.StatusConflict, 13002},
		{"内部错误", errFake, "GET", http.StatusInternalServerError, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewDepartmentHandler(&mockDepartmentService{err: tt.err})
			r := gin.New()
			r.GET("/departments/:id/", withAuth(h.GetDepartment))
			r.POST("/departments/", withAuth(h.CreateDepartment))

			path := "/departments/d-1/"
			var body io.Reader
			if tt.method == "POST" {
				path = "/departments/"
				body = jsonBody(dto.DepartmentRequest{Name: "Engineering"})
			}
			w := doRequest(r, tt.method, path, body)

			if w.Code != tt.wantHTTP {
				t.Errorf("期望 %d，实际=%d", tt.wantHTTP, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("期望 code=%d，实际=%d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestDepartmentHandler_Create_NameTooLong(t *testing.T) {
	h := NewDepartmentHandler(&mockDepartmentService{})

	r := gin.New()
	r.POST("/departments/", withAuth(h.CreateDepartment))
	w := doRequest(r, "POST", "/departments/", jsonBody(dto.DepartmentRequest{Name: strings.Repeat("x", 101)}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际=%d", w.Code)
	}
	if resp := parseResponse(w); resp.Errors["name"] == "" {
		t.Errorf("期望 name 字段错误，实际=%v", resp.Errors)
	}
}

func TestDepartmentHandler_Delete(t *testing.T) {
	h := NewDepartmentHandler(&mockDepartmentService{})

	r := gin.New()
	r.DELETE("/departments/:id/", withAuth(h.DeleteDepartment))
	w := doRequest(r, "DELETE", "/departments/d-1/", nil)

	if w.Code != http.StatusNoContent {
		t.Errorf("期望 204，实际=%d", w.Code)
	}
}

func TestDepartmentHandler_Unauthenticated(t *testing.T) {
	h := NewDepartmentHandler(&mockDepartmentService{})

	r := gin.New()
	r.GET("/departments/", h.ListDepartments)
	w := doRequest(r, "GET", "/departments/", nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际=%d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AchievementHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAchievementHandler_Errors(t *testing.T) {
	h := NewAchievementHandler(&mockAchievementService{err: service.ErrAchievementNameExists})

	r := gin.New()
	r.PUT("/achievements/:id/", withAuth(h.UpdateAchievement))
	w := doRequest(r, "PUT", "/achievements/a-1/", jsonBody(dto.AchievementRequest{Name: "MVP"}))

	if w.Code != http.StatusConflict {
		t.Errorf("期望 409，实际=%d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 14002 {
		t.Errorf("期望 code=14002，实际=%d", resp.Code)
	}
}

func TestAchievementHandler_Get_NotFound(t *testing.T) {
	h := NewAchievementHandler(&mockAchievementService{err: service.ErrAchievementNotFound})

	r := gin.New()
	r.GET("/achievements/:id/", withAuth(h.GetAchievement))
	w := doRequest(r, "GET", "/achievements/a-1/", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404，实际=%d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// EmployeeHandler Tests
// ═══════════════════════════════════════════════════════════

func TestEmployeeHandler_Create_Success(t *testing.T) {
	mock := &mockEmployeeService{result: &dto.EmployeeResponse{ID: "e-1", Name: "Carol"}}
	h := NewEmployeeHandler(mock)

	body := validEmployee()
	body["department_id"] = "d-1"
	body["achievements"] = []map[string]string{{"achievement_id": "a-1", "achievement_date": "2024-01-15"}}

	r := gin.New()
	r.POST("/employees/", withAuth(h.CreateEmployee))
	w := doRequest(r, "POST", "/employees/", jsonBody(body))

	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201，实际=%d，body=%s", w.Code, w.Body.String())
	}
	if mock.gotCreate == nil || len(mock.gotCreate.Achievements) != 1 {
		t.Fatalf("期望传入 1 条获奖记录，实际=%+v", mock.gotCreate)
	}
	if mock.gotCreate.DepartmentID == nil || *mock.gotCreate.DepartmentID != "d-1" {
		t.Errorf("期望 department_id=d-1")
	}
}

func TestEmployeeHandler_Create_FieldErrors(t *testing.T) {
	h := NewEmployeeHandler(&mockEmployeeService{})

	tests := []struct {
		name   string
		mutate func(map[string]interface{})
		field  string
	}{
		{"电话格式", func(b map[string]interface{}) { b["phone"] = "call me maybe" }, "phone"},
		{"电话过长", func(b map[string]interface{}) { b["phone"] = "1234567890123456" }, "phone"},
		{"邮箱格式", func(b map[string]interface{}) { b["email"] = "nope" }, "email"},
		{"姓名缺失", func(b map[string]interface{}) { delete(b, "name") }, "name"},
		{"日期格式", func(b map[string]interface{}) {
			b["achievements"] = []map[string]string{{"achievement_id": "a-1", "achievement_date": "2024/01/15"}}
		}, "achievements[0].achievement_date"},
		{"成就 ID 缺失", func(b map[string]interface{}) {
			b["achievements"] = []map[string]string{{"achievement_date": "2024-01-15"}}
		}, "achievements[0].achievement_id"},
		{"类型错误", func(b map[string]interface{}) { b["name"] = 42 }, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validEmployee()
			tt.mutate(body)

			r := gin.New()
			r.POST("/employees/", withAuth(h.CreateEmployee))
			w := doRequest(r, "POST", "/employees/", jsonBody(body))

			if w.Code != http.StatusBadRequest {
				t.Fatalf("期望 400，实际=%d", w.Code)
			}
			resp := parseResponse(w)
			if _, ok := resp.Errors[tt.field]; !ok {
				t.Errorf("期望 %s 字段错误，实际=%v", tt.field, resp.Errors)
			}
		})
	}
}

func TestEmployeeHandler_BusinessErrors(t *testing.T) {
	tests := []struct {
		err      error
		wantHTTP int
		wantCode int
	}{
		{service.ErrEmployeeNotFound, http.StatusNotFound, 15001},
		{service.ErrEmployeeEmailExists, http.StatusConflict, 15002},
		{service.ErrAwardDuplicate, http.StatusConflict, 15003},
		{service.ErrDepartmentRef, http.StatusBadRequest, 15004},
		{service.ErrAchievementRef, http.StatusBadRequest, 15005},
		{service.ErrInvalidAwardDate, http.StatusBadRequest, 15006},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			h := NewEmployeeHandler(&mockEmployeeService{err: tt.err})
			r := gin.New()
			r.PUT("/employees/:id/", withAuth(h.UpdateEmployee))
			w := doRequest(r, "PUT", "/employees/e-1/", jsonBody(validEmployee()))

			if w.Code != tt.wantHTTP {
				t.Errorf("期望 %d，实际=%d", tt.wantHTTP, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("期望 code=%d，实际=%d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestEmployeeHandler_Put_MissingAchievements(t *testing.T) {
	mock := &mockEmployeeService{result: &dto.EmployeeResponse{ID: "e-1"}}
	h := NewEmployeeHandler(mock)

	r := gin.New()
	r.PUT("/employees/:id/", withAuth(h.UpdateEmployee))
	w := doRequest(r, "PUT", "/employees/e-1/", jsonBody(validEmployee()))

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际=%d", w.Code)
	}
	if len(mock.gotUpdate.Achievements) != 0 {
		t.Errorf("缺省 achievements 应为空列表，实际=%v", mock.gotUpdate.Achievements)
	}
}

func TestEmployeeHandler_Patch(t *testing.T) {
	mock := &mockEmployeeService{result: &dto.EmployeeResponse{ID: "e-1"}}
	h := NewEmployeeHandler(mock)

	r := gin.New()
	r.PATCH("/employees/:id/", withAuth(h.PatchEmployee))

	w := doRequest(r, "PATCH", "/employees/e-1/", strings.NewReader(`{"phone":"555-0199"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际=%d", w.Code)
	}
	if mock.gotPatch.DepartmentID.Set || mock.gotPatch.Achievements != nil {
		t.Errorf("未出现的字段不应被标记为已设置: %+v", mock.gotPatch)
	}

	w = doRequest(r, "PATCH", "/employees/e-1/", strings.NewReader(`{"department_id":null,"achievements":[]}`))
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际=%d", w.Code)
	}
	if !mock.gotPatch.DepartmentID.Set || mock.gotPatch.DepartmentID.Value != nil {
		t.Errorf("department_id=null 应为显式置空: %+v", mock.gotPatch.DepartmentID)
	}
	if mock.gotPatch.Achievements == nil || len(*mock.gotPatch.Achievements) != 0 {
		t.Errorf("achievements=[] 应为空列表")
	}
}

func TestEmployeeHandler_List(t *testing.T) {
	mock := &mockEmployeeService{list: []dto.EmployeeResponse{}, total: 0}
	h := NewEmployeeHandler(mock)

	r := gin.New()
	r.GET("/employees/", withAuth(h.ListEmployees))

	w := doRequest(r, "GET", "/employees/?department=d-1&search=car&ordering=-department__name", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际=%d", w.Code)
	}
	if mock.gotList.Department != "d-1" || mock.gotList.Search != "car" || mock.gotList.Ordering != "-department__name" {
		t.Errorf("查询参数绑定不符: %+v", mock.gotList)
	}

	w = doRequest(r, "GET", "/employees/?ordering=salary", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("不支持的排序字段期望 400，实际=%d", w.Code)
	}
}

func TestEmployeeHandler_Delete(t *testing.T) {
	h := NewEmployeeHandler(&mockEmployeeService{})

	r := gin.New()
	r.DELETE("/employees/:id/", withAuth(h.DeleteEmployee))
	w := doRequest(r, "DELETE", "/employees/e-1/", nil)

	if w.Code != http.StatusNoContent {
		t.Errorf("期望 204，实际=%d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_ExportEmployees(t *testing.T) {
	mock := &mockExportService{buf: bytes.NewBufferString("xlsx"), filename: "employees_20240115.xlsx"}
	h := NewExportHandler(mock)

	r := gin.New()
	r.GET("/employees/export/", withAuth(h.ExportEmployees))
	w := doRequest(r, "GET", "/employees/export/", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("Content-Type 不符: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "employees_20240115.xlsx") {
		t.Errorf("Content-Disposition 不符: %s", cd)
	}
}

func TestExportHandler_AwardCalendar_NotFound(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrEmployeeNotFound})

	r := gin.New()
	r.GET("/employees/:id/achievements.ics", withAuth(h.AwardCalendar))
	w := doRequest(r, "GET", "/employees/e-1/achievements.ics", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404，实际=%d", w.Code)
	}
}

var errFake = errors.New("boom")
