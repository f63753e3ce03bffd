package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/memory"
	authService "github.com/cmlabs-hris/payroll-backend-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/payroll-backend-go/internal/service/employee"
	payrollService "github.com/cmlabs-hris/payroll-backend-go/internal/service/payroll"
	reportService "github.com/cmlabs-hris/payroll-backend-go/internal/service/report"
	timesheetService "github.com/cmlabs-hris/payroll-backend-go/internal/service/timesheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	auth    auth.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	employeeRepo := memory.NewEmployeeRepository(store)
	collector := metrics.New()
	jwtService := jwt.NewJWTService(handlerTestSecret, time.Hour)
	authSvc := authService.NewAuthService(userRepo, jwtService)

	router := NewRouter(RouterConfig{
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		AllowedOrigins:   []string{"http://localhost:3000"},
		JWTService:       jwtService,
		Metrics:          collector,
		MetricsPath:      "/metrics",
		Pinger:           store,
		AuthHandler:      NewAuthHandler(authSvc),
		EmployeeHandler:  NewEmployeeHandler(employeeService.NewEmployeeService(employeeRepo)),
		TimesheetHandler: NewTimesheetHandler(timesheetService.NewTimesheetService(memory.NewTimesheetRepository(store), employeeRepo, collector)),
		PayrollHandler:   NewPayrollHandler(payrollService.NewPayrollService(store, memory.NewPayrollRepository(store), employeeRepo, payroll.DefaultRates(), collector)),
		ReportHandler:    NewReportHandler(reportService.NewReportService(memory.NewReportRepository(store))),
	})

	return &testServer{t: t, handler: router, auth: authSvc}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

// login seeds a user with role and returns its access token.
func (s *testServer) login(email string, role user.Role, employeeID *string) string {
	s.t.Helper()
	_, err := s.auth.CreateUser(context.Background(), auth.CreateUserRequest{
		Email: email, Password: "password123", Role: string(role), EmployeeID: employeeID,
	})
	require.NoError(s.t, err)

	rec := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": "password123"})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	var tokens auth.TokenResponse
	decode(s.t, rec, &tokens)
	return tokens.AccessToken
}

type createdEmployee struct {
	ID      string           `json:"id"`
	TaxInfo *json.RawMessage `json:"taxInfo"`
}

func (s *testServer) createEmployee(token, name string) createdEmployee {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/v1/employees", token, map[string]interface{}{
		"name":       name,
		"email":      strings.ToLower(name) + "@example.com",
		"department": "Engineering",
		"salary":     "60000",
		"hireDate":   "2022-01-01",
		"taxInfo":    map[string]interface{}{"taxId": "123-45-6789", "allowances": 2},
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	var emp createdEmployee
	decode(s.t, rec, &emp)
	return emp
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	s.login("admin@example.com", user.RoleAdmin, nil)

	rec := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "admin@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decode(t, rec, nil)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "password")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{not json"))
	out := httptest.NewRecorder()
	s.handler.ServeHTTP(out, req)
	assert.Equal(t, http.StatusBadRequest, out.Code)
}

func TestMe(t *testing.T) {
	s := newTestServer(t)
	token := s.login("manager@example.com", user.RoleManager, nil)

	rec := s.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me auth.UserResponse
	decode(t, rec, &me)
	assert.Equal(t, "manager@example.com", me.Email)
	assert.Equal(t, "manager", me.Role)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/employees", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/employees", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	other := jwt.NewJWTService("another-secret", time.Hour)
	forged, _, err := other.GenerateAccessToken("u1", "x@example.com", nil, user.RoleAdmin)
	require.NoError(t, err)
	rec = s.do(http.MethodGet, "/api/v1/employees", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEmployees_TaxInfoAndPermissions(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin@example.com", user.RoleAdmin, nil)
	manager := s.login("manager@example.com", user.RoleManager, nil)

	emp := s.createEmployee(admin, "Alice")
	assert.NotNil(t, emp.TaxInfo)

	rec := s.do(http.MethodGet, "/api/v1/employees/"+emp.ID, manager, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var seen createdEmployee
	decode(t, rec, &seen)
	assert.Nil(t, seen.TaxInfo)

	rec = s.do(http.MethodGet, "/api/v1/employees?search=ali", manager, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Employees  []createdEmployee `json:"employees"`
		TotalCount int64             `json:"totalCount"`
	}
	decode(t, rec, &list)
	require.Len(t, list.Employees, 1)
	assert.Nil(t, list.Employees[0].TaxInfo)

	rec = s.do(http.MethodDelete, "/api/v1/employees/"+emp.ID, manager, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPut, "/api/v1/employees/"+emp.ID, manager, map[string]string{"position": "Lead"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/employees", admin, map[string]interface{}{
		"name": "Dup", "email": "alice@example.com", "salary": "1", "hireDate": "2022-01-01",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/employees/"+emp.ID, admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/employees/does-not-exist", admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTimesheets_OwnershipAndReview(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin@example.com", user.RoleAdmin, nil)
	manager := s.login("manager@example.com", user.RoleManager, nil)

	alice := s.createEmployee(admin, "Alice")
	bob := s.createEmployee(admin, "Bob")
	aliceToken := s.login("alice.user@example.com", user.RoleEmployee, &alice.ID)

	sheet := map[string]interface{}{"date": "2024-03-04", "startTime": "09:00", "endTime": "18:00", "breakTime": 60}

	rec := s.do(http.MethodPost, "/api/v1/timesheets", aliceToken, sheet)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var own struct {
		ID         string  `json:"id"`
		EmployeeID string  `json:"employeeId"`
		TotalHours float64 `json:"totalHours"`
		Status     string  `json:"status"`
	}
	decode(t, rec, &own)
	assert.Equal(t, alice.ID, own.EmployeeID)
	assert.Equal(t, 8.0, own.TotalHours)

	sheet["employeeId"] = bob.ID
	rec = s.do(http.MethodPost, "/api/v1/timesheets", aliceToken, sheet)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/timesheets", manager, sheet)
	require.Equal(t, http.StatusCreated, rec.Code)
	var bobs struct {
		ID string `json:"id"`
	}
	decode(t, rec, &bobs)

	rec = s.do(http.MethodGet, "/api/v1/timesheets/"+bobs.ID, aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/timesheets?employeeId="+bob.ID, aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		TotalCount int64 `json:"totalCount"`
	}
	decode(t, rec, &list)
	assert.Equal(t, int64(1), list.TotalCount)

	rec = s.do(http.MethodPost, "/api/v1/timesheets/"+own.ID+"/approve", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/timesheets/"+own.ID+"/approve", manager, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &own)
	assert.Equal(t, "approved", own.Status)

	rec = s.do(http.MethodPost, "/api/v1/timesheets/"+own.ID+"/reject", manager, map[string]string{"rejectionReason": "late"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/timesheets/"+bobs.ID+"/reject", manager, map[string]string{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTimesheets_RejectWithoutBody(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin@example.com", user.RoleAdmin, nil)
	bob := s.createEmployee(admin, "Bob")

	sheet := map[string]interface{}{"employeeId": bob.ID, "date": "2024-03-04", "startTime": "09:00", "endTime": "17:00"}
	rec := s.do(http.MethodPost, "/api/v1/timesheets", admin, sheet)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	decode(t, rec, &created)

	rec = s.do(http.MethodPost, "/api/v1/timesheets/"+created.ID+"/reject", admin, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	env := decode(t, rec, nil)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "rejectionReason")
}

func TestTimesheets_UnlinkedEmployeeForbidden(t *testing.T) {
	s := newTestServer(t)
	token := s.login("loose@example.com", user.RoleEmployee, nil)

	rec := s.do(http.MethodGet, "/api/v1/timesheets", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPayrolls_Lifecycle(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin@example.com", user.RoleAdmin, nil)
	manager := s.login("manager@example.com", user.RoleManager, nil)

	alice := s.createEmployee(admin, "Alice")
	bob := s.createEmployee(admin, "Bob")
	aliceToken := s.login("alice.user@example.com", user.RoleEmployee, &alice.ID)

	body := map[string]interface{}{"startDate": "2024-03-01", "endDate": "2024-03-31", "type": "monthly"}

	rec := s.do(http.MethodPost, "/api/v1/payroll", manager, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/payroll/preview", admin, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/v1/payroll", admin, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var run struct {
		ID            string `json:"id"`
		Reference     string `json:"reference"`
		Status        string `json:"status"`
		EmployeeCount int    `json:"employeeCount"`
		TotalAmount   string `json:"totalAmount"`
	}
	decode(t, rec, &run)
	assert.True(t, strings.HasPrefix(run.Reference, "PAY-"))
	assert.Equal(t, "draft", run.Status)
	assert.Equal(t, 2, run.EmployeeCount)
	assert.Equal(t, "10000", run.TotalAmount)

	rec = s.do(http.MethodGet, "/api/v1/payroll", manager, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/payroll/"+run.ID+"/process", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &run)
	assert.Equal(t, "processed", run.Status)

	rec = s.do(http.MethodPut, "/api/v1/payroll/"+run.ID, admin, map[string]string{"notes": "late"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/payroll/"+run.ID, admin, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/payroll/"+run.ID+"/process", admin, map[string]string{"status": "paid"})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &run)
	assert.Equal(t, "paid", run.Status)

	rec = s.do(http.MethodPost, "/api/v1/payroll/"+run.ID+"/cancel", admin, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// payslips: own or payroll viewer
	rec = s.do(http.MethodGet, "/api/v1/payroll/"+run.ID+"/payslips/"+alice.ID, aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var slip payroll.PayslipResponse
	decode(t, rec, &slip)
	assert.Equal(t, run.Reference, slip.Reference)
	assert.Equal(t, "3000", slip.Item.NetPay.String())

	rec = s.do(http.MethodGet, "/api/v1/payroll/"+run.ID+"/payslips/"+bob.ID, aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/payroll/"+run.ID+"/payslips/"+bob.ID+"?format=pdf", manager, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestPayrolls_NoEligibleEmployees(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin@example.com", user.RoleAdmin, nil)

	rec := s.do(http.MethodPost, "/api/v1/payroll", admin, map[string]interface{}{
		"startDate": "2024-03-01", "endDate": "2024-03-31", "type": "monthly",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestReports(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin@example.com", user.RoleAdmin, nil)
	manager := s.login("manager@example.com", user.RoleManager, nil)
	s.createEmployee(admin, "Alice")
	employeeToken := s.login("plain@example.com", user.RoleEmployee, nil)

	rec := s.do(http.MethodGet, "/api/v1/reports/department-summary", employeeToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	for _, path := range []string{"payroll-summary", "timesheet", "department-summary", "top-employees", "overtime-leaders", "timesheet-trends"} {
		rec = s.do(http.MethodGet, "/api/v1/reports/"+path, manager, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec = s.do(http.MethodGet, "/api/v1/reports/top-employees?limit=abc", manager, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/reports/top-employees?limit=500", manager, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/reports/export/employees?format=csv", manager, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "employees-")
	assert.Contains(t, rec.Body.String(), "Alice")

	rec = s.do(http.MethodGet, "/api/v1/reports/export/secrets", manager, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestOperationalEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return assert.AnError }

func TestReadiness_Unavailable(t *testing.T) {
	rec := httptest.NewRecorder()
	Readiness(failingPinger{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
