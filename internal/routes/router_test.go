package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"employee-system/internal/entities"
	"employee-system/internal/testutil"
	"employee-system/pkg/config"
	"employee-system/pkg/constants"
	"employee-system/pkg/customvalidator"
	"employee-system/pkg/service"
	"employee-system/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Body    json.RawMessage `json:"body"`
}

type RouterTestSuite struct {
	suite.Suite
	echo  *echo.Echo
	store *testutil.Store
	jwt   service.JWTService
	admin entities.Employee
}

func (s *RouterTestSuite) SetupTest() {
	s.store = testutil.NewStore()
	roles := s.store.SeedRoles()
	s.jwt = service.NewJWTService("router-test-secret", time.Hour, zap.NewNop())

	hq := s.store.AddDepartment("Administration", nil)
	adminRole := roles[constants.RoleAdmin]
	s.admin = s.store.AddEmployee(entities.Employee{
		FullName: "Ada Admin", Email: "ada@example.com", Role: constants.RoleAdmin, RoleID: &adminRole,
		IsActive: true, DepartmentID: hq.ID, LeaveBalance: 20,
	})

	e := echo.New()
	v := validator.New()
	s.Require().NoError(customvalidator.RegisterCustomValidations(v))
	e.Validator = utils.NewValidator(v)

	repos := &Repositories{
		TxManager:     s.store.TxManager(),
		Employees:     s.store.Employees(),
		Departments:   s.store.Departments(),
		LeaveRequests: s.store.LeaveRequests(),
		LeaveBalances: s.store.LeaveBalances(),
		AuditLogs:     s.store.AuditLogs(),
		Roles:         s.store.Roles(),
		Accounts:      s.store.Accounts(),
		Dashboard:     s.store.Dashboard(),
		Cache:         testutil.NewCache(),
	}
	cfg := &config.Config{Auth: config.AuthConfig{MaxLoginAttempts: 5, LockoutDuration: time.Minute}}
	InitRouter(e, repos, s.jwt, cfg, zap.NewNop())
	s.echo = e
}

func (s *RouterTestSuite) token(employeeID uint64, role string) string {
	token, err := s.jwt.GenerateToken(1000+employeeID, employeeID, role)
	s.Require().NoError(err)
	return token
}

func (s *RouterTestSuite) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get(echo.HeaderContentType) != "" && bytes.HasPrefix(rec.Body.Bytes(), []byte("{")) {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (s *RouterTestSuite) decode(raw json.RawMessage, out interface{}) {
	s.Require().NoError(json.Unmarshal(raw, out))
}

func (s *RouterTestSuite) TestRejectsMissingToken() {
	rec, env := s.do(http.MethodGet, "/api/departments", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.False(env.Status)
}

func (s *RouterTestSuite) TestRoleGuards() {
	employeeToken := s.token(s.admin.ID, constants.RoleEmployee)

	rec, _ := s.do(http.MethodGet, "/api/departments", employeeToken, nil)
	s.Equal(http.StatusForbidden, rec.Code)

	managerToken := s.token(s.admin.ID, constants.RoleManager)
	rec, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/employee/%d", s.admin.ID), managerToken, nil)
	s.Equal(http.StatusForbidden, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/manager/subordinates", s.token(s.admin.ID, constants.RoleAdmin), nil)
	s.Equal(http.StatusForbidden, rec.Code)

	rec, env := s.do(http.MethodGet, "/api/roles", employeeToken, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.True(env.Status)
}

func (s *RouterTestSuite) TestDepartmentAndEmployeeFlow() {
	adminToken := s.token(s.admin.ID, constants.RoleAdmin)

	rec, env := s.do(http.MethodPost, "/api/department", adminToken, map[string]interface{}{"name": "Sales"})
	s.Require().Equal(http.StatusCreated, rec.Code, env.Message)
	var dept struct {
		ID   uint64 `json:"id"`
		Name string `json:"name"`
	}
	s.decode(env.Body, &dept)
	s.Equal("Sales", dept.Name)

	// an Employee cannot join a department without a manager
	rec, env = s.do(http.MethodPost, "/api/employee", adminToken, map[string]interface{}{
		"full_name": "Eve", "email": "eve@example.com", "role": constants.RoleEmployee,
		"department_id": dept.ID, "leave_balance": 10, "is_active": true,
	})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Please assign a Manager to the Department first.", env.Message)

	rec, env = s.do(http.MethodPost, "/api/employee", adminToken, map[string]interface{}{
		"full_name": "Bob", "email": "bob@example.com", "role": constants.RoleManager,
		"department_id": dept.ID, "leave_balance": 15, "is_active": true,
	})
	s.Require().Equal(http.StatusCreated, rec.Code, env.Message)
	var boss struct {
		ID uint64 `json:"id"`
	}
	s.decode(env.Body, &boss)

	rec, env = s.do(http.MethodPost, "/api/employee", adminToken, map[string]interface{}{
		"full_name": "Eve", "email": "eve@example.com", "role": constants.RoleEmployee,
		"department_id": dept.ID, "leave_balance": 10, "is_active": true,
	})
	s.Require().Equal(http.StatusCreated, rec.Code, env.Message)
	var eve struct {
		ID        uint64  `json:"id"`
		ManagerID *uint64 `json:"manager_id"`
	}
	s.decode(env.Body, &eve)
	s.Require().NotNil(eve.ManagerID)
	s.Equal(boss.ID, *eve.ManagerID)

	rec, env = s.do(http.MethodGet, "/api/employees?withPagination=true&limit=2", adminToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var page struct {
		List       []json.RawMessage `json:"list"`
		Pagination struct {
			TotalCount uint64 `json:"total_count"`
		} `json:"pagination"`
	}
	s.decode(env.Body, &page)
	s.Len(page.List, 2)

	rec, env = s.do(http.MethodGet, "/api/manager/subordinates", s.token(boss.ID, constants.RoleManager), nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var subordinates []json.RawMessage
	s.decode(env.Body, &subordinates)
	s.Len(subordinates, 1)

	rec, env = s.do(http.MethodDelete, fmt.Sprintf("/api/department/%d", dept.ID), adminToken, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Cannot delete department while employees are still assigned.", env.Message)
}

func (s *RouterTestSuite) TestValidationErrors() {
	adminToken := s.token(s.admin.ID, constants.RoleAdmin)

	rec, env := s.do(http.MethodPost, "/api/employee", adminToken, map[string]interface{}{
		"full_name": "Nobody", "email": "not-an-email", "role": constants.RoleEmployee, "department_id": 1,
	})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(env.Message, "Email")

	rec, _ = s.do(http.MethodGet, "/api/employee/abc", adminToken, nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/employee/999", adminToken, nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("Employee not found.", env.Message)
}

func (s *RouterTestSuite) TestLeaveApplyAndApprove() {
	dept, boss := s.seedTeam()
	eve := s.store.AddEmployee(entities.Employee{
		FullName: "Eve", Email: "eve@example.com", Role: constants.RoleEmployee,
		IsActive: true, DepartmentID: dept.ID, ManagerID: &boss.ID, LeaveBalance: 10,
	})
	s.store.AddBalance(eve.ID, 10, 0)
	eveToken := s.token(eve.ID, constants.RoleEmployee)

	// Monday 11 to Friday 15 March 2030
	rec, env := s.do(http.MethodPost, "/api/leave/apply", eveToken, map[string]interface{}{
		"start_date": "2030-03-11", "end_date": "2030-03-15", "reason": "holiday",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, env.Message)
	var leave struct {
		ID           uint64 `json:"id"`
		Status       string `json:"status"`
		BusinessDays int    `json:"business_days"`
	}
	s.decode(env.Body, &leave)
	s.Equal(constants.LeaveStatusPending, leave.Status)
	s.Equal(5, leave.BusinessDays)

	rec, _ = s.do(http.MethodPost, fmt.Sprintf("/api/leave/%d/status", leave.ID), eveToken, map[string]string{"status": "Approved"})
	s.Equal(http.StatusForbidden, rec.Code)

	bossToken := s.token(boss.ID, constants.RoleManager)
	rec, env = s.do(http.MethodGet, "/api/manager/approve-list", bossToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var queue []json.RawMessage
	s.decode(env.Body, &queue)
	s.Len(queue, 1)

	rec, env = s.do(http.MethodPost, fmt.Sprintf("/api/leave/%d/status", leave.ID), bossToken, map[string]string{"status": "approved"})
	s.Require().Equal(http.StatusOK, rec.Code, env.Message)
	balance, _ := s.store.Balance(eve.ID)
	s.Equal(5, balance.LeavesTaken)

	rec, env = s.do(http.MethodPost, "/api/leave/apply", eveToken, map[string]interface{}{
		"start_date": "2030-03-18", "end_date": "2030-03-29",
	})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Insufficient balance. Available leave: 5, Requested leave: 10", env.Message)
	var details map[string]int
	s.decode(env.Body, &details)
	s.Equal(5, details["available"])

	rec, env = s.do(http.MethodGet, "/api/leave/my", eveToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var mine []json.RawMessage
	s.decode(env.Body, &mine)
	s.Len(mine, 1)
}

func (s *RouterTestSuite) TestRegisterAndLogin() {
	rec, env := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": "ada@example.com", "password": "correct-horse"})
	s.Require().Equal(http.StatusCreated, rec.Code, env.Message)

	rec, env = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ada@example.com", "password": "wrong-horse"})
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("Invalid email or password.", env.Message)

	rec, env = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ada@example.com", "password": "correct-horse"})
	s.Require().Equal(http.StatusOK, rec.Code, env.Message)
	var login struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	s.decode(env.Body, &login)
	s.Equal(constants.RoleAdmin, login.Role)

	rec, env = s.do(http.MethodGet, "/api/me/profile", login.Token, nil)
	s.Require().Equal(http.StatusOK, rec.Code, env.Message)
	var profile struct {
		ManagerName string `json:"manager_name"`
	}
	s.decode(env.Body, &profile)
	s.Equal(constants.NotAvailable, profile.ManagerName)

	rec, _ = s.do(http.MethodPost, "/api/auth/logout", login.Token, nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *RouterTestSuite) TestExportEmployees() {
	s.seedTeam()

	req := httptest.NewRequest(http.MethodGet, "/api/employees/export", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token(s.admin.ID, constants.RoleAdmin))
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Header().Get(echo.HeaderContentDisposition), "employees_")

	book, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	s.Require().NoError(err)
	defer book.Close()
	rows, err := book.GetRows("Employees")
	s.Require().NoError(err)
	s.Require().Len(rows, 3) // header, Bob, Ada
	s.Equal("Full name", rows[0][1])
	s.Equal("Bob", rows[1][1])
}

func (s *RouterTestSuite) seedTeam() (entities.Department, entities.Employee) {
	dept := s.store.AddDepartment("Sales", nil)
	boss := s.store.AddEmployee(entities.Employee{
		FullName: "Bob", Email: "bob@example.com", Role: constants.RoleManager,
		IsActive: true, DepartmentID: dept.ID, LeaveBalance: 15,
	})
	s.store.SetDepartmentManager(dept.ID, &boss.ID)
	dept, _ = s.store.Department(dept.ID)
	return dept, boss
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}
