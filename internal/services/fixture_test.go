package services

import (
	"context"
	"testing"
	"time"

	"employee-system/internal/entities"
	"employee-system/internal/testutil"
	"employee-system/pkg/constants"
	"employee-system/pkg/contextkeys"
	apperrors "employee-system/pkg/errors"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fixed clock: Monday 3 March 2025
var testNow = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store       *testutil.Store
	roles       map[string]uint64
	accounting  *LeaveAccounting
	managers    *ManagerAssignment
	departments *DepartmentService
	employees   *EmployeeService
	leaves      *LeaveService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()
	store := testutil.NewStore()
	store.Now = func() time.Time { return testNow }

	accounting := NewLeaveAccounting(store.LeaveBalances(), store.Employees(), logger)
	managers := NewManagerAssignment(store.Employees(), store.Departments(), store.Roles(), store.AuditLogs(), logger)

	employees := NewEmployeeService(store.TxManager(), store.Employees(), store.Departments(), store.Roles(),
		store.Accounts(), store.AuditLogs(), store.LeaveRequests(), accounting, managers, logger)
	employees.now = func() time.Time { return testNow }

	leaves := NewLeaveService(store.TxManager(), store.LeaveRequests(), store.Employees(), accounting, logger)
	leaves.now = func() time.Time { return testNow }

	return &fixture{
		store:       store,
		roles:       store.SeedRoles(),
		accounting:  accounting,
		managers:    managers,
		departments: NewDepartmentService(store.TxManager(), store.Departments(), store.Employees(), store.AuditLogs(), managers, logger),
		employees:   employees,
		leaves:      leaves,
	}
}

// addEmployee stores an active employee of role in departmentID with the given quota.
func (f *fixture) addEmployee(name, role string, departmentID uint64, quota int) entities.Employee {
	roleID := f.roles[role]
	return f.store.AddEmployee(entities.Employee{
		FullName:     name,
		Email:        name + "@example.com",
		Role:         role,
		RoleID:       &roleID,
		IsActive:     true,
		DepartmentID: departmentID,
		LeaveBalance: quota,
	})
}

// addManagedDepartment creates a department headed by a new manager.
func (f *fixture) addManagedDepartment(name, managerName string) (entities.Department, entities.Employee) {
	dept := f.store.AddDepartment(name, nil)
	manager := f.addEmployee(managerName, constants.RoleManager, dept.ID, 20)
	f.store.SetDepartmentManager(dept.ID, &manager.ID)
	dept, _ = f.store.Department(dept.ID)
	return dept, manager
}

func (f *fixture) mustEmployee(t *testing.T, id uint64) entities.Employee {
	t.Helper()
	e, ok := f.store.Employee(id)
	require.True(t, ok, "employee %d missing", id)
	return e
}

func (f *fixture) mustDepartment(t *testing.T, id uint64) entities.Department {
	t.Helper()
	d, ok := f.store.Department(id)
	require.True(t, ok, "department %d missing", id)
	return d
}

func asCaller(employeeID uint64, role string) context.Context {
	ctx := context.WithValue(context.Background(), contextkeys.EmployeeIDKey, employeeID)
	return context.WithValue(ctx, contextkeys.RoleKey, role)
}

func requireKind(t *testing.T, err error, kind apperrors.Kind, message string) {
	t.Helper()
	require.Error(t, err)
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, kind, httpErr.Kind)
	if message != "" {
		require.Equal(t, message, httpErr.Message)
	}
}

func ref(v uint64) *uint64 { return &v }
