package services

import (
	"context"
	"testing"
	"time"

	"employee-system/internal/dto"
	"employee-system/internal/entities"
	"employee-system/pkg/constants"
	apperrors "employee-system/pkg/errors"
	"employee-system/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPayload(name, role string, departmentID uint64) dto.CreateEmployeeDTO {
	return dto.CreateEmployeeDTO{
		FullName:     name,
		Email:        name + "@example.com",
		PhoneNumber:  "+15550100",
		Role:         role,
		IsActive:     true,
		DepartmentID: departmentID,
		LeaveBalance: 18,
	}
}

func updatePayload(e entities.Employee) dto.UpdateEmployeeDTO {
	return dto.UpdateEmployeeDTO{
		ID:           e.ID,
		FullName:     e.FullName,
		Email:        e.Email,
		PhoneNumber:  e.PhoneNumber,
		Role:         e.Role,
		IsActive:     e.IsActive,
		DepartmentID: e.DepartmentID,
		LeaveBalance: e.LeaveBalance,
	}
}

func TestCreateEmployeeReportsToDepartmentManager(t *testing.T) {
	f := newFixture(t)
	dept, boss := f.addManagedDepartment("Sales", "bob")

	out, err := f.employees.CreateEmployee(context.Background(), createPayload("eve", constants.RoleEmployee, dept.ID))
	require.NoError(t, err)
	assert.Equal(t, boss.ID, out.ManagerID.Uint64)
	assert.Equal(t, "Sales", out.DepartmentName)
	assert.Equal(t, f.roles[constants.RoleEmployee], out.RoleID.Uint64)

	balance, ok := f.store.Balance(out.ID)
	require.True(t, ok)
	assert.Equal(t, 18, balance.TotalLeaves)
	assert.Zero(t, balance.LeavesTaken)

	logs := f.store.EmployeeLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, constants.OperationCreated, logs[0].Operation)
}

func TestCreateEmployeeInUnmanagedDepartment(t *testing.T) {
	f := newFixture(t)
	dept := f.store.AddDepartment("Empty", nil)

	_, err := f.employees.CreateEmployee(context.Background(), createPayload("eve", constants.RoleEmployee, dept.ID))
	requireKind(t, err, apperrors.KindValidation, "Please assign a Manager to the Department first.")

	list, total, err := f.employees.GetEmployees(context.Background(), types.Filter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
}

func TestCreateManagerNeedsAdmin(t *testing.T) {
	f := newFixture(t)
	dept := f.store.AddDepartment("Labs", nil)

	_, err := f.employees.CreateEmployee(context.Background(), createPayload("max", constants.RoleManager, dept.ID))
	requireKind(t, err, apperrors.KindValidation, "Please create an Admin before adding a Manager.")
}

func TestCreateManagerTakesOverDepartment(t *testing.T) {
	f := newFixture(t)
	hq := f.store.AddDepartment("HQ", nil)
	f.addEmployee("root", constants.RoleAdmin, hq.ID, 0)
	dept := f.store.AddDepartment("Labs", nil)
	member := f.addEmployee("lee", constants.RoleEmployee, dept.ID, 10)

	out, err := f.employees.CreateEmployee(context.Background(), createPayload("max", constants.RoleManager, dept.ID))
	require.NoError(t, err)
	assert.False(t, out.ManagerID.Valid)

	assert.True(t, f.mustDepartment(t, dept.ID).IsManagedBy(out.ID))
	assert.Equal(t, out.ID, *f.mustEmployee(t, member.ID).ManagerID)
}

func TestCreateManagerInManagedDepartment(t *testing.T) {
	f := newFixture(t)
	dept, _ := f.addManagedDepartment("Sales", "bob")
	f.addEmployee("root", constants.RoleAdmin, dept.ID, 0)

	_, err := f.employees.CreateEmployee(context.Background(), createPayload("max", constants.RoleManager, dept.ID))
	requireKind(t, err, apperrors.KindConflict,
		"This department already has a manager assigned. Please change the current manager to employee role first.")
}

func TestCreateEmployeeValidations(t *testing.T) {
	f := newFixture(t)
	dept, _ := f.addManagedDepartment("Sales", "bob")

	dup := createPayload("x", constants.RoleEmployee, dept.ID)
	dup.Email = "  BOB@example.com "
	_, err := f.employees.CreateEmployee(context.Background(), dup)
	requireKind(t, err, apperrors.KindConflict, "A user with this Email already exists.")

	_, err = f.employees.CreateEmployee(context.Background(), createPayload("y", constants.RoleEmployee, 999))
	requireKind(t, err, apperrors.KindValidation, "Selected department does not exist.")

	_, err = f.employees.CreateEmployee(context.Background(), createPayload("z", "Intern", dept.ID))
	requireKind(t, err, apperrors.KindValidation, "Selected role is invalid.")

	assert.Empty(t, f.store.EmployeeLogs())
}

func TestUpdateManagerToEmployeeDemotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dept, boss := f.addManagedDepartment("dept1", "bob")
	sub := f.addEmployee("sam", constants.RoleEmployee, dept.ID, 10)
	require.NoError(t, f.store.Employees().AssignManagerToDepartmentMembers(ctx, nil, dept.ID, boss.ID))

	payload := updatePayload(f.mustEmployee(t, boss.ID))
	payload.Role = constants.RoleEmployee
	out, err := f.employees.UpdateEmployee(ctx, boss.ID, payload)
	require.NoError(t, err)

	assert.Equal(t, constants.RoleEmployee, out.Role)
	assert.False(t, out.ManagerID.Valid)
	assert.Nil(t, f.mustDepartment(t, dept.ID).ManagerID)
	assert.Nil(t, f.mustEmployee(t, sub.ID).ManagerID)

	var demoted bool
	for _, l := range f.store.DepartmentLogs() {
		if l.DepartmentID == dept.ID && l.Operation == constants.OperationManagerDemoted {
			demoted = true
		}
	}
	assert.True(t, demoted, "department log should record the demotion")

	logs := f.store.EmployeeLogs()
	require.NotEmpty(t, logs)
	assert.Equal(t, constants.OperationUpdated, logs[len(logs)-1].Operation)
}

func TestUpdateEmployeeToManagerOfUnmanagedDepartment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	home, _ := f.addManagedDepartment("Home", "hank")
	labs := f.store.AddDepartment("Labs", nil)
	member := f.addEmployee("lee", constants.RoleEmployee, labs.ID, 10)
	eve := f.addEmployee("eve", constants.RoleEmployee, home.ID, 10)

	payload := updatePayload(eve)
	payload.Role = constants.RoleManager
	payload.DepartmentID = labs.ID
	out, err := f.employees.UpdateEmployee(ctx, eve.ID, payload)
	require.NoError(t, err)

	assert.Equal(t, constants.RoleManager, out.Role)
	assert.Equal(t, "Labs", out.DepartmentName)
	assert.True(t, f.mustDepartment(t, labs.ID).IsManagedBy(eve.ID))
	assert.Equal(t, eve.ID, *f.mustEmployee(t, member.ID).ManagerID)

	ops := []string{}
	for _, l := range f.store.DepartmentLogs() {
		ops = append(ops, l.Operation)
	}
	assert.Contains(t, ops, constants.OperationManagerAssigned)
}

func TestUpdateEmployeeToManagerOfManagedDepartment(t *testing.T) {
	f := newFixture(t)
	dept, _ := f.addManagedDepartment("Sales", "bob")
	eve := f.addEmployee("eve", constants.RoleEmployee, dept.ID, 10)

	payload := updatePayload(eve)
	payload.Role = constants.RoleManager
	_, err := f.employees.UpdateEmployee(context.Background(), eve.ID, payload)
	requireKind(t, err, apperrors.KindConflict,
		"This department already has a manager assigned. Please change the current manager to employee role first.")
	assert.Equal(t, constants.RoleEmployee, f.mustEmployee(t, eve.ID).Role)
}

func TestUpdateEmployeeIntoUnmanagedDepartment(t *testing.T) {
	f := newFixture(t)
	dept, _ := f.addManagedDepartment("Sales", "bob")
	empty := f.store.AddDepartment("Empty", nil)
	eve := f.addEmployee("eve", constants.RoleEmployee, dept.ID, 10)

	payload := updatePayload(eve)
	payload.DepartmentID = empty.ID
	_, err := f.employees.UpdateEmployee(context.Background(), eve.ID, payload)
	requireKind(t, err, apperrors.KindValidation,
		"Cannot assign employee to a department without a manager. Please assign a manager to the department first.")
}

func TestUpdateEmployeeTransfersReportingLine(t *testing.T) {
	f := newFixture(t)
	sales, _ := f.addManagedDepartment("Sales", "bob")
	ops, opsBoss := f.addManagedDepartment("Ops", "olga")
	eve := f.addEmployee("eve", constants.RoleEmployee, sales.ID, 10)

	payload := updatePayload(eve)
	payload.DepartmentID = ops.ID
	out, err := f.employees.UpdateEmployee(context.Background(), eve.ID, payload)
	require.NoError(t, err)
	assert.Equal(t, opsBoss.ID, out.ManagerID.Uint64)
}

func TestUpdateEmployeeAdjustsQuota(t *testing.T) {
	f := newFixture(t)
	dept, _ := f.addManagedDepartment("Sales", "bob")
	eve := f.addEmployee("eve", constants.RoleEmployee, dept.ID, 10)
	f.store.AddBalance(eve.ID, 10, 2)

	payload := updatePayload(eve)
	payload.LeaveBalance = 15
	_, err := f.employees.UpdateEmployee(context.Background(), eve.ID, payload)
	require.NoError(t, err)

	balance, _ := f.store.Balance(eve.ID)
	assert.Equal(t, 15, balance.TotalLeaves)
	assert.Equal(t, 2, balance.LeavesTaken)
	assert.Equal(t, 15, f.mustEmployee(t, eve.ID).LeaveBalance)
}

func TestUpdateEmployeeEmailTaken(t *testing.T) {
	f := newFixture(t)
	dept, _ := f.addManagedDepartment("Sales", "bob")
	eve := f.addEmployee("eve", constants.RoleEmployee, dept.ID, 10)

	payload := updatePayload(eve)
	payload.Email = "bob@example.com"
	_, err := f.employees.UpdateEmployee(context.Background(), eve.ID, payload)
	requireKind(t, err, apperrors.KindConflict, "A user with this Email already exists.")

	_, err = f.employees.UpdateEmployee(context.Background(), 999, updatePayload(entities.Employee{ID: 999}))
	requireKind(t, err, apperrors.KindNotFound, "Employee not found.")
}

func TestDeleteEmployee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dept, boss := f.addManagedDepartment("Sales", "bob")
	eve := f.addEmployee("eve", constants.RoleEmployee, dept.ID, 10)
	f.store.AddBalance(eve.ID, 10, 0)
	account := f.store.AddAccount(entities.Account{Email: "EVE@example.com", FullName: "eve"})

	err := f.employees.DeleteEmployee(ctx, boss.ID)
	requireKind(t, err, apperrors.KindConflict, "Cannot delete employee: assigned as department manager.")

	require.NoError(t, f.employees.DeleteEmployee(ctx, eve.ID))
	_, found := f.store.Employee(eve.ID)
	assert.False(t, found)
	_, found = f.store.Balance(eve.ID)
	assert.False(t, found)

	locked, _ := f.store.Account(account.ID)
	assert.True(t, locked.LockoutEnabled)
	assert.True(t, locked.IsLockedOut(time.Now()))

	logs, err := f.employees.GetEmployeeLogs(ctx, eve.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, constants.OperationDeleted, logs[0].Operation)

	err = f.employees.DeleteEmployee(ctx, eve.ID)
	requireKind(t, err, apperrors.KindNotFound, "Employee not found.")
}

func TestGetCurrentMonthInfo(t *testing.T) {
	f := newFixture(t)
	dept, boss := f.addManagedDepartment("Sales", "bob")
	eve := f.addEmployee("eve", constants.RoleEmployee, dept.ID, 20)
	require.NoError(t, f.store.Employees().AssignManagerToDepartmentMembers(context.Background(), nil, dept.ID, boss.ID))

	march := func(d int) time.Time { return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC) }
	f.store.AddLeave(entities.LeaveRequest{EmployeeID: eve.ID, StartDate: march(3), EndDate: march(9), Status: "approved"})
	f.store.AddLeave(entities.LeaveRequest{EmployeeID: eve.ID, StartDate: march(20), EndDate: march(21), Status: constants.LeaveStatusPending})
	f.store.AddLeave(entities.LeaveRequest{
		EmployeeID: eve.ID,
		StartDate:  time.Date(2025, time.February, 27, 0, 0, 0, 0, time.UTC),
		EndDate:    march(4),
		Status:     constants.LeaveStatusApproved,
	})

	info, err := f.employees.GetCurrentMonthInfo(context.Background(), eve.ID)
	require.NoError(t, err)
	assert.Equal(t, "March 2025", info.CurrentMonth)
	assert.Equal(t, "bob", info.ManagerName)
	assert.Len(t, info.LeaveRequests, 2)
	assert.Equal(t, 7, info.DaysOnLeave)
	assert.Equal(t, 13, info.RemainingLeaveBalance)
}

func TestGetProfileWithoutManager(t *testing.T) {
	f := newFixture(t)
	_, boss := f.addManagedDepartment("Sales", "bob")

	profile, err := f.employees.GetProfile(context.Background(), boss.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.NotAvailable, profile.ManagerName)
	assert.Equal(t, "Sales", profile.Employee.DepartmentName)
	assert.Nil(t, profile.Balance)

	f.store.AddBalance(boss.ID, 20, 5)
	profile, err = f.employees.GetProfile(context.Background(), boss.ID)
	require.NoError(t, err)
	require.NotNil(t, profile.Balance)
	assert.Equal(t, 15, profile.Balance.Remaining)
}

func TestFilterEmployees(t *testing.T) {
	f := newFixture(t)
	sales, _ := f.addManagedDepartment("Sales", "bob")
	ops, _ := f.addManagedDepartment("Ops", "olga")
	f.addEmployee("eve", constants.RoleEmployee, sales.ID, 10)
	f.addEmployee("ed", constants.RoleEmployee, ops.ID, 10)

	list, err := f.employees.FilterEmployees(context.Background(), dto.EmployeeFilterDTO{DepartmentID: ref(sales.ID)})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = f.employees.FilterEmployees(context.Background(), dto.EmployeeFilterDTO{Role: constants.RoleManager})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = f.employees.FilterEmployees(context.Background(), dto.EmployeeFilterDTO{DepartmentID: ref(ops.ID), Role: constants.RoleEmployee})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ed", list[0].FullName)

	managers, err := f.employees.GetManagers(context.Background())
	require.NoError(t, err)
	assert.Len(t, managers, 2)
}

func TestDeleteEmployeeLocksLinkedAccountAfterEmailChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dept, _ := f.addManagedDepartment("Sales", "bob")
	eve := f.addEmployee("eve", constants.RoleEmployee, dept.ID, 10)
	account := f.store.AddAccount(entities.Account{Email: eve.Email, FullName: "eve"})
	require.NoError(t, f.store.Employees().SetAccount(ctx, nil, eve.ID, account.ID))

	payload := updatePayload(f.mustEmployee(t, eve.ID))
	payload.Email = "eve.park@example.com"
	_, err := f.employees.UpdateEmployee(ctx, eve.ID, payload)
	require.NoError(t, err)

	require.NoError(t, f.employees.DeleteEmployee(ctx, eve.ID))

	locked, _ := f.store.Account(account.ID)
	assert.True(t, locked.LockoutEnabled)
	assert.True(t, locked.IsLockedOut(time.Now()))
}

func TestCurrentMonthFollowsUTC(t *testing.T) {
	f := newFixture(t)
	dept, _ := f.addManagedDepartment("Sales", "bob")
	eve := f.addEmployee("eve", constants.RoleEmployee, dept.ID, 20)
	// March 31 23:30 at UTC-2 is already April 1 in UTC.
	f.employees.now = func() time.Time {
		return time.Date(2025, time.March, 31, 23, 30, 0, 0, time.FixedZone("UTC-2", -2*60*60))
	}
	april := time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC)
	f.store.AddLeave(entities.LeaveRequest{EmployeeID: eve.ID, StartDate: april, EndDate: april, Status: constants.LeaveStatusApproved})
	f.store.AddLeave(entities.LeaveRequest{
		EmployeeID: eve.ID,
		StartDate:  time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		Status:     constants.LeaveStatusApproved,
	})

	info, err := f.employees.GetCurrentMonthInfo(context.Background(), eve.ID)
	require.NoError(t, err)
	assert.Equal(t, "April 2025", info.CurrentMonth)
	require.Len(t, info.LeaveRequests, 1)
	assert.Equal(t, 1, info.DaysOnLeave)
}
