package services

import (
	"context"
	"errors"
	"testing"

	"employee-system/internal/dto"
	"employee-system/pkg/constants"
	apperrors "employee-system/pkg/errors"
	"employee-system/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDepartmentWithoutManager(t *testing.T) {
	f := newFixture(t)

	out, err := f.departments.CreateDepartment(context.Background(), dto.CreateDepartmentDTO{Name: "  Legal "})
	require.NoError(t, err)
	assert.Equal(t, "Legal", out.Name)
	assert.False(t, out.ManagerID.Valid)

	logs := f.store.DepartmentLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, constants.OperationCreated, logs[0].Operation)
}

func TestCreateDepartmentRequiresName(t *testing.T) {
	f := newFixture(t)
	_, err := f.departments.CreateDepartment(context.Background(), dto.CreateDepartmentDTO{Name: "  "})
	requireKind(t, err, apperrors.KindValidation, "Department name is required.")
}

func TestCreateDepartmentPromotesManager(t *testing.T) {
	f := newFixture(t)
	home, _ := f.addManagedDepartment("Home", "hank")
	emp := f.addEmployee("eve", constants.RoleEmployee, home.ID, 10)

	out, err := f.departments.CreateDepartment(context.Background(), dto.CreateDepartmentDTO{Name: "Labs", ManagerID: ref(emp.ID)})
	require.NoError(t, err)
	assert.Equal(t, emp.ID, out.ManagerID.Uint64)
	assert.Equal(t, "eve", out.ManagerName.String)

	promoted := f.mustEmployee(t, emp.ID)
	assert.Equal(t, constants.RoleManager, promoted.Role)
	assert.Equal(t, out.ID, promoted.DepartmentID)
	assert.Nil(t, promoted.ManagerID)
}

func TestCreateDepartmentRejectsManagerOfAnotherDepartment(t *testing.T) {
	f := newFixture(t)
	_, boss := f.addManagedDepartment("dept1", "bob")

	_, err := f.departments.CreateDepartment(context.Background(), dto.CreateDepartmentDTO{Name: "dept2", ManagerID: ref(boss.ID)})
	requireKind(t, err, apperrors.KindConflict, "This employee is already managing dept1 department.")

	// rolled back: no second department, no log
	_, total, listErr := f.departments.GetDepartments(context.Background(), types.Filter{})
	require.NoError(t, listErr)
	assert.Equal(t, uint64(1), total)
	assert.Empty(t, f.store.DepartmentLogs())
}

func TestCreateDepartmentUnknownManager(t *testing.T) {
	f := newFixture(t)
	_, err := f.departments.CreateDepartment(context.Background(), dto.CreateDepartmentDTO{Name: "Labs", ManagerID: ref(404)})
	requireKind(t, err, apperrors.KindValidation, "Selected manager does not exist.")
}

func TestUpdateDepartmentSwapsManager(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dept, oldBoss := f.addManagedDepartment("Sales", "bob")
	member := f.addEmployee("mia", constants.RoleEmployee, dept.ID, 10)
	require.NoError(t, f.store.Employees().AssignManagerToDepartmentMembers(ctx, nil, dept.ID, oldBoss.ID))
	newBoss := f.addEmployee("nick", constants.RoleEmployee, dept.ID, 10)

	out, err := f.departments.UpdateDepartment(ctx, dept.ID, dto.UpdateDepartmentDTO{Name: "Sales EU", ManagerID: ref(newBoss.ID)})
	require.NoError(t, err)
	assert.Equal(t, "Sales EU", out.Name)
	assert.Equal(t, newBoss.ID, out.ManagerID.Uint64)

	assert.Equal(t, constants.RoleEmployee, f.mustEmployee(t, oldBoss.ID).Role)
	assert.Equal(t, constants.RoleManager, f.mustEmployee(t, newBoss.ID).Role)
	assert.Equal(t, newBoss.ID, *f.mustEmployee(t, member.ID).ManagerID)
	assert.Equal(t, newBoss.ID, *f.mustEmployee(t, oldBoss.ID).ManagerID)
	assert.Equal(t, 1, f.store.DepartmentsManagedBy(newBoss.ID))
	assert.Zero(t, f.store.DepartmentsManagedBy(oldBoss.ID))
}

func TestUpdateDepartmentClearsManager(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dept, boss := f.addManagedDepartment("Sales", "bob")

	out, err := f.departments.UpdateDepartment(ctx, dept.ID, dto.UpdateDepartmentDTO{Name: "Sales"})
	require.NoError(t, err)
	assert.False(t, out.ManagerID.Valid)
	assert.Equal(t, constants.RoleEmployee, f.mustEmployee(t, boss.ID).Role)
}

func TestUpdateDepartmentRejectsBusyManager(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, busy := f.addManagedDepartment("Alpha", "al")
	beta, betaBoss := f.addManagedDepartment("Beta", "bea")

	_, err := f.departments.UpdateDepartment(ctx, beta.ID, dto.UpdateDepartmentDTO{Name: "Beta", ManagerID: ref(busy.ID)})
	requireKind(t, err, apperrors.KindConflict, "This employee is already a manager of Alpha department.")

	// nothing changed
	assert.True(t, f.mustDepartment(t, beta.ID).IsManagedBy(betaBoss.ID))
	assert.Equal(t, constants.RoleManager, f.mustEmployee(t, betaBoss.ID).Role)
}

func TestUpdateDepartmentIDMismatch(t *testing.T) {
	f := newFixture(t)
	dept := f.store.AddDepartment("Ops", nil)
	_, err := f.departments.UpdateDepartment(context.Background(), dept.ID, dto.UpdateDepartmentDTO{ID: dept.ID + 1, Name: "Ops"})
	requireKind(t, err, apperrors.KindNotFound, "Department not found.")
}

func TestUpdateDepartmentRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dept, boss := f.addManagedDepartment("Sales", "bob")
	candidate := f.addEmployee("nick", constants.RoleEmployee, dept.ID, 10)

	f.store.FailNext("Employee.Update", errors.New("connection reset"))
	_, err := f.departments.UpdateDepartment(ctx, dept.ID, dto.UpdateDepartmentDTO{Name: "Sales", ManagerID: ref(candidate.ID)})
	require.Error(t, err)

	assert.True(t, f.mustDepartment(t, dept.ID).IsManagedBy(boss.ID))
	assert.Equal(t, constants.RoleManager, f.mustEmployee(t, boss.ID).Role)
	assert.Equal(t, constants.RoleEmployee, f.mustEmployee(t, candidate.ID).Role)
}

func TestDeleteDepartment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	occupied, _ := f.addManagedDepartment("Sales", "bob")
	empty := f.store.AddDepartment("Empty", nil)

	err := f.departments.DeleteDepartment(ctx, occupied.ID)
	requireKind(t, err, apperrors.KindConflict, "Cannot delete department while employees are still assigned.")
	_, stillThere := f.store.Department(occupied.ID)
	assert.True(t, stillThere)

	require.NoError(t, f.departments.DeleteDepartment(ctx, empty.ID))
	_, found := f.store.Department(empty.ID)
	assert.False(t, found)

	logs, err := f.departments.GetDepartmentLogs(ctx, empty.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, constants.OperationDeleted, logs[0].Operation)

	err = f.departments.DeleteDepartment(ctx, empty.ID)
	requireKind(t, err, apperrors.KindNotFound, "Department not found.")
}
