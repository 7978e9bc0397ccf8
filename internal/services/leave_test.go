package services

import (
	"context"
	"errors"
	"sync"
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

// Monday 10 March to Friday 14 March 2025: five business days.
var (
	weekStart = types.NewDate(2025, time.March, 10)
	weekEnd   = types.NewDate(2025, time.March, 14)
)

type leaveSetup struct {
	*fixture
	boss entities.Employee
	eve  entities.Employee
}

func newLeaveSetup(t *testing.T) leaveSetup {
	f := newFixture(t)
	dept, boss := f.addManagedDepartment("Sales", "bob")
	eve := f.addEmployee("eve", constants.RoleEmployee, dept.ID, 10)
	require.NoError(t, f.store.Employees().AssignManagerToDepartmentMembers(context.Background(), nil, dept.ID, boss.ID))
	return leaveSetup{fixture: f, boss: boss, eve: f.mustEmployee(t, eve.ID)}
}

func (s leaveSetup) pending(days int) entities.LeaveRequest {
	start := weekStart.Time
	return s.store.AddLeave(entities.LeaveRequest{
		EmployeeID: s.eve.ID,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, days-1),
		Status:     constants.LeaveStatusPending,
	})
}

func TestApplyPendingDoesNotDeduct(t *testing.T) {
	s := newLeaveSetup(t)

	out, err := s.leaves.Apply(asCaller(s.eve.ID, constants.RoleEmployee), dto.ApplyLeaveDTO{
		StartDate: weekStart, EndDate: weekEnd, Reason: " trip ",
	})
	require.NoError(t, err)
	assert.Equal(t, constants.LeaveStatusPending, out.Status)
	assert.Equal(t, 5, out.BusinessDays)
	assert.Equal(t, s.eve.ID, out.EmployeeID)
	assert.Equal(t, "trip", out.Reason)

	balance, ok := s.store.Balance(s.eve.ID)
	require.True(t, ok, "balance provisioned on first use")
	assert.Equal(t, 10, balance.TotalLeaves)
	assert.Zero(t, balance.LeavesTaken)
}

func TestApplyApprovedDeductsImmediately(t *testing.T) {
	s := newLeaveSetup(t)
	s.store.AddBalance(s.eve.ID, 10, 1)

	out, err := s.leaves.Apply(asCaller(s.boss.ID, constants.RoleManager), dto.ApplyLeaveDTO{
		EmployeeID: s.eve.ID, StartDate: weekStart, EndDate: weekEnd, Status: "approved",
	})
	require.NoError(t, err)
	assert.Equal(t, constants.LeaveStatusApproved, out.Status)

	balance, _ := s.store.Balance(s.eve.ID)
	assert.Equal(t, 6, balance.LeavesTaken)
}

func TestApplyInsufficientBalance(t *testing.T) {
	s := newLeaveSetup(t)
	s.store.AddBalance(s.eve.ID, 10, 8)

	_, err := s.leaves.Apply(asCaller(s.eve.ID, constants.RoleEmployee), dto.ApplyLeaveDTO{StartDate: weekStart, EndDate: weekEnd})
	requireKind(t, err, apperrors.KindInsufficient, "Insufficient balance. Available leave: 2, Requested leave: 5")
	assert.Zero(t, s.store.LeaveCount())

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, map[string]int{"available": 2, "requested": 5}, httpErr.Details)
}

func TestApplyReportsZeroWhenOverdrawn(t *testing.T) {
	s := newLeaveSetup(t)
	s.store.AddBalance(s.eve.ID, 4, 6)

	_, err := s.leaves.Apply(asCaller(s.eve.ID, constants.RoleEmployee), dto.ApplyLeaveDTO{StartDate: weekStart, EndDate: weekStart})
	requireKind(t, err, apperrors.KindInsufficient, "Insufficient balance. Available leave: 0, Requested leave: 1")
}

func TestApplyValidations(t *testing.T) {
	s := newLeaveSetup(t)
	ctx := asCaller(s.eve.ID, constants.RoleEmployee)

	_, err := s.leaves.Apply(ctx, dto.ApplyLeaveDTO{StartDate: weekStart})
	requireKind(t, err, apperrors.KindValidation, "Start date and end date are required.")

	_, err = s.leaves.Apply(ctx, dto.ApplyLeaveDTO{StartDate: weekEnd, EndDate: weekStart})
	requireKind(t, err, apperrors.KindValidation, "End date must be after start date.")

	saturday := types.NewDate(2025, time.March, 8)
	sunday := types.NewDate(2025, time.March, 9)
	_, err = s.leaves.Apply(ctx, dto.ApplyLeaveDTO{StartDate: saturday, EndDate: sunday})
	requireKind(t, err, apperrors.KindValidation, "Invalid leave period.")

	_, err = s.leaves.Apply(ctx, dto.ApplyLeaveDTO{EmployeeID: s.boss.ID, StartDate: weekStart, EndDate: weekEnd})
	requireKind(t, err, apperrors.KindForbidden, "You can only apply for your own leave.")

	_, err = s.leaves.Apply(asCaller(s.boss.ID, constants.RoleAdmin), dto.ApplyLeaveDTO{EmployeeID: 999, StartDate: weekStart, EndDate: weekEnd})
	requireKind(t, err, apperrors.KindNotFound, "Employee not found.")

	_, err = s.leaves.Apply(context.Background(), dto.ApplyLeaveDTO{StartDate: weekStart, EndDate: weekEnd})
	assert.ErrorIs(t, err, apperrors.ErrEmployeeIDNotFoundInContext)

	assert.Zero(t, s.store.LeaveCount())
}

func TestApplyRollsBackWhenDeductionFails(t *testing.T) {
	s := newLeaveSetup(t)
	s.store.AddBalance(s.eve.ID, 10, 0)
	s.store.FailNext("LeaveBalance.Update", errors.New("deadlock detected"))

	_, err := s.leaves.Apply(asCaller(s.eve.ID, constants.RoleEmployee), dto.ApplyLeaveDTO{
		StartDate: weekStart, EndDate: weekEnd, Status: constants.LeaveStatusApproved,
	})
	requireKind(t, err, apperrors.KindInternal, "Failed to update leave balance.")
	assert.Zero(t, s.store.LeaveCount())
}

func TestApproveDeductsBusinessDays(t *testing.T) {
	s := newLeaveSetup(t)
	s.store.AddBalance(s.eve.ID, 10, 0)
	request := s.pending(7) // Mon 10 to Sun 16: five business days

	out, err := s.leaves.ApproveOrReject(context.Background(), request.ID, "APPROVED")
	require.NoError(t, err)
	assert.Equal(t, constants.LeaveStatusApproved, out.Status)
	assert.Equal(t, "eve", out.EmployeeName)

	balance, _ := s.store.Balance(s.eve.ID)
	assert.Equal(t, 5, balance.LeavesTaken)

	// approving again never deducts twice
	_, err = s.leaves.ApproveOrReject(context.Background(), request.ID, constants.LeaveStatusApproved)
	require.NoError(t, err)
	balance, _ = s.store.Balance(s.eve.ID)
	assert.Equal(t, 5, balance.LeavesTaken)
}

func TestApproveInsufficientKeepsPending(t *testing.T) {
	s := newLeaveSetup(t)
	s.store.AddBalance(s.eve.ID, 10, 8)
	request := s.pending(5)

	_, err := s.leaves.ApproveOrReject(context.Background(), request.ID, constants.LeaveStatusApproved)
	requireKind(t, err, apperrors.KindInsufficient, "Insufficient balance. Available: 2, Requested: 5")

	stored, _ := s.store.Leave(request.ID)
	assert.Equal(t, constants.LeaveStatusPending, stored.Status)
	balance, _ := s.store.Balance(s.eve.ID)
	assert.Equal(t, 8, balance.LeavesTaken)
}

func TestRejectNeverRefunds(t *testing.T) {
	s := newLeaveSetup(t)
	s.store.AddBalance(s.eve.ID, 10, 0)
	request := s.pending(3)

	_, err := s.leaves.ApproveOrReject(context.Background(), request.ID, constants.LeaveStatusApproved)
	require.NoError(t, err)

	out, err := s.leaves.ApproveOrReject(context.Background(), request.ID, constants.LeaveStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, constants.LeaveStatusRejected, out.Status)

	balance, _ := s.store.Balance(s.eve.ID)
	assert.Equal(t, 3, balance.LeavesTaken)
}

func TestApproveOrRejectValidations(t *testing.T) {
	s := newLeaveSetup(t)

	_, err := s.leaves.ApproveOrReject(context.Background(), 1, "  ")
	requireKind(t, err, apperrors.KindValidation, "Status is required.")

	_, err = s.leaves.ApproveOrReject(context.Background(), 999, constants.LeaveStatusApproved)
	requireKind(t, err, apperrors.KindNotFound, "Leave request not found.")
}

func TestConcurrentApprovalsNeverOverdraw(t *testing.T) {
	s := newLeaveSetup(t)
	s.store.AddBalance(s.eve.ID, 6, 0)
	first := s.pending(5)
	second := s.pending(5)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []uint64{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, id uint64) {
			defer wg.Done()
			_, errs[i] = s.leaves.ApproveOrReject(context.Background(), id, constants.LeaveStatusApproved)
		}(i, id)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			assert.Equal(t, apperrors.KindInsufficient, apperrors.KindOf(err))
			failures++
		}
	}
	assert.Equal(t, 1, failures)

	balance, _ := s.store.Balance(s.eve.ID)
	assert.Equal(t, 5, balance.LeavesTaken)
	assert.LessOrEqual(t, balance.LeavesTaken, balance.TotalLeaves)
}

func TestLeaveListings(t *testing.T) {
	s := newLeaveSetup(t)
	outsiderDept := s.store.AddDepartment("Other", nil)
	outsider := s.addEmployee("otto", constants.RoleEmployee, outsiderDept.ID, 5)
	mine := s.pending(2)
	s.store.AddLeave(entities.LeaveRequest{EmployeeID: outsider.ID, StartDate: weekStart.Time, EndDate: weekStart.Time, Status: "pending"})
	s.store.AddLeave(entities.LeaveRequest{EmployeeID: s.eve.ID, StartDate: weekStart.Time, EndDate: weekStart.Time, Status: constants.LeaveStatusRejected})

	all, err := s.leaves.GetPending(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	team, err := s.leaves.GetTeamPending(context.Background(), s.boss.ID)
	require.NoError(t, err)
	require.Len(t, team, 1)
	assert.Equal(t, mine.ID, team[0].ID)

	_, err = s.leaves.GetTeamPending(context.Background(), 999)
	requireKind(t, err, apperrors.KindNotFound, "Manager not found.")

	history, err := s.leaves.GetEmployeeLeaves(context.Background(), s.eve.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}
