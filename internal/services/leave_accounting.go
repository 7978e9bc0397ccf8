package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"employee-system/internal/entities"
	"employee-system/internal/repositories"
	apperrors "employee-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// CalculateBusinessDays counts Monday to Friday days in [start, end], both inclusive.
// Only the calendar date of each bound matters. It returns 0 when start is after end.
func CalculateBusinessDays(start, end time.Time) int {
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	days := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}

// LeaveAccounting owns every mutation of leave_balances.
type LeaveAccounting struct {
	balanceRepository  repositories.LeaveBalanceRepositoryInterface
	employeeRepository repositories.EmployeeRepositoryInterface
	logger             *zap.Logger
}

func NewLeaveAccounting(
	balanceRepository repositories.LeaveBalanceRepositoryInterface,
	employeeRepository repositories.EmployeeRepositoryInterface,
	logger *zap.Logger,
) *LeaveAccounting {
	return &LeaveAccounting{
		balanceRepository:  balanceRepository,
		employeeRepository: employeeRepository,
		logger:             logger,
	}
}

// Current returns the employee's balance, or nil when none has been provisioned yet.
func (a *LeaveAccounting) Current(ctx context.Context, employeeID uint64) (*entities.LeaveBalance, error) {
	balance, err := a.balanceRepository.FindByEmployee(ctx, nil, employeeID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	return balance, err
}

// EnsureBalance returns the employee's balance and whether it covers requestedDays.
// A missing balance is provisioned from the employee quota and always reported as sufficient.
func (a *LeaveAccounting) EnsureBalance(ctx context.Context, tx pgx.Tx, employeeID uint64, requestedDays int) (*entities.LeaveBalance, bool, error) {
	balance, err := a.balanceRepository.FindByEmployee(ctx, tx, employeeID)
	if err == nil {
		return balance, balance.Remaining() >= requestedDays, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, err
	}

	employee, err := a.employeeRepository.FindByID(ctx, tx, employeeID)
	if err != nil {
		return nil, false, err
	}
	balance, err = a.Provision(ctx, tx, employee.ID, employee.LeaveBalance)
	if err != nil {
		return nil, false, err
	}
	a.logger.Info("leave balance provisioned on first use",
		zap.Uint64("employee_id", employeeID),
		zap.Int("total_leaves", balance.TotalLeaves))
	return balance, true, nil
}

// Provision creates a fresh balance with nothing taken.
func (a *LeaveAccounting) Provision(ctx context.Context, tx pgx.Tx, employeeID uint64, totalLeaves int) (*entities.LeaveBalance, error) {
	balance := &entities.LeaveBalance{EmployeeID: employeeID, TotalLeaves: totalLeaves}
	if err := a.balanceRepository.Create(ctx, tx, balance); err != nil {
		return nil, err
	}
	return balance, nil
}

// Deduct adds days to the taken counter.
func (a *LeaveAccounting) Deduct(ctx context.Context, tx pgx.Tx, balance *entities.LeaveBalance, days int) error {
	if days <= 0 {
		return fmt.Errorf("deduct %d days: non-positive leave span", days)
	}
	balance.LeavesTaken += days
	if err := a.balanceRepository.Update(ctx, tx, balance); err != nil {
		balance.LeavesTaken -= days
		return err
	}
	return nil
}

// AdjustQuota adds delta to the total of an existing balance. Employees without a balance are left alone.
func (a *LeaveAccounting) AdjustQuota(ctx context.Context, tx pgx.Tx, employeeID uint64, delta int) error {
	if delta == 0 {
		return nil
	}
	balance, err := a.balanceRepository.FindByEmployee(ctx, tx, employeeID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	balance.TotalLeaves += delta
	return a.balanceRepository.Update(ctx, tx, balance)
}
