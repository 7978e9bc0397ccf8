package repositories

import (
	"context"
	"errors"
	"fmt"

	"employee-system/internal/entities"
	apperrors "employee-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type LeaveBalanceRepositoryInterface interface {
	FindByEmployee(ctx context.Context, tx pgx.Tx, employeeID uint64) (*entities.LeaveBalance, error)
	Create(ctx context.Context, tx pgx.Tx, balance *entities.LeaveBalance) error
	Update(ctx context.Context, tx pgx.Tx, balance *entities.LeaveBalance) error
}

type LeaveBalanceRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewLeaveBalanceRepository(storage *pgxpool.Pool, logger *zap.Logger) LeaveBalanceRepositoryInterface {
	return &LeaveBalanceRepository{storage: storage, logger: logger}
}

// FindByEmployee locks the row when called inside a transaction.
func (r *LeaveBalanceRepository) FindByEmployee(ctx context.Context, tx pgx.Tx, employeeID uint64) (*entities.LeaveBalance, error) {
	query := `SELECT id, employee_id, total_leaves, leaves_taken FROM leave_balances WHERE employee_id = $1`
	if tx != nil {
		query += ` FOR UPDATE`
	}
	var b entities.LeaveBalance
	err := pick(r.storage, tx).QueryRow(ctx, query, employeeID).Scan(&b.ID, &b.EmployeeID, &b.TotalLeaves, &b.LeavesTaken)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load leave balance of employee %d: %w", employeeID, err)
	}
	return &b, nil
}

func (r *LeaveBalanceRepository) Create(ctx context.Context, tx pgx.Tx, balance *entities.LeaveBalance) error {
	query := `INSERT INTO leave_balances (employee_id, total_leaves, leaves_taken) VALUES ($1, $2, $3) RETURNING id`
	if err := pick(r.storage, tx).QueryRow(ctx, query, balance.EmployeeID, balance.TotalLeaves, balance.LeavesTaken).Scan(&balance.ID); err != nil {
		return fmt.Errorf("failed to insert leave balance: %w", err)
	}
	return nil
}

func (r *LeaveBalanceRepository) Update(ctx context.Context, tx pgx.Tx, balance *entities.LeaveBalance) error {
	query := `UPDATE leave_balances SET total_leaves = $2, leaves_taken = $3 WHERE id = $1`
	result, err := pick(r.storage, tx).Exec(ctx, query, balance.ID, balance.TotalLeaves, balance.LeavesTaken)
	if err != nil {
		return fmt.Errorf("failed to update leave balance %d: %w", balance.ID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
