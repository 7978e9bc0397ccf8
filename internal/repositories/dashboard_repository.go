package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"employee-system/internal/entities"
	"employee-system/pkg/constants"
)

type DashboardRepositoryInterface interface {
	GetCounts(ctx context.Context) (*entities.DashboardCounts, error)
	GetDepartmentHeadcounts(ctx context.Context) ([]entities.DepartmentHeadcount, error)
	GetRecentEmployees(ctx context.Context, limit uint64) ([]entities.Employee, error)
}

type DashboardRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDashboardRepository(storage *pgxpool.Pool, logger *zap.Logger) DashboardRepositoryInterface {
	return &DashboardRepository{storage: storage, logger: logger}
}

func (r *DashboardRepository) GetCounts(ctx context.Context) (*entities.DashboardCounts, error) {
	var c entities.DashboardCounts

	err := r.storage.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(CASE WHEN is_active THEN 1 END) FROM employees`,
	).Scan(&c.TotalEmployees, &c.ActiveEmployees)
	if err != nil {
		return nil, fmt.Errorf("failed to count employees: %w", err)
	}

	if err := r.storage.QueryRow(ctx, `SELECT COUNT(*) FROM departments`).Scan(&c.TotalDepartments); err != nil {
		return nil, fmt.Errorf("failed to count departments: %w", err)
	}

	statusCount := "COUNT(CASE WHEN LOWER(status) = LOWER(?) THEN 1 END)"
	query, args, err := sq.Select("COUNT(*)").
		Column(sq.Expr(statusCount, constants.LeaveStatusApproved)).
		Column(sq.Expr(statusCount, constants.LeaveStatusPending)).
		Column(sq.Expr(statusCount, constants.LeaveStatusRejected)).
		From("leave_requests").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	if err := r.storage.QueryRow(ctx, query, args...).Scan(
		&c.TotalLeaveRequests, &c.ApprovedLeaves, &c.PendingLeaves, &c.RejectedLeaves,
	); err != nil {
		r.logger.Error("failed to count leave requests", zap.Error(err))
		return nil, err
	}
	return &c, nil
}

func (r *DashboardRepository) GetDepartmentHeadcounts(ctx context.Context) ([]entities.DepartmentHeadcount, error) {
	query, args, err := sq.Select("d.id", "d.name", "COUNT(e.id)").
		From("departments d").
		LeftJoin("employees e ON e.department_id = d.id").
		GroupBy("d.id", "d.name").
		OrderBy("d.name").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]entities.DepartmentHeadcount, 0)
	for rows.Next() {
		var s entities.DepartmentHeadcount
		if err := rows.Scan(&s.DepartmentID, &s.DepartmentName, &s.EmployeeCount); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *DashboardRepository) GetRecentEmployees(ctx context.Context, limit uint64) ([]entities.Employee, error) {
	query, args, err := sq.Select(employeeFields).
		From(employeeTable).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]entities.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *e)
	}
	return employees, rows.Err()
}
