package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"employee-system/internal/entities"
	apperrors "employee-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const leaveWithEmployeeSelect = `
	SELECT l.id, l.employee_id, l.start_date, l.end_date, l.status, l.reason, l.request_date, COALESCE(e.full_name, '')
	FROM leave_requests l
	LEFT JOIN employees e ON e.id = l.employee_id`

type LeaveRequestRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, request *entities.LeaveRequest) error
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.LeaveRequest, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status string) error
	FindWithEmployee(ctx context.Context, id uint64) (*entities.LeaveRequestWithEmployee, error)
	// ListByEmployee returns the employee's requests, newest request first.
	ListByEmployee(ctx context.Context, employeeID uint64) ([]entities.LeaveRequestWithEmployee, error)
	// ListByEmployeeStartingBetween returns requests whose start date falls in [from, to).
	ListByEmployeeStartingBetween(ctx context.Context, employeeID uint64, from, to time.Time) ([]entities.LeaveRequestWithEmployee, error)
	ListByStatus(ctx context.Context, status string) ([]entities.LeaveRequestWithEmployee, error)
	ListByStatusForManager(ctx context.Context, managerID uint64, status string) ([]entities.LeaveRequestWithEmployee, error)
}

type LeaveRequestRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewLeaveRequestRepository(storage *pgxpool.Pool, logger *zap.Logger) LeaveRequestRepositoryInterface {
	return &LeaveRequestRepository{storage: storage, logger: logger}
}

func scanLeaveRequest(row pgx.Row) (*entities.LeaveRequest, error) {
	var l entities.LeaveRequest
	err := row.Scan(&l.ID, &l.EmployeeID, &l.StartDate, &l.EndDate, &l.Status, &l.Reason, &l.RequestDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan leave request: %w", err)
	}
	return &l, nil
}

func scanLeaveWithEmployee(row pgx.Row) (*entities.LeaveRequestWithEmployee, error) {
	var l entities.LeaveRequestWithEmployee
	err := row.Scan(&l.ID, &l.EmployeeID, &l.StartDate, &l.EndDate, &l.Status, &l.Reason, &l.RequestDate, &l.EmployeeName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan leave request: %w", err)
	}
	return &l, nil
}

func (r *LeaveRequestRepository) queryWithEmployee(ctx context.Context, query string, args ...interface{}) ([]entities.LeaveRequestWithEmployee, error) {
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query leave requests", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	requests := make([]entities.LeaveRequestWithEmployee, 0)
	for rows.Next() {
		l, err := scanLeaveWithEmployee(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *l)
	}
	return requests, rows.Err()
}

func (r *LeaveRequestRepository) Create(ctx context.Context, tx pgx.Tx, request *entities.LeaveRequest) error {
	query := `
		INSERT INTO leave_requests (employee_id, start_date, end_date, status, reason, request_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := pick(r.storage, tx).QueryRow(ctx, query,
		request.EmployeeID, request.StartDate, request.EndDate, request.Status, request.Reason, request.RequestDate,
	).Scan(&request.ID)
	if err != nil {
		return fmt.Errorf("failed to insert leave request: %w", err)
	}
	return nil
}

func (r *LeaveRequestRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.LeaveRequest, error) {
	query := `SELECT id, employee_id, start_date, end_date, status, reason, request_date FROM leave_requests WHERE id = $1`
	return scanLeaveRequest(pick(r.storage, tx).QueryRow(ctx, query, id))
}

func (r *LeaveRequestRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status string) error {
	result, err := pick(r.storage, tx).Exec(ctx, `UPDATE leave_requests SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update leave request %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *LeaveRequestRepository) FindWithEmployee(ctx context.Context, id uint64) (*entities.LeaveRequestWithEmployee, error) {
	return scanLeaveWithEmployee(r.storage.QueryRow(ctx, leaveWithEmployeeSelect+` WHERE l.id = $1`, id))
}

func (r *LeaveRequestRepository) ListByEmployee(ctx context.Context, employeeID uint64) ([]entities.LeaveRequestWithEmployee, error) {
	return r.queryWithEmployee(ctx, leaveWithEmployeeSelect+` WHERE l.employee_id = $1 ORDER BY l.request_date DESC, l.id DESC`, employeeID)
}

func (r *LeaveRequestRepository) ListByEmployeeStartingBetween(ctx context.Context, employeeID uint64, from, to time.Time) ([]entities.LeaveRequestWithEmployee, error) {
	query := leaveWithEmployeeSelect + ` WHERE l.employee_id = $1 AND l.start_date >= $2 AND l.start_date < $3 ORDER BY l.start_date`
	return r.queryWithEmployee(ctx, query, employeeID, from, to)
}

func (r *LeaveRequestRepository) ListByStatus(ctx context.Context, status string) ([]entities.LeaveRequestWithEmployee, error) {
	return r.queryWithEmployee(ctx, leaveWithEmployeeSelect+` WHERE LOWER(l.status) = LOWER($1) ORDER BY l.request_date`, status)
}

func (r *LeaveRequestRepository) ListByStatusForManager(ctx context.Context, managerID uint64, status string) ([]entities.LeaveRequestWithEmployee, error) {
	query := leaveWithEmployeeSelect + ` WHERE e.manager_id = $1 AND LOWER(l.status) = LOWER($2) ORDER BY l.request_date`
	return r.queryWithEmployee(ctx, query, managerID, status)
}
