package repositories

import (
	"context"
	"fmt"

	"employee-system/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// AuditLogRepositoryInterface stores append-only snapshots. Logs are never updated.
type AuditLogRepositoryInterface interface {
	CreateEmployeeLogInTx(ctx context.Context, tx pgx.Tx, log *entities.EmployeeLog) error
	CreateDepartmentLogInTx(ctx context.Context, tx pgx.Tx, log *entities.DepartmentLog) error
	GetEmployeeLogs(ctx context.Context, employeeID uint64) ([]entities.EmployeeLog, error)
	GetDepartmentLogs(ctx context.Context, departmentID uint64) ([]entities.DepartmentLog, error)
}

type AuditLogRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAuditLogRepository(storage *pgxpool.Pool, logger *zap.Logger) AuditLogRepositoryInterface {
	return &AuditLogRepository{storage: storage, logger: logger}
}

func (r *AuditLogRepository) CreateEmployeeLogInTx(ctx context.Context, tx pgx.Tx, log *entities.EmployeeLog) error {
	query := `
		INSERT INTO employee_logs (employee_id, full_name, email, phone_number, role, role_id, is_active, department_id, manager_id, operation)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`
	err := pick(r.storage, tx).QueryRow(ctx, query,
		log.EmployeeID, log.FullName, log.Email, log.PhoneNumber, log.Role, log.RoleID,
		log.IsActive, log.DepartmentID, log.ManagerID, log.Operation,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to write employee log: %w", err)
	}
	return nil
}

func (r *AuditLogRepository) CreateDepartmentLogInTx(ctx context.Context, tx pgx.Tx, log *entities.DepartmentLog) error {
	query := `
		INSERT INTO department_logs (department_id, department_name, manager_id, operation)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := pick(r.storage, tx).QueryRow(ctx, query, log.DepartmentID, log.DepartmentName, log.ManagerID, log.Operation).
		Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to write department log: %w", err)
	}
	return nil
}

func (r *AuditLogRepository) GetEmployeeLogs(ctx context.Context, employeeID uint64) ([]entities.EmployeeLog, error) {
	query := `
		SELECT id, employee_id, full_name, email, phone_number, role, role_id, is_active, department_id, manager_id, operation, created_at
		FROM employee_logs WHERE employee_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.storage.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]entities.EmployeeLog, 0)
	for rows.Next() {
		var l entities.EmployeeLog
		if err := rows.Scan(&l.ID, &l.EmployeeID, &l.FullName, &l.Email, &l.PhoneNumber, &l.Role, &l.RoleID,
			&l.IsActive, &l.DepartmentID, &l.ManagerID, &l.Operation, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan employee log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *AuditLogRepository) GetDepartmentLogs(ctx context.Context, departmentID uint64) ([]entities.DepartmentLog, error) {
	query := `
		SELECT id, department_id, department_name, manager_id, operation, created_at
		FROM department_logs WHERE department_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.storage.Query(ctx, query, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]entities.DepartmentLog, 0)
	for rows.Next() {
		var l entities.DepartmentLog
		if err := rows.Scan(&l.ID, &l.DepartmentID, &l.DepartmentName, &l.ManagerID, &l.Operation, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan department log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
