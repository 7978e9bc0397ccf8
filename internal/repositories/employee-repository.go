package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"employee-system/internal/entities"
	db "employee-system/internal/infrastructure/bd"
	apperrors "employee-system/pkg/errors"
	"employee-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	employeeTable  = "employees"
	employeeFields = "id, full_name, email, phone_number, role, role_id, is_active, department_id, manager_id, account_id, leave_balance, created_at, updated_at"
)

var employeeListColumns = map[string]db.Column{
	"id":            {Name: "e.id", Numeric: true},
	"department_id": {Name: "e.department_id", Numeric: true},
	"manager_id":    {Name: "e.manager_id", Numeric: true},
	"role":          {Name: "e.role"},
	"full_name":     {Name: "e.full_name"},
	"email":         {Name: "e.email"},
	"created_at":    {Name: "e.created_at"},
}

type EmployeeRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Employee, error)
	FindByEmail(ctx context.Context, tx pgx.Tx, email string) (*entities.Employee, error)
	ExistsWithRole(ctx context.Context, tx pgx.Tx, role string) (bool, error)
	ExistsInDepartment(ctx context.Context, tx pgx.Tx, departmentID uint64) (bool, error)
	Create(ctx context.Context, tx pgx.Tx, employee *entities.Employee) error
	Update(ctx context.Context, tx pgx.Tx, employee *entities.Employee) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
	SetAccount(ctx context.Context, tx pgx.Tx, id, accountID uint64) error

	// AssignManagerToDepartmentMembers points every member of departmentID except the manager at managerID.
	AssignManagerToDepartmentMembers(ctx context.Context, tx pgx.Tx, departmentID, managerID uint64) error
	// ClearManagerInDepartment nulls manager_id of members of departmentID that report to managerID.
	ClearManagerInDepartment(ctx context.Context, tx pgx.Tx, departmentID, managerID uint64) error
	// ClearSubordinates nulls manager_id of everyone reporting to managerID.
	ClearSubordinates(ctx context.Context, tx pgx.Tx, managerID uint64) error

	GetEmployees(ctx context.Context, filter types.Filter) ([]entities.EmployeeWithDepartment, uint64, error)
	FindWithDepartment(ctx context.Context, id uint64) (*entities.EmployeeWithDepartment, error)
	GetSubordinates(ctx context.Context, managerID uint64) ([]entities.Employee, error)
	GetManagers(ctx context.Context) ([]entities.ManagerRosterItem, error)
}

type EmployeeRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEmployeeRepository(storage *pgxpool.Pool, logger *zap.Logger) EmployeeRepositoryInterface {
	return &EmployeeRepository{storage: storage, logger: logger}
}

func scanEmployee(row pgx.Row) (*entities.Employee, error) {
	var e entities.Employee
	err := row.Scan(
		&e.ID, &e.FullName, &e.Email, &e.PhoneNumber, &e.Role, &e.RoleID, &e.IsActive,
		&e.DepartmentID, &e.ManagerID, &e.AccountID, &e.LeaveBalance, &e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan employee: %w", err)
	}
	return &e, nil
}

func scanEmployeeWithDepartment(row pgx.Row) (*entities.EmployeeWithDepartment, error) {
	var e entities.EmployeeWithDepartment
	err := row.Scan(
		&e.ID, &e.FullName, &e.Email, &e.PhoneNumber, &e.Role, &e.RoleID, &e.IsActive,
		&e.DepartmentID, &e.ManagerID, &e.AccountID, &e.LeaveBalance, &e.CreatedAt, &e.UpdatedAt,
		&e.DepartmentName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan employee: %w", err)
	}
	return &e, nil
}

func (r *EmployeeRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Employee, error) {
	query := `SELECT ` + employeeFields + ` FROM employees WHERE id = $1`
	return scanEmployee(pick(r.storage, tx).QueryRow(ctx, query, id))
}

func (r *EmployeeRepository) FindByEmail(ctx context.Context, tx pgx.Tx, email string) (*entities.Employee, error) {
	query := `SELECT ` + employeeFields + ` FROM employees WHERE LOWER(TRIM(email)) = $1`
	return scanEmployee(pick(r.storage, tx).QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))))
}

func (r *EmployeeRepository) ExistsWithRole(ctx context.Context, tx pgx.Tx, role string) (bool, error) {
	var exists bool
	err := pick(r.storage, tx).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE role = $1)`, role).Scan(&exists)
	return exists, err
}

func (r *EmployeeRepository) ExistsInDepartment(ctx context.Context, tx pgx.Tx, departmentID uint64) (bool, error) {
	var exists bool
	err := pick(r.storage, tx).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE department_id = $1)`, departmentID).Scan(&exists)
	return exists, err
}

func (r *EmployeeRepository) Create(ctx context.Context, tx pgx.Tx, employee *entities.Employee) error {
	query := `
		INSERT INTO employees (full_name, email, phone_number, role, role_id, is_active, department_id, manager_id, account_id, leave_balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`
	err := pick(r.storage, tx).QueryRow(ctx, query,
		employee.FullName, employee.Email, employee.PhoneNumber, employee.Role, employee.RoleID,
		employee.IsActive, employee.DepartmentID, employee.ManagerID, employee.AccountID, employee.LeaveBalance,
	).Scan(&employee.ID, &employee.CreatedAt, &employee.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("employee email %q is taken: %w", employee.Email, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to insert employee: %w", err)
	}
	return nil
}

func (r *EmployeeRepository) Update(ctx context.Context, tx pgx.Tx, employee *entities.Employee) error {
	query, args, err := sq.Update(employeeTable).
		PlaceholderFormat(sq.Dollar).
		SetMap(map[string]interface{}{
			"full_name":     employee.FullName,
			"email":         employee.Email,
			"phone_number":  employee.PhoneNumber,
			"role":          employee.Role,
			"role_id":       employee.RoleID,
			"is_active":     employee.IsActive,
			"department_id": employee.DepartmentID,
			"manager_id":    employee.ManagerID,
			"account_id":    employee.AccountID,
			"leave_balance": employee.LeaveBalance,
			"updated_at":    sq.Expr("NOW()"),
		}).
		Where(sq.Eq{"id": employee.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := pick(r.storage, tx).QueryRow(ctx, query, args...).Scan(&employee.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("employee email %q is taken: %w", employee.Email, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to update employee %d: %w", employee.ID, err)
	}
	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	result, err := pick(r.storage, tx).Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EmployeeRepository) SetAccount(ctx context.Context, tx pgx.Tx, id, accountID uint64) error {
	_, err := pick(r.storage, tx).Exec(ctx, `UPDATE employees SET account_id = $2, updated_at = NOW() WHERE id = $1`, id, accountID)
	return err
}

func (r *EmployeeRepository) AssignManagerToDepartmentMembers(ctx context.Context, tx pgx.Tx, departmentID, managerID uint64) error {
	query := `UPDATE employees SET manager_id = $2, updated_at = NOW() WHERE department_id = $1 AND id <> $2`
	_, err := pick(r.storage, tx).Exec(ctx, query, departmentID, managerID)
	return err
}

func (r *EmployeeRepository) ClearManagerInDepartment(ctx context.Context, tx pgx.Tx, departmentID, managerID uint64) error {
	query := `UPDATE employees SET manager_id = NULL, updated_at = NOW() WHERE department_id = $1 AND manager_id = $2`
	_, err := pick(r.storage, tx).Exec(ctx, query, departmentID, managerID)
	return err
}

func (r *EmployeeRepository) ClearSubordinates(ctx context.Context, tx pgx.Tx, managerID uint64) error {
	query := `UPDATE employees SET manager_id = NULL, updated_at = NOW() WHERE manager_id = $1`
	_, err := pick(r.storage, tx).Exec(ctx, query, managerID)
	return err
}

func employeeListBase(columns string) sq.SelectBuilder {
	return sq.Select(columns).
		From("employees AS e").
		LeftJoin("departments AS d ON d.id = e.department_id").
		PlaceholderFormat(sq.Dollar)
}

func (r *EmployeeRepository) GetEmployees(ctx context.Context, filter types.Filter) ([]entities.EmployeeWithDepartment, uint64, error) {
	countBuilder := employeeListBase("COUNT(*)")
	countBuilder = db.ApplyFilters(countBuilder, filter, employeeListColumns)
	countBuilder = db.ApplySearch(countBuilder, filter, "e.full_name", "e.email")
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}
	if total == 0 {
		return []entities.EmployeeWithDepartment{}, 0, nil
	}

	listBuilder := employeeListBase(`e.id, e.full_name, e.email, e.phone_number, e.role, e.role_id, e.is_active,
		e.department_id, e.manager_id, e.account_id, e.leave_balance, e.created_at, e.updated_at, COALESCE(d.name, '')`)
	listBuilder = db.ApplyFilters(listBuilder, filter, employeeListColumns)
	listBuilder = db.ApplySearch(listBuilder, filter, "e.full_name", "e.email")
	listBuilder = db.ApplySortAndPage(listBuilder, filter, employeeListColumns, "e.id DESC")
	query, args, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	employees := make([]entities.EmployeeWithDepartment, 0)
	for rows.Next() {
		e, err := scanEmployeeWithDepartment(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, *e)
	}
	return employees, total, rows.Err()
}

func (r *EmployeeRepository) FindWithDepartment(ctx context.Context, id uint64) (*entities.EmployeeWithDepartment, error) {
	query := `
		SELECT e.id, e.full_name, e.email, e.phone_number, e.role, e.role_id, e.is_active,
		       e.department_id, e.manager_id, e.account_id, e.leave_balance, e.created_at, e.updated_at,
		       COALESCE(d.name, '')
		FROM employees e
		LEFT JOIN departments d ON d.id = e.department_id
		WHERE e.id = $1`
	return scanEmployeeWithDepartment(r.storage.QueryRow(ctx, query, id))
}

func (r *EmployeeRepository) GetSubordinates(ctx context.Context, managerID uint64) ([]entities.Employee, error) {
	query := `SELECT ` + employeeFields + ` FROM employees WHERE manager_id = $1 ORDER BY full_name`
	rows, err := r.storage.Query(ctx, query, managerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subordinates := make([]entities.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		subordinates = append(subordinates, *e)
	}
	return subordinates, rows.Err()
}

func (r *EmployeeRepository) GetManagers(ctx context.Context) ([]entities.ManagerRosterItem, error) {
	query := `
		SELECT e.id, e.full_name, e.email, d.id, d.name
		FROM employees e
		LEFT JOIN departments d ON d.manager_id = e.id
		WHERE e.role = 'Manager'
		ORDER BY e.full_name`
	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	managers := make([]entities.ManagerRosterItem, 0)
	for rows.Next() {
		var m entities.ManagerRosterItem
		if err := rows.Scan(&m.EmployeeID, &m.FullName, &m.Email, &m.DepartmentID, &m.DepartmentName); err != nil {
			r.logger.Error("failed to scan manager roster row", zap.Error(err))
			return nil, err
		}
		managers = append(managers, m)
	}
	return managers, rows.Err()
}
