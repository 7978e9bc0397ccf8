package repositories

import (
	"context"
	"errors"
	"fmt"

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
	departmentTable  = "departments"
	departmentFields = "id, name, manager_id, manager_name, created_at, updated_at"
)

var departmentListColumns = map[string]db.Column{
	"id":         {Name: "id", Numeric: true},
	"manager_id": {Name: "manager_id", Numeric: true},
	"name":       {Name: "name"},
	"created_at": {Name: "created_at"},
}

type DepartmentRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Department, error)
	// FindManagedBy returns a department managed by employeeID other than excludeID (0 excludes nothing).
	FindManagedBy(ctx context.Context, tx pgx.Tx, employeeID, excludeID uint64) (*entities.Department, error)
	ListManagedBy(ctx context.Context, tx pgx.Tx, employeeID uint64) ([]entities.Department, error)
	Create(ctx context.Context, tx pgx.Tx, department *entities.Department) error
	Update(ctx context.Context, tx pgx.Tx, department *entities.Department) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
	GetDepartments(ctx context.Context, filter types.Filter) ([]entities.Department, uint64, error)
}

type DepartmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDepartmentRepository(storage *pgxpool.Pool, logger *zap.Logger) DepartmentRepositoryInterface {
	return &DepartmentRepository{storage: storage, logger: logger}
}

func scanDepartment(row pgx.Row) (*entities.Department, error) {
	var d entities.Department
	err := row.Scan(&d.ID, &d.Name, &d.ManagerID, &d.ManagerName, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan department: %w", err)
	}
	return &d, nil
}

func collectDepartments(rows pgx.Rows) ([]entities.Department, error) {
	defer rows.Close()
	departments := make([]entities.Department, 0)
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		departments = append(departments, *d)
	}
	return departments, rows.Err()
}

func (r *DepartmentRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Department, error) {
	query := `SELECT ` + departmentFields + ` FROM departments WHERE id = $1`
	return scanDepartment(pick(r.storage, tx).QueryRow(ctx, query, id))
}

func (r *DepartmentRepository) FindManagedBy(ctx context.Context, tx pgx.Tx, employeeID, excludeID uint64) (*entities.Department, error) {
	builder := sq.Select(departmentFields).
		From(departmentTable).
		Where(sq.Eq{"manager_id": employeeID}).
		OrderBy("id").
		Limit(1).
		PlaceholderFormat(sq.Dollar)
	if excludeID != 0 {
		builder = builder.Where(sq.NotEq{"id": excludeID})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	return scanDepartment(pick(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *DepartmentRepository) ListManagedBy(ctx context.Context, tx pgx.Tx, employeeID uint64) ([]entities.Department, error) {
	query := `SELECT ` + departmentFields + ` FROM departments WHERE manager_id = $1 ORDER BY id`
	rows, err := pick(r.storage, tx).Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	return collectDepartments(rows)
}

func (r *DepartmentRepository) Create(ctx context.Context, tx pgx.Tx, department *entities.Department) error {
	query := `
		INSERT INTO departments (name, manager_id, manager_name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`
	err := pick(r.storage, tx).QueryRow(ctx, query, department.Name, department.ManagerID, department.ManagerName).
		Scan(&department.ID, &department.CreatedAt, &department.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert department: %w", err)
	}
	return nil
}

func (r *DepartmentRepository) Update(ctx context.Context, tx pgx.Tx, department *entities.Department) error {
	query, args, err := sq.Update(departmentTable).
		PlaceholderFormat(sq.Dollar).
		Set("name", department.Name).
		Set("manager_id", department.ManagerID).
		Set("manager_name", department.ManagerName).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": department.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := pick(r.storage, tx).QueryRow(ctx, query, args...).Scan(&department.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to update department %d: %w", department.ID, err)
	}
	return nil
}

func (r *DepartmentRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	result, err := pick(r.storage, tx).Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete department %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *DepartmentRepository) GetDepartments(ctx context.Context, filter types.Filter) ([]entities.Department, uint64, error) {
	countBuilder := sq.Select("COUNT(*)").From(departmentTable).PlaceholderFormat(sq.Dollar)
	countBuilder = db.ApplyFilters(countBuilder, filter, departmentListColumns)
	countBuilder = db.ApplySearch(countBuilder, filter, "name", "manager_name")
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count departments: %w", err)
	}
	if total == 0 {
		return []entities.Department{}, 0, nil
	}

	listBuilder := sq.Select(departmentFields).From(departmentTable).PlaceholderFormat(sq.Dollar)
	listBuilder = db.ApplyFilters(listBuilder, filter, departmentListColumns)
	listBuilder = db.ApplySearch(listBuilder, filter, "name", "manager_name")
	listBuilder = db.ApplySortAndPage(listBuilder, filter, departmentListColumns, "id ASC")
	query, args, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list departments", zap.Error(err))
		return nil, 0, err
	}
	departments, err := collectDepartments(rows)
	if err != nil {
		return nil, 0, err
	}
	return departments, total, nil
}
