package repositories

import (
	"context"
	"errors"
	"fmt"

	"employee-system/internal/entities"
	apperrors "employee-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoleRepositoryInterface interface {
	FindByName(ctx context.Context, tx pgx.Tx, name string) (*entities.Role, error)
	GetRoles(ctx context.Context) ([]entities.Role, error)
	// EnsureRole inserts the role when missing and returns the stored row.
	EnsureRole(ctx context.Context, tx pgx.Tx, name, description string) (*entities.Role, error)
}

type RoleRepository struct {
	storage *pgxpool.Pool
}

func NewRoleRepository(storage *pgxpool.Pool) RoleRepositoryInterface {
	return &RoleRepository{storage: storage}
}

func scanRole(row pgx.Row) (*entities.Role, error) {
	var role entities.Role
	err := row.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan role: %w", err)
	}
	return &role, nil
}

func (r *RoleRepository) FindByName(ctx context.Context, tx pgx.Tx, name string) (*entities.Role, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM roles WHERE name = $1`
	return scanRole(pick(r.storage, tx).QueryRow(ctx, query, name))
}

func (r *RoleRepository) GetRoles(ctx context.Context) ([]entities.Role, error) {
	rows, err := r.storage.Query(ctx, `SELECT id, name, description, created_at, updated_at FROM roles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	roles := make([]entities.Role, 0)
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, *role)
	}
	return roles, rows.Err()
}

func (r *RoleRepository) EnsureRole(ctx context.Context, tx pgx.Tx, name, description string) (*entities.Role, error) {
	query := `
		INSERT INTO roles (name, description) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description, updated_at = NOW()
		RETURNING id, name, description, created_at, updated_at`
	return scanRole(pick(r.storage, tx).QueryRow(ctx, query, name, description))
}
