package seeders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"employee-system/internal/entities"
	"employee-system/pkg/config"
	"employee-system/pkg/constants"
	apperrors "employee-system/pkg/errors"
	"employee-system/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// SeedAdmin creates the first Admin employee with a login account, unless an employee
// with the configured email already exists.
func (s *Seeder) SeedAdmin(ctx context.Context, cfg *config.SeedConfig) error {
	email := strings.TrimSpace(cfg.AdminEmail)
	if email == "" || cfg.AdminPassword == "" {
		return errors.New("admin email and password must be configured")
	}

	_, err := s.employees.FindByEmail(ctx, nil, email)
	if err == nil {
		s.logger.Info("admin already exists, skipping", zap.String("email", email))
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	hash, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		role, err := s.roles.FindByName(ctx, tx, constants.RoleAdmin)
		if err != nil {
			return fmt.Errorf("admin role missing, seed roles first: %w", err)
		}

		department := &entities.Department{Name: cfg.AdminDeptName}
		if err := s.departments.Create(ctx, tx, department); err != nil {
			return err
		}

		roleID := role.ID
		admin := &entities.Employee{
			FullName:     cfg.AdminName,
			Email:        email,
			Role:         role.Name,
			RoleID:       &roleID,
			IsActive:     true,
			DepartmentID: department.ID,
			LeaveBalance: cfg.AdminLeaveDays,
		}
		if err := s.employees.Create(ctx, tx, admin); err != nil {
			return err
		}
		if err := s.balances.Create(ctx, tx, &entities.LeaveBalance{EmployeeID: admin.ID, TotalLeaves: cfg.AdminLeaveDays}); err != nil {
			return err
		}

		account := &entities.Account{Email: email, FullName: cfg.AdminName, PasswordHash: hash}
		if err := s.accounts.Create(ctx, tx, account); err != nil {
			return err
		}
		if err := s.employees.SetAccount(ctx, tx, admin.ID, account.ID); err != nil {
			return err
		}

		s.logger.Info("admin created", zap.Uint64("employee_id", admin.ID), zap.String("email", email))
		return nil
	})
}
