package seeders

import (
	"context"
	"fmt"

	"employee-system/pkg/constants"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var rolesData = []struct {
	Name        string
	Description string
}{
	{Name: constants.RoleAdmin, Description: "Full access to departments, employees and reports"},
	{Name: constants.RoleManager, Description: "Heads a department and approves its leave requests"},
	{Name: constants.RoleEmployee, Description: "Applies for leave and views own records"},
}

// SeedRoles upserts the role catalog. Running it twice only refreshes descriptions.
func (s *Seeder) SeedRoles(ctx context.Context) error {
	s.logger.Info("seeding roles")
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		for _, r := range rolesData {
			role, err := s.roles.EnsureRole(ctx, tx, r.Name, r.Description)
			if err != nil {
				return fmt.Errorf("failed to seed role %q: %w", r.Name, err)
			}
			s.logger.Debug("role ready", zap.String("name", role.Name), zap.Uint64("id", role.ID))
		}
		return nil
	})
}
