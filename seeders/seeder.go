package seeders

import (
	"context"

	"employee-system/internal/repositories"
	"employee-system/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Seeder fills a fresh database with the role catalog and the first Admin.
type Seeder struct {
	txManager   repositories.TxManagerInterface
	roles       repositories.RoleRepositoryInterface
	employees   repositories.EmployeeRepositoryInterface
	departments repositories.DepartmentRepositoryInterface
	balances    repositories.LeaveBalanceRepositoryInterface
	accounts    repositories.AccountRepositoryInterface
	logger      *zap.Logger
}

func New(db *pgxpool.Pool, logger *zap.Logger) *Seeder {
	return NewWithRepositories(
		repositories.NewTxManager(db),
		repositories.NewRoleRepository(db),
		repositories.NewEmployeeRepository(db, logger),
		repositories.NewDepartmentRepository(db, logger),
		repositories.NewLeaveBalanceRepository(db, logger),
		repositories.NewAccountRepository(db, logger),
		logger,
	)
}

func NewWithRepositories(
	txManager repositories.TxManagerInterface,
	roles repositories.RoleRepositoryInterface,
	employees repositories.EmployeeRepositoryInterface,
	departments repositories.DepartmentRepositoryInterface,
	balances repositories.LeaveBalanceRepositoryInterface,
	accounts repositories.AccountRepositoryInterface,
	logger *zap.Logger,
) *Seeder {
	return &Seeder{
		txManager:   txManager,
		roles:       roles,
		employees:   employees,
		departments: departments,
		balances:    balances,
		accounts:    accounts,
		logger:      logger,
	}
}

// SeedAll runs every seeder in dependency order.
func (s *Seeder) SeedAll(ctx context.Context, cfg *config.SeedConfig) error {
	if err := s.SeedRoles(ctx); err != nil {
		return err
	}
	return s.SeedAdmin(ctx, cfg)
}
