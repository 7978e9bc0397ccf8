package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"employee-system/internal/repositories"
	"employee-system/internal/services"
	"employee-system/pkg/config"
	"employee-system/pkg/middleware"
	"employee-system/pkg/service"
)

// Repositories is the storage the router builds its services on.
type Repositories struct {
	TxManager     repositories.TxManagerInterface
	Employees     repositories.EmployeeRepositoryInterface
	Departments   repositories.DepartmentRepositoryInterface
	LeaveRequests repositories.LeaveRequestRepositoryInterface
	LeaveBalances repositories.LeaveBalanceRepositoryInterface
	AuditLogs     repositories.AuditLogRepositoryInterface
	Roles         repositories.RoleRepositoryInterface
	Accounts      repositories.AccountRepositoryInterface
	Dashboard     repositories.DashboardRepositoryInterface
	Cache         repositories.CacheRepositoryInterface
}

func NewRepositories(dbConn *pgxpool.Pool, redisClient *redis.Client, logger *zap.Logger) *Repositories {
	return &Repositories{
		TxManager:     repositories.NewTxManager(dbConn),
		Employees:     repositories.NewEmployeeRepository(dbConn, logger),
		Departments:   repositories.NewDepartmentRepository(dbConn, logger),
		LeaveRequests: repositories.NewLeaveRequestRepository(dbConn, logger),
		LeaveBalances: repositories.NewLeaveBalanceRepository(dbConn, logger),
		AuditLogs:     repositories.NewAuditLogRepository(dbConn, logger),
		Roles:         repositories.NewRoleRepository(dbConn),
		Accounts:      repositories.NewAccountRepository(dbConn, logger),
		Dashboard:     repositories.NewDashboardRepository(dbConn, logger),
		Cache:         repositories.NewRedisCacheRepository(redisClient),
	}
}

func InitRouter(e *echo.Echo, repos *Repositories, jwtSvc service.JWTService, cfg *config.Config, logger *zap.Logger) {
	logger.Info("InitRouter: registering routes")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)

	// --- services ---
	accounting := services.NewLeaveAccounting(repos.LeaveBalances, repos.Employees, logger)
	managers := services.NewManagerAssignment(repos.Employees, repos.Departments, repos.Roles, repos.AuditLogs, logger)

	employeeService := services.NewEmployeeService(
		repos.TxManager, repos.Employees, repos.Departments, repos.Roles, repos.Accounts,
		repos.AuditLogs, repos.LeaveRequests, accounting, managers, logger,
	)
	departmentService := services.NewDepartmentService(repos.TxManager, repos.Departments, repos.Employees, repos.AuditLogs, managers, logger)
	leaveService := services.NewLeaveService(repos.TxManager, repos.LeaveRequests, repos.Employees, accounting, logger)
	authService := services.NewAuthService(repos.TxManager, repos.Accounts, repos.Employees, repos.Cache, jwtSvc, logger, &cfg.Auth)
	activityService := services.NewActivityService(repos.Employees, repos.Accounts, logger)
	dashboardService := services.NewDashboardService(repos.Dashboard, logger)
	roleService := services.NewRoleService(repos.Roles, logger)

	// --- routers ---
	runAuthRouter(api, authService, logger, authMW)

	secureGroup := api.Group("", authMW.Auth)

	runDepartmentRouter(secureGroup, departmentService, logger, authMW)
	runEmployeeRouter(secureGroup, employeeService, logger, authMW)
	runMeRouter(secureGroup, employeeService, logger)
	runLeaveRouter(secureGroup, leaveService, logger, authMW)
	runManagerRouter(secureGroup, employeeService, leaveService, logger, authMW)
	runDashboardRouter(secureGroup, dashboardService, logger, authMW)
	runActivityRouter(secureGroup, activityService, logger, authMW)
	runRoleRouter(secureGroup, roleService, logger)

	logger.Info("InitRouter: routes registered")
}
