package routes

import (
	"employee-system/internal/controllers"
	"employee-system/internal/services"
	"employee-system/pkg/constants"
	"employee-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runEmployeeRouter(secureGroup *echo.Group, employeeService *services.EmployeeService, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	employeeCtrl := controllers.NewEmployeeController(employeeService, logger)
	staff := authMW.RequireRoles(constants.RoleAdmin, constants.RoleManager)
	adminOnly := authMW.RequireRoles(constants.RoleAdmin)

	secureGroup.GET("/employees", employeeCtrl.GetEmployees, staff)
	secureGroup.GET("/employees/managers", employeeCtrl.GetManagers, staff)
	secureGroup.GET("/employees/filter", employeeCtrl.FilterEmployees, adminOnly)
	secureGroup.GET("/employees/export", employeeCtrl.ExportEmployees, adminOnly)
	secureGroup.GET("/employee/:id", employeeCtrl.FindEmployee, staff)
	secureGroup.GET("/employee/:id/logs", employeeCtrl.GetEmployeeLogs, adminOnly)
	secureGroup.POST("/employee", employeeCtrl.CreateEmployee, staff)
	secureGroup.PUT("/employee/:id", employeeCtrl.UpdateEmployee, staff)
	secureGroup.DELETE("/employee/:id", employeeCtrl.DeleteEmployee, adminOnly)
}

func runMeRouter(secureGroup *echo.Group, employeeService *services.EmployeeService, logger *zap.Logger) {
	meCtrl := controllers.NewMeController(employeeService, logger)

	me := secureGroup.Group("/me")
	me.GET("/profile", meCtrl.Profile)
	me.GET("/leaves", meCtrl.CurrentMonthLeaves)
	me.GET("/current-month-info", meCtrl.CurrentMonthInfo)
}

func runManagerRouter(
	secureGroup *echo.Group,
	employeeService *services.EmployeeService,
	leaveService *services.LeaveService,
	logger *zap.Logger,
	authMW *middleware.AuthMiddleware,
) {
	managerCtrl := controllers.NewManagerController(employeeService, leaveService, logger)

	manager := secureGroup.Group("/manager", authMW.RequireRoles(constants.RoleManager))
	manager.GET("/approve-list", managerCtrl.ApproveList)
	manager.GET("/subordinates", managerCtrl.Subordinates)
}
