package routes

import (
	"employee-system/internal/controllers"
	"employee-system/internal/services"
	"employee-system/pkg/constants"
	"employee-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runDepartmentRouter(secureGroup *echo.Group, departmentService *services.DepartmentService, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	departmentCtrl := controllers.NewDepartmentController(departmentService, logger)
	staff := authMW.RequireRoles(constants.RoleAdmin, constants.RoleManager)

	secureGroup.GET("/departments", departmentCtrl.GetDepartments, staff)
	secureGroup.GET("/department/:id", departmentCtrl.FindDepartment, staff)
	secureGroup.GET("/department/:id/logs", departmentCtrl.GetDepartmentLogs, staff)
	secureGroup.POST("/department", departmentCtrl.CreateDepartment, staff)
	secureGroup.PUT("/department/:id", departmentCtrl.UpdateDepartment, staff)
	secureGroup.DELETE("/department/:id", departmentCtrl.DeleteDepartment, staff)
}
