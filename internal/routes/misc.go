package routes

import (
	"employee-system/internal/controllers"
	"employee-system/internal/services"
	"employee-system/pkg/constants"
	"employee-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runDashboardRouter(secureGroup *echo.Group, dashboardService *services.DashboardService, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	dashboardCtrl := controllers.NewDashboardController(dashboardService, logger)
	secureGroup.GET("/dashboard", dashboardCtrl.GetDashboard, authMW.RequireRoles(constants.RoleAdmin))
}

func runActivityRouter(secureGroup *echo.Group, activityService *services.ActivityService, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	activityCtrl := controllers.NewActivityController(activityService, logger)
	secureGroup.GET("/activity/login-history/:id", activityCtrl.LoginHistory,
		authMW.RequireRoles(constants.RoleAdmin, constants.RoleManager))
}

func runRoleRouter(secureGroup *echo.Group, roleService services.RoleServiceInterface, logger *zap.Logger) {
	roleCtrl := controllers.NewRoleController(roleService, logger)
	secureGroup.GET("/roles", roleCtrl.GetRoles)
}
