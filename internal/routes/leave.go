package routes

import (
	"employee-system/internal/controllers"
	"employee-system/internal/services"
	"employee-system/pkg/constants"
	"employee-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runLeaveRouter(secureGroup *echo.Group, leaveService *services.LeaveService, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	leaveCtrl := controllers.NewLeaveController(leaveService, logger)
	staff := authMW.RequireRoles(constants.RoleAdmin, constants.RoleManager)

	leaves := secureGroup.Group("/leave")
	leaves.POST("/apply", leaveCtrl.Apply)
	leaves.GET("/my", leaveCtrl.MyLeaves)
	leaves.GET("/pending", leaveCtrl.GetPending, staff)
	leaves.GET("/team", leaveCtrl.GetTeamPending, staff)
	leaves.GET("/:id", leaveCtrl.FindLeave, staff)
	leaves.POST("/:id/status", leaveCtrl.UpdateStatus, staff)
}
