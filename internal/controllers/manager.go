package controllers

import (
	"net/http"

	"employee-system/internal/services"
	"employee-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ManagerController struct {
	employeeService *services.EmployeeService
	leaveService    *services.LeaveService
	logger          *zap.Logger
}

func NewManagerController(
	employeeService *services.EmployeeService,
	leaveService *services.LeaveService,
	logger *zap.Logger,
) *ManagerController {
	return &ManagerController{
		employeeService: employeeService,
		leaveService:    leaveService,
		logger:          logger,
	}
}

// ApproveList returns the pending requests of employees reporting to the caller.
func (c *ManagerController) ApproveList(ctx echo.Context) error {
	managerID, err := utils.GetEmployeeIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.leaveService.GetTeamPending(ctx.Request().Context(), managerID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Leave requests awaiting approval fetched successfully", http.StatusOK)
}

func (c *ManagerController) Subordinates(ctx echo.Context) error {
	managerID, err := utils.GetEmployeeIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.employeeService.GetSubordinates(ctx.Request().Context(), managerID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Subordinates fetched successfully", http.StatusOK)
}
