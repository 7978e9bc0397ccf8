package controllers

import (
	"net/http"

	"employee-system/internal/services"
	"employee-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// MeController serves the caller's own employee record.
type MeController struct {
	employeeService *services.EmployeeService
	logger          *zap.Logger
}

func NewMeController(employeeService *services.EmployeeService, logger *zap.Logger) *MeController {
	return &MeController{employeeService: employeeService, logger: logger}
}

func (c *MeController) Profile(ctx echo.Context) error {
	employeeID, err := utils.GetEmployeeIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.employeeService.GetProfile(ctx.Request().Context(), employeeID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Profile fetched successfully", http.StatusOK)
}

func (c *MeController) CurrentMonthLeaves(ctx echo.Context) error {
	employeeID, err := utils.GetEmployeeIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.employeeService.GetCurrentMonthLeaves(ctx.Request().Context(), employeeID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Leave requests fetched successfully", http.StatusOK)
}

func (c *MeController) CurrentMonthInfo(ctx echo.Context) error {
	employeeID, err := utils.GetEmployeeIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.employeeService.GetCurrentMonthInfo(ctx.Request().Context(), employeeID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Current month info fetched successfully", http.StatusOK)
}
