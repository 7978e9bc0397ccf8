package controllers

import (
	"net/http"

	"employee-system/internal/dto"
	"employee-system/internal/services"
	apperrors "employee-system/pkg/errors"
	"employee-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type LeaveController struct {
	leaveService *services.LeaveService
	logger       *zap.Logger
}

func NewLeaveController(leaveService *services.LeaveService, logger *zap.Logger) *LeaveController {
	return &LeaveController{
		leaveService: leaveService,
		logger:       logger,
	}
}

func (c *LeaveController) Apply(ctx echo.Context) error {
	var payload dto.ApplyLeaveDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Warn("Apply: bind failed", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("Invalid request body."), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.leaveService.Apply(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Leave applied successfully", http.StatusCreated)
}

// MyLeaves lists every request of the caller, newest first.
func (c *LeaveController) MyLeaves(ctx echo.Context) error {
	employeeID, err := utils.GetEmployeeIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.leaveService.GetEmployeeLeaves(ctx.Request().Context(), employeeID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Leave requests fetched successfully", http.StatusOK)
}

func (c *LeaveController) GetPending(ctx echo.Context) error {
	res, err := c.leaveService.GetPending(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Pending leave requests fetched successfully", http.StatusOK)
}

func (c *LeaveController) GetTeamPending(ctx echo.Context) error {
	managerID, err := utils.GetEmployeeIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.leaveService.GetTeamPending(ctx.Request().Context(), managerID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Team leave requests fetched successfully", http.StatusOK)
}

func (c *LeaveController) FindLeave(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.leaveService.FindLeave(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Leave request fetched successfully", http.StatusOK)
}

func (c *LeaveController) UpdateStatus(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.ApproveLeaveDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("Invalid request body."), c.logger)
	}

	res, err := c.leaveService.ApproveOrReject(ctx.Request().Context(), id, payload.Status)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Leave status updated to "+res.Status, http.StatusOK)
}
