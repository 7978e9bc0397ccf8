package controllers

import (
	"net/http"

	"employee-system/internal/services"
	"employee-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ActivityController struct {
	activityService *services.ActivityService
	logger          *zap.Logger
}

func NewActivityController(activityService *services.ActivityService, logger *zap.Logger) *ActivityController {
	return &ActivityController{activityService: activityService, logger: logger}
}

func (ctrl *ActivityController) LoginHistory(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	res, err := ctrl.activityService.GetLoginHistory(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Login history fetched successfully", http.StatusOK)
}
