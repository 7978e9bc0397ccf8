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

type AuthController struct {
	authService services.AuthServiceInterface
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, logger *zap.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

func (ctrl *AuthController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *AuthController) Register(c echo.Context) error {
	var payload dto.RegisterDTO
	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Warn("Register: bind failed", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewValidationError("Invalid registration data."))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	if err := ctrl.authService.Register(c.Request().Context(), payload, c.RealIP()); err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, struct{}{}, "Registration successful", http.StatusCreated)
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Warn("Login: bind failed", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewValidationError("Invalid login data."))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	res, err := ctrl.authService.Login(c.Request().Context(), payload, c.RealIP())
	if err != nil {
		ctrl.logger.Info("Login: rejected", zap.String("email", payload.Email), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, res, "Login successful", http.StatusOK)
}

func (ctrl *AuthController) Logout(c echo.Context) error {
	if err := ctrl.authService.Logout(c.Request().Context()); err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, struct{}{}, "Logged out", http.StatusOK)
}

func (ctrl *AuthController) ChangePassword(c echo.Context) error {
	var payload dto.ChangePasswordDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewValidationError("Invalid request body."))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	if err := ctrl.authService.ChangePassword(c.Request().Context(), payload); err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, struct{}{}, "Password changed successfully", http.StatusOK)
}
