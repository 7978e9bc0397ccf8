package controllers

import (
	"fmt"
	"net/http"
	"time"

	"employee-system/internal/dto"
	"employee-system/internal/services"
	apperrors "employee-system/pkg/errors"
	"employee-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type EmployeeController struct {
	employeeService *services.EmployeeService
	logger          *zap.Logger
}

func NewEmployeeController(employeeService *services.EmployeeService, logger *zap.Logger) *EmployeeController {
	return &EmployeeController{
		employeeService: employeeService,
		logger:          logger,
	}
}

func (c *EmployeeController) GetEmployees(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	res, total, err := c.employeeService.GetEmployees(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Employees fetched successfully", http.StatusOK, total)
}

func (c *EmployeeController) FilterEmployees(ctx echo.Context) error {
	var criteria dto.EmployeeFilterDTO
	if err := ctx.Bind(&criteria); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("Invalid filter parameters."), c.logger)
	}
	if err := ctx.Validate(&criteria); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.employeeService.FilterEmployees(ctx.Request().Context(), criteria)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Employees fetched successfully", http.StatusOK)
}

func (c *EmployeeController) FindEmployee(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.employeeService.FindEmployee(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Employee fetched successfully", http.StatusOK)
}

func (c *EmployeeController) GetManagers(ctx echo.Context) error {
	res, err := c.employeeService.GetManagers(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Managers fetched successfully", http.StatusOK)
}

func (c *EmployeeController) GetEmployeeLogs(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.employeeService.GetEmployeeLogs(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Employee logs fetched successfully", http.StatusOK)
}

func (c *EmployeeController) CreateEmployee(ctx echo.Context) error {
	var payload dto.CreateEmployeeDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Warn("CreateEmployee: bind failed", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("Invalid request body."), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.employeeService.CreateEmployee(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Employee created successfully", http.StatusCreated)
}

func (c *EmployeeController) UpdateEmployee(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateEmployeeDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Warn("UpdateEmployee: bind failed", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("Invalid request body."), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.employeeService.UpdateEmployee(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Employee updated successfully", http.StatusOK)
}

func (c *EmployeeController) DeleteEmployee(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.employeeService.DeleteEmployee(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Employee deleted successfully", http.StatusOK)
}

var employeeExportHeaders = []string{
	"ID", "Full name", "Email", "Phone", "Role", "Department", "Manager ID", "Active", "Leave quota", "Created at",
}

// ExportEmployees streams the employee list as an xlsx workbook. Search and filters apply, paging does not.
func (c *EmployeeController) ExportEmployees(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	filter.WithPagination = false

	employees, _, err := c.employeeService.GetEmployees(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Employees"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := f.SetSheetRow(sheet, "A1", &employeeExportHeaders); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheet, "A1", "J1", style)
	}

	for i, e := range employees {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := employeeExportRow(e)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			c.logger.Error("ExportEmployees: failed to write row", zap.Uint64("employee_id", e.ID), zap.Error(err))
			return utils.ErrorResponse(ctx, err, c.logger)
		}
	}
	_ = f.SetColWidth(sheet, "B", "C", 30)
	_ = f.SetColWidth(sheet, "F", "F", 25)

	fileName := fmt.Sprintf("employees_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}

func employeeExportRow(e dto.EmployeeDTO) []interface{} {
	var managerID interface{} = ""
	if e.ManagerID.Valid {
		managerID = e.ManagerID.Uint64
	}
	active := "No"
	if e.IsActive {
		active = "Yes"
	}
	return []interface{}{
		e.ID, e.FullName, e.Email, e.PhoneNumber, e.Role, e.DepartmentName,
		managerID, active, e.LeaveBalance, e.CreatedAt,
	}
}
