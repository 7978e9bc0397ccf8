package dto

import (
	"employee-system/internal/entities"

	"github.com/aarondl/null/v8"
)

// Role is validated against the catalog by the service, not here.
type CreateEmployeeDTO struct {
	FullName     string `json:"full_name" validate:"required,max=255"`
	Email        string `json:"email" validate:"required,email"`
	PhoneNumber  string `json:"phone_number" validate:"phone"`
	Role         string `json:"role" validate:"required"`
	IsActive     bool   `json:"is_active"`
	DepartmentID uint64 `json:"department_id" validate:"required,gt=0"`
	LeaveBalance int    `json:"leave_balance" validate:"gte=0"`
}

type UpdateEmployeeDTO struct {
	ID           uint64 `json:"id"`
	FullName     string `json:"full_name" validate:"required,max=255"`
	Email        string `json:"email" validate:"required,email"`
	PhoneNumber  string `json:"phone_number" validate:"phone"`
	Role         string `json:"role" validate:"required"`
	IsActive     bool   `json:"is_active"`
	DepartmentID uint64 `json:"department_id" validate:"required,gt=0"`
	LeaveBalance int    `json:"leave_balance" validate:"gte=0"`
}

// EmployeeFilterDTO binds /employees/filter query parameters.
type EmployeeFilterDTO struct {
	DepartmentID *uint64 `query:"departmentId" validate:"omitempty,gt=0"`
	Role         string  `query:"role" validate:"omitempty,role_name"`
}

type EmployeeDTO struct {
	ID             uint64      `json:"id"`
	FullName       string      `json:"full_name"`
	Email          string      `json:"email"`
	PhoneNumber    string      `json:"phone_number"`
	Role           string      `json:"role"`
	RoleID         null.Uint64 `json:"role_id"`
	IsActive       bool        `json:"is_active"`
	DepartmentID   uint64      `json:"department_id"`
	DepartmentName string      `json:"department_name,omitempty"`
	ManagerID      null.Uint64 `json:"manager_id"`
	AccountID      null.Uint64 `json:"account_id"`
	LeaveBalance   int         `json:"leave_balance"`
	CreatedAt      string      `json:"created_at,omitempty"`
	UpdatedAt      string      `json:"updated_at,omitempty"`
}

type ManagerDetailsDTO struct {
	EmployeeID     uint64      `json:"employee_id"`
	FullName       string      `json:"full_name"`
	Email          string      `json:"email"`
	DepartmentID   null.Uint64 `json:"department_id"`
	DepartmentName null.String `json:"department_name"`
}

type EmployeeProfileDTO struct {
	Employee    EmployeeDTO      `json:"employee"`
	ManagerName string           `json:"manager_name"`
	Balance     *LeaveBalanceDTO `json:"balance,omitempty"`
}

type CurrentMonthInfoDTO struct {
	Employee              EmployeeDTO       `json:"employee"`
	ManagerName           string            `json:"manager_name"`
	CurrentMonth          string            `json:"current_month"`
	LeaveRequests         []LeaveRequestDTO `json:"leave_requests"`
	DaysOnLeave           int               `json:"days_on_leave"`
	RemainingLeaveBalance int               `json:"remaining_leave_balance"`
}

type EmployeeLogDTO struct {
	ID           uint64      `json:"id"`
	EmployeeID   uint64      `json:"employee_id"`
	FullName     string      `json:"full_name"`
	Email        string      `json:"email"`
	Role         string      `json:"role"`
	IsActive     bool        `json:"is_active"`
	DepartmentID uint64      `json:"department_id"`
	ManagerID    null.Uint64 `json:"manager_id"`
	Operation    string      `json:"operation"`
	TimeStamp    string      `json:"timestamp"`
}

func EmployeeToDTO(e *entities.Employee) EmployeeDTO {
	out := EmployeeDTO{
		ID:           e.ID,
		FullName:     e.FullName,
		Email:        e.Email,
		PhoneNumber:  e.PhoneNumber,
		Role:         e.Role,
		RoleID:       null.Uint64FromPtr(e.RoleID),
		IsActive:     e.IsActive,
		DepartmentID: e.DepartmentID,
		ManagerID:    null.Uint64FromPtr(e.ManagerID),
		AccountID:    null.Uint64FromPtr(e.AccountID),
		LeaveBalance: e.LeaveBalance,
	}
	if e.CreatedAt != nil {
		out.CreatedAt = e.CreatedAt.Format(TimestampLayout)
	}
	if e.UpdatedAt != nil {
		out.UpdatedAt = e.UpdatedAt.Format(TimestampLayout)
	}
	return out
}

func EmployeeWithDepartmentToDTO(e *entities.EmployeeWithDepartment) EmployeeDTO {
	out := EmployeeToDTO(&e.Employee)
	out.DepartmentName = e.DepartmentName
	return out
}

func EmployeeLogToDTO(l entities.EmployeeLog) EmployeeLogDTO {
	return EmployeeLogDTO{
		ID:           l.ID,
		EmployeeID:   l.EmployeeID,
		FullName:     l.FullName,
		Email:        l.Email,
		Role:         l.Role,
		IsActive:     l.IsActive,
		DepartmentID: l.DepartmentID,
		ManagerID:    null.Uint64FromPtr(l.ManagerID),
		Operation:    l.Operation,
		TimeStamp:    l.CreatedAt.Format(TimestampLayout),
	}
}

func ManagerDetailsToDTO(m entities.ManagerRosterItem) ManagerDetailsDTO {
	return ManagerDetailsDTO{
		EmployeeID:     m.EmployeeID,
		FullName:       m.FullName,
		Email:          m.Email,
		DepartmentID:   null.Uint64FromPtr(m.DepartmentID),
		DepartmentName: null.StringFromPtr(m.DepartmentName),
	}
}
