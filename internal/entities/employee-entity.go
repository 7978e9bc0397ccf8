package entities

import (
	"employee-system/pkg/constants"
	"employee-system/pkg/types"
)

type Employee struct {
	ID           uint64  `json:"id" db:"id"`
	FullName     string  `json:"full_name" db:"full_name"`
	Email        string  `json:"email" db:"email"`
	PhoneNumber  string  `json:"phone_number" db:"phone_number"`
	Role         string  `json:"role" db:"role"`
	RoleID       *uint64 `json:"role_id" db:"role_id"`
	IsActive     bool    `json:"is_active" db:"is_active"`
	DepartmentID uint64  `json:"department_id" db:"department_id"`
	ManagerID    *uint64 `json:"manager_id" db:"manager_id"`
	AccountID    *uint64 `json:"account_id" db:"account_id"`
	LeaveBalance int     `json:"leave_balance" db:"leave_balance"`

	types.BaseEntity
}

func (e *Employee) IsManager() bool {
	return e.Role == constants.RoleManager
}

// EmployeeWithDepartment is an employee row joined with its department name.
type EmployeeWithDepartment struct {
	Employee
	DepartmentName string `json:"department_name" db:"department_name"`
}

// ManagerRosterItem is a manager together with the department it manages, if any.
type ManagerRosterItem struct {
	EmployeeID     uint64  `db:"employee_id"`
	FullName       string  `db:"full_name"`
	Email          string  `db:"email"`
	DepartmentID   *uint64 `db:"department_id"`
	DepartmentName *string `db:"department_name"`
}
