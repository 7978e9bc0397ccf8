package entities

import "time"

// DepartmentLog is an append-only snapshot of a department.
type DepartmentLog struct {
	ID             uint64    `db:"id"`
	DepartmentID   uint64    `db:"department_id"`
	DepartmentName string    `db:"department_name"`
	ManagerID      *uint64   `db:"manager_id"`
	Operation      string    `db:"operation"`
	CreatedAt      time.Time `db:"created_at"`
}

// EmployeeLog is an append-only snapshot of an employee.
type EmployeeLog struct {
	ID           uint64    `db:"id"`
	EmployeeID   uint64    `db:"employee_id"`
	FullName     string    `db:"full_name"`
	Email        string    `db:"email"`
	PhoneNumber  string    `db:"phone_number"`
	Role         string    `db:"role"`
	RoleID       *uint64   `db:"role_id"`
	IsActive     bool      `db:"is_active"`
	DepartmentID uint64    `db:"department_id"`
	ManagerID    *uint64   `db:"manager_id"`
	Operation    string    `db:"operation"`
	CreatedAt    time.Time `db:"created_at"`
}

func NewEmployeeLog(e *Employee, operation string) *EmployeeLog {
	return &EmployeeLog{
		EmployeeID:   e.ID,
		FullName:     e.FullName,
		Email:        e.Email,
		PhoneNumber:  e.PhoneNumber,
		Role:         e.Role,
		RoleID:       e.RoleID,
		IsActive:     e.IsActive,
		DepartmentID: e.DepartmentID,
		ManagerID:    e.ManagerID,
		Operation:    operation,
	}
}

func NewDepartmentLog(d *Department, operation string) *DepartmentLog {
	return &DepartmentLog{
		DepartmentID:   d.ID,
		DepartmentName: d.Name,
		ManagerID:      d.ManagerID,
		Operation:      operation,
	}
}
