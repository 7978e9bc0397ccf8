package dto

import (
	"employee-system/internal/entities"
	"employee-system/pkg/types"
)

// EmployeeID defaults to the caller when zero.
type ApplyLeaveDTO struct {
	EmployeeID uint64     `json:"employee_id"`
	StartDate  types.Date `json:"start_date"`
	EndDate    types.Date `json:"end_date"`
	Status     string     `json:"status"`
	Reason     string     `json:"reason" validate:"max=1000"`
}

// Status is checked by the service so that a blank value yields the domain message.
type ApproveLeaveDTO struct {
	Status string `json:"status"`
}

type LeaveRequestDTO struct {
	ID           uint64     `json:"id"`
	EmployeeID   uint64     `json:"employee_id"`
	EmployeeName string     `json:"employee_name,omitempty"`
	StartDate    types.Date `json:"start_date"`
	EndDate      types.Date `json:"end_date"`
	BusinessDays int        `json:"business_days"`
	Status       string     `json:"status"`
	Reason       string     `json:"reason"`
	RequestDate  string     `json:"request_date"`
}

type LeaveBalanceDTO struct {
	EmployeeID  uint64 `json:"employee_id"`
	TotalLeaves int    `json:"total_leaves"`
	LeavesTaken int    `json:"leaves_taken"`
	Remaining   int    `json:"remaining"`
}

func LeaveBalanceToDTO(b *entities.LeaveBalance) *LeaveBalanceDTO {
	if b == nil {
		return nil
	}
	return &LeaveBalanceDTO{
		EmployeeID:  b.EmployeeID,
		TotalLeaves: b.TotalLeaves,
		LeavesTaken: b.LeavesTaken,
		Remaining:   b.Remaining(),
	}
}

// LeaveRequestToDTO renders a request; businessDays is computed by the caller.
func LeaveRequestToDTO(l *entities.LeaveRequestWithEmployee, businessDays int) LeaveRequestDTO {
	return LeaveRequestDTO{
		ID:           l.ID,
		EmployeeID:   l.EmployeeID,
		EmployeeName: l.EmployeeName,
		StartDate:    types.DateOf(l.StartDate),
		EndDate:      types.DateOf(l.EndDate),
		BusinessDays: businessDays,
		Status:       l.Status,
		Reason:       l.Reason,
		RequestDate:  l.RequestDate.Format(TimestampLayout),
	}
}
