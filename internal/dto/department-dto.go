package dto

import (
	"employee-system/internal/entities"

	"github.com/aarondl/null/v8"
)

// Name is checked by the service so that an empty name yields the domain message.
type CreateDepartmentDTO struct {
	Name      string  `json:"name" validate:"max=255"`
	ManagerID *uint64 `json:"manager_id" validate:"omitempty,gt=0"`
}

type UpdateDepartmentDTO struct {
	ID        uint64  `json:"id"`
	Name      string  `json:"name" validate:"max=255"`
	ManagerID *uint64 `json:"manager_id" validate:"omitempty,gt=0"`
}

type DepartmentDTO struct {
	ID          uint64      `json:"id"`
	Name        string      `json:"name"`
	ManagerID   null.Uint64 `json:"manager_id"`
	ManagerName null.String `json:"manager_name"`
	CreatedAt   string      `json:"created_at,omitempty"`
	UpdatedAt   string      `json:"updated_at,omitempty"`
}

type DepartmentLogDTO struct {
	ID             uint64      `json:"id"`
	DepartmentID   uint64      `json:"department_id"`
	DepartmentName string      `json:"department_name"`
	ManagerID      null.Uint64 `json:"manager_id"`
	Operation      string      `json:"operation"`
	TimeStamp      string      `json:"timestamp"`
}

func DepartmentToDTO(d *entities.Department) *DepartmentDTO {
	if d == nil {
		return nil
	}
	out := &DepartmentDTO{
		ID:          d.ID,
		Name:        d.Name,
		ManagerID:   null.Uint64FromPtr(d.ManagerID),
		ManagerName: null.StringFromPtr(d.ManagerName),
	}
	if d.CreatedAt != nil {
		out.CreatedAt = d.CreatedAt.Format(TimestampLayout)
	}
	if d.UpdatedAt != nil {
		out.UpdatedAt = d.UpdatedAt.Format(TimestampLayout)
	}
	return out
}

func DepartmentLogToDTO(l entities.DepartmentLog) DepartmentLogDTO {
	return DepartmentLogDTO{
		ID:             l.ID,
		DepartmentID:   l.DepartmentID,
		DepartmentName: l.DepartmentName,
		ManagerID:      null.Uint64FromPtr(l.ManagerID),
		Operation:      l.Operation,
		TimeStamp:      l.CreatedAt.Format(TimestampLayout),
	}
}
