package entities

import "employee-system/pkg/types"

type Department struct {
	ID          uint64  `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	ManagerID   *uint64 `json:"manager_id" db:"manager_id"`
	ManagerName *string `json:"manager_name" db:"manager_name"`

	types.BaseEntity
}

// IsManagedBy reports whether employeeID is the department's manager.
func (d Department) IsManagedBy(employeeID uint64) bool {
	return d.ManagerID != nil && *d.ManagerID == employeeID
}
