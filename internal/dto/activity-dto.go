package dto

import (
	"employee-system/internal/entities"

	"github.com/aarondl/null/v8"
)

type LoginActivityDTO struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	IPAddress    string    `json:"ip_address"`
	LoginTime    string    `json:"login_time"`
	LogoutTime   null.Time `json:"logout_time"`
	IsSuccessful bool      `json:"is_successful"`
}

type LoginHistoryDTO struct {
	EmployeeID uint64             `json:"employee_id"`
	AccountID  uint64             `json:"account_id"`
	Logs       []LoginActivityDTO `json:"logs"`
}

type RoleDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func LoginActivityToDTO(l entities.LoginActivityLog) LoginActivityDTO {
	return LoginActivityDTO{
		ID:           l.ID,
		Email:        l.Email,
		IPAddress:    l.IPAddress,
		LoginTime:    l.LoginTime.Format(TimestampLayout),
		LogoutTime:   null.TimeFromPtr(l.LogoutTime),
		IsSuccessful: l.IsSuccessful,
	}
}
