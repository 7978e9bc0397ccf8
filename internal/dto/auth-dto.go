package dto

type RegisterDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

type LoginResponseDTO struct {
	Token      string `json:"token"`
	ExpiresIn  int64  `json:"expires_in"`
	Role       string `json:"role"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	EmployeeID uint64 `json:"employee_id"`
}
