package entities

import "time"

// Account is a login identity. It is linked to an employee by email.
type Account struct {
	ID             uint64     `db:"id"`
	Email          string     `db:"email"`
	FullName       string     `db:"full_name"`
	PasswordHash   string     `db:"password_hash"`
	LockoutEnabled bool       `db:"lockout_enabled"`
	LockoutEnd     *time.Time `db:"lockout_end"`
	CreatedAt      time.Time  `db:"created_at"`
}

// IsLockedOut reports whether the directory lockout is active at now.
func (a *Account) IsLockedOut(now time.Time) bool {
	return a.LockoutEnabled && a.LockoutEnd != nil && a.LockoutEnd.After(now)
}

type LoginActivityLog struct {
	ID           uint64     `db:"id"`
	AccountID    uint64     `db:"account_id"`
	EmployeeID   *uint64    `db:"employee_id"`
	Email        string     `db:"email"`
	IPAddress    string     `db:"ip_address"`
	LoginTime    time.Time  `db:"login_time"`
	LogoutTime   *time.Time `db:"logout_time"`
	IsSuccessful bool       `db:"is_successful"`
}
