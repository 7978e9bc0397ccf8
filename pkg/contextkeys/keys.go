package contextkeys

type contextKey string

const (
	AccountIDKey  contextKey = "AccountID"
	EmployeeIDKey contextKey = "EmployeeID"
	RoleKey       contextKey = "Role"
	RequestIDKey  contextKey = "RequestID"
)
