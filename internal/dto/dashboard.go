package dto

type DepartmentStatsDTO struct {
	ID            uint64 `json:"id"`
	Name          string `json:"name"`
	EmployeeCount int    `json:"employee_count"`
}

type DashboardDTO struct {
	TotalEmployees     int                  `json:"total_employees"`
	ActiveEmployees    int                  `json:"active_employees"`
	TotalDepartments   int                  `json:"total_departments"`
	TotalLeaveRequests int                  `json:"total_leave_requests"`
	ApprovedLeaves     int                  `json:"approved_leaves"`
	PendingLeaves      int                  `json:"pending_leaves"`
	RejectedLeaves     int                  `json:"rejected_leaves"`
	DepartmentStats    []DepartmentStatsDTO `json:"department_stats"`
	RecentEmployees    []EmployeeDTO        `json:"recent_employees"`
}
