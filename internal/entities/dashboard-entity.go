package entities

// DashboardCounts is the headline numbers of the admin dashboard.
type DashboardCounts struct {
	TotalEmployees     int
	ActiveEmployees    int
	TotalDepartments   int
	TotalLeaveRequests int
	ApprovedLeaves     int
	PendingLeaves      int
	RejectedLeaves     int
}

type DepartmentHeadcount struct {
	DepartmentID   uint64
	DepartmentName string
	EmployeeCount  int
}
