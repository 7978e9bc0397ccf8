package entities

import "time"

type LeaveRequest struct {
	ID          uint64    `db:"id"`
	EmployeeID  uint64    `db:"employee_id"`
	StartDate   time.Time `db:"start_date"`
	EndDate     time.Time `db:"end_date"`
	Status      string    `db:"status"`
	Reason      string    `db:"reason"`
	RequestDate time.Time `db:"request_date"`
}

// LeaveRequestWithEmployee carries the requester's name for listings.
type LeaveRequestWithEmployee struct {
	LeaveRequest
	EmployeeName string `db:"employee_name"`
}

type LeaveBalance struct {
	ID          uint64 `db:"id"`
	EmployeeID  uint64 `db:"employee_id"`
	TotalLeaves int    `db:"total_leaves"`
	LeavesTaken int    `db:"leaves_taken"`
}

func (b *LeaveBalance) Remaining() int {
	return b.TotalLeaves - b.LeavesTaken
}
