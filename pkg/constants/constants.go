package constants

//============== ROLES ==============

const (
	RoleAdmin    = "Admin"
	RoleManager  = "Manager"
	RoleEmployee = "Employee"
)

// Roles lists every role of the catalog in seeding order.
var Roles = []string{RoleAdmin, RoleManager, RoleEmployee}

//============== LEAVE STATUSES ==============

const (
	LeaveStatusPending  = "Pending"
	LeaveStatusApproved = "Approved"
	LeaveStatusRejected = "Rejected"
)

//============== AUDIT OPERATIONS ==============

const (
	OperationCreated                 = "Created"
	OperationUpdated                 = "Updated"
	OperationDeleted                 = "Deleted"
	OperationManagerDemoted          = "Manager Demoted"
	OperationManagerAssigned         = "Manager Assigned"
	OperationManagerTransferredOut   = "Manager Transferred Out"
	// Reserved tag. Deleting an employee who still manages a department is refused, so nothing writes it.
	OperationUnassignedManagerDelete = "Unassigned Manager (Deleted)"
)

// NotAvailable is shown in place of a missing manager name.
const NotAvailable = "N/A"
