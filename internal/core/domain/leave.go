package domain

// LeaveStatus is the lifecycle state of a leave request as reported by the
// backend.
type LeaveStatus string

const (
	LeavePending   LeaveStatus = "Pending"
	LeaveApproved  LeaveStatus = "Approved"
	LeaveRejected  LeaveStatus = "Rejected"
	LeaveCancelled LeaveStatus = "Cancelled"
)

// User is an employee record as served by the backend user directory.
type User struct {
	UserID             int    `json:"userId"`
	FirstName          string `json:"firstName"`
	Surname            string `json:"surname"`
	Email              string `json:"email"`
	OfficeName         string `json:"officeName"`
	AnnualLeaveBalance int    `json:"annualLeaveBalance"`
	Role               Role   `json:"role"`
}

// Role is the backend's role record attached to users.
type Role struct {
	RoleID RoleID `json:"roleId"`
	Name   string `json:"name"`
}

// LeaveType describes a category of leave and its yearly allowance.
type LeaveType struct {
	LeaveTypeID    int    `json:"leaveTypeId"`
	LeaveType      string `json:"leaveType"`
	Description    string `json:"description,omitempty"`
	InitialBalance int    `json:"initialBalance"`
}

// LeaveRequest is a single leave request as served by the backend.
// Dates are ISO 8601 date strings, matching the wire format.
type LeaveRequest struct {
	LeaveRequestID int         `json:"leaveRequestId"`
	StartDate      string      `json:"startDate"`
	EndDate        string      `json:"endDate"`
	Status         LeaveStatus `json:"status"`
	Reason         string      `json:"reason,omitempty"`
	User           User        `json:"user"`
	LeaveType      LeaveType   `json:"leaveType"`
}

// LeaveBalance is the per-user balance summary shown on the dashboard.
type LeaveBalance struct {
	UserID       int `json:"userId"`
	Remaining    int `json:"remaining"`
	PendingDays  int `json:"pendingDays"`
	ApprovedDays int `json:"approvedDays"`
}
