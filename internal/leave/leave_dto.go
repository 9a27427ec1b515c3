package leave

type CreateLeaveRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	LeaveType  string `json:"leave_type" binding:"required,oneof=ANNUAL SICK PERSONAL OTHER"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
	Comments   string `json:"comments"`
}

type UpdateStatusRequest struct {
	Status   string  `json:"status" binding:"required,oneof=APPROVED REJECTED CANCELLED"`
	Comments *string `json:"comments"`
}

// UpdateLeaveRequest is a partial merge: nil fields keep the stored
// value. The nested manager-approval block participates in the merge
// and can promote the main status.
type UpdateLeaveRequest struct {
	LeaveType       *string               `json:"leave_type" binding:"omitempty,oneof=ANNUAL SICK PERSONAL OTHER"`
	StartDate       *string               `json:"start_date"`
	EndDate         *string               `json:"end_date"`
	Reason          *string               `json:"reason"`
	Comments        *string               `json:"comments"`
	Status          *string               `json:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED CANCELLED"`
	ManagerApproval *ManagerApprovalMerge `json:"manager_approval"`
}

type ManagerApprovalMerge struct {
	Status   *string `json:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Comments *string `json:"comments"`
}

type ManagerApprovalRequest struct {
	Status   string  `json:"status" binding:"required,oneof=APPROVED REJECTED"`
	Comments *string `json:"comments"`
}

type ManagerApprovalResponse struct {
	Status     string  `json:"status"`
	ApprovedBy *string `json:"approved_by,omitempty"`
	ApprovedAt *string `json:"approved_at,omitempty"`
	Comments   string  `json:"comments,omitempty"`
}

type LeaveResponse struct {
	ID              string                  `json:"id"`
	CompanyID       string                  `json:"company_id"`
	EmployeeID      string                  `json:"employee_id"`
	EmployeeName    string                  `json:"employee_name,omitempty"`
	LeaveType       string                  `json:"leave_type"`
	StartDate       string                  `json:"start_date"`
	EndDate         string                  `json:"end_date"`
	TotalDays       int                     `json:"total_days"`
	Reason          string                  `json:"reason"`
	Comments        string                  `json:"comments,omitempty"`
	Status          string                  `json:"status"`
	ManagerApproval ManagerApprovalResponse `json:"manager_approval"`
	CreatedBy       string                  `json:"created_by"`
	CreatedAt       string                  `json:"created_at"`
}

// ListFilter carries the query-string filters of the list endpoint.
type ListFilter struct {
	EmployeeIDs []string
	Employee    string
	Status      string
	View        string
}
