package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

const (
	EventLeaveStatusChanged        = "leave_status_changed"
	EventLeaveReconciliationFailed = "leave_reconciliation_failed"
)

// LeaveStatusChangedEvent is emitted through the transactional outbox when a
// leave record transitions between statuses.
type LeaveStatusChangedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	LeaveID    string    `json:"leave_id"`
	CompanyID  string    `json:"company_id"`
	EmployeeID string    `json:"employee_id"`
	OldStatus  string    `json:"old_status"`
	NewStatus  string    `json:"new_status"`
	TotalDays  int       `json:"total_days"`
	OccurredAt time.Time `json:"occurred_at"`
}

// LeaveReconciliationFailedEvent records that a leave transition committed
// but the matching balance adjustment did not apply. The balance may have
// drifted; operators reconcile from these events.
type LeaveReconciliationFailedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	LeaveID    string    `json:"leave_id"`
	CompanyID  string    `json:"company_id"`
	EmployeeID string    `json:"employee_id"`
	Action     string    `json:"action"` // consume or restore
	Days       int       `json:"days"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}
