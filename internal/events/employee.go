package events

import "time"

const EmployeeLifecycleTopic = "hr.employee.lifecycle.v1"

const EventEmployeeCreated = "employee_created"

type EmployeeCreatedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EmployeeID string    `json:"employee_id"`
	CompanyID  string    `json:"company_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
