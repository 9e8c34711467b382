package events

import "time"

const EmployeeLifecycleTopic = "hr.employee.lifecycle.v1"

type EmployeeOnboardedEvent struct {
	EventType  string    `json:"event_type"`
	EmployeeID string    `json:"employee_id"`
	TenantID   string    `json:"tenant_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
