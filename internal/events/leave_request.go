package events

import "time"

const LeaveRequestTopic = "hr.leave.request.v1"

const (
	LeaveRequestSubmittedType = "leave_request.submitted"
	LeaveRequestDecidedType   = "leave_request.decided"
)

type LeaveRequestSubmittedEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id"`
	RequestNumber string    `json:"request_number"`
	TenantID      string    `json:"tenant_id"`
	EmployeeID    string    `json:"employee_id"`
	LeaveTypeID   string    `json:"leave_type_id"`
	RecordYear    int       `json:"record_year"`
	TotalDays     int       `json:"total_days"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type LeaveRequestDecidedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id"`
	TenantID   string    `json:"tenant_id"`
	EmployeeID string    `json:"employee_id"`
	Status     string    `json:"status"`
	DecidedBy  string    `json:"decided_by"`
	TotalDays  int       `json:"total_days"`
	OccurredAt time.Time `json:"occurred_at"`
}
