package leaveday

import (
	"time"

	"github.com/google/uuid"
)

// LeaveRequestDay is one reserved calendar day. The unique index over
// (employee_id, leave_date) is the tenant-wide guard against double booking.
type LeaveRequestDay struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_request_days_tenant"`

	LeaveRequestID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_request_days_request"`
	EmployeeID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_request_days_employee_date"`
	LeaveDate      time.Time `gorm:"type:date;not null;uniqueIndex:uq_leave_request_days_employee_date"`
	RecordMonth    string    `gorm:"type:varchar(20);not null"`

	CreatedAt time.Time
}

func (LeaveRequestDay) TableName() string { return "leave_request_days" }

// MonthLabel renders the reporting label stored alongside each reserved day.
func MonthLabel(t time.Time) string {
	return t.Month().String()
}

// ExpandRange lists every calendar day from start through end inclusive,
// normalized to midnight UTC. Returns nil when end precedes start.
func ExpandRange(start, end time.Time) []time.Time {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if end.Before(start) {
		return nil
	}

	days := make([]time.Time, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
