package leaverequest

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

type LeaveRequest struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_requests_tenant_number;index:idx_leave_requests_tenant"`

	RequestNumber string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_leave_requests_tenant_number"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee"`
	LeaveTypeID   uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_type"`
	RecordYear    int       `gorm:"type:int;not null"`

	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	TotalDays int       `gorm:"type:int;not null"`
	Reason    string    `gorm:"type:text"`

	Status            string     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_status"`
	SupervisorComment string     `gorm:"type:text"`
	DecidedBy         *uuid.UUID `gorm:"type:uuid"`
	DecidedAt         *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRequest) TableName() string { return "leave_requests" }

// IsPending reports whether the request can still be decided or withdrawn;
// APPROVED and REJECTED are terminal.
func (lr *LeaveRequest) IsPending() bool { return lr.Status == StatusPending }
