package leavesummary

import (
	"time"

	leavesummaryerrors "go-leavedesk/internal/leavesummary/errors"

	"github.com/google/uuid"
)

// LeaveSummary is the per-tenant, per-year, per-employee, per-type balance
// ledger row. Invariant: BalanceDays == AnnualDays + CarriedOverDays - UsedDays
// after every mutation; Apply and Reverse are the only mutation paths.
type LeaveSummary struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_summary_scope"`
	RecordYear  int       `gorm:"type:int;not null;uniqueIndex:uq_leave_summary_scope"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_summary_scope"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_summary_scope"`

	// AnnualDays snapshots the type's max_days at row creation; later policy
	// edits only affect rows created for future years.
	AnnualDays      int `gorm:"type:int;not null"`
	CarriedOverDays int `gorm:"type:int;not null;default:0"`
	UsedDays        int `gorm:"type:int;not null;default:0"`
	BalanceDays     int `gorm:"type:int;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveSummary) TableName() string { return "leave_summary" }

// NewSummary builds a fresh ledger row with zero usage.
func NewSummary(tenantID, employeeID, leaveTypeID uuid.UUID, year, annualDays, carriedOverDays int) LeaveSummary {
	return LeaveSummary{
		ID:              uuid.New(),
		TenantID:        tenantID,
		RecordYear:      year,
		EmployeeID:      employeeID,
		LeaveTypeID:     leaveTypeID,
		AnnualDays:      annualDays,
		CarriedOverDays: carriedOverDays,
		UsedDays:        0,
		BalanceDays:     annualDays + carriedOverDays,
	}
}

// CarryOver caps the previous year's remainder at the type's configured limit.
func CarryOver(prevBalance, cap int) int {
	if prevBalance < 0 {
		return 0
	}
	if prevBalance < cap {
		return prevBalance
	}
	return cap
}

// Apply consumes days from the balance. The caller must hold a row lock for
// the duration of its transaction.
func (s *LeaveSummary) Apply(days int) error {
	if days <= 0 {
		return leavesummaryerrors.ErrInvalidDays
	}
	if s.BalanceDays-days < 0 {
		return leavesummaryerrors.ErrInsufficientBalance
	}
	s.UsedDays += days
	s.BalanceDays = s.AnnualDays + s.CarriedOverDays - s.UsedDays
	return nil
}

// Reverse undoes a previous Apply, e.g. when an approved request is cancelled.
func (s *LeaveSummary) Reverse(days int) error {
	if days <= 0 {
		return leavesummaryerrors.ErrInvalidDays
	}
	if s.UsedDays-days < 0 {
		return leavesummaryerrors.ErrInvalidDays
	}
	s.UsedDays -= days
	s.BalanceDays = s.AnnualDays + s.CarriedOverDays - s.UsedDays
	return nil
}
