package leaverequest

import (
	"context"

	"go-leavedesk/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DuplicateKey is the wide identity of a submission: two requests matching on
// every field while one is still pending are treated as the same request.
type DuplicateKey struct {
	TenantID    string
	RecordYear  int
	EmployeeID  string
	LeaveTypeID string
	Reason      string
	TotalDays   int
}

// DayTotals aggregates reserved day counts per status for one employee.
type DayTotals struct {
	PendingDays  int
	ApprovedDays int
	RejectedDays int
}

//go:generate mockgen -source=leave_request_repo.go -destination=mock/leave_request_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, lr *LeaveRequest) error
	FindByIDAndTenant(ctx context.Context, tenantID, id string) (*LeaveRequest, error)
	FindByIDForUpdate(ctx context.Context, tenantID, id string) (*LeaveRequest, error)
	ExistsDuplicate(ctx context.Context, key DuplicateKey) (bool, error)
	FindAllByTenant(ctx context.Context, tenantID string, offset, limit int) ([]LeaveRequest, int64, error)
	FindByEmployee(ctx context.Context, tenantID, employeeID string) ([]LeaveRequest, error)
	DayTotalsByEmployee(ctx context.Context, tenantID, employeeID string) (DayTotals, error)
	Update(ctx context.Context, lr *LeaveRequest) error
	Delete(ctx context.Context, tenantID, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, lr *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(lr).Error
}

func (r *repository) FindByIDAndTenant(ctx context.Context, tenantID, id string) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("id = ?", id).
		First(&lr).Error
	if err != nil {
		return nil, err
	}
	return &lr, nil
}

// FindByIDForUpdate locks the row so concurrent decisions on the same request
// serialize. Must run inside the caller's transaction (WithTx).
func (r *repository) FindByIDForUpdate(ctx context.Context, tenantID, id string) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ?", tenantID).
		Where("id = ?", id).
		First(&lr).Error
	if err != nil {
		return nil, err
	}
	return &lr, nil
}

func (r *repository) ExistsDuplicate(ctx context.Context, key DuplicateKey) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("tenant_id = ?", key.TenantID).
		Where("record_year = ?", key.RecordYear).
		Where("employee_id = ?", key.EmployeeID).
		Where("leave_type_id = ?", key.LeaveTypeID).
		Where("reason = ?", key.Reason).
		Where("total_days = ?", key.TotalDays).
		Where("status = ?", StatusPending).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindAllByTenant(ctx context.Context, tenantID string, offset, limit int) ([]LeaveRequest, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Scopes(tenant.Scope(tenantID)).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var requests []LeaveRequest
	err = r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&requests).Error
	return requests, total, err
}

func (r *repository) FindByEmployee(ctx context.Context, tenantID, employeeID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) DayTotalsByEmployee(ctx context.Context, tenantID, employeeID string) (DayTotals, error) {
	var totals DayTotals
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(total_days) FILTER (WHERE status = ?), 0) AS pending_days,
			COALESCE(SUM(total_days) FILTER (WHERE status = ?), 0) AS approved_days,
			COALESCE(SUM(total_days) FILTER (WHERE status = ?), 0) AS rejected_days
		FROM leave_requests
		WHERE tenant_id = ? AND employee_id = ?
	`, StatusPending, StatusApproved, StatusRejected, tenantID, employeeID).
		Scan(&totals).Error
	return totals, err
}

func (r *repository) Update(ctx context.Context, lr *LeaveRequest) error {
	return r.db.WithContext(ctx).Save(lr).Error
}

func (r *repository) Delete(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("id = ?", id).
		Delete(&LeaveRequest{}).Error
}
