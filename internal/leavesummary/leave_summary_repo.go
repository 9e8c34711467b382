package leavesummary

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_summary_repo.go -destination=mock/leave_summary_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateBatch(ctx context.Context, summaries []LeaveSummary) error
	CreateIgnoreExisting(ctx context.Context, summaries []LeaveSummary) (int64, error)
	FindByScope(ctx context.Context, tenantID, employeeID string, year int, leaveTypeID string) (*LeaveSummary, error)
	ListByEmployeeYear(ctx context.Context, tenantID, employeeID string, year int) ([]LeaveSummary, error)
	ApplyApproval(ctx context.Context, summaryID string, days int) (*LeaveSummary, error)
	Reverse(ctx context.Context, summaryID string, days int) (*LeaveSummary, error)
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

func (r *repository) CreateBatch(ctx context.Context, summaries []LeaveSummary) error {
	if len(summaries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(summaries, 200).Error
}

// CreateIgnoreExisting inserts only rows whose scope is not yet initialized,
// so onboarding fan-out stays idempotent under redelivered events.
func (r *repository) CreateIgnoreExisting(ctx context.Context, summaries []LeaveSummary) (int64, error) {
	if len(summaries) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(summaries, 200)
	return res.RowsAffected, res.Error
}

func (r *repository) FindByScope(ctx context.Context, tenantID, employeeID string, year int, leaveTypeID string) (*LeaveSummary, error) {
	var s LeaveSummary
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("employee_id = ?", employeeID).
		Where("record_year = ?", year).
		Where("leave_type_id = ?", leaveTypeID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) ListByEmployeeYear(ctx context.Context, tenantID, employeeID string, year int) ([]LeaveSummary, error) {
	var summaries []LeaveSummary
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("employee_id = ?", employeeID).
		Where("record_year = ?", year).
		Find(&summaries).Error
	return summaries, err
}

// ApplyApproval re-reads the row under a row-level lock before mutating, so
// two concurrent approvals for the same scope serialize instead of both
// reading a stale balance. Must run inside the caller's transaction (WithTx).
func (r *repository) ApplyApproval(ctx context.Context, summaryID string, days int) (*LeaveSummary, error) {
	var s LeaveSummary
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&s, "id = ?", summaryID).Error
	if err != nil {
		return nil, err
	}

	if err := s.Apply(days); err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Save(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Reverse(ctx context.Context, summaryID string, days int) (*LeaveSummary, error) {
	var s LeaveSummary
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&s, "id = ?", summaryID).Error
	if err != nil {
		return nil, err
	}

	if err := s.Reverse(days); err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Save(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
