package leaveday

import (
	"context"
	"errors"
	"time"

	leavedayerrors "go-leavedesk/internal/leaveday/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

//go:generate mockgen -source=leave_day_repo.go -destination=mock/leave_day_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Reserve(ctx context.Context, days []LeaveRequestDay) error
	FindReservedDates(ctx context.Context, tenantID, employeeID string, dates []time.Time) ([]time.Time, error)
	ListByRequest(ctx context.Context, tenantID, requestID string) ([]LeaveRequestDay, error)
	ReleaseByRequest(ctx context.Context, tenantID, requestID string) (int64, error)
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

// Reserve inserts every day of the request in one statement. The unique index
// over (employee_id, leave_date) is the last line of defense against a race
// between the pre-check and the insert; a violation maps to the conflict error
// so the surrounding transaction rolls back cleanly.
func (r *repository) Reserve(ctx context.Context, days []LeaveRequestDay) error {
	if len(days) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Create(&days).Error
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return leavedayerrors.ErrDatesAlreadyReserved
		}
		return err
	}
	return nil
}

// FindReservedDates returns which of the given dates the employee already
// holds, for a conflict report before any insert is attempted.
func (r *repository) FindReservedDates(ctx context.Context, tenantID, employeeID string, dates []time.Time) ([]time.Time, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	var reserved []time.Time
	err := r.db.WithContext(ctx).
		Model(&LeaveRequestDay{}).
		Where("tenant_id = ?", tenantID).
		Where("employee_id = ?", employeeID).
		Where("leave_date IN ?", dates).
		Order("leave_date").
		Pluck("leave_date", &reserved).Error
	return reserved, err
}

func (r *repository) ListByRequest(ctx context.Context, tenantID, requestID string) ([]LeaveRequestDay, error) {
	var days []LeaveRequestDay
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("leave_request_id = ?", requestID).
		Order("leave_date").
		Find(&days).Error
	return days, err
}

func (r *repository) ReleaseByRequest(ctx context.Context, tenantID, requestID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("leave_request_id = ?", requestID).
		Delete(&LeaveRequestDay{})
	return res.RowsAffected, res.Error
}
