package leavetype

import (
	"context"

	"go-leavedesk/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_type_repo.go -destination=mock/leave_type_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, lt *LeaveType) error
	FindAllByTenant(ctx context.Context, tenantID string) ([]LeaveType, error)
	FindByIDAndTenant(ctx context.Context, tenantID, id string) (*LeaveType, error)
	Update(ctx context.Context, lt *LeaveType) error
	Delete(ctx context.Context, tenantID, id string) error
	ExistsByName(ctx context.Context, tenantID, name string, excludeID *string) (bool, error)
	CountPendingRequests(ctx context.Context, tenantID, id string) (int64, error)
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

func (r *repository) Create(ctx context.Context, lt *LeaveType) error {
	return r.db.WithContext(ctx).Create(lt).Error
}

func (r *repository) FindAllByTenant(ctx context.Context, tenantID string) ([]LeaveType, error) {
	var types []LeaveType
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Order("name ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) FindByIDAndTenant(ctx context.Context, tenantID, id string) (*LeaveType, error) {
	var lt LeaveType
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&lt, "id = ?", id).Error
	return &lt, err
}

func (r *repository) Update(ctx context.Context, lt *LeaveType) error {
	return r.db.WithContext(ctx).Save(lt).Error
}

func (r *repository) Delete(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&LeaveType{}, "id = ?", id).Error
}

func (r *repository) ExistsByName(ctx context.Context, tenantID, name string, excludeID *string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&LeaveType{}).
		Where("tenant_id = ?", tenantID).
		Where("name = ?", name)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

// CountPendingRequests reports how many non-terminal leave requests still
// target the type; deletion is refused while any exist.
func (r *repository) CountPendingRequests(ctx context.Context, tenantID, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("leave_requests").
		Where("tenant_id = ?", tenantID).
		Where("leave_type_id = ?", id).
		Where("status = ?", "PENDING").
		Count(&count).Error
	return count, err
}
