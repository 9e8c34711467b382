package employee

import (
	"context"

	"gorm.io/gorm"
)

// Directory is the read-only boundary to the employee service. Leave modules
// consult it for tenant membership and for fan-out snapshots; they never write
// through it.
//
//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Directory interface {
	WithTx(tx *gorm.DB) Directory
	ListIDsByTenant(ctx context.Context, tenantID string) ([]string, error)
	BelongsToTenant(ctx context.Context, tenantID, employeeID string) (bool, error)
}

type directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) Directory {
	return &directory{db: db}
}

func (d *directory) WithTx(tx *gorm.DB) Directory {
	return &directory{db: tx}
}

// ListIDsByTenant returns a point-in-time snapshot of the tenant's active
// employees, read inside the caller's transaction when bound via WithTx.
func (d *directory) ListIDsByTenant(ctx context.Context, tenantID string) ([]string, error) {
	var ids []string
	err := d.db.WithContext(ctx).
		Model(&Employee{}).
		Where("tenant_id = ?", tenantID).
		Where("status = ?", "ACTIVE").
		Pluck("id", &ids).Error
	return ids, err
}

func (d *directory) BelongsToTenant(ctx context.Context, tenantID, employeeID string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", employeeID).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	return count > 0, err
}
