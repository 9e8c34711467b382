package leavetype

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

type LeaveType struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_types_tenant_name;index:idx_leave_types_tenant"`

	Name             string `gorm:"type:varchar(100);not null;uniqueIndex:uq_leave_types_tenant_name"`
	Description      string `gorm:"type:text"`
	MaxDays          int    `gorm:"type:int;not null"`
	CarryForwardDays int    `gorm:"type:int;not null;default:0"`
	ColorCode        string `gorm:"type:varchar(20)"`
	Status           string `gorm:"type:varchar(20);not null;default:'ACTIVE'"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leave_types_deleted_at"`
}

func (LeaveType) TableName() string { return "leave_types" }
