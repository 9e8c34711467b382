package leavetype

import (
	"context"
	"errors"

	"go-leavedesk/internal/employee"
	"go-leavedesk/internal/leavesummary"
	leavetypeerrors "go-leavedesk/internal/leavetype/errors"
	"go-leavedesk/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_type_service.go -destination=mock/leave_type_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, tenantID, actorID string, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	GetAll(ctx context.Context, tenantID string) ([]LeaveTypeResponse, error)
	GetByID(ctx context.Context, tenantID, id string) (LeaveTypeResponse, error)
	Update(ctx context.Context, tenantID, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
	Delete(ctx context.Context, tenantID, id string) error
}

type service struct {
	db          *gorm.DB
	repo        Repository
	summaryRepo leavesummary.Repository
	directory   employee.Directory
	year        func() int
	logger      *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	summaryRepo leavesummary.Repository,
	directory employee.Directory,
	yearFn func() int,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		summaryRepo: summaryRepo,
		directory:   directory,
		year:        yearFn,
		logger:      l,
	}
}

// Create inserts the leave type and fans out one zero-usage summary row per
// current employee of the tenant for the present year, all in one transaction.
// A new type has no prior-year remainder, so nothing is carried over.
func (s *service) Create(ctx context.Context, tenantID, actorID string, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave type requested",
		zap.String("request_id", rid),
		zap.String("tenant_id", tenantID),
		zap.String("name", req.Name),
		zap.Int("max_days", req.MaxDays),
	)

	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidTenantID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidActorID
	}

	lt := &LeaveType{
		ID:               uuid.New(),
		TenantID:         tenantUUID,
		Name:             req.Name,
		Description:      req.Description,
		MaxDays:          req.MaxDays,
		CarryForwardDays: req.CarryForwardDays,
		ColorCode:        req.ColorCode,
		Status:           StatusActive,
		CreatedBy:        actorUUID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		exists, err := qtx.ExistsByName(ctx, tenantID, req.Name, nil)
		if err != nil {
			return err
		}
		if exists {
			return leavetypeerrors.ErrDuplicateName
		}

		if err := qtx.Create(ctx, lt); err != nil {
			return err
		}

		// Snapshot of the tenant's employees at transaction start; the whole
		// batch commits or none of it does.
		employeeIDs, err := s.directory.WithTx(tx).ListIDsByTenant(ctx, tenantID)
		if err != nil {
			return err
		}

		year := s.year()
		summaries := make([]leavesummary.LeaveSummary, 0, len(employeeIDs))
		for _, id := range employeeIDs {
			employeeUUID, err := uuid.Parse(id)
			if err != nil {
				return leavetypeerrors.ErrInvalidLeaveTypeID
			}
			summaries = append(summaries, leavesummary.NewSummary(tenantUUID, employeeUUID, lt.ID, year, lt.MaxDays, 0))
		}

		return s.summaryRepo.WithTx(tx).CreateBatch(ctx, summaries)
	})
	if err != nil {
		if errors.Is(err, leavetypeerrors.ErrDuplicateName) {
			s.logger.Warn("create leave type duplicate name",
				zap.String("tenant_id", tenantID),
				zap.String("name", req.Name),
			)
		} else {
			s.logger.Error("create leave type failed", zap.Error(err))
		}
		return LeaveTypeResponse{}, err
	}

	s.logger.Info("create leave type success",
		zap.String("leave_type_id", lt.ID.String()),
		zap.String("tenant_id", tenantID),
	)

	return mapToResponse(*lt), nil
}

func (s *service) GetAll(ctx context.Context, tenantID string) ([]LeaveTypeResponse, error) {
	types, err := s.repo.FindAllByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(types), nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string) (LeaveTypeResponse, error) {
	lt, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveTypeResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return LeaveTypeResponse{}, err
	}
	return mapToResponse(*lt), nil
}

// Update changes the policy parameters without touching existing summary rows;
// edits only affect summaries created afterwards.
func (s *service) Update(ctx context.Context, tenantID, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error) {
	s.logger.Debug("update leave type requested",
		zap.String("leave_type_id", id),
		zap.String("tenant_id", tenantID),
	)

	var lt *LeaveType
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		var err error
		lt, err = qtx.FindByIDAndTenant(ctx, tenantID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leavetypeerrors.ErrLeaveTypeNotFound
			}
			return err
		}

		exists, err := qtx.ExistsByName(ctx, tenantID, req.Name, &id)
		if err != nil {
			return err
		}
		if exists {
			return leavetypeerrors.ErrDuplicateName
		}

		lt.Name = req.Name
		lt.Description = req.Description
		lt.MaxDays = req.MaxDays
		lt.CarryForwardDays = req.CarryForwardDays
		lt.ColorCode = req.ColorCode
		lt.Status = req.Status

		return qtx.Update(ctx, lt)
	})
	if err != nil {
		return LeaveTypeResponse{}, err
	}

	s.logger.Info("update leave type success", zap.String("leave_type_id", id))

	return mapToResponse(*lt), nil
}

func (s *service) Delete(ctx context.Context, tenantID, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		if _, err := qtx.FindByIDAndTenant(ctx, tenantID, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leavetypeerrors.ErrLeaveTypeNotFound
			}
			return err
		}

		pending, err := qtx.CountPendingRequests(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if pending > 0 {
			return leavetypeerrors.ErrReferencedByActiveRequests
		}

		return qtx.Delete(ctx, tenantID, id)
	})
	if err != nil {
		s.logger.Warn("delete leave type failed",
			zap.String("leave_type_id", id),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("delete leave type success", zap.String("leave_type_id", id))
	return nil
}

func mapToResponse(lt LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:               lt.ID.String(),
		TenantID:         lt.TenantID.String(),
		Name:             lt.Name,
		Description:      lt.Description,
		MaxDays:          lt.MaxDays,
		CarryForwardDays: lt.CarryForwardDays,
		ColorCode:        lt.ColorCode,
		Status:           lt.Status,
		CreatedBy:        lt.CreatedBy.String(),
	}
}

func mapToListResponse(types []LeaveType) []LeaveTypeResponse {
	resp := make([]LeaveTypeResponse, len(types))
	for i, lt := range types {
		resp[i] = mapToResponse(lt)
	}
	return resp
}
