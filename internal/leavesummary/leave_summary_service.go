package leavesummary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	leavesummaryerrors "go-leavedesk/internal/leavesummary/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const detailCacheTTL = 5 * time.Minute

// DetailCacheKey is shared with the request workflow, which invalidates the
// entry after a ledger mutation.
func DetailCacheKey(tenantID, employeeID string, year int, leaveTypeID string) string {
	return fmt.Sprintf("leave:summary:%s:%s:%d:%s", tenantID, employeeID, year, leaveTypeID)
}

// TypeSeed carries the catalog parameters needed to initialize a ledger row.
type TypeSeed struct {
	ID      string
	MaxDays int
}

// TypeSource is the catalog boundary; wired in app to the leave type repo.
type TypeSource interface {
	ListActiveSeeds(ctx context.Context, tenantID string) ([]TypeSeed, error)
	GetSeed(ctx context.Context, tenantID, leaveTypeID string) (*TypeSeed, error)
}

type Config struct {
	// LazyInitOnRead creates a missing summary row on first read instead of
	// returning NotFound; remediation for employees onboarded before their
	// ledger rows were fanned out.
	LazyInitOnRead bool
}

//go:generate mockgen -source=leave_summary_service.go -destination=mock/leave_summary_service_mock.go -package=mock
type Service interface {
	GetDetail(ctx context.Context, tenantID, employeeID string, year int, leaveTypeID string) (LeaveSummaryResponse, error)
	ListByEmployee(ctx context.Context, tenantID, employeeID string, year int) ([]LeaveSummaryResponse, error)
	InitForEmployee(ctx context.Context, tenantID, employeeID string, year int) (int, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	types  TypeSource
	rdb    *redis.Client
	sf     *singleflight.Group
	cfg    Config
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, types TypeSource, rdb *redis.Client, cfg Config, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavesummary.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavesummary.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		types:  types,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		cfg:    cfg,
		logger: l,
	}
}

func (s *service) GetDetail(ctx context.Context, tenantID, employeeID string, year int, leaveTypeID string) (LeaveSummaryResponse, error) {
	if _, err := uuid.Parse(tenantID); err != nil {
		return LeaveSummaryResponse{}, leavesummaryerrors.ErrInvalidTenantID
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return LeaveSummaryResponse{}, leavesummaryerrors.ErrInvalidEmployeeID
	}
	if _, err := uuid.Parse(leaveTypeID); err != nil {
		return LeaveSummaryResponse{}, leavesummaryerrors.ErrInvalidLeaveTypeID
	}
	if year < 2000 || year > 2200 {
		return LeaveSummaryResponse{}, leavesummaryerrors.ErrInvalidYear
	}

	key := DetailCacheKey(tenantID, employeeID, year, leaveTypeID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var resp LeaveSummaryResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	// Collapse concurrent cache misses for the same scope into one DB read.
	v, err, _ := s.sf.Do(key, func() (any, error) {
		summary, err := s.repo.FindByScope(ctx, tenantID, employeeID, year, leaveTypeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) && s.cfg.LazyInitOnRead {
				return s.lazyInit(ctx, tenantID, employeeID, year, leaveTypeID)
			}
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, leavesummaryerrors.ErrSummaryNotFound
			}
			return nil, err
		}
		return summary, nil
	})
	if err != nil {
		return LeaveSummaryResponse{}, err
	}

	resp := mapToResponse(*v.(*LeaveSummary))

	if s.rdb != nil {
		if payload, err := json.Marshal(resp); err == nil {
			_ = s.rdb.Set(ctx, key, payload, detailCacheTTL).Err()
		}
	}

	return resp, nil
}

func (s *service) lazyInit(ctx context.Context, tenantID, employeeID string, year int, leaveTypeID string) (*LeaveSummary, error) {
	seed, err := s.types.GetSeed(ctx, tenantID, leaveTypeID)
	if err != nil {
		return nil, err
	}
	if seed == nil {
		return nil, leavesummaryerrors.ErrSummaryNotFound
	}

	row := NewSummary(
		uuid.MustParse(tenantID),
		uuid.MustParse(employeeID),
		uuid.MustParse(leaveTypeID),
		year,
		seed.MaxDays,
		0,
	)

	// A concurrent reader may have initialized the same scope; the conflict
	// clause makes this a no-op and the re-read returns the winner.
	if _, err := s.repo.CreateIgnoreExisting(ctx, []LeaveSummary{row}); err != nil {
		return nil, err
	}

	s.logger.Info("leave summary lazily initialized",
		zap.String("tenant_id", tenantID),
		zap.String("employee_id", employeeID),
		zap.Int("record_year", year),
		zap.String("leave_type_id", leaveTypeID),
	)

	return s.repo.FindByScope(ctx, tenantID, employeeID, year, leaveTypeID)
}

func (s *service) ListByEmployee(ctx context.Context, tenantID, employeeID string, year int) ([]LeaveSummaryResponse, error) {
	if _, err := uuid.Parse(tenantID); err != nil {
		return nil, leavesummaryerrors.ErrInvalidTenantID
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leavesummaryerrors.ErrInvalidEmployeeID
	}

	summaries, err := s.repo.ListByEmployeeYear(ctx, tenantID, employeeID, year)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(summaries), nil
}

// InitForEmployee creates the current-year ledger rows for every active leave
// type the employee is missing. Invoked from the onboarding consumer; safe to
// replay.
func (s *service) InitForEmployee(ctx context.Context, tenantID, employeeID string, year int) (int, error) {
	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return 0, leavesummaryerrors.ErrInvalidTenantID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return 0, leavesummaryerrors.ErrInvalidEmployeeID
	}

	seeds, err := s.types.ListActiveSeeds(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	if len(seeds) == 0 {
		return 0, nil
	}

	rows := make([]LeaveSummary, 0, len(seeds))
	for _, seed := range seeds {
		typeUUID, err := uuid.Parse(seed.ID)
		if err != nil {
			return 0, leavesummaryerrors.ErrInvalidLeaveTypeID
		}
		rows = append(rows, NewSummary(tenantUUID, employeeUUID, typeUUID, year, seed.MaxDays, 0))
	}

	var created int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		created, txErr = s.repo.WithTx(tx).CreateIgnoreExisting(ctx, rows)
		return txErr
	})
	if err != nil {
		s.logger.Error("init summaries for employee failed",
			zap.String("tenant_id", tenantID),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return 0, err
	}

	s.logger.Info("init summaries for employee success",
		zap.String("tenant_id", tenantID),
		zap.String("employee_id", employeeID),
		zap.Int("record_year", year),
		zap.Int64("created", created),
	)

	return int(created), nil
}
