package leavesummary_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"go-leavedesk/internal/leavesummary"
	leavesummaryerrors "go-leavedesk/internal/leavesummary/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeSummaryRepository struct {
	withTxFn               func(tx *gorm.DB) leavesummary.Repository
	createBatchFn          func(ctx context.Context, summaries []leavesummary.LeaveSummary) error
	createIgnoreExistingFn func(ctx context.Context, summaries []leavesummary.LeaveSummary) (int64, error)
	findByScopeFn          func(ctx context.Context, tenantID, employeeID string, year int, leaveTypeID string) (*leavesummary.LeaveSummary, error)
	listByEmployeeYearFn   func(ctx context.Context, tenantID, employeeID string, year int) ([]leavesummary.LeaveSummary, error)
	applyApprovalFn        func(ctx context.Context, summaryID string, days int) (*leavesummary.LeaveSummary, error)
	reverseFn              func(ctx context.Context, summaryID string, days int) (*leavesummary.LeaveSummary, error)
}

func (f *fakeSummaryRepository) WithTx(tx *gorm.DB) leavesummary.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeSummaryRepository) CreateBatch(ctx context.Context, summaries []leavesummary.LeaveSummary) error {
	if f.createBatchFn != nil {
		return f.createBatchFn(ctx, summaries)
	}
	return nil
}

func (f *fakeSummaryRepository) CreateIgnoreExisting(ctx context.Context, summaries []leavesummary.LeaveSummary) (int64, error) {
	if f.createIgnoreExistingFn != nil {
		return f.createIgnoreExistingFn(ctx, summaries)
	}
	return int64(len(summaries)), nil
}

func (f *fakeSummaryRepository) FindByScope(ctx context.Context, tenantID, employeeID string, year int, leaveTypeID string) (*leavesummary.LeaveSummary, error) {
	if f.findByScopeFn != nil {
		return f.findByScopeFn(ctx, tenantID, employeeID, year, leaveTypeID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSummaryRepository) ListByEmployeeYear(ctx context.Context, tenantID, employeeID string, year int) ([]leavesummary.LeaveSummary, error) {
	if f.listByEmployeeYearFn != nil {
		return f.listByEmployeeYearFn(ctx, tenantID, employeeID, year)
	}
	return nil, nil
}

func (f *fakeSummaryRepository) ApplyApproval(ctx context.Context, summaryID string, days int) (*leavesummary.LeaveSummary, error) {
	if f.applyApprovalFn != nil {
		return f.applyApprovalFn(ctx, summaryID, days)
	}
	return nil, nil
}

func (f *fakeSummaryRepository) Reverse(ctx context.Context, summaryID string, days int) (*leavesummary.LeaveSummary, error) {
	if f.reverseFn != nil {
		return f.reverseFn(ctx, summaryID, days)
	}
	return nil, nil
}

type fakeTypeSource struct {
	listActiveSeedsFn func(ctx context.Context, tenantID string) ([]leavesummary.TypeSeed, error)
	getSeedFn         func(ctx context.Context, tenantID, leaveTypeID string) (*leavesummary.TypeSeed, error)
}

func (f *fakeTypeSource) ListActiveSeeds(ctx context.Context, tenantID string) ([]leavesummary.TypeSeed, error) {
	if f.listActiveSeedsFn != nil {
		return f.listActiveSeedsFn(ctx, tenantID)
	}
	return nil, nil
}

func (f *fakeTypeSource) GetSeed(ctx context.Context, tenantID, leaveTypeID string) (*leavesummary.TypeSeed, error) {
	if f.getSeedFn != nil {
		return f.getSeedFn(ctx, tenantID, leaveTypeID)
	}
	return nil, nil
}

type summaryServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	repo      *fakeSummaryRepository
	types     *fakeTypeSource
	redismock redismock.ClientMock
}

func setupSummaryService(t *testing.T, cfg leavesummary.Config) (leavesummary.Service, *summaryServiceDeps) {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)

	dbRedis, redisMock := redismock.NewClientMock()
	repo := &fakeSummaryRepository{}
	types := &fakeTypeSource{}
	svc := leavesummary.NewService(gormDB, repo, types, dbRedis, cfg)

	return svc, &summaryServiceDeps{db: db, sqlMock: sqlMock, repo: repo, types: types, redismock: redisMock}
}

func TestLeaveSummaryService_GetDetail(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New().String()
	employeeID := uuid.New().String()
	typeID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc, deps := setupSummaryService(t, leavesummary.Config{})
		defer deps.db.Close()

		row := leavesummary.NewSummary(
			uuid.MustParse(tenantID), uuid.MustParse(employeeID), uuid.MustParse(typeID), 2026, 12, 0)
		assert.NoError(t, row.Apply(4))

		deps.repo.findByScopeFn = func(ctx context.Context, tid, eid string, year int, ltid string) (*leavesummary.LeaveSummary, error) {
			assert.Equal(t, tenantID, tid)
			assert.Equal(t, employeeID, eid)
			assert.Equal(t, 2026, year)
			assert.Equal(t, typeID, ltid)
			return &row, nil
		}

		resp, err := svc.GetDetail(ctx, tenantID, employeeID, 2026, typeID)

		assert.NoError(t, err)
		assert.Equal(t, 12, resp.AnnualDays)
		assert.Equal(t, 4, resp.UsedDays)
		assert.Equal(t, 8, resp.BalanceDays)
	})

	t.Run("success cache hit skips the database", func(t *testing.T) {
		svc, deps := setupSummaryService(t, leavesummary.Config{})
		defer deps.db.Close()

		cached := leavesummary.LeaveSummaryResponse{
			ID:          uuid.New().String(),
			TenantID:    tenantID,
			RecordYear:  2026,
			EmployeeID:  employeeID,
			LeaveTypeID: typeID,
			AnnualDays:  12,
			UsedDays:    3,
			BalanceDays: 9,
		}
		payload, err := json.Marshal(cached)
		assert.NoError(t, err)

		deps.redismock.ExpectGet(leavesummary.DetailCacheKey(tenantID, employeeID, 2026, typeID)).
			SetVal(string(payload))
		deps.repo.findByScopeFn = func(ctx context.Context, tid, eid string, year int, ltid string) (*leavesummary.LeaveSummary, error) {
			t.Fatal("repository must not be hit on a cache hit")
			return nil, nil
		}

		resp, err := svc.GetDetail(ctx, tenantID, employeeID, 2026, typeID)

		assert.NoError(t, err)
		assert.Equal(t, 9, resp.BalanceDays)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("negative not found without lazy init", func(t *testing.T) {
		svc, deps := setupSummaryService(t, leavesummary.Config{})
		defer deps.db.Close()

		deps.repo.findByScopeFn = func(ctx context.Context, tid, eid string, year int, ltid string) (*leavesummary.LeaveSummary, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := svc.GetDetail(ctx, tenantID, employeeID, 2026, typeID)

		assert.ErrorIs(t, err, leavesummaryerrors.ErrSummaryNotFound)
	})

	t.Run("success lazy init creates the missing row", func(t *testing.T) {
		svc, deps := setupSummaryService(t, leavesummary.Config{LazyInitOnRead: true})
		defer deps.db.Close()

		missing := true
		deps.repo.findByScopeFn = func(ctx context.Context, tid, eid string, year int, ltid string) (*leavesummary.LeaveSummary, error) {
			if missing {
				return nil, gorm.ErrRecordNotFound
			}
			row := leavesummary.NewSummary(
				uuid.MustParse(tenantID), uuid.MustParse(employeeID), uuid.MustParse(typeID), 2026, 15, 0)
			return &row, nil
		}
		deps.types.getSeedFn = func(ctx context.Context, tid, ltid string) (*leavesummary.TypeSeed, error) {
			assert.Equal(t, typeID, ltid)
			return &leavesummary.TypeSeed{ID: ltid, MaxDays: 15}, nil
		}
		deps.repo.createIgnoreExistingFn = func(ctx context.Context, summaries []leavesummary.LeaveSummary) (int64, error) {
			assert.Len(t, summaries, 1)
			assert.Equal(t, 15, summaries[0].AnnualDays)
			assert.Equal(t, 0, summaries[0].CarriedOverDays)
			assert.Equal(t, 15, summaries[0].BalanceDays)
			missing = false
			return 1, nil
		}

		resp, err := svc.GetDetail(ctx, tenantID, employeeID, 2026, typeID)

		assert.NoError(t, err)
		assert.Equal(t, 15, resp.AnnualDays)
		assert.Equal(t, 15, resp.BalanceDays)
	})

	t.Run("negative lazy init with unknown type", func(t *testing.T) {
		svc, deps := setupSummaryService(t, leavesummary.Config{LazyInitOnRead: true})
		defer deps.db.Close()

		deps.repo.findByScopeFn = func(ctx context.Context, tid, eid string, year int, ltid string) (*leavesummary.LeaveSummary, error) {
			return nil, gorm.ErrRecordNotFound
		}
		deps.types.getSeedFn = func(ctx context.Context, tid, ltid string) (*leavesummary.TypeSeed, error) {
			return nil, nil
		}

		_, err := svc.GetDetail(ctx, tenantID, employeeID, 2026, typeID)

		assert.ErrorIs(t, err, leavesummaryerrors.ErrSummaryNotFound)
	})

	t.Run("negative invalid ids", func(t *testing.T) {
		svc, deps := setupSummaryService(t, leavesummary.Config{})
		defer deps.db.Close()

		_, err := svc.GetDetail(ctx, "not-a-uuid", employeeID, 2026, typeID)
		assert.ErrorIs(t, err, leavesummaryerrors.ErrInvalidTenantID)

		_, err = svc.GetDetail(ctx, tenantID, employeeID, 1800, typeID)
		assert.ErrorIs(t, err, leavesummaryerrors.ErrInvalidYear)
	})
}

func TestLeaveSummaryService_ListByEmployee(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc, deps := setupSummaryService(t, leavesummary.Config{})
		defer deps.db.Close()

		deps.repo.listByEmployeeYearFn = func(ctx context.Context, tid, eid string, year int) ([]leavesummary.LeaveSummary, error) {
			return []leavesummary.LeaveSummary{
				leavesummary.NewSummary(uuid.MustParse(tid), uuid.MustParse(eid), uuid.New(), year, 12, 0),
				leavesummary.NewSummary(uuid.MustParse(tid), uuid.MustParse(eid), uuid.New(), year, 5, 2),
			}, nil
		}

		resp, err := svc.ListByEmployee(ctx, tenantID, employeeID, 2026)

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.Equal(t, 12, resp[0].BalanceDays)
		assert.Equal(t, 7, resp[1].BalanceDays)
	})

	t.Run("negative repo error", func(t *testing.T) {
		svc, deps := setupSummaryService(t, leavesummary.Config{})
		defer deps.db.Close()

		deps.repo.listByEmployeeYearFn = func(ctx context.Context, tid, eid string, year int) ([]leavesummary.LeaveSummary, error) {
			return nil, errors.New("db error")
		}

		_, err := svc.ListByEmployee(ctx, tenantID, employeeID, 2026)
		assert.Error(t, err)
	})
}

func TestLeaveSummaryService_InitForEmployee(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("success creates one row per active type", func(t *testing.T) {
		svc, deps := setupSummaryService(t, leavesummary.Config{})
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.types.listActiveSeedsFn = func(ctx context.Context, tid string) ([]leavesummary.TypeSeed, error) {
			return []leavesummary.TypeSeed{
				{ID: uuid.New().String(), MaxDays: 12},
				{ID: uuid.New().String(), MaxDays: 5},
			}, nil
		}
		deps.repo.createIgnoreExistingFn = func(ctx context.Context, summaries []leavesummary.LeaveSummary) (int64, error) {
			assert.Len(t, summaries, 2)
			for _, s := range summaries {
				assert.Equal(t, 0, s.UsedDays)
				assert.Equal(t, 0, s.CarriedOverDays)
				assert.Equal(t, s.AnnualDays, s.BalanceDays)
			}
			return 2, nil
		}

		created, err := svc.InitForEmployee(ctx, tenantID, employeeID, 2026)

		assert.NoError(t, err)
		assert.Equal(t, 2, created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success replay creates nothing", func(t *testing.T) {
		svc, deps := setupSummaryService(t, leavesummary.Config{})
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.types.listActiveSeedsFn = func(ctx context.Context, tid string) ([]leavesummary.TypeSeed, error) {
			return []leavesummary.TypeSeed{{ID: uuid.New().String(), MaxDays: 12}}, nil
		}
		deps.repo.createIgnoreExistingFn = func(ctx context.Context, summaries []leavesummary.LeaveSummary) (int64, error) {
			return 0, nil
		}

		created, err := svc.InitForEmployee(ctx, tenantID, employeeID, 2026)

		assert.NoError(t, err)
		assert.Equal(t, 0, created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success no active types", func(t *testing.T) {
		svc, deps := setupSummaryService(t, leavesummary.Config{})
		defer deps.db.Close()

		deps.types.listActiveSeedsFn = func(ctx context.Context, tid string) ([]leavesummary.TypeSeed, error) {
			return nil, nil
		}

		created, err := svc.InitForEmployee(ctx, tenantID, employeeID, 2026)

		assert.NoError(t, err)
		assert.Equal(t, 0, created)
	})
}
