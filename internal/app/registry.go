package app

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go-leavedesk/internal/employee"
	"go-leavedesk/internal/leaveday"
	"go-leavedesk/internal/leaverequest"
	"go-leavedesk/internal/leavesummary"
	"go-leavedesk/internal/leavetype"
	"go-leavedesk/internal/messaging/kafka"
	"go-leavedesk/internal/rbac"
	"go-leavedesk/internal/rbac/infra"
	"go-leavedesk/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func envBool(name string, fallback bool) bool {
	v, ok := os.LookupEnv(name)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func currentYear() int { return time.Now().UTC().Year() }

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)
	directory := employee.NewDirectory(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	leaveSummaryRepo := leavesummary.NewRepository(gormDB)
	leaveDayRepo := leaveday.NewRepository(gormDB)
	leaveRequestRepo := leaverequest.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	typeSource := &leaveTypeSeedSource{repo: leaveTypeRepo}

	leaveSummaryService := leavesummary.NewService(
		gormDB,
		leaveSummaryRepo,
		typeSource,
		rdb,
		leavesummary.Config{
			LazyInitOnRead: envBool("LEAVE_LAZY_INIT_ON_READ", true),
		},
	)
	leaveTypeService := leavetype.NewService(
		gormDB,
		leaveTypeRepo,
		leaveSummaryRepo,
		directory,
		currentYear,
	)
	leaveRequestService := leaverequest.NewService(
		gormDB,
		leaveRequestRepo,
		leaveDayRepo,
		leaveSummaryRepo,
		leaveTypeRepo,
		directory,
		counterRepo,
		outboxRepo,
		rdb,
		leaverequest.Config{
			ReleaseDaysOnReject: envBool("LEAVE_RELEASE_ON_REJECT", true),
		},
	)

	// --- Handlers ---
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService)
	leaveSummaryHandler := leavesummary.NewHandler(leaveSummaryService)
	leaveRequestHandler := leaverequest.NewHandler(leaveRequestService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		leavetype.RegisterRoutes(api, leaveTypeHandler, rbacService)
		leavesummary.RegisterRoutes(api, leaveSummaryHandler, rbacService)
		leaverequest.RegisterRoutes(api, leaveRequestHandler, rbacService, rdb)
	}

	return nil
}
