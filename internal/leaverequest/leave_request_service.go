package leaverequest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-leavedesk/internal/employee"
	"go-leavedesk/internal/events"
	"go-leavedesk/internal/leaveday"
	leavedayerrors "go-leavedesk/internal/leaveday/errors"
	leaverequesterrors "go-leavedesk/internal/leaverequest/errors"
	"go-leavedesk/internal/leavesummary"
	leavesummaryerrors "go-leavedesk/internal/leavesummary/errors"
	"go-leavedesk/internal/leavetype"
	"go-leavedesk/internal/messaging/kafka"
	"go-leavedesk/internal/shared/contextutil"
	"go-leavedesk/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const requestNumberCounter = "leave_request"

type Config struct {
	// ReleaseDaysOnReject frees the reserved calendar dates when a request is
	// rejected. When off, rejected requests keep blocking their dates.
	ReleaseDaysOnReject bool
}

//go:generate mockgen -source=leave_request_service.go -destination=mock/leave_request_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, tenantID, actorID string, req SubmitLeaveRequestRequest) (LeaveRequestResponse, error)
	Approve(ctx context.Context, tenantID, deciderID, id string, req ApproveLeaveRequestRequest) (LeaveRequestResponse, error)
	Reject(ctx context.Context, tenantID, deciderID, id string, req RejectLeaveRequestRequest) (LeaveRequestResponse, error)
	Withdraw(ctx context.Context, tenantID, actorID, id string) error
	GetAll(ctx context.Context, tenantID string, page, limit int) ([]LeaveRequestResponse, int64, error)
	GetByEmployee(ctx context.Context, tenantID, employeeID string) (EmployeeLeaveRequestsResponse, error)
	GetByID(ctx context.Context, tenantID, id string) (LeaveRequestResponse, error)
}

type service struct {
	db          *gorm.DB
	repo        Repository
	dayRepo     leaveday.Repository
	summaryRepo leavesummary.Repository
	typeRepo    leavetype.Repository
	directory   employee.Directory
	counterRepo counter.Repository
	outboxRepo  kafka.OutboxRepository
	rdb         *redis.Client
	cfg         Config
	now         func() time.Time
	logger      *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	dayRepo leaveday.Repository,
	summaryRepo leavesummary.Repository,
	typeRepo leavetype.Repository,
	directory employee.Directory,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	cfg Config,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leaverequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		dayRepo:     dayRepo,
		summaryRepo: summaryRepo,
		typeRepo:    typeRepo,
		directory:   directory,
		counterRepo: counterRepo,
		outboxRepo:  outboxRepo,
		rdb:         rdb,
		cfg:         cfg,
		now:         time.Now,
		logger:      l,
	}
}

func parseDates(raw []string, recordYear int) ([]time.Time, error) {
	if len(raw) == 0 {
		return nil, leaverequesterrors.ErrEmptyDates
	}

	dates := make([]time.Time, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, s := range raw {
		d, err := time.ParseInLocation(dateLayout, s, time.UTC)
		if err != nil {
			return nil, leaverequesterrors.ErrUnparseableDate
		}
		if d.Year() != recordYear {
			return nil, leaverequesterrors.ErrDateOutsideYear
		}
		key := d.Format(dateLayout)
		if _, dup := seen[key]; dup {
			return nil, leaverequesterrors.ErrRepeatedDate
		}
		seen[key] = struct{}{}
		dates = append(dates, d)
	}

	for i := 1; i < len(dates); i++ {
		for j := i; j > 0 && dates[j].Before(dates[j-1]); j-- {
			dates[j], dates[j-1] = dates[j-1], dates[j]
		}
	}
	return dates, nil
}

// requestedDates resolves the submitted day list: an explicit dates array wins,
// otherwise an inclusive start/end range is expanded day by day.
func requestedDates(req SubmitLeaveRequestRequest) ([]string, error) {
	if len(req.Dates) > 0 {
		return req.Dates, nil
	}
	if req.StartDate == "" && req.EndDate == "" {
		return nil, leaverequesterrors.ErrEmptyDates
	}

	start, err := time.ParseInLocation(dateLayout, req.StartDate, time.UTC)
	if err != nil {
		return nil, leaverequesterrors.ErrUnparseableDate
	}
	end, err := time.ParseInLocation(dateLayout, req.EndDate, time.UTC)
	if err != nil {
		return nil, leaverequesterrors.ErrUnparseableDate
	}

	expanded := leaveday.ExpandRange(start, end)
	if expanded == nil {
		return nil, leavedayerrors.ErrInvalidDateRange
	}
	return formatDates(expanded), nil
}

func formatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(dateLayout)
	}
	return out
}

// Submit runs the whole admission as one transaction: duplicate check, type
// and employee validation, feasibility against the current balance, request
// number allocation, request insert, date reservation, outbox event. Any
// failure rolls everything back; no partial writes are observable.
func (s *service) Submit(ctx context.Context, tenantID, actorID string, req SubmitLeaveRequestRequest) (LeaveRequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("submit leave request requested",
		zap.String("request_id", rid),
		zap.String("tenant_id", tenantID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.Int("record_year", req.RecordYear),
		zap.Int("dates", len(req.Dates)),
	)

	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidTenantID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidEmployeeID
	}
	typeUUID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidLeaveTypeID
	}

	raw, err := requestedDates(req)
	if err != nil {
		s.logger.Warn("submit leave request rejected by validation",
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}

	dates, err := parseDates(raw, req.RecordYear)
	if err != nil {
		s.logger.Warn("submit leave request rejected by validation",
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}

	lr := &LeaveRequest{
		ID:          uuid.New(),
		TenantID:    tenantUUID,
		EmployeeID:  employeeUUID,
		LeaveTypeID: typeUUID,
		RecordYear:  req.RecordYear,
		StartDate:   dates[0],
		EndDate:     dates[len(dates)-1],
		TotalDays:   len(dates),
		Reason:      req.Reason,
		Status:      StatusPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		dup, err := qtx.ExistsDuplicate(ctx, DuplicateKey{
			TenantID:    tenantID,
			RecordYear:  req.RecordYear,
			EmployeeID:  req.EmployeeID,
			LeaveTypeID: req.LeaveTypeID,
			Reason:      req.Reason,
			TotalDays:   lr.TotalDays,
		})
		if err != nil {
			return err
		}
		if dup {
			return leaverequesterrors.ErrDuplicateRequest
		}

		lt, err := s.typeRepo.WithTx(tx).FindByIDAndTenant(ctx, tenantID, req.LeaveTypeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaverequesterrors.ErrLeaveTypeUnavailable
			}
			return err
		}
		if lt.Status != leavetype.StatusActive {
			return leaverequesterrors.ErrLeaveTypeUnavailable
		}

		belongs, err := s.directory.WithTx(tx).BelongsToTenant(ctx, tenantID, req.EmployeeID)
		if err != nil {
			return err
		}
		if !belongs {
			return leaverequesterrors.ErrEmployeeNotInTenant
		}

		summary, err := s.summaryRepo.WithTx(tx).FindByScope(ctx, tenantID, req.EmployeeID, req.RecordYear, req.LeaveTypeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leavesummaryerrors.ErrSummaryNotFound
			}
			return err
		}
		if summary.BalanceDays < lr.TotalDays {
			return leavesummaryerrors.ErrInsufficientBalance
		}

		seq, err := s.counterRepo.WithTx(tx).GetNextValue(ctx, tenantID, requestNumberCounter)
		if err != nil {
			return err
		}
		lr.RequestNumber = fmt.Sprintf("LR-%06d", seq)

		if err := qtx.Create(ctx, lr); err != nil {
			return err
		}

		dayTx := s.dayRepo.WithTx(tx)
		conflicts, err := dayTx.FindReservedDates(ctx, tenantID, req.EmployeeID, dates)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return leavedayerrors.ErrDatesAlreadyReserved.WithDetails(map[string]any{
				"conflicting_dates": formatDates(conflicts),
			})
		}

		days := make([]leaveday.LeaveRequestDay, 0, len(dates))
		for _, d := range dates {
			days = append(days, leaveday.LeaveRequestDay{
				ID:             uuid.New(),
				TenantID:       tenantUUID,
				LeaveRequestID: lr.ID,
				EmployeeID:     employeeUUID,
				LeaveDate:      d,
				RecordMonth:    leaveday.MonthLabel(d),
			})
		}
		if err := dayTx.Reserve(ctx, days); err != nil {
			return err
		}

		return s.enqueueSubmittedEvent(ctx, tx, lr)
	})
	if err != nil {
		s.logSubmitFailure(tenantID, req.EmployeeID, err)
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("submit leave request success",
		zap.String("leave_request_id", lr.ID.String()),
		zap.String("request_number", lr.RequestNumber),
		zap.String("tenant_id", tenantID),
		zap.Int("total_days", lr.TotalDays),
	)

	resp := mapToResponse(*lr)
	resp.Dates = formatDates(dates)
	return resp, nil
}

func (s *service) logSubmitFailure(tenantID, employeeID string, err error) {
	switch {
	case errors.Is(err, leaverequesterrors.ErrDuplicateRequest),
		errors.Is(err, leavedayerrors.ErrDatesAlreadyReserved),
		errors.Is(err, leavesummaryerrors.ErrInsufficientBalance):
		s.logger.Warn("submit leave request conflict",
			zap.String("tenant_id", tenantID),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
	default:
		s.logger.Error("submit leave request failed",
			zap.String("tenant_id", tenantID),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
	}
}

// Approve serializes on the request row, applies the day count to the ledger
// and flips the status, all in one transaction. The day count comes from the
// stored request, never from the caller.
func (s *service) Approve(ctx context.Context, tenantID, deciderID, id string, req ApproveLeaveRequestRequest) (LeaveRequestResponse, error) {
	return s.decide(ctx, tenantID, deciderID, id, StatusApproved, req.Comment)
}

func (s *service) Reject(ctx context.Context, tenantID, deciderID, id string, req RejectLeaveRequestRequest) (LeaveRequestResponse, error) {
	if req.Comment == "" {
		return LeaveRequestResponse{}, leaverequesterrors.ErrCommentRequired
	}
	return s.decide(ctx, tenantID, deciderID, id, StatusRejected, req.Comment)
}

func (s *service) decide(ctx context.Context, tenantID, deciderID, id, newStatus, comment string) (LeaveRequestResponse, error) {
	s.logger.Debug("decide leave request requested",
		zap.String("leave_request_id", id),
		zap.String("tenant_id", tenantID),
		zap.String("status", newStatus),
	)

	if _, err := uuid.Parse(tenantID); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidTenantID
	}
	deciderUUID, err := uuid.Parse(deciderID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidRequestID
	}

	var lr *LeaveRequest
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		var err error
		lr, err = qtx.FindByIDForUpdate(ctx, tenantID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaverequesterrors.ErrLeaveRequestNotFound
			}
			return err
		}
		if !lr.IsPending() {
			return leaverequesterrors.ErrInvalidTransition
		}

		if newStatus == StatusApproved {
			summaryTx := s.summaryRepo.WithTx(tx)
			summary, err := summaryTx.FindByScope(ctx, tenantID, lr.EmployeeID.String(), lr.RecordYear, lr.LeaveTypeID.String())
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return leavesummaryerrors.ErrSummaryNotFound
				}
				return err
			}
			if _, err := summaryTx.ApplyApproval(ctx, summary.ID.String(), lr.TotalDays); err != nil {
				return err
			}
		} else if s.cfg.ReleaseDaysOnReject {
			if _, err := s.dayRepo.WithTx(tx).ReleaseByRequest(ctx, tenantID, id); err != nil {
				return err
			}
		}

		now := s.now()
		lr.Status = newStatus
		lr.SupervisorComment = comment
		lr.DecidedBy = &deciderUUID
		lr.DecidedAt = &now

		if err := qtx.Update(ctx, lr); err != nil {
			return err
		}

		return s.enqueueDecidedEvent(ctx, tx, lr)
	})
	if err != nil {
		switch {
		case errors.Is(err, leaverequesterrors.ErrInvalidTransition),
			errors.Is(err, leavesummaryerrors.ErrInsufficientBalance):
			s.logger.Warn("decide leave request refused",
				zap.String("leave_request_id", id),
				zap.String("status", newStatus),
				zap.Error(err),
			)
		case errors.Is(err, leaverequesterrors.ErrLeaveRequestNotFound):
			s.logger.Warn("decide leave request not found",
				zap.String("leave_request_id", id),
			)
		default:
			s.logger.Error("decide leave request failed",
				zap.String("leave_request_id", id),
				zap.Error(err),
			)
		}
		return LeaveRequestResponse{}, err
	}

	if newStatus == StatusApproved {
		s.invalidateSummaryCache(ctx, lr)
	}

	s.logger.Info("decide leave request success",
		zap.String("leave_request_id", id),
		zap.String("status", newStatus),
		zap.String("decided_by", deciderID),
	)

	return mapToResponse(*lr), nil
}

func (s *service) invalidateSummaryCache(ctx context.Context, lr *LeaveRequest) {
	if s.rdb == nil {
		return
	}
	key := leavesummary.DetailCacheKey(lr.TenantID.String(), lr.EmployeeID.String(), lr.RecordYear, lr.LeaveTypeID.String())
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.logger.Warn("summary cache invalidation failed",
			zap.String("cache_key", key),
			zap.Error(err),
		)
	}
}

// Withdraw deletes a still-pending request and releases its reserved days in
// one transaction.
func (s *service) Withdraw(ctx context.Context, tenantID, actorID, id string) error {
	if _, err := uuid.Parse(tenantID); err != nil {
		return leaverequesterrors.ErrInvalidTenantID
	}
	if _, err := uuid.Parse(id); err != nil {
		return leaverequesterrors.ErrInvalidRequestID
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		lr, err := qtx.FindByIDForUpdate(ctx, tenantID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaverequesterrors.ErrLeaveRequestNotFound
			}
			return err
		}
		if !lr.IsPending() {
			return leaverequesterrors.ErrInvalidTransition
		}

		if _, err := s.dayRepo.WithTx(tx).ReleaseByRequest(ctx, tenantID, id); err != nil {
			return err
		}

		return qtx.Delete(ctx, tenantID, id)
	})
	if err != nil {
		s.logger.Warn("withdraw leave request failed",
			zap.String("leave_request_id", id),
			zap.String("actor_id", actorID),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("withdraw leave request success",
		zap.String("leave_request_id", id),
		zap.String("actor_id", actorID),
	)
	return nil
}

func (s *service) GetAll(ctx context.Context, tenantID string, page, limit int) ([]LeaveRequestResponse, int64, error) {
	if _, err := uuid.Parse(tenantID); err != nil {
		return nil, 0, leaverequesterrors.ErrInvalidTenantID
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	requests, total, err := s.repo.FindAllByTenant(ctx, tenantID, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(requests), total, nil
}

func (s *service) GetByEmployee(ctx context.Context, tenantID, employeeID string) (EmployeeLeaveRequestsResponse, error) {
	if _, err := uuid.Parse(tenantID); err != nil {
		return EmployeeLeaveRequestsResponse{}, leaverequesterrors.ErrInvalidTenantID
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return EmployeeLeaveRequestsResponse{}, leaverequesterrors.ErrInvalidEmployeeID
	}

	requests, err := s.repo.FindByEmployee(ctx, tenantID, employeeID)
	if err != nil {
		return EmployeeLeaveRequestsResponse{}, err
	}
	totals, err := s.repo.DayTotalsByEmployee(ctx, tenantID, employeeID)
	if err != nil {
		return EmployeeLeaveRequestsResponse{}, err
	}

	return EmployeeLeaveRequestsResponse{
		Requests:     mapToListResponse(requests),
		PendingDays:  totals.PendingDays,
		ApprovedDays: totals.ApprovedDays,
		RejectedDays: totals.RejectedDays,
	}, nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string) (LeaveRequestResponse, error) {
	if _, err := uuid.Parse(tenantID); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidTenantID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidRequestID
	}

	lr, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrLeaveRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}

	days, err := s.dayRepo.ListByRequest(ctx, tenantID, id)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	resp := mapToResponse(*lr)
	resp.Dates = make([]string, len(days))
	for i, d := range days {
		resp.Dates[i] = d.LeaveDate.Format(dateLayout)
	}
	return resp, nil
}

func (s *service) enqueueSubmittedEvent(ctx context.Context, tx *gorm.DB, lr *LeaveRequest) error {
	payload, err := json.Marshal(events.LeaveRequestSubmittedEvent{
		EventType:     events.LeaveRequestSubmittedType,
		RequestID:     lr.ID.String(),
		RequestNumber: lr.RequestNumber,
		TenantID:      lr.TenantID.String(),
		EmployeeID:    lr.EmployeeID.String(),
		LeaveTypeID:   lr.LeaveTypeID.String(),
		RecordYear:    lr.RecordYear,
		TotalDays:     lr.TotalDays,
		OccurredAt:    s.now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outboxRepo.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   lr.ID.String(),
		EventType:     events.LeaveRequestSubmittedType,
		Topic:         events.LeaveRequestTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) enqueueDecidedEvent(ctx context.Context, tx *gorm.DB, lr *LeaveRequest) error {
	decidedBy := ""
	if lr.DecidedBy != nil {
		decidedBy = lr.DecidedBy.String()
	}
	payload, err := json.Marshal(events.LeaveRequestDecidedEvent{
		EventType:  events.LeaveRequestDecidedType,
		RequestID:  lr.ID.String(),
		TenantID:   lr.TenantID.String(),
		EmployeeID: lr.EmployeeID.String(),
		Status:     lr.Status,
		DecidedBy:  decidedBy,
		TotalDays:  lr.TotalDays,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outboxRepo.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   lr.ID.String(),
		EventType:     events.LeaveRequestDecidedType,
		Topic:         events.LeaveRequestTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}
