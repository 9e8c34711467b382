package leavesummary_test

import (
	"testing"

	"go-leavedesk/internal/leavesummary"
	leavesummaryerrors "go-leavedesk/internal/leavesummary/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewSummary(t *testing.T) {
	tenantID := uuid.New()
	employeeID := uuid.New()
	typeID := uuid.New()

	s := leavesummary.NewSummary(tenantID, employeeID, typeID, 2026, 10, 2)

	assert.Equal(t, tenantID, s.TenantID)
	assert.Equal(t, employeeID, s.EmployeeID)
	assert.Equal(t, typeID, s.LeaveTypeID)
	assert.Equal(t, 2026, s.RecordYear)
	assert.Equal(t, 10, s.AnnualDays)
	assert.Equal(t, 2, s.CarriedOverDays)
	assert.Equal(t, 0, s.UsedDays)
	assert.Equal(t, 12, s.BalanceDays)
}

func TestLeaveSummary_Apply(t *testing.T) {
	t.Run("success consumes days and keeps balance consistent", func(t *testing.T) {
		s := leavesummary.NewSummary(uuid.New(), uuid.New(), uuid.New(), 2026, 10, 2)

		err := s.Apply(5)

		assert.NoError(t, err)
		assert.Equal(t, 5, s.UsedDays)
		assert.Equal(t, 7, s.BalanceDays)
		assert.Equal(t, s.AnnualDays+s.CarriedOverDays-s.UsedDays, s.BalanceDays)
	})

	t.Run("success consumes exactly the remaining balance", func(t *testing.T) {
		s := leavesummary.NewSummary(uuid.New(), uuid.New(), uuid.New(), 2026, 10, 0)

		err := s.Apply(10)

		assert.NoError(t, err)
		assert.Equal(t, 10, s.UsedDays)
		assert.Equal(t, 0, s.BalanceDays)
	})

	t.Run("negative insufficient balance leaves row unchanged", func(t *testing.T) {
		s := leavesummary.NewSummary(uuid.New(), uuid.New(), uuid.New(), 2026, 10, 2)
		assert.NoError(t, s.Apply(5))

		err := s.Apply(8)

		assert.ErrorIs(t, err, leavesummaryerrors.ErrInsufficientBalance)
		assert.Equal(t, 5, s.UsedDays)
		assert.Equal(t, 7, s.BalanceDays)
	})

	t.Run("negative zero or negative days", func(t *testing.T) {
		s := leavesummary.NewSummary(uuid.New(), uuid.New(), uuid.New(), 2026, 10, 0)

		assert.ErrorIs(t, s.Apply(0), leavesummaryerrors.ErrInvalidDays)
		assert.ErrorIs(t, s.Apply(-3), leavesummaryerrors.ErrInvalidDays)
		assert.Equal(t, 0, s.UsedDays)
		assert.Equal(t, 10, s.BalanceDays)
	})
}

func TestLeaveSummary_Reverse(t *testing.T) {
	t.Run("success restores a previous apply", func(t *testing.T) {
		s := leavesummary.NewSummary(uuid.New(), uuid.New(), uuid.New(), 2026, 10, 2)
		assert.NoError(t, s.Apply(5))

		err := s.Reverse(5)

		assert.NoError(t, err)
		assert.Equal(t, 0, s.UsedDays)
		assert.Equal(t, 12, s.BalanceDays)
	})

	t.Run("negative cannot reverse more than used", func(t *testing.T) {
		s := leavesummary.NewSummary(uuid.New(), uuid.New(), uuid.New(), 2026, 10, 0)
		assert.NoError(t, s.Apply(3))

		err := s.Reverse(4)

		assert.ErrorIs(t, err, leavesummaryerrors.ErrInvalidDays)
		assert.Equal(t, 3, s.UsedDays)
		assert.Equal(t, 7, s.BalanceDays)
	})
}

func TestCarryOver(t *testing.T) {
	assert.Equal(t, 3, leavesummary.CarryOver(3, 5))
	assert.Equal(t, 5, leavesummary.CarryOver(8, 5))
	assert.Equal(t, 0, leavesummary.CarryOver(0, 5))
	assert.Equal(t, 0, leavesummary.CarryOver(-1, 5))
	assert.Equal(t, 0, leavesummary.CarryOver(4, 0))
}
