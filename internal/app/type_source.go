package app

import (
	"context"
	"errors"

	"go-leavedesk/internal/leavesummary"
	"go-leavedesk/internal/leavetype"

	"gorm.io/gorm"
)

// leaveTypeSeedSource adapts the catalog repository to the ledger's
// TypeSource boundary. Inactive and deleted types yield no seed.
type leaveTypeSeedSource struct {
	repo leavetype.Repository
}

func (s *leaveTypeSeedSource) ListActiveSeeds(ctx context.Context, tenantID string) ([]leavesummary.TypeSeed, error) {
	types, err := s.repo.FindAllByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	seeds := make([]leavesummary.TypeSeed, 0, len(types))
	for _, lt := range types {
		if lt.Status != leavetype.StatusActive {
			continue
		}
		seeds = append(seeds, leavesummary.TypeSeed{
			ID:      lt.ID.String(),
			MaxDays: lt.MaxDays,
		})
	}
	return seeds, nil
}

func (s *leaveTypeSeedSource) GetSeed(ctx context.Context, tenantID, leaveTypeID string) (*leavesummary.TypeSeed, error) {
	lt, err := s.repo.FindByIDAndTenant(ctx, tenantID, leaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if lt.Status != leavetype.StatusActive {
		return nil, nil
	}
	return &leavesummary.TypeSeed{
		ID:      lt.ID.String(),
		MaxDays: lt.MaxDays,
	}, nil
}
