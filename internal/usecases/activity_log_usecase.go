package usecases

import (
	"context"

	"github.com/google/uuid"

	"github.com/Scorpioninfotechsolutions/lend-master/internal/domain/entities"
	"github.com/Scorpioninfotechsolutions/lend-master/internal/domain/repositories"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/utils"
)

const defaultActivityLimit = 100

// ActivityLogUsecase exposes the audit trail
type ActivityLogUsecase struct {
	activityRepo repositories.ActivityLogRepository
}

// NewActivityLogUsecase creates a new activity log usecase
func NewActivityLogUsecase(activityRepo repositories.ActivityLogRepository) *ActivityLogUsecase {
	return &ActivityLogUsecase{activityRepo: activityRepo}
}

// List returns one page of activity, newest first
func (u *ActivityLogUsecase) List(ctx context.Context, page, limit int) ([]*entities.ActivityLog, utils.PaginationMeta, error) {
	if limit <= 0 || limit > defaultActivityLimit {
		limit = defaultActivityLimit
	}
	params := utils.GetPaginationParams(page, limit)

	total, err := u.activityRepo.Count(ctx)
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}

	logs, err := u.activityRepo.List(ctx, params.CalculateOffset(), params.Limit)
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return logs, utils.CalculateMeta(total, params.Page, params.Limit), nil
}

// ListByUser returns recent activity for one acting user
func (u *ActivityLogUsecase) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.ActivityLog, error) {
	if limit <= 0 || limit > defaultActivityLimit {
		limit = defaultActivityLimit
	}
	return u.activityRepo.ListByUser(ctx, userID, limit)
}
