package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/Scorpioninfotechsolutions/lend-master/internal/domain/entities"
)

// ActivityLogRepository defines audit event storage and the
// lender-borrower relationship queries derived from it
type ActivityLogRepository interface {
	Create(ctx context.Context, log *entities.ActivityLog) error
	List(ctx context.Context, offset, limit int) ([]*entities.ActivityLog, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.ActivityLog, error)
	Count(ctx context.Context) (int64, error)
	// HasRelationship reports whether an ownership fact links the
	// lender to the borrower
	HasRelationship(ctx context.Context, lenderID, borrowerID uuid.UUID) (bool, error)
	// RelatedUserIDs returns the distinct users a lender has recorded
	// relationships with
	RelatedUserIDs(ctx context.Context, lenderID uuid.UUID) ([]uuid.UUID, error)
}
