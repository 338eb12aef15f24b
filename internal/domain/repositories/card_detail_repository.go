package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/Scorpioninfotechsolutions/lend-master/internal/domain/entities"
)

// CardDetailRepository defines the per-borrower secret record store.
// At most one record exists per user; the encrypted columns are only
// loaded when withSecrets is true.
type CardDetailRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID, withSecrets bool) (*entities.CardDetail, error)
	Upsert(ctx context.Context, userID uuid.UUID, update entities.EncryptedSecretUpdate) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}
