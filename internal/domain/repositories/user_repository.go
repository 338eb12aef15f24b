package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/Scorpioninfotechsolutions/lend-master/internal/domain/entities"
)

// UserRepository defines user data operations. Reads exclude the
// legacy secret columns unless the elevated variant is used.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByIDWithSecrets(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	ClearLegacySecrets(ctx context.Context, id uuid.UUID, clearCvv, clearAtmPin bool) error
	ListByRole(ctx context.Context, role entities.UserRole) ([]*entities.User, error)
	ListByRoleAndIDs(ctx context.Context, role entities.UserRole, ids []uuid.UUID) ([]*entities.User, error)
	ListBorrowersWithLegacySecrets(ctx context.Context) ([]*entities.User, error)
	// Delete soft-deletes a user; the row is kept but excluded from
	// all reads and listings
	Delete(ctx context.Context, id uuid.UUID) error
	// DeletePermanent removes the row for good
	DeletePermanent(ctx context.Context, id uuid.UUID) error
}
