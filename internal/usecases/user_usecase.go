package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Scorpioninfotechsolutions/lend-master/internal/domain/entities"
	domainerrors "github.com/Scorpioninfotechsolutions/lend-master/internal/domain/errors"
	"github.com/Scorpioninfotechsolutions/lend-master/internal/domain/repositories"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/crypto"
)

// UserUsecase handles admin user management
type UserUsecase struct {
	userRepo repositories.UserRepository
	cardRepo repositories.CardDetailRepository
}

// NewUserUsecase creates a new user usecase
func NewUserUsecase(userRepo repositories.UserRepository, cardRepo repositories.CardDetailRepository) *UserUsecase {
	return &UserUsecase{userRepo: userRepo, cardRepo: cardRepo}
}

// ListLenders returns all lender accounts
func (u *UserUsecase) ListLenders(ctx context.Context) ([]*entities.User, error) {
	return u.userRepo.ListByRole(ctx, entities.UserRoleLender)
}

// Update modifies any user account
func (u *UserUsecase) Update(ctx context.Context, id uuid.UUID, input *entities.UpdateUserInput) (*entities.User, error) {
	if _, err := u.userRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("User not found")
		}
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Name != "" {
		fields["name"] = input.Name
	}
	if input.Email != "" {
		fields["email"] = input.Email
	}
	if input.Phone != "" {
		fields["phone"] = input.Phone
	}
	if input.Address != "" {
		fields["address"] = input.Address
	}
	if input.Status != "" {
		fields["status"] = input.Status
		fields["active"] = input.Status == string(entities.UserStatusActive)
	}
	if input.Password != "" {
		hash, err := crypto.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = hash
	}

	if len(fields) > 0 {
		if err := u.userRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}

	return u.userRepo.GetByID(ctx, id)
}

// Delete permanently removes a user account and any card record
func (u *UserUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := u.userRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFound("User not found")
		}
		return err
	}

	if err := u.cardRepo.DeleteByUserID(ctx, id); err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return err
	}
	return u.userRepo.DeletePermanent(ctx, id)
}
