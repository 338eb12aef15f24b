package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Scorpioninfotechsolutions/lend-master/internal/domain/entities"
	domainerrors "github.com/Scorpioninfotechsolutions/lend-master/internal/domain/errors"
	"github.com/Scorpioninfotechsolutions/lend-master/internal/domain/repositories"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/crypto"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/logger"
)

// BorrowerUsecase handles borrower profile management. Creating a
// borrower records the lender relationship in the activity log; that
// record is what the card access policy later consults. Card secrets
// supplied here are encrypted into the card store and never persist in
// plaintext.
type BorrowerUsecase struct {
	userRepo     repositories.UserRepository
	activityRepo repositories.ActivityLogRepository
	cardDetails  *CardDetailUsecase
}

// NewBorrowerUsecase creates a new borrower usecase
func NewBorrowerUsecase(
	userRepo repositories.UserRepository,
	activityRepo repositories.ActivityLogRepository,
	cardDetails *CardDetailUsecase,
) *BorrowerUsecase {
	return &BorrowerUsecase{
		userRepo:     userRepo,
		activityRepo: activityRepo,
		cardDetails:  cardDetails,
	}
}

// Create registers a borrower account on behalf of the acting lender or
// admin
func (u *BorrowerUsecase) Create(ctx context.Context, actorID uuid.UUID, input *entities.CreateBorrowerInput) (*entities.User, error) {
	existing, err := u.userRepo.GetByUsername(ctx, input.Username)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domainerrors.Conflict("Username already taken")
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	borrower := &entities.User{
		Name:         input.Name,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Role:         entities.UserRoleBorrower,
		Phone:        input.Phone,
		DOB:          input.DOB,
		Address:      input.Address,
		Referrer:     input.Referrer,
		CardNumber:   input.CardNumber,
		CardName:     input.CardName,
		ValidTil:     input.ValidTil,
		Status:       entities.UserStatusActive,
		Active:       true,
	}

	if err := u.userRepo.Create(ctx, borrower); err != nil {
		return nil, err
	}

	if err := u.cardDetails.EncryptSecrets(ctx, borrower.ID, entities.CardSecretInput{
		Cvv:    input.Cvv,
		AtmPin: input.AtmPin,
	}); err != nil {
		return nil, err
	}

	// The ownership fact the card access policy relies on
	if err := u.activityRepo.Create(ctx, &entities.ActivityLog{
		Action:        entities.ActionBorrowerCreated,
		Description:   "Borrower " + borrower.Name + " added",
		UserID:        actorID,
		RelatedUserID: &borrower.ID,
		Type:          entities.ActivityTypeLoan,
	}); err != nil {
		return nil, err
	}

	return borrower, nil
}

// Get returns one borrower, enforcing lender scoping
func (u *BorrowerUsecase) Get(ctx context.Context, actorID uuid.UUID, actorRole string, borrowerID uuid.UUID) (*entities.User, error) {
	if err := u.requireOwnership(ctx, actorID, actorRole, borrowerID); err != nil {
		return nil, err
	}

	borrower, err := u.userRepo.GetByID(ctx, borrowerID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("Borrower not found")
		}
		return nil, err
	}
	if borrower.Role != entities.UserRoleBorrower {
		return nil, domainerrors.NotFound("Borrower not found")
	}
	return borrower, nil
}

// List returns all borrowers for admins, or only the borrowers the
// acting lender has a recorded relationship with
func (u *BorrowerUsecase) List(ctx context.Context, actorID uuid.UUID, actorRole string) ([]*entities.User, error) {
	if actorRole == string(entities.UserRoleAdmin) {
		return u.userRepo.ListByRole(ctx, entities.UserRoleBorrower)
	}

	ids, err := u.activityRepo.RelatedUserIDs(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*entities.User{}, nil
	}
	return u.userRepo.ListByRoleAndIDs(ctx, entities.UserRoleBorrower, ids)
}

// Update modifies a borrower profile; new card secrets are encrypted
// into the card store
func (u *BorrowerUsecase) Update(ctx context.Context, actorID uuid.UUID, actorRole string, borrowerID uuid.UUID, input *entities.UpdateBorrowerInput) (*entities.User, error) {
	borrower, err := u.Get(ctx, actorID, actorRole, borrowerID)
	if err != nil {
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
	if input.DOB != "" {
		fields["dob"] = input.DOB
	}
	if input.Address != "" {
		fields["address"] = input.Address
	}
	if input.Status != "" {
		fields["status"] = input.Status
	}
	if input.CardNumber != "" {
		fields["card_number"] = input.CardNumber
	}
	if input.CardName != "" {
		fields["card_name"] = input.CardName
	}
	if input.ValidTil != "" {
		fields["valid_til"] = input.ValidTil
	}

	if len(fields) > 0 {
		if err := u.userRepo.UpdateFields(ctx, borrower.ID, fields); err != nil {
			return nil, err
		}
	}

	if err := u.cardDetails.EncryptSecrets(ctx, borrower.ID, entities.CardSecretInput{
		Cvv:    input.Cvv,
		AtmPin: input.AtmPin,
	}); err != nil {
		return nil, err
	}

	u.logActivity(ctx, &entities.ActivityLog{
		Action:        entities.ActionBorrowerUpdated,
		Description:   "Borrower " + borrower.Name + " updated",
		UserID:        actorID,
		RelatedUserID: &borrower.ID,
		Type:          entities.ActivityTypeLoan,
	})

	return u.userRepo.GetByID(ctx, borrower.ID)
}

// Delete deactivates a borrower by default: the account is marked
// inactive and soft-deleted, disappearing from listings and reads
// while the encrypted card record is retained. A confirmed delete
// removes the account and its card record for good.
func (u *BorrowerUsecase) Delete(ctx context.Context, actorID uuid.UUID, actorRole string, borrowerID uuid.UUID, permanent bool) error {
	borrower, err := u.Get(ctx, actorID, actorRole, borrowerID)
	if err != nil {
		return err
	}

	description := "Borrower " + borrower.Name + " deactivated"
	if permanent {
		if err := u.cardDetails.cardRepo.DeleteByUserID(ctx, borrower.ID); err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
			return err
		}
		if err := u.userRepo.DeletePermanent(ctx, borrower.ID); err != nil {
			return err
		}
		description = "Borrower " + borrower.Name + " permanently removed"
	} else {
		if err := u.userRepo.UpdateFields(ctx, borrower.ID, map[string]interface{}{
			"active": false,
			"status": string(entities.UserStatusInactive),
		}); err != nil {
			return err
		}
		if err := u.userRepo.Delete(ctx, borrower.ID); err != nil {
			return err
		}
	}

	u.logActivity(ctx, &entities.ActivityLog{
		Action:        entities.ActionBorrowerDeleted,
		Description:   description,
		UserID:        actorID,
		RelatedUserID: &borrower.ID,
		Type:          entities.ActivityTypeLoan,
	})

	return nil
}

// requireOwnership lets admins through and checks the recorded
// relationship for lenders
func (u *BorrowerUsecase) requireOwnership(ctx context.Context, actorID uuid.UUID, actorRole string, borrowerID uuid.UUID) error {
	if actorRole == string(entities.UserRoleAdmin) {
		return nil
	}
	related, err := u.activityRepo.HasRelationship(ctx, actorID, borrowerID)
	if err != nil {
		return err
	}
	if !related {
		return domainerrors.AccessDenied()
	}
	return nil
}

func (u *BorrowerUsecase) logActivity(ctx context.Context, log *entities.ActivityLog) {
	if err := u.activityRepo.Create(ctx, log); err != nil {
		logger.Warn(ctx, "failed to record activity", zap.String("action", log.Action), zap.Error(err))
	}
}
