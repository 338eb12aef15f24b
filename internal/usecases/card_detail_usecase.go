package usecases

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Scorpioninfotechsolutions/lend-master/internal/domain/entities"
	domainerrors "github.com/Scorpioninfotechsolutions/lend-master/internal/domain/errors"
	"github.com/Scorpioninfotechsolutions/lend-master/internal/domain/repositories"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/crypto"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/logger"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/metrics"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/redis"
)

// CardDetailUsecase owns the reveal flow: access policy, reveal-ticket
// consumption, elevated store reads and envelope decryption. Plaintext
// secrets only ever exist in the response, never at rest.
type CardDetailUsecase struct {
	userRepo     repositories.UserRepository
	cardRepo     repositories.CardDetailRepository
	activityRepo repositories.ActivityLogRepository
	codec        *crypto.Codec
	tickets      *redis.TicketStore
}

// NewCardDetailUsecase creates a new card detail usecase
func NewCardDetailUsecase(
	userRepo repositories.UserRepository,
	cardRepo repositories.CardDetailRepository,
	activityRepo repositories.ActivityLogRepository,
	codec *crypto.Codec,
	tickets *redis.TicketStore,
) *CardDetailUsecase {
	return &CardDetailUsecase{
		userRepo:     userRepo,
		cardRepo:     cardRepo,
		activityRepo: activityRepo,
		codec:        codec,
		tickets:      tickets,
	}
}

// canReveal decides whether the actor may see the borrower's card
// details: admins always, users their own, lenders only borrowers they
// have a recorded relationship with.
func (u *CardDetailUsecase) canReveal(ctx context.Context, actorID uuid.UUID, actorRole string, targetID uuid.UUID) (bool, error) {
	if actorRole == string(entities.UserRoleAdmin) {
		return true, nil
	}
	if actorID == targetID {
		return true, nil
	}
	if actorRole == string(entities.UserRoleLender) {
		return u.activityRepo.HasRelationship(ctx, actorID, targetID)
	}
	return false, nil
}

// Reveal returns the borrower's card details. Without a valid reveal
// ticket the secret fields come back as empty placeholders; an absent
// card record is likewise a placeholder response, not an error.
func (u *CardDetailUsecase) Reveal(ctx context.Context, actorID uuid.UUID, actorRole string, targetID uuid.UUID, ticket string) (*entities.CardDetailsView, error) {
	allowed, err := u.canReveal(ctx, actorID, actorRole, targetID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		metrics.RecordReveal("denied")
		u.logActivity(ctx, &entities.ActivityLog{
			Action:        entities.ActionCardRevealDenied,
			Description:   "Card detail access denied",
			UserID:        actorID,
			RelatedUserID: &targetID,
			Type:          entities.ActivityTypeSecurity,
		})
		return nil, domainerrors.AccessDenied()
	}

	target, err := u.userRepo.GetByIDWithSecrets(ctx, targetID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("Borrower not found")
		}
		return nil, err
	}

	view := &entities.CardDetailsView{
		CardNumber: target.CardNumber,
		CardName:   target.CardName,
		ValidTil:   target.ValidTil,
	}

	authorized, err := u.tickets.Consume(ctx, actorID, ticket)
	if err != nil {
		return nil, err
	}
	if !authorized {
		// No plaintext without a fresh password verification
		metrics.RecordReveal("denied")
		return view, nil
	}

	detail, err := u.cardRepo.GetByUserID(ctx, target.ID, true)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	cvv, err := u.revealField(ctx, target, detail, entities.SecretFieldCvv)
	if err != nil {
		return nil, err
	}
	atmPin, err := u.revealField(ctx, target, detail, entities.SecretFieldAtmPin)
	if err != nil {
		return nil, err
	}
	view.Cvv = cvv
	view.AtmPin = atmPin

	metrics.RecordReveal("granted")
	u.logActivity(ctx, &entities.ActivityLog{
		Action:        entities.ActionCardRevealed,
		Description:   "Card details revealed",
		UserID:        actorID,
		RelatedUserID: &targetID,
		Type:          entities.ActivityTypeSecurity,
	})

	return view, nil
}

// revealField resolves one secret field to plaintext. Preference order
// is the encrypted store record, then any unmigrated legacy column.
// Legacy hashes are irreversible and yield the empty placeholder.
func (u *CardDetailUsecase) revealField(ctx context.Context, target *entities.User, detail *entities.CardDetail, field entities.SecretField) (string, error) {
	if detail != nil {
		envelope := detail.EncryptedCvv
		if field == entities.SecretFieldAtmPin {
			envelope = detail.EncryptedAtmPin
		}
		if envelope.Valid && envelope.String != "" {
			plaintext, err := u.codec.Decrypt(envelope.String)
			if err != nil {
				metrics.RecordReveal("error")
				logger.Error(ctx, "card secret decryption failed",
					zap.String("user_id", target.ID.String()),
					zap.String("field", string(field)),
					zap.Error(err))
				return "", domainerrors.DecryptFailed()
			}
			return plaintext, nil
		}
	}

	legacy := target.LegacyCvv
	if field == entities.SecretFieldAtmPin {
		legacy = target.LegacyAtmPin
	}
	switch crypto.ClassifyField(legacy) {
	case crypto.FieldPlaintext:
		return legacy, nil
	case crypto.FieldEncrypted:
		plaintext, err := u.codec.Decrypt(legacy)
		if err != nil {
			metrics.RecordReveal("error")
			return "", domainerrors.DecryptFailed()
		}
		return plaintext, nil
	default:
		// Absent, or an unrecoverable legacy hash
		return "", nil
	}
}

// VerifyCardDetail checks a candidate value against the stored secret
// without revealing the stored value
func (u *CardDetailUsecase) VerifyCardDetail(ctx context.Context, input *entities.VerifyCardDetailInput) (bool, error) {
	field := entities.SecretField(input.Field)
	if !field.Valid() {
		return false, domainerrors.BadRequest("Unknown card detail field")
	}

	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		return false, domainerrors.BadRequest("Invalid user id")
	}

	user, err := u.userRepo.GetByIDWithSecrets(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return false, domainerrors.NotFound("User not found")
		}
		return false, err
	}

	match, err := u.verifyField(ctx, user, field, input.Value)
	if err != nil {
		return false, err
	}

	metrics.RecordVerification(match)
	u.logActivity(ctx, &entities.ActivityLog{
		Action:        entities.ActionCardVerified,
		Description:   "Card detail verification check",
		UserID:        userID,
		RelatedUserID: &userID,
		Type:          entities.ActivityTypeSecurity,
		Metadata:      map[string]string{"field": input.Field},
	})

	return match, nil
}

func (u *CardDetailUsecase) verifyField(ctx context.Context, user *entities.User, field entities.SecretField, candidate string) (bool, error) {
	detail, err := u.cardRepo.GetByUserID(ctx, user.ID, true)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return false, err
	}

	if detail != nil {
		envelope := detail.EncryptedCvv
		if field == entities.SecretFieldAtmPin {
			envelope = detail.EncryptedAtmPin
		}
		if envelope.Valid && envelope.String != "" {
			stored, err := u.codec.Decrypt(envelope.String)
			if err != nil {
				logger.Error(ctx, "card secret decryption failed during verify",
					zap.String("user_id", user.ID.String()), zap.Error(err))
				return false, domainerrors.DecryptFailed()
			}
			return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1, nil
		}
	}

	legacy := user.LegacyCvv
	if field == entities.SecretFieldAtmPin {
		legacy = user.LegacyAtmPin
	}
	switch crypto.ClassifyField(legacy) {
	case crypto.FieldLegacyHash:
		return crypto.CompareSecret(candidate, legacy), nil
	case crypto.FieldPlaintext:
		return subtle.ConstantTimeCompare([]byte(legacy), []byte(candidate)) == 1, nil
	case crypto.FieldEncrypted:
		stored, err := u.codec.Decrypt(legacy)
		if err != nil {
			return false, domainerrors.DecryptFailed()
		}
		return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1, nil
	default:
		return false, nil
	}
}

// EncryptSecrets encrypts the provided plaintext secrets into the
// borrower's card record. Empty fields leave stored values untouched.
func (u *CardDetailUsecase) EncryptSecrets(ctx context.Context, userID uuid.UUID, input entities.CardSecretInput) error {
	if input.Empty() {
		return nil
	}

	var update entities.EncryptedSecretUpdate
	if input.Cvv != "" {
		envelope, err := u.codec.Encrypt(input.Cvv)
		if err != nil {
			return err
		}
		update.EncryptedCvv = &envelope
	}
	if input.AtmPin != "" {
		envelope, err := u.codec.Encrypt(input.AtmPin)
		if err != nil {
			return err
		}
		update.EncryptedAtmPin = &envelope
	}

	return u.cardRepo.Upsert(ctx, userID, update)
}

func (u *CardDetailUsecase) logActivity(ctx context.Context, log *entities.ActivityLog) {
	if err := u.activityRepo.Create(ctx, log); err != nil {
		logger.Warn(ctx, "failed to record activity", zap.String("action", log.Action), zap.Error(err))
	}
}
