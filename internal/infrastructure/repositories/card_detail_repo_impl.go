package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"github.com/Scorpioninfotechsolutions/lend-master/internal/domain/entities"
	domainerrors "github.com/Scorpioninfotechsolutions/lend-master/internal/domain/errors"
	"github.com/Scorpioninfotechsolutions/lend-master/internal/infrastructure/models"
)

// CardDetailRepository implements the encrypted secret record store
type CardDetailRepository struct {
	db *gorm.DB
}

// NewCardDetailRepository creates a new card detail repository
func NewCardDetailRepository(db *gorm.DB) *CardDetailRepository {
	return &CardDetailRepository{db: db}
}

// GetByUserID gets the secret record for a user. The encrypted columns
// are loaded only when withSecrets is true.
func (r *CardDetailRepository) GetByUserID(ctx context.Context, userID uuid.UUID, withSecrets bool) (*entities.CardDetail, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if !withSecrets {
		query = query.Omit("encrypted_cvv", "encrypted_atm_pin")
	}

	var m models.CardDetail
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toCardDetailEntity(&m), nil
}

// Upsert creates the user's secret record if absent, then writes only
// the provided columns. Nil fields leave stored values untouched.
func (r *CardDetailRepository) Upsert(ctx context.Context, userID uuid.UUID, update entities.EncryptedSecretUpdate) error {
	if update.Empty() {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.CardDetail
		err := tx.Where("user_id = ?", userID).First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			m = models.CardDetail{
				ID:              uuid.New(),
				UserID:          userID,
				EncryptedCvv:    update.EncryptedCvv,
				EncryptedAtmPin: update.EncryptedAtmPin,
			}
			return tx.Create(&m).Error
		}
		if err != nil {
			return err
		}

		updates := map[string]interface{}{"updated_at": time.Now()}
		if update.EncryptedCvv != nil {
			updates["encrypted_cvv"] = *update.EncryptedCvv
		}
		if update.EncryptedAtmPin != nil {
			updates["encrypted_atm_pin"] = *update.EncryptedAtmPin
		}
		return tx.Model(&models.CardDetail{}).Where("user_id = ?", userID).Updates(updates).Error
	})
}

// DeleteByUserID removes the secret record. Called only when the user
// is permanently deleted.
func (r *CardDetailRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CardDetail{}, "user_id = ?", userID).Error
}

func toCardDetailEntity(m *models.CardDetail) *entities.CardDetail {
	return &entities.CardDetail{
		ID:              m.ID,
		UserID:          m.UserID,
		EncryptedCvv:    null.StringFromPtr(m.EncryptedCvv),
		EncryptedAtmPin: null.StringFromPtr(m.EncryptedAtmPin),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
