package models

import (
	"time"

	"github.com/google/uuid"
)

// CardDetail stores only ciphertext envelopes, never plaintext. The
// unique index enforces at most one record per user.
type CardDetail struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID          uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	EncryptedCvv    *string   `gorm:"type:varchar(512)"`
	EncryptedAtmPin *string   `gorm:"type:varchar(512)"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
