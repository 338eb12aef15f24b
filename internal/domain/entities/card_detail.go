package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// SecretField names the two reversible card secrets
type SecretField string

const (
	SecretFieldCvv    SecretField = "cvv"
	SecretFieldAtmPin SecretField = "atmPin"
)

// Valid reports whether the field name is one of the known secrets
func (f SecretField) Valid() bool {
	return f == SecretFieldCvv || f == SecretFieldAtmPin
}

// CardDetail holds a borrower's encrypted card secrets, one record per
// user. The encrypted columns are excluded from default reads; callers
// must request the elevated projection explicitly.
type CardDetail struct {
	ID              uuid.UUID   `json:"id"`
	UserID          uuid.UUID   `json:"userId"`
	EncryptedCvv    null.String `json:"-"`
	EncryptedAtmPin null.String `json:"-"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// CardSecretInput carries plaintext secrets on their way into the
// store. An empty field means "leave the stored value untouched".
type CardSecretInput struct {
	Cvv    string `json:"cvv"`
	AtmPin string `json:"atmPin"`
}

// Empty reports whether the input carries no secrets at all
func (i CardSecretInput) Empty() bool {
	return i.Cvv == "" && i.AtmPin == ""
}

// EncryptedSecretUpdate carries already-encrypted envelopes into the
// repository. Nil fields leave the stored column untouched.
type EncryptedSecretUpdate struct {
	EncryptedCvv    *string
	EncryptedAtmPin *string
}

// Empty reports whether the update touches no columns
func (u EncryptedSecretUpdate) Empty() bool {
	return u.EncryptedCvv == nil && u.EncryptedAtmPin == nil
}

// CardDetailsView is the reveal-flow response shape. Cvv and AtmPin
// hold plaintext only after a successful re-authentication; otherwise
// they are empty placeholders.
type CardDetailsView struct {
	CardNumber string `json:"cardNumber"`
	CardName   string `json:"cardName"`
	ValidTil   string `json:"validTil"`
	Cvv        string `json:"cvv"`
	AtmPin     string `json:"atmPin"`
}

// VerifyCardDetailInput verifies a candidate value against a stored
// secret without revealing the stored value
type VerifyCardDetailInput struct {
	UserID string `json:"userId" binding:"required"`
	Field  string `json:"field" binding:"required,oneof=cvv atmPin"`
	Value  string `json:"value" binding:"required"`
}

// ImportCardRecord is one row of an admin batch import
type ImportCardRecord struct {
	UserID string `json:"userId"`
	Cvv    string `json:"cvv,omitempty"`
	AtmPin string `json:"atmPin,omitempty"`
}

// MigrationResult summarizes an in-place secrets migration run
type MigrationResult struct {
	MigratedCount int `json:"migratedCount"`
	SkippedCount  int `json:"skippedCount"`
}

// ImportResult summarizes a batch import run
type ImportResult struct {
	ImportedCount int `json:"importedCount"`
	SkippedCount  int `json:"skippedCount"`
	ErrorCount    int `json:"errorCount"`
}
