package entities

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType categorizes activity log entries
type ActivityType string

const (
	ActivityTypeAuth     ActivityType = "auth"
	ActivityTypeLoan     ActivityType = "loan"
	ActivityTypePayment  ActivityType = "payment"
	ActivityTypeSystem   ActivityType = "system"
	ActivityTypeSecurity ActivityType = "security"
)

// Well-known activity actions. BorrowerCreated doubles as the
// lender-borrower ownership fact consumed by the card access policy.
const (
	ActionBorrowerCreated  = "borrower_created"
	ActionBorrowerUpdated  = "borrower_updated"
	ActionBorrowerDeleted  = "borrower_deleted"
	ActionCardRevealed     = "card_details_revealed"
	ActionCardRevealDenied = "card_reveal_denied"
	ActionCardVerified     = "card_details_verified"
	ActionCardMigration    = "card_details_migrated"
	ActionCardImport       = "card_details_imported"
	ActionUserLogin        = "user_login"
	ActionUserRegistered   = "user_registered"
)

// ActivityLog is an audit event. RelatedUserID links an acting user to
// the user the action concerned (e.g. lender to borrower).
type ActivityLog struct {
	ID            uuid.UUID         `json:"id"`
	Action        string            `json:"action"`
	Description   string            `json:"description,omitempty"`
	UserID        uuid.UUID         `json:"userId"`
	RelatedUserID *uuid.UUID        `json:"relatedUserId,omitempty"`
	Type          ActivityType      `json:"type"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
}
