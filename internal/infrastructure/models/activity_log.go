package models

import (
	"time"

	"github.com/google/uuid"
)

type ActivityLog struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Action        string     `gorm:"type:varchar(100);not null"`
	Description   string     `gorm:"type:text"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index:idx_activity_user_ts,priority:1"`
	RelatedUserID *uuid.UUID `gorm:"type:uuid;index:idx_activity_related_ts,priority:1"`
	Type          string     `gorm:"type:varchar(20);not null;default:'system';index"`
	Metadata      string     `gorm:"type:jsonb;default:'{}'"`
	Timestamp     time.Time  `gorm:"index:idx_activity_user_ts,priority:2;index:idx_activity_related_ts,priority:2"`
}
