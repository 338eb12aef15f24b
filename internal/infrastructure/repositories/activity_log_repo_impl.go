package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Scorpioninfotechsolutions/lend-master/internal/domain/entities"
	"github.com/Scorpioninfotechsolutions/lend-master/internal/infrastructure/models"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/utils"
)

// ActivityLogRepository implements audit event storage
type ActivityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository creates a new activity log repository
func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

// Create appends an audit event
func (r *ActivityLogRepository) Create(ctx context.Context, log *entities.ActivityLog) error {
	metadata := "{}"
	if len(log.Metadata) > 0 {
		raw, err := json.Marshal(log.Metadata)
		if err != nil {
			return err
		}
		metadata = string(raw)
	}

	m := &models.ActivityLog{
		ID:            log.ID,
		Action:        log.Action,
		Description:   log.Description,
		UserID:        log.UserID,
		RelatedUserID: log.RelatedUserID,
		Type:          string(log.Type),
		Metadata:      metadata,
		Timestamp:     log.Timestamp,
	}
	// Time-ordered ids keep the append-only audit table index-friendly
	if m.ID == uuid.Nil {
		m.ID = utils.GenerateUUIDv7()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}

	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	log.ID = m.ID
	log.Timestamp = m.Timestamp
	return nil
}

// List lists recent audit events, newest first
func (r *ActivityLogRepository) List(ctx context.Context, offset, limit int) ([]*entities.ActivityLog, error) {
	return r.list(r.db.WithContext(ctx), offset, limit)
}

// ListByUser lists recent audit events for a single acting user
func (r *ActivityLogRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.ActivityLog, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id = ?", userID), 0, limit)
}

// Count returns the total number of audit events
func (r *ActivityLogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ActivityLog{}).Count(&count).Error
	return count, err
}

// HasRelationship reports whether a borrower-creation event links the
// lender to the borrower. Only the creation event counts as the
// ownership fact: other audit rows (updates, denied reveals) carry the
// same user pair but grant nothing.
func (r *ActivityLogRepository) HasRelationship(ctx context.Context, lenderID, borrowerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ActivityLog{}).
		Where("user_id = ? AND related_user_id = ? AND action = ?", lenderID, borrowerID, entities.ActionBorrowerCreated).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// RelatedUserIDs returns the distinct borrowers a lender has created
func (r *ActivityLogRepository) RelatedUserIDs(ctx context.Context, lenderID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.ActivityLog{}).
		Where("user_id = ? AND related_user_id IS NOT NULL AND action = ?", lenderID, entities.ActionBorrowerCreated).
		Distinct().
		Pluck("related_user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *ActivityLogRepository) list(query *gorm.DB, offset, limit int) ([]*entities.ActivityLog, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var logModels []models.ActivityLog
	if err := query.Order("timestamp DESC").Offset(offset).Limit(limit).Find(&logModels).Error; err != nil {
		return nil, err
	}

	logs := make([]*entities.ActivityLog, 0, len(logModels))
	for i := range logModels {
		m := &logModels[i]
		entry := &entities.ActivityLog{
			ID:            m.ID,
			Action:        m.Action,
			Description:   m.Description,
			UserID:        m.UserID,
			RelatedUserID: m.RelatedUserID,
			Type:          entities.ActivityType(m.Type),
			Timestamp:     m.Timestamp,
		}
		if m.Metadata != "" && m.Metadata != "{}" {
			var metadata map[string]string
			if err := json.Unmarshal([]byte(m.Metadata), &metadata); err == nil {
				entry.Metadata = metadata
			}
		}
		logs = append(logs, entry)
	}
	return logs, nil
}
