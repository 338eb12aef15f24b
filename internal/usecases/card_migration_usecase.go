package usecases

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Scorpioninfotechsolutions/lend-master/internal/domain/entities"
	domainerrors "github.com/Scorpioninfotechsolutions/lend-master/internal/domain/errors"
	"github.com/Scorpioninfotechsolutions/lend-master/internal/domain/repositories"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/crypto"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/logger"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/metrics"
)

// CardMigrationUsecase moves legacy plaintext card secrets off the user
// rows into encrypted card records, and imports admin-supplied batches.
// Both operations are idempotent: already-migrated and unrecoverable
// values are skipped, never overwritten with garbage.
type CardMigrationUsecase struct {
	userRepo     repositories.UserRepository
	cardRepo     repositories.CardDetailRepository
	activityRepo repositories.ActivityLogRepository
	codec        *crypto.Codec
}

// NewCardMigrationUsecase creates a new migration usecase
func NewCardMigrationUsecase(
	userRepo repositories.UserRepository,
	cardRepo repositories.CardDetailRepository,
	activityRepo repositories.ActivityLogRepository,
	codec *crypto.Codec,
) *CardMigrationUsecase {
	return &CardMigrationUsecase{
		userRepo:     userRepo,
		cardRepo:     cardRepo,
		activityRepo: activityRepo,
		codec:        codec,
	}
}

// MigrateInPlaceSecrets scans borrowers still carrying values in the
// legacy secret columns and moves every recoverable value into the
// encrypted store, clearing the source column. Legacy bcrypt hashes are
// irreversible and are counted as skipped.
func (u *CardMigrationUsecase) MigrateInPlaceSecrets(ctx context.Context, actorID uuid.UUID) (*entities.MigrationResult, error) {
	borrowers, err := u.userRepo.ListBorrowersWithLegacySecrets(ctx)
	if err != nil {
		return nil, err
	}

	result := &entities.MigrationResult{}
	for _, borrower := range borrowers {
		migrated, skipped, err := u.migrateUser(ctx, borrower)
		if err != nil {
			logger.Error(ctx, "migration failed for user",
				zap.String("user_id", borrower.ID.String()), zap.Error(err))
			result.SkippedCount++
			continue
		}
		result.MigratedCount += migrated
		result.SkippedCount += skipped
	}

	metrics.RecordMigrationRun(result.MigratedCount, result.SkippedCount)
	u.logActivity(ctx, &entities.ActivityLog{
		Action:      entities.ActionCardMigration,
		Description: "In-place card secret migration",
		UserID:      actorID,
		Type:        entities.ActivityTypeSystem,
		Metadata: map[string]string{
			"migrated": strconv.Itoa(result.MigratedCount),
			"skipped":  strconv.Itoa(result.SkippedCount),
		},
	})

	logger.Info(ctx, "card secret migration complete",
		zap.Int("migrated", result.MigratedCount),
		zap.Int("skipped", result.SkippedCount))

	return result, nil
}

// migrateUser handles one borrower's two legacy columns. Returns how
// many fields were migrated and how many were skipped.
func (u *CardMigrationUsecase) migrateUser(ctx context.Context, borrower *entities.User) (int, int, error) {
	var update entities.EncryptedSecretUpdate
	migrated, skipped := 0, 0
	clearCvv, clearAtmPin := false, false

	switch crypto.ClassifyField(borrower.LegacyCvv) {
	case crypto.FieldPlaintext:
		envelope, err := u.codec.Encrypt(borrower.LegacyCvv)
		if err != nil {
			return 0, 0, err
		}
		update.EncryptedCvv = &envelope
		clearCvv = true
		migrated++
	case crypto.FieldEncrypted:
		// Already an envelope; just relocate it
		v := borrower.LegacyCvv
		update.EncryptedCvv = &v
		clearCvv = true
		migrated++
	case crypto.FieldLegacyHash:
		logger.Warn(ctx, "unrecoverable legacy hash, skipping cvv",
			zap.String("user_id", borrower.ID.String()))
		skipped++
	}

	switch crypto.ClassifyField(borrower.LegacyAtmPin) {
	case crypto.FieldPlaintext:
		envelope, err := u.codec.Encrypt(borrower.LegacyAtmPin)
		if err != nil {
			return 0, 0, err
		}
		update.EncryptedAtmPin = &envelope
		clearAtmPin = true
		migrated++
	case crypto.FieldEncrypted:
		v := borrower.LegacyAtmPin
		update.EncryptedAtmPin = &v
		clearAtmPin = true
		migrated++
	case crypto.FieldLegacyHash:
		logger.Warn(ctx, "unrecoverable legacy hash, skipping atm pin",
			zap.String("user_id", borrower.ID.String()))
		skipped++
	}

	if !update.Empty() {
		if err := u.cardRepo.Upsert(ctx, borrower.ID, update); err != nil {
			return 0, 0, err
		}
	}
	if clearCvv || clearAtmPin {
		if err := u.userRepo.ClearLegacySecrets(ctx, borrower.ID, clearCvv, clearAtmPin); err != nil {
			return 0, 0, err
		}
	}

	return migrated, skipped, nil
}

// ImportFromBatch imports admin-supplied card secret records. Records
// with unknown users or no secret fields are skipped; per-record
// failures are counted without aborting the batch.
func (u *CardMigrationUsecase) ImportFromBatch(ctx context.Context, actorID uuid.UUID, records []entities.ImportCardRecord) (*entities.ImportResult, error) {
	result := &entities.ImportResult{}

	for _, record := range records {
		if record.Cvv == "" && record.AtmPin == "" {
			logger.Warn(ctx, "import record has no secret fields, skipping",
				zap.String("user_id", record.UserID))
			result.SkippedCount++
			continue
		}

		userID, err := uuid.Parse(record.UserID)
		if err != nil {
			logger.Warn(ctx, "import record has invalid user id, skipping",
				zap.String("user_id", record.UserID))
			result.SkippedCount++
			continue
		}

		user, err := u.userRepo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				logger.Warn(ctx, "import record user not found, skipping",
					zap.String("user_id", record.UserID))
				result.SkippedCount++
				continue
			}
			result.ErrorCount++
			continue
		}

		if err := u.importRecord(ctx, user.ID, record); err != nil {
			logger.Error(ctx, "import record failed",
				zap.String("user_id", record.UserID), zap.Error(err))
			result.ErrorCount++
			continue
		}
		result.ImportedCount++
	}

	metrics.RecordImport(result.ImportedCount, result.SkippedCount, result.ErrorCount)
	u.logActivity(ctx, &entities.ActivityLog{
		Action:      entities.ActionCardImport,
		Description: "Card secret batch import",
		UserID:      actorID,
		Type:        entities.ActivityTypeSystem,
		Metadata: map[string]string{
			"imported": strconv.Itoa(result.ImportedCount),
			"skipped":  strconv.Itoa(result.SkippedCount),
			"errored":  strconv.Itoa(result.ErrorCount),
		},
	})

	return result, nil
}

func (u *CardMigrationUsecase) importRecord(ctx context.Context, userID uuid.UUID, record entities.ImportCardRecord) error {
	var update entities.EncryptedSecretUpdate
	clearCvv, clearAtmPin := false, false

	if record.Cvv != "" {
		envelope, err := u.encryptImportValue(record.Cvv)
		if err != nil {
			return err
		}
		update.EncryptedCvv = &envelope
		clearCvv = true
	}
	if record.AtmPin != "" {
		envelope, err := u.encryptImportValue(record.AtmPin)
		if err != nil {
			return err
		}
		update.EncryptedAtmPin = &envelope
		clearAtmPin = true
	}

	if err := u.cardRepo.Upsert(ctx, userID, update); err != nil {
		return err
	}

	// Clear any plaintext still lingering on the user row
	return u.userRepo.ClearLegacySecrets(ctx, userID, clearCvv, clearAtmPin)
}

// encryptImportValue accepts either plaintext or a pre-encrypted
// envelope from the batch file
func (u *CardMigrationUsecase) encryptImportValue(value string) (string, error) {
	if crypto.IsEnvelope(value) {
		return value, nil
	}
	return u.codec.Encrypt(value)
}

func (u *CardMigrationUsecase) logActivity(ctx context.Context, log *entities.ActivityLog) {
	if err := u.activityRepo.Create(ctx, log); err != nil {
		logger.Warn(ctx, "failed to record activity", zap.String("action", log.Action), zap.Error(err))
	}
}
