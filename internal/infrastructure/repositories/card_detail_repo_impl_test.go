package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Scorpioninfotechsolutions/lend-master/internal/domain/entities"
	domainerrors "github.com/Scorpioninfotechsolutions/lend-master/internal/domain/errors"
)

func strPtr(s string) *string { return &s }

func TestCardDetailRepository_UpsertCreatesAndUpdates(t *testing.T) {
	db := newTestDB(t)
	createCardDetailTable(t, db)
	repo := NewCardDetailRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	// First write creates the record lazily
	require.NoError(t, repo.Upsert(ctx, userID, entities.EncryptedSecretUpdate{
		EncryptedAtmPin: strPtr("aa11:bb22"),
	}))

	record, err := repo.GetByUserID(ctx, userID, true)
	require.NoError(t, err)
	require.Equal(t, userID, record.UserID)
	require.False(t, record.EncryptedCvv.Valid)
	require.Equal(t, "aa11:bb22", record.EncryptedAtmPin.String)

	// Partial update adds the CVV and overwrites the PIN, in place
	require.NoError(t, repo.Upsert(ctx, userID, entities.EncryptedSecretUpdate{
		EncryptedCvv:    strPtr("cc33:dd44"),
		EncryptedAtmPin: strPtr("ee55:ff66"),
	}))

	record, err = repo.GetByUserID(ctx, userID, true)
	require.NoError(t, err)
	require.Equal(t, "cc33:dd44", record.EncryptedCvv.String)
	require.Equal(t, "ee55:ff66", record.EncryptedAtmPin.String)

	// Omitting a field leaves the stored value untouched
	require.NoError(t, repo.Upsert(ctx, userID, entities.EncryptedSecretUpdate{
		EncryptedCvv: strPtr("0011:2233"),
	}))

	record, err = repo.GetByUserID(ctx, userID, true)
	require.NoError(t, err)
	require.Equal(t, "0011:2233", record.EncryptedCvv.String)
	require.Equal(t, "ee55:ff66", record.EncryptedAtmPin.String)
}

func TestCardDetailRepository_OneRecordPerUser(t *testing.T) {
	db := newTestDB(t)
	createCardDetailTable(t, db)
	repo := NewCardDetailRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, repo.Upsert(ctx, userID, entities.EncryptedSecretUpdate{EncryptedCvv: strPtr("aa:bb")}))
	require.NoError(t, repo.Upsert(ctx, userID, entities.EncryptedSecretUpdate{EncryptedCvv: strPtr("cc:dd")}))

	var count int64
	require.NoError(t, db.Table("card_details").Where("user_id = ?", userID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCardDetailRepository_DefaultReadExcludesSecrets(t *testing.T) {
	db := newTestDB(t)
	createCardDetailTable(t, db)
	repo := NewCardDetailRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, repo.Upsert(ctx, userID, entities.EncryptedSecretUpdate{
		EncryptedCvv:    strPtr("aa:bb"),
		EncryptedAtmPin: strPtr("cc:dd"),
	}))

	record, err := repo.GetByUserID(ctx, userID, false)
	require.NoError(t, err)
	require.False(t, record.EncryptedCvv.Valid)
	require.False(t, record.EncryptedAtmPin.Valid)

	elevated, err := repo.GetByUserID(ctx, userID, true)
	require.NoError(t, err)
	require.True(t, elevated.EncryptedCvv.Valid)
	require.True(t, elevated.EncryptedAtmPin.Valid)
}

func TestCardDetailRepository_EmptyUpdateIsNoOp(t *testing.T) {
	db := newTestDB(t)
	createCardDetailTable(t, db)
	repo := NewCardDetailRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, repo.Upsert(ctx, userID, entities.EncryptedSecretUpdate{}))

	_, err := repo.GetByUserID(ctx, userID, true)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestCardDetailRepository_DeleteByUserID(t *testing.T) {
	db := newTestDB(t)
	createCardDetailTable(t, db)
	repo := NewCardDetailRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, repo.Upsert(ctx, userID, entities.EncryptedSecretUpdate{EncryptedCvv: strPtr("aa:bb")}))
	require.NoError(t, repo.DeleteByUserID(ctx, userID))

	_, err := repo.GetByUserID(ctx, userID, true)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	// Deleting an absent record is not an error
	require.NoError(t, repo.DeleteByUserID(ctx, uuid.New()))
}
