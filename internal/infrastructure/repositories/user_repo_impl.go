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
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/crypto"
)

// secretColumns are excluded from default user reads, mirroring the
// elevated-projection requirement for legacy secrets
var secretColumns = []string{"cvv", "atm_pin"}

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	m := toUserModel(user)
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if err := hashLegacySecrets(m); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	user.ID = m.ID
	user.CreatedAt = m.CreatedAt
	user.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a user by ID, excluding legacy secret columns
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var m models.User
	if err := r.db.WithContext(ctx).Omit(secretColumns...).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toUserEntity(&m), nil
}

// GetByIDWithSecrets gets a user by ID including the legacy secret
// columns. Elevated read used only by migration, import and verify.
func (r *UserRepository) GetByIDWithSecrets(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var m models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toUserEntity(&m), nil
}

// GetByUsername gets a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	var m models.User
	if err := r.db.WithContext(ctx).Omit(secretColumns...).Where("username = ?", username).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toUserEntity(&m), nil
}

// Update updates a user's mutable profile fields
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	updates := map[string]interface{}{
		"name":        user.Name,
		"email":       user.Email,
		"phone":       user.Phone,
		"dob":         user.DOB,
		"address":     user.Address,
		"status":      string(user.Status),
		"card_number": user.CardNumber,
		"card_name":   user.CardName,
		"valid_til":   user.ValidTil,
		"updated_at":  time.Now(),
	}
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdateFields updates an explicit set of columns
func (r *UserRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ClearLegacySecrets nulls out the selected legacy secret columns
func (r *UserRepository) ClearLegacySecrets(ctx context.Context, id uuid.UUID, clearCvv, clearAtmPin bool) error {
	updates := map[string]interface{}{}
	if clearCvv {
		updates["cvv"] = ""
	}
	if clearAtmPin {
		updates["atm_pin"] = ""
	}
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
}

// ListByRole lists users with the given role
func (r *UserRepository) ListByRole(ctx context.Context, role entities.UserRole) ([]*entities.User, error) {
	var userModels []models.User
	err := r.db.WithContext(ctx).
		Omit(secretColumns...).
		Where("role = ?", string(role)).
		Order("created_at DESC").
		Find(&userModels).Error
	if err != nil {
		return nil, err
	}
	return toUserEntities(userModels), nil
}

// ListByRoleAndIDs lists users with the given role restricted to a set
// of IDs. Used to scope a lender's borrower listing to recorded
// relationships.
func (r *UserRepository) ListByRoleAndIDs(ctx context.Context, role entities.UserRole, ids []uuid.UUID) ([]*entities.User, error) {
	if len(ids) == 0 {
		return []*entities.User{}, nil
	}
	var userModels []models.User
	err := r.db.WithContext(ctx).
		Omit(secretColumns...).
		Where("role = ? AND id IN ?", string(role), ids).
		Order("created_at DESC").
		Find(&userModels).Error
	if err != nil {
		return nil, err
	}
	return toUserEntities(userModels), nil
}

// ListBorrowersWithLegacySecrets returns borrowers that still carry a
// value in either legacy secret column, secrets included. This is the
// migration tool's scan.
func (r *UserRepository) ListBorrowersWithLegacySecrets(ctx context.Context) ([]*entities.User, error) {
	var userModels []models.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND (COALESCE(cvv, '') <> '' OR COALESCE(atm_pin, '') <> '')", string(entities.UserRoleBorrower)).
		Find(&userModels).Error
	if err != nil {
		return nil, err
	}
	return toUserEntities(userModels), nil
}

// Delete soft-deletes a user. The deleted_at marker keeps the row out
// of every default query while preserving it for audit.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// DeletePermanent removes a user row for good
func (r *UserRepository) DeletePermanent(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Unscoped().Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// hashLegacySecrets bcrypt-hashes any plaintext value headed for the
// legacy cvv/atm_pin columns. Values already hashed pass through
// untouched, so a re-save never hashes twice.
func hashLegacySecrets(m *models.User) error {
	if crypto.NeedsHashing(m.Cvv) {
		hashed, err := crypto.HashSecret(m.Cvv)
		if err != nil {
			return err
		}
		m.Cvv = hashed
	}
	if crypto.NeedsHashing(m.AtmPin) {
		hashed, err := crypto.HashSecret(m.AtmPin)
		if err != nil {
			return err
		}
		m.AtmPin = hashed
	}
	return nil
}

func toUserModel(user *entities.User) *models.User {
	m := &models.User{
		ID:             user.ID,
		Name:           user.Name,
		Username:       user.Username,
		Email:          user.Email,
		PasswordHash:   user.PasswordHash,
		Role:           string(user.Role),
		Phone:          user.Phone,
		DOB:            user.DOB,
		Address:        user.Address,
		ProfilePicture: user.ProfilePicture,
		Status:         string(user.Status),
		CardNumber:     user.CardNumber,
		CardName:       user.CardName,
		ValidTil:       user.ValidTil,
		Cvv:            user.LegacyCvv,
		AtmPin:         user.LegacyAtmPin,
		CreditScore:    user.CreditScore,
		TotalBorrowed:  user.TotalBorrowed,
		ActiveLoans:    user.ActiveLoans,
		Referrer:       user.Referrer,
		Active:         user.Active,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
	if user.LastPayment.Valid {
		t := user.LastPayment.Time
		m.LastPayment = &t
	}
	return m
}

func toUserEntity(m *models.User) *entities.User {
	u := &entities.User{
		ID:             m.ID,
		Name:           m.Name,
		Username:       m.Username,
		Email:          m.Email,
		PasswordHash:   m.PasswordHash,
		Role:           entities.UserRole(m.Role),
		Phone:          m.Phone,
		DOB:            m.DOB,
		Address:        m.Address,
		ProfilePicture: m.ProfilePicture,
		Status:         entities.UserStatus(m.Status),
		CardNumber:     m.CardNumber,
		CardName:       m.CardName,
		ValidTil:       m.ValidTil,
		LegacyCvv:      m.Cvv,
		LegacyAtmPin:   m.AtmPin,
		CreditScore:    m.CreditScore,
		TotalBorrowed:  m.TotalBorrowed,
		ActiveLoans:    m.ActiveLoans,
		LastPayment:    null.TimeFromPtr(m.LastPayment),
		Referrer:       m.Referrer,
		Active:         m.Active,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.DeletedAt.Valid {
		u.DeletedAt = null.TimeFrom(m.DeletedAt.Time)
	}
	return u
}

func toUserEntities(userModels []models.User) []*entities.User {
	users := make([]*entities.User, 0, len(userModels))
	for i := range userModels {
		users = append(users, toUserEntity(&userModels[i]))
	}
	return users
}
