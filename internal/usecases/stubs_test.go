package usecases

import (
	"context"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/Scorpioninfotechsolutions/lend-master/internal/domain/entities"
	domainerrors "github.com/Scorpioninfotechsolutions/lend-master/internal/domain/errors"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("development")
	os.Exit(m.Run())
}

// In-memory repository stubs shared by the usecase tests.

type stubUserRepo struct {
	users     map[uuid.UUID]*entities.User
	createErr error
	getErr    error
	updateErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[uuid.UUID]*entities.User{}}
}

func (r *stubUserRepo) add(u *entities.User) *entities.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return u
}

func (r *stubUserRepo) Create(_ context.Context, user *entities.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.add(user)
	return nil
}

// GetByID mirrors the default projection: legacy secret columns are
// not loaded.
func (r *stubUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	user, ok := r.users[id]
	if !ok || user.DeletedAt.Valid {
		return nil, domainerrors.ErrNotFound
	}
	redacted := *user
	redacted.LegacyCvv = ""
	redacted.LegacyAtmPin = ""
	return &redacted, nil
}

func (r *stubUserRepo) GetByIDWithSecrets(_ context.Context, id uuid.UUID) (*entities.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	user, ok := r.users[id]
	if !ok || user.DeletedAt.Valid {
		return nil, domainerrors.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *stubUserRepo) GetByUsername(_ context.Context, username string) (*entities.User, error) {
	for _, user := range r.users {
		if user.Username == username && !user.DeletedAt.Valid {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (r *stubUserRepo) Update(_ context.Context, user *entities.User) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	user, ok := r.users[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	for column, value := range fields {
		switch column {
		case "name":
			user.Name = value.(string)
		case "email":
			user.Email = value.(string)
		case "phone":
			user.Phone = value.(string)
		case "dob":
			user.DOB = value.(string)
		case "address":
			user.Address = value.(string)
		case "status":
			user.Status = entities.UserStatus(value.(string))
		case "active":
			user.Active = value.(bool)
		case "password_hash":
			user.PasswordHash = value.(string)
		case "card_number":
			user.CardNumber = value.(string)
		case "card_name":
			user.CardName = value.(string)
		case "valid_til":
			user.ValidTil = value.(string)
		}
	}
	return nil
}

func (r *stubUserRepo) ClearLegacySecrets(_ context.Context, id uuid.UUID, clearCvv, clearAtmPin bool) error {
	user, ok := r.users[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	if clearCvv {
		user.LegacyCvv = ""
	}
	if clearAtmPin {
		user.LegacyAtmPin = ""
	}
	return nil
}

func (r *stubUserRepo) ListByRole(_ context.Context, role entities.UserRole) ([]*entities.User, error) {
	var out []*entities.User
	for _, user := range r.users {
		if user.Role == role && !user.DeletedAt.Valid {
			copied := *user
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *stubUserRepo) ListByRoleAndIDs(ctx context.Context, role entities.UserRole, ids []uuid.UUID) ([]*entities.User, error) {
	wanted := map[uuid.UUID]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	all, _ := r.ListByRole(ctx, role)
	var out []*entities.User
	for _, user := range all {
		if wanted[user.ID] {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r *stubUserRepo) ListBorrowersWithLegacySecrets(_ context.Context) ([]*entities.User, error) {
	var out []*entities.User
	for _, user := range r.users {
		if user.Role == entities.UserRoleBorrower && !user.DeletedAt.Valid && (user.LegacyCvv != "" || user.LegacyAtmPin != "") {
			copied := *user
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	user, ok := r.users[id]
	if !ok || user.DeletedAt.Valid {
		return domainerrors.ErrNotFound
	}
	user.DeletedAt = null.TimeFrom(time.Now())
	return nil
}

func (r *stubUserRepo) DeletePermanent(_ context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return domainerrors.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type stubCardDetailRepo struct {
	records   map[uuid.UUID]*entities.CardDetail
	upsertErr error
	getErr    error
}

func newStubCardDetailRepo() *stubCardDetailRepo {
	return &stubCardDetailRepo{records: map[uuid.UUID]*entities.CardDetail{}}
}

func (r *stubCardDetailRepo) GetByUserID(_ context.Context, userID uuid.UUID, withSecrets bool) (*entities.CardDetail, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	record, ok := r.records[userID]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	copied := *record
	if !withSecrets {
		copied.EncryptedCvv.Valid = false
		copied.EncryptedCvv.String = ""
		copied.EncryptedAtmPin.Valid = false
		copied.EncryptedAtmPin.String = ""
	}
	return &copied, nil
}

func (r *stubCardDetailRepo) Upsert(_ context.Context, userID uuid.UUID, update entities.EncryptedSecretUpdate) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	record, ok := r.records[userID]
	if !ok {
		record = &entities.CardDetail{ID: uuid.New(), UserID: userID, CreatedAt: time.Now()}
		r.records[userID] = record
	}
	if update.EncryptedCvv != nil {
		record.EncryptedCvv.SetValid(*update.EncryptedCvv)
	}
	if update.EncryptedAtmPin != nil {
		record.EncryptedAtmPin.SetValid(*update.EncryptedAtmPin)
	}
	record.UpdatedAt = time.Now()
	return nil
}

func (r *stubCardDetailRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	if _, ok := r.records[userID]; !ok {
		return domainerrors.ErrNotFound
	}
	delete(r.records, userID)
	return nil
}

type stubActivityLogRepo struct {
	logs      []*entities.ActivityLog
	createErr error
}

func newStubActivityLogRepo() *stubActivityLogRepo {
	return &stubActivityLogRepo{}
}

func (r *stubActivityLogRepo) Create(_ context.Context, log *entities.ActivityLog) error {
	if r.createErr != nil {
		return r.createErr
	}
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now()
	}
	r.logs = append(r.logs, log)
	return nil
}

func (r *stubActivityLogRepo) List(_ context.Context, offset, limit int) ([]*entities.ActivityLog, error) {
	var out []*entities.ActivityLog
	for i := len(r.logs) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.logs[i])
	}
	return out, nil
}

func (r *stubActivityLogRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.logs)), nil
}

func (r *stubActivityLogRepo) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]*entities.ActivityLog, error) {
	var out []*entities.ActivityLog
	for i := len(r.logs) - 1; i >= 0 && len(out) < limit; i-- {
		if r.logs[i].UserID == userID {
			out = append(out, r.logs[i])
		}
	}
	return out, nil
}

func (r *stubActivityLogRepo) HasRelationship(_ context.Context, lenderID, borrowerID uuid.UUID) (bool, error) {
	for _, log := range r.logs {
		if log.Action == entities.ActionBorrowerCreated && log.UserID == lenderID && log.RelatedUserID != nil && *log.RelatedUserID == borrowerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubActivityLogRepo) RelatedUserIDs(_ context.Context, lenderID uuid.UUID) ([]uuid.UUID, error) {
	seen := map[uuid.UUID]bool{}
	var out []uuid.UUID
	for _, log := range r.logs {
		if log.Action == entities.ActionBorrowerCreated && log.UserID == lenderID && log.RelatedUserID != nil && !seen[*log.RelatedUserID] {
			seen[*log.RelatedUserID] = true
			out = append(out, *log.RelatedUserID)
		}
	}
	return out, nil
}

func (r *stubActivityLogRepo) actions() []string {
	out := make([]string, 0, len(r.logs))
	for _, log := range r.logs {
		out = append(out, log.Action)
	}
	return out
}
