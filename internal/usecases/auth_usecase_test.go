package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Scorpioninfotechsolutions/lend-master/internal/domain/entities"
	domainerrors "github.com/Scorpioninfotechsolutions/lend-master/internal/domain/errors"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/crypto"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/jwt"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/redis"
)

func newTicketStore(t *testing.T) *redis.TicketStore {
	t.Helper()
	mr := miniredis.RunT(t)
	redis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	return redis.NewTicketStore(time.Minute)
}

func newAuthUsecase(t *testing.T) (*AuthUsecase, *stubUserRepo, *stubActivityLogRepo, *redis.TicketStore) {
	t.Helper()
	users := newStubUserRepo()
	activities := newStubActivityLogRepo()
	tickets := newTicketStore(t)
	uc := NewAuthUsecase(users, activities, jwt.NewJWTService("test-secret", time.Hour), tickets)
	return uc, users, activities, tickets
}

func seedUser(t *testing.T, users *stubUserRepo, username, password string, role entities.UserRole) *entities.User {
	t.Helper()
	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)
	return users.add(&entities.User{
		Name:         username,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Status:       entities.UserStatusActive,
		Active:       true,
	})
}

func TestAuthUsecase_RegisterAndLogin(t *testing.T) {
	uc, _, activities, _ := newAuthUsecase(t)
	ctx := context.Background()

	resp, err := uc.Register(ctx, &entities.RegisterInput{
		Name:     "Kumar",
		Username: "kumar",
		Password: "secret123",
		Role:     "lender",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, entities.UserRoleLender, resp.User.Role)

	logged, err := uc.Login(ctx, &entities.LoginInput{Username: "kumar", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, logged.Token)

	assert.Contains(t, activities.actions(), entities.ActionUserRegistered)
	assert.Contains(t, activities.actions(), entities.ActionUserLogin)
}

func TestAuthUsecase_RegisterDuplicateUsername(t *testing.T) {
	uc, users, _, _ := newAuthUsecase(t)
	seedUser(t, users, "kumar", "secret123", entities.UserRoleLender)

	_, err := uc.Register(context.Background(), &entities.RegisterInput{
		Name:     "Other",
		Username: "kumar",
		Password: "secret123",
	})
	require.Error(t, err)
	appErr, ok := err.(*domainerrors.AppError)
	require.True(t, ok)
	assert.Equal(t, domainerrors.CodeConflict, appErr.Code)
}

func TestAuthUsecase_LoginFailures(t *testing.T) {
	uc, users, _, _ := newAuthUsecase(t)
	seedUser(t, users, "kumar", "secret123", entities.UserRoleLender)
	inactive := seedUser(t, users, "dormant", "secret123", entities.UserRoleLender)
	inactive.Status = entities.UserStatusInactive

	_, err := uc.Login(context.Background(), &entities.LoginInput{Username: "kumar", Password: "wrong"})
	assert.Error(t, err)

	_, err = uc.Login(context.Background(), &entities.LoginInput{Username: "nobody", Password: "x"})
	assert.Error(t, err)

	_, err = uc.Login(context.Background(), &entities.LoginInput{Username: "dormant", Password: "secret123"})
	assert.Error(t, err)
}

func TestAuthUsecase_VerifyPasswordIssuesSingleUseTicket(t *testing.T) {
	uc, users, _, tickets := newAuthUsecase(t)
	user := seedUser(t, users, "kumar", "secret123", entities.UserRoleLender)
	ctx := context.Background()

	token, err := uc.VerifyPassword(ctx, user.ID, "secret123")
	require.NoError(t, err)
	assert.Len(t, token, 64)

	ok, err := tickets.Consume(ctx, user.ID, token)
	require.NoError(t, err)
	assert.True(t, ok)

	// Consumed tickets are gone
	ok, err = tickets.Consume(ctx, user.ID, token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthUsecase_VerifyPasswordGenericFailure(t *testing.T) {
	uc, users, _, _ := newAuthUsecase(t)
	user := seedUser(t, users, "kumar", "secret123", entities.UserRoleLender)
	ctx := context.Background()

	_, wrongErr := uc.VerifyPassword(ctx, user.ID, "wrong")
	require.Error(t, wrongErr)

	_, missingErr := uc.VerifyPassword(ctx, uuid.New(), "secret123")
	require.Error(t, missingErr)

	// Wrong password and unknown user are indistinguishable to callers
	assert.Equal(t, wrongErr.Error(), missingErr.Error())
}

func TestAuthUsecase_UpdateProfile(t *testing.T) {
	uc, users, _, _ := newAuthUsecase(t)
	user := seedUser(t, users, "kumar", "secret123", entities.UserRoleLender)

	updated, err := uc.UpdateProfile(context.Background(), user.ID, &entities.UpdateProfileInput{
		Name:  "Kumar S",
		Phone: "9999999999",
	})
	require.NoError(t, err)
	assert.Equal(t, "Kumar S", updated.Name)
	assert.Equal(t, "9999999999", updated.Phone)
}
