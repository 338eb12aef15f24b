package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Scorpioninfotechsolutions/lend-master/internal/domain/entities"
	domainerrors "github.com/Scorpioninfotechsolutions/lend-master/internal/domain/errors"
	"github.com/Scorpioninfotechsolutions/lend-master/internal/domain/repositories"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/crypto"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/jwt"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/logger"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/metrics"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/redis"
)

// AuthUsecase handles authentication and the re-authentication gate
type AuthUsecase struct {
	userRepo     repositories.UserRepository
	activityRepo repositories.ActivityLogRepository
	jwtService   *jwt.JWTService
	tickets      *redis.TicketStore
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	activityRepo repositories.ActivityLogRepository,
	jwtService *jwt.JWTService,
	tickets *redis.TicketStore,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:     userRepo,
		activityRepo: activityRepo,
		jwtService:   jwtService,
		tickets:      tickets,
	}
}

// Register creates a new user account
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.AuthResponse, error) {
	existing, err := u.userRepo.GetByUsername(ctx, input.Username)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domainerrors.Conflict("Username already taken")
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := entities.UserRole(input.Role)
	if role == "" {
		role = entities.UserRoleLender
	}

	user := &entities.User{
		Name:         input.Name,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Role:         role,
		Status:       entities.UserStatusActive,
		Active:       true,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	u.logActivity(ctx, &entities.ActivityLog{
		Action:      entities.ActionUserRegistered,
		Description: "New " + string(role) + " account registered",
		UserID:      user.ID,
		Type:        entities.ActivityTypeAuth,
	})

	token, err := u.jwtService.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &entities.AuthResponse{Token: token, User: user}, nil
}

// Login authenticates a user and returns a session token
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	user, err := u.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthorized("Invalid credentials")
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.Unauthorized("Invalid credentials")
	}

	if user.Status == entities.UserStatusInactive {
		return nil, domainerrors.Forbidden("Account is inactive")
	}

	token, err := u.jwtService.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, err
	}

	u.logActivity(ctx, &entities.ActivityLog{
		Action:      entities.ActionUserLogin,
		Description: user.Username + " logged in",
		UserID:      user.ID,
		Type:        entities.ActivityTypeAuth,
	})

	return &entities.AuthResponse{Token: token, User: user}, nil
}

// VerifyPassword re-authenticates the acting user before a card detail
// reveal. On success a single-use reveal ticket is issued; failures are
// reported with a generic message regardless of cause.
func (u *AuthUsecase) VerifyPassword(ctx context.Context, userID uuid.UUID, password string) (string, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			metrics.RecordReauth(false)
			return "", domainerrors.ReauthFailed()
		}
		return "", err
	}

	if !crypto.CheckPassword(password, user.PasswordHash) {
		metrics.RecordReauth(false)
		logger.Warn(ctx, "password re-verification failed", zap.String("user_id", userID.String()))
		return "", domainerrors.ReauthFailed()
	}

	token, err := crypto.GenerateRevealToken()
	if err != nil {
		return "", err
	}
	if err := u.tickets.Issue(ctx, userID, token); err != nil {
		return "", err
	}

	metrics.RecordReauth(true)
	return token, nil
}

// GetUserByID gets a user by ID
func (u *AuthUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

// UpdateProfile updates the acting user's own profile fields
func (u *AuthUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error) {
	fields := map[string]interface{}{}
	if input.Name != "" {
		fields["name"] = input.Name
	}
	if input.Phone != "" {
		fields["phone"] = input.Phone
	}
	if input.DOB != "" {
		fields["dob"] = input.DOB
	}
	if input.Address != "" {
		fields["address"] = input.Address
	}

	if len(fields) > 0 {
		if err := u.userRepo.UpdateFields(ctx, userID, fields); err != nil {
			return nil, err
		}
	}

	return u.userRepo.GetByID(ctx, userID)
}

func (u *AuthUsecase) logActivity(ctx context.Context, log *entities.ActivityLog) {
	if err := u.activityRepo.Create(ctx, log); err != nil {
		logger.Warn(ctx, "failed to record activity", zap.String("action", log.Action), zap.Error(err))
	}
}
