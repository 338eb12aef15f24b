package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Scorpioninfotechsolutions/lend-master/internal/config"
	"github.com/Scorpioninfotechsolutions/lend-master/internal/domain/entities"
	domainerrors "github.com/Scorpioninfotechsolutions/lend-master/internal/domain/errors"
	"github.com/Scorpioninfotechsolutions/lend-master/internal/infrastructure/repositories"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/crypto"
)

var openSeedAdminDB = func(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}), &gorm.Config{PrepareStmt: false})
}

var openSeedSQLDB = func(db *gorm.DB) (io.Closer, error) {
	return db.DB()
}

type seedAdminRuntime interface {
	GetUserByUsername(ctx context.Context, username string) (*entities.User, error)
	CreateUser(ctx context.Context, user *entities.User) error
}

type seedAdminDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (seedAdminRuntime, io.Closer, error)
	out     io.Writer
}

type seedAdminRuntimeImpl struct {
	userRepo *repositories.UserRepository
}

func (r seedAdminRuntimeImpl) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.userRepo.GetByUsername(ctx, username)
}

func (r seedAdminRuntimeImpl) CreateUser(ctx context.Context, user *entities.User) error {
	return r.userRepo.Create(ctx, user)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func defaultSeedAdminDeps() seedAdminDeps {
	return seedAdminDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (seedAdminRuntime, io.Closer, error) {
			dsn := cfg.Database.URL()
			db, err := openSeedAdminDB(dsn)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}

			sqlDB, err := openSeedSQLDB(db)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to init sql db: %w", err)
			}

			return seedAdminRuntimeImpl{
				userRepo: repositories.NewUserRepository(db),
			}, sqlDB, nil
		},
		out: os.Stdout,
	}
}

func validateCredentials(username, password string) error {
	if username == "" {
		return fmt.Errorf("--username is required")
	}
	if len(password) < 6 {
		return fmt.Errorf("--password must be at least 6 characters")
	}
	return nil
}

func runSeedAdmin(args []string, deps seedAdminDeps) error {
	if deps.loadEnv == nil {
		deps.loadEnv = func() error { return godotenv.Load() }
	}
	if deps.loadCfg == nil {
		deps.loadCfg = config.Load
	}
	if deps.prepare == nil {
		def := defaultSeedAdminDeps()
		deps.prepare = def.prepare
	}
	if deps.out == nil {
		deps.out = os.Stdout
	}

	fs := flag.NewFlagSet("seed-admin", flag.ContinueOnError)
	usernameFlag := fs.String("username", "", "admin username (required)")
	passwordFlag := fs.String("password", "", "admin password (required, min 6 chars)")
	nameFlag := fs.String("name", "Administrator", "display name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := validateCredentials(*usernameFlag, *passwordFlag); err != nil {
		return err
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := deps.loadCfg()
	runtime, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	ctx := context.Background()
	if existing, err := runtime.GetUserByUsername(ctx, *usernameFlag); err == nil {
		return fmt.Errorf("username %s is already taken by user %s (role=%s)", *usernameFlag, existing.ID, existing.Role)
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := crypto.HashPassword(*passwordFlag)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &entities.User{
		ID:           uuid.New(),
		Name:         *nameFlag,
		Username:     *usernameFlag,
		PasswordHash: hash,
		Role:         entities.UserRoleAdmin,
		Status:       entities.UserStatusActive,
		Active:       true,
	}
	if err := runtime.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("failed creating admin user: %w", err)
	}

	_, _ = fmt.Fprintln(deps.out, "Created ADMIN user")
	_, _ = fmt.Fprintf(deps.out, "user_id=%s\n", admin.ID.String())
	_, _ = fmt.Fprintf(deps.out, "username=%s\n", admin.Username)
	return nil
}

func main() {
	if err := runSeedAdmin(os.Args[1:], defaultSeedAdminDeps()); err != nil {
		log.Fatal(err)
	}
}
