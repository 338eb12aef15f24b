package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Scorpioninfotechsolutions/lend-master/internal/config"
	"github.com/Scorpioninfotechsolutions/lend-master/internal/domain/entities"
	domainerrors "github.com/Scorpioninfotechsolutions/lend-master/internal/domain/errors"
	"github.com/Scorpioninfotechsolutions/lend-master/pkg/crypto"
)

func TestValidateCredentials(t *testing.T) {
	if err := validateCredentials("", "secret123"); err == nil {
		t.Fatal("expected error for empty username")
	}
	if err := validateCredentials("admin", "short"); err == nil {
		t.Fatal("expected error for short password")
	}
	if err := validateCredentials("admin", "secret123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMain_ExitsWhenUsernameMissing(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_SEED_ADMIN") == "1" {
		os.Args = []string{"seed-admin"}
		main()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestMain_ExitsWhenUsernameMissing")
	cmd.Env = append(os.Environ(), "GO_WANT_HELPER_SEED_ADMIN=1")
	err := cmd.Run()
	if err == nil {
		t.Fatal("expected helper process to fail when --username is missing")
	}
}

type fakeSeedRuntime struct {
	existing  *entities.User
	lookupErr error
	createErr error
	created   *entities.User
}

func (f *fakeSeedRuntime) GetUserByUsername(context.Context, string) (*entities.User, error) {
	if f.existing != nil {
		return f.existing, nil
	}
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return nil, domainerrors.ErrNotFound
}

func (f *fakeSeedRuntime) CreateUser(_ context.Context, user *entities.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = user
	return nil
}

func TestRunSeedAdmin_Branches(t *testing.T) {
	baseDeps := func(rt *fakeSeedRuntime, out io.Writer) seedAdminDeps {
		return seedAdminDeps{
			loadEnv: func() error { return nil },
			loadCfg: config.Load,
			prepare: func(*config.Config) (seedAdminRuntime, io.Closer, error) {
				return rt, nil, nil
			},
			out: out,
		}
	}

	t.Run("success", func(t *testing.T) {
		rt := &fakeSeedRuntime{}
		out := &bytes.Buffer{}
		err := runSeedAdmin([]string{"-username", "admin", "-password", "secret123"}, baseDeps(rt, out))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rt.created == nil {
			t.Fatal("expected user to be created")
		}
		if rt.created.Role != entities.UserRoleAdmin {
			t.Fatalf("expected admin role, got %s", rt.created.Role)
		}
		if !crypto.CheckPassword("secret123", rt.created.PasswordHash) {
			t.Fatal("stored hash does not verify against the password")
		}
		if !strings.Contains(out.String(), "username=admin") {
			t.Fatalf("unexpected output: %s", out.String())
		}
	})

	t.Run("username taken", func(t *testing.T) {
		rt := &fakeSeedRuntime{existing: &entities.User{Username: "admin", Role: entities.UserRoleLender}}
		err := runSeedAdmin([]string{"-username", "admin", "-password", "secret123"}, baseDeps(rt, &bytes.Buffer{}))
		if err == nil || !strings.Contains(err.Error(), "already taken") {
			t.Fatalf("expected username-taken error, got %v", err)
		}
	})

	t.Run("lookup error", func(t *testing.T) {
		rt := &fakeSeedRuntime{lookupErr: errors.New("db down")}
		err := runSeedAdmin([]string{"-username", "admin", "-password", "secret123"}, baseDeps(rt, &bytes.Buffer{}))
		if err == nil || !strings.Contains(err.Error(), "failed to check username") {
			t.Fatalf("expected lookup error, got %v", err)
		}
	})

	t.Run("create error", func(t *testing.T) {
		rt := &fakeSeedRuntime{createErr: errors.New("insert failed")}
		err := runSeedAdmin([]string{"-username", "admin", "-password", "secret123"}, baseDeps(rt, &bytes.Buffer{}))
		if err == nil || !strings.Contains(err.Error(), "failed creating admin user") {
			t.Fatalf("expected create error, got %v", err)
		}
	})

	t.Run("prepare error", func(t *testing.T) {
		deps := seedAdminDeps{
			loadEnv: func() error { return nil },
			loadCfg: config.Load,
			prepare: func(*config.Config) (seedAdminRuntime, io.Closer, error) {
				return nil, nil, errors.New("no db")
			},
			out: &bytes.Buffer{},
		}
		err := runSeedAdmin([]string{"-username", "admin", "-password", "secret123"}, deps)
		if err == nil || !strings.Contains(err.Error(), "no db") {
			t.Fatalf("expected prepare error, got %v", err)
		}
	})

	t.Run("invalid flags", func(t *testing.T) {
		err := runSeedAdmin([]string{"-username", "admin"}, baseDeps(&fakeSeedRuntime{}, &bytes.Buffer{}))
		if err == nil {
			t.Fatal("expected error for missing password")
		}
	})
}

func TestRunSeedAdmin_DefaultNilsForLoaders(t *testing.T) {
	rt := &fakeSeedRuntime{}
	deps := seedAdminDeps{
		prepare: func(*config.Config) (seedAdminRuntime, io.Closer, error) {
			return rt, nil, nil
		},
	}
	if err := runSeedAdmin([]string{"-username", "admin", "-password", "secret123"}, deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rt.created == nil {
		t.Fatal("expected user to be created")
	}
}

func TestDefaultSeedAdminDeps_PrepareBranch(t *testing.T) {
	origOpenDB := openSeedAdminDB
	origOpenSQL := openSeedSQLDB
	t.Cleanup(func() {
		openSeedAdminDB = origOpenDB
		openSeedSQLDB = origOpenSQL
	})

	openSeedAdminDB = func(string) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open("file:seed_admin_prepare?mode=memory&cache=shared"), &gorm.Config{})
	}

	deps := defaultSeedAdminDeps()
	runtime, closer, err := deps.prepare(config.Load())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closer.Close()
	if runtime == nil {
		t.Fatal("expected runtime")
	}

	openSeedAdminDB = func(string) (*gorm.DB, error) { return nil, errors.New("open failed") }
	if _, _, err := deps.prepare(config.Load()); err == nil {
		t.Fatal("expected open error")
	}

	openSeedAdminDB = func(string) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open("file:seed_admin_sql_err?mode=memory&cache=shared"), &gorm.Config{})
	}
	openSeedSQLDB = func(*gorm.DB) (io.Closer, error) { return nil, errors.New("sql init failed") }
	if _, _, err := deps.prepare(config.Load()); err == nil {
		t.Fatal("expected sql init error")
	}
}
