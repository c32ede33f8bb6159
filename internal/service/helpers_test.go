package service_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/msomdec/run-tracker/internal/domain"
	"github.com/msomdec/run-tracker/internal/photostore"
	"github.com/msomdec/run-tracker/internal/repository/memory"
	"github.com/msomdec/run-tracker/internal/service"
)

const testJWTSecret = "test-secret-key-for-unit-tests-000000"

type testEnv struct {
	users    *memory.UserRepository
	runs     *memory.RunRepository
	store    *photostore.Disk
	storeDir string
	auth     *service.AuthService
	photos   *service.PhotoService
	run      *service.RunService
	stats    *service.StatsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	store, err := photostore.NewDisk(dir)
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}

	env := &testEnv{
		users:    memory.NewUserRepository(),
		runs:     memory.NewRunRepository(),
		store:    store,
		storeDir: dir,
	}
	// Use cost 4 for fast tests.
	env.auth = service.NewAuthService(env.users, testJWTSecret, service.AuthOptions{Issuer: "run-tracker", BcryptCost: 4})
	env.photos = service.NewPhotoService(store, 0)
	env.run = service.NewRunService(env.runs, env.photos)
	env.stats = service.NewStatsService(env.runs)
	return env
}

func (e *testEnv) createUser(t *testing.T, email, password string) *domain.User {
	t.Helper()
	hash, err := e.auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := &domain.User{Email: email, PasswordHash: hash}
	if err := e.users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
