package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dkazarov/uploadgate/internal/common"
	"github.com/dkazarov/uploadgate/internal/server/auth"
	"github.com/dkazarov/uploadgate/internal/server/config"
	"github.com/dkazarov/uploadgate/internal/server/models"
)

func newAuthService(t *testing.T, rm *fakeRepoManager, store *fakeSessionStore) *AuthService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		SecretKey:     "test-secret",
		TokenValidity: time.Hour,
		SessionTTL:    time.Hour,
	}
	return NewAuthService(db, rm, store, cfg)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}
	return string(h)
}

func TestLogin_Success(t *testing.T) {
	store := newFakeSessionStore()
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{getOut: &models.User{
			ID:           "u-1",
			Email:        "alice@example.com",
			PasswordHash: hashOf(t, "pw"),
			Roles:        []string{"user", "manager"},
		}},
	}
	s := newAuthService(t, rm, store)

	res, err := s.Login(context.Background(), "alice@example.com", "pw")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if res.Token == "" || res.Handle == "" || res.User.ID != "u-1" {
		t.Fatalf("unexpected result: %+v", res)
	}

	// both carriers must resolve to the same identity
	ident, err := s.Verify(context.Background(), res.Token, "")
	if err != nil || ident.UserID != "u-1" {
		t.Fatalf("bearer verify: ident=%+v err=%v", ident, err)
	}
	ident, err = s.Verify(context.Background(), "", res.Handle)
	if err != nil || ident.UserID != "u-1" || len(ident.Roles) != 2 {
		t.Fatalf("handle verify: ident=%+v err=%v", ident, err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{getErr: common.ErrNotFound}}
	s := newAuthService(t, rm, newFakeSessionStore())

	_, err := s.Login(context.Background(), "ghost@example.com", "pw")
	if !errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{getOut: &models.User{ID: "u-1", PasswordHash: hashOf(t, "right")}},
	}
	s := newAuthService(t, rm, newFakeSessionStore())

	_, err := s.Login(context.Background(), "alice@example.com", "wrong")
	if !errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_RepoError(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{getErr: errBoom{}}}
	s := newAuthService(t, rm, newFakeSessionStore())

	_, err := s.Login(context.Background(), "alice@example.com", "pw")
	if !errors.Is(err, common.ErrInternal) {
		t.Fatalf("want ErrInternal, got %v", err)
	}
}

func TestLogin_SessionSaveError(t *testing.T) {
	store := newFakeSessionStore()
	store.saveErr = errBoom{}
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{getOut: &models.User{ID: "u-1", PasswordHash: hashOf(t, "pw")}},
	}
	s := newAuthService(t, rm, store)

	_, err := s.Login(context.Background(), "alice@example.com", "pw")
	if !errors.Is(err, common.ErrInternal) {
		t.Fatalf("want ErrInternal, got %v", err)
	}
}

func TestVerify_BearerWins(t *testing.T) {
	s := newAuthService(t, &fakeRepoManager{}, newFakeSessionStore())

	token, err := auth.GenerateToken(models.Identity{UserID: "u-1", Email: "a@example.com", Roles: []string{"admin"}},
		[]byte("test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	// handle is bogus; the bearer token alone must be enough
	ident, err := s.Verify(context.Background(), token, "session:u-1:bogus")
	if err != nil || ident.UserID != "u-1" {
		t.Fatalf("ident=%+v err=%v", ident, err)
	}
}

func TestVerify_FallsBackToHandle(t *testing.T) {
	store := newFakeSessionStore()
	s := newAuthService(t, &fakeRepoManager{}, store)

	store.saved["session:u-1:h"] = models.Identity{UserID: "u-1"}

	ident, err := s.Verify(context.Background(), "not-a-jwt", "session:u-1:h")
	if err != nil || ident.UserID != "u-1" {
		t.Fatalf("ident=%+v err=%v", ident, err)
	}
}

func TestVerify_ExpiredBearer(t *testing.T) {
	s := newAuthService(t, &fakeRepoManager{}, newFakeSessionStore())

	token, err := auth.GenerateToken(models.Identity{UserID: "u-1"}, []byte("test-secret"), -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = s.Verify(context.Background(), token, "")
	if !errors.Is(err, common.ErrUnauthenticated) {
		t.Fatalf("want ErrUnauthenticated, got %v", err)
	}
}

func TestVerify_NoCarriers(t *testing.T) {
	s := newAuthService(t, &fakeRepoManager{}, newFakeSessionStore())

	_, err := s.Verify(context.Background(), "", "")
	if !errors.Is(err, common.ErrUnauthenticated) {
		t.Fatalf("want ErrUnauthenticated, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	store := newFakeSessionStore()
	s := newAuthService(t, &fakeRepoManager{}, store)

	store.saved["session:u-1:h"] = models.Identity{UserID: "u-1"}

	if err := s.Logout(context.Background(), "session:u-1:h"); err != nil {
		t.Fatalf("Logout error: %v", err)
	}
	if _, ok := store.saved["session:u-1:h"]; ok {
		t.Fatalf("session not deleted")
	}

	// empty handle is a no-op
	if err := s.Logout(context.Background(), ""); err != nil {
		t.Fatalf("Logout empty handle: %v", err)
	}
}
