package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"driveus/internal/service"
)

func newAuthService(repo *MockUserRepository) *service.AuthService {
	return service.NewAuthService(repo, "test-secret", time.Hour)
}

func TestAuth_RegisterLoginRoundtrip(t *testing.T) {
	t.Parallel()

	repo := NewMockUserRepository()
	svc := newAuthService(repo)

	user, err := svc.Register(context.Background(), "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == "" {
		t.Error("expected user ID to be set")
	}
	if user.PasswordHash == "hunter22" {
		t.Error("password must not be stored in clear")
	}

	token, err := svc.Login(context.Background(), "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	userID, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != user.ID {
		t.Errorf("expected subject %s, got %s", user.ID, userID)
	}
}

func TestAuth_WrongPassword_Rejected(t *testing.T) {
	t.Parallel()

	repo := NewMockUserRepository()
	svc := newAuthService(repo)

	if _, err := svc.Register(context.Background(), "ada@example.com", "hunter22"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Login(context.Background(), "ada@example.com", "wrong")
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuth_UnknownEmail_SameErrorAsWrongPassword(t *testing.T) {
	t.Parallel()

	svc := newAuthService(NewMockUserRepository())

	_, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuth_DuplicateEmail_Rejected(t *testing.T) {
	t.Parallel()

	repo := NewMockUserRepository()
	svc := newAuthService(repo)

	if _, err := svc.Register(context.Background(), "ada@example.com", "hunter22"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Register(context.Background(), "ada@example.com", "other")
	if !errors.Is(err, service.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuth_MissingFields_Rejected(t *testing.T) {
	t.Parallel()

	svc := newAuthService(NewMockUserRepository())

	if _, err := svc.Register(context.Background(), "", "pw"); !errors.Is(err, service.ErrMissingFields) {
		t.Errorf("expected ErrMissingFields, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "a@b.c", ""); !errors.Is(err, service.ErrMissingFields) {
		t.Errorf("expected ErrMissingFields, got %v", err)
	}
}

func TestAuth_TamperedToken_Rejected(t *testing.T) {
	t.Parallel()

	repo := NewMockUserRepository()
	svc := newAuthService(repo)

	if _, err := svc.Register(context.Background(), "ada@example.com", "hunter22"); err != nil {
		t.Fatalf("register: %v", err)
	}
	token, err := svc.Login(context.Background(), "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := svc.VerifyToken(token + "x"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for tampered token, got %v", err)
	}
	if _, err := svc.VerifyToken("not-a-jwt"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for garbage token, got %v", err)
	}

	// A token signed with a different secret must not verify.
	other := service.NewAuthService(repo, "other-secret", time.Hour)
	if _, err := other.VerifyToken(token); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials across secrets, got %v", err)
	}
}

func TestAuth_ExpiredToken_Rejected(t *testing.T) {
	t.Parallel()

	repo := NewMockUserRepository()
	svc := service.NewAuthService(repo, "test-secret", -time.Minute)

	if _, err := svc.Register(context.Background(), "ada@example.com", "hunter22"); err != nil {
		t.Fatalf("register: %v", err)
	}
	token, err := svc.Login(context.Background(), "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := svc.VerifyToken(token); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for expired token, got %v", err)
	}
}
