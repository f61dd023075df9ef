package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andreybutenko/formalwear-server/internal/cache"
	"github.com/andreybutenko/formalwear-server/internal/domain"
	"github.com/andreybutenko/formalwear-server/pkg/jwt"
)

func newTestAuthService(t *testing.T) (AuthService, *memUserRepo) {
	t.Helper()
	tokens, err := jwt.NewManager("test-secret", 24*time.Hour, "formalwear")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	users := newMemUserRepo(newMemFollowRepo())
	svc := NewAuthService(users, newMemSearchRepo(), &fakeVerifier{}, tokens, cache.NewNoopSessionCache(), time.Minute)
	return svc, users
}

func TestRegisterLoginRoundtrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)

	reg, err := svc.Register(ctx, &domain.RegisterRequest{
		FirstName: "Ada", LastName: "Lovelace",
		Email: "ada@example.com", Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.Token == "" {
		t.Fatal("Register returned empty token")
	}
	if reg.User.PasswordHash == "hunter22" {
		t.Fatal("password stored in plaintext")
	}
	if reg.User.ImageURL != domain.DefaultImageURL {
		t.Fatalf("ImageURL = %q, want default", reg.User.ImageURL)
	}

	login, err := svc.Login(ctx, &domain.LoginRequest{Email: "ada@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != reg.User.ID {
		t.Fatalf("login resolved user %q, want %q", login.User.ID, reg.User.ID)
	}
	if login.Token == reg.Token {
		t.Fatal("login did not issue a fresh token")
	}
}

func TestLoginErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)

	if _, err := svc.Register(ctx, &domain.RegisterRequest{
		FirstName: "Ada", LastName: "Lovelace",
		Email: "ada@example.com", Password: "hunter22",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Login(ctx, &domain.LoginRequest{Email: "nobody@example.com", Password: "hunter22"}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown email: err = %v, want ErrUserNotFound", err)
	}
	if _, err := svc.Login(ctx, &domain.LoginRequest{Email: "ada@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)

	req := &domain.RegisterRequest{
		FirstName: "Ada", LastName: "Lovelace",
		Email: "ada@example.com", Password: "hunter22",
	}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := svc.Register(ctx, req); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("second Register: err = %v, want ErrEmailTaken", err)
	}
}

func TestSingleSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)

	reg, err := svc.Register(ctx, &domain.RegisterRequest{
		FirstName: "Ada", LastName: "Lovelace",
		Email: "ada@example.com", Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	// First token works until a new login replaces it.
	if _, err := svc.ResolveToken(ctx, reg.Token); err != nil {
		t.Fatalf("ResolveToken(first): %v", err)
	}

	login, err := svc.Login(ctx, &domain.LoginRequest{Email: "ada@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := svc.ResolveToken(ctx, reg.Token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("old token: err = %v, want ErrInvalidSession", err)
	}
	user, err := svc.ResolveToken(ctx, login.Token)
	if err != nil {
		t.Fatalf("ResolveToken(new): %v", err)
	}
	if user.ID != reg.User.ID {
		t.Fatalf("resolved user %q, want %q", user.ID, reg.User.ID)
	}
}

func TestResolveTokenRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)

	if _, err := svc.ResolveToken(ctx, "not-a-jwt"); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("err = %v, want ErrInvalidSession", err)
	}
}

func TestFacebookAuthCreatesThenReuses(t *testing.T) {
	ctx := context.Background()
	tokens, err := jwt.NewManager("test-secret", 24*time.Hour, "formalwear")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	verifier := &fakeVerifier{}
	verifier.profile.ID = "fb-123"
	verifier.profile.FirstName = "Grace"
	verifier.profile.LastName = "Hopper"

	users := newMemUserRepo(newMemFollowRepo())
	svc := NewAuthService(users, newMemSearchRepo(), verifier, tokens, cache.NewNoopSessionCache(), time.Minute)

	req := &domain.FacebookAuthRequest{FbUserID: "fb-123", FbAccessToken: "tok", FbTokenExpiry: 3600}
	first, err := svc.AuthenticateFacebook(ctx, req)
	if err != nil {
		t.Fatalf("first AuthenticateFacebook: %v", err)
	}
	if first.User.FirstName != "Grace" || first.User.FbUserID != "fb-123" {
		t.Fatalf("unexpected created user: %+v", first.User)
	}

	second, err := svc.AuthenticateFacebook(ctx, req)
	if err != nil {
		t.Fatalf("second AuthenticateFacebook: %v", err)
	}
	if second.User.ID != first.User.ID {
		t.Fatal("second facebook login created a new account")
	}

	// Wrong id against the provider's token is rejected.
	bad := &domain.FacebookAuthRequest{FbUserID: "fb-999", FbAccessToken: "tok", FbTokenExpiry: 3600}
	if _, err := svc.AuthenticateFacebook(ctx, bad); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("mismatched id: err = %v, want ErrInvalidCredentials", err)
	}
}
