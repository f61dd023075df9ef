package service

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/andreybutenko/formalwear-server/internal/cache"
	"github.com/andreybutenko/formalwear-server/internal/domain"
)

type accountFixture struct {
	accounts AccountService
	users    *memUserRepo
	storage  *memStorage
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()
	users := newMemUserRepo(newMemFollowRepo())
	store := newMemStorage()
	return &accountFixture{
		accounts: NewAccountService(users, newMemSearchRepo(), store, cache.NewNoopSessionCache()),
		users:    users,
		storage:  store,
	}
}

func (f *accountFixture) seedWithPassword(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &domain.User{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		PasswordHash: string(hash),
	}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return u
}

func TestGetPublicStripsConfidentialFields(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture(t)
	u := f.seedWithPassword(t, "hunter22")

	public, err := f.accounts.GetPublic(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetPublic: %v", err)
	}
	if public.ID != u.ID || public.FirstName != "Ada" {
		t.Fatalf("public = %+v", public)
	}
}

func TestUpdateProfileSetsSetup(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture(t)
	u := f.seedWithPassword(t, "hunter22")

	updated, err := f.accounts.UpdateProfile(ctx, u.ID, &domain.UpdateProfileRequest{
		FirstName:   "Ada",
		LastName:    "King",
		Description: "analyst",
		School:      "UW",
		Clubs:       []string{"math", "chess"},
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if !updated.Setup {
		t.Fatal("completing the profile must set setup")
	}
	if updated.LastName != "King" || len(updated.Clubs) != 2 {
		t.Fatalf("updated = %+v", updated)
	}
}

func TestUpdateSecure(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture(t)
	u := f.seedWithPassword(t, "hunter22")

	if _, err := f.accounts.UpdateSecure(ctx, u.ID, &domain.UpdateSecureRequest{
		Email:    "new@example.com",
		Password: "wrong",
	}); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("wrong password: err = %v, want ErrWrongPassword", err)
	}

	updated, err := f.accounts.UpdateSecure(ctx, u.ID, &domain.UpdateSecureRequest{
		Email:       "new@example.com",
		Password:    "hunter22",
		NewPassword: "correct horse",
	})
	if err != nil {
		t.Fatalf("UpdateSecure: %v", err)
	}
	if updated.Email != "new@example.com" {
		t.Fatalf("email = %q", updated.Email)
	}
	if bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("correct horse")) != nil {
		t.Fatal("new password not stored")
	}
}

func TestUpdateImage(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture(t)
	u := f.seedWithPassword(t, "hunter22")

	updated, err := f.accounts.UpdateImage(ctx, u.ID, &domain.UpdateImageRequest{
		Picture: base64.StdEncoding.EncodeToString([]byte("png bytes")),
	})
	if err != nil {
		t.Fatalf("UpdateImage: %v", err)
	}
	if updated.ImageURL == domain.DefaultImageURL {
		t.Fatal("image url not replaced")
	}

	if _, err := f.accounts.UpdateImage(ctx, u.ID, &domain.UpdateImageRequest{
		Picture: "*** not base64 ***",
	}); !errors.Is(err, ErrBadImage) {
		t.Fatalf("bad picture: err = %v, want ErrBadImage", err)
	}
}
