package service

import (
	"context"
	"testing"

	"github.com/andreybutenko/formalwear-server/internal/domain"
)

func TestSearchSanitizesUsers(t *testing.T) {
	ctx := context.Background()
	repo := newMemSearchRepo()
	svc := NewSearchService(repo, 50)

	if err := repo.IndexUser(ctx, &domain.User{
		ID:           "u1",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "secret-hash",
		Token:        "secret-token",
	}); err != nil {
		t.Fatalf("IndexUser: %v", err)
	}

	result, err := svc.Search(ctx, "ada")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(result.Users) != 1 {
		t.Fatalf("users = %+v, want one hit", result.Users)
	}
	if result.Users[0].FirstName != "Ada" {
		t.Fatalf("hit = %+v", result.Users[0])
	}
}

func TestSearchRespectsDiscovery(t *testing.T) {
	ctx := context.Background()
	repo := newMemSearchRepo()
	svc := NewSearchService(repo, 50)

	if err := repo.IndexPost(ctx, &domain.Post{ID: "p1", Description: "navy suit", Discovery: true}); err != nil {
		t.Fatalf("IndexPost: %v", err)
	}
	if err := repo.IndexPost(ctx, &domain.Post{ID: "p2", Description: "navy suit private", Discovery: false}); err != nil {
		t.Fatalf("IndexPost: %v", err)
	}

	result, err := svc.Search(ctx, "navy")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(result.Posts) != 1 || result.Posts[0].ID != "p1" {
		t.Fatalf("posts = %+v, want only the discoverable one", result.Posts)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	ctx := context.Background()
	svc := NewSearchService(newMemSearchRepo(), 50)

	for _, q := range []string{"", "   "} {
		result, err := svc.Search(ctx, q)
		if err != nil {
			t.Fatalf("Search(%q): %v", q, err)
		}
		if len(result.Users) != 0 || len(result.Posts) != 0 {
			t.Fatalf("Search(%q) = %+v, want empty sets", q, result)
		}
	}
}
