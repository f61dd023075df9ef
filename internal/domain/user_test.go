package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestToPublicStripsCredentials(t *testing.T) {
	u := User{
		ID:            "u1",
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Email:         "ada@example.com",
		PasswordHash:  "hash",
		FbUserID:      "fb-1",
		FbAccessToken: "fb-token",
		Token:         "session-token",
		Following:     []string{"u2"},
		Clubs:         []string{"math"},
		Setup:         true,
	}

	data, err := json.Marshal(u.ToPublic())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(data)

	for _, secret := range []string{"ada@example.com", "hash", "fb-1", "fb-token", "session-token"} {
		if strings.Contains(out, secret) {
			t.Fatalf("public record leaks %q: %s", secret, out)
		}
	}
	for _, keep := range []string{"Ada", "Lovelace", "u2", "math"} {
		if !strings.Contains(out, keep) {
			t.Fatalf("public record missing %q: %s", keep, out)
		}
	}
}

func TestUserJSONHidesHashes(t *testing.T) {
	u := User{ID: "u1", PasswordHash: "hash", FbAccessToken: "fb-token"}

	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(data)

	// Even the full record never serializes hash or provider token.
	if strings.Contains(out, "hash") || strings.Contains(out, "fb-token") {
		t.Fatalf("full record leaks credential material: %s", out)
	}
}
