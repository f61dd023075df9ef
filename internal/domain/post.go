package domain

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrBadPrompts is returned when the prompts field is not an array made up
// of only strings. The whole request is rejected in that case.
var ErrBadPrompts = errors.New("bad prompts")

// Post represents an image post with optional yes/no prompts.
type Post struct {
	ID          string   `json:"id"`
	AuthorID    string   `json:"author_id"`
	Description string   `json:"description"`
	ImageURI    string   `json:"image_uri"`
	Prompts     []string `json:"prompts"`
	// Discovery controls inclusion in the explore feed.
	Discovery bool `json:"discovery"`
	// Published is seconds since epoch, set once at creation.
	Published int64     `json:"published"`
	CreatedAt time.Time `json:"created_at"`
}

// CreatePostRequest carries a new post. Prompts and discovery are raw so
// their types can be validated the same way the API always has: prompts
// must be an array of strings, and a non-boolean discovery falls back to
// true rather than failing.
type CreatePostRequest struct {
	ImageData   string          `json:"imageData" binding:"required"`
	Description json.RawMessage `json:"description"`
	Prompts     json.RawMessage `json:"prompts" binding:"required"`
	Discovery   json.RawMessage `json:"discovery"`
}

// ParsePrompts validates that raw is a JSON array of strings and returns it.
func ParsePrompts(raw json.RawMessage) ([]string, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, ErrBadPrompts
	}

	prompts := make([]string, 0, len(items))
	for _, item := range items {
		// Null unmarshals into a string without error; a pointer target
		// exposes it as nil.
		var s *string
		if err := json.Unmarshal(item, &s); err != nil || s == nil {
			return nil, ErrBadPrompts
		}
		prompts = append(prompts, *s)
	}
	return prompts, nil
}

// ParseDiscovery returns the discovery flag, defaulting to true when the
// supplied value is absent or not a boolean.
func ParseDiscovery(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return true
	}
	var b *bool
	if err := json.Unmarshal(raw, &b); err != nil || b == nil {
		return true
	}
	return *b
}

// SanitizeText coerces a raw JSON value to a plain string. Strings are
// used as-is; anything else is rendered as its compact JSON text.
func SanitizeText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
