package domain

import (
	"time"
)

// DefaultImageURL is assigned to accounts created without a picture.
const DefaultImageURL = "/images/default.png"

// User represents a user entity, including credential material. Handlers
// must never return this type to anyone but the account owner; use
// ToPublic for everything else.
type User struct {
	ID          string   `json:"id"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	ImageURL    string   `json:"image_url"`
	Description string   `json:"description"`
	School      string   `json:"school"`
	Clubs       []string `json:"clubs"`

	// Following holds the ids of users this user follows. Edges are stored
	// in the follows table and resolved on read.
	Following []string `json:"following"`

	Email         string `json:"email,omitempty"`
	PasswordHash  string `json:"-"`
	FbUserID      string `json:"fb_user_id,omitempty"`
	FbAccessToken string `json:"-"`
	FbTokenExpiry int64  `json:"fb_token_expiry,omitempty"`

	// Token is the single live session token. Issuing a new one
	// invalidates the previous session.
	Token string `json:"token,omitempty"`

	Setup     bool      `json:"setup"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicUser is a user as seen by other users: confidential fields
// (token, email, password hash, external-provider credentials) stripped.
type PublicUser struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	ImageURL    string    `json:"image_url"`
	Description string    `json:"description"`
	School      string    `json:"school"`
	Clubs       []string  `json:"clubs"`
	Following   []string  `json:"following"`
	Setup       bool      `json:"setup"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToPublic strips confidential fields from a User.
func (u *User) ToPublic() PublicUser {
	return PublicUser{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		ImageURL:    u.ImageURL,
		Description: u.Description,
		School:      u.School,
		Clubs:       u.Clubs,
		Following:   u.Following,
		Setup:       u.Setup,
		CreatedAt:   u.CreatedAt,
	}
}

// RegisterRequest is the email registration request.
type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the email login request.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// FacebookAuthRequest covers both Facebook registration and login; the two
// are the same operation.
type FacebookAuthRequest struct {
	FbUserID      string `json:"fbUserId" binding:"required"`
	FbAccessToken string `json:"fbAccessToken" binding:"required"`
	// FbTokenExpiry is the provider-reported validity in seconds from now.
	FbTokenExpiry int64 `json:"fbTokenExpiry" binding:"required"`
}

// AuthResponse is returned by register and login operations.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// UpdateProfileRequest updates the public, text-based profile fields.
// Completing it marks the account as set up.
type UpdateProfileRequest struct {
	FirstName   string   `json:"firstName" binding:"required"`
	LastName    string   `json:"lastName" binding:"required"`
	Description string   `json:"description"`
	School      string   `json:"school"`
	Clubs       []string `json:"clubs"`
}

// UpdateSecureRequest changes email and, optionally, the password. The
// current password must be supplied either way.
type UpdateSecureRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	NewPassword string `json:"newPassword"`
}

// UpdateImageRequest replaces the profile picture with base64 image data.
type UpdateImageRequest struct {
	Picture string `json:"picture" binding:"required"`
}
