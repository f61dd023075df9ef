package repository

import (
	"context"
	"errors"

	"github.com/andreybutenko/formalwear-server/internal/domain"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailExists          = errors.New("email already exists")
	ErrFbUserExists         = errors.New("facebook account already registered")
	ErrAlreadyFollowing     = errors.New("already following")
	ErrFollowNotFound       = errors.New("follow relationship not found")
	ErrPostNotFound         = errors.New("post not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrVoteNotFound         = errors.New("vote not found")
	ErrDuplicateVote        = errors.New("already voted")
	ErrNotificationNotFound = errors.New("notification not found")
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByFbUserID(ctx context.Context, fbUserID string) (*domain.User, error)
	// GetByToken resolves a session token to its user by equality. The
	// authorization gate trusts store-level presence.
	GetByToken(ctx context.Context, token string) (*domain.User, error)
	// Update applies a partial field update to the user row.
	Update(ctx context.Context, id string, fields map[string]interface{}) error
}

// FollowRepository defines the interface for follow-edge persistence.
// Edges are stored on the follower's side only.
type FollowRepository interface {
	// Follow inserts the edge; ErrAlreadyFollowing if it exists.
	Follow(ctx context.Context, followerID, followingID string) error
	// Unfollow removes the edge; ErrFollowNotFound if it doesn't exist.
	Unfollow(ctx context.Context, followerID, followingID string) error
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	// FollowingIDs returns the ids of users followerID follows, in the
	// order the edges were created.
	FollowingIDs(ctx context.Context, followerID string) ([]string, error)
}

// PostRepository defines the interface for post persistence.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	// Delete removes the post along with its comments, votes, and
	// notifications in one transaction.
	Delete(ctx context.Context, id string) error
	// ListByAuthors returns posts by any of the given authors, newest
	// published first. limit <= 0 means no limit.
	ListByAuthors(ctx context.Context, authorIDs []string, limit, offset int) ([]domain.Post, error)
	// ListDiscoverable returns posts with the discovery flag set, newest
	// published first.
	ListDiscoverable(ctx context.Context, limit, offset int) ([]domain.Post, error)
}

// CommentRepository defines the interface for comment persistence.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]domain.Comment, error)
	Delete(ctx context.Context, id string) error
}

// VoteRepository defines the interface for vote persistence.
type VoteRepository interface {
	// Create inserts the vote; ErrDuplicateVote when the (post, prompt,
	// voter) triple already has one. Uniqueness is a store constraint,
	// not a pre-check.
	Create(ctx context.Context, vote *domain.Vote) error
	Get(ctx context.Context, postID string, promptIndex int, voterID string) (*domain.Vote, error)
	ListByPrompt(ctx context.Context, postID string, promptIndex int) ([]domain.Vote, error)
}

// NotificationRepository defines the interface for notification persistence.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	// ListAndMarkSeen returns the recipient's notifications newest first
	// and marks all of them seen in the same transaction. There is no
	// separate mark-seen operation.
	ListAndMarkSeen(ctx context.Context, recipientID string) ([]domain.Notification, error)
}

// SearchRepository defines the interface for free-text search over users
// and posts. Implementations also receive index writes; for the
// database-backed implementation these are no-ops.
type SearchRepository interface {
	SearchUsers(ctx context.Context, query string, limit int) ([]domain.User, error)
	SearchPosts(ctx context.Context, query string, limit int) ([]domain.Post, error)
	IndexUser(ctx context.Context, user *domain.User) error
	IndexPost(ctx context.Context, post *domain.Post) error
	RemovePost(ctx context.Context, postID string) error
}
