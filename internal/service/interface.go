package service

import (
	"context"

	"github.com/andreybutenko/formalwear-server/internal/domain"
	"github.com/andreybutenko/formalwear-server/pkg/pubsub"
)

// AuthService defines the interface for authentication business logic. A
// user has at most one live session: issuing a token overwrites the
// previous one on the user record.
type AuthService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error)
	// AuthenticateFacebook covers both first login (account creation) and
	// subsequent logins; the two are the same operation.
	AuthenticateFacebook(ctx context.Context, req *domain.FacebookAuthRequest) (*domain.AuthResponse, error)
	// ResolveToken maps a presented token to its user, or fails. Used by
	// the auth middleware on every request.
	ResolveToken(ctx context.Context, token string) (*domain.User, error)
}

// AccountService defines the interface for account and profile management.
type AccountService interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetPublic(ctx context.Context, userID string) (*domain.PublicUser, error)
	UpdateProfile(ctx context.Context, userID string, req *domain.UpdateProfileRequest) (*domain.User, error)
	UpdateSecure(ctx context.Context, userID string, req *domain.UpdateSecureRequest) (*domain.User, error)
	UpdateImage(ctx context.Context, userID string, req *domain.UpdateImageRequest) (*domain.User, error)
}

// FollowService defines the interface for the follow graph.
type FollowService interface {
	// Follow adds the edge and returns the acting user with a refreshed
	// following list. Already-following is a success.
	Follow(ctx context.Context, followerID, targetID string) (*domain.User, error)
	// Unfollow removes the edge. Not-following is a success.
	Unfollow(ctx context.Context, followerID, targetID string) (*domain.User, error)
}

// PostService defines the interface for post lifecycle.
type PostService interface {
	Create(ctx context.Context, authorID string, req *domain.CreatePostRequest) (*domain.Post, error)
	Get(ctx context.Context, postID string) (*domain.Post, error)
	// Delete removes the post and everything attached to it. Only the
	// author may delete.
	Delete(ctx context.Context, postID, callerID string) error
}

// CommentService defines the interface for comments.
type CommentService interface {
	Create(ctx context.Context, postID, commenterID string, req *domain.CreateCommentRequest) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]domain.Comment, error)
	// Delete removes the comment. Only the commenter may delete.
	Delete(ctx context.Context, commentID, callerID string) error
}

// VoteService defines the interface for prompt votes.
type VoteService interface {
	Cast(ctx context.Context, postID string, promptIndex int, voterID string, req *domain.CastVoteRequest) (*domain.Vote, error)
	// CanVote evaluates the same predicate Cast enforces, without writing.
	CanVote(ctx context.Context, postID string, promptIndex int, voterID string) (*domain.Eligibility, error)
	Results(ctx context.Context, postID string, promptIndex int) (*domain.VoteResults, error)
}

// FeedService defines the interface for post listings.
type FeedService interface {
	// Home returns posts by the user and everyone they follow.
	Home(ctx context.Context, userID string, limit, offset int) ([]domain.Post, error)
	// Explore returns discoverable posts from anyone.
	Explore(ctx context.Context, limit, offset int) ([]domain.Post, error)
	// User returns one author's posts.
	User(ctx context.Context, authorID string, limit, offset int) ([]domain.Post, error)
}

// NotificationService defines the interface for interaction notifications.
type NotificationService interface {
	// Notify records that source acted on recipient's post. The row write
	// shares the caller's error channel; the pubsub event is best-effort.
	// Self-notifications are silently skipped.
	Notify(ctx context.Context, recipientID, sourceID, postID, kind string) error
	// List returns the recipient's notifications newest first and marks
	// them all seen.
	List(ctx context.Context, recipientID string) ([]domain.Notification, error)
	// Stream subscribes to the recipient's live notification events until
	// ctx is cancelled. Push is best-effort; List remains the durable read.
	Stream(ctx context.Context, recipientID string) (<-chan *pubsub.Event, error)
}

// SearchService defines the interface for free-text search.
type SearchService interface {
	Search(ctx context.Context, query string) (*domain.SearchResult, error)
}
