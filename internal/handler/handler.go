package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/andreybutenko/formalwear-server/internal/middleware"
	"github.com/andreybutenko/formalwear-server/internal/service"
	"github.com/andreybutenko/formalwear-server/pkg/response"
	"github.com/andreybutenko/formalwear-server/pkg/storage"
)

// Handler handles all HTTP requests for the service.
type Handler struct {
	authService         service.AuthService
	accountService      service.AccountService
	followService       service.FollowService
	postService         service.PostService
	commentService      service.CommentService
	voteService         service.VoteService
	feedService         service.FeedService
	notificationService service.NotificationService
	searchService       service.SearchService
	images              storage.Storage
	authMiddleware      *middleware.AuthMiddleware
}

// NewHandler creates a new HTTP handler.
func NewHandler(
	authService service.AuthService,
	accountService service.AccountService,
	followService service.FollowService,
	postService service.PostService,
	commentService service.CommentService,
	voteService service.VoteService,
	feedService service.FeedService,
	notificationService service.NotificationService,
	searchService service.SearchService,
	images storage.Storage,
	authMiddleware *middleware.AuthMiddleware,
) *Handler {
	return &Handler{
		authService:         authService,
		accountService:      accountService,
		followService:       followService,
		postService:         postService,
		commentService:      commentService,
		voteService:         voteService,
		feedService:         feedService,
		notificationService: notificationService,
		searchService:       searchService,
		images:              images,
		authMiddleware:      authMiddleware,
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/images/:image", h.ServeImage)

	api := r.Group("/api/v1")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
			auth.POST("/facebook", h.FacebookAuth)
			auth.POST("/check", h.authMiddleware.RequireAuth(), h.Check)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(h.authMiddleware.RequireAuth())
		{
			users := protected.Group("/users")
			{
				users.GET("/me", h.GetMe)
				users.PUT("/me/profile", h.UpdateProfile)
				users.PUT("/me/secure", h.UpdateSecure)
				users.PUT("/me/image", h.UpdateImage)
				users.GET("/:id", h.GetUser)
				users.POST("/:id/follow", h.Follow)
				users.DELETE("/:id/follow", h.Unfollow)
				users.GET("/:id/posts", h.UserPosts)
			}

			posts := protected.Group("/posts")
			{
				posts.POST("", h.CreatePost)
				posts.GET("/:id", h.GetPost)
				posts.DELETE("/:id", h.DeletePost)
				posts.GET("/:id/comments", h.ListComments)
				posts.POST("/:id/comments", h.CreateComment)
				posts.POST("/:id/prompts/:index/votes", h.CastVote)
				posts.GET("/:id/prompts/:index/votes/eligibility", h.VoteEligibility)
				posts.GET("/:id/prompts/:index/votes/results", h.VoteResults)
			}

			protected.DELETE("/comments/:id", h.DeleteComment)
			protected.GET("/feed", h.Feed)
			protected.GET("/explore", h.Explore)
			protected.GET("/search", h.Search)
			protected.GET("/notifications", h.ListNotifications)
			protected.GET("/notifications/stream", h.StreamNotifications)
			protected.GET("/time/humanize", h.HumanizeTime)
		}
	}
}

// Health reports service liveness.
func (h *Handler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}
