package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/andreybutenko/formalwear-server/internal/cache"
	"github.com/andreybutenko/formalwear-server/internal/config"
	"github.com/andreybutenko/formalwear-server/internal/domain"
	"github.com/andreybutenko/formalwear-server/internal/handler"
	"github.com/andreybutenko/formalwear-server/internal/middleware"
	"github.com/andreybutenko/formalwear-server/internal/repository"
	"github.com/andreybutenko/formalwear-server/internal/service"
	"github.com/andreybutenko/formalwear-server/pkg/database"
	"github.com/andreybutenko/formalwear-server/pkg/jwt"
	pkglog "github.com/andreybutenko/formalwear-server/pkg/log"
	"github.com/andreybutenko/formalwear-server/pkg/pubsub"
	"github.com/andreybutenko/formalwear-server/pkg/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	// Initialize structured logger
	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty,
		ServiceName: cfg.Log.ServiceName,
	})
	logger := pkglog.L()

	// Initialize database
	db, err := database.New(cfg.Database.ToDatabaseConfig())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.AutoMigrate(db,
		&domain.UserModel{},
		&domain.FollowModel{},
		&domain.PostModel{},
		&domain.CommentModel{},
		&domain.VoteModel{},
		&domain.NotificationModel{},
	); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("database connected")

	// Initialize session cache
	var sessions cache.SessionCache
	if cfg.Cache.Driver == "redis" {
		redisCache, err := cache.NewRedisSessionCache(cfg.Cache.Redis, cfg.Cache.Prefix)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		sessions = redisCache
		logger.Info().Str("addr", cfg.Cache.Redis.Address).Msg("redis connected")
	} else {
		sessions = cache.NewNoopSessionCache()
	}
	defer sessions.Close()

	// Initialize pubsub
	events, err := pubsub.NewPubSub(cfg.PubSub)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to pubsub")
	}
	defer events.Close()

	// Initialize image storage
	images, err := newStorage(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	logger.Info().Str("driver", cfg.Storage.Driver).Msg("storage ready")

	// Initialize repositories
	followRepo := repository.NewGormFollowRepository(db)
	userRepo := repository.NewGormUserRepository(db, followRepo)
	postRepo := repository.NewGormPostRepository(db)
	commentRepo := repository.NewGormCommentRepository(db)
	voteRepo := repository.NewGormVoteRepository(db)
	notificationRepo := repository.NewGormNotificationRepository(db)

	searchRepo, err := newSearchRepository(cfg, db)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize search")
	}
	logger.Info().Str("driver", cfg.Search.Driver).Msg("search ready")

	// Initialize token manager and external clients
	tokens, err := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Validity, cfg.JWT.Issuer)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize token manager")
	}
	facebook := service.NewGraphClient(cfg.Facebook.GraphURL)

	// Initialize services
	notificationService := service.NewNotificationService(notificationRepo, events)
	authService := service.NewAuthService(userRepo, searchRepo, facebook, tokens, sessions, cfg.Cache.TTL)
	accountService := service.NewAccountService(userRepo, searchRepo, images, sessions)
	followService := service.NewFollowService(userRepo, followRepo, sessions)
	postService := service.NewPostService(postRepo, searchRepo, images)
	commentService := service.NewCommentService(commentRepo, postRepo, notificationService)
	voteService := service.NewVoteService(voteRepo, postRepo, notificationService)
	feedService := service.NewFeedService(postRepo, followRepo, userRepo)
	searchService := service.NewSearchService(searchRepo, cfg.Search.Limit)

	// Initialize HTTP layer
	authMiddleware := middleware.NewAuthMiddleware(authService)
	httpHandler := handler.NewHandler(
		authService,
		accountService,
		followService,
		postService,
		commentService,
		voteService,
		feedService,
		notificationService,
		searchService,
		images,
		authMiddleware,
	)

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(*logger))
	httpHandler.RegisterRoutes(r)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	logger.Info().Str("addr", addr).Msg("formalwear server starting")
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}

func newStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case "s3":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return storage.NewS3Storage(ctx, cfg.Storage.S3)
	default:
		return storage.NewLocalStorage(cfg.Storage.Local)
	}
}

func newSearchRepository(cfg *config.Config, db *gorm.DB) (repository.SearchRepository, error) {
	if cfg.Search.Driver != "elasticsearch" {
		return repository.NewGormSearchRepository(db), nil
	}

	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Search.Addresses,
	})
	if err != nil {
		return nil, err
	}

	res, err := esClient.Info()
	if err != nil {
		return nil, err
	}
	res.Body.Close()

	return repository.NewESSearchRepository(esClient, cfg.Search.IndexUsers, cfg.Search.IndexPosts), nil
}
