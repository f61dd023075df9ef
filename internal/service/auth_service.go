package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/andreybutenko/formalwear-server/internal/cache"
	"github.com/andreybutenko/formalwear-server/internal/domain"
	"github.com/andreybutenko/formalwear-server/internal/repository"
	"github.com/andreybutenko/formalwear-server/pkg/jwt"
	"github.com/andreybutenko/formalwear-server/pkg/log"
)

// authServiceImpl implements AuthService.
type authServiceImpl struct {
	users    repository.UserRepository
	search   repository.SearchRepository
	facebook FacebookVerifier
	tokens   *jwt.Manager
	sessions cache.SessionCache
	cacheTTL time.Duration
}

// NewAuthService creates a new auth service.
func NewAuthService(
	users repository.UserRepository,
	search repository.SearchRepository,
	facebook FacebookVerifier,
	tokens *jwt.Manager,
	sessions cache.SessionCache,
	cacheTTL time.Duration,
) AuthService {
	return &authServiceImpl{
		users:    users,
		search:   search,
		facebook: facebook,
		tokens:   tokens,
		sessions: sessions,
		cacheTTL: cacheTTL,
	}
}

// Register creates an email/password account and opens its first session.
func (s *authServiceImpl) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	l := log.Ctx(ctx)

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		l.Error().Err(err).Msg("failed to hash password")
		return nil, err
	}

	user := &domain.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hashed),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		l.Error().Err(err).Msg("failed to create user")
		return nil, err
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	s.indexUser(ctx, user)

	return &domain.AuthResponse{User: user, Token: token}, nil
}

// Login authenticates an email/password account and opens a new session,
// ending any previous one.
func (s *authServiceImpl) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	l := log.Ctx(ctx)

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		l.Error().Err(err).Msg("failed to get user by email")
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &domain.AuthResponse{User: user, Token: token}, nil
}

// AuthenticateFacebook verifies the credential pair with the provider,
// creates the account on first login, refreshes the stored provider
// credentials otherwise, and opens a session either way.
func (s *authServiceImpl) AuthenticateFacebook(ctx context.Context, req *domain.FacebookAuthRequest) (*domain.AuthResponse, error) {
	l := log.Ctx(ctx)

	profile, err := s.facebook.VerifyCredentials(ctx, req.FbUserID, req.FbAccessToken)
	if err != nil {
		return nil, err
	}

	expiry := time.Now().Unix() + req.FbTokenExpiry

	user, err := s.users.GetByFbUserID(ctx, req.FbUserID)
	switch {
	case err == nil:
		if err := s.users.Update(ctx, user.ID, map[string]interface{}{
			"fb_access_token": req.FbAccessToken,
			"fb_token_expiry": expiry,
		}); err != nil {
			l.Error().Err(err).Str(log.FieldUserID, user.ID).Msg("failed to refresh facebook credentials")
			return nil, err
		}
		user.FbAccessToken = req.FbAccessToken
		user.FbTokenExpiry = expiry

	case errors.Is(err, repository.ErrUserNotFound):
		user = &domain.User{
			FirstName:     profile.FirstName,
			LastName:      profile.LastName,
			FbUserID:      req.FbUserID,
			FbAccessToken: req.FbAccessToken,
			FbTokenExpiry: expiry,
		}
		if profile.Picture.Data.URL != "" {
			user.ImageURL = profile.Picture.Data.URL
		}
		if err := s.users.Create(ctx, user); err != nil {
			l.Error().Err(err).Msg("failed to create user from facebook profile")
			return nil, err
		}
		s.indexUser(ctx, user)

	default:
		l.Error().Err(err).Msg("failed to get user by facebook id")
		return nil, err
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &domain.AuthResponse{User: user, Token: token}, nil
}

// ResolveToken maps the presented token to its user. The token must carry a
// valid signature and still be the one stored on the user record; replacing
// it at login ends the previous session.
func (s *authServiceImpl) ResolveToken(ctx context.Context, token string) (*domain.User, error) {
	l := log.Ctx(ctx)

	if _, err := s.tokens.Validate(token); err != nil {
		return nil, ErrInvalidSession
	}

	key := s.sessions.BuildKeyByToken(token)
	if cached, err := s.sessions.Get(ctx, key); err == nil {
		return &cached.User, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		l.Warn().Err(err).Msg("session cache read failed")
	}

	user, err := s.users.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidSession
		}
		l.Error().Err(err).Msg("failed to resolve token")
		return nil, err
	}

	if err := s.sessions.Set(ctx, key, &cache.SessionCacheResult{User: *user}, s.cacheTTL); err != nil {
		l.Warn().Err(err).Msg("session cache write failed")
	}

	return user, nil
}

// issueToken mints a session token and stores it on the user record,
// overwriting the previous one. The old token's cache entry is dropped so
// the ended session cannot outlive its row.
func (s *authServiceImpl) issueToken(ctx context.Context, user *domain.User) (string, error) {
	l := log.Ctx(ctx)

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, user.ID).Msg("failed to sign session token")
		return "", err
	}

	oldToken := user.Token
	if err := s.users.Update(ctx, user.ID, map[string]interface{}{"token": token}); err != nil {
		l.Error().Err(err).Str(log.FieldUserID, user.ID).Msg("failed to store session token")
		return "", err
	}
	user.Token = token

	if oldToken != "" {
		if err := s.sessions.Delete(ctx, s.sessions.BuildKeyByToken(oldToken)); err != nil {
			l.Warn().Err(err).Str(log.FieldUserID, user.ID).Msg("failed to evict previous session from cache")
		}
	}

	return token, nil
}

// indexUser pushes the user into the search index. Failures are logged,
// never surfaced; the database row is the source of truth.
func (s *authServiceImpl) indexUser(ctx context.Context, user *domain.User) {
	if err := s.search.IndexUser(ctx, user); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str(log.FieldUserID, user.ID).Msg("failed to index user")
	}
}
