package service

import (
	"bytes"
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/andreybutenko/formalwear-server/internal/cache"
	"github.com/andreybutenko/formalwear-server/internal/domain"
	"github.com/andreybutenko/formalwear-server/internal/repository"
	"github.com/andreybutenko/formalwear-server/pkg/database"
	"github.com/andreybutenko/formalwear-server/pkg/log"
	"github.com/andreybutenko/formalwear-server/pkg/storage"
)

// accountServiceImpl implements AccountService.
type accountServiceImpl struct {
	users    repository.UserRepository
	search   repository.SearchRepository
	images   storage.Storage
	sessions cache.SessionCache
}

// NewAccountService creates a new account service.
func NewAccountService(
	users repository.UserRepository,
	search repository.SearchRepository,
	images storage.Storage,
	sessions cache.SessionCache,
) AccountService {
	return &accountServiceImpl{
		users:    users,
		search:   search,
		images:   images,
		sessions: sessions,
	}
}

// Get returns the full user record, credential fields included. Only the
// account owner may receive this.
func (s *accountServiceImpl) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.getUser(ctx, userID)
}

// GetPublic returns another user's record with confidential fields stripped.
func (s *accountServiceImpl) GetPublic(ctx context.Context, userID string) (*domain.PublicUser, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	public := user.ToPublic()
	return &public, nil
}

// UpdateProfile replaces the text profile fields and marks the account as
// set up.
func (s *accountServiceImpl) UpdateProfile(ctx context.Context, userID string, req *domain.UpdateProfileRequest) (*domain.User, error) {
	l := log.Ctx(ctx)

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"first_name":  req.FirstName,
		"last_name":   req.LastName,
		"description": req.Description,
		"school":      req.School,
		"clubs":       database.StringArray(req.Clubs),
		"setup":       true,
	}
	if err := s.users.Update(ctx, userID, fields); err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to update profile")
		return nil, err
	}

	s.evictSession(ctx, user.Token)

	user, err = s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.search.IndexUser(ctx, user); err != nil {
		l.Warn().Err(err).Str(log.FieldUserID, userID).Msg("failed to reindex user")
	}

	return user, nil
}

// UpdateSecure changes the email and, when a new password is supplied, the
// password. The current password must match either way.
func (s *accountServiceImpl) UpdateSecure(ctx context.Context, userID string, req *domain.UpdateSecureRequest) (*domain.User, error) {
	l := log.Ctx(ctx)

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrWrongPassword
	}

	fields := map[string]interface{}{"email": req.Email}
	if req.NewPassword != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			l.Error().Err(err).Msg("failed to hash new password")
			return nil, err
		}
		fields["password_hash"] = string(hashed)
	}

	if err := s.users.Update(ctx, userID, fields); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to update credentials")
		return nil, err
	}

	s.evictSession(ctx, user.Token)

	return s.getUser(ctx, userID)
}

// UpdateImage replaces the profile picture. The image is stored under a
// time-derived name and the record's image URL points at the serving path.
func (s *accountServiceImpl) UpdateImage(ctx context.Context, userID string, req *domain.UpdateImageRequest) (*domain.User, error) {
	l := log.Ctx(ctx)

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	data, err := decodeImageData(req.Picture)
	if err != nil {
		return nil, err
	}

	name := imageName(time.Now())
	if err := s.images.Write(ctx, name, bytes.NewReader(data), int64(len(data)), "image/png"); err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to store profile image")
		return nil, err
	}

	if err := s.users.Update(ctx, userID, map[string]interface{}{"image_url": imageURL(name)}); err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to update image url")
		return nil, err
	}

	s.evictSession(ctx, user.Token)

	user, err = s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.search.IndexUser(ctx, user); err != nil {
		l.Warn().Err(err).Str(log.FieldUserID, userID).Msg("failed to reindex user")
	}

	return user, nil
}

func (s *accountServiceImpl) getUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		log.Ctx(ctx).Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to get user")
		return nil, err
	}
	return user, nil
}

// evictSession drops the cached token→user entry so the next request sees
// the updated record.
func (s *accountServiceImpl) evictSession(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.sessions.Delete(ctx, s.sessions.BuildKeyByToken(token)); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("failed to evict session from cache")
	}
}
