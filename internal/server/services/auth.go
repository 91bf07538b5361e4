// Package services contains the authentication use-cases: Login, Signup and
// RefreshSession. Each is a short linear flow over injected collaborators;
// expected auth failures surface as common.ErrUnauthorized, never as panics
// or detailed errors.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avpetrov/authcore/internal/common"
	"github.com/avpetrov/authcore/internal/logging"
	"github.com/avpetrov/authcore/internal/reqmeta"
	"github.com/avpetrov/authcore/internal/repository"
	"github.com/avpetrov/authcore/internal/server/auth"
	"github.com/avpetrov/authcore/internal/server/models"
	"github.com/avpetrov/authcore/internal/server/repositories/users"
)

// TokenPair bundles a short-lived access token and a longer-lived refresh
// token.
type TokenPair struct {
	Token        string
	RefreshToken string
}

// TokenCodec is the slice of the codec the use-cases need.
type TokenCodec interface {
	IssueAccessToken(user *models.User) (string, error)
	IssueRefreshToken(user *models.User) (string, error)
	DecodeRefreshClaims(ctx context.Context, token string) *auth.RefreshClaims
}

// PasswordHasher is the slice of the hasher the use-cases need.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) bool
	NewID() string
}

// SignupParams is the signup DTO. Verified is false for the public register
// endpoint; the trusted registration path (adminctl) pre-sets it.
type SignupParams struct {
	Email    string
	Password string
	Verified bool
}

// AuthService orchestrates the authentication lifecycle.
type AuthService struct {
	users  users.Repository
	hasher PasswordHasher
	codec  TokenCodec
	logger logging.Logger
}

func NewAuthService(repo users.Repository, hasher PasswordHasher, codec TokenCodec, logger logging.Logger) *AuthService {
	return &AuthService{
		users:  repo,
		hasher: hasher,
		codec:  codec,
		logger: logger,
	}
}

// Login verifies the credential pair and mints a fresh token pair. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.users.FindOne(ctx, repository.Criteria{
		users.FieldEmail: repository.Exact(email),
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Error(ctx, "invalid credentials", reqmeta.Args(ctx)...)
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("user lookup error: %w", err)
	}

	if !s.hasher.Compare(password, user.PasswordHash()) {
		s.logger.Error(ctx, "invalid credentials", reqmeta.Args(ctx)...)
		return nil, common.ErrUnauthorized
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "user logged in", reqmeta.Args(ctx)...)
	return pair, nil
}

// Signup creates an unverified account (or a pre-verified one on the trusted
// path). A duplicate email fails with common.ErrAlreadyExists.
func (s *AuthService) Signup(ctx context.Context, params SignupParams) error {
	_, err := s.users.FindOne(ctx, repository.Criteria{
		users.FieldEmail: repository.Exact(params.Email),
	})
	if err == nil {
		return common.ErrAlreadyExists
	}
	if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("user lookup error: %w", err)
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return fmt.Errorf("password hash error: %w", err)
	}

	user, err := models.NewUser(s.hasher.NewID(), params.Email, hash, params.Verified, time.Now())
	if err != nil {
		return err
	}

	if _, err := s.users.Save(ctx, user); err != nil {
		return fmt.Errorf("user save error: %w", err)
	}
	return nil
}

// RefreshSession rotates the token pair: a valid refresh token yields a brand
// new access and refresh token. The old refresh token stays valid until it
// expires; there is no revocation store.
func (s *AuthService) RefreshSession(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims := s.codec.DecodeRefreshClaims(ctx, refreshToken)
	if claims == nil {
		s.logger.Error(ctx, "invalid refresh token", reqmeta.Args(ctx)...)
		return nil, common.ErrUnauthorized
	}

	user, err := s.users.FindOne(ctx, repository.Criteria{
		users.FieldID: repository.Exact(claims.UserID),
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Error(ctx, "invalid refresh token", reqmeta.Args(ctx)...)
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("user lookup error: %w", err)
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "session refreshed", reqmeta.Args(ctx)...)
	return pair, nil
}

func (s *AuthService) issueTokenPair(user *models.User) (*TokenPair, error) {
	token, err := s.codec.IssueAccessToken(user)
	if err != nil {
		return nil, common.ErrInternal
	}
	refresh, err := s.codec.IssueRefreshToken(user)
	if err != nil {
		return nil, common.ErrInternal
	}
	return &TokenPair{Token: token, RefreshToken: refresh}, nil
}
