// Package auth implements account registration, login, and credential
// lifecycle.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/orlogbook/orlog-api/internal/docstore"
	"github.com/orlogbook/orlog-api/internal/model"
	"github.com/orlogbook/orlog-api/internal/repository"
	"github.com/orlogbook/orlog-api/pkg/auth"
	apperrors "github.com/orlogbook/orlog-api/pkg/errors"
	"github.com/orlogbook/orlog-api/pkg/security"
)

// WelcomeMailer greets newly registered accounts. Sending is best-effort;
// registration never fails on mail errors.
type WelcomeMailer interface {
	SendWelcome(to, role string) error
}

type Service struct {
	users   repository.UserRepository
	tokens  auth.TokenService
	hasher  security.PasswordHasher
	revoked repository.RevokedTokenRepository
	mailer  WelcomeMailer
	logger  zerolog.Logger
}

func NewService(
	users repository.UserRepository,
	tokens auth.TokenService,
	hasher security.PasswordHasher,
	revoked repository.RevokedTokenRepository,
	mailer WelcomeMailer,
	logger zerolog.Logger,
) *Service {
	return &Service{
		users:   users,
		tokens:  tokens,
		hasher:  hasher,
		revoked: revoked,
		mailer:  mailer,
		logger:  logger,
	}
}

// Register creates an account and returns it with a fresh token pair. It does
// not create a staff profile; surgeons and nurses get those through the
// profile endpoints.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, *model.TokenResponse, error) {
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return nil, nil, apperrors.BadRequest("role must be nurse, surgeon, or admin", err)
	}
	if !model.ValidEmail(req.Email) {
		return nil, nil, apperrors.BadRequest("valid email is required", nil)
	}
	if len(req.Password) < security.MinPasswordLen {
		return nil, nil, apperrors.BadRequest(
			fmt.Sprintf("password must be at least %d characters", security.MinPasswordLen), nil)
	}
	if role == model.RoleSurgeon || role == model.RoleNurse {
		if req.FirstName == "" || req.LastName == "" {
			return nil, nil, apperrors.BadRequest("first name and last name are required", nil)
		}
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, nil, apperrors.BadRequest("user with this email already exists", nil)
	} else if !errors.Is(err, docstore.ErrNotFound) {
		return nil, nil, apperrors.Internal(err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}

	user := &model.User{
		Email:        req.Email,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, apperrors.Internal(err)
	}

	if s.mailer != nil {
		if err := s.mailer.SendWelcome(user.Email, role.String()); err != nil {
			s.logger.Warn().Err(err).Str("email", user.Email).Msg("welcome email failed")
		}
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.User, *model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil, apperrors.Unauthorized("invalid email or password", nil)
	}
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, nil, apperrors.Unauthorized("invalid email or password", nil)
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// ValidateToken verifies a bearer credential and resolves its claims into a
// Principal. The role claim is parsed against the closed enumeration here and
// never travels further as a string.
func (s *Service) ValidateToken(ctx context.Context, token string) (*model.Principal, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired token", err)
	}

	if s.revoked != nil && claims.TokenID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if revoked {
			return nil, apperrors.Unauthorized("token has been revoked", nil)
		}
	}

	role, err := model.ParseRole(claims.Role)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid role claim", err)
	}

	return &model.Principal{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   role,
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair. Claims
// are re-read from the user record so a role change takes effect on refresh.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired refresh token", err)
	}

	user, err := s.users.Get(ctx, claims.UserID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.Unauthorized("user no longer exists", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return s.issueTokens(user)
}

// Logout revokes the presented access token for its remaining lifetime.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return apperrors.Unauthorized("invalid or expired token", err)
	}

	if s.revoked == nil || claims.TokenID == "" {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt)
	if err := s.revoked.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.Get(ctx, userID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.NotFound("user", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context, filters *model.UserFilters, p model.Pagination) ([]*model.User, model.PageInfo, error) {
	users, total, err := s.users.List(ctx, filters, p)
	if err != nil {
		return nil, model.PageInfo{}, apperrors.Internal(err)
	}
	return users, model.NewPageInfo(p, total), nil
}

func (s *Service) UpdateUserRole(ctx context.Context, userID, roleClaim string) (*model.User, error) {
	role, err := model.ParseRole(roleClaim)
	if err != nil {
		return nil, apperrors.BadRequest("role must be nurse, surgeon, or admin", err)
	}

	user, err := s.users.Get(ctx, userID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.NotFound("user", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		return nil, apperrors.Internal(err)
	}

	user.Role = role
	return user, nil
}

// DeleteUser removes the account. Staff profiles and operations referencing
// it are left in place.
func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	if _, err := s.users.Get(ctx, userID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperrors.NotFound("user", err)
		}
		return apperrors.Internal(err)
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) issueTokens(user *model.User) (*model.TokenResponse, error) {
	access, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &model.TokenResponse{AccessToken: access, RefreshToken: refresh}, nil
}
