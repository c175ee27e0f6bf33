package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/orlogbook/orlog-api/internal/docstore/memory"
	"github.com/orlogbook/orlog-api/internal/model"
	"github.com/orlogbook/orlog-api/internal/repository/docrepo"
	"github.com/orlogbook/orlog-api/pkg/auth"
	apperrors "github.com/orlogbook/orlog-api/pkg/errors"
	"github.com/orlogbook/orlog-api/pkg/security"
)

type fakeRevokedStore struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newFakeRevokedStore() *fakeRevokedStore {
	return &fakeRevokedStore{revoked: make(map[string]bool)}
}

func (f *fakeRevokedStore) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[tokenID] = true
	return nil
}

func (f *fakeRevokedStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revoked[tokenID], nil
}

func newTestService() *Service {
	users := docrepo.NewUserRepository(memory.NewStore())
	tokens := auth.NewJWTService(auth.Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh-secret",
	})
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	return NewService(users, tokens, hasher, newFakeRevokedStore(), nil, zerolog.Nop())
}

func registerReq(email string) *model.RegisterRequest {
	return &model.RegisterRequest{
		Email:     email,
		Password:  "secret1",
		Role:      "nurse",
		FirstName: "Jane",
		LastName:  "Doe",
	}
}

func appError(t *testing.T, err error) *apperrors.AppError {
	t.Helper()
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok, "expected AppError, got %T", err)
	return appErr
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	user, tokens, err := svc.Register(ctx, registerReq("nurse@hospital.org"))
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, model.RoleNurse, user.Role)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	_, loginTokens, err := svc.Login(ctx, &model.LoginRequest{
		Email:    "nurse@hospital.org",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, loginTokens.AccessToken)

	principal, err := svc.ValidateToken(ctx, loginTokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.UserID)
	assert.Equal(t, model.RoleNurse, principal.Role)
}

func TestRegisterRejections(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	req := registerReq("nurse@hospital.org")
	req.Role = "superuser"
	_, _, err := svc.Register(ctx, req)
	assert.Equal(t, apperrors.ErrBadRequest, appError(t, err).Code)

	req = registerReq("bad-email")
	_, _, err = svc.Register(ctx, req)
	assert.Equal(t, "valid email is required", appError(t, err).Message)

	req = registerReq("nurse@hospital.org")
	req.Password = "short"
	_, _, err = svc.Register(ctx, req)
	assert.Equal(t, "password must be at least 6 characters", appError(t, err).Message)

	req = registerReq("surgeon@hospital.org")
	req.Role = "surgeon"
	req.FirstName = ""
	_, _, err = svc.Register(ctx, req)
	assert.Equal(t, "first name and last name are required", appError(t, err).Message)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, _, err := svc.Register(ctx, registerReq("nurse@hospital.org"))
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, registerReq("nurse@hospital.org"))
	assert.Equal(t, "user with this email already exists", appError(t, err).Message)
}

func TestLoginWrongCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, _, err := svc.Register(ctx, registerReq("nurse@hospital.org"))
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, &model.LoginRequest{
		Email:    "nurse@hospital.org",
		Password: "wrong-password",
	})
	appErr := appError(t, err)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
	assert.Equal(t, "invalid email or password", appErr.Message)

	_, _, err = svc.Login(ctx, &model.LoginRequest{
		Email:    "nobody@hospital.org",
		Password: "secret1",
	})
	assert.Equal(t, "invalid email or password", appError(t, err).Message)
}

func TestLogoutRevokesToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, tokens, err := svc.Register(ctx, registerReq("nurse@hospital.org"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, tokens.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, tokens.AccessToken))

	_, err = svc.ValidateToken(ctx, tokens.AccessToken)
	appErr := appError(t, err)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
	assert.Equal(t, "token has been revoked", appErr.Message)
}

func TestRefreshToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	user, tokens, err := svc.Register(ctx, registerReq("nurse@hospital.org"))
	require.NoError(t, err)

	fresh, err := svc.RefreshToken(ctx, tokens.RefreshToken)
	require.NoError(t, err)

	principal, err := svc.ValidateToken(ctx, fresh.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.UserID)

	// an access token is not a refresh token
	_, err = svc.RefreshToken(ctx, tokens.AccessToken)
	assert.Error(t, err)
}

func TestUpdateUserRole(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	user, _, err := svc.Register(ctx, registerReq("nurse@hospital.org"))
	require.NoError(t, err)

	updated, err := svc.UpdateUserRole(ctx, user.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, updated.Role)

	stored, err := svc.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, stored.Role)

	_, err = svc.UpdateUserRole(ctx, user.ID, "superuser")
	assert.Equal(t, apperrors.ErrBadRequest, appError(t, err).Code)

	_, err = svc.UpdateUserRole(ctx, "missing-id", "admin")
	assert.Equal(t, apperrors.ErrNotFound, appError(t, err).Code)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	user, _, err := svc.Register(ctx, registerReq("nurse@hospital.org"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, user.ID))

	_, err = svc.Profile(ctx, user.ID)
	assert.Equal(t, apperrors.ErrNotFound, appError(t, err).Code)

	err = svc.DeleteUser(ctx, user.ID)
	assert.Equal(t, apperrors.ErrNotFound, appError(t, err).Code)
}
