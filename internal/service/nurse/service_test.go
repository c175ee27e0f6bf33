package nurse

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orlogbook/orlog-api/internal/docstore/memory"
	"github.com/orlogbook/orlog-api/internal/model"
	"github.com/orlogbook/orlog-api/internal/repository/docrepo"
	apperrors "github.com/orlogbook/orlog-api/pkg/errors"
)

func newFixture(t *testing.T) (*Service, *model.User) {
	t.Helper()
	store := memory.NewStore()
	users := docrepo.NewUserRepository(store)
	nurses := docrepo.NewNurseRepository(store)

	user := &model.User{Email: "nurse@hospital.org", Role: model.RoleNurse, CreatedAt: time.Now().UTC()}
	require.NoError(t, users.Create(context.Background(), user))

	return NewService(nurses, users, zerolog.Nop()), user
}

func createReq(userID string) *model.CreateNurseRequest {
	return &model.CreateNurseRequest{
		UserID:        userID,
		FirstName:     "Carla",
		LastName:      "Espinosa",
		Department:    "Surgery",
		LicenseNumber: "RN-17",
	}
}

func TestCreateGetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	svc, user := newFixture(t)

	nurse, err := svc.Create(ctx, createReq(user.ID))
	require.NoError(t, err)
	assert.NotEmpty(t, nurse.ID)

	byUser, err := svc.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, nurse.ID, byUser.ID)

	dept := "ICU"
	updated, err := svc.Update(ctx, nurse.ID, &model.UpdateNurseRequest{Department: &dept})
	require.NoError(t, err)
	assert.Equal(t, "ICU", updated.Department)
	assert.Equal(t, "Carla", updated.FirstName)

	require.NoError(t, svc.Delete(ctx, nurse.ID))
	_, err = svc.Get(ctx, nurse.ID)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestCreateEnforcesOneProfilePerUser(t *testing.T) {
	ctx := context.Background()
	svc, user := newFixture(t)

	_, err := svc.Create(ctx, createReq(user.ID))
	require.NoError(t, err)

	_, err = svc.Create(ctx, createReq(user.ID))
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, "nurse profile already exists for this user", appErr.Message)
}

func TestCreateRequiresUser(t *testing.T) {
	svc, _ := newFixture(t)

	_, err := svc.Create(context.Background(), createReq("missing-user"))
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, "user not found", appErr.Message)
}

func TestCreateValidation(t *testing.T) {
	svc, user := newFixture(t)

	req := createReq(user.ID)
	req.Department = ""
	req.Contact = "abc"
	_, err := svc.Create(context.Background(), req)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Contains(t, appErr.Message, "department is required")
	assert.Contains(t, appErr.Message, "valid contact number is required")
}
