package patient

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

func newTestService() *Service {
	return NewService(docrepo.NewPatientRepository(memory.NewStore()), zerolog.Nop())
}

func createReq(first, last, mrn string) *model.CreatePatientRequest {
	return &model.CreatePatientRequest{
		FirstName:           first,
		LastName:            last,
		DateOfBirth:         time.Date(1990, 6, 20, 0, 0, 0, 0, time.UTC),
		MedicalRecordNumber: mrn,
	}
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	patient, err := svc.Create(ctx, "creator-id", createReq("Jane", "Doe", "MRN-1"))
	require.NoError(t, err)
	assert.NotEmpty(t, patient.ID)
	assert.Equal(t, "creator-id", patient.CreatedBy)
	assert.False(t, patient.CreatedAt.IsZero())

	got, err := svc.Get(ctx, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.FirstName)
	assert.Equal(t, "MRN-1", got.MedicalRecordNumber)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Create(ctx, "creator-id", &model.CreatePatientRequest{Contact: "abc"})
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
	assert.Contains(t, appErr.Message, "validation failed")
	assert.Contains(t, appErr.Message, "first name is required")
	assert.Contains(t, appErr.Message, "valid contact number is required")
}

func TestGetMissing(t *testing.T) {
	svc := newTestService()

	_, err := svc.Get(context.Background(), "missing")
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
	assert.Equal(t, "patient not found", appErr.Message)
}

func TestUpdateMergesAndRevalidates(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	patient, err := svc.Create(ctx, "creator-id", createReq("Jane", "Doe", "MRN-1"))
	require.NoError(t, err)

	newName := "Janet"
	updated, err := svc.Update(ctx, patient.ID, &model.UpdatePatientRequest{FirstName: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Janet", updated.FirstName)
	assert.Equal(t, "Doe", updated.LastName)

	blank := "  "
	_, err = svc.Update(ctx, patient.ID, &model.UpdatePatientRequest{LastName: &blank})
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Contains(t, appErr.Message, "last name is required")
}

func TestListAndSearch(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	names := [][2]string{{"Alice", "Smith"}, {"Bob", "Smithson"}, {"Carol", "Jones"}}
	for _, n := range names {
		_, err := svc.Create(ctx, "creator-id", createReq(n[0], n[1], "MRN-"+n[0]))
		require.NoError(t, err)
	}

	p := model.Pagination{Page: 1, Limit: 2}
	patients, pageInfo, err := svc.List(ctx, "", p)
	require.NoError(t, err)
	assert.Len(t, patients, 2)
	assert.Equal(t, 3, pageInfo.Total)
	assert.Equal(t, 2, pageInfo.TotalPages)

	patients, pageInfo, err = svc.List(ctx, "smith", model.Pagination{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, patients, 2)
	assert.Equal(t, 2, pageInfo.Total)

	results, err := svc.Search(ctx, "mrn-carol", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Carol", results[0].FirstName)

	results, err = svc.Search(ctx, "smith", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	patient, err := svc.Create(ctx, "creator-id", createReq("Jane", "Doe", "MRN-1"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, patient.ID))

	err = svc.Delete(ctx, patient.ID)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	now := time.Now().UTC()
	ages := []int{5, 25, 50, 80}
	for i, age := range ages {
		req := createReq("P", "Q", "MRN-"+string(rune('a'+i)))
		req.DateOfBirth = now.AddDate(-age, 0, -1)
		_, err := svc.Create(ctx, "creator-id", req)
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalPatients)
	assert.Equal(t, 4, stats.NewPatientsThisMonth)
	assert.Equal(t, 1, stats.PatientsByAgeGroup["0-17"])
	assert.Equal(t, 1, stats.PatientsByAgeGroup["18-39"])
	assert.Equal(t, 1, stats.PatientsByAgeGroup["40-64"])
	assert.Equal(t, 1, stats.PatientsByAgeGroup["65+"])
}
