package surgeon

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

type fixture struct {
	svc        *Service
	users      *docrepo.UserRepository
	patients   *docrepo.PatientRepository
	operations *docrepo.OperationRepository
}

func newFixture() *fixture {
	store := memory.NewStore()
	users := docrepo.NewUserRepository(store)
	patients := docrepo.NewPatientRepository(store)
	surgeons := docrepo.NewSurgeonRepository(store)
	operations := docrepo.NewOperationRepository(store)

	return &fixture{
		svc:        NewService(surgeons, users, patients, operations, zerolog.Nop()),
		users:      users,
		patients:   patients,
		operations: operations,
	}
}

func (f *fixture) addUser(t *testing.T, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, Role: model.RoleSurgeon, CreatedAt: time.Now().UTC()}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *fixture) addPatient(t *testing.T, first string) *model.Patient {
	t.Helper()
	patient := &model.Patient{
		FirstName:           first,
		LastName:            "Doe",
		DateOfBirth:         time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		MedicalRecordNumber: "MRN-" + first,
		CreatedAt:           time.Now().UTC(),
	}
	require.NoError(t, f.patients.Create(context.Background(), patient))
	return patient
}

func (f *fixture) addOperation(t *testing.T, surgeonID, patientID string, date time.Time, status model.OperationStatus) *model.Operation {
	t.Helper()
	op := &model.Operation{
		PatientID:     patientID,
		SurgeonID:     surgeonID,
		NurseID:       "nurse-uid",
		OperationType: "Appendectomy",
		OperationDate: date,
		Status:        status,
	}
	require.NoError(t, f.operations.Create(context.Background(), op))
	return op
}

func createReq(userID string) *model.CreateSurgeonRequest {
	return &model.CreateSurgeonRequest{
		UserID:         userID,
		FirstName:      "Gregory",
		LastName:       "House",
		Specialization: "Cardiology",
		LicenseNumber:  "LIC-42",
	}
}

func TestCreateRequiresUser(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), createReq("missing-user"))
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
	assert.Equal(t, "user not found", appErr.Message)
}

func TestCreateEnforcesOneProfilePerUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	user := f.addUser(t, "surgeon@hospital.org")

	first, err := f.svc.Create(ctx, createReq(user.ID))
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	_, err = f.svc.Create(ctx, createReq(user.ID))
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, "surgeon profile already exists for this user", appErr.Message)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()
	user := f.addUser(t, "surgeon@hospital.org")

	req := createReq(user.ID)
	req.Specialization = ""
	req.LicenseNumber = ""
	_, err := f.svc.Create(context.Background(), req)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Contains(t, appErr.Message, "specialization is required")
	assert.Contains(t, appErr.Message, "license number is required")
}

func TestPatientsReportsFailedLookups(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	user := f.addUser(t, "surgeon@hospital.org")
	surgeon, err := f.svc.Create(ctx, createReq(user.ID))
	require.NoError(t, err)

	patient := f.addPatient(t, "Alice")
	date := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	f.addOperation(t, surgeon.ID, patient.ID, date, model.OperationStatusCompleted)
	f.addOperation(t, surgeon.ID, "deleted-patient-id", date.AddDate(0, 0, 1), model.OperationStatusScheduled)
	f.addOperation(t, surgeon.ID, patient.ID, date.AddDate(0, 0, 2), model.OperationStatusScheduled)

	result, err := f.svc.Patients(ctx, surgeon.ID, model.Pagination{Page: 1, Limit: 10})
	require.NoError(t, err)

	assert.Len(t, result.Operations, 3)
	require.Len(t, result.Patients, 1)
	assert.Equal(t, patient.ID, result.Patients[0].ID)
	assert.Equal(t, []string{"deleted-patient-id"}, result.FailedPatientIDs)
	assert.Equal(t, 3, result.Pagination.Total)
}

func TestUpcomingOrdersSoonestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	user := f.addUser(t, "surgeon@hospital.org")
	surgeon, err := f.svc.Create(ctx, createReq(user.ID))
	require.NoError(t, err)

	patient := f.addPatient(t, "Alice")
	now := time.Now().UTC()
	late := f.addOperation(t, surgeon.ID, patient.ID, now.AddDate(0, 0, 5), model.OperationStatusScheduled)
	soon := f.addOperation(t, surgeon.ID, patient.ID, now.AddDate(0, 0, 1), model.OperationStatusInProgress)
	f.addOperation(t, surgeon.ID, patient.ID, now.AddDate(0, 0, 2), model.OperationStatusCompleted)
	f.addOperation(t, surgeon.ID, patient.ID, now.AddDate(0, 0, -3), model.OperationStatusScheduled)

	upcoming, err := f.svc.Upcoming(ctx, surgeon.ID, 10)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, soon.ID, upcoming[0].ID)
	assert.Equal(t, late.ID, upcoming[1].ID)
	require.NotNil(t, upcoming[0].Patient)
	assert.Equal(t, patient.ID, upcoming[0].Patient.ID)
}

func TestStatsAveragesOnlyUsableDurations(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	user := f.addUser(t, "surgeon@hospital.org")
	surgeon, err := f.svc.Create(ctx, createReq(user.ID))
	require.NoError(t, err)

	patient := f.addPatient(t, "Alice")
	date := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	completed := f.addOperation(t, surgeon.ID, patient.ID, date, model.OperationStatusCompleted)
	start := date.Add(8 * time.Hour)
	end := date.Add(10 * time.Hour)
	completed.ActualStartTime = &start
	completed.ActualEndTime = &end
	require.NoError(t, f.operations.Update(ctx, completed))

	f.addOperation(t, surgeon.ID, patient.ID, date.AddDate(0, 0, 1), model.OperationStatusScheduled)

	stats, err := f.svc.Stats(ctx, surgeon.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalOperations)
	assert.Equal(t, 1, stats.CompletedOperations)
	assert.Equal(t, 120, stats.TotalDuration)
	assert.Equal(t, 120, stats.AverageDuration)

	// window that excludes everything
	windowStart := date.AddDate(0, 1, 0)
	windowEnd := date.AddDate(0, 2, 0)
	stats, err = f.svc.Stats(ctx, surgeon.ID, &windowStart, &windowEnd)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalOperations)
	assert.Equal(t, 0, stats.AverageDuration)
}

func TestStatsUnknownSurgeon(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Stats(context.Background(), "missing", nil, nil)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}
