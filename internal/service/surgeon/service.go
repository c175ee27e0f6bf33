// Package surgeon implements surgeon profile management and the
// surgeon-scoped dashboard queries.
package surgeon

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/orlogbook/orlog-api/internal/docstore"
	"github.com/orlogbook/orlog-api/internal/model"
	"github.com/orlogbook/orlog-api/internal/repository"
	apperrors "github.com/orlogbook/orlog-api/pkg/errors"
)

const defaultUpcomingLimit = 10

type Service struct {
	surgeons   repository.SurgeonRepository
	users      repository.UserRepository
	patients   repository.PatientRepository
	operations repository.OperationRepository
	logger     zerolog.Logger
}

func NewService(
	surgeons repository.SurgeonRepository,
	users repository.UserRepository,
	patients repository.PatientRepository,
	operations repository.OperationRepository,
	logger zerolog.Logger,
) *Service {
	return &Service{
		surgeons:   surgeons,
		users:      users,
		patients:   patients,
		operations: operations,
		logger:     logger,
	}
}

// Create adds a surgeon profile linked to an existing user account. One
// profile per user; the existence check and the insert are separate steps, so
// concurrent requests can both pass the check.
func (s *Service) Create(ctx context.Context, req *model.CreateSurgeonRequest) (*model.Surgeon, error) {
	surgeon := &model.Surgeon{
		UserID:         req.UserID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
		Contact:        req.Contact,
		CreatedAt:      time.Now().UTC(),
	}

	if result := surgeon.Validate(); !result.Valid {
		return nil, apperrors.Validation(result.Errors)
	}

	if _, err := s.users.Get(ctx, req.UserID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, apperrors.Internal(err)
	}

	if _, err := s.surgeons.GetByUserID(ctx, req.UserID); err == nil {
		return nil, apperrors.BadRequest("surgeon profile already exists for this user", nil)
	} else if !errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	if err := s.surgeons.Create(ctx, surgeon); err != nil {
		return nil, apperrors.Internal(err)
	}
	return surgeon, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.Surgeon, error) {
	surgeon, err := s.surgeons.Get(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.NotFound("surgeon", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return surgeon, nil
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (*model.Surgeon, error) {
	surgeon, err := s.surgeons.GetByUserID(ctx, userID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.NotFound("surgeon profile", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return surgeon, nil
}

func (s *Service) List(ctx context.Context, p model.Pagination) ([]*model.Surgeon, model.PageInfo, error) {
	surgeons, total, err := s.surgeons.List(ctx, p)
	if err != nil {
		return nil, model.PageInfo{}, apperrors.Internal(err)
	}
	return surgeons, model.NewPageInfo(p, total), nil
}

func (s *Service) Update(ctx context.Context, id string, req *model.UpdateSurgeonRequest) (*model.Surgeon, error) {
	surgeon, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		surgeon.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		surgeon.LastName = *req.LastName
	}
	if req.Specialization != nil {
		surgeon.Specialization = *req.Specialization
	}
	if req.LicenseNumber != nil {
		surgeon.LicenseNumber = *req.LicenseNumber
	}
	if req.Contact != nil {
		surgeon.Contact = *req.Contact
	}

	if result := surgeon.Validate(); !result.Valid {
		return nil, apperrors.Validation(result.Errors)
	}

	if err := s.surgeons.Update(ctx, surgeon); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperrors.NotFound("surgeon", err)
		}
		return nil, apperrors.Internal(err)
	}
	return surgeon, nil
}

// Delete removes the profile. The linked user account and any operations
// referencing the surgeon are left in place.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.surgeons.Delete(ctx, id); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// Patients returns one page of the surgeon's operations together with the
// distinct patients they reference. A patient whose fetch fails is reported
// in FailedPatientIDs rather than failing the request.
func (s *Service) Patients(ctx context.Context, surgeonID string, p model.Pagination) (*model.SurgeonPatientsResult, error) {
	if _, err := s.Get(ctx, surgeonID); err != nil {
		return nil, err
	}

	filters := &model.OperationFilters{SurgeonID: surgeonID}
	ops, total, err := s.operations.List(ctx, filters, p)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	seen := make(map[string]bool)
	result := &model.SurgeonPatientsResult{
		Operations: ops,
		Patients:   []*model.Patient{},
		Pagination: model.NewPageInfo(p, total),
	}

	for _, op := range ops {
		if op.PatientID == "" || seen[op.PatientID] {
			continue
		}
		seen[op.PatientID] = true

		patient, err := s.patients.Get(ctx, op.PatientID)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("patient_id", op.PatientID).
				Str("operation_id", op.ID).
				Msg("patient lookup failed")
			result.FailedPatientIDs = append(result.FailedPatientIDs, op.PatientID)
			continue
		}
		result.Patients = append(result.Patients, patient)
	}

	return result, nil
}

// Upcoming returns the surgeon's next pending operations from the start of
// today, soonest first, each paired with its patient when the lookup
// succeeds.
func (s *Service) Upcoming(ctx context.Context, surgeonID string, limit int) ([]*model.UpcomingOperation, error) {
	if _, err := s.Get(ctx, surgeonID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultUpcomingLimit
	}

	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	ops, err := s.operations.Upcoming(ctx, surgeonID, startOfDay, limit)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	upcoming := make([]*model.UpcomingOperation, 0, len(ops))
	for _, op := range ops {
		entry := &model.UpcomingOperation{Operation: op}
		if op.PatientID != "" {
			patient, err := s.patients.Get(ctx, op.PatientID)
			if err != nil {
				s.logger.Warn().Err(err).
					Str("patient_id", op.PatientID).
					Str("operation_id", op.ID).
					Msg("patient lookup failed")
			} else {
				entry.Patient = patient
			}
		}
		upcoming = append(upcoming, entry)
	}

	return upcoming, nil
}

// Stats aggregates the surgeon's operations over an optional date window.
func (s *Service) Stats(ctx context.Context, surgeonID string, startDate, endDate *time.Time) (*model.OperationStats, error) {
	if _, err := s.Get(ctx, surgeonID); err != nil {
		return nil, err
	}

	filters := &model.OperationFilters{
		SurgeonID: surgeonID,
		StartDate: startDate,
		EndDate:   endDate,
	}
	ops, err := s.operations.ListAll(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return model.AggregateOperationStats(ops), nil
}
