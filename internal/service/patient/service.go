// Package patient implements patient record management.
package patient

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

type Service struct {
	patients repository.PatientRepository
	logger   zerolog.Logger
}

func NewService(patients repository.PatientRepository, logger zerolog.Logger) *Service {
	return &Service{patients: patients, logger: logger}
}

func (s *Service) Create(ctx context.Context, createdBy string, req *model.CreatePatientRequest) (*model.Patient, error) {
	now := time.Now().UTC()
	patient := &model.Patient{
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		DateOfBirth:         req.DateOfBirth,
		MedicalRecordNumber: req.MedicalRecordNumber,
		Contact:             req.Contact,
		AdmissionDate:       req.AdmissionDate,
		CreatedBy:           createdBy,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if result := patient.Validate(); !result.Valid {
		return nil, apperrors.Validation(result.Errors)
	}

	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, apperrors.Internal(err)
	}
	return patient, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.Patient, error) {
	patient, err := s.patients.Get(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return patient, nil
}

func (s *Service) List(ctx context.Context, search string, p model.Pagination) ([]*model.Patient, model.PageInfo, error) {
	patients, total, err := s.patients.List(ctx, search, p)
	if err != nil {
		return nil, model.PageInfo{}, apperrors.Internal(err)
	}
	return patients, model.NewPageInfo(p, total), nil
}

func (s *Service) Search(ctx context.Context, term string, limit int) ([]*model.Patient, error) {
	patients, err := s.patients.Search(ctx, term, limit)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return patients, nil
}

// Update merges the sparse request into the stored record and revalidates the
// result before writing it back. Last write wins; there is no version check.
func (s *Service) Update(ctx context.Context, id string, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		patient.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		patient.LastName = *req.LastName
	}
	if req.DateOfBirth != nil {
		patient.DateOfBirth = *req.DateOfBirth
	}
	if req.MedicalRecordNumber != nil {
		patient.MedicalRecordNumber = *req.MedicalRecordNumber
	}
	if req.Contact != nil {
		patient.Contact = *req.Contact
	}
	if req.AdmissionDate != nil {
		patient.AdmissionDate = req.AdmissionDate
	}
	patient.UpdatedAt = time.Now().UTC()

	if result := patient.Validate(); !result.Valid {
		return nil, apperrors.Validation(result.Errors)
	}

	if err := s.patients.Update(ctx, patient); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, apperrors.Internal(err)
	}
	return patient, nil
}

// Delete removes the record. Operations referencing the patient are left in
// place and surface as failed lookups.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.patients.Delete(ctx, id); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// Stats aggregates the whole collection: total, records created in the
// current calendar month, and counts by age bracket.
func (s *Service) Stats(ctx context.Context) (*model.PatientStats, error) {
	patients, err := s.patients.ListAll(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	now := time.Now().UTC()
	stats := &model.PatientStats{
		TotalPatients: len(patients),
		PatientsByAgeGroup: map[string]int{
			"0-17":  0,
			"18-39": 0,
			"40-64": 0,
			"65+":   0,
		},
	}

	for _, patient := range patients {
		created := patient.CreatedAt
		if created.Year() == now.Year() && created.Month() == now.Month() {
			stats.NewPatientsThisMonth++
		}

		switch age := patient.Age(now); {
		case age < 18:
			stats.PatientsByAgeGroup["0-17"]++
		case age < 40:
			stats.PatientsByAgeGroup["18-39"]++
		case age < 65:
			stats.PatientsByAgeGroup["40-64"]++
		default:
			stats.PatientsByAgeGroup["65+"]++
		}
	}

	return stats, nil
}
