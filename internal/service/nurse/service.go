// Package nurse implements nurse profile management.
package nurse

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
	nurses repository.NurseRepository
	users  repository.UserRepository
	logger zerolog.Logger
}

func NewService(nurses repository.NurseRepository, users repository.UserRepository, logger zerolog.Logger) *Service {
	return &Service{nurses: nurses, users: users, logger: logger}
}

// Create adds a nurse profile linked to an existing user account, one per
// user.
func (s *Service) Create(ctx context.Context, req *model.CreateNurseRequest) (*model.Nurse, error) {
	nurse := &model.Nurse{
		UserID:        req.UserID,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Department:    req.Department,
		LicenseNumber: req.LicenseNumber,
		Contact:       req.Contact,
		CreatedAt:     time.Now().UTC(),
	}

	if result := nurse.Validate(); !result.Valid {
		return nil, apperrors.Validation(result.Errors)
	}

	if _, err := s.users.Get(ctx, req.UserID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, apperrors.Internal(err)
	}

	if _, err := s.nurses.GetByUserID(ctx, req.UserID); err == nil {
		return nil, apperrors.BadRequest("nurse profile already exists for this user", nil)
	} else if !errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	if err := s.nurses.Create(ctx, nurse); err != nil {
		return nil, apperrors.Internal(err)
	}
	return nurse, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.Nurse, error) {
	nurse, err := s.nurses.Get(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.NotFound("nurse", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return nurse, nil
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (*model.Nurse, error) {
	nurse, err := s.nurses.GetByUserID(ctx, userID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.NotFound("nurse profile", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return nurse, nil
}

func (s *Service) List(ctx context.Context, p model.Pagination) ([]*model.Nurse, model.PageInfo, error) {
	nurses, total, err := s.nurses.List(ctx, p)
	if err != nil {
		return nil, model.PageInfo{}, apperrors.Internal(err)
	}
	return nurses, model.NewPageInfo(p, total), nil
}

func (s *Service) Update(ctx context.Context, id string, req *model.UpdateNurseRequest) (*model.Nurse, error) {
	nurse, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		nurse.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		nurse.LastName = *req.LastName
	}
	if req.Department != nil {
		nurse.Department = *req.Department
	}
	if req.LicenseNumber != nil {
		nurse.LicenseNumber = *req.LicenseNumber
	}
	if req.Contact != nil {
		nurse.Contact = *req.Contact
	}

	if result := nurse.Validate(); !result.Valid {
		return nil, apperrors.Validation(result.Errors)
	}

	if err := s.nurses.Update(ctx, nurse); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperrors.NotFound("nurse", err)
		}
		return nil, apperrors.Internal(err)
	}
	return nurse, nil
}

// Delete removes the profile. The linked user account and any operations
// referencing the nurse are left in place.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.nurses.Delete(ctx, id); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}
