// Package operation implements the operation logbook: scheduling, status
// tracking, and the role-scoped listings.
package operation

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/orlogbook/orlog-api/internal/docstore"
	"github.com/orlogbook/orlog-api/internal/model"
	"github.com/orlogbook/orlog-api/internal/repository"
	apperrors "github.com/orlogbook/orlog-api/pkg/errors"
)

const (
	surgeonIDCacheTTL     = 5 * time.Minute
	surgeonIDCacheCleanup = 10 * time.Minute
)

type Service struct {
	operations repository.OperationRepository
	patients   repository.PatientRepository
	surgeons   repository.SurgeonRepository

	// surgeonIDs caches the user-id to surgeon-profile-id resolution used
	// on every surgeon-scoped listing.
	surgeonIDs *gocache.Cache
	logger     zerolog.Logger
}

func NewService(
	operations repository.OperationRepository,
	patients repository.PatientRepository,
	surgeons repository.SurgeonRepository,
	logger zerolog.Logger,
) *Service {
	return &Service{
		operations: operations,
		patients:   patients,
		surgeons:   surgeons,
		surgeonIDs: gocache.New(surgeonIDCacheTTL, surgeonIDCacheCleanup),
		logger:     logger,
	}
}

// Create logs a new operation. The creating user is recorded as the nurse of
// record, whatever their role. Patient and surgeon must exist at creation
// time; nothing prevents their later deletion.
func (s *Service) Create(ctx context.Context, principal *model.Principal, req *model.CreateOperationRequest) (*model.Operation, error) {
	status := model.OperationStatus(req.Status)
	if req.Status == "" {
		status = model.OperationStatusScheduled
	}

	now := time.Now().UTC()
	op := &model.Operation{
		PatientID:          req.PatientID,
		SurgeonID:          req.SurgeonID,
		NurseID:            principal.UserID,
		OperationType:      req.OperationType,
		OperationDate:      req.OperationDate,
		ScheduledStartTime: req.ScheduledStartTime,
		OperatingRoom:      req.OperatingRoom,
		AnesthesiaType:     req.AnesthesiaType,
		Anesthesiologist:   req.Anesthesiologist,
		AssistantSurgeons:  req.AssistantSurgeons,
		Notes:              req.Notes,
		Status:             status,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if result := op.Validate(); !result.Valid {
		return nil, apperrors.Validation(result.Errors)
	}

	if _, err := s.patients.Get(ctx, op.PatientID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, apperrors.Internal(err)
	}
	if _, err := s.surgeons.Get(ctx, op.SurgeonID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperrors.NotFound("surgeon", err)
		}
		return nil, apperrors.Internal(err)
	}

	if err := s.operations.Create(ctx, op); err != nil {
		return nil, apperrors.Internal(err)
	}
	return op, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.Operation, error) {
	op, err := s.operations.Get(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.NotFound("operation", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return op, nil
}

func (s *Service) List(ctx context.Context, filters *model.OperationFilters, p model.Pagination) ([]*model.Operation, model.PageInfo, error) {
	if filters != nil && filters.Status != "" && !model.ValidOperationStatus(string(filters.Status)) {
		return nil, model.PageInfo{}, apperrors.BadRequest(
			"status must be scheduled, in-progress, completed, or cancelled", nil)
	}

	ops, total, err := s.operations.List(ctx, filters, p)
	if err != nil {
		return nil, model.PageInfo{}, apperrors.Internal(err)
	}
	return ops, model.NewPageInfo(p, total), nil
}

// Update merges the sparse request into the stored record and revalidates.
// Reassigned patient or surgeon ids are checked for existence.
func (s *Service) Update(ctx context.Context, id string, req *model.UpdateOperationRequest) (*model.Operation, error) {
	op, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.PatientID != nil && *req.PatientID != op.PatientID {
		if _, err := s.patients.Get(ctx, *req.PatientID); err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				return nil, apperrors.NotFound("patient", err)
			}
			return nil, apperrors.Internal(err)
		}
		op.PatientID = *req.PatientID
	}
	if req.SurgeonID != nil && *req.SurgeonID != op.SurgeonID {
		if _, err := s.surgeons.Get(ctx, *req.SurgeonID); err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				return nil, apperrors.NotFound("surgeon", err)
			}
			return nil, apperrors.Internal(err)
		}
		op.SurgeonID = *req.SurgeonID
	}

	if req.OperationType != nil {
		op.OperationType = *req.OperationType
	}
	if req.OperationDate != nil {
		op.OperationDate = *req.OperationDate
	}
	if req.ScheduledStartTime != nil {
		op.ScheduledStartTime = req.ScheduledStartTime
	}
	if req.ActualStartTime != nil {
		op.ActualStartTime = req.ActualStartTime
	}
	if req.ActualEndTime != nil {
		op.ActualEndTime = req.ActualEndTime
	}
	if req.OperatingRoom != nil {
		op.OperatingRoom = *req.OperatingRoom
	}
	if req.AnesthesiaType != nil {
		op.AnesthesiaType = *req.AnesthesiaType
	}
	if req.Anesthesiologist != nil {
		op.Anesthesiologist = *req.Anesthesiologist
	}
	if req.AssistantSurgeons != nil {
		op.AssistantSurgeons = req.AssistantSurgeons
	}
	if req.Complications != nil {
		op.Complications = *req.Complications
	}
	if req.Outcomes != nil {
		op.Outcomes = *req.Outcomes
	}
	if req.Notes != nil {
		op.Notes = *req.Notes
	}
	if req.Status != nil {
		if !model.ValidOperationStatus(*req.Status) {
			return nil, apperrors.BadRequest(
				"status must be scheduled, in-progress, completed, or cancelled", nil)
		}
		op.Status = model.OperationStatus(*req.Status)
	}
	op.UpdatedAt = time.Now().UTC()

	if result := op.Validate(); !result.Valid {
		return nil, apperrors.Validation(result.Errors)
	}

	if err := s.operations.Update(ctx, op); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperrors.NotFound("operation", err)
		}
		return nil, apperrors.Internal(err)
	}
	return op, nil
}

// UpdateStatus moves the operation to any member of the status enumeration.
// Transitions are deliberately unrestricted, so a cancelled operation can be
// rescheduled.
func (s *Service) UpdateStatus(ctx context.Context, id string, req *model.UpdateOperationStatusRequest) (*model.Operation, error) {
	if !model.ValidOperationStatus(req.Status) {
		return nil, apperrors.BadRequest(
			"status must be scheduled, in-progress, completed, or cancelled", nil)
	}

	op, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	op.Status = model.OperationStatus(req.Status)
	if req.ActualStartTime != nil {
		op.ActualStartTime = req.ActualStartTime
	}
	if req.ActualEndTime != nil {
		op.ActualEndTime = req.ActualEndTime
	}
	if req.Notes != "" {
		op.Notes = req.Notes
	}
	op.UpdatedAt = time.Now().UTC()

	if err := s.operations.Update(ctx, op); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperrors.NotFound("operation", err)
		}
		return nil, apperrors.Internal(err)
	}
	return op, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.operations.Delete(ctx, id); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// ByDateRange lists operations within an inclusive date window. Both bounds
// are required.
func (s *Service) ByDateRange(ctx context.Context, start, end *time.Time, p model.Pagination) ([]*model.Operation, model.PageInfo, error) {
	if start == nil || end == nil {
		return nil, model.PageInfo{}, apperrors.BadRequest("start date and end date are required", nil)
	}

	filters := &model.OperationFilters{StartDate: start, EndDate: end}
	ops, total, err := s.operations.List(ctx, filters, p)
	if err != nil {
		return nil, model.PageInfo{}, apperrors.Internal(err)
	}
	return ops, model.NewPageInfo(p, total), nil
}

// Today lists operations dated within the current UTC day, bounded by the
// next midnight exclusive.
func (s *Service) Today(ctx context.Context, p model.Pagination) ([]*model.Operation, model.PageInfo, error) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	nextMidnight := start.Add(24 * time.Hour)

	filters := &model.OperationFilters{StartDate: &start, EndBefore: &nextMidnight}
	ops, total, err := s.operations.List(ctx, filters, p)
	if err != nil {
		return nil, model.PageInfo{}, apperrors.Internal(err)
	}
	return ops, model.NewPageInfo(p, total), nil
}

// Stats aggregates operations over an optional date window.
func (s *Service) Stats(ctx context.Context, startDate, endDate *time.Time) (*model.OperationStats, error) {
	filters := &model.OperationFilters{StartDate: startDate, EndDate: endDate}
	ops, err := s.operations.ListAll(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return model.AggregateOperationStats(ops), nil
}

// MyOperations lists operations scoped to the caller. Surgeons see the
// operations of their profile, nurses the ones they logged, admins
// everything.
func (s *Service) MyOperations(ctx context.Context, principal *model.Principal, status string, p model.Pagination) ([]*model.Operation, model.PageInfo, error) {
	filters := &model.OperationFilters{}
	if status != "" {
		if !model.ValidOperationStatus(status) {
			return nil, model.PageInfo{}, apperrors.BadRequest(
				"status must be scheduled, in-progress, completed, or cancelled", nil)
		}
		filters.Status = model.OperationStatus(status)
	}

	switch principal.Role {
	case model.RoleSurgeon:
		surgeonID, err := s.resolveSurgeonID(ctx, principal.UserID)
		if err != nil {
			return nil, model.PageInfo{}, err
		}
		filters.SurgeonID = surgeonID
	case model.RoleNurse:
		filters.NurseID = principal.UserID
	case model.RoleAdmin:
		// unscoped
	}

	ops, total, err := s.operations.List(ctx, filters, p)
	if err != nil {
		return nil, model.PageInfo{}, apperrors.Internal(err)
	}
	return ops, model.NewPageInfo(p, total), nil
}

func (s *Service) resolveSurgeonID(ctx context.Context, userID string) (string, error) {
	if id, ok := s.surgeonIDs.Get(userID); ok {
		return id.(string), nil
	}

	surgeon, err := s.surgeons.GetByUserID(ctx, userID)
	if errors.Is(err, docstore.ErrNotFound) {
		return "", apperrors.NotFound("surgeon profile", err)
	}
	if err != nil {
		return "", apperrors.Internal(err)
	}

	s.surgeonIDs.Set(userID, surgeon.ID, gocache.DefaultExpiration)
	return surgeon.ID, nil
}
