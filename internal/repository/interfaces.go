package repository

import (
	"context"
	"time"

	"github.com/orlogbook/orlog-api/internal/model"
)

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, filters *model.UserFilters, p model.Pagination) ([]*model.User, int, error)
	UpdateRole(ctx context.Context, id string, role model.Role) error
	Delete(ctx context.Context, id string) error
}

// PatientRepository persists patient records.
type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id string) (*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, search string, p model.Pagination) ([]*model.Patient, int, error)
	Search(ctx context.Context, term string, limit int) ([]*model.Patient, error)
	ListAll(ctx context.Context) ([]*model.Patient, error)
}

// SurgeonRepository persists surgeon profiles.
type SurgeonRepository interface {
	Create(ctx context.Context, surgeon *model.Surgeon) error
	Get(ctx context.Context, id string) (*model.Surgeon, error)
	GetByUserID(ctx context.Context, userID string) (*model.Surgeon, error)
	List(ctx context.Context, p model.Pagination) ([]*model.Surgeon, int, error)
	Update(ctx context.Context, surgeon *model.Surgeon) error
	Delete(ctx context.Context, id string) error
}

// NurseRepository persists nurse profiles.
type NurseRepository interface {
	Create(ctx context.Context, nurse *model.Nurse) error
	Get(ctx context.Context, id string) (*model.Nurse, error)
	GetByUserID(ctx context.Context, userID string) (*model.Nurse, error)
	List(ctx context.Context, p model.Pagination) ([]*model.Nurse, int, error)
	Update(ctx context.Context, nurse *model.Nurse) error
	Delete(ctx context.Context, id string) error
}

// OperationRepository persists operation log entries.
type OperationRepository interface {
	Create(ctx context.Context, op *model.Operation) error
	Get(ctx context.Context, id string) (*model.Operation, error)
	Update(ctx context.Context, op *model.Operation) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters *model.OperationFilters, p model.Pagination) ([]*model.Operation, int, error)
	ListAll(ctx context.Context, filters *model.OperationFilters) ([]*model.Operation, error)
	Upcoming(ctx context.Context, surgeonID string, from time.Time, limit int) ([]*model.Operation, error)
}

// RevokedTokenRepository tracks revoked credential ids until they expire.
type RevokedTokenRepository interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
