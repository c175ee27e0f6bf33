package docrepo

import (
	"context"
	"fmt"

	"github.com/orlogbook/orlog-api/internal/docstore"
	"github.com/orlogbook/orlog-api/internal/model"
)

type NurseRepository struct {
	col docstore.Collection
}

func NewNurseRepository(store docstore.Store) *NurseRepository {
	return &NurseRepository{col: store.Collection(nursesCollection)}
}

func (r *NurseRepository) Create(ctx context.Context, nurse *model.Nurse) error {
	id, err := r.col.Add(ctx, nurseToDocument(nurse))
	if err != nil {
		return fmt.Errorf("failed to create nurse: %w", err)
	}
	nurse.ID = id
	return nil
}

func (r *NurseRepository) Get(ctx context.Context, id string) (*model.Nurse, error) {
	snap, err := r.col.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return nurseFromSnapshot(snap), nil
}

func (r *NurseRepository) GetByUserID(ctx context.Context, userID string) (*model.Nurse, error) {
	snaps, err := r.col.Find(ctx, docstore.NewQuery().
		Where("userId", docstore.OpEqual, userID).
		WithLimit(1))
	if err != nil {
		return nil, fmt.Errorf("failed to find nurse by user: %w", err)
	}
	if len(snaps) == 0 {
		return nil, docstore.ErrNotFound
	}
	return nurseFromSnapshot(snaps[0]), nil
}

func (r *NurseRepository) List(ctx context.Context, p model.Pagination) ([]*model.Nurse, int, error) {
	snaps, err := r.col.Find(ctx, docstore.NewQuery().
		OrderBy("createdAt", true).
		WithOffset(p.Offset()).
		WithLimit(p.Limit))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list nurses: %w", err)
	}

	total, err := r.col.Count(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count nurses: %w", err)
	}

	nurses := make([]*model.Nurse, 0, len(snaps))
	for _, snap := range snaps {
		nurses = append(nurses, nurseFromSnapshot(snap))
	}
	return nurses, total, nil
}

func (r *NurseRepository) Update(ctx context.Context, nurse *model.Nurse) error {
	return r.col.Update(ctx, nurse.ID, nurseToDocument(nurse))
}

func (r *NurseRepository) Delete(ctx context.Context, id string) error {
	return r.col.Delete(ctx, id)
}

func nurseToDocument(n *model.Nurse) docstore.Document {
	doc := docstore.Document{
		"userId":        n.UserID,
		"firstName":     n.FirstName,
		"lastName":      n.LastName,
		"department":    n.Department,
		"licenseNumber": n.LicenseNumber,
		"contact":       n.Contact,
	}
	putTime(doc, "createdAt", n.CreatedAt)
	return doc
}

func nurseFromSnapshot(snap *docstore.Snapshot) *model.Nurse {
	return &model.Nurse{
		ID:            snap.ID,
		UserID:        stringAt(snap.Data, "userId"),
		FirstName:     stringAt(snap.Data, "firstName"),
		LastName:      stringAt(snap.Data, "lastName"),
		Department:    stringAt(snap.Data, "department"),
		LicenseNumber: stringAt(snap.Data, "licenseNumber"),
		Contact:       stringAt(snap.Data, "contact"),
		CreatedAt:     timeAt(snap.Data, "createdAt"),
	}
}
