package docrepo

import (
	"context"
	"fmt"

	"github.com/orlogbook/orlog-api/internal/docstore"
	"github.com/orlogbook/orlog-api/internal/model"
)

type SurgeonRepository struct {
	col docstore.Collection
}

func NewSurgeonRepository(store docstore.Store) *SurgeonRepository {
	return &SurgeonRepository{col: store.Collection(surgeonsCollection)}
}

func (r *SurgeonRepository) Create(ctx context.Context, surgeon *model.Surgeon) error {
	id, err := r.col.Add(ctx, surgeonToDocument(surgeon))
	if err != nil {
		return fmt.Errorf("failed to create surgeon: %w", err)
	}
	surgeon.ID = id
	return nil
}

func (r *SurgeonRepository) Get(ctx context.Context, id string) (*model.Surgeon, error) {
	snap, err := r.col.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return surgeonFromSnapshot(snap), nil
}

func (r *SurgeonRepository) GetByUserID(ctx context.Context, userID string) (*model.Surgeon, error) {
	snaps, err := r.col.Find(ctx, docstore.NewQuery().
		Where("userId", docstore.OpEqual, userID).
		WithLimit(1))
	if err != nil {
		return nil, fmt.Errorf("failed to find surgeon by user: %w", err)
	}
	if len(snaps) == 0 {
		return nil, docstore.ErrNotFound
	}
	return surgeonFromSnapshot(snaps[0]), nil
}

func (r *SurgeonRepository) List(ctx context.Context, p model.Pagination) ([]*model.Surgeon, int, error) {
	snaps, err := r.col.Find(ctx, docstore.NewQuery().
		OrderBy("createdAt", true).
		WithOffset(p.Offset()).
		WithLimit(p.Limit))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list surgeons: %w", err)
	}

	total, err := r.col.Count(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count surgeons: %w", err)
	}

	surgeons := make([]*model.Surgeon, 0, len(snaps))
	for _, snap := range snaps {
		surgeons = append(surgeons, surgeonFromSnapshot(snap))
	}
	return surgeons, total, nil
}

func (r *SurgeonRepository) Update(ctx context.Context, surgeon *model.Surgeon) error {
	return r.col.Update(ctx, surgeon.ID, surgeonToDocument(surgeon))
}

func (r *SurgeonRepository) Delete(ctx context.Context, id string) error {
	return r.col.Delete(ctx, id)
}

func surgeonToDocument(s *model.Surgeon) docstore.Document {
	doc := docstore.Document{
		"userId":         s.UserID,
		"firstName":      s.FirstName,
		"lastName":       s.LastName,
		"specialization": s.Specialization,
		"licenseNumber":  s.LicenseNumber,
		"contact":        s.Contact,
	}
	putTime(doc, "createdAt", s.CreatedAt)
	return doc
}

func surgeonFromSnapshot(snap *docstore.Snapshot) *model.Surgeon {
	return &model.Surgeon{
		ID:             snap.ID,
		UserID:         stringAt(snap.Data, "userId"),
		FirstName:      stringAt(snap.Data, "firstName"),
		LastName:       stringAt(snap.Data, "lastName"),
		Specialization: stringAt(snap.Data, "specialization"),
		LicenseNumber:  stringAt(snap.Data, "licenseNumber"),
		Contact:        stringAt(snap.Data, "contact"),
		CreatedAt:      timeAt(snap.Data, "createdAt"),
	}
}
