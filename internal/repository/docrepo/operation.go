package docrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/orlogbook/orlog-api/internal/docstore"
	"github.com/orlogbook/orlog-api/internal/model"
)

type OperationRepository struct {
	col docstore.Collection
}

func NewOperationRepository(store docstore.Store) *OperationRepository {
	return &OperationRepository{col: store.Collection(operationsCollection)}
}

func (r *OperationRepository) Create(ctx context.Context, op *model.Operation) error {
	id, err := r.col.Add(ctx, operationToDocument(op))
	if err != nil {
		return fmt.Errorf("failed to create operation: %w", err)
	}
	op.ID = id
	return nil
}

func (r *OperationRepository) Get(ctx context.Context, id string) (*model.Operation, error) {
	snap, err := r.col.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return operationFromSnapshot(snap), nil
}

func (r *OperationRepository) Update(ctx context.Context, op *model.Operation) error {
	return r.col.Update(ctx, op.ID, operationToDocument(op))
}

func (r *OperationRepository) Delete(ctx context.Context, id string) error {
	return r.col.Delete(ctx, id)
}

func (r *OperationRepository) List(ctx context.Context, filters *model.OperationFilters, p model.Pagination) ([]*model.Operation, int, error) {
	q := filterQuery(filters).
		OrderBy("operationDate", true).
		WithOffset(p.Offset()).
		WithLimit(p.Limit)

	snaps, err := r.col.Find(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list operations: %w", err)
	}

	total, err := r.col.Count(ctx, q.Predicates)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count operations: %w", err)
	}

	ops := make([]*model.Operation, 0, len(snaps))
	for _, snap := range snaps {
		ops = append(ops, operationFromSnapshot(snap))
	}
	return ops, total, nil
}

func (r *OperationRepository) ListAll(ctx context.Context, filters *model.OperationFilters) ([]*model.Operation, error) {
	snaps, err := r.col.Find(ctx, filterQuery(filters))
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}

	ops := make([]*model.Operation, 0, len(snaps))
	for _, snap := range snaps {
		ops = append(ops, operationFromSnapshot(snap))
	}
	return ops, nil
}

// Upcoming returns the surgeon's pending operations from the given moment
// onward, soonest first.
func (r *OperationRepository) Upcoming(ctx context.Context, surgeonID string, from time.Time, limit int) ([]*model.Operation, error) {
	q := docstore.NewQuery().
		Where("surgeonId", docstore.OpEqual, surgeonID).
		Where("status", docstore.OpIn, []string{
			string(model.OperationStatusScheduled),
			string(model.OperationStatusInProgress),
		}).
		Where("operationDate", docstore.OpGreaterOrEqual, docstore.EncodeTime(from)).
		OrderBy("operationDate", false).
		OrderBy("scheduledStartTime", false).
		WithLimit(limit)

	snaps, err := r.col.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming operations: %w", err)
	}

	ops := make([]*model.Operation, 0, len(snaps))
	for _, snap := range snaps {
		ops = append(ops, operationFromSnapshot(snap))
	}
	return ops, nil
}

func filterQuery(filters *model.OperationFilters) *docstore.Query {
	q := docstore.NewQuery()
	if filters == nil {
		return q
	}
	if filters.PatientID != "" {
		q.Where("patientId", docstore.OpEqual, filters.PatientID)
	}
	if filters.SurgeonID != "" {
		q.Where("surgeonId", docstore.OpEqual, filters.SurgeonID)
	}
	if filters.NurseID != "" {
		q.Where("nurseId", docstore.OpEqual, filters.NurseID)
	}
	if filters.OperatingRoom != "" {
		q.Where("operatingRoom", docstore.OpEqual, filters.OperatingRoom)
	}
	if filters.Status != "" {
		q.Where("status", docstore.OpEqual, string(filters.Status))
	}
	if filters.StartDate != nil {
		q.Where("operationDate", docstore.OpGreaterOrEqual, docstore.EncodeTime(*filters.StartDate))
	}
	if filters.EndDate != nil {
		q.Where("operationDate", docstore.OpLessOrEqual, docstore.EncodeTime(*filters.EndDate))
	}
	if filters.EndBefore != nil {
		q.Where("operationDate", docstore.OpLessThan, docstore.EncodeTime(*filters.EndBefore))
	}
	return q
}

func operationToDocument(o *model.Operation) docstore.Document {
	assistants := o.AssistantSurgeons
	if assistants == nil {
		assistants = []string{}
	}

	doc := docstore.Document{
		"patientId":         o.PatientID,
		"surgeonId":         o.SurgeonID,
		"nurseId":           o.NurseID,
		"operationType":     o.OperationType,
		"operatingRoom":     o.OperatingRoom,
		"anesthesiaType":    o.AnesthesiaType,
		"anesthesiologist":  o.Anesthesiologist,
		"assistantSurgeons": assistants,
		"complications":     o.Complications,
		"outcomes":          o.Outcomes,
		"notes":             o.Notes,
		"status":            string(o.Status),
	}
	putTime(doc, "operationDate", o.OperationDate)
	putTimePtr(doc, "scheduledStartTime", o.ScheduledStartTime)
	putTimePtr(doc, "actualStartTime", o.ActualStartTime)
	putTimePtr(doc, "actualEndTime", o.ActualEndTime)
	putTime(doc, "createdAt", o.CreatedAt)
	putTime(doc, "updatedAt", o.UpdatedAt)
	return doc
}

func operationFromSnapshot(snap *docstore.Snapshot) *model.Operation {
	return &model.Operation{
		ID:                 snap.ID,
		PatientID:          stringAt(snap.Data, "patientId"),
		SurgeonID:          stringAt(snap.Data, "surgeonId"),
		NurseID:            stringAt(snap.Data, "nurseId"),
		OperationType:      stringAt(snap.Data, "operationType"),
		OperationDate:      timeAt(snap.Data, "operationDate"),
		ScheduledStartTime: timePtrAt(snap.Data, "scheduledStartTime"),
		ActualStartTime:    timePtrAt(snap.Data, "actualStartTime"),
		ActualEndTime:      timePtrAt(snap.Data, "actualEndTime"),
		OperatingRoom:      stringAt(snap.Data, "operatingRoom"),
		AnesthesiaType:     stringAt(snap.Data, "anesthesiaType"),
		Anesthesiologist:   stringAt(snap.Data, "anesthesiologist"),
		AssistantSurgeons:  stringsAt(snap.Data, "assistantSurgeons"),
		Complications:      stringAt(snap.Data, "complications"),
		Outcomes:           stringAt(snap.Data, "outcomes"),
		Notes:              stringAt(snap.Data, "notes"),
		Status:             model.OperationStatus(stringAt(snap.Data, "status")),
		CreatedAt:          timeAt(snap.Data, "createdAt"),
		UpdatedAt:          timeAt(snap.Data, "updatedAt"),
	}
}
