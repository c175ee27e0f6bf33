package docrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/orlogbook/orlog-api/internal/docstore"
	"github.com/orlogbook/orlog-api/internal/model"
)

type PatientRepository struct {
	col docstore.Collection
}

func NewPatientRepository(store docstore.Store) *PatientRepository {
	return &PatientRepository{col: store.Collection(patientsCollection)}
}

func (r *PatientRepository) Create(ctx context.Context, patient *model.Patient) error {
	id, err := r.col.Add(ctx, patientToDocument(patient))
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	patient.ID = id
	return nil
}

func (r *PatientRepository) Get(ctx context.Context, id string) (*model.Patient, error) {
	snap, err := r.col.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return patientFromSnapshot(snap), nil
}

func (r *PatientRepository) Update(ctx context.Context, patient *model.Patient) error {
	return r.col.Update(ctx, patient.ID, patientToDocument(patient))
}

func (r *PatientRepository) Delete(ctx context.Context, id string) error {
	return r.col.Delete(ctx, id)
}

// List returns one page of patients, newest first. The document store has no
// substring operator, so a non-empty search term is applied in memory over the
// full collection before slicing the page.
func (r *PatientRepository) List(ctx context.Context, search string, p model.Pagination) ([]*model.Patient, int, error) {
	if search != "" {
		matched, err := r.findMatching(ctx, search)
		if err != nil {
			return nil, 0, err
		}

		total := len(matched)
		start := p.Offset()
		if start >= total {
			return []*model.Patient{}, total, nil
		}
		end := start + p.Limit
		if end > total {
			end = total
		}
		return matched[start:end], total, nil
	}

	snaps, err := r.col.Find(ctx, docstore.NewQuery().
		OrderBy("createdAt", true).
		WithOffset(p.Offset()).
		WithLimit(p.Limit))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list patients: %w", err)
	}

	total, err := r.col.Count(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	patients := make([]*model.Patient, 0, len(snaps))
	for _, snap := range snaps {
		patients = append(patients, patientFromSnapshot(snap))
	}
	return patients, total, nil
}

func (r *PatientRepository) Search(ctx context.Context, term string, limit int) ([]*model.Patient, error) {
	matched, err := r.findMatching(ctx, term)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *PatientRepository) ListAll(ctx context.Context) ([]*model.Patient, error) {
	snaps, err := r.col.Find(ctx, docstore.NewQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}

	patients := make([]*model.Patient, 0, len(snaps))
	for _, snap := range snaps {
		patients = append(patients, patientFromSnapshot(snap))
	}
	return patients, nil
}

// findMatching fetches the whole collection ordered newest first and keeps
// records whose name or medical record number contains the term,
// case-insensitively.
func (r *PatientRepository) findMatching(ctx context.Context, term string) ([]*model.Patient, error) {
	snaps, err := r.col.Find(ctx, docstore.NewQuery().OrderBy("createdAt", true))
	if err != nil {
		return nil, fmt.Errorf("failed to search patients: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(term))
	var matched []*model.Patient
	for _, snap := range snaps {
		patient := patientFromSnapshot(snap)
		haystack := strings.ToLower(patient.FullName() + " " + patient.MedicalRecordNumber)
		if strings.Contains(haystack, needle) {
			matched = append(matched, patient)
		}
	}
	return matched, nil
}

func patientToDocument(p *model.Patient) docstore.Document {
	doc := docstore.Document{
		"firstName":           p.FirstName,
		"lastName":            p.LastName,
		"medicalRecordNumber": p.MedicalRecordNumber,
		"contact":             p.Contact,
		"createdBy":           p.CreatedBy,
	}
	putTime(doc, "dateOfBirth", p.DateOfBirth)
	putTimePtr(doc, "admissionDate", p.AdmissionDate)
	putTime(doc, "createdAt", p.CreatedAt)
	putTime(doc, "updatedAt", p.UpdatedAt)
	return doc
}

func patientFromSnapshot(snap *docstore.Snapshot) *model.Patient {
	return &model.Patient{
		ID:                  snap.ID,
		FirstName:           stringAt(snap.Data, "firstName"),
		LastName:            stringAt(snap.Data, "lastName"),
		DateOfBirth:         timeAt(snap.Data, "dateOfBirth"),
		MedicalRecordNumber: stringAt(snap.Data, "medicalRecordNumber"),
		Contact:             stringAt(snap.Data, "contact"),
		AdmissionDate:       timePtrAt(snap.Data, "admissionDate"),
		CreatedBy:           stringAt(snap.Data, "createdBy"),
		CreatedAt:           timeAt(snap.Data, "createdAt"),
		UpdatedAt:           timeAt(snap.Data, "updatedAt"),
	}
}
