package model

import (
	"fmt"
	"time"
)

// Patient represents a patient record in the logbook.
type Patient struct {
	ID                  string     `json:"id"`
	FirstName           string     `json:"firstName"`
	LastName            string     `json:"lastName"`
	DateOfBirth         time.Time  `json:"dateOfBirth"`
	MedicalRecordNumber string     `json:"medicalRecordNumber"`
	Contact             string     `json:"contact,omitempty"`
	AdmissionDate       *time.Time `json:"admissionDate,omitempty"`
	CreatedBy           string     `json:"createdBy,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// Validate checks the candidate patient record, accumulating all violations.
func (p *Patient) Validate() ValidationResult {
	var errs []string

	if isBlank(p.FirstName) {
		errs = append(errs, "first name is required")
	}
	if isBlank(p.LastName) {
		errs = append(errs, "last name is required")
	}
	if p.DateOfBirth.IsZero() {
		errs = append(errs, "valid date of birth is required")
	}
	if isBlank(p.MedicalRecordNumber) {
		errs = append(errs, "medical record number is required")
	}
	if p.Contact != "" && !ValidPhone(p.Contact) {
		errs = append(errs, "valid contact number is required")
	}

	return newValidationResult(errs)
}

// Age computes the calendar-correct age at the given instant: the year
// difference, minus one if the birthday has not yet been reached.
func (p *Patient) Age(now time.Time) int {
	age := now.Year() - p.DateOfBirth.Year()
	birthMonth, birthDay := p.DateOfBirth.Month(), p.DateOfBirth.Day()
	if now.Month() < birthMonth || (now.Month() == birthMonth && now.Day() < birthDay) {
		age--
	}
	return age
}

func (p *Patient) FullName() string {
	return fmt.Sprintf("%s %s", p.FirstName, p.LastName)
}

type CreatePatientRequest struct {
	FirstName           string     `json:"firstName"`
	LastName            string     `json:"lastName"`
	DateOfBirth         time.Time  `json:"dateOfBirth"`
	MedicalRecordNumber string     `json:"medicalRecordNumber"`
	Contact             string     `json:"contact"`
	AdmissionDate       *time.Time `json:"admissionDate"`
}

type UpdatePatientRequest struct {
	FirstName           *string    `json:"firstName"`
	LastName            *string    `json:"lastName"`
	DateOfBirth         *time.Time `json:"dateOfBirth"`
	MedicalRecordNumber *string    `json:"medicalRecordNumber"`
	Contact             *string    `json:"contact"`
	AdmissionDate       *time.Time `json:"admissionDate"`
}

// PatientStats aggregates the patient collection for the admin dashboard.
type PatientStats struct {
	TotalPatients        int            `json:"totalPatients"`
	NewPatientsThisMonth int            `json:"newPatientsThisMonth"`
	PatientsByAgeGroup   map[string]int `json:"patientsByAgeGroup"`
}
